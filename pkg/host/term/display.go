// Package term presents frames on a true color terminal and turns key
// presses into player events.
package term

import (
	"bytes"
	"errors"
	"image"
	"image/draw"
	"io"
	"os"

	"github.com/nfnt/resize"

	"github.com/pion/nv12play/internal/logging"
)

var logger = logging.NewLogger("host/term")

var errUnsupported = errors.New("terminal host is not supported on this platform")

// fallbackSize is used when the output is not a terminal.
var fallbackSize = WinSize{Cols: 80, Rows: 24}

// WinSize is the size of the terminal in character cells.
type WinSize struct {
	Rows int
	Cols int
}

// Display implements soft.Display on a terminal.
type Display struct {
	out     io.Writer
	size    func() (WinSize, error)
	buf     bytes.Buffer
	started bool
}

// NewDisplay creates a Display writing to os.Stdout.
func NewDisplay() *Display {
	return &Display{
		out:  os.Stdout,
		size: func() (WinSize, error) { return GetWinSize(os.Stdout) },
	}
}

// fit returns the largest pixel size with img's aspect ratio that fits in
// ws, counting two pixels per cell vertically.
func fit(img image.Rectangle, ws WinSize) (int, int) {
	maxW, maxH := ws.Cols, ws.Rows*2
	w, h := img.Dx(), img.Dy()
	if w == 0 || h == 0 || maxW == 0 || maxH == 0 {
		return 0, 0
	}
	if w*maxH > h*maxW {
		return maxW, h * maxW / w
	}
	return w * maxH / h, maxH
}

func (d *Display) Show(img *image.RGBA) error {
	ws, err := d.size()
	if err != nil {
		ws = fallbackSize
	}
	w, h := fit(img.Bounds(), ws)
	if w == 0 || h == 0 {
		return nil
	}

	resized := resize.Resize(uint(w), uint(h), img, resize.NearestNeighbor)
	scaled, ok := resized.(*image.RGBA)
	if !ok {
		scaled = image.NewRGBA(image.Rect(0, 0, w, h))
		draw.Draw(scaled, scaled.Rect, resized, resized.Bounds().Min, draw.Src)
	}

	d.buf.Reset()
	a := ANSI{&d.buf}
	if !d.started {
		a.Clear()
		a.HideCursor()
		d.started = true
	}
	encode(a, scaled)
	_, err = d.out.Write(d.buf.Bytes())
	return err
}

// Close restores the cursor.
func (d *Display) Close() error {
	if !d.started {
		return nil
	}
	var buf bytes.Buffer
	a := ANSI{&buf}
	a.Reset()
	a.ShowCursor()
	buf.WriteString("\r\n")
	_, err := d.out.Write(buf.Bytes())
	return err
}
