package term

import (
	"bytes"
	"image"
	"image/color"
	"strconv"
)

// upperHalfBlock draws the top pixel of a cell in the foreground color and
// the bottom pixel in the background color.
const upperHalfBlock = "▀"

// ANSI writes escape sequences to a buffer.
type ANSI struct {
	*bytes.Buffer
}

func (a ANSI) CursorPosition(row, col int) {
	a.WriteString("\x1b[")
	a.WriteString(strconv.Itoa(row))
	a.WriteByte(';')
	a.WriteString(strconv.Itoa(col))
	a.WriteByte('H')
}

func (a ANSI) Clear()      { a.WriteString("\x1b[2J") }
func (a ANSI) HideCursor() { a.WriteString("\x1b[?25l") }
func (a ANSI) ShowCursor() { a.WriteString("\x1b[?25h") }
func (a ANSI) Reset()      { a.WriteString("\x1b[0m") }

func (a ANSI) Foreground(c color.RGBA) { a.trueColor(38, c) }
func (a ANSI) Background(c color.RGBA) { a.trueColor(48, c) }

func (a ANSI) trueColor(kind int, c color.RGBA) {
	a.WriteString("\x1b[")
	a.WriteString(strconv.Itoa(kind))
	a.WriteString(";2;")
	a.WriteString(strconv.Itoa(int(c.R)))
	a.WriteByte(';')
	a.WriteString(strconv.Itoa(int(c.G)))
	a.WriteByte(';')
	a.WriteString(strconv.Itoa(int(c.B)))
	a.WriteByte('m')
}

// encode draws img, two pixel rows per text row. Colors are only emitted
// when they change.
func encode(a ANSI, img *image.RGBA) {
	b := img.Bounds()
	a.CursorPosition(1, 1)
	for y := b.Min.Y; y < b.Max.Y; y += 2 {
		var fg, bg color.RGBA
		first := true
		for x := b.Min.X; x < b.Max.X; x++ {
			top := img.RGBAAt(x, y)
			bottom := color.RGBA{}
			if y+1 < b.Max.Y {
				bottom = img.RGBAAt(x, y+1)
			}
			if first || top != fg {
				a.Foreground(top)
				fg = top
			}
			if first || bottom != bg {
				a.Background(bottom)
				bg = bottom
			}
			first = false
			a.WriteString(upperHalfBlock)
		}
		a.Reset()
		if y+2 < b.Max.Y {
			a.WriteString("\r\n")
		}
	}
}
