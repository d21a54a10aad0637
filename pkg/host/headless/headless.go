// Package headless is a display that shows nothing. It counts presented
// frames and keeps a copy of the last one, for batch runs and tests.
package headless

import (
	"image"
	"sync"
)

// Display implements soft.Display.
type Display struct {
	mu     sync.Mutex
	frames int
	last   *image.RGBA
	onShow func(frame int, img *image.RGBA)
}

// New creates a Display. onShow, if not nil, is called for every frame with
// the device's back buffer; it must not keep img.
func New(onShow func(frame int, img *image.RGBA)) *Display {
	return &Display{onShow: onShow}
}

func (d *Display) Show(img *image.RGBA) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.last == nil || d.last.Rect != img.Rect {
		d.last = image.NewRGBA(img.Rect)
	}
	copy(d.last.Pix, img.Pix)
	d.frames++
	if d.onShow != nil {
		d.onShow(d.frames, img)
	}
	return nil
}

// Frames returns the number of frames shown.
func (d *Display) Frames() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.frames
}

// Last returns a copy of the last frame shown, or nil.
func (d *Display) Last() *image.RGBA {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.last == nil {
		return nil
	}
	c := image.NewRGBA(d.last.Rect)
	copy(c.Pix, d.last.Pix)
	return c
}
