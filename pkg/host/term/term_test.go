package term

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/draw"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pion/nv12play/pkg/event"
)

func TestFit(t *testing.T) {
	cases := map[string]struct {
		img  image.Rectangle
		ws   WinSize
		w, h int
	}{
		"WideTerminal": {image.Rect(0, 0, 640, 360), WinSize{Cols: 200, Rows: 40}, 142, 80},
		"TallTerminal": {image.Rect(0, 0, 640, 360), WinSize{Cols: 80, Rows: 100}, 80, 45},
		"Empty":        {image.Rect(0, 0, 640, 360), WinSize{}, 0, 0},
	}
	for name, c := range cases {
		c := c
		t.Run(name, func(t *testing.T) {
			w, h := fit(c.img, c.ws)
			assert.Equal(t, c.w, w)
			assert.Equal(t, c.h, h)
		})
	}
}

func TestEncode(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 2, 3))
	red := color.RGBA{R: 255, A: 255}
	blue := color.RGBA{B: 255, A: 255}
	img.SetRGBA(0, 0, red)
	img.SetRGBA(1, 0, red)
	img.SetRGBA(0, 1, blue)
	img.SetRGBA(1, 1, blue)

	var buf bytes.Buffer
	encode(ANSI{&buf}, img)
	out := buf.String()

	assert.True(t, strings.HasPrefix(out, "\x1b[1;1H"))
	// two text rows for three pixel rows
	assert.Equal(t, 1, strings.Count(out, "\r\n"))
	assert.Equal(t, 4, strings.Count(out, upperHalfBlock))
	// the second cell of the first row repeats colors, so they are not re-emitted
	assert.Equal(t, 1, strings.Count(out, "\x1b[38;2;255;0;0m"))
	assert.Equal(t, 1, strings.Count(out, "\x1b[48;2;0;0;255m"))
}

func TestDisplayShow(t *testing.T) {
	var out bytes.Buffer
	d := &Display{
		out:  &out,
		size: func() (WinSize, error) { return WinSize{Cols: 4, Rows: 1}, nil },
	}

	img := image.NewRGBA(image.Rect(0, 0, 8, 4))
	require.NoError(t, d.Show(img))
	first := out.String()
	assert.Contains(t, first, "\x1b[2J")
	assert.Contains(t, first, "\x1b[?25l")
	assert.Equal(t, 4, strings.Count(first, upperHalfBlock))

	out.Reset()
	require.NoError(t, d.Show(img))
	assert.NotContains(t, out.String(), "\x1b[2J", "screen is cleared only once")

	out.Reset()
	require.NoError(t, d.Close())
	assert.Contains(t, out.String(), "\x1b[?25h")
}

func TestDisplayFallbackSize(t *testing.T) {
	var out bytes.Buffer
	d := &Display{
		out:  &out,
		size: func() (WinSize, error) { return WinSize{}, errors.New("not a terminal") },
	}
	require.NoError(t, d.Show(image.NewRGBA(image.Rect(0, 0, 16, 9))))
	// 80x24 cells fit 80x45 pixels, drawn on 23 text rows
	assert.Equal(t, 80*23, strings.Count(out.String(), upperHalfBlock))
}

func TestKeyEvents(t *testing.T) {
	q := event.NewQueue(0)
	readKeys(strings.NewReader("aq\x03"), q)

	expected := []event.Event{
		{Type: event.Key, Code: 'a'},
		{Type: event.Quit, Code: 0},
		{Type: event.Quit, Code: 130},
	}
	for _, e := range expected {
		got, ok := q.Poll()
		require.True(t, ok)
		assert.Equal(t, e, got)
	}
	_, ok := q.Poll()
	assert.False(t, ok)
}

func TestEscapeSequencesDoNotQuit(t *testing.T) {
	testCases := map[string]struct {
		input    string
		expected []event.Event
	}{
		"ArrowKeys": {
			input:    "\x1b[A\x1b[Dx",
			expected: []event.Event{{Type: event.Key, Code: 'x'}},
		},
		"ModifiedArrow": {
			input:    "\x1b[1;5Cx",
			expected: []event.Event{{Type: event.Key, Code: 'x'}},
		},
		"FunctionKey": {
			input:    "\x1bOPx",
			expected: []event.Event{{Type: event.Key, Code: 'x'}},
		},
		"LoneEscape": {
			input:    "\x1b",
			expected: []event.Event{{Type: event.Quit, Code: 0}},
		},
	}
	for name, tc := range testCases {
		tc := tc
		t.Run(name, func(t *testing.T) {
			q := event.NewQueue(0)
			readKeys(strings.NewReader(tc.input), q)

			for _, e := range tc.expected {
				got, ok := q.Poll()
				require.True(t, ok)
				assert.Equal(t, e, got)
			}
			_, ok := q.Poll()
			assert.False(t, ok)
		})
	}
}

func TestDisplayShowFollowsTerminalSize(t *testing.T) {
	var out bytes.Buffer
	ws := WinSize{Cols: 4, Rows: 1}
	d := &Display{
		out:  &out,
		size: func() (WinSize, error) { return ws, nil },
	}

	img := image.NewRGBA(image.Rect(0, 0, 8, 4))
	draw.Draw(img, img.Rect, image.NewUniform(color.RGBA{G: 255, A: 255}), image.Point{}, draw.Src)

	require.NoError(t, d.Show(img))
	assert.Equal(t, 4, strings.Count(out.String(), upperHalfBlock))

	out.Reset()
	ws = WinSize{Cols: 8, Rows: 2}
	require.NoError(t, d.Show(img))
	// 8x4 pixels on two text rows, colors emitted once per row
	assert.Equal(t, 16, strings.Count(out.String(), upperHalfBlock))
	assert.Equal(t, 2, strings.Count(out.String(), "\x1b[38;2;0;255;0m"))
	assert.Equal(t, 2, strings.Count(out.String(), "\x1b[48;2;0;255;0m"))
}
