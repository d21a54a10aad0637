package term

import (
	"bufio"
	"io"
	"os"

	"github.com/pion/nv12play/pkg/event"
)

const (
	keyCtrlC  = 0x03
	keyEscape = 0x1b
)

// exitInterrupted is the status of a process stopped by SIGINT.
const exitInterrupted = 130

// keyEvent maps a key press to a player event. q and a lone Escape quit cleanly;
// Ctrl-C quits with the interrupted status since raw mode swallows SIGINT.
func keyEvent(r rune) event.Event {
	switch r {
	case 'q', 'Q', keyEscape:
		return event.Event{Type: event.Quit, Code: 0}
	case keyCtrlC:
		return event.Event{Type: event.Quit, Code: exitInterrupted}
	default:
		return event.Event{Type: event.Key, Code: int(r)}
	}
}

func readKeys(r io.Reader, q *event.Queue) {
	reader := bufio.NewReader(r)
	for {
		ch, _, err := reader.ReadRune()
		if err != nil {
			if err != io.EOF {
				logger.Debugf("stopped reading keys: %v", err)
			}
			return
		}
		if ch == keyEscape && reader.Buffered() > 0 {
			// Arrow and function keys arrive as one escape sequence.
			skipEscapeSequence(reader)
			continue
		}
		q.Push(keyEvent(ch))
	}
}

// skipEscapeSequence consumes the rest of a sequence whose ESC was read. CSI
// and SS3 sequences end at the first byte in 0x40-0x7e; anything else is an
// Alt-modified key of one byte.
func skipEscapeSequence(reader *bufio.Reader) {
	b, err := reader.ReadByte()
	if err != nil || (b != '[' && b != 'O') {
		return
	}
	for reader.Buffered() > 0 {
		b, err := reader.ReadByte()
		if err != nil || (b >= 0x40 && b <= 0x7e) {
			return
		}
	}
}

// CaptureStdin puts stdin in raw mode and pushes key events to q. The
// returned function restores the terminal.
func CaptureStdin(q *event.Queue) (restore func() error, err error) {
	restore, err = makeRaw(int(os.Stdin.Fd()))
	if err != nil {
		return nil, err
	}
	go readKeys(os.Stdin, q)
	return restore, nil
}
