// Command nv12play plays a raw NV12 stream.
//
//	nv12play -i video.nv12 -renderer gpu
//	nv12play -cmd "ffmpeg -i in.mp4 -f rawvideo -pix_fmt nv12 -s 640x360 -"
//	nv12play -pattern 300 -display headless
//
// Without an input flag the path is read from standard input. Press q or
// Escape to stop.
package main

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/pion/logging"

	"github.com/pion/nv12play"
	ilogging "github.com/pion/nv12play/internal/logging"
	"github.com/pion/nv12play/pkg/event"
	"github.com/pion/nv12play/pkg/frame"
	"github.com/pion/nv12play/pkg/gpu"
	"github.com/pion/nv12play/pkg/gpu/soft"
	"github.com/pion/nv12play/pkg/host/headless"
	"github.com/pion/nv12play/pkg/host/term"
	"github.com/pion/nv12play/pkg/prop"
	"github.com/pion/nv12play/pkg/source"
)

const (
	displayTerm     = "term"
	displayHeadless = "headless"
)

type options struct {
	input    string
	command  string
	pattern  int
	width    int
	height   int
	fps      float64
	renderer string
	display  string
	verbose  bool
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stderr))
}

func parseFlags(args []string, stderr io.Writer) (options, error) {
	var o options
	fs := flag.NewFlagSet("nv12play", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&o.input, "i", "", "path to a raw NV12 file, - for standard input")
	fs.StringVar(&o.command, "cmd", "", "command writing raw NV12 frames to its standard output")
	fs.IntVar(&o.pattern, "pattern", -1, "play N frames of a generated test pattern, 0 plays forever")
	fs.IntVar(&o.width, "width", prop.DefaultVideo.Width, "frame width")
	fs.IntVar(&o.height, "height", prop.DefaultVideo.Height, "frame height")
	fs.Float64Var(&o.fps, "fps", float64(prop.DefaultVideo.FrameRate), "presentation rate")
	fs.StringVar(&o.renderer, "renderer", nv12play.RendererCPU, "color conversion: cpu (BT.601) or gpu (BT.709 shader)")
	fs.StringVar(&o.display, "display", displayTerm, "where frames are presented: term or headless")
	fs.BoolVar(&o.verbose, "v", false, "debug logging")
	if err := fs.Parse(args); err != nil {
		return o, err
	}

	switch o.display {
	case displayTerm, displayHeadless:
	default:
		return o, fmt.Errorf("unknown display %q", o.display)
	}
	return o, nil
}

func run(args []string, stdin io.Reader, stderr io.Writer) int {
	o, err := parseFlags(args, stderr)
	if err != nil {
		return 2
	}
	if o.verbose {
		ilogging.SetLevel(logging.LogLevelDebug)
	}
	ilogging.SetOutput(stderr)
	logger := ilogging.NewLogger("cmd")

	video := prop.DefaultVideo
	video.Merge(prop.Video{
		Width:       o.width,
		Height:      o.height,
		FrameRate:   float32(o.fps),
		FrameFormat: frame.FormatNV12,
	})
	if err := video.Validate(); err != nil {
		fmt.Fprintf(stderr, "invalid configuration: %v\n", err)
		return 1
	}

	src, err := openSource(o, video, stdin, stderr)
	if err != nil {
		fmt.Fprintf(stderr, "failed to open input: %v\n", err)
		return 1
	}

	events := event.NewQueue(0)
	stopSignals := event.NotifySignals(events)
	defer stopSignals()

	var display soft.Display
	switch o.display {
	case displayTerm:
		d := term.NewDisplay()
		defer d.Close()
		display = d

		if o.input != "-" {
			restore, err := term.CaptureStdin(events)
			if err != nil {
				logger.Warnf("keyboard input disabled: %v", err)
			} else {
				defer restore()
			}
		}
	case displayHeadless:
		display = headless.New(nil)
	}

	dev, err := soft.New(video.Width, video.Height, display)
	if err != nil {
		src.Close()
		fmt.Fprintf(stderr, "failed to create device: %v\n", err)
		return 1
	}

	player, err := nv12play.New(nv12play.Config{
		Video:    video,
		Renderer: o.renderer,
	}, src, dev, events)
	if err != nil {
		var compileErr *gpu.CompileError
		if errors.As(err, &compileErr) {
			fmt.Fprintf(stderr, "shader compilation failed (%s stage of %s):\n%s\n",
				compileErr.Stage, compileErr.Program, compileErr.Log)
		} else {
			fmt.Fprintf(stderr, "failed to initialize player: %v\n", err)
		}
		return 1
	}

	code, err := player.Run()
	if err != nil {
		fmt.Fprintf(stderr, "playback failed: %v\n", err)
		if code == 0 {
			code = 1
		}
	}
	return code
}

func openSource(o options, video prop.Video, stdin io.Reader, prompt io.Writer) (*source.Source, error) {
	switch {
	case o.command != "":
		return source.OpenCommand(o.command, video)
	case o.pattern >= 0:
		return source.NewPattern(video, o.pattern)
	case o.input == "-":
		return source.New(stdin, video)
	case o.input != "":
		return source.Open(o.input, video)
	}

	fmt.Fprint(prompt, "Enter path to NV12 raw file: ")
	path, err := bufio.NewReader(stdin).ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && path != "") {
		return nil, fmt.Errorf("no input path: %w", err)
	}
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("no input path")
	}
	return source.Open(path, video)
}
