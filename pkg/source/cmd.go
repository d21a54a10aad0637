package source

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"reflect"
	"strings"
	"time"

	"github.com/google/shlex"

	"github.com/pion/nv12play/pkg/prop"
)

var errInvalidCommand = errors.New("invalid command")

// closeTimeout is how long Close waits for the command to exit after an
// interrupt before killing it.
const closeTimeout = 3 * time.Second

type cmdStream struct {
	io.Reader
	execCmd *exec.Cmd
	name    string

	// stderrDone is closed once standard error is drained; stderrTail holds
	// its last non-empty line.
	stderrDone chan struct{}
	stderrTail string
	waited     bool
}

// OpenCommand starts command and reads frames from its standard output, e.g.
//
//	ffmpeg -i in.mp4 -f rawvideo -pix_fmt nv12 -s 640x360 -
//
// The command line is split with shell quoting rules. The video properties are
// exported to the command as NV12PLAY_<Field> environment variables and the
// command's standard error is forwarded to the debug log.
func OpenCommand(command string, video prop.Video) (*Source, error) {
	if err := video.Validate(); err != nil {
		return nil, err
	}
	cmdArgs, err := shlex.Split(command) // split command string on whitespace, respecting quotes & comments
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errInvalidCommand, err)
	}
	if len(cmdArgs) == 0 || cmdArgs[0] == "" {
		return nil, errInvalidCommand
	}

	execCmd := exec.Command(cmdArgs[0], cmdArgs[1:]...)
	execCmd.Env = append(os.Environ(), envVarsFromStruct(video)...)

	stdErr, err := execCmd.StderrPipe()
	if err != nil {
		return nil, err
	}
	stdOut, err := execCmd.StdoutPipe()
	if err != nil {
		return nil, err
	}
	if err := execCmd.Start(); err != nil {
		return nil, fmt.Errorf("failed to start %s: %w", cmdArgs[0], err)
	}

	c := &cmdStream{
		Reader:     stdOut,
		execCmd:    execCmd,
		name:       cmdArgs[0],
		stderrDone: make(chan struct{}),
	}

	// send standard error to the log as debug lines prefixed with (<command> stderr)
	go func() {
		defer close(c.stderrDone)
		stderrPrefix := fmt.Sprintf("(%s stderr): ", cmdArgs[0])
		reader := bufio.NewReader(stdErr)
		for {
			line, err := reader.ReadBytes('\n')
			if len(line) > 0 {
				logger.Debug(stderrPrefix + string(line))
				if tail := strings.TrimSpace(string(line)); tail != "" {
					c.stderrTail = tail
				}
			}
			if err != nil {
				if !errors.Is(err, io.EOF) && !errors.Is(err, os.ErrClosed) {
					logger.Error(err.Error())
				}
				return
			}
		}
	}()

	s, err := New(c, video)
	if err != nil {
		_ = execCmd.Process.Kill()
		_ = c.wait()
		return nil, err
	}
	logger.Infof("reading %s frames from command %q", video, cmdArgs[0])
	return s, nil
}

// Read reads frames from the command's standard output. At the end of the
// output it waits for the command, and a failed command turns the end of
// stream into an error.
func (c *cmdStream) Read(p []byte) (int, error) {
	n, err := c.Reader.Read(p)
	if errors.Is(err, io.EOF) && !c.waited {
		if waitErr := c.wait(); waitErr != nil {
			return n, waitErr
		}
	}
	return n, err
}

// wait reaps the command once standard error has been drained.
func (c *cmdStream) wait() error {
	c.waited = true
	<-c.stderrDone
	err := c.execCmd.Wait()

	var exitErr *exec.ExitError
	if !errors.As(err, &exitErr) {
		return err
	}
	if c.stderrTail != "" {
		return fmt.Errorf("command %s failed: %w: %s", c.name, err, c.stderrTail)
	}
	return fmt.Errorf("command %s failed: %w", c.name, err)
}

// Close interrupts the command and waits for it, killing it if it does not
// exit in time. It is a no-op when the command already ran to completion.
func (c *cmdStream) Close() error {
	if c.execCmd.Process == nil || c.waited {
		return nil
	}

	_ = c.execCmd.Process.Signal(os.Interrupt)
	done := make(chan error, 1)
	go func() { done <- c.wait() }()
	select {
	case err := <-done:
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			// Interrupted on purpose.
			logger.Debugf("command exited: %v", err)
			return nil
		}
		return err
	case <-time.After(closeTimeout):
		return c.execCmd.Process.Kill()
	}
}

func envVarsFromStruct(props interface{}) []string {
	var env []string
	values := reflect.ValueOf(props)
	types := values.Type()
	for i := 0; i < values.NumField(); i++ {
		envVar := fmt.Sprintf("NV12PLAY_%s=%v", types.Field(i).Name, values.Field(i))
		env = append(env, envVar)
	}
	logger.Debugf("command environment: %v", env)
	return env
}
