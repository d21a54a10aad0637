package gpu

import (
	"errors"
	"fmt"
)

var (
	// ErrSurfaceBusy is returned when a texture is locked while another lock
	// is still held, or drawn from while locked.
	ErrSurfaceBusy = errors.New("surface is busy")
	// ErrReleased is returned when a released resource is used.
	ErrReleased = errors.New("resource already released")
	// ErrFormatMismatch is returned when a texture is used with an operation
	// that does not support its pixel format.
	ErrFormatMismatch = errors.New("unsupported pixel format for operation")
)

// CompileError carries the diagnostic of a failed program build verbatim.
type CompileError struct {
	Program string
	Stage   string
	Log     string
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("failed to compile %s shader of program %q:\n%s", e.Stage, e.Program, e.Log)
}
