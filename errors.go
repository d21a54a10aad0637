package nv12play

import (
	"errors"

	"github.com/pion/nv12play/pkg/gpu"
)

var errPlayerReleased = errors.New("player already released")

// IsTransient reports whether err only affects the current frame. The frame
// is dropped and playback continues with the next one.
func IsTransient(err error) bool {
	return errors.Is(err, gpu.ErrSurfaceBusy)
}
