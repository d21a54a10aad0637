package logging

import (
	"bytes"
	"testing"

	"github.com/pion/logging"
	"github.com/stretchr/testify/assert"
)

func TestSetOutputAndLevelAffectExistingLoggers(t *testing.T) {
	l := NewLogger("test")

	var buf bytes.Buffer
	SetOutput(&buf)
	SetLevel(logging.LogLevelDebug)
	defer SetLevel(logging.LogLevelError)

	l.Debugf("frame %d", 7)
	assert.Contains(t, buf.String(), "nv12play/test")
	assert.Contains(t, buf.String(), "frame 7")

	buf.Reset()
	SetLevel(logging.LogLevelError)
	l.Infof("hidden")
	assert.Empty(t, buf.String())
}
