package shell

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRecordingOpener(t *testing.T) {
	var o RecordingOpener

	assert.NoError(t, o.Open("/tmp/a.pdf"))
	assert.NoError(t, o.Open("/tmp/b.pdf"))
	assert.Equal(t, []string{"/tmp/a.pdf", "/tmp/b.pdf"}, o.Paths())
}

func TestRecordingOpener_Error(t *testing.T) {
	boom := errors.New("no viewer")
	o := &RecordingOpener{Err: boom}

	assert.ErrorIs(t, o.Open("/tmp/a.pdf"), boom)
	assert.Equal(t, []string{"/tmp/a.pdf"}, o.Paths())
}

var _ Opener = SystemOpener{}
var _ Opener = (*RecordingOpener)(nil)
