package logging

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHelpersWriteToBuffer(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, "debug")

	l.Successf("saved %s", "alpha")
	l.Noticef("connecting to %d hosts", 2)
	l.Warnf("not mounted")
	l.Errorf("failed: %v", "boom")
	l.Debug("details")

	out := buf.String()
	assert.Contains(t, out, "saved alpha")
	assert.Contains(t, out, "connecting to 2 hosts")
	assert.Contains(t, out, "not mounted")
	assert.Contains(t, out, "failed: boom")
	assert.Contains(t, out, "details")
}

func TestUnknownLevelFallsBackToInfo(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, "chatty")

	l.Debug("hidden")
	l.Noticef("shown")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
}

func TestLevelFiltersWarnings(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, "error")

	l.Warnf("quiet")
	l.Errorf("loud")

	assert.NotContains(t, buf.String(), "quiet")
	assert.Contains(t, buf.String(), "loud")
}
