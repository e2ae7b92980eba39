package logger

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLogger_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(&buf, "warn", nil)

	log.Info("CreateBooking: user=%d", 42)
	log.Warn("CreateBooking: slot taken court=%d", 7)

	out := buf.String()
	assert.NotContains(t, out, "user=42")
	assert.Contains(t, out, "slot taken court=7")
	assert.Contains(t, out, "level=WARN")
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, "DEBUG", parseLevel("debug").String())
	assert.Equal(t, "WARN", parseLevel("WARNING").String())
	assert.Equal(t, "INFO", parseLevel("unknown").String())
}
