package utils

import (
	"bytes"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestOperationTimer(t *testing.T) {
	var buf bytes.Buffer
	log := zerolog.New(&buf).Level(zerolog.DebugLevel)

	var observed time.Duration
	stop := OperationTimer("render", log, func(d time.Duration) { observed = d })
	time.Sleep(2 * time.Millisecond)
	stop()

	assert.GreaterOrEqual(t, observed, 2*time.Millisecond)
	assert.Contains(t, buf.String(), `"operation":"render"`)
	assert.Contains(t, buf.String(), "Operation completed")
}
