package clock

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestManualClock(t *testing.T) {
	c := NewManual(100.0)
	assert.Equal(t, 100.0, c.Now())

	c.Advance(1.5)
	assert.Equal(t, 101.5, c.Now())

	c.Set(0)
	assert.Equal(t, 0.0, c.Now())
}

func TestSystemClockMonotonicEnough(t *testing.T) {
	var c System
	first := c.Now()
	second := c.Now()
	assert.GreaterOrEqual(t, second, first)
	assert.Greater(t, first, 0.0)
}
