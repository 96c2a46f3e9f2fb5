package clock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSystemClock_ReturnsUTC(t *testing.T) {
	now := SystemClock{}.Now()
	assert.Equal(t, time.UTC, now.Location())
	assert.WithinDuration(t, time.Now(), now, time.Second)
}

func TestFixedClock_SetAndAdvance(t *testing.T) {
	start := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	c := &FixedClock{T: start}

	assert.Equal(t, start, c.Now())

	c.Advance(90 * time.Second)
	assert.Equal(t, start.Add(90*time.Second), c.Now())

	later := start.Add(24 * time.Hour)
	c.Set(later)
	assert.Equal(t, later, c.Now())
}
