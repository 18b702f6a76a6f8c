package timeutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRealClock_Now(t *testing.T) {
	clock := NewRealClock()

	before := time.Now()
	now := clock.Now()
	after := time.Now()

	// The clock time should be between before and after
	assert.False(t, now.Before(before), "clock time should not be before start")
	assert.False(t, now.After(after), "clock time should not be after end")
}

func TestMockClock_Now(t *testing.T) {
	fixedTime := time.Date(2025, 12, 15, 10, 30, 0, 0, time.UTC)
	clock := NewMockClock(fixedTime)

	// Should always return the fixed time
	assert.Equal(t, fixedTime, clock.Now())
	assert.Equal(t, fixedTime, clock.Now())
	assert.Equal(t, fixedTime, clock.Now())
}

func TestMockClock_Set(t *testing.T) {
	initialTime := time.Date(2025, 12, 15, 10, 0, 0, 0, time.UTC)
	newTime := time.Date(2025, 12, 15, 14, 30, 0, 0, time.UTC)

	clock := NewMockClock(initialTime)
	assert.Equal(t, initialTime, clock.Now())

	clock.Set(newTime)
	assert.Equal(t, newTime, clock.Now())
}

func TestMockClock_Advance(t *testing.T) {
	initialTime := time.Date(2025, 12, 15, 10, 0, 0, 0, time.UTC)
	clock := NewMockClock(initialTime)

	clock.Advance(30 * time.Minute)

	expected := time.Date(2025, 12, 15, 10, 30, 0, 0, time.UTC)
	assert.Equal(t, expected, clock.Now())
}

func TestMockClock_NegativeAdvance(t *testing.T) {
	initialTime := time.Date(2025, 12, 15, 10, 0, 0, 0, time.UTC)
	clock := NewMockClock(initialTime)

	// Can go backwards too
	clock.Advance(-2 * time.Hour)

	expected := time.Date(2025, 12, 15, 8, 0, 0, 0, time.UTC)
	assert.Equal(t, expected, clock.Now())
}

func TestMockClock_MultipleAdvances(t *testing.T) {
	initialTime := time.Date(2025, 12, 15, 10, 0, 0, 0, time.UTC)
	clock := NewMockClock(initialTime)

	clock.Advance(30 * time.Minute)
	clock.Advance(2 * time.Hour)
	clock.Advance(24 * time.Hour)

	expected := time.Date(2025, 12, 16, 12, 30, 0, 0, time.UTC)
	assert.Equal(t, expected, clock.Now())
}
