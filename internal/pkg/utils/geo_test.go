package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHaversineDistance(t *testing.T) {
	// Washington, DC -> San Francisco
	d := HaversineDistance(38.9072, -77.0369, 37.7749, -122.4194)
	assert.InDelta(t, 3924, d, 10)

	assert.Equal(t, 0.0, HaversineDistance(10, 10, 10, 10))
}

func TestRoundTo(t *testing.T) {
	assert.Equal(t, 1.23, RoundTo(1.2345, 2))
	assert.Equal(t, 2.0, RoundTo(1.999, 1))
}
