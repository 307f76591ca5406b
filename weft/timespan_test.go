package weft

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDescriptiveTimespanSingleYear(t *testing.T) {
	start := time.Date(2015, 3, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2015, 11, 1, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "2015", descriptiveTimespan(start, end))
}

func TestDescriptiveTimespanDecade(t *testing.T) {
	start := time.Date(1990, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "1990s", descriptiveTimespan(start, end))
}

func TestDescriptiveTimespanDecadeWithinBuffer(t *testing.T) {
	start := time.Date(1989, 12, 28, 0, 0, 0, 0, time.UTC)
	end := time.Date(2000, 1, 5, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "1990s", descriptiveTimespan(start, end))
}

func TestDescriptiveTimespanExplicitRange(t *testing.T) {
	start := time.Date(1994, 3, 17, 0, 0, 0, 0, time.UTC)
	end := time.Date(2003, 8, 2, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "1994-03-17-to-2003-08-02", descriptiveTimespan(start, end))
}
