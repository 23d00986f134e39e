package format

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCount(t *testing.T) {
	cases := map[int]string{
		0:         "0",
		12:        "12",
		999:       "999",
		1_000:     "1k",
		1_250:     "1.2k",
		9_999:     "9.9k",
		12_345:    "12k",
		999_999:   "999k",
		1_000_000: "1m",
		3_450_000: "3.4m",
		-1_500:    "-1.5k",
	}
	for n, want := range cases {
		assert.Equal(t, want, Count(n), "Count(%d)", n)
	}
}

func TestDate(t *testing.T) {
	now := time.Date(2024, time.June, 15, 12, 0, 0, 0, time.UTC)

	assert.Equal(t, "just now", Date(now.Add(-30*time.Second), now))
	assert.Equal(t, "5m", Date(now.Add(-5*time.Minute), now))
	assert.Equal(t, "3h", Date(now.Add(-3*time.Hour), now))
	assert.Equal(t, "6d", Date(now.Add(-6*24*time.Hour), now))
	assert.Equal(t, "Mar 2", Date(time.Date(2024, time.March, 2, 0, 0, 0, 0, time.UTC), now))
	assert.Equal(t, "Dec 31, 2023", Date(time.Date(2023, time.December, 31, 0, 0, 0, 0, time.UTC), now))
}
