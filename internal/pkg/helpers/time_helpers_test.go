package helpers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	date, err := ParseDate("2025-05-20")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 5, 20, 0, 0, 0, 0, time.UTC), date)

	for _, bad := range []string{"", "20/05/2025", "2025-13-01", "yesterday"} {
		_, err := ParseDate(bad)
		assert.Error(t, err, "input %q", bad)
	}
}

func TestFormatDate(t *testing.T) {
	assert.Equal(t, "2025-05-20", FormatDate(time.Date(2025, 5, 20, 14, 30, 0, 0, time.UTC)))
}

func TestParseDuration(t *testing.T) {
	assert.Equal(t, 2*time.Hour, ParseDuration("2h", time.Minute))
	assert.Equal(t, time.Minute, ParseDuration("not-a-duration", time.Minute))
}
