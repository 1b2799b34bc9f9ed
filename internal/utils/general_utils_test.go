package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestStrToTime(t *testing.T) {
	parsed, err := StrToTime("2024-06-01T12:30:00Z")

	assert.NoError(t, err)
	assert.Equal(t, time.Date(2024, 6, 1, 12, 30, 0, 0, time.UTC), parsed.UTC())
}

func TestStrToTime_RejectsNonRFC3339(t *testing.T) {
	for _, value := range []string{"", "yesterday", "2024-06-01 12:30:00"} {
		parsed, err := StrToTime(value)
		assert.Error(t, err, "value: %q", value)
		assert.Nil(t, parsed)
	}
}
