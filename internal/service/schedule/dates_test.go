package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestMidnight_StripsTimeOfDay(t *testing.T) {
	in := time.Date(2024, 6, 10, 17, 45, 12, 999, time.UTC)
	assert.Equal(t, date(2024, 6, 10), Midnight(in))
}

func TestDateFromOffset(t *testing.T) {
	ref := date(2024, 6, 10)

	assert.Equal(t, date(2024, 6, 7), DateFromOffset(ref, 3))
	assert.Equal(t, date(2024, 6, 10), DateFromOffset(ref, 0))
	// Negative offsets land after the reference day.
	assert.Equal(t, date(2024, 6, 11), DateFromOffset(ref, -1))
}

func TestDateFromOffset_IgnoresTimeOfDay(t *testing.T) {
	ref := time.Date(2024, 6, 10, 23, 30, 0, 0, time.UTC)
	assert.Equal(t, date(2024, 6, 7), DateFromOffset(ref, 3))
}

func TestOffsetFromDate_RoundTrip(t *testing.T) {
	ref := date(2024, 6, 10)

	for _, offset := range []int{0, 1, 3, 7, 30, 365} {
		target := DateFromOffset(ref, offset)
		assert.Equal(t, offset, OffsetFromDate(ref, target), "offset %d", offset)
	}
}

func TestOffsetFromDate_ClampsToZero(t *testing.T) {
	ref := date(2024, 6, 10)

	assert.Equal(t, 0, OffsetFromDate(ref, date(2024, 6, 11)))
	assert.Equal(t, 0, OffsetFromDate(ref, date(2024, 7, 1)))
}

func TestValidateOffsets(t *testing.T) {
	five := 5
	two := 2
	negative := -1

	assert.NoError(t, ValidateOffsets(3, nil))
	assert.NoError(t, ValidateOffsets(0, nil))
	assert.NoError(t, ValidateOffsets(2, &five))
	assert.NoError(t, ValidateOffsets(5, &five))

	assert.Error(t, ValidateOffsets(-1, nil))
	assert.Error(t, ValidateOffsets(0, &negative))
	// Alert before the critical offset would put the alert after the due date.
	assert.Error(t, ValidateOffsets(5, &two))
}
