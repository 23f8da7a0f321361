package storage

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDate_JSON(t *testing.T) {
	d, err := ParseDate("2024-06-10")
	assert.NoError(t, err)

	out, err := json.Marshal(d)
	assert.NoError(t, err)
	assert.Equal(t, `"2024-06-10"`, string(out))

	var back Date
	assert.NoError(t, json.Unmarshal([]byte(`"2024-06-10"`), &back))
	assert.Equal(t, d, back)

	assert.Error(t, json.Unmarshal([]byte(`"10.06.2024"`), &back))
}

func TestDate_ScanFromDriver(t *testing.T) {
	var d Date

	// parseTime=true yields time.Time from DATE columns.
	assert.NoError(t, d.Scan(time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, "2024-06-10", d.String())

	// Without parseTime the driver hands back raw bytes.
	assert.NoError(t, d.Scan([]byte("2024-06-10")))
	assert.Equal(t, "2024-06-10", d.String())

	assert.Error(t, d.Scan(42))
}

func TestNewDate_NormalizesToUTCMidnight(t *testing.T) {
	loc, err := time.LoadLocation("Europe/Amsterdam")
	assert.NoError(t, err)

	d := NewDate(time.Date(2024, 6, 10, 23, 45, 0, 0, loc))
	assert.Equal(t, "2024-06-10", d.String())
}
