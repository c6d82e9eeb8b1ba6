package controllers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDateField(t *testing.T) {
	parsed, err := parseDateField("2025-04-09")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, time.April, 9, 0, 0, 0, 0, time.UTC), parsed)

	today, err := parseDateField("  ")
	require.NoError(t, err)
	assert.Equal(t, 0, today.Hour())
	assert.Equal(t, time.Now().Day(), today.Day())

	_, err = parseDateField("09/04/2025")
	assert.Error(t, err)
}

func TestMonthOrCurrent(t *testing.T) {
	m, err := monthOrCurrent("2025-04")
	require.NoError(t, err)
	assert.Equal(t, "2025-04", m)

	m, err = monthOrCurrent("")
	require.NoError(t, err)
	assert.Equal(t, time.Now().Format("2006-01"), m)

	_, err = monthOrCurrent("abril")
	assert.Error(t, err)
}

func TestFormatTimePtr(t *testing.T) {
	assert.Nil(t, formatTimePtr(nil))

	now := time.Date(2024, 5, 1, 12, 34, 56, 0, time.Local)
	formatted := formatTimePtr(&now)

	expected := now.UTC().Format(time.RFC3339)
	assert.Equal(t, expected, formatted)
}
