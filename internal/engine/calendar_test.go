package engine_test

import (
	"bytes"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/emersion/go-ical"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tartampluch/go-vakitmatik/internal/config"
	"github.com/tartampluch/go-vakitmatik/internal/engine"
)

func TestEncodeCalendar_Events(t *testing.T) {
	loc := time.FixedZone("Europe/Istanbul", 3*3600)
	now := time.Date(2025, 12, 20, 9, 0, 0, 0, time.UTC)

	data, count, err := engine.EncodeCalendar("Gebze", gebzeRecords()[:1], loc, now)

	require.NoError(t, err)
	assert.Equal(t, 6, count)

	// Decode the feed back to inspect the events.
	cal, err := ical.NewDecoder(bytes.NewReader(data)).Decode()
	require.NoError(t, err)

	events := cal.Events()
	require.Len(t, events, 6)

	first := events[0]
	summary, err := first.Props.Text(config.PropSummary)
	require.NoError(t, err)
	assert.Equal(t, "İmsak", summary)

	start, err := first.DateTimeStart(loc)
	require.NoError(t, err)
	assert.True(t, start.Equal(time.Date(2026, 1, 1, 6, 47, 0, 0, loc)), "got %s", start)

	uid, err := first.Props.Text(config.PropUID)
	require.NoError(t, err)
	assert.Equal(t, "gebze-2026-01-01-0@vakitmatik", uid)

	last, err := events[5].Props.Text(config.PropSummary)
	require.NoError(t, err)
	assert.Equal(t, "Yatsı", last)
}

func TestEncodeCalendar_SkipsUnplaceableRecords(t *testing.T) {
	records := []engine.DailyRecord{
		rec("01", "JANVIER", "06 47", "08 19", "13 11", "15 38", "17 55", "19 21"),
		rec("xx", "OCAK", "06 47", "08 19", "13 11", "15 38", "17 55", "19 21"),
		rec("02", "OCAK", "06 47", "", "13 11", "bad", "17 55", "19 21"),
	}

	_, count, err := engine.EncodeCalendar("Gebze", records, nil, time.Now())

	require.NoError(t, err)
	assert.Equal(t, 4, count, "only well-formed times of placeable days become events")
}

func TestEncodeCalendar_Empty(t *testing.T) {
	data, count, err := engine.EncodeCalendar("Gebze", nil, time.UTC, time.Now())

	require.NoError(t, err)
	assert.Zero(t, count)
	assert.Equal(t, config.StubVCalendar, string(data))
}
