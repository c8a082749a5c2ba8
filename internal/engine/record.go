package engine

import (
	"strconv"
	"time"

	"github.com/tartampluch/go-vakitmatik/internal/config"
)

// KSatSentinel fills the seventh device column (K.SAT). The source data never
// populates it but the Vakitmatik firmware expects it on every line.
const KSatSentinel = "00 00"

// DailyRecord is one calendar day of the schedule, already canonicalized for
// the device format.
type DailyRecord struct {
	// Day is the two-digit day of month ("01".."31").
	Day string

	// Month is the canonical uppercase ASCII token (OCAK..ARALIK), or the
	// uppercased raw token when the source used an unknown spelling.
	Month string

	// Year is the four-digit year.
	Year string

	// Hijri is the trimmed display text of the Hijri date column, possibly empty.
	Hijri string

	// Times holds imsak, güneş, öğle, ikindi, akşam and yatsı in "HH MM" form.
	Times [config.PrayerCount]string
}

// Date resolves the record to midnight in loc. Records whose month fell back
// to a raw token cannot be placed on a calendar and report false.
func (r DailyRecord) Date(loc *time.Location) (time.Time, bool) {
	idx, ok := LookupMonth(r.Month)
	if !ok {
		return time.Time{}, false
	}
	day, err := strconv.Atoi(r.Day)
	if err != nil {
		return time.Time{}, false
	}
	year, err := strconv.Atoi(r.Year)
	if err != nil {
		return time.Time{}, false
	}
	return time.Date(year, time.Month(idx+1), day, 0, 0, 0, 0, loc), true
}

// FindRecord returns the record falling on day's calendar date, compared in
// day's own location.
func FindRecord(records []DailyRecord, day time.Time) (DailyRecord, bool) {
	y, m, d := day.Date()
	for _, rec := range records {
		t, ok := rec.Date(day.Location())
		if !ok {
			continue
		}
		if ty, tm, td := t.Date(); ty == y && tm == m && td == d {
			return rec, true
		}
	}
	return DailyRecord{}, false
}
