package engine

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/emersion/go-ical"
	"github.com/tartampluch/go-vakitmatik/internal/config"
)

// prayerInstant combines a date with a device-form "HH MM" time.
func prayerInstant(date time.Time, hhmm string) (time.Time, bool) {
	t, err := time.Parse(config.TimeFormatDevice, hhmm)
	if err != nil {
		return time.Time{}, false
	}
	return time.Date(date.Year(), date.Month(), date.Day(), t.Hour(), t.Minute(), 0, 0, date.Location()), true
}

// EncodeCalendar renders the same records as an iCalendar feed with one
// event per prayer per day. now stamps every event (DTSTAMP).
func EncodeCalendar(location string, records []DailyRecord, loc *time.Location, now time.Time) ([]byte, int, error) {
	if loc == nil {
		loc = time.UTC
	}
	name := LocationName(location)

	cal := ical.NewCalendar()
	cal.Props.SetText(config.PropVersion, config.ICalVersion)
	cal.Props.SetText(config.PropProdid, config.ICalProdid)
	cal.Props.SetText(config.PropXWRCalName, config.ICalCalName+" - "+name)
	cal.Props.SetText(config.PropCalScale, config.ICalScale)
	cal.Props.SetText(config.PropMethod, config.ICalMethod)

	refreshProp := ical.NewProp(config.PropRefresh)
	refreshProp.SetDuration(config.DefaultICalRefresh)
	cal.Props.Set(refreshProp)

	dtStampProp := ical.NewProp(config.PropDTStamp)
	dtStampProp.SetDateTime(now.UTC())

	uidName := strings.ToLower(strings.ReplaceAll(name, " ", "-"))

	for _, rec := range records {
		date, ok := rec.Date(loc)
		if !ok {
			continue
		}
		for i, hhmm := range rec.Times {
			start, ok := prayerInstant(date, hhmm)
			if !ok {
				continue
			}

			event := ical.NewEvent()
			event.Props.SetText(config.PropUID, fmt.Sprintf(config.FormatUID, uidName, date.Format(config.DateFormatISO), i, config.ICalDomain))
			event.Props.SetText(config.PropSummary, config.PrayerLabels[i])
			event.Props.SetText(config.PropLocation, name)
			event.Props.Set(dtStampProp)

			dtStart := ical.NewProp(config.PropDTStart)
			dtStart.SetDateTime(start)
			event.Props.Set(dtStart)

			dtEnd := ical.NewProp(config.PropDTEnd)
			dtEnd.SetDateTime(start.Add(config.EventDuration))
			event.Props.Set(dtEnd)

			cal.Children = append(cal.Children, event.Component)
		}
	}

	if len(cal.Children) == 0 {
		return []byte(config.StubVCalendar), 0, nil
	}

	var buf bytes.Buffer
	if err := ical.NewEncoder(&buf).Encode(cal); err != nil {
		return nil, 0, fmt.Errorf("%s: %w", config.ErrICalEncode, err)
	}
	return buf.Bytes(), len(cal.Children), nil
}
