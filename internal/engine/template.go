package engine

import (
	"strings"

	"github.com/tartampluch/go-vakitmatik/internal/config"
)

// RenderTemplate fills every {{placeholder}} in tmpl from one day's record.
//
//	{{date}}   day, canonical month and year ("01 OCAK 2026")
//	{{hijri}}  Hijri date text as read from the workbook
//	{{city}}   header form of location
//	{{imsak}} {{gunes}} {{ogle}} {{ikindi}} {{aksam}} {{yatsi}}  "HH:MM"
//
// Substitution is a single pass, so values are never themselves expanded.
// Unknown placeholders are left as written.
func RenderTemplate(tmpl, location string, rec DailyRecord) string {
	pairs := []string{
		config.PlaceholderDate, strings.Join([]string{rec.Day, rec.Month, rec.Year}, " "),
		config.PlaceholderHijri, rec.Hijri,
		config.PlaceholderCity, LocationName(location),
	}
	for i, ph := range config.PrayerPlaceholders {
		pairs = append(pairs, ph, strings.ReplaceAll(rec.Times[i], config.DeviceSeparator, config.TimeSeparator))
	}
	return strings.NewReplacer(pairs...).Replace(tmpl)
}
