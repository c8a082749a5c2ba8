package engine

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/tartampluch/go-vakitmatik/internal/config"
)

var (
	// textDatePattern matches "15 Ocak 2026" and tolerates a trailing weekday
	// ("15 Ocak 2026 Perşembe") as the Diyanet export sometimes appends one.
	textDatePattern = regexp.MustCompile(`^(\d{2})\s+([a-zA-ZİıŞşÇçĞğÜüÖö]+)\s+(\d{4})`)

	// dottedDatePattern matches "03.02.2026" exactly.
	dottedDatePattern = regexp.MustCompile(`^(\d{2})\.(\d{2})\.(\d{4})$`)
)

// prayerColumns lists the workbook columns holding the six prayer times, in
// device order.
var prayerColumns = [config.PrayerCount]int{
	config.ColImsak,
	config.ColGunes,
	config.ColOgle,
	config.ColIkindi,
	config.ColAksam,
	config.ColYatsi,
}

// NormalizeRow converts one raw row into a DailyRecord. The boolean is false
// when the row carries no recognizable date (headers, metadata, blank rows);
// such rows are skipped, never reported as errors.
func NormalizeRow(row Row) (DailyRecord, bool) {
	day, month, year, ok := parseDateCell(row.Cell(config.ColDate))
	if !ok {
		return DailyRecord{}, false
	}

	rec := DailyRecord{
		Day:   day,
		Month: month,
		Year:  year,
		Hijri: strings.TrimSpace(cellText(row.Cell(config.ColHijri), config.DateFormatDotted)),
	}
	for i, col := range prayerColumns {
		rec.Times[i] = NormalizeTime(row.Cell(col))
	}
	return rec, true
}

// NormalizeTime renders a time cell in the device's "HH MM" form.
func NormalizeTime(v CellValue) string {
	t := strings.TrimSpace(cellText(v, config.TimeFormatCell))
	return strings.ReplaceAll(t, config.TimeSeparator, config.DeviceSeparator)
}

// parseDateCell extracts (day, canonical month, year) from the first cell.
func parseDateCell(v CellValue) (day, month, year string, ok bool) {
	s := strings.TrimSpace(cellText(v, config.DateFormatDotted))
	if s == "" {
		return "", "", "", false
	}

	if m := textDatePattern.FindStringSubmatch(s); m != nil {
		return m[1], CanonicalMonth(m[2]), m[3], true
	}

	if m := dottedDatePattern.FindStringSubmatch(s); m != nil {
		idx, err := strconv.Atoi(m[2])
		if err != nil || idx < 1 || idx > len(MonthTokens) {
			return "", "", "", false
		}
		return m[1], MonthTokens[idx-1], m[3], true
	}

	return "", "", "", false
}
