package engine_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/tartampluch/go-vakitmatik/internal/config"
	"github.com/tartampluch/go-vakitmatik/internal/engine"
)

func TestRenderTemplate(t *testing.T) {
	day := rec("15", "OCAK", "06 47", "08 19", "13 11", "15 38", "17 55", "19 21")
	day.Hijri = "26 Recep 1447"

	tests := []struct {
		name string
		tmpl string
		want string
	}{
		{"Default template", config.DefaultExportTemplate,
			"15 OCAK 2026\nİmsak: 06:47\nGüneş: 08:19\nÖğle: 13:11\nİkindi: 15:38\nAkşam: 17:55\nYatsı: 19:21"},
		{"Every occurrence", "{{imsak}}-{{imsak}}-{{imsak}}", "06:47-06:47-06:47"},
		{"Hijri and city", "{{city}}: {{hijri}}", "GEBZE: 26 Recep 1447"},
		{"Unknown placeholder kept", "{{date}} {{cuma}}", "15 OCAK 2026 {{cuma}}"},
		{"No placeholders", "sabit metin", "sabit metin"},
		{"Empty template", "", ""},
		{"Adjacent placeholders", "{{ogle}}{{ikindi}}", "13:1115:38"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, engine.RenderTemplate(tt.tmpl, "Gebze", day))
		})
	}
}

// TestRenderTemplate_ValuesNotExpanded makes sure substituted text is never
// scanned again for placeholders.
func TestRenderTemplate_ValuesNotExpanded(t *testing.T) {
	day := rec("15", "OCAK")
	day.Hijri = "{{imsak}}"

	assert.Equal(t, "{{imsak}}", engine.RenderTemplate("{{hijri}}", "Gebze", day))
}

func TestRenderTemplate_EmptyLocation(t *testing.T) {
	assert.Equal(t, config.DefaultLocation, engine.RenderTemplate("{{city}}", "", rec("15", "OCAK")))
}

func TestDailyRecord_Date(t *testing.T) {
	got, ok := rec("29", "SUBAT").Date(time.UTC)
	assert.True(t, ok)
	assert.Equal(t, time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC), got, "calendar overflow normalizes like time.Date")

	_, ok = rec("15", "JANVIER").Date(time.UTC)
	assert.False(t, ok, "unknown months cannot be dated")

	_, ok = rec("xx", "OCAK").Date(time.UTC)
	assert.False(t, ok)
}

func TestFindRecord(t *testing.T) {
	records := gebzeRecords()

	got, ok := engine.FindRecord(records, time.Date(2026, time.February, 1, 18, 0, 0, 0, time.UTC))
	assert.True(t, ok)
	assert.Equal(t, "SUBAT", got.Month)

	_, ok = engine.FindRecord(records, time.Date(2026, time.January, 3, 0, 0, 0, 0, time.UTC))
	assert.False(t, ok)

	_, ok = engine.FindRecord(nil, time.Now())
	assert.False(t, ok)
}
