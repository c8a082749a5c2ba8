package server

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/tartampluch/go-vakitmatik/internal/config"
	"github.com/tartampluch/go-vakitmatik/internal/engine"
)

// -----------------------------------------------------------------------------
// Fixtures
// -----------------------------------------------------------------------------

var exportRecords = []engine.DailyRecord{
	{Day: "01", Month: "OCAK", Year: "2026", Hijri: "12 Recep 1447",
		Times: [config.PrayerCount]string{"06 47", "08 19", "13 11", "15 38", "17 55", "19 21"}},
	{Day: "02", Month: "OCAK", Year: "2026", Hijri: "13 Recep 1447",
		Times: [config.PrayerCount]string{"06 47", "08 19", "13 11", "15 39", "17 56", "19 22"}},
}

func exportServer() *ScheduleServer {
	srv := NewScheduleServer("0")
	srv.Timezone = time.UTC
	srv.Clock = engine.ClockFunc(func() time.Time {
		return time.Date(2026, time.January, 2, 9, 30, 0, 0, time.UTC)
	})
	srv.Update("GEBZE", sampleDocument, nil, exportRecords)
	return srv
}

func exportURL(params map[string]string) string {
	q := url.Values{}
	for k, v := range params {
		q.Set(k, v)
	}
	if len(q) == 0 {
		return config.RouteExport
	}
	return config.RouteExport + "?" + q.Encode()
}

// -----------------------------------------------------------------------------
// Test Cases
// -----------------------------------------------------------------------------

func TestExport_Rendering(t *testing.T) {
	tests := []struct {
		name   string
		params map[string]string
		body   string
		file   string
	}{
		{
			name:   "Default template and today",
			params: nil,
			body:   "02 OCAK 2026\nİmsak: 06:47\nGüneş: 08:19\nÖğle: 13:11\nİkindi: 15:39\nAkşam: 17:56\nYatsı: 19:22",
			file:   "namaz-GEBZE-20260102.txt",
		},
		{
			name:   "Custom template for a given date",
			params: map[string]string{"template": "{{city}} {{hijri}} {{imsak}}/{{yatsi}}", "date": "2026-01-01"},
			body:   "GEBZE 12 Recep 1447 06:47/19:21",
			file:   "namaz-GEBZE-20260101.txt",
		},
		{
			name:   "Filename override",
			params: map[string]string{"template": "{{ogle}}", "filename": "öğle vakti.txt"},
			body:   "13:11",
			file:   "%C3%B6%C4%9Fle%20vakti.txt",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			exportServer().Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, exportURL(tt.params), nil))

			assert.Equal(t, http.StatusOK, w.Code)
			assert.Equal(t, config.MimeTextPlain, w.Header().Get(config.HeaderContentType))
			assert.Equal(t, "attachment; filename*=UTF-8''"+tt.file, w.Header().Get(config.HeaderContentDisposition))
			assert.Equal(t, tt.body, w.Body.String())
		})
	}
}

func TestExport_Rejections(t *testing.T) {
	tests := []struct {
		name   string
		method string
		params map[string]string
		code   int
	}{
		{"Template at limit", http.MethodGet, map[string]string{"template": strings.Repeat("ş", config.MaxTemplateLength)}, http.StatusOK},
		{"Template over limit", http.MethodGet, map[string]string{"template": strings.Repeat("x", config.MaxTemplateLength+1)}, http.StatusBadRequest},
		{"Filename over limit", http.MethodGet, map[string]string{"filename": strings.Repeat("a", config.MaxFilenameLength+1)}, http.StatusBadRequest},
		{"Malformed date", http.MethodGet, map[string]string{"date": "02.01.2026"}, http.StatusBadRequest},
		{"Day outside schedule", http.MethodGet, map[string]string{"date": "2026-03-01"}, http.StatusNotFound},
		{"Method", http.MethodPost, nil, http.StatusMethodNotAllowed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			exportServer().Handler().ServeHTTP(w, httptest.NewRequest(tt.method, exportURL(tt.params), nil))

			assert.Equal(t, tt.code, w.Code)
		})
	}
}

func TestExport_Localized(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, exportURL(map[string]string{"date": "bad"}), nil)
	req.Header.Set(config.HeaderAcceptLanguage, "tr-TR")
	w := httptest.NewRecorder()
	exportServer().Handler().ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Geçersiz parametreler")
}

func TestExport_Initializing(t *testing.T) {
	w := httptest.NewRecorder()
	NewScheduleServer("0").Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, config.RouteExport, nil))

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, config.RetryAfterSeconds, w.Header().Get(config.HeaderRetryAfter))
}

func TestExport_Head(t *testing.T) {
	w := httptest.NewRecorder()
	exportServer().Handler().ServeHTTP(w, httptest.NewRequest(http.MethodHead, config.RouteExport, nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Body.Bytes())
}

// TestExport_TodayFollowsTimezone checks that "today" is taken in the
// configured zone, not UTC.
func TestExport_TodayFollowsTimezone(t *testing.T) {
	srv := exportServer()
	srv.Timezone = time.FixedZone("TRT", 3*3600)
	srv.Clock = engine.ClockFunc(func() time.Time {
		return time.Date(2026, time.January, 1, 22, 0, 0, 0, time.UTC) // 01:00 on the 2nd in TRT
	})

	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, exportURL(map[string]string{"template": "{{date}}"}), nil))

	assert.Equal(t, "02 OCAK 2026", w.Body.String())
}
