package server

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync/atomic"
	"time"
	"unicode/utf8"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	"github.com/tartampluch/go-vakitmatik/internal/config"
	"github.com/tartampluch/go-vakitmatik/internal/engine"
)

// cacheItem stores one rendered payload and its metadata for HTTP caching.
type cacheItem struct {
	data         []byte
	etag         string
	lastModified string // RFC1123 format required by HTTP headers
	contentType  string
	disposition  string
}

// snapshot groups the payloads published by a single Update.
type snapshot struct {
	location string
	document *cacheItem
	calendar *cacheItem // nil when no calendar was generated
	records  []engine.DailyRecord
}

// ScheduleServer serves the generated Vakitmatik file (and optionally its
// iCalendar rendition) over HTTP.
type ScheduleServer struct {
	// cache uses atomic.Pointer for lock-free reads.
	// The schedule is read by devices and browsers far more often than it is
	// regenerated, so readers never contend with the worker.
	cache  atomic.Pointer[snapshot]
	bundle *i18n.Bundle
	Port   string

	// Timezone and Clock pick "today" for exports without a date.
	// Nil values fall back to UTC and the system clock.
	Timezone *time.Location
	Clock    engine.Clock
}

// NewScheduleServer creates a new instance of the server.
func NewScheduleServer(port string) *ScheduleServer {
	return &ScheduleServer{
		Port:   port,
		bundle: NewBundle(),
	}
}

// Handler returns the HTTP routes served by Start.
func (s *ScheduleServer) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc(config.RouteRoot, s.handleDocumentRequest)
	mux.HandleFunc(config.RouteCalendar, s.handleCalendarRequest)
	mux.HandleFunc(config.RouteExport, s.handleExportRequest)
	return mux
}

// Start initializes the HTTP server and blocks until the context is cancelled.
func (s *ScheduleServer) Start(ctx context.Context) error {
	if s.Port == "" {
		return fmt.Errorf(config.ErrPortRequired)
	}

	srv := &http.Server{
		Addr:         config.LocalhostBindAddr + config.AddrSeparator + s.Port,
		Handler:      s.Handler(),
		ReadTimeout:  config.ServerReadTimeout,
		WriteTimeout: config.ServerWriteTimeout,
		IdleTimeout:  config.ServerIdleTimeout,
	}

	serverError := make(chan error, config.ChannelBufferSize)

	go func() {
		slog.Info(config.MsgServerListen,
			config.LogKeyComponent, config.CompServer,
			config.LogKeyPort, s.Port,
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverError <- err
		}
	}()

	select {
	case <-ctx.Done():
		slog.Info(config.MsgServerStop, config.LogKeyComponent, config.CompServer)
		shutdownCtx, cancel := context.WithTimeout(context.Background(), config.ShutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("%s: %w", config.ErrServerShutdown, err)
		}
		return nil

	case err := <-serverError:
		return fmt.Errorf("%s: %w", config.ErrServerStartup, err)
	}
}

// Update atomically replaces the served content. location is the header form
// of the location name and drives the suggested file names. A nil calendar
// disables the calendar route until the next Update. records back the
// template export.
func (s *ScheduleServer) Update(location string, document, calendar []byte, records []engine.DailyRecord) {
	now := time.Now().UTC()
	snap := &snapshot{
		location: location,
		document: newCacheItem(document, now, config.MimeTextPlain, location+config.FileExtText),
		records:  records,
	}
	if calendar != nil {
		snap.calendar = newCacheItem(calendar, now, config.MimeTextCalendar, location+config.FileExtICS)
	}

	// Atomic store ensures that any concurrent reader sees either the old or the new complete snapshot,
	// never a partial state.
	s.cache.Store(snap)

	slog.Debug(config.MsgCacheUpdated,
		config.LogKeyComponent, config.CompServer,
		config.LogKeyLocation, location,
		config.LogKeySizeBytes, len(document),
		config.LogKeyETag, snap.document.etag,
	)
}

func newCacheItem(data []byte, now time.Time, contentType, filename string) *cacheItem {
	hash := sha256.Sum256(data)
	return &cacheItem{
		data:         data,
		etag:         fmt.Sprintf(config.FormatETag, hex.EncodeToString(hash[:])),
		lastModified: now.Format(http.TimeFormat),
		contentType:  contentType,
		disposition:  attachment(filename),
	}
}

// attachment builds a Content-Disposition value whose filename* only holds
// RFC 5987 attr-chars.
func attachment(filename string) string {
	escaped := strings.ReplaceAll(url.QueryEscape(filename), "+", "%20")
	return fmt.Sprintf(config.FormatAttachment, escaped)
}

// handleDocumentRequest serves the device file.
func (s *ScheduleServer) handleDocumentRequest(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != config.RouteRoot {
		http.Error(w, s.localize(r, config.TKeyHTTPNotFound, config.HTTPMsgNotFound), http.StatusNotFound)
		return
	}
	s.serve(w, r, func(snap *snapshot) *cacheItem { return snap.document })
}

// handleCalendarRequest serves the iCalendar feed.
func (s *ScheduleServer) handleCalendarRequest(w http.ResponseWriter, r *http.Request) {
	s.serve(w, r, func(snap *snapshot) *cacheItem { return snap.calendar })
}

// serve writes the selected payload with HTTP caching support.
func (s *ScheduleServer) serve(w http.ResponseWriter, r *http.Request, pick func(*snapshot) *cacheItem) {
	// 1. Method and Readiness Checks (Atomic / Lock-Free)
	snap, ok := s.load(w, r)
	if !ok {
		return
	}

	item := pick(snap)
	if item == nil {
		http.Error(w, s.localize(r, config.TKeyHTTPNotFound, config.HTTPMsgNotFound), http.StatusNotFound)
		return
	}

	// 2. Set Response Headers
	w.Header().Set(config.HeaderContentType, item.contentType)
	w.Header().Set(config.HeaderContentDisposition, item.disposition)
	w.Header().Set(config.HeaderXContentType, config.MimeNoSniff)
	w.Header().Set(config.HeaderCacheControl, config.CacheControlPrivate)
	w.Header().Set(config.HeaderServer, config.UserAgent)
	w.Header().Set(config.HeaderETag, item.etag)
	w.Header().Set(config.HeaderLastModified, item.lastModified)

	// 3. Check Conditional Headers (Browser Caching)
	if match := r.Header.Get(config.HeaderIfNoneMatch); match == item.etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	if since := r.Header.Get(config.HeaderIfModifiedSince); since != "" {
		if clientTime, err := time.Parse(http.TimeFormat, since); err == nil {
			if serverTime, err := time.Parse(http.TimeFormat, item.lastModified); err == nil {
				// If server content is not newer than client cache, return 304.
				if !serverTime.After(clientTime) {
					w.WriteHeader(http.StatusNotModified)
					return
				}
			}
		}
	}

	// 4. Serve Content
	if r.Method == http.MethodGet {
		if _, err := io.Copy(w, bytes.NewReader(item.data)); err != nil {
			slog.Error(config.ErrWriteResp,
				config.LogKeyComponent, config.CompServer,
				config.LogKeyError, err,
			)
		}
	}
}

// load validates the method and returns the current snapshot. It writes the
// error response itself and reports false when the request cannot proceed.
func (s *ScheduleServer) load(w http.ResponseWriter, r *http.Request) (*snapshot, bool) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.Header().Set(config.HeaderAllow, config.AllowedMethods)
		http.Error(w, s.localize(r, config.TKeyHTTPMethodNotAll, config.HTTPMsgMethodNotAll), http.StatusMethodNotAllowed)
		return nil, false
	}

	snap := s.cache.Load()
	if snap == nil {
		w.Header().Set(config.HeaderRetryAfter, config.RetryAfterSeconds)
		http.Error(w, s.localize(r, config.TKeyHTTPInitializing, config.HTTPMsgInitializing), http.StatusServiceUnavailable)
		return nil, false
	}
	return snap, true
}

// handleExportRequest renders one day through a caller-supplied template.
// Query parameters: template, filename and date (YYYY-MM-DD, default today).
func (s *ScheduleServer) handleExportRequest(w http.ResponseWriter, r *http.Request) {
	snap, ok := s.load(w, r)
	if !ok {
		return
	}

	q := r.URL.Query()
	tmpl := q.Get(config.QueryTemplate)
	if tmpl == "" {
		tmpl = config.DefaultExportTemplate
	}
	filename := q.Get(config.QueryFilename)

	day, err := s.requestedDay(q.Get(config.QueryDate))
	if err != nil ||
		utf8.RuneCountInString(tmpl) > config.MaxTemplateLength ||
		utf8.RuneCountInString(filename) > config.MaxFilenameLength {
		http.Error(w, s.localize(r, config.TKeyHTTPBadRequest, config.HTTPMsgBadRequest), http.StatusBadRequest)
		return
	}

	rec, ok := engine.FindRecord(snap.records, day)
	if !ok {
		http.Error(w, s.localize(r, config.TKeyHTTPNoSuchDay, config.HTTPMsgNoSuchDay), http.StatusNotFound)
		return
	}

	if filename == "" {
		filename = fmt.Sprintf(config.FormatExportName, snap.location, day.Format(config.DateFormatDigits))
	}
	body := engine.RenderTemplate(tmpl, snap.location, rec)

	w.Header().Set(config.HeaderContentType, config.MimeTextPlain)
	w.Header().Set(config.HeaderContentDisposition, attachment(filename))
	w.Header().Set(config.HeaderXContentType, config.MimeNoSniff)
	w.Header().Set(config.HeaderCacheControl, config.CacheControlPrivate)
	w.Header().Set(config.HeaderServer, config.UserAgent)

	if r.Method == http.MethodGet {
		if _, err := io.WriteString(w, body); err != nil {
			slog.Error(config.ErrWriteResp,
				config.LogKeyComponent, config.CompServer,
				config.LogKeyError, err,
			)
		}
	}
}

// requestedDay parses an ISO date in the server's timezone. An empty value
// means today.
func (s *ScheduleServer) requestedDay(raw string) (time.Time, error) {
	loc := s.Timezone
	if loc == nil {
		loc = time.UTC
	}
	if raw == "" {
		now := time.Now()
		if s.Clock != nil {
			now = s.Clock.Now()
		}
		return now.In(loc), nil
	}
	return time.ParseInLocation(config.DateFormatISO, raw, loc)
}
