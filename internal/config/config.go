package config

import (
	"io/fs"
	"time"
)

// -----------------------------------------------------------------------------
// Build Information
// -----------------------------------------------------------------------------

// Build variables are injected via -ldflags.
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// UserAgent identifies the application in logs and HTTP responses.
var UserAgent = "Go-Vakitmatik/" + Version

// -----------------------------------------------------------------------------
// Application Constants
// -----------------------------------------------------------------------------

const (
	AppName           = "Go Vakitmatik"
	AppID             = "com.github.tartampluch.go-vakitmatik"
	LocalhostBindAddr = "127.0.0.1"
	LogFileName       = "app.log"
)

// -----------------------------------------------------------------------------
// Exit Codes
// -----------------------------------------------------------------------------

const (
	ExitCodeSuccess = 0
	ExitCodeError   = 1
)

// -----------------------------------------------------------------------------
// System & File Permissions
// -----------------------------------------------------------------------------

const (
	// FilePermUserRW represents -rw------- (Read/Write for owner only).
	// Used for sensitive files like logs.
	FilePermUserRW fs.FileMode = 0600

	// FilePermPublic represents -rw-r--r--.
	// Used for generated device files that are copied to the Vakitmatik.
	FilePermPublic fs.FileMode = 0644

	// DirPermUserRWX represents drwx------ (Read/Write/Exec for owner only).
	DirPermUserRWX fs.FileMode = 0700

	// ChannelBufferSize defines the standard buffer size for internal signaling channels.
	ChannelBufferSize = 1
)

// -----------------------------------------------------------------------------
// CLI Flags & Descriptions
// -----------------------------------------------------------------------------

const (
	FlagVersion  = "version"
	FlagDebug    = "debug"
	FlagInput    = "in"
	FlagName     = "name"
	FlagOutput   = "out"
	FlagICS      = "ics"
	FlagServe    = "serve"
	FlagPort     = "port"
	FlagInterval = "interval"
	FlagTimezone = "tz"
	FlagWatch    = "watch"

	FlagDescVersion  = "Show application version and exit"
	FlagDescDebug    = "Enable debug logging to stdout"
	FlagDescInput    = "Path to the yearly prayer-time workbook (.xlsx)"
	FlagDescName     = "Location display name written into the device header"
	FlagDescOutput   = "Output path for the device file (default: <NAME>.txt)"
	FlagDescICS      = "Optional output path for an iCalendar export"
	FlagDescServe    = "Serve the generated files over HTTP instead of exiting"
	FlagDescPort     = "HTTP port used in serve mode"
	FlagDescInterval = "Workbook re-read interval in minutes (serve mode)"
	FlagDescTimezone = "IANA timezone of the prayer times (calendar export)"
	FlagDescWatch    = "Regenerate as soon as the workbook changes on disk (serve mode)"

	MsgVersionOutput = "%s version %s (%s/%s)\n"
)

// -----------------------------------------------------------------------------
// Default Values & Business Logic
// -----------------------------------------------------------------------------

const (
	DefaultPort       = "18080"
	DefaultRefreshMin = 60
	DefaultTimezone   = "Europe/Istanbul"
	DefaultLanguage   = "tr"
	DefaultLocation   = "SOH" // Legacy device default when no name is known
	FileExtText       = ".txt"
	FileExtICS        = ".ics"
	DisabledInterval  = 0
	SheetIndexFirst   = 0
)

// -----------------------------------------------------------------------------
// Workbook Layout (Diyanet yearly Excel export)
// -----------------------------------------------------------------------------

const (
	// ColDate holds the Gregorian date. ColHijri is skipped by the device file
	// and only surfaces through export templates.
	ColDate  = 0
	ColHijri = 1

	// ColImsak is the first of six consecutive prayer-time columns.
	ColImsak  = 2
	ColGunes  = 3
	ColOgle   = 4
	ColIkindi = 5
	ColAksam  = 6
	ColYatsi  = 7

	PrayerCount = 6
)

// -----------------------------------------------------------------------------
// Date & Time Layouts
// -----------------------------------------------------------------------------

const (
	DateFormatDotted = "02.01.2006"
	TimeFormatCell   = "15:04"
	TimeFormatDevice = "15 04"
	DateFormatISO    = "2006-01-02"
	DateFormatDigits = "20060102"
	TimeSeparator    = ":"
	DeviceSeparator  = " "
)

// -----------------------------------------------------------------------------
// Text Export Templates
// -----------------------------------------------------------------------------

const (
	PlaceholderDate  = "{{date}}"
	PlaceholderHijri = "{{hijri}}"
	PlaceholderCity  = "{{city}}"

	// DefaultExportTemplate is used when the request carries no template.
	DefaultExportTemplate = "{{date}}\nİmsak: {{imsak}}\nGüneş: {{gunes}}\nÖğle: {{ogle}}\nİkindi: {{ikindi}}\nAkşam: {{aksam}}\nYatsı: {{yatsi}}"

	// Limits are counted in characters, not bytes.
	MaxTemplateLength = 10000
	MaxFilenameLength = 255

	// FormatExportName builds the default file name from location and YYYYMMDD.
	FormatExportName = "namaz-%s-%s.txt"

	QueryTemplate = "template"
	QueryFilename = "filename"
	QueryDate     = "date"
)

// PrayerPlaceholders follows the order of DailyRecord.Times.
var PrayerPlaceholders = [PrayerCount]string{"{{imsak}}", "{{gunes}}", "{{ogle}}", "{{ikindi}}", "{{aksam}}", "{{yatsi}}"}

// -----------------------------------------------------------------------------
// Standards: iCalendar
// -----------------------------------------------------------------------------

const (
	ICalVersion = "2.0"
	ICalProdid  = "-//Go Vakitmatik//Engine//TR"
	ICalCalName = "Namaz Vakitleri"
	ICalMethod  = "PUBLISH"
	ICalScale   = "GREGORIAN"
	ICalDomain  = "vakitmatik"

	PropUID        = "UID"
	PropSummary    = "SUMMARY"
	PropLocation   = "LOCATION"
	PropDTStart    = "DTSTART"
	PropDTEnd      = "DTEND"
	PropDTStamp    = "DTSTAMP"
	PropRefresh    = "REFRESH-INTERVAL"
	PropVersion    = "VERSION"
	PropProdid     = "PRODID"
	PropXWRCalName = "X-WR-CALNAME"
	PropCalScale   = "CALSCALE"
	PropMethod     = "METHOD"

	// FormatUID expects location, date (ISO), prayer index and domain.
	FormatUID = "%s-%s-%d@%s"

	DefaultICalRefresh = 24 * time.Hour
	EventDuration      = 1 * time.Minute

	// StubVCalendar is the minimal valid iCalendar object used when no events are produced.
	StubVCalendar = "BEGIN:VCALENDAR\r\nVERSION:2.0\r\nPRODID:" + ICalProdid + "\r\nEND:VCALENDAR\r\n"
)

// PrayerLabels are the event titles used by the calendar export, in column order.
var PrayerLabels = [PrayerCount]string{"İmsak", "Güneş", "Öğle", "İkindi", "Akşam", "Yatsı"}

// -----------------------------------------------------------------------------
// Network & Timeouts
// -----------------------------------------------------------------------------

const (
	ShutdownTimeout    = 5 * time.Second
	ServerReadTimeout  = 10 * time.Second
	ServerWriteTimeout = 30 * time.Second
	ServerIdleTimeout  = 60 * time.Second
	RetryAfterSeconds  = "10"
	AllowedMethods     = "GET, HEAD"
	RouteRoot          = "/"
	RouteCalendar      = "/calendar.ics"
	RouteExport        = "/export"
	AddrSeparator      = ":"
)

// -----------------------------------------------------------------------------
// HTTP Headers & MIME Types
// -----------------------------------------------------------------------------

const (
	HeaderContentType        = "Content-Type"
	HeaderContentDisposition = "Content-Disposition"
	HeaderCacheControl       = "Cache-Control"
	HeaderETag               = "ETag"
	HeaderLastModified       = "Last-Modified"
	HeaderRetryAfter         = "Retry-After"
	HeaderAllow              = "Allow"
	HeaderXContentType       = "X-Content-Type-Options"
	HeaderServer             = "Server"
	HeaderAcceptLanguage     = "Accept-Language"
	HeaderIfNoneMatch        = "If-None-Match"
	HeaderIfModifiedSince    = "If-Modified-Since"

	MimeTextPlain       = "text/plain; charset=utf-8"
	MimeTextCalendar    = "text/calendar; charset=utf-8"
	MimeNoSniff         = "nosniff"
	CacheControlPrivate = "private, no-cache"

	// FormatETag expects a string argument.
	FormatETag = `"%s"`

	// FormatAttachment expects the URL-escaped file name.
	FormatAttachment = "attachment; filename*=UTF-8''%s"
)

// -----------------------------------------------------------------------------
// Translation Keys (I18n)
// -----------------------------------------------------------------------------

const (
	TKeyHTTPInitializing = "http_initializing"
	TKeyHTTPMethodNotAll = "http_method_not_allowed"
	TKeyHTTPNotFound     = "http_not_found"
	TKeyHTTPBadRequest   = "http_bad_request"
	TKeyHTTPNoSuchDay    = "http_no_such_day"
)

// -----------------------------------------------------------------------------
// Error Messages (Technical/Logs)
// -----------------------------------------------------------------------------

const (
	ErrInputPathEmpty  = "configuration error: workbook path is empty"
	ErrSourceMissing   = "internal error: row source is not initialized"
	ErrWorkbookOpen    = "failed to open workbook"
	ErrWorkbookRead    = "failed to read workbook rows"
	ErrWorkbookNoSheet = "workbook has no worksheet"
	ErrRowSource       = "row source failed"
	ErrICalEncode      = "failed to encode iCalendar data"
	ErrTimezone        = "unknown timezone"
	ErrWriteOutput     = "failed to write output file"
	ErrServerStartup   = "server startup failed"
	ErrServerShutdown  = "server shutdown failed"
	ErrPortRequired    = "server port is required"
	ErrLogFile         = "failed to open log file"
	ErrCacheDir        = "could not determine user cache dir"
	ErrCreateDir       = "could not create app cache dir"
	ErrAppFailed       = "application failed unexpectedly"
	ErrWriteResp       = "failed to write response body"
	ErrLocalesAccess   = "failed to access embedded locales"
	ErrLocaleLoad      = "failed to load locale file"
	ErrWatcher         = "failed to watch workbook"
)

// -----------------------------------------------------------------------------
// HTTP Server Responses (fallbacks when no translation is available)
// -----------------------------------------------------------------------------

const (
	HTTPMsgInitializing = "Schedule initializing, please try again shortly."
	HTTPMsgMethodNotAll = "Method Not Allowed"
	HTTPMsgNotFound     = "Not Found"
	HTTPMsgBadRequest   = "Invalid parameters"
	HTTPMsgNoSuchDay    = "No schedule for the requested day"
)

// -----------------------------------------------------------------------------
// Log Messages
// -----------------------------------------------------------------------------

const (
	MsgGenStarted    = "Generation started"
	MsgGenSuccess    = "Schedule generation successful"
	MsgGenFailed     = "Schedule generation failed"
	MsgGenFinished   = "Generation finished"
	MsgRowsLoaded    = "Workbook rows loaded"
	MsgSkippedRow    = "Skipping unparseable row"
	MsgUnknownMonth  = "Unrecognized month token passed through"
	MsgWorkerStart   = "Background worker started"
	MsgWorkerStop    = "Worker stopping due to context cancellation"
	MsgAppStop       = "Application stopped gracefully"
	MsgAppStarting   = "Starting application"
	MsgServerListen  = "HTTP server listening"
	MsgServerStop    = "Shutting down HTTP server..."
	MsgCacheUpdated  = "Schedule cache updated"
	MsgFileWritten   = "Output file written"
	MsgLocaleSkip    = "Skipping non-locale file"
	MsgLocaleBadName = "Skipping malformed locale filename"
	MsgLocaleLoaded  = "Locale loaded successfully"
	MsgTransMissing  = "Missing translation key"
	MsgWatchStart    = "Watching workbook for changes"
	MsgWatchEvent    = "Workbook changed, refreshing"
	MsgWatchError    = "Workbook watcher error"
	MsgLogWarning    = "Warning: %s at %s: %v\n"
)

// -----------------------------------------------------------------------------
// Structured Logging Keys (slog)
// -----------------------------------------------------------------------------

const (
	LogKeyComponent = "component"
	LogKeyError     = "error"
	LogKeyFile      = "file"
	LogKeyLang      = "lang"
	LogKeyKey       = "key"
	LogKeyPort      = "port"
	LogKeyPath      = "path"
	LogKeyInterval  = "interval"
	LogKeyLocation  = "location"
	LogKeySheet     = "sheet"
	LogKeyRow       = "row"
	LogKeyMonth     = "month"
	LogKeyStats     = "stats"
	LogKeyRows      = "rows_total"
	LogKeyRecords   = "records"
	LogKeySkipped   = "rows_skipped"
	LogKeyMonths    = "months"
	LogKeyUnknown   = "unknown_months"
	LogKeyEvents    = "events"
	LogKeySizeBytes = "size_bytes"
	LogKeyETag      = "etag"
	LogKeyDuration  = "duration_ms"
	LogKeyOp        = "op"

	// Startup Info Keys
	LogKeyBuild   = "build"
	LogKeyApp     = "app"
	LogKeyVersion = "version"
	LogKeyCommit  = "commit"
	LogKeyDate    = "date"
	LogKeyGoVer   = "go_version"
	LogKeyEnv     = "env"
	LogKeyOS      = "os"
	LogKeyArch    = "arch"
	LogKeyPID     = "pid"
)

// -----------------------------------------------------------------------------
// Log Components
// -----------------------------------------------------------------------------

const (
	CompEngine   = "engine"
	CompWorkbook = "workbook"
	CompServer   = "server"
	CompWorker   = "worker"
	CompMain     = "main"
	CompI18n     = "i18n"
)
