// utils/safelog.go
// ============================================================================
// SAFE LOGGING - masks personal and financial data in production
// ============================================================================

package utils

import (
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// ============================================================================
// CONFIGURATION
// ============================================================================

var (
	production atomic.Bool

	logMu  sync.RWMutex
	logger = newLogger(os.Stdout, detectProduction(), os.Getenv("LOG_LEVEL"))
)

func init() {
	production.Store(detectProduction())
}

// IsProduction reports whether emails, ids and amounts are masked.
func IsProduction() bool {
	return production.Load()
}

func detectProduction() bool {
	return os.Getenv("GIN_MODE") == "release" ||
		os.Getenv("ENVIRONMENT") == "production" ||
		os.Getenv("ENV") == "production"
}

// ParseLogLevel maps LOG_LEVEL values onto zerolog levels. Unknown values are INFO.
func ParseLogLevel(level string) zerolog.Level {
	switch strings.ToUpper(strings.TrimSpace(level)) {
	case "DEBUG":
		return zerolog.DebugLevel
	case "WARN", "WARNING":
		return zerolog.WarnLevel
	case "ERROR":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

func newLogger(w io.Writer, prod bool, level string) zerolog.Logger {
	if !prod {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	}
	return zerolog.New(w).Level(ParseLogLevel(level)).With().Timestamp().Logger()
}

// InitLogger replaces the shared logger. Production output is JSON and masked;
// development output goes through the console writer.
func InitLogger(w io.Writer, isProduction bool, level string) {
	logMu.Lock()
	defer logMu.Unlock()
	production.Store(isProduction)
	logger = newLogger(w, isProduction, level)
}

// Logger returns the shared logger.
func Logger() *zerolog.Logger {
	logMu.RLock()
	defer logMu.RUnlock()
	l := logger
	return &l
}

// ============================================================================
// MASKING PATTERNS
// ============================================================================

var (
	emailRegex              = regexp.MustCompile(`[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`)
	amountWithCurrencyRegex = regexp.MustCompile(`(\$|€|£)\s?\d[\d,]*(\.\d{1,2})?|\b\d[\d,]*(\.\d{1,2})?\s?(USD|EUR|GBP|CAD)\b`)
	cardRegex               = regexp.MustCompile(`\b\d{4}[\s-]?\d{4}[\s-]?\d{4}[\s-]?\d{4}\b`)
	ssnRegex                = regexp.MustCompile(`\b\d{3}-\d{2}-\d{4}\b`)
	uuidRegex               = regexp.MustCompile(`[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}`)
)

// ============================================================================
// MASKING
// ============================================================================

// MaskString hides sensitive data inside a free-form message.
func MaskString(input string) string {
	if !IsProduction() {
		return input
	}

	result := emailRegex.ReplaceAllString(input, "***@***.***")
	result = cardRegex.ReplaceAllString(result, "****-****-****-****")
	result = ssnRegex.ReplaceAllString(result, "***-**-****")
	result = amountWithCurrencyRegex.ReplaceAllString(result, "$***")
	result = uuidRegex.ReplaceAllStringFunc(result, shortenID)
	return result
}

func MaskAmount(amount decimal.Decimal) string {
	if IsProduction() {
		return "***"
	}
	return amount.StringFixed(2)
}

// MaskID keeps the first 8 characters of an id.
func MaskID(id string) string {
	if !IsProduction() {
		return id
	}
	return shortenID(id)
}

func MaskEmail(email string) string {
	if !IsProduction() {
		return email
	}
	return "***@***.***"
}

func shortenID(id string) string {
	if len(id) <= 8 {
		return "***"
	}
	return id[:8] + "..."
}

// ============================================================================
// LEVELLED LOGGING
// ============================================================================

func SafeDebug(format string, args ...interface{}) {
	Logger().Debug().Msg(MaskString(fmt.Sprintf(format, args...)))
}

func SafeInfo(format string, args ...interface{}) {
	Logger().Info().Msg(MaskString(fmt.Sprintf(format, args...)))
}

func SafeWarn(format string, args ...interface{}) {
	Logger().Warn().Msg(MaskString(fmt.Sprintf(format, args...)))
}

func SafeError(format string, args ...interface{}) {
	Logger().Error().Msg(MaskString(fmt.Sprintf(format, args...)))
}

// ============================================================================
// DOMAIN EVENTS
// ============================================================================

// LogBankingAction records a bank-link event without exposing ids in production.
func LogBankingAction(action string, connectionID string, userID string) {
	Logger().Info().
		Str("scope", "banking").
		Str("connection", MaskID(connectionID)).
		Str("user", MaskID(userID)).
		Msg(action)
}

func LogAuthAction(action string, email string, success bool) {
	event := Logger().Info()
	if !success {
		event = Logger().Warn()
	}
	event.
		Str("scope", "auth").
		Str("email", MaskEmail(email)).
		Bool("success", success).
		Msg(action)
}

// LogAPIRequest logs one served request. UUIDs in the path are shortened in production.
func LogAPIRequest(method string, path string, userID string, statusCode int, duration time.Duration) {
	if IsProduction() {
		path = uuidRegex.ReplaceAllStringFunc(path, shortenID)
	}

	event := Logger().Info()
	switch {
	case statusCode >= 500:
		event = Logger().Error()
	case statusCode >= 400:
		event = Logger().Warn()
	}
	event.
		Str("scope", "api").
		Str("method", method).
		Str("path", path).
		Str("user", MaskID(userID)).
		Int("status", statusCode).
		Dur("duration", duration).
		Msg("request")
}

func LogWebSocket(action string, userID string) {
	Logger().Info().
		Str("scope", "ws").
		Str("user", MaskID(userID)).
		Msg(action)
}

// ============================================================================
// STARTUP
// ============================================================================

func GetEnvMode() string {
	if IsProduction() {
		return "production"
	}
	return "development"
}

func LogStartup(appName string, version string, port string) {
	Logger().Info().
		Str("app", appName).
		Str("version", version).
		Str("mode", GetEnvMode()).
		Str("port", port).
		Str("level", Logger().GetLevel().String()).
		Msg("starting")
}
