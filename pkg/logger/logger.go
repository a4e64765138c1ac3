package logger

import (
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

var (
	instance *logrus.Logger
	once     sync.Once
)

// Init configures the process-wide logger from LOG_LEVEL, LOG_FORMAT
// and LOG_OUTPUT. Defaults are info, json and stdout. Calling Init is
// optional, the first log call configures the logger on demand.
func Init() {
	once.Do(configure)
}

// active returns the shared logger, configuring it on first use.
func active() *logrus.Logger {
	once.Do(configure)
	return instance
}

func configure() {
	instance = logrus.New()

	level, err := logrus.ParseLevel(strings.ToLower(envOr("LOG_LEVEL", "info")))
	if err != nil {
		level = logrus.InfoLevel
	}
	instance.SetLevel(level)
	instance.SetReportCaller(true)

	if strings.ToLower(envOr("LOG_FORMAT", "json")) == "text" {
		instance.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: "2006-01-02 15:04:05",
		})
	} else {
		instance.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: time.RFC3339,
			FieldMap: logrus.FieldMap{
				logrus.FieldKeyTime:  "timestamp",
				logrus.FieldKeyLevel: "level",
				logrus.FieldKeyMsg:   "message",
				logrus.FieldKeyFunc:  "caller",
			},
		})
	}

	instance.SetOutput(openOutput())
}

// openOutput resolves the log destination. Production defaults to a
// file when LOG_OUTPUT is unset; development mirrors file output to
// stdout so local runs stay visible.
func openOutput() io.Writer {
	dest := os.Getenv("LOG_OUTPUT")
	if dest == "" && os.Getenv("APP_ENV") == "production" {
		dest = "logs/app.log"
	}
	if dest == "" || dest == "stdout" {
		return os.Stdout
	}

	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		instance.WithError(err).Warn("Log directory unavailable, using stdout")
		return os.Stdout
	}
	file, err := os.OpenFile(dest, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o666)
	if err != nil {
		instance.WithError(err).Warn("Log file unavailable, using stdout")
		return os.Stdout
	}

	if os.Getenv("APP_ENV") == "development" {
		return io.MultiWriter(file, os.Stdout)
	}
	return file
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// Leveled logging on the shared instance.

func Debug(args ...interface{}) {
	active().Debug(args...)
}

func Info(args ...interface{}) {
	active().Info(args...)
}

func Warn(args ...interface{}) {
	active().Warn(args...)
}

func Error(args ...interface{}) {
	active().Error(args...)
}

// Fatal logs the message and exits the process.
func Fatal(args ...interface{}) {
	active().Fatal(args...)
}

// WithFields returns an entry carrying structured fields.
func WithFields(fields logrus.Fields) *logrus.Entry {
	return active().WithFields(fields)
}

// WithError returns an entry carrying the error field.
func WithError(err error) *logrus.Entry {
	return active().WithError(err)
}

// Domain helpers. Each stamps a type field so log pipelines can route
// by event family.

// LogRequest logs one handled HTTP request.
func LogRequest(method, path, ip, userAgent string, duration time.Duration, statusCode int) {
	WithFields(logrus.Fields{
		"method":      method,
		"path":        path,
		"ip":          ip,
		"user_agent":  userAgent,
		"duration_ms": duration.Milliseconds(),
		"status_code": statusCode,
		"type":        "request",
	}).Info("HTTP Request")
}

// LogUserAction logs an account-level action such as register or login.
func LogUserAction(userID, action string, metadata map[string]interface{}) {
	fields := logrus.Fields{
		"user_id": userID,
		"action":  action,
		"type":    "user_action",
	}
	for k, v := range metadata {
		fields[k] = v
	}

	WithFields(fields).Info("User Action")
}

// LogRoomEvent logs room lifecycle and membership events.
func LogRoomEvent(event, roomID, userID string, metadata map[string]interface{}) {
	fields := logrus.Fields{
		"event":   event,
		"room_id": roomID,
		"user_id": userID,
		"type":    "room_event",
	}
	for k, v := range metadata {
		fields[k] = v
	}

	WithFields(fields).Info("Room Event")
}

// LogPlaybackEvent logs a classified playback update.
func LogPlaybackEvent(roomID, userID, eventType string, position float64) {
	WithFields(logrus.Fields{
		"room_id":  roomID,
		"user_id":  userID,
		"event":    eventType,
		"position": position,
		"type":     "playback_event",
	}).Debug("Playback Event")
}

// LogRelayEvent logs websocket relay activity at debug level, the
// relay is too chatty for info.
func LogRelayEvent(event, roomID, connectionID string, metadata map[string]interface{}) {
	fields := logrus.Fields{
		"event":         event,
		"room_id":       roomID,
		"connection_id": connectionID,
		"type":          "relay_event",
	}
	for k, v := range metadata {
		fields[k] = v
	}

	WithFields(fields).Debug("Relay Event")
}

// LogSecurityEvent logs auth failures and refused access.
func LogSecurityEvent(event, userID, ip string, metadata map[string]interface{}) {
	fields := logrus.Fields{
		"event":   event,
		"user_id": userID,
		"ip":      ip,
		"type":    "security_event",
	}
	for k, v := range metadata {
		fields[k] = v
	}

	WithFields(fields).Warn("Security Event")
}

// LogError logs an error with its context. Development builds attach a
// stack trace.
func LogError(err error, context string, metadata map[string]interface{}) {
	fields := logrus.Fields{
		"error":   err.Error(),
		"context": context,
		"type":    "error_detail",
	}
	for k, v := range metadata {
		fields[k] = v
	}

	if os.Getenv("APP_ENV") == "development" {
		fields["stack_trace"] = stackTrace()
	}

	WithFields(fields).Error("Application Error")
}

func stackTrace() string {
	buf := make([]byte, 1024)
	for {
		n := runtime.Stack(buf, false)
		if n < len(buf) {
			return string(buf[:n])
		}
		buf = make([]byte, 2*len(buf))
	}
}

// Close closes the logger output when it is a file.
func Close() error {
	if instance == nil {
		return nil
	}
	if file, ok := instance.Out.(*os.File); ok && file != os.Stdout && file != os.Stderr {
		return file.Close()
	}
	return nil
}
