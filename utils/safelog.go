// Leveled logging that masks personal data in production output.
package utils

import (
	"fmt"
	"log"
	"os"
	"regexp"
	"strings"
)

var (
	// IsProduction switches on masking of emails and identifiers.
	IsProduction = os.Getenv("GIN_MODE") == "release" ||
		os.Getenv("ENVIRONMENT") == "production" ||
		os.Getenv("ENV") == "production"

	LogLevel = getLogLevel()
)

const (
	LogLevelDebug = iota
	LogLevelInfo
	LogLevelWarn
	LogLevelError
)

func getLogLevel() int {
	level := strings.ToUpper(os.Getenv("LOG_LEVEL"))
	switch level {
	case "DEBUG":
		return LogLevelDebug
	case "WARN", "WARNING":
		return LogLevelWarn
	case "ERROR":
		return LogLevelError
	default:
		return LogLevelInfo
	}
}

var emailPattern = regexp.MustCompile(`[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}`)

// MaskEmail keeps the first character and the domain: j***@example.com
func MaskEmail(email string) string {
	if !IsProduction {
		return email
	}
	at := strings.Index(email, "@")
	if at <= 0 {
		return "***"
	}
	return email[:1] + "***" + email[at:]
}

func sanitize(msg string) string {
	if !IsProduction {
		return msg
	}
	return emailPattern.ReplaceAllStringFunc(msg, func(m string) string {
		at := strings.Index(m, "@")
		return m[:1] + "***" + m[at:]
	})
}

func logAt(level int, prefix, format string, args ...interface{}) {
	if level < LogLevel {
		return
	}
	log.Printf("%s %s", prefix, sanitize(fmt.Sprintf(format, args...)))
}

func LogDebug(format string, args ...interface{}) {
	logAt(LogLevelDebug, "[DEBUG]", format, args...)
}

func LogInfo(format string, args ...interface{}) {
	logAt(LogLevelInfo, "[INFO]", format, args...)
}

func LogWarn(format string, args ...interface{}) {
	logAt(LogLevelWarn, "[WARN]", format, args...)
}

func LogError(format string, args ...interface{}) {
	logAt(LogLevelError, "[ERROR]", format, args...)
}
