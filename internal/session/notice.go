package session

import (
	"fmt"
	"log/slog"
	"time"
)

// Op names a session operation that can fail, for user-facing notices.
type Op string

const (
	OpLoad   Op = "load history"
	OpReload Op = "reload history"
	OpSave   Op = "save history"
	OpReset  Op = "reset history"
	OpEncode Op = "encode history"
	OpRecord Op = "record snapshot"
)

// Format creates a user-facing message for a failed operation.
func Format(op Op, err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("Failed to %s: %v", op, err)
}

// FormatWith adds a location or other context to the message.
func FormatWith(op Op, context string, err error) string {
	if err == nil {
		return ""
	}
	if context == "" {
		return Format(op, err)
	}
	return fmt.Sprintf("Failed to %s '%s': %v", op, context, err)
}

// Notice is a non-fatal warning shown to the user.
type Notice struct {
	At      time.Time
	Level   slog.Level
	Message string
}

const defaultMaxNotices = 20
