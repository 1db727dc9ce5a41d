package events

import "time"

// NoticeLevel is the severity of a user-facing notice.
type NoticeLevel string

// Notice level constants.
const (
	NoticeWarn  NoticeLevel = "warn"
	NoticeError NoticeLevel = "error"
)

// NoticeEvent is a user-visible notification. Notices sharing a non-empty
// Key are deduplicated by the display layer.
type NoticeEvent struct {
	Level     NoticeLevel
	Message   string
	Key       string
	Timestamp time.Time
}

// NewWarnNotice creates a warning notice.
func NewWarnNotice(msg, key string) NoticeEvent {
	return NoticeEvent{
		Level:     NoticeWarn,
		Message:   msg,
		Key:       key,
		Timestamp: time.Now(),
	}
}

// NewErrorNotice creates an error notice.
func NewErrorNotice(msg, key string) NoticeEvent {
	return NoticeEvent{
		Level:     NoticeError,
		Message:   msg,
		Key:       key,
		Timestamp: time.Now(),
	}
}
