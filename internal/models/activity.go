package models

import "time"

// EventKind distinguishes plain injection hits from privileged execution
// attempts. Persisted values must stay stable, historical rows aggregate
// across versions.
type EventKind int

const (
	EventKindHTML       EventKind = 0
	EventKindUnsafeExec EventKind = 1
)

// ActivityErrorCode is the recorded outcome of a resolution attempt. Codes
// 0-6 match the legacy activities table; 7 and 8 are additions for outcomes
// the legacy implementation dropped silently.
type ActivityErrorCode int

const (
	ErrNone                ActivityErrorCode = 0
	ErrPhpDisabled         ActivityErrorCode = 1
	ErrNotFound            ActivityErrorCode = 2
	ErrInfiniteLoop        ActivityErrorCode = 3
	ErrUnexpected          ActivityErrorCode = 4
	ErrKeyNotFound         ActivityErrorCode = 5
	ErrUnauthorizedRequest ActivityErrorCode = 6
	ErrDisabled            ActivityErrorCode = 7
	ErrPolicyDenied        ActivityErrorCode = 8
)

var activityErrorMessages = map[ActivityErrorCode]string{
	ErrNone:                "",
	ErrPhpDisabled:         "Unsafe execution is disabled",
	ErrNotFound:            "Code not found",
	ErrInfiniteLoop:        "Infinite Loop",
	ErrUnexpected:          "An unexpected error occurred",
	ErrKeyNotFound:         "Key not found",
	ErrUnauthorizedRequest: "Unauthorized Request",
	ErrDisabled:            "Code is disabled",
	ErrPolicyDenied:        "Policy denied",
}

// Message returns the human-readable description for an error code.
func (e ActivityErrorCode) Message() string { return activityErrorMessages[e] }

// ActivityModel is one resolution attempt. The column set (tenant, time, ip,
// source_post_id, viewer_id, code_identifier, event_kind, error_code) is a
// bit-exact contract: historical rows must remain aggregatable.
type ActivityModel struct {
	ID             uint              `json:"id"              gorm:"primaryKey;autoIncrement"`
	Tenant         int               `json:"tenant"          gorm:"index"`
	Time           time.Time         `json:"time"            gorm:"index;index:idx_code_time,composite:2"`
	IP             *string           `json:"ip"`
	SourcePostID   *string           `json:"source_post_id"`
	ViewerID       *string           `json:"viewer_id"`
	CodeIdentifier *string           `json:"code_identifier" gorm:"index:idx_code_time,composite:1"`
	EventKind      EventKind         `json:"event_kind"`
	ErrorCode      ActivityErrorCode `json:"error_code"`
}

func (ActivityModel) TableName() string { return "activities" }
