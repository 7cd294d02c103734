package injection

import (
	"fmt"
	"net/http"

	"github.com/code-injection/core/internal/models"
)

// Mode is the access mode a resolution request arrives with.
type Mode int

const (
	// ModeInjection renders the body as nested content within a page
	// (shortcode/widget/block use).
	ModeInjection Mode = iota
	// ModePublicRaw is unauthenticated direct retrieval by identifier.
	ModePublicRaw
	// ModeWidget is shortcode/widget use inside a post body. Policy-wise it
	// behaves like ModeInjection but carries the enclosing post for
	// attribution.
	ModeWidget
)

// RejectReason enumerates every way a resolution can be turned down.
type RejectReason int

const (
	ReasonNotFound RejectReason = iota
	ReasonInvalidState
	ReasonDisabled
	ReasonPolicyDenied
	ReasonInfiniteLoop
	ReasonExecDisabled
	ReasonKeyNotFound
	ReasonUnauthorized
	ReasonUnexpected
)

var reasonNames = map[RejectReason]string{
	ReasonNotFound:     "NotFound",
	ReasonInvalidState: "InvalidState",
	ReasonDisabled:     "Disabled",
	ReasonPolicyDenied: "PolicyDenied",
	ReasonInfiniteLoop: "InfiniteLoop",
	ReasonExecDisabled: "ExecDisabled",
	ReasonKeyNotFound:  "KeyNotFound",
	ReasonUnauthorized: "UnauthorizedRequest",
	ReasonUnexpected:   "UnexpectedError",
}

func (r RejectReason) String() string { return reasonNames[r] }

// ActivityCode maps a rejection reason to its persisted activity error code.
// InvalidState is recorded as UnauthorizedRequest (6) for compatibility with
// the legacy activities table.
func (r RejectReason) ActivityCode() models.ActivityErrorCode {
	switch r {
	case ReasonNotFound:
		return models.ErrNotFound
	case ReasonInvalidState, ReasonUnauthorized:
		return models.ErrUnauthorizedRequest
	case ReasonDisabled:
		return models.ErrDisabled
	case ReasonPolicyDenied:
		return models.ErrPolicyDenied
	case ReasonInfiniteLoop:
		return models.ErrInfiniteLoop
	case ReasonExecDisabled:
		return models.ErrPhpDisabled
	case ReasonKeyNotFound:
		return models.ErrKeyNotFound
	case ReasonUnexpected:
		return models.ErrUnexpected
	}
	return models.ErrNone
}

// Rejection is a structured refusal. It is a result value; nothing in the
// engine panics or throws across component boundaries.
type Rejection struct {
	Reason RejectReason
	Detail string
}

func (r *Rejection) Error() string {
	if r.Detail == "" {
		return r.Reason.String()
	}
	return fmt.Sprintf("%s: %s", r.Reason, r.Detail)
}

func reject(reason RejectReason, detail string) *Rejection {
	return &Rejection{Reason: reason, Detail: detail}
}

// expiredTimestamp is the fixed historical Expires value emitted for
// no-cache responses.
const expiredTimestamp = "Sat, 26 Jul 1997 05:00:00 GMT"

// CacheDirective describes the caching headers a render result carries.
type CacheDirective struct {
	NoStore bool
	MaxAge  int // seconds, meaningful when NoStore is false
}

// Apply writes the directive onto response headers.
func (d CacheDirective) Apply(h http.Header) {
	if d.NoStore {
		h.Set("Pragma", "no-cache")
		h.Set("Cache-Control", "no-cache, must-revalidate, max-age=0")
		h.Set("Expires", expiredTimestamp)
		return
	}
	h.Set("Pragma", "public")
	h.Set("Cache-Control", fmt.Sprintf("max-age=%d, public, no-transform", d.MaxAge))
}

// RenderResult is a successful resolution.
type RenderResult struct {
	Body        string
	ContentType string
	Cache       CacheDirective
}

// ViewerContext carries everything the engine needs to know about the
// requesting viewer. It travels with each call; the engine keeps no
// per-viewer state.
type ViewerContext struct {
	IP            string
	ViewerID      *string
	TenantID      int
	SourcePostID  *string
	Authenticated bool
}
