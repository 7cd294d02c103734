package activity

import (
	"time"

	"github.com/code-injection/core/internal/models"
)

// DedupWindow is the trailing interval during which identical events
// coalesce into a single record.
const DedupWindow = 10 * time.Second

// Viewer is the request context a recording is attributed to.
type Viewer struct {
	IP           string
	ViewerID     *string
	TenantID     int
	SourcePostID *string
}

// CodeLookup resolves a code identifier to its entity, used for the
// per-code tracking opt-in check.
type CodeLookup interface {
	FindByTitle(title string) (*models.CodeModel, error)
}

// Recorder writes deduplicated activity events. Two concurrent calls inside
// the same window can both pass the duplicate check and insert twice; that is
// an accepted race, the window provides coalescing, not an at-most-once
// guarantee.
type Recorder struct {
	store Store
	codes CodeLookup
	now   func() time.Time
}

func NewRecorder(store Store, codes CodeLookup) *Recorder {
	return &Recorder{store: store, codes: codes, now: time.Now}
}

// SetClock overrides the recorder's time source.
func (r *Recorder) SetClock(now func() time.Time) { r.now = now }

// Record writes one event unless an identical tuple was already recorded
// within the trailing dedup window. HTML events for codes that have tracking
// switched off are skipped entirely.
func (r *Recorder) Record(v Viewer, kind models.EventKind, identifier *string, errCode models.ActivityErrorCode) error {
	if kind == models.EventKindHTML && identifier != nil && r.codes != nil {
		entity, err := r.codes.FindByTitle(*identifier)
		if err != nil {
			return err
		}
		if entity != nil && !entity.Tracking {
			return nil
		}
	}

	now := r.now().UTC()
	ev := &models.ActivityModel{
		Tenant:         v.TenantID,
		Time:           now,
		IP:             optional(v.IP),
		SourcePostID:   v.SourcePostID,
		ViewerID:       v.ViewerID,
		CodeIdentifier: identifier,
		EventKind:      kind,
		ErrorCode:      errCode,
	}

	count, err := r.store.CountMatching(ev, now.Add(-DedupWindow), now)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	return r.store.InsertEvent(ev)
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
