package injection

import (
	"strings"

	"github.com/code-injection/core/internal/models"
	"github.com/code-injection/core/internal/modules/activity"
	"go.uber.org/zap"
)

// EntityStore is the lookup collaborator the engine resolves against.
type EntityStore interface {
	FindByID(id string) (*models.CodeModel, error)
	FindByTitle(title string) (*models.CodeModel, error)
	FindBySlug(slug string) (*models.CodeModel, error)
	ListAll() ([]models.CodeModel, error)
	SetEnabled(id string, enabled bool) error
}

// SettingsProvider supplies the operator-managed switches the engine
// consults per resolution.
type SettingsProvider interface {
	UnsafeExecutionEnabled() bool
	UnsafeIgnoreKeys() bool
	UnsafeKeys() []string
	AllowNestedInjection() bool
	CacheMaxAge() int
}

// EventRecorder receives every terminal resolution outcome.
type EventRecorder interface {
	Record(v activity.Viewer, kind models.EventKind, identifier *string, errCode models.ActivityErrorCode) error
}

// Engine is the resolution-and-safety engine. It is stateless and
// reentrant: every call carries its own identifier, viewer context and mode.
type Engine struct {
	codes    EntityStore
	settings SettingsProvider
	recorder EventRecorder
	exec     *UnsafeExecutor
	log      *zap.Logger
}

func NewEngine(codes EntityStore, settings SettingsProvider, recorder EventRecorder, exec *UnsafeExecutor, log *zap.Logger) *Engine {
	return &Engine{codes: codes, settings: settings, recorder: recorder, exec: exec, log: log}
}

// Resolve locates an entity by identifier, applies the access policy and
// renders it under the given mode. Every terminal outcome, success or
// rejection, is recorded before returning; a recording failure never masks
// the result.
func (e *Engine) Resolve(identifier string, mode Mode, viewer ViewerContext) (*RenderResult, *Rejection) {
	result, canonical, rejection := e.resolve(identifier, mode, viewer, rootAncestors(identifier))
	e.record(viewer, models.EventKindHTML, canonical, outcomeCode(rejection))
	return result, rejection
}

// resolve additionally returns the canonical identifier the outcome must be
// recorded under: the entity's title once located, the raw identifier when
// nothing matched. Recording under the title keeps the tracking opt-out and
// the report aggregations working for slug and ID lookups too.
func (e *Engine) resolve(identifier string, mode Mode, viewer ViewerContext, ancestors map[string]bool) (*RenderResult, *string, *Rejection) {
	entity, err := e.lookup(identifier)
	if err != nil {
		return nil, optionalString(identifier), reject(ReasonUnexpected, err.Error())
	}
	if entity == nil {
		return nil, optionalString(identifier), reject(ReasonNotFound, "no code matches identifier")
	}
	canonical := &entity.Title

	policy, rejection := CanRender(entity, mode, viewer.Authenticated, e.settings.CacheMaxAge())
	if rejection != nil {
		return nil, canonical, rejection
	}

	body := entity.Body
	if mode == ModeInjection || mode == ModeWidget {
		markAncestor(ancestors, entity)
		body, rejection = e.expand(entity, viewer, ancestors)
		if rejection != nil {
			return nil, canonical, rejection
		}
	}

	return &RenderResult{
		Body:        body,
		ContentType: policy.ContentType,
		Cache:       policy.Cache,
	}, canonical, nil
}

// expand applies the recursion guard to an entity's body and, when nested
// injection is enabled, replaces nested directives with their rendered
// output. The guard carries the full ancestor set through the render chain,
// so longer cycles (A→B→C→A) are caught, not just direct self-inclusion.
func (e *Engine) expand(entity *models.CodeModel, viewer ViewerContext, ancestors map[string]bool) (string, *Rejection) {
	directives := ParseDirectives(entity.Body)
	for _, d := range directives {
		if target := d.Identifier(); target != "" && ancestors[target] {
			return "", reject(ReasonInfiniteLoop, "nested directive references an ancestor of this code")
		}
	}

	if !e.settings.AllowNestedInjection() || len(directives) == 0 {
		return entity.Body, nil
	}

	body := entity.Body
	for _, d := range directives {
		target := d.Identifier()
		if target == "" {
			continue
		}

		nested, canonical, rejection := e.resolve(target, ModeInjection, viewer, cloneAncestors(ancestors))
		e.record(viewer, models.EventKindHTML, canonical, outcomeCode(rejection))

		// Nested rejections render as empty output: a broken inner code
		// must not break the enclosing page.
		replacement := ""
		if rejection == nil {
			replacement = nested.Body
		}
		body = strings.Replace(body, d.Raw, replacement, 1)
	}
	return body, nil
}

// ExecuteUnsafe runs a payload body with host privileges after the key gate.
// Every authorize outcome is recorded as an UnsafeExec event.
func (e *Engine) ExecuteUnsafe(body, requestedKey string, viewer ViewerContext) (*RenderResult, *Rejection) {
	keyID := optionalString(requestedKey)

	if !e.settings.UnsafeExecutionEnabled() {
		rejection := reject(ReasonExecDisabled, "privileged execution is globally disabled")
		e.record(viewer, models.EventKindUnsafeExec, nil, rejection.Reason.ActivityCode())
		return nil, rejection
	}

	if rejection := Authorize(requestedKey, e.settings.UnsafeKeys(), e.settings.UnsafeIgnoreKeys()); rejection != nil {
		e.record(viewer, models.EventKindUnsafeExec, keyID, rejection.Reason.ActivityCode())
		return nil, rejection
	}

	output, err := e.exec.Execute(body)
	if err != nil {
		e.record(viewer, models.EventKindUnsafeExec, keyID, models.ErrUnexpected)
		return nil, reject(ReasonUnexpected, err.Error())
	}

	e.record(viewer, models.EventKindUnsafeExec, keyID, models.ErrNone)
	return &RenderResult{Body: output, ContentType: "text/html"}, nil
}

// Authorize applies the unsafe-execution key gate: with ignoreKeySetting on
// every request passes, otherwise the requested key must be a non-empty
// member of the configured key set.
func Authorize(requestedKey string, configuredKeys []string, ignoreKeySetting bool) *Rejection {
	if ignoreKeySetting {
		return nil
	}
	if requestedKey == "" {
		return reject(ReasonKeyNotFound, "no activation key supplied")
	}
	for _, k := range configuredKeys {
		if k == requestedKey {
			return nil
		}
	}
	return reject(ReasonKeyNotFound, "activation key is not configured")
}

// LoadPlugins executes every enabled, key-authorized plugin-mode entity.
// Called once at startup, mirroring the legacy plugin autoload sweep. Each
// plugin is disabled for the duration of its run so a crash leaves it off.
func (e *Engine) LoadPlugins() {
	if !e.settings.UnsafeExecutionEnabled() {
		return
	}

	entities, err := e.codes.ListAll()
	if err != nil {
		e.log.Error("plugin sweep: list codes", zap.Error(err))
		return
	}

	ignoreKeys := e.settings.UnsafeIgnoreKeys()
	keys := e.settings.UnsafeKeys()

	for i := range entities {
		entity := &entities[i]
		if !IsVisible(entity, false) || !entity.Enabled || !entity.IsPlugin || entity.PubliclyQueryable {
			continue
		}
		if Authorize(entity.ActivatorKey, keys, ignoreKeys) != nil {
			continue
		}

		if err := e.codes.SetEnabled(entity.ID, false); err != nil {
			e.log.Error("plugin sweep: disable before run", zap.String("code", entity.Title), zap.Error(err))
			continue
		}
		if _, err := e.exec.Execute(entity.Body); err != nil {
			e.log.Error("plugin sweep: execution failed", zap.String("code", entity.Title), zap.Error(err))
		}
		if err := e.codes.SetEnabled(entity.ID, true); err != nil {
			e.log.Error("plugin sweep: re-enable after run", zap.String("code", entity.Title), zap.Error(err))
		}
	}
}

// lookup tries each lookup key in priority order: title, slug, then ID.
// The order is a contract, not an accident: title is the canonical directive
// key, so a title always wins over another entity's identical slug or ID.
func (e *Engine) lookup(identifier string) (*models.CodeModel, error) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" {
		return nil, nil
	}
	if entity, err := e.codes.FindByTitle(identifier); entity != nil || err != nil {
		return entity, err
	}
	if entity, err := e.codes.FindBySlug(identifier); entity != nil || err != nil {
		return entity, err
	}
	return e.codes.FindByID(identifier)
}

func (e *Engine) record(viewer ViewerContext, kind models.EventKind, identifier *string, errCode models.ActivityErrorCode) {
	v := activity.Viewer{
		IP:           viewer.IP,
		ViewerID:     viewer.ViewerID,
		TenantID:     viewer.TenantID,
		SourcePostID: viewer.SourcePostID,
	}
	if err := e.recorder.Record(v, kind, identifier, errCode); err != nil {
		e.log.Warn("activity recording failed", zap.Error(err))
	}
}

func outcomeCode(rejection *Rejection) models.ActivityErrorCode {
	if rejection == nil {
		return models.ErrNone
	}
	return rejection.Reason.ActivityCode()
}

func rootAncestors(identifier string) map[string]bool {
	return map[string]bool{identifier: true}
}

func markAncestor(ancestors map[string]bool, entity *models.CodeModel) {
	ancestors[entity.Title] = true
	if entity.Slug != "" {
		ancestors[entity.Slug] = true
	}
	ancestors[entity.ID] = true
}

func cloneAncestors(ancestors map[string]bool) map[string]bool {
	cloned := make(map[string]bool, len(ancestors))
	for k, v := range ancestors {
		cloned[k] = v
	}
	return cloned
}

func optionalString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
