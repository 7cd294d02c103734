package injection

import "github.com/code-injection/core/internal/models"

// PolicyResult is the render eligibility verdict for an entity under a mode.
type PolicyResult struct {
	ContentType string
	Cache       CacheDirective
}

// CanRender evaluates the per-entity access policy. Rules run in order and
// the first failing rule wins:
//
//  1. the entity must be visible to the viewer,
//  2. disabled entities never render,
//  3. plugin-mode entities never render as plain injected content,
//  4. raw public retrieval additionally requires the publicly-queryable flag
//     and excludes plugin-mode entities regardless of that flag.
//
// cacheMaxAge is the operator-configured public max-age in seconds.
func CanRender(entity *models.CodeModel, mode Mode, viewerAuthenticated bool, cacheMaxAge int) (PolicyResult, *Rejection) {
	if !IsVisible(entity, viewerAuthenticated) {
		return PolicyResult{}, statusRejection(entity, viewerAuthenticated)
	}

	if !entity.Enabled {
		return PolicyResult{}, reject(ReasonDisabled, "code is disabled")
	}

	switch mode {
	case ModeInjection, ModeWidget:
		if entity.IsPlugin {
			return PolicyResult{}, reject(ReasonPolicyDenied, "plugin-mode code renders only through privileged execution")
		}
	case ModePublicRaw:
		if entity.IsPlugin || !entity.PubliclyQueryable {
			return PolicyResult{}, reject(ReasonPolicyDenied, "code is not publicly queryable")
		}
	}

	result := PolicyResult{
		Cache: CacheDirective{NoStore: entity.NoCache, MaxAge: cacheMaxAge},
	}
	// Standard injection ignores the stored content type, the caller has
	// already established an HTML context.
	if mode == ModePublicRaw {
		result.ContentType = entity.ContentType
		if result.ContentType == "" {
			result.ContentType = "text/plain"
		}
	}
	return result, nil
}
