package injection

import "github.com/code-injection/core/internal/models"

// IsVisible reports whether an entity's publication state allows it to be
// served to the current viewer. Private requires authentication; Draft,
// PendingReview and Trashed are never visible, authenticated or not.
func IsVisible(entity *models.CodeModel, viewerAuthenticated bool) bool {
	if entity.State == models.StatePrivate {
		return viewerAuthenticated
	}
	return entity.State == models.StatePublished
}

// statusRejection classifies why the status check failed: authentication
// requirement vs. a state that is simply not servable.
func statusRejection(entity *models.CodeModel, viewerAuthenticated bool) *Rejection {
	if entity.State == models.StatePrivate && !viewerAuthenticated {
		return reject(ReasonUnauthorized, "private code requires an authenticated viewer")
	}
	return reject(ReasonInvalidState, "code is not published")
}
