package models

// PublicationState is the editorial state of a code entity. Only Published and
// Private codes are ever served; Private additionally requires an authenticated
// viewer.
type PublicationState string

const (
	StateDraft         PublicationState = "draft"
	StatePendingReview PublicationState = "pending"
	StatePrivate       PublicationState = "private"
	StateTrashed       PublicationState = "trash"
	StatePublished     PublicationState = "publish"
)

// CodeModel stores one injectable payload (HTML/CSS/JS or a privileged script).
// Title is the canonical lookup key; Slug is an optional alternate key.
type CodeModel struct {
	Base
	Title       string           `json:"title"        gorm:"uniqueIndex;not null"`
	Slug        string           `json:"slug"         gorm:"index"`
	Body        string           `json:"body"         gorm:"type:longtext"`
	State       PublicationState `json:"state"        gorm:"index;default:'draft'"`
	Description string           `json:"description"`

	// Per-code flags. Unset columns default to false so a freshly created
	// code is inert until the operator opts in.
	Tracking          bool `json:"tracking"           gorm:"default:false"`
	Enabled           bool `json:"enabled"            gorm:"default:false"`
	IsPlugin          bool `json:"is_plugin"          gorm:"default:false"`
	PubliclyQueryable bool `json:"publicly_queryable" gorm:"default:false"`
	NoCache           bool `json:"no_cache"           gorm:"default:false"`

	ActivatorKey string `json:"activator_key"`
	ContentType  string `json:"content_type" gorm:"default:'text/plain'"`
}

func (CodeModel) TableName() string { return "codes" }
