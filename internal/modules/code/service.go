package code

import (
	"errors"
	"fmt"
	"strings"

	"github.com/code-injection/core/internal/models"
	"github.com/code-injection/core/internal/pkg/pagination"
	"github.com/code-injection/core/internal/pkg/response"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Service is the entity store: keyed lookup and CRUD for code entities.
type Service struct{ db *gorm.DB }

func NewService(db *gorm.DB) *Service { return &Service{db: db} }

// FindByID returns the code with the given ID, or nil when absent.
func (s *Service) FindByID(id string) (*models.CodeModel, error) {
	return s.findOne("id = ?", id)
}

// FindByTitle returns the code with the given title, or nil when absent.
// Title is the canonical lookup key of the injection directive.
func (s *Service) FindByTitle(title string) (*models.CodeModel, error) {
	return s.findOne("title = ?", title)
}

// FindBySlug returns the code with the given slug, or nil when absent.
func (s *Service) FindBySlug(slug string) (*models.CodeModel, error) {
	if strings.TrimSpace(slug) == "" {
		return nil, nil
	}
	return s.findOne("slug = ?", slug)
}

func (s *Service) findOne(query string, arg string) (*models.CodeModel, error) {
	var item models.CodeModel
	if err := s.db.Where(query, arg).First(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &item, nil
}

// ListAll returns every code entity ordered by creation time, descending.
func (s *Service) ListAll() ([]models.CodeModel, error) {
	var items []models.CodeModel
	err := s.db.Order("created_at DESC").Find(&items).Error
	return items, err
}

// List returns a page of code entities ordered by creation time, descending.
func (s *Service) List(q pagination.Query) ([]models.CodeModel, response.Pagination, error) {
	tx := s.db.Model(&models.CodeModel{}).Order("created_at DESC")
	var items []models.CodeModel
	pag, err := pagination.Paginate(tx, q, &items)
	return items, pag, err
}

// CreateCodeDTO is the payload for creating a code entity.
type CreateCodeDTO struct {
	Title             string                  `json:"title"`
	Slug              string                  `json:"slug"`
	Body              string                  `json:"body" binding:"required"`
	State             models.PublicationState `json:"state"`
	Description       string                  `json:"description"`
	Tracking          *bool                   `json:"tracking"`
	Enabled           *bool                   `json:"enabled"`
	IsPlugin          *bool                   `json:"is_plugin"`
	PubliclyQueryable *bool                   `json:"publicly_queryable"`
	NoCache           *bool                   `json:"no_cache"`
	ActivatorKey      string                  `json:"activator_key"`
	ContentType       string                  `json:"content_type"`
}

// Create stores a new code entity. A missing title gets an auto-generated
// one so the entity is addressable immediately.
func (s *Service) Create(dto *CreateCodeDTO) (*models.CodeModel, error) {
	title := strings.TrimSpace(dto.Title)
	if title == "" {
		title = generateTitle()
	}

	var count int64
	s.db.Model(&models.CodeModel{}).Where("title = ?", title).Count(&count)
	if count > 0 {
		return nil, fmt.Errorf("code %q already exists", title)
	}

	item := models.CodeModel{
		Title:        title,
		Slug:         strings.TrimSpace(dto.Slug),
		Body:         dto.Body,
		State:        dto.State,
		Description:  dto.Description,
		ActivatorKey: dto.ActivatorKey,
		ContentType:  dto.ContentType,
	}
	if item.State == "" {
		item.State = models.StateDraft
	}
	if item.ContentType == "" {
		item.ContentType = "text/plain"
	}
	applyFlag(&item.Tracking, dto.Tracking)
	applyFlag(&item.Enabled, dto.Enabled)
	applyFlag(&item.IsPlugin, dto.IsPlugin)
	applyFlag(&item.PubliclyQueryable, dto.PubliclyQueryable)
	applyFlag(&item.NoCache, dto.NoCache)

	return &item, s.db.Create(&item).Error
}

// UpdateCodeDTO is the payload for updating a code entity. Nil fields are
// left untouched.
type UpdateCodeDTO struct {
	Title             *string                  `json:"title"`
	Slug              *string                  `json:"slug"`
	Body              *string                  `json:"body"`
	State             *models.PublicationState `json:"state"`
	Description       *string                  `json:"description"`
	Tracking          *bool                    `json:"tracking"`
	Enabled           *bool                    `json:"enabled"`
	IsPlugin          *bool                    `json:"is_plugin"`
	PubliclyQueryable *bool                    `json:"publicly_queryable"`
	NoCache           *bool                    `json:"no_cache"`
	ActivatorKey      *string                  `json:"activator_key"`
	ContentType       *string                  `json:"content_type"`
}

// Update applies a partial update to an existing code entity.
func (s *Service) Update(id string, dto *UpdateCodeDTO) (*models.CodeModel, error) {
	item, err := s.FindByID(id)
	if err != nil || item == nil {
		return item, err
	}

	if dto.Title != nil {
		item.Title = strings.TrimSpace(*dto.Title)
	}
	if dto.Slug != nil {
		item.Slug = strings.TrimSpace(*dto.Slug)
	}
	if dto.Body != nil {
		item.Body = *dto.Body
	}
	if dto.State != nil {
		item.State = *dto.State
	}
	if dto.Description != nil {
		item.Description = *dto.Description
	}
	if dto.ActivatorKey != nil {
		item.ActivatorKey = *dto.ActivatorKey
	}
	if dto.ContentType != nil {
		item.ContentType = *dto.ContentType
	}
	applyFlag(&item.Tracking, dto.Tracking)
	applyFlag(&item.Enabled, dto.Enabled)
	applyFlag(&item.IsPlugin, dto.IsPlugin)
	applyFlag(&item.PubliclyQueryable, dto.PubliclyQueryable)
	applyFlag(&item.NoCache, dto.NoCache)

	return item, s.db.Save(item).Error
}

// Delete removes a code entity.
func (s *Service) Delete(id string) error {
	return s.db.Where("id = ?", id).Delete(&models.CodeModel{}).Error
}

// SetEnabled flips the enabled flag directly, bypassing the partial-update
// path. The plugin autoload sweep uses it to disable a plugin around its
// execution window.
func (s *Service) SetEnabled(id string, enabled bool) error {
	return s.db.Model(&models.CodeModel{}).Where("id = ?", id).Update("enabled", enabled).Error
}

func applyFlag(dst *bool, src *bool) {
	if src != nil {
		*dst = *src
	}
}

func generateTitle() string {
	return "code-" + strings.Split(uuid.New().String(), "-")[0]
}
