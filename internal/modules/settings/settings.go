package settings

import (
	"errors"
	"strconv"
	"strings"

	"github.com/code-injection/core/internal/models"
	"gorm.io/gorm"
)

// Option keys managed by operators at runtime.
const (
	KeyUnsafeExecutionEnabled = "unsafe_execution_enabled"
	KeyUnsafeIgnoreKeys       = "unsafe_ignore_keys"
	KeyUnsafeKeys             = "unsafe_keys"
	KeyAllowNestedInjection   = "allow_nested_injection"
	KeyCacheMaxAge            = "cache_max_age"
)

// DefaultCacheMaxAge is the public max-age (seconds) emitted for cacheable
// raw responses when the operator has not configured one.
const DefaultCacheMaxAge = 84600

// Service reads operator-managed settings from the options table. All
// accessors fall back to safe defaults when the option row is absent, the
// unsafe execution path stays off until explicitly enabled.
type Service struct{ db *gorm.DB }

func NewService(db *gorm.DB) *Service { return &Service{db: db} }

func (s *Service) get(key string) (string, bool) {
	var opt models.OptionModel
	if err := s.db.Where("name = ?", key).First(&opt).Error; err != nil {
		return "", false
	}
	return opt.Value, true
}

// Bool returns the option as a boolean, or def when unset/unparsable.
func (s *Service) Bool(key string, def bool) bool {
	raw, ok := s.get(key)
	if !ok {
		return def
	}
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "1", "true", "on", "yes":
		return true
	case "0", "false", "off", "no", "":
		return false
	}
	return def
}

// Int returns the option as an integer, or def when unset/unparsable.
func (s *Service) Int(key string, def int) int {
	raw, ok := s.get(key)
	if !ok {
		return def
	}
	v, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return def
	}
	return v
}

// UnsafeExecutionEnabled reports whether privileged execution is globally on.
func (s *Service) UnsafeExecutionEnabled() bool {
	return s.Bool(KeyUnsafeExecutionEnabled, false)
}

// UnsafeIgnoreKeys reports whether the activator-key check is bypassed.
func (s *Service) UnsafeIgnoreKeys() bool {
	return s.Bool(KeyUnsafeIgnoreKeys, false)
}

// UnsafeKeys returns the configured activator key set.
func (s *Service) UnsafeKeys() []string {
	raw, _ := s.get(KeyUnsafeKeys)
	return ExtractKeys(raw)
}

// AllowNestedInjection reports whether injected bodies are scanned and
// expanded for nested injection directives.
func (s *Service) AllowNestedInjection() bool {
	return s.Bool(KeyAllowNestedInjection, false)
}

// CacheMaxAge returns the public cache max-age in seconds.
func (s *Service) CacheMaxAge() int {
	return s.Int(KeyCacheMaxAge, DefaultCacheMaxAge)
}

// Set upserts an option value.
func (s *Service) Set(key, value string) error {
	var existing models.OptionModel
	err := s.db.Where("name = ?", key).First(&existing).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return s.db.Create(&models.OptionModel{Name: key, Value: value}).Error
	}
	if err != nil {
		return err
	}
	existing.Value = value
	return s.db.Save(&existing).Error
}

// ExtractKeys parses a comma-separated key list, dropping blank entries.
func ExtractKeys(text string) []string {
	var keys []string
	for _, part := range strings.Split(text, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		keys = append(keys, part)
	}
	return keys
}
