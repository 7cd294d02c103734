package settings

import (
	"testing"

	"github.com/code-injection/core/internal/models"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func testService(t *testing.T) *Service {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.OptionModel{}))
	return NewService(db)
}

func TestDefaults(t *testing.T) {
	svc := testService(t)

	// Everything dangerous defaults to off.
	assert.False(t, svc.UnsafeExecutionEnabled())
	assert.False(t, svc.UnsafeIgnoreKeys())
	assert.False(t, svc.AllowNestedInjection())
	assert.Empty(t, svc.UnsafeKeys())
	assert.Equal(t, DefaultCacheMaxAge, svc.CacheMaxAge())
}

func TestSetAndRead(t *testing.T) {
	svc := testService(t)

	require.NoError(t, svc.Set(KeyUnsafeExecutionEnabled, "true"))
	require.NoError(t, svc.Set(KeyUnsafeKeys, "key-1, key-2"))
	require.NoError(t, svc.Set(KeyCacheMaxAge, "3600"))

	assert.True(t, svc.UnsafeExecutionEnabled())
	assert.Equal(t, []string{"key-1", "key-2"}, svc.UnsafeKeys())
	assert.Equal(t, 3600, svc.CacheMaxAge())
}

func TestSetUpserts(t *testing.T) {
	svc := testService(t)

	require.NoError(t, svc.Set(KeyCacheMaxAge, "60"))
	require.NoError(t, svc.Set(KeyCacheMaxAge, "120"))
	assert.Equal(t, 120, svc.CacheMaxAge())
}

func TestBoolParsing(t *testing.T) {
	svc := testService(t)

	for raw, want := range map[string]bool{
		"1": true, "true": true, "ON": true, "yes": true,
		"0": false, "false": false, "off": false, "no": false,
	} {
		require.NoError(t, svc.Set(KeyAllowNestedInjection, raw))
		assert.Equal(t, want, svc.AllowNestedInjection(), "raw=%q", raw)
	}

	// Garbage falls back to the default.
	require.NoError(t, svc.Set(KeyAllowNestedInjection, "maybe"))
	assert.False(t, svc.AllowNestedInjection())
}

func TestIntFallback(t *testing.T) {
	svc := testService(t)
	require.NoError(t, svc.Set(KeyCacheMaxAge, "not-a-number"))
	assert.Equal(t, DefaultCacheMaxAge, svc.CacheMaxAge())
}

func TestExtractKeys(t *testing.T) {
	assert.Equal(t, []string{"a", "b", "c"}, ExtractKeys("a,b,c"))
	assert.Equal(t, []string{"a", "b"}, ExtractKeys(" a , , b ,"))
	assert.Empty(t, ExtractKeys(""))
	assert.Empty(t, ExtractKeys(" , ,"))
}
