package code

import (
	"strings"
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
	require.NoError(t, db.AutoMigrate(&models.CodeModel{}))
	return NewService(db)
}

func TestCreateAutoTitle(t *testing.T) {
	svc := testService(t)

	item, err := svc.Create(&CreateCodeDTO{Body: "<b>x</b>"})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(item.Title, "code-"), item.Title)
	assert.Equal(t, models.StateDraft, item.State)
	assert.Equal(t, "text/plain", item.ContentType)
	assert.False(t, item.Enabled)
	assert.False(t, item.Tracking)
}

func TestCreateDuplicateTitleRejected(t *testing.T) {
	svc := testService(t)

	_, err := svc.Create(&CreateCodeDTO{Title: "code-1", Body: "a"})
	require.NoError(t, err)
	_, err = svc.Create(&CreateCodeDTO{Title: "code-1", Body: "b"})
	assert.Error(t, err)
}

func TestFindByKeys(t *testing.T) {
	svc := testService(t)

	created, err := svc.Create(&CreateCodeDTO{Title: "code-1", Slug: "promo", Body: "x"})
	require.NoError(t, err)

	byTitle, err := svc.FindByTitle("code-1")
	require.NoError(t, err)
	require.NotNil(t, byTitle)

	bySlug, err := svc.FindBySlug("promo")
	require.NoError(t, err)
	require.NotNil(t, bySlug)

	byID, err := svc.FindByID(created.ID)
	require.NoError(t, err)
	require.NotNil(t, byID)

	missing, err := svc.FindByTitle("nope")
	require.NoError(t, err)
	assert.Nil(t, missing)

	// An empty slug never matches codes that have no slug set.
	blank, err := svc.FindBySlug("")
	require.NoError(t, err)
	assert.Nil(t, blank)
}

func TestUpdatePartial(t *testing.T) {
	svc := testService(t)

	created, err := svc.Create(&CreateCodeDTO{Title: "code-1", Body: "old"})
	require.NoError(t, err)

	body := "new"
	enabled := true
	state := models.StatePublished
	updated, err := svc.Update(created.ID, &UpdateCodeDTO{Body: &body, Enabled: &enabled, State: &state})
	require.NoError(t, err)

	assert.Equal(t, "new", updated.Body)
	assert.True(t, updated.Enabled)
	assert.Equal(t, models.StatePublished, updated.State)
	// Untouched fields survive.
	assert.Equal(t, "code-1", updated.Title)
}

func TestUpdateMissingReturnsNil(t *testing.T) {
	svc := testService(t)
	body := "x"
	updated, err := svc.Update("no-such-id", &UpdateCodeDTO{Body: &body})
	require.NoError(t, err)
	assert.Nil(t, updated)
}

func TestSetEnabledRoundTrip(t *testing.T) {
	svc := testService(t)

	enabled := true
	created, err := svc.Create(&CreateCodeDTO{Title: "code-1", Body: "x", Enabled: &enabled})
	require.NoError(t, err)

	require.NoError(t, svc.SetEnabled(created.ID, false))
	item, err := svc.FindByID(created.ID)
	require.NoError(t, err)
	assert.False(t, item.Enabled)

	require.NoError(t, svc.SetEnabled(created.ID, true))
	item, err = svc.FindByID(created.ID)
	require.NoError(t, err)
	assert.True(t, item.Enabled)
}

func TestDelete(t *testing.T) {
	svc := testService(t)

	created, err := svc.Create(&CreateCodeDTO{Title: "code-1", Body: "x"})
	require.NoError(t, err)
	require.NoError(t, svc.Delete(created.ID))

	item, err := svc.FindByID(created.ID)
	require.NoError(t, err)
	assert.Nil(t, item)
}
