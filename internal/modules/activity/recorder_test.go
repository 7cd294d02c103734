package activity

import (
	"testing"
	"time"

	"github.com/code-injection/core/internal/models"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.CodeModel{}, &models.ActivityModel{}))
	return db
}

func countEvents(t *testing.T, db *gorm.DB) int64 {
	t.Helper()
	var count int64
	require.NoError(t, db.Model(&models.ActivityModel{}).Count(&count).Error)
	return count
}

type stubLookup struct{ entity *models.CodeModel }

func (s *stubLookup) FindByTitle(string) (*models.CodeModel, error) { return s.entity, nil }

func fixedClock(at time.Time) func() time.Time {
	return func() time.Time { return at }
}

func strPtr(s string) *string { return &s }

func TestRecordDedupWithinWindow(t *testing.T) {
	db := testDB(t)
	recorder := NewRecorder(NewGormStore(db), nil)

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	recorder.SetClock(fixedClock(base))

	viewer := Viewer{IP: "203.0.113.7"}
	identifier := strPtr("code-1")

	require.NoError(t, recorder.Record(viewer, models.EventKindHTML, identifier, models.ErrNone))
	require.NoError(t, recorder.Record(viewer, models.EventKindHTML, identifier, models.ErrNone))
	assert.EqualValues(t, 1, countEvents(t, db))

	recorder.SetClock(fixedClock(base.Add(11 * time.Second)))
	require.NoError(t, recorder.Record(viewer, models.EventKindHTML, identifier, models.ErrNone))
	assert.EqualValues(t, 2, countEvents(t, db))
}

func TestRecordErrorCodeNotPartOfDedupTuple(t *testing.T) {
	db := testDB(t)
	recorder := NewRecorder(NewGormStore(db), nil)
	recorder.SetClock(fixedClock(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)))

	viewer := Viewer{IP: "203.0.113.7"}
	identifier := strPtr("code-1")

	require.NoError(t, recorder.Record(viewer, models.EventKindHTML, identifier, models.ErrNone))
	require.NoError(t, recorder.Record(viewer, models.EventKindHTML, identifier, models.ErrDisabled))
	assert.EqualValues(t, 1, countEvents(t, db))
}

func TestRecordDistinctTuplesBothLand(t *testing.T) {
	db := testDB(t)
	recorder := NewRecorder(NewGormStore(db), nil)
	recorder.SetClock(fixedClock(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)))

	identifier := strPtr("code-1")
	require.NoError(t, recorder.Record(Viewer{IP: "203.0.113.7"}, models.EventKindHTML, identifier, models.ErrNone))
	require.NoError(t, recorder.Record(Viewer{IP: "198.51.100.4"}, models.EventKindHTML, identifier, models.ErrNone))
	require.NoError(t, recorder.Record(Viewer{IP: "203.0.113.7"}, models.EventKindUnsafeExec, identifier, models.ErrNone))
	assert.EqualValues(t, 3, countEvents(t, db))
}

func TestRecordSkipsUntrackedCode(t *testing.T) {
	db := testDB(t)
	entity := &models.CodeModel{Title: "code-1", Tracking: false}
	recorder := NewRecorder(NewGormStore(db), &stubLookup{entity: entity})

	require.NoError(t, recorder.Record(Viewer{IP: "203.0.113.7"}, models.EventKindHTML, strPtr("code-1"), models.ErrNone))
	assert.EqualValues(t, 0, countEvents(t, db))

	entity.Tracking = true
	require.NoError(t, recorder.Record(Viewer{IP: "203.0.113.7"}, models.EventKindHTML, strPtr("code-1"), models.ErrNone))
	assert.EqualValues(t, 1, countEvents(t, db))
}

func TestRecordUnsafeExecIgnoresTrackingFlag(t *testing.T) {
	db := testDB(t)
	entity := &models.CodeModel{Title: "key-1", Tracking: false}
	recorder := NewRecorder(NewGormStore(db), &stubLookup{entity: entity})

	require.NoError(t, recorder.Record(Viewer{IP: "203.0.113.7"}, models.EventKindUnsafeExec, strPtr("key-1"), models.ErrNone))
	assert.EqualValues(t, 1, countEvents(t, db))
}

func TestRecordEmptyIPStoredAsNull(t *testing.T) {
	db := testDB(t)
	recorder := NewRecorder(NewGormStore(db), nil)

	require.NoError(t, recorder.Record(Viewer{}, models.EventKindHTML, strPtr("code-1"), models.ErrNone))

	var ev models.ActivityModel
	require.NoError(t, db.First(&ev).Error)
	assert.Nil(t, ev.IP)
}
