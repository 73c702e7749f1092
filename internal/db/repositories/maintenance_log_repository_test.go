package repositories

import (
	"context"
	"testing"
	"time"

	"aerocleanse/etl/internal/db"
	gormModels "aerocleanse/etl/internal/models/gorm"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// Setup test database
func setupTestDB(t *testing.T) *gorm.DB {
	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}

	// every pooled connection would otherwise get its own empty in-memory database
	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	if err := db.EnsureSchema(gdb); err != nil {
		t.Fatalf("Failed to migrate: %v", err)
	}
	return gdb
}

func strPtr(s string) *string { return &s }

func dateOf(y int, m time.Month, d int) gormModels.CalendarDate {
	return gormModels.NewCalendarDate(time.Date(y, m, d, 0, 0, 0, 0, time.UTC))
}

func TestMaintenanceLogRepo_AppendBatch(t *testing.T) {
	gdb := setupTestDB(t)
	repo := NewMaintenanceLogRepo(gdb, 2)
	ctx := context.Background()

	eventDate := dateOf(2024, time.January, 31)
	logs := []gormModels.MaintenanceLog{
		{AircraftID: "F-16-1001", EventDate: &eventDate, ErrorCode: strPtr("ERR-2024-HY12"), SourceFile: strPtr("a.csv"), ProcessedAt: dateOf(2024, time.February, 1)},
		{AircraftID: "C-130-2002", SourceFile: strPtr("a.csv"), ProcessedAt: dateOf(2024, time.February, 1)},
		{AircraftID: "B-52-3003", SourceFile: strPtr("b.json"), ProcessedAt: dateOf(2024, time.February, 1)},
	}

	require.NoError(t, repo.AppendBatch(ctx, logs))

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)

	fromA, err := repo.CountBySourceFile(ctx, "a.csv")
	require.NoError(t, err)
	assert.Equal(t, int64(2), fromA)

	stored, err := repo.GetBySourceFile(ctx, "a.csv")
	require.NoError(t, err)
	require.Len(t, stored, 2)
	assert.Equal(t, "F-16-1001", stored[0].AircraftID)
	require.NotNil(t, stored[0].EventDate)
	assert.Equal(t, "2024-01-31", time.Time(*stored[0].EventDate).Format("2006-01-02"))
	assert.Equal(t, "ERR-2024-HY12", *stored[0].ErrorCode)
	assert.Nil(t, stored[1].EventDate)
	assert.Nil(t, stored[1].ErrorCode)
	assert.Equal(t, "2024-02-01", time.Time(stored[1].ProcessedAt).Format("2006-01-02"))
}

func TestMaintenanceLogRepo_AppendOnly(t *testing.T) {
	gdb := setupTestDB(t)
	repo := NewMaintenanceLogRepo(gdb, 100)
	ctx := context.Background()

	batch := []gormModels.MaintenanceLog{{AircraftID: "A-10-1", ProcessedAt: dateOf(2024, time.March, 1)}}
	require.NoError(t, repo.AppendBatch(ctx, batch))

	again := []gormModels.MaintenanceLog{{AircraftID: "A-10-1", ProcessedAt: dateOf(2024, time.March, 1)}}
	require.NoError(t, repo.AppendBatch(ctx, again))

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}

func TestMaintenanceLogRepo_FailedBatchWritesNothing(t *testing.T) {
	gdb := setupTestDB(t)
	repo := NewMaintenanceLogRepo(gdb, 1)
	ctx := context.Background()

	// duplicate primary key on the second row fails after the first row was inserted
	logs := []gormModels.MaintenanceLog{
		{ID: 7, AircraftID: "F-35-1", ProcessedAt: dateOf(2024, time.March, 1)},
		{ID: 7, AircraftID: "F-35-2", ProcessedAt: dateOf(2024, time.March, 1)},
	}
	assert.Error(t, repo.AppendBatch(ctx, logs))

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)
}

func TestMaintenanceLogRepo_ProcessedAtDefaultsWhenUnset(t *testing.T) {
	gdb := setupTestDB(t)
	repo := NewMaintenanceLogRepo(gdb, 100)
	ctx := context.Background()

	require.NoError(t, repo.AppendBatch(ctx, []gormModels.MaintenanceLog{{AircraftID: "F-16-9"}}))

	var stored gormModels.MaintenanceLog
	require.NoError(t, gdb.First(&stored).Error)
	assert.False(t, time.Time(stored.ProcessedAt).IsZero())
}

func TestMaintenanceLogRepo_EmptyBatchIsNoop(t *testing.T) {
	gdb := setupTestDB(t)
	repo := NewMaintenanceLogRepo(gdb, 100)

	assert.NoError(t, repo.AppendBatch(context.Background(), nil))
}

func TestMaintenanceLogRepo_DatesStoredAsCalendarText(t *testing.T) {
	gdb := setupTestDB(t)
	repo := NewMaintenanceLogRepo(gdb, 100)
	ctx := context.Background()

	eventDate := dateOf(2024, time.January, 31)
	require.NoError(t, repo.AppendBatch(ctx, []gormModels.MaintenanceLog{
		{AircraftID: "A-1", EventDate: &eventDate, ProcessedAt: dateOf(2024, time.March, 5)},
		{AircraftID: "A-2", ProcessedAt: dateOf(2024, time.March, 5)},
	}))

	var raw struct {
		EventDate   string
		ProcessedAt string
	}
	require.NoError(t, gdb.Raw(
		"SELECT CAST(event_date AS TEXT) AS event_date, CAST(processed_at AS TEXT) AS processed_at FROM maintenance_logs WHERE aircraft_id = ?", "A-1",
	).Scan(&raw).Error)
	assert.Equal(t, "2024-01-31", raw.EventDate)
	assert.Equal(t, "2024-03-05", raw.ProcessedAt)

	// reporting queries compare against plain date literals
	var matched int64
	require.NoError(t, gdb.Raw("SELECT COUNT(*) FROM maintenance_logs WHERE event_date = '2024-01-31'").Scan(&matched).Error)
	assert.Equal(t, int64(1), matched)

	var missing int64
	require.NoError(t, gdb.Raw("SELECT COUNT(*) FROM maintenance_logs WHERE event_date IS NULL").Scan(&missing).Error)
	assert.Equal(t, int64(1), missing)
}
