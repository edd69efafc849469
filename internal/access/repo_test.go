package access

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/thesisvault/backend/pkg/db/models"
	"github.com/thesisvault/backend/pkg/enums"
)

func setupAccessTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	schema := `
CREATE TABLE IF NOT EXISTS thesis_access_requests (
  access_request_id INTEGER PRIMARY KEY AUTOINCREMENT,
  user_id INTEGER NOT NULL,
  thesis_id INTEGER NOT NULL,
  status TEXT NOT NULL,
  request_date DATETIME NOT NULL,
  approved_date DATETIME,
  remove_access_date DATETIME
);`
	require.NoError(t, db.Exec(schema).Error)
	return db
}

func seedRequest(t *testing.T, repo *Repository, userID, thesisID int64, status enums.AccessStatus, at time.Time) *models.AccessRequest {
	t.Helper()

	row, err := repo.Create(context.Background(), &models.AccessRequest{
		UserID:      userID,
		ThesisID:    thesisID,
		Status:      status,
		RequestDate: at,
	})
	require.NoError(t, err)
	return row
}

func TestAccessRepositoryCreateAndFind(t *testing.T) {
	repo := NewRepository(setupAccessTestDB(t))
	now := time.Now().UTC().Truncate(time.Second)

	created := seedRequest(t, repo, 7, 31, enums.AccessStatusPending, now)
	require.NotZero(t, created.AccessRequestID)

	found, err := repo.FindByID(context.Background(), created.AccessRequestID)
	require.NoError(t, err)
	assert.Equal(t, int64(7), found.UserID)
	assert.Equal(t, int64(31), found.ThesisID)
	assert.Equal(t, enums.AccessStatusPending, found.Status)
}

func TestAccessRepositoryLatestForPair(t *testing.T) {
	repo := NewRepository(setupAccessTestDB(t))
	base := time.Now().UTC().Add(-time.Hour).Truncate(time.Second)

	seedRequest(t, repo, 7, 31, enums.AccessStatusDenied, base)
	latest := seedRequest(t, repo, 7, 31, enums.AccessStatusPending, base.Add(10*time.Minute))
	seedRequest(t, repo, 7, 99, enums.AccessStatusApproved, base.Add(20*time.Minute))

	row, err := repo.LatestForPair(context.Background(), 7, 31)
	require.NoError(t, err)
	assert.Equal(t, latest.AccessRequestID, row.AccessRequestID)
	assert.Equal(t, enums.AccessStatusPending, row.Status)
}

func TestAccessRepositoryHasPending(t *testing.T) {
	repo := NewRepository(setupAccessTestDB(t))
	now := time.Now().UTC()

	seedRequest(t, repo, 7, 31, enums.AccessStatusDenied, now)

	pending, err := repo.HasPending(context.Background(), 7, 31)
	require.NoError(t, err)
	assert.False(t, pending)

	seedRequest(t, repo, 7, 31, enums.AccessStatusPending, now)

	pending, err = repo.HasPending(context.Background(), 7, 31)
	require.NoError(t, err)
	assert.True(t, pending)
}

func TestAccessRepositoryListPendingOldestFirst(t *testing.T) {
	repo := NewRepository(setupAccessTestDB(t))
	base := time.Now().UTC().Add(-time.Hour).Truncate(time.Second)

	second := seedRequest(t, repo, 2, 31, enums.AccessStatusPending, base.Add(5*time.Minute))
	first := seedRequest(t, repo, 1, 31, enums.AccessStatusPending, base)
	seedRequest(t, repo, 3, 31, enums.AccessStatusApproved, base.Add(10*time.Minute))

	rows, err := repo.ListPending(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, first.AccessRequestID, rows[0].AccessRequestID)
	assert.Equal(t, second.AccessRequestID, rows[1].AccessRequestID)
}

func TestAccessRepositoryMarkApproved(t *testing.T) {
	repo := NewRepository(setupAccessTestDB(t))
	now := time.Now().UTC().Truncate(time.Second)

	created := seedRequest(t, repo, 7, 31, enums.AccessStatusPending, now)
	removeAt := now.Add(14 * 24 * time.Hour)
	require.NoError(t, repo.MarkApproved(context.Background(), created.AccessRequestID, now, &removeAt))

	row, err := repo.FindByID(context.Background(), created.AccessRequestID)
	require.NoError(t, err)
	assert.Equal(t, enums.AccessStatusApproved, row.Status)
	require.NotNil(t, row.ApprovedDate)
	require.NotNil(t, row.RemoveAccessDate)
	assert.True(t, row.RemoveAccessDate.After(*row.ApprovedDate))
}

func TestAccessRepositoryMarkApprovedIndefinite(t *testing.T) {
	repo := NewRepository(setupAccessTestDB(t))
	now := time.Now().UTC().Truncate(time.Second)

	created := seedRequest(t, repo, 7, 31, enums.AccessStatusPending, now)
	require.NoError(t, repo.MarkApproved(context.Background(), created.AccessRequestID, now, nil))

	row, err := repo.FindByID(context.Background(), created.AccessRequestID)
	require.NoError(t, err)
	assert.Equal(t, enums.AccessStatusApproved, row.Status)
	assert.Nil(t, row.RemoveAccessDate)
}

func TestAccessRepositoryMarkDenied(t *testing.T) {
	repo := NewRepository(setupAccessTestDB(t))

	created := seedRequest(t, repo, 7, 31, enums.AccessStatusPending, time.Now().UTC())
	require.NoError(t, repo.MarkDenied(context.Background(), created.AccessRequestID))

	row, err := repo.FindByID(context.Background(), created.AccessRequestID)
	require.NoError(t, err)
	assert.Equal(t, enums.AccessStatusDenied, row.Status)
	assert.Nil(t, row.ApprovedDate)
}
