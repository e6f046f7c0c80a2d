package workers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"eco-garden-system/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newSyncTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Profile{}))
	return db
}

type fakeAuthService struct {
	sinceSeen []string
	users     []MirroredUser
}

func (f *fakeAuthService) handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		f.sinceSeen = append(f.sinceSeen, r.URL.Query().Get("since"))
		_ = json.NewEncoder(w).Encode(GetUserChangesResponse{Users: f.users})
	}
}

func TestSyncBatch_UpsertsIdentityWithoutTouchingGameState(t *testing.T) {
	db := newSyncTestDB(t)

	existing := models.Profile{
		ID:             uuid.NewString(),
		ExternalUserID: "ext-1",
		Username:       "old-name",
		Health:         80,
		XP:             120,
		TotalXP:        320,
		Level:          4,
		PlantStage:     models.StageSeedling,
	}
	require.NoError(t, db.Create(&existing).Error)

	avatar := "https://cdn.example.com/avatars/ext-1.png"
	fake := &fakeAuthService{users: []MirroredUser{
		{ExternalID: "ext-1", Username: "new-name", AvatarURL: &avatar, UpdatedAt: time.Now()},
	}}
	server := httptest.NewServer(fake.handler())
	defer server.Close()

	w := NewProfileSyncWorker(db, server.URL, "/profiles", "tok")
	_, err := w.syncBatch(context.Background(), time.Time{})
	require.NoError(t, err)

	var got models.Profile
	require.NoError(t, db.Where("external_user_id = ?", "ext-1").First(&got).Error)
	assert.Equal(t, "new-name", got.Username)
	require.NotNil(t, got.AvatarURL)
	assert.Equal(t, avatar, *got.AvatarURL)

	// engine-owned columns untouched by the mirror
	assert.Equal(t, 80, got.Health)
	assert.Equal(t, int64(320), got.TotalXP)
	assert.Equal(t, 4, got.Level)
}

func TestSyncBatch_CursorFollowsRemoteTimestampsNotLocalWrites(t *testing.T) {
	db := newSyncTestDB(t)

	t1 := time.Now().Add(-2 * time.Hour).UTC().Truncate(time.Second)
	t2 := time.Now().Add(-1 * time.Hour).UTC().Truncate(time.Second)
	fake := &fakeAuthService{users: []MirroredUser{
		{ExternalID: "ext-1", Username: "alice", UpdatedAt: t1},
		{ExternalID: "ext-2", Username: "bob", UpdatedAt: t2},
	}}
	server := httptest.NewServer(fake.handler())
	defer server.Close()

	w := NewProfileSyncWorker(db, server.URL, "/profiles", "tok")
	latest, err := w.syncBatch(context.Background(), time.Time{})
	require.NoError(t, err)
	assert.True(t, latest.Equal(t2), "cursor is the newest remote UpdatedAt, got %v", latest)

	// A local write (what every logged choice does) bumps updated_at to now,
	// far past t2. The next batch must still ask for changes since t2, or
	// remote edits made before the local write would never be fetched.
	require.NoError(t, db.Model(&models.Profile{}).
		Where("external_user_id = ?", "ext-1").
		Update("health", 90).Error)

	fake.users = nil
	empty, err := w.syncBatch(context.Background(), latest)
	require.NoError(t, err)
	assert.True(t, empty.IsZero(), "empty batch must not advance the cursor")

	require.Len(t, fake.sinceSeen, 2)
	assert.Equal(t, t2.Format(time.RFC3339), fake.sinceSeen[1])
}

func TestSyncBatch_NewUserGetsSignupDefaults(t *testing.T) {
	db := newSyncTestDB(t)

	fake := &fakeAuthService{users: []MirroredUser{
		{ExternalID: "ext-9", Username: "carol", UpdatedAt: time.Now()},
	}}
	server := httptest.NewServer(fake.handler())
	defer server.Close()

	w := NewProfileSyncWorker(db, server.URL, "/profiles", "tok")
	_, err := w.syncBatch(context.Background(), time.Time{})
	require.NoError(t, err)

	var got models.Profile
	require.NoError(t, db.Where("external_user_id = ?", "ext-9").First(&got).Error)
	assert.Equal(t, 50, got.Health)
	assert.Equal(t, 1, got.Level)
	assert.Equal(t, models.StageSeedling, got.PlantStage)
	assert.Equal(t, int64(0), got.TotalXP)
}
