package services

import (
	"context"
	"testing"
	"time"

	"tunehub/internal/adapters/persistence/models"
	"tunehub/internal/adapters/persistence/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// stubPlaylistRepo is an in-memory PlaylistRepository
type stubPlaylistRepo struct {
	playlists map[string]*models.Playlist
}

func newStubPlaylistRepo() *stubPlaylistRepo {
	return &stubPlaylistRepo{playlists: make(map[string]*models.Playlist)}
}

func (r *stubPlaylistRepo) Create(_ context.Context, playlist *models.Playlist, songIDs []string) error {
	clone := *playlist
	r.playlists[playlist.ID] = &clone
	return nil
}

func (r *stubPlaylistRepo) GetByID(_ context.Context, id string) (*models.Playlist, error) {
	playlist, ok := r.playlists[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	clone := *playlist
	return &clone, nil
}

func (r *stubPlaylistRepo) List(_ context.Context, filter repositories.PlaylistFilter) ([]*models.Playlist, error) {
	var result []*models.Playlist
	for _, playlist := range r.playlists {
		if filter.Status != "" && playlist.Status != filter.Status {
			continue
		}
		if !filter.AdminView {
			if playlist.Status != models.PlaylistPublic && playlist.CreatorID != filter.ViewerID {
				continue
			}
		}
		clone := *playlist
		result = append(result, &clone)
	}
	return result, nil
}

func (r *stubPlaylistRepo) Update(_ context.Context, playlist *models.Playlist, songIDs []string) error {
	if _, ok := r.playlists[playlist.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	clone := *playlist
	r.playlists[playlist.ID] = &clone
	return nil
}

func (r *stubPlaylistRepo) Delete(_ context.Context, id string) error {
	delete(r.playlists, id)
	return nil
}

func (r *stubPlaylistRepo) ListPendingOlderThan(_ context.Context, cutoff time.Time) ([]*models.Playlist, error) {
	var result []*models.Playlist
	for _, playlist := range r.playlists {
		if playlist.Status == models.PlaylistPending && playlist.CreatedAt.Before(cutoff) {
			clone := *playlist
			result = append(result, &clone)
		}
	}
	return result, nil
}

func newTestPlaylistService() (*PlaylistService, *stubPlaylistRepo) {
	repo := newStubPlaylistRepo()
	return NewPlaylistService(repo), repo
}

func createTestPlaylist(t *testing.T, svc *PlaylistService, creatorID, role, status string) *models.Playlist {
	t.Helper()
	playlist, err := svc.CreatePlaylist(context.Background(), creatorID, role, &CreatePlaylistInput{
		Title:  "Test Playlist",
		Status: status,
	})
	require.NoError(t, err)
	return playlist
}

func TestCreatePlaylistDefaultStatus(t *testing.T) {
	svc, _ := newTestPlaylistService()

	byUser := createTestPlaylist(t, svc, "u1", models.RoleUser, "")
	assert.Equal(t, models.PlaylistPrivate, byUser.Status)

	byAdmin := createTestPlaylist(t, svc, "a1", models.RoleAdmin, "")
	assert.Equal(t, models.PlaylistPublic, byAdmin.Status)
}

func TestCreatePlaylistUserCannotPublish(t *testing.T) {
	svc, _ := newTestPlaylistService()

	_, err := svc.CreatePlaylist(context.Background(), "u1", models.RoleUser, &CreatePlaylistInput{
		Title:  "Mine",
		Status: models.PlaylistPublic,
	})
	assert.ErrorIs(t, err, ErrStatusNotPermitted)
}

func TestGetPlaylistVisibility(t *testing.T) {
	svc, _ := newTestPlaylistService()
	private := createTestPlaylist(t, svc, "u1", models.RoleUser, models.PlaylistPrivate)
	public := createTestPlaylist(t, svc, "a1", models.RoleAdmin, models.PlaylistPublic)

	ctx := context.Background()

	// Owner sees their private playlist
	_, err := svc.GetPlaylist(ctx, private.ID, "u1", models.RoleUser)
	assert.NoError(t, err)

	// Strangers do not
	_, err = svc.GetPlaylist(ctx, private.ID, "u2", models.RoleUser)
	assert.ErrorIs(t, err, ErrPlaylistForbidden)

	// Anonymous does not
	_, err = svc.GetPlaylist(ctx, private.ID, "", "")
	assert.ErrorIs(t, err, ErrPlaylistForbidden)

	// Admins see everything
	_, err = svc.GetPlaylist(ctx, private.ID, "a1", models.RoleAdmin)
	assert.NoError(t, err)

	// Public playlists are open
	_, err = svc.GetPlaylist(ctx, public.ID, "", "")
	assert.NoError(t, err)
}

func TestListPlaylistsVisibility(t *testing.T) {
	svc, _ := newTestPlaylistService()
	createTestPlaylist(t, svc, "u1", models.RoleUser, models.PlaylistPrivate)
	createTestPlaylist(t, svc, "u2", models.RoleUser, models.PlaylistPrivate)
	createTestPlaylist(t, svc, "a1", models.RoleAdmin, models.PlaylistPublic)

	ctx := context.Background()

	// u1 sees public plus their own
	mine, err := svc.ListPlaylists(ctx, "u1", models.RoleUser, "", false)
	require.NoError(t, err)
	assert.Len(t, mine, 2)

	// Anonymous sees only public
	anon, err := svc.ListPlaylists(ctx, "", "", "", false)
	require.NoError(t, err)
	assert.Len(t, anon, 1)

	// Admin view sees everything
	all, err := svc.ListPlaylists(ctx, "a1", models.RoleAdmin, "", true)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	// admin_view is ignored for plain users
	notAll, err := svc.ListPlaylists(ctx, "u1", models.RoleUser, "", true)
	require.NoError(t, err)
	assert.Len(t, notAll, 2)
}

func TestStatusWorkflow(t *testing.T) {
	svc, _ := newTestPlaylistService()
	ctx := context.Background()

	playlist := createTestPlaylist(t, svc, "u1", models.RoleUser, models.PlaylistPrivate)

	pending := models.PlaylistPending
	public := models.PlaylistPublic
	private := models.PlaylistPrivate

	// Only the owner submits for review
	_, err := svc.UpdatePlaylist(ctx, playlist.ID, "a1", models.RoleAdmin, &UpdatePlaylistInput{Status: &pending})
	assert.ErrorIs(t, err, ErrStatusNotPermitted)

	updated, err := svc.UpdatePlaylist(ctx, playlist.ID, "u1", models.RoleUser, &UpdatePlaylistInput{Status: &pending})
	require.NoError(t, err)
	assert.Equal(t, models.PlaylistPending, updated.Status)

	// Only admins publish
	_, err = svc.UpdatePlaylist(ctx, playlist.ID, "u1", models.RoleUser, &UpdatePlaylistInput{Status: &public})
	assert.ErrorIs(t, err, ErrStatusNotPermitted)

	updated, err = svc.UpdatePlaylist(ctx, playlist.ID, "a1", models.RoleAdmin, &UpdatePlaylistInput{Status: &public})
	require.NoError(t, err)
	assert.Equal(t, models.PlaylistPublic, updated.Status)

	// Owner or admin may take it back private
	updated, err = svc.UpdatePlaylist(ctx, playlist.ID, "u1", models.RoleUser, &UpdatePlaylistInput{Status: &private})
	require.NoError(t, err)
	assert.Equal(t, models.PlaylistPrivate, updated.Status)
}

func TestUpdatePlaylistStrangers(t *testing.T) {
	svc, _ := newTestPlaylistService()
	playlist := createTestPlaylist(t, svc, "u1", models.RoleUser, models.PlaylistPrivate)

	title := "Hijacked"
	_, err := svc.UpdatePlaylist(context.Background(), playlist.ID, "u2", models.RoleUser, &UpdatePlaylistInput{Title: &title})
	assert.ErrorIs(t, err, ErrPlaylistForbidden)
}

func TestDeletePlaylist(t *testing.T) {
	svc, repo := newTestPlaylistService()
	ctx := context.Background()

	playlist := createTestPlaylist(t, svc, "u1", models.RoleUser, models.PlaylistPrivate)

	err := svc.DeletePlaylist(ctx, playlist.ID, "u2", models.RoleUser)
	assert.ErrorIs(t, err, ErrPlaylistForbidden)

	require.NoError(t, svc.DeletePlaylist(ctx, playlist.ID, "u1", models.RoleUser))
	_, ok := repo.playlists[playlist.ID]
	assert.False(t, ok)

	err = svc.DeletePlaylist(ctx, playlist.ID, "u1", models.RoleUser)
	assert.ErrorIs(t, err, ErrPlaylistNotFound)
}

func TestPendingOlderThanUsesSubmissionTime(t *testing.T) {
	svc, repo := newTestPlaylistService()
	now := time.Now()

	// Edited recently but submitted long ago: still stale
	repo.playlists["old"] = &models.Playlist{
		ID:        "old",
		Title:     "Old Pending",
		Status:    models.PlaylistPending,
		CreatedAt: now.Add(-10 * 24 * time.Hour),
		UpdatedAt: now.Add(-time.Hour),
	}
	repo.playlists["fresh"] = &models.Playlist{
		ID:        "fresh",
		Title:     "Fresh Pending",
		Status:    models.PlaylistPending,
		CreatedAt: now.Add(-time.Hour),
		UpdatedAt: now.Add(-time.Hour),
	}
	repo.playlists["published"] = &models.Playlist{
		ID:        "published",
		Title:     "Published",
		Status:    models.PlaylistPublic,
		CreatedAt: now.Add(-10 * 24 * time.Hour),
	}

	stale, err := svc.PendingOlderThan(context.Background(), now.Add(-StalePendingAge))
	require.NoError(t, err)
	require.Len(t, stale, 1)
	assert.Equal(t, "old", stale[0].ID)
}
