package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marmos91/dittodrive/pkg/drive/models"
	"github.com/marmos91/dittodrive/pkg/drive/storage"
	"github.com/marmos91/dittodrive/pkg/drive/store"
)

const mib = int64(1024 * 1024)

type fixture struct {
	svc     *DriveService
	store   *store.GORMStore
	objects *storage.MemoryObjectStore

	alice *models.Principal
	bob   *models.Principal
	carol *models.Principal
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	st, err := store.New(&store.Config{
		Type:   store.DatabaseTypeSQLite,
		SQLite: store.SQLiteConfig{Path: ":memory:"},
	})
	require.NoError(t, err)

	objects := storage.NewMemoryObjectStore()
	f := &fixture{
		svc:     New(st, objects),
		store:   st,
		objects: objects,
		alice:   &models.Principal{ID: "alice", Email: "alice@example.com", Name: "Alice"},
		bob:     &models.Principal{ID: "bob", Email: "bob@example.com", Name: "Bob"},
		carol:   &models.Principal{ID: "carol", Email: "carol@example.com", Name: "Carol"},
	}

	ctx := context.Background()
	for _, p := range []*models.Principal{f.alice, f.bob, f.carol} {
		_, err := st.EnsureUser(ctx, p, 100*mib)
		require.NoError(t, err)
	}
	return f
}

// upload runs the full slot-then-confirm flow and returns the created file.
func (f *fixture) upload(t *testing.T, principal *models.Principal, name string, size int64) *models.File {
	t.Helper()
	ctx := context.Background()

	slot, err := f.svc.RequestUploadSlot(ctx, principal, name, size)
	require.NoError(t, err)
	f.objects.Put(slot.StorageKey)

	file, err := f.svc.ConfirmUpload(ctx, principal, name, slot.StorageKey, slot.PublicURL, size)
	require.NoError(t, err)
	return file
}

func TestUploadFlow(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	slot, err := f.svc.RequestUploadSlot(ctx, f.alice, "report.pdf", 50*mib)
	require.NoError(t, err)
	assert.NotEmpty(t, slot.UploadURL)
	assert.NotEmpty(t, slot.StorageKey)
	assert.NotEmpty(t, slot.PublicURL)

	file, err := f.svc.ConfirmUpload(ctx, f.alice, "report.pdf", slot.StorageKey, slot.PublicURL, 50*mib)
	require.NoError(t, err)
	assert.Equal(t, "alice", file.OwnerID)
	assert.Equal(t, "report.pdf", file.Name)
	assert.Equal(t, "application/pdf", file.ContentType)
	assert.False(t, file.Public)
	assert.False(t, file.Deleted)

	used, err := f.svc.Quota().Used(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, 50*mib, used)
}

func TestUploadSlotRequiresAuth(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.RequestUploadSlot(context.Background(), nil, "a.txt", 1)
	assert.ErrorIs(t, err, models.ErrAuthenticationRequired)
}

func TestUploadSlotValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	var ve *models.ValidationError
	_, err := f.svc.RequestUploadSlot(ctx, f.alice, "", 1)
	assert.ErrorAs(t, err, &ve)

	_, err = f.svc.RequestUploadSlot(ctx, f.alice, "a.txt", -1)
	assert.ErrorAs(t, err, &ve)
}

func TestUploadSlotDeniedOverQuota(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.upload(t, f.alice, "big.bin", 60*mib)

	_, err := f.svc.RequestUploadSlot(ctx, f.alice, "more.bin", 50*mib)
	var qe *models.QuotaExceededError
	require.ErrorAs(t, err, &qe)
	assert.Equal(t, 40*mib, qe.Available)
	assert.Equal(t, 50*mib, qe.Requested)
}

func TestConfirmUploadRejectsDuplicateStorageKey(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	file := f.upload(t, f.alice, "a.txt", 10)
	_, err := f.svc.ConfirmUpload(ctx, f.bob, "b.txt", file.StorageKey, "", 10)
	assert.ErrorIs(t, err, models.ErrDuplicateStorageKey)
}

func TestSharingFlow(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	file := f.upload(t, f.alice, "notes.txt", 10)

	// Bob cannot see the file before the grant.
	_, err := f.svc.GetFile(ctx, f.bob, file.ID)
	assert.ErrorIs(t, err, models.ErrAccessDenied)

	shared, err := f.svc.Share(ctx, f.alice, file.ID, "bob", models.AccessRead)
	require.NoError(t, err)
	require.Len(t, shared.Permissions, 1)
	assert.Equal(t, "bob", shared.Permissions[0].UserID)

	// Read works, write does not.
	_, err = f.svc.GetFile(ctx, f.bob, file.ID)
	require.NoError(t, err)
	_, err = f.svc.ViewURL(ctx, f.bob, file.ID)
	require.NoError(t, err)
	_, err = f.svc.Rename(ctx, f.bob, file.ID, "renamed.txt")
	assert.ErrorIs(t, err, models.ErrAccessDenied)

	// Upgrading the grant overwrites it instead of duplicating.
	_, err = f.svc.Share(ctx, f.alice, file.ID, "bob", models.AccessWrite)
	require.NoError(t, err)

	var count int64
	require.NoError(t, f.store.DB().
		Model(&models.Permission{}).
		Where("file_id = ? AND user_id = ?", file.ID, "bob").
		Count(&count).Error)
	assert.Equal(t, int64(1), count)

	_, err = f.svc.Rename(ctx, f.bob, file.ID, "renamed.txt")
	require.NoError(t, err)
}

func TestShareByEmail(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	file := f.upload(t, f.alice, "notes.txt", 10)

	_, err := f.svc.ShareByEmail(ctx, f.alice, file.ID, "Bob@Example.com", models.AccessRead)
	require.NoError(t, err)

	_, err = f.svc.GetFile(ctx, f.bob, file.ID)
	assert.NoError(t, err)

	_, err = f.svc.ShareByEmail(ctx, f.alice, file.ID, "nobody@example.com", models.AccessRead)
	assert.ErrorIs(t, err, models.ErrUserNotFound)
}

func TestShareRejectsSelfAndOwner(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	file := f.upload(t, f.alice, "notes.txt", 10)

	_, err := f.svc.Share(ctx, f.alice, file.ID, "alice", models.AccessRead)
	assert.ErrorIs(t, err, models.ErrSelfShare)

	// A write-grant holder cannot share back to the owner.
	_, err = f.svc.Share(ctx, f.alice, file.ID, "bob", models.AccessWrite)
	require.NoError(t, err)
	_, err = f.svc.Share(ctx, f.bob, file.ID, "alice", models.AccessRead)
	assert.ErrorIs(t, err, models.ErrOwnerShare)
}

func TestShareRejectsBadLevel(t *testing.T) {
	f := newFixture(t)

	file := f.upload(t, f.alice, "notes.txt", 10)

	var ve *models.ValidationError
	_, err := f.svc.Share(context.Background(), f.alice, file.ID, "bob", models.AccessLevel("admin"))
	assert.ErrorAs(t, err, &ve)
}

func TestPublicVisibility(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	file := f.upload(t, f.alice, "photo.png", 10)

	// Anonymous fetch fails while private.
	_, err := f.svc.GetFile(ctx, nil, file.ID)
	assert.ErrorIs(t, err, models.ErrAuthenticationRequired)

	_, err = f.svc.SetVisibility(ctx, f.alice, file.ID, true)
	require.NoError(t, err)

	// Anonymous read and view URL now work.
	got, err := f.svc.GetFile(ctx, nil, file.ID)
	require.NoError(t, err)
	assert.True(t, got.Public)
	_, err = f.svc.ViewURL(ctx, nil, file.ID)
	require.NoError(t, err)

	// Authenticated stranger still cannot write.
	_, err = f.svc.Rename(ctx, f.carol, file.ID, "mine.png")
	assert.ErrorIs(t, err, models.ErrPublicWriteDenied)

	// Back to private: anonymous fetch fails again.
	_, err = f.svc.SetVisibility(ctx, f.alice, file.ID, false)
	require.NoError(t, err)
	_, err = f.svc.GetFile(ctx, nil, file.ID)
	assert.ErrorIs(t, err, models.ErrAuthenticationRequired)
}

func TestListings(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	owned := f.upload(t, f.alice, "mine.txt", 10)
	sharedIn := f.upload(t, f.bob, "from-bob.txt", 10)
	_, err := f.svc.Share(ctx, f.bob, sharedIn.ID, "alice", models.AccessRead)
	require.NoError(t, err)

	// A public file from a third party stays out of alice's listing.
	public := f.upload(t, f.carol, "public.txt", 10)
	_, err = f.svc.SetVisibility(ctx, f.carol, public.ID, true)
	require.NoError(t, err)

	files, err := f.svc.ListFiles(ctx, f.alice, "")
	require.NoError(t, err)
	ids := fileIDs(files)
	assert.ElementsMatch(t, []string{owned.ID, sharedIn.ID}, ids)

	// Search is a case-insensitive substring match.
	files, err = f.svc.ListFiles(ctx, f.alice, "BOB")
	require.NoError(t, err)
	assert.Equal(t, []string{sharedIn.ID}, fileIDs(files))
}

func TestStarring(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	file := f.upload(t, f.alice, "starred.txt", 10)
	other := f.upload(t, f.alice, "plain.txt", 10)

	_, err := f.svc.Star(ctx, f.alice, file.ID)
	require.NoError(t, err)
	// Starring twice is a no-op.
	_, err = f.svc.Star(ctx, f.alice, file.ID)
	require.NoError(t, err)

	starred, err := f.svc.ListStarred(ctx, f.alice, "")
	require.NoError(t, err)
	assert.Equal(t, []string{file.ID}, fileIDs(starred))

	_, err = f.svc.Unstar(ctx, f.alice, file.ID)
	require.NoError(t, err)
	// Unstarring an unstarred file is a no-op.
	_, err = f.svc.Unstar(ctx, f.alice, other.ID)
	require.NoError(t, err)

	starred, err = f.svc.ListStarred(ctx, f.alice, "")
	require.NoError(t, err)
	assert.Empty(t, starred)
}

func TestTrashLifecycle(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	file := f.upload(t, f.alice, "doomed.txt", 30*mib)

	require.NoError(t, f.svc.SoftDelete(ctx, f.alice, file.ID))

	// Trashed files are invisible to the generic paths, owner included.
	_, err := f.svc.GetFile(ctx, f.alice, file.ID)
	assert.ErrorIs(t, err, models.ErrFileNotFound)
	err = f.svc.SoftDelete(ctx, f.alice, file.ID)
	assert.ErrorIs(t, err, models.ErrFileNotFound)

	// Trash does not count against quota.
	used, err := f.svc.Quota().Used(ctx, "alice")
	require.NoError(t, err)
	assert.Zero(t, used)

	trash, err := f.svc.ListTrash(ctx, f.alice)
	require.NoError(t, err)
	assert.Equal(t, []string{file.ID}, fileIDs(trash))

	restored, err := f.svc.Restore(ctx, f.alice, file.ID)
	require.NoError(t, err)
	assert.False(t, restored.Deleted)
	assert.Nil(t, restored.DeletedAt)

	used, err = f.svc.Quota().Used(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, 30*mib, used)
}

func TestRestoreIsOwnerOnly(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	file := f.upload(t, f.alice, "shared.txt", 10)
	_, err := f.svc.Share(ctx, f.alice, file.ID, "bob", models.AccessWrite)
	require.NoError(t, err)

	// Bob's write grant lets him trash, but not restore.
	require.NoError(t, f.svc.SoftDelete(ctx, f.bob, file.ID))
	_, err = f.svc.Restore(ctx, f.bob, file.ID)
	assert.ErrorIs(t, err, models.ErrNotOwner)

	_, err = f.svc.Restore(ctx, f.alice, file.ID)
	require.NoError(t, err)

	// Restoring an active file is rejected.
	_, err = f.svc.Restore(ctx, f.alice, file.ID)
	assert.ErrorIs(t, err, models.ErrNotInTrash)
}

func TestPermanentDelete(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	file := f.upload(t, f.alice, "gone.txt", 10)
	_, err := f.svc.Share(ctx, f.alice, file.ID, "bob", models.AccessRead)
	require.NoError(t, err)
	_, err = f.svc.Star(ctx, f.alice, file.ID)
	require.NoError(t, err)

	// Must be trashed first.
	err = f.svc.PermanentDelete(ctx, f.alice, file.ID)
	assert.ErrorIs(t, err, models.ErrNotInTrash)

	require.NoError(t, f.svc.SoftDelete(ctx, f.alice, file.ID))

	// Owner-only.
	err = f.svc.PermanentDelete(ctx, f.bob, file.ID)
	assert.ErrorIs(t, err, models.ErrNotOwner)

	require.NoError(t, f.svc.PermanentDelete(ctx, f.alice, file.ID))
	assert.Equal(t, []string{file.StorageKey}, f.objects.Deletes())

	_, err = f.svc.GetFile(ctx, f.alice, file.ID)
	assert.ErrorIs(t, err, models.ErrFileNotFound)

	// Grants and stars are cascaded.
	var grants, stars int64
	require.NoError(t, f.store.DB().Model(&models.Permission{}).Where("file_id = ?", file.ID).Count(&grants).Error)
	require.NoError(t, f.store.DB().Model(&models.Star{}).Where("file_id = ?", file.ID).Count(&stars).Error)
	assert.Zero(t, grants)
	assert.Zero(t, stars)
}

func TestPermanentDeleteAbortsOnBlobFailure(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	file := f.upload(t, f.alice, "sticky.txt", 10)
	require.NoError(t, f.svc.SoftDelete(ctx, f.alice, file.ID))

	f.objects.FailWith = errors.New("storage unavailable")
	err := f.svc.PermanentDelete(ctx, f.alice, file.ID)
	require.Error(t, err)

	// The record must survive a failed blob delete.
	f.objects.FailWith = nil
	trash, err := f.svc.ListTrash(ctx, f.alice)
	require.NoError(t, err)
	assert.Equal(t, []string{file.ID}, fileIDs(trash))

	// The retry tolerates the blob being gone already and succeeds.
	require.NoError(t, f.svc.PermanentDelete(ctx, f.alice, file.ID))
}

func TestDownloadAndViewURLs(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	file := f.upload(t, f.alice, "doc.pdf", 10)

	link, err := f.svc.DownloadURL(ctx, f.alice, file.ID)
	require.NoError(t, err)
	assert.Contains(t, link.URL, "disposition=attachment")
	assert.Equal(t, int64(900), link.ExpiresIn)

	link, err = f.svc.ViewURL(ctx, f.alice, file.ID)
	require.NoError(t, err)
	assert.Contains(t, link.URL, "disposition=inline")

	_, err = f.svc.DownloadURL(ctx, nil, file.ID)
	assert.ErrorIs(t, err, models.ErrAuthenticationRequired)
}

func TestUsage(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.upload(t, f.alice, "a.bin", 25*mib)

	usage, err := f.svc.Usage(ctx, f.alice)
	require.NoError(t, err)
	assert.Equal(t, 25*mib, usage.Used)
	assert.Equal(t, 100*mib, usage.Limit)
	assert.Equal(t, 75*mib, usage.Available)
	assert.InDelta(t, 25.0, usage.Percentage, 0.01)
}

func TestUnknownFileReportsNotFound(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.GetFile(ctx, f.alice, "00000000-0000-0000-0000-000000000000")
	assert.ErrorIs(t, err, models.ErrFileNotFound)
}

func fileIDs(files []*models.File) []string {
	ids := make([]string, 0, len(files))
	for _, f := range files {
		ids = append(ids, f.ID)
	}
	return ids
}
