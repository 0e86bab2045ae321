package engine

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/groupshare/internal/client/models"
	"github.com/dmitrijs2005/groupshare/internal/common"
	"github.com/dmitrijs2005/groupshare/internal/remote"
	"github.com/dmitrijs2005/groupshare/internal/remote/remotetest"
)

func fileNames(files []models.FileRecord) []string {
	out := make([]string, 0, len(files))
	for _, f := range files {
		out = append(out, f.Name)
	}
	return out
}

func waitFiles(t *testing.T, e *Engine, n int) []models.FileRecord {
	t.Helper()
	var files []models.FileRecord
	require.Eventually(t, func() bool {
		files = e.Files()
		return len(files) == n
	}, time.Second, 5*time.Millisecond)
	return files
}

func focusedEngine(t *testing.T) (*Engine, *remotetest.Store) {
	t.Helper()
	store := remotetest.NewStore()
	seedGroup(store, "g1", "hiking", baseTime)
	seedMembership(store, alice, "g1", common.RoleMember, baseTime)
	seedUser(store, bob, "Bob")
	seedFile(store, "f1", "g1", "trail.gpx", bob, baseTime.Add(-3*time.Hour))
	seedFile(store, "f2", "g1", "summit.jpg", bob, baseTime.Add(-2*time.Hour))
	seedFile(store, "f3", "g1", "notes.txt", alice, baseTime.Add(-1*time.Hour))

	e := newTestEngine(t, store, alice)
	require.NoError(t, e.SetFocus("g1"))
	return e, store
}

func TestFilesInitialFetchOrderedByUploadTime(t *testing.T) {
	e, _ := focusedEngine(t)

	files := waitFiles(t, e, 3)
	require.Equal(t, []string{"trail.gpx", "summit.jpg", "notes.txt"}, fileNames(files))
}

func TestFilesAddedTriggersRefetch(t *testing.T) {
	e, store := focusedEngine(t)
	waitFiles(t, e, 3)

	seedFile(store, "f4", "g1", "camp.jpg", bob, baseTime.Add(time.Hour))

	files := waitFiles(t, e, 4)
	require.Equal(t, "camp.jpg", files[3].Name)
}

func TestFilesRemovedTriggersRefetch(t *testing.T) {
	e, store := focusedEngine(t)
	waitFiles(t, e, 3)

	store.Delete(common.CollectionFiles, "f2")

	files := waitFiles(t, e, 2)
	require.Equal(t, []string{"trail.gpx", "notes.txt"}, fileNames(files))
}

func TestFilesModifiedPatchesInPlace(t *testing.T) {
	e, store := focusedEngine(t)
	waitFiles(t, e, 3)

	// three rapid download bumps, each a separate modified delta
	for n := int64(1); n <= 3; n++ {
		store.Update(common.CollectionFiles, "f1", map[string]any{"downloadCount": n})
	}

	require.Eventually(t, func() bool {
		files := e.Files()
		return len(files) == 3 && files[0].DownloadCount == 3
	}, time.Second, 5*time.Millisecond)

	// order and identity untouched
	require.Equal(t, []string{"trail.gpx", "summit.jpg", "notes.txt"}, fileNames(e.Files()))
}

func TestFilesPatchIsIdempotent(t *testing.T) {
	e, _ := focusedEngine(t)
	waitFiles(t, e, 3)

	delta := remote.NewDocument("f1", func(v any) error {
		*(v.(*models.FileRecord)) = models.FileRecord{
			GroupID:       "g1",
			Name:          "trail.gpx",
			SizeBytes:     1024,
			MimeCategory:  "document",
			UploaderID:    bob,
			UploadedAt:    baseTime.Add(-3 * time.Hour),
			DownloadCount: 7,
			VersionCount:  2,
		}
		return nil
	})

	e.call(func() { e.patchFile(delta) })
	once := e.Files()
	require.Equal(t, int64(7), once[0].DownloadCount)

	// the same delta applied again must not change anything
	e.call(func() { e.patchFile(delta) })
	require.Equal(t, once, e.Files())
}

func TestFilesTagRemovalKeepsRecord(t *testing.T) {
	e, store := focusedEngine(t)
	waitFiles(t, e, 3)

	store.Update(common.CollectionFiles, "f1", map[string]any{"tagIds": []string{"t2"}})

	require.Eventually(t, func() bool {
		files := e.Files()
		return len(files) == 3 && len(files[0].TagIDs) == 1
	}, time.Second, 5*time.Millisecond)
	require.Equal(t, "trail.gpx", e.Files()[0].Name)
}

func TestFilesRefetchRetriesTransientFailure(t *testing.T) {
	store := remotetest.NewStore()
	seedGroup(store, "g1", "hiking", baseTime)
	seedMembership(store, alice, "g1", common.RoleMember, baseTime)
	seedFile(store, "f1", "g1", "a.txt", bob, baseTime)

	// first two attempts fail, the third succeeds
	store.FailGetOnce(common.CollectionFiles, 2, errors.New("unavailable"))

	e := newTestEngine(t, store, alice)
	require.NoError(t, e.SetFocus("g1"))

	files := waitFiles(t, e, 1)
	require.Equal(t, "a.txt", files[0].Name)
}

func TestFilesRefetchExhaustedKeepsLastList(t *testing.T) {
	e, store := focusedEngine(t)
	waitFiles(t, e, 3)

	store.FailGetOnce(common.CollectionFiles, 10, errors.New("unavailable"))
	seedFile(store, "f4", "g1", "camp.jpg", bob, baseTime.Add(time.Hour))

	time.Sleep(50 * time.Millisecond)
	require.Equal(t, []string{"trail.gpx", "summit.jpg", "notes.txt"}, fileNames(e.Files()))
}

func TestFilesChannelFailureFallsBackToPolling(t *testing.T) {
	store := remotetest.NewStore()
	seedGroup(store, "g1", "hiking", baseTime)
	seedMembership(store, alice, "g1", common.RoleMember, baseTime)
	seedFile(store, "f1", "g1", "a.txt", bob, baseTime)

	e := newTestEngine(t, store, alice)
	require.NoError(t, e.SetFocus("g1"))
	waitFiles(t, e, 1)

	store.FailQuerySubs(common.CollectionFiles, errors.New("stream reset"))
	seedFile(store, "f2", "g1", "b.txt", bob, baseTime.Add(time.Minute))

	// polled snapshots keep the list moving without a live channel
	files := waitFiles(t, e, 2)
	require.Equal(t, []string{"a.txt", "b.txt"}, fileNames(files))
}

func TestUploaderProfileSharedAcrossFiles(t *testing.T) {
	e, store := focusedEngine(t)
	waitFiles(t, e, 3)

	// f1 and f2 share one uploader; one live profile sub per distinct id
	require.Eventually(t, func() bool {
		ids := store.LiveDocSubIDs(common.CollectionUsers)
		return len(ids) == 2
	}, time.Second, 5*time.Millisecond)
	require.Equal(t, []string{alice, bob}, store.LiveDocSubIDs(common.CollectionUsers))

	store.Update(common.CollectionUsers, bob, map[string]any{"displayName": "Bobby"})

	require.Eventually(t, func() bool {
		return e.Uploaders()[bob].DisplayName == "Bobby"
	}, time.Second, 5*time.Millisecond)
}

func TestUploaderSubRemovedWithLastFile(t *testing.T) {
	e, store := focusedEngine(t)
	waitFiles(t, e, 3)
	require.Eventually(t, func() bool {
		return len(store.LiveDocSubIDs(common.CollectionUsers)) == 2
	}, time.Second, 5*time.Millisecond)

	store.Delete(common.CollectionFiles, "f3")

	require.Eventually(t, func() bool {
		ids := store.LiveDocSubIDs(common.CollectionUsers)
		return len(ids) == 1 && ids[0] == bob
	}, time.Second, 5*time.Millisecond)
	require.NotContains(t, e.Uploaders(), alice)
}

func TestUploaderSetUnchangedByPatch(t *testing.T) {
	e, store := focusedEngine(t)
	waitFiles(t, e, 3)
	require.Eventually(t, func() bool {
		return len(store.LiveDocSubIDs(common.CollectionUsers)) == 2
	}, time.Second, 5*time.Millisecond)

	before := store.LiveDocSubs(common.CollectionUsers)
	store.Update(common.CollectionFiles, "f1", map[string]any{"downloadCount": int64(1)})

	require.Eventually(t, func() bool {
		return e.Files()[0].DownloadCount == 1
	}, time.Second, 5*time.Millisecond)
	require.Equal(t, before, store.LiveDocSubs(common.CollectionUsers))
}
