package cli

import (
	"bufio"
	"bytes"
	"context"
	"database/sql"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/groupshare/internal/client/config"
	"github.com/dmitrijs2005/groupshare/internal/client/engine"
	"github.com/dmitrijs2005/groupshare/internal/client/migrations"
	"github.com/dmitrijs2005/groupshare/internal/client/models"
	"github.com/dmitrijs2005/groupshare/internal/client/repositories/watermarks"
	"github.com/dmitrijs2005/groupshare/internal/client/services"
	"github.com/dmitrijs2005/groupshare/internal/client/session"
	"github.com/dmitrijs2005/groupshare/internal/common"
	"github.com/dmitrijs2005/groupshare/internal/logging"
	"github.com/dmitrijs2005/groupshare/internal/remote/remotetest"
)

type memBlobStore struct {
	mu      sync.Mutex
	objects map[string][]byte
}

func (f *memBlobStore) Put(_ context.Context, key string, body io.Reader, _ int64) (string, error) {
	data, err := io.ReadAll(body)
	if err != nil {
		return "", err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.objects[key] = data
	return "https://blobs.test/" + key, nil
}

func (f *memBlobStore) Remove(_ context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.objects, key)
	return nil
}

func newTestApp(t *testing.T) (*App, *remotetest.Store, *bytes.Buffer) {
	t.Helper()

	store := remotetest.NewStore()
	store.Set(common.CollectionGroups, "g1", models.Group{Name: "hiking", CreatedAt: time.Now()})
	store.Set(common.CollectionMemberships, "alice-g1", models.Membership{
		PrincipalID: "alice",
		GroupID:     "g1",
		Role:        common.RoleAdmin,
		JoinedAt:    time.Now(),
	})
	store.Set(common.CollectionUsers, "alice", models.Principal{DisplayName: "Alice"})

	dsn := "file:" + strings.ReplaceAll(t.Name(), "/", "_") + "?mode=memory&cache=shared"
	db, err := sql.Open("sqlite", dsn)
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, migrations.Run(context.Background(), db))

	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.RefetchBaseDelay = time.Millisecond

	logger := logging.Discard()
	sess := session.New("alice", logger)
	eng := engine.New(store, sess, watermarks.NewSQLiteRepository(db), cfg, logger)
	eng.Start(context.Background())
	t.Cleanup(eng.Stop)

	blobs := &memBlobStore{objects: map[string][]byte{}}
	out := &bytes.Buffer{}
	app := &App{
		config:      cfg,
		log:         logger,
		rc:          store,
		db:          db,
		blobs:       blobs,
		sess:        sess,
		eng:         eng,
		fileService: services.NewFileService(store, blobs, sess),
		tagService:  services.NewTagService(store),
		reader:      bufio.NewReader(strings.NewReader("")),
		out:         out,
	}
	return app, store, out
}

func TestAppListGroups(t *testing.T) {
	app, _, out := newTestApp(t)

	app.listGroups(context.Background())
	require.Contains(t, out.String(), "hiking")
}

func TestAppFocusAndListFiles(t *testing.T) {
	app, _, out := newTestApp(t)
	ctx := context.Background()

	app.focus(ctx, []string{"g1"})
	path := filepath.Join(t.TempDir(), "plan.txt")
	require.NoError(t, os.WriteFile(path, []byte("route"), 0o600))
	app.upload(ctx, []string{path})
	require.Contains(t, out.String(), "Uploaded plan.txt")

	require.Eventually(t, func() bool {
		return len(app.eng.Files()) == 1
	}, time.Second, 5*time.Millisecond)

	out.Reset()
	app.listFiles(ctx)
	require.Contains(t, out.String(), "plan.txt")
}

func TestAppFocusUnknownGroup(t *testing.T) {
	app, _, out := newTestApp(t)

	app.focus(context.Background(), []string{"nope"})
	require.Contains(t, out.String(), "Could not focus nope")
}

func TestAppUploadWithoutFocus(t *testing.T) {
	app, _, out := newTestApp(t)

	app.upload(context.Background(), []string{"whatever.txt"})
	require.Contains(t, out.String(), "No group focused")
}

func TestAppBadges(t *testing.T) {
	app, store, out := newTestApp(t)

	store.Set(common.CollectionFiles, "f1", models.FileRecord{
		GroupID:    "g1",
		Name:       "new.txt",
		UploaderID: "bob",
		UploadedAt: time.Now(),
	})

	app.listBadges(context.Background())
	require.Contains(t, out.String(), "hiking")
	require.Contains(t, out.String(), "1")

	out.Reset()
	app.ack(context.Background(), []string{"g1"})
	app.listBadges(context.Background())
	require.Contains(t, out.String(), "0")
}

func TestAppTagCommands(t *testing.T) {
	app, _, out := newTestApp(t)
	ctx := context.Background()

	app.focus(ctx, []string{"g1"})
	app.tagAdd(ctx, []string{"trip", "#ff0000"})
	require.Contains(t, out.String(), "Created tag trip")

	out.Reset()
	app.listTags(ctx)
	require.Contains(t, out.String(), "trip")
}
