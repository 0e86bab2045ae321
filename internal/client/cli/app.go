package cli

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"os"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/option"

	"github.com/dmitrijs2005/groupshare/internal/client/blob"
	"github.com/dmitrijs2005/groupshare/internal/client/config"
	"github.com/dmitrijs2005/groupshare/internal/client/engine"
	"github.com/dmitrijs2005/groupshare/internal/client/migrations"
	"github.com/dmitrijs2005/groupshare/internal/client/repositories/watermarks"
	"github.com/dmitrijs2005/groupshare/internal/client/services"
	"github.com/dmitrijs2005/groupshare/internal/client/session"
	"github.com/dmitrijs2005/groupshare/internal/logging"
	"github.com/dmitrijs2005/groupshare/internal/remote"
	"github.com/dmitrijs2005/groupshare/internal/remote/firestoreremote"

	_ "modernc.org/sqlite"
)

type App struct {
	config *config.Config
	log    logging.Logger
	rc     remote.Client
	db     *sql.DB
	blobs  blob.Store

	sess        *session.Session
	sessCancel  remote.CancelFunc
	eng         *engine.Engine
	fileService services.FileService
	tagService  services.TagService

	reader *bufio.Reader
	out    io.Writer
}

func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	logger := logging.NewDefault(slog.LevelInfo)

	db, err := sql.Open("sqlite", cfg.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("error opening local database: %w", err)
	}
	if err := migrations.Run(ctx, db); err != nil {
		return nil, fmt.Errorf("error migrating local database: %w", err)
	}

	var opts []option.ClientOption
	if cfg.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	}
	fs, err := firestore.NewClient(ctx, cfg.ProjectID, opts...)
	if err != nil {
		return nil, fmt.Errorf("error connecting to document store: %w", err)
	}

	blobs, err := blob.NewS3Store(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("error connecting to blob storage: %w", err)
	}

	return &App{
		config: cfg,
		log:    logger,
		rc:     firestoreremote.New(fs, logger),
		db:     db,
		blobs:  blobs,
		reader: bufio.NewReader(os.Stdin),
		out:    os.Stdout,
	}, nil
}

func (a *App) Run(ctx context.Context) {
	defer a.db.Close()
	defer a.stopEngine()
	a.Root(ctx)
}

func (a *App) isLoggedIn() bool {
	return a.sess != nil
}

// Login bootstraps a session from an externally issued ID token and brings
// the sync engine up for the signed-in principal.
func (a *App) Login(ctx context.Context) {
	token, err := GetToken(a.reader, a.out)
	if err != nil {
		fmt.Fprintf(a.out, "Could not read token: %v\n", err)
		return
	}

	principalID, err := session.PrincipalIDFromToken(token)
	if err != nil {
		fmt.Fprintf(a.out, "Invalid token: %v\n", err)
		return
	}

	a.stopEngine()

	sess := session.New(principalID, a.log)
	cancel, err := sess.Start(ctx, a.rc)
	if err != nil {
		fmt.Fprintf(a.out, "Could not start session: %v\n", err)
		return
	}

	eng := engine.New(a.rc, sess, watermarks.NewSQLiteRepository(a.db), a.config, a.log)
	eng.Start(ctx)

	a.sess = sess
	a.sessCancel = cancel
	a.eng = eng
	a.fileService = services.NewFileService(a.rc, a.blobs, sess)
	a.tagService = services.NewTagService(a.rc)

	fmt.Fprintf(a.out, "Signed in as %s\n", principalID)
}

func (a *App) Logout(_ context.Context) {
	a.stopEngine()
	fmt.Fprintln(a.out, "Signed out")
}

func (a *App) stopEngine() {
	if a.eng != nil {
		a.eng.Stop()
		a.eng = nil
	}
	if a.sessCancel != nil {
		a.sessCancel()
		a.sessCancel = nil
	}
	a.sess = nil
	a.fileService = nil
	a.tagService = nil
}
