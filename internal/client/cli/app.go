package cli

import (
	"bufio"
	"context"
	"log"
	"log/slog"
	"os"

	"github.com/villa-app/villa/internal/client/config"
	"github.com/villa-app/villa/internal/client/credential"
	"github.com/villa-app/villa/internal/client/localcache"
	"github.com/villa-app/villa/internal/client/nickname"
	"github.com/villa-app/villa/internal/client/remote"
	"github.com/villa-app/villa/internal/client/storage"
	"github.com/villa-app/villa/internal/logging"

	_ "modernc.org/sqlite"
)

// App wires the interactive Villa CLI together: the local cache, the hybrid
// store, the credential provider and the nickname directory.
type App struct {
	config    *config.Config
	store     *storage.Hybrid
	provider  credential.Provider
	directory nickname.Directory
	log       logging.Logger

	address string
	reader  *bufio.Reader
}

func NewApp(c *config.Config) (*App, error) {

	ctx := context.Background()

	db, err := localcache.InitDatabase(ctx, c.CachePath)
	if err != nil {
		log.Printf("error initializing local cache: %s", err.Error())
		return nil, err
	}

	local := localcache.NewSQLiteRepository(db)
	rem := remote.NewHTTPClient(c.ServerURL)
	dir := nickname.NewClient(c.DirectoryURL)

	logger := logging.NewSlogLogger(slog.New(slog.NewTextHandler(os.Stderr, nil)))
	store := storage.New(local, rem, storage.NewSession(), storage.WithLogger(logger))

	return &App{
		config:    c,
		store:     store,
		provider:  credential.NewDevKeyProvider(local),
		directory: dir,
		log:       logger,
		reader:    bufio.NewReader(os.Stdin),
	}, nil
}

func (a *App) isLoggedIn() bool {
	return a.address != ""
}

func (a *App) Run(ctx context.Context) {
	a.Root(ctx)
}
