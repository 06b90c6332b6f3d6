// Package server wires the files manager together: metadata store, session
// cache, byte storage, thumbnail queue, HTTP API and gRPC health endpoint.
package server

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/filesmanager/internal/logging"
	"github.com/dmitrijs2005/filesmanager/internal/server/config"
	"github.com/dmitrijs2005/filesmanager/internal/server/httpapi"
	"github.com/dmitrijs2005/filesmanager/internal/server/queue"
	"github.com/dmitrijs2005/filesmanager/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/filesmanager/internal/server/services"
	"github.com/dmitrijs2005/filesmanager/internal/server/sessions"
	"github.com/dmitrijs2005/filesmanager/internal/server/storage"
	"github.com/dmitrijs2005/filesmanager/internal/server/thumbnails"

	"golang.org/x/sync/errgroup"

	gs "github.com/dmitrijs2005/filesmanager/internal/server/grpc"
)

type App struct {
	config   *config.Config
	logger   logging.Logger
	store    repomanager.RepositoryManager
	sessions sessions.Store
	queue    *queue.MemoryQueue
	worker   *thumbnails.Worker
	http     *httpapi.Server
	grpc     *gs.GRPCServer
}

// NewApp connects every backend named in c and builds the servers.
func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger := logging.New(os.Stdout, c.LogLevel, c.LogFormat)

	store, err := repomanager.New(ctx, repomanager.Options{
		Backend:       c.MetadataBackend,
		DatabaseDSN:   c.DatabaseDSN,
		MongoURI:      c.MongoURI,
		MongoDatabase: c.MongoDatabase,
	})
	if err != nil {
		return nil, fmt.Errorf("metadata store init error: %w", err)
	}

	ss, err := sessions.NewBadgerStore(c.SessionPath)
	if err != nil {
		_ = store.Close(ctx)
		return nil, fmt.Errorf("session store init error: %w", err)
	}

	st, err := storage.New(ctx, storage.Options{
		Backend:    c.StorageBackend,
		FolderPath: c.FolderPath,
		S3: storage.S3Options{
			RootUser:     c.S3RootUser,
			RootPassword: c.S3RootPassword,
			Bucket:       c.S3Bucket,
			Region:       c.S3Region,
			BaseEndpoint: c.S3BaseEndpoint,
		},
	})
	if err != nil {
		_ = ss.Close()
		_ = store.Close(ctx)
		return nil, fmt.Errorf("storage init error: %w", err)
	}

	q := queue.NewMemoryQueue(c.QueueSize, c.WorkerCount, logger)

	auth := services.NewAuthService(store.Users(), ss, c.PasswordPepper, c.SessionTTL, logger)
	files := services.NewFileService(store.Files(), auth, st, q, c.PageSize, logger)
	content := services.NewContentService(store.Files(), auth, st, c.ThumbnailWidths, logger)
	status := services.NewStatusService(store, ss, q)

	h := httpapi.NewHandler(auth, files, content, status, logger)
	router := httpapi.NewRouter(h, httpapi.RouterOptions{CORSOrigins: c.CORSOrigins, EnablePprof: c.EnablePprof})

	app := &App{
		config:   c,
		logger:   logger,
		store:    store,
		sessions: ss,
		queue:    q,
		worker:   thumbnails.NewWorker(store.Files(), st, c.ThumbnailWidths, c.MaxImagePixels, logger),
		http:     httpapi.NewServer(c.HTTPAddr, router, c.ShutdownTimeout, logger),
	}

	if c.GRPCAddr != "" {
		app.grpc = gs.NewGRPCServer(c.GRPCAddr, logger, c.HealthInterval, map[string]gs.Probe{
			"db":    store,
			"cache": ss,
		})
	}

	return app, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

// Run blocks until a signal arrives or a server fails, then stops every
// component and closes the backends. The first server error is returned.
func (app *App) Run(ctx context.Context) error {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	// A failing server cancels gctx, which stops the others.
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := app.http.Run(gctx); err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	if app.grpc != nil {
		g.Go(func() error {
			if err := app.grpc.Run(gctx); err != nil {
				return fmt.Errorf("grpc server: %w", err)
			}
			return nil
		})
	}

	g.Go(func() error {
		app.queue.Process(gctx, app.worker.Handle)
		return nil
	})

	err := g.Wait()
	if err != nil {
		app.logger.Error(ctx, "app error", "error", err)
	}

	app.close(context.WithoutCancel(ctx))
	app.logger.Info(ctx, "App stopped")
	return err
}

func (app *App) close(ctx context.Context) {
	app.queue.Close()
	if err := app.sessions.Close(); err != nil {
		app.logger.Error(ctx, "session store close error", "error", err)
	}
	if err := app.store.Close(ctx); err != nil {
		app.logger.Error(ctx, "metadata store close error", "error", err)
	}
}
