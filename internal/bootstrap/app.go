// Package bootstrap builds every component from configuration. Both binaries
// and jobctl share it so the API and the worker see the same store and queue.
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	githubauth "pdfextract-backend/internal/auth"
	"pdfextract-backend/internal/engines"
	"pdfextract-backend/internal/jobs"
	"pdfextract-backend/internal/queue"
	"pdfextract-backend/internal/services/health"
	"pdfextract-backend/internal/shared/auth"
	"pdfextract-backend/internal/shared/config"
	"pdfextract-backend/internal/shared/server"
	"pdfextract-backend/internal/shared/storage/db"
	"pdfextract-backend/internal/shared/storage/kv"
	"pdfextract-backend/internal/shared/storage/object"
	localstore "pdfextract-backend/internal/shared/storage/object/local"
	s3store "pdfextract-backend/internal/shared/storage/object/s3"
	"pdfextract-backend/internal/shared/telemetry"
	"pdfextract-backend/internal/uploads"
	"pdfextract-backend/internal/worker"
)

// App holds shared dependencies.
type App struct {
	Config      config.Config
	Records     kv.Store
	Queue       queue.WorkQueue
	Objects     object.ObjectStore
	Engines     *engines.Registry
	UploadsRepo uploads.UploadsRepo
	JobsRepo    jobs.JobsRepo
	Uploads     *uploads.Service
	Jobs        *jobs.Service
	GitHubAuth  *githubauth.GitHubService
	Health      *health.Service
	Router      *gin.Engine

	redis   *redis.Client
	closers []func() error
}

// Build wires the record store, work queue, object store, engines and
// services. Call Close when done.
func Build(ctx context.Context, cfg config.Config) (app *App, err error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}
	auth.Configure(cfg.JWTSecret, cfg.Env == "production")

	app = &App{Config: cfg}
	defer func() {
		if err != nil {
			_ = app.Close()
		}
	}()

	if app.Records, err = app.buildRecords(ctx); err != nil {
		return nil, err
	}
	if app.Queue, err = app.buildQueue(ctx); err != nil {
		return nil, err
	}
	if app.Objects, err = buildObjects(ctx, cfg); err != nil {
		return nil, err
	}

	app.Engines = engines.Default()
	app.UploadsRepo = uploads.NewKVRepo(app.Records)
	app.JobsRepo = jobs.NewKVRepo(app.Records)
	app.Uploads = &uploads.Service{
		Store:    app.Objects,
		Repo:     app.UploadsRepo,
		MaxBytes: cfg.MaxUploadBytes,
	}
	app.Jobs = &jobs.Service{
		Repo:    app.JobsRepo,
		Uploads: app.UploadsRepo,
		Queue:   app.Queue,
		Engines: app.Engines,
	}
	app.GitHubAuth = githubauth.NewGitHubService(
		cfg.GitHubClientID,
		cfg.GitHubClientSecret,
		cfg.GitHubRedirectURL,
		cfg.FrontendURL,
	)
	app.Health = health.NewService().
		Add("records", health.RecordStoreCheck(app.Records)).
		Add("queue", health.QueueCheck(app.Queue))
	app.Router = server.NewRouter(cfg, server.Routes{
		Public: []server.RouteRegistrar{app.GitHubAuth, app.Health},
		Protected: []server.RouteRegistrar{
			uploads.NewHandler(app.Uploads),
			jobs.NewHandler(app.Jobs),
		},
		PollingRule: server.DefaultPollingRule,
	})

	telemetry.Info("bootstrap.ready", map[string]any{
		"env":          cfg.Env,
		"record_store": cfg.RecordStoreType,
		"work_queue":   cfg.WorkQueueType,
		"object_store": cfg.ObjectStoreType,
		"engines":      app.Engines.IDs(),
	})
	return app, nil
}

// NewWorker returns a worker bound to the app's queue and stores.
func (a *App) NewWorker() *worker.Worker {
	return &worker.Worker{
		Jobs:            a.Jobs,
		Uploads:         a.UploadsRepo,
		Objects:         a.Objects,
		Engines:         a.Engines,
		Queue:           a.Queue,
		Concurrency:     a.Config.WorkerConcurrency,
		ShutdownTimeout: time.Duration(a.Config.ShutdownTimeoutSeconds) * time.Second,
	}
}

// EmbeddedWorker reports whether the API process must run the worker itself
// because records or queue live only in this process's memory.
func (a *App) EmbeddedWorker() bool {
	return a.Config.RecordStoreType == "memory" || a.Config.WorkQueueType == "memory"
}

// Close releases every backend in reverse construction order.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}

func (a *App) onClose(fn func() error) {
	a.closers = append(a.closers, fn)
}

// redisClient dials once; the record store and the queue share the client.
func (a *App) redisClient(ctx context.Context) (*redis.Client, error) {
	if a.redis != nil {
		return a.redis, nil
	}
	client, err := kv.DialRedis(ctx, a.Config.RedisURL)
	if err != nil {
		return nil, err
	}
	a.redis = client
	a.onClose(client.Close)
	return client, nil
}

func (a *App) buildRecords(ctx context.Context) (kv.Store, error) {
	cfg := a.Config
	switch cfg.RecordStoreType {
	case "redis":
		client, err := a.redisClient(ctx)
		if err != nil {
			return nil, err
		}
		return kv.NewRedisStore(client), nil

	case "postgres":
		if strings.TrimSpace(cfg.DatabaseURL) == "" {
			return nil, errors.New("RECORD_STORE=postgres requires DATABASE_URL")
		}
		conn, err := db.Connect(ctx, db.Postgres, cfg.DatabaseURL, db.OptionsFromEnv(db.DefaultServerOptions()))
		if err != nil {
			return nil, err
		}
		store := kv.NewSQLStore(conn, db.Postgres)
		a.onClose(store.Close)
		if err := db.RunMigrations(ctx, conn, db.Postgres); err != nil {
			return nil, err
		}
		return store, nil

	case "sqlite":
		if dir := filepath.Dir(cfg.SQLitePath); dir != "" {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("create sqlite dir: %w", err)
			}
		}
		conn, err := db.Connect(ctx, db.SQLite, cfg.SQLitePath, db.DefaultSQLiteOptions())
		if err != nil {
			return nil, err
		}
		store := kv.NewSQLStore(conn, db.SQLite)
		a.onClose(store.Close)
		if err := db.RunMigrations(ctx, conn, db.SQLite); err != nil {
			return nil, err
		}
		return store, nil

	case "pebble":
		store, err := kv.OpenPebbleStore(cfg.PebbleDir)
		if err != nil {
			return nil, err
		}
		a.onClose(store.Close)
		return store, nil

	default:
		return kv.NewMemoryStore(), nil
	}
}

func (a *App) buildQueue(ctx context.Context) (queue.WorkQueue, error) {
	cfg := a.Config
	switch cfg.WorkQueueType {
	case "redis":
		client, err := a.redisClient(ctx)
		if err != nil {
			return nil, err
		}
		return queue.NewRedisQueue(client), nil

	case "sqs":
		if strings.TrimSpace(cfg.SQSQueueURL) == "" {
			return nil, errors.New("WORK_QUEUE=sqs requires SQS_QUEUE_URL")
		}
		return queue.NewSQSQueue(ctx, cfg.AWSRegion, cfg.SQSQueueURL)

	default:
		q := queue.NewMemoryQueue()
		a.onClose(q.Close)
		return q, nil
	}
}

func buildObjects(ctx context.Context, cfg config.Config) (object.ObjectStore, error) {
	switch cfg.ObjectStoreType {
	case "s3":
		if strings.TrimSpace(cfg.S3Bucket) == "" {
			return nil, errors.New("OBJECT_STORE=s3 requires S3_BUCKET")
		}
		return s3store.New(ctx, cfg.AWSRegion, cfg.S3Bucket, cfg.S3Prefix)
	default:
		return localstore.New(cfg.LocalStoreDir), nil
	}
}
