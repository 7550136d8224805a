package main

import (
	"context"
	"io"

	"github.com/koustreak/kyselygen/internal/codegen"
	"github.com/koustreak/kyselygen/internal/config"
	"github.com/koustreak/kyselygen/internal/dialect"
	"github.com/koustreak/kyselygen/internal/errs"
	"github.com/koustreak/kyselygen/internal/filestore"
	"github.com/koustreak/kyselygen/internal/filestore/minio"
	"github.com/koustreak/kyselygen/internal/logger"
	"github.com/koustreak/kyselygen/internal/server"
	"github.com/koustreak/kyselygen/internal/transform"
)

// Build information, set with -ldflags "-X main.version=...".
var (
	version = "dev"
	commit  = "unknown"
)

// app holds the command's I/O and the seams tests replace.
type app struct {
	stdout io.Writer
	stderr io.Writer

	configPath string
	verify     bool

	// generate runs one generation against the configured database.
	generate func(ctx context.Context, cfg *config.Config, log *logger.Logger) (*codegen.Output, error)

	// openStore connects to the upload target.
	openStore func(ctx context.Context, cfg *filestore.Config) (filestore.Store, error)

	// serve blocks serving generated types until ctx is done.
	serve func(ctx context.Context, cfg *config.Config, log *logger.Logger) error
}

func newApp(stdout, stderr io.Writer) *app {
	return &app{
		stdout:    stdout,
		stderr:    stderr,
		generate:  runGenerator,
		openStore: openMinio,
		serve:     runServer,
	}
}

// selectDialect uses the configured dialect or detects it from the URL.
func selectDialect(cfg *config.Config) (dialect.Dialect, error) {
	if cfg.Dialect != "" {
		return dialect.Get(cfg.Dialect)
	}
	name, ok := dialect.Detect(cfg.URL)
	if !ok {
		return nil, errs.New(errs.ErrKindInvalidInput, "could not detect the dialect from the database URL; pass --dialect")
	}
	return dialect.Get(string(name))
}

func request(cfg *config.Config) codegen.Request {
	return codegen.Request{
		ConnString: cfg.URL,
		Schemas:    cfg.Schemas,
		DB:         cfg.DatabaseConfig(),
		Options: transform.Options{
			CamelCase:      cfg.CamelCase,
			IncludePattern: cfg.Include,
			ExcludePattern: cfg.Exclude,
			HelperTypes:    cfg.HelperTypes,
		},
	}
}

func newGenerator(cfg *config.Config, log *logger.Logger) (*codegen.Generator, error) {
	d, err := selectDialect(cfg)
	if err != nil {
		return nil, err
	}
	return codegen.New(d, log), nil
}

func runGenerator(ctx context.Context, cfg *config.Config, log *logger.Logger) (*codegen.Output, error) {
	gen, err := newGenerator(cfg, log)
	if err != nil {
		return nil, err
	}
	return gen.Run(ctx, request(cfg))
}

func runServer(ctx context.Context, cfg *config.Config, log *logger.Logger) error {
	gen, err := newGenerator(cfg, log)
	if err != nil {
		return err
	}
	return server.New(server.FromGenerator(gen, request(cfg)), log).ListenAndServe(ctx, cfg.Serve.Addr)
}

func openMinio(ctx context.Context, cfg *filestore.Config) (filestore.Store, error) {
	d, err := minio.New(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return d, nil
}

func newLogger(cfg *config.Config, w io.Writer) *logger.Logger {
	return logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		TimeFormat: "rfc3339",
		Output:     w,
	})
}
