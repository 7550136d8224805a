// Package codegen runs the generation pipeline: connect, introspect,
// transform and serialize.
package codegen

import (
	"context"
	"time"

	"github.com/koustreak/kyselygen/internal/ast"
	"github.com/koustreak/kyselygen/internal/database"
	"github.com/koustreak/kyselygen/internal/dialect"
	"github.com/koustreak/kyselygen/internal/errs"
	"github.com/koustreak/kyselygen/internal/logger"
	"github.com/koustreak/kyselygen/internal/schema"
	"github.com/koustreak/kyselygen/internal/transform"
)

// Request describes one generation run.
type Request struct {
	// ConnString is the database URL.
	ConnString string

	// Schemas to introspect. Empty means the dialect default.
	Schemas []string

	// DB tunes the connection pool. Nil uses database.DefaultConfig.
	DB *database.Config

	Options transform.Options
}

// Output is the result of a successful run.
type Output struct {
	Source   string
	Warnings []transform.Warning
	Tables   int
	Enums    int
}

// Generator runs requests against one dialect.
type Generator struct {
	Dialect dialect.Dialect
	Logger  *logger.Logger
}

// New returns a Generator. A nil log discards all output.
func New(d dialect.Dialect, log *logger.Logger) *Generator {
	if log == nil {
		log = logger.Nop()
	}
	return &Generator{Dialect: d, Logger: log}
}

// Run connects, introspects and generates. The connection is closed before
// Run returns.
func (g *Generator) Run(ctx context.Context, req Request) (*Output, error) {
	if req.ConnString == "" {
		return nil, errs.New(errs.ErrKindInvalidInput, "database URL is required")
	}
	log := g.log().With().Str("dialect", string(g.Dialect.Name())).Logger()

	cfg := req.DB
	if cfg == nil {
		cfg = database.DefaultConfig(req.ConnString)
	}

	start := time.Now()
	db, err := g.Dialect.Connect(ctx, req.ConnString, cfg)
	if err != nil {
		return nil, err
	}
	defer db.Close()
	log.Debugf("connected in %s", time.Since(start).Round(time.Millisecond))

	md, err := g.Introspect(ctx, db, req, cfg.QueryTimeout)
	if err != nil {
		return nil, err
	}

	return g.Generate(md, req.ConnString, req.Schemas, req.Options), nil
}

// Introspect reads catalog metadata over db, bounded by timeout when it is
// positive.
func (g *Generator) Introspect(ctx context.Context, db database.DB, req Request, timeout time.Duration) (*schema.DatabaseMetadata, error) {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	start := time.Now()
	md, err := g.Dialect.Introspect(ctx, db, schema.IntrospectOptions{Schemas: req.Schemas})
	if err != nil {
		kind := errs.KindOf(err)
		if kind == errs.ErrKindUnknown && ctx.Err() != nil {
			kind = errs.ErrKindTimeout
		}
		return nil, errs.Wrap(kind, "introspection failed", err)
	}
	g.log().With().
		Int("tables", len(md.Tables)).
		Int("enums", len(md.Enums)).
		Str("elapsed", time.Since(start).Round(time.Millisecond).String()).
		Logger().
		Info("introspected database")
	return md, nil
}

// Generate is the pure half of Run: it transforms md and renders the
// source. Every warning is logged.
func (g *Generator) Generate(md *schema.DatabaseMetadata, connString string, schemas []string, opts transform.Options) *Output {
	if opts.DefaultSchema == "" {
		opts.DefaultSchema = DefaultSchema(g.Dialect, connString, schemas)
	}

	res := transform.Transform(md, g.Dialect.MapType, opts)
	for _, w := range res.Warnings {
		g.log().With().Str("type", w.Type).Str("pgType", w.PgType).Logger().
			Warn("unmapped column type, emitted as unknown")
	}

	return &Output{
		Source:   ast.Serialize(res.Program),
		Warnings: res.Warnings,
		Tables:   res.Tables,
		Enums:    res.Enums,
	}
}

// DefaultSchema picks the schema enums are named relative to: the dialect's
// default for the connection, else the first requested schema.
func DefaultSchema(d dialect.Dialect, connString string, schemas []string) string {
	if s := d.DefaultSchema(connString); s != "" {
		return s
	}
	if len(schemas) > 0 {
		return schemas[0]
	}
	return transform.DefaultSchema
}

func (g *Generator) log() *logger.Logger {
	if g.Logger == nil {
		return logger.Nop()
	}
	return g.Logger
}
