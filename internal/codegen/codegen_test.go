package codegen

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/koustreak/kyselygen/internal/ast"
	"github.com/koustreak/kyselygen/internal/database"
	"github.com/koustreak/kyselygen/internal/database/databasetest"
	"github.com/koustreak/kyselygen/internal/dialect"
	"github.com/koustreak/kyselygen/internal/errs"
	"github.com/koustreak/kyselygen/internal/logger"
	"github.com/koustreak/kyselygen/internal/schema"
	"github.com/koustreak/kyselygen/internal/transform"
	"github.com/koustreak/kyselygen/internal/typemap"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubDialect serves canned metadata over a fake connection.
type stubDialect struct {
	md         *schema.DatabaseMetadata
	connectErr error
	introErr   error
	db         *databasetest.DB
	gotOpts    schema.IntrospectOptions
	gotCfg     *database.Config
	block      bool
}

func (s *stubDialect) Name() dialect.Name { return dialect.Postgres }

func (s *stubDialect) DefaultSchema(string) string { return "public" }

func (s *stubDialect) MapType(dataType string, opts typemap.MapOptions) ast.Type {
	return typemap.MapPostgres(dataType, opts)
}

func (s *stubDialect) Connect(_ context.Context, _ string, cfg *database.Config) (database.DB, error) {
	s.gotCfg = cfg
	if s.connectErr != nil {
		return nil, s.connectErr
	}
	s.db = &databasetest.DB{Handler: databasetest.Routes(nil)}
	return s.db, nil
}

func (s *stubDialect) Introspect(ctx context.Context, _ database.DB, opts schema.IntrospectOptions) (*schema.DatabaseMetadata, error) {
	s.gotOpts = opts
	if s.block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	if s.introErr != nil {
		return nil, s.introErr
	}
	return s.md, nil
}

func sampleMetadata() *schema.DatabaseMetadata {
	return &schema.DatabaseMetadata{
		Tables: []schema.TableMetadata{{
			Schema: "public",
			Name:   "users",
			Columns: []schema.ColumnMetadata{
				{Name: "id", DataType: "int4", IsAutoIncrement: true, HasDefaultValue: true},
				{Name: "role", DataType: "role", DataTypeSchema: "public"},
				{Name: "span", DataType: "tsrange"},
			},
		}},
		Enums: []schema.EnumMetadata{{Schema: "public", Name: "role", Values: []string{"admin", "member"}}},
	}
}

func TestRun(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(&logger.Config{Level: "debug", Format: "json", Output: &buf})
	d := &stubDialect{md: sampleMetadata()}
	g := New(d, log)

	out, err := g.Run(context.Background(), Request{
		ConnString: "postgres://localhost/app",
		Schemas:    []string{"public"},
		Options:    transform.Options{CamelCase: true},
	})
	require.NoError(t, err)

	assert.Contains(t, out.Source, "export type Role = 'admin' | 'member';")
	assert.Contains(t, out.Source, "  id: Generated<number>;\n  role: Role;\n  span: unknown;\n")
	assert.Equal(t, []transform.Warning{{Type: "unknown_type", PgType: "tsrange"}}, out.Warnings)
	assert.Equal(t, 1, out.Tables)
	assert.Equal(t, 1, out.Enums)

	assert.Equal(t, []string{"public"}, d.gotOpts.Schemas)
	assert.Equal(t, "postgres://localhost/app", d.gotCfg.DSN)
	assert.True(t, d.db.Closed())

	logs := buf.String()
	assert.Contains(t, logs, `"pgType":"tsrange"`)
	assert.Contains(t, logs, "introspected database")
}

func TestRun_RequiresURL(t *testing.T) {
	_, err := New(&stubDialect{}, nil).Run(context.Background(), Request{})
	require.Error(t, err)
	assert.True(t, errs.IsInvalidInput(err))
}

func TestRun_ConnectError(t *testing.T) {
	cause := errs.New(errs.ErrKindConnectionFailed, "refused")
	_, err := New(&stubDialect{connectErr: cause}, nil).Run(context.Background(), Request{ConnString: "postgres://x"})
	require.Error(t, err)
	assert.True(t, errs.IsConnectionFailed(err))
}

func TestRun_IntrospectErrorKeepsKind(t *testing.T) {
	d := &stubDialect{introErr: errs.New(errs.ErrKindPermissionDenied, "no access to pg_catalog")}
	_, err := New(d, nil).Run(context.Background(), Request{ConnString: "postgres://x"})
	require.Error(t, err)
	assert.True(t, errs.IsPermissionDenied(err))
	assert.Contains(t, err.Error(), "introspection failed")
	assert.True(t, d.db.Closed())
}

func TestRun_QueryTimeout(t *testing.T) {
	d := &stubDialect{block: true}
	cfg := database.DefaultConfig("postgres://x")
	cfg.QueryTimeout = 20 * time.Millisecond

	_, err := New(d, nil).Run(context.Background(), Request{ConnString: "postgres://x", DB: cfg})
	require.Error(t, err)
	assert.True(t, errs.IsTimeout(err))
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
}

func TestGenerate_Deterministic(t *testing.T) {
	g := New(&stubDialect{}, nil)
	md := sampleMetadata()

	first := g.Generate(md, "postgres://x", nil, transform.Options{})
	second := g.Generate(md, "postgres://x", nil, transform.Options{})
	assert.Equal(t, first.Source, second.Source)
}

func TestDefaultSchema(t *testing.T) {
	my, err := dialect.Get("mysql")
	require.NoError(t, err)

	assert.Equal(t, "shop", DefaultSchema(my, "mysql://root@localhost/shop", []string{"other"}))
	assert.Equal(t, "other", DefaultSchema(my, "mysql://root@localhost", []string{"other"}))
	assert.Equal(t, "public", DefaultSchema(my, "mysql://root@localhost", nil))

	pg, err := dialect.Get("postgres")
	require.NoError(t, err)
	assert.Equal(t, "public", DefaultSchema(pg, "postgres://x", []string{"app"}))
}
