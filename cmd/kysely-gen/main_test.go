package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/koustreak/kyselygen/internal/codegen"
	"github.com/koustreak/kyselygen/internal/config"
	"github.com/koustreak/kyselygen/internal/dialect"
	"github.com/koustreak/kyselygen/internal/errs"
	"github.com/koustreak/kyselygen/internal/filestore"
	"github.com/koustreak/kyselygen/internal/logger"
	"github.com/koustreak/kyselygen/internal/transform"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleSource = "export interface DB {}\n"

type harness struct {
	app    *app
	stdout *bytes.Buffer
	stderr *bytes.Buffer
	got    *config.Config
	store  *filestore.Memory
}

func newHarness(t *testing.T, out *codegen.Output) *harness {
	t.Helper()
	t.Chdir(t.TempDir())
	for _, k := range []string{"DATABASE_URL", "KYSELY_GEN_URL", "KYSELY_GEN_OUT", "KYSELY_GEN_DIALECT"} {
		t.Setenv(k, "")
	}

	h := &harness{stdout: &bytes.Buffer{}, stderr: &bytes.Buffer{}, store: filestore.NewMemory()}
	h.app = newApp(h.stdout, h.stderr)
	h.app.generate = func(_ context.Context, cfg *config.Config, _ *logger.Logger) (*codegen.Output, error) {
		h.got = cfg
		return out, nil
	}
	h.app.openStore = func(context.Context, *filestore.Config) (filestore.Store, error) {
		return h.store, nil
	}
	h.app.serve = func(_ context.Context, cfg *config.Config, _ *logger.Logger) error {
		h.got = cfg
		return nil
	}
	return h
}

func (h *harness) run(args ...string) int {
	return execute(context.Background(), h.app, append(args, "--log-level", "silent"))
}

func TestGenerate_Stdout(t *testing.T) {
	h := newHarness(t, &codegen.Output{Source: sampleSource, Tables: 3, Enums: 1})

	code := h.run("--url", "postgres://localhost/app")
	require.Equal(t, 0, code, h.stderr.String())
	assert.Equal(t, sampleSource, h.stdout.String())
	assert.Contains(t, h.stderr.String(), "3 tables, 1 enums")
	assert.Contains(t, h.stderr.String(), "stdout")
}

func TestGenerate_WritesFileAndWarnings(t *testing.T) {
	h := newHarness(t, &codegen.Output{
		Source:   sampleSource,
		Warnings: []transform.Warning{{Type: "unknown_type", PgType: "ltree"}, {Type: "unknown_type", PgType: "tsrange"}},
	})

	code := h.run("generate", "-u", "postgres://localhost/app", "-o", "src/db/types.ts")
	require.Equal(t, 0, code, h.stderr.String())

	data, err := os.ReadFile(filepath.Join("src", "db", "types.ts"))
	require.NoError(t, err)
	assert.Equal(t, sampleSource, string(data))
	assert.Empty(t, h.stdout.String())

	stderr := h.stderr.String()
	assert.Contains(t, stderr, "2 unmapped column types emitted as unknown")
	assert.Contains(t, stderr, "ltree")
	assert.Contains(t, stderr, "tsrange")
}

func TestGenerate_FlagsOverrideEnvAndFile(t *testing.T) {
	h := newHarness(t, &codegen.Output{Source: sampleSource})
	require.NoError(t, os.WriteFile("kysely-gen.yaml", []byte(`
url: postgres://file/app
camel_case: false
include: ["file.*"]
schemas: [file]
`), 0o644))
	t.Setenv("DATABASE_URL", "postgres://env/app")
	t.Setenv("KYSELY_GEN_SCHEMAS", "env")

	code := h.run("--camel-case", "--include", "public.users", "--include", "public.posts", "--helper-types=false")
	require.Equal(t, 0, code, h.stderr.String())

	assert.Equal(t, "postgres://env/app", h.got.URL, "env beats file")
	assert.Equal(t, []string{"env"}, h.got.Schemas)
	assert.True(t, h.got.CamelCase, "flag beats file")
	assert.Equal(t, []string{"public.users", "public.posts"}, h.got.Include)
	assert.False(t, h.got.HelperTypes)

	code = h.run("--url", "postgres://flag/app")
	require.Equal(t, 0, code)
	assert.Equal(t, "postgres://flag/app", h.got.URL)
}

func TestGenerate_ExplicitConfigFile(t *testing.T) {
	h := newHarness(t, &codegen.Output{Source: sampleSource})
	require.NoError(t, os.WriteFile("custom.toml", []byte("url = \"mysql://root@localhost/shop\"\nout = \"types.ts\"\n"), 0o644))

	code := h.run("-c", "custom.toml")
	require.Equal(t, 0, code, h.stderr.String())
	assert.Equal(t, "mysql://root@localhost/shop", h.got.URL)
	_, err := os.Stat("types.ts")
	assert.NoError(t, err)
}

func TestGenerate_DotEnv(t *testing.T) {
	h := newHarness(t, &codegen.Output{Source: sampleSource})
	require.NoError(t, os.Unsetenv("DATABASE_URL"))
	require.NoError(t, os.WriteFile(".env", []byte("DATABASE_URL=postgres://dotenv/app\n"), 0o644))
	t.Cleanup(func() { _ = os.Unsetenv("DATABASE_URL") })

	code := h.run()
	require.Equal(t, 0, code, h.stderr.String())
	assert.Equal(t, "postgres://dotenv/app", h.got.URL)
}

func TestGenerate_MissingURL(t *testing.T) {
	h := newHarness(t, &codegen.Output{Source: sampleSource})

	code := h.run()
	assert.Equal(t, 1, code)
	assert.Contains(t, h.stderr.String(), "database URL is required")
	assert.Nil(t, h.got)
}

func TestVerify(t *testing.T) {
	h := newHarness(t, &codegen.Output{Source: sampleSource})

	code := h.run("-u", "postgres://x", "-o", "types.ts", "--verify")
	assert.Equal(t, 1, code, "missing file is out of date")
	assert.Contains(t, h.stderr.String(), "out of date")

	require.NoError(t, os.WriteFile("types.ts", []byte("stale\n"), 0o644))
	h.stderr.Reset()
	code = h.run("-u", "postgres://x", "-o", "types.ts", "--verify")
	assert.Equal(t, 1, code)
	data, _ := os.ReadFile("types.ts")
	assert.Equal(t, "stale\n", string(data), "verify never writes")

	require.NoError(t, os.WriteFile("types.ts", []byte(sampleSource), 0o644))
	h.stderr.Reset()
	code = h.run("generate", "-u", "postgres://x", "-o", "types.ts", "--verify")
	assert.Equal(t, 0, code, h.stderr.String())
	assert.Contains(t, h.stderr.String(), "types.ts is up to date")
}

func TestVerify_RequiresOutFile(t *testing.T) {
	h := newHarness(t, &codegen.Output{Source: sampleSource})

	code := h.run("-u", "postgres://x", "--verify")
	assert.Equal(t, 1, code)
	assert.Contains(t, h.stderr.String(), "--verify needs --out")
}

func TestUpload(t *testing.T) {
	h := newHarness(t, &codegen.Output{Source: sampleSource})
	args := []string{
		"-u", "postgres://x", "-o", "types.ts",
		"--upload-endpoint", "localhost:9000",
		"--upload-bucket", "schemas",
		"--upload-key", "app/types.ts",
		"--presign-ttl", "1h",
	}

	require.Equal(t, 0, h.run(args...), h.stderr.String())
	assert.Contains(t, h.stderr.String(), "uploaded schemas/app/types.ts")
	assert.Contains(t, h.stderr.String(), "memory://schemas/app/types.ts?expires=3600")
	assert.Equal(t, 1, h.store.Puts())

	h.stderr.Reset()
	require.Equal(t, 0, h.run(args...), h.stderr.String())
	assert.Contains(t, h.stderr.String(), "unchanged, upload skipped")
	assert.Equal(t, 1, h.store.Puts())
}

func TestUpload_NeedsEndpoint(t *testing.T) {
	h := newHarness(t, &codegen.Output{Source: sampleSource})

	code := h.run("-u", "postgres://x", "--upload-bucket", "schemas")
	assert.Equal(t, 1, code)
	assert.Contains(t, h.stderr.String(), "upload endpoint is required")
}

func TestServe(t *testing.T) {
	h := newHarness(t, &codegen.Output{})

	code := h.run("serve", "-u", "postgres://x", "--addr", "127.0.0.1:9999")
	require.Equal(t, 0, code, h.stderr.String())
	assert.Equal(t, "127.0.0.1:9999", h.got.Serve.Addr)

	code = h.run("serve", "-u", "postgres://x")
	require.Equal(t, 0, code)
	assert.Equal(t, ":8080", h.got.Serve.Addr)
}

func TestDialectsAndVersion(t *testing.T) {
	h := newHarness(t, nil)

	require.Equal(t, 0, h.run("dialects"))
	assert.Equal(t, "mysql\npostgres\n", h.stdout.String())

	h.stdout.Reset()
	require.Equal(t, 0, h.run("version"))
	assert.Equal(t, "kysely-gen dev (unknown)\n", h.stdout.String())
}

func TestSelectDialect(t *testing.T) {
	d, err := selectDialect(&config.Config{URL: "postgresql://x"})
	require.NoError(t, err)
	assert.Equal(t, dialect.Postgres, d.Name())

	d, err = selectDialect(&config.Config{URL: "postgres://x", Dialect: "mysql"})
	require.NoError(t, err)
	assert.Equal(t, dialect.MySQL, d.Name(), "explicit dialect wins")

	_, err = selectDialect(&config.Config{URL: "root@tcp(localhost)/shop"})
	assert.True(t, errs.IsInvalidInput(err))

	_, err = selectDialect(&config.Config{URL: "postgres://x", Dialect: "oracle"})
	assert.True(t, errs.IsInvalidInput(err))
}

func TestRequest(t *testing.T) {
	cfg := config.Default()
	cfg.URL = "postgres://x"
	cfg.Schemas = []string{"public"}
	cfg.CamelCase = true
	cfg.Exclude = []string{"public.migrations"}
	cfg.Pool.QueryTimeout = config.Duration(time.Second)

	req := request(cfg)
	assert.Equal(t, "postgres://x", req.ConnString)
	assert.Equal(t, []string{"public"}, req.Schemas)
	assert.Equal(t, time.Second, req.DB.QueryTimeout)
	assert.Equal(t, transform.Options{
		CamelCase:      true,
		ExcludePattern: []string{"public.migrations"},
		HelperTypes:    true,
	}, req.Options)
}
