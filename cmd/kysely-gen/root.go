package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/koustreak/kyselygen/internal/config"
	"github.com/koustreak/kyselygen/internal/dialect"
	"github.com/koustreak/kyselygen/internal/errs"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// errOutOfDate is returned by --verify when the file on disk differs.
var errOutOfDate = errors.New("generated types are out of date")

func execute(ctx context.Context, a *app, args []string) int {
	root := newRootCmd(a)
	root.SetArgs(args)
	if err := root.ExecuteContext(ctx); err != nil {
		a.printError(err)
		return 1
	}
	return 0
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "kysely-gen",
		Short: "Generate Kysely types from a PostgreSQL or MySQL schema",
		Long: `kysely-gen reads tables, views and enums from a live database and writes
TypeScript declarations for the Kysely query builder.

Settings come from flags, then KYSELY_GEN_* and DATABASE_URL environment
variables (a .env file is loaded first), then kysely-gen.yaml or
kysely-gen.toml.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          a.runGenerate,
	}
	root.SetOut(a.stdout)
	root.SetErr(a.stderr)

	pf := root.PersistentFlags()
	pf.StringVarP(&a.configPath, "config", "c", "", "config file (default: kysely-gen.yaml, .yml or .toml in the working directory)")
	pf.StringP("url", "u", "", "database URL (env DATABASE_URL)")
	pf.String("dialect", "", fmt.Sprintf("database dialect: %s (default: detected from the URL)", strings.Join(dialect.Names(), ", ")))
	pf.StringSlice("schema", nil, "schema to introspect, repeatable (default: public, or the MySQL database)")
	pf.StringP("out", "o", "", `output file, "-" for stdout (default "-")`)
	pf.Bool("camel-case", false, "camelCase table and column property names")
	pf.StringSlice("include", nil, "only include tables matching these schema.table globs")
	pf.StringSlice("exclude", nil, "exclude tables matching these schema.table globs; wins over --include")
	pf.Bool("helper-types", true, "declare JsonValue and geometry helper types")
	pf.String("log-level", "", "log level: debug, info, warn, error, silent")
	pf.String("log-format", "", "log format: json, console, auto")
	pf.String("upload-endpoint", "", "S3-compatible endpoint (host:port) to publish the file to")
	pf.String("upload-bucket", "", "bucket to publish the file to; enables upload")
	pf.String("upload-key", "", "object key of the published file")
	pf.String("upload-access-key", "", "access key for the upload endpoint")
	pf.String("upload-secret-key", "", "secret key for the upload endpoint")
	pf.Bool("upload-ssl", false, "use TLS for the upload endpoint")
	pf.Duration("presign-ttl", 0, "print a presigned download URL valid this long")

	generate := &cobra.Command{
		Use:   "generate",
		Short: "Introspect the database and write the declarations (default command)",
		Args:  cobra.NoArgs,
		RunE:  a.runGenerate,
	}
	for _, cmd := range []*cobra.Command{root, generate} {
		cmd.Flags().BoolVar(&a.verify, "verify", false, "exit non-zero if --out differs from freshly generated output; write nothing")
	}

	root.AddCommand(generate, newServeCmd(a), newDialectsCmd(a), newVersionCmd(a))
	return root
}

// loadConfig resolves settings with precedence flags > env > file > defaults.
func (a *app) loadConfig(cmd *cobra.Command) (*config.Config, error) {
	if err := config.LoadDotEnv(".env"); err != nil {
		return nil, err
	}
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return nil, err
	}
	if err := applyFlags(cfg, cmd.Flags()); err != nil {
		return nil, err
	}
	cfg.ExpandEnv(envGetter)
	return cfg, nil
}

// applyFlags copies every flag the user set onto cfg.
func applyFlags(cfg *config.Config, fs *pflag.FlagSet) error {
	var firstErr error
	setStr := func(name string, dst *string) {
		if fs.Changed(name) {
			v, err := fs.GetString(name)
			keep(&firstErr, err)
			*dst = v
		}
	}
	setSlice := func(name string, dst *[]string) {
		if fs.Changed(name) {
			v, err := fs.GetStringSlice(name)
			keep(&firstErr, err)
			*dst = v
		}
	}
	setBool := func(name string, dst *bool) {
		if fs.Changed(name) {
			v, err := fs.GetBool(name)
			keep(&firstErr, err)
			*dst = v
		}
	}

	setStr("url", &cfg.URL)
	setStr("dialect", &cfg.Dialect)
	setSlice("schema", &cfg.Schemas)
	setStr("out", &cfg.Out)
	setBool("camel-case", &cfg.CamelCase)
	setSlice("include", &cfg.Include)
	setSlice("exclude", &cfg.Exclude)
	setBool("helper-types", &cfg.HelperTypes)
	setStr("log-level", &cfg.Log.Level)
	setStr("log-format", &cfg.Log.Format)
	setStr("upload-endpoint", &cfg.Upload.Endpoint)
	setStr("upload-bucket", &cfg.Upload.Bucket)
	setStr("upload-key", &cfg.Upload.Key)
	setStr("upload-access-key", &cfg.Upload.AccessKey)
	setStr("upload-secret-key", &cfg.Upload.SecretKey)
	setBool("upload-ssl", &cfg.Upload.UseSSL)
	if fs.Changed("presign-ttl") {
		v, err := fs.GetDuration("presign-ttl")
		keep(&firstErr, err)
		cfg.Upload.PresignTTL = config.Duration(v)
	}
	if fs.Lookup("addr") != nil {
		setStr("addr", &cfg.Serve.Addr)
	}

	if firstErr != nil {
		return errs.Wrap(errs.ErrKindInvalidInput, "invalid flag", firstErr)
	}
	return nil
}

func keep(dst *error, err error) {
	if *dst == nil && err != nil {
		*dst = err
	}
}
