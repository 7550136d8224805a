package main

import (
	"bytes"
	"os"
	"path/filepath"

	"github.com/koustreak/kyselygen/internal/codegen"
	"github.com/koustreak/kyselygen/internal/config"
	"github.com/koustreak/kyselygen/internal/errs"
	"github.com/koustreak/kyselygen/internal/filestore"
	"github.com/spf13/cobra"
)

var envGetter = os.Getenv

func (a *app) runGenerate(cmd *cobra.Command, _ []string) error {
	cfg, err := a.loadConfig(cmd)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	if a.verify && cfg.Out == "-" {
		return errs.New(errs.ErrKindInvalidInput, "--verify needs --out pointing at the file to check")
	}

	log := newLogger(cfg, a.stderr)
	ctx := log.WithContext(cmd.Context())

	out, err := a.generate(ctx, cfg, log)
	if err != nil {
		return err
	}

	if a.verify {
		return a.verifyFile(cfg.Out, out)
	}

	if err := a.write(cfg.Out, out.Source); err != nil {
		return err
	}
	a.printSummary(cfg.Out, out)

	if fsCfg := cfg.FilestoreConfig(); fsCfg != nil {
		return a.upload(cmd, fsCfg, out)
	}
	return nil
}

func (a *app) write(path, source string) error {
	if path == "-" {
		_, err := a.stdout.Write([]byte(source))
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return errs.Wrap(errs.ErrKindInvalidInput, "failed to create output directory", err)
		}
	}
	if err := os.WriteFile(path, []byte(source), 0o644); err != nil {
		return errs.Wrap(errs.ErrKindInvalidInput, "failed to write "+path, err)
	}
	return nil
}

func (a *app) verifyFile(path string, out *codegen.Output) error {
	current, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return errs.Wrap(errs.ErrKindInvalidInput, "failed to read "+path, err)
	}
	if err == nil && bytes.Equal(current, []byte(out.Source)) {
		a.printVerified(path)
		return nil
	}
	return errs.Wrap(errs.ErrKindInvalidInput, path+" does not match the database; run kysely-gen to regenerate", errOutOfDate)
}

func (a *app) upload(cmd *cobra.Command, cfg *filestore.Config, out *codegen.Output) error {
	ctx := cmd.Context()
	store, err := a.openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	res, err := filestore.Publish(ctx, store, cfg, []byte(out.Source))
	if err != nil {
		return err
	}
	a.printUpload(cfg, res)
	return nil
}

// configForServe is loadConfig plus the serve-only checks.
func (a *app) configForServe(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := a.loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
