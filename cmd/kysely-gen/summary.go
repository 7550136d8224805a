package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/koustreak/kyselygen/internal/codegen"
	"github.com/koustreak/kyselygen/internal/filestore"
)

// styles renders for the stderr writer so colors are dropped when stderr
// is not a terminal.
type styles struct {
	success lipgloss.Style
	warning lipgloss.Style
	err     lipgloss.Style
	dim     lipgloss.Style
	panel   lipgloss.Style
}

func (a *app) styles() styles {
	r := lipgloss.NewRenderer(a.stderr)
	return styles{
		success: r.NewStyle().Foreground(lipgloss.Color("10")).Bold(true),
		warning: r.NewStyle().Foreground(lipgloss.Color("11")).Bold(true),
		err:     r.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
		dim:     r.NewStyle().Foreground(lipgloss.Color("8")),
		panel: r.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("11")).
			Padding(0, 1),
	}
}

func (a *app) printSummary(path string, out *codegen.Output) {
	s := a.styles()
	target := path
	if path == "-" {
		target = "stdout"
	}
	fmt.Fprintf(a.stderr, "%s %s %s\n",
		s.success.Render("✓"),
		fmt.Sprintf("%d tables, %d enums", out.Tables, out.Enums),
		s.dim.Render("→ "+target),
	)

	if len(out.Warnings) == 0 {
		return
	}
	lines := make([]string, 0, len(out.Warnings)+1)
	lines = append(lines, s.warning.Render(fmt.Sprintf("%d unmapped column types emitted as unknown", len(out.Warnings))))
	for _, w := range out.Warnings {
		lines = append(lines, "  • "+w.PgType)
	}
	fmt.Fprintln(a.stderr, s.panel.Render(strings.Join(lines, "\n")))
}

func (a *app) printVerified(path string) {
	s := a.styles()
	fmt.Fprintf(a.stderr, "%s %s is up to date\n", s.success.Render("✓"), path)
}

func (a *app) printUpload(cfg *filestore.Config, res *filestore.PublishResult) {
	s := a.styles()
	location := cfg.Bucket + "/" + cfg.Key
	if res.Uploaded {
		fmt.Fprintf(a.stderr, "%s uploaded %s\n", s.success.Render("✓"), location)
	} else {
		fmt.Fprintf(a.stderr, "%s %s unchanged, upload skipped\n", s.dim.Render("•"), location)
	}
	if res.URL != "" {
		fmt.Fprintf(a.stderr, "  %s %s\n", s.dim.Render("download:"), res.URL)
	}
}

func (a *app) printError(err error) {
	s := a.styles()
	fmt.Fprintf(a.stderr, "%s %v\n", s.err.Render("error:"), err)
}
