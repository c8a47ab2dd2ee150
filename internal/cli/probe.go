package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strconv"
	"text/tabwriter"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"reelcut/internal/config"
	"reelcut/internal/logx"
	"reelcut/internal/media"
	"reelcut/internal/paths"
	"reelcut/internal/tui"
)

var (
	probeNoProgress  bool
	probeConcurrency int
)

func newProbeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "probe <file>...",
		Short: "Inspect media files the editor can load",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runProbe,
	}
	cmd.Flags().BoolVar(&probeNoProgress, "no-progress", false, "Disable interactive progress output")
	cmd.Flags().IntVar(&probeConcurrency, "concurrency", 4, "Files probed at once")
	return cmd
}

// probeResult is one probed file.
type probeResult struct {
	Path   string        `json:"path"`
	Source *media.Source `json:"source,omitempty"`
	Error  string        `json:"error,omitempty"`
}

var probeColumns = []tui.Column{
	{Header: "FILE", Width: 28},
	{Header: "KIND", Width: 6},
	{Header: "STATUS", Width: 9},
	{Header: "DURATION", Width: 9},
	{Header: "SIZE", Width: 10},
	{Header: "CODEC", Width: 8},
	{Header: "NOTE", Width: 30},
}

func runProbe(cmd *cobra.Command, args []string) error {
	cfg := config.Default()
	cfg.ApplyDefaults()

	logger, closer := globalLogger(cfg.Logging)
	defer closer.Close()
	ing := newIngester(cfg, logger)

	ctx := commandContext(cmd)
	outWriter := cmd.OutOrStdout()
	mode := tui.DetectMode(outWriter, probeNoProgress, outputJSON)

	var results []probeResult
	if mode == tui.ModeTUI {
		model := tui.NewProgressModel("Probe", probeColumns).WithVerb("Probing")
		for _, path := range args {
			model.AddRow(path, []string{filepath.Base(path), string(media.Classify(path)), "pending"})
		}
		err := tui.RunWithWork(outWriter, model, func(send func(tea.Msg)) {
			results = probeAll(ctx, ing, args, func(path string) {
				send(tui.RowUpdateMsg{Key: path, Fields: map[string]string{"STATUS": "probing"}})
			}, func(r probeResult) {
				send(tui.RowUpdateMsg{Key: r.Path, Fields: probeFields(r)})
			})
		})
		if err != nil {
			return err
		}
	} else {
		results = probeAll(ctx, ing, args, nil, nil)
	}

	failed := 0
	for _, r := range results {
		if r.Error != "" {
			failed++
		}
	}

	switch mode {
	case tui.ModeJSON:
		if err := writeJSON(outWriter, results); err != nil {
			return err
		}
	case tui.ModePlain:
		writeProbeTable(outWriter, results)
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d files could not be loaded", failed, len(results))
	}
	return nil
}

// probeAll ingests paths concurrently. Results keep argument order; start and
// done may be nil.
func probeAll(ctx context.Context, ing media.Ingester, paths []string, start func(string), done func(probeResult)) []probeResult {
	results := make([]probeResult, len(paths))
	limit := probeConcurrency
	if limit < 1 {
		limit = 1
	}

	var g errgroup.Group
	g.SetLimit(limit)
	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			if start != nil {
				start(path)
			}
			r := probeResult{Path: path}
			src, err := ing.Ingest(ctx, path)
			if err != nil {
				r.Error = err.Error()
			} else {
				r.Source = &src
			}
			results[i] = r
			if done != nil {
				done(r)
			}
			return nil
		})
	}
	g.Wait()
	return results
}

func probeFields(r probeResult) map[string]string {
	if r.Source == nil {
		return map[string]string{"STATUS": "error", "NOTE": r.Error}
	}
	src := r.Source
	fields := map[string]string{
		"KIND":     string(src.Kind),
		"STATUS":   "ok",
		"DURATION": "-",
		"SIZE":     "-",
		"CODEC":    tui.NonEmptyOrDash(src.Info.Codec),
		"NOTE":     src.Warning,
	}
	if src.Kind != media.KindImage {
		fields["DURATION"] = strconv.FormatFloat(src.Info.Duration, 'f', 2, 64) + "s"
	}
	if src.Info.Width > 0 && src.Info.Height > 0 {
		fields["SIZE"] = fmt.Sprintf("%dx%d", src.Info.Width, src.Info.Height)
	}
	if !src.Probed && src.Kind != media.KindImage {
		fields["STATUS"] = "fallback"
	}
	return fields
}

func writeProbeTable(w io.Writer, results []probeResult) {
	tw := tabwriter.NewWriter(w, 0, 2, 2, ' ', 0)
	fmt.Fprintln(tw, "FILE\tKIND\tSTATUS\tDURATION\tSIZE\tCODEC\tNOTE")
	for _, r := range results {
		f := probeFields(r)
		kind := f["KIND"]
		if kind == "" {
			kind = string(media.Classify(r.Path))
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			filepath.Base(r.Path),
			kind,
			f["STATUS"],
			tui.NonEmptyOrDash(f["DURATION"]),
			tui.NonEmptyOrDash(f["SIZE"]),
			tui.NonEmptyOrDash(f["CODEC"]),
			f["NOTE"],
		)
	}
	tw.Flush()
}

// globalLogger logs to ~/.reelcut/logs for commands that run outside a
// project. Logging is dropped when that directory is unavailable.
func globalLogger(opts config.LoggingConfig) (*slog.Logger, io.Closer) {
	dir, err := paths.GlobalLogsDir()
	if err == nil {
		if logger, closer, err := logx.NewInDir(dir, opts); err == nil {
			return logx.WithComponent(logger, "probe"), closer
		}
	}
	return logx.Discard(), io.NopCloser(nil)
}
