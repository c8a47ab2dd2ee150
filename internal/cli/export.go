package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"reelcut/internal/config"
	"reelcut/internal/editor"
	"reelcut/internal/export"
	"reelcut/internal/export/state"
	"reelcut/internal/logx"
	"reelcut/internal/paths"
	"reelcut/internal/tui"
	"reelcut/pkg/cuesheet"
)

var (
	exportVideo      string
	exportImage      string
	exportSubtitles  string
	exportOut        string
	exportForce      bool
	exportDryRun     bool
	exportNoProgress bool
)

const exportRowKey = "export"

func newExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the composition without opening the editor",
		RunE:  runExport,
	}
	addInputFlags(cmd, &exportVideo, &exportImage, &exportSubtitles)
	cmd.Flags().StringVarP(&exportOut, "out", "o", "", "Output path (default: templated name in exports/)")
	cmd.Flags().BoolVar(&exportForce, "force", false, "Export even if the last export is up to date")
	cmd.Flags().BoolVar(&exportDryRun, "dry-run", false, "Report whether an export would run without running it")
	cmd.Flags().BoolVar(&exportNoProgress, "no-progress", false, "Disable interactive progress output")
	return cmd
}

// exportSummary is the JSON shape of an export run.
type exportSummary struct {
	Project        string   `json:"project"`
	Status         string   `json:"status"`
	Engine         string   `json:"engine"`
	Output         string   `json:"output,omitempty"`
	Sidecar        string   `json:"sidecar,omitempty"`
	Reason         string   `json:"reason,omitempty"`
	ElapsedMS      int64    `json:"elapsed_ms"`
	Scenes         int      `json:"scenes"`
	Subtitles      int      `json:"subtitles"`
	AudioTracks    int      `json:"audio_tracks"`
	SubtitleIssues []string `json:"subtitle_issues,omitempty"`
	Error          string   `json:"error,omitempty"`
}

func runExport(cmd *cobra.Command, _ []string) error {
	p, err := openProject()
	if err != nil {
		return err
	}
	defer p.Close()

	ctx := commandContext(cmd)
	outWriter := cmd.OutOrStdout()
	mode := tui.DetectMode(outWriter, exportNoProgress, outputJSON)
	logger := logx.WithComponent(p.logger, "export")

	store := editor.NewStore(storeOptions(p.cfg))
	in := inputs{video: exportVideo, image: exportImage, subtitles: exportSubtitles}.withDefaults(p.paths)

	var status func(string)
	var sw *tui.StatusWriter
	if mode == tui.ModeTUI {
		sw = tui.NewStatusWriter(cmd.ErrOrStderr())
		status = sw.Update
	}
	got, err := loadInputs(ctx, store, newIngester(p.cfg, p.logger), in, status)
	if sw != nil {
		sw.Stop()
	}
	if err != nil {
		return err
	}
	for _, issue := range got.Issues {
		logger.Warn("subtitle row skipped", slog.Int("line", issue.Line), slog.String("error", issue.Error()))
	}

	engine, err := export.New(p.cfg.Export)
	if err != nil {
		return err
	}

	req := export.Request{Snapshot: store.Snapshot(), Force: exportForce}
	if got.Video != nil {
		req.Video = got.Video.Path
		req.HasAudio = got.Video.Info.HasAudio
	}
	if exportOut != "" {
		out, err := filepath.Abs(exportOut)
		if err != nil {
			return fmt.Errorf("resolve output path: %w", err)
		}
		req.Output = out
	}

	if exportDryRun {
		settings := p.cfg.Export
		settings.Engine = engine.Name()
		return printExportDryRun(cmd, p.paths, req, settings)
	}

	svc := export.NewService(p.paths, p.cfg.Export, engine, logger)
	var res export.Result

	if mode == tui.ModeTUI {
		fmt.Fprintf(outWriter, "Project: %s\n", p.paths.Root)
		model := tui.NewProgressModel("Export", exportColumns).WithVerb("Exporting")
		model.AddRow(exportRowKey, []string{"pending", engine.Name(), "-", "-", ""})

		err := tui.RunWithWork(outWriter, model, func(send func(tea.Msg)) {
			reporter := tui.NewExportReporter(
				send,
				func(export.Job) string { return exportRowKey },
				func(job export.Job) map[string]string {
					return map[string]string{"STATUS": "rendering", "OUTPUT": p.paths.Rel(job.Output)}
				},
				func(r export.Result) map[string]string {
					return exportResultFields(p.paths, r)
				},
			)
			res = svc.Export(ctx, req, reporter)
		})
		if err != nil {
			return err
		}
	} else {
		res = svc.Export(ctx, req, nil)
	}

	summary := summarizeExport(p.paths, engine.Name(), req.Snapshot, got, res)
	switch mode {
	case tui.ModeJSON:
		if err := writeJSON(outWriter, summary); err != nil {
			return err
		}
	case tui.ModePlain:
		writeExportTable(outWriter, summary)
	default:
		printIssues(outWriter, got.Issues)
	}
	return res.Err
}

var exportColumns = []tui.Column{
	{Header: "STATUS", Width: 10},
	{Header: "ENGINE", Width: 10},
	{Header: "OUTPUT", Width: 40},
	{Header: "ELAPSED", Width: 8},
	{Header: "NOTE", Width: 30},
}

func exportResultFields(pp paths.ProjectPaths, res export.Result) map[string]string {
	fields := map[string]string{
		"STATUS":  exportStatus(res),
		"ELAPSED": "-",
		"NOTE":    res.Reason,
	}
	if res.Artifact.Path != "" {
		fields["OUTPUT"] = pp.Rel(res.Artifact.Path)
	}
	if res.Artifact.Elapsed > 0 {
		fields["ELAPSED"] = res.Artifact.Elapsed.Round(10 * time.Millisecond).String()
	}
	if res.Err != nil {
		fields["NOTE"] = res.Err.Error()
	}
	return fields
}

func exportStatus(res export.Result) string {
	switch {
	case res.Err != nil:
		return "error"
	case res.Skipped:
		return "skipped"
	default:
		return "exported"
	}
}

func summarizeExport(pp paths.ProjectPaths, engine string, snap editor.Snapshot, got loaded, res export.Result) exportSummary {
	s := exportSummary{
		Project:     pp.Root,
		Status:      exportStatus(res),
		Engine:      engine,
		Output:      res.Artifact.Path,
		Sidecar:     res.Artifact.Sidecar,
		Reason:      res.Reason,
		ElapsedMS:   res.Artifact.Elapsed.Milliseconds(),
		Scenes:      len(snap.Scenes),
		Subtitles:   len(snap.Subtitles),
		AudioTracks: len(snap.Audio),
	}
	if s.Output == "" {
		s.Output = res.Job.Output
	}
	for _, issue := range got.Issues {
		s.SubtitleIssues = append(s.SubtitleIssues, issue.Error())
	}
	if res.Err != nil {
		s.Error = res.Err.Error()
	}
	return s
}

func writeExportTable(w io.Writer, s exportSummary) {
	fmt.Fprintf(w, "Project: %s\n", s.Project)

	tw := tabwriter.NewWriter(w, 0, 2, 2, ' ', 0)
	fmt.Fprintln(tw, "STATUS\tENGINE\tSCENES\tSUBTITLES\tAUDIO\tOUTPUT\tNOTE")
	note := s.Reason
	if s.Error != "" {
		note = s.Error
	}
	output := "-"
	if s.Output != "" {
		output = relTo(s.Project, s.Output)
	}
	fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%d\t%s\t%s\n",
		s.Status, s.Engine, s.Scenes, s.Subtitles, s.AudioTracks, output, tui.NonEmptyOrDash(note))
	tw.Flush()

	if s.Sidecar != "" {
		fmt.Fprintf(w, "Subtitles: %s\n", relTo(s.Project, s.Sidecar))
	}
	for _, issue := range s.SubtitleIssues {
		fmt.Fprintf(w, "warning: %s\n", issue)
	}
}

func printIssues(w io.Writer, issues cuesheet.ValidationErrors) {
	for _, issue := range issues {
		fmt.Fprintf(w, "warning: %s\n", issue.Error())
	}
}

func printExportDryRun(cmd *cobra.Command, pp paths.ProjectPaths, req export.Request, settings config.ExportConfig) error {
	es, err := state.Load(pp.ExportStateFile)
	if err != nil {
		return fmt.Errorf("load export state: %w", err)
	}
	decision := state.Detect(es, state.Inputs{Video: req.Video, Snapshot: req.Snapshot, Settings: settings}, req.Force)

	prior := ""
	if decision.Prior != nil {
		prior = decision.Prior.Artifact
	}
	if outputJSON {
		return writeJSON(cmd.OutOrStdout(), struct {
			Action string `json:"action"`
			Reason string `json:"reason"`
			Prior  string `json:"prior,omitempty"`
		}{decision.Action, decision.Reason, prior})
	}

	tag := "EXPORT"
	if decision.Action == state.ActionSkip {
		tag = "SKIP"
	}
	fmt.Fprintf(cmd.OutOrStdout(), "DRY RUN: %s (%s)\n", tag, decision.Reason)
	if prior != "" {
		fmt.Fprintf(cmd.OutOrStdout(), "  last export: %s\n", pp.Rel(prior))
	}
	return nil
}

func writeJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}
	fmt.Fprintln(w, string(data))
	return nil
}

func relTo(root, path string) string {
	return paths.ProjectPaths{Root: root}.Rel(path)
}
