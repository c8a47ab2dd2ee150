package cli

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"reelcut/internal/editor"
	"reelcut/internal/export"
	"reelcut/internal/logx"
	"reelcut/internal/tui"
)

var (
	editVideo     string
	editImage     string
	editSubtitles string
)

func newEditCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "edit",
		Short: "Open the interactive editor",
		RunE:  runEdit,
	}
	addInputFlags(cmd, &editVideo, &editImage, &editSubtitles)
	return cmd
}

func addInputFlags(cmd *cobra.Command, video, image, subtitles *string) {
	cmd.Flags().StringVar(video, "video", "", "Video file to load (overrides media.video)")
	cmd.Flags().StringVar(image, "image", "", "Overlay image (overrides overlay.image)")
	cmd.Flags().StringVar(subtitles, "subtitles", "", "Subtitle sheet, .csv/.tsv or .srt (overrides subtitles.file)")
}

func runEdit(cmd *cobra.Command, _ []string) error {
	if !tui.IsTerminal(os.Stdout) {
		return errors.New("the editor needs an interactive terminal; use `reelcut export` for headless runs")
	}

	p, err := openProject()
	if err != nil {
		return err
	}
	defer p.Close()

	ctx := commandContext(cmd)
	logger := logx.WithComponent(p.logger, "edit")
	store := editor.NewStore(storeOptions(p.cfg))
	logDispatches(store, logx.WithComponent(p.logger, "editor"))
	ing := newIngester(p.cfg, p.logger)

	in := inputs{video: editVideo, image: editImage, subtitles: editSubtitles}.withDefaults(p.paths)
	status := tui.NewStatusWriter(cmd.ErrOrStderr())
	got, err := loadInputs(ctx, store, ing, in, status.Update)
	status.Stop()
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
	svc := export.NewService(p.paths, p.cfg.Export, engine, logx.WithComponent(p.logger, "export"))

	opts := tui.EditorOptions{
		Store:    store,
		Exports:  svc,
		Ingester: ing,
		Presets:  p.cfg.Subtitles.Presets,
		Logger:   logger,
		Context:  ctx,
	}
	if got.Video != nil {
		opts.Video = got.Video.Path
		opts.HasAudio = got.Video.Info.HasAudio
	}

	logger.Info("editor start",
		slog.String("project", p.paths.Root),
		slog.Int("subtitles", got.Subtitles),
		slog.Int("subtitle_issues", len(got.Issues)))
	if err := tui.RunEditor(opts); err != nil {
		return err
	}
	logger.Info("editor exit")
	if len(got.Issues) > 0 {
		fmt.Fprintf(cmd.ErrOrStderr(), "%d subtitle rows were skipped; see %s\n", len(got.Issues), p.paths.Rel(p.paths.LogsDir))
	}
	return nil
}
