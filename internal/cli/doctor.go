package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"reelcut/internal/config"
	"reelcut/internal/export"
	"reelcut/internal/export/state"
	"reelcut/internal/media"
	"reelcut/internal/paths"
	"reelcut/internal/tools"
)

func newDoctorCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check project health",
		RunE:  runDoctor,
	}
}

type healthCheck struct {
	Name    string `json:"name"`
	Status  string `json:"status"` // "ok", "warning", "error"
	Summary string `json:"summary"`
}

func runDoctor(cmd *cobra.Command, _ []string) error {
	pp, err := paths.Resolve(projectDir)
	if err != nil {
		return err
	}
	exists, err := paths.DirExists(pp.Root)
	if err != nil {
		return fmt.Errorf("stat project dir: %w", err)
	}
	if !exists {
		return fmt.Errorf("project directory does not exist: %s", pp.Root)
	}

	var checks []healthCheck

	cfg, cfgErr := config.Load(pp.ConfigFile)
	engine := config.EngineSimulated
	if cfgErr == nil {
		engine = cfg.Export.Engine
	}
	checks = append(checks, checkTools(tools.Detect(commandContext(cmd)), engine))
	checks = append(checks, checkConfig(pp, cfg, cfgErr))

	if cfgErr != nil {
		return writeDoctorResult(cmd, pp.Root, checks)
	}

	pp = paths.ApplyConfig(pp, cfg)
	checks = append(checks, checkInputs(pp))
	checks = append(checks, checkExports(pp))

	return writeDoctorResult(cmd, pp.Root, checks)
}

// checkTools treats missing binaries as errors only when the configured
// engine needs them.
func checkTools(statuses []tools.Status, engine string) healthCheck {
	missing := tools.Missing(statuses)
	if len(missing) == 0 {
		var info []string
		for _, st := range statuses {
			info = append(info, st.Tool+" "+st.Version)
		}
		return healthCheck{Name: "Tools", Status: "ok", Summary: strings.Join(info, ", ")}
	}

	level := "warning"
	var notes []string
	for _, st := range missing {
		if st.Tool == "ffmpeg" && engine == config.EngineFFmpeg {
			level = "error"
		}
		notes = append(notes, fmt.Sprintf("%s: %s (needed for %s)", st.Tool, st.Error, st.Needed))
	}
	return healthCheck{Name: "Tools", Status: level, Summary: strings.Join(notes, "; ")}
}

func checkConfig(pp paths.ProjectPaths, cfg config.Config, cfgErr error) healthCheck {
	if cfgErr != nil {
		return healthCheck{Name: "Config", Status: "error", Summary: cfgErr.Error()}
	}

	validations := cfg.ValidateStrict(pp.Root, export.ValidOutputTokens())
	var warnings, errors int
	for _, v := range validations {
		switch v.Level {
		case "warning":
			warnings++
		case "error":
			errors++
		}
	}

	summary := fmt.Sprintf("%s engine, %d subtitle presets", cfg.Export.Engine, len(cfg.Subtitles.Presets))
	if errors > 0 {
		return healthCheck{Name: "Config", Status: "error", Summary: fmt.Sprintf("%s; %d errors", summary, errors)}
	}
	if warnings > 0 {
		return healthCheck{Name: "Config", Status: "warning", Summary: fmt.Sprintf("%s; %d warnings", summary, warnings)}
	}
	return healthCheck{Name: "Config", Status: "ok", Summary: summary}
}

func checkInputs(pp paths.ProjectPaths) healthCheck {
	type input struct {
		label string
		path  string
		want  media.Kind
	}
	var found, problems []string
	for _, in := range []input{
		{"video", pp.VideoFile, media.KindVideo},
		{"image", pp.ImageFile, media.KindImage},
		{"subtitles", pp.SubtitlesFile, ""},
	} {
		if in.path == "" {
			continue
		}
		if _, err := os.Stat(in.path); err != nil {
			problems = append(problems, fmt.Sprintf("%s %s missing", in.label, pp.Rel(in.path)))
			continue
		}
		if in.want != "" && media.Classify(in.path) != in.want {
			problems = append(problems, fmt.Sprintf("%s %s is not %s", in.label, pp.Rel(in.path), in.want))
			continue
		}
		found = append(found, in.label)
	}

	if len(problems) > 0 {
		return healthCheck{Name: "Inputs", Status: "warning", Summary: strings.Join(problems, ", ")}
	}
	if len(found) == 0 {
		return healthCheck{Name: "Inputs", Status: "ok", Summary: "none configured"}
	}
	return healthCheck{Name: "Inputs", Status: "ok", Summary: strings.Join(found, ", ")}
}

func checkExports(pp paths.ProjectPaths) healthCheck {
	es, err := state.Load(pp.ExportStateFile)
	if err != nil {
		return healthCheck{Name: "Exports", Status: "warning", Summary: "could not load export state"}
	}
	if len(es.Exports) == 0 {
		return healthCheck{Name: "Exports", Status: "ok", Summary: "nothing exported yet"}
	}

	var present, missing int
	for _, entry := range es.Exports {
		if _, err := os.Stat(entry.Artifact); err == nil {
			present++
		} else {
			missing++
		}
	}
	if missing > 0 {
		return healthCheck{Name: "Exports", Status: "warning", Summary: fmt.Sprintf("%d recorded, %d artifacts missing", present+missing, missing)}
	}
	return healthCheck{Name: "Exports", Status: "ok", Summary: fmt.Sprintf("%d recorded", present)}
}

func writeDoctorResult(cmd *cobra.Command, projectRoot string, checks []healthCheck) error {
	if outputJSON {
		return writeJSON(cmd.OutOrStdout(), checks)
	}

	bold := lipgloss.NewStyle().Bold(true).Inline(true)
	green := lipgloss.NewStyle().Foreground(lipgloss.Color("2")).Inline(true)
	yellow := lipgloss.NewStyle().Foreground(lipgloss.Color("3")).Inline(true)
	red := lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Inline(true)

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, bold.Render("PROJECT HEALTH:")+" "+projectRoot)

	for _, c := range checks {
		var statusStr string
		switch c.Status {
		case "ok":
			statusStr = green.Render("OK")
		case "warning":
			statusStr = yellow.Render("WARN")
		case "error":
			statusStr = red.Render("ERROR")
		}
		fmt.Fprintf(out, "  %-10s %s    %s\n", c.Name+":", statusStr, c.Summary)
	}
	return nil
}
