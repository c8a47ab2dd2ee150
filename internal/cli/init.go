package cli

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"reelcut/internal/config"
	"reelcut/internal/logx"
	"reelcut/internal/paths"
)

const subtitlesSheet = "start,end,text\n" +
	"0,2,Welcome\n" +
	"2.5,5,\"Edit me in subtitles.csv, or press a in the editor\"\n"

func newInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init [directory]",
		Short: "Initialize a reelcut project",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runInit,
	}
}

func resolveInitDir(projectFlag string, args []string) (string, error) {
	if projectFlag != "" {
		return projectFlag, nil
	}
	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("get working directory: %w", err)
	}
	if len(args) > 0 {
		if args[0] == "." {
			return cwd, nil
		}
		return filepath.Join(cwd, args[0]), nil
	}
	return nextAvailableDir(cwd)
}

func nextAvailableDir(base string) (string, error) {
	for i := 1; ; i++ {
		candidate := filepath.Join(base, fmt.Sprintf("reelcut-%d", i))
		exists, err := paths.DirExists(candidate)
		if err != nil {
			return "", err
		}
		if !exists {
			return candidate, nil
		}
	}
}

func runInit(cmd *cobra.Command, args []string) error {
	dir, err := resolveInitDir(projectDir, args)
	if err != nil {
		return err
	}
	pp, err := paths.Resolve(dir)
	if err != nil {
		return err
	}
	if err := pp.EnsureRoot(); err != nil {
		return err
	}
	if err := pp.EnsureMetaDirs(); err != nil {
		return err
	}

	cfg := config.Default()
	cfg.ApplyDefaults()
	logger, closer, err := logx.New(pp, cfg.Logging)
	if err != nil {
		return err
	}
	defer closer.Close()
	logger = logx.WithComponent(logger, "init")
	logger.Info("init", slog.String("project", pp.Root))

	var created []string
	if err := ensureFile(filepath.Join(pp.Root, "subtitles.csv"), []byte(subtitlesSheet), &created, logger); err != nil {
		return err
	}

	cfg.Subtitles.File = "subtitles.csv"
	data, err := cfg.Marshal()
	if err != nil {
		return err
	}
	if err := ensureFile(pp.ConfigFile, data, &created, logger); err != nil {
		return err
	}

	if len(created) == 0 {
		cmd.Printf("Project already initialized at %s\n", pp.Root)
		return nil
	}
	cmd.Printf("Initialized project at %s\n", pp.Root)
	for _, entry := range created {
		cmd.Printf("  created %s\n", pp.Rel(entry))
	}
	return nil
}

// ensureFile writes data to path unless something is already there.
func ensureFile(path string, data []byte, created *[]string, logger *slog.Logger) error {
	exists, err := paths.FileExists(path)
	if err != nil {
		return fmt.Errorf("check %s: %w", filepath.Base(path), err)
	}
	if exists {
		logger.Debug("exists", slog.String("path", path))
		return nil
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", filepath.Base(path), err)
	}
	logger.Info("created", slog.String("path", path))
	*created = append(*created, path)
	return nil
}
