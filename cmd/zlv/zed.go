package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
)

type zedTask struct {
	Label               string            `json:"label"`
	Command             string            `json:"command"`
	Args                []string          `json:"args,omitempty"`
	Env                 map[string]string `json:"env,omitempty"`
	Cwd                 string            `json:"cwd,omitempty"`
	UseNewTerminal      bool              `json:"use_new_terminal,omitempty"`
	AllowConcurrentRuns bool              `json:"allow_concurrent_runs,omitempty"`
	Reveal              string            `json:"reveal,omitempty"`
	Hide                string            `json:"hide,omitempty"`
	Shell               string            `json:"shell,omitempty"`
	ShowSummary         bool              `json:"show_summary,omitempty"`
	ShowCommand         bool              `json:"show_command,omitempty"`
}

const zedLabelPrefix = "zlv:"

func buildZedCmd() *cobra.Command {
	zedCmd := &cobra.Command{
		Use:   "zed",
		Short: "Manage Zed editor tasks for zlv",
		Long: `Manage global Zed tasks that open zlv in Zed's terminal.

Examples:
  zlv zed status
  zlv zed install
  zlv zed uninstall`,
	}

	zedCmd.AddCommand(&cobra.Command{
		Use:   "install",
		Short: "Install global Zed tasks for zlv",
		RunE: func(cmd *cobra.Command, _ []string) error {
			tasksPath, existing, err := loadZedTasks()
			if err != nil {
				return err
			}
			if err := writeZedTasks(tasksPath, mergeZedTasks(existing, defaultZedTasks())); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Installed zlv tasks at %s\n", tasksPath)
			return nil
		},
	})

	zedCmd.AddCommand(&cobra.Command{
		Use:   "uninstall",
		Short: "Remove global Zed tasks managed by zlv",
		RunE: func(cmd *cobra.Command, _ []string) error {
			tasksPath, existing, err := loadZedTasks()
			if err != nil {
				return err
			}
			if err := writeZedTasks(tasksPath, removeManagedZedTasks(existing)); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed zlv tasks from %s\n", tasksPath)
			return nil
		},
	})

	zedCmd.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "Show whether the zlv Zed tasks are installed",
		RunE: func(cmd *cobra.Command, _ []string) error {
			tasksPath, existing, err := loadZedTasks()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Zed tasks file: %s\n", tasksPath)
			var labels []string
			for _, t := range existing {
				if strings.HasPrefix(t.Label, zedLabelPrefix) {
					labels = append(labels, t.Label)
				}
			}
			if len(labels) == 0 {
				fmt.Fprintln(out, "zlv tasks: not installed")
				return nil
			}
			fmt.Fprintf(out, "zlv tasks: installed (%d)\n", len(labels))
			for _, label := range labels {
				fmt.Fprintf(out, "  - %s\n", label)
			}
			return nil
		},
	})

	return zedCmd
}

func loadZedTasks() (string, []zedTask, error) {
	cfgDir, err := zedConfigDir()
	if err != nil {
		return "", nil, err
	}
	path := filepath.Join(cfgDir, "tasks.json")
	tasks, err := readZedTasks(path)
	return path, tasks, err
}

func zedConfigDir() (string, error) {
	if override := strings.TrimSpace(os.Getenv("ZLV_ZED_CONFIG_DIR")); override != "" {
		return override, nil
	}
	if xdg := strings.TrimSpace(os.Getenv("XDG_CONFIG_HOME")); xdg != "" {
		return filepath.Join(xdg, "zed"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve user home dir: %w", err)
	}
	return filepath.Join(home, ".config", "zed"), nil
}

func readZedTasks(path string) ([]zedTask, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read zed tasks file %s: %w", path, err)
	}

	var tasks []zedTask
	if err := json.Unmarshal(data, &tasks); err != nil {
		return nil, fmt.Errorf("parse zed tasks file %s: %w", path, err)
	}
	return tasks, nil
}

func writeZedTasks(path string, tasks []zedTask) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create zed config dir: %w", err)
	}
	data, err := json.MarshalIndent(tasks, "", "  ")
	if err != nil {
		return fmt.Errorf("serialize zed tasks: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write zed tasks file %s: %w", path, err)
	}
	return nil
}

// mergeZedTasks replaces every managed task and keeps the user's own.
func mergeZedTasks(existing, managed []zedTask) []zedTask {
	return append(removeManagedZedTasks(existing), managed...)
}

func removeManagedZedTasks(tasks []zedTask) []zedTask {
	out := make([]zedTask, 0, len(tasks))
	for _, t := range tasks {
		if !strings.HasPrefix(t.Label, zedLabelPrefix) {
			out = append(out, t)
		}
	}
	return out
}

func defaultZedTasks() []zedTask {
	task := func(label string, args ...string) zedTask {
		return zedTask{
			Label:          label,
			Command:        "zlv",
			Args:           args,
			Cwd:            "$ZED_WORKTREE_ROOT",
			UseNewTerminal: true,
			Reveal:         "always",
			Hide:           "never",
			Shell:          "system",
			ShowCommand:    true,
		}
	}
	return []zedTask{
		task("zlv: git log (current worktree)", "--path", "$ZED_WORKTREE_ROOT"),
		task("zlv: processes", "--source", "procs"),
		task("zlv: simulate", "simulate"),
	}
}
