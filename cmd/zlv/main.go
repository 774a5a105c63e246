package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"runtime"
	"runtime/debug"

	"github.com/Akashdeep-Patra/zed-list-view/internal/app"
	"github.com/Akashdeep-Patra/zed-list-view/internal/common"
	"github.com/Akashdeep-Patra/zed-list-view/internal/config"
	"github.com/Akashdeep-Patra/zed-list-view/internal/feed"
	"github.com/Akashdeep-Patra/zed-list-view/internal/git"
	"github.com/Akashdeep-Patra/zed-list-view/internal/logging"
	"github.com/Akashdeep-Patra/zed-list-view/internal/watcher"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// Build-time variables injected via ldflags.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func init() {
	// A TUI spends most of its time waiting on input, git subprocesses and
	// fsnotify; two OS threads cover render and message dispatch. An
	// explicit GOMAXPROCS wins.
	if os.Getenv("GOMAXPROCS") == "" {
		runtime.GOMAXPROCS(min(runtime.NumCPU(), 2))
	}

	// Keep RSS low when several instances share a machine.
	debug.SetMemoryLimit(50 * 1024 * 1024) // 50 MiB
}

func main() {
	rootCmd := buildRootCmd()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "zlv:", err)
		os.Exit(1)
	}
}

func buildRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "zlv",
		Short: "A windowed list viewer for the terminal",
		Long: `zlv shows long sectioned lists in the terminal and only materializes
the rows near the viewport. More rows are paged in as you scroll, and the
next page of the feed is fetched when the end of the list comes close.

Feeds:
  git    commits reachable from HEAD, grouped by day (default)
  procs  running processes, grouped by state`,
		RunE:          runApp,
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       version,
	}

	rootCmd.SetVersionTemplate(fmt.Sprintf(
		"zlv %s\n  commit:  %s\n  built:   %s\n  go:      %s\n  os/arch: %s/%s\n",
		version, commit, date, runtime.Version(), runtime.GOOS, runtime.GOARCH,
	))

	rootCmd.AddCommand(buildVersionCmd())
	rootCmd.AddCommand(buildCompletionCmd())
	rootCmd.AddCommand(buildSimulateCmd())
	rootCmd.AddCommand(buildZedCmd())

	rootCmd.Flags().StringP("path", "p", ".", "Path to the git repository")
	rootCmd.Flags().String("source", config.SourceGit, "Feed to show: git or procs")
	rootCmd.PersistentFlags().String("config", "", "Config file (default ~/.config/zlv/config.yaml)")

	return rootCmd
}

// buildVersionCmd creates the `zlv version` subcommand supporting --json.
func buildVersionCmd() *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		RunE: func(cmd *cobra.Command, _ []string) error {
			info := map[string]string{
				"version": version,
				"commit":  commit,
				"date":    date,
				"go":      runtime.Version(),
				"os":      runtime.GOOS,
				"arch":    runtime.GOARCH,
			}
			out := cmd.OutOrStdout()
			if jsonOutput {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(info)
			}
			fmt.Fprintf(out, "zlv %s\n", version)
			fmt.Fprintf(out, "  commit:  %s\n", commit)
			fmt.Fprintf(out, "  built:   %s\n", date)
			fmt.Fprintf(out, "  go:      %s\n", runtime.Version())
			fmt.Fprintf(out, "  os/arch: %s/%s\n", runtime.GOOS, runtime.GOARCH)
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output version info as JSON")

	return cmd
}

// buildCompletionCmd creates the `zlv completion` subcommand for shell completions.
func buildCompletionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for zlv.

Examples:
  # Bash (add to ~/.bashrc)
  zlv completion bash > /etc/bash_completion.d/zlv

  # Zsh (add to ~/.zshrc before compinit)
  zlv completion zsh > "${fpath[1]}/_zlv"

  # Fish
  zlv completion fish > ~/.config/fish/completions/zlv.fish

  # PowerShell
  zlv completion powershell > zlv.ps1`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletion(out)
			case "zsh":
				return cmd.Root().GenZshCompletion(out)
			case "fish":
				return cmd.Root().GenFishCompletion(out, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(out)
			default:
				return fmt.Errorf("unsupported shell: %s", args[0])
			}
		},
	}

	return cmd
}

// loadConfig reads the config file and applies the --source flag.
func loadConfig(cmd *cobra.Command) (*config.Config, string, error) {
	cfgPath, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, "", fmt.Errorf("loading config: %w", err)
	}
	if f := cmd.Flags().Lookup("source"); f != nil && f.Changed {
		cfg.Source = f.Value.String()
		if err := cfg.Validate(); err != nil {
			return nil, "", err
		}
	}
	return cfg, cfgPath, nil
}

func runApp(cmd *cobra.Command, _ []string) error {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return errors.New("stdout is not a terminal (try `zlv simulate` for headless output)")
	}

	cfg, cfgPath, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if err := logging.SetLevel(cfg.Log.Level); err != nil {
		return err
	}
	log, closeLog, err := logging.Setup(cfg.Log.File)
	if err != nil {
		return err
	}
	defer closeLog()

	var (
		f   feed.Feed
		svc git.Service
	)
	switch cfg.Source {
	case config.SourceProcs:
		f = feed.NewProcessFeed()
	default:
		repoPath, _ := cmd.Flags().GetString("path")
		cliSvc, err := git.NewCLIService(repoPath)
		if err != nil {
			return fmt.Errorf("opening repository: %w", err)
		}
		// One refresh cycle asks for HEAD and the loaded pages again; the
		// TTL cache folds those into one git call each.
		svc = git.NewCachedService(cliSvc, cfg.Git.CacheTTL)
		f = feed.NewGitLogFeed(svc)
	}
	log.Info("starting", "version", version, "source", cfg.Source)

	model, err := app.New(f, svc, cfg, log)
	if err != nil {
		return err
	}
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion())

	// Only .git internals are watched, so this stays cheap in large repos.
	if svc != nil && cfg.Watch.Enabled {
		w, err := watcher.New(svc.GitDir(), cfg.Watch.Debounce, log)
		if err != nil {
			log.Warn("watcher disabled", "err", err)
		} else {
			defer w.Close()
			go func() {
				for range w.Events() {
					p.Send(common.RefreshMsg{})
				}
			}()
		}
	}

	err = config.Watch(cfgPath, func(c *config.Config, err error) {
		p.Send(app.ConfigChangedMsg{Config: c, Err: err})
	})
	if err != nil && !errors.Is(err, config.ErrNoConfigFile) {
		log.Warn("config reload disabled", "err", err)
	}

	_, err = p.Run()
	return err
}
