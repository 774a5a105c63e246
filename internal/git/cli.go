package git

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"
)

// ErrNotARepo is returned when the path is not inside a Git repository.
var ErrNotARepo = errors.New("not a git repository")

// cmdTimeout is the maximum duration any single git command may run.
const cmdTimeout = 30 * time.Second

// CLIService implements Service by shelling out to the git CLI.
//   - GIT_OPTIONAL_LOCKS=0 and --no-optional-locks on every command
//   - Context-based timeouts on top of the caller's context
//   - Stdout/Stderr separated so stderr noise doesn't corrupt output
type CLIService struct {
	root   string // Absolute path to the repo root.
	gitDir string // Path to the .git directory.
}

// Compile-time check that CLIService implements Service.
var _ Service = (*CLIService)(nil)

// NewCLIService opens a Git repository at the given path.
func NewCLIService(path string) (*CLIService, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolving path: %w", err)
	}
	ctx := context.Background()
	topLevel, err := runGit(ctx, abs, "rev-parse", "--show-toplevel")
	if err != nil {
		return nil, ErrNotARepo
	}
	gitDir, err := runGit(ctx, abs, "rev-parse", "--git-dir")
	if err != nil {
		return nil, fmt.Errorf("finding .git directory: %w", err)
	}
	root := strings.TrimSpace(topLevel)
	gd := strings.TrimSpace(gitDir)
	if !filepath.IsAbs(gd) {
		gd = filepath.Join(root, gd)
	}
	return &CLIService{root: root, gitDir: gd}, nil
}

// RepoRoot returns the repository root path.
func (s *CLIService) RepoRoot() string { return s.root }

// GitDir returns the path to the .git directory.
func (s *CLIService) GitDir() string { return s.gitDir }

// Head returns the current branch, or the short hash when detached.
func (s *CLIService) Head() (string, error) {
	ctx := context.Background()
	ref, err := runGit(ctx, s.root, "symbolic-ref", "--short", "HEAD")
	if err != nil {
		hash, hashErr := runGit(ctx, s.root, "rev-parse", "--short", "HEAD")
		if hashErr != nil {
			return "", fmt.Errorf("getting HEAD: %w", err)
		}
		return strings.TrimSpace(hash), nil
	}
	return strings.TrimSpace(ref), nil
}

// Log returns one page of the commit log.
func (s *CLIService) Log(ctx context.Context, skip, limit int) ([]Commit, error) {
	out, err := runGit(ctx, s.root,
		"log", "--no-optional-locks",
		fmt.Sprintf("--skip=%d", skip),
		fmt.Sprintf("--max-count=%d", limit),
		LogFormatFlag(),
	)
	if err != nil {
		return nil, fmt.Errorf("getting log: %w", err)
	}
	return ParseLogOutput(out), nil
}

// readEnv is set on every git command. GIT_OPTIONAL_LOCKS=0 keeps readers
// from contending on locks in large repositories.
var readEnv = []string{"GIT_OPTIONAL_LOCKS=0"}

// runGit executes a read-only git command in dir with a timeout.
func runGit(ctx context.Context, dir string, args ...string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, cmdTimeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = dir
	cmd.Env = append(os.Environ(), readEnv...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		errMsg := strings.TrimSpace(stderr.String())
		if errMsg == "" {
			errMsg = strings.TrimSpace(stdout.String())
		}
		return "", fmt.Errorf("git %s: %s: %w", strings.Join(args, " "), errMsg, err)
	}
	return stdout.String(), nil
}
