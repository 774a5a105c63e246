package git

import "context"

// Service is the read-only slice of git the list feeds need.
// Feeds depend on this interface, never on exec.Command directly.
type Service interface {
	RepoRoot() string
	GitDir() string
	Head() (string, error)

	// Log returns up to limit commits reachable from HEAD, newest first,
	// after skipping the first skip commits.
	Log(ctx context.Context, skip, limit int) ([]Commit, error)
}
