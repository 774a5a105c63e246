package git

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ── Log parsing ─────────────────────────────────────────────────────────────

const (
	logFormat    = "%H%x00%h%x00%an%x00%at%x00%ar%x00%s%x00%D"
	logSeparator = "%x01"
	logFields    = 7
)

// LogFormatFlag returns the --format flag for git log.
func LogFormatFlag() string {
	return fmt.Sprintf("--format=%s%s", logFormat, logSeparator)
}

// ParseLogOutput parses the raw output of git log using our custom format.
// Entries are scanned with IndexByte rather than split up front, so a large
// page does not allocate one big []string.
func ParseLogOutput(out string) []Commit {
	if len(out) == 0 {
		return nil
	}
	commits := make([]Commit, 0, max(len(out)/120, 8))

	for len(out) > 0 {
		idx := strings.IndexByte(out, '\x01')
		var entry string
		if idx < 0 {
			entry, out = out, ""
		} else {
			entry, out = out[:idx], out[idx+1:]
		}
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		if c, ok := parseCommitEntry(entry); ok {
			commits = append(commits, c)
		}
	}
	return commits
}

func parseCommitEntry(entry string) (Commit, bool) {
	parts := strings.SplitN(entry, "\x00", logFields)
	if len(parts) < logFields {
		return Commit{}, false
	}
	ts, err := strconv.ParseInt(strings.TrimSpace(parts[3]), 10, 64)
	if err != nil {
		return Commit{}, false
	}
	c := Commit{
		Hash:      strings.TrimSpace(parts[0]),
		ShortHash: strings.TrimSpace(parts[1]),
		Author:    strings.TrimSpace(parts[2]),
		Date:      time.Unix(ts, 0),
		RelDate:   strings.TrimSpace(parts[4]),
		Subject:   strings.TrimSpace(parts[5]),
	}
	if r := strings.TrimSpace(parts[6]); r != "" {
		c.Refs = ParseRefs(r)
	}
	return c, true
}

// ParseRefs parses the %D decoration string into typed Ref values.
func ParseRefs(raw string) []Ref {
	refs := make([]Ref, 0, 4)
	for _, r := range strings.Split(raw, ", ") {
		r = strings.TrimSpace(r)
		if r == "" {
			continue
		}
		ref := Ref{Name: r}
		switch {
		case r == "HEAD":
			ref.Type = RefHead
		case strings.HasPrefix(r, "HEAD -> "):
			ref.Name = strings.TrimPrefix(r, "HEAD -> ")
			ref.Type = RefHead
		case strings.HasPrefix(r, "tag: "):
			ref.Name = strings.TrimPrefix(r, "tag: ")
			ref.Type = RefTag
		case strings.Contains(r, "/"):
			ref.Type = RefRemoteBranch
			ref.Remote, ref.Name, _ = strings.Cut(r, "/")
		default:
			ref.Type = RefBranch
		}
		refs = append(refs, ref)
	}
	return refs
}
