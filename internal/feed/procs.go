package feed

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"strconv"
	"time"

	"github.com/shirou/gopsutil/v3/process"
)

// ProcInfo is the snapshot of one process the feed shows.
type ProcInfo struct {
	PID     int32
	Name    string
	State   string
	CPU     float64
	RSS     uint64
	Started time.Time
}

// ProcessFeed lists running processes ordered by PID and sectioned by
// scheduler state.
type ProcessFeed struct {
	list func(ctx context.Context) ([]ProcInfo, error)
}

var _ Feed = (*ProcessFeed)(nil)

// NewProcessFeed returns a feed backed by the host's process table.
func NewProcessFeed() *ProcessFeed {
	return &ProcessFeed{list: listProcesses}
}

func (f *ProcessFeed) Name() string { return "processes" }

// Load snapshots the process table and returns [offset, offset+limit) of
// it. The table is re-read on every call, so pages may shift as processes
// come and go; the pager drops duplicates.
func (f *ProcessFeed) Load(ctx context.Context, offset, limit int) (Page, error) {
	procs, err := f.list(ctx)
	if err != nil {
		return Page{}, fmt.Errorf("list processes: %w", err)
	}
	slices.SortFunc(procs, func(a, b ProcInfo) int { return cmp.Compare(a.PID, b.PID) })

	if offset >= len(procs) {
		return Page{Done: true}, nil
	}
	end := min(offset+limit, len(procs))
	items := make([]Item, 0, end-offset)
	for _, p := range procs[offset:end] {
		items = append(items, Item{
			Section: p.State,
			ID:      strconv.Itoa(int(p.PID)),
			Title:   fmt.Sprintf("%6d %s", p.PID, p.Name),
			Detail:  fmt.Sprintf("cpu %.1f%% · rss %s", p.CPU, humanBytes(p.RSS)),
			Time:    p.Started,
		})
	}
	return Page{Items: items, Done: end == len(procs)}, nil
}

func listProcesses(ctx context.Context) ([]ProcInfo, error) {
	procs, err := process.ProcessesWithContext(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]ProcInfo, 0, len(procs))
	for _, p := range procs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		info := ProcInfo{PID: p.Pid, State: "unknown"}
		info.Name, _ = p.NameWithContext(ctx)
		if st, err := p.StatusWithContext(ctx); err == nil && len(st) > 0 {
			info.State = st[0]
		}
		info.CPU, _ = p.CPUPercentWithContext(ctx)
		if mem, err := p.MemoryInfoWithContext(ctx); err == nil && mem != nil {
			info.RSS = mem.RSS
		}
		if ms, err := p.CreateTimeWithContext(ctx); err == nil {
			info.Started = time.UnixMilli(ms)
		}
		out = append(out, info)
	}
	return out, nil
}

func humanBytes(n uint64) string {
	const unit = 1024
	if n < unit {
		return strconv.FormatUint(n, 10) + "B"
	}
	div, exp := uint64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f%cB", float64(n)/float64(div), "KMGTPE"[exp])
}
