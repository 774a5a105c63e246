package git

import "time"

// RefType classifies a Git reference.
type RefType int

// Git reference types.
const (
	RefBranch RefType = iota
	RefRemoteBranch
	RefTag
	RefHead
)

// Ref is a Git reference (branch, tag, HEAD, etc.).
type Ref struct {
	Name   string
	Type   RefType
	Remote string
}

// Commit represents a single Git commit.
type Commit struct {
	Hash      string
	ShortHash string
	Author    string
	Date      time.Time
	RelDate   string
	Subject   string
	Refs      []Ref
}

// Day returns the commit date truncated to the local calendar day.
func (c Commit) Day() time.Time {
	y, m, d := c.Date.Local().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.Local)
}

// RefNames returns the decoration names, HEAD first.
func (c Commit) RefNames() []string {
	names := make([]string, 0, len(c.Refs))
	for _, r := range c.Refs {
		switch r.Type {
		case RefHead:
			names = append([]string{"HEAD→" + r.Name}, names...)
		case RefTag:
			names = append(names, "tag:"+r.Name)
		case RefRemoteBranch:
			names = append(names, r.Remote+"/"+r.Name)
		default:
			names = append(names, r.Name)
		}
	}
	return names
}
