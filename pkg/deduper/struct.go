package deduper

import (
	"os"

	"github.com/aliakseis/HandleDuplicateFiles/pkg/fileid"
)

// Action describes the outcome recorded for one member of a duplicate group.
type Action int

const (
	// ActionMaster marks the file the rest of the group is linked to.
	ActionMaster Action = iota + 1
	// ActionAlreadyLinked marks a member sharing the master's identity.
	ActionAlreadyLinked
	// ActionRelinked marks a member replaced with a hard link.
	ActionRelinked
	// ActionSkipped marks a member left untouched after a recoverable failure.
	ActionSkipped
	// ActionLost marks a member deleted whose replacement link failed, its
	// path no longer refers to anything.
	ActionLost
)

func (a Action) String() string {
	switch a {
	case ActionMaster:
		return "master"
	case ActionAlreadyLinked:
		return "already-linked"
	case ActionRelinked:
		return "relinked"
	case ActionSkipped:
		return "skipped"
	case ActionLost:
		return "lost"
	}

	return "unknown"
}

// MemberResult records what happened to a single group member.
type MemberResult struct {
	Path   string
	Action Action
	Err    error
}

// Result summarizes one group's deduplication.
type Result struct {
	Master  string
	Members []MemberResult

	Relinked      int
	AlreadyLinked int
	Skipped       int
	Lost          int

	// ReclaimedBytes counts storage freed by relinking, one file size per
	// relinked member. In dry-run mode it reports what would be freed.
	ReclaimedBytes uint64
}

// LinkFS is the filesystem surface deduplication runs against: identity
// resolution, deletion and the hard link primitive.
type LinkFS interface {
	Identity(path string) (fileid.FileID, uint64, error)
	Remove(path string) error
	Link(oldname, newname string) error
}

// osLinkFS is the real filesystem.
type osLinkFS struct{}

func (osLinkFS) Identity(path string) (fileid.FileID, uint64, error) {
	return fileid.Resolve(path)
}

func (osLinkFS) Remove(path string) error {
	return os.Remove(path)
}

func (osLinkFS) Link(oldname, newname string) error {
	return os.Link(oldname, newname)
}
