package deduper

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/aliakseis/HandleDuplicateFiles/pkg/comparer"
	"github.com/aliakseis/HandleDuplicateFiles/pkg/fileid"
	"github.com/aliakseis/HandleDuplicateFiles/pkg/logger"
)

// Deduper replaces confirmed duplicate files with hard links to their group
// master.
type Deduper struct {
	log    *logrus.Entry
	fs     LinkFS
	dryRun bool
}

func New(dryRun bool) *Deduper {
	return NewWithFS(osLinkFS{}, dryRun)
}

// NewWithFS builds a deduper on a caller-supplied filesystem.
func NewWithFS(fs LinkFS, dryRun bool) *Deduper {
	return &Deduper{
		log:    logger.GetLogger("deduper"),
		fs:     fs,
		dryRun: dryRun,
	}
}

// Deduplicate relinks every member of group to its master, the group's first
// file. Member-level failures are logged and skipped so the rest of the group
// still processes. An error comes back only when the master's own identity
// cannot be resolved, in which case no member has been touched.
func (d *Deduper) Deduplicate(group comparer.Group) (*Result, error) {
	if len(group.Files) < 2 {
		d.log.Warn("Group has fewer than two files, nothing to deduplicate")
		return &Result{}, nil
	}

	master := group.Files[0]

	masterID, _, err := d.fs.Identity(master)
	if err != nil {
		return nil, fmt.Errorf("resolve master identity %q: %w", master, err)
	}

	d.log.Infof("Master file: %q", master)

	res := &Result{
		Master:  master,
		Members: []MemberResult{{Path: master, Action: ActionMaster}},
	}

	for _, member := range group.Files[1:] {
		mr := d.relink(member, master, masterID)
		res.Members = append(res.Members, mr)

		switch mr.Action {
		case ActionRelinked:
			res.Relinked++
			res.ReclaimedBytes += uint64(group.Size)
		case ActionAlreadyLinked:
			res.AlreadyLinked++
		case ActionSkipped:
			res.Skipped++
		case ActionLost:
			res.Lost++
		}
	}

	return res, nil
}

// relink replaces a single member with a hard link to the master. The member
// is deleted first and the link created in its place, so a link failure after
// a successful delete leaves the path without data. That outcome is reported
// as ActionLost.
func (d *Deduper) relink(member string, master string, masterID fileid.FileID) MemberResult {
	memberID, _, err := d.fs.Identity(member)
	if err != nil {
		d.log.WithError(err).Warnf("Failed resolving identity, skipping member: %q", member)
		return MemberResult{Path: member, Action: ActionSkipped, Err: err}
	}

	if memberID.Equal(masterID) {
		d.log.Infof("Skipping file (already linked): %q", member)
		return MemberResult{Path: member, Action: ActionAlreadyLinked}
	}

	if d.dryRun {
		d.log.Warnf("Dry-run enabled, would replace %q with hard link to %q", member, master)
		return MemberResult{Path: member, Action: ActionRelinked}
	}

	if err := d.fs.Remove(member); err != nil {
		d.log.WithError(err).Warnf("Failed deleting duplicate, skipping member: %q", member)
		return MemberResult{Path: member, Action: ActionSkipped, Err: err}
	}

	if err := d.fs.Link(master, member); err != nil {
		d.log.WithError(err).Errorf("Failed creating hard link after delete, path left without data: %q -> %q",
			member, master)
		return MemberResult{Path: member, Action: ActionLost, Err: err}
	}

	d.log.Infof("Replaced duplicate %q with hard link to %q", member, master)
	return MemberResult{Path: member, Action: ActionRelinked}
}
