package notification

import (
	"time"
)

type Action int

const (
	ActionDedupe Action = iota + 1
)

type Sender interface {
	CanSend() bool
	Send(title string, description string, runTime time.Duration, fields []Field, dryRun bool) error
	BuildField(action Action, options BuildOptions) Field
	Name() string
}

type Field struct {
	Name  string
	Value string
}

type BuildOptions struct {
	GroupIndex int
	Master     string
	Size       int64
	Members    int

	Relinked      int
	AlreadyLinked int
	Skipped       int
	Lost          int

	ReclaimedBytes uint64
}
