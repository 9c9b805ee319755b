package runtime

// Build details, set via ldflags.
var (
	Version   = "dev"
	GitCommit = "unknown"
	Timestamp = "unknown"
)
