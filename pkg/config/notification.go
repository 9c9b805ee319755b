package config

// NotificationsConfig controls the run summary sent after deduplication.
type NotificationsConfig struct {
	// Detailed sends one embed per duplicate group instead of a single
	// summary embed.
	Detailed     bool
	SkipEmptyRun bool `yaml:"skip_empty_run" koanf:"skip_empty_run"`
	Service      NotificationService
}

type NotificationService struct {
	// Discord webhook URL. Empty disables notifications.
	Discord string
}
