package logger

import (
	"io"
	"os"

	"github.com/natefinch/lumberjack"
	"github.com/sirupsen/logrus"
	prefixed "github.com/x-cray/logrus-prefixed-formatter"
)

var (
	loggedFilePath string
)

// Init configures the global logger. The verbosity level maps to logrus
// levels (0 = info, 1 = debug, 2+ = trace) and output is mirrored to a
// rotating log file when logFilePath is set.
func Init(logLevel int, logFilePath string) error {
	var useLevel logrus.Level

	// determine logging level
	switch logLevel {
	case 0:
		useLevel = logrus.InfoLevel
	case 1:
		useLevel = logrus.DebugLevel
	default:
		useLevel = logrus.TraceLevel
	}

	// set rotating log output
	if logFilePath != "" {
		loggedFilePath = logFilePath

		rotator := &lumberjack.Logger{
			Filename:   logFilePath,
			MaxSize:    25,
			MaxBackups: 5,
			MaxAge:     30,
		}

		logrus.SetOutput(io.MultiWriter(os.Stdout, rotator))
	}

	// set logging level
	logrus.SetLevel(useLevel)

	// set formatter
	logrus.SetFormatter(&prefixed.TextFormatter{
		TimestampFormat: "2006-01-02 15:04:05",
		FullTimestamp:   true,
		ForceFormatting: true,
	})

	return nil
}

// GetLogger returns a logger entry scoped with the given prefix.
func GetLogger(prefix string) *logrus.Entry {
	if len(prefix) == 0 {
		return logrus.NewEntry(logrus.StandardLogger())
	}

	return logrus.WithFields(logrus.Fields{"prefix": prefix})
}

// GetLogFilePath returns the path logs are being written to, if any.
func GetLogFilePath() string {
	return loggedFilePath
}
