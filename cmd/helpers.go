package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/aliakseis/HandleDuplicateFiles/pkg/config"
	"github.com/aliakseis/HandleDuplicateFiles/pkg/logger"
	"github.com/aliakseis/HandleDuplicateFiles/pkg/runtime"
)

var (
	// Global flags
	FlagLogLevel     = 0
	FlagConfigFile   = "config.yaml"
	FlagConfigFolder = config.GetDefaultConfigDirectory("hdf", "config.yaml")
	FlagLogFile      = "activity.log"

	FlagDryRun bool

	// Global vars
	initialized bool
)

func initCore(showAppInfo bool) {
	// init config
	if err := config.Init(filepath.Join(FlagConfigFolder, FlagConfigFile)); err != nil {
		fmt.Printf("Failed initializing config: %v\n", err)
		os.Exit(1)
	}

	// init logger
	if err := logger.Init(FlagLogLevel, filepath.Join(FlagConfigFolder, FlagLogFile)); err != nil {
		fmt.Printf("Failed initializing logger: %v\n", err)
		os.Exit(1)
	}

	// show app info
	if showAppInfo {
		showUsing()
	}
}

func showUsing() {
	log := logger.GetLogger("app")

	log.Infof("Using version: %s (%s@%s)", runtime.Version, runtime.GitCommit, runtime.Timestamp)
	log.Infof("Using config: %q", filepath.Join(FlagConfigFolder, FlagConfigFile))
	log.Infof("Using log: %q", logger.GetLogFilePath())
}
