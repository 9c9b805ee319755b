package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/aliakseis/HandleDuplicateFiles/pkg/comparer"
	"github.com/aliakseis/HandleDuplicateFiles/pkg/config"
	"github.com/aliakseis/HandleDuplicateFiles/pkg/deduper"
	"github.com/aliakseis/HandleDuplicateFiles/pkg/expression"
	"github.com/aliakseis/HandleDuplicateFiles/pkg/logger"
	"github.com/aliakseis/HandleDuplicateFiles/pkg/notification"
	"github.com/aliakseis/HandleDuplicateFiles/pkg/scanner"
	"github.com/aliakseis/HandleDuplicateFiles/pkg/sizefilemap"
)

func DedupeCommand() *cobra.Command {
	command := &cobra.Command{
		Use:   "hdf <root-folder> [extension]",
		Short: "Find duplicate files and replace them with hard links",
		Long: `Scan a folder tree for files with identical content and reclaim the wasted
space by replacing every duplicate with a hard link to a single master copy.

Files are bucketed by size first and then compared byte-for-byte in chunks,
so no file is ever hashed or read more than the comparison requires. The
scan can optionally be narrowed to a single file extension.`,

		Args:          cobra.RangeArgs(1, 2),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	command.Run = func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()
		start := time.Now()

		// init core
		if !initialized {
			initCore(true)
			initialized = true
		}

		// set log
		log := logger.GetLogger("dedupe")

		noti := notification.NewDiscordSender(log, config.Config.Notifications)

		rootFolder := args[0]

		var extraExtensions []string
		if len(args) > 1 {
			extraExtensions = append(extraExtensions, args[1])
		}

		// compile ignore expressions
		ignores, err := expression.Compile(config.Config.Scanner.Ignore)
		if err != nil {
			log.WithError(err).Fatal("Failed compiling ignore expressions")
		}

		// enumerate candidate files
		scn := scanner.New(config.Config.Scanner, extraExtensions...)
		files, err := scn.Scan(rootFolder)
		if err != nil {
			log.WithError(err).Fatalf("Failed scanning folder: %q", rootFolder)
		}

		log.Infof("Found %d candidate file(s) in %q", len(files), rootFolder)

		files = removeIgnoredFiles(ctx, files, ignores, log)

		// map candidates by size
		sfm := sizefilemap.New(files)
		candidateSets := sfm.CandidateSets()
		log.Infof("Mapped %d file(s) to %d unique size(s), %d size(s) shared by two or more files",
			sfm.Files(), sfm.Length(), len(candidateSets))

		// partition same-size sets into groups of identical files
		cmp := comparer.New(config.Config.Comparer)
		prt := comparer.NewPartitioner(cmp)

		var groups []comparer.Group
		for _, set := range candidateSets {
			groups = append(groups, prt.Partition(filePaths(set.Files), set.Size)...)
		}

		if len(groups) == 0 {
			log.Info("No duplicate files found.")

			if noti.CanSend() {
				if sendErr := noti.Send("Dedupe", "No duplicate files found",
					time.Since(start), nil, FlagDryRun); sendErr != nil {
					log.WithError(sendErr).Error("Failed sending notification")
				}
			}
			return
		}

		// report every group before touching anything
		for i, group := range groups {
			log.Info("-----")
			log.Infof("Duplicate group #%d: %d file(s) of %s", i+1, len(group.Files),
				humanize.IBytes(uint64(group.Size)))
			for _, f := range group.Files {
				log.Infof("  %s", f)
			}
		}

		// replace duplicates with hard links to their group master
		ddp := deduper.New(FlagDryRun)

		var (
			relinked      int
			alreadyLinked int
			skipped       int
			lost          int
			reclaimed     uint64
			fields        []notification.Field
		)

		for i, group := range groups {
			log.Info("-----")
			log.Infof("Deduplicating group #%d", i+1)

			res, err := ddp.Deduplicate(group)
			if err != nil {
				log.WithError(err).Errorf("Failed deduplicating group #%d:", i+1)
				for _, f := range group.Files {
					log.Errorf("  %s", f)
				}
				log.Fatal("Aborting, master file identity could not be resolved")
			}

			relinked += res.Relinked
			alreadyLinked += res.AlreadyLinked
			skipped += res.Skipped
			lost += res.Lost
			reclaimed += res.ReclaimedBytes

			fields = append(fields, noti.BuildField(notification.ActionDedupe, notification.BuildOptions{
				GroupIndex:     i + 1,
				Master:         res.Master,
				Size:           group.Size,
				Members:        len(group.Files),
				Relinked:       res.Relinked,
				AlreadyLinked:  res.AlreadyLinked,
				Skipped:        res.Skipped,
				Lost:           res.Lost,
				ReclaimedBytes: res.ReclaimedBytes,
			}))
		}

		log.Info("-----")
		log.WithField("reclaimed_space", humanize.IBytes(reclaimed)).
			Infof("Deduplicated %d group(s): %d relinked, %d already linked, %d skipped and %d lost",
				len(groups), relinked, alreadyLinked, skipped, lost)

		if !noti.CanSend() {
			log.Debug("Notifications disabled, skipping...")
			return
		}

		sendErr := noti.Send(
			"Dedupe",
			fmt.Sprintf("Relinked **%d** duplicate file(s) across **%d** group(s) | Total reclaimed **%s**",
				relinked, len(groups), humanize.IBytes(reclaimed)),
			time.Since(start),
			fields,
			FlagDryRun,
		)
		if sendErr != nil {
			log.WithError(sendErr).Error("Failed sending notification")
		}
	}

	return command
}

// removeIgnoredFiles drops every file matching an ignore expression.
func removeIgnoredFiles(ctx context.Context, files []config.File, ignores []expression.CompiledExpression, log *logrus.Entry) []config.File {
	if len(ignores) == 0 {
		return files
	}

	kept := files[:0]
	ignored := 0

	for i := range files {
		match, reason, err := expression.CheckFileSingleMatchWithReason(ctx, &files[i], ignores)
		if err != nil {
			log.WithError(err).Warnf("Failed checking ignore expressions, keeping file: %q", files[i].Path)
			kept = append(kept, files[i])
			continue
		}

		if match {
			log.Tracef("Ignoring file (matched %q): %q", reason, files[i].Path)
			ignored++
			continue
		}

		kept = append(kept, files[i])
	}

	if ignored > 0 {
		log.Infof("Ignored %d file(s) via ignore expressions", ignored)
	}

	return kept
}

func filePaths(files []config.File) []string {
	out := make([]string, 0, len(files))
	for _, f := range files {
		out = append(out, f.Path)
	}
	return out
}
