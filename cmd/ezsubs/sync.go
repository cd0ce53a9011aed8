package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"ezsubs/internal/config"
	"ezsubs/internal/errors"
	"ezsubs/internal/session"

	"github.com/spf13/cobra"
)

// NewSyncCmd creates the sync command
func NewSyncCmd() *cobra.Command {
	var (
		mediaPaths []string
		subPaths   []string
		recursive  bool
		dryRun     bool
		collision  string
		noSort     bool
	)

	cmd := &cobra.Command{
		Use:   "sync --media PATH... --subs PATH...",
		Short: "Rename subtitles after videos, pairing both lists by position",
		Long: `Collect video files and subtitle files from the given files and folders,
sort each list naturally (ep2 before ep10) and rename the n-th subtitle after
the n-th video. Both lists must end up the same length.`,
		Example: `  ezsubs sync --media ~/Shows/S01 --subs ~/Downloads/subs
  ezsubs sync --media a.mkv --media b.mkv --subs x.srt --subs y.srt --no-sort
  ezsubs sync --media . --subs . --dry-run`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(mediaPaths) == 0 || len(subPaths) == 0 {
				return fmt.Errorf("both --media and --subs are required")
			}

			if cmd.Flags().Changed("recursive") {
				cfg.Collect.Recursive = recursive
			}
			if cmd.Flags().Changed("dry-run") {
				cfg.Settings.DryRun = dryRun
			}
			if cmd.Flags().Changed("collision") {
				cfg.Settings.Collision = collision
			}
			if noSort {
				cfg.Settings.SortOnFirstDrop = false
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()
			return runSync(ctx, cmd, cfg, mediaPaths, subPaths)
		},
	}

	cmd.Flags().StringArrayVarP(&mediaPaths, "media", "m", nil, "video file or folder (repeatable)")
	cmd.Flags().StringArrayVarP(&subPaths, "subs", "s", nil, "subtitle file or folder (repeatable)")
	cmd.Flags().BoolVarP(&recursive, "recursive", "r", true, "descend into sub-folders of given folders")
	cmd.Flags().BoolVarP(&dryRun, "dry-run", "n", false, "show what would be renamed without touching files")
	cmd.Flags().StringVar(&collision, "collision", config.CollisionFail, "when the new name is taken: fail, skip or rename")
	cmd.Flags().BoolVar(&noSort, "no-sort", false, "keep the order the files were given in")

	return cmd
}

func runSync(ctx context.Context, cmd *cobra.Command, cfg *config.Config, mediaPaths, subPaths []string) error {
	s := session.New(cfg)
	defer s.Close()

	media, subs, err := s.DropBoth(ctx, mediaPaths, subPaths)
	if err != nil {
		return err
	}
	for _, w := range append(media.Warnings, subs.Warnings...) {
		cmd.PrintErrln(warningText("Warning: " + w.Error()))
	}

	out := cmd.OutOrStdout()
	printList(cmd, "Media", s.Media().Set().Names())
	printList(cmd, "Subtitles", s.Subtitles().Set().Names())

	report := s.SyncLists()
	if report.Mismatch != nil {
		return report.Mismatch
	}

	for _, o := range report.Outcomes {
		switch {
		case o.Err != nil:
			fmt.Fprintf(out, "  %s %s\n", errorText("✗"), o.Err)
		case o.Skipped:
			fmt.Fprintf(out, "  %s %s (skipped, %s exists)\n", warningText("-"), o.Instruction.Source.Name(), o.Instruction.TargetName)
		case o.Ref.Path() == o.Instruction.Source.Path():
			fmt.Fprintf(out, "  %s %s (already named)\n", infoText("="), o.Ref.Name())
		default:
			fmt.Fprintf(out, "  %s %s -> %s\n", successText("✓"), o.Instruction.Source.Name(), o.Ref.Name())
		}
	}
	fmt.Fprintln(out)
	fmt.Fprintln(out, report.Summary())

	if failures := report.Failures(); len(failures) > 0 {
		return errors.Newf("%d of %d renames failed", len(failures), len(report.Outcomes))
	}
	return nil
}

func printList(cmd *cobra.Command, title string, names []string) {
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, headerText(fmt.Sprintf("%s (%d)", title, len(names))))
	for i, name := range names {
		fmt.Fprintf(out, "  %3d  %s\n", i+1, name)
	}
}
