package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"ezsubs/internal/session"
	"ezsubs/internal/watch"
	"ezsubs/pkg/types"

	"github.com/spf13/cobra"
)

// NewWatchCmd creates the watch command
func NewWatchCmd() *cobra.Command {
	var (
		mediaDir string
		subsDir  string
		autoSync bool
		interval time.Duration
	)

	cmd := &cobra.Command{
		Use:   "watch --media DIR --subs DIR",
		Short: "Keep the lists in step with two folders",
		Long: `Watch a video folder and a subtitle folder. Every change rebuilds both
lists; with --auto-sync the subtitles are renamed as soon as both lists are
non-empty and the same length.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if mediaDir == "" || subsDir == "" {
				return fmt.Errorf("both --media and --subs are required")
			}

			allowed := types.NewExtensionSet(append(
				append([]string(nil), cfg.Media.Extensions...),
				cfg.Subtitles.Extensions...)...)
			w, err := watch.New(allowed, interval)
			if err != nil {
				return err
			}
			for _, dir := range []string{mediaDir, subsDir} {
				if err := w.AddDirectory(dir); err != nil {
					return err
				}
			}
			if err := w.Start(); err != nil {
				return err
			}
			defer w.Stop()

			s := session.New(cfg)
			defer s.Close()

			out := cmd.OutOrStdout()
			runner := watch.NewRunner(s, mediaDir, subsDir, autoSync)
			runner.OnSync = func(report *session.SyncReport) {
				fmt.Fprintln(out, report.Summary())
			}

			fmt.Fprintln(out, infoText("Watching:"))
			for _, dir := range w.GetDirectories() {
				fmt.Fprintf(out, "  - %s\n", dir)
			}
			if cfg.Settings.DryRun {
				fmt.Fprintln(out, infoText("Running in dry-run mode"))
			}
			fmt.Fprintln(out, infoText("Press Ctrl+C to stop"))

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			if err := runner.Run(ctx, w); err != nil {
				return err
			}
			fmt.Fprintln(out, successText("Stopped watching"))
			return nil
		},
	}

	cmd.Flags().StringVarP(&mediaDir, "media", "m", "", "folder holding the videos")
	cmd.Flags().StringVarP(&subsDir, "subs", "s", "", "folder holding the subtitles")
	cmd.Flags().BoolVar(&autoSync, "auto-sync", false, "rename as soon as both lists line up")
	cmd.Flags().DurationVar(&interval, "interval", watch.DefaultInterval, "quiet period before a change is handled")
	return cmd
}
