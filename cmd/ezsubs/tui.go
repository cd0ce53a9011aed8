package main

import (
	"io"

	"ezsubs/internal/log"
	"ezsubs/internal/session"
	"ezsubs/internal/tui"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

// NewTUICmd creates the tui command
func NewTUICmd() *cobra.Command {
	var mediaPaths, subPaths []string

	cmd := &cobra.Command{
		Use:   "tui",
		Short: "Arrange and sync the two lists in the terminal",
		Long: `Open the two-pane terminal interface. Add files with 'a', reorder with
K/J, remove with 'd' and press enter to rename the subtitles. Press ? for
all keys.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			// Log lines would tear the alternate screen; keep only the file.
			if err := configureLogging(io.Discard); err != nil {
				return err
			}

			s := session.New(cfg)
			defer s.Close()

			ctx := cmd.Context()
			if len(mediaPaths) > 0 || len(subPaths) > 0 {
				if _, _, err := s.DropBoth(ctx, mediaPaths, subPaths); err != nil {
					return err
				}
			}

			p := tea.NewProgram(tui.New(ctx, s, cfg), tea.WithAltScreen(), tea.WithContext(ctx))
			if _, err := p.Run(); err != nil {
				log.LogWithError(err).Error("TUI exited with error")
				return err
			}
			return nil
		},
	}

	cmd.Flags().StringArrayVarP(&mediaPaths, "media", "m", nil, "pre-fill the media list")
	cmd.Flags().StringArrayVarP(&subPaths, "subs", "s", nil, "pre-fill the subtitle list")
	return cmd
}
