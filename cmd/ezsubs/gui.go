package main

import (
	"ezsubs/internal/gui"
	"ezsubs/internal/session"

	"github.com/spf13/cobra"
)

// NewGUICmd creates the gui command
func NewGUICmd() *cobra.Command {
	var mediaPaths, subPaths []string

	cmd := &cobra.Command{
		Use:   "gui",
		Short: "Open the drag-and-drop window",
		Long: `Open a window with a media list on the left and a subtitle list on the
right. Drop files or folders onto either half, reorder them and press Sync.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !gui.IsGUIAvailable() {
				return gui.StartGUI(cfg, nil)
			}

			s := session.New(cfg)
			defer s.Close()

			if len(mediaPaths) > 0 || len(subPaths) > 0 {
				if _, _, err := s.DropBoth(cmd.Context(), mediaPaths, subPaths); err != nil {
					return err
				}
			}
			return gui.StartGUI(cfg, s)
		},
	}

	cmd.Flags().StringArrayVarP(&mediaPaths, "media", "m", nil, "pre-fill the media list")
	cmd.Flags().StringArrayVarP(&subPaths, "subs", "s", nil, "pre-fill the subtitle list")
	return cmd
}
