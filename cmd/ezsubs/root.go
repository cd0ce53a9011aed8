package main

import (
	"io"

	"ezsubs/internal/config"
	"ezsubs/internal/errors"
	"ezsubs/internal/log"

	"github.com/spf13/cobra"
)

var (
	cfgFile string
	debug   bool
	cfg     *config.Config
)

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "ezsubs",
		Short: "Rename subtitle files after their videos",
		Long: `ezsubs pairs a list of video files with a list of subtitle files by
position and renames every subtitle to its video's name, keeping the
subtitle's extension and folder.

Lists are filled from files and folders, sorted naturally the first time
they are filled, and can be reordered before syncing.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return loadConfig(cmd)
		},
	}

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.config/ezsubs/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")

	rootCmd.AddCommand(NewSyncCmd())
	rootCmd.AddCommand(NewTUICmd())
	rootCmd.AddCommand(NewGUICmd())
	rootCmd.AddCommand(NewWatchCmd())
	rootCmd.AddCommand(NewConfigCmd())

	return rootCmd
}

// loadConfig reads the config file and applies its logging section. An
// explicit --config must load cleanly; a broken default file only warns.
func loadConfig(cmd *cobra.Command) error {
	var err error
	if cfgFile != "" {
		cfg, err = config.LoadConfigFile(cfgFile)
		if err != nil {
			return err
		}
	} else {
		cfg, err = config.LoadConfig()
		if err != nil {
			cmd.PrintErrln(warningText("Warning: " + err.Error()))
			cmd.PrintErrln(infoText("Using default settings. Run 'ezsubs config init' to write a fresh config."))
			cfg = config.New()
		}
	}
	return configureLogging(cmd.ErrOrStderr())
}

// configureLogging points the package logger at out (plus the configured
// file) using the configured format and level.
func configureLogging(out io.Writer) error {
	opts := []log.Option{log.WithOutput(out)}
	if cfg.Logging.Format == "json" {
		opts = append(opts, log.WithJSON())
	}
	if cfg.Logging.File != "" {
		opts = append(opts, log.WithFile(cfg.Logging.File))
	}
	log.Configure(opts...)

	if err := log.SetLevel(cfg.Logging.Level); err != nil {
		return errors.NewConfigError("invalid log level", "logging.level", errors.InvalidConfig, err)
	}
	if debug {
		log.SetDebug(true)
	}
	return nil
}
