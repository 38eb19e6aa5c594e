package main

import (
	"github.com/spf13/cobra"

	"github.com/hybrid-cipher-go/internal/config"
)

// app carries state shared by every subcommand once flags are parsed
type app struct {
	configPath string
	logLevel   string
	cfg        *config.Config
}

func newRootCmd() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:           "hybridcrypt",
		Short:         "Additive stream plus columnar transposition teaching cipher",
		Version:       config.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Read(a.configPath)
			if err != nil {
				return err
			}
			if a.logLevel != "" {
				cfg.Log.Level = a.logLevel
			}
			setupLogging(cmd.ErrOrStderr(), cfg.Log)
			a.cfg = cfg
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVar(&a.configPath, "config", "", "path to config.json")
	rootCmd.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "log level (debug, info, warn, error)")

	rootCmd.AddCommand(
		newDemoCmd(a),
		newKeygenCmd(a),
		newEncryptCmd(a),
		newDecryptCmd(a),
		newStreamCmd(a),
		newServeCmd(a),
		newUserCmd(a),
	)
	return rootCmd
}
