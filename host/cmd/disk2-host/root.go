package main

import (
	"disk2/config"
	"disk2/core"
	"disk2/protocol"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

type rootOptions struct {
	configFile string
	verbose    bool
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:           "disk2-host",
		Short:         "Host tools for the disk2 SD card disk server",
		Version:       protocol.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			setupLogging(opts.verbose)
		},
	}
	cmd.PersistentFlags().StringVarP(&opts.configFile, "config", "c", "", "board configuration file (YAML)")
	cmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "enable debug output")

	cmd.AddCommand(newSimCmd(opts))
	cmd.AddCommand(newLsCmd(opts))
	cmd.AddCommand(newTrackCmd())
	cmd.AddCommand(newMonitorCmd())
	return cmd
}

// setupLogging routes the core debug sink into logrus
func setupLogging(verbose bool) {
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	if verbose {
		log.SetLevel(log.DebugLevel)
	}
	core.SetDebugWriter(func(msg string) {
		log.Debug(msg)
	})
	core.SetDebugEnabled(verbose)
}

// loadConfig reads the --config file, or returns the defaults
func (o *rootOptions) loadConfig() (*config.Config, error) {
	if o.configFile == "" {
		return config.Default(), nil
	}
	cfg, err := config.Load(o.configFile)
	if err != nil {
		return nil, err
	}
	log.WithField("file", o.configFile).Debug("loaded configuration")
	return cfg, nil
}
