package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"strings"

	"disk2/host/serial"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func newMonitorCmd() *cobra.Command {
	var baud int

	cmd := &cobra.Command{
		Use:   "monitor <device>",
		Short: "Follow the firmware debug UART",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := serial.DefaultConfig(args[0])
			cfg.Baud = baud

			port, err := serial.Open(cfg)
			if err != nil {
				return err
			}
			defer port.Close()
			log.WithField("device", cfg.Device).Info("monitoring")

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			err = serial.ReadLines(ctx, port, logLine)
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		},
	}
	cmd.Flags().IntVarP(&baud, "baud", "b", serial.DefaultBaud, "baud rate")
	return cmd
}

// logLine logs one firmware line; overruns and faults from the timing
// ring dump are raised to warnings
func logLine(line string) {
	entry := log.WithField("src", "uart")
	if strings.Contains(line, "!") {
		entry.Warn(line)
		return
	}
	entry.Info(line)
}
