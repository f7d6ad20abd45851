package main

import (
	"fmt"
	"io"
	"os"

	"disk2/board"
	"disk2/core"
	"disk2/host/tui"
	"disk2/sim"
	"disk2/storage"

	tea "github.com/charmbracelet/bubbletea"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func newSimCmd(opts *rootOptions) *cobra.Command {
	var (
		root    string
		watch   bool
		logFile string
	)

	cmd := &cobra.Command{
		Use:   "sim",
		Short: "Run the board against a simulated FPGA in the terminal",
		Long: `Run the real dispatcher, browser and track store against a software
model of the FPGA. The OSD is drawn in the terminal and the keyboard
stands in for the buttons.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			if root != "" {
				cfg.ImageRoot = root
			}

			// The terminal belongs to the UI; logs go to a file or nowhere
			log.SetOutput(io.Discard)
			if logFile != "" {
				f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
				if err != nil {
					return fmt.Errorf("open log file: %w", err)
				}
				defer f.Close()
				log.SetOutput(f)
			}

			fpga := sim.NewFPGA(cfg.LEDPin)
			b, err := board.New(cfg, fpga, fpga, storage.NewOS(cfg.ImageRoot))
			if err != nil {
				return err
			}
			defer b.Close()
			if err := b.Start(); err != nil {
				return fmt.Errorf("start: %w", err)
			}

			var changes <-chan struct{}
			if watch {
				w, err := tui.Watch(cfg.ImageRoot)
				if err != nil {
					return err
				}
				defer w.Close()
				changes = w.Changes()
			}

			_, err = tea.NewProgram(tui.New(fpga, b, changes), tea.WithAltScreen()).Run()
			core.DumpTimingRing()
			return err
		},
	}
	cmd.Flags().StringVarP(&root, "root", "r", "", "directory served as the SD card (overrides image_root)")
	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "refresh the menu when the directory changes")
	cmd.Flags().StringVar(&logFile, "log", "", "write logs to this file")
	return cmd
}
