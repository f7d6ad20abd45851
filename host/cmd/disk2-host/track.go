package main

import (
	"encoding/hex"
	"fmt"
	"path/filepath"
	"strconv"

	"disk2/disk"
	"disk2/storage"

	"github.com/spf13/cobra"
)

func newTrackCmd() *cobra.Command {
	var raw bool

	cmd := &cobra.Command{
		Use:   "track <image> <track>",
		Short: "Dump one track of a disk image as the FPGA would receive it",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := strconv.ParseUint(args[1], 0, 8)
			if err != nil || n > disk.MaxTrack {
				return fmt.Errorf("track must be 0-%d, got %q", disk.MaxTrack, args[1])
			}

			abs, err := filepath.Abs(args[0])
			if err != nil {
				return err
			}
			store := disk.NewTrackStore(storage.NewOS(filepath.Dir(abs)))
			if err := store.SelectImage(filepath.Base(abs)); err != nil {
				return err
			}
			defer store.Close()

			buf, err := store.LoadTrack(uint8(n))
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if raw {
				_, err = out.Write(buf)
				return err
			}
			dumper := hex.Dumper(out)
			if _, err := dumper.Write(buf); err != nil {
				return err
			}
			return dumper.Close()
		},
	}
	cmd.Flags().BoolVar(&raw, "raw", false, "write the raw track bytes instead of a hex dump")
	return cmd
}
