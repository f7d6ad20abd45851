package main

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"

	"disk2/browser"
	"disk2/disk"
	"disk2/osd"
	"disk2/protocol"
	"disk2/storage"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// screenCapture is a browser.Display that keeps the rows in memory
type screenCapture struct {
	rows [protocol.OSDRows][osd.LineLen]byte
}

func (s *screenCapture) RenderLine(row int, entry *storage.DirEntry, hl osd.Highlight) error {
	s.rows[row] = osd.FormatLine(entry, hl)
	return nil
}

// write prints the non-blank rows. The cursor glyph is drawn as a triangle
// on a terminal and as '>' otherwise.
func (s *screenCapture) write(w io.Writer, tty bool) error {
	cursor := []byte(">")
	if tty {
		cursor = []byte("▶")
	}
	blank := bytes.Repeat([]byte{' '}, osd.LineLen)
	for _, row := range s.rows {
		if bytes.Equal(row[:], blank) {
			continue
		}
		line := bytes.Replace(row[:], []byte{osd.Glyphs[osd.HighlightCursor]}, cursor, 1)
		if _, err := fmt.Fprintf(w, "%s\n", bytes.TrimRight(line, " ")); err != nil {
			return err
		}
	}
	return nil
}

func newLsCmd(opts *rootOptions) *cobra.Command {
	var (
		root     string
		patterns []string
	)

	cmd := &cobra.Command{
		Use:   "ls [dir]",
		Short: "Print a directory the way the OSD shows it",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			if root != "" {
				cfg.ImageRoot = root
			}
			dir := cfg.StartDir
			if len(args) > 0 {
				dir = args[0]
			}

			if cmd.Flags().Changed("filter") {
				cfg.Filter = patterns
			}
			filter, err := browser.NewFilter(cfg.Filter...)
			if err != nil {
				return err
			}
			if filter != nil {
				log.WithField("filter", strings.Join(filter.Patterns(), ",")).Debug("hiding files that match no pattern")
			}

			fs := storage.NewOS(cfg.ImageRoot)
			screen := &screenCapture{}
			b := browser.New(fs, disk.NewTrackStore(fs), screen)
			b.SetFilter(filter)
			b.Chdir(dir)
			if err := b.Redraw(); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			tty := false
			if f, ok := out.(*os.File); ok {
				tty = term.IsTerminal(int(f.Fd()))
			}
			return screen.write(out, tty)
		},
	}
	cmd.Flags().StringVarP(&root, "root", "r", "", "directory served as the SD card (overrides image_root)")
	cmd.Flags().StringSliceVarP(&patterns, "filter", "f", nil, "only list files matching these globs (overrides filter)")
	return cmd
}
