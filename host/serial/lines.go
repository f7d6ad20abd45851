package serial

import (
	"bufio"
	"context"
	"errors"
	"io"
	"strings"
)

// ReadLines calls fn for every line read from r until ctx is done or r
// fails. Read timeouts with no data are not errors; a port opened with a
// ReadTimeout returns (0, io.EOF) when idle.
func ReadLines(ctx context.Context, r io.Reader, fn func(line string)) error {
	br := bufio.NewReader(r)
	var partial strings.Builder
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		chunk, err := br.ReadString('\n')
		partial.WriteString(chunk)
		if strings.HasSuffix(chunk, "\n") {
			fn(strings.TrimRight(partial.String(), "\r\n"))
			partial.Reset()
		}
		if err != nil && !errors.Is(err, io.EOF) {
			return err
		}
	}
}
