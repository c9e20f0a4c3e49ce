// Package transport carries the line-oriented stdio loop. One request frame
// per line, processed to completion before the next line is read; responses
// are written back as single lines. Logging stays on stderr because stdout
// is the protocol channel.
package transport

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
)

// Dispatcher is the byte-in/byte-out contract the rpc package provides.
type Dispatcher interface {
	Dispatch(ctx context.Context, data []byte) []byte
}

// maxFrameSize bounds a single request line. An oversized line is truncated
// to this size and consumed to its end, so one huge frame gets an error
// envelope instead of wedging or terminating the loop.
const maxFrameSize = 1 << 20

// ServeLines runs the stdio request loop until the reader is exhausted or
// the context is cancelled. EOF is a clean shutdown, not an error.
func ServeLines(ctx context.Context, r io.Reader, w io.Writer, d Dispatcher) error {
	// Reading happens on its own goroutine so cancellation is not stuck
	// behind a blocked read.
	lines := make(chan []byte)
	readErr := make(chan error, 1)
	go func() {
		defer close(lines)
		br := bufio.NewReaderSize(r, 64*1024)
		for {
			frame, err := readFrame(br)
			line := bytes.TrimSpace(frame)
			if len(line) > 0 {
				select {
				case lines <- line:
				case <-ctx.Done():
					return
				}
			}
			if err != nil {
				if err != io.EOF {
					readErr <- err
				}
				return
			}
		}
	}()

	for {
		// Cancellation wins over a ready line.
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case line, ok := <-lines:
			if !ok {
				select {
				case err := <-readErr:
					return fmt.Errorf("read request: %w", err)
				default:
				}
				slog.InfoContext(ctx, "Stdio transport closed")
				return nil
			}

			out := d.Dispatch(ctx, line)
			if out == nil {
				// Batches of notifications produce no output at all.
				continue
			}
			if _, err := w.Write(append(out, '\n')); err != nil {
				return fmt.Errorf("write response: %w", err)
			}
		}
	}
}

// readFrame returns the next line, truncated to maxFrameSize. The remainder
// of an oversized line is discarded; the truncated prefix no longer parses
// as JSON and is answered like any other malformed request. The returned
// slice is freshly allocated and safe to hand off.
func readFrame(br *bufio.Reader) ([]byte, error) {
	var frame []byte
	for {
		chunk, err := br.ReadSlice('\n')
		if len(frame) < maxFrameSize {
			frame = append(frame, chunk...)
			if len(frame) > maxFrameSize {
				frame = frame[:maxFrameSize]
			}
		}
		if err == bufio.ErrBufferFull {
			continue
		}
		return frame, err
	}
}
