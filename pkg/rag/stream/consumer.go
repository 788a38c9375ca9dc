package stream

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"io"
	"strings"
)

const maxLineSize = 1024 * 1024

// Consumer reads an answer stream. OnWarning, when set, receives lines that were skipped
// because they were not complete JSON.
type Consumer struct {
	OnWarning func(line string, err error)
}

// Consume reads r with a zero Consumer.
func Consume(ctx context.Context, r io.Reader, onChunk func(string) error) (*Result, error) {
	return Consumer{}.Consume(ctx, r, onChunk)
}

// Consume hands each text chunk to onChunk in arrival order and returns the final result.
// Cancelling ctx stops the read between lines; callers should also tie r to ctx
// (an HTTP body from a request built with ctx) so a blocked read is released.
func (c Consumer) Consume(ctx context.Context, r io.Reader, onChunk func(string) error) (*Result, error) {
	var (
		acc      strings.Builder
		received bool
	)

	reader := bufio.NewReaderSize(r, 4096)
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		line, readErr := readLine(reader)
		if readErr != nil && readErr != io.EOF {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			return nil, readErr
		}

		if payload, ok := dataPayload(line); ok {
			var ev Event
			if err := json.Unmarshal([]byte(payload), &ev); err != nil {
				var typeErr *json.UnmarshalTypeError
				if errors.As(err, &typeErr) {
					return nil, errors.Join(ErrCorruptStream, err)
				}
				if c.OnWarning != nil {
					c.OnWarning(payload, err)
				}
			} else {
				switch {
				case ev.Error != "":
					return nil, &RemoteError{Message: ev.Error}
				case ev.Done:
					text := ev.FullText
					if text == "" {
						text = acc.String()
					}
					return &Result{Text: text, Sources: ev.Sources}, nil
				case ev.Text != "":
					received = true
					acc.WriteString(ev.Text)
					if onChunk != nil {
						if err := onChunk(ev.Text); err != nil {
							return nil, err
						}
					}
				}
			}
		}

		if readErr == io.EOF {
			break
		}
	}

	if !received {
		return nil, ErrEmptyStream
	}
	return &Result{Text: acc.String(), Truncated: true}, nil
}

func readLine(r *bufio.Reader) (string, error) {
	var sb strings.Builder
	for {
		frag, isPrefix, err := r.ReadLine()
		sb.Write(frag)
		if err != nil {
			return sb.String(), err
		}
		if sb.Len() > maxLineSize {
			return "", errors.Join(ErrCorruptStream, errors.New("line too long"))
		}
		if !isPrefix {
			return sb.String(), nil
		}
	}
}

// dataPayload extracts the payload of an SSE "data:" line.
func dataPayload(line string) (string, bool) {
	line = strings.TrimRight(line, "\r")
	if !strings.HasPrefix(line, "data:") {
		return "", false
	}
	payload := strings.TrimSpace(strings.TrimPrefix(line, "data:"))
	return payload, payload != ""
}
