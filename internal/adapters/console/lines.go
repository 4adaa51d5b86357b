package console

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/bnema/observation-displayer/internal/domain"
)

// Line is one input line: who said it and what they said.
type Line struct {
	Actor   domain.ActorID
	Message string
}

// ParseLine splits "[actor:] message". Without an actor prefix the line
// belongs to fallback.
func ParseLine(raw string, fallback domain.ActorID) (Line, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" || strings.HasPrefix(raw, "#") {
		return Line{}, false
	}

	head, rest, found := strings.Cut(raw, " ")
	if !strings.HasPrefix(head, "/") && strings.HasSuffix(head, ":") && len(head) > 1 {
		message := ""
		if found {
			message = strings.TrimSpace(rest)
		}
		if message == "" {
			return Line{}, false
		}
		return Line{Actor: domain.ActorID(strings.TrimSuffix(head, ":")), Message: message}, true
	}

	return Line{Actor: fallback, Message: raw}, true
}

// Serve reads lines from in until EOF or ctx is done and hands each one to
// handle, in order.
func Serve(ctx context.Context, in io.Reader, fallback domain.ActorID, handle func(context.Context, Line)) error {
	lines := make(chan string)
	errs := make(chan error, 1)

	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		if err := scanner.Err(); err != nil {
			errs <- fmt.Errorf("read console input: %w", err)
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case raw, ok := <-lines:
			if !ok {
				select {
				case err := <-errs:
					return err
				default:
					return nil
				}
			}
			if line, ok := ParseLine(raw, fallback); ok {
				handle(ctx, line)
			}
		}
	}
}
