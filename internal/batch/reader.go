package batch

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
)

var ErrInvalidInput = errors.New("invalid input")

// Line is one non-blank line of the input source.
type Line struct {
	Number int
	Text   string
	Error  error
}

// InputRecord is one parsed measurement. Error is set when the line is not
// a well-formed integer.
type InputRecord struct {
	LineNumber int
	Value      int
	Error      error
}

type Reader struct {
	source io.Reader
	logger *zerolog.Logger
}

func NewReader(source io.Reader, logger *zerolog.Logger) *Reader {
	return &Reader{
		source: source,
		logger: logger,
	}
}

// Lines streams the trimmed, non-blank lines of the source. The channel is
// closed at EOF, on a read error (delivered as a final Line with Error set)
// or when ctx is cancelled.
func (r *Reader) Lines(ctx context.Context) <-chan Line {
	ch := make(chan Line)

	go func() {
		defer close(ch)

		scanner := bufio.NewScanner(r.source)
		lineNumber := 0
		for scanner.Scan() {
			lineNumber++
			text := strings.TrimSpace(scanner.Text())
			if text == "" {
				continue
			}

			select {
			case ch <- Line{Number: lineNumber, Text: text}:
			case <-ctx.Done():
				r.logger.Debug().Int("line", lineNumber).Msg("reader cancelled")
				return
			}
		}

		if err := scanner.Err(); err != nil {
			r.logger.Error().Err(err).Int("line", lineNumber).Msg("failed to read input")
			select {
			case ch <- Line{Number: lineNumber + 1, Error: err}:
			case <-ctx.Done():
			}
		}
	}()

	return ch
}

// ReadAll streams one InputRecord per non-blank line.
func (r *Reader) ReadAll(ctx context.Context) <-chan InputRecord {
	ch := make(chan InputRecord)

	go func() {
		defer close(ch)

		for line := range r.Lines(ctx) {
			record := InputRecord{LineNumber: line.Number, Error: line.Error}
			if record.Error == nil {
				record.Value, record.Error = ParseMeasurement(line.Text)
				if record.Error != nil {
					record.Error = fmt.Errorf("line %d: %w", line.Number, record.Error)
				}
			}

			select {
			case ch <- record:
			case <-ctx.Done():
				return
			}
		}
	}()

	return ch
}

func ParseMeasurement(token string) (int, error) {
	value, err := strconv.Atoi(strings.TrimSpace(token))
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not an integer", ErrInvalidInput, token)
	}
	return value, nil
}

// Collect drains records and fails on the first malformed one.
func Collect(records <-chan InputRecord) ([]int, error) {
	var values []int
	var firstErr error

	for record := range records {
		if firstErr != nil {
			continue
		}
		if record.Error != nil {
			firstErr = record.Error
			continue
		}
		values = append(values, record.Value)
	}

	if firstErr != nil {
		return nil, firstErr
	}
	return values, nil
}
