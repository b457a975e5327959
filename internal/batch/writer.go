package batch

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/povarna/sonar-sweep/internal/models"
	"github.com/povarna/sonar-sweep/internal/trend"
	"github.com/rs/zerolog"
)

const (
	FormatText  = "text"
	FormatJSONL = "jsonl"
)

type WriterOptions struct {
	Color  bool
	Labels map[trend.Label]string
}

type Writer struct {
	out     *bufio.Writer
	format  string
	options WriterOptions
	palette map[trend.Label]*color.Color
	logger  *zerolog.Logger
}

func NewWriter(out io.Writer, format string, logger *zerolog.Logger) (*Writer, error) {
	return NewWriterWithOptions(out, format, WriterOptions{}, logger)
}

func NewWriterWithOptions(out io.Writer, format string, options WriterOptions, logger *zerolog.Logger) (*Writer, error) {
	if format == "" {
		format = FormatText
	}
	if format != FormatText && format != FormatJSONL {
		return nil, fmt.Errorf("unsupported output format: %s", format)
	}

	w := &Writer{
		out:     bufio.NewWriter(out),
		format:  format,
		options: options,
		logger:  logger,
	}

	if options.Color {
		w.palette = map[trend.Label]*color.Color{
			trend.LabelNoPrevious: color.New(color.FgYellow),
			trend.LabelIncreased:  color.New(color.FgGreen),
			trend.LabelDecreased:  color.New(color.FgRed),
			trend.LabelUnchanged:  color.New(color.FgCyan),
		}
		for _, c := range w.palette {
			c.EnableColor()
		}
	}

	return w, nil
}

func (w *Writer) Write(record trend.Record) error {
	if w.format == FormatJSONL {
		return w.writeJSON(record)
	}

	label := w.labelText(record.Label)
	if c, ok := w.palette[record.Label]; ok {
		label = c.Sprint(label)
	}
	_, err := fmt.Fprintf(w.out, "%d (%s)\n", record.Value, label)
	return err
}

func (w *Writer) WriteSummary(summary models.Summary) error {
	if w.format == FormatJSONL {
		return w.writeJSON(summary)
	}

	_, err := fmt.Fprintf(w.out, "{ increased: %d, decreased: %d }\n", summary.Increased, summary.Decreased)
	return err
}

// WriteReport writes every record followed by the summary.
func (w *Writer) WriteReport(report models.Report) error {
	for _, record := range report.Records {
		if err := w.Write(record); err != nil {
			return err
		}
	}
	return w.WriteSummary(report.Summary())
}

func (w *Writer) Close() error {
	if err := w.out.Flush(); err != nil {
		w.logger.Error().Err(err).Msg("failed to flush output")
		return err
	}
	return nil
}

func (w *Writer) labelText(label trend.Label) string {
	if text, ok := w.options.Labels[label]; ok && text != "" {
		return text
	}
	return label.Text()
}

func (w *Writer) writeJSON(v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal record: %w", err)
	}
	data = append(data, '\n')
	_, err = w.out.Write(data)
	return err
}
