package batch

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/povarna/sonar-sweep/internal/models"
	"github.com/povarna/sonar-sweep/internal/trend"
)

var sampleReport = models.Report{
	Records: []trend.Record{
		{Value: 199, Label: trend.LabelNoPrevious},
		{Value: 200, Label: trend.LabelIncreased},
		{Value: 190, Label: trend.LabelDecreased},
		{Value: 190, Label: trend.LabelUnchanged},
	},
	Increased: 1,
	Decreased: 1,
	Unchanged: 1,
}

func TestWriter_Text(t *testing.T) {
	var buf bytes.Buffer
	writer, err := NewWriter(&buf, FormatText, newTestLogger())
	if err != nil {
		t.Fatalf("NewWriter() failed: %v", err)
	}

	if err := writer.WriteReport(sampleReport); err != nil {
		t.Fatalf("WriteReport() failed: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("Close() failed: %v", err)
	}

	want := strings.Join([]string{
		"199 (N/A - no previous measurement)",
		"200 (increased)",
		"190 (decreased)",
		"190 (unchanged)",
		"{ increased: 1, decreased: 1 }",
		"",
	}, "\n")

	if buf.String() != want {
		t.Errorf("unexpected output:\n%s\nwant:\n%s", buf.String(), want)
	}
}

func TestWriter_CustomLabels(t *testing.T) {
	var buf bytes.Buffer
	writer, err := NewWriterWithOptions(&buf, FormatText, WriterOptions{
		Labels: map[trend.Label]string{trend.LabelIncreased: "deeper"},
	}, newTestLogger())
	if err != nil {
		t.Fatalf("NewWriterWithOptions() failed: %v", err)
	}

	_ = writer.Write(trend.Record{Value: 5, Label: trend.LabelIncreased})
	_ = writer.Write(trend.Record{Value: 4, Label: trend.LabelDecreased})
	_ = writer.Close()

	if !strings.Contains(buf.String(), "5 (deeper)") {
		t.Errorf("expected custom label, got %q", buf.String())
	}
	if !strings.Contains(buf.String(), "4 (decreased)") {
		t.Errorf("expected default label for decreased, got %q", buf.String())
	}
}

func TestWriter_Color(t *testing.T) {
	var buf bytes.Buffer
	writer, err := NewWriterWithOptions(&buf, FormatText, WriterOptions{Color: true}, newTestLogger())
	if err != nil {
		t.Fatalf("NewWriterWithOptions() failed: %v", err)
	}

	_ = writer.Write(trend.Record{Value: 5, Label: trend.LabelIncreased})
	_ = writer.Close()

	if !strings.Contains(buf.String(), "\x1b[") {
		t.Errorf("expected ANSI escape codes in coloured output, got %q", buf.String())
	}
	if !strings.Contains(buf.String(), "increased") {
		t.Errorf("expected label text in coloured output, got %q", buf.String())
	}
}

func TestWriter_JSONL(t *testing.T) {
	var buf bytes.Buffer
	writer, err := NewWriter(&buf, FormatJSONL, newTestLogger())
	if err != nil {
		t.Fatalf("NewWriter() failed: %v", err)
	}

	if err := writer.WriteReport(sampleReport); err != nil {
		t.Fatalf("WriteReport() failed: %v", err)
	}
	_ = writer.Close()

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 5 {
		t.Fatalf("expected 5 lines, got %d", len(lines))
	}

	var first trend.Record
	if err := json.Unmarshal([]byte(lines[0]), &first); err != nil {
		t.Fatalf("first line is not a record: %v", err)
	}
	if first.Label != trend.LabelNoPrevious {
		t.Errorf("expected first label %s, got %s", trend.LabelNoPrevious, first.Label)
	}

	var summary models.Summary
	if err := json.Unmarshal([]byte(lines[4]), &summary); err != nil {
		t.Fatalf("last line is not a summary: %v", err)
	}
	if summary.Increased != 1 || summary.Decreased != 1 {
		t.Errorf("unexpected summary %+v", summary)
	}
}

func TestNewWriter_InvalidFormat(t *testing.T) {
	if _, err := NewWriter(&bytes.Buffer{}, "xml", newTestLogger()); err == nil {
		t.Error("expected error for unsupported format")
	}
}
