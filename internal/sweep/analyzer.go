package sweep

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/povarna/sonar-sweep/internal/models"
	"github.com/povarna/sonar-sweep/internal/trend"
	"github.com/povarna/sonar-sweep/internal/window"
	"github.com/rs/zerolog"
)

type Analyzer struct {
	windowWidth int
	logger      *zerolog.Logger
}

func NewAnalyzer(windowWidth int, logger *zerolog.Logger) *Analyzer {
	if windowWidth <= 0 {
		windowWidth = window.DefaultWidth
	}
	return &Analyzer{
		windowWidth: windowWidth,
		logger:      logger,
	}
}

func (a *Analyzer) WindowWidth() int {
	return a.windowWidth
}

// Analyze classifies measurements (or their sliding-window sums when
// windowed is set) and returns every record with the final tallies.
func (a *Analyzer) Analyze(measurements []int, windowed bool) models.Report {
	values := measurements
	if windowed {
		values = window.SumsOf(measurements, a.windowWidth)
	}

	counter := trend.NewCounter()
	records := make([]trend.Record, 0, len(values))
	for _, v := range values {
		records = append(records, counter.Classify(v))
	}

	report := a.newReport(windowed)
	report.Records = records
	report.Count = counter.Seen()
	report.Increased = counter.Increased()
	report.Decreased = counter.Decreased()
	report.Unchanged = counter.Unchanged()

	a.logger.
		Info().
		Str("report_id", report.ID).
		Bool("windowed", windowed).
		Int("measurements", len(measurements)).
		Int("increased", report.Increased).
		Int("decreased", report.Decreased).
		Msg("sweep complete")

	return report
}

// Stream is the pipelined form of Analyze: one goroutine produces window
// sums while another classifies them. Records are emitted in input order.
// The returned channel is closed when in is drained or ctx is done.
func (a *Analyzer) Stream(ctx context.Context, in <-chan int, windowed bool) <-chan trend.Record {
	values := in
	if windowed {
		values = a.windowStage(ctx, in)
	}

	out := make(chan trend.Record)
	go func() {
		defer close(out)

		counter := trend.NewCounter()
		for {
			select {
			case <-ctx.Done():
				return
			case v, ok := <-values:
				if !ok {
					a.logger.Debug().
						Int("increased", counter.Increased()).
						Int("decreased", counter.Decreased()).
						Msg("sweep stream drained")
					return
				}
				select {
				case out <- counter.Classify(v):
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return out
}

func (a *Analyzer) windowStage(ctx context.Context, in <-chan int) <-chan int {
	sums := make(chan int)
	go func() {
		defer close(sums)

		summer := window.NewSummer(a.windowWidth)
		for {
			select {
			case <-ctx.Done():
				return
			case v, ok := <-in:
				if !ok {
					return
				}
				sum, full := summer.Push(v)
				if !full {
					continue
				}
				select {
				case sums <- sum:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return sums
}

func (a *Analyzer) newReport(windowed bool) models.Report {
	report := models.Report{
		ID:        uuid.New().String(),
		Windowed:  windowed,
		CreatedAt: time.Now().UTC(),
	}
	if windowed {
		report.WindowWidth = a.windowWidth
	}
	return report
}
