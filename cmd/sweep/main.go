package main

import (
	"context"
	"flag"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/povarna/sonar-sweep/internal/batch"
	"github.com/povarna/sonar-sweep/internal/setup"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	startTime := time.Now()

	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	input := flag.String("input", "", "Input file relative path, '-' for stdin")
	output := flag.String("output", "", "Output file relative path (default stdout)")
	format := flag.String("format", "", "Output format. Supported formats: 'text', 'jsonl' (default from config)")
	windowed := flag.Bool("windowed", false, "Compare sliding-window sums instead of raw measurements")
	colored := flag.Bool("color", false, "Colour the labels in text output")
	persist := flag.Bool("persist", false, "Store the report summary in the database")

	flag.Parse()

	if *input == "" {
		log.Fatal().Msg("required flag -input not provided")
	}

	if err := godotenv.Load(); err != nil {
		log.Warn().Msg("No .env file found, using environment variables")
	}

	ctx, cancel := setupGracefulShutdown()
	defer cancel()

	cfg := setup.LoadConfig()

	deps, err := setup.Wire(ctx, cfg, &log.Logger)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to wire dependencies")
	}
	defer deps.Close()

	if *persist && deps.Store == nil {
		log.Fatal().Msg("-persist requires DATABASE_URL or DB_HOST")
	}

	// Flags override the analysis profile
	set := explicitFlags()
	if !set["format"] {
		*format = deps.SweepConfig.Report.Format
	}
	if !set["windowed"] {
		*windowed = deps.SweepConfig.Analysis.Windowed
	}
	if !set["color"] {
		*colored = deps.SweepConfig.Report.Color
	}

	// Open input file
	var inputFile io.Reader
	if *input == "-" {
		inputFile = os.Stdin
		log.Info().Msg("Reading from stdin")
	} else {
		f, err := os.Open(*input)
		if err != nil {
			log.Fatal().Err(err).Str("file", *input).Msg("Failed to open input file")
		}
		defer f.Close()
		inputFile = f
		log.Info().Str("file", *input).Msg("Reading input file")
	}

	reader := batch.NewReader(inputFile, deps.Logger)
	measurements, err := batch.Collect(reader.ReadAll(ctx))
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid input")
	}
	if ctx.Err() != nil {
		log.Fatal().Msg("Interrupted before input was read")
	}

	log.Info().Int("total", len(measurements)).Msg("Input file parsed")

	// Open output file
	var outputFile io.Writer
	if *output == "" {
		outputFile = os.Stdout
	} else {
		f, err := os.Create(*output)
		if err != nil {
			log.Fatal().Err(err).Str("file", *output).Msg("Failed to create output file")
		}
		defer f.Close()
		outputFile = f
		log.Info().Str("file", *output).Msg("Writing to output file")
	}

	writer, err := batch.NewWriterWithOptions(outputFile, *format, batch.WriterOptions{
		Color:  *colored,
		Labels: deps.SweepConfig.TrendLabels(),
	}, deps.Logger)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create writer")
	}

	report := deps.Analyzer.Analyze(measurements, *windowed)
	deps.Metrics.ObserveReport("batch", len(measurements), report)

	if err := writer.WriteReport(report); err != nil {
		log.Fatal().Err(err).Msg("Failed to write report")
	}
	if err := writer.Close(); err != nil {
		log.Fatal().Err(err).Msg("Failed to flush report")
	}

	if *persist {
		if err := deps.Store.SaveReport(ctx, report); err != nil {
			log.Fatal().Err(err).Msg("Failed to persist report")
		}
		log.Info().Str("report_id", report.ID).Msg("Report persisted")
	}

	log.Info().
		Int("increased", report.Increased).
		Int("decreased", report.Decreased).
		Int("unchanged", report.Unchanged).
		Dur("duration", time.Since(startTime)).
		Msg("Sweep complete")
}

func setupGracefulShutdown() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		log.Warn().Msg("Received interrupt signal, stopping...")
		cancel()
	}()

	return ctx, cancel
}

func explicitFlags() map[string]bool {
	set := make(map[string]bool)
	flag.Visit(func(f *flag.Flag) {
		set[f.Name] = true
	})
	return set
}
