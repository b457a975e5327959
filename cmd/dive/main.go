package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/povarna/sonar-sweep/internal/batch"
	"github.com/povarna/sonar-sweep/internal/course"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	input := flag.String("input", "", "Instruction file relative path, '-' for stdin")
	quiet := flag.Bool("quiet", false, "Print only the final position")
	flag.Parse()

	if *input == "" {
		log.Fatal().Msg("required flag -input not provided")
	}

	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var source io.Reader
	if *input == "-" {
		source = os.Stdin
	} else {
		f, err := os.Open(*input)
		if err != nil {
			log.Fatal().Err(err).Str("file", *input).Msg("Failed to open input file")
		}
		defer f.Close()
		source = f
	}

	instructions, err := course.Collect(batch.NewReader(source, &log.Logger).Lines(ctx))
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid course")
	}

	if *quiet {
		pos := course.Final(instructions)
		fmt.Printf("Forward: %d; Depth: %d\nProduct %d\n", pos.Horizontal, pos.Depth, pos.Product())
		return
	}

	for _, step := range course.Plot(instructions) {
		for _, line := range step.Lines() {
			fmt.Println(line)
		}
	}
}
