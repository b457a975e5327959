package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/povarna/sonar-sweep/internal/batch"
	red "github.com/povarna/sonar-sweep/internal/redis"
	"github.com/povarna/sonar-sweep/internal/stream/redis"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	input := flag.String("input", "", "File with one depth per line")
	sounding := flag.String("sounding", "", "Sounding identifier the depths belong to")
	stream := flag.String("stream", redis.DefaultStream, "Stream name")
	flag.Parse()

	if *input == "" || *sounding == "" {
		fmt.Fprintln(os.Stderr, "Usage: producer -input <file> -sounding <id>")
		flag.PrintDefaults()
		os.Exit(1)
	}

	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	if err := run(*input, *sounding, *stream); err != nil {
		log.Error().Err(err).Msg("producer failed")
		os.Exit(1)
	}
}

func run(input, sounding, stream string) error {
	_ = godotenv.Load()

	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		addr = "localhost:6379"
	}

	f, err := os.Open(input)
	if err != nil {
		return err
	}
	defer f.Close()

	ctx := context.Background()
	depths, err := batch.Collect(batch.NewReader(f, &log.Logger).ReadAll(ctx))
	if err != nil {
		return err
	}

	client, err := red.Connect(ctx, red.Options{Addr: addr, Password: os.Getenv("REDIS_PASSWORD"), Attempts: 3}, &log.Logger)
	if err != nil {
		return err
	}
	defer client.Close()

	producer := redis.NewProducer(client, stream)
	for _, depth := range depths {
		if _, err := producer.Publish(ctx, sounding, depth); err != nil {
			return fmt.Errorf("failed to publish depth %d: %w", depth, err)
		}
	}

	log.Info().Str("stream", stream).Str("sounding", sounding).Int("depths", len(depths)).Msg("Published successfully!")

	tally, err := redis.Tally(ctx, client, sounding)
	if err != nil {
		return err
	}
	if len(tally) > 0 {
		log.Info().Interface("tally", tally).Msg("Current tally")
	}
	return nil
}
