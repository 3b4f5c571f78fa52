// Command snaprecipes runs a one-shot extraction from the terminal and
// prints the normalized recipe as JSON.
package main

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"

	"github.com/rs/zerolog"

	"github.com/itstoasti/Snaprecipes/internal/acquire"
	"github.com/itstoasti/Snaprecipes/internal/ai"
	"github.com/itstoasti/Snaprecipes/internal/config"
	"github.com/itstoasti/Snaprecipes/internal/extract"
	"github.com/itstoasti/Snaprecipes/recipe"
)

func main() {
	sourceURL := flag.String("url", "", "URL of the page or post to extract a recipe from")
	imagePath := flag.String("image", "", "path to a photographed recipe card")
	provider := flag.String("provider", "", "model provider: gemini or openai (default from AI_PROVIDER)")
	verbose := flag.Bool("v", false, "verbose logging")
	flag.Parse()

	level := zerolog.WarnLevel
	if *verbose {
		level = zerolog.DebugLevel
	}
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(level).With().Timestamp().Logger()

	if (*sourceURL == "") == (*imagePath == "") {
		fmt.Fprintln(os.Stderr, "provide exactly one of -url or -image")
		os.Exit(2)
	}

	cfg := config.Load()

	p, err := ai.NewProvider(cfg, *provider)
	if err != nil {
		log.Fatal().Err(err).Msg("provider setup failed")
	}
	model := ai.NewClient(p, nil, cfg.ModelTimeout, log)
	acquirer := acquire.New(cfg, nil, log)
	svc := extract.NewService(cfg, acquirer, model, log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	var result recipe.ExtractedRecipe
	if *sourceURL != "" {
		result, err = svc.FromURL(ctx, *sourceURL)
	} else {
		imageBytes, readErr := os.ReadFile(*imagePath)
		if readErr != nil {
			log.Fatal().Err(readErr).Msg("failed to read image")
		}
		result, err = svc.FromImage(ctx, base64.StdEncoding.EncodeToString(imageBytes))
	}
	if err != nil {
		log.Fatal().Err(err).Msg("extraction failed")
	}
	svc.Telemetry().Drain()

	out, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		log.Fatal().Err(err).Msg("failed to encode result")
	}
	fmt.Println(string(out))
}
