// Package main is the entry point for diceforge, the balance-curve tuner.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"

	"github.com/samdwyer/diceforge/internal/fit"
	"github.com/samdwyer/diceforge/internal/gamedata"
	"github.com/samdwyer/diceforge/internal/optimizer"
	"github.com/samdwyer/diceforge/internal/telemetry"
	"github.com/samdwyer/diceforge/internal/tuner"
)

func main() {
	headless := flag.Bool("headless", false, "fit every class and print effect schemas as JSON instead of starting the tuner")
	scenario := flag.String("scenario", "", "run the global die optimizer on a YAML scenario file and print the result as JSON")
	seed := flag.Int64("seed", 0, "optimizer seed (0 = time-based)")
	iterations := flag.Int("iterations", 5000, "optimizer iterations for interactive runs")
	faces := flag.Int("faces", 6, "number of faces for the shared die design")
	flag.Parse()

	// Load .env file for local development
	if err := godotenv.Load(); err != nil {
		// Not fatal - env vars might be set directly
		log.Printf("Note: .env file not loaded: %v", err)
	}

	setupOTelEnv()

	ctx := context.Background()

	shutdown, err := telemetry.Setup(ctx)
	if err != nil {
		log.Printf("Warning: telemetry setup failed: %v", err)
		log.Printf("Tuner will run without observability")
	} else {
		defer func() {
			if err := shutdown(ctx); err != nil {
				log.Printf("Error shutting down telemetry: %v", err)
			}
		}()
	}

	switch {
	case *scenario != "":
		if err := runScenario(ctx, *scenario, *seed); err != nil {
			log.Fatalf("Scenario failed: %v", err)
		}
	case *headless:
		if err := runHeadless(); err != nil {
			log.Fatalf("Headless fit failed: %v", err)
		}
	default:
		t, err := tuner.New(tuner.Config{
			Seed:       *seed,
			Iterations: *iterations,
			NumFaces:   *faces,
		})
		if err != nil {
			log.Fatalf("Failed to initialize tuner: %v", err)
		}
		if err := t.Run(ctx); err != nil {
			log.Fatalf("Tuner error: %v", err)
		}
	}
}

// runHeadless fits every class in the embedded roster and prints the effect
// schemas, keyed by class, as indented JSON.
func runHeadless() error {
	catalog := gamedata.MustLoadCatalog()
	tiers := gamedata.MustLoadClassifier()
	classes, err := gamedata.LoadClasses()
	if err != nil {
		return err
	}

	schemas := make(map[string]fit.EffectSchema, len(classes))
	for _, cls := range classes {
		params, err := cls.CurveParams()
		if err != nil {
			return fmt.Errorf("class %s: %w", cls.Key, err)
		}
		results, err := fit.FitCurve(catalog, params, cls.Constraints(tiers))
		if err != nil {
			return fmt.Errorf("class %s: %w", cls.Key, err)
		}
		schemas[cls.Key] = fit.ResultsToEffectSchema(results, cls.RuneMultiplier)
	}
	return printJSON(schemas)
}

// runScenario loads a YAML scenario and runs the global die optimizer on it.
func runScenario(ctx context.Context, path string, seed int64) error {
	sc, err := loadScenario(path)
	if err != nil {
		return err
	}
	if seed != 0 {
		sc.Options.Seed = seed
	}

	res, err := optimizer.Optimize(ctx, sc.Classes, sc.Options)
	if err != nil {
		return err
	}
	return printJSON(res)
}

// printJSON writes a value as indented JSON to stdout, the form external
// tools and clipboard export expect.
func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// setupOTelEnv configures OTEL environment variables from our custom env vars.
func setupOTelEnv() {
	os.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "https://api.honeycomb.io")

	apiKey := os.Getenv("HONEYCOMB_DICEFORGE_API_KEY")
	dataset := os.Getenv("HONEYCOMB_DICEFORGE_DATASET")
	if dataset == "" {
		dataset = "diceforge" // default dataset name
	}
	if apiKey != "" {
		os.Setenv("OTEL_EXPORTER_OTLP_HEADERS",
			fmt.Sprintf("x-honeycomb-team=%s,x-honeycomb-dataset=%s", apiKey, dataset))
	}
}
