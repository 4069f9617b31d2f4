package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/geocoding-microservice/internal/config"
	"github.com/geocoding-microservice/internal/domain"
	"github.com/geocoding-microservice/internal/infrastructure/mapbox"
	"github.com/geocoding-microservice/internal/pkg/logger"
	"go.uber.org/zap"
)

// geocode - утилита для ручной проверки пакетного геокодирования.
//
//	geocode -country us,ca "20001" "Toronto"
//	cat queries.txt | geocode -limit 3
//	geocode -single "1600 Pennsylvania Ave NW"
func main() {
	var (
		countries = flag.String("country", "", "comma separated ISO 3166-1 alpha-2 codes")
		types     = flag.String("types", "", "comma separated result types")
		limit     = flag.Int("limit", 0, "results per query (1..10)")
		single    = flag.Bool("single", false, "print only the best coordinate of each query")
		timeout   = flag.Duration("timeout", 30*time.Second, "request timeout")
	)
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New("warn")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	queries := flag.Args()
	if len(queries) == 0 {
		queries, err = readQueries(os.Stdin)
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to read queries: %v\n", err)
			os.Exit(1)
		}
	}
	if len(queries) == 0 {
		fmt.Fprintln(os.Stderr, "no queries given")
		os.Exit(2)
	}

	opts := domain.BatchOptions{
		AllowedCountries: splitList(*countries),
		Types:            splitList(*types),
		Limit:            *limit,
	}

	geocoder := mapbox.NewMapboxGeocoder(&cfg.Mapbox, log).(*mapbox.Geocoder)

	if *single {
		if err := printLocations(os.Stdout, mapbox.NewGeoAdapter(geocoder, opts, *timeout), queries); err != nil {
			fmt.Fprintf(os.Stderr, "geocoding failed: %v\n", err)
			os.Exit(1)
		}
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	resp, err := geocoder.GeocodeBatch(ctx, queries, opts)
	if err != nil {
		log.Error("Batch geocoding failed", zap.Error(err))
		fmt.Fprintf(os.Stderr, "geocoding failed: %v\n", err)
		os.Exit(1)
	}

	renderTable(os.Stdout, resp)
}

func readQueries(r io.Reader) ([]string, error) {
	var queries []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			queries = append(queries, line)
		}
	}
	return queries, scanner.Err()
}

func splitList(raw string) []string {
	if raw == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
