// Command buoycheck fetches one station report, runs it through the full
// pipeline, and prints the normalized observation with any range warnings.
// Useful for verifying a station id or a custom source list before
// deploying the service.
//
// Usage:
//
//	go run ./cmd/buoycheck -station 46042
//	go run ./cmd/buoycheck -station 46042 -sources https://mirror.example/46042.txt -timeout 5s
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/couchcryptid/buoy-report-service/internal/cache"
	"github.com/couchcryptid/buoy-report-service/internal/domain"
	"github.com/couchcryptid/buoy-report-service/internal/fetch"
	"github.com/couchcryptid/buoy-report-service/internal/observability"
	"github.com/couchcryptid/buoy-report-service/internal/pipeline"
)

func main() {
	station := flag.String("station", "", "NDBC station id, e.g. 46042")
	sources := flag.String("sources", "", "comma-separated candidate source URLs (default: NDBC realtime2 + 5day2 for the station)")
	timeout := flag.Duration("timeout", 10*time.Second, "per-attempt fetch timeout")
	flag.Parse()

	if *station == "" {
		flag.Usage()
		os.Exit(1)
	}

	os.Exit(run(*station, *sources, *timeout))
}

func run(station, sources string, timeout time.Duration) int {
	urls := splitSources(sources)
	if len(urls) == 0 {
		id := strings.ToUpper(station)
		urls = []string{
			fmt.Sprintf("https://www.ndbc.noaa.gov/data/realtime2/%s.txt", id),
			fmt.Sprintf("https://www.ndbc.noaa.gov/data/5day2/%s_5day.txt", id),
		}
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	metrics := observability.NewMetricsForTesting()

	fetcher := fetch.New(urls, timeout, logger, metrics)
	svc := pipeline.New(fetcher, cache.New(time.Minute), nil, station, "", logger, metrics)

	ctx, cancel := context.WithTimeout(context.Background(), timeout*time.Duration(len(urls)+1))
	defer cancel()

	res, err := svc.Report(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: %v\n", err)
		return 1
	}

	o := res.Observation
	fmt.Printf("=== Station %s ===\n", station)
	fmt.Printf("  %-22s %s\n", "source", o.Source)
	fmt.Printf("  %-22s %s", "observed at (UTC)", o.ObservedAt.Format(time.RFC3339))
	if o.Stale(domain.StaleAfter) {
		fmt.Print("  [STALE]")
	}
	fmt.Println()

	printField("wind dir (deg)", o.WindDirDeg)
	printField("wind (kts)", o.WindKts)
	printField("gust (kts)", o.WindGustKts)
	printField("wave height (ft)", o.WaveHeightFt)
	printField("wave height (m)", o.WaveHeightM)
	printField("dominant period (s)", o.DominantPeriodSec)
	printField("average period (s)", o.AveragePeriodSec)
	printField("swell dir (deg)", o.SwellDirDeg)
	printField("pressure (hPa)", o.PressureHpa)
	printField("air temp (F)", o.AirTempF)
	printField("water temp (F)", o.WaterTempF)

	if len(res.Warnings) > 0 {
		fmt.Println("\nRange warnings:")
		for i, w := range res.Warnings {
			fmt.Printf("  [%d] %s\n", i+1, w)
		}
	}

	return 0
}

func printField(label string, v *float64) {
	if v == nil {
		fmt.Printf("  %-22s -\n", label)
		return
	}
	fmt.Printf("  %-22s %.2f\n", label, *v)
}

func splitSources(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
