package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/aretw0/airfetch"
	"github.com/aretw0/airfetch/pkg/core"
)

// generated serves count synthetic records spread over a few subfolders.
type generated int

func (g generated) FetchRecords(_ context.Context, _ core.Source, _ core.FilterOption, _ core.Notifier) core.FetchResult {
	records := make([]core.Record, int(g))
	for i := range records {
		records[i] = core.Record{
			ID: fmt.Sprintf("rec%06d", i),
			Fields: core.Fields{
				Title:     fmt.Sprintf("Benchmark Note %d", i),
				MD:        fmt.Sprintf("# Benchmark Note %d\nGenerated at %s.", i, time.Now().Format(time.RFC3339)),
				SubFolder: fmt.Sprintf("batch-%02d", i%16),
			},
		}
	}
	return core.FetchResult{Records: records, Pages: (int(g) + 99) / 100}
}

func main() {
	count := flag.Int("count", 1000, "Number of records to generate")
	settle := flag.Duration("settle", 0, "Settle delay after each modify")
	versioned := flag.Bool("git", false, "Commit each run to Git")
	keep := flag.Bool("keep", false, "Keep the benchmark vault after running")
	flag.Parse()

	benchDir, err := os.MkdirTemp("", "airfetch_bench_")
	if err != nil {
		panic(err)
	}
	defer func() {
		if !*keep {
			os.RemoveAll(benchDir)
		} else {
			fmt.Printf("Keeping bench dir: %s\n", benchDir)
		}
	}()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelWarn}))
	app, err := airfetch.New(benchDir,
		airfetch.WithLogger(logger),
		airfetch.WithFetcher(generated(*count)),
		airfetch.WithSettleDelay(*settle),
		airfetch.WithVersioning(*versioned),
		airfetch.WithAutoInit(true),
	)
	if err != nil {
		panic(err)
	}
	defer app.Close()

	ctx := context.Background()
	src := core.Source{Name: "bench", ID: "bench", Path: "Bench"}

	// Run 1: every note is created.
	fmt.Printf("Fetching %s records (Run 1 - Create)...\n", humanize.Comma(int64(*count)))
	start := time.Now()
	r1, err := app.Engine.FetchWithFilter(ctx, src, core.FilterAll)
	if err != nil {
		panic(err)
	}
	cold := time.Since(start)

	// Run 2: every note exists and is modified in place.
	fmt.Println("Fetching again (Run 2 - Modify)...")
	start = time.Now()
	r2, err := app.Engine.FetchWithFilter(ctx, src, core.FilterAll)
	if err != nil {
		panic(err)
	}
	warm := time.Since(start)

	fmt.Printf("--------------------------------------------------\n")
	fmt.Printf("Benchmark Result (%s records):\n", humanize.Comma(int64(*count)))
	fmt.Printf("  Create: %v (created %d, failed %d)\n", cold, r1.Created, r1.Failed)
	fmt.Printf("  Modify: %v (modified %d, failed %d)\n", warm, r2.Modified, r2.Failed)
	fmt.Printf("--------------------------------------------------\n")
}
