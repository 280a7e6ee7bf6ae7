package main

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"math/rand"
	"net/http"
	"os"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// Config holds the benchmark settings
var (
	targetURL   string
	concurrency int
	duration    time.Duration
	readRatio   float64
	days        int
)

// Metrics
var (
	totalRequests uint64
	recorded200   uint64
	rejected422   uint64
	listed200     uint64
	failOther     uint64
)

var payees = []string{"Starbucks", "Zoo", "Whole Foods", "Shell", "Amtrak"}

func init() {
	flag.StringVar(&targetURL, "url", "http://localhost:8080", "API Base URL")
	flag.IntVar(&concurrency, "workers", 10, "Number of concurrent workers")
	flag.DurationVar(&duration, "duration", 30*time.Second, "Test duration")
	flag.Float64Var(&readRatio, "reads", 0.5, "Fraction of requests that are GET /expenses/{date}")
	flag.IntVar(&days, "days", 30, "Number of distinct dates to spread traffic over")
}

func main() {
	flag.Parse()
	log := logrus.New()
	log.Infof("Starting Benchmark: reads=%.2f | Workers: %d | Duration: %s", readRatio, concurrency, duration)

	ctx, cancel := context.WithTimeout(context.Background(), duration)
	defer cancel()

	start := time.Now()
	g, gctx := errgroup.WithContext(ctx)
	for i := 0; i < concurrency; i++ {
		g.Go(func() error {
			worker(gctx)
			return nil
		})
	}
	g.Wait()

	printResults(log, time.Since(start))
}

func worker(ctx context.Context) {
	client := &http.Client{Timeout: 5 * time.Second}

	for ctx.Err() == nil {
		date := time.Date(2017, 6, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, rand.Intn(days)).Format("2006-01-02")

		var (
			req *http.Request
			err error
		)
		read := rand.Float64() < readRatio
		if read {
			req, err = http.NewRequestWithContext(ctx, http.MethodGet, targetURL+"/expenses/"+date, nil)
		} else {
			payload := map[string]interface{}{
				"payee":  payees[rand.Intn(len(payees))],
				"amount": float64(rand.Intn(10000)+1) / 100,
				"date":   date,
			}
			// A small share of incomplete writes exercises the rejection path.
			if rand.Float64() < 0.05 {
				delete(payload, "payee")
			}
			body, _ := json.Marshal(payload)
			req, err = http.NewRequestWithContext(ctx, http.MethodPost, targetURL+"/expenses", bytes.NewBuffer(body))
			if err == nil {
				req.Header.Set("Content-Type", "application/json")
			}
		}
		if err != nil {
			atomic.AddUint64(&failOther, 1)
			continue
		}

		resp, err := client.Do(req)
		if err != nil {
			if ctx.Err() == nil {
				atomic.AddUint64(&failOther, 1)
			}
			continue
		}

		atomic.AddUint64(&totalRequests, 1)
		switch {
		case resp.StatusCode == http.StatusOK && read:
			atomic.AddUint64(&listed200, 1)
		case resp.StatusCode == http.StatusOK:
			atomic.AddUint64(&recorded200, 1)
		case resp.StatusCode == http.StatusUnprocessableEntity:
			atomic.AddUint64(&rejected422, 1)
		default:
			atomic.AddUint64(&failOther, 1)
		}
		resp.Body.Close()
	}
}

func printResults(log *logrus.Logger, d time.Duration) {
	total := atomic.LoadUint64(&totalRequests)

	results := map[string]interface{}{
		"read_ratio":       readRatio,
		"duration_sec":     d.Seconds(),
		"total_requests":   total,
		"throughput_rps":   float64(total) / d.Seconds(),
		"expenses_created": atomic.LoadUint64(&recorded200),
		"expenses_refused": atomic.LoadUint64(&rejected422),
		"lookups_served":   atomic.LoadUint64(&listed200),
		"errors":           atomic.LoadUint64(&failOther),
	}

	// Print JSON for the python plotter to consume
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	enc.Encode(results)

	// Also save to file
	filename := fmt.Sprintf("results_reads_%.0f.json", readRatio*100)
	file, err := os.Create(filename)
	if err != nil {
		log.WithError(err).Error("unable to save results")
		return
	}
	defer file.Close()
	json.NewEncoder(file).Encode(results)
}
