package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"net/http"
	"os"
	"sync"
	"sync/atomic"
	"time"
)

// Config holds the benchmark settings
var (
	targetURL   string
	concurrency int
	duration    time.Duration
	workload    string
)

// Metrics
var (
	totalRequests uint64
	success201    uint64 // Payments applied
	fail422       uint64 // Rejected (settled debt or bad amount)
	failOther     uint64
)

func init() {
	flag.StringVar(&targetURL, "url", "http://localhost:8080", "API Base URL")
	flag.IntVar(&concurrency, "workers", 10, "Number of concurrent workers")
	flag.DurationVar(&duration, "duration", 30*time.Second, "Test duration")
	flag.StringVar(&workload, "workload", "uniform", "Workload type: uniform | hotspot")
}

func main() {
	flag.Parse()
	log.Printf("Starting Benchmark: %s | Workers: %d | Duration: %s", workload, concurrency, duration)

	debtIDs, err := fetchActiveDebtIDs()
	if err != nil {
		log.Fatalf("Unable to fetch debts from %s: %v", targetURL, err)
	}
	if len(debtIDs) == 0 {
		log.Fatal("No active debts to pay; seed the store first")
	}
	log.Printf("Targeting %d active debts", len(debtIDs))

	start := time.Now()
	var wg sync.WaitGroup
	wg.Add(concurrency)

	for i := 0; i < concurrency; i++ {
		go worker(&wg, start, debtIDs)
	}

	wg.Wait()
	printResults(time.Since(start))
}

// fetchActiveDebtIDs pulls the ranked active debts from the overview.
// The priority target comes first, which the hotspot workload exploits.
func fetchActiveDebtIDs() ([]string, error) {
	resp, err := http.Get(targetURL + "/api/v1/overview")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var overview struct {
		ActiveDebts []struct {
			ID string `json:"id"`
		} `json:"active_debts"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&overview); err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(overview.ActiveDebts))
	for _, d := range overview.ActiveDebts {
		ids = append(ids, d.ID)
	}
	return ids, nil
}

func worker(wg *sync.WaitGroup, start time.Time, debtIDs []string) {
	defer wg.Done()
	client := &http.Client{Timeout: 5 * time.Second}

	for time.Since(start) < duration {
		id := pickDebt(debtIDs)

		payload := map[string]interface{}{
			"amount": "0.01",
		}
		body, _ := json.Marshal(payload)

		req, _ := http.NewRequest("POST", targetURL+"/api/v1/debts/"+id+"/payments", bytes.NewBuffer(body))
		req.Header.Set("Content-Type", "application/json")

		resp, err := client.Do(req)
		if err != nil {
			atomic.AddUint64(&failOther, 1)
			continue
		}

		atomic.AddUint64(&totalRequests, 1)
		switch resp.StatusCode {
		case 201:
			atomic.AddUint64(&success201, 1)
		case 422:
			atomic.AddUint64(&fail422, 1)
		default:
			atomic.AddUint64(&failOther, 1)
		}
		resp.Body.Close()
	}
}

func pickDebt(debtIDs []string) string {
	if workload == "hotspot" {
		// Hotspot: 90% of payments hit the priority target
		if rand.Float32() < 0.90 {
			return debtIDs[0]
		}
	}
	return debtIDs[rand.Intn(len(debtIDs))]
}

func printResults(d time.Duration) {
	total := atomic.LoadUint64(&totalRequests)
	s201 := atomic.LoadUint64(&success201)
	f422 := atomic.LoadUint64(&fail422)
	fErr := atomic.LoadUint64(&failOther)

	tps := float64(total) / d.Seconds()

	results := map[string]interface{}{
		"workload":         workload,
		"duration_sec":     d.Seconds(),
		"total_requests":   total,
		"throughput_tps":   tps,
		"payments_applied": s201,
		"rejected":         f422,
		"errors":           fErr,
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	enc.Encode(results)

	filename := fmt.Sprintf("results_%s.json", workload)
	file, _ := os.Create(filename)
	defer file.Close()
	json.NewEncoder(file).Encode(results)
}
