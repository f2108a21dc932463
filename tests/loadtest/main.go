package main

import (
	"context"
	"fmt"
	json "github.com/goccy/go-json"
	"kickoff/internal/api"
	"kickoff/internal/models"
	"kickoff/internal/providers"
	"kickoff/internal/session"
	"kickoff/internal/storage"
	"kickoff/internal/structures"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"os"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

const (
	numWorkers     = 50
	phaseDuration  = 5 * time.Second
	rotateInterval = 200 * time.Millisecond
	refreshLatency = 20 * time.Millisecond
)

type result struct {
	endpoint string
	status   int
	latency  time.Duration
	err      bool
}

type stats struct {
	count     int64
	errors    int64
	latencies []time.Duration
}

// backend is an in-process stand-in for the user API whose access token
// can be revoked at will.
type backend struct {
	mu           sync.RWMutex
	generation   int
	revocations  atomic.Int64
	refreshCalls atomic.Int64
}

func (b *backend) access() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return fmt.Sprintf("access-%d", b.generation)
}

func (b *backend) refresh() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return fmt.Sprintf("refresh-%d", b.generation)
}

// revoke invalidates the current access token; the refresh token stays usable.
func (b *backend) revoke() {
	b.mu.Lock()
	b.generation++
	b.mu.Unlock()
	b.revocations.Add(1)
}

func (b *backend) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /users/refresh", func(w http.ResponseWriter, r *http.Request) {
		b.refreshCalls.Add(1)
		time.Sleep(refreshLatency)
		var req models.RefreshRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		// any refresh token of an earlier generation is accepted
		if !strings.HasPrefix(req.RefreshToken, "refresh-") {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_ = json.NewEncoder(w).Encode(models.TokenPair{AccessToken: b.access(), RefreshToken: b.refresh(), ExpiresIn: 60})
	})
	mux.HandleFunc("GET /users/me", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer "+b.access() {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"detail":"Token expired"}`))
			return
		}
		_ = json.NewEncoder(w).Encode(models.User{ID: "load", Email: "load@kickoff.test"})
	})
	return mux
}

func main() {
	fmt.Println("=== Kickoff Refresh Storm ===")
	fmt.Printf("Workers: %d | Phase: %s | Token rotation: %s\n\n", numWorkers, phaseDuration, rotateInterval)

	dir, err := os.MkdirTemp("", "kickoff-loadtest")
	if err != nil {
		fmt.Println("FAILED:", err)
		return
	}
	defer os.RemoveAll(dir)

	b := &backend{}
	srv := httptest.NewServer(b.handler())
	defer srv.Close()

	conf := &structures.Config{
		AppName: providers.AppName,
		Api:     structures.ApiConfig{BaseURL: srv.URL},
		Storage: structures.StorageConfig{Backend: storage.BackendFile, Dir: dir},
		Logger:  structures.LoggerConfig{Level: "warn", Mode: 0644, Dir: dir},
	}
	logger, err := providers.NewLogProvider(conf)
	if err != nil {
		fmt.Println("FAILED:", err)
		return
	}
	defer logger.Close()

	compressor, err := storage.NewCompressor(conf)
	if err != nil {
		fmt.Println("FAILED:", err)
		return
	}
	defer compressor.Close()

	metrics := providers.NewMetricsProvider(conf)
	adapter := storage.NewAdapter(storage.NewBackend(conf.Storage.Backend, conf, compressor, logger), logger, metrics)
	defer adapter.Close()
	tokens := session.NewTokenStore(adapter, logger)
	client := api.NewClient(conf, tokens, logger, metrics)

	ctx := context.Background()
	tokens.Set(ctx, models.TokenPair{AccessToken: b.access(), RefreshToken: b.refresh()})

	fmt.Println("--- Phase 1: Steady session (GET /users/me) ---")
	runPhase(phaseDuration, func(rng *rand.Rand) result {
		return doMe(ctx, client)
	})

	fmt.Println("\n--- Phase 2: Storm (access token revoked every interval) ---")
	stop := make(chan struct{})
	go func() {
		ticker := time.NewTicker(rotateInterval)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				b.revoke()
			}
		}
	}()
	runPhase(phaseDuration, func(rng *rand.Rand) result {
		return doMe(ctx, client)
	})
	close(stop)

	fmt.Printf("\n  Revocations: %d | Refresh calls: %d\n", b.revocations.Load(), b.refreshCalls.Load())
	if b.refreshCalls.Load() > b.revocations.Load() {
		fmt.Println("  WARNING: more refresh calls than revocations, single-flight is leaking")
	}
}

func runPhase(duration time.Duration, workFn func(rng *rand.Rand) result) {
	results := make(chan result, 10000)
	var wg sync.WaitGroup
	stop := make(chan struct{})

	for i := 0; i < numWorkers; i++ {
		wg.Add(1)
		go func(seed int64) {
			defer wg.Done()
			rng := rand.New(rand.NewSource(seed))
			for {
				select {
				case <-stop:
					return
				default:
					results <- workFn(rng)
				}
			}
		}(rand.Int63() + int64(i))
	}

	allResults := make(map[string]*stats)
	done := make(chan struct{})
	go func() {
		for r := range results {
			s, ok := allResults[r.endpoint]
			if !ok {
				s = &stats{}
				allResults[r.endpoint] = s
			}
			s.count++
			if r.err {
				s.errors++
			}
			s.latencies = append(s.latencies, r.latency)
		}
		close(done)
	}()

	time.Sleep(duration)
	close(stop)
	wg.Wait()
	close(results)
	<-done

	printResults(allResults, duration)
}

func printResults(allResults map[string]*stats, duration time.Duration) {
	var totalOps int64
	var totalErrors int64

	endpoints := make([]string, 0, len(allResults))
	for ep := range allResults {
		endpoints = append(endpoints, ep)
	}
	sort.Strings(endpoints)

	fmt.Printf("\n  %-22s %8s %6s %10s %10s %10s %10s\n",
		"Endpoint", "Reqs", "Errs", "Avg", "P50", "P95", "P99")
	fmt.Println("  " + strings.Repeat("-", 88))

	for _, ep := range endpoints {
		s := allResults[ep]
		totalOps += s.count
		totalErrors += s.errors

		sort.Slice(s.latencies, func(i, j int) bool {
			return s.latencies[i] < s.latencies[j]
		})

		fmt.Printf("  %-22s %8d %6d %10s %10s %10s %10s\n",
			ep, s.count, s.errors,
			fmtDur(avgDuration(s.latencies)),
			fmtDur(percentile(s.latencies, 0.50)),
			fmtDur(percentile(s.latencies, 0.95)),
			fmtDur(percentile(s.latencies, 0.99)))
	}

	rps := float64(totalOps) / duration.Seconds()
	fmt.Println("  " + strings.Repeat("-", 88))
	fmt.Printf("  Total: %d reqs | Errors: %d (%.1f%%) | RPS: %.0f\n",
		totalOps, totalErrors, float64(totalErrors)/float64(max(totalOps, 1))*100, rps)
}

func doMe(ctx context.Context, client *api.Client) result {
	start := time.Now()
	_, err := client.Me(ctx)
	lat := time.Since(start)
	if err != nil {
		status := 0
		if apiErr, ok := api.AsApiError(err); ok {
			status = apiErr.Status
		}
		return result{"GET /users/me", status, lat, true}
	}
	return result{"GET /users/me", http.StatusOK, lat, false}
}

func avgDuration(d []time.Duration) time.Duration {
	if len(d) == 0 {
		return 0
	}
	var sum time.Duration
	for _, v := range d {
		sum += v
	}
	return sum / time.Duration(len(d))
}

func percentile(d []time.Duration, p float64) time.Duration {
	if len(d) == 0 {
		return 0
	}
	idx := int(float64(len(d)) * p)
	if idx >= len(d) {
		idx = len(d) - 1
	}
	return d[idx]
}

func fmtDur(d time.Duration) string {
	if d < time.Millisecond {
		return fmt.Sprintf("%dµs", d.Microseconds())
	}
	return fmt.Sprintf("%.1fms", float64(d.Microseconds())/1000.0)
}
