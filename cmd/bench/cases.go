// README: Check cases for the pilot data set: environment, match semantics, validation and throughput.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"smartride/internal/migrations"
	"smartride/internal/modules/pricing"
)

const (
	statusPass = "PASS"
	statusFail = "FAIL"
	statusSkip = "SKIP"
)

// Pilot coordinates from data/gaborone.yml.
var (
	tsholofelo     = []float64{-24.616, 25.930}
	absaBroadhurst = []float64{-24.6295, 25.944}
)

type Runner struct {
	cfg   Config
	httpc *http.Client
	db    *pgxpool.Pool
	redis *redis.Client
}

type Result struct {
	Name    string
	Status  string
	Latency time.Duration
	Note    string
}

type TestCase struct {
	Name string
	Run  func(ctx context.Context, r *Runner) Result
}

func NewRunner(cfg Config) *Runner {
	return &Runner{
		cfg:   cfg,
		httpc: &http.Client{Timeout: 10 * time.Second},
	}
}

func (r *Runner) RunAll(ctx context.Context) []Result {
	if r.cfg.DSN != "" {
		if db, err := pgxpool.New(ctx, r.cfg.DSN); err == nil {
			r.db = db
		}
	}
	if r.cfg.RedisAddr != "" {
		r.redis = redis.NewClient(&redis.Options{Addr: r.cfg.RedisAddr})
	}

	tests := r.cases()
	results := make([]Result, 0, len(tests))

	for _, tc := range tests {
		res := tc.Run(ctx, r)
		res.Name = tc.Name
		results = append(results, res)
		fmt.Printf("%-5s %s", res.Status, tc.Name)
		if res.Latency > 0 {
			fmt.Printf(" (%s)", res.Latency)
		}
		if res.Note != "" {
			fmt.Printf(" - %s", res.Note)
		}
		fmt.Println()
	}

	if r.db != nil {
		r.db.Close()
	}
	if r.redis != nil {
		_ = r.redis.Close()
	}

	return results
}

// candidate is the subset of the match response the checks look at.
type candidate struct {
	Vehicle struct {
		ID string `json:"id"`
	} `json:"vehicle"`
	Route *struct {
		ID string `json:"id"`
	} `json:"route"`
	EtaToDestinationMin     int  `json:"eta_to_destination_min"`
	WillPassNearDestination bool `json:"will_pass_near_destination"`
}

type matchResponse struct {
	Candidates []candidate `json:"candidates"`
}

func (r *Runner) cases() []TestCase {
	base := r.cfg.BaseURL
	return []TestCase{
		{
			Name: "Env: Postgres connect",
			Run: func(ctx context.Context, r *Runner) Result {
				if r.db == nil {
					return Result{Status: statusSkip, Note: "db not configured"}
				}
				ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
				defer cancel()
				if err := r.db.Ping(ctx); err != nil {
					return Result{Status: statusFail, Note: err.Error()}
				}
				return Result{Status: statusPass}
			},
		},
		{
			Name: "Env: Redis connect",
			Run: func(ctx context.Context, r *Runner) Result {
				if r.redis == nil {
					return Result{Status: statusSkip, Note: "redis not configured"}
				}
				ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
				defer cancel()
				if err := r.redis.Ping(ctx).Err(); err != nil {
					return Result{Status: statusFail, Note: err.Error()}
				}
				return Result{Status: statusPass}
			},
		},
		{
			Name: "Migration: tables exist",
			Run: func(ctx context.Context, r *Runner) Result {
				if r.db == nil {
					return Result{Status: statusSkip, Note: "db not configured"}
				}
				tables, err := migrations.Tables()
				if err != nil {
					return Result{Status: statusFail, Note: err.Error()}
				}
				for _, t := range tables {
					var exists bool
					err := r.db.QueryRow(ctx,
						"SELECT EXISTS (SELECT 1 FROM information_schema.tables WHERE table_name=$1)",
						t,
					).Scan(&exists)
					if err != nil {
						return Result{Status: statusFail, Note: err.Error()}
					}
					if !exists {
						return Result{Status: statusFail, Note: "missing table: " + t}
					}
				}
				return Result{Status: statusPass}
			},
		},
		{
			Name: "Data: route catalog seeded",
			Run: func(ctx context.Context, r *Runner) Result {
				if r.db == nil {
					return Result{Status: statusSkip, Note: "db not configured"}
				}
				var n int
				if err := r.db.QueryRow(ctx, "SELECT count(*) FROM routes").Scan(&n); err != nil {
					return Result{Status: statusFail, Note: err.Error()}
				}
				if n == 0 {
					return Result{Status: statusFail, Note: "no routes; run cmd/seed"}
				}
				return Result{Status: statusPass, Note: fmt.Sprintf("routes=%d", n)}
			},
		},
		{
			Name: "Data: fare rates seeded",
			Run: func(ctx context.Context, r *Runner) Result {
				if r.db == nil {
					return Result{Status: statusSkip, Note: "db not configured"}
				}
				return checkRates(ctx, pricing.NewStore(r.db))
			},
		},
		{
			Name: "Data: fleet seeded",
			Run: func(ctx context.Context, r *Runner) Result {
				if r.redis == nil {
					return Result{Status: statusSkip, Note: "redis not configured"}
				}
				n, err := r.redis.HLen(ctx, "fleet:vehicles").Result()
				if err != nil {
					return Result{Status: statusFail, Note: err.Error()}
				}
				if n == 0 {
					return Result{Status: statusFail, Note: "no vehicles; run cmd/seed"}
				}
				return Result{Status: statusPass, Note: fmt.Sprintf("vehicles=%d", n)}
			},
		},

		httpCase("API: health", http.MethodGet, base+"/health", nil, expectStatus(http.StatusOK)),

		// Match semantics on the pilot data
		httpCase("Match: routes only, no taxis returned", http.MethodPost, base+"/api/match", map[string]any{
			"origin":        tsholofelo,
			"destination":   absaBroadhurst,
			"radius_m":      1500,
			"include_taxis": false,
		}, expectCandidates(func(cs []candidate) error {
			for _, c := range cs {
				if c.Route == nil {
					return fmt.Errorf("taxi %s returned with include_taxis=false", c.Vehicle.ID)
				}
				if !c.WillPassNearDestination {
					return fmt.Errorf("route vehicle %s not marked as passing near destination", c.Vehicle.ID)
				}
			}
			return nil
		})),

		httpCase("Match: taxis included", http.MethodPost, base+"/api/match", map[string]any{
			"origin":        tsholofelo,
			"destination":   absaBroadhurst,
			"radius_m":      1500,
			"include_taxis": true,
		}, expectCandidates(func(cs []candidate) error {
			for _, c := range cs {
				if c.Route == nil {
					return nil
				}
			}
			return errors.New("no taxi candidate")
		})),

		httpCase("Match: sorted by eta_to_destination_min", http.MethodPost, base+"/api/match", map[string]any{
			"origin":        tsholofelo,
			"destination":   absaBroadhurst,
			"radius_m":      5000,
			"include_taxis": true,
		}, expectCandidates(func(cs []candidate) error {
			for i := 1; i < len(cs); i++ {
				if cs[i-1].EtaToDestinationMin > cs[i].EtaToDestinationMin {
					return fmt.Errorf("candidate %d out of order", i)
				}
			}
			return nil
		})),

		httpCase("Match: destination by stop name", http.MethodPost, base+"/api/match", map[string]any{
			"origin":           tsholofelo,
			"destination_stop": "ABSA Broadhurst",
			"radius_m":         1500,
		}, expectStatus(http.StatusOK)),

		// Validation
		httpCase("Validation: zero radius -> 400", http.MethodPost, base+"/api/match", map[string]any{
			"origin":      tsholofelo,
			"destination": absaBroadhurst,
			"radius_m":    0,
		}, expectField("radius_m")),

		httpCase("Validation: missing origin -> 400", http.MethodPost, base+"/api/match", map[string]any{
			"destination": absaBroadhurst,
		}, expectField("origin")),

		httpCase("Validation: coordinates out of range -> 400", http.MethodPost, base+"/api/match", map[string]any{
			"origin":      []float64{123.0, 456.0},
			"destination": absaBroadhurst,
		}, expectField("origin")),

		httpCase("Validation: unknown stop -> 400", http.MethodPost, base+"/api/match", map[string]any{
			"origin":           tsholofelo,
			"destination_stop": "Nowhere Junction",
		}, expectField("destination_stop")),

		// Catalog and fleet lookups
		httpCase("Routes: list", http.MethodGet, base+"/api/routes", nil, expectStatus(http.StatusOK)),
		httpCase("Routes: near destination", http.MethodGet,
			fmt.Sprintf("%s/api/routes/near?lat=%v&lng=%v&radius_m=200", base, absaBroadhurst[0], absaBroadhurst[1]),
			nil, expectStatus(http.StatusOK)),
		httpCase("Vehicles: near origin", http.MethodGet,
			fmt.Sprintf("%s/api/vehicles/near?lat=%v&lng=%v&radius_m=1500&route_id=r1&include_taxis=true", base, tsholofelo[0], tsholofelo[1]),
			nil, expectStatus(http.StatusOK)),

		// Performance
		{
			Name: "Perf: match throughput",
			Run: func(ctx context.Context, r *Runner) Result {
				return perfLoad(ctx, r, base+"/api/match", map[string]any{
					"origin":        tsholofelo,
					"destination":   absaBroadhurst,
					"radius_m":      1500,
					"include_taxis": true,
				})
			},
		},
	}
}

type rateGetter interface {
	GetRate(ctx context.Context, rideType pricing.RideType) (pricing.Rate, error)
}

// checkRates requires a valid stored rate for every ride type.
func checkRates(ctx context.Context, rates rateGetter) Result {
	notes := make([]string, 0, 2)
	for _, rt := range []pricing.RideType{pricing.RideFixedRoute, pricing.RideTaxi} {
		rate, err := rates.GetRate(ctx, rt)
		if errors.Is(err, pricing.ErrRateNotFound) {
			return Result{Status: statusFail, Note: fmt.Sprintf("no %s rate; run cmd/seed", rt)}
		}
		if err != nil {
			return Result{Status: statusFail, Note: err.Error()}
		}
		if err := rate.Validate(); err != nil {
			return Result{Status: statusFail, Note: err.Error()}
		}
		notes = append(notes, fmt.Sprintf("%s=%d%s", rt, rate.BaseFare, rate.Currency))
	}
	return Result{Status: statusPass, Note: strings.Join(notes, " ")}
}

type verifyFunc func(status int, body []byte) error

func expectStatus(want int) verifyFunc {
	return func(status int, _ []byte) error {
		if status != want {
			return fmt.Errorf("status=%d want %d", status, want)
		}
		return nil
	}
}

func expectCandidates(check func([]candidate) error) verifyFunc {
	return func(status int, body []byte) error {
		if status != http.StatusOK {
			return fmt.Errorf("status=%d", status)
		}
		var resp matchResponse
		if err := json.Unmarshal(body, &resp); err != nil {
			return err
		}
		return check(resp.Candidates)
	}
}

func expectField(field string) verifyFunc {
	return func(status int, body []byte) error {
		if status != http.StatusBadRequest {
			return fmt.Errorf("status=%d want 400", status)
		}
		var resp struct {
			Field string `json:"field"`
		}
		if err := json.Unmarshal(body, &resp); err != nil {
			return err
		}
		if resp.Field != field {
			return fmt.Errorf("field=%q want %q", resp.Field, field)
		}
		return nil
	}
}

func httpCase(name, method, url string, body any, verify verifyFunc) TestCase {
	return TestCase{
		Name: name,
		Run: func(ctx context.Context, r *Runner) Result {
			var reader io.Reader
			if body != nil {
				b, _ := json.Marshal(body)
				reader = strings.NewReader(string(b))
			}
			req, err := http.NewRequestWithContext(ctx, method, url, reader)
			if err != nil {
				return Result{Status: statusFail, Note: err.Error()}
			}
			req.Header.Set("Content-Type", "application/json")
			start := time.Now()
			resp, err := r.httpc.Do(req)
			if err != nil {
				return Result{Status: statusFail, Note: err.Error()}
			}
			data, _ := io.ReadAll(resp.Body)
			_ = resp.Body.Close()
			latency := time.Since(start)

			if err := verify(resp.StatusCode, data); err != nil {
				return Result{Status: statusFail, Latency: latency, Note: err.Error()}
			}
			return Result{Status: statusPass, Latency: latency, Note: fmt.Sprintf("status=%d", resp.StatusCode)}
		},
	}
}

func perfLoad(ctx context.Context, r *Runner, url string, payload any) Result {
	b, _ := json.Marshal(payload)
	end := time.Now().Add(r.cfg.Duration)
	var count, errCount int64
	var mu sync.Mutex
	wg := sync.WaitGroup{}

	for i := 0; i < r.cfg.Concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for time.Now().Before(end) && ctx.Err() == nil {
				req, _ := http.NewRequestWithContext(ctx, http.MethodPost, url, strings.NewReader(string(b)))
				req.Header.Set("Content-Type", "application/json")
				resp, err := r.httpc.Do(req)
				if err != nil {
					mu.Lock()
					errCount++
					mu.Unlock()
					continue
				}
				_, _ = io.Copy(io.Discard, resp.Body)
				_ = resp.Body.Close()
				mu.Lock()
				if resp.StatusCode == http.StatusOK {
					count++
				} else {
					errCount++
				}
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if count == 0 {
		return Result{Status: statusFail, Note: "no requests completed"}
	}
	rps := float64(count) / r.cfg.Duration.Seconds()
	return Result{Status: statusPass, Note: fmt.Sprintf("rps=%.1f errors=%d", rps, errCount)}
}
