// README: Smoke checks covering the page flow, the JSON API, CORS and the Redis session store.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"tripgenie/internal/shell"
)

const (
	StatusPass = "PASS"
	StatusFail = "FAIL"
	StatusSkip = "SKIP"
)

type Runner struct {
	cfg   Config
	httpc *http.Client
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
		cfg: cfg,
		httpc: &http.Client{
			Timeout: 3 * time.Minute,
			// redirects are asserted, not followed
			CheckRedirect: func(*http.Request, []*http.Request) error { return http.ErrUseLastResponse },
		},
	}
}

func (r *Runner) RunAll(ctx context.Context) []Result {
	if r.cfg.RedisAddr != "" {
		r.redis = redis.NewClient(&redis.Options{Addr: r.cfg.RedisAddr})
		defer r.redis.Close()
	}

	tests := r.cases()
	results := make([]Result, 0, len(tests))
	for _, tc := range tests {
		res := tc.Run(ctx, r)
		res.Name = tc.Name
		results = append(results, res)
		fmt.Printf("%-5s %s", res.Status, tc.Name)
		if res.Latency > 0 {
			fmt.Printf(" (%s)", res.Latency.Round(time.Millisecond))
		}
		if res.Note != "" {
			fmt.Printf(" - %s", res.Note)
		}
		fmt.Println()
	}
	return results
}

func kyoto() map[string]any {
	return map[string]any{
		"destination":         "Kyoto, Japan",
		"duration":            3,
		"budget":              1200,
		"interests":           []string{"Culture"},
		"specialRequirements": "",
	}
}

func (r *Runner) cases() []TestCase {
	base := r.cfg.BaseURL
	return []TestCase{
		httpCase("Health", http.MethodGet, base+"/health", nil, http.StatusOK),
		httpCase("Metrics exposition", http.MethodGet, base+"/metrics", nil, http.StatusOK),
		httpCase("Form page", http.MethodGet, base+"/", nil, http.StatusOK),
		httpCase("Session state", http.MethodGet, base+"/api/state", nil, http.StatusOK),
		httpCase("API rejects invalid preferences", http.MethodPost, base+"/api/itineraries",
			map[string]any{"destination": "", "duration": 0, "budget": 10}, http.StatusBadRequest),
		httpCase("API rejects malformed JSON", http.MethodPost, base+"/api/itineraries", "{", http.StatusBadRequest),
		{
			Name: "CORS preflight",
			Run: func(ctx context.Context, r *Runner) Result {
				req, _ := http.NewRequestWithContext(ctx, http.MethodOptions, base+"/api/itineraries", nil)
				req.Header.Set("Origin", r.cfg.Origin)
				req.Header.Set("Access-Control-Request-Method", http.MethodPost)
				res, resp := r.do(req)
				if resp == nil {
					return res
				}
				if got := resp.Header.Get("Access-Control-Allow-Origin"); got == "" {
					return Result{Status: StatusFail, Latency: res.Latency, Note: fmt.Sprintf("status=%d, origin %s not allowed", resp.StatusCode, r.cfg.Origin)}
				}
				return Result{Status: StatusPass, Latency: res.Latency, Note: fmt.Sprintf("status=%d", resp.StatusCode)}
			},
		},
		{
			Name: "Redis session store",
			Run:  redisSessions,
		},
		{
			Name: "API generates Kyoto itinerary",
			Run: func(ctx context.Context, r *Runner) Result {
				if !r.cfg.Generate {
					return Result{Status: StatusSkip, Note: "enable with -generate"}
				}
				return generateOnce(ctx, r, base+"/api/itineraries")
			},
		},
		{
			Name: "Browser flow Idle -> Loading -> Success",
			Run: func(ctx context.Context, r *Runner) Result {
				if !r.cfg.Generate {
					return Result{Status: StatusSkip, Note: "enable with -generate"}
				}
				return browserFlow(ctx, r, base)
			},
		},
	}
}

func httpCase(name, method, url string, body any, okStatuses ...int) TestCase {
	return TestCase{
		Name: name,
		Run: func(ctx context.Context, r *Runner) Result {
			req, err := http.NewRequestWithContext(ctx, method, url, jsonBody(body))
			if err != nil {
				return Result{Status: StatusFail, Note: err.Error()}
			}
			req.Header.Set("Content-Type", "application/json")
			res, resp := r.do(req)
			if resp == nil {
				return res
			}
			if contains(okStatuses, resp.StatusCode) {
				res.Status = StatusPass
			} else {
				res.Status = StatusFail
			}
			res.Note = fmt.Sprintf("status=%d", resp.StatusCode)
			return res
		},
	}
}

// do sends req and drains the body. A nil response means the request failed.
func (r *Runner) do(req *http.Request) (Result, *http.Response) {
	start := time.Now()
	resp, err := r.httpc.Do(req)
	if err != nil {
		return Result{Status: StatusFail, Note: err.Error()}, nil
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	_ = resp.Body.Close()
	return Result{Latency: time.Since(start)}, resp
}

func generateOnce(ctx context.Context, r *Runner, url string) Result {
	req, _ := http.NewRequestWithContext(ctx, http.MethodPost, url, jsonBody(kyoto()))
	req.Header.Set("Content-Type", "application/json")
	start := time.Now()
	resp, err := r.httpc.Do(req)
	if err != nil {
		return Result{Status: StatusFail, Note: err.Error()}
	}
	defer resp.Body.Close()
	latency := time.Since(start)
	if resp.StatusCode != http.StatusOK {
		return Result{Status: StatusFail, Latency: latency, Note: fmt.Sprintf("status=%d", resp.StatusCode)}
	}

	var body struct {
		Itinerary struct {
			TripTitle  string            `json:"trip_title"`
			DailyPlans []json.RawMessage `json:"daily_plans"`
		} `json:"itinerary"`
		Sources []json.RawMessage `json:"sources"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return Result{Status: StatusFail, Latency: latency, Note: err.Error()}
	}
	if n := len(body.Itinerary.DailyPlans); n != 3 {
		return Result{Status: StatusFail, Latency: latency, Note: fmt.Sprintf("expected 3 days, got %d", n)}
	}
	return Result{Status: StatusPass, Latency: latency, Note: fmt.Sprintf("%q, %d sources", body.Itinerary.TripTitle, len(body.Sources))}
}

func browserFlow(ctx context.Context, r *Runner, base string) Result {
	jar, _ := cookiejar.New(nil)
	client := *r.httpc
	client.Jar = jar

	form := url.Values{
		"destination": {"Kyoto, Japan"},
		"duration":    {"3"},
		"budget":      {"1200"},
		"interests":   {"Culture"},
	}
	start := time.Now()
	req, _ := http.NewRequestWithContext(ctx, http.MethodPost, base+"/plan", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	resp, err := client.Do(req)
	if err != nil {
		return Result{Status: StatusFail, Note: err.Error()}
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusSeeOther {
		return Result{Status: StatusFail, Note: fmt.Sprintf("submit status=%d", resp.StatusCode)}
	}

	seen := []string{}
	ticker := time.NewTicker(r.cfg.PollEvery)
	defer ticker.Stop()
	for {
		status, err := sessionStatus(ctx, &client, base)
		if err != nil {
			return Result{Status: StatusFail, Latency: time.Since(start), Note: err.Error()}
		}
		if len(seen) == 0 || seen[len(seen)-1] != status {
			seen = append(seen, status)
		}
		switch shell.Status(status) {
		case shell.StatusSuccess:
			return Result{Status: StatusPass, Latency: time.Since(start), Note: strings.Join(seen, " -> ")}
		case shell.StatusFailed, shell.StatusIdle:
			return Result{Status: StatusFail, Latency: time.Since(start), Note: strings.Join(seen, " -> ")}
		}
		select {
		case <-ctx.Done():
			return Result{Status: StatusFail, Latency: time.Since(start), Note: "timed out while " + status}
		case <-ticker.C:
		}
	}
}

func sessionStatus(ctx context.Context, client *http.Client, base string) (string, error) {
	req, _ := http.NewRequestWithContext(ctx, http.MethodGet, base+"/api/state", nil)
	resp, err := client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	var body struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", err
	}
	return body.Status, nil
}

// redisSessions checks the store is reachable and every stored session decodes.
func redisSessions(ctx context.Context, r *Runner) Result {
	if r.redis == nil {
		return Result{Status: StatusSkip, Note: "redis not configured"}
	}
	start := time.Now()
	if err := r.redis.Ping(ctx).Err(); err != nil {
		return Result{Status: StatusFail, Note: err.Error()}
	}

	counts := map[shell.Status]int{}
	iter := r.redis.Scan(ctx, 0, shell.SessionKeyPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		b, err := r.redis.Get(ctx, iter.Val()).Bytes()
		if err == redis.Nil {
			continue
		}
		if err != nil {
			return Result{Status: StatusFail, Note: err.Error()}
		}
		st, err := shell.UnmarshalState(b)
		if err != nil {
			return Result{Status: StatusFail, Note: fmt.Sprintf("%s: %v", iter.Val(), err)}
		}
		counts[st.Status()]++
	}
	if err := iter.Err(); err != nil {
		return Result{Status: StatusFail, Note: err.Error()}
	}
	return Result{
		Status:  StatusPass,
		Latency: time.Since(start),
		Note: fmt.Sprintf("idle=%d loading=%d success=%d failed=%d",
			counts[shell.StatusIdle], counts[shell.StatusLoading], counts[shell.StatusSuccess], counts[shell.StatusFailed]),
	}
}

func jsonBody(body any) io.Reader {
	switch v := body.(type) {
	case nil:
		return nil
	case string:
		return strings.NewReader(v)
	default:
		b, _ := json.Marshal(v)
		return strings.NewReader(string(b))
	}
}

func contains(list []int, v int) bool {
	for _, x := range list {
		if x == v {
			return true
		}
	}
	return false
}
