package sampler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/shiftgate/shiftgate/internal/entity"
)

// Queries are the instant-vector expressions evaluated per sample. The
// placeholders $ENV and $WINDOW are replaced with the environment ID and
// the trailing window (e.g. "30s") before the query is sent.
type Queries struct {
	ErrorRate     string `yaml:"error_rate"`
	LatencyP99    string `yaml:"latency_p99"`
	Saturation    string `yaml:"saturation"`
	TrafficVolume string `yaml:"traffic_volume"`
}

// PromSource samples environment health from a Prometheus HTTP API.
type PromSource struct {
	baseURL string
	queries Queries
	client  *http.Client
	log     zerolog.Logger
}

func NewPromSource(baseURL string, queries Queries, log zerolog.Logger) *PromSource {
	return &PromSource{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		queries: queries,
		client:  &http.Client{Timeout: 10 * time.Second},
		log:     log,
	}
}

// Sample evaluates the configured queries for envID over the trailing
// window and assembles one snapshot. Latency queries are expected to
// return seconds.
func (s *PromSource) Sample(ctx context.Context, envID string, window time.Duration) (entity.HealthSnapshot, error) {
	snap := entity.HealthSnapshot{Env: envID, At: time.Now()}

	errorRate, err := s.query(ctx, s.queries.ErrorRate, envID, window)
	if err != nil {
		return entity.HealthSnapshot{}, fmt.Errorf("error rate query: %w", err)
	}
	latency, err := s.query(ctx, s.queries.LatencyP99, envID, window)
	if err != nil {
		return entity.HealthSnapshot{}, fmt.Errorf("latency query: %w", err)
	}
	saturation, err := s.query(ctx, s.queries.Saturation, envID, window)
	if err != nil {
		return entity.HealthSnapshot{}, fmt.Errorf("saturation query: %w", err)
	}
	volume, err := s.query(ctx, s.queries.TrafficVolume, envID, window)
	if err != nil {
		return entity.HealthSnapshot{}, fmt.Errorf("traffic volume query: %w", err)
	}

	snap.ErrorRate = errorRate
	snap.LatencyP99 = time.Duration(latency * float64(time.Second))
	snap.Saturation = saturation
	snap.TrafficVolume = int64(volume)
	return snap, nil
}

// promResponse is the subset of the Prometheus query API response shape
// this source reads.
type promResponse struct {
	Status string `json:"status"`
	Data   struct {
		Result []struct {
			Value [2]any `json:"value"`
		} `json:"result"`
	} `json:"data"`
}

func (s *PromSource) query(ctx context.Context, expr, envID string, window time.Duration) (float64, error) {
	expr = strings.ReplaceAll(expr, "$ENV", envID)
	expr = strings.ReplaceAll(expr, "$WINDOW", window.String())

	u := fmt.Sprintf("%s/api/v1/query?query=%s", s.baseURL, url.QueryEscape(expr))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return 0, err
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("prometheus returned %s", resp.Status)
	}

	var body promResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return 0, fmt.Errorf("decode response: %w", err)
	}
	if body.Status != "success" {
		return 0, fmt.Errorf("prometheus status %q", body.Status)
	}
	if len(body.Data.Result) == 0 {
		return 0, fmt.Errorf("query %q returned no series", expr)
	}

	raw, ok := body.Data.Result[0].Value[1].(string)
	if !ok {
		return 0, fmt.Errorf("query %q returned non-scalar value", expr)
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("parse value %q: %w", raw, err)
	}
	return v, nil
}
