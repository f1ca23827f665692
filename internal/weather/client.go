package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"

	"github.com/buildsight/backend/pkg/circuitbreaker"
	"github.com/buildsight/backend/pkg/logger"
)

// Client queries a daily precipitation forecast and turns it into a 0-100
// delay-risk figure for outdoor construction work. The endpoint is guarded by
// a circuit breaker so a flapping provider cannot slow down computations.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	breaker    *circuitbreaker.CircuitBreaker
}

func NewClient(baseURL, apiKey string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		breaker: circuitbreaker.New("weather", circuitbreaker.Config{
			FailureThreshold: 3,
			Timeout:          2 * time.Minute,
			Logger:           logger.Log,
		}),
	}
}

// DelayRisk returns the mean daily precipitation probability over the
// forecast window, which doubles as the 0-100 weather delay risk.
func (c *Client) DelayRisk(ctx context.Context) (float64, error) {
	var risk float64

	err := c.breaker.Execute(ctx, func() error {
		var err error
		risk, err = c.fetchPrecipitationRisk(ctx)
		return err
	})
	if err != nil {
		return 0, err
	}

	return risk, nil
}

func (c *Client) fetchPrecipitationRisk(ctx context.Context) (float64, error) {
	params := url.Values{}
	params.Add("daily", "precipitation_probability_max")
	params.Add("forecast_days", "7")
	if c.apiKey != "" {
		params.Add("apikey", c.apiKey)
	}

	reqURL := fmt.Sprintf("%s/forecast?%s", c.baseURL, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("failed to fetch forecast: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("forecast returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, fmt.Errorf("failed to read response: %w", err)
	}

	var forecast struct {
		Daily struct {
			PrecipitationProbabilityMax []float64 `json:"precipitation_probability_max"`
		} `json:"daily"`
	}

	if err := json.Unmarshal(body, &forecast); err != nil {
		return 0, fmt.Errorf("failed to parse forecast: %w", err)
	}

	probs := forecast.Daily.PrecipitationProbabilityMax
	if len(probs) == 0 {
		return 0, fmt.Errorf("forecast contained no daily probabilities")
	}

	var sum float64
	for _, p := range probs {
		sum += p
	}
	risk := sum / float64(len(probs))
	if risk < 0 {
		risk = 0
	}
	if risk > 100 {
		risk = 100
	}

	logger.Debug("Weather delay risk fetched",
		zap.Float64("risk", risk),
		zap.Int("days", len(probs)),
	)

	return risk, nil
}
