package forecast

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/finlytics/ledger-analytics-service/internal/domain"
)

const clientCacheTTL = 1 * time.Hour

// scenarioResponse is the wire shape returned by the forecast service.
type scenarioResponse struct {
	Pessimistic []domain.ForecastDay `json:"pessimistic"`
	Base        []domain.ForecastDay `json:"base"`
	Optimistic  []domain.ForecastDay `json:"optimistic"`
}

// Client fetches generated scenarios from an external daily forecast
// service. Responses are cached in memory per horizon for a fixed TTL.
type Client struct {
	baseURL    string
	httpClient *http.Client
	cache      map[string]*cachedScenarios
	cacheMu    sync.RWMutex
}

type cachedScenarios struct {
	set       ScenarioSet
	expiresAt time.Time
}

// NewClient creates a forecast client for the given service base URL.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		cache: make(map[string]*cachedScenarios),
	}
}

// GenerateScenarios implements Generator. The history argument is unused:
// the remote generator runs against its own copy of the ledger.
func (c *Client) GenerateScenarios(ctx context.Context, _ []domain.DailyNetFlow, horizonMonths int) (ScenarioSet, error) {
	cacheKey := fmt.Sprintf("months_%d", horizonMonths)

	c.cacheMu.RLock()
	if cached, ok := c.cache[cacheKey]; ok && time.Now().Before(cached.expiresAt) {
		c.cacheMu.RUnlock()
		return cached.set, nil
	}
	c.cacheMu.RUnlock()

	url := fmt.Sprintf("%s/v1/scenarios/daily?months=%d", c.baseURL, horizonMonths)
	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return ScenarioSet{}, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return ScenarioSet{}, fmt.Errorf("failed to fetch scenarios: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return ScenarioSet{}, fmt.Errorf("forecast service returned status %d", resp.StatusCode)
	}

	var body scenarioResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return ScenarioSet{}, fmt.Errorf("failed to decode response: %w", err)
	}

	set := ScenarioSet{
		Pessimistic: body.Pessimistic,
		Base:        body.Base,
		Optimistic:  body.Optimistic,
	}

	c.cacheMu.Lock()
	c.cache[cacheKey] = &cachedScenarios{
		set:       set,
		expiresAt: time.Now().Add(clientCacheTTL),
	}
	c.cacheMu.Unlock()

	return set, nil
}
