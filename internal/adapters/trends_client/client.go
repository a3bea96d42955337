package trends_client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"property-service/internal/contextkeys"
	"property-service/internal/core/port"
	"time"
)

// maxResponseBytes ограничивает размер тела ответа внешнего сервиса
const maxResponseBytes = 1 << 20

// Config - базовые URL внешних сервисов; externalID дописывается в конец URL
type Config struct {
	PopularityTrendURL string
	AreaTrendURL       string
	ContactURL         string
	Timeout            time.Duration
}

// TrendsAPIClient - клиент сервисов трендов популярности, трендов района и контактов
type TrendsAPIClient struct {
	baseURLs   map[port.TrendsKind]string
	timeout    time.Duration
	httpClient *http.Client
}

func NewTrendsAPIClient(cfg Config) (*TrendsAPIClient, error) {
	baseURLs := map[port.TrendsKind]string{
		port.TrendsPopularity: cfg.PopularityTrendURL,
		port.TrendsArea:       cfg.AreaTrendURL,
		port.TrendsContact:    cfg.ContactURL,
	}
	for kind, raw := range baseURLs {
		parsed, err := url.Parse(raw)
		if err != nil || parsed.Scheme == "" || parsed.Host == "" {
			return nil, fmt.Errorf("invalid base url for %s: %q", kind, raw)
		}
	}

	return &TrendsAPIClient{
		baseURLs:   baseURLs,
		timeout:    cfg.Timeout,
		httpClient: &http.Client{},
	}, nil
}

// doRequest - внутренний хелпер для выполнения запросов
func (c *TrendsAPIClient) doRequest(ctx context.Context, method, url string) (*http.Response, error) {
	traceID := contextkeys.TraceIDFromContext(ctx)

	req, err := http.NewRequestWithContext(ctx, method, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	if traceID != "" {
		req.Header.Set(contextkeys.TraceHeader, traceID)
	}
	req.Header.Set("Accept", "application/json")

	return c.httpClient.Do(req)
}

// Fetch реализует TrendsClientPort: GET <base><externalID>, тело возвращается как есть
func (c *TrendsAPIClient) Fetch(ctx context.Context, kind port.TrendsKind, externalID string) (json.RawMessage, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	clientLogger := logger.WithFields(port.Fields{
		"component":   "TrendsAPIClient",
		"method":      "Fetch",
		"kind":        kind,
		"external_id": externalID,
	})

	baseURL, ok := c.baseURLs[kind]
	if !ok {
		return nil, fmt.Errorf("unknown trends kind %q", kind)
	}
	if externalID == "" {
		return nil, fmt.Errorf("external id is empty")
	}

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	requestURL := baseURL + url.PathEscape(externalID)
	resp, err := c.doRequest(ctx, http.MethodGet, requestURL)
	if err != nil {
		clientLogger.Warn("Upstream request failed", port.Fields{"url": requestURL, "error": err.Error()})
		return nil, fmt.Errorf("failed to perform %s request: %w", kind, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read %s response: %w", kind, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		err := fmt.Errorf("%s service returned non-2xx status: %d, body: %s", kind, resp.StatusCode, string(body))
		clientLogger.Warn("Received non-OK response from upstream", port.Fields{"status_code": resp.StatusCode})
		return nil, err
	}

	if !json.Valid(body) {
		return nil, fmt.Errorf("%s service returned invalid JSON", kind)
	}

	clientLogger.Debug("Upstream response received", port.Fields{"bytes": len(body)})
	return json.RawMessage(body), nil
}
