package omdb

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/Clark-Hu/movie-catalog/internal/domain"
	"github.com/Clark-Hu/movie-catalog/internal/metrics"
)

// RottenTomatoesSource is the rating source label picked out of the OMDb response.
const RottenTomatoesSource = "Rotten Tomatoes"

// Client looks up external ratings by IMDb identifier. Implementations never fail:
// every problem collapses into domain.DefaultExternalRating.
type Client interface {
	Fetch(ctx context.Context, imdbID string) domain.ExternalRating
}

// HTTPClient implements Client over the OMDb HTTP API.
type HTTPClient struct {
	baseURL *url.URL
	apiKey  string
	client  *http.Client
	logger  zerolog.Logger
}

// NewHTTPClient constructs an OMDb client. A zero timeout leaves requests
// bounded only by the transport defaults; there are no retries.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewHTTPClient(baseURL, apiKey string, timeout time.Duration, logger zerolog.Logger) (*HTTPClient, error) {
	parsed, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse omdb url: %w", err)
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return nil, fmt.Errorf("parse omdb url: %q is not absolute", baseURL)
	}

	httpClient := &http.Client{}
	if timeout > 0 {
		httpClient = &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				Proxy: http.ProxyFromEnvironment,
				DialContext: (&net.Dialer{
					Timeout:   timeout,
					KeepAlive: 30 * time.Second,
				}).DialContext,
				TLSHandshakeTimeout:   timeout,
				ResponseHeaderTimeout: timeout,
				ExpectContinueTimeout: 1 * time.Second,
			},
		}
	}

	return &HTTPClient{
		baseURL: parsed,
		apiKey:  apiKey,
		client:  httpClient,
		logger:  logger,
	}, nil
}

// Fetch returns the Rotten Tomatoes score and language for imdbID, or the
// default rating when the lookup fails for any reason.
func (c *HTTPClient) Fetch(ctx context.Context, imdbID string) domain.ExternalRating {
	result, found, err := c.lookup(ctx, imdbID)
	switch {
	case err != nil:
		metrics.RecordOMDbLookup("error")
		event := c.logger.Error()
		if IsAPIError(err) {
			event = c.logger.Warn()
		}
		event.Err(err).Str("imdb_id", imdbID).Msg("omdb: rating lookup failed")
		return domain.DefaultExternalRating()
	case !found:
		metrics.RecordOMDbLookup("default")
	default:
		metrics.RecordOMDbLookup("ok")
	}
	return result
}

func (c *HTTPClient) lookup(ctx context.Context, imdbID string) (domain.ExternalRating, bool, error) {
	endpoint := *c.baseURL
	endpoint.Path = strings.TrimRight(endpoint.Path, "/") + "/"
	q := url.Values{}
	q.Set("i", imdbID)
	q.Set("apikey", c.apiKey)
	endpoint.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return domain.ExternalRating{}, false, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return domain.ExternalRating{}, false, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return domain.ExternalRating{}, false, fmt.Errorf("omdb: upstream returned %d", resp.StatusCode)
	}

	var payload apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return domain.ExternalRating{}, false, fmt.Errorf("decode omdb response: %w", err)
	}
	if strings.EqualFold(payload.Response, "False") {
		return domain.ExternalRating{}, false, &APIError{Message: payload.Error}
	}

	result, found := convertToRating(payload)
	return result, found, nil
}

// APIError is an error reported in-band by OMDb (Response "False").
type APIError struct {
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return "omdb: request rejected"
	}
	return "omdb: " + e.Message
}

// IsAPIError reports whether err carries an in-band OMDb error.
func IsAPIError(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr)
}

type apiResponse struct {
	Response string      `json:"Response"`
	Error    string      `json:"Error"`
	Language string      `json:"Language"`
	Ratings  []apiRating `json:"Ratings"`
}

type apiRating struct {
	Source string       `json:"Source"`
	Value  domain.Score `json:"Value"`
}

// convertToRating applies the defaults to a decoded response and reports
// whether a Rotten Tomatoes rating was present.
func convertToRating(payload apiResponse) (domain.ExternalRating, bool) {
	result := domain.DefaultExternalRating()
	found := false
	for _, rating := range payload.Ratings {
		if rating.Source == RottenTomatoesSource {
			result.Score = rating.Value
			found = true
			break
		}
	}
	if payload.Language != "" {
		result.Language = payload.Language
	}
	return result, found
}
