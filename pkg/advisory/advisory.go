package advisory

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// Checker asks an external clinical service whether the medicines in a cart
// have dangerous drug-drug interactions.
type Checker interface {
	// CheckInteractions returns a hold describing the interaction, or nil if
	// the cart is safe. Implementations fail open: an unreachable or erroring
	// service must report "no hold", never block checkout.
	CheckInteractions(ctx context.Context, medicineNames []string) *Hold
}

// Hold is an advisory safety hold on a checkout. It blocks commit until the
// operator explicitly overrides it.
type Hold struct {
	Warning string `json:"warning"`
}

// Config holds settings for the HTTP advisory client
type Config struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

// HTTPChecker calls an external advisory endpoint over HTTP
type HTTPChecker struct {
	config Config
	client *http.Client
}

// NewHTTPChecker creates a new HTTP-backed interaction checker
func NewHTTPChecker(config Config) *HTTPChecker {
	if config.Timeout == 0 {
		config.Timeout = 5 * time.Second
	}
	return &HTTPChecker{
		config: config,
		client: &http.Client{Timeout: config.Timeout},
	}
}

type checkRequest struct {
	Medicines []string `json:"medicines"`
}

type checkResponse struct {
	Warning string `json:"warning"`
}

// CheckInteractions posts the cart's medicine names to the advisory service.
// Any transport or decode failure results in no hold: availability is
// preferred over a hard clinical gate here, a tradeoff the product owners
// have accepted for now.
func (c *HTTPChecker) CheckInteractions(ctx context.Context, medicineNames []string) *Hold {
	if len(medicineNames) < 2 {
		return nil
	}

	body, err := json.Marshal(checkRequest{Medicines: medicineNames})
	if err != nil {
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		fmt.Sprintf("%s/v1/interactions/check", c.config.BaseURL), bytes.NewReader(body))
	if err != nil {
		return nil
	}
	req.Header.Set("Content-Type", "application/json")
	if c.config.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.config.APIKey)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil
	}

	var result checkResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil
	}

	warning := strings.TrimSpace(result.Warning)
	if warning == "" || strings.Contains(strings.ToLower(warning), "no significant interactions") {
		return nil
	}

	return &Hold{Warning: warning}
}

// NullChecker never reports a hold. Used when no advisory service is
// configured.
type NullChecker struct{}

// NewNullChecker creates a checker that always reports no hold
func NewNullChecker() *NullChecker {
	return &NullChecker{}
}

// CheckInteractions always returns no hold
func (c *NullChecker) CheckInteractions(ctx context.Context, medicineNames []string) *Hold {
	return nil
}
