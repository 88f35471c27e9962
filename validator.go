package modelscan

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
)

// Prompt sent on confirmation calls. Anything cheap to serve works.
const validationPrompt = "ping"

// Validator confirms that an advertised capability actually serves
// requests.
type Validator interface {
	// Validate runs up to a fixed number of confirmation rounds,
	// strictly in sequence, and reports true on the first round that
	// returns success. Remaining rounds are skipped.
	Validate(ctx context.Context, host HostKey, capability string) bool
}

type httpValidator struct {
	client    *http.Client
	timeout   time.Duration
	rounds    int
	userAgent string
}

func newHTTPValidator(client *http.Client, conf Config) *httpValidator {
	return &httpValidator{
		client:    client,
		timeout:   conf.ValidateTimeout,
		rounds:    conf.ValidationRounds,
		userAgent: conf.UserAgent,
	}
}

type generateRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
}

func (v *httpValidator) Validate(ctx context.Context, host HostKey, capability string) bool {
	for round := 0; round < v.rounds; round++ {
		if v.confirm(ctx, host, capability) {
			return true
		}
	}
	log.Debug().Stringer("host", host).Str("capability", capability).
		Int("rounds", v.rounds).Msg("capability unconfirmed")
	return false
}

func (v *httpValidator) confirm(ctx context.Context, host HostKey, capability string) bool {
	ctx, cancel := context.WithTimeout(ctx, v.timeout)
	defer cancel()

	body, err := json.Marshal(generateRequest{Model: capability, Prompt: validationPrompt})
	if err != nil {
		return false
	}

	endpoint := fmt.Sprintf("http://%s%s", host, generateEndpoint)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return false
	}
	req.Header.Set("User-Agent", v.userAgent)
	req.Header.Set("Content-Type", "application/json")

	resp, err := v.client.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()

	return resp.StatusCode == http.StatusOK
}
