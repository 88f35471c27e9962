package modelscan

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
)

const (
	tagsEndpoint     = "/api/tags"
	generateEndpoint = "/api/generate"
)

// Prober lists the capabilities a host advertises.
type Prober interface {
	// Probe issues one listing call. Every failure mode, a non-200
	// status, a timeout, a refused connection or a malformed body,
	// collapses to an empty result. A host that genuinely advertises
	// nothing is indistinguishable from an unreachable one; that
	// ambiguity is inherited from the protocol and left in place.
	Probe(ctx context.Context, host HostKey) []string
}

type httpProber struct {
	client    *http.Client
	timeout   time.Duration
	userAgent string
}

func newHTTPProber(client *http.Client, conf Config) *httpProber {
	return &httpProber{
		client:    client,
		timeout:   conf.ProbeTimeout,
		userAgent: conf.UserAgent,
	}
}

type tagsResponse struct {
	Models []struct {
		Name string `json:"name"`
	} `json:"models"`
}

func (p *httpProber) Probe(ctx context.Context, host HostKey) []string {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	endpoint := fmt.Sprintf("http://%s%s", host, tagsEndpoint)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil
	}
	req.Header.Set("User-Agent", p.userAgent)

	resp, err := p.client.Do(req)
	if err != nil {
		log.Debug().Stringer("host", host).Err(err).Msg("probe failed")
		return nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		log.Debug().Stringer("host", host).Int("status", resp.StatusCode).Msg("probe rejected")
		return nil
	}

	var tags tagsResponse
	if err := json.NewDecoder(resp.Body).Decode(&tags); err != nil {
		log.Debug().Stringer("host", host).Err(err).Msg("probe body malformed")
		return nil
	}

	names := make([]string, 0, len(tags.Models))
	for _, m := range tags.Models {
		names = append(names, m.Name)
	}
	return names
}

// newHTTPClient builds the shared client for all probe and validation
// traffic. The transport's connection caps track the worker count so
// the pool size stays the single fan-out bound.
func newHTTPClient(workers int) *http.Client {
	return &http.Client{
		Transport: &http.Transport{
			MaxIdleConns:        workers,
			MaxIdleConnsPerHost: 2,
			MaxConnsPerHost:     4,
		},
	}
}
