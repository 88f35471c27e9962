package modelscan

import (
	"errors"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/rs/zerolog/log"
)

var ErrNoHost = errors.New("target contains no hostname")

// normalizer turns raw target strings into canonical HostKeys.
// Target lists scraped from search engines repeat the same spelling a
// lot, so parses are memoized.
type normalizer struct {
	cache *expirable.LRU[string, HostKey]
}

func newNormalizer() *normalizer {
	return &normalizer{
		cache: expirable.NewLRU[string, HostKey](8192, nil, time.Hour),
	}
}

func (n *normalizer) parse(raw string) (HostKey, error) {
	if key, ok := n.cache.Get(raw); ok {
		return key, nil
	}

	key, err := ParseTarget(raw)
	if err != nil {
		return HostKey{}, err
	}
	n.cache.Add(raw, key)
	return key, nil
}

// ParseTarget canonicalizes one raw target. The scheme is optional and
// ignored beyond delimiting the hostname; a missing port falls back to
// DefaultPort. Two spellings of the same host:port always produce the
// same HostKey.
func ParseTarget(raw string) (HostKey, error) {
	if !strings.Contains(raw, "://") {
		raw = "http://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return HostKey{}, err
	}

	hostname := u.Hostname()
	if hostname == "" {
		return HostKey{}, ErrNoHost
	}

	port := DefaultPort
	if p := u.Port(); p != "" {
		port, err = strconv.Atoi(p)
		if err != nil {
			return HostKey{}, err
		}
	}
	return HostKey{Hostname: hostname, Port: port}, nil
}

// NormalizeTargets parses and dedups a raw target list. The result
// keeps first-seen order and holds one entry per distinct HostKey, not
// per raw spelling. The second value counts unparseable targets, which
// are dropped without ever reaching the network.
func NormalizeTargets(targets []string) ([]HostKey, int) {
	norm := newNormalizer()
	seen := make(map[HostKey]struct{}, len(targets))

	var keys []HostKey
	var dropped int
	for _, raw := range targets {
		key, err := norm.parse(raw)
		if err != nil {
			log.Debug().Str("target", raw).Err(err).Msg("dropping unparseable target")
			dropped++
			continue
		}

		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		keys = append(keys, key)
	}
	return keys, dropped
}

// dedupe collapses duplicate capability names while keeping the order
// the host advertised them in.
func dedupe(names []string) []string {
	seen := make(map[string]struct{}, len(names))
	out := names[:0:0]
	for _, name := range names {
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}
	return out
}
