package config

import (
	"fmt"
	"strings"

	"git.home.luguber.info/inful/javadocref/internal/foundation/normalization"
)

// NormalizationResult captures adjustments and warnings from normalization.
type NormalizationResult struct{ Warnings []string }

// NormalizeConfig canonicalizes enumerated and bounded fields in place.
// Unknown values fall back to defaults with a warning. Source entries are left
// alone; the engine reports the ones it drops when it builds its registry.
func NormalizeConfig(c *Config) (*NormalizationResult, error) {
	if c == nil {
		return nil, fmt.Errorf("config nil")
	}
	res := &NormalizationResult{}
	c.Logging.Level = normalizeEnum("logging.level", c.Logging.Level, logLevelNormalizer, res)
	c.Logging.Format = normalizeEnum("logging.format", c.Logging.Format, logFormatNormalizer, res)
	c.Fetch.Backoff = normalizeEnum("fetch.backoff", c.Fetch.Backoff, retryBackoffNormalizer, res)

	if c.Fetch.Retries != nil && *c.Fetch.Retries < 0 {
		res.Warnings = append(res.Warnings, warnChanged("fetch.retries", *c.Fetch.Retries, 0))
		zero := 0
		c.Fetch.Retries = &zero
	}
	if c.Fetch.MaxDelay < c.Fetch.InitialDelay {
		res.Warnings = append(res.Warnings, warnChanged("fetch.max_delay", c.Fetch.MaxDelay, c.Fetch.InitialDelay))
		c.Fetch.MaxDelay = c.Fetch.InitialDelay
	}

	return res, nil
}

func normalizeEnum[T ~string](field string, v T, n *normalization.Normalizer[T], res *NormalizationResult) T {
	if strings.TrimSpace(string(v)) == "" {
		return n.Default()
	}
	canonical, ok := n.Lookup(string(v))
	if !ok {
		res.Warnings = append(res.Warnings, warnUnknown(field, string(v), string(n.Default())))
		return n.Default()
	}
	if canonical != v {
		res.Warnings = append(res.Warnings, warnChanged(field, v, canonical))
	}
	return canonical
}

func warnChanged(field string, from, to any) string {
	return fmt.Sprintf("normalized %s from '%v' to '%v'", field, from, to)
}

func warnUnknown(field, value, def string) string {
	return fmt.Sprintf("unknown %s '%s', defaulting to %s", field, value, def)
}
