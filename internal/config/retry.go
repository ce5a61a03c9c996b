package config

import "git.home.luguber.info/inful/javadocref/internal/foundation/normalization"

// RetryBackoffMode enumerates supported backoff strategies for index fetches.
type RetryBackoffMode string

const (
	RetryBackoffFixed       RetryBackoffMode = "fixed"
	RetryBackoffLinear      RetryBackoffMode = "linear"
	RetryBackoffExponential RetryBackoffMode = "exponential"
)

var retryBackoffNormalizer = normalization.NewNormalizer(map[string]RetryBackoffMode{
	"fixed":       RetryBackoffFixed,
	"linear":      RetryBackoffLinear,
	"exponential": RetryBackoffExponential,
}, RetryBackoffLinear)
