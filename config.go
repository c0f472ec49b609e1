package jwtkit

import (
	"fmt"
	"time"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// MaxLeeway bounds Config.Leeway.
const MaxLeeway = 2 * time.Minute

// Config represents Engine configuration
type Config struct {
	// ValidateTimeClaims makes Verify reject tokens whose exp has passed or
	// whose nbf lies in the future. Off by default: verification then only
	// checks the signature.
	ValidateTimeClaims bool `yaml:"validate_time_claims" json:"validate_time_claims"`

	// Leeway tolerates clock skew when ValidateTimeClaims is set.
	Leeway time.Duration `yaml:"leeway" json:"leeway"`

	// RejectWeakSecrets refuses HMAC secrets that look guessable. When false
	// such secrets are accepted with a warning in the log.
	RejectWeakSecrets bool `yaml:"reject_weak_secrets" json:"reject_weak_secrets"`

	// Logger receives debug outcomes and weak-secret warnings. Keys and
	// tokens are never logged. Nil means no logging.
	Logger *zap.Logger `yaml:"-" json:"-"`

	// Metrics, when set, counts every decode, sign and verify.
	Metrics *Metrics `yaml:"-" json:"-"`

	// TracerProvider supplies the tracer for Sign and Verify spans. Nil
	// means the global provider.
	TracerProvider trace.TracerProvider `yaml:"-" json:"-"`

	// Now overrides the clock used for time claims.
	Now func() time.Time `yaml:"-" json:"-"`
}

// DefaultConfig returns the configuration used by NewEngine when none is
// given.
func DefaultConfig() Config {
	return Config{
		ValidateTimeClaims: false,
		Leeway:             0,
		RejectWeakSecrets:  false,
	}
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	if c == nil {
		return ErrInvalidConfig
	}

	if c.Leeway < 0 || c.Leeway > MaxLeeway {
		return fmt.Errorf("%w: leeway must be between 0 and %s, got %s", ErrInvalidConfig, MaxLeeway, c.Leeway)
	}

	return nil
}
