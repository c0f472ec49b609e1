package jwtkit

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/cybergodev/jwtkit/internal/logging"
	"github.com/cybergodev/jwtkit/internal/security"
	"github.com/cybergodev/jwtkit/internal/signing"
)

const tracerName = "github.com/cybergodev/jwtkit"

// DefaultType is the "typ" header written by Sign unless overridden.
const DefaultType = "JWT"

// Engine signs and verifies compact tokens. It holds no key material and is
// safe for concurrent use.
type Engine struct {
	config  Config
	logger  *zap.Logger
	metrics *Metrics
	tracer  trace.Tracer
	now     func() time.Time
}

// NewEngine creates an Engine with optional configuration
func NewEngine(config ...Config) (*Engine, error) {
	var cfg Config
	if len(config) > 0 {
		cfg = config[0]
	} else {
		cfg = DefaultConfig()
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	e := &Engine{
		config:  cfg,
		logger:  cfg.Logger,
		metrics: cfg.Metrics,
		now:     cfg.Now,
	}
	if e.logger == nil {
		e.logger = zap.NewNop()
	}
	if e.now == nil {
		e.now = time.Now
	}

	tp := cfg.TracerProvider
	if tp == nil {
		tp = otel.GetTracerProvider()
	}
	e.tracer = tp.Tracer(tracerName)

	return e, nil
}

// Config returns a copy of the engine configuration.
func (e *Engine) Config() Config {
	return e.config
}

// Decode is the package Decode with the decode counter recorded.
func (e *Engine) Decode(token string) (*DecodedToken, error) {
	decoded, err := Decode(token)
	e.metrics.RecordDecode(err)
	if err != nil {
		e.logger.Debug("token decode failed", zap.Error(err))
	}
	return decoded, err
}

// Sign builds the header {alg, typ: "JWT"} plus overrides, encodes header and
// payload and signs the result. Overrides may replace "typ" and add any other
// parameter; an "alg" override is ignored so the declared algorithm always
// matches the key.
func (e *Engine) Sign(payload Payload, key string, alg Algorithm, overrides ...map[string]any) (string, error) {
	return e.SignWithContext(context.Background(), payload, key, alg, overrides...)
}

// SignWithContext is Sign with a context that is checked before any work
// starts and carries the trace span.
func (e *Engine) SignWithContext(ctx context.Context, payload Payload, key string, alg Algorithm, overrides ...map[string]any) (token string, err error) {
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	default:
	}

	start := time.Now()
	ctx, span := e.tracer.Start(ctx, "jwtkit.Sign",
		trace.WithAttributes(attribute.String("jwt.algorithm", algorithmLabel(alg))))
	defer func() {
		e.metrics.RecordSign(alg, err, time.Since(start))
		logger := logging.WithTrace(ctx, e.logger)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			logger.Debug("token sign failed",
				zap.String("algorithm", algorithmLabel(alg)), zap.Error(err))
		} else {
			span.SetStatus(codes.Ok, "")
			logger.Debug("token signed",
				zap.String("algorithm", string(alg)), zap.String("family", string(alg.Family())))
		}
		span.End()
	}()

	return e.sign(ctx, payload, key, alg, overrides)
}

func (e *Engine) sign(ctx context.Context, payload Payload, key string, alg Algorithm, overrides []map[string]any) (string, error) {
	method, err := signing.GetMethod(string(alg))
	if err != nil {
		return "", &UnsupportedAlgorithmError{Algorithm: alg}
	}

	signKey, err := signing.ParseSigningKey(method, key)
	if err != nil {
		return "", &KeyFormatError{Algorithm: alg, Err: err}
	}
	defer signing.ReleaseKey(signKey)

	if method.Family() == signing.FamilyHMAC {
		if err := e.checkSecret(ctx, alg, key); err != nil {
			return "", err
		}
	}

	encoded, err := Encode(alg, buildHeader(alg, overrides), payload)
	if err != nil {
		return "", err
	}

	token, err := signing.SignedString(encoded.SigningInput, method, signKey)
	if err != nil {
		if errors.Is(err, signing.ErrInvalidKey) {
			return "", &KeyFormatError{Algorithm: alg, Err: err}
		}
		return "", err
	}
	return token, nil
}

// checkSecret warns about or refuses a guessable HMAC secret.
func (e *Engine) checkSecret(ctx context.Context, alg Algorithm, secret string) error {
	secureKey := security.NewSecureBytesFromString(secret)
	defer secureKey.Destroy()

	reason := security.WeakKeyReason(secureKey.Bytes())
	if reason == "" {
		return nil
	}
	if e.config.RejectWeakSecrets {
		return &KeyFormatError{Algorithm: alg, Err: fmt.Errorf("weak HMAC secret: %s", reason)}
	}

	trace.SpanFromContext(ctx).AddEvent("weak_secret", trace.WithAttributes(attribute.String("reason", reason)))
	logging.WithTrace(ctx, e.logger).Warn("weak HMAC secret", zap.String("algorithm", string(alg)), zap.String("reason", reason))
	return nil
}

func buildHeader(alg Algorithm, overrides []map[string]any) Header {
	header := Header{Algorithm: alg, Type: DefaultType}

	for _, o := range overrides {
		for name, value := range o {
			switch name {
			case headerAlgorithm:
				continue
			case headerType:
				if s, ok := value.(string); ok && s != "" {
					header.Type = s
					if header.Extra != nil {
						delete(header.Extra, headerType)
					}
					continue
				}
				header.Type = ""
			}
			if header.Extra == nil {
				header.Extra = make(map[string]any)
			}
			header.Extra[name] = value
		}
	}

	// explicit alg wins over everything
	header.Algorithm = alg
	return header
}

// Verify checks token's signature with key under alg. The caller's alg picks
// the verification method, and the token's own "alg" header must name the
// same algorithm. Verify never fails with an error: every problem, from a
// malformed token to a signature mismatch, is reported in the result.
func (e *Engine) Verify(token, key string, alg Algorithm) ValidationResult {
	return e.VerifyWithContext(context.Background(), token, key, alg)
}

// VerifyWithContext is Verify with a context that is checked before any work
// starts and carries the trace span.
func (e *Engine) VerifyWithContext(ctx context.Context, token, key string, alg Algorithm) (result ValidationResult) {
	select {
	case <-ctx.Done():
		return invalidResult(alg, ctx.Err().Error())
	default:
	}

	start := time.Now()
	ctx, span := e.tracer.Start(ctx, "jwtkit.Verify",
		trace.WithAttributes(attribute.String("jwt.algorithm", algorithmLabel(alg))))
	defer func() {
		e.metrics.RecordVerify(alg, result.Valid, time.Since(start))
		span.SetAttributes(attribute.Bool("jwt.valid", result.Valid))
		if result.Valid {
			span.SetStatus(codes.Ok, "")
		} else {
			span.SetStatus(codes.Error, result.Error)
		}
		logging.WithTrace(ctx, e.logger).Debug("token verified",
			zap.String("algorithm", algorithmLabel(alg)),
			zap.Bool("valid", result.Valid),
			zap.String("reason", result.Error))
		span.End()
	}()

	return e.verify(ctx, token, key, alg)
}

func (e *Engine) verify(_ context.Context, token, key string, alg Algorithm) ValidationResult {
	method, err := signing.GetMethod(string(alg))
	if err != nil {
		return invalidResult(alg, (&UnsupportedAlgorithmError{Algorithm: alg}).Error())
	}

	decoded, err := e.Decode(token)
	if err != nil {
		return invalidResult(alg, err.Error())
	}

	if decoded.Header.Algorithm != alg {
		return invalidResult(alg, fmt.Sprintf("token header declares algorithm %q, expected %q", decoded.Header.Algorithm, alg))
	}

	verifyKey, err := signing.ParseVerifyingKey(method, key)
	if err != nil {
		return invalidResult(alg, (&KeyFormatError{Algorithm: alg, Err: err}).Error())
	}
	defer signing.ReleaseKey(verifyKey)

	if err := method.Verify(decoded.Raw.SigningInput(), decoded.Raw.Signature, verifyKey); err != nil {
		if errors.Is(err, signing.ErrInvalidKey) {
			return invalidResult(alg, (&KeyFormatError{Algorithm: alg, Err: err}).Error())
		}
		return invalidResult(alg, "signature verification failed")
	}

	if e.config.ValidateTimeClaims {
		if reason := e.checkTimeClaims(decoded.Payload); reason != "" {
			return invalidResult(alg, reason)
		}
	}

	return validResult(alg)
}

// checkTimeClaims returns why the payload is not currently valid, or "".
func (e *Engine) checkTimeClaims(p Payload) string {
	now := e.now()
	leeway := e.config.Leeway

	if p.ExpiresAt != nil && !now.Before(p.ExpiresAt.Add(leeway)) {
		return "token has expired"
	}
	if p.NotBefore != nil && now.Add(leeway).Before(p.NotBefore.Time) {
		return "token is not yet valid"
	}
	return ""
}
