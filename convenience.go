package jwtkit

import (
	"sync"
	"sync/atomic"
)

var (
	defaultEngine     atomic.Pointer[Engine]
	defaultEngineOnce sync.Once
)

// Default returns the engine behind the package-level helpers. It is built
// on first use from DefaultConfig.
func Default() *Engine {
	defaultEngineOnce.Do(func() {
		if defaultEngine.Load() != nil {
			return
		}
		e, err := NewEngine()
		if err != nil {
			// DefaultConfig always validates
			panic(err)
		}
		defaultEngine.CompareAndSwap(nil, e)
	})
	return defaultEngine.Load()
}

// SetDefault replaces the engine used by the package-level helpers, for
// example to attach a logger or metrics. A nil engine is ignored.
func SetDefault(e *Engine) {
	if e == nil {
		return
	}
	defaultEngine.Store(e)
}

// Sign signs payload with the default engine. See Engine.Sign.
func Sign(payload Payload, key string, alg Algorithm, overrides ...map[string]any) (string, error) {
	return Default().Sign(payload, key, alg, overrides...)
}

// Verify verifies token with the default engine. See Engine.Verify.
func Verify(token, key string, alg Algorithm) ValidationResult {
	return Default().Verify(token, key, alg)
}

// SignHMAC signs payload with a shared secret using the default engine.
func SignHMAC(payload Payload, secret string, alg Algorithm, overrides ...map[string]any) (string, error) {
	return Default().SignHMAC(payload, secret, alg, overrides...)
}

// SignRSA signs payload with a PEM RSA private key using the default engine.
func SignRSA(payload Payload, privateKeyPEM string, alg Algorithm, overrides ...map[string]any) (string, error) {
	return Default().SignRSA(payload, privateKeyPEM, alg, overrides...)
}

// SignECDSA signs payload with a PEM EC private key using the default engine.
func SignECDSA(payload Payload, privateKeyPEM string, alg Algorithm, overrides ...map[string]any) (string, error) {
	return Default().SignECDSA(payload, privateKeyPEM, alg, overrides...)
}

// VerifyHMAC verifies token with a shared secret using the default engine.
func VerifyHMAC(token, secret string, alg Algorithm) ValidationResult {
	return Default().VerifyHMAC(token, secret, alg)
}

// VerifyRSA verifies token with a PEM RSA public key using the default engine.
func VerifyRSA(token, publicKeyPEM string, alg Algorithm) ValidationResult {
	return Default().VerifyRSA(token, publicKeyPEM, alg)
}

// VerifyECDSA verifies token with a PEM EC public key using the default engine.
func VerifyECDSA(token, publicKeyPEM string, alg Algorithm) ValidationResult {
	return Default().VerifyECDSA(token, publicKeyPEM, alg)
}
