package jwtkit

// SignHMAC signs with a shared secret. alg must be HS256, HS384 or HS512.
func (e *Engine) SignHMAC(payload Payload, secret string, alg Algorithm, overrides ...map[string]any) (string, error) {
	return e.signFamily(FamilyHMAC, payload, secret, alg, overrides)
}

// SignRSA signs with a PEM private key. alg must be RS256, RS384 or RS512.
func (e *Engine) SignRSA(payload Payload, privateKeyPEM string, alg Algorithm, overrides ...map[string]any) (string, error) {
	return e.signFamily(FamilyRSA, payload, privateKeyPEM, alg, overrides)
}

// SignECDSA signs with a PEM private key on the curve alg requires.
func (e *Engine) SignECDSA(payload Payload, privateKeyPEM string, alg Algorithm, overrides ...map[string]any) (string, error) {
	return e.signFamily(FamilyECDSA, payload, privateKeyPEM, alg, overrides)
}

// VerifyHMAC verifies with a shared secret.
func (e *Engine) VerifyHMAC(token, secret string, alg Algorithm) ValidationResult {
	return e.verifyFamily(FamilyHMAC, token, secret, alg)
}

// VerifyRSA verifies with a PEM public key.
func (e *Engine) VerifyRSA(token, publicKeyPEM string, alg Algorithm) ValidationResult {
	return e.verifyFamily(FamilyRSA, token, publicKeyPEM, alg)
}

// VerifyECDSA verifies with a PEM public key.
func (e *Engine) VerifyECDSA(token, publicKeyPEM string, alg Algorithm) ValidationResult {
	return e.verifyFamily(FamilyECDSA, token, publicKeyPEM, alg)
}

func (e *Engine) signFamily(family Family, payload Payload, key string, alg Algorithm, overrides []map[string]any) (string, error) {
	if alg.Family() != family {
		return "", &UnsupportedAlgorithmError{Algorithm: alg, Expected: family}
	}
	return e.Sign(payload, key, alg, overrides...)
}

func (e *Engine) verifyFamily(family Family, token, key string, alg Algorithm) ValidationResult {
	if alg.Family() != family {
		return invalidResult(alg, (&UnsupportedAlgorithmError{Algorithm: alg, Expected: family}).Error())
	}
	return e.Verify(token, key, alg)
}
