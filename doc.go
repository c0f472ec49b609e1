// Package jwtkit decodes, encodes, signs and verifies JSON Web Tokens in
// compact serialization.
//
// Eight algorithms are supported in three families: HMAC (HS256, HS384,
// HS512) keyed by a shared secret, RSASSA-PKCS1-v1_5 (RS256, RS384, RS512)
// and ECDSA (ES256 on P-256, ES384 on P-384) keyed by PEM encoded keys.
//
// Decoding never verifies:
//
//	decoded, err := jwtkit.Decode(token)
//
// Signing and verification take the algorithm explicitly. Verification uses
// the caller's algorithm, never the one the token declares, and reports its
// outcome as a ValidationResult instead of an error:
//
//	token, err := jwtkit.SignHMAC(jwtkit.Payload{Subject: "12345"}, secret, jwtkit.HS256)
//	result := jwtkit.VerifyHMAC(token, secret, jwtkit.HS256)
//	if !result.Valid {
//		log.Println(result.Error)
//	}
//
// An Engine carries configuration (time claim checks, weak secret policy),
// a zap logger and Prometheus metrics. The package-level helpers use a
// default Engine that can be replaced with SetDefault.
package jwtkit
