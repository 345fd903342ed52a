package billing

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// VerifySignature checks the provider's webhook signature header against the
// raw request body. The header carries a hex HMAC-SHA256 digest, optionally
// prefixed with "sha256=".
func VerifySignature(secret string, payload []byte, signatureHeader string) bool {
	if secret == "" || signatureHeader == "" {
		return false
	}

	provided := strings.TrimPrefix(signatureHeader, "sha256=")
	decoded, err := hex.DecodeString(provided)
	if err != nil {
		return false
	}

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(payload)
	return hmac.Equal(decoded, mac.Sum(nil))
}

// SignPayload computes the signature the provider would attach to a payload.
// Used by tests and the local development webhook replayer.
func SignPayload(secret string, payload []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(payload)
	return "sha256=" + hex.EncodeToString(mac.Sum(nil))
}
