package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
)

// CSRFToken returns the form token bound to the given session.
func (k *Keys) CSRFToken(sessionID string) string {
	mac := hmac.New(sha256.New, k.csrf)
	mac.Write([]byte(sessionID))
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}

// VerifyCSRFToken reports whether token was minted for sessionID.
func (k *Keys) VerifyCSRFToken(sessionID, token string) bool {
	if sessionID == "" || token == "" {
		return false
	}
	got, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return false
	}
	mac := hmac.New(sha256.New, k.csrf)
	mac.Write([]byte(sessionID))
	return hmac.Equal(got, mac.Sum(nil))
}
