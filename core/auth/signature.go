package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
)

// ErrInvalidSignature is returned when a webhook body does not match its
// X-Line-Signature header.
var ErrInvalidSignature = errors.New("invalid signature")

// Verifier checks webhook signatures: base64(HMAC-SHA256(channelSecret, body)).
type Verifier struct {
	secret []byte
}

// New creates a Verifier for the given channel secret.
func New(channelSecret string) (*Verifier, error) {
	if channelSecret == "" {
		return nil, fmt.Errorf("empty channel secret")
	}
	return &Verifier{secret: []byte(channelSecret)}, nil
}

// Sign returns the signature header value for body.
func (v *Verifier) Sign(body []byte) string {
	return base64.StdEncoding.EncodeToString(v.mac(body))
}

// Validate returns nil when signature matches body. Uses constant-time comparison.
func (v *Verifier) Validate(body []byte, signature string) error {
	if signature == "" {
		return fmt.Errorf("%w: missing header", ErrInvalidSignature)
	}
	got, err := base64.StdEncoding.DecodeString(signature)
	if err != nil {
		return fmt.Errorf("%w: malformed header", ErrInvalidSignature)
	}
	if !hmac.Equal(got, v.mac(body)) {
		return ErrInvalidSignature
	}
	return nil
}

func (v *Verifier) mac(body []byte) []byte {
	m := hmac.New(sha256.New, v.secret)
	m.Write(body)
	return m.Sum(nil)
}
