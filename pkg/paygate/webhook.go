package paygate

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// SignatureHeader carries the webhook signature on incoming requests.
const SignatureHeader = "Shopline-Signature"

// DefaultTolerance bounds the age of an acceptable webhook timestamp,
// limiting the replay window.
const DefaultTolerance = 5 * time.Minute

var (
	// ErrInvalidSignature means no v1 signature in the header matched.
	ErrInvalidSignature = errors.New("paygate: webhook signature mismatch")

	// ErrSignatureExpired means the timestamp fell outside the tolerance.
	ErrSignatureExpired = errors.New("paygate: webhook timestamp outside tolerance")

	// ErrMalformedHeader means the signature header could not be parsed.
	ErrMalformedHeader = errors.New("paygate: malformed signature header")
)

// Event is a webhook event delivered by the gateway.
type Event struct {
	ID        string          `json:"id"`
	Type      string          `json:"type"` // "charge.succeeded", "charge.failed", "charge.refunded"
	CreatedAt int64           `json:"created_at"`
	Data      json.RawMessage `json:"data"`
}

// Event types the gateway delivers.
const (
	EventChargeSucceeded = "charge.succeeded"
	EventChargeFailed    = "charge.failed"
	EventChargeRefunded  = "charge.refunded"
)

// VerifySignature checks header against payload using secret.
//
// The header has the form "t=<unix>,v1=<hex hmac>[,v1=...]". The signed
// message is "<t>.<payload>" and the MAC is HMAC-SHA256. Any one matching
// v1 entry passes; the timestamp must be within DefaultTolerance of now.
func VerifySignature(payload []byte, header, secret string) error {
	return verifyAt(payload, header, secret, time.Now(), DefaultTolerance)
}

func verifyAt(payload []byte, header, secret string, now time.Time, tolerance time.Duration) error {
	ts, sigs, err := parseHeader(header)
	if err != nil {
		return err
	}

	age := now.Sub(time.Unix(ts, 0))
	if age > tolerance || age < -tolerance {
		return ErrSignatureExpired
	}

	expected := Sign(payload, secret, ts)
	for _, sig := range sigs {
		if hmac.Equal([]byte(sig), []byte(expected)) {
			return nil
		}
	}
	return ErrInvalidSignature
}

// Sign computes the hex signature for payload at timestamp ts. Exposed so
// tests and the gateway simulator can produce valid headers.
func Sign(payload []byte, secret string, ts int64) string {
	mac := hmac.New(sha256.New, []byte(secret))
	fmt.Fprintf(mac, "%d.", ts)
	mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil))
}

// BuildHeader assembles a signature header for payload, used by tests.
func BuildHeader(payload []byte, secret string, ts int64) string {
	return fmt.Sprintf("t=%d,v1=%s", ts, Sign(payload, secret, ts))
}

func parseHeader(header string) (ts int64, sigs []string, err error) {
	if header == "" {
		return 0, nil, ErrMalformedHeader
	}

	for _, part := range strings.Split(header, ",") {
		k, v, ok := strings.Cut(strings.TrimSpace(part), "=")
		if !ok {
			continue
		}
		switch k {
		case "t":
			ts, err = strconv.ParseInt(v, 10, 64)
			if err != nil {
				return 0, nil, ErrMalformedHeader
			}
		case "v1":
			sigs = append(sigs, v)
		}
	}

	if ts == 0 || len(sigs) == 0 {
		return 0, nil, ErrMalformedHeader
	}
	return ts, sigs, nil
}

// ParseEvent decodes a verified webhook payload.
func ParseEvent(payload []byte) (*Event, error) {
	var ev Event
	if err := json.Unmarshal(payload, &ev); err != nil {
		return nil, fmt.Errorf("paygate: parse event: %w", err)
	}
	if ev.ID == "" || ev.Type == "" {
		return nil, errors.New("paygate: event missing id or type")
	}
	return &ev, nil
}
