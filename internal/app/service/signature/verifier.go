package signature

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"encoding/json"
	"strings"
	"time"

	"go.uber.org/fx"

	cfgpkg "github.com/emberhill/storefront/pkg/config"
)

// Notification is the body of a provider webhook delivery, typed once at the
// boundary instead of optional-chained through the handler.
type Notification struct {
	ID          int64     `json:"id"`
	Action      string    `json:"action"`
	Type        string    `json:"type"`
	DateCreated time.Time `json:"date_created"`
	LiveMode    bool      `json:"live_mode"`
	UserID      int64     `json:"user_id"`
	Data        struct {
		ID string `json:"id"`
	} `json:"data"`
}

// Input carries everything the signature scheme covers: the raw body, the
// x-signature and x-request-id headers, and the data.id query parameter.
type Input struct {
	Body            []byte
	SignatureHeader string
	RequestID       string
	DataID          string
}

type Result struct {
	Valid        bool
	Reason       string
	Notification *Notification
}

// Verifier checks the provider's header-and-query HMAC template.
type Verifier struct {
	secret string
}

func NewVerifier(secret string) *Verifier {
	return &Verifier{secret: secret}
}

func invalid(reason string) Result {
	return Result{Valid: false, Reason: reason}
}

// Verify runs the cheap precondition checks first and the constant-time
// signature comparison last, then parses the body only once the signature is
// known good.
func (v *Verifier) Verify(in Input) Result {
	if in.SignatureHeader == "" {
		return invalid("missing x-signature header")
	}
	if v.secret == "" {
		return invalid("webhook secret is not configured")
	}
	if len(in.Body) == 0 {
		return invalid("empty request body")
	}

	ts, received, ok := parseSignatureHeader(in.SignatureHeader)
	if !ok {
		return invalid("malformed x-signature header: want ts and v1")
	}
	if in.DataID == "" {
		return invalid("missing data.id query parameter")
	}

	computed := sign(v.secret, manifest(in.DataID, in.RequestID, ts))
	if len(computed) != len(received) ||
		subtle.ConstantTimeCompare([]byte(computed), []byte(received)) != 1 {
		return invalid("signature mismatch")
	}

	var n Notification
	if err := json.Unmarshal(in.Body, &n); err != nil {
		return invalid("signature valid but body is not parseable")
	}
	if n.Data.ID == "" {
		n.Data.ID = canonicalDataID(in.DataID)
	}
	return Result{Valid: true, Notification: &n}
}

// parseSignatureHeader extracts ts and v1 from a comma-separated
// "key=value" list, e.g. "ts=1704908010,v1=618c85345248dd820d5fd456117c2ab2ef8eda45a0282ff693eac24131a5e839".
func parseSignatureHeader(header string) (ts, v1 string, ok bool) {
	for _, part := range strings.Split(header, ",") {
		key, value, found := strings.Cut(strings.TrimSpace(part), "=")
		if !found {
			continue
		}
		switch strings.TrimSpace(key) {
		case "ts":
			ts = strings.TrimSpace(value)
		case "v1":
			v1 = strings.TrimSpace(value)
		}
	}
	return ts, v1, ts != "" && v1 != ""
}

// manifest renders the signed template. The request-id part is omitted when
// the header was absent; every present part ends with ';'.
func manifest(dataID, requestID, ts string) string {
	var b strings.Builder
	b.WriteString("id:")
	b.WriteString(canonicalDataID(dataID))
	b.WriteString(";")
	if requestID != "" {
		b.WriteString("request-id:")
		b.WriteString(requestID)
		b.WriteString(";")
	}
	b.WriteString("ts:")
	b.WriteString(ts)
	b.WriteString(";")
	return b.String()
}

// canonicalDataID lowercases alphanumeric ids per the provider's manifest
// rules; ids with other characters pass through unchanged.
func canonicalDataID(id string) string {
	for _, r := range id {
		alnum := (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
		if !alnum {
			return id
		}
	}
	return strings.ToLower(id)
}

func sign(secret, manifest string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(manifest))
	return hex.EncodeToString(mac.Sum(nil))
}

var Module = fx.Options(
	fx.Provide(func(cfg *cfgpkg.Config) *Verifier {
		return NewVerifier(cfg.MercadoPago.WebhookSecret)
	}),
)
