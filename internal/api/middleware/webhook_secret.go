package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"
)

// Header the content store is configured to send with every delivery.
const WebhookSecretHeaderKey = "X-Webhook-Secret"

// WebhookSecretMiddleware gates the public webhook route on a shared secret.
// An empty configured secret disables the check (dev convenience).
type WebhookSecretMiddleware struct {
	Secret string
	Next   http.Handler
}

func (m WebhookSecretMiddleware) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if m.Next == nil {
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	secret := strings.TrimSpace(m.Secret)
	if secret == "" {
		m.Next.ServeHTTP(w, r)
		return
	}

	got := strings.TrimSpace(r.Header.Get(WebhookSecretHeaderKey))
	if subtle.ConstantTimeCompare([]byte(got), []byte(secret)) != 1 {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":"unauthorized","message":"invalid webhook secret"}`))
		return
	}

	m.Next.ServeHTTP(w, r)
}
