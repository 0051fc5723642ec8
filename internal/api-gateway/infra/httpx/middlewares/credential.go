package middlewares

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/jcmexdev/petcare-sagas/internal/pkg/interceptors/constants"
)

// CredentialHeader carries the credential ID of the authenticated caller. It
// is set by the authentication layer in front of the gateway.
const CredentialHeader = "X-Credential-Id"

// RequireCredential rejects requests without a caller identity and stores the
// identity in the request context.
func RequireCredential(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		credentialID := strings.TrimSpace(r.Header.Get(CredentialHeader))
		if credentialID == "" {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			_ = json.NewEncoder(w).Encode(map[string]string{
				"error":   "unauthenticated",
				"message": "missing " + CredentialHeader + " header",
			})
			return
		}

		ctx := context.WithValue(r.Context(), constants.ContextKeyCredentialID, credentialID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// CredentialID returns the caller identity stored by RequireCredential.
func CredentialID(ctx context.Context) string {
	id, _ := ctx.Value(constants.ContextKeyCredentialID).(string)
	return id
}
