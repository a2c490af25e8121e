package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"slices"
	"strings"

	"github.com/credon/authserver/internal/auth"
	"github.com/credon/authserver/internal/services"
	"github.com/credon/authserver/types"
)

// AccessGate resolves bearer tokens to request principals and enforces
// role membership.
type AccessGate struct {
	codec   *auth.TokenCodec
	service *services.AuthService
	logger  *slog.Logger
}

func NewAccessGate(codec *auth.TokenCodec, service *services.AuthService, logger *slog.Logger) *AccessGate {
	return &AccessGate{codec: codec, service: service, logger: logger}
}

// Authenticate requires a well-formed bearer token, verifies it, and loads
// the identity it names. The password-free user is attached to the request
// context as the principal. The three rejection causes carry distinct
// messages but the same 401 status.
func (g *AccessGate) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tokenString, err := bearerToken(r)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "access token is required")
			return
		}

		claims, err := g.codec.Parse(tokenString)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "invalid or expired token")
			return
		}

		user, err := g.service.GetCurrentUser(r.Context(), claims.UserID)
		if err != nil {
			// The token outlived its subject.
			if errors.Is(err, services.ErrUserNotFound) {
				writeError(w, http.StatusUnauthorized, "invalid token - user not found")
				return
			}
			g.logger.ErrorContext(r.Context(), "authentication failed", "error", err)
			writeError(w, http.StatusInternalServerError, "internal server error during authentication")
			return
		}

		next.ServeHTTP(w, r.WithContext(withPrincipal(r.Context(), user)))
	})
}

// Authorize admits only principals whose role is in the allow-list. It must
// run after Authenticate; with no principal attached it fails closed.
func (g *AccessGate) Authorize(allowedRoles ...types.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal, ok := PrincipalFromContext(r.Context())
			if !ok {
				writeError(w, http.StatusUnauthorized, "authentication required")
				return
			}
			if !slices.Contains(allowedRoles, principal.Role) {
				writeError(w, http.StatusForbidden, "insufficient permissions")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func bearerToken(r *http.Request) (string, error) {
	header := strings.TrimSpace(r.Header.Get("Authorization"))
	if header == "" {
		return "", errors.New("missing authorization")
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", errors.New("invalid authorization")
	}
	token := strings.TrimSpace(parts[1])
	if token == "" {
		return "", errors.New("invalid authorization")
	}
	return token, nil
}
