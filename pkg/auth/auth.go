// Package auth verifies OIDC bearer tokens and carries the caller's user id on the
// request context.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/coreos/go-oidc/v3/oidc"

	"github.com/JaimeStill/scout/pkg/handlers"
)

var (
	// ErrMissingToken indicates the request carried no bearer token.
	ErrMissingToken = errors.New("missing bearer token")
	// ErrInvalidToken indicates the bearer token failed verification.
	ErrInvalidToken = errors.New("invalid bearer token")
	// ErrNoUser indicates no authenticated user is attached to the context.
	ErrNoUser = errors.New("unable to authenticate user")
)

type userKey struct{}

// WithUserID returns a context carrying the authenticated user id.
func WithUserID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, userKey{}, id)
}

// UserID returns the authenticated user id from ctx.
func UserID(ctx context.Context) (string, error) {
	id, ok := ctx.Value(userKey{}).(string)
	if !ok || id == "" {
		return "", ErrNoUser
	}
	return id, nil
}

// Require returns the user id attached to r. When none is present it writes a 401
// response and reports false.
func Require(w http.ResponseWriter, r *http.Request, logger *slog.Logger) (string, bool) {
	id, err := UserID(r.Context())
	if err != nil {
		handlers.RespondError(w, logger, http.StatusUnauthorized, err)
		return "", false
	}
	return id, true
}

// Authenticator resolves the caller of a request to a user id.
type Authenticator struct {
	verifier *oidc.IDTokenVerifier
	devUser  string
	logger   *slog.Logger
}

// New creates an Authenticator. With a JWKS URL the verifier fetches keys directly;
// otherwise the issuer's discovery document is loaded, which contacts the issuer.
// The keyset keeps ctx for later key refreshes.
func New(ctx context.Context, cfg *Config, logger *slog.Logger) (*Authenticator, error) {
	a := &Authenticator{
		devUser: cfg.DevUser,
		logger:  logger.With("system", "auth"),
	}

	if cfg.DevMode() {
		a.logger.Warn("token verification disabled", "dev_user", cfg.DevUser)
		return a, nil
	}

	oc := &oidc.Config{
		ClientID:          cfg.ClientID,
		SkipClientIDCheck: cfg.SkipClientIDCheck,
	}

	if cfg.JWKSURL != "" {
		keys := oidc.NewRemoteKeySet(ctx, cfg.JWKSURL)
		a.verifier = oidc.NewVerifier(cfg.Issuer, keys, oc)
		return a, nil
	}

	provider, err := oidc.NewProvider(ctx, cfg.Issuer)
	if err != nil {
		return nil, fmt.Errorf("discover issuer %s: %w", cfg.Issuer, err)
	}
	a.verifier = provider.Verifier(oc)

	return a, nil
}

// Authenticate returns the user id for r. In development mode a request without a
// token runs as the configured development user.
func (a *Authenticator) Authenticate(r *http.Request) (string, error) {
	token, ok := bearer(r)

	if a.verifier == nil {
		if ok {
			a.logger.Debug("ignoring bearer token in development mode")
		}
		return a.devUser, nil
	}

	if !ok {
		return "", ErrMissingToken
	}

	idToken, err := a.verifier.Verify(r.Context(), token)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	if idToken.Subject == "" {
		return "", fmt.Errorf("%w: empty subject", ErrInvalidToken)
	}

	return idToken.Subject, nil
}

// Middleware rejects unauthenticated requests with 401 before the handler runs and
// attaches the user id to authenticated requests.
func (a *Authenticator) Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodOptions {
				next.ServeHTTP(w, r)
				return
			}

			id, err := a.Authenticate(r)
			if err != nil {
				a.logger.Debug("authentication failed", "error", err)
				handlers.RespondError(w, a.logger, http.StatusUnauthorized, ErrNoUser)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUserID(r.Context(), id)))
		})
	}
}

func bearer(r *http.Request) (string, bool) {
	h := r.Header.Get("Authorization")
	scheme, token, found := strings.Cut(h, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
