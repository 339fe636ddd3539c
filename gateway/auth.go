package gateway

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"

	"zupytoken/config"
	"zupytoken/observability/logging"
)

// Authenticator verifies HMAC-signed bearer tokens on mutating routes.
// Disabled auth passes everything through, which the config layer only
// permits alongside a loopback listener.
type Authenticator struct {
	cfg    config.Auth
	secret []byte
	skew   time.Duration
	log    *slog.Logger
}

// NewAuthenticator builds an Authenticator from the loaded config.
func NewAuthenticator(cfg config.Auth, log *slog.Logger) *Authenticator {
	if log == nil {
		log = slog.Default()
	}
	return &Authenticator{
		cfg:    cfg,
		secret: []byte(strings.TrimSpace(cfg.Secret)),
		skew:   2 * time.Minute,
		log:    log,
	}
}

// Middleware rejects requests without a valid bearer token. Rejections are
// logged with the credential masked.
func (a *Authenticator) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !a.cfg.Enabled {
			next.ServeHTTP(w, r)
			return
		}
		token := extractBearer(r.Header.Get("Authorization"))
		if token == "" {
			http.Error(w, "missing bearer token", http.StatusUnauthorized)
			return
		}
		if err := a.verify(token); err != nil {
			a.log.Warn("bearer token rejected",
				"path", r.URL.Path,
				"error", err,
				logging.MaskField("token", token),
			)
			http.Error(w, "invalid token", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (a *Authenticator) verify(tokenString string) error {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithLeeway(a.skew),
		jwt.WithExpirationRequired(),
	)
	claims := jwt.MapClaims{}
	token, err := parser.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return a.secret, nil
	})
	if err != nil {
		return err
	}
	if !token.Valid {
		return errors.New("gateway: token not valid")
	}
	if a.cfg.Issuer != "" {
		issuer, err := claims.GetIssuer()
		if err != nil || issuer != a.cfg.Issuer {
			return fmt.Errorf("gateway: issuer mismatch")
		}
	}
	if a.cfg.Audience != "" {
		audience, err := claims.GetAudience()
		if err != nil {
			return err
		}
		found := false
		for _, aud := range audience {
			if aud == a.cfg.Audience {
				found = true
				break
			}
		}
		if !found {
			return fmt.Errorf("gateway: audience mismatch")
		}
	}
	return nil
}

func extractBearer(header string) string {
	header = strings.TrimSpace(header)
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
