package http

import (
	"encoding/base64"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

const (
	// HeaderClientPrincipal carries the base64-encoded JSON principal
	// injected by the upstream gateway.
	HeaderClientPrincipal = "x-ms-client-principal"
	// HeaderDevUser is a local-development override carrying a raw user id.
	HeaderDevUser = "x-ec-user"

	principalContextKey = "principal"
)

// Principal is the identity extracted from the gateway headers.
type Principal struct {
	UserID           string `json:"userId"`
	UserDetails      string `json:"userDetails"`
	IdentityProvider string `json:"identityProvider"`
}

// IdentityMiddleware resolves the request principal and stores it on
// the echo context. Resolution order: dev override header, gateway
// principal header, configured local dev user. Requests without any of
// these proceed unauthenticated; handlers that need identity reject
// them.
func IdentityMiddleware(localDevUserID string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if p := resolvePrincipal(c.Request().Header, localDevUserID); p != nil {
				c.Set(principalContextKey, p)
			}
			return next(c)
		}
	}
}

func resolvePrincipal(header http.Header, localDevUserID string) *Principal {
	if explicit := strings.TrimSpace(header.Get(HeaderDevUser)); explicit != "" {
		return &Principal{UserID: explicit, IdentityProvider: "local"}
	}

	if encoded := header.Get(HeaderClientPrincipal); encoded != "" {
		if p := decodePrincipal(encoded); p != nil {
			return p
		}
	}

	if localDevUserID != "" {
		return &Principal{UserID: localDevUserID, IdentityProvider: "local"}
	}
	return nil
}

// decodePrincipal parses the base64 JSON principal, tolerating missing
// padding. Malformed headers yield no principal rather than an error.
func decodePrincipal(encoded string) *Principal {
	if padding := len(encoded) % 4; padding != 0 {
		encoded += strings.Repeat("=", 4-padding)
	}

	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil
	}

	var p Principal
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil
	}

	p.UserID = strings.TrimSpace(p.UserID)
	if p.UserID == "" {
		// userDetails is usually an email/UPN; allow as fallback.
		p.UserID = strings.TrimSpace(p.UserDetails)
	}
	if p.UserID == "" {
		return nil
	}
	return &p
}

// principalFrom returns the request principal, if any.
func principalFrom(c echo.Context) (*Principal, bool) {
	p, ok := c.Get(principalContextKey).(*Principal)
	return p, ok && p != nil
}
