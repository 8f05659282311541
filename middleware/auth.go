package middleware

import (
	"crypto/rsa"
	"fmt"
	"strings"

	"sciarticles/helper"
	"sciarticles/models"
	"sciarticles/services"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
)

const (
	ContextClerkID = "clerk_id"
	ContextUser    = "user"

	// SessionCookie is where the identity provider's frontend SDK keeps the session token.
	SessionCookie = "__session"
)

type Claims struct {
	Email     string `json:"email,omitempty"`
	Name      string `json:"name,omitempty"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
	Username  string `json:"username,omitempty"`
	jwt.RegisteredClaims
}

// SessionVerifier checks session tokens signed with HS256 (shared secret)
// or RS256 (identity provider public key).
type SessionVerifier struct {
	secret    []byte
	publicKey *rsa.PublicKey
}

func NewSessionVerifier(secret string, publicKeyPEM string) (*SessionVerifier, error) {
	v := &SessionVerifier{}
	if secret != "" {
		v.secret = []byte(secret)
	}
	if publicKeyPEM != "" {
		key, err := jwt.ParseRSAPublicKeyFromPEM([]byte(publicKeyPEM))
		if err != nil {
			return nil, fmt.Errorf("parse session public key: %w", err)
		}
		v.publicKey = key
	}
	if v.secret == nil && v.publicKey == nil {
		return nil, fmt.Errorf("no session signing key configured")
	}
	return v, nil
}

func (v *SessionVerifier) keyFunc(token *jwt.Token) (interface{}, error) {
	switch token.Method.(type) {
	case *jwt.SigningMethodHMAC:
		if v.secret != nil {
			return v.secret, nil
		}
	case *jwt.SigningMethodRSA:
		if v.publicKey != nil {
			return v.publicKey, nil
		}
	}
	return nil, jwt.ErrSignatureInvalid
}

// Verify parses a raw token and returns the session it carries.
func (v *SessionVerifier) Verify(tokenString string) (*services.Session, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, v.keyFunc)
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, fmt.Errorf("token is not valid")
	}
	if claims.Subject == "" {
		return nil, fmt.Errorf("token has no subject")
	}

	return &services.Session{
		ExternalID: claims.Subject,
		Email:      claims.Email,
		FullName:   claims.Name,
		FirstName:  claims.FirstName,
		LastName:   claims.LastName,
		Username:   claims.Username,
	}, nil
}

func tokenFromRequest(c *gin.Context) string {
	if authHeader := c.GetHeader("Authorization"); authHeader != "" {
		if tokenString := strings.TrimPrefix(authHeader, "Bearer "); tokenString != authHeader {
			return strings.TrimSpace(tokenString)
		}
		return ""
	}
	if cookie, err := c.Cookie(SessionCookie); err == nil {
		return cookie
	}
	return ""
}

// AuthMiddleware rejects requests without a valid session and stores the
// session in the request context.
func AuthMiddleware(verifier *SessionVerifier, h *helper.HTTPHelper) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := tokenFromRequest(c)
		if tokenString == "" {
			h.SendUnauthorizedError(c, models.MsgUnauthorized)
			return
		}

		session, err := verifier.Verify(tokenString)
		if err != nil {
			h.Log.Debug("session rejected")
			h.SendUnauthorizedError(c, models.MsgUnauthorized)
			return
		}

		c.Set(ContextClerkID, session.ExternalID)
		c.Request = c.Request.WithContext(services.WithSession(c.Request.Context(), session))

		c.Next()
	}
}

// ResolveUser maps the session to a local user, provisioning it on first sight.
func ResolveUser(identity services.IdentityService, h *helper.HTTPHelper) gin.HandlerFunc {
	return func(c *gin.Context) {
		clerkID := c.GetString(ContextClerkID)

		user, err := identity.Resolve(c.Request.Context(), clerkID)
		if err != nil {
			h.SendServiceError(c, err, models.MsgUserNotFound)
			return
		}

		c.Set(ContextUser, user)
		c.Next()
	}
}

// CurrentUser returns the user stored by ResolveUser.
func CurrentUser(c *gin.Context) (*models.User, bool) {
	v, ok := c.Get(ContextUser)
	if !ok {
		return nil, false
	}
	user, ok := v.(*models.User)
	return user, ok
}
