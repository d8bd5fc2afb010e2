// internal/app/services/auth/token.go
package authsvc

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/coralhq/atrium/internal/app/system/fault"
	"github.com/coralhq/atrium/internal/app/system/identity"
	"github.com/coralhq/atrium/internal/domain/models"
)

// Claims are the token payload: registered claims plus the fields the
// service layer needs to rebuild the caller's identity.
type Claims struct {
	jwt.RegisteredClaims
	Name     string `json:"name"`
	Email    string `json:"email"`
	Role     string `json:"role"`
	OrgID    string `json:"orgId"`
	OrgName  string `json:"orgName"`
	UserType string `json:"userType"`
}

// TokenIssuer signs and validates bearer tokens.
type TokenIssuer struct {
	secret   []byte
	issuer   string
	audience string
	ttl      time.Duration
}

// NewTokenIssuer builds an issuer. ttl controls token expiration.
func NewTokenIssuer(secret, issuer, audience string, ttl time.Duration) *TokenIssuer {
	return &TokenIssuer{
		secret:   []byte(secret),
		issuer:   issuer,
		audience: audience,
		ttl:      ttl,
	}
}

// Issue signs a token for u with a fresh token id.
func (t *TokenIssuer) Issue(u *models.User) (string, time.Time, error) {
	now := time.Now()
	expires := now.Add(t.ttl)
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   u.ID,
			ID:        uuid.NewString(),
			Issuer:    t.issuer,
			Audience:  jwt.ClaimStrings{t.audience},
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expires),
		},
		Name:     u.Name,
		Email:    u.Email,
		Role:     u.Role,
		OrgID:    u.OrgID,
		OrgName:  u.OrgName,
		UserType: u.UserType,
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
	if err != nil {
		return "", time.Time{}, fault.Wrap(fault.Internal, "signing token", err)
	}
	return signed, expires, nil
}

// Parse validates a bearer token and rebuilds the caller's identity.
// Signature, issuer, audience, and expiry are all checked with zero clock
// skew tolerance.
func (t *TokenIssuer) Parse(bearer string) (identity.Identity, error) {
	var claims Claims
	token, err := jwt.ParseWithClaims(bearer, &claims, func(tok *jwt.Token) (any, error) {
		if _, ok := tok.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fault.New(fault.Unauthorized, "invalid signing method")
		}
		return t.secret, nil
	},
		jwt.WithIssuer(t.issuer),
		jwt.WithAudience(t.audience),
		jwt.WithIssuedAt(),
		jwt.WithExpirationRequired(),
		jwt.WithLeeway(0),
	)
	if err != nil || !token.Valid {
		return identity.Identity{}, fault.New(fault.Unauthorized, "invalid or expired token")
	}
	return identity.Identity{
		UserID:   claims.Subject,
		Name:     claims.Name,
		Email:    claims.Email,
		Role:     claims.Role,
		UserType: claims.UserType,
		OrgID:    claims.OrgID,
		OrgName:  claims.OrgName,
	}, nil
}
