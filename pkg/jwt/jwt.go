package jwt

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/KennedyWusunanwa/gida-sub000/pkg/errcode"
)

// Claims represents the session claims this service works with after a token
// has been resolved. UserId is the opaque identity issued by the auth
// provider; it is referenced, never created, here.
type Claims struct {
	UserId string `json:"user_id"`
	Role   string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

// GenerateToken generates a native token. Used by tooling and tests; in
// production tokens come from the external identity provider and are parsed
// with ParseIdentityToken.
func GenerateToken(userId, secret string, expireHours int) (string, error) {
	claims := Claims{
		UserId: userId,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userId,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Duration(expireHours) * time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			NotBefore: jwt.NewNumericDate(time.Now()),
			Issuer:    "gida-messaging",
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ParseToken parses and validates a native token
func ParseToken(tokenString, secret string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	})

	if err != nil {
		return nil, errcode.ErrTokenInvalid.Wrap(err)
	}

	if claims, ok := token.Claims.(*Claims); ok && token.Valid {
		if claims.UserId == "" {
			claims.UserId = claims.Subject
		}
		return claims, nil
	}

	return nil, errcode.ErrTokenInvalid
}

// ValidateToken validates a token and checks that it belongs to expectedUserId
func ValidateToken(tokenString, secret, expectedUserId string) (*Claims, error) {
	claims, err := ParseToken(tokenString, secret)
	if err != nil {
		return nil, err
	}

	if claims.UserId != expectedUserId {
		return nil, errcode.ErrTokenInvalid
	}

	return claims, nil
}
