package jwt

import (
	"github.com/golang-jwt/jwt/v5"

	"github.com/KennedyWusunanwa/gida-sub000/pkg/errcode"
)

// IdentityClaims represents claims minted by the external auth provider.
// The provider puts the stable identity id in the standard "sub" claim and an
// optional role ("user", "host", "admin").
type IdentityClaims struct {
	Role string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

// ParseIdentityToken parses a token issued by the external identity provider
// and converts it to this service's Claims.
//
// Parameters:
//   - tokenString: the raw JWT from the identity provider
//   - secret: the provider's signing secret (shared HS256)
//   - defaultRole: fallback role when the token doesn't carry one
func ParseIdentityToken(tokenString, secret, defaultRole string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &IdentityClaims{}, func(token *jwt.Token) (any, error) {
		return []byte(secret), nil
	})
	if err != nil {
		return nil, errcode.ErrTokenInvalid.Wrap(err)
	}

	idClaims, ok := token.Claims.(*IdentityClaims)
	if !ok || !token.Valid {
		return nil, errcode.ErrTokenInvalid
	}

	if idClaims.Subject == "" {
		return nil, errcode.ErrTokenInvalid
	}

	role := idClaims.Role
	if role == "" {
		role = defaultRole
	}

	return &Claims{
		UserId:           idClaims.Subject,
		Role:             role,
		RegisteredClaims: idClaims.RegisteredClaims,
	}, nil
}
