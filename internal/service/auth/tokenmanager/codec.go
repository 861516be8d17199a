package tokenmanager

import (
	"fmt"

	"github.com/golang-jwt/jwt/v5"

	"github.com/PickAim/jarvis-backend/internal/apperrors"
)

// Codec encodes arbitrary claims as a signed JWT and decodes them back.
// Tamper evidence only: claims are readable by any token holder.
type Codec struct {
	key string
	alg jwt.SigningMethod
}

func NewCodec(key string, alg string) Codec {
	return Codec{
		key: key,
		alg: jwt.GetSigningMethod(alg),
	}
}

func (c Codec) Encode(claims map[string]any) (string, error) {
	token := jwt.NewWithClaims(c.alg, jwt.MapClaims(claims))

	signed, err := token.SignedString([]byte(c.key))
	if err != nil {
		return "", fmt.Errorf("error while signing token. Err: %w", err)
	}

	return signed, nil
}

// Decode verifies the MAC and returns the claims map.
// Expiry is deliberately not validated here: callers decide what an expired
// token means (see Manager.IsExpired).
func (c Codec) Decode(tokenString string) (map[string]any, error) {
	claims := jwt.MapClaims{}

	_, err := jwt.ParseWithClaims(
		tokenString,
		claims,
		func(t *jwt.Token) (any, error) { return []byte(c.key), nil },
		jwt.WithValidMethods([]string{c.alg.Alg()}),
		jwt.WithoutClaimsValidation(),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrInvalidSignature, err)
	}

	return claims, nil
}
