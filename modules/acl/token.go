package acl

import (
	"errors"
	"fmt"
	"time"

	jwt "github.com/dgrijalva/jwt-go"
)

var (
	// ErrTokenExpired when the bearer token is past its exp claim.
	ErrTokenExpired = errors.New("token expired, request new one")
	// ErrTokenInvalid for any other parsing or signature problem.
	ErrTokenInvalid = errors.New("error parsing token")
)

// Resolve a signed bearer token into a principal.
func (refs *Module) Resolve(secret, token string) (*Principal, error) {
	signed, err := jwt.Parse(token, func(passed *jwt.Token) (interface{}, error) {
		if _, ok := passed.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", passed.Header["alg"])
		}
		return []byte(secret), nil
	})
	switch e := err.(type) {
	case nil:
		if !signed.Valid {
			return nil, ErrTokenInvalid
		}
	case *jwt.ValidationError:
		if e.Errors&jwt.ValidationErrorExpired != 0 {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenInvalid
	default:
		return nil, ErrTokenInvalid
	}

	claims, ok := signed.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrTokenInvalid
	}
	id, ok := claims["user_id"].(string)
	if !ok || id == "" {
		return nil, ErrTokenInvalid
	}
	role, _ := claims["role"].(string)
	grants := map[string][]string{}
	if raw, exists := claims["grants"].(map[string]interface{}); exists {
		for community, perms := range raw {
			list, _ := perms.([]interface{})
			for _, p := range list {
				if s, ok := p.(string); ok {
					grants[community] = append(grants[community], s)
				}
			}
		}
	}
	return refs.Principal(id, role, grants), nil
}

// Token signs claims for a principal. Used by tests and the dev CLI.
func Token(secret, id, role string, grants map[string][]string, ttl time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"user_id": id,
		"role":    role,
		"grants":  grants,
		"exp":     time.Now().Add(ttl).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}
