package auth

import "github.com/golang-jwt/jwt/v5"

// AccessTokenClaims represents the JWT issued to shoppers by the login collaborator.
type AccessTokenClaims struct {
	UserID int64 `json:"user_id"`
	jwt.RegisteredClaims
}
