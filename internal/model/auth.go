package model

import "github.com/golang-jwt/jwt/v5"

// UserClaims are the JWT claims issued at register/login
type UserClaims struct {
	UserID string `json:"userId"`
	jwt.RegisteredClaims
}

// TokenRequest is the body for POST /token
type TokenRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// TokenResponse is returned after successful register/login
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	User        *User  `json:"user"`
}
