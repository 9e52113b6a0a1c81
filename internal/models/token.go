package models

import "time"

// Token is an issued bearer credential pair. At most one row exists per
// user: issuing deletes prior rows, refreshing rewrites the same row.
type Token struct {
	UserID       string
	AccessToken  string
	TokenType    string
	Expiry       time.Time
	RefreshToken string
}

// TokenResponse is the JSON body returned by /auth/token and /auth/refresh.
type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int    `json:"expires_in"`
	RefreshToken string `json:"refresh_token"`
}
