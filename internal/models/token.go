package models

// AuthResponse is returned by signup and login.
type AuthResponse struct {
	Token     string `json:"token"`
	TokenType string `json:"tokenType"`
	ExpiresIn int    `json:"expiresIn"`
	User      *User  `json:"user"`
}
