package dto

// TokenData 签发的 API Token
type TokenData struct {
	Token     string `json:"token"`
	TokenType string `json:"token_type"`
	ExpiresIn int    `json:"expires_in"`
}
