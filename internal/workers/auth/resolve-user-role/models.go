package resolveuserrole

type Input struct {
	AccessToken string `json:"accessToken"`
}

type Output struct {
	UserID   string `json:"userId"`
	Username string `json:"username,omitempty"`
	Email    string `json:"email,omitempty"`
	Role     string `json:"role"`
	// ExpiresAt is the token expiry in Unix seconds, 0 when the provider omits it.
	ExpiresAt int64 `json:"expiresAt,omitempty"`
}
