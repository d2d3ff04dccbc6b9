package auth

// LoginRequest authenticates by username or email.
type LoginRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResult carries the freshly issued token pair.
type LoginResult struct {
	Username   string `json:"username"`
	Role       string `json:"role"`
	LongToken  string `json:"longToken"`
	ShortToken string `json:"shortToken"`
}

// RefreshRequest exchanges a long-lived token for a short-lived one.
type RefreshRequest struct {
	LongToken string `json:"longToken"`
}

// RefreshResult carries the reissued short-lived token.
type RefreshResult struct {
	ShortToken string `json:"shortToken"`
}
