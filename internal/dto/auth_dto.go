package dto

// ─── Request DTOs ────────────────────────────────────────────────────────────

type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=1,max=150"`
	Password string `json:"password" validate:"required,min=4"`
	// Role is free text; only admin and staff reach a panel.
	Role string `json:"role" validate:"required,max=32"`
}

type LoginRequest struct {
	Username string `json:"username" validate:"required,min=1"`
	Password string `json:"password" validate:"required,min=1"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type UserResponse struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

type PanelResponse struct {
	Name         string   `json:"name"`
	Title        string   `json:"title"`
	Capabilities []string `json:"capabilities"`
}

type LoginResponse struct {
	AccessToken string        `json:"access_token"`
	TokenType   string        `json:"token_type"`
	ExpiresIn   int           `json:"expires_in"` // seconds
	User        UserResponse  `json:"user"`
	Panel       PanelResponse `json:"panel"`
}
