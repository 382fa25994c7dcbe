package credentials

import "time"

// ProvideRequest represents the answer to a credential prompt.
type ProvideRequest struct {
	Username string `json:"username" validate:"required,max=255"`
	Password string `json:"password" validate:"max=4096"`
}

// PromptResponse represents a pending credential prompt.
type PromptResponse struct {
	ID          string    `json:"id"`
	Path        string    `json:"path"`
	URL         string    `json:"url"`
	RequestedAt time.Time `json:"requested_at"`
}
