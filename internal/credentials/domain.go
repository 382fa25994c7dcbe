package credentials

import "time"

// Prompt is an outstanding request for user credentials.
type Prompt struct {
	ID          string
	Path        string // Repository path the remote operation runs in
	URL         string // Remote URL that asked for authentication
	RequestedAt time.Time
}

// Credential is a username/password (or token) pair supplied by the user.
type Credential struct {
	Username string
	Password string
}
