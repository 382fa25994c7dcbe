package credentials

import "errors"

var (
	ErrPromptNotFound = errors.New("credential prompt not found")
	ErrPromptTimeout  = errors.New("credential prompt timed out")
)
