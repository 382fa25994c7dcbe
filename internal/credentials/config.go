package credentials

import "time"

type Config struct {
	PromptTimeout time.Duration
}
