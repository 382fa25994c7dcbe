package repository

import (
	"time"

	"github.com/apiarycd/reposync/internal/review"
)

type Config struct {
	// Paths opened on startup
	Open []string
	// Commits loaded per history refresh
	LogLimit int
	// Timeout of a single refresh query
	QueryTimeout time.Duration

	Review review.Config
}
