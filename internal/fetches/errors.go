package fetches

import "errors"

var ErrNotFound = errors.New("fetch record not found")
