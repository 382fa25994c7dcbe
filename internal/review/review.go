// Package review links loaded history to a Gerrit-style code review
// server through Change-Id trailers.
package review

import (
	"bufio"
	"strings"
	"sync"

	"github.com/samber/lo"
	"go.uber.org/zap"
)

const changeIDTrailer = "Change-Id:"

type Config struct {
	Enabled bool
	URL     string // Base URL of the review server, e.g. https://review.example.com
}

// Commit is the part of a history node the integration needs.
type Commit struct {
	Hash    string
	Message string
}

// Change is a commit carrying a Change-Id trailer.
type Change struct {
	ChangeID string
	Commit   string
	Title    string
	URL      string
}

// Integration tracks review changes for one repository resource.
type Integration struct {
	config Config
	path   string
	logger *zap.Logger

	mu      sync.RWMutex
	changes []Change
}

func NewIntegration(config Config, path string, logger *zap.Logger) *Integration {
	return &Integration{
		config: config,
		path:   path,
		logger: logger,
	}
}

// Update replaces the tracked changes with those found in commits.
func (i *Integration) Update(commits []Commit) {
	changes := lo.FilterMap(commits, func(c Commit, _ int) (Change, bool) {
		id := ChangeID(c.Message)
		if id == "" {
			return Change{}, false
		}
		return Change{
			ChangeID: id,
			Commit:   c.Hash,
			Title:    firstLine(c.Message),
			URL:      i.changeURL(id),
		}, true
	})
	changes = lo.UniqBy(changes, func(c Change) string { return c.ChangeID })

	i.mu.Lock()
	i.changes = changes
	i.mu.Unlock()

	i.logger.Debug("review changes updated", zap.String("path", i.path), zap.Int("count", len(changes)))
}

// Changes returns the tracked changes in history order.
func (i *Integration) Changes() []Change {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return append([]Change(nil), i.changes...)
}

// ChangeID returns the last Change-Id trailer in message, if any.
func ChangeID(message string) string {
	id := ""
	scanner := bufio.NewScanner(strings.NewReader(message))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if value, ok := strings.CutPrefix(line, changeIDTrailer); ok {
			id = strings.TrimSpace(value)
		}
	}
	return id
}

func (i *Integration) changeURL(id string) string {
	if i.config.URL == "" {
		return ""
	}
	return strings.TrimRight(i.config.URL, "/") + "/#/q/" + id
}

func firstLine(message string) string {
	line, _, _ := strings.Cut(message, "\n")
	return line
}
