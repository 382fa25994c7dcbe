package fetches

import (
	"encoding/json"
	"fmt"
	"net/url"
	"time"

	"github.com/google/uuid"
)

const (
	prefix = "fetch:"

	prefixByPath = prefix + "path:"
	prefixByID   = prefix + "id:"
)

// fetchModel is stored under a path-scoped, time-ordered key so that a
// reverse prefix scan yields the newest fetches first.
type fetchModel struct {
	ID        uuid.UUID `json:"id"`
	CreatedAt time.Time `json:"created_at"`

	Path        string    `json:"path"`
	Nodes       bool      `json:"nodes"`
	Tags        bool      `json:"tags"`
	StartedAt   time.Time `json:"started_at"`
	CompletedAt time.Time `json:"completed_at"`
	Outcome     Outcome   `json:"outcome"`
	ErrorCode   string    `json:"error_code,omitempty"`
	Message     string    `json:"message,omitempty"`
	TagCount    int       `json:"tag_count"`
}

func newFetchModel(draft *RecordDraft) *fetchModel {
	return &fetchModel{
		ID:          uuid.New(),
		CreatedAt:   time.Now(),
		Path:        draft.Path,
		Nodes:       draft.Nodes,
		Tags:        draft.Tags,
		StartedAt:   draft.StartedAt,
		CompletedAt: draft.CompletedAt,
		Outcome:     draft.Outcome,
		ErrorCode:   draft.ErrorCode,
		Message:     draft.Message,
		TagCount:    draft.TagCount,
	}
}

func newRecord(model *fetchModel) *Record {
	if model == nil {
		return nil
	}

	return &Record{
		RecordDraft: RecordDraft{
			Path:        model.Path,
			Nodes:       model.Nodes,
			Tags:        model.Tags,
			StartedAt:   model.StartedAt,
			CompletedAt: model.CompletedAt,
			Outcome:     model.Outcome,
			ErrorCode:   model.ErrorCode,
			Message:     model.Message,
			TagCount:    model.TagCount,
		},
		ID:        model.ID,
		CreatedAt: model.CreatedAt,
	}
}

// StorageKey implements badgerfx.Entity.
func (m *fetchModel) StorageKey() string {
	return fmt.Sprintf("%s%020d:%s", pathPrefix(m.Path), m.CompletedAt.UnixNano(), m.ID)
}

// StorageIndexes implements badgerfx.Entity.
func (m *fetchModel) StorageIndexes() []string {
	return []string{idIndex(m.ID)}
}

// MarshalStorage implements badgerfx.Entity.
func (m *fetchModel) MarshalStorage() ([]byte, error) {
	return json.Marshal(m)
}

// UnmarshalStorage implements badgerfx.Entity.
func (m *fetchModel) UnmarshalStorage(data []byte) error {
	return json.Unmarshal(data, m)
}

func pathPrefix(path string) string {
	return prefixByPath + url.QueryEscape(path) + ":"
}

func idIndex(id uuid.UUID) string {
	return prefixByID + id.String()
}
