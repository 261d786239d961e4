// Package store persists alerting templates: named documents holding the
// raw YAML of a rule group file or an Alertmanager configuration.
//
// The validation engine never touches storage; templates are loaded here and
// handed to the engine as plain text.
package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/lepicodon/yamalert/pkg/promcheck/document"
)

// ErrNotFound is returned when a template id does not exist.
var ErrNotFound = errors.New("template not found")

// StorageError wraps a backend failure with its backend name and operation.
type StorageError struct {
	Backend string
	Op      string
	Err     error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("%s storage %s failed: %v", e.Backend, e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// NewStorageError creates a new StorageError.
func NewStorageError(backend, op string, err error) *StorageError {
	return &StorageError{Backend: backend, Op: op, Err: err}
}

// Template is one stored document.
type Template struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Type        string    `json:"type"` // "rule" or "alertmanager"
	JobCategory string    `json:"job_category"`
	SensorType  string    `json:"sensor_type"`
	Description string    `json:"description"`
	Content     string    `json:"content"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Storage is the persistence interface for templates.
//
// List returns templates ordered by type, job category, sensor type, and
// name, so catalogue listings are stable across backends.
type Storage interface {
	Create(ctx context.Context, t *Template) error
	Update(ctx context.Context, t *Template) error
	Get(ctx context.Context, id string) (*Template, error)
	List(ctx context.Context) ([]*Template, error)
	Delete(ctx context.Context, id string) error
	Close() error
}

// Summary holds the rule counts derived from a template's content.
type Summary struct {
	HasAlerts     bool `json:"has_alerts"`
	HasRecordings bool `json:"has_recordings"`
	AlertCount    int  `json:"alert_count"`
	RecordCount   int  `json:"record_count"`
}

// Summarize counts alerting and recording rules in a rule-group template.
// Unparseable or oddly-shaped content yields a zero summary rather than an
// error: the catalogue listing must not fail because one template is broken.
func Summarize(content string) Summary {
	var s Summary

	root, err := document.Parse([]byte(content))
	if err != nil {
		return s
	}

	groups, ok := root.Get("groups")
	if !ok || !groups.IsSequence() {
		return s
	}

	for _, group := range groups.Items {
		rules, ok := group.Get("rules")
		if !ok || !rules.IsSequence() {
			continue
		}
		for _, rule := range rules.Items {
			if !rule.IsMapping() {
				continue
			}
			if _, present := rule.Get("alert"); present {
				s.HasAlerts = true
				s.AlertCount++
			}
			if _, present := rule.Get("record"); present {
				s.HasRecordings = true
				s.RecordCount++
			}
		}
	}

	return s
}
