// Package backlog is the tabular data store behind the task tools.
//
// Two backends satisfy Store: AirtableClient talks to the Airtable REST API,
// SQLiteStore keeps records in a local database file. Both are wrapped with
// WithRateLimit so every call honours the shared minimum interval.
package backlog

import (
	"context"
	"time"
)

// DefaultTable is the table the task tools operate on.
const DefaultTable = "Backlog"

// Field names understood by the backlog table.
const (
	FieldName        = "Name"
	FieldNotes       = "Notes"
	FieldStatus      = "Status"
	FieldDue         = "Due date / time"
	FieldAttachments = "Attachments"
)

// Status labels accepted by the Status field.
var Statuses = []string{"Todo", "In progress", "Done"}

// Fields maps a column name to its value.
type Fields map[string]any

// Record is one row of a table.
type Record struct {
	ID          string    `json:"id"`
	CreatedTime time.Time `json:"createdTime"`
	Fields      Fields    `json:"fields"`
}

// DeleteResult is the outcome of a delete call.
type DeleteResult struct {
	ID      string `json:"id"`
	Deleted bool   `json:"deleted"`
}

// Store is the set of row operations the tools need.
type Store interface {
	Create(ctx context.Context, table string, fields Fields) (Record, error)
	List(ctx context.Context, table string) ([]Record, error)
	// Update writes fields to record id. When replace is true every field
	// not present in fields is cleared.
	Update(ctx context.Context, table, id string, fields Fields, replace bool) (Record, error)
	Delete(ctx context.Context, table, id string) (DeleteResult, error)
}
