package tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/agentsmith/agentsmith/internal/backlog"
	"github.com/agentsmith/agentsmith/internal/schema"
)

// CreateRecordTool adds a row to the backlog table.
type CreateRecordTool struct {
	recordTool
	params json.RawMessage
}

func NewCreateRecordTool(store backlog.Store, table string) *CreateRecordTool {
	return &CreateRecordTool{
		recordTool: newRecordTool(store, table),
		params: mustJSON(map[string]any{
			"type": "object",
			"properties": map[string]any{
				"fields": fieldsParameter("The fields of the new record.", backlog.FieldName, backlog.FieldNotes),
			},
			"required": []string{"fields"},
		}),
	}
}

func (t *CreateRecordTool) Name() string { return string(ToolCreateRecord) }
func (t *CreateRecordTool) Description() string {
	return fmt.Sprintf("Create a new record in the %s table.", t.table)
}
func (t *CreateRecordTool) Parameters() json.RawMessage { return t.params }

func (t *CreateRecordTool) Execute(ctx context.Context, args schema.Args) (string, error) {
	fields, ok := args.Map("fields")
	if !ok {
		return "Error creating record: fields must be an object", nil
	}
	rec, err := t.store.Create(ctx, t.table, backlog.Fields(fields))
	if err != nil {
		return fmt.Sprintf("Error creating record: %s", err), nil
	}
	return fmt.Sprintf("Successfully created record %s: %s", rec.ID, formatFields(rec.Fields)), nil
}
