package tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/agentsmith/agentsmith/internal/backlog"
	"github.com/agentsmith/agentsmith/internal/schema"
)

// UpdateRecordTool overwrites a row of the backlog table. Fields not sent
// are cleared, so the model must send the full record.
type UpdateRecordTool struct {
	recordTool
	params json.RawMessage
}

func NewUpdateRecordTool(store backlog.Store, table string) *UpdateRecordTool {
	return &UpdateRecordTool{
		recordTool: newRecordTool(store, table),
		params: mustJSON(map[string]any{
			"type": "object",
			"properties": map[string]any{
				"record_id": map[string]any{
					"type":        "string",
					"description": "The ID of the record to update.",
				},
				"fields": fieldsParameter("The complete set of fields for the record. Omitted fields are cleared."),
			},
			"required": []string{"record_id", "fields"},
		}),
	}
}

func (t *UpdateRecordTool) Name() string { return string(ToolUpdateRecord) }
func (t *UpdateRecordTool) Description() string {
	return fmt.Sprintf("Update a record in the %s table. All fields are replaced.", t.table)
}
func (t *UpdateRecordTool) Parameters() json.RawMessage { return t.params }

func (t *UpdateRecordTool) Execute(ctx context.Context, args schema.Args) (string, error) {
	id, _ := args.String("record_id")
	if id == "" {
		return "Error updating record: record_id is required", nil
	}
	fields, ok := args.Map("fields")
	if !ok {
		return fmt.Sprintf("Error updating record %s: fields must be an object", id), nil
	}
	rec, err := t.store.Update(ctx, t.table, id, backlog.Fields(fields), true)
	if err != nil {
		return fmt.Sprintf("Error updating record %s: %s", id, err), nil
	}
	return fmt.Sprintf("Successfully updated record %s: %s", rec.ID, formatFields(rec.Fields)), nil
}
