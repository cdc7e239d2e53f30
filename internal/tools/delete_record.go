package tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/agentsmith/agentsmith/internal/backlog"
	"github.com/agentsmith/agentsmith/internal/schema"
)

// DeleteRecordTool removes a row from the backlog table.
type DeleteRecordTool struct {
	recordTool
}

func NewDeleteRecordTool(store backlog.Store, table string) *DeleteRecordTool {
	return &DeleteRecordTool{recordTool: newRecordTool(store, table)}
}

func (t *DeleteRecordTool) Name() string { return string(ToolDeleteRecord) }
func (t *DeleteRecordTool) Description() string {
	return fmt.Sprintf("Delete a record from the %s table.", t.table)
}
func (t *DeleteRecordTool) Parameters() json.RawMessage {
	return json.RawMessage(`{
		"type": "object",
		"properties": {
			"record_id": {
				"type": "string",
				"description": "The ID of the record to delete."
			}
		},
		"required": ["record_id"]
	}`)
}

func (t *DeleteRecordTool) Execute(ctx context.Context, args schema.Args) (string, error) {
	id, _ := args.String("record_id")
	if id == "" {
		return "Error deleting record: record_id is required", nil
	}
	res, err := t.store.Delete(ctx, t.table, id)
	if err != nil {
		return fmt.Sprintf("Error deleting record %s: %s", id, err), nil
	}
	if !res.Deleted {
		return fmt.Sprintf("Failed to delete record with ID: %s", id), nil
	}
	return fmt.Sprintf("Successfully deleted record with ID: %s", id), nil
}
