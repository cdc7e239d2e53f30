package tools

import (
	"encoding/json"
	"fmt"

	"github.com/agentsmith/agentsmith/internal/backlog"
	"github.com/agentsmith/agentsmith/internal/schema"
)

// ToolName is the canonical name of a built-in tool.
type ToolName string

const (
	ToolCreateRecord ToolName = "create_airtable_record"
	ToolListRecords  ToolName = "airtable_get_all_records"
	ToolUpdateRecord ToolName = "update_airtable_record"
	ToolDeleteRecord ToolName = "delete_airtable_record"
)

// backlogFieldProperties describes the columns shared by the create and
// update tools.
func backlogFieldProperties() map[string]any {
	return map[string]any{
		backlog.FieldName: map[string]any{
			"type":        "string",
			"description": "A short name or title for the record.",
		},
		backlog.FieldNotes: map[string]any{
			"type":        "string",
			"description": "Additional details or description.",
		},
		backlog.FieldStatus: map[string]any{
			"type":        "string",
			"enum":        backlog.Statuses,
			"description": "The current status of the record.",
		},
		backlog.FieldDue: map[string]any{
			"type":        "string",
			"description": "Due date and time in ISO 8601 format (e.g., '2024-12-31T23:59:00.000Z' or '2024-12-31T15:30:00').",
		},
		backlog.FieldAttachments: map[string]any{
			"type": "array",
			"items": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"url": map[string]any{
						"type":        "string",
						"description": "Publicly accessible URL to an attachment.",
					},
				},
				"required": []string{"url"},
			},
			"description": "List of file URLs to attach to the record.",
		},
	}
}

// fieldsParameter builds the "fields" object schema. required may be empty.
func fieldsParameter(description string, required ...string) map[string]any {
	p := map[string]any{
		"type":        "object",
		"description": description,
		"properties":  backlogFieldProperties(),
	}
	if len(required) > 0 {
		p["required"] = required
	}
	return p
}

func mustJSON(v any) json.RawMessage {
	data, err := json.Marshal(v)
	if err != nil {
		panic(fmt.Sprintf("tools: marshal schema: %v", err))
	}
	return data
}

// formatFields renders fields as compact JSON with sorted keys.
func formatFields(f backlog.Fields) string {
	if len(f) == 0 {
		return "{}"
	}
	data, err := json.Marshal(f)
	if err != nil {
		return fmt.Sprintf("%v", map[string]any(f))
	}
	return string(data)
}

// recordTool is the state shared by the record tools.
type recordTool struct {
	store backlog.Store
	table string
}

func newRecordTool(store backlog.Store, table string) recordTool {
	if table == "" {
		table = backlog.DefaultTable
	}
	return recordTool{store: store, table: table}
}

// NewBacklogTools returns the four record tools bound to table.
func NewBacklogTools(store backlog.Store, table string) []schema.Tool {
	return []schema.Tool{
		NewCreateRecordTool(store, table),
		NewListRecordsTool(store, table),
		NewUpdateRecordTool(store, table),
		NewDeleteRecordTool(store, table),
	}
}
