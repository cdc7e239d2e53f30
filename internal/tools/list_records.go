package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/agentsmith/agentsmith/internal/backlog"
	"github.com/agentsmith/agentsmith/internal/schema"
)

// ListRecordsTool returns every row of the backlog table.
type ListRecordsTool struct {
	recordTool
}

func NewListRecordsTool(store backlog.Store, table string) *ListRecordsTool {
	return &ListRecordsTool{recordTool: newRecordTool(store, table)}
}

func (t *ListRecordsTool) Name() string { return string(ToolListRecords) }
func (t *ListRecordsTool) Description() string {
	return fmt.Sprintf("Get all records from the %s table.", t.table)
}
func (t *ListRecordsTool) Parameters() json.RawMessage {
	return json.RawMessage(`{"type": "object", "properties": {}}`)
}

func (t *ListRecordsTool) Execute(ctx context.Context, _ schema.Args) (string, error) {
	recs, err := t.store.List(ctx, t.table)
	if err != nil {
		return fmt.Sprintf("Error listing records: %s", err), nil
	}
	if len(recs) == 0 {
		return fmt.Sprintf("No records found in %s.", t.table), nil
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Found %d records in %s:", len(recs), t.table)
	for _, r := range recs {
		sb.WriteString("\n- ")
		sb.WriteString(r.ID)
		if !r.CreatedTime.IsZero() {
			fmt.Fprintf(&sb, " (created %s)", r.CreatedTime.UTC().Format(time.RFC3339))
		}
		sb.WriteString(": ")
		sb.WriteString(formatFields(r.Fields))
	}
	return sb.String(), nil
}
