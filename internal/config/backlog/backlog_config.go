package backlog

const (
	BackendAirtable = "airtable"
	BackendSQLite   = "sqlite"
)

// BacklogConfig selects the record store behind the task tools.
type BacklogConfig struct {
	Backend       string `json:"backend" yaml:"backend"`
	Table         string `json:"table" yaml:"table"`
	MinIntervalMs int    `json:"minIntervalMs" yaml:"minIntervalMs"`
	SQLitePath    string `json:"sqlitePath,omitempty" yaml:"sqlitePath,omitempty"`
}

func DefaultBacklogConfig() BacklogConfig {
	return BacklogConfig{
		Backend:       BackendAirtable,
		Table:         "Backlog",
		MinIntervalMs: 200,
		SQLitePath:    "~/.agentsmith/backlog.db",
	}
}

// AirtableConfig holds Airtable credentials.
type AirtableConfig struct {
	APIKey  string `json:"apiKey" yaml:"apiKey"`
	BaseID  string `json:"baseId" yaml:"baseId"`
	TableID string `json:"tableId,omitempty" yaml:"tableId,omitempty"` // overrides BacklogConfig.Table
	APIBase string `json:"apiBase,omitempty" yaml:"apiBase,omitempty"`
}

func DefaultAirtableConfig() AirtableConfig {
	return AirtableConfig{}
}
