package store

import (
	"entgo.io/ent/dialect/sql/schema"
	"entgo.io/ent/schema/field"
)

var (
	registrationsColumns = []*schema.Column{
		{Name: "user_id", Type: field.TypeString},
		{Name: "name", Type: field.TypeString, Default: ""},
		{Name: "payment_code", Type: field.TypeString, Default: ""},
		{Name: "registered_at", Type: field.TypeTime, Nullable: true},
		{Name: "score", Type: field.TypeInt, Nullable: true},
		{Name: "level", Type: field.TypeString, Default: ""},
		{Name: "tested_at", Type: field.TypeTime, Nullable: true},
		{Name: "status", Type: field.TypeString},
		{Name: "note", Type: field.TypeString, Default: ""},
		{Name: "created_at", Type: field.TypeTime},
	}
	registrationsTable = &schema.Table{
		Name:       "registrations",
		Columns:    registrationsColumns,
		PrimaryKey: []*schema.Column{registrationsColumns[0]},
		Indexes: []*schema.Index{
			{Name: "registration_status", Columns: []*schema.Column{registrationsColumns[7]}},
		},
	}

	resultsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "sequence", Type: field.TypeInt64, Unique: true},
		{Name: "result_id", Type: field.TypeString, Unique: true},
		{Name: "user_id", Type: field.TypeString},
		{Name: "score", Type: field.TypeInt},
		{Name: "level", Type: field.TypeString},
		{Name: "recorded_at", Type: field.TypeTime},
	}
	resultsTable = &schema.Table{
		Name:       "results",
		Columns:    resultsColumns,
		PrimaryKey: []*schema.Column{resultsColumns[0]},
		Indexes: []*schema.Index{
			{Name: "result_user_id", Columns: []*schema.Column{resultsColumns[3]}},
		},
	}

	llmRequestsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "sequence", Type: field.TypeInt64, Unique: true},
		{Name: "timestamp", Type: field.TypeTime},
		{Name: "provider", Type: field.TypeString},
		{Name: "model", Type: field.TypeString},
		{Name: "purpose", Type: field.TypeString},
		{Name: "input_tokens", Type: field.TypeInt},
		{Name: "output_tokens", Type: field.TypeInt},
		{Name: "latency_ms", Type: field.TypeInt64},
		{Name: "success", Type: field.TypeBool},
		{Name: "error_message", Type: field.TypeString, Default: ""},
		{Name: "request_body", Type: field.TypeString, Size: 2147483647, Default: ""},
		{Name: "response_body", Type: field.TypeString, Size: 2147483647, Default: ""},
	}
	llmRequestsTable = &schema.Table{
		Name:       "llm_requests",
		Columns:    llmRequestsColumns,
		PrimaryKey: []*schema.Column{llmRequestsColumns[0]},
		Indexes: []*schema.Index{
			{Name: "llmrequest_purpose", Columns: []*schema.Column{llmRequestsColumns[5]}},
		},
	}

	// tables lists every table the store migrates.
	tables = []*schema.Table{registrationsTable, resultsTable, llmRequestsTable}
)
