package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrAgentRequired      = errors.New("agent_required")
	ErrInvalidDateRange   = errors.New("invalid_date_range")
	ErrInvalidCutoffHour  = errors.New("invalid_cutoff_hour")
	ErrUnknownAgentType   = errors.New("unknown_agent_type")
	ErrAgentRowsNotFound  = errors.New("agent_rows_not_found")
	ErrMissingPushColumn  = errors.New("missing_push_column")
	ErrSourceNotAvailable = errors.New("source_not_available")
)

// Source identifies which export a structural error refers to.
type Source string

const (
	SourceHours Source = "hours"
	SourceLeads Source = "leads"
)

// SchemaError reports required columns absent from an export. Cause, when
// set, names the specific condition for errors.Is.
type SchemaError struct {
	Source  Source
	Missing []string
	Cause   error
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("%s export is missing columns: %s", e.Source, strings.Join(e.Missing, ", "))
}

func (e *SchemaError) Unwrap() error {
	return e.Cause
}

// CheckSchema returns a *SchemaError when any required column is absent.
func CheckSchema(source Source, t Table, required ...string) error {
	missing := t.MissingColumns(required...)
	if len(missing) == 0 {
		return nil
	}
	return &SchemaError{Source: source, Missing: missing}
}

// AsSchemaError unwraps err into a *SchemaError.
func AsSchemaError(err error) (*SchemaError, bool) {
	var schemaErr *SchemaError
	if errors.As(err, &schemaErr) {
		return schemaErr, true
	}
	return nil, false
}
