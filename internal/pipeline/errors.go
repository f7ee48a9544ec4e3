package pipeline

import "fmt"

// SchemaError kerakli kalit ustun jadvalda yo'q
type SchemaError struct {
	Table  string
	Column string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("missing '%s' column in %s file", e.Column, e.Table)
}
