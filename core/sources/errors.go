// core/sources/errors.go
package sources

import "fmt"

// MissingInputError marks a required source file that does not exist.
// Fatal: the run aborts before any output is written.
type MissingInputError struct {
	Path string
}

func (e *MissingInputError) Error() string {
	return fmt.Sprintf("required input %s does not exist", e.Path)
}

// SchemaMismatchError marks a row whose column count does not match the
// expected schema. Fatal.
type SchemaMismatchError struct {
	Path string
	Line int
	Want int
	Got  int
}

func (e *SchemaMismatchError) Error() string {
	return fmt.Sprintf("%s:%d: expected %d columns, got %d", e.Path, e.Line, e.Want, e.Got)
}
