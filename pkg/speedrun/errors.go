package speedrun

import "fmt"

// UninitializedFieldError is returned by a builder if a required field has not been set.
type UninitializedFieldError struct {
	Field string
}

func (e *UninitializedFieldError) Error() string {
	return fmt.Sprintf(`%s must be initialized`, e.Field)
}

func required(field, value string) error {
	if value == "" {
		return &UninitializedFieldError{Field: field}
	}
	return nil
}
