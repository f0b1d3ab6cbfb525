package service

import (
	"fmt"

	"steadypath/internal/model"
)

// invalidf builds a user-correctable validation error. Handlers map anything
// wrapping model.ErrInvalidInput to 400 with the message as-is.
func invalidf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: "+format, append([]interface{}{model.ErrInvalidInput}, args...)...)
}
