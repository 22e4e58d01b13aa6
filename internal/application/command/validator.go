// Package command contains write operations (CQRS - Commands).
package command

import "github.com/go-playground/validator/v10"

// validate is the shared struct validator for all commands in this package.
// Commands declare their field rules via `validate` tags and call it from
// their Validate methods.
var validate = validator.New(validator.WithRequiredStructEnabled())
