package store

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ErrInvalid marks every validation failure returned by this package.
var ErrInvalid = errors.New("invalid connection")

var validate = validator.New(validator.WithRequiredStructEnabled())

// ValidateName checks that name is non-empty and usable as a single path
// element under the mount root.
func ValidateName(name string) error {
	switch {
	case strings.TrimSpace(name) == "":
		return fmt.Errorf("%w: name is required", ErrInvalid)
	case name == "." || name == "..":
		return fmt.Errorf("%w: name %q is reserved", ErrInvalid, name)
	case strings.ContainsRune(name, '/') || strings.ContainsRune(name, filepath.Separator):
		return fmt.Errorf("%w: name %q must not contain a path separator", ErrInvalid, name)
	}
	return nil
}

// Validate checks that login and address are present, that login cannot be
// read as a command-line option, and that address looks like a host name or
// IP, optionally with a port.
func (c Connection) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		field := strings.ToLower(fe.Field())
		switch fe.Tag() {
		case "required":
			msgs = append(msgs, field+" is required")
		case "startsnotwith":
			msgs = append(msgs, fmt.Sprintf("%s %q must not start with '-'", field, fe.Value()))
		default:
			msgs = append(msgs, fmt.Sprintf("%s %q is not a host name or IP address", field, fe.Value()))
		}
	}
	return fmt.Errorf("%w: %s", ErrInvalid, strings.Join(msgs, ", "))
}
