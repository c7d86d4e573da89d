// Package validate provides input validation helpers for the mapundo shell
// and CLI.
package validate

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/manav03panchal/mapundo/internal/errors"
)

const (
	// MaxMapNameLength is the maximum length for a stored map name.
	MaxMapNameLength = 64
	// MaxKeyLength is the maximum length for a spawnarg key.
	MaxKeyLength = 128
	// MaxValueLength is the maximum length for a spawnarg value.
	MaxValueLength = 4096
	// MaxShaderLength is the maximum length for a shader path.
	MaxShaderLength = 256
	// MaxOperationNameLength is the maximum length for an operation name.
	MaxOperationNameLength = 256
)

// mapNameRegex validates map names (alphanumeric, dashes, underscores, periods).
var mapNameRegex = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9._-]*$`)

// MapName validates a stored map name.
func MapName(name string) error {
	if name == "" || len(name) > MaxMapNameLength || !mapNameRegex.MatchString(name) {
		err := errors.UserErrorFrom(errors.ErrInvalidArgument, "name", name)
		err.Message = "invalid map name"
		err.Suggestion = "Map names start with a letter or number and contain only letters, numbers, dashes, underscores, or periods (max 64 chars)"
		return err
	}
	return nil
}

// SpawnargKey validates a spawnarg key: non-empty, no whitespace or quotes.
func SpawnargKey(key string) error {
	if key == "" || len(key) > MaxKeyLength || strings.ContainsAny(key, " \t\r\n\"") {
		return errors.UserErrorFrom(errors.ErrInvalidKey, "key", key)
	}
	return nil
}

// SpawnargValue validates a spawnarg value.
func SpawnargValue(value string) error {
	if utf8.RuneCountInString(value) > MaxValueLength || strings.ContainsAny(value, "\"\x00") {
		err := errors.UserErrorFrom(errors.ErrInvalidArgument, "value", TruncateString(value, 32))
		err.Message = "invalid spawnarg value"
		err.Suggestion = "Values may not contain double quotes and must be 4096 characters or fewer"
		return err
	}
	return nil
}

// Shader validates a shader path.
func Shader(shader string) error {
	if strings.TrimSpace(shader) == "" || len(shader) > MaxShaderLength || strings.ContainsAny(shader, " \t\r\n\"") {
		err := errors.UserErrorFrom(errors.ErrInvalidArgument, "shader", shader)
		err.Message = "invalid shader"
		err.Suggestion = "Shaders are paths like 'textures/common/caulk'"
		return err
	}
	return nil
}

// OperationName validates the name given to a finished operation.
func OperationName(name string) error {
	if err := NonEmpty("operation name", name); err != nil {
		return err
	}
	if utf8.RuneCountInString(name) > MaxOperationNameLength {
		return errors.NewUserError(
			"Operation name too long",
			"Operation names must be 256 characters or fewer")
	}
	return nil
}

// NonEmpty validates that a string is not empty.
func NonEmpty(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return errors.NewUserError(
			field+" cannot be empty",
			"Provide a value for "+field)
	}
	return nil
}

