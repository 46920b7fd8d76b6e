package cli

import (
	"errors"
	"fmt"
	"strings"

	"mercator-hq/tollgate/pkg/config"
)

// Exit codes returned by the tollgate command.
const (
	ExitOK      = 0
	ExitFailure = 1
	ExitConfig  = 2
)

// ConfigError reports an invalid or unreadable configuration.
type ConfigError struct {
	Field   string
	Message string
	Err     error
}

func (e *ConfigError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("config error: %s", e.Message)
	}
	return fmt.Sprintf("config error in %s: %s", e.Field, e.Message)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// CommandError wraps a failure of a subcommand.
type CommandError struct {
	Command string
	Err     error
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("command %s failed: %v", e.Command, e.Err)
}

func (e *CommandError) Unwrap() error {
	return e.Err
}

// NewConfigError creates a ConfigError.
func NewConfigError(field, message string) *ConfigError {
	return &ConfigError{
		Field:   field,
		Message: message,
	}
}

// WrapConfigError turns a configuration loading error into a ConfigError.
// Validation failures keep their field list in the message.
func WrapConfigError(err error) *ConfigError {
	var ve config.ValidationError
	if errors.As(err, &ve) && len(ve.Errors) > 0 {
		fields := make([]string, len(ve.Errors))
		for i, fe := range ve.Errors {
			fields[i] = fe.Field
		}
		return &ConfigError{
			Field:   strings.Join(fields, ", "),
			Message: err.Error(),
			Err:     err,
		}
	}
	return &ConfigError{Message: err.Error(), Err: err}
}

// NewCommandError creates a CommandError.
func NewCommandError(command string, err error) *CommandError {
	return &CommandError{
		Command: command,
		Err:     err,
	}
}

// ExitCode maps err to a process exit code.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	var ce *ConfigError
	if errors.As(err, &ce) {
		return ExitConfig
	}
	return ExitFailure
}
