package linkml

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// FunctionCall is a parsed slot default_value written in "name(args)" form,
// e.g. "now()", "uuid()", "env(HOSTNAME)".
type FunctionCall struct {
	Name string
	Args []any
}

// parseFunctionCall parses a default-value string as a function call.
// Returns nil, nil when the string is not in "name(...)" form, so callers
// can fall back to treating it as a literal default.
func parseFunctionCall(input string) (*FunctionCall, error) {
	if len(input) < 3 || !strings.HasSuffix(input, ")") {
		return nil, nil
	}

	parenIndex := strings.IndexByte(input, '(')
	if parenIndex <= 0 {
		return nil, nil
	}

	name := strings.TrimSpace(input[:parenIndex])
	argsStr := strings.TrimSpace(input[parenIndex+1 : len(input)-1])

	var args []any
	if argsStr != "" {
		args = parseArgs(argsStr)
	}

	return &FunctionCall{Name: name, Args: args}, nil
}

func parseArgs(argsStr string) []any {
	parts := strings.Split(argsStr, ",")
	args := make([]any, 0, len(parts))

	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if i, err := strconv.ParseInt(part, 10, 64); err == nil {
			args = append(args, i)
			continue
		}
		if f, err := strconv.ParseFloat(part, 64); err == nil {
			args = append(args, f)
			continue
		}
		args = append(args, part)
	}

	return args
}

// DefaultFunc computes a slot default value at validation time.
type DefaultFunc func(args ...any) (any, error)

// defaultFuncs is the built-in default-value function registry consulted by
// the validation engine when a SlotDef.DefaultValue is a function call
// rather than a literal, per SPEC_FULL.md's supplemented default-value
// function registry.
var defaultFuncs = map[string]DefaultFunc{
	"now":  DefaultNowFunc,
	"uuid": DefaultUUIDFunc,
	"env":  DefaultEnvFunc,
}

// DefaultNowFunc returns the current time formatted as RFC3339, or in the
// format given as the first argument.
func DefaultNowFunc(args ...any) (any, error) {
	format := time.RFC3339
	if len(args) > 0 {
		if f, ok := args[0].(string); ok {
			format = f
		}
	}
	return time.Now().Format(format), nil
}

// DefaultUUIDFunc returns a freshly generated random UUID string.
func DefaultUUIDFunc(_ ...any) (any, error) {
	return uuid.NewString(), nil
}

// DefaultEnvFunc reads the environment variable named by its first argument,
// returning an empty string if unset.
func DefaultEnvFunc(args ...any) (any, error) {
	if len(args) == 0 {
		return "", nil
	}
	name, ok := args[0].(string)
	if !ok {
		return "", nil
	}
	return os.Getenv(name), nil
}

// resolveDefault evaluates a SlotDef's default_value: a recognized function
// call is invoked, anything else is returned as a literal.
func resolveDefault(raw any) (any, error) {
	s, ok := raw.(string)
	if !ok {
		return raw, nil
	}

	call, err := parseFunctionCall(s)
	if err != nil {
		return nil, err
	}
	if call == nil {
		return raw, nil
	}

	fn, ok := defaultFuncs[call.Name]
	if !ok {
		return raw, nil
	}
	return fn(call.Args...)
}
