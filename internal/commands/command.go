package commands

import (
	"fmt"
	"strconv"
	"strings"
)

type Type string

const (
	TypeAdd    Type = "add"
	TypeDone   Type = "done"
	TypeRemove Type = "rm"
	TypeSort   Type = "sort"
)

type ErrorCode string

const (
	ErrCodeEmptyInput      ErrorCode = "empty_input"
	ErrCodeUnknownCommand  ErrorCode = "unknown_command"
	ErrCodeInvalidArgument ErrorCode = "invalid_argument"
	ErrCodeHandlerMissing  ErrorCode = "handler_missing"
)

type CommandError struct {
	Code    ErrorCode
	Message string
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// AddArgs holds the title and the raw due text. An empty Due means now.
type AddArgs struct {
	Title string
	Due   string
}

// RowArgs addresses a 1-based row of the remaining view.
type RowArgs struct {
	Row int
}

type Command struct {
	Type Type
	Raw  string
	Add  *AddArgs
	Row  *RowArgs
}

func Parse(input string) (Command, error) {
	raw := strings.TrimSpace(input)
	if raw == "" {
		return Command{}, &CommandError{Code: ErrCodeEmptyInput, Message: "command is empty"}
	}
	if strings.HasPrefix(raw, "/") {
		raw = strings.TrimSpace(strings.TrimPrefix(raw, "/"))
	}
	if raw == "" {
		return Command{}, &CommandError{Code: ErrCodeEmptyInput, Message: "command is empty"}
	}

	parts := strings.Fields(raw)
	head := strings.ToLower(parts[0])
	rest := strings.TrimSpace(raw[len(parts[0]):])
	args := parts[1:]

	switch Type(head) {
	case TypeAdd:
		return parseAdd(input, rest)
	case TypeDone, TypeRemove:
		return parseRow(input, Type(head), args)
	case TypeSort:
		if len(args) > 0 {
			return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "sort takes no arguments"}
		}
		return Command{Type: TypeSort, Raw: input}, nil
	default:
		return Command{}, &CommandError{Code: ErrCodeUnknownCommand, Message: fmt.Sprintf("unsupported command: %s", head)}
	}
}

func parseAdd(raw, rest string) (Command, error) {
	title, due := rest, ""
	// Only a standalone @ starts the due date, so titles may contain addresses.
	padded := " " + rest + " "
	if i := strings.LastIndex(padded, " @ "); i >= 0 {
		title = padded[:i]
		due = strings.TrimSpace(padded[i+3:])
		if due == "" {
			return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "add: missing due date after @"}
		}
	}
	title = strings.TrimSpace(title)
	if title == "" {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "add requires a title"}
	}
	return Command{Type: TypeAdd, Raw: raw, Add: &AddArgs{Title: title, Due: due}}, nil
}

func parseRow(raw string, typ Type, args []string) (Command, error) {
	if len(args) != 1 {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf("%s requires a row number", typ)}
	}
	row, err := strconv.Atoi(args[0])
	if err != nil || row < 1 {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf("%s: invalid row %q", typ, args[0])}
	}
	return Command{Type: typ, Raw: raw, Row: &RowArgs{Row: row}}, nil
}
