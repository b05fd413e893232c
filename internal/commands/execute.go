package commands

import "fmt"

type Result struct {
	Message string
}

type Handlers struct {
	Add    func(AddArgs) (Result, error)
	Done   func(RowArgs) (Result, error)
	Remove func(RowArgs) (Result, error)
	Sort   func() (Result, error)
}

func Execute(cmd Command, handlers Handlers) (Result, error) {
	switch cmd.Type {
	case TypeAdd:
		if handlers.Add == nil {
			return Result{}, missing(cmd.Type)
		}
		return handlers.Add(*cmd.Add)
	case TypeDone:
		if handlers.Done == nil {
			return Result{}, missing(cmd.Type)
		}
		return handlers.Done(*cmd.Row)
	case TypeRemove:
		if handlers.Remove == nil {
			return Result{}, missing(cmd.Type)
		}
		return handlers.Remove(*cmd.Row)
	case TypeSort:
		if handlers.Sort == nil {
			return Result{}, missing(cmd.Type)
		}
		return handlers.Sort()
	default:
		return Result{}, &CommandError{Code: ErrCodeUnknownCommand, Message: fmt.Sprintf("unknown command type: %s", cmd.Type)}
	}
}

func missing(t Type) error {
	return &CommandError{Code: ErrCodeHandlerMissing, Message: fmt.Sprintf("%s handler not configured", t)}
}
