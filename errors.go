package inventory

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrItemNotFound reports an operation on an id that is not in the list.
	ErrItemNotFound = errors.New("inventory: item not found")
	// ErrNoActiveEdit reports UpdateField, Save or Cancel without BeginEdit.
	ErrNoActiveEdit = errors.New("inventory: no active edit session")
	// ErrUnknownField reports an UpdateField call for a non-editable field.
	ErrUnknownField = errors.New("inventory: unknown field")
)

// OperationError captures editor operation metadata alongside the originating error.
type OperationError struct {
	Op     string
	ItemID int
	Err    error
}

func (e *OperationError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.ItemID == 0 {
		return fmt.Sprintf("inventory: %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("inventory: %s id=%d: %v", e.Op, e.ItemID, e.Err)
}

func (e *OperationError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

func wrapOperationError(op string, id int, err error) error {
	if err == nil {
		return nil
	}
	var opErr *OperationError
	if errors.As(err, &opErr) {
		if opErr.Op == "" {
			opErr.Op = op
		}
		if opErr.ItemID == 0 {
			opErr.ItemID = id
		}
		return opErr
	}
	return &OperationError{Op: op, ItemID: id, Err: err}
}

// EvaluationError captures rule evaluator metadata alongside the originating error.
type EvaluationError struct {
	Engine string
	Expr   string
	Scope  string
	Err    error
}

func (e *EvaluationError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return fmt.Sprintf("inventory: %s evaluator %s scope=%s: %v", e.Engine, describeExpression(e.Expr), e.Scope, e.Err)
}

func (e *EvaluationError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

func describeExpression(expr string) string {
	if expr == "" {
		return "expr=<empty>"
	}
	return fmt.Sprintf("expr=%q", expr)
}

func wrapEvaluatorError(engine string, err error) error {
	if err == nil {
		return nil
	}

	var evalErr *EvaluationError
	if errors.As(err, &evalErr) {
		return err
	}

	if strings.HasPrefix(err.Error(), "inventory:") {
		return err
	}
	return fmt.Errorf("inventory: %s evaluator: %w", engine, err)
}

func wrapEvaluationError(engine, expr, scope string, err error) error {
	if err == nil {
		return nil
	}

	var evalErr *EvaluationError
	if errors.As(err, &evalErr) {
		if evalErr.Engine == "" {
			evalErr.Engine = engine
		}
		if evalErr.Expr == "" {
			evalErr.Expr = expr
		}
		if evalErr.Scope == "" {
			evalErr.Scope = scope
		}
		return evalErr
	}

	return &EvaluationError{
		Engine: engine,
		Expr:   expr,
		Scope:  scope,
		Err:    err,
	}
}
