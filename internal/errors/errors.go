// Package errors provides custom error types for domain-specific errors.
package errors

import (
	"errors"
	"fmt"
)

// Standard sentinel errors
var (
	ErrTradeNotFound     = errors.New("trade not found")
	ErrAlreadyClosed     = errors.New("trade already closed")
	ErrTradingLocked     = errors.New("trading is locked")
	ErrCooldownActive    = errors.New("cooldown period active")
	ErrRatioBelowMinimum = errors.New("risk/reward ratio below minimum")
	ErrPlanIncomplete    = errors.New("risk plan incomplete")
	ErrConfigInvalid     = errors.New("invalid configuration")
	ErrDatabaseError     = errors.New("database error")
)

// PriceLogicError reports a stop or target on the wrong side of the entry
// for the given direction. It is a blocking validation error: the
// calculator halts and produces no numbers.
type PriceLogicError struct {
	Direction string
	Field     string // "stop_loss" or "take_profit"
	Message   string
}

func (e *PriceLogicError) Error() string {
	return fmt.Sprintf("price logic [%s] %s: %s", e.Direction, e.Field, e.Message)
}

// NewPriceLogicError creates a new PriceLogicError.
func NewPriceLogicError(direction, field, message string) *PriceLogicError {
	return &PriceLogicError{
		Direction: direction,
		Field:     field,
		Message:   message,
	}
}

// ValidationError represents a validation error.
type ValidationError struct {
	Field   string
	Value   interface{}
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error: %s (%v): %s", e.Field, e.Value, e.Message)
}

// NewValidationError creates a new ValidationError.
func NewValidationError(field string, value interface{}, message string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Value:   value,
		Message: message,
	}
}

// LimitError represents a breached loss-limit rule.
type LimitError struct {
	Rule    string
	Current float64
	Limit   float64
	Message string
}

func (e *LimitError) Error() string {
	return fmt.Sprintf("limit breached [%s]: %s (current: %.2f, limit: %.2f)", e.Rule, e.Message, e.Current, e.Limit)
}

// NewLimitError creates a new LimitError.
func NewLimitError(rule string, current, limit float64, message string) *LimitError {
	return &LimitError{
		Rule:    rule,
		Current: current,
		Limit:   limit,
		Message: message,
	}
}

// StoreError represents a persistence failure.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store error [%s]: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// NewStoreError creates a new StoreError.
func NewStoreError(op string, err error) *StoreError {
	return &StoreError{Op: op, Err: err}
}

// Wrap wraps an error with additional context.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf wraps an error with formatted context.
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}
