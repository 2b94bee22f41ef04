package errors

import (
	"errors"
	"fmt"
)

// Standard errors provides exported error variables for common error cases.
var (
	// ErrNotFound indicates that a requested entity could not be found.
	ErrNotFound = errors.New("entity not found")

	// ErrInvalidOperation indicates that the requested operation is invalid in the current context.
	ErrInvalidOperation = errors.New("invalid operation")

	// ErrConnectionFailed indicates a failure to establish a database connection.
	ErrConnectionFailed = errors.New("database connection failed")

	// ErrTransactionFailed indicates a failure during a transaction operation.
	ErrTransactionFailed = errors.New("transaction operation failed")

	// ErrQueryFailed indicates a failure during query execution.
	ErrQueryFailed = errors.New("query execution failed")

	// ErrValidationFailed indicates a validation failure.
	ErrValidationFailed = errors.New("validation failed")
)

// Kind classifies the builder/manager error taxonomy. Callers test a Kind
// with IsKind rather than matching on error strings.
type Kind string

const (
	KindEmptyInput          Kind = "empty_input"
	KindInsertArity         Kind = "insert_arity"
	KindUnknownAggregate    Kind = "unknown_aggregate"
	KindInvalidOp           Kind = "invalid_op"
	KindUnsupportedDialect  Kind = "unsupported_dialect"
	KindMissingWhere        Kind = "missing_where"
	KindNoPrecedingClause   Kind = "no_preceding_clause"
	KindNoQueryReady        Kind = "no_query_ready"
	KindJoinContextMissing  Kind = "join_context_missing"
	KindOffsetWithoutLimit  Kind = "offset_without_limit"
	KindNoEntitiesAttached  Kind = "no_entities_attached"
	KindNoDefaultDatabase   Kind = "no_default_database"
	KindDelegatedDatabaseError Kind = "delegated_database_error"
	KindInvalidContent      Kind = "invalid_content"
)

// Error types used across the module.
type (
	// Error is the base interface implemented by every qstack-specific error.
	Error interface {
		error
		QstackError() bool
	}

	// QueryError represents an error raised while building or rendering a query.
	QueryError struct {
		Kind    Kind
		Query   string
		Message string
		Err     error
		Context map[string]interface{}
	}

	// ModelError represents an error related to entity/struct field extraction.
	ModelError struct {
		Model   string
		Message string
		Err     error
	}

	// ValidationError represents field validation errors.
	ValidationError struct {
		Model  string
		Fields map[string]string
		Err    error
	}

	// ConnectionError represents errors that occur when connecting to a database.
	ConnectionError struct {
		Driver  string
		Message string
		Err     error
	}

	// TransactionError represents errors that occur during a transaction.
	TransactionError struct {
		Operation string
		Message   string
		Err       error
	}

	// ConfigError represents a configuration loading/lookup failure.
	ConfigError struct {
		Key     string
		Value   interface{}
		Message string
		Err     error
	}

	// InternalError represents an unexpected internal invariant violation.
	InternalError struct {
		Message string
		Err     error
		Context map[string]interface{}
	}
)

// QstackError identifies this as a qstack error.
func (e *QueryError) QstackError() bool { return true }

// Error returns the error message.
func (e *QueryError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("query error: %s: %v", e.Message, e.Err)
	}
	return fmt.Sprintf("query error: %s", e.Message)
}

// Unwrap returns the underlying error.
func (e *QueryError) Unwrap() error { return e.Err }

// WithKind sets the error Kind and returns the receiver for chaining.
func (e *QueryError) WithKind(kind Kind) *QueryError {
	e.Kind = kind
	return e
}

// WithQuery attaches the SQL rendered so far to the error.
func (e *QueryError) WithQuery(query string) *QueryError {
	e.Query = query
	return e
}

// WithContext attaches a contextual key/value pair to the error.
func (e *QueryError) WithContext(key string, value interface{}) *QueryError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// QstackError identifies this as a qstack error.
func (e *ModelError) QstackError() bool { return true }

// Error returns the error message.
func (e *ModelError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("model error (%s): %s: %v", e.Model, e.Message, e.Err)
	}
	return fmt.Sprintf("model error (%s): %s", e.Model, e.Message)
}

// Unwrap returns the underlying error.
func (e *ModelError) Unwrap() error { return e.Err }

// WithModel sets the model name and returns the receiver for chaining.
func (e *ModelError) WithModel(model string) *ModelError {
	e.Model = model
	return e
}

// QstackError identifies this as a qstack error.
func (e *ValidationError) QstackError() bool { return true }

// Error returns the error message.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error (%s): %d field(s) failed validation", e.Model, len(e.Fields))
}

// Unwrap returns the underlying error.
func (e *ValidationError) Unwrap() error { return e.Err }

// FieldErrors returns the map of validation errors by field.
func (e *ValidationError) FieldErrors() map[string]string {
	return e.Fields
}

// QstackError identifies this as a qstack error.
func (e *ConnectionError) QstackError() bool { return true }

// Error returns the error message.
func (e *ConnectionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("connection error (%s): %s: %v", e.Driver, e.Message, e.Err)
	}
	return fmt.Sprintf("connection error (%s): %s", e.Driver, e.Message)
}

// Unwrap returns the underlying error.
func (e *ConnectionError) Unwrap() error { return e.Err }

// QstackError identifies this as a qstack error.
func (e *TransactionError) QstackError() bool { return true }

// Error returns the error message.
func (e *TransactionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("transaction error (%s): %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("transaction error (%s): %s", e.Operation, e.Message)
}

// Unwrap returns the underlying error.
func (e *TransactionError) Unwrap() error { return e.Err }

// QstackError identifies this as a qstack error.
func (e *ConfigError) QstackError() bool { return true }

// Error returns the error message.
func (e *ConfigError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("config error: %s: %v", e.Message, e.Err)
	}
	return fmt.Sprintf("config error: %s", e.Message)
}

// Unwrap returns the underlying error.
func (e *ConfigError) Unwrap() error { return e.Err }

// WithKey sets the offending configuration key and returns the receiver.
func (e *ConfigError) WithKey(key string) *ConfigError {
	e.Key = key
	return e
}

// WithValue sets the offending configuration value and returns the receiver.
func (e *ConfigError) WithValue(value interface{}) *ConfigError {
	e.Value = value
	return e
}

// QstackError identifies this as a qstack error.
func (e *InternalError) QstackError() bool { return true }

// Error returns the error message.
func (e *InternalError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("internal error: %s: %v", e.Message, e.Err)
	}
	return fmt.Sprintf("internal error: %s", e.Message)
}

// Unwrap returns the underlying error.
func (e *InternalError) Unwrap() error { return e.Err }

// WithContext attaches a contextual key/value pair and returns the receiver.
func (e *InternalError) WithContext(key string, value interface{}) *InternalError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// NewQueryError creates a new QueryError.
func NewQueryError(query, message string, err error) *QueryError {
	return &QueryError{Query: query, Message: message, Err: err}
}

// NewQueryErrorKind creates a new QueryError already tagged with a Kind.
func NewQueryErrorKind(kind Kind, message string, err error) *QueryError {
	return &QueryError{Kind: kind, Message: message, Err: err}
}

// NewModelError creates a new ModelError.
func NewModelError(model, message string, err error) *ModelError {
	return &ModelError{Model: model, Message: message, Err: err}
}

// NewValidationError creates a new ValidationError.
func NewValidationError(model string, fields map[string]string, err error) *ValidationError {
	return &ValidationError{Model: model, Fields: fields, Err: err}
}

// NewConnectionError creates a new ConnectionError.
func NewConnectionError(driver, message string, err error) *ConnectionError {
	return &ConnectionError{Driver: driver, Message: message, Err: err}
}

// NewTransactionError creates a new TransactionError.
func NewTransactionError(operation, message string, err error) *TransactionError {
	return &TransactionError{Operation: operation, Message: message, Err: err}
}

// NewConfigError creates a new ConfigError.
func NewConfigError(message string, err error) *ConfigError {
	return &ConfigError{Message: message, Err: err}
}

// NewInternalError creates a new InternalError.
func NewInternalError(message string, err error) *InternalError {
	return &InternalError{Message: message, Err: err}
}

// Is reports whether any error in err's tree matches target.
// It's a wrapper around the standard errors.Is function.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's tree that matches the target type.
// It's a wrapper around the standard errors.As function.
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}

// IsKind reports whether err is a *QueryError carrying the given Kind.
func IsKind(err error, kind Kind) bool {
	var qe *QueryError
	if !As(err, &qe) {
		return false
	}
	return qe.Kind == kind
}

// Wrap wraps an error with a message.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf wraps an error with a formatted message.
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}
