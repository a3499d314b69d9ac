package apperr

import (
	"fmt"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// Kind classifies an error for the transport layer.
type Kind int

const (
	KindUnknown Kind = iota
	KindNotFound
	KindBusinessRule
	KindConstraint
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindBusinessRule:
		return "business_rule"
	case KindConstraint:
		return "constraint"
	default:
		return "unknown"
	}
}

// Error is a domain failure that carries a message safe to show to callers.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// NotFound reports a referenced entity that does not exist.
func NotFound(format string, args ...interface{}) error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

// BusinessRule reports a rule violation such as insufficient stock or an invalid transition.
func BusinessRule(format string, args ...interface{}) error {
	return &Error{Kind: KindBusinessRule, Message: fmt.Sprintf(format, args...)}
}

// Constraint wraps a store failure (unique or foreign key violation); the store text is kept.
func Constraint(err error) error {
	if err == nil {
		return nil
	}
	return &Error{Kind: KindConstraint, Message: err.Error(), Err: err}
}

// FromDB maps the result of a store call. A missing record becomes NotFound for the named
// entity; anything else is treated as a constraint failure.
func FromDB(err error, entity string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return NotFound("%s not found", entity)
	}
	return Constraint(err)
}

// FromRead maps the result of a store read. Unlike FromDB, unexpected failures are wrapped and
// left unclassified.
func FromRead(err error, entity string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return NotFound("%s not found", entity)
	}
	return errors.Wrapf(err, "load %s", entity)
}

// KindOf returns the kind of the first *Error in err's chain.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

func IsNotFound(err error) bool     { return KindOf(err) == KindNotFound }
func IsBusinessRule(err error) bool { return KindOf(err) == KindBusinessRule }
func IsConstraint(err error) bool   { return KindOf(err) == KindConstraint }
