// Package guard provides ConstructorGuard, a marker embedded in value objects,
// entities and commands to detect instances that bypassed their constructor.
package guard

import "errors"

// ErrDefaultConstructorGuard is returned by Validate when no specific error is given.
var ErrDefaultConstructorGuard = errors.New("object must be created via its constructor")

// ConstructorGuard is set only by NewConstructorGuard. A zero value fails validation,
// so embedding it in a struct makes the zero value of that struct invalid.
//
// Example usage:
//
//	var ErrCommandIsNotConstructed = errors.New("IngestOrderCommand must be created via NewIngestOrderCommand")
//
//	type IngestOrderCommand struct {
//	    aggregate intake.OrderAggregate
//	    guard     guard.ConstructorGuard
//	}
//
//	func (c IngestOrderCommand) Validate() error {
//	    return c.guard.Validate(ErrCommandIsNotConstructed)
//	}
type ConstructorGuard struct {
	isConstructed bool
}

// NewConstructorGuard returns a guard that marks its owner as properly constructed.
func NewConstructorGuard() ConstructorGuard {
	return ConstructorGuard{isConstructed: true}
}

// Validate returns validationError (or ErrDefaultConstructorGuard when it is nil)
// if the owner was not created through its constructor.
func (g ConstructorGuard) Validate(validationError error) error {
	if validationError == nil {
		validationError = ErrDefaultConstructorGuard
	}
	if !g.isConstructed {
		return validationError
	}
	return nil
}
