package errdefs // import "github.com/rolegraph/rolegraph/errdefs"

import (
	"errors"
	"fmt"
)

type ErrNotFound struct {
	model string
}

func NewErrNotFound(model string) ErrNotFound {
	return ErrNotFound{
		model: model,
	}
}

func (err ErrNotFound) Error() string {
	return fmt.Sprintf("%s not found", err.model)
}

type ErrAlreadyExists struct {
	model string
}

func NewErrAlreadyExists(model string) ErrAlreadyExists {
	return ErrAlreadyExists{
		model: model,
	}
}

func (err ErrAlreadyExists) Error() string {
	return fmt.Sprintf("%s already exists", err.model)
}

type ErrInUse struct {
	model string
}

func NewErrInUse(model string) ErrInUse {
	return ErrInUse{
		model: model,
	}
}

func (err ErrInUse) Error() string {
	return fmt.Sprintf("%s is still in use", err.model)
}

type ErrAlreadyAttached struct {
	model string
}

func NewErrAlreadyAttached(model string) ErrAlreadyAttached {
	return ErrAlreadyAttached{
		model: model,
	}
}

func (err ErrAlreadyAttached) Error() string {
	return fmt.Sprintf("%s is already attached", err.model)
}

type ErrNotAttached struct {
	model string
}

func NewErrNotAttached(model string) ErrNotAttached {
	return ErrNotAttached{
		model: model,
	}
}

func (err ErrNotAttached) Error() string {
	return fmt.Sprintf("%s is not attached", err.model)
}

// ErrSelfReference is reserved for hierarchy support so that an item
// becoming its own child does not overload ErrInUse.
type ErrSelfReference struct {
	model string
}

func NewErrSelfReference(model string) ErrSelfReference {
	return ErrSelfReference{
		model: model,
	}
}

func (err ErrSelfReference) Error() string {
	return fmt.Sprintf("%s cannot reference itself", err.model)
}

type ErrUnavailable struct {
	system string
}

func NewErrUnavailable(system string) ErrUnavailable {
	return ErrUnavailable{
		system: system,
	}
}

func (err ErrUnavailable) Error() string {
	return fmt.Sprintf("%s is unavailable", err.system)
}

func IsNotFound(err error) bool {
	var e ErrNotFound
	return errors.As(err, &e)
}

func IsAlreadyExists(err error) bool {
	var e ErrAlreadyExists
	return errors.As(err, &e)
}

func IsInUse(err error) bool {
	var e ErrInUse
	return errors.As(err, &e)
}

func IsAlreadyAttached(err error) bool {
	var e ErrAlreadyAttached
	return errors.As(err, &e)
}

func IsNotAttached(err error) bool {
	var e ErrNotAttached
	return errors.As(err, &e)
}

func IsUnavailable(err error) bool {
	var e ErrUnavailable
	return errors.As(err, &e)
}
