package errors

import (
	"errors"
	"fmt"
	"runtime"

	errorsGo "github.com/go-errors/errors"
)

func As(err error, target any) bool { return errorsGo.As(err, target) }

func Is(err, target error) bool { return errorsGo.Is(err, target) }

func Unwrap(err error) error { return errorsGo.Unwrap(err) }

func Join(errs ...error) error {
	// not implemented by github.com/go-errors/errors
	err := errors.Join(errs...)
	if err == nil {
		return nil
	}
	return errorsGo.Wrap(err, 1)
}

// New wraps obj with the stack of the caller.
// nil stays nil and an already wrapped error keeps its origin.
func New(obj any) *Error {
	if obj == nil {
		return nil
	}
	if errGo, okErrGo := obj.(*errorsGo.Error); okErrGo {
		return errGo
	}
	return errorsGo.Wrap(obj, 1)
}

// Mark wraps the sentinel kind with a formatted detail message.
// errors.Is(err, kind) holds for the result.
func Mark(kind error, format string, a ...any) *Error {
	if kind == nil {
		return nil
	}
	return errorsGo.WrapPrefix(kind, fmt.Sprintf(format, a...), 1)
}

// Recovered turns a recovered panic value into an error of the given kind.
func Recovered(kind error, r any) *Error {
	if r == nil {
		return nil
	}
	if err, ok := r.(error); ok {
		return errorsGo.WrapPrefix(fmt.Errorf(`%w: %w`, kind, err), `recovered`, 2)
	}
	return errorsGo.WrapPrefix(fmt.Errorf(`%w: %v`, kind, r), `recovered`, 2)
}

// remaining "github.com/go-errors/errors" symbols

type Error = errorsGo.Error

func Errorf(format string, a ...interface{}) *Error { return errorsGo.Errorf(format, a...) }

func Wrap(e interface{}, skip int) *Error { return errorsGo.Wrap(e, skip+1) }

// NilReceiver returns an error with the function name if any of the arguments are nil
func NilReceiver(args ...any) error {
	return errMsgNilTester(`nil receiver or struct field`, 3, args...)
}

// NilParam returns an error with the function name if any of the arguments are nil
func NilParam(args ...any) error {
	return errMsgNilTester(`nil parameter`, 3, args...)
}

func errMsgNilTester(msg string, skip int, args ...any) error {
	if len(args) == 0 {
		return errMsg(msg, skip)
	}
	for i := range args {
		if args[i] == nil {
			return errMsg(msg, skip)
		}
	}
	return nil
}

func errMsg(msg string, skip int) error {
	pc, _, _, ok := runtime.Caller(skip)
	if !ok {
		return Wrap(msg, skip)
	}
	return Wrap(msg+`: `+runtime.FuncForPC(pc).Name()+`()`, skip)
}
