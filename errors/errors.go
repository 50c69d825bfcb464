/*
 * Nutmeg - A structural type checker for dynamically-typed scripts
 *
 * Copyright Nutmeg Authors
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *   http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package errors

import (
	"fmt"
	"runtime/debug"

	"golang.org/x/xerrors"
)

// InternalError is an implementation error, e.g. an unreachable code path
// (UnreachableError). The checker should never produce an InternalError
// in an ideal world.
//
// InternalError s must always be thrown and not be caught (recovered),
// i.e. be propagated up the call stack.
type InternalError interface {
	error
	IsInternalError()
}

// UnreachableError

// UnreachableError is an internal error which should have never occurred
// due to a programming error in the checker.
//
// NOTE: this error is not used for errors because of bugs in a
// user-provided program.
type UnreachableError struct {
	Stack []byte
}

var _ InternalError = UnreachableError{}

func NewUnreachableError() *UnreachableError {
	return &UnreachableError{Stack: debug.Stack()}
}

func (e UnreachableError) Error() string {
	return fmt.Sprintf("unreachable\n%s", e.Stack)
}

func (e UnreachableError) IsInternalError() {}

// UnexpectedError is the default implementation of InternalError interface.
// It's a generic error that wraps an implementation error.
type UnexpectedError struct {
	Err error
}

var _ InternalError = UnexpectedError{}

func NewUnexpectedError(message string, arg ...any) UnexpectedError {
	return UnexpectedError{
		Err: fmt.Errorf(message, arg...),
	}
}

func (e UnexpectedError) Unwrap() error {
	return e.Err
}

func (e UnexpectedError) Error() string {
	return e.Err.Error()
}

func (e UnexpectedError) IsInternalError() {}

// IsInternalError checks whether a given error was caused by an InternalError.
// An error is an internal error, if it has at-least one InternalError
// in the error chain.
func IsInternalError(err error) bool {
	switch err := err.(type) {
	case InternalError:
		return true
	case xerrors.Wrapper:
		return IsInternalError(err.Unwrap())
	default:
		return false
	}
}
