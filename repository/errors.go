/*
 * Copyright 2026 cemrehancavdar.
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package repository

import (
	"errors"
	"fmt"
)

// Error marks caller-resolvable contract violations: an identifier that
// cannot be determined, an unrecognized filter type, conflicting options.
// These are deterministic and raised before any store I/O. Store-engine
// errors are never converted into Error; they propagate unmodified.
type Error struct {
	Message string
}

func (e *Error) Error() string { return e.Message }

// Errorf builds a contract-violation error.
func Errorf(format string, args ...interface{}) *Error {
	return &Error{Message: fmt.Sprintf(format, args...)}
}

// IsRepositoryError reports whether err is a contract violation.
func IsRepositoryError(err error) bool {
	var re *Error
	return errors.As(err, &re)
}

var (
	// ErrNotFound is returned when zero rows matched where exactly one was
	// required.
	ErrNotFound = errors.New("no rows matched the specified criteria")
	// ErrMultipleResults is returned when more than one row matched where at
	// most one was expected.
	ErrMultipleResults = errors.New("multiple rows matched the specified criteria")
)
