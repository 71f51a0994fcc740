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

package database

import (
	"errors"
	"testing"

	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
)

func TestClassifySQLError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		recognized bool
		class      SQLError
	}{
		{
			name:       "nil",
			err:        nil,
			recognized: false,
		},
		{
			name:       "mysql duplicate entry",
			err:        &mysql.MySQLError{Number: 1062, Message: "Duplicate entry 'x' for key 'email'"},
			recognized: true,
			class:      DuplicateKeyErr,
		},
		{
			name:       "mysql unmapped number",
			err:        &mysql.MySQLError{Number: 9999, Message: "whatever"},
			recognized: true,
			class:      UnknownErr,
		},
		{
			name:       "postgres unique violation",
			err:        errors.New(`duplicate key value violates unique constraint "authors_email_key" (SQLSTATE 23505)`),
			recognized: true,
			class:      DuplicateKeyErr,
		},
		{
			name:       "sqlite unique violation",
			err:        errors.New("constraint failed: UNIQUE constraint failed: authors.email (2067)"),
			recognized: true,
			class:      DuplicateKeyErr,
		},
		{
			name:       "postgres undefined table",
			err:        errors.New(`relation "missing" does not exist (SQLSTATE 42P01)`),
			recognized: true,
			class:      NoTableErr,
		},
		{
			name:       "sqlite missing table",
			err:        errors.New("SQL logic error: no such table: missing (1)"),
			recognized: true,
			class:      NoTableErr,
		},
		{
			name:       "unrelated",
			err:        errors.New("connection refused"),
			recognized: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ok, class := ClassifySQLError(tt.err)
			assert.Equal(t, tt.recognized, ok)
			if tt.recognized {
				assert.Equal(t, tt.class, class)
			}
		})
	}
}

func TestIsDuplicateKeyError(t *testing.T) {
	assert.True(t, IsDuplicateKeyError(errors.New("UNIQUE constraint failed: notes.id")))
	assert.False(t, IsDuplicateKeyError(errors.New("disk I/O error")))
	assert.False(t, IsDuplicateKeyError(nil))
}
