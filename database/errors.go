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
	"strings"

	"github.com/go-sql-driver/mysql"
)

// SQLError is a coarse classification of store-engine failures. The layer
// never reinterprets or retries them; classification exists so callers such
// as the repository upsert fallback can distinguish a duplicate key from a
// real failure.
type SQLError int

const (
	UnknownErr SQLError = iota
	DuplicateKeyErr
	NotNullViolationErr
	ForeignKeyViolationErr
	CheckConstraintViolationErr
	DataTruncatedErr
	NoTableErr
)

var mysqlErrNumbers = map[uint16]SQLError{
	1062: DuplicateKeyErr,
	1048: NotNullViolationErr,
	1216: ForeignKeyViolationErr,
	1217: ForeignKeyViolationErr,
	1451: ForeignKeyViolationErr,
	1452: ForeignKeyViolationErr,
	3819: CheckConstraintViolationErr,
	1265: DataTruncatedErr,
	1146: NoTableErr,
}

// Substrings cover postgres SQLSTATE text and sqlite message formats.
var sqlErrPatterns = []struct {
	class    SQLError
	patterns []string
}{
	{DuplicateKeyErr, []string{"sqlstate 23505", "duplicate key value", "unique constraint failed"}},
	{NotNullViolationErr, []string{"sqlstate 23502", "not-null constraint", "not null constraint failed"}},
	{ForeignKeyViolationErr, []string{"sqlstate 23503", "foreign key violation", "foreign key constraint failed"}},
	{CheckConstraintViolationErr, []string{"sqlstate 23514", "check constraint"}},
	{DataTruncatedErr, []string{"sqlstate 22001", "string data right truncation", "data truncated"}},
	{NoTableErr, []string{"sqlstate 42p01", "undefined table", "no such table"}},
}

// ClassifySQLError maps a driver error onto an SQLError class. The boolean
// reports whether the error was recognized as a store-engine error at all.
func ClassifySQLError(err error) (bool, SQLError) {
	if err == nil {
		return false, UnknownErr
	}

	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) {
		if class, ok := mysqlErrNumbers[mysqlErr.Number]; ok {
			return true, class
		}
		return true, UnknownErr
	}

	s := strings.ToLower(err.Error())
	for _, entry := range sqlErrPatterns {
		for _, pattern := range entry.patterns {
			if strings.Contains(s, pattern) {
				return true, entry.class
			}
		}
	}
	return false, UnknownErr
}

// IsDuplicateKeyError reports whether err is a unique/primary key violation.
func IsDuplicateKeyError(err error) bool {
	ok, class := ClassifySQLError(err)
	return ok && class == DuplicateKeyErr
}
