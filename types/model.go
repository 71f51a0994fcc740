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

package types

import (
	"context"
	"time"

	"github.com/uptrace/bun"
)

// Model is the minimal persistent entity base: a bigint surrogate key named
// "id". Embed it alongside bun.BaseModel in entity structs.
type Model struct {
	ID int64 `bun:"id,pk,autoincrement" json:"id"`
}

// AuditModel extends Model with created/updated timestamps. CreatedAt is
// assigned on insert, UpdatedAt is refreshed on every insert and update.
type AuditModel struct {
	Model
	CreatedAt time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp" json:"created_at"`
	UpdatedAt time.Time `bun:"updated_at,nullzero,notnull,default:current_timestamp" json:"updated_at"`
}

var _ bun.BeforeAppendModelHook = (*AuditModel)(nil)

// BeforeAppendModel maintains the audit timestamps as queries are built.
func (m *AuditModel) BeforeAppendModel(_ context.Context, query bun.Query) error {
	now := time.Now()
	switch query.(type) {
	case *bun.InsertQuery:
		if m.CreatedAt.IsZero() {
			m.CreatedAt = now
		}
		if m.UpdatedAt.IsZero() {
			m.UpdatedAt = now
		}
	case *bun.UpdateQuery:
		m.UpdatedAt = now
	}
	return nil
}
