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
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
)

type team struct {
	bun.BaseModel `bun:"table:teams,alias:tm"`

	ID   int64  `bun:"id,pk,autoincrement"`
	Name string `bun:"name,notnull"`
}

type member struct {
	bun.BaseModel `bun:"table:members,alias:m"`

	ID     int64  `bun:"id,pk,autoincrement"`
	TeamID int64  `bun:"team_id,notnull"`
	Name   string `bun:"name,notnull"`

	Team *team `bun:"rel:belongs-to,join:team_id=id"`
}

func TestRegistryOrdersByPriority(t *testing.T) {
	// Registered out of order; referenced tables carry a lower priority.
	RegisterModel((*member)(nil), 20)
	RegisterModel((*team)(nil), 10)

	models := RegisteredModels()
	require.GreaterOrEqual(t, len(models), 2)

	teamIdx, memberIdx := -1, -1
	for i, model := range models {
		switch model.Instance().(type) {
		case *team:
			teamIdx = i
		case *member:
			memberIdx = i
		}
	}
	require.NotEqual(t, -1, teamIdx)
	require.NotEqual(t, -1, memberIdx)
	assert.Less(t, teamIdx, memberIdx)

	instances := RegisteredModelInstances()
	assert.Len(t, instances, len(models))
}

func TestCreateAllTables(t *testing.T) {
	RegisterModel((*team)(nil), 10)
	RegisterModel((*member)(nil), 20)

	engine := newSQLiteEngine(t)
	ctx := context.Background()
	require.NoError(t, engine.CreateAllTables(ctx))
	// Idempotent: existing tables are left untouched.
	require.NoError(t, engine.CreateAllTables(ctx))

	_, err := engine.DB().NewInsert().Model(&team{Name: "core"}).Exec(ctx)
	require.NoError(t, err)
	count, err := engine.DB().NewSelect().Model((*team)(nil)).Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}
