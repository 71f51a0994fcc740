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
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
)

func TestNewOffsetPagination(t *testing.T) {
	page := NewOffsetPagination([]*string(nil), 10, 20, 55)
	assert.NotNil(t, page.Items)
	assert.Empty(t, page.Items)
	assert.Equal(t, 10, page.Limit)
	assert.Equal(t, 20, page.Offset)
	assert.Equal(t, 55, page.Total)
}

func TestAuditModelTimestamps(t *testing.T) {
	m := &AuditModel{}

	require.NoError(t, m.BeforeAppendModel(context.Background(), &bun.InsertQuery{}))
	assert.False(t, m.CreatedAt.IsZero())
	assert.False(t, m.UpdatedAt.IsZero())

	created := m.CreatedAt
	m.UpdatedAt = time.Time{}
	require.NoError(t, m.BeforeAppendModel(context.Background(), &bun.UpdateQuery{}))
	assert.Equal(t, created, m.CreatedAt)
	assert.False(t, m.UpdatedAt.IsZero())
}

func TestJsonObjectScan(t *testing.T) {
	var obj JsonObject

	require.NoError(t, obj.Scan([]byte(`{"k":"v"}`)))
	assert.Equal(t, "v", obj["k"])

	// sqlite hands JSON back as TEXT
	require.NoError(t, obj.Scan(`{"n":1}`))
	assert.Equal(t, float64(1), obj["n"])

	require.NoError(t, obj.Scan(nil))
	assert.Empty(t, obj)

	assert.Error(t, obj.Scan(42))
}

func TestJsonObjectValue(t *testing.T) {
	var nilObj JsonObject
	value, err := nilObj.Value()
	require.NoError(t, err)
	assert.Nil(t, value)

	value, err = JsonObject{"k": "v"}.Value()
	require.NoError(t, err)
	assert.JSONEq(t, `{"k":"v"}`, string(value.([]byte)))
}

func TestJsonArrayRoundTrip(t *testing.T) {
	arr := JsonArray{{"k": "v"}}
	value, err := arr.Value()
	require.NoError(t, err)

	var scanned JsonArray
	require.NoError(t, scanned.Scan(value))
	require.Len(t, scanned, 1)
	assert.Equal(t, "v", scanned[0]["k"])
}

func TestFilterInterfaces(t *testing.T) {
	var _ Filter = LimitOffset{}
	var _ PaginationFilter = LimitOffset{}
	var _ Filter = OrderBy{}
	var _ Filter = CollectionFilter{}
	var _ Filter = NotInCollectionFilter{}
	var _ Filter = BeforeAfter{}
	var _ Filter = SearchFilter{}

	window := NewLimitOffset(25, 50)
	assert.Equal(t, 25, window.Limit)
	assert.Equal(t, 50, window.Offset)
}
