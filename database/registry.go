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
	"sort"
	"sync"
)

var defaultRegistry = &schemaRegistry{}

// SchemaModel is an entity known to the schema bootstrap. Instance returns a
// Bun-compatible struct pointer; Priority orders table creation (lower
// first, so referenced tables can precede referencing ones).
type SchemaModel interface {
	Instance() interface{}
	Priority() int
}

type schemaRegistry struct {
	mu     sync.RWMutex
	models []SchemaModel
}

func (r *schemaRegistry) add(model SchemaModel) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.models = append(r.models, model)
}

func (r *schemaRegistry) all() []SchemaModel {
	r.mu.RLock()
	defer r.mu.RUnlock()
	result := make([]SchemaModel, len(r.models))
	copy(result, r.models)
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Priority() < result[j].Priority()
	})
	return result
}

type schemaModel struct {
	instance interface{}
	priority int
}

func (m *schemaModel) Instance() interface{} { return m.instance }
func (m *schemaModel) Priority() int         { return m.priority }

// RegisterModel adds an entity to the default registry. Many-to-many join
// models must be registered so Bun knows them before use.
func RegisterModel(instance interface{}, priority int) {
	defaultRegistry.add(&schemaModel{instance: instance, priority: priority})
}

// RegisteredModels returns registered entities sorted by ascending priority.
func RegisteredModels() []SchemaModel {
	return defaultRegistry.all()
}

// RegisteredModelInstances returns just the struct instances, in priority
// order.
func RegisteredModelInstances() []interface{} {
	models := RegisteredModels()
	instances := make([]interface{}, len(models))
	for i, model := range models {
		instances[i] = model.Instance()
	}
	return instances
}
