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
	"reflect"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/schema"
)

// tableOf resolves the Bun schema metadata for the entity type.
func tableOf[T any](db *bun.DB) *schema.Table {
	return db.Table(reflect.TypeOf((*T)(nil)).Elem())
}

// lookupField resolves an attribute by column name or Go field name.
func lookupField(table *schema.Table, attr string) (*schema.Field, bool) {
	if f, ok := table.FieldMap[attr]; ok {
		return f, true
	}
	for _, f := range table.Fields {
		if f.GoName == attr {
			return f, true
		}
	}
	return nil, false
}

// setFieldValue assigns value into the entity attribute, converting where
// needed, and reports whether the stored value changed.
func setFieldValue(field *schema.Field, strct reflect.Value, value any) (bool, error) {
	fv := field.Value(strct)

	if value == nil {
		changed := !fv.IsZero()
		fv.Set(reflect.Zero(fv.Type()))
		return changed, nil
	}

	rv := reflect.ValueOf(value)
	switch {
	case rv.Type().AssignableTo(fv.Type()):
	case rv.Type().ConvertibleTo(fv.Type()):
		rv = rv.Convert(fv.Type())
	default:
		return false, Errorf("cannot assign %T to attribute %q", value, field.GoName)
	}

	changed := !reflect.DeepEqual(fv.Interface(), rv.Interface())
	fv.Set(rv)
	return changed, nil
}

// ModelFromMap constructs an entity from a string-keyed mapping. Keys may be
// column names or Go field names; an unknown key is a contract violation.
func ModelFromMap[T any](db *bun.DB, data map[string]any) (*T, error) {
	entity := new(T)
	table := tableOf[T](db)
	strct := reflect.ValueOf(entity).Elem()

	for key, value := range data {
		field, ok := lookupField(table, key)
		if !ok {
			return nil, Errorf("unknown attribute %q for model %s", key, table.TypeName)
		}
		if _, err := setFieldValue(field, strct, value); err != nil {
			return nil, err
		}
	}
	return entity, nil
}

// ModelToMap expands an entity into a string-keyed mapping. Without attrs
// every field is included, keyed by column name; with attrs only those
// attributes are included, keyed as given, and an unknown attribute is a
// contract violation. With omitZero set, attributes holding their zero value
// are left out.
func ModelToMap[T any](db *bun.DB, entity *T, omitZero bool, attrs ...string) (map[string]any, error) {
	table := tableOf[T](db)
	strct := reflect.ValueOf(entity).Elem()

	if len(attrs) > 0 {
		out := make(map[string]any, len(attrs))
		for _, attr := range attrs {
			field, ok := lookupField(table, attr)
			if !ok {
				return nil, Errorf("unknown attribute %q for model %s", attr, table.TypeName)
			}
			fv := field.Value(strct)
			if omitZero && fv.IsZero() {
				continue
			}
			out[attr] = fv.Interface()
		}
		return out, nil
	}

	out := make(map[string]any, len(table.Fields))
	for _, field := range table.Fields {
		fv := field.Value(strct)
		if omitZero && fv.IsZero() {
			continue
		}
		out[field.Name] = fv.Interface()
	}
	return out, nil
}
