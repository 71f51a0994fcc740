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

package utils

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func TestNewLoggerReturnsSameInstance(t *testing.T) {
	first := NewLogger("TEST-REGISTRY")
	second := NewLogger("TEST-REGISTRY")
	assert.Same(t, first, second)

	other := NewLogger("TEST-OTHER")
	assert.NotSame(t, first, other)
}

func TestSetLoggerLevel(t *testing.T) {
	l := NewLogger("TEST-LEVEL")

	SetLoggerLevel("TEST-LEVEL", "debug")
	assert.Equal(t, logrus.DebugLevel, l.GetLevel())

	// Bad levels fall back to info.
	SetLoggerLevel("TEST-LEVEL", "nonsense")
	assert.Equal(t, logrus.InfoLevel, l.GetLevel())

	// Unknown names are a no-op.
	SetLoggerLevel("TEST-UNREGISTERED", "debug")
}

func TestEnvDefaults(t *testing.T) {
	t.Setenv("UTILS_TEST_STR", "value")
	assert.Equal(t, "value", EnvDefaultString("UTILS_TEST_STR", "fallback"))
	assert.Equal(t, "fallback", EnvDefaultString("UTILS_TEST_ABSENT", "fallback"))

	t.Setenv("UTILS_TEST_BOOL", "true")
	assert.True(t, EnvDefaultBool("UTILS_TEST_BOOL", false))
	t.Setenv("UTILS_TEST_BOOL", "not-a-bool")
	assert.False(t, EnvDefaultBool("UTILS_TEST_BOOL", false))
	assert.True(t, EnvDefaultBool("UTILS_TEST_BOOL_ABSENT", true))
}
