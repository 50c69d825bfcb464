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

package sema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFunctionTypeBuilder(t *testing.T) {
	t.Parallel()

	t.Run("builds the same signature as direct construction", func(t *testing.T) {
		t.Parallel()

		built := NewFunctionTypeBuilder().
			AddRequiredFormal(NumberType).
			AddOptionalFormal(StringType).
			AddRestFormal(BoolType).
			AddReturnType(NumberType).
			Build()

		direct := NewFunctionType(
			[]*Type{NumberType},
			[]*Type{StringType},
			BoolType,
			NumberType,
			nil,
			nil,
			false,
		)

		assert.True(t, built.Equal(direct))
	})

	t.Run("applies normalization", func(t *testing.T) {
		t.Parallel()

		built := NewFunctionTypeBuilder().
			AddOptionalFormal(StringType).
			AddRestFormal(StringType).
			AddReturnType(NumberType).
			Build()

		expected := NewFunctionType(nil, nil, StringType, NumberType, nil, nil, false)
		assert.True(t, built.Equal(expected))
	})

	t.Run("loose", func(t *testing.T) {
		t.Parallel()

		built := NewFunctionTypeBuilder().
			AddReturnType(NumberType).
			MarkLoose().
			Build()

		assert.True(t, built.IsLoose())
	})

	t.Run("class", func(t *testing.T) {
		t.Parallel()

		class := NewNominalType("Foo")
		built := NewFunctionTypeBuilder().
			AddReturnType(NumberType).
			AddClass(class).
			Build()

		require.True(t, built.IsConstructor())
		assert.True(t, built.ReturnType().Equal(class.InstanceType()))
	})

	t.Run("outer var preconditions", func(t *testing.T) {
		t.Parallel()

		built := NewFunctionTypeBuilder().
			AddReturnType(NumberType).
			AddOuterVarPrecondition("x", StringType).
			Build()

		assert.True(t, built.OuterVarPrecondition("x").Equal(StringType))
		assert.Nil(t, built.OuterVarPrecondition("y"))
	})

	t.Run("formal ordering is enforced", func(t *testing.T) {
		t.Parallel()

		assert.Panics(t, func() {
			NewFunctionTypeBuilder().
				AddOptionalFormal(NumberType).
				AddRequiredFormal(NumberType)
		})

		assert.Panics(t, func() {
			NewFunctionTypeBuilder().
				AddRestFormal(NumberType).
				AddOptionalFormal(NumberType)
		})

		assert.Panics(t, func() {
			NewFunctionTypeBuilder().
				AddRestFormal(NumberType).
				AddRestFormal(NumberType)
		})

		assert.Panics(t, func() {
			NewFunctionTypeBuilder().
				AddReturnType(NumberType).
				AddReturnType(NumberType)
		})
	})
}
