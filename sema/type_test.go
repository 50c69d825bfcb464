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

func TestTypeJoin(t *testing.T) {
	t.Parallel()

	t.Run("primitives", func(t *testing.T) {
		t.Parallel()

		numberOrString := Join(NumberType, StringType)
		assert.False(t, numberOrString.IsBottom())
		assert.Equal(t, "number|string", numberOrString.String())

		assert.True(t, Join(NumberType, NumberType).Equal(NumberType))
	})

	t.Run("top absorbs", func(t *testing.T) {
		t.Parallel()

		assert.True(t, Join(NumberType, TopType).IsTop())
		assert.True(t, Join(TopType, TopType).IsTop())
	})

	t.Run("bottom is neutral", func(t *testing.T) {
		t.Parallel()

		assert.True(t, Join(NumberType, BottomType).Equal(NumberType))
	})

	t.Run("unknown absorbs", func(t *testing.T) {
		t.Parallel()

		assert.True(t, Join(NumberType, UnknownType).IsUnknown())
		assert.True(t, Join(UnknownType, TopType).IsUnknown())
	})

	t.Run("commutative", func(t *testing.T) {
		t.Parallel()

		types := []*Type{
			BoolType,
			NullType,
			NumberType,
			StringType,
			UndefinedType,
			TopType,
			BottomType,
		}
		for _, t1 := range types {
			for _, t2 := range types {
				assert.True(t, Join(t1, t2).Equal(Join(t2, t1)))
				assert.True(t, Meet(t1, t2).Equal(Meet(t2, t1)))
			}
		}
	})
}

func TestTypeMeet(t *testing.T) {
	t.Parallel()

	t.Run("disjoint primitives meet to bottom", func(t *testing.T) {
		t.Parallel()

		assert.True(t, Meet(NumberType, StringType).IsBottom())
	})

	t.Run("overlap", func(t *testing.T) {
		t.Parallel()

		numberOrString := Join(NumberType, StringType)
		numberOrBool := Join(NumberType, BoolType)

		assert.True(t, Meet(numberOrString, numberOrBool).Equal(NumberType))
	})

	t.Run("top is neutral", func(t *testing.T) {
		t.Parallel()

		assert.True(t, Meet(NumberType, TopType).Equal(NumberType))
	})

	t.Run("bottom absorbs", func(t *testing.T) {
		t.Parallel()

		assert.True(t, Meet(NumberType, BottomType).IsBottom())
	})

	t.Run("unknown is neutral", func(t *testing.T) {
		t.Parallel()

		assert.True(t, Meet(NumberType, UnknownType).Equal(NumberType))
		assert.True(t, Meet(UnknownType, StringType).Equal(StringType))
	})
}

func TestTypeObjects(t *testing.T) {
	t.Parallel()

	fooClass := NewNominalType("Foo")
	barClass := NewNominalType("Bar")

	t.Run("instance types", func(t *testing.T) {
		t.Parallel()

		foo := fooClass.InstanceType()
		assert.Equal(t, "Foo", foo.String())
		assert.True(t, foo.Equal(fooClass.InstanceType()))
		assert.False(t, foo.Equal(barClass.InstanceType()))
	})

	t.Run("instances of distinct classes generalize in joins", func(t *testing.T) {
		t.Parallel()

		joined := Join(fooClass.InstanceType(), barClass.InstanceType())
		assert.Equal(t, "Object", joined.String())
	})

	t.Run("instances of distinct classes meet to bottom", func(t *testing.T) {
		t.Parallel()

		assert.True(t, Meet(fooClass.InstanceType(), barClass.InstanceType()).IsBottom())
	})

	t.Run("nominal identity, not names", func(t *testing.T) {
		t.Parallel()

		otherFoo := NewNominalType("Foo")
		assert.False(t, fooClass.InstanceType().Equal(otherFoo.InstanceType()))
	})

	t.Run("function values join through the function lattice", func(t *testing.T) {
		t.Parallel()

		f1 := simpleFunctionType([]*Type{NumberType}, NumberType)
		f2 := simpleFunctionType([]*Type{NumberType, NumberType}, NumberType)

		joined := Join(FromFunctionType(f1), FromFunctionType(f2))
		require.NotNil(t, joined.FunctionType())
		assert.True(t, joined.FunctionType().Equal(JoinFunctionTypes(f1, f2)))
	})

	t.Run("non-callable types have no function type", func(t *testing.T) {
		t.Parallel()

		assert.Nil(t, NumberType.FunctionType())
		assert.Nil(t, fooClass.InstanceType().FunctionType())
	})
}

func TestTypeString(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		typ      *Type
		expected string
	}{
		{"top", TopType, "*"},
		{"bottom", BottomType, "bottom"},
		{"unknown", UnknownType, "?"},
		{"boolean", BoolType, "boolean"},
		{"null", NullType, "null"},
		{"number", NumberType, "number"},
		{"string", StringType, "string"},
		{"undefined", UndefinedType, "undefined"},
		{"union", Join(BoolType, NullType), "boolean|null"},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			assert.Equal(t, test.expected, test.typ.String())
		})
	}
}
