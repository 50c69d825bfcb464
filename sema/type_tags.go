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

// TypeTag is a bitmask representation for value types.
// Each primitive value kind has a unique dedicated bit.
type TypeTag struct {
	mask uint64
}

func NewTypeTag(flag uint64) TypeTag {
	if flag > 63 {
		panic("flag out of range")
	}

	return TypeTag{
		mask: 1 << flag,
	}
}

func (t TypeTag) Equals(tag TypeTag) bool {
	return t.mask == tag.mask
}

func (t TypeTag) And(tag TypeTag) TypeTag {
	return TypeTag{
		mask: t.mask & tag.mask,
	}
}

func (t TypeTag) Or(tag TypeTag) TypeTag {
	return TypeTag{
		mask: t.mask | tag.mask,
	}
}

func (t TypeTag) Not() TypeTag {
	return TypeTag{
		mask: ^t.mask,
	}
}

func (t TypeTag) ContainsAny(typeTags ...TypeTag) bool {
	for _, tag := range typeTags {
		if t.And(tag).Equals(tag) {
			return true
		}
	}

	return false
}

func (t TypeTag) BelongsTo(typeTag TypeTag) bool {
	return typeTag.ContainsAny(t)
}

func (t TypeTag) IsEmpty() bool {
	return t.mask == 0
}

const (
	boolTypeMaskBit uint64 = iota
	nullTypeMaskBit
	numberTypeMaskBit
	stringTypeMaskBit
	undefinedTypeMaskBit
	objectTypeMaskBit

	// The unknown bit lives outside the value bits:
	// Unknown is not a union member, it is the "no information" element.
	unknownTypeMaskBit
)

var (
	BottomTypeTag = TypeTag{0}

	BoolTypeTag      = NewTypeTag(boolTypeMaskBit)
	NullTypeTag      = NewTypeTag(nullTypeMaskBit)
	NumberTypeTag    = NewTypeTag(numberTypeMaskBit)
	StringTypeTag    = NewTypeTag(stringTypeMaskBit)
	UndefinedTypeTag = NewTypeTag(undefinedTypeMaskBit)
	ObjectTypeTag    = NewTypeTag(objectTypeMaskBit)

	UnknownTypeTag = NewTypeTag(unknownTypeMaskBit)

	// Super tags

	PrimitiveTypeTag = BoolTypeTag.
				Or(NullTypeTag).
				Or(NumberTypeTag).
				Or(StringTypeTag).
				Or(UndefinedTypeTag)

	TopTypeTag = PrimitiveTypeTag.Or(ObjectTypeTag)
)
