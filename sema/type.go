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
	"strings"

	"github.com/turbolent/prettier"

	"github.com/nutmeg-lang/nutmeg/errors"
)

// Type is a value type: a union of primitive kinds,
// plus an optional object component.
//
// Types are immutable after construction.
// All operations return new values.
type Type struct {
	tag TypeTag
	// object is only meaningful when tag contains the object bit.
	// A nil object with the object bit set means "any object".
	object *ObjectType
}

// The type singletons. Initialized once, never mutated,
// safe for concurrent use.
var (
	TopType     = &Type{tag: TopTypeTag}
	BottomType  = &Type{tag: BottomTypeTag}
	UnknownType = &Type{tag: UnknownTypeTag}

	BoolType      = &Type{tag: BoolTypeTag}
	NullType      = &Type{tag: NullTypeTag}
	NumberType    = &Type{tag: NumberTypeTag}
	StringType    = &Type{tag: StringTypeTag}
	UndefinedType = &Type{tag: UndefinedTypeTag}
)

// ObjectType is the object component of a value type:
// a nominal class brand, a callable signature, or both.
type ObjectType struct {
	Class    *NominalType
	Function *FunctionType
}

func (o *ObjectType) Equal(other *ObjectType) bool {
	if o == nil || other == nil {
		return o == other
	}
	if o.Class != other.Class {
		return false
	}
	if (o.Function == nil) != (other.Function == nil) {
		return false
	}
	return o.Function == nil ||
		o.Function.Equal(other.Function)
}

func (o *ObjectType) String() string {
	switch {
	case o == nil:
		return "Object"
	case o.Class != nil:
		return o.Class.Name
	case o.Function != nil:
		return o.Function.String()
	default:
		return "Object"
	}
}

func FromObjectType(object *ObjectType) *Type {
	return &Type{
		tag:    ObjectTypeTag,
		object: object,
	}
}

func FromFunctionType(functionType *FunctionType) *Type {
	return FromObjectType(&ObjectType{
		Function: functionType,
	})
}

func (t *Type) Tag() TypeTag {
	return t.tag
}

func (t *Type) IsUnknown() bool {
	return t.tag.Equals(UnknownTypeTag)
}

func (t *Type) IsBottom() bool {
	return t.tag.IsEmpty()
}

func (t *Type) IsTop() bool {
	return t.tag.Equals(TopTypeTag) && t.object == nil
}

// FunctionType returns the callable signature of this type,
// or nil if the type is not callable.
func (t *Type) FunctionType() *FunctionType {
	if t.object == nil {
		return nil
	}
	return t.object.Function
}

func (t *Type) Equal(other *Type) bool {
	if t == nil || other == nil {
		return t == other
	}
	return t.tag.Equals(other.tag) &&
		t.object.Equal(other.object)
}

// Join returns the least upper bound of two value types:
// the union of their primitive masks, with object components merged.
// Unknown absorbs.
func Join(t1, t2 *Type) *Type {
	if t1 == nil || t2 == nil {
		panic(errors.NewUnreachableError())
	}

	if t1.IsUnknown() || t2.IsUnknown() {
		return UnknownType
	}

	tag := t1.tag.Or(t2.tag)
	if tag.IsEmpty() {
		return BottomType
	}

	var object *ObjectType
	switch {
	case t1.tag.ContainsAny(ObjectTypeTag) && t2.tag.ContainsAny(ObjectTypeTag):
		object = joinObjects(t1.object, t2.object)
	case t1.tag.ContainsAny(ObjectTypeTag):
		object = t1.object
	case t2.tag.ContainsAny(ObjectTypeTag):
		object = t2.object
	}

	return &Type{
		tag:    tag,
		object: object,
	}
}

// Meet returns the greatest lower bound of two value types:
// the intersection of their primitive masks.
// Unknown is neutral.
func Meet(t1, t2 *Type) *Type {
	if t1 == nil || t2 == nil {
		panic(errors.NewUnreachableError())
	}

	if t1.IsUnknown() {
		return t2
	}
	if t2.IsUnknown() {
		return t1
	}

	tag := t1.tag.And(t2.tag)

	var object *ObjectType
	if tag.ContainsAny(ObjectTypeTag) {
		var compatible bool
		object, compatible = meetObjects(t1.object, t2.object)
		if !compatible {
			tag = tag.And(ObjectTypeTag.Not())
		}
	}

	if tag.IsEmpty() {
		return BottomType
	}

	return &Type{
		tag:    tag,
		object: object,
	}
}

func joinObjects(o1, o2 *ObjectType) *ObjectType {
	// Either side being "any object" generalizes the join to "any object"
	if o1 == nil || o2 == nil {
		return nil
	}
	if o1.Equal(o2) {
		return o1
	}

	var class *NominalType
	if o1.Class != nil && o1.Class == o2.Class {
		class = o1.Class
	}

	var functionType *FunctionType
	if o1.Function != nil && o2.Function != nil {
		functionType = JoinFunctionTypes(o1.Function, o2.Function)
	}

	if class == nil && functionType == nil {
		return nil
	}

	return &ObjectType{
		Class:    class,
		Function: functionType,
	}
}

func meetObjects(o1, o2 *ObjectType) (object *ObjectType, compatible bool) {
	if o1 == nil {
		return o2, true
	}
	if o2 == nil {
		return o1, true
	}
	if o1.Equal(o2) {
		return o1, true
	}

	// Instances of two different classes have no common value
	if o1.Class != nil && o2.Class != nil && o1.Class != o2.Class {
		return nil, false
	}

	class := o1.Class
	if class == nil {
		class = o2.Class
	}

	functionType := o1.Function
	if functionType == nil {
		functionType = o2.Function
	} else if o2.Function != nil {
		functionType = MeetFunctionTypes(o1.Function, o2.Function)
	}

	return &ObjectType{
		Class:    class,
		Function: functionType,
	}, true
}

func (t *Type) String() string {
	switch {
	case t.IsUnknown():
		return "?"
	case t.IsBottom():
		return "bottom"
	case t.IsTop():
		return "*"
	}

	var parts []string
	if t.tag.ContainsAny(BoolTypeTag) {
		parts = append(parts, "boolean")
	}
	if t.tag.ContainsAny(NullTypeTag) {
		parts = append(parts, "null")
	}
	if t.tag.ContainsAny(NumberTypeTag) {
		parts = append(parts, "number")
	}
	if t.tag.ContainsAny(StringTypeTag) {
		parts = append(parts, "string")
	}
	if t.tag.ContainsAny(UndefinedTypeTag) {
		parts = append(parts, "undefined")
	}
	if t.tag.ContainsAny(ObjectTypeTag) {
		parts = append(parts, t.object.String())
	}

	return strings.Join(parts, "|")
}

func (t *Type) Doc() prettier.Doc {
	return prettier.Text(t.String())
}
