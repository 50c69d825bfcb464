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

// NominalType is the identity of a declared class.
// Nominal types compare by identity: two declarations
// with the same name are still distinct classes.
type NominalType struct {
	Name string
}

func NewNominalType(name string) *NominalType {
	return &NominalType{
		Name: name,
	}
}

// InstanceType returns the value type of instances of this class.
func (t *NominalType) InstanceType() *Type {
	return FromObjectType(&ObjectType{
		Class: t,
	})
}

// CreateConstructorObject returns the callable constructor value
// bound to the class name, wrapping the given signature.
func (t *NominalType) CreateConstructorObject(functionType *FunctionType) *Type {
	return FromObjectType(&ObjectType{
		Class:    t,
		Function: functionType,
	})
}

func (t *NominalType) String() string {
	return t.Name
}
