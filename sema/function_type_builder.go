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
	"github.com/nutmeg-lang/nutmeg/errors"
)

// FunctionTypeBuilder assembles a signature from accumulated fragments.
// Build applies the same normalization as NewFunctionType,
// so built signatures satisfy the same invariants
// as directly constructed ones.
type FunctionTypeBuilder struct {
	requiredFormals []*Type
	optionalFormals []*Type
	restFormal      *Type
	returnType      *Type
	class           *NominalType
	outerVars       map[string]*Type
	loose           bool
}

func NewFunctionTypeBuilder() *FunctionTypeBuilder {
	return &FunctionTypeBuilder{}
}

func (b *FunctionTypeBuilder) AddRequiredFormal(formal *Type) *FunctionTypeBuilder {
	// Required formals precede optional and rest formals
	if len(b.optionalFormals) > 0 || b.restFormal != nil {
		panic(errors.NewUnreachableError())
	}
	b.requiredFormals = append(b.requiredFormals, formal)
	return b
}

func (b *FunctionTypeBuilder) AddOptionalFormal(formal *Type) *FunctionTypeBuilder {
	if b.restFormal != nil {
		panic(errors.NewUnreachableError())
	}
	b.optionalFormals = append(b.optionalFormals, formal)
	return b
}

func (b *FunctionTypeBuilder) AddRestFormal(formal *Type) *FunctionTypeBuilder {
	if b.restFormal != nil {
		panic(errors.NewUnreachableError())
	}
	b.restFormal = formal
	return b
}

func (b *FunctionTypeBuilder) AddReturnType(returnType *Type) *FunctionTypeBuilder {
	if b.returnType != nil {
		panic(errors.NewUnreachableError())
	}
	b.returnType = returnType
	return b
}

func (b *FunctionTypeBuilder) AddClass(class *NominalType) *FunctionTypeBuilder {
	b.class = class
	return b
}

func (b *FunctionTypeBuilder) AddOuterVarPrecondition(name string, typ *Type) *FunctionTypeBuilder {
	if b.outerVars == nil {
		b.outerVars = make(map[string]*Type)
	}
	b.outerVars[name] = typ
	return b
}

func (b *FunctionTypeBuilder) MarkLoose() *FunctionTypeBuilder {
	b.loose = true
	return b
}

func (b *FunctionTypeBuilder) Build() *FunctionType {
	return NewFunctionType(
		b.requiredFormals,
		b.optionalFormals,
		b.restFormal,
		b.returnType,
		b.class,
		b.outerVars,
		b.loose,
	)
}
