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
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/turbolent/prettier"

	"github.com/nutmeg-lang/nutmeg/errors"
)

// UnboundedArity is the maximum arity of a signature with a rest formal.
const UnboundedArity = math.MaxInt

// FunctionType is a callable signature:
// required, optional, and rest formal parameter types,
// a return type, an optional constructor class,
// and the preconditions of captured outer variables.
//
// Signatures are immutable after construction.
// Non-sentinel signatures are only created through NewFunctionType
// or a FunctionTypeBuilder, which normalize them.
type FunctionType struct {
	// top marks the two top sentinels,
	// which have all structural fields nil
	top             bool
	requiredFormals []*Type
	optionalFormals []*Type
	restFormal      *Type
	returnType      *Type
	// class is non-nil iff this signature is a constructor
	class                 *NominalType
	outerVarPreconditions map[string]*Type
	loose                 bool
}

// The top function is conceptually a function taking an infinite number
// of required arguments of type Bottom and returning Top: calling it is
// always a type error. It is still represented as a function, not as the
// top value type, so that a control-flow join like (number | top function)
// can later be specialized back to number without a spurious warning.
var (
	TopFunctionType      = &FunctionType{top: true}
	LooseTopFunctionType = &FunctionType{top: true, loose: true}
)

// BottomFunctionType is a subtype of every function:
// callable in all contexts, it absorbs in joins and meets.
var BottomFunctionType = NewFunctionType(
	nil,
	nil,
	TopType,
	BottomType,
	nil,
	nil,
	false,
)

// NewFunctionType is the single normalized constructor:
// nil lists become empty, the nil map becomes empty, and trailing
// optional formals whose type equals the rest formal are dropped,
// as the rest formal already subsumes them.
func NewFunctionType(
	requiredFormals []*Type,
	optionalFormals []*Type,
	restFormal *Type,
	returnType *Type,
	class *NominalType,
	outerVars map[string]*Type,
	loose bool,
) *FunctionType {

	required := make([]*Type, len(requiredFormals))
	copy(required, requiredFormals)

	optional := make([]*Type, len(optionalFormals))
	copy(optional, optionalFormals)

	if restFormal != nil {
		for len(optional) > 0 {
			last := optional[len(optional)-1]
			if last == nil || !restFormal.Equal(last) {
				break
			}
			optional = optional[:len(optional)-1]
		}
	}

	preconditions := make(map[string]*Type, len(outerVars))
	for name, typ := range outerVars {
		preconditions[name] = typ
	}

	return &FunctionType{
		requiredFormals:       required,
		optionalFormals:       optional,
		restFormal:            restFormal,
		returnType:            returnType,
		class:                 class,
		outerVarPreconditions: preconditions,
		loose:                 loose,
	}
}

// CheckValid panics if a non-sentinel signature has a nil formal
// or return type. Such a signature indicates a construction bug
// in the checker, never bad user input.
func (t *FunctionType) CheckValid() {
	if t.IsTopFunction() {
		return
	}
	for i, formal := range t.requiredFormals {
		if formal == nil {
			panic(errors.NewUnexpectedError("nil required formal at position %d", i))
		}
	}
	for i, formal := range t.optionalFormals {
		if formal == nil {
			panic(errors.NewUnexpectedError("nil optional formal at position %d", i))
		}
	}
	if t.returnType == nil {
		panic(errors.NewUnexpectedError("nil return type"))
	}
}

func (t *FunctionType) IsTopFunction() bool {
	return t.top
}

func (t *FunctionType) IsBottomFunction() bool {
	return t.Equal(BottomFunctionType)
}

func (t *FunctionType) IsConstructor() bool {
	return t.class != nil
}

func (t *FunctionType) IsLoose() bool {
	return t.loose
}

// WithLoose returns this signature marked loose.
func (t *FunctionType) WithLoose() *FunctionType {
	if t.IsTopFunction() {
		return LooseTopFunctionType
	}
	return &FunctionType{
		requiredFormals:       t.requiredFormals,
		optionalFormals:       t.optionalFormals,
		restFormal:            t.restFormal,
		returnType:            t.returnType,
		class:                 t.class,
		outerVarPreconditions: t.outerVarPreconditions,
		loose:                 true,
	}
}

// FormalTypeAt returns the formal type at the given 0-indexed position:
// a required formal, then an optional formal, then the rest formal.
// A nil result past the total arity means the signature places
// no constraint at that position.
func (t *FunctionType) FormalTypeAt(position int) *Type {
	if t.IsTopFunction() || position < 0 {
		panic(errors.NewUnreachableError())
	}
	t.CheckValid()

	numRequired := len(t.requiredFormals)
	switch {
	case position < numRequired:
		return t.requiredFormals[position]
	case position < numRequired+len(t.optionalFormals):
		return t.optionalFormals[position-numRequired]
	default:
		return t.restFormal
	}
}

// ReturnType returns the type a call produces.
// For constructors that is an instance of the constructed class;
// the stored return type is not consulted.
func (t *FunctionType) ReturnType() *Type {
	if t.IsTopFunction() {
		panic(errors.NewUnreachableError())
	}
	if t.IsConstructor() {
		return t.class.InstanceType()
	}
	return t.returnType
}

// OuterVarPrecondition returns the type the named captured variable
// must have at the point this function is invoked,
// or nil if the signature places no precondition on it.
func (t *FunctionType) OuterVarPrecondition(name string) *Type {
	if t.IsTopFunction() {
		panic(errors.NewUnreachableError())
	}
	return t.outerVarPreconditions[name]
}

func (t *FunctionType) MinArity() int {
	if t.IsTopFunction() {
		panic(errors.NewUnreachableError())
	}
	return len(t.requiredFormals)
}

func (t *FunctionType) MaxArity() int {
	if t.IsTopFunction() {
		panic(errors.NewUnreachableError())
	}
	if t.restFormal != nil {
		return UnboundedArity
	}
	return len(t.requiredFormals) + len(t.optionalFormals)
}

// TypeOfThis returns the instance type bound to `this`
// in the constructor body.
func (t *FunctionType) TypeOfThis() *Type {
	if t.class == nil {
		panic(errors.NewUnreachableError())
	}
	return t.class.InstanceType()
}

// ConstructorObject returns the constructible value wrapping
// this signature.
func (t *FunctionType) ConstructorObject() *Type {
	if t.class == nil {
		panic(errors.NewUnreachableError())
	}
	return t.class.CreateConstructorObject(t)
}

func (t *FunctionType) totalFormalCount() int {
	return len(t.requiredFormals) + len(t.optionalFormals)
}

// nullAcceptingJoin joins two formal types,
// passing through the other side when one is absent.
func nullAcceptingJoin(t1, t2 *Type) *Type {
	if t1 == nil && t2 == nil {
		panic(errors.NewUnreachableError())
	}
	if t1 == nil {
		return t2
	}
	if t2 == nil {
		return t1
	}
	return Join(t1, t2)
}

// nullAcceptingMeet meets two formal types,
// passing through the other side when one is absent.
func nullAcceptingMeet(t1, t2 *Type) *Type {
	if t1 == nil && t2 == nil {
		panic(errors.NewUnreachableError())
	}
	if t1 == nil {
		return t2
	}
	if t2 == nil {
		return t1
	}
	return Meet(t1, t2)
}

// looseJoin combines two signatures when at least one is loose.
// Loose signatures are approximations without precise variance,
// so formal types are always joined, for meets as well as joins.
// Loose results never have a rest formal: there is no way for
// variadic information to survive a function summary.
func looseJoin(f1, f2 *FunctionType) *FunctionType {
	if !f1.IsLoose() && !f2.IsLoose() {
		panic(errors.NewUnreachableError())
	}

	builder := NewFunctionTypeBuilder()

	minRequiredArity := f1.MinArity()
	if f2.MinArity() < minRequiredArity {
		minRequiredArity = f2.MinArity()
	}
	for i := 0; i < minRequiredArity; i++ {
		builder.AddRequiredFormal(
			nullAcceptingJoin(f1.FormalTypeAt(i), f2.FormalTypeAt(i)),
		)
	}

	maxTotalArity := f1.totalFormalCount()
	if f2.totalFormalCount() > maxTotalArity {
		maxTotalArity = f2.totalFormalCount()
	}
	for i := minRequiredArity; i < maxTotalArity; i++ {
		builder.AddOptionalFormal(
			nullAcceptingJoin(f1.FormalTypeAt(i), f2.FormalTypeAt(i)),
		)
	}

	return builder.
		AddReturnType(nullAcceptingJoin(f1.returnType, f2.returnType)).
		MarkLoose().
		Build()
}

// JoinFunctionTypes returns the least upper bound of two signatures
// in the subtyping order: the most specific signature both could
// flow into at a control-flow merge.
//
// Parameters are contravariant, so joined formal types are met;
// the return type is joined. The required arity of the result is the
// larger of the two minimums: a join after a branch may change the
// apparent arity, e.g.
// number->number \/ number,number->number = number,number->number.
func JoinFunctionTypes(f1, f2 *FunctionType) *FunctionType {
	if f1 == nil {
		return f2
	} else if f2 == nil || f2.IsBottomFunction() || f1.Equal(f2) {
		return f1
	} else if f1.IsBottomFunction() {
		return f2
	} else if f1.IsTopFunction() || f2.IsTopFunction() {
		return TopFunctionType
	}

	if f1.IsLoose() || f2.IsLoose() {
		return looseJoin(f1, f2)
	}

	builder := NewFunctionTypeBuilder()

	maxRequiredArity := len(f1.requiredFormals)
	if len(f2.requiredFormals) > maxRequiredArity {
		maxRequiredArity = len(f2.requiredFormals)
	}
	for i := 0; i < maxRequiredArity; i++ {
		builder.AddRequiredFormal(
			nullAcceptingMeet(f1.FormalTypeAt(i), f2.FormalTypeAt(i)),
		)
	}

	maxTotalArity := f1.totalFormalCount()
	if f2.totalFormalCount() > maxTotalArity {
		maxTotalArity = f2.totalFormalCount()
	}
	for i := maxRequiredArity; i < maxTotalArity; i++ {
		builder.AddOptionalFormal(
			nullAcceptingMeet(f1.FormalTypeAt(i), f2.FormalTypeAt(i)),
		)
	}

	if f1.restFormal != nil && f2.restFormal != nil {
		builder.AddRestFormal(
			nullAcceptingMeet(f1.restFormal, f2.restFormal),
		)
	}

	return builder.
		AddReturnType(Join(f1.returnType, f2.returnType)).
		Build()
}

// MeetFunctionTypes returns the greatest lower bound of two signatures:
// the signature satisfying both assumptions at once.
// The dual of JoinFunctionTypes: formal types are joined,
// the return type is met, and a rest formal survives
// if either side has one.
func MeetFunctionTypes(f1, f2 *FunctionType) *FunctionType {
	if f1 == nil || f2 == nil {
		return nil
	} else if f1.IsTopFunction() {
		return f2
	} else if f2.IsTopFunction() || f1.Equal(f2) {
		return f1
	}

	// For loose signatures, meet is computed as the loose join
	if f1.IsLoose() || f2.IsLoose() {
		return looseJoin(f1, f2)
	}

	builder := NewFunctionTypeBuilder()

	minRequiredArity := len(f1.requiredFormals)
	if len(f2.requiredFormals) < minRequiredArity {
		minRequiredArity = len(f2.requiredFormals)
	}
	for i := 0; i < minRequiredArity; i++ {
		builder.AddRequiredFormal(
			nullAcceptingJoin(f1.FormalTypeAt(i), f2.FormalTypeAt(i)),
		)
	}

	maxTotalArity := f1.totalFormalCount()
	if f2.totalFormalCount() > maxTotalArity {
		maxTotalArity = f2.totalFormalCount()
	}
	for i := minRequiredArity; i < maxTotalArity; i++ {
		builder.AddOptionalFormal(
			nullAcceptingJoin(f1.FormalTypeAt(i), f2.FormalTypeAt(i)),
		)
	}

	if f1.restFormal != nil || f2.restFormal != nil {
		builder.AddRestFormal(
			nullAcceptingJoin(f1.restFormal, f2.restFormal),
		)
	}

	return builder.
		AddReturnType(Meet(f1.returnType, f2.returnType)).
		Build()
}

// Specialize narrows this signature with an observed one.
// Precise information is never overridden by an approximation:
// if the receiver is precise and other is loose,
// the receiver is returned unchanged.
func (t *FunctionType) Specialize(other *FunctionType) *FunctionType {
	if other == nil {
		return nil
	} else if !t.IsLoose() && other.IsLoose() {
		return t
	}
	return MeetFunctionTypes(t, other)
}

// IsSubtypeOf reports whether this signature can be used
// where other is expected.
//
// t <= other iff other = t \/ other does not hold in general,
// because unknown formals in other must not be treated as accepting
// everything. A candidate is first built from other's shape:
// unknown formals are coerced to Bottom, the rest formal is folded
// into an optional formal, and the return requirement becomes Unknown
// when this signature's own return type is unknown.
// The relation then holds iff joining this signature into the
// candidate produces nothing more general than the candidate.
func (t *FunctionType) IsSubtypeOf(other *FunctionType) bool {
	if other.IsTopFunction() {
		return true
	}

	builder := NewFunctionTypeBuilder()

	numRequired := len(other.requiredFormals)
	for i := 0; i < numRequired; i++ {
		formalType := other.FormalTypeAt(i)
		if formalType.IsUnknown() {
			formalType = BottomType
		}
		builder.AddRequiredFormal(formalType)
	}
	for i := 0; i < len(other.optionalFormals); i++ {
		formalType := other.FormalTypeAt(numRequired + i)
		if formalType.IsUnknown() {
			formalType = BottomType
		}
		builder.AddOptionalFormal(formalType)
	}
	if other.restFormal != nil {
		formalType := other.restFormal
		if formalType.IsUnknown() {
			formalType = BottomType
		}
		builder.AddOptionalFormal(formalType)
	}

	if t.ReturnType().IsUnknown() {
		builder.AddReturnType(UnknownType)
	} else {
		builder.AddReturnType(other.ReturnType())
	}

	if other.IsLoose() {
		builder.MarkLoose()
	}

	adjustedOther := builder.Build()
	return adjustedOther.Equal(JoinFunctionTypes(t, adjustedOther))
}

// IsLooseSubtypeOf is an approximate compatibility check for deferred
// checks on inferred signatures, not full structural subtyping:
// it fails only when some formal position or the return types
// are outright disjoint.
func (t *FunctionType) IsLooseSubtypeOf(other *FunctionType) bool {
	if !t.IsLoose() && !other.IsLoose() {
		panic(errors.NewUnreachableError())
	}
	if t.IsTopFunction() || other.IsTopFunction() {
		return true
	}

	maxRequiredArity := len(t.requiredFormals)
	if len(other.requiredFormals) > maxRequiredArity {
		maxRequiredArity = len(other.requiredFormals)
	}
	for i := 0; i < maxRequiredArity; i++ {
		if nullAcceptingMeet(t.FormalTypeAt(i), other.FormalTypeAt(i)).IsBottom() {
			return false
		}
	}

	if !t.ReturnType().IsBottom() &&
		!other.ReturnType().IsBottom() &&
		Meet(t.ReturnType(), other.ReturnType()).IsBottom() {
		return false
	}

	return true
}

// Equal is structural over the required, optional, and rest formals
// and the return type only. Looseness, constructor identity, and
// outer-variable preconditions are deliberately excluded:
// two signatures differing only in those are the same lattice element.
func (t *FunctionType) Equal(other *FunctionType) bool {
	if other == nil {
		return false
	}
	return typeSlicesEqual(t.requiredFormals, other.requiredFormals) &&
		typeSlicesEqual(t.optionalFormals, other.optionalFormals) &&
		typesEqual(t.restFormal, other.restFormal) &&
		typesEqual(t.returnType, other.returnType)
}

func typesEqual(t1, t2 *Type) bool {
	if t1 == nil || t2 == nil {
		return t1 == t2
	}
	return t1.Equal(t2)
}

func typeSlicesEqual(ts1, ts2 []*Type) bool {
	if len(ts1) != len(ts2) {
		return false
	}
	for i, t1 := range ts1 {
		if !typesEqual(t1, ts2[i]) {
			return false
		}
	}
	return true
}

// ID returns a canonical string over exactly the fields Equal compares,
// usable as a map key. It assumes class names are unique,
// like all type IDs in the checker.
func (t *FunctionType) ID() string {
	if t.IsTopFunction() {
		return "TOP_FUNCTION"
	}

	var sb strings.Builder
	sb.WriteByte('(')
	for i, formal := range t.requiredFormals {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(formal.String())
	}
	for i, formal := range t.optionalFormals {
		if i > 0 || len(t.requiredFormals) > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(formal.String())
		sb.WriteByte('=')
	}
	if t.restFormal != nil {
		if t.totalFormalCount() > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString("...")
		sb.WriteString(t.restFormal.String())
	}
	sb.WriteByte(')')
	sb.WriteByte(':')
	if t.returnType != nil {
		sb.WriteString(t.returnType.String())
	}
	return sb.String()
}

func (t *FunctionType) String() string {
	if t.IsTopFunction() {
		if t.loose {
			return "TOP_FUNCTION (loose)"
		}
		return "TOP_FUNCTION"
	}

	var formals []string
	if t.class != nil {
		formals = append(formals, "new:"+t.class.Name)
	}
	for _, formal := range t.requiredFormals {
		formals = append(formals, formal.String())
	}
	for _, formal := range t.optionalFormals {
		formals = append(formals, formal.String()+"=")
	}
	if t.restFormal != nil {
		formals = append(formals, "..."+t.restFormal.String())
	}

	result := "function (" + strings.Join(formals, ", ") + ")"
	if t.returnType != nil {
		result += ": " + t.returnType.String()
	}
	if t.loose {
		result += " (loose)"
	}
	if len(t.outerVarPreconditions) > 0 {
		result += "\tFV:" + t.formatOuterVarPreconditions()
	}
	return result
}

func (t *FunctionType) formatOuterVarPreconditions() string {
	names := make([]string, 0, len(t.outerVarPreconditions))
	for name := range t.outerVarPreconditions {
		names = append(names, name)
	}
	sort.Strings(names)

	var sb strings.Builder
	sb.WriteByte('{')
	for i, name := range names {
		if i > 0 {
			sb.WriteString(", ")
		}
		fmt.Fprintf(&sb, "%s=%s", name, t.outerVarPreconditions[name])
	}
	sb.WriteByte('}')
	return sb.String()
}

var functionFormalSeparatorDoc prettier.Doc = prettier.Concat{
	prettier.Text(","),
	prettier.Line{},
}

func (t *FunctionType) Doc() prettier.Doc {
	if t.IsTopFunction() {
		return prettier.Text(t.String())
	}

	var formalDocs []prettier.Doc
	if t.class != nil {
		formalDocs = append(formalDocs, prettier.Text("new:"+t.class.Name))
	}
	for _, formal := range t.requiredFormals {
		formalDocs = append(formalDocs, formal.Doc())
	}
	for _, formal := range t.optionalFormals {
		formalDocs = append(
			formalDocs,
			prettier.Concat{
				formal.Doc(),
				prettier.Text("="),
			},
		)
	}
	if t.restFormal != nil {
		formalDocs = append(
			formalDocs,
			prettier.Concat{
				prettier.Text("..."),
				t.restFormal.Doc(),
			},
		)
	}

	doc := prettier.Concat{
		prettier.Text("function "),
		prettier.Group{
			Doc: prettier.Concat{
				prettier.Text("("),
				prettier.Indent{
					Doc: prettier.Concat{
						prettier.SoftLine{},
						prettier.Join(functionFormalSeparatorDoc, formalDocs...),
					},
				},
				prettier.SoftLine{},
				prettier.Text(")"),
			},
		},
	}

	if t.returnType != nil {
		doc = append(
			doc,
			prettier.Text(": "),
			t.returnType.Doc(),
		)
	}
	if t.loose {
		doc = append(doc, prettier.Text(" (loose)"))
	}
	return doc
}
