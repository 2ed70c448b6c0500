// Package ir defines the tagged-variant tree taxonomy passes operate on.
// Every node carries a Position and a Type (spec §3); the variant set is
// closed, matching the teacher's closed NodeKind enumeration
// (internal/core/contracts.go) but carrying real child references since
// passes here rewrite trees rather than just classifying them.
package ir

import "github.com/LemurGamingYT/gemc/internal/position"
import "github.com/LemurGamingYT/gemc/internal/gemtype"

// Node is implemented by every IR variant.
type Node interface {
	Pos() position.Position
	Typ() gemtype.Type
}

// base is embedded by every concrete node to provide Pos/Typ without
// repeating the two fields on each struct literal call site.
type base struct {
	P position.Position
	T gemtype.Type
}

func (b base) Pos() position.Position { return b.P }
func (b base) Typ() gemtype.Type      { return b.T }

// Program is the top-level node: an ordered sequence of statements.
type Program struct {
	base
	Nodes []Node
}

func NewProgram(pos position.Position, nodes []Node) *Program {
	return &Program{base{pos, gemtype.New(gemtype.Nil)}, nodes}
}

// Body is a block: an ordered sequence of statements forming one scope.
type Body struct {
	base
	Nodes []Node
}

func NewBody(pos position.Position, typ gemtype.Type, nodes []Node) *Body {
	return &Body{base{pos, typ}, nodes}
}

// FunctionFlags mark special roles a Function can play.
type FunctionFlags struct {
	Static   bool
	Property bool
	Method   bool
	Extern   bool
}

// Param is one formal parameter of a Function.
type Param struct {
	base
	Name      string
	IsMutable bool
}

func NewParam(pos position.Position, typ gemtype.Type, name string, mutable bool) *Param {
	return &Param{base{pos, typ}, name, mutable}
}

// Arg wraps an argument expression at a call site. Kept as a distinct node
// (rather than passing bare Nodes) so future argument-level metadata (e.g.
// named arguments) has somewhere to live without changing Call's shape.
type Arg struct {
	base
	Value Node
}

func NewArg(value Node) *Arg {
	return &Arg{base{value.Pos(), value.Typ()}, value}
}

// Function is a function, method, or constructor declaration. Body == nil
// marks an extern/declaration-only function (no definition in this
// translation unit). ExtendType is set for methods declared as extensions
// of a type; GenericParams lists the type-parameter names for a generic
// template. Overloads and Instantiations are populated by the analyser
// pass, never by the node-expansion or memory-manager passes.
type Function struct {
	base
	Name          string
	Params        []*Param
	Body          *Body
	Flags         FunctionFlags
	ExtendType    *gemtype.Type
	GenericParams []string

	// Overloads hangs additional signatures off the base declaration.
	Overloads []*Function
	// Instantiations holds concrete functions produced by monomorphising
	// a generic template; empty for non-generic functions.
	Instantiations []*Function
}

func NewFunction(pos position.Position, retType gemtype.Type, name string, params []*Param, body *Body) *Function {
	return &Function{base: base{pos, retType}, Name: name, Params: params, Body: body}
}

// IsDeclaration reports whether this is an extern/declaration-only
// function (no body to compile).
func (f *Function) IsDeclaration() bool { return f.Body == nil }

// Variable is a declaration: `let`/`mut name = value`.
type Variable struct {
	base
	Name      string
	Value     Node
	IsMutable bool
	Op        *string
}

func NewVariable(pos position.Position, typ gemtype.Type, name string, value Node, mutable bool, op *string) *Variable {
	return &Variable{base{pos, typ}, name, value, mutable, op}
}

// Assignment rebinds an existing mutable variable.
type Assignment struct {
	base
	Name  string
	Value Node
	Op    *string
}

func NewAssignment(pos position.Position, typ gemtype.Type, name string, value Node, op *string) *Assignment {
	return &Assignment{base{pos, typ}, name, value, op}
}

// If is an if/elseif*/else chain.
type If struct {
	base
	Cond     Node
	Body     *Body
	ElseBody *Body
	Elseifs  []*Elseif
}

func NewIf(pos position.Position, cond Node, body *Body, elseifs []*Elseif, elseBody *Body) *If {
	return &If{base: base{pos, gemtype.New(gemtype.Nil)}, Cond: cond, Body: body, Elseifs: elseifs, ElseBody: elseBody}
}

// Elseif is one `elseif cond { body }` clause of an If.
type Elseif struct {
	base
	Cond Node
	Body *Body
}

func NewElseif(pos position.Position, cond Node, body *Body) *Elseif {
	return &Elseif{base{pos, gemtype.New(gemtype.Nil)}, cond, body}
}

// While is a condition-checked loop.
type While struct {
	base
	Cond Node
	Body *Body
}

func NewWhile(pos position.Position, cond Node, body *Body) *While {
	return &While{base{pos, gemtype.New(gemtype.Nil)}, cond, body}
}

// Break exits the nearest enclosing loop.
type Break struct{ base }

func NewBreak(pos position.Position) *Break { return &Break{base{pos, gemtype.New(gemtype.Nil)}} }

// Continue jumps to the next iteration of the nearest enclosing loop.
type Continue struct{ base }

func NewContinue(pos position.Position) *Continue {
	return &Continue{base{pos, gemtype.New(gemtype.Nil)}}
}

// Return exits the enclosing function with a value.
type Return struct {
	base
	Value Node
}

func NewReturn(pos position.Position, value Node) *Return {
	return &Return{base{pos, value.Typ()}, value}
}

// Use is a module import: `use path`.
type Use struct {
	base
	Path string
}

func NewUse(pos position.Position, path string) *Use {
	return &Use{base{pos, gemtype.New(gemtype.Nil)}, path}
}

// Int is an integer literal.
type Int struct {
	base
	Value int64
}

func NewInt(pos position.Position, typ gemtype.Type, value int64) *Int {
	return &Int{base{pos, typ}, value}
}

// Float is a floating-point literal.
type Float struct {
	base
	Value float64
}

func NewFloat(pos position.Position, typ gemtype.Type, value float64) *Float {
	return &Float{base{pos, typ}, value}
}

// Bool is a boolean literal.
type Bool struct {
	base
	Value bool
}

func NewBool(pos position.Position, typ gemtype.Type, value bool) *Bool {
	return &Bool{base{pos, typ}, value}
}

// String is a surface string literal, in source form. The analyser rewrites
// it to a Call to "string.new" (spec §4.3.1); it should never reach
// node-expansion or memory-manager in surviving form.
type String struct {
	base
	Value string
}

func NewString(pos position.Position, typ gemtype.Type, value string) *String {
	return &String{base{pos, typ}, value}
}

// StringLiteral is the raw-pointer literal that String lowers into: the
// bytes themselves, with pointer type, independent of any gem-level string
// object.
type StringLiteral struct {
	base
	Value string
}

func NewStringLiteral(pos position.Position, typ gemtype.Type, value string) *StringLiteral {
	return &StringLiteral{base{pos, typ}, value}
}

// Id is a bare identifier reference to a symbol or type.
type Id struct {
	base
	Name string
}

func NewId(pos position.Position, typ gemtype.Type, name string) *Id {
	return &Id{base{pos, typ}, name}
}

// Bracketed preserves an explicit parenthesised grouping; it inherits its
// inner expression's type.
type Bracketed struct {
	base
	Value Node
}

func NewBracketed(pos position.Position, value Node) *Bracketed {
	return &Bracketed{base{pos, value.Typ()}, value}
}

// Call invokes a resolved function by its mangled name.
type Call struct {
	base
	Callee string
	Args   []Node
}

func NewCall(pos position.Position, typ gemtype.Type, callee string, args []Node) *Call {
	return &Call{base{pos, typ}, callee, args}
}

// Cast is an explicit type cast; the target type lives in the embedded Typ.
type Cast struct {
	base
	Value Node
}

func NewCast(pos position.Position, targetType gemtype.Type, value Node) *Cast {
	return &Cast{base{pos, targetType}, value}
}

// New is an explicit `new T(args)` construction. The analyser desugars it
// to Attribute(Id(T), "new", args).
type New struct {
	base
	NewType gemtype.Type
	Args    []Node
}

func NewNewNode(pos position.Position, newType gemtype.Type, args []Node) *New {
	return &New{base{pos, newType}, newType, args}
}

// Operation is a binary operator application, desugared by the analyser
// into a Call to "{L.type}.{op}.{R.type}".
type Operation struct {
	base
	Op    string
	Left  Node
	Right Node
}

func NewOperation(pos position.Position, typ gemtype.Type, op string, left, right Node) *Operation {
	return &Operation{base{pos, typ}, op, left, right}
}

// UnaryOperation is a unary operator application, desugared into a Call to
// "{op}.{V.type}".
type UnaryOperation struct {
	base
	Op    string
	Value Node
}

func NewUnaryOperation(pos position.Position, typ gemtype.Type, op string, value Node) *UnaryOperation {
	return &UnaryOperation{base{pos, typ}, op, value}
}

// Attribute is a `value.attr` or `value.attr(args)` access. Args == nil
// means a field read rather than a method call.
type Attribute struct {
	base
	Value Node
	Attr  string
	Args  []Node
}

func NewAttribute(pos position.Position, typ gemtype.Type, value Node, attr string, args []Node) *Attribute {
	return &Attribute{base{pos, typ}, value, attr, args}
}

// Ternary is `cond ? true : false`.
type Ternary struct {
	base
	Cond  Node
	True  Node
	False Node
}

func NewTernary(pos position.Position, typ gemtype.Type, cond, trueVal, falseVal Node) *Ternary {
	return &Ternary{base{pos, typ}, cond, trueVal, falseVal}
}

// Ref is an explicit reference to a named variable, e.g. `&x`.
type Ref struct {
	base
	Name string
}

func NewRef(pos position.Position, typ gemtype.Type, name string) *Ref {
	return &Ref{base{pos, typ}, name}
}

// TypeNode wraps a gemtype.Type so types can appear as ordinary nodes (e.g.
// as the callee-side operand of New before it is resolved).
type TypeNode struct {
	base
}

func NewTypeNode(pos position.Position, typ gemtype.Type) *TypeNode {
	return &TypeNode{base{pos, typ}}
}

// ReferenceTypeNode wraps a gemtype.Reference the same way TypeNode wraps a
// plain Type.
type ReferenceTypeNode struct {
	base
	Inner gemtype.Type
}

func NewReferenceTypeNode(pos position.Position, inner gemtype.Type) *ReferenceTypeNode {
	return &ReferenceTypeNode{base{pos, gemtype.Reference{Inner: inner}.Type()}, inner}
}
