// Package corelib is the native-definition stand-in for gem/stdlib/core
// (see _examples/original_source/gem/lib.py's Lib/Class and
// gem/stdlib/core/{core_,string,int,float}.py): a Go value satisfying spec
// §6's native stdlib contract (construction given a File, an AddToScope
// method) that installs the string type's constructor/destructor and the
// numeric-to-string conversions every "use core" compilation needs.
//
// Every declared function carries Flags.Extern and a nil Body: its
// definition lives in the backend (spec §4.2/§6), not in gem source. This
// mirrors the closed set of @builtin/@function-decorated methods the
// Python reference registers on its Lib/Class instances, translated from a
// decorator-populated attrs dict to a plain slice of *ir.Function values
// installed directly into the scope's symbol table.
package corelib

import (
	"github.com/LemurGamingYT/gemc/internal/gemtype"
	"github.com/LemurGamingYT/gemc/internal/ir"
	"github.com/LemurGamingYT/gemc/internal/pass"
	"github.com/LemurGamingYT/gemc/internal/position"
	"github.com/LemurGamingYT/gemc/internal/scope"
	"github.com/LemurGamingYT/gemc/internal/symbol"
)

// Core is the "core" native library: string's constructor/destructor plus
// the print/to_string conversions wired against it.
type Core struct {
	file *pass.File
}

// New builds a Core library for file. Matches module.NativeFactory.
func New(file *pass.File) *Core {
	return &Core{file: file}
}

func extern(name string, extend *gemtype.Type, static bool, params []*ir.Param, ret gemtype.Type) *ir.Function {
	fn := ir.NewFunction(position.Zero, ret, name, params, nil)
	fn.Flags = ir.FunctionFlags{Static: static, Method: extend != nil, Extern: true}
	fn.ExtendType = extend
	return fn
}

func param(name string, t gemtype.Type) *ir.Param {
	return ir.NewParam(position.Zero, t, name, false)
}

// AddToScope installs every core symbol into s, matching spec §6's native
// library contract and the teacher-adjacent Lib.add_to_scope /
// Class.add_to_scope behaviour of inserting one Symbol per registered
// attrs entry.
func (c *Core) AddToScope(s *scope.Scope) {
	ptr := gemtype.New(gemtype.Pointer)
	i64 := gemtype.New(gemtype.Int)
	f64 := gemtype.New(gemtype.Float)
	b := gemtype.New(gemtype.Bool)
	str := gemtype.New(gemtype.String)
	anyT := gemtype.New(gemtype.Any)
	nilT := gemtype.New(gemtype.Nil)

	s.SetType(str)

	funcs := []*ir.Function{
		// string.new(ptr, length) -> string: the static constructor every
		// `"literal"` lowers into via string.new (spec §4.3.1).
		extern("new", &str, true, []*ir.Param{param("ptr", ptr), param("length", i64)}, str),
		// string.destroy(self): presence of this symbol is what makes
		// `string` a destructor-bearing type to the memory-manager pass
		// (spec §4.5.1).
		extern("destroy", &str, false, []*ir.Param{param("self", gemtype.Reference{Inner: str}.Type())}, nilT),
		extern("length", &str, false, []*ir.Param{param("self", str)}, i64),
		extern("ptr", &str, false, []*ir.Param{param("self", str)}, ptr),
		extern("to_string", &str, false, []*ir.Param{param("self", str)}, str),
		extern("to_string", &i64, false, []*ir.Param{param("self", i64)}, str),
		extern("to_string", &f64, false, []*ir.Param{param("self", f64)}, str),
		extern("to_string", &b, false, []*ir.Param{param("self", b)}, str),
		// print(value: any) -> nil: dispatches to "{value.type}.to_string"
		// at codegen time, exactly as gem/stdlib/core/core_.py's `_print`
		// does via ctx.call(f'{value_type}.to_string', [value]); which
		// concrete to_string fires is a backend concern (it sees the
		// argument's runtime type), so the middle-end only needs `print`
		// itself to resolve.
		extern("print", nil, false, []*ir.Param{param("value", anyT)}, nilT),
	}

	funcType := gemtype.New(gemtype.Function)
	for _, fn := range funcs {
		name := fn.Name
		if fn.ExtendType != nil {
			name = fn.ExtendType.Display + "." + fn.Name
		}
		s.SetSymbol(&symbol.Symbol{Name: name, Type: funcType, Value: fn, SourceFile: "core"})
	}
}
