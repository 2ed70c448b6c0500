package analyser

import (
	"encoding/json"
	"fmt"
	"strings"

	"golang.org/x/crypto/blake2b"
	"gorm.io/datatypes"

	"github.com/LemurGamingYT/gemc/internal/cache"
	"github.com/LemurGamingYT/gemc/internal/gemtype"
	"github.com/LemurGamingYT/gemc/internal/ir"
	"github.com/LemurGamingYT/gemc/internal/pass"
	"github.com/LemurGamingYT/gemc/internal/symbol"
)

// baseName is the un-mangled lookup key a Function is filed under before any
// overload or generic suffix: "{extend_type}.{name}" or plain "{name}".
func baseName(f *ir.Function) string {
	if f.ExtendType != nil {
		return f.ExtendType.Display + "." + f.Name
	}
	return f.Name
}

// mangleName computes a function's effective symbol name per spec §4.3.2.
// hasExistingBase is true when a function is already registered under the
// same base name and this declaration is not generic (so this declaration
// is an overload sibling, not the first).
func mangleName(f *ir.Function, hasExistingBase bool) string {
	base := baseName(f)
	if len(f.GenericParams) > 0 {
		return base + "<" + strings.Join(f.GenericParams, ", ") + ">"
	}
	if !hasExistingBase {
		return base
	}
	var sb strings.Builder
	sb.WriteString(base)
	sb.WriteString(".overload")
	for _, p := range f.Params {
		sb.WriteString(".")
		sb.WriteString(p.Typ().Display)
	}
	return sb.String()
}

// mangleInstantiation names a concrete monomorphisation of a generic
// template: the template's base name with its declared generic parameters
// replaced by the concrete argument types bound in genericMap, e.g.
// "id<int>" for template "id<T>" called with an int argument.
func mangleInstantiation(templateBase string, genericParams []string, genericMap map[string]gemtype.Type) string {
	args := genericArgDisplays(genericParams, genericMap)
	return templateBase + "<" + strings.Join(args, ", ") + ">"
}

// genericArgDisplays lists the concrete display names genericMap binds
// genericParams to, in declaration order — used both to render the
// instantiation name and to record the argument-type snapshot stored in the
// instantiation cache.
func genericArgDisplays(genericParams []string, genericMap map[string]gemtype.Type) []string {
	args := make([]string, len(genericParams))
	for i, g := range genericParams {
		args[i] = genericMap[g].Display
	}
	return args
}

// instantiationCacheKey hashes an instantiation name the same way the
// module loader hashes module content (golang.org/x/crypto/blake2b), so the
// two caches share one hashing convention.
func instantiationCacheKey(instName string) string {
	h, err := blake2b.New256(nil)
	if err != nil {
		return ""
	}
	h.Write([]byte(instName))
	return fmt.Sprintf("%x", h.Sum(nil))
}

// matchFunction reports whether args satisfies f's parameter list per spec
// §4.3.2: equal parameter count, and each argument type either equals the
// parameter type, the parameter type is `any`, or the parameter type names
// one of f's generic parameters (in which case it is bound in the returned
// map). A generic name bound inconsistently across parameters is a
// non-match, not a silent pick of the first binding.
func matchFunction(f *ir.Function, args []ir.Node) (map[string]gemtype.Type, bool) {
	if len(f.Params) != len(args) {
		return nil, false
	}

	isGeneric := make(map[string]bool, len(f.GenericParams))
	for _, g := range f.GenericParams {
		isGeneric[g] = true
	}

	genericMap := make(map[string]gemtype.Type)
	anyType := gemtype.New(gemtype.Any)

	for i, p := range f.Params {
		pt := p.Typ()
		at := args[i].Typ()

		switch {
		case pt.Equal(at):
		case pt.Equal(anyType):
		case isGeneric[pt.Display]:
			if bound, ok := genericMap[pt.Display]; ok && !bound.Equal(at) {
				return nil, false
			}
			genericMap[pt.Display] = at
		default:
			return nil, false
		}
	}

	return genericMap, true
}

// substituteType replaces t with its binding in genericMap if t names a
// generic parameter, recursing through a ReferenceType wrapper so
// ReferenceType(T) substitutes to ReferenceType(int) rather than being left
// untouched.
func substituteType(t gemtype.Type, genericMap map[string]gemtype.Type) gemtype.Type {
	if concrete, ok := genericMap[t.Display]; ok {
		return concrete
	}
	if inner, ok := gemtype.IsReference(t); ok {
		return gemtype.Reference{Inner: substituteType(inner, genericMap)}.Type()
	}
	return t
}

// refFixup implements the §4.3.3 argument fix-up rule: where the matched
// parameter is a ReferenceType and the argument isn't already a reference,
// the argument must be a bare Id and is rewritten to Ref(name); anything
// else is a comptime error.
func (a *Analyser) refFixup(params []*ir.Param, args []ir.Node) []ir.Node {
	out := make([]ir.Node, len(args))
	for i, arg := range args {
		if i >= len(params) {
			out[i] = arg
			continue
		}
		inner, isRef := gemtype.IsReference(params[i].Typ())
		if !isRef {
			out[i] = arg
			continue
		}
		if _, alreadyRef := arg.(*ir.Ref); alreadyRef {
			out[i] = arg
			continue
		}
		id, ok := arg.(*ir.Id)
		if !ok {
			a.fail(arg, "reference argument must be a plain identifier")
			return out
		}
		out[i] = ir.NewRef(id.Pos(), gemtype.Reference{Inner: inner}.Type(), id.Name)
	}
	return out
}

// dispatchCall performs overload resolution against fn and its registered
// siblings, applying reference fix-up to the winning candidate's arguments
// and monomorphising on a generic match. Shared by plain Call sites and by
// every desugared Operation/UnaryOperation/Attribute/New call.
func (a *Analyser) dispatchCall(site ir.Node, name string, fn *ir.Function, args []ir.Node) ir.Node {
	candidates := append([]*ir.Function{fn}, fn.Overloads...)

	for _, cand := range candidates {
		genericMap, ok := matchFunction(cand, args)
		if !ok {
			continue
		}
		if len(cand.GenericParams) > 0 {
			return a.instantiateGeneric(site, cand, genericMap, args)
		}
		finalArgs := a.refFixup(cand.Params, args)
		mangled := a.mangledNames[cand]
		if mangled == "" {
			mangled = name
		}
		return ir.NewCall(site.Pos(), cand.Typ(), mangled, finalArgs)
	}

	argTypes := make([]string, len(args))
	for i, arg := range args {
		argTypes[i] = arg.Typ().Display
	}
	return a.fail(site, fmt.Sprintf("no matching overload for function %q with given arguments (%s)", name, strings.Join(argTypes, ", ")))
}

// instantiateGeneric monomorphises template against genericMap, caching by
// the resulting instantiation name so repeat calls with the same concrete
// arguments reuse one concrete function (spec §4.3.2, §9 "Generics").
//
// A.instantiations is the authoritative within-this-Analyser cache: a hit
// there returns the already-built *ir.Function directly, no rework needed.
// l.Cache's InstantiationEntry table additionally records the (base name,
// argument types) -> mangled name mapping across Analyser instances (e.g.
// separate stdlib modules resolved by module.Loader within one
// compilation), the same way internal/cache's module table records
// resolved imports. It is consulted and populated here, but — like the
// module cache's name-only symbol snapshot (see
// module.Loader.resolveSource) — it cannot substitute for actually building
// the concrete *ir.Function: the row has nowhere to carry the function's
// body or the scope symbol the rest of the pipeline needs, so a hit is
// recorded for the record but the monomorphisation still runs.
func (a *Analyser) instantiateGeneric(site ir.Node, template *ir.Function, genericMap map[string]gemtype.Type, args []ir.Node) ir.Node {
	instName := mangleInstantiation(baseName(template), template.GenericParams, genericMap)

	if cached, ok := a.instantiations[instName]; ok {
		return ir.NewCall(site.Pos(), cached.Typ(), instName, a.refFixup(cached.Params, args))
	}

	var cacheKey string
	if a.Loader != nil && a.Loader.Cache != nil {
		cacheKey = instantiationCacheKey(instName)
		if _, err := a.Loader.Cache.GetInstantiation(cacheKey); err != nil {
			cacheKey = ""
		}
	}

	params := make([]*ir.Param, len(template.Params))
	for i, p := range template.Params {
		params[i] = ir.NewParam(p.Pos(), substituteType(p.Typ(), genericMap), p.Name, p.IsMutable)
	}
	retType := substituteType(template.Typ(), genericMap)

	var body *ir.Body
	if template.Body != nil {
		res := pass.WithChildScope(a.File, func() ir.Node {
			for gname, gtype := range genericMap {
				a.File.Scope.SetTypeAlias(gname, gtype)
			}
			for _, p := range params {
				a.File.Scope.SetSymbol(&symbol.Symbol{Name: p.Name, Type: p.Typ(), IsMutable: p.IsMutable, SourceFile: a.File.PathName})
			}
			return a.Dispatch(template.Body)
		})
		body = res.(*ir.Body)
	}

	concrete := ir.NewFunction(template.Pos(), retType, template.Name, params, body)
	concrete.Flags = template.Flags
	concrete.ExtendType = template.ExtendType

	a.mangledNames[concrete] = instName
	a.instantiations[instName] = concrete
	template.Overloads = append(template.Overloads, concrete)
	template.Instantiations = append(template.Instantiations, concrete)

	a.scope().SetSymbol(&symbol.Symbol{Name: instName, Type: gemtype.New(gemtype.Function), Value: concrete, SourceFile: a.File.PathName})

	if cacheKey != "" {
		argTypesJSON, _ := json.Marshal(genericArgDisplays(template.GenericParams, genericMap))
		_ = a.Loader.Cache.PutInstantiation(&cache.InstantiationEntry{
			Key:          cacheKey,
			BaseName:     baseName(template),
			ArgTypesJSON: datatypes.JSON(argTypesJSON),
			MangledName:  instName,
		})
	}

	return ir.NewCall(site.Pos(), concrete.Typ(), instName, a.refFixup(params, args))
}
