// Package backend pins the contract code generation must satisfy (spec
// §6): it consumes the post-memory-manager Program plus the final scope and
// produces an opaque Artefact. No concrete backend (native object code or C
// emission) is implemented here — this package only fixes the seam,
// grounded on the teacher's provider.LanguageProvider boundary
// (internal/provider), which internal/core never implements directly
// either.
package backend

import (
	"github.com/LemurGamingYT/gemc/internal/ir"
	"github.com/LemurGamingYT/gemc/internal/pass"
)

// Artefact is whatever a backend produces: an object file reference, a
// generated C source string, etc. Left opaque deliberately — the
// middle-end never inspects it.
type Artefact any

// Backend is the single entrypoint code generation must provide.
type Backend interface {
	Emit(file *pass.File, program *ir.Program) (Artefact, error)
}

// Nop is a Backend that does nothing and returns a nil artefact. Useful for
// driving the middle-end pipeline (e.g. from the CLI's compile command, or
// from tests) without a real code generator wired in.
type Nop struct{}

func (Nop) Emit(*pass.File, *ir.Program) (Artefact, error) { return nil, nil }

// Recording is a Backend used only by tests: it stores the final program
// and scope it was handed so assertions can inspect them.
type Recording struct {
	Program *ir.Program
	File    *pass.File
}

func (r *Recording) Emit(file *pass.File, program *ir.Program) (Artefact, error) {
	r.File = file
	r.Program = program
	return nil, nil
}
