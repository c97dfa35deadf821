// Package codegen is the ahead-of-time translator's code generator:
// the component that walks a pre-built cmdtree.Command and emits
// target-language (C) text reproducing the shell program's control
// flow, process spawning, pipelining, and exit-status propagation.
//
// It is grounded on the teacher's syntax.printer (a single buffered
// writer plus an explicit indent level threaded through recursive
// emission, §9 "group them into one explicit generator context
// value") generalised from pretty-printing shell source to emitting C
// source for an entirely different target grammar.
package codegen

import (
	"fmt"
	"io"

	"github.com/sourcelang/bashc/cmdtree"
)

// CompoundFlag mirrors the emitter-side flags threaded alongside a
// CTIOC through recursive emission (§4.6, §4.7): currently only
// whether the command being emitted is backgrounded.
type CompoundFlag uint

const (
	// CFBackground marks that the command being emitted should not be
	// waited on: the parent continues immediately with G_status = 0.
	CFBackground CompoundFlag = 1 << iota
)

// Generator bundles every piece of ambient state the design notes (§9)
// ask to be grouped into one explicit value: the text emitter, the
// identifier factory, and the loop-label stack. It is not safe for
// concurrent use — the generator itself is strictly single-threaded
// and synchronous (§5).
type Generator struct {
	e     *emitter
	ids   identFactory
	loops loopStack

	diagnostics []Diagnostic
}

// New creates a Generator that writes to w.
func New(w io.Writer) *Generator {
	return &Generator{e: newEmitter(w)}
}

// Diagnostics returns every NYI notice and reported error collected so
// far, in emission order.
func (g *Generator) Diagnostics() []Diagnostic { return g.diagnostics }

func (g *Generator) nyi(pos cmdtree.Pos, construct string) {
	g.e.comment("NYI: " + construct)
	g.diagnostics = append(g.diagnostics, Diagnostic{Severity: NYI, Pos: pos, Message: construct})
}

func (g *Generator) reportf(pos cmdtree.Pos, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	g.diagnostics = append(g.diagnostics, Diagnostic{Severity: Reported, Pos: pos, Message: msg})
}

// Flush flushes the underlying buffered writer. Callers must call it
// after the last Emit call; closing the destination alone does not
// write out buffered text.
func (g *Generator) Flush() error { return g.e.flush() }
