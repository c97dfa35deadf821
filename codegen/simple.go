package codegen

import (
	"strings"

	"github.com/sourcelang/bashc/cmdtree"
)

// emitCommand is the single dispatch entry (§4.9): it accepts cmd ==
// nil and returns ioc unchanged, otherwise switches on command kind to
// the appropriate emitter. A kind the generator recognises but has no
// emitter for yields an NYI notice; a kind it has never heard of at
// all is a fatal invariant violation.
func (g *Generator) emitCommand(cmd cmdtree.Command, ioc *CTIOC, flags CompoundFlag) (*CTIOC, error) {
	switch c := cmd.(type) {
	case nil:
		return ioc, nil
	case *cmdtree.Simple:
		return g.dispatchSimple(c, ioc, flags)
	case *cmdtree.Connection:
		return g.emitConnection(c, ioc, flags)
	case *cmdtree.If:
		return g.emitIf(c, ioc, flags)
	case *cmdtree.While:
		return g.emitWhileUntil(c, ioc, flags, false)
	case *cmdtree.Until:
		return g.emitWhileUntil(c, ioc, flags, true)
	case *cmdtree.NYI:
		g.nyi(c.Pos(), c.Construct)
		return ioc, nil
	default:
		return nil, fatalf("unrecognised command kind reached dispatch: %T", cmd)
	}
}

// dispatchSimple is the dispatch entry for a Simple command. It always
// enters emitSimple with override_builtin unset, so the redirection
// check of §4.6 step 1 runs before step 2 hands a recognised built-in
// to C5.
func (g *Generator) dispatchSimple(cmd *cmdtree.Simple, ioc *CTIOC, flags CompoundFlag) (*CTIOC, error) {
	return g.emitSimple(cmd, false, ioc, flags)
}

// emitSimple implements the emit_simple(cmd, override_builtin, ioc,
// flags) contract of §4.6, steps 1-9.
func (g *Generator) emitSimple(cmd *cmdtree.Simple, overrideBuiltin bool, ioc *CTIOC, flags CompoundFlag) (*CTIOC, error) {
	// Step 1: explicit redirections beyond pipes are NYI unless this is
	// an override re-entry (C5 only re-enters after this check has
	// already passed on the non-override call).
	if len(cmd.Redirects) > 0 && !overrideBuiltin {
		g.nyi(cmd.Pos(), "explicit redirection")
		return ioc, nil
	}

	// Step 2: re-check built-in dispatch unless overridden.
	if !overrideBuiltin && len(cmd.Words) > 0 && isBuiltin(cmd.Words[0].Literal) {
		return g.emitBuiltin(cmd, ioc, flags)
	}

	background := flags&CFBackground != 0

	// Step 3: mint names.
	rtioc := g.ids.newIdent("rtioc")
	var retstatus string
	if !background {
		retstatus = g.ids.newIdent("retstatus")
	}

	// Step 4: open naked block, declare retstatus if foreground.
	g.e.startBlock()
	if !background {
		g.e.writeStatement("pid_t %s", retstatus)
	}

	// Step 5: emit argv.
	argv := g.ids.newIdent("argv")
	var b strings.Builder
	b.WriteString("static char* const ")
	b.WriteString(argv)
	b.WriteString("[] = { ")
	nyiWord := false
	for _, w := range cmd.Words {
		if w.Flags&cmdtree.NeedsExpansion != 0 {
			nyiWord = true
			break
		}
		b.WriteString(encodeString(w.Literal))
		b.WriteString(", ")
	}
	if nyiWord {
		g.e.endBlock()
		g.nyi(cmd.Pos(), "word expansion")
		return ioc, nil
	}
	b.WriteString("NULL, }")
	g.e.writeStatement(b.String())

	// Step 6: materialise runtime I/O context.
	g.materialise(ioc, rtioc)

	// Step 7: emit the forkexec_argv call.
	feFlags := "0"
	if background {
		feFlags = "FE_BACKGROUND"
	}
	invert := ""
	if cmd.Flags&cmdtree.InvertReturn != 0 {
		invert = "!"
	}
	if background {
		g.e.writeStatement("%sforkexec_argv(%s, %s, %s)", invert, argv, rtioc, feFlags)
	} else {
		g.e.writeStatement("%s = %sforkexec_argv(%s, %s, %s)", retstatus, invert, argv, rtioc, feFlags)
	}

	// Step 8.
	if background {
		g.e.writeStatement("G_status = 0")
	} else {
		g.e.writeStatement("G_status = %s", retstatus)
	}

	// Step 9: close naked block, return ioc unchanged.
	g.e.endBlock()
	return ioc, nil
}
