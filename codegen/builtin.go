package codegen

import (
	"strconv"

	"github.com/sourcelang/bashc/cmdtree"
)

// externalised are built-ins that the generator recognises by name but
// deliberately hands to the simple-command emitter instead of
// inlining: the generated program will invoke the system binary
// (§4.5's "echo, test, kill").
var externalised = map[string]bool{
	"echo": true,
	"test": true,
	"kill": true,
}

// isBuiltin reports whether name is one of the built-ins C5
// recognises at all (inlined or externalised).
func isBuiltin(name string) bool {
	switch name {
	case "cd", "pwd", "false", ":", "break", "continue", "echo", "test", "kill":
		return true
	}
	return false
}

// emitBuiltin dispatches a recognised built-in (§4.5). cmd.Words[0] is
// the already-matched built-in name.
func (g *Generator) emitBuiltin(cmd *cmdtree.Simple, ioc *CTIOC, flags CompoundFlag) (*CTIOC, error) {
	name := cmd.Words[0].Literal
	if externalised[name] {
		return g.emitSimple(cmd, true, ioc, flags)
	}

	switch name {
	case "cd":
		return ioc, g.emitCd(cmd)
	case "pwd":
		return ioc, g.emitPwd(cmd)
	case "false":
		return ioc, g.emitInline(func() { g.e.writeStatement("G_status = 1") })
	case ":":
		return ioc, g.emitInline(func() { g.e.writeStatement("G_status = 0") })
	case "break":
		return ioc, g.emitBreakContinue(cmd, exitLabel)
	case "continue":
		return ioc, g.emitBreakContinue(cmd, entryLabel)
	default:
		g.nyi(cmd.Pos(), "built-in "+name)
		return ioc, nil
	}
}

// emitInline wraps a built-in's emission in a fresh naked block (§4.5:
// "Each emission is wrapped in a fresh naked block").
func (g *Generator) emitInline(body func()) error {
	g.e.startBlock()
	body()
	g.e.endBlock()
	return nil
}

func (g *Generator) emitCd(cmd *cmdtree.Simple) error {
	if len(cmd.Words) != 2 || cmd.Words[1].Flags&cmdtree.NeedsExpansion != 0 {
		g.nyi(cmd.Pos(), "cd with a non-literal or missing argument")
		return nil
	}
	dir := cmd.Words[1].Literal
	return g.emitInline(func() {
		g.e.cif("chdir(%s)", encodeString(dir))
		g.e.writeStatement("perror(%s)", encodeString("chdir: "+dir))
		g.e.writeStatement("G_status = 1")
		g.e.celse()
		g.e.writeStatement("G_status = 0")
		g.e.cendif()
	})
}

func (g *Generator) emitPwd(cmd *cmdtree.Simple) error {
	return g.emitInline(func() {
		buf := g.ids.newIdent("buf")
		g.e.writeStatement("char* %s = get_current_dir_name()", buf)
		g.e.cif("!%s", buf)
		g.e.writeStatement("perror(%s)", encodeString("pwd"))
		g.e.writeStatement("G_status = 1")
		g.e.celse()
		g.e.writeStatement(`printf("%%s\n", %s)`, buf)
		g.e.writeStatement("free(%s)", buf)
		g.e.writeStatement("G_status = 0")
		g.e.cendif()
	})
}

// emitBreakContinue emits a goto to the label w selects on the N-th
// enclosing loop frame (§4.4, §4.5): break resolves the exit label,
// continue resolves the entry label.
func (g *Generator) emitBreakContinue(cmd *cmdtree.Simple, w which) error {
	level, err := parseLevelArg(cmd)
	if err != nil {
		g.reportf(cmd.Pos(), "%s", err.Error())
		return nil
	}
	label, err := g.loops.resolve(level, w)
	if err != nil {
		g.reportf(cmd.Pos(), "%s", err.Error())
		return nil
	}
	return g.emitInline(func() {
		g.e.writeStatement("goto %s", label)
	})
}

// parseLevelArg parses the optional numeric level argument to
// break/continue (§4.5): absent means 1, a non-numeric argument is
// "numeric argument required", more than one argument is "too many
// arguments".
func parseLevelArg(cmd *cmdtree.Simple) (int, error) {
	args := cmd.Words[1:]
	if len(args) == 0 {
		return 1, nil
	}
	if len(args) > 1 {
		return 0, errTooManyArguments
	}
	n, err := strconv.Atoi(args[0].Literal)
	if err != nil || args[0].Flags&cmdtree.NeedsExpansion != 0 {
		return 0, errNumericArgumentRequired
	}
	return n, nil
}
