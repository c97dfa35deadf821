package codegen

import "github.com/sourcelang/bashc/cmdtree"

// emitConnection dispatches a Connection node on its connector (§4.7).
func (g *Generator) emitConnection(c *cmdtree.Connection, ioc *CTIOC, flags CompoundFlag) (*CTIOC, error) {
	switch c.Connector {
	case cmdtree.Seq:
		var err error
		ioc, err = g.emitCommand(c.Left, ioc, flags)
		if err != nil {
			return nil, err
		}
		return g.emitCommand(c.Right, ioc, flags)

	case cmdtree.Pipe:
		return g.emitPipe(c.Left, c.Right, ioc, flags)

	case cmdtree.Bg:
		var err error
		ioc, err = g.emitCommand(c.Left, ioc, flags|CFBackground)
		if err != nil {
			return nil, err
		}
		return g.emitCommand(c.Right, ioc, flags)

	case cmdtree.AndAnd:
		var err error
		ioc, err = g.emitCommand(c.Left, ioc, flags)
		if err != nil {
			return nil, err
		}
		g.e.cif("!G_status")
		ioc, err = g.emitCommand(c.Right, ioc, flags)
		g.e.cendif()
		return ioc, err

	case cmdtree.OrOr:
		var err error
		ioc, err = g.emitCommand(c.Left, ioc, flags)
		if err != nil {
			return nil, err
		}
		g.e.cif("G_status")
		ioc, err = g.emitCommand(c.Right, ioc, flags)
		g.e.cendif()
		return ioc, err

	default:
		return nil, fatalf("unknown connector %v", c.Connector)
	}
}

// emitPipe implements emit_pipe(L, R, ioc, flags) per §4.7.
func (g *Generator) emitPipe(left, right cmdtree.Command, ioc *CTIOC, flags CompoundFlag) (*CTIOC, error) {
	pipeName := g.ids.newIdent("pipe")
	bgpid := g.ids.newIdent("bgpid")

	g.e.startBlock()
	g.e.writeStatement("int %s[2]", pipeName)
	g.e.writeStatement("pid_t %s", bgpid)

	g.e.cif("!pipe(%s)", pipeName)

	writeEnd := pipeName + "[1]"
	readEnd := pipeName + "[0]"

	lioc := appendEntry(ioc, writeEnd, "1")
	lioc = appendEntry(lioc, readEnd, CloseFD)
	var err error
	lioc, err = g.emitCommand(left, lioc, flags|CFBackground)
	if err != nil {
		return nil, err
	}
	lioc, err = shrink(lioc, 2)
	if err != nil {
		return nil, err
	}
	ioc = lioc

	g.e.writeStatement("close(%s)", writeEnd)

	rioc := appendEntry(ioc, readEnd, "0")
	rioc, err = g.emitCommand(right, rioc, flags)
	if err != nil {
		return nil, err
	}
	rioc, err = shrink(rioc, 1)
	if err != nil {
		return nil, err
	}
	ioc = rioc

	g.e.writeStatement("close(%s)", readEnd)
	g.e.writeStatement("waitpid(%s, NULL, 0)", bgpid)

	g.e.celse()
	g.e.writeStatement("perror(%s)", encodeString("pipe"))
	g.e.cendif()

	g.e.endBlock()
	return ioc, nil
}

// emitIf emits an If node: the test, then the true/false branches
// guarded on !G_status, bracketed by the structural comments §4.7
// calls for.
func (g *Generator) emitIf(c *cmdtree.If, ioc *CTIOC, flags CompoundFlag) (*CTIOC, error) {
	g.e.comment("if")
	var err error
	ioc, err = g.emitCommand(c.Test, ioc, flags)
	if err != nil {
		return nil, err
	}

	g.e.cif("!G_status")
	g.e.comment("then")
	ioc, err = g.emitCommand(c.TrueBranch, ioc, flags)
	if err != nil {
		return nil, err
	}
	if c.FalseBranch != nil {
		g.e.celse()
		g.e.comment("else")
		ioc, err = g.emitCommand(c.FalseBranch, ioc, flags)
		if err != nil {
			return nil, err
		}
	}
	g.e.cendif()
	g.e.comment("fi")
	return ioc, nil
}

// emitWhileUntil implements emit_while per §4.7, covering both While
// and Until (invert selects Until's negated test).
func (g *Generator) emitWhileUntil(cmd cmdtree.Command, ioc *CTIOC, flags CompoundFlag, invert bool) (*CTIOC, error) {
	var test, body cmdtree.Command
	switch c := cmd.(type) {
	case *cmdtree.While:
		test, body = c.Test, c.Body
	case *cmdtree.Until:
		test, body = c.Test, c.Body
	default:
		return nil, fatalf("emitWhileUntil called with non-loop command %T", cmd)
	}

	entryLbl := g.ids.newIdent("whileentry")
	exitLbl := g.ids.newIdent("whileexit")
	status := g.ids.newIdent("whilestatus")

	g.e.writeStatement("int %s = 0", status)
	g.e.writeln("%s:", entryLbl)

	g.loops.push(entryLbl, exitLbl)

	g.e.startBlock()
	var err error
	ioc, err = g.emitCommand(test, ioc, flags)
	if err != nil {
		g.loops.pop()
		return nil, err
	}

	cond := "G_status"
	if invert {
		cond = "!G_status"
	}
	g.e.cif("%s", cond)
	g.e.writeStatement("G_status = %s", status)
	g.e.writeStatement("goto %s", exitLbl)
	g.e.cendif()

	ioc, err = g.emitCommand(body, ioc, flags)
	if err != nil {
		g.loops.pop()
		return nil, err
	}

	g.e.writeStatement("%s = G_status", status)
	g.e.writeStatement("goto %s", entryLbl)
	g.e.endBlock()

	g.loops.pop()
	g.e.writeln("%s:", exitLbl)

	return ioc, nil
}
