package codegen

import "github.com/sourcelang/bashc/cmdtree"

// prologue and epilogue match the output-file template of §6.2
// exactly: the fixed header, includes, and the generated main's
// opening/closing structure.
const prologue = `/* This file generated by bashc */
#define _GNU_SOURCE 1
#include <stdlib.h>
#include <stdio.h>
#include <unistd.h>
#include <sys/types.h>
#include <sys/wait.h>

#include "libbashc/libbashc.h"

int main(int argc, char** argv)
{
	int G_status;
	(void)argc; (void)argv;
	G_status = 0;

`

const epilogue = `
	return G_status;
}
`

// Emit walks one top-level command and emits its translation. The
// driver (C8) calls this once per top-level command read from the
// front end, between the prologue and epilogue.
func (g *Generator) Emit(cmd cmdtree.Command) error {
	_, err := g.emitCommand(cmd, emptyCTIOC(), 0)
	return err
}

// WritePrologue and WriteEpilogue bracket a sequence of Emit calls,
// matching §6.2's fixed output-file template. The driver sets the
// initial indent level to 1 so the generated body sits inside main's
// braces.
func (g *Generator) WritePrologue() {
	g.e.raw(prologue)
	g.e.indent = 1
}

func (g *Generator) WriteEpilogue() {
	g.e.indent = 0
	g.e.raw(epilogue)
}
