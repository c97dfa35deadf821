// Package frontend is a small, self-contained lexer and recursive-descent
// parser for the subset of POSIX shell syntax this translator's code
// generator understands: simple commands, pipelines, ';'/'&'
// sequencing, '&&'/'||' short circuiting, and if/while/until clauses.
//
// spec.md treats the shell front end as an external collaborator and
// says the generator "consumes a pre-built command tree"; this package
// is that collaborator. for/select/case blocks still parse and lower
// to a cmdtree.NYI node, explicit redirections are recorded on the
// Simple command, and a word requiring runtime expansion is flagged,
// so these don't block translation of the rest of the file. '(' and
// ')' are not parsed: subshells, function definitions and arithmetic
// commands fail the parse with a ParseError.
package frontend

import (
	"fmt"

	"github.com/sourcelang/bashc/cmdtree"
)

// ParseError is returned for input the grammar genuinely cannot make
// sense of (an unterminated if/while, a pipe with nothing on one
// side). It is distinct from an NYI notice: an NYI construct still
// parses successfully and is represented as a cmdtree.NYI node.
type ParseError struct {
	Pos cmdtree.Pos
	Msg string
}

func (e *ParseError) Error() string { return fmt.Sprintf("%d: %s", e.Pos, e.Msg) }

type parser struct {
	lex *lexer
	tok token
}

// Parse parses src and returns the top-level commands in order, one
// per statement, the same granularity a shell reads and executes a
// script at (§6.1: "a flag set indicating single-command mode and EOF
// status").
func Parse(src []byte) ([]cmdtree.Command, error) {
	p := &parser{lex: newLexer(src)}
	p.advance()
	var out []cmdtree.Command
	for {
		p.skipSeparators()
		if p.tok.kind == tEOF {
			return out, nil
		}
		cmd, err := p.andOr()
		if err != nil {
			return out, err
		}
		cmd = p.applyTrailer(cmd)
		out = append(out, cmd)
	}
}

func (p *parser) advance() { p.tok = p.lex.next() }

func (p *parser) skipSeparators() {
	for p.tok.kind == tSemi || p.tok.kind == tNewline {
		p.advance()
	}
}

// applyTrailer consumes a single trailing ';', '&' or newline and, for
// '&', wraps cmd in a Bg connection the way §4.7's Connection dispatch
// expects background commands to arrive.
func (p *parser) applyTrailer(cmd cmdtree.Command) cmdtree.Command {
	switch p.tok.kind {
	case tAmp:
		pos := p.tok.pos
		p.advance()
		return &cmdtree.Connection{NodePos: pos, Connector: cmdtree.Bg, Left: cmd, Right: noop(pos)}
	case tSemi, tNewline:
		p.advance()
	}
	return cmd
}

// noop stands in for the right-hand side of a bare trailing '&': the
// generator's Bg handling (§4.7) needs two operands, but a bare
// "cmd &" only supplies one. ':' always succeeds and costs nothing to
// emit, so it is a faithful stand-in for "nothing else follows".
func noop(pos cmdtree.Pos) cmdtree.Command {
	return &cmdtree.Simple{NodePos: pos, Words: []cmdtree.Word{{Pos: pos, Literal: ":"}}}
}

// andOr parses a left-associative chain of pipelines joined by '&&'
// and '||', i.e. cmdtree.Connection{AndAnd|OrOr}.
func (p *parser) andOr() (cmdtree.Command, error) {
	left, err := p.pipeline()
	if err != nil {
		return nil, err
	}
	for p.tok.kind == tAndAnd || p.tok.kind == tOrOr {
		conn := cmdtree.AndAnd
		if p.tok.kind == tOrOr {
			conn = cmdtree.OrOr
		}
		pos := p.tok.pos
		p.advance()
		p.skipSeparators()
		right, err := p.pipeline()
		if err != nil {
			return nil, err
		}
		left = &cmdtree.Connection{NodePos: pos, Connector: conn, Left: left, Right: right}
	}
	return left, nil
}

// pipeline parses a left-associative chain of commands joined by '|'.
func (p *parser) pipeline() (cmdtree.Command, error) {
	left, err := p.command()
	if err != nil {
		return nil, err
	}
	for p.tok.kind == tPipe {
		pos := p.tok.pos
		p.advance()
		p.skipSeparators()
		right, err := p.command()
		if err != nil {
			return nil, err
		}
		left = &cmdtree.Connection{NodePos: pos, Connector: cmdtree.Pipe, Left: left, Right: right}
	}
	return left, nil
}

// command parses one command: a compound clause, or a simple command.
func (p *parser) command() (cmdtree.Command, error) {
	if p.tok.kind == tWord {
		switch p.tok.lit {
		case "if":
			return p.ifClause()
		case "while":
			return p.whileClause(false)
		case "until":
			return p.whileClause(true)
		case "then", "elif", "else", "fi", "do", "done":
			return nil, &ParseError{Pos: p.tok.pos, Msg: fmt.Sprintf("unexpected %q", p.tok.lit)}
		case "for", "select":
			return p.skipToNYI(p.tok.lit, p.tok.lit, "done")
		case "case":
			return p.skipToNYI("case", "case", "esac")
		}
	}
	return p.simple()
}

// simple parses a simple command: an optional leading '!' followed by
// one or more words, plus any explicit redirections, which are
// recorded (not dropped) so the generator can report NYI on them per
// §4.6 step 1.
func (p *parser) simple() (cmdtree.Command, error) {
	pos := p.tok.pos
	var invert bool
	if p.tok.kind == tBang {
		invert = true
		p.advance()
	}
	var words []cmdtree.Word
	var redirs []cmdtree.Redirect
	for {
		switch p.tok.kind {
		case tWord:
			words = append(words, cmdtree.Word{Pos: p.tok.pos, Literal: p.tok.lit, Flags: p.tok.flags})
			p.advance()
		case tRedir:
			op := p.tok.lit
			rpos := p.tok.pos
			p.advance()
			if p.tok.kind == tWord {
				p.advance()
			}
			redirs = append(redirs, cmdtree.Redirect{Pos: rpos, Op: op})
		case tOther:
			return nil, &ParseError{Pos: p.tok.pos, Msg: fmt.Sprintf("unsupported token %q", p.tok.lit)}
		default:
			if len(words) == 0 {
				return nil, &ParseError{Pos: pos, Msg: "expected a command"}
			}
			s := &cmdtree.Simple{NodePos: pos, Words: words, Redirects: redirs}
			if invert {
				s.Flags |= cmdtree.InvertReturn
			}
			return s, nil
		}
	}
}

// clauseBody parses a sequence of and-or lists until one of the
// supplied keywords is the next token (without consuming it), folding
// the statements together with Seq connections the way §3.1's
// Connection node represents "one command, then another".
func (p *parser) clauseBody(stop ...string) (cmdtree.Command, error) {
	var cur cmdtree.Command
	for {
		p.skipSeparators()
		if p.tok.kind == tWord {
			for _, s := range stop {
				if p.tok.lit == s {
					return cur, nil
				}
			}
		}
		if p.tok.kind == tEOF {
			return nil, &ParseError{Pos: p.tok.pos, Msg: fmt.Sprintf("expected %v, found EOF", stop)}
		}
		cmd, err := p.andOr()
		if err != nil {
			return nil, err
		}
		cmd = p.applyTrailer(cmd)
		if cur == nil {
			cur = cmd
		} else {
			cur = &cmdtree.Connection{NodePos: cur.Pos(), Connector: cmdtree.Seq, Left: cur, Right: cmd}
		}
	}
}

func (p *parser) expectWord(lit string) error {
	if p.tok.kind != tWord || p.tok.lit != lit {
		return &ParseError{Pos: p.tok.pos, Msg: fmt.Sprintf("expected %q", lit)}
	}
	p.advance()
	return nil
}

func (p *parser) ifClause() (cmdtree.Command, error) {
	pos := p.tok.pos
	p.advance() // 'if'
	test, err := p.clauseBody("then")
	if err != nil {
		return nil, err
	}
	if err := p.expectWord("then"); err != nil {
		return nil, err
	}
	trueBranch, err := p.clauseBody("elif", "else", "fi")
	if err != nil {
		return nil, err
	}
	var falseBranch cmdtree.Command
	switch {
	case p.tok.kind == tWord && p.tok.lit == "elif":
		falseBranch, err = p.ifClauseTail()
		if err != nil {
			return nil, err
		}
		return &cmdtree.If{NodePos: pos, Test: test, TrueBranch: trueBranch, FalseBranch: falseBranch}, nil
	case p.tok.kind == tWord && p.tok.lit == "else":
		p.advance()
		falseBranch, err = p.clauseBody("fi")
		if err != nil {
			return nil, err
		}
	}
	if err := p.expectWord("fi"); err != nil {
		return nil, err
	}
	return &cmdtree.If{NodePos: pos, Test: test, TrueBranch: trueBranch, FalseBranch: falseBranch}, nil
}

// ifClauseTail parses "elif COND then BODY ..." as a nested If, the
// same shape ifFalseBranch in an AST-lowering front end would build,
// without consuming the final "fi" (the caller's ifClause already
// owns that).
func (p *parser) ifClauseTail() (cmdtree.Command, error) {
	pos := p.tok.pos
	p.advance() // 'elif'
	test, err := p.clauseBody("then")
	if err != nil {
		return nil, err
	}
	if err := p.expectWord("then"); err != nil {
		return nil, err
	}
	trueBranch, err := p.clauseBody("elif", "else", "fi")
	if err != nil {
		return nil, err
	}
	var falseBranch cmdtree.Command
	switch {
	case p.tok.kind == tWord && p.tok.lit == "elif":
		falseBranch, err = p.ifClauseTail()
		if err != nil {
			return nil, err
		}
	case p.tok.kind == tWord && p.tok.lit == "else":
		p.advance()
		falseBranch, err = p.clauseBody("fi")
		if err != nil {
			return nil, err
		}
	}
	return &cmdtree.If{NodePos: pos, Test: test, TrueBranch: trueBranch, FalseBranch: falseBranch}, nil
}

// skipToNYI consumes tokens through a balanced open/close keyword pair
// (nesting-aware, so e.g. "for ... do for ... done done" skips both
// levels) and returns a cmdtree.NYI naming construct. It exists so
// for/select/case blocks — named "accepted" in §3.1 — don't abort the
// parse of the rest of the file; the generator reports the NYI notice
// and moves on, exactly as §7 category 3 requires.
func (p *parser) skipToNYI(construct, open, close string) (cmdtree.Command, error) {
	pos := p.tok.pos
	depth := 0
	for {
		if p.tok.kind == tEOF {
			return nil, &ParseError{Pos: p.tok.pos, Msg: fmt.Sprintf("unterminated %s (expected %q)", construct, close)}
		}
		if p.tok.kind == tWord {
			switch p.tok.lit {
			case open:
				depth++
			case close:
				depth--
				if depth == 0 {
					p.advance()
					return &cmdtree.NYI{NodePos: pos, Construct: construct}, nil
				}
			}
		}
		p.advance()
	}
}

func (p *parser) whileClause(until bool) (cmdtree.Command, error) {
	pos := p.tok.pos
	p.advance() // 'while' / 'until'
	test, err := p.clauseBody("do")
	if err != nil {
		return nil, err
	}
	if err := p.expectWord("do"); err != nil {
		return nil, err
	}
	body, err := p.clauseBody("done")
	if err != nil {
		return nil, err
	}
	if err := p.expectWord("done"); err != nil {
		return nil, err
	}
	if until {
		return &cmdtree.Until{NodePos: pos, Test: test, Body: body}, nil
	}
	return &cmdtree.While{NodePos: pos, Test: test, Body: body}, nil
}
