package frontend

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	qt "github.com/frankban/quicktest"

	"github.com/sourcelang/bashc/cmdtree"
)

// ignorePos drops every Pos field from the comparison: test cases
// assert on tree shape, not on the byte offsets a real diagnostic would
// cite.
var ignorePos = cmp.Options{
	cmpopts.IgnoreFields(cmdtree.Word{}, "Pos"),
	cmpopts.IgnoreFields(cmdtree.Redirect{}, "Pos"),
	cmpopts.IgnoreFields(cmdtree.Simple{}, "NodePos"),
	cmpopts.IgnoreFields(cmdtree.Connection{}, "NodePos"),
	cmpopts.IgnoreFields(cmdtree.If{}, "NodePos"),
	cmpopts.IgnoreFields(cmdtree.While{}, "NodePos"),
	cmpopts.IgnoreFields(cmdtree.Until{}, "NodePos"),
	cmpopts.IgnoreFields(cmdtree.NYI{}, "NodePos"),
}

func simpleCmd(words ...string) *cmdtree.Simple {
	s := &cmdtree.Simple{}
	for _, w := range words {
		s.Words = append(s.Words, cmdtree.Word{Literal: w})
	}
	return s
}

func TestParseSimple(t *testing.T) {
	t.Parallel()
	got, err := Parse([]byte("echo hi there"))
	qt.Assert(t, err, qt.IsNil)
	qt.Assert(t, got, qt.HasLen, 1)
	want := simpleCmd("echo", "hi", "there")
	if diff := cmp.Diff(want, got[0], ignorePos); diff != "" {
		t.Fatalf("tree mismatch (-want +got):\n%s", diff)
	}
}

func TestParsePipeline(t *testing.T) {
	t.Parallel()
	got, err := Parse([]byte("ls | wc -l"))
	qt.Assert(t, err, qt.IsNil)
	qt.Assert(t, got, qt.HasLen, 1)
	want := &cmdtree.Connection{
		Connector: cmdtree.Pipe,
		Left:      simpleCmd("ls"),
		Right:     simpleCmd("wc", "-l"),
	}
	if diff := cmp.Diff(want, got[0], ignorePos); diff != "" {
		t.Fatalf("tree mismatch (-want +got):\n%s", diff)
	}
}

func TestParseAndOr(t *testing.T) {
	t.Parallel()
	got, err := Parse([]byte("false && echo a || echo b"))
	qt.Assert(t, err, qt.IsNil)
	qt.Assert(t, got, qt.HasLen, 1)
	// Left-associative: (false && echo a) || echo b.
	want := &cmdtree.Connection{
		Connector: cmdtree.OrOr,
		Left: &cmdtree.Connection{
			Connector: cmdtree.AndAnd,
			Left:      simpleCmd("false"),
			Right:     simpleCmd("echo", "a"),
		},
		Right: simpleCmd("echo", "b"),
	}
	if diff := cmp.Diff(want, got[0], ignorePos); diff != "" {
		t.Fatalf("tree mismatch (-want +got):\n%s", diff)
	}
}

func TestParseBackground(t *testing.T) {
	t.Parallel()
	got, err := Parse([]byte("sleep 1 &"))
	qt.Assert(t, err, qt.IsNil)
	qt.Assert(t, got, qt.HasLen, 1)
	want := &cmdtree.Connection{
		Connector: cmdtree.Bg,
		Left:      simpleCmd("sleep", "1"),
		Right:     simpleCmd(":"),
	}
	if diff := cmp.Diff(want, got[0], ignorePos); diff != "" {
		t.Fatalf("tree mismatch (-want +got):\n%s", diff)
	}
}

func TestParseIfElse(t *testing.T) {
	t.Parallel()
	got, err := Parse([]byte("if false; then echo no; else echo yes; fi"))
	qt.Assert(t, err, qt.IsNil)
	qt.Assert(t, got, qt.HasLen, 1)
	want := &cmdtree.If{
		Test:        simpleCmd("false"),
		TrueBranch:  simpleCmd("echo", "no"),
		FalseBranch: simpleCmd("echo", "yes"),
	}
	if diff := cmp.Diff(want, got[0], ignorePos); diff != "" {
		t.Fatalf("tree mismatch (-want +got):\n%s", diff)
	}
}

func TestParseWhile(t *testing.T) {
	t.Parallel()
	got, err := Parse([]byte("while :; do break; done"))
	qt.Assert(t, err, qt.IsNil)
	qt.Assert(t, got, qt.HasLen, 1)
	want := &cmdtree.While{
		Test: simpleCmd(":"),
		Body: simpleCmd("break"),
	}
	if diff := cmp.Diff(want, got[0], ignorePos); diff != "" {
		t.Fatalf("tree mismatch (-want +got):\n%s", diff)
	}
}

func TestParseUntil(t *testing.T) {
	t.Parallel()
	got, err := Parse([]byte("until false; do :; done"))
	qt.Assert(t, err, qt.IsNil)
	qt.Assert(t, got, qt.HasLen, 1)
	want := &cmdtree.Until{
		Test: simpleCmd("false"),
		Body: simpleCmd(":"),
	}
	if diff := cmp.Diff(want, got[0], ignorePos); diff != "" {
		t.Fatalf("tree mismatch (-want +got):\n%s", diff)
	}
}

func TestParseForIsNYI(t *testing.T) {
	t.Parallel()
	got, err := Parse([]byte("for x in a b c; do echo $x; done"))
	qt.Assert(t, err, qt.IsNil)
	qt.Assert(t, got, qt.HasLen, 1)
	nyi, ok := got[0].(*cmdtree.NYI)
	qt.Assert(t, ok, qt.IsTrue)
	qt.Assert(t, nyi.Construct, qt.Equals, "for")
}

func TestParseCaseIsNYI(t *testing.T) {
	t.Parallel()
	got, err := Parse([]byte("case $x in a) echo a;; esac; echo after"))
	qt.Assert(t, err, qt.IsNil)
	qt.Assert(t, got, qt.HasLen, 2)
	_, ok := got[0].(*cmdtree.NYI)
	qt.Assert(t, ok, qt.IsTrue)
}

func TestParseQuotedWordNeedsExpansion(t *testing.T) {
	t.Parallel()
	got, err := Parse([]byte(`echo "$HOME"`))
	qt.Assert(t, err, qt.IsNil)
	simple := got[0].(*cmdtree.Simple)
	qt.Assert(t, simple.Words, qt.HasLen, 2)
	qt.Assert(t, simple.Words[1].Flags&cmdtree.NeedsExpansion, qt.Not(qt.Equals), cmdtree.WordFlag(0))
}

func TestParseMultipleStatements(t *testing.T) {
	t.Parallel()
	got, err := Parse([]byte("echo a\necho b; echo c"))
	qt.Assert(t, err, qt.IsNil)
	qt.Assert(t, got, qt.HasLen, 3)
}

func TestParseUnterminatedIfIsError(t *testing.T) {
	t.Parallel()
	_, err := Parse([]byte("if false; then echo no"))
	qt.Assert(t, err, qt.Not(qt.IsNil))
	var perr *ParseError
	qt.Assert(t, err, qt.ErrorAs, &perr)
}

func TestParseEmptyInput(t *testing.T) {
	t.Parallel()
	got, err := Parse([]byte(""))
	qt.Assert(t, err, qt.IsNil)
	qt.Assert(t, got, qt.HasLen, 0)
}
