package codegen

// CloseFD is the target-language sentinel meaning "close this fd
// instead of duplicating" (§3.2, §6.3's IO_CLOSE_FD).
const CloseFD = "IO_CLOSE_FD"

// fdEntry is one pending redirection: a pair of target-language
// expressions describing the fd to duplicate from and the fd (or
// CloseFD) to duplicate it onto.
type fdEntry struct {
	source string
	target string
}

// CTIOC is the compile-time I/O context (§3.2): an ordered, value-like
// list of pending fd remaps accumulated by enclosing pipes. A nil
// *CTIOC is the "absent" value the spec calls for; every operation
// below preserves that invariant rather than returning an empty,
// non-nil slice.
//
// The source this is grounded on reallocates a flat C array on every
// grow/shrink and returns a (possibly relocated) pointer; a Go slice
// already gives value-like grow/shrink semantics for free; Merge
// matches the source's merge_iocs, kept for completeness per §4.3
// even though nothing in the current core calls it.
type CTIOC struct {
	entries []fdEntry
}

// emptyCTIOC is the absent value.
func emptyCTIOC() *CTIOC { return nil }

func (c *CTIOC) size() int {
	if c == nil {
		return 0
	}
	return len(c.entries)
}

// grow extends ioc by n zero-valued entries when n is positive, or
// shrinks it by |n| entries when n is negative. Shrinking below
// zero is the fatal "tried to shrink ctioctx below zero size"
// invariant violation (§4.3); shrinking to exactly zero returns the
// absent value.
func growCTIOC(ioc *CTIOC, n int) (*CTIOC, error) {
	old := ioc.size()
	if old+n < 0 {
		return nil, fatalf("tried to shrink ctioctx below zero size")
	}
	if old+n == 0 {
		return nil, nil
	}
	if n < 0 {
		entries := ioc.entries[:old+n]
		out := make([]fdEntry, len(entries))
		copy(out, entries)
		return &CTIOC{entries: out}, nil
	}
	out := make([]fdEntry, old, old+n)
	if ioc != nil {
		copy(out, ioc.entries)
	}
	for i := 0; i < n; i++ {
		out = append(out, fdEntry{})
	}
	return &CTIOC{entries: out}, nil
}

// appendEntry grows ioc by one and fills it in a single step; the
// emitters never need an uninitialised entry to exist across calls.
func appendEntry(ioc *CTIOC, source, target string) *CTIOC {
	var entries []fdEntry
	if ioc != nil {
		entries = append(entries, ioc.entries...)
	}
	entries = append(entries, fdEntry{source: source, target: target})
	return &CTIOC{entries: entries}
}

// shrink releases the last n entries (n must be >= 0).
func shrink(ioc *CTIOC, n int) (*CTIOC, error) {
	return growCTIOC(ioc, -n)
}

// mergeCTIOC concatenates a and b. Reserved for future redirection
// handling (§3.2); the current core never calls it.
func mergeCTIOC(a, b *CTIOC) *CTIOC {
	if a.size() == 0 {
		return b
	}
	if b.size() == 0 {
		return a
	}
	entries := make([]fdEntry, 0, a.size()+b.size())
	entries = append(entries, a.entries...)
	entries = append(entries, b.entries...)
	return &CTIOC{entries: entries}
}

// materialise emits target code declaring a runtime I/O-context
// record bound to name (§4.3). An absent or empty ioc declares a null
// record; otherwise it declares an rtioctx literal with one row per
// entry.
func (g *Generator) materialise(ioc *CTIOC, name string) {
	if ioc.size() == 0 {
		g.e.writeStatement("struct rtioctx* %s = NULL", name)
		return
	}
	// struct rtioctx ends in a flexible array member, so it can't be
	// declared as a local directly; a same-layout backing struct sized
	// for this call's entry count stands in for it, and a pointer to
	// its address is handed to the runtime as the rtioctx.
	g.e.writeln("struct { int numfds; int fds[%d][2]; } %s_storage = {", ioc.size(), name)
	g.e.indent++
	g.e.writeln("%d, {", ioc.size())
	g.e.indent++
	for _, ent := range ioc.entries {
		g.e.writeln("{ %s, %s },", ent.source, ent.target)
	}
	g.e.indent--
	g.e.writeln("},")
	g.e.indent--
	g.e.writeln("};")
	g.e.writeStatement("struct rtioctx* %s = (struct rtioctx*)&%s_storage", name, name)
}
