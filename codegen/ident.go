package codegen

import "fmt"

// identFactory mints fresh names (C2), unique within one Generator:
// every base shares the one counter. It is the
// generator's only mutable counter besides the loop stack; §9 groups
// it into the generator context rather than leaving it as a package
// global, since nothing about it needs to survive across generator
// instances.
type identFactory struct {
	counter uint
}

// newIdent returns a fresh identifier of the form "<base><n>". An
// empty base defaults to "var".
func (f *identFactory) newIdent(base string) string {
	if base == "" {
		base = "var"
	}
	id := fmt.Sprintf("%s%d", base, f.counter)
	f.counter++
	return id
}
