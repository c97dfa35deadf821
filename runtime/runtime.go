// Package runtime ships the small C support library that every
// emitted program links against (§6.3): forkexec_argv/exec_argv and
// the rtioctx record the code generator's materialise calls build
// literals of. The core never calls into it directly; it only agrees
// on the struct layout and function signatures the generated call
// sites assume.
package runtime

import "embed"

//go:embed libbashc.h libbashc.c
var files embed.FS

// Files returns the runtime library's source files keyed by the name
// they should be written under (e.g. alongside the emitted program, in
// a libbashc/ subdirectory, per the #include "libbashc/libbashc.h" in
// the emitted prologue).
func Files() (map[string][]byte, error) {
	out := make(map[string][]byte, 2)
	for _, name := range []string{"libbashc.h", "libbashc.c"} {
		data, err := files.ReadFile(name)
		if err != nil {
			return nil, err
		}
		out[name] = data
	}
	return out, nil
}
