// Command bashc translates a restricted POSIX-style shell program into
// a self-contained C source file, then leaves compiling that file to
// an external C toolchain.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/renameio/v2"
	"golang.org/x/sync/errgroup"
	"golang.org/x/term"

	"github.com/sourcelang/bashc/codegen"
	"github.com/sourcelang/bashc/fileutil"
	"github.com/sourcelang/bashc/frontend"
	"github.com/sourcelang/bashc/runtime"
)

// Exit codes (§6.4): 0 success, 1 read/close failure, a distinct code
// when the output file cannot be opened for writing.
const (
	exitOK            = 0
	exitReadFailure   = 1
	exitCantCreateOut = 73 // sysexits.h EX_CANTCREAT
)

type multiFlag[T any] struct {
	short, long string
	val         T
}

var (
	output      = &multiFlag[string]{"o", "output", ""}
	dumpStdout  = &multiFlag[bool]{"S", "stdout", false}
	emitRuntime = &multiFlag[string]{"", "emit-runtime", ""}
	color       = &multiFlag[bool]{"", "color", false}

	allFlags = []any{output, dumpStdout, emitRuntime, color}
)

func init() {
	for _, f := range allFlags {
		switch f := f.(type) {
		case *multiFlag[bool]:
			if f.short != "" {
				flag.BoolVar(&f.val, f.short, f.val, "")
			}
			if f.long != "" {
				flag.BoolVar(&f.val, f.long, f.val, "")
			}
		case *multiFlag[string]:
			if f.short != "" {
				flag.StringVar(&f.val, f.short, f.val, "")
			}
			if f.long != "" {
				flag.StringVar(&f.val, f.long, f.val, "")
			}
		default:
			panic(fmt.Sprintf("%T", f))
		}
	}
}

func main() {
	flag.Usage = func() {
		fmt.Fprint(os.Stderr, `usage: bashc [flags] [path]

bashc translates a shell program into a C source file. If path is a
dash ('-') or omitted, standard input is used.

  -o, --output FILE     write translated source to FILE instead of
                        path with its extension replaced by .c
  -S, --stdout          write translated source to standard output
  --emit-runtime DIR    also write the runtime support library
                        (libbashc.h, libbashc.c) under DIR/libbashc
  --color               force coloured diagnostics
`)
	}
	flag.Parse()

	if !color.val {
		color.val = os.Getenv("FORCE_COLOR") != "" ||
			(os.Getenv("NO_COLOR") == "" && term.IsTerminal(int(os.Stderr.Fd())))
	}

	path := "-"
	if flag.NArg() > 0 {
		path = flag.Arg(0)
	}

	os.Exit(run(path))
}

func run(path string) int {
	src, name, err := readSource(path)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return exitReadFailure
	}
	if path != "-" && path != "" && !fileutil.HasShebang(src) {
		fmt.Fprintf(os.Stderr, "bashc: %s: warning: no sh/bash shebang, translating anyway\n", name)
	}

	cmds, err := frontend.Parse(src)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return exitReadFailure
	}

	var g *codegen.Generator
	var buf io.Writer
	var pf *renameio.PendingFile
	outPath := outputPath(path)

	if dumpStdout.val {
		buf = os.Stdout
	} else {
		if output.val != "" {
			outPath = output.val
		}
		var perr error
		pf, perr = renameio.NewPendingFile(outPath, renameio.WithTempDir(filepath.Dir(outPath)))
		if perr != nil {
			fmt.Fprintf(os.Stderr, "bashc: cannot open %s for writing: %v\n", outPath, perr)
			return exitCantCreateOut
		}
		defer pf.Cleanup()
		buf = pf
	}

	g = codegen.New(buf)
	g.WritePrologue()
	for _, cmd := range cmds {
		if err := g.Emit(cmd); err != nil {
			if fe, ok := codegen.AsFatal(err); ok {
				fmt.Fprintln(os.Stderr, fe)
				return exitReadFailure
			}
			fmt.Fprintln(os.Stderr, err)
			return exitReadFailure
		}
	}
	g.WriteEpilogue()
	if err := g.Flush(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return exitReadFailure
	}

	for _, d := range g.Diagnostics() {
		reportDiagnostic(name, d)
	}

	if pf != nil {
		if err := pf.CloseAtomicallyReplace(); err != nil {
			fmt.Fprintf(os.Stderr, "bashc: cannot write %s: %v\n", outPath, err)
			return exitReadFailure
		}
	}

	if emitRuntime.val != "" {
		if err := writeRuntime(context.Background(), emitRuntime.val); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return exitCantCreateOut
		}
	}

	return exitOK
}

func readSource(path string) (src []byte, name string, err error) {
	if path == "-" || path == "" {
		src, err = io.ReadAll(os.Stdin)
		return src, "<standard input>", err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, path, err
	}
	src, err = io.ReadAll(f)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	return src, path, err
}

func outputPath(path string) string {
	if path == "-" || path == "" {
		return "a.out.c"
	}
	ext := filepath.Ext(path)
	return path[:len(path)-len(ext)] + ".c"
}

// writeRuntime materialises the runtime library under dir/libbashc,
// writing both files concurrently.
func writeRuntime(ctx context.Context, dir string) error {
	files, err := runtime.Files()
	if err != nil {
		return err
	}
	runtimeDir := filepath.Join(dir, "libbashc")
	if err := os.MkdirAll(runtimeDir, 0o755); err != nil {
		return err
	}

	g, _ := errgroup.WithContext(ctx)
	for name, data := range files {
		name, data := name, data
		g.Go(func() error {
			return renameio.WriteFile(filepath.Join(runtimeDir, name), data, 0o644)
		})
	}
	return g.Wait()
}

func reportDiagnostic(name string, d codegen.Diagnostic) {
	prefix := "warning"
	if d.Severity == codegen.Reported {
		prefix = "error"
	}
	if color.val {
		if d.Severity == codegen.Reported {
			prefix = "\x1b[31m" + prefix + "\x1b[0m"
		} else {
			prefix = "\x1b[33m" + prefix + "\x1b[0m"
		}
	}
	fmt.Fprintf(os.Stderr, "%s: %s: %s\n", name, prefix, d.String())
}
