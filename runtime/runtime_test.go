package runtime

import (
	"strings"
	"testing"

	qt "github.com/frankban/quicktest"
)

func TestFiles(t *testing.T) {
	files, err := Files()
	qt.Assert(t, err, qt.IsNil)
	qt.Assert(t, files, qt.HasLen, 2)
	qt.Assert(t, string(files["libbashc.h"]), qt.Contains, "IO_CLOSE_FD")
	qt.Assert(t, string(files["libbashc.h"]), qt.Contains, "FE_BACKGROUND")
	qt.Assert(t, string(files["libbashc.c"]), qt.Contains, "forkexec_argv")
	qt.Assert(t, strings.Contains(string(files["libbashc.c"]), "execvp"), qt.IsTrue)
}
