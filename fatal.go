package virtsched

import (
	"fmt"
	"os"
	"runtime"
)

// fatal reports a systemic failure — a semaphore primitive or goroutine
// spawn that could not be started — and aborts the process, mirroring the
// source design's error_exit macro (scheduler_struct.h): print a diagnostic
// naming the source location and the failing operation, then exit
// non-zero. Unlike the contract errors in errors.go, there is no return
// path from this function.
//
// This stays on the standard library deliberately: the retrieval pack has
// no example reaching for a structured logger on a path that is about to
// call os.Exit, and a log line cannot help a process that is already
// terminating. See DESIGN.md.
func fatal(format string, args ...any) {
	_, file, line, ok := runtime.Caller(1)
	if !ok {
		file, line = "unknown", 0
	}
	fmt.Fprintf(os.Stderr, "virtsched: fatal: %s:%d: %s\n", file, line, fmt.Sprintf(format, args...))
	os.Exit(1)
}
