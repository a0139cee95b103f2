package pantrypal

import (
	"fmt"
	"os"
	"runtime"

	"github.com/davecgh/go-spew/spew"
)

var dumpConfig = spew.ConfigState{
	Indent:                  "  ",
	SortKeys:                true,
	DisablePointerAddresses: true,
	DisableCapacities:       true,
}

// Dump pretty-prints v to stdout, prefixed with the caller's file and line.
func Dump(v ...any) {
	_, file, line, _ := runtime.Caller(1)
	fmt.Fprintf(os.Stdout, "%s:%d:\n", file, line)
	dumpConfig.Fdump(os.Stdout, v...)
}
