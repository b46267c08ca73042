// Package ice is the internal-invariant side of the error taxonomy.
//
// An ice.Error means a compiler defect: an earlier stage broke a contract
// a later stage depends on. It is raised as a panic, is never recovered
// inside the compiler, and is only presented by the surrounding driver.
// User-facing diagnostics are ordinary error returns from parse and
// analyze and never travel this path.
package ice

import (
	"fmt"
	"path/filepath"

	"tlog.app/go/loc"
)

type (
	Error struct {
		Message string
		PC      loc.PC
	}
)

func (e *Error) Error() string {
	_, file, line := e.PC.NameFileLine()

	return fmt.Sprintf("internal compiler error: %v (%v:%d)", e.Message, filepath.Base(file), line)
}

// Bug panics with an *Error naming the violated invariant.
func Bug(format string, args ...interface{}) {
	panic(&Error{
		Message: fmt.Sprintf(format, args...),
		PC:      loc.Caller(1),
	})
}
