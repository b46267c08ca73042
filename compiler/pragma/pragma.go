// Package pragma checks the source's compiler version constraint.
package pragma

import (
	"github.com/Masterminds/semver/v3"
	"tlog.app/go/errors"
)

// Check verifies that the compiler version satisfies the source's
// constraint. An empty constraint always passes.
func Check(constraint, version string) error {
	if constraint == "" {
		return nil
	}

	c, err := semver.NewConstraint(constraint)
	if err != nil {
		return errors.Wrap(err, "pragma %q", constraint)
	}

	v, err := semver.NewVersion(version)
	if err != nil {
		return errors.Wrap(err, "compiler version %q", version)
	}

	if !c.Check(v) {
		return errors.New("pragma %q is not satisfied by compiler version %v", constraint, version)
	}

	return nil
}
