// Package binary locates the external tools the decoders shell out to.
package binary

import (
	"fmt"
	"os/exec"

	"github.com/farcloser/primordium/fault"
)

// Require resolves binName on the system PATH.
// A missing tool is reported as fault.ErrMissingRequirements.
func Require(binName string) (string, error) {
	path, err := exec.LookPath(binName)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %w", fault.ErrMissingRequirements, binName, err)
	}

	return path, nil
}
