package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/khanhnv2901/cscan-cli/internal/shared/security"
)

// validateOutName ensures the --out value can't be used for path traversal.
// It is a bare filename under the results directory, so reject separators.
func validateOutName(name string) error {
	switch name {
	case "":
		return errors.New("results filename is required")
	case ".", "..":
		return fmt.Errorf("results filename %q is reserved", name)
	}
	if strings.ContainsAny(name, "/\\") {
		return fmt.Errorf("results filename %q must not contain path separators", name)
	}
	return nil
}

func resolveResultsPath(resultsDir, name string) (string, error) {
	if err := validateOutName(name); err != nil {
		return "", err
	}
	return security.ResolveWithin(resultsDir, name)
}
