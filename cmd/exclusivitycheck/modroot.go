package main

import (
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/mod/modfile"
)

// findModuleRoot walks up from the current working directory looking for a
// go.mod, the way `go` itself resolves the current module. This tool only
// ever needs the caller's module; it maintains no second, parallel project
// tree of its own.
func findModuleRoot() (root, modulePath string, err error) {
	cwd, err := os.Getwd()
	if err != nil {
		return "", "", err
	}

	dir := cwd
	for {
		modPath := filepath.Join(dir, "go.mod")
		if data, statErr := os.ReadFile(modPath); statErr == nil {
			mf, parseErr := modfile.Parse(modPath, data, nil)
			if parseErr != nil {
				return "", "", fmt.Errorf("parsing %s: %w", modPath, parseErr)
			}
			return dir, mf.Module.Mod.Path, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", "", fmt.Errorf("no go.mod found above %s", cwd)
		}
		dir = parent
	}
}
