package main

import (
	"fmt"
	"os"

	"golang.org/x/tools/go/packages"
)

// loadPackages enumerates the packages a pattern resolves to, grounded on
// dispatchrun-coroutine/coroc/compiler/compile.go's use of
// golang.org/x/tools/go/packages.Load — the same "resolve patterns to real
// package paths" step that tool uses before instrumenting anything, here
// used to fan work out to `go vet`/`go test` per package instead.
func loadPackages(patterns ...string) ([]*packages.Package, error) {
	cfg := &packages.Config{Mode: packages.NeedName | packages.NeedFiles}
	pkgs, err := packages.Load(cfg, patterns...)
	if err != nil {
		return nil, fmt.Errorf("loading packages: %w", err)
	}

	var errs []error
	packages.Visit(pkgs, nil, func(p *packages.Package) {
		for _, e := range p.Errors {
			errs = append(errs, e)
		}
	})
	if len(errs) > 0 {
		return pkgs, fmt.Errorf("%d package error(s), first: %w", len(errs), errs[0])
	}
	return pkgs, nil
}

// packagesCommand implements 'exclusivitycheck packages [pattern...]'.
func packagesCommand(args []string) {
	patterns := args
	if len(patterns) == 0 {
		patterns = []string{"./..."}
	}

	pkgs, err := loadPackages(patterns...)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	for _, p := range pkgs {
		fmt.Println(p.PkgPath)
	}
}
