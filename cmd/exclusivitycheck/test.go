package main

import (
	"context"
	"fmt"
	"os"
	"os/exec"

	"golang.org/x/sync/errgroup"
)

// testCommand implements 'exclusivitycheck test [pattern...] [go test flags]'.
// With more than one package resolved, it fans the per-package `go vet` +
// `go test` runs out concurrently via errgroup, grounded on
// dispatchrun-coroutine/compiler/vendor.go's use of golang.org/x/sync/errgroup
// for concurrent independent work.
func testCommand(args []string) {
	patterns, flags := splitPatternsAndFlags(args)
	if len(patterns) == 0 {
		patterns = []string{"./..."}
	}

	pkgs, err := loadPackages(patterns...)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if len(pkgs) == 0 {
		fmt.Fprintln(os.Stderr, "Error: no packages matched")
		os.Exit(1)
	}

	env := withRuntimeEnv(os.Environ())
	if len(pkgs) == 1 {
		os.Exit(runGoTest(pkgs[0].PkgPath, flags, env))
	}

	var g errgroup.Group
	failures := make([]string, len(pkgs))
	for i, p := range pkgs {
		i, p := i, p
		g.Go(func() error {
			if code := runGoTest(p.PkgPath, flags, env); code != 0 {
				failures[i] = p.PkgPath
			}
			return nil
		})
	}
	_ = g.Wait() // runGoTest never returns an error itself; failures are tracked above

	failed := false
	for _, path := range failures {
		if path != "" {
			fmt.Fprintf(os.Stderr, "FAIL\t%s\n", path)
			failed = true
		}
	}
	if failed {
		os.Exit(1)
	}
}

func runGoTest(pkgPath string, flags, env []string) int {
	cmd := exec.CommandContext(context.Background(), "go", append([]string{"test", pkgPath}, flags...)...)
	cmd.Env = env
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return exitCodeOf(err)
	}
	return 0
}

// splitPatternsAndFlags separates package patterns from `go test` flags by
// position: patterns don't start with '-'.
func splitPatternsAndFlags(args []string) (patterns, flags []string) {
	for _, a := range args {
		if len(a) > 0 && a[0] == '-' {
			flags = append(flags, a)
		} else {
			patterns = append(patterns, a)
		}
	}
	return patterns, flags
}
