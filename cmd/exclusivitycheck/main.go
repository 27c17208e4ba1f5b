// Command exclusivitycheck drives the ordinary Go toolchain with the
// exclusivity runtime's environment knobs set, and fans out multi-package
// verification concurrently. It never parses or rewrites caller source: the
// compiler frontend that would emit BeginAccess/EndAccess calls is a
// separate concern this tool does not attempt, so it only ever forwards to
// `go`.
//
// Usage:
//
//	exclusivitycheck build [go build args...]
//	exclusivitycheck run main.go [program args...]
//	exclusivitycheck test [go test args...]
//	exclusivitycheck packages [pattern]
//	exclusivitycheck version
package main

import (
	"fmt"
	"os"
)

const version = "0.1.0"

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	switch command {
	case "build":
		buildCommand(args)
	case "run":
		runCommand(args)
	case "test":
		testCommand(args)
	case "packages":
		packagesCommand(args)
	case "version", "--version", "-v":
		fmt.Printf("exclusivitycheck version %s\n", version)
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Print(`exclusivitycheck - exclusivity runtime toolchain wrapper

USAGE:
    exclusivitycheck <command> [arguments]

COMMANDS:
    build       Build a Go program with exclusivity checking enabled
    run         Run a Go program with exclusivity checking enabled
    test        Test Go packages, fanning out per package concurrently
    packages    List the packages a pattern resolves to
    version     Show version information
    help        Show this help message

EXAMPLES:
    exclusivitycheck build -o myapp ./cmd/myapp
    exclusivitycheck run main.go --flag=value
    exclusivitycheck test ./...
    exclusivitycheck packages ./...

ABOUT:
    exclusivitycheck sets EXCLUSIVITY_DISABLED and EXCLUSIVITY_DEBUG_LOGGING
    in the child process environment rather than instrumenting source; the
    program being built is expected to call exclusivity.Init/BeginAccess/
    EndAccess itself.

FOR MORE INFORMATION:
    Repository: https://github.com/kolkov/exclusivity
`)
}
