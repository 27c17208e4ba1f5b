package main

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFindModuleRootWalksUpToGoMod(t *testing.T) {
	root := t.TempDir()
	goMod := "module example.com/widget\n\ngo 1.24\n"
	if err := os.WriteFile(filepath.Join(root, "go.mod"), []byte(goMod), 0o644); err != nil {
		t.Fatal(err)
	}

	nested := filepath.Join(root, "cmd", "widget")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}

	oldwd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	defer os.Chdir(oldwd)
	if err := os.Chdir(nested); err != nil {
		t.Fatal(err)
	}

	gotRoot, modulePath, err := findModuleRoot()
	if err != nil {
		t.Fatalf("findModuleRoot() error: %v", err)
	}
	if resolvedRoot, _ := filepath.EvalSymlinks(root); resolvedRoot != "" {
		root = resolvedRoot
	}
	if resolvedGot, _ := filepath.EvalSymlinks(gotRoot); resolvedGot != "" {
		gotRoot = resolvedGot
	}
	if gotRoot != root {
		t.Errorf("root = %q, want %q", gotRoot, root)
	}
	if modulePath != "example.com/widget" {
		t.Errorf("modulePath = %q, want example.com/widget", modulePath)
	}
}
