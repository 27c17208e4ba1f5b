package engine

import (
	"testing"
	"unsafe"
)

func TestEnableDisableToggleChecking(t *testing.T) {
	resetEngine(t)
	if !Enabled() {
		t.Fatal("Init must leave checking enabled by default")
	}
	Disable()
	if Enabled() {
		t.Fatal("Disable must turn checking off")
	}
	Enable()
	if !Enabled() {
		t.Fatal("Enable must turn checking back on")
	}
}

func TestInitReadsDisabledEnvVar(t *testing.T) {
	t.Setenv("EXCLUSIVITY_DISABLED", "1")
	Init()
	if Enabled() {
		t.Fatal("Init must honor EXCLUSIVITY_DISABLED=1")
	}
	t.Setenv("EXCLUSIVITY_DISABLED", "")
	Init()
	if !Enabled() {
		t.Fatal("Init must re-enable checking once the env var is cleared")
	}
}

func TestFiniIsSafeAfterInit(t *testing.T) {
	resetEngine(t)
	Fini() // must not panic; observable output goes to stderr
	if Enabled() {
		t.Fatal("Fini must leave checking disabled")
	}
}

func TestGetFunctionReplacementHonorsCallOriginalFlag(t *testing.T) {
	resetEngine(t)
	var a, b int
	replacement := unsafe.Pointer(&a)
	original := unsafe.Pointer(&b)

	if got := GetFunctionReplacement(replacement, original); got != replacement {
		t.Fatal("with no flag set, the replacement must be chosen")
	}

	GetOriginalOfReplaceable()
	if got := GetFunctionReplacement(replacement, original); got != original {
		t.Fatal("after GetOriginalOfReplaceable, the next call must return the original")
	}
	// the flag is one-shot
	if got := GetFunctionReplacement(replacement, original); got != replacement {
		t.Fatal("the call-original flag must be consumed after one use")
	}
}

func TestGetFunctionReplacementSameFunctionShortCircuits(t *testing.T) {
	resetEngine(t)
	var a int
	p := unsafe.Pointer(&a)
	if got := GetFunctionReplacement(p, p); got != p {
		t.Fatal("identical replacement and current must return that same pointer")
	}
}
