package main

import (
	"testing"

	"github.com/nytrix-lang/nytrix/internal/pipeline"
)

func TestResolveModeDefaultsToREPLWithNoInput(t *testing.T) {
	if got := resolveMode("", "", "", ""); got != pipeline.ModeREPL {
		t.Fatalf("resolveMode() = %v; want ModeREPL", got)
	}
}

func TestResolveModeEmitIRWinsOverOutputFile(t *testing.T) {
	got := resolveMode("main.ny", "", "out.ll", "a.out")
	if got != pipeline.ModeEmitIR {
		t.Fatalf("resolveMode() = %v; want ModeEmitIR", got)
	}
}

func TestResolveModeBuildWhenOutputFileGiven(t *testing.T) {
	got := resolveMode("main.ny", "", "", "a.out")
	if got != pipeline.ModeBuild {
		t.Fatalf("resolveMode() = %v; want ModeBuild", got)
	}
}

func TestResolveModeRunsUnderJITByDefault(t *testing.T) {
	got := resolveMode("main.ny", "", "", "")
	if got != pipeline.ModeRun {
		t.Fatalf("resolveMode() = %v; want ModeRun", got)
	}
}

func TestResolveModeAcceptsCommandStringWithoutInputFile(t *testing.T) {
	got := resolveMode("", "1 + 1;", "", "")
	if got != pipeline.ModeRun {
		t.Fatalf("resolveMode() = %v; want ModeRun", got)
	}
}
