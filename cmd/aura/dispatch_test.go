package main

import (
	"context"
	"testing"
)

func TestDispatchRejectsGuiWithJson(t *testing.T) {
	f := cliFlags{jsonMode: true, gui: true, intervalRaw: "1"}
	if err := dispatch(context.Background(), f); err == nil {
		t.Fatal("expected mutual-exclusivity error for --gui with --json")
	}
}

func TestDispatchRejectsGuiWithWatch(t *testing.T) {
	f := cliFlags{watch: true, gui: true, intervalRaw: "1"}
	if err := dispatch(context.Background(), f); err == nil {
		t.Fatal("expected mutual-exclusivity error for --gui with --watch")
	}
}

func TestDispatchRejectsGuiWithReadback(t *testing.T) {
	f := cliFlags{gui: true, latest: 5, intervalRaw: "1"}
	if err := dispatch(context.Background(), f); err == nil {
		t.Fatal("expected mutual-exclusivity error for --gui with --latest")
	}
}

func TestDispatchRejectsBadInterval(t *testing.T) {
	f := cliFlags{jsonMode: true, intervalRaw: "not-a-number"}
	if err := dispatch(context.Background(), f); err == nil {
		t.Fatal("expected interval parse error")
	}
}
