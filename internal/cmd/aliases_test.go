package cmd

import (
	"bytes"
	"testing"
)

func newAliasTestRoot(t *testing.T) *App {
	t.Helper()
	return &App{
		Stdout: &bytes.Buffer{},
		Stderr: &bytes.Buffer{},
	}
}

func TestRootHiddenFlagAliases(t *testing.T) {
	root := newAliasTestRoot(t).RootCommand()

	tests := []struct {
		base  string
		alias string
	}{
		{base: "output", alias: "out"},
		{base: "query", alias: "qr"},
	}

	for _, tt := range tests {
		t.Run(tt.base+"->"+tt.alias, func(t *testing.T) {
			base := root.PersistentFlags().Lookup(tt.base)
			if base == nil {
				t.Fatalf("base flag --%s not found", tt.base)
			}
			alias := root.PersistentFlags().Lookup(tt.alias)
			if alias == nil {
				t.Fatalf("alias flag --%s not found", tt.alias)
			}
			if !alias.Hidden {
				t.Errorf("alias flag --%s should be hidden", tt.alias)
			}
			if alias.Value.Type() != base.Value.Type() {
				t.Errorf("alias --%s type = %q, want %q", tt.alias, alias.Value.Type(), base.Value.Type())
			}
		})
	}

	// -j is provided by BoolP (native shorthand), not a flagAlias.
	if root.PersistentFlags().ShorthandLookup("j") == nil {
		t.Fatal("-j shorthand not found on --json flag")
	}
	if err := root.PersistentFlags().Set("json", "true"); err != nil {
		t.Fatalf("set --json: %v", err)
	}
	jsonEnabled, _ := root.PersistentFlags().GetBool("json")
	if !jsonEnabled {
		t.Error("--json should be enabled")
	}
	if err := root.PersistentFlags().Set("json", "false"); err != nil {
		t.Fatalf("set --json: %v", err)
	}
	jsonAliasEnabled, _ := root.PersistentFlags().GetBool("j")
	if jsonAliasEnabled {
		t.Error("--json should update --j value")
	}

	if err := root.PersistentFlags().Set("out", "yaml"); err != nil {
		t.Fatalf("set --out: %v", err)
	}
	outputVal, _ := root.PersistentFlags().GetString("output")
	if outputVal != "yaml" {
		t.Errorf("--out should set --output, got %q", outputVal)
	}

	if err := root.PersistentFlags().Set("qr", ".id"); err != nil {
		t.Fatalf("set --qr: %v", err)
	}
	queryVal, _ := root.PersistentFlags().GetString("query")
	if queryVal != ".id" {
		t.Errorf("--qr should set --query, got %q", queryVal)
	}

	jqFlag := root.PersistentFlags().Lookup("jq")
	if jqFlag == nil {
		t.Fatal("expected --jq to remain registered")
	}
}

func TestCanonicalVerbAliases(t *testing.T) {
	root := newAliasTestRoot(t).RootCommand()

	tests := []struct {
		name     string
		args     []string
		wantName string
	}{
		{name: "top-level list -> ls", args: []string{"ls", "--help"}, wantName: "list"},
		{name: "top-level create -> cr", args: []string{"cr", "--help"}, wantName: "create"},
		{name: "top-level create -> mk", args: []string{"mk", "--help"}, wantName: "create"},
		{name: "issue list -> ls", args: []string{"issue", "ls", "--help"}, wantName: "list"},
		{name: "issue create -> mk", args: []string{"issue", "mk", "--help"}, wantName: "create"},
		{name: "issue create -> cr", args: []string{"issue", "cr", "--help"}, wantName: "create"},
		{name: "project list -> ls", args: []string{"project", "ls", "--help"}, wantName: "list"},
		{name: "config show -> g", args: []string{"config", "g", "--help"}, wantName: "show"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd, _, err := root.Find(tt.args)
			if err != nil {
				t.Fatalf("root.Find(%v) error: %v", tt.args, err)
			}
			if cmd == nil {
				t.Fatalf("root.Find(%v) returned nil command", tt.args)
			}
			if cmd.Name() != tt.wantName {
				t.Errorf("root.Find(%v) resolved to %q, want %q", tt.args, cmd.Name(), tt.wantName)
			}
		})
	}
}

