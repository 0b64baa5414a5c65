package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
)

func TestRootHelp_CustomMenu(t *testing.T) {
	app := &App{
		Stdout: &bytes.Buffer{},
		Stderr: &bytes.Buffer{},
	}

	root := app.RootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs([]string{"--help"})

	if err := root.Execute(); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	got := out.String()
	wantSnippets := []string{
		"lnr - CLI for the Linear issue tracker",
		"GETTING STARTED",
		"CORE COMMANDS",
		"CONFIGURATION",
		"SHORTCUTS",
		"OUTPUT (global flags)",
		"AGENT FLAGS",
		"ENVIRONMENT",
		"LINEAR_API_KEY",
		"--help-json",
	}
	for _, snippet := range wantSnippets {
		if !strings.Contains(got, snippet) {
			t.Fatalf("root help missing %q\nhelp output:\n%s", snippet, got)
		}
	}
}

func TestRootHelp_SubcommandFallback(t *testing.T) {
	app := &App{
		Stdout: &bytes.Buffer{},
		Stderr: &bytes.Buffer{},
	}

	root := app.RootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs([]string{"issue", "--help"})

	if err := root.Execute(); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	got := out.String()
	if !strings.Contains(got, "Usage:\n  lnr issue") {
		t.Fatalf("subcommand help did not use default help output:\n%s", got)
	}
	if strings.Contains(got, "GETTING STARTED") {
		t.Fatalf("subcommand help should not include root curated menu:\n%s", got)
	}
}

func TestHelpJSON_Root(t *testing.T) {
	app := &App{
		Stdout: &bytes.Buffer{},
		Stderr: &bytes.Buffer{},
	}

	root := app.RootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)

	cmd, ok := findHelpJSONTarget(root, []string{"--help-json"})
	if !ok {
		t.Fatal("findHelpJSONTarget returned false for --help-json")
	}
	if err := printHelpJSON(cmd); err != nil {
		t.Fatalf("printHelpJSON error: %v", err)
	}

	var payload CommandHelp
	if err := json.Unmarshal(out.Bytes(), &payload); err != nil {
		t.Fatalf("output is not valid JSON: %v\noutput: %s", err, out.String())
	}
	if payload.Name != "lnr" {
		t.Fatalf("expected name lnr, got %q", payload.Name)
	}
	if len(payload.Subcommands) == 0 {
		t.Fatal("expected subcommands, got none")
	}
}

func TestHelpJSON_Subcommand(t *testing.T) {
	app := &App{
		Stdout: &bytes.Buffer{},
		Stderr: &bytes.Buffer{},
	}

	root := app.RootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)

	cmd, ok := findHelpJSONTarget(root, []string{"issue", "--help-json"})
	if !ok {
		t.Fatal("findHelpJSONTarget returned false for issue --help-json")
	}
	if err := printHelpJSON(cmd); err != nil {
		t.Fatalf("printHelpJSON error: %v", err)
	}

	var payload CommandHelp
	if err := json.Unmarshal(out.Bytes(), &payload); err != nil {
		t.Fatalf("output is not valid JSON: %v\noutput: %s", err, out.String())
	}
	if payload.Name != "issue" {
		t.Fatalf("expected name issue, got %q", payload.Name)
	}
	if len(payload.Subcommands) == 0 {
		t.Fatal("expected subcommands, got none")
	}
}

func TestHelpJSON_ViaExecute(t *testing.T) {
	app := &App{
		Stdout: &bytes.Buffer{},
		Stderr: &bytes.Buffer{},
	}

	// Execute intercepts --help-json before Cobra arg validation.
	// printHelpJSON writes to cmd.OutOrStdout(), so only verify no error here.
	err := app.Execute(context.Background(), []string{"--help-json"})
	if err != nil {
		t.Fatalf("Execute --help-json failed: %v", err)
	}
}
