package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const library = `
version: 0.2.0
profiles:
  account:
    required: [email, name, password]
    optional: [phone]
    field_filters:
      email: [trim, lc]
    constraint_methods:
      email: email
      password: min=8
    msgs:
      constraints:
        min: too short
views:
  login:
    base: account
    only: [email, password]
  signup:
    base: account
    make_optional: [name]
    add:
      referrer: {}
`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestShowCmd(t *testing.T) {
	lib := writeFile(t, "profiles.yaml", library)

	out, err := execute(t, "show", "--file", lib, "--profile", "login")
	if err != nil {
		t.Fatalf("show: %v", err)
	}
	var got map[string]any
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out)
	}
	req, _ := got["required"].([]any)
	if len(req) != 2 || req[0] != "email" || req[1] != "password" {
		t.Fatalf("required = %#v", got["required"])
	}

	out, err = execute(t, "show", "-f", lib, "-p", "account", "--remove", "phone", "--make-optional", "password")
	if err != nil {
		t.Fatalf("show with trims: %v", err)
	}
	if !strings.Contains(out, `"optional":["password"]`) {
		t.Fatalf("trims not applied: %s", out)
	}

	if _, err := execute(t, "show", "--file", lib, "--profile", "nope"); err == nil {
		t.Fatalf("expected error for unknown profile")
	}
	if _, err := execute(t, "show", "--profile", "login"); err == nil || !strings.Contains(err.Error(), "--file") {
		t.Fatalf("expected --file error, got %v", err)
	}
}

func TestCheckCmd(t *testing.T) {
	lib := writeFile(t, "profiles.yaml", library)

	good := writeFile(t, "good.json", `{"email": " ADA@EXAMPLE.COM", "password": "correct horse"}`)
	out, err := execute(t, "check", "--file", lib, "--profile", "login", "--data", good)
	if err != nil {
		t.Fatalf("check: %v\n%s", err, out)
	}
	if !strings.Contains(out, `"email": "ada@example.com"`) {
		t.Fatalf("filtered value missing from output: %s", out)
	}

	bad := writeFile(t, "bad.json", `{"password": "short", "extra": 1}`)
	out, err = execute(t, "check", "--file", lib, "--profile", "login", "--data", bad)
	if !errors.Is(err, errInvalidRecord) {
		t.Fatalf("expected errInvalidRecord, got %v", err)
	}
	var res struct {
		Missing  []string          `json:"missing"`
		Unknown  []string          `json:"unknown"`
		Messages map[string]string `json:"messages"`
	}
	if err := json.Unmarshal([]byte(out), &res); err != nil {
		t.Fatalf("decode results: %v\n%s", err, out)
	}
	if len(res.Missing) != 1 || res.Missing[0] != "email" {
		t.Fatalf("missing = %q", res.Missing)
	}
	if len(res.Unknown) != 1 || res.Unknown[0] != "extra" {
		t.Fatalf("unknown = %q", res.Unknown)
	}
	if res.Messages["password"] != "too short" {
		t.Fatalf("messages = %#v", res.Messages)
	}

	// Trims apply before checking.
	_, err = execute(t, "check", "--file", lib, "--profile", "login", "--data", bad, "--make-optional", "email", "--remove", "password")
	if err != nil {
		t.Fatalf("check with trims: %v", err)
	}
}

func TestLintCmd(t *testing.T) {
	lib := writeFile(t, "profiles.yaml", library)
	out, err := execute(t, "lint", "--file", lib)
	if err != nil {
		t.Fatalf("lint: %v\n%s", err, out)
	}
	if !strings.Contains(out, "3 profiles ok") {
		t.Fatalf("lint output: %s", out)
	}

	messy := writeFile(t, "messy.yaml", "profiles:\n  p:\n    required: [a]\n    defaults: {b: 1}\n")
	if _, err := execute(t, "lint", "--file", messy); err != nil {
		t.Fatalf("lenient lint: %v", err)
	}
	out, err = execute(t, "lint", "--file", messy, "--strict")
	if !errors.Is(err, errLintFailed) {
		t.Fatalf("expected errLintFailed, got %v", err)
	}
	if !strings.HasPrefix(out, "p: ") {
		t.Fatalf("strict lint output: %s", out)
	}
}

func TestDiffCmd(t *testing.T) {
	lib := writeFile(t, "profiles.yaml", library)

	out, err := execute(t, "diff", "--file", lib, "--base", "account", "--derived", "login")
	if err != nil {
		t.Fatalf("diff: %v", err)
	}
	if !strings.Contains(out, "dropped: name, phone") || !strings.Contains(out, "login is a projection of account") {
		t.Fatalf("diff output: %s", out)
	}

	out, err = execute(t, "diff", "--file", lib, "--base", "account", "--derived", "signup")
	if err != nil {
		t.Fatalf("diff: %v", err)
	}
	if !strings.Contains(out, "added: referrer") || !strings.Contains(out, "demoted: name") || strings.Contains(out, "projection") {
		t.Fatalf("diff output: %s", out)
	}

	if _, err := execute(t, "diff", "--file", lib, "--base", "account"); err == nil {
		t.Fatalf("expected error without --derived")
	}
}

func TestVersionCmd(t *testing.T) {
	out, err := execute(t, "version")
	if err != nil {
		t.Fatalf("version: %v", err)
	}
	if out != "profilectl version dev\n" {
		t.Fatalf("version output: %q", out)
	}
}
