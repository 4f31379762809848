package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ludo-technologies/dddscan/internal/constants"
	"github.com/ludo-technologies/dddscan/internal/testutil"
)

func TestCheckCmd_FlagsExist(t *testing.T) {
	cmd := checkCmd()

	expectedFlags := []string{"config", "format", "json", "verbose", "no-cache", "metrics-file", "output"}
	for _, flagName := range expectedFlags {
		if cmd.Flags().Lookup(flagName) == nil {
			t.Errorf("Missing expected flag: --%s", flagName)
		}
	}
}

func TestCheckCmd_ShortFlags(t *testing.T) {
	cmd := checkCmd()

	shortFlags := map[string]string{
		"c": "config",
		"f": "format",
		"v": "verbose",
		"o": "output",
	}

	for short, long := range shortFlags {
		flag := cmd.Flags().ShorthandLookup(short)
		if flag == nil {
			t.Errorf("Missing short flag -%s for --%s", short, long)
			continue
		}
		if flag.Name != long {
			t.Errorf("-%s should map to --%s, got --%s", short, long, flag.Name)
		}
	}
}

func TestCheckCmd_NoPathsError(t *testing.T) {
	cmd := checkCmd()
	cmd.SetArgs([]string{})

	err := cmd.Execute()
	var exitErr *CheckExitError
	if !errors.As(err, &exitErr) {
		t.Fatalf("Expected CheckExitError, got %v", err)
	}
	if exitErr.Code != constants.ExitError {
		t.Errorf("Expected exit code %d, got %d", constants.ExitError, exitErr.Code)
	}
}

func TestGraphCmd_DefaultValues(t *testing.T) {
	cmd := graphCmd()

	defaults := map[string]string{
		"format":         "dot",
		"rank-dir":       "LR",
		"no-legend":      "false",
		"no-clusters":    "false",
		"forbidden-only": "false",
	}
	for name, want := range defaults {
		flag := cmd.Flags().Lookup(name)
		if flag == nil {
			t.Errorf("Missing expected flag: --%s", name)
			continue
		}
		if flag.DefValue != want {
			t.Errorf("Expected default %s to be '%s', got '%s'", name, want, flag.DefValue)
		}
	}
	if cmd.Flags().Lookup("edges") == nil {
		t.Error("Missing expected flag: --edges")
	}
}

func TestReportCmd_DefaultFormat(t *testing.T) {
	cmd := reportCmd()
	if got := cmd.Flags().Lookup("format").DefValue; got != "text" {
		t.Errorf("Expected default format to be 'text', got '%s'", got)
	}
}

func TestWatchCmd_Flags(t *testing.T) {
	cmd := watchCmd()
	flag := cmd.Flags().Lookup("debounce")
	if flag == nil {
		t.Fatal("debounce flag not found")
	}
	if flag.DefValue != defaultWatchDebounce.String() {
		t.Errorf("Expected default debounce %s, got %s", defaultWatchDebounce, flag.DefValue)
	}
}

func TestVersionCmd_JSON(t *testing.T) {
	cmd := versionCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"--json"})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("version failed: %v", err)
	}
	var info map[string]string
	if err := json.Unmarshal(out.Bytes(), &info); err != nil {
		t.Fatalf("Expected JSON, got %q: %v", out.String(), err)
	}
	if info["version"] == "" || info["go_version"] == "" {
		t.Errorf("Missing build fields in %v", info)
	}
}

func TestCheckExitError_Error(t *testing.T) {
	err := &CheckExitError{Code: 1, Message: "test error"}
	if err.Error() != "test error" {
		t.Errorf("Error() should return message, got '%s'", err.Error())
	}
}

func TestRootCmd_Subcommands(t *testing.T) {
	root := newRootCmd()
	for _, name := range []string{"check", "report", "graph", "watch", "init", "version"} {
		if cmd, _, err := root.Find([]string{name}); err != nil || cmd.Name() != name {
			t.Errorf("Missing subcommand %s", name)
		}
	}
}

func TestVersionCmd(t *testing.T) {
	cmd := versionCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("version failed: %v", err)
	}
	if !strings.HasPrefix(out.String(), "dddscan version ") {
		t.Errorf("Unexpected version output %q", out.String())
	}
}

// project writes the sample PHP project and returns its src folder
func project(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	testutil.WriteFiles(t, root, files)
	return filepath.Join(root, "src")
}

func TestCheckCmd_ViolationsExitCode(t *testing.T) {
	src := project(t, testutil.DomainProject())

	cmd := checkCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"--no-cache", src})

	err := cmd.Execute()
	var exitErr *CheckExitError
	if !errors.As(err, &exitErr) {
		t.Fatalf("Expected CheckExitError, got %v", err)
	}
	if exitErr.Code != constants.ExitViolations {
		t.Errorf("Expected exit code %d, got %d", constants.ExitViolations, exitErr.Code)
	}
	if exitErr.Message != "" {
		t.Errorf("Violations should not carry a message, got %q", exitErr.Message)
	}
	if !strings.Contains(out.String(), "violation") {
		t.Errorf("Expected the violations in the output, got:\n%s", out.String())
	}
}

func TestCheckCmd_JSONOutputFile(t *testing.T) {
	src := project(t, testutil.DomainProject())
	outPath := filepath.Join(t.TempDir(), "result.json")

	cmd := checkCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"--no-cache", "--json", "-o", outPath, src})
	_ = cmd.Execute()

	data, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatalf("Output file not written: %v", err)
	}
	var result map[string]interface{}
	if err := json.Unmarshal(data, &result); err != nil {
		t.Fatalf("Output should be JSON: %v\n%s", err, data)
	}
	if result["passed"] != false {
		t.Errorf("Expected passed=false, got %v", result["passed"])
	}
}

func TestCheckCmd_CleanProject(t *testing.T) {
	files := testutil.DomainProject()
	delete(files, "src/Infrastructure/Clock.php")
	files["src/Domain/Money.php"] = `<?php
namespace App\Domain;

use PHPMolecules\DDD\Attribute\ValueObject;

#[ValueObject]
final class Money
{
}
`
	src := project(t, files)
	metricsPath := filepath.Join(t.TempDir(), "dddscan.prom")

	cmd := checkCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"--no-cache", "--metrics-file", metricsPath, src})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("Clean project should pass, got %v", err)
	}
	metrics, err := os.ReadFile(metricsPath)
	if err != nil {
		t.Fatalf("Metrics file not written: %v", err)
	}
	if !strings.Contains(string(metrics), "dddscan_") {
		t.Errorf("Unexpected metrics content:\n%s", metrics)
	}
}

func TestCheckCmd_BadConfig(t *testing.T) {
	src := project(t, testutil.DomainProject())
	configPath := filepath.Join(t.TempDir(), ".dddscan.yaml")
	if err := os.WriteFile(configPath, []byte("analysis: [unclosed\n"), 0644); err != nil {
		t.Fatal(err)
	}

	cmd := checkCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"--no-cache", "--config", configPath, src})

	err := cmd.Execute()
	var exitErr *CheckExitError
	if !errors.As(err, &exitErr) {
		t.Fatalf("Expected CheckExitError, got %v", err)
	}
	if exitErr.Code != constants.ExitError {
		t.Errorf("Expected exit code %d, got %d", constants.ExitError, exitErr.Code)
	}
}

func TestReportCmd_Text(t *testing.T) {
	src := project(t, testutil.DomainProject())

	cmd := reportCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"--no-cache", src})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("report failed: %v", err)
	}
	if !strings.Contains(out.String(), "AggregateRoot") {
		t.Errorf("Expected role tags in the report, got:\n%s", out.String())
	}
}

func TestGraphCmd_DOT(t *testing.T) {
	src := project(t, testutil.DomainProject())

	cmd := graphCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"--no-cache", "--edges", "consumes,produces", "--no-legend", src})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("graph failed: %v", err)
	}
	dot := out.String()
	if !strings.Contains(dot, "digraph architecture {") {
		t.Errorf("Expected DOT output, got:\n%s", dot)
	}
	if strings.Contains(dot, `label="throws"`) {
		t.Error("throws edges should be filtered out by --edges")
	}
}

func TestGraphCmd_BadEdge(t *testing.T) {
	src := project(t, testutil.DomainProject())

	cmd := graphCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"--no-cache", "--edges", "calls", src})

	var exitErr *CheckExitError
	if err := cmd.Execute(); !errors.As(err, &exitErr) || exitErr.Code != constants.ExitError {
		t.Errorf("Expected exit code %d for an unknown edge, got %v", constants.ExitError, err)
	}
}
