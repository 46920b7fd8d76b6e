package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"mercator-hq/tollgate/pkg/cli"
)

func runValidateWith(t *testing.T, yaml, output string) (string, error) {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(yaml), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	origFile, origOutput := cfgFile, validateFlags.output
	defer func() { cfgFile, validateFlags.output = origFile, origOutput }()
	cfgFile = path
	validateFlags.output = output

	var buf bytes.Buffer
	validateCmd.SetOut(&buf)
	defer validateCmd.SetOut(nil)

	err := runValidate(validateCmd, nil)
	return buf.String(), err
}

const validYAML = `
quotas:
  default:
    total: 5
    cost: 1
  search:
    total: 100
routes:
  - method: GET
    path: /quota
    group: default
  - method: POST
    path: /search
    group: search
    cost: 10
`

func TestValidate_Text(t *testing.T) {
	out, err := runValidateWith(t, validYAML, "text")
	if err != nil {
		t.Fatalf("runValidate() error = %v", err)
	}

	for _, want := range []string{"Configuration valid", "default", "search", "/quota", "cost=10"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestValidate_JSON(t *testing.T) {
	out, err := runValidateWith(t, validYAML, "json")
	if err != nil {
		t.Fatalf("runValidate() error = %v", err)
	}

	var summary validateSummary
	if err := json.Unmarshal([]byte(out), &summary); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out)
	}
	if !summary.Valid {
		t.Error("Valid = false, want true")
	}
	if len(summary.Groups) != 2 || summary.Groups[0].Name != "default" || summary.Groups[1].Name != "search" {
		t.Errorf("Groups = %+v, want default and search", summary.Groups)
	}
	if len(summary.Routes) != 2 {
		t.Errorf("len(Routes) = %d, want 2", len(summary.Routes))
	}
}

func TestValidate_InvalidConfig(t *testing.T) {
	_, err := runValidateWith(t, `
quotas:
  default:
    total: -1
`, "text")
	if err == nil {
		t.Fatal("runValidate() error = nil, want config error")
	}

	var cfgErr *cli.ConfigError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("error = %T, want *cli.ConfigError", err)
	}
	if cli.ExitCode(err) != cli.ExitConfig {
		t.Errorf("ExitCode() = %d, want %d", cli.ExitCode(err), cli.ExitConfig)
	}
}

func TestValidate_UnknownOutput(t *testing.T) {
	if _, err := runValidateWith(t, validYAML, "yaml"); err == nil {
		t.Fatal("runValidate() error = nil, want unsupported format error")
	}
}
