package cli

import (
	"bytes"
	"strings"
	"testing"
)

func TestNewFormatter(t *testing.T) {
	data := map[string]int{"total": 5}

	jf, err := NewFormatter(FormatJSON)
	if err != nil {
		t.Fatalf("NewFormatter(json) error = %v", err)
	}
	var buf bytes.Buffer
	if err := jf.FormatTo(&buf, data); err != nil {
		t.Fatalf("FormatTo() error = %v", err)
	}
	if !strings.Contains(buf.String(), `"total": 5`) {
		t.Errorf("unexpected JSON output %q", buf.String())
	}

	tf, err := NewFormatter(FormatText)
	if err != nil {
		t.Fatalf("NewFormatter(text) error = %v", err)
	}
	buf.Reset()
	if err := tf.FormatTo(&buf, "hello"); err != nil {
		t.Fatalf("FormatTo() error = %v", err)
	}
	if buf.String() != "hello\n" {
		t.Errorf("unexpected text output %q", buf.String())
	}

	if _, err := NewFormatter("yaml"); err == nil {
		t.Error("expected error for unknown format")
	}
}
