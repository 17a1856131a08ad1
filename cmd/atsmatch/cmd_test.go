package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/amishk599/atsmatch/internal/model"
)

func TestSummary(t *testing.T) {
	tests := []struct {
		text string
		n    int
		want string
	}{
		{"\n\n  Resume analysis  \nMatch Percentage: 40%", 60, "Resume analysis"},
		{"abcdefgh", 5, "abcd…"},
		{"", 5, ""},
	}
	for _, tt := range tests {
		if got := summary(tt.text, tt.n); got != tt.want {
			t.Errorf("summary(%q, %d) = %q, want %q", tt.text, tt.n, got, tt.want)
		}
	}
}

func TestJobDescription(t *testing.T) {
	got, err := jobDescription("", "inline")
	if err != nil || got != "inline" {
		t.Errorf("jobDescription inline = (%q, %v)", got, err)
	}

	path := filepath.Join(t.TempDir(), "jd.txt")
	if err := os.WriteFile(path, []byte("from file"), 0644); err != nil {
		t.Fatal(err)
	}
	got, err = jobDescription(path, "ignored")
	if err != nil || got != "from file" {
		t.Errorf("jobDescription file = (%q, %v)", got, err)
	}
}

func TestReadResume_RejectsUnsupportedBeforeOpening(t *testing.T) {
	// The file does not exist; the extension check must fail first.
	_, err := readResume(filepath.Join(t.TempDir(), "resume.txt"), discardLogger())
	if !errors.Is(err, model.ErrUnsupportedFormat) {
		t.Fatalf("err = %v, want ErrUnsupportedFormat", err)
	}
}

func TestPrintVersion(t *testing.T) {
	var buf bytes.Buffer
	printVersion(&buf)

	got := buf.String()
	if !strings.HasPrefix(got, "atsmatch dev (") || !strings.Contains(got, runtime.GOOS+"/"+runtime.GOARCH) {
		t.Errorf("version output = %q", got)
	}
}
