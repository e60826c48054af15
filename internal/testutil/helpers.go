package testutil

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"codeberg.org/snonux/youdaocard/internal/logger"
)

// NewTestLogger returns a logger that discards everything.
func NewTestLogger() *slog.Logger {
	return logger.Discard()
}

// CreateTestFile creates a test file with content
func CreateTestFile(t *testing.T, path string, content []byte) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("Failed to create directory for test file: %v", err)
	}

	if err := os.WriteFile(path, content, 0644); err != nil {
		t.Fatalf("Failed to create test file %s: %v", path, err)
	}
}

// AssertFileExists checks if a file exists
func AssertFileExists(t *testing.T, path string) {
	t.Helper()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("Expected file to exist: %s", path)
	}
}

// AssertFileNotExists checks if a file does not exist
func AssertFileNotExists(t *testing.T, path string) {
	t.Helper()

	if _, err := os.Stat(path); err == nil {
		t.Errorf("Expected file to not exist: %s", path)
	}
}

// AssertFileContains checks if a file contains a substring
func AssertFileContains(t *testing.T, path string, substring string) {
	t.Helper()

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}

	if !strings.Contains(string(content), substring) {
		t.Errorf("File %s does not contain expected substring: %q", path, substring)
	}
}

// ResultPage builds a minimal dictionary result page. Empty arguments leave
// the corresponding block out.
func ResultPage(ukIPA, usIPA, pos, trans, exampleEN, exampleZH string) string {
	var b strings.Builder
	b.WriteString("<html><body>")

	if ukIPA != "" || usIPA != "" {
		b.WriteString(`<div class="phone_con">`)
		if ukIPA != "" {
			b.WriteString(`<div class="per-phone"><span>英</span><span>` + ukIPA + `</span></div>`)
		}
		if usIPA != "" {
			b.WriteString(`<div class="per-phone"><span>美</span><span>` + usIPA + `</span></div>`)
		}
		b.WriteString(`</div>`)
	}

	if trans != "" {
		b.WriteString(`<div class="trans-container"><ul class="basic"><li class="word-exp">`)
		if pos != "" {
			b.WriteString(`<span class="pos">` + pos + `</span>`)
		}
		b.WriteString(`<span class="trans">` + trans + `</span></li></ul></div>`)
	}

	if exampleEN != "" || exampleZH != "" {
		b.WriteString(`<div class="blng_sents_part dict-module"><div class="trans-container"><ul><li class="mcols-layout"><div class="col2">`)
		b.WriteString(`<div class="word-exp"><div class="sen-eng">` + exampleEN + `</div></div>`)
		b.WriteString(`<div class="word-exp"><div class="sen-ch">` + exampleZH + `</div></div>`)
		b.WriteString(`</div></li></ul></div></div>`)
	}

	b.WriteString("</body></html>")
	return b.String()
}
