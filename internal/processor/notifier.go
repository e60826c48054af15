package processor

import (
	"fmt"
	"io"
	"log/slog"
	"sync"

	"codeberg.org/snonux/youdaocard/internal/enrich"
)

// consoleNotifier prints one line per enrichment and per missing field.
type consoleNotifier struct {
	mu  sync.Mutex
	out io.Writer
	log *slog.Logger
}

func (n *consoleNotifier) FieldNotFound(word, field string) {
	n.log.Warn("field not found on note", "word", word, "field", field)

	n.mu.Lock()
	defer n.mu.Unlock()
	fmt.Fprintf(n.out, "  ! %s: field %q not found on note\n", word, field)
}

func (n *consoleNotifier) Summary(status enrich.Status) {
	mark := "✓"
	if !status.OK() {
		mark = "✗"
	}

	n.mu.Lock()
	defer n.mu.Unlock()
	fmt.Fprintf(n.out, "  %s %s\n", mark, status.Message())
}
