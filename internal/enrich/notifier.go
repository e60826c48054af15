package enrich

// Notifier receives the user-visible outcome of an enrichment.
type Notifier interface {
	// FieldNotFound is called once per write to a field the note of word
	// lacks.
	FieldNotFound(word, field string)
	// Summary is called exactly once per enrichment.
	Summary(status Status)
}

// NopNotifier ignores everything.
type NopNotifier struct{}

func (NopNotifier) FieldNotFound(string, string) {}

func (NopNotifier) Summary(Status) {}
