package enrich

import "codeberg.org/snonux/youdaocard/internal/note"

// Policy chooses per asset type between downloading into the media store
// and referencing the remote URL.
type Policy struct {
	AudioLocal bool
	ImageLocal bool
}

// DefaultPolicy stores both assets locally.
func DefaultPolicy() Policy {
	return Policy{AudioLocal: true, ImageLocal: true}
}

// Config is passed to an Enricher once and never changes afterwards.
type Config struct {
	Fields note.FieldConfig
	Policy Policy

	// Parallel resolves audio and image concurrently once the dictionary
	// lookup has succeeded. Field writes keep their order.
	Parallel bool
}

// DefaultConfig returns the stock field names and local assets.
func DefaultConfig() Config {
	return Config{
		Fields: note.DefaultFieldConfig(),
		Policy: DefaultPolicy(),
	}
}
