package media

import "fmt"

// Kind tells how a reference is embedded into a note field.
type Kind int

const (
	KindImage Kind = iota
	KindAudio
)

func (k Kind) String() string {
	switch k {
	case KindImage:
		return "image"
	case KindAudio:
		return "audio"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Reference points at an asset that is either stored locally under a
// filename or hosted remotely at a URL.
type Reference struct {
	Kind   Kind
	Target string // filename when Local, URL otherwise
	Local  bool
}

// Local creates a reference to a stored asset.
func Local(kind Kind, filename string) *Reference {
	return &Reference{Kind: kind, Target: filename, Local: true}
}

// Remote creates a reference to a remotely hosted asset.
func Remote(kind Kind, url string) *Reference {
	return &Reference{Kind: kind, Target: url}
}

// Markup renders the reference the way Anki embeds media in a field.
func (r *Reference) Markup() string {
	if r.Kind == KindAudio {
		return fmt.Sprintf("[sound:%s]", r.Target)
	}
	return fmt.Sprintf("<img src='%s'>", r.Target)
}
