package dictionary

import "strings"

// ipaSeparator sits between the UK and US parts of the IPA display string.
const ipaSeparator = "    "

// Translation is one basic meaning of a word.
type Translation struct {
	PartOfSpeech string // e.g. "n.", may be empty
	Meaning      string
}

// Entry holds everything extracted from a dictionary page. Any field may be
// empty; an empty field is not an error.
type Entry struct {
	UKIPA              string
	USIPA              string
	Translations       []Translation
	ExampleSource      string
	ExampleTranslation string
}

// IPADisplay renders "UK: <a>    US: <b>", leaving out missing regions.
func (e *Entry) IPADisplay() string {
	parts := make([]string, 0, 2)
	if e.UKIPA != "" {
		parts = append(parts, "UK: "+e.UKIPA)
	}
	if e.USIPA != "" {
		parts = append(parts, "US: "+e.USIPA)
	}
	return strings.Join(parts, ipaSeparator)
}

// TranslationText renders one "<pos> <meaning>" line per translation in
// document order.
func (e *Entry) TranslationText() string {
	lines := make([]string, 0, len(e.Translations))
	for _, t := range e.Translations {
		lines = append(lines, strings.TrimSpace(t.PartOfSpeech+" "+t.Meaning))
	}
	return strings.Join(lines, "\n")
}
