// Package enrich fills a flashcard note from the Youdao dictionary.
//
// An Enricher reads the word field of a note, normalizes it into a lookup
// key, extracts IPA, translations and an example sentence from the
// dictionary page, and resolves pronunciation audio and a picture. The
// dictionary lookup is mandatory: when it fails nothing on the note is
// changed. Audio and picture are optional and degrade quietly. A missing
// audio leaves the audio field alone while a missing picture clears the
// image field.
package enrich
