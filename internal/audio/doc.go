// Package audio resolves the Youdao pronunciation recording of a word,
// either as a stored local file or as a remote URL.
package audio
