// Package processor drives enrichment from the command line. It builds
// notes from a single word, a batch file or an Anki CSV export, enriches
// them concurrently, prints progress and writes Anki import files.
package processor
