// Package note models the flashcard note being enriched: a record of named
// text fields and the configuration that maps logical roles (word, IPA,
// translation and so on) onto those field names.
package note
