// Package media describes resolved image and audio assets and stores
// downloaded asset bytes under a flat filename, the way Anki keeps its
// collection.media folder.
package media
