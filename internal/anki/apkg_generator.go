package anki

import (
	"archive/zip"
	"crypto/sha1"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"codeberg.org/snonux/youdaocard/internal/note"
)

// fieldSeparator joins field values in the notes table.
const fieldSeparator = "\x1f"

// APKGGenerator creates Anki package files (.apkg)
type APKGGenerator struct {
	deckName     string
	deckID       int64
	modelID      int64
	fields       note.FieldConfig
	mediaDir     string
	notes        []*note.Fields
	mediaFiles   map[string]int // maps media filename to its number in the package
	mediaCounter int
}

// NewAPKGGenerator creates a new APKG generator. Media referenced by the
// notes is looked up in mediaDir.
func NewAPKGGenerator(deckName string, fields note.FieldConfig, mediaDir string) *APKGGenerator {
	// Generate IDs based on timestamp to ensure uniqueness
	now := time.Now().UnixMilli()
	return &APKGGenerator{
		deckName:   deckName,
		deckID:     now,
		modelID:    now + 1,
		fields:     fields,
		mediaDir:   mediaDir,
		notes:      make([]*note.Fields, 0),
		mediaFiles: make(map[string]int),
	}
}

// AddNote adds a note to the generator
func (g *APKGGenerator) AddNote(n *note.Fields) {
	g.notes = append(g.notes, n)
}

// GenerateAPKG creates an .apkg file
func (g *APKGGenerator) GenerateAPKG(outputPath string) error {
	tempDir, err := os.MkdirTemp("", "youdaocard_export_*")
	if err != nil {
		return fmt.Errorf("failed to create temp directory: %w", err)
	}
	defer os.RemoveAll(tempDir)

	// Media first: the mapping must be complete before the manifest is written.
	if err := g.copyMediaFiles(tempDir); err != nil {
		return fmt.Errorf("failed to copy media files: %w", err)
	}

	if err := g.createMediaMapping(tempDir); err != nil {
		return fmt.Errorf("failed to create media mapping: %w", err)
	}

	dbPath := filepath.Join(tempDir, "collection.anki2")
	if err := g.createDatabase(dbPath); err != nil {
		return fmt.Errorf("failed to create database: %w", err)
	}

	if err := g.createZipPackage(tempDir, outputPath); err != nil {
		return fmt.Errorf("failed to create zip package: %w", err)
	}

	return nil
}

// fieldNames returns the note type's fields in card order.
func (g *APKGGenerator) fieldNames() []string {
	names := make([]string, 0, len(note.Roles()))
	for _, role := range note.Roles() {
		names = append(names, g.fields.Name(role))
	}
	return names
}

// createDatabase creates the Anki SQLite database
func (g *APKGGenerator) createDatabase(dbPath string) error {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := g.createTables(db); err != nil {
		return fmt.Errorf("failed to create tables: %w", err)
	}

	if err := g.insertCollection(db); err != nil {
		return fmt.Errorf("failed to insert collection: %w", err)
	}

	if err := g.insertNotesAndCards(db); err != nil {
		return fmt.Errorf("failed to insert notes and cards: %w", err)
	}

	return nil
}

// createTables creates the required Anki database tables
func (g *APKGGenerator) createTables(db *sql.DB) error {
	queries := []string{
		`CREATE TABLE col (
			id integer PRIMARY KEY,
			crt integer NOT NULL,
			mod integer NOT NULL,
			scm integer NOT NULL,
			ver integer NOT NULL,
			dty integer NOT NULL,
			usn integer NOT NULL,
			ls integer NOT NULL,
			conf text NOT NULL,
			models text NOT NULL,
			decks text NOT NULL,
			dconf text NOT NULL,
			tags text NOT NULL
		)`,
		`CREATE TABLE notes (
			id integer PRIMARY KEY,
			guid text NOT NULL,
			mid integer NOT NULL,
			mod integer NOT NULL,
			usn integer NOT NULL,
			tags text NOT NULL,
			flds text NOT NULL,
			sfld text NOT NULL,
			csum integer NOT NULL,
			flags integer NOT NULL,
			data text NOT NULL
		)`,
		`CREATE TABLE cards (
			id integer PRIMARY KEY,
			nid integer NOT NULL,
			did integer NOT NULL,
			ord integer NOT NULL,
			mod integer NOT NULL,
			usn integer NOT NULL,
			type integer NOT NULL,
			queue integer NOT NULL,
			due integer NOT NULL,
			ivl integer NOT NULL,
			factor integer NOT NULL,
			reps integer NOT NULL,
			lapses integer NOT NULL,
			left integer NOT NULL,
			odue integer NOT NULL,
			odid integer NOT NULL,
			flags integer NOT NULL,
			data text NOT NULL
		)`,
		`CREATE TABLE revlog (
			id integer PRIMARY KEY,
			cid integer NOT NULL,
			usn integer NOT NULL,
			ease integer NOT NULL,
			ivl integer NOT NULL,
			lastIvl integer NOT NULL,
			factor integer NOT NULL,
			time integer NOT NULL,
			type integer NOT NULL
		)`,
		`CREATE TABLE graves (
			usn integer NOT NULL,
			oid integer NOT NULL,
			type integer NOT NULL
		)`,
		`CREATE INDEX ix_notes_csum ON notes (csum)`,
		`CREATE INDEX ix_notes_usn ON notes (usn)`,
		`CREATE INDEX ix_cards_usn ON cards (usn)`,
		`CREATE INDEX ix_cards_nid ON cards (nid)`,
		`CREATE INDEX ix_cards_sched ON cards (did, queue, due)`,
		`CREATE INDEX ix_revlog_usn ON revlog (usn)`,
		`CREATE INDEX ix_revlog_cid ON revlog (cid)`,
	}

	for _, query := range queries {
		if _, err := db.Exec(query); err != nil {
			return fmt.Errorf("failed to execute query: %w", err)
		}
	}

	return nil
}

func deckConfig(id int64, name, desc string, now int64) map[string]any {
	return map[string]any{
		"id":               id,
		"name":             name,
		"mod":              now,
		"desc":             desc,
		"collapsed":        false,
		"dyn":              0,
		"conf":             1,
		"usn":              0,
		"newToday":         []int{0, 0},
		"revToday":         []int{0, 0},
		"lrnToday":         []int{0, 0},
		"timeToday":        []int{0, 0},
		"browserCollapsed": false,
		"extendNew":        10,
		"extendRev":        50,
	}
}

// insertCollection inserts the collection metadata
func (g *APKGGenerator) insertCollection(db *sql.DB) error {
	now := time.Now().Unix()

	decks := map[string]any{
		"1": deckConfig(1, "Default", "", now),
		strconv.FormatInt(g.deckID, 10): deckConfig(g.deckID, g.deckName,
			"English vocabulary enriched from the Youdao dictionary", now),
	}
	decksJSON, err := json.Marshal(decks)
	if err != nil {
		return err
	}

	models := map[string]any{
		strconv.FormatInt(g.modelID, 10): g.createNoteTypeConfig(),
	}
	modelsJSON, err := json.Marshal(models)
	if err != nil {
		return err
	}

	conf := map[string]any{
		"nextPos":       1,
		"estTimes":      true,
		"activeDecks":   []int64{1},
		"sortType":      "noteFld",
		"sortBackwards": false,
		"addToCur":      true,
		"curDeck":       1,
		"newSpread":     0,
		"dueCounts":     true,
		"collapseTime":  1200,
		"timeLim":       0,
		"schedVer":      1,
		"curModel":      strconv.FormatInt(g.modelID, 10),
		"dayLearnFirst": false,
	}
	confJSON, err := json.Marshal(conf)
	if err != nil {
		return err
	}

	dconf := map[string]any{
		"1": map[string]any{
			"id":   1,
			"name": "Default",
			"dyn":  0,
			"new": map[string]any{
				"delays":        []int{1, 10},
				"ints":          []int{1, 4, 7},
				"initialFactor": 2500,
				"perDay":        20,
				"order":         1,
				"bury":          true,
				"separate":      true,
			},
			"lapse": map[string]any{
				"delays":      []int{10},
				"mult":        0,
				"minInt":      1,
				"leechFails":  8,
				"leechAction": 0,
			},
			"rev": map[string]any{
				"perDay":   100,
				"ease4":    1.3,
				"fuzz":     0.05,
				"maxIvl":   36500,
				"ivlFct":   1,
				"bury":     true,
				"minSpace": 1,
			},
			"timer":    0,
			"maxTaken": 60,
			"usn":      0,
			"mod":      now,
			"autoplay": true,
			"replayq":  true,
		},
	}
	dconfJSON, err := json.Marshal(dconf)
	if err != nil {
		return err
	}

	query := `INSERT INTO col VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err = db.Exec(query,
		1,        // id
		now,      // crt
		now*1000, // mod
		now*1000, // scm
		11,       // ver (schema version)
		0,        // dty
		0,        // usn
		0,        // ls
		string(confJSON),
		string(modelsJSON),
		string(decksJSON),
		string(dconfJSON),
		"{}", // tags
	)
	return err
}

// createNoteTypeConfig creates the note type configuration
func (g *APKGGenerator) createNoteTypeConfig() map[string]any {
	names := g.fieldNames()
	flds := make([]map[string]any, len(names))
	for i, name := range names {
		flds[i] = map[string]any{
			"name":   name,
			"ord":    i,
			"sticky": false,
			"rtl":    false,
			"font":   "Arial",
			"size":   20,
			"media":  []string{},
		}
	}

	return map[string]any{
		"id":    g.modelID,
		"name":  "Youdao Vocabulary (Recognition + Recall)",
		"type":  0,
		"mod":   time.Now().Unix(),
		"usn":   -1,
		"sortf": 0,
		"did":   g.deckID,
		// Recognition needs the word field, recall needs the translation field.
		"req":  [][]any{{0, "all", []int{0}}, {1, "all", []int{2}}},
		"vers": []int{},
		"tags": []string{},
		"latexPre": `\documentclass[12pt]{article}
\special{papersize=3in,5in}
\usepackage[utf8]{inputenc}
\usepackage{amssymb,amsmath}
\pagestyle{empty}
\setlength{\parindent}{0in}
\begin{document}`,
		"latexPost": `\end{document}`,
		"flds":      flds,
		"tmpls": []map[string]any{
			{
				"name":  "Recognition",
				"ord":   0,
				"qfmt":  g.recognitionFront(),
				"afmt":  g.recognitionBack(),
				"did":   nil,
				"bqfmt": "",
				"bafmt": "",
			},
			{
				"name":  "Recall",
				"ord":   1,
				"qfmt":  g.recallFront(),
				"afmt":  g.recallBack(),
				"did":   nil,
				"bqfmt": "",
				"bafmt": "",
			},
		},
		"css": cardCSS,
	}
}

// section renders a conditional template block for a field.
func section(field, class string) string {
	return fmt.Sprintf("{{#%[1]s}}\n<div class=\"%[2]s\">{{%[1]s}}</div>\n{{/%[1]s}}", field, class)
}

func (g *APKGGenerator) recognitionFront() string {
	f := g.fields
	return strings.Join([]string{
		`<div class="front">`,
		section(f.Word, "word"),
		section(f.IPA, "ipa"),
		section(f.Audio, "audio"),
		`</div>`,
	}, "\n")
}

func (g *APKGGenerator) answer() string {
	f := g.fields
	return strings.Join([]string{
		`<div class="back">`,
		section(f.Translation, "translation"),
		section(f.Image, "image-container"),
		section(f.Example, "example"),
		section(f.ExampleTranslation, "example-translation"),
		`</div>`,
	}, "\n")
}

func (g *APKGGenerator) recognitionBack() string {
	return "{{FrontSide}}\n\n<hr id=\"answer\">\n\n" + g.answer()
}

func (g *APKGGenerator) recallFront() string {
	f := g.fields
	return strings.Join([]string{
		`<div class="front">`,
		section(f.Translation, "translation"),
		section(f.Image, "image-container"),
		`</div>`,
	}, "\n")
}

func (g *APKGGenerator) recallBack() string {
	f := g.fields
	return "{{FrontSide}}\n\n<hr id=\"answer\">\n\n" + strings.Join([]string{
		`<div class="back">`,
		section(f.Word, "word"),
		section(f.IPA, "ipa"),
		section(f.Audio, "audio"),
		section(f.Example, "example"),
		`</div>`,
	}, "\n")
}

const cardCSS = `.card {
  font-family: Arial, sans-serif;
  font-size: 20px;
  text-align: center;
  color: #333;
  background-color: white;
}

.front, .back {
  padding: 20px;
}

.image-container {
  margin: 20px auto;
  max-width: 400px;
}

.image-container img {
  max-width: 100%;
  height: auto;
  border-radius: 8px;
}

.word {
  font-size: 32px;
  font-weight: bold;
  color: #2c3e50;
  margin: 20px 0;
}

.ipa {
  font-size: 18px;
  color: #7f8c8d;
}

.translation {
  font-size: 24px;
  color: #c0392b;
  white-space: pre-line;
  margin: 20px 0;
}

.example, .example-translation {
  font-size: 16px;
  font-style: italic;
  margin-top: 10px;
}

hr#answer {
  margin: 30px 0;
  border: 0;
  border-top: 1px solid #ecf0f1;
}`

// checksum is Anki's duplicate check value: the first 8 hex digits of the
// SHA-1 of the sort field.
func checksum(sortField string) int64 {
	sum := sha1.Sum([]byte(sortField))
	v, _ := strconv.ParseInt(hex.EncodeToString(sum[:4]), 16, 64)
	return v
}

// insertNotesAndCards inserts all notes and cards into the database
func (g *APKGGenerator) insertNotesAndCards(db *sql.DB) error {
	now := time.Now()
	names := g.fieldNames()

	noteQuery := `INSERT INTO notes VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	cardQuery := `INSERT INTO cards VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	for i, n := range g.notes {
		// Leave space for 2 cards per note
		noteID := now.UnixMilli() + int64(i*3)

		values := make([]string, len(names))
		for j, name := range names {
			values[j], _ = n.Get(name)
		}
		word := values[0]

		_, err := db.Exec(noteQuery,
			noteID,                               // id
			uuid.NewString(),                     // guid
			g.modelID,                            // mid
			now.Unix(),                           // mod
			-1,                                   // usn
			"youdao",                             // tags
			strings.Join(values, fieldSeparator), // flds
			word,                                 // sfld (sort field)
			checksum(word),                       // csum
			0,                                    // flags
			"",                                   // data
		)
		if err != nil {
			return fmt.Errorf("failed to insert note: %w", err)
		}

		for ord := 0; ord < 2; ord++ {
			_, err = db.Exec(cardQuery,
				noteID+int64(ord)+1, // id
				noteID,              // nid
				g.deckID,            // did
				ord,                 // ord (template)
				now.Unix(),          // mod
				-1,                  // usn
				0,                   // type (0=new)
				0,                   // queue (0=new)
				noteID+int64(ord),   // due (position for new cards)
				0,                   // ivl
				0,                   // factor
				0,                   // reps
				0,                   // lapses
				0,                   // left
				0,                   // odue
				0,                   // odid
				0,                   // flags
				"",                  // data
			)
			if err != nil {
				return fmt.Errorf("failed to insert card %d: %w", ord, err)
			}
		}
	}

	return nil
}

// copyMediaFiles copies every local file referenced by the audio and image
// fields into tempDir under its package number. References to files that
// do not exist in the media directory are skipped.
func (g *APKGGenerator) copyMediaFiles(tempDir string) error {
	for _, n := range g.notes {
		for _, field := range []string{g.fields.Audio, g.fields.Image} {
			value, _ := n.Get(field)
			for _, filename := range MediaFiles(value) {
				if !isPlainFilename(filename) {
					continue
				}
				if _, exists := g.mediaFiles[filename]; exists {
					continue
				}

				src := filepath.Join(g.mediaDir, filename)
				if !fileExists(src) {
					continue
				}

				targetPath := filepath.Join(tempDir, strconv.Itoa(g.mediaCounter))
				if err := copyFile(src, targetPath); err != nil {
					return fmt.Errorf("failed to copy media file %s: %w", src, err)
				}
				g.mediaFiles[filename] = g.mediaCounter
				g.mediaCounter++
			}
		}
	}

	return nil
}

// createMediaMapping creates the media mapping JSON file
func (g *APKGGenerator) createMediaMapping(tempDir string) error {
	mapping := make(map[string]string, len(g.mediaFiles))
	for filename, num := range g.mediaFiles {
		mapping[strconv.Itoa(num)] = filename
	}

	data, err := json.Marshal(mapping)
	if err != nil {
		return err
	}

	return os.WriteFile(filepath.Join(tempDir, "media"), data, 0644)
}

// createZipPackage creates the final .apkg zip file
func (g *APKGGenerator) createZipPackage(tempDir, outputPath string) error {
	zipFile, err := os.Create(outputPath)
	if err != nil {
		return err
	}
	defer zipFile.Close()

	archive := zip.NewWriter(zipFile)

	err = filepath.WalkDir(tempDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}

		relPath, err := filepath.Rel(tempDir, path)
		if err != nil {
			return err
		}

		writer, err := archive.Create(relPath)
		if err != nil {
			return err
		}

		file, err := os.Open(path)
		if err != nil {
			return err
		}
		defer file.Close()

		_, err = io.Copy(writer, file)
		return err
	})
	if err != nil {
		return err
	}

	return archive.Close()
}

// isPlainFilename reports whether name refers to a file directly inside the
// media directory.
func isPlainFilename(name string) bool {
	if name == "" || name == "." || name == ".." {
		return false
	}
	return name == filepath.Base(name) && !strings.ContainsAny(name, `/\`)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func copyFile(src, dst string) error {
	srcFile, err := os.Open(src)
	if err != nil {
		return err
	}
	defer srcFile.Close()

	dstFile, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer dstFile.Close()

	_, err = io.Copy(dstFile, srcFile)
	return err
}
