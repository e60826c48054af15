package anki

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"codeberg.org/snonux/youdaocard/internal/note"
	"codeberg.org/snonux/youdaocard/internal/testutil"
)

func enrichedNote(t *testing.T, word, trans, audio, image string) *note.Fields {
	t.Helper()
	n := note.NewFieldsFromConfig(note.DefaultFieldConfig())
	for field, value := range map[string]string{
		"Word":       word,
		"BasicTrans": trans,
		"Audio":      audio,
		"Image":      image,
	} {
		if err := n.Set(field, value); err != nil {
			t.Fatalf("Set(%s) error = %v", field, err)
		}
	}
	return n
}

func TestDefaultGeneratorOptions(t *testing.T) {
	opts := DefaultGeneratorOptions()

	if opts.OutputPath != "anki_import.csv" {
		t.Errorf("Expected output path 'anki_import.csv', got '%s'", opts.OutputPath)
	}
	if opts.MediaFolder != "." {
		t.Errorf("Expected media folder '.', got '%s'", opts.MediaFolder)
	}
	if !opts.IncludeHeaders {
		t.Error("Expected IncludeHeaders to be true")
	}
	if opts.Fields != note.DefaultFieldConfig() {
		t.Errorf("Expected default field names, got %+v", opts.Fields)
	}
}

func TestNewGenerator(t *testing.T) {
	gen := NewGenerator(nil)
	if gen == nil {
		t.Fatal("NewGenerator returned nil")
	}
	if gen.options == nil {
		t.Error("Generator options should not be nil")
	}

	gen = NewGenerator(&GeneratorOptions{OutputPath: "custom.csv"})
	if gen.options.OutputPath != "custom.csv" {
		t.Errorf("Expected custom output path, got '%s'", gen.options.OutputPath)
	}
}

func TestGenerateCSV(t *testing.T) {
	tempDir := t.TempDir()
	opts := DefaultGeneratorOptions()
	opts.OutputPath = filepath.Join(tempDir, "out.csv")

	gen := NewGenerator(opts)
	gen.AddNote(enrichedNote(t, "run", "v. 跑\nn. 跑步", "[sound:run.mp3]", "<img src='run.jpg'>"))
	gen.AddNote(enrichedNote(t, "cat", "n. 猫", "", ""))

	if err := gen.GenerateCSV(); err != nil {
		t.Fatalf("GenerateCSV() error = %v", err)
	}

	header, notes, err := ReadCSVFile(opts.OutputPath)
	if err != nil {
		t.Fatalf("ReadCSVFile() error = %v", err)
	}

	wantHeader := []string{"Word", "IPA", "BasicTrans", "Example", "ExampleTrans", "Audio", "Image"}
	if !reflect.DeepEqual(header, wantHeader) {
		t.Errorf("header = %v, want %v", header, wantHeader)
	}
	if len(notes) != 2 {
		t.Fatalf("Expected 2 notes, got %d", len(notes))
	}
	if v, _ := notes[0].Get("BasicTrans"); v != "v. 跑\nn. 跑步" {
		t.Errorf("multi-line translation not preserved: %q", v)
	}
	if v, _ := notes[0].Get("Image"); v != "<img src='run.jpg'>" {
		t.Errorf("Image = %q", v)
	}

	testutil.AssertFileContains(t, opts.OutputPath, "[sound:run.mp3]")
}

func TestGenerateCSV_NoHeaders(t *testing.T) {
	opts := DefaultGeneratorOptions()
	opts.OutputPath = filepath.Join(t.TempDir(), "out.csv")
	opts.IncludeHeaders = false

	gen := NewGenerator(opts)
	gen.AddNote(enrichedNote(t, "run", "", "", ""))
	if err := gen.GenerateCSV(); err != nil {
		t.Fatalf("GenerateCSV() error = %v", err)
	}

	header, notes, err := ReadCSVFile(opts.OutputPath)
	if err != nil {
		t.Fatalf("ReadCSVFile() error = %v", err)
	}
	if header[0] != "run" || len(notes) != 0 {
		t.Errorf("expected the single data row to be read as header, got %v and %d notes", header, len(notes))
	}
}

func TestWriteCSV_MissingFieldsEmpty(t *testing.T) {
	var buf bytes.Buffer
	n := note.NewFields("Word")
	_ = n.Set("Word", "run")

	if err := WriteCSV(&buf, nil, []string{"Word", "Audio"}, []*note.Fields{n}); err != nil {
		t.Fatalf("WriteCSV() error = %v", err)
	}
	if got := buf.String(); got != "run,\n" {
		t.Errorf("WriteCSV() = %q", got)
	}
}

func TestReadCSV(t *testing.T) {
	input := "Word,Audio,Image\nrun,[sound:old.mp3]\ncat,,,,\n"

	header, notes, err := ReadCSV(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ReadCSV() error = %v", err)
	}
	if !reflect.DeepEqual(header, []string{"Word", "Audio", "Image"}) {
		t.Errorf("header = %v", header)
	}
	if len(notes) != 2 {
		t.Fatalf("Expected 2 notes, got %d", len(notes))
	}
	if got := notes[0].Values(); !reflect.DeepEqual(got, []string{"run", "[sound:old.mp3]", ""}) {
		t.Errorf("short row = %v", got)
	}
	if got := notes[1].Values(); !reflect.DeepEqual(got, []string{"cat", "", ""}) {
		t.Errorf("long row = %v", got)
	}
}

func TestReadCSV_RowTooWide(t *testing.T) {
	input := "Word,IPA\nrun,x\ncat,y,extra-note\n"

	_, notes, err := ReadCSV(strings.NewReader(input))
	if !errors.Is(err, ErrRowTooWide) {
		t.Fatalf("expected ErrRowTooWide, got %v", err)
	}
	if notes != nil {
		t.Errorf("expected no notes, got %d", len(notes))
	}
	if !strings.Contains(err.Error(), "row 3") {
		t.Errorf("error should name the row: %v", err)
	}
}

func TestWriteCSVFile_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "notes.csv")
	input := "Word,IPA,Tags\nrun,\"英 [rʌn]\",\"a, b\"\ncat,,\n"
	testutil.CreateTestFile(t, path, []byte(input))

	header, notes, err := ReadCSVFile(path)
	if err != nil {
		t.Fatalf("ReadCSVFile() error = %v", err)
	}
	if err := WriteCSVFile(path, header, header, notes); err != nil {
		t.Fatalf("WriteCSVFile() error = %v", err)
	}

	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "Word,IPA,Tags\nrun,英 [rʌn],\"a, b\"\ncat,,\n" {
		t.Errorf("round trip = %q", got)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Errorf("expected only notes.csv in %s, found %d entries", dir, len(entries))
	}
}

func TestWriteCSVFile_MissingDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "notes.csv")

	if err := WriteCSVFile(path, nil, []string{"Word"}, nil); err == nil {
		t.Error("expected error for missing directory")
	}
	testutil.AssertFileNotExists(t, path)
}

func TestReadCSV_Empty(t *testing.T) {
	_, _, err := ReadCSV(strings.NewReader(""))
	if !errors.Is(err, ErrNoHeader) {
		t.Errorf("expected ErrNoHeader, got %v", err)
	}
}

func TestStats(t *testing.T) {
	gen := NewGenerator(nil)
	gen.AddNote(enrichedNote(t, "run", "", "[sound:run.mp3]", "<img src='run.jpg'>"))
	gen.AddNote(enrichedNote(t, "cat", "", "[sound:cat.mp3]", ""))
	gen.AddNote(enrichedNote(t, "dog", "", "", ""))

	total, withAudio, withImages := gen.Stats()
	if total != 3 || withAudio != 2 || withImages != 1 {
		t.Errorf("Stats() = %d, %d, %d; want 3, 2, 1", total, withAudio, withImages)
	}
}

func TestMediaFiles(t *testing.T) {
	tests := []struct {
		value string
		want  []string
	}{
		{"", nil},
		{"[sound:run.mp3]", []string{"run.mp3"}},
		{"<img src='run.jpg'>", []string{"run.jpg"}},
		{`<img class="x" src="ice cream.jpg">`, []string{"ice cream.jpg"}},
		{"[sound:https://dict.youdao.com/dictvoice?audio=run&type=2]", nil},
		{"<img src='https://img.test/run.png'>", nil},
		{"[sound:a.mp3] [sound:b.mp3]", []string{"a.mp3", "b.mp3"}},
	}

	for _, tt := range tests {
		if got := MediaFiles(tt.value); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("MediaFiles(%q) = %v, want %v", tt.value, got, tt.want)
		}
	}
}
