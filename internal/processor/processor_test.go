package processor

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"codeberg.org/snonux/youdaocard/internal/anki"
	"codeberg.org/snonux/youdaocard/internal/cli"
	"codeberg.org/snonux/youdaocard/internal/enrich"
	"codeberg.org/snonux/youdaocard/internal/fetch"
	"codeberg.org/snonux/youdaocard/internal/testutil"
)

// newYoudaoServer serves the three Youdao endpoints. "broken" fails the
// dictionary lookup and "nopic" has no picture.
func newYoudaoServer(t *testing.T) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	var server *httptest.Server

	mux.HandleFunc("/result", func(w http.ResponseWriter, r *http.Request) {
		word := r.URL.Query().Get("word")
		if word == "broken" {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		_, _ = w.Write([]byte(testutil.ResultPage("/"+word+"/", "/"+word+"/", "n.", word+"的释义", "A "+word+".", "一个例句。")))
	})
	mux.HandleFunc("/search", func(w http.ResponseWriter, r *http.Request) {
		word := r.URL.Query().Get("q")
		if word == "nopic" {
			_, _ = w.Write([]byte(`{"code":101,"msg":"picture dict no data"}`))
			return
		}
		_, _ = w.Write([]byte(`{"code":0,"data":{"pic":[{"image":"` + server.URL + `/pic/` + word + `.png"}]}}`))
	})
	mux.HandleFunc("/pic/", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write(testutil.ImageData())
	})
	mux.HandleFunc("/dictvoice", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write(testutil.AudioData())
	})

	server = httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

type harness struct {
	flags    *cli.Flags
	settings *cli.Settings
	out      *bytes.Buffer
	proc     *Processor
}

func newHarness(t *testing.T, configure func(*cli.Flags, *cli.Settings)) *harness {
	t.Helper()
	server := newYoudaoServer(t)
	outputDir := t.TempDir()

	flags := cli.NewFlags()
	settings := &cli.Settings{
		OutputDir: outputDir,
		MediaDir:  filepath.Join(outputDir, "collection.media"),
		DeckName:  "Test Deck",
		Workers:   3,
		Enrich:    enrich.DefaultConfig(),
		Network:   fetch.Options{Timeout: 2 * time.Second},
	}
	if configure != nil {
		configure(flags, settings)
	}

	out := &bytes.Buffer{}
	proc, err := NewProcessor(flags, settings,
		WithOutput(out),
		WithLogger(testutil.NewTestLogger()),
		WithEndpoints(Endpoints{
			Dictionary: server.URL + "/result",
			Picture:    server.URL + "/search",
			Voice:      server.URL + "/dictvoice",
		}),
	)
	require.NoError(t, err)

	return &harness{flags: flags, settings: settings, out: out, proc: proc}
}

func TestProcessSingleWord(t *testing.T) {
	h := newHarness(t, nil)

	require.NoError(t, h.proc.ProcessSingleWord(context.Background(), "apple"))

	output := h.out.String()
	assert.Contains(t, output, "Processing: apple")
	assert.Contains(t, output, "✓ apple: done")
	assert.Contains(t, output, "UK: /apple/    US: /apple/")
	assert.Contains(t, output, "[sound:apple.mp3]")
	assert.Contains(t, output, "<img src='apple.jpg'>")

	testutil.AssertFileExists(t, filepath.Join(h.settings.MediaDir, "apple.mp3"))
	testutil.AssertFileExists(t, filepath.Join(h.settings.MediaDir, "apple.jpg"))
}

func TestProcessSingleWord_LookupFailure(t *testing.T) {
	h := newHarness(t, nil)

	err := h.proc.ProcessSingleWord(context.Background(), "broken")
	assert.ErrorIs(t, err, enrich.ErrLookupFailed)
	assert.Contains(t, h.out.String(), "✗ broken: dictionary lookup failed")
	testutil.AssertFileNotExists(t, filepath.Join(h.settings.MediaDir, "broken.mp3"))
}

func TestProcessSingleWord_InvalidWord(t *testing.T) {
	h := newHarness(t, nil)

	err := h.proc.ProcessSingleWord(context.Background(), "?!")
	assert.ErrorIs(t, err, enrich.ErrInvalidWord)
}

func TestProcessSingleWord_RemoteAssets(t *testing.T) {
	h := newHarness(t, func(_ *cli.Flags, s *cli.Settings) {
		s.Enrich.Policy = enrich.Policy{}
	})

	require.NoError(t, h.proc.ProcessSingleWord(context.Background(), "apple"))

	assert.Contains(t, h.out.String(), "/dictvoice?audio=apple&type=2]")
	assert.Contains(t, h.out.String(), "/pic/apple.png'>")
	testutil.AssertFileNotExists(t, filepath.Join(h.settings.MediaDir, "apple.mp3"))
}

func TestProcessBatch(t *testing.T) {
	batchFile := filepath.Join(t.TempDir(), "words.txt")
	testutil.CreateTestFile(t, batchFile, []byte("apple\nbroken\nnopic = 无图\n# comment\ncat\n"))

	h := newHarness(t, func(f *cli.Flags, s *cli.Settings) {
		f.BatchFile = batchFile
		s.Enrich.Parallel = true
	})

	require.NoError(t, h.proc.ProcessBatch(context.Background()))

	results := h.proc.Results()
	require.Len(t, results, 4)
	assert.Equal(t, "apple", results[0].Status.Word)
	assert.False(t, results[1].Status.OK())
	assert.True(t, results[2].Status.OK())
	assert.Equal(t, "cat", results[3].Status.Word)

	trans, _ := results[2].Note.Get("BasicTrans")
	assert.Equal(t, "n. nopic的释义", trans)
	img, _ := results[2].Note.Get("Image")
	assert.Empty(t, img)

	// A failed lookup keeps the pre-filled note untouched.
	word, _ := results[1].Note.Get("Word")
	assert.Equal(t, "broken", word)

	output := h.out.String()
	assert.Contains(t, output, "Total notes: 4")
	assert.Contains(t, output, "Enriched: 3")
	assert.Contains(t, output, "Failed: 1")
}

func TestProcessBatch_MissingFile(t *testing.T) {
	h := newHarness(t, func(f *cli.Flags, _ *cli.Settings) {
		f.BatchFile = filepath.Join(t.TempDir(), "missing.txt")
	})

	assert.Error(t, h.proc.ProcessBatch(context.Background()))
}

func TestProcessCSV(t *testing.T) {
	csvFile := filepath.Join(t.TempDir(), "notes.csv")
	testutil.CreateTestFile(t, csvFile, []byte("Word,BasicTrans,Audio,Tags\napple,old,[sound:old.mp3],fruit\n"))

	h := newHarness(t, func(f *cli.Flags, _ *cli.Settings) {
		f.ImportCSV = csvFile
	})

	require.NoError(t, h.proc.ProcessCSV(context.Background()))

	header, notes, err := anki.ReadCSVFile(csvFile)
	require.NoError(t, err)
	assert.Equal(t, []string{"Word", "BasicTrans", "Audio", "Tags"}, header)
	require.Len(t, notes, 1)
	assert.Equal(t, []string{"apple", "n. apple的释义", "[sound:apple.mp3]", "fruit"}, notes[0].Values())

	// The note type lacks IPA, Example, ExampleTrans and Image.
	output := h.out.String()
	for _, field := range []string{"IPA", "Example", "ExampleTrans", "Image"} {
		assert.Contains(t, output, `apple: field "`+field+`" not found on note`)
	}
	assert.Contains(t, output, "With missing fields: 1")
}

func TestProcessCSV_RowTooWideLeavesFile(t *testing.T) {
	csvFile := filepath.Join(t.TempDir(), "notes.csv")
	original := "Word,IPA\napple,x,extra-note\n"
	testutil.CreateTestFile(t, csvFile, []byte(original))

	h := newHarness(t, func(f *cli.Flags, _ *cli.Settings) {
		f.ImportCSV = csvFile
	})

	err := h.proc.ProcessCSV(context.Background())
	assert.ErrorIs(t, err, anki.ErrRowTooWide)

	data, readErr := os.ReadFile(csvFile)
	require.NoError(t, readErr)
	assert.Equal(t, original, string(data))
	assert.Empty(t, h.proc.Results())
}

func TestProcessCSV_MissingWordColumn(t *testing.T) {
	csvFile := filepath.Join(t.TempDir(), "notes.csv")
	testutil.CreateTestFile(t, csvFile, []byte("Front,Back\napple,\n"))

	h := newHarness(t, func(f *cli.Flags, _ *cli.Settings) {
		f.ImportCSV = csvFile
	})

	require.NoError(t, h.proc.ProcessCSV(context.Background()))

	results := h.proc.Results()
	require.Len(t, results, 1)
	assert.ErrorIs(t, results[0].Status.Err, enrich.ErrMissingWordField)
	testutil.AssertFileContains(t, csvFile, "apple,")
}

func TestGenerateAnkiFile(t *testing.T) {
	for _, csv := range []bool{false, true} {
		name := map[bool]string{false: "apkg", true: "csv"}[csv]
		t.Run(name, func(t *testing.T) {
			h := newHarness(t, func(f *cli.Flags, _ *cli.Settings) {
				f.AnkiCSV = csv
			})
			ctx := context.Background()
			require.NoError(t, h.proc.ProcessSingleWord(ctx, "apple"))
			require.Error(t, h.proc.ProcessSingleWord(ctx, "broken"))

			path, err := h.proc.GenerateAnkiFile()
			require.NoError(t, err)
			testutil.AssertFileExists(t, path)
			assert.Equal(t, h.settings.OutputDir, filepath.Dir(path))
			assert.Contains(t, h.out.String(), "Generated 1 notes (1 with audio, 1 with images)")

			if csv {
				assert.Equal(t, "anki_import.csv", filepath.Base(path))
				testutil.AssertFileContains(t, path, "[sound:apple.mp3]")
			} else {
				assert.Equal(t, "Test_Deck.apkg", filepath.Base(path))
			}
		})
	}
}

func TestDump(t *testing.T) {
	h := newHarness(t, nil)
	ctx := context.Background()
	require.NoError(t, h.proc.ProcessSingleWord(ctx, "apple"))
	require.Error(t, h.proc.ProcessSingleWord(ctx, "broken"))

	var buf bytes.Buffer
	require.NoError(t, h.proc.Dump(&buf))

	var entries []dumpEntry
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &entries))
	require.Len(t, entries, 2)

	assert.Equal(t, "apple", entries[0].Word)
	assert.True(t, entries[0].OK)
	assert.Equal(t, "[sound:apple.mp3]", entries[0].Fields["audio"])
	assert.Equal(t, "UK: /apple/    US: /apple/", entries[0].Fields["ipa"])

	assert.False(t, entries[1].OK)
	assert.True(t, strings.Contains(entries[1].Error, "lookup failed"))
	assert.Empty(t, entries[1].Fields)
}

func TestNewProcessor_MediaDirError(t *testing.T) {
	file := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(file, nil, 0644))

	_, err := NewProcessor(cli.NewFlags(), &cli.Settings{
		MediaDir: filepath.Join(file, "media"),
		Workers:  1,
		Enrich:   enrich.DefaultConfig(),
	}, WithOutput(&bytes.Buffer{}), WithLogger(testutil.NewTestLogger()))
	assert.Error(t, err)
}
