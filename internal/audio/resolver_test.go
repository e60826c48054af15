package audio

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codeberg.org/snonux/youdaocard/internal/fetch"
	"codeberg.org/snonux/youdaocard/internal/media"
	"codeberg.org/snonux/youdaocard/internal/testutil"
)

const voiceURL = "https://voice.test/dictvoice"

func TestResolver_VoiceURL(t *testing.T) {
	r := NewResolverWithURL(voiceURL, nil, testutil.NewTestLogger())
	assert.Equal(t, voiceURL+"?audio=run&type=2", r.VoiceURL("run"))
	assert.Equal(t, voiceURL+"?audio=ice+cream&type=2", r.VoiceURL("ice cream"))
}

func TestResolver_Remote(t *testing.T) {
	getter := &testutil.MockGetter{}
	r := NewResolverWithURL(voiceURL, media.NewDownloader(getter, testutil.NewMemoryStore()), testutil.NewTestLogger())

	ref, err := r.Resolve(context.Background(), "run", false)
	require.NoError(t, err)
	assert.Equal(t, "[sound:"+voiceURL+"?audio=run&type=2]", ref.Markup())
	assert.False(t, ref.Local)
	assert.Empty(t, getter.Calls())
}

func TestResolver_Local(t *testing.T) {
	tests := []struct {
		name    string
		getter  *testutil.MockGetter
		wantRef *media.Reference
	}{
		{
			name:    "stored",
			getter:  &testutil.MockGetter{Responses: map[string][]byte{voiceURL: testutil.AudioData()}},
			wantRef: media.Local(media.KindAudio, "run.mp3"),
		},
		{
			name:   "empty body",
			getter: &testutil.MockGetter{Responses: map[string][]byte{voiceURL: {}}},
		},
		{
			name:   "not found",
			getter: &testutil.MockGetter{},
		},
		{
			name:   "transport error",
			getter: &testutil.MockGetter{Errors: map[string]error{voiceURL: errors.New("reset by peer")}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := testutil.NewMemoryStore()
			r := NewResolverWithURL(voiceURL, media.NewDownloader(tt.getter, store), testutil.NewTestLogger())

			ref, err := r.Resolve(context.Background(), "run", true)
			assert.Len(t, tt.getter.Calls(), 1)

			if tt.wantRef == nil {
				assert.Nil(t, ref)
				assert.ErrorIs(t, err, media.ErrDownloadFailed)
				assert.Empty(t, store.Names())
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantRef, ref)
			assert.Equal(t, []string{"run.mp3"}, store.Names())
		})
	}
}

func TestResolver_Timeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
		_, _ = w.Write(testutil.AudioData())
	}))
	defer server.Close()

	client := fetch.New(fetch.Options{Timeout: 50 * time.Millisecond, Logger: testutil.NewTestLogger()})
	store := testutil.NewMemoryStore()
	r := NewResolverWithURL(server.URL, media.NewDownloader(client, store), testutil.NewTestLogger())

	ref, err := r.Resolve(context.Background(), "run", true)
	assert.Nil(t, ref)
	assert.ErrorIs(t, err, media.ErrDownloadFailed)
	assert.Empty(t, store.Names())
}
