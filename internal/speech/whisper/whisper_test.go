package whisper

import (
	"context"
	"encoding/binary"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/verte-zerg/tuisay/internal/speech"
)

type fakeSource struct {
	pcm []byte
	err error
}

func (f fakeSource) Available() bool { return true }
func (f fakeSource) SampleRate() int { return 16000 }
func (f fakeSource) Record(context.Context) ([]byte, error) {
	return f.pcm, f.err
}

func TestRecognizePostsWAV(t *testing.T) {
	var gotLang, gotModel string
	var gotSize int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/inference" || r.Method != http.MethodPost {
			http.Error(w, "bad route", http.StatusNotFound)
			return
		}
		file, _, err := r.FormFile("file")
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		data, _ := io.ReadAll(file)
		gotSize = len(data)
		gotLang = r.FormValue("language")
		gotModel = r.FormValue("model")
		_, _ = w.Write([]byte(`{"text":" Hello.\n"}`))
	}))
	defer srv.Close()

	r, err := New(srv.URL+"/", fakeSource{pcm: make([]byte, 320)}, WithModel("base.en"))
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	text, err := r.Recognize(context.Background(), "en-US")
	if err != nil {
		t.Fatalf("recognize: %v", err)
	}
	if text != "Hello." {
		t.Fatalf("expected trimmed text, got %q", text)
	}
	if gotLang != "en" || gotModel != "base.en" {
		t.Fatalf("unexpected form fields: language=%q model=%q", gotLang, gotModel)
	}
	if gotSize != 44+320 {
		t.Fatalf("expected WAV of %d bytes, got %d", 44+320, gotSize)
	}
}

func TestRecognizeServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "model not loaded", http.StatusInternalServerError)
	}))
	defer srv.Close()

	r, err := New(srv.URL, fakeSource{pcm: make([]byte, 2)})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	_, err = r.Recognize(context.Background(), "en-US")
	var recErr *speech.RecognitionError
	if !errors.As(err, &recErr) || recErr.Code != speech.CodeEngine {
		t.Fatalf("expected engine error, got %v", err)
	}
}

func TestRecognizeUsesConfiguredClient(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	client := srv.Client()
	client.Timeout = 50 * time.Millisecond
	r, err := New(srv.URL, fakeSource{pcm: make([]byte, 2)}, WithHTTPClient(client))
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	_, err = r.Recognize(context.Background(), "en-US")
	var recErr *speech.RecognitionError
	if !errors.As(err, &recErr) || recErr.Code != speech.CodeNetwork {
		t.Fatalf("expected network error from client timeout, got %v", err)
	}
}

func TestRecognizeUnreachableServer(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	r, err := New(url, fakeSource{pcm: make([]byte, 2)})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	_, err = r.Recognize(context.Background(), "en-US")
	var recErr *speech.RecognitionError
	if !errors.As(err, &recErr) || recErr.Code != speech.CodeNetwork {
		t.Fatalf("expected network error, got %v", err)
	}
}

func TestRecognizePropagatesSourceError(t *testing.T) {
	r, err := New("http://127.0.0.1:1", fakeSource{err: speech.ErrNoSpeech})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if _, err := r.Recognize(context.Background(), "en-US"); !errors.Is(err, speech.ErrNoSpeech) {
		t.Fatalf("expected ErrNoSpeech, got %v", err)
	}
}

func TestNewValidates(t *testing.T) {
	if _, err := New("", fakeSource{}); err == nil {
		t.Fatalf("expected error for empty URL")
	}
	if _, err := New("http://x", nil); err == nil {
		t.Fatalf("expected error for nil source")
	}
}

func TestEncodeWAVHeader(t *testing.T) {
	wav := encodeWAV(make([]byte, 100), 16000, 1)
	if string(wav[0:4]) != "RIFF" || string(wav[8:12]) != "WAVE" || string(wav[36:40]) != "data" {
		t.Fatalf("unexpected WAV markers")
	}
	if got := binary.LittleEndian.Uint32(wav[24:28]); got != 16000 {
		t.Fatalf("expected sample rate 16000, got %d", got)
	}
	if got := binary.LittleEndian.Uint32(wav[40:44]); got != 100 {
		t.Fatalf("expected data size 100, got %d", got)
	}
}
