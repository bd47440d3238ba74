// Package google provides a Google Cloud Speech-to-Text recognizer.
package google

import (
	"context"
	"fmt"
	"strings"

	speech "cloud.google.com/go/speech/apiv1"
	"cloud.google.com/go/speech/apiv1/speechpb"
	"google.golang.org/api/option"

	sp "github.com/verte-zerg/tuisay/internal/speech"
)

var _ sp.Recognizer = (*Recognizer)(nil)

type recognizeFunc func(ctx context.Context, req *speechpb.RecognizeRequest) (*speechpb.RecognizeResponse, error)

// Recognizer implements speech.Recognizer with the synchronous Recognize
// call. One recorded utterance is sent per attempt.
type Recognizer struct {
	client    *speech.Client
	source    sp.AudioSource
	recognize recognizeFunc
}

// New creates a Google recognizer. When credsFile is empty the client uses
// GOOGLE_APPLICATION_CREDENTIALS or the ambient credentials.
func New(ctx context.Context, source sp.AudioSource, credsFile string) (*Recognizer, error) {
	var opts []option.ClientOption
	if credsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credsFile))
	}
	c, err := speech.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create speech client: %w", err)
	}
	return &Recognizer{
		client: c,
		source: source,
		recognize: func(ctx context.Context, req *speechpb.RecognizeRequest) (*speechpb.RecognizeResponse, error) {
			return c.Recognize(ctx, req)
		},
	}, nil
}

// Name implements speech.Recognizer.
func (r *Recognizer) Name() string {
	return "google"
}

// Available implements speech.Recognizer.
func (r *Recognizer) Available() bool {
	return r.source != nil && r.source.Available()
}

// Recognize implements speech.Recognizer.
func (r *Recognizer) Recognize(ctx context.Context, locale string) (string, error) {
	pcm, err := r.source.Record(ctx)
	if err != nil {
		return "", err
	}
	resp, err := r.recognize(ctx, buildRequest(pcm, r.source.SampleRate(), locale))
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", ctxErr
		}
		return "", sp.NewRecognitionError(sp.CodeNetwork, err)
	}
	return transcriptOf(resp)
}

// Close releases the underlying gRPC connection.
func (r *Recognizer) Close() error {
	if r.client == nil {
		return nil
	}
	return r.client.Close()
}

func buildRequest(pcm []byte, sampleRate int, locale string) *speechpb.RecognizeRequest {
	return &speechpb.RecognizeRequest{
		Config: &speechpb.RecognitionConfig{
			Encoding:        speechpb.RecognitionConfig_LINEAR16,
			SampleRateHertz: int32(sampleRate),
			LanguageCode:    locale,
			MaxAlternatives: 1,
		},
		Audio: &speechpb.RecognitionAudio{
			AudioSource: &speechpb.RecognitionAudio_Content{Content: pcm},
		},
	}
}

func transcriptOf(resp *speechpb.RecognizeResponse) (string, error) {
	var parts []string
	for _, res := range resp.GetResults() {
		alts := res.GetAlternatives()
		if len(alts) == 0 {
			continue
		}
		if t := strings.TrimSpace(alts[0].GetTranscript()); t != "" {
			parts = append(parts, t)
		}
	}
	if len(parts) == 0 {
		return "", sp.ErrNoSpeech
	}
	return strings.Join(parts, " "), nil
}
