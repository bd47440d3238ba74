package speech

import (
	"bytes"
	"context"
	"encoding/binary"
	"fmt"
	"math"
	"os/exec"
	"strconv"
	"strings"
)

const (
	// DefaultSampleRate is the capture rate used by the default record command.
	DefaultSampleRate = 16000
	// DefaultRecordSeconds bounds one capture; the record command enforces it.
	DefaultRecordSeconds = 4

	// defaultSilenceRMS is the 16-bit PCM energy below which a capture is
	// treated as silence.
	defaultSilenceRMS = 300.0
)

// Recorder captures raw 16-bit signed little-endian mono PCM from an
// external record command that writes audio to stdout and exits on its own.
type Recorder struct {
	argv       []string
	sampleRate int
	silenceRMS float64
	run        func(ctx context.Context, argv []string) ([]byte, error)
}

// NewRecorder returns a Recorder for command. An empty command uses arecord
// limited to seconds.
func NewRecorder(command string, seconds int) *Recorder {
	if seconds <= 0 {
		seconds = DefaultRecordSeconds
	}
	argv := strings.Fields(command)
	if len(argv) == 0 {
		argv = []string{
			"arecord", "-q", "-t", "raw", "-f", "S16_LE", "-c", "1",
			"-r", strconv.Itoa(DefaultSampleRate), "-d", strconv.Itoa(seconds),
		}
	}
	return &Recorder{
		argv:       argv,
		sampleRate: DefaultSampleRate,
		silenceRMS: defaultSilenceRMS,
		run:        runCommand,
	}
}

// SampleRate returns the PCM sample rate of recorded audio.
func (r *Recorder) SampleRate() int {
	return r.sampleRate
}

// Available reports whether the record command can be found.
func (r *Recorder) Available() bool {
	if len(r.argv) == 0 {
		return false
	}
	_, err := exec.LookPath(r.argv[0])
	return err == nil
}

// Record runs the record command until it exits or ctx is cancelled.
func (r *Recorder) Record(ctx context.Context) ([]byte, error) {
	pcm, err := r.run(ctx, r.argv)
	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, ctxErr
	}
	if err != nil {
		return nil, NewRecognitionError(CodeAudioCapture, err)
	}
	if len(pcm) < 2 || computeRMS(pcm) < r.silenceRMS {
		return nil, ErrNoSpeech
	}
	return pcm, nil
}

func runCommand(ctx context.Context, argv []string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	out, err := cmd.Output()
	if err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return nil, fmt.Errorf("%s: %w: %s", argv[0], err, msg)
		}
		return nil, fmt.Errorf("%s: %w", argv[0], err)
	}
	return out, nil
}

// computeRMS returns the root-mean-square energy of a 16-bit PCM buffer.
func computeRMS(pcm []byte) float64 {
	n := len(pcm) / 2
	if n == 0 {
		return 0
	}
	var sum float64
	for i := 0; i < n; i++ {
		v := float64(int16(binary.LittleEndian.Uint16(pcm[i*2 : i*2+2])))
		sum += v * v
	}
	return math.Sqrt(sum / float64(n))
}
