// Package wavwriter allows writing of audio data to disk as a WAV file. Note
// that audio data is buffered in memory in its entirity, and written to disk
// when the WavWriter is closed. It is therefore probably only suitable for
// testing purposes.
package wavwriter

import (
	"fmt"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/jetsetilly/portasound/logger"
)

const (
	numChannels = 2
	bitDepth    = 16

	// WAV audio format for uncompressed PCM
	formatPCM = 1
)

// WavWriter implements the audio.Sink interface
type WavWriter struct {
	filename   string
	sampleRate int
	buffer     []int
}

// New is the preferred method of initialisation for the WavWriter type
func New(filename string, sampleRate int) (*WavWriter, error) {
	if sampleRate <= 0 {
		return nil, fmt.Errorf("wavwriter: bad sample rate (%d)", sampleRate)
	}
	aw := &WavWriter{
		filename:   filename,
		sampleRate: sampleRate,
		buffer:     make([]int, 0),
	}
	return aw, nil
}

// Write implements the audio.Sink interface. Frames are interleaved left and
// right samples
func (aw *WavWriter) Write(frames []int16) error {
	for _, f := range frames {
		aw.buffer = append(aw.buffer, int(f))
	}
	return nil
}

// Frames returns the number of stereo frames written so far
func (aw *WavWriter) Frames() int {
	return len(aw.buffer) / numChannels
}

// Close writes the buffered audio to the file
func (aw *WavWriter) Close() (rerr error) {
	f, err := os.Create(aw.filename)
	if err != nil {
		return fmt.Errorf("wavwriter: %w", err)
	}
	defer func() {
		err := f.Close()
		if err != nil {
			rerr = fmt.Errorf("wavwriter: %w", err)
		}
	}()

	enc := wav.NewEncoder(f, aw.sampleRate, bitDepth, numChannels, formatPCM)

	buf := &audio.IntBuffer{
		Format: &audio.Format{
			NumChannels: numChannels,
			SampleRate:  aw.sampleRate,
		},
		Data:           aw.buffer,
		SourceBitDepth: bitDepth,
	}

	logger.Logf(logger.Allow, "wavwriter", "writing audio to %s", aw.filename)

	err = enc.Write(buf)
	if err != nil {
		return fmt.Errorf("wavwriter: %w", err)
	}

	err = enc.Close()
	if err != nil {
		return fmt.Errorf("wavwriter: %w", err)
	}

	return nil
}
