// Package audio decodes compressed audio into the pack's
// AUDIO_PCM16_INTERLEAVED wire format: contiguous little-endian int16
// samples in frame-major order.
package audio

import (
	"encoding/binary"
	"io"
	"math"

	"github.com/jfreymuth/oggvorbis"

	"github.com/greatbadbeyond/gbpack/internal/errs"
)

// Result holds a decoded audio stream's native payload plus the metadata
// the caller stamps into the asset record's meta fields.
type Result struct {
	Payload      []byte
	SampleRate   uint32
	ChannelCount uint32
	FrameCount   uint32
}

// Decode reads an Ogg Vorbis stream from r and returns interleaved PCM16.
func Decode(r io.Reader) (Result, error) {
	reader, err := oggvorbis.NewReader(r)
	if err != nil {
		return Result{}, err
	}

	channels := reader.Channels()
	sampleRate := reader.SampleRate()

	var samples []float32
	buf := make([]float32, 4096*channels)

	for {
		n, err := reader.Read(buf)
		if n > 0 {
			samples = append(samples, buf[:n]...)
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return Result{}, err
		}
	}

	if len(samples) == 0 {
		return Result{}, errs.ErrEmptyAudioPayload
	}

	frameCount := len(samples) / channels

	payload := make([]byte, len(samples)*2)
	for i, s := range samples {
		binary.LittleEndian.PutUint16(payload[i*2:], floatToPCM16(s))
	}

	return Result{
		Payload:      payload,
		SampleRate:   uint32(sampleRate),
		ChannelCount: uint32(channels),
		FrameCount:   uint32(frameCount),
	}, nil
}

// floatToPCM16 converts a [-1, 1] float sample to a signed 16-bit sample,
// clamping out-of-range values rather than wrapping.
func floatToPCM16(s float32) uint16 {
	v := float64(s) * 32767.0
	if v > 32767 {
		v = 32767
	}
	if v < -32768 {
		v = -32768
	}
	return uint16(int16(math.Round(v)))
}
