// Package chime plays a short audio cue when a recipe is finished.
package chime

import (
	"encoding/binary"
	"errors"
	"math"
	"time"
)

// Audio parameters for synthesized and loaded chimes.
const (
	SampleRate   = 24000
	ChannelCount = 1
	BitDepth     = 16
)

// Note is one tone of a chime.
type Note struct {
	Freq     float64 // Hz
	Duration time.Duration
}

// Fanfare is the default rising arpeggio (C5 E5 G5 C6).
var Fanfare = []Note{
	{523.25, 110 * time.Millisecond},
	{659.25, 110 * time.Millisecond},
	{783.99, 110 * time.Millisecond},
	{1046.50, 380 * time.Millisecond},
}

// Synthesize renders notes as signed 16-bit little-endian mono PCM at
// SampleRate. Each note fades out exponentially so consecutive notes do
// not click.
func Synthesize(notes []Note, volume float64) []byte {
	if volume < 0 {
		volume = 0
	}
	if volume > 1 {
		volume = 1
	}

	total := 0
	for _, n := range notes {
		total += samplesFor(n.Duration)
	}

	pcm := make([]byte, 0, total*2)
	for _, n := range notes {
		count := samplesFor(n.Duration)
		for i := 0; i < count; i++ {
			t := float64(i) / SampleRate
			env := math.Exp(-4 * float64(i) / float64(count))
			v := volume * env * math.Sin(2*math.Pi*n.Freq*t)
			pcm = binary.LittleEndian.AppendUint16(pcm, uint16(int16(v*math.MaxInt16)))
		}
	}
	return pcm
}

func samplesFor(d time.Duration) int {
	if d <= 0 {
		return 0
	}
	return int(d.Seconds() * SampleRate)
}

// extractPCM strips the WAV/RIFF header and returns raw PCM data.
func extractPCM(wav []byte) ([]byte, error) {
	if len(wav) < 44 {
		return nil, errors.New("wav data too short")
	}

	if string(wav[0:4]) != "RIFF" || string(wav[8:12]) != "WAVE" {
		return nil, errors.New("not a valid WAV file")
	}

	// Walk chunks to find the "data" chunk.
	pos := 12
	for pos < len(wav)-8 {
		chunkID := string(wav[pos : pos+4])
		chunkSize := int(binary.LittleEndian.Uint32(wav[pos+4 : pos+8]))

		if chunkID == "data" {
			start := pos + 8
			end := start + chunkSize
			if end > len(wav) {
				end = len(wav)
			}
			return wav[start:end], nil
		}

		pos += 8 + chunkSize
		// Chunks are word-aligned.
		if chunkSize%2 != 0 {
			pos++
		}
	}

	return nil, errors.New("data chunk not found in WAV")
}
