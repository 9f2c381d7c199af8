package audio

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"io"
	"math"
)

const wavHeaderSize = 44

// EncodeWAV returns a 16-bit PCM RIFF/WAVE file of the planar channels
func EncodeWAV(channels [][]float64, sampleRate int) []byte {
	var buf bytes.Buffer
	buf.Grow(wavHeaderSize + wavDataSize(channels))
	// bytes.Buffer writes never fail
	_ = WriteWAV(&buf, channels, sampleRate)
	return buf.Bytes()
}

// WriteWAV streams a 16-bit PCM RIFF/WAVE file to w. Samples are clamped
// to [-1, 1]; negatives scale by 0x8000 and positives by 0x7FFF. Channels
// shorter than the longest are padded with silence.
func WriteWAV(w io.Writer, channels [][]float64, sampleRate int) error {
	numCh := max(1, len(channels))
	frames := wavFrames(channels)
	dataSize := wavDataSize(channels)

	bw := bufio.NewWriter(w)
	le := binary.LittleEndian

	// RIFF header
	header := make([]byte, wavHeaderSize)
	copy(header[0:], "RIFF")
	le.PutUint32(header[4:], uint32(36+dataSize))
	copy(header[8:], "WAVE")

	// fmt chunk
	copy(header[12:], "fmt ")
	le.PutUint32(header[16:], 16)
	le.PutUint16(header[20:], 1) // PCM
	le.PutUint16(header[22:], uint16(numCh))
	le.PutUint32(header[24:], uint32(sampleRate))
	le.PutUint32(header[28:], uint32(sampleRate*numCh*2))
	le.PutUint16(header[32:], uint16(numCh*2))
	le.PutUint16(header[34:], 16)

	// data chunk
	copy(header[36:], "data")
	le.PutUint32(header[40:], uint32(dataSize))
	if _, err := bw.Write(header); err != nil {
		return err
	}

	var sample [2]byte
	for i := 0; i < frames; i++ {
		for c := 0; c < numCh && c < len(channels); c++ {
			var v float64
			if i < len(channels[c]) {
				v = channels[c][i]
			}
			le.PutUint16(sample[:], uint16(pcm16(v)))
			if _, err := bw.Write(sample[:]); err != nil {
				return err
			}
		}
	}
	return bw.Flush()
}

func wavFrames(channels [][]float64) int {
	n := 0
	for _, ch := range channels {
		n = max(n, len(ch))
	}
	return n
}

func wavDataSize(channels [][]float64) int {
	return len(channels) * wavFrames(channels) * 2
}

// pcm16 quantizes by truncation toward zero
func pcm16(v float64) int16 {
	switch {
	case v != v: // NaN
		return 0
	case v < -1:
		v = -1
	case v > 1:
		v = 1
	}
	if v < 0 {
		return int16(v * 0x8000)
	}
	return int16(v * 0x7FFF)
}

// DecodedSample undoes the (1<<bits - 1) divisor beep/wav applies when
// decoding PCM, returning the value WriteWAV was given (within one
// quantisation step). precision is the sample width in bytes.
func DecodedSample(v float64, precision int) float64 {
	var bits uint
	switch precision {
	case 2:
		bits = 16
	case 3:
		bits = 24
	default:
		return v
	}
	x := math.Round(v * float64(uint64(1)<<bits-1))
	half := float64(uint64(1) << (bits - 1))
	if x < 0 {
		return max(-1, x/half)
	}
	return min(1, x/(half-1))
}
