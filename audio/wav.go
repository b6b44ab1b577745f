package audio

import (
	"bytes"
	"encoding/binary"
	stderrors "errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/kbukum/speechkit/errors"
)

// HeaderSize is the length of the canonical WAV header. Decode assumes it
// instead of walking the chunk list, so files carrying extra chunks
// (LIST, fact) before "data" decode with header bytes read as samples.
const HeaderSize = 44

const maxSample = 32767.0

// Decode converts a canonical 16-bit PCM WAV byte buffer into samples.
func Decode(data []byte) (Buffer, error) {
	if len(data) <= HeaderSize {
		return nil, errors.InvalidAudioData(fmt.Errorf("wav: %d bytes is not more than the %d-byte header", len(data), HeaderSize))
	}

	pcm := data[HeaderSize:]
	if len(pcm) < 2 {
		return nil, errors.InvalidAudioData(fmt.Errorf("wav: no complete sample after the header"))
	}
	out := make(Buffer, len(pcm)/2)
	for i := range out {
		s := int16(binary.LittleEndian.Uint16(pcm[i*2:])) // #nosec G115 - reinterpreting PCM bits
		out[i] = clamp(float32(s) / maxSample)
	}
	return out, nil
}

// ReadFile reads and decodes a WAV file.
func ReadFile(path string) (Buffer, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			return nil, errors.AudioFileNotFound(path).WithCause(err)
		}
		return nil, errors.InvalidAudioData(err)
	}
	return Decode(data)
}

func clamp(v float32) float32 {
	if v < -1 {
		return -1
	}
	if v > 1 {
		return 1
	}
	return v
}

// EncodeWAV writes samples as a canonical mono 16-bit PCM WAV.
func EncodeWAV(samples []int16, sampleRate int) []byte {
	const (
		numChannels   = 1
		bitsPerSample = 16
	)
	blockAlign := numChannels * bitsPerSample / 8
	dataSize := uint32(len(samples) * blockAlign) // #nosec G115 - bounded by slice length

	var buf bytes.Buffer
	buf.Grow(HeaderSize + int(dataSize))

	buf.WriteString("RIFF")
	_ = binary.Write(&buf, binary.LittleEndian, 36+dataSize)
	buf.WriteString("WAVE")

	buf.WriteString("fmt ")
	_ = binary.Write(&buf, binary.LittleEndian, uint32(16))
	_ = binary.Write(&buf, binary.LittleEndian, uint16(1)) // PCM
	_ = binary.Write(&buf, binary.LittleEndian, uint16(numChannels))
	_ = binary.Write(&buf, binary.LittleEndian, uint32(sampleRate))                             // #nosec G115
	_ = binary.Write(&buf, binary.LittleEndian, uint32(sampleRate*numChannels*bitsPerSample/8)) // #nosec G115
	_ = binary.Write(&buf, binary.LittleEndian, uint16(blockAlign))
	_ = binary.Write(&buf, binary.LittleEndian, uint16(bitsPerSample))

	buf.WriteString("data")
	_ = binary.Write(&buf, binary.LittleEndian, dataSize)
	_ = binary.Write(&buf, binary.LittleEndian, samples)

	return buf.Bytes()
}

// Silence returns a WAV of all-zero samples lasting d.
func Silence(sampleRate int, d time.Duration) []byte {
	frames := int(time.Duration(sampleRate) * d / time.Second)
	return EncodeWAV(make([]int16, frames), sampleRate)
}
