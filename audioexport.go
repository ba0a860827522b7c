package musical

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"math"

	"github.com/go-audio/audio"
)

// WavHeaderSize is the size of the header written by Wav.
const WavHeaderSize = 44

// Wav packs already quantized mono samples into a minimal PCM .wav file. The
// bit depth is taken from buffer.SourceBitDepth and must be 8 or 16.
func Wav(buffer *audio.IntBuffer) ([]byte, error) {
	width, sampleRate, err := checkBuffer(buffer)
	if err != nil {
		return nil, fmt.Errorf("Wav failed: %v", err)
	}
	buf := new(bytes.Buffer)
	buf.Grow(WavHeaderSize + len(buffer.Data)*width.Bytes())
	wavHeader(len(buffer.Data), sampleRate, width, buf)
	if err := rawToBuffer(buffer.Data, width, buf); err != nil {
		return nil, fmt.Errorf("Wav failed: %v", err)
	}
	return buf.Bytes(), nil
}

// Raw returns the samples without any header.
func Raw(buffer *audio.IntBuffer) ([]byte, error) {
	width, _, err := checkBuffer(buffer)
	if err != nil {
		return nil, fmt.Errorf("Raw failed: %v", err)
	}
	buf := new(bytes.Buffer)
	if err := rawToBuffer(buffer.Data, width, buf); err != nil {
		return nil, fmt.Errorf("Raw failed: %v", err)
	}
	return buf.Bytes(), nil
}

func checkBuffer(buffer *audio.IntBuffer) (SampleWidth, int, error) {
	if buffer == nil || buffer.Format == nil {
		return 0, 0, errors.New("buffer has no format")
	}
	if buffer.Format.NumChannels != 1 {
		return 0, 0, fmt.Errorf("only mono buffers are supported, got %v channels", buffer.Format.NumChannels)
	}
	if buffer.Format.SampleRate < 1 {
		return 0, 0, fmt.Errorf("sample rate should be > 0, got %v", buffer.Format.SampleRate)
	}
	width, err := ParseSampleWidth(buffer.SourceBitDepth)
	if err != nil {
		return 0, 0, err
	}
	return width, buffer.Format.SampleRate, nil
}

func rawToBuffer(data []int, width SampleWidth, buf *bytes.Buffer) error {
	var err error
	if width == Width16 {
		int16data := make([]int16, len(data))
		for i, v := range data {
			int16data[i] = int16(clamp(v, math.MinInt16, math.MaxInt16))
		}
		err = binary.Write(buf, binary.LittleEndian, int16data)
	} else {
		uint8data := make([]uint8, len(data))
		for i, v := range data {
			uint8data[i] = uint8(clamp(v, 0, math.MaxUint8))
		}
		_, err = buf.Write(uint8data)
	}
	if err != nil {
		return fmt.Errorf("could not binary write data to binary buffer: %v", err)
	}
	return nil
}

// wavHeader writes a 44 byte canonical header for a mono PCM .wav file with
// the given number of samples into the bytes.Buffer.
func wavHeader(numSamples, sampleRate int, width SampleWidth, buf *bytes.Buffer) {
	// Refer to: http://www-mmsp.ece.mcgill.ca/Documents/AudioFormats/WAVE/WAVE.html
	numChannels := 1
	bytesPerSample := width.Bytes()
	dataSize := bytesPerSample * numSamples
	buf.Write([]byte("RIFF"))
	binary.Write(buf, binary.LittleEndian, uint32(WavHeaderSize-8+dataSize))
	buf.Write([]byte("WAVE"))
	buf.Write([]byte("fmt "))
	binary.Write(buf, binary.LittleEndian, uint32(16)) // fmt chunk size
	binary.Write(buf, binary.LittleEndian, uint16(1))  // PCM
	binary.Write(buf, binary.LittleEndian, uint16(numChannels))
	binary.Write(buf, binary.LittleEndian, uint32(sampleRate))
	binary.Write(buf, binary.LittleEndian, uint32(sampleRate*numChannels*bytesPerSample)) // avgBytesPerSec
	binary.Write(buf, binary.LittleEndian, uint16(numChannels*bytesPerSample))            // blockAlign
	binary.Write(buf, binary.LittleEndian, uint16(width))                                 // bits per sample
	buf.Write([]byte("data"))
	binary.Write(buf, binary.LittleEndian, uint32(dataSize))
}

func clamp(value, min, max int) int {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}
