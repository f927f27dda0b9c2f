package audio

import (
	"encoding/binary"
	"fmt"
)

// wavFormatPCM is the fmt-chunk audio format code for uncompressed integer PCM.
const wavFormatPCM = 1

// minimum RIFF header: "RIFF" + size + "WAVE".
const riffHeaderLen = 12

// DecodeWAV parses a RIFF/WAVE container and returns its PCM samples.
//
// Error contract:
//   - [ErrUnsupportedFormat] when the RIFF/WAVE signature is missing or the
//     fmt chunk declares a non-PCM codec (float, ADPCM, MP3, …).
//   - [ErrCorruptAudio] when the chunk structure cannot be parsed, required
//     chunks are absent, declared sizes exceed the available bytes, or the
//     data chunk does not divide evenly into whole sample frames.
//
// Decoding is a direct reinterpretation of the data chunk: 8-bit samples are
// unsigned on disk and re-centred on zero, wider samples are little-endian
// signed integers. The header-declared sample rate is carried through
// unvalidated except for the sign — a zero rate decodes fine and simply
// reports a zero [PCMAudio.Duration].
func DecodeWAV(raw []byte) (*PCMAudio, error) {
	if len(raw) < riffHeaderLen {
		return nil, fmt.Errorf("%w: %d bytes is too short for a RIFF header", ErrUnsupportedFormat, len(raw))
	}
	if string(raw[0:4]) != "RIFF" || string(raw[8:12]) != "WAVE" {
		return nil, fmt.Errorf("%w: missing RIFF/WAVE signature", ErrUnsupportedFormat)
	}

	var (
		fmtSeen       bool
		formatCode    uint16
		channels      int
		sampleRate    int
		bitsPerSample int
		data          []byte
		dataSeen      bool
	)

	// Walk the chunk list. Chunks are 8 bytes of header (ID + size) followed
	// by size payload bytes, padded to even length.
	off := riffHeaderLen
	for off+8 <= len(raw) {
		id := string(raw[off : off+4])
		size := int(binary.LittleEndian.Uint32(raw[off+4 : off+8]))
		body := off + 8
		if size < 0 || body+size > len(raw) {
			return nil, fmt.Errorf("%w: chunk %q declares %d bytes but only %d remain", ErrCorruptAudio, id, size, len(raw)-body)
		}

		switch id {
		case "fmt ":
			if size < 16 {
				return nil, fmt.Errorf("%w: fmt chunk is %d bytes, want at least 16", ErrCorruptAudio, size)
			}
			formatCode = binary.LittleEndian.Uint16(raw[body : body+2])
			channels = int(binary.LittleEndian.Uint16(raw[body+2 : body+4]))
			sampleRate = int(binary.LittleEndian.Uint32(raw[body+4 : body+8]))
			bitsPerSample = int(binary.LittleEndian.Uint16(raw[body+14 : body+16]))
			fmtSeen = true
		case "data":
			data = raw[body : body+size]
			dataSeen = true
		}

		off = body + size
		if size%2 == 1 {
			off++ // pad byte
		}
	}

	if !fmtSeen {
		return nil, fmt.Errorf("%w: no fmt chunk", ErrCorruptAudio)
	}
	if !dataSeen {
		return nil, fmt.Errorf("%w: no data chunk", ErrCorruptAudio)
	}
	if formatCode != wavFormatPCM {
		return nil, fmt.Errorf("%w: fmt code %d is not integer PCM and no external codec is available", ErrUnsupportedFormat, formatCode)
	}
	if channels < 1 {
		return nil, fmt.Errorf("%w: channel count %d", ErrCorruptAudio, channels)
	}
	switch bitsPerSample {
	case 8, 16, 24, 32:
	default:
		return nil, fmt.Errorf("%w: %d bits per sample", ErrUnsupportedFormat, bitsPerSample)
	}

	bytesPerSample := bitsPerSample / 8
	frameSize := bytesPerSample * channels
	if len(data)%frameSize != 0 {
		return nil, fmt.Errorf("%w: data chunk of %d bytes does not divide into %d-byte frames", ErrCorruptAudio, len(data), frameSize)
	}

	samples := make([]int32, len(data)/bytesPerSample)
	for i := range samples {
		b := data[i*bytesPerSample:]
		switch bitsPerSample {
		case 8:
			// 8-bit WAV is unsigned with midpoint 128.
			samples[i] = int32(b[0]) - 128
		case 16:
			samples[i] = int32(int16(binary.LittleEndian.Uint16(b)))
		case 24:
			v := int32(b[0]) | int32(b[1])<<8 | int32(b[2])<<16
			if v&0x800000 != 0 {
				v |= ^int32(0xffffff) // sign extend
			}
			samples[i] = v
		case 32:
			samples[i] = int32(binary.LittleEndian.Uint32(b))
		}
	}

	return &PCMAudio{
		Samples:       samples,
		SampleRate:    sampleRate,
		Channels:      channels,
		BitsPerSample: bitsPerSample,
	}, nil
}
