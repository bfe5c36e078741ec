package metadata

import (
	"bytes"
	"encoding/binary"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// writeWAV writes a silent 16-bit mono PCM file of the given length.
func writeWAV(t *testing.T, path string, seconds int, rate int) {
	t.Helper()

	dataSize := seconds * rate * 2
	var buf bytes.Buffer
	buf.WriteString("RIFF")
	_ = binary.Write(&buf, binary.LittleEndian, uint32(36+dataSize))
	buf.WriteString("WAVE")
	buf.WriteString("fmt ")
	_ = binary.Write(&buf, binary.LittleEndian, uint32(16))
	_ = binary.Write(&buf, binary.LittleEndian, uint16(1)) // PCM
	_ = binary.Write(&buf, binary.LittleEndian, uint16(1)) // mono
	_ = binary.Write(&buf, binary.LittleEndian, uint32(rate))
	_ = binary.Write(&buf, binary.LittleEndian, uint32(rate*2))
	_ = binary.Write(&buf, binary.LittleEndian, uint16(2))
	_ = binary.Write(&buf, binary.LittleEndian, uint16(16))
	buf.WriteString("data")
	_ = binary.Write(&buf, binary.LittleEndian, uint32(dataSize))
	buf.Write(make([]byte, dataSize))

	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0644))
}

type id3Frame struct {
	id   string
	data []byte
}

func textFrame(id, text string) id3Frame {
	return id3Frame{id: id, data: append([]byte{0x00}, text...)}
}

func apicFrame(mime string, img []byte) id3Frame {
	data := []byte{0x00}
	data = append(data, mime...)
	data = append(data, 0x00, 0x03, 0x00) // front cover, empty description
	data = append(data, img...)
	return id3Frame{id: "APIC", data: data}
}

// id3v23 builds an ID3v2.3 tag followed by some bytes that are not audio.
func id3v23(frames ...id3Frame) []byte {
	var body bytes.Buffer
	for _, f := range frames {
		body.WriteString(f.id)
		_ = binary.Write(&body, binary.BigEndian, uint32(len(f.data)))
		body.Write([]byte{0, 0})
		body.Write(f.data)
	}

	size := body.Len()
	var out bytes.Buffer
	out.WriteString("ID3")
	out.Write([]byte{0x03, 0x00, 0x00})
	out.Write([]byte{
		byte(size >> 21 & 0x7f),
		byte(size >> 14 & 0x7f),
		byte(size >> 7 & 0x7f),
		byte(size & 0x7f),
	})
	out.Write(body.Bytes())
	out.Write(bytes.Repeat([]byte{0xAA}, 64))
	return out.Bytes()
}

func pngBytes(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	img.Set(1, 1, color.RGBA{R: 0xff, A: 0xff})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}
