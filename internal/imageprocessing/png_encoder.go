// Package imageprocessing serializes raw pixel buffers into standard image
// formats. The PNG writer works chunk-by-chunk straight from the buffer, so
// no intermediate image.Image is allocated.
package imageprocessing

import (
	"bytes"
	"compress/zlib"
	"encoding/binary"
	"fmt"
	"hash/crc32"
)

// pngSignature is the fixed 8-byte header every PNG starts with.
var pngSignature = []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}

// EncodeRGBAPNG encodes a width*height*4 RGBA buffer as an 8-bit
// truecolour-with-alpha PNG (colour type 6).
func EncodeRGBAPNG(rgba []byte, width, height int) ([]byte, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid dimensions %dx%d", width, height)
	}
	if expected := width * height * 4; len(rgba) != expected {
		return nil, fmt.Errorf("buffer size %d does not match %dx%d RGBA (want %d)", len(rgba), width, height, expected)
	}

	var buf bytes.Buffer
	buf.Write(pngSignature)

	writeChunk(&buf, "IHDR", func(data *bytes.Buffer) {
		binary.Write(data, binary.BigEndian, uint32(width))
		binary.Write(data, binary.BigEndian, uint32(height))
		data.WriteByte(8) // Bit depth
		data.WriteByte(6) // Colour type: truecolour with alpha
		data.WriteByte(0) // Compression method
		data.WriteByte(0) // Filter method
		data.WriteByte(0) // Interlace method
	})

	compressed, err := zlibCompress(filterRows(rgba, width, height))
	if err != nil {
		return nil, fmt.Errorf("failed to compress image data: %w", err)
	}

	writeChunk(&buf, "IDAT", func(data *bytes.Buffer) {
		data.Write(compressed)
	})

	writeChunk(&buf, "IEND", func(data *bytes.Buffer) {
		// Empty data for IEND
	})

	return buf.Bytes(), nil
}

// filterRows prefixes every scanline with the None filter byte, the layout
// the IDAT stream requires.
func filterRows(rgba []byte, width, height int) []byte {
	rowBytes := width * 4
	out := make([]byte, height*(rowBytes+1))

	for y := 0; y < height; y++ {
		rowStart := y * (rowBytes + 1)
		out[rowStart] = 0 // Filter type: None
		copy(out[rowStart+1:], rgba[y*rowBytes:(y+1)*rowBytes])
	}
	return out
}

// writeChunk writes a PNG chunk with proper CRC
func writeChunk(buf *bytes.Buffer, chunkType string, dataWriter func(*bytes.Buffer)) {
	var chunkData bytes.Buffer
	dataWriter(&chunkData)

	data := chunkData.Bytes()

	binary.Write(buf, binary.BigEndian, uint32(len(data)))
	buf.WriteString(chunkType)
	buf.Write(data)

	crc := crc32.NewIEEE()
	crc.Write([]byte(chunkType))
	crc.Write(data)
	binary.Write(buf, binary.BigEndian, crc.Sum32())
}

// zlibCompress compresses data using proper zlib compression
func zlibCompress(data []byte) ([]byte, error) {
	var buf bytes.Buffer

	writer, err := zlib.NewWriterLevel(&buf, zlib.BestCompression)
	if err != nil {
		return nil, fmt.Errorf("failed to create zlib writer: %w", err)
	}

	if _, err = writer.Write(data); err != nil {
		writer.Close()
		return nil, fmt.Errorf("failed to write data: %w", err)
	}

	if err = writer.Close(); err != nil {
		return nil, fmt.Errorf("failed to close zlib writer: %w", err)
	}

	return buf.Bytes(), nil
}
