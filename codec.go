package bmpkit

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"os"
)

const (
	fileHeaderLen = 14
	infoHeaderLen = 40
	pixelOffset   = fileHeaderLen + infoHeaderLen

	bmpMagic = 0x4D42 // "BM" read little-endian
)

// FileHeader is the 14-byte BITMAPFILEHEADER.
type FileHeader struct {
	Type      uint16 // must be 0x4D42
	Size      uint32 // whole file, in bytes
	Reserved1 uint16
	Reserved2 uint16
	Offset    uint32 // start of pixel data
}

// InfoHeader is the 40-byte BITMAPINFOHEADER.
type InfoHeader struct {
	HeaderSize      uint32
	Width           int32
	Height          int32 // positive: bottom-up rows
	Planes          uint16
	BitsPerPixel    uint16
	Compression     uint32
	ImageSize       uint32
	XResolution     int32
	YResolution     int32
	Colors          uint32
	ImportantColors uint32
}

// Header groups both headers of a BMP file.
type Header struct {
	File FileHeader
	Info InfoHeader
}

// DecodeHeader parses and validates the two headers without touching pixel
// data.
func DecodeHeader(data []byte) (Header, error) {
	var h Header
	if len(data) < 2 {
		return h, fmt.Errorf("%w: %d bytes, no signature", ErrTruncated, len(data))
	}
	if sig := binary.LittleEndian.Uint16(data); sig != bmpMagic {
		return h, fmt.Errorf("%w: bad signature %#04x", ErrFormat, sig)
	}
	if len(data) < fileHeaderLen {
		return h, fmt.Errorf("%w: %d bytes, file header needs %d", ErrTruncated, len(data), fileHeaderLen)
	}
	r := bytes.NewReader(data)
	if err := binary.Read(r, binary.LittleEndian, &h.File); err != nil {
		return h, fmt.Errorf("%w: file header: %v", ErrTruncated, err)
	}
	if len(data) < pixelOffset {
		return h, fmt.Errorf("%w: %d bytes, headers need %d", ErrTruncated, len(data), pixelOffset)
	}
	if err := binary.Read(r, binary.LittleEndian, &h.Info); err != nil {
		return h, fmt.Errorf("%w: info header: %v", ErrTruncated, err)
	}

	info := h.Info
	if info.BitsPerPixel != 24 {
		return h, fmt.Errorf("%w: %d bits per pixel, only 24 is supported", ErrFormat, info.BitsPerPixel)
	}
	if info.Compression != 0 {
		return h, fmt.Errorf("%w: compression %d, only uncompressed data is supported", ErrFormat, info.Compression)
	}
	if info.Height < 0 {
		return h, fmt.Errorf("%w: negative height %d (top-down bitmap)", ErrFormat, info.Height)
	}
	if info.Width <= 0 || info.Height == 0 {
		return h, fmt.Errorf("%w: dimensions %dx%d", ErrInvalidParameter, info.Width, info.Height)
	}
	if h.File.Offset < pixelOffset {
		return h, fmt.Errorf("%w: pixel offset %d overlaps headers", ErrFormat, h.File.Offset)
	}
	return h, nil
}

// Decode parses a 24-bit uncompressed BMP file into a PixelBuffer.
func Decode(data []byte) (*PixelBuffer, error) {
	h, err := DecodeHeader(data)
	if err != nil {
		return nil, err
	}
	width, height := int(h.Info.Width), int(h.Info.Height)
	stride := RowStride(width)

	offset := int(h.File.Offset)
	if offset > len(data) {
		return nil, fmt.Errorf("%w: pixel offset %d past end of %d-byte file", ErrTruncated, offset, len(data))
	}
	// Compare by rows so huge declared sizes cannot overflow.
	avail := len(data) - offset
	if height > avail/stride {
		return nil, fmt.Errorf("%w: need %d rows of %d bytes, have %d bytes", ErrTruncated, height, stride, avail)
	}

	buf, err := NewPixelBuffer(width, height)
	if err != nil {
		return nil, err
	}
	copy(buf.Pix, data[offset:offset+len(buf.Pix)])
	return buf, nil
}

// Encode serializes b as a 24-bit BMP. Rows are written in stored order and
// padding is always zero.
func Encode(b *PixelBuffer) ([]byte, error) {
	if err := b.Validate(); err != nil {
		return nil, err
	}
	imageSize, err := encodedImageSize(b.Width, b.Height)
	if err != nil {
		return nil, err
	}
	fh := FileHeader{
		Type:   bmpMagic,
		Size:   uint32(pixelOffset + imageSize),
		Offset: pixelOffset,
	}
	ih := InfoHeader{
		HeaderSize:   infoHeaderLen,
		Width:        int32(b.Width),
		Height:       int32(b.Height),
		Planes:       1,
		BitsPerPixel: 24,
		ImageSize:    uint32(imageSize),
	}

	var out bytes.Buffer
	out.Grow(pixelOffset + imageSize)
	if err := binary.Write(&out, binary.LittleEndian, fh); err != nil {
		return nil, err
	}
	if err := binary.Write(&out, binary.LittleEndian, ih); err != nil {
		return nil, err
	}
	rowLen := b.Width * bytesPerPixel
	padding := make([]byte, b.Stride-rowLen)
	for y := range b.Height {
		start := y * b.Stride
		out.Write(b.Pix[start : start+rowLen])
		out.Write(padding)
	}
	return out.Bytes(), nil
}

// encodedImageSize returns the pixel data size for a w×h file, or
// ErrInvalidParameter when the dimensions do not fit the header fields.
func encodedImageSize(w, h int) (int, error) {
	if w > math.MaxInt32 || h > math.MaxInt32 {
		return 0, fmt.Errorf("%w: %dx%d exceeds BMP dimension limit", ErrInvalidParameter, w, h)
	}
	size := uint64(RowStride(w)) * uint64(h)
	if size+pixelOffset > math.MaxUint32 {
		return 0, fmt.Errorf("%w: %dx%d needs %d bytes, BMP size field holds at most %d", ErrInvalidParameter, w, h, size+pixelOffset, uint64(math.MaxUint32))
	}
	return int(size), nil
}

// LoadFromPath reads and decodes a BMP file.
func LoadFromPath(path string) (*PixelBuffer, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: reading %s: %w", ErrIO, path, err)
	}
	buf, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}
	return buf, nil
}

// SaveToPath encodes b and writes it to path. Nothing is created when
// encoding fails; a partially written file is removed.
func SaveToPath(path string, b *PixelBuffer) error {
	data, err := Encode(b)
	if err != nil {
		return fmt.Errorf("encoding %s: %w", path, err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("%w: creating %s: %w", ErrIO, path, err)
	}
	_, err = f.Write(data)
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		if rmErr := os.Remove(path); rmErr != nil {
			err = errors.Join(err, rmErr)
		}
		return fmt.Errorf("%w: writing %s: %w", ErrIO, path, err)
	}
	return nil
}
