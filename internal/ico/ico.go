// Package ico writes and inspects Windows ICO containers whose images are
// stored as embedded PNGs (the layout Windows Vista and later read).
package ico

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"
)

const (
	headerSize = 6
	entrySize  = 16
	typeIcon   = 1

	// MaxSize is the largest width or height an ICO entry can describe.
	MaxSize = 256
)

var (
	ErrNoImages  = errors.New("ico: no images")
	ErrTooLarge  = errors.New("ico: image larger than 256x256")
	ErrNotSquare = errors.New("ico: image is not square")
	ErrFormat    = errors.New("ico: not an icon file")
)

// Entry describes one image inside an ICO container.
type Entry struct {
	Width, Height int
	BitCount      int
	Size          int // payload length in bytes
	Offset        int
}

// Encode writes images as an ICO container, in the order given. Each image
// must be square and at most 256×256.
func Encode(w io.Writer, images []image.Image) error {
	if len(images) == 0 {
		return ErrNoImages
	}

	payloads := make([][]byte, len(images))
	for i, img := range images {
		b := img.Bounds()
		if b.Dx() != b.Dy() {
			return fmt.Errorf("%w: %dx%d", ErrNotSquare, b.Dx(), b.Dy())
		}
		if b.Dx() > MaxSize || b.Dx() <= 0 {
			return fmt.Errorf("%w: %dx%d", ErrTooLarge, b.Dx(), b.Dy())
		}
		var buf bytes.Buffer
		if err := png.Encode(&buf, img); err != nil {
			return fmt.Errorf("ico: encoding %dx%d: %w", b.Dx(), b.Dy(), err)
		}
		payloads[i] = buf.Bytes()
	}

	bw := bufio.NewWriter(w)

	// ICONDIR: reserved, type, count.
	binary.Write(bw, binary.LittleEndian, uint16(0))
	binary.Write(bw, binary.LittleEndian, uint16(typeIcon))
	binary.Write(bw, binary.LittleEndian, uint16(len(images)))

	offset := uint32(headerSize + len(images)*entrySize)
	for i, img := range images {
		b := img.Bounds()
		bw.WriteByte(dimByte(b.Dx()))
		bw.WriteByte(dimByte(b.Dy()))
		bw.WriteByte(0)                                   // color count
		bw.WriteByte(0)                                   // reserved
		binary.Write(bw, binary.LittleEndian, uint16(1))  // planes
		binary.Write(bw, binary.LittleEndian, uint16(32)) // bits per pixel
		binary.Write(bw, binary.LittleEndian, uint32(len(payloads[i])))
		binary.Write(bw, binary.LittleEndian, offset)
		offset += uint32(len(payloads[i]))
	}

	for _, p := range payloads {
		if _, err := bw.Write(p); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// A dimension of 256 is stored as 0.
func dimByte(n int) byte {
	if n >= MaxSize {
		return 0
	}
	return byte(n)
}

func dimFromByte(b byte) int {
	if b == 0 {
		return MaxSize
	}
	return int(b)
}

// ReadDir parses the ICO header and directory entries without decoding
// the images.
func ReadDir(r io.Reader) ([]Entry, error) {
	var hdr [headerSize]byte
	if _, err := io.ReadFull(r, hdr[:]); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFormat, err)
	}
	if binary.LittleEndian.Uint16(hdr[0:]) != 0 || binary.LittleEndian.Uint16(hdr[2:]) != typeIcon {
		return nil, ErrFormat
	}
	n := int(binary.LittleEndian.Uint16(hdr[4:]))
	if n == 0 {
		return nil, ErrNoImages
	}

	entries := make([]Entry, n)
	var raw [entrySize]byte
	for i := range entries {
		if _, err := io.ReadFull(r, raw[:]); err != nil {
			return nil, fmt.Errorf("%w: entry %d: %v", ErrFormat, i, err)
		}
		entries[i] = Entry{
			Width:    dimFromByte(raw[0]),
			Height:   dimFromByte(raw[1]),
			BitCount: int(binary.LittleEndian.Uint16(raw[6:])),
			Size:     int(binary.LittleEndian.Uint32(raw[8:])),
			Offset:   int(binary.LittleEndian.Uint32(raw[12:])),
		}
	}
	return entries, nil
}

// DecodeAll decodes every image in an ICO container held in data. Only
// PNG payloads are supported.
func DecodeAll(data []byte) ([]image.Image, error) {
	entries, err := ReadDir(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	images := make([]image.Image, 0, len(entries))
	for i, e := range entries {
		end := e.Offset + e.Size
		if e.Offset < 0 || end > len(data) || end < e.Offset {
			return nil, fmt.Errorf("%w: entry %d out of range", ErrFormat, i)
		}
		img, err := png.Decode(bytes.NewReader(data[e.Offset:end]))
		if err != nil {
			return nil, fmt.Errorf("ico: entry %d: %w", i, err)
		}
		images = append(images, img)
	}
	return images, nil
}
