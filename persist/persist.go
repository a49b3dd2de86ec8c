// Package persist stores fixed-size, little-endian records in an lz4
// compressed stream. A stream starts with an uncompressed file header
// carrying the magic and the format version; every record after it is
// read back exactly as it was written.
package persist

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/pierrec/lz4/v4"
)

// package errors
var (
	ErrFileFormat  = errors.New("persist: corrupted or not a gimbal record stream")
	ErrShortRecord = errors.New("persist: short record")
	ErrNameTooLong = errors.New("persist: asset name too long")
)

// Sizes and version of the stream header
const (
	MagicLength = 4
	Version     = 1
)

var magic = [MagicLength]byte{'G', 'M', 'B', '\x00'}

type fileHeader struct {
	Magic   [MagicLength]byte
	Version uint16
}

// Writer appends records to a compressed stream
type Writer struct {
	lz *lz4.Writer
}

// NewWriter writes the file header to w and returns a Writer compressing
// every following record. Close must be called to flush the stream.
func NewWriter(w io.Writer) (*Writer, error) {
	if err := binary.Write(w, binary.LittleEndian, fileHeader{Magic: magic, Version: Version}); err != nil {
		return nil, err
	}

	return &Writer{lz: lz4.NewWriter(w)}, nil
}

// Write encodes one fixed-size record
func (w *Writer) Write(record any) error {
	return binary.Write(w.lz, binary.LittleEndian, record)
}

// Close flushes the compressed stream; the underlying writer stays open
func (w *Writer) Close() error {
	return w.lz.Close()
}

// Reader decodes records from a stream produced by Writer
type Reader struct {
	lz *lz4.Reader
}

// NewReader checks the file header of r
func NewReader(r io.Reader) (*Reader, error) {
	var header fileHeader
	if err := binary.Read(r, binary.LittleEndian, &header); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, ErrFileFormat
		}
		return nil, err
	}
	if header.Magic != magic {
		return nil, ErrFileFormat
	}
	if header.Version != Version {
		return nil, fmt.Errorf("%w: unsupported version %d", ErrFileFormat, header.Version)
	}

	return &Reader{lz: lz4.NewReader(r)}, nil
}

// Read decodes the next record into record, which must be a pointer to a
// fixed-size value. io.EOF is returned at the end of the stream.
func (r *Reader) Read(record any) error {
	err := binary.Read(r.lz, binary.LittleEndian, record)
	if errors.Is(err, io.ErrUnexpectedEOF) {
		return fmt.Errorf("%w: %d bytes expected", ErrShortRecord, binary.Size(record))
	}

	return err
}
