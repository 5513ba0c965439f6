package stl

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/philipparndt/stlsplit/pkg/geometry"
)

// Format selects the STL encoding used when writing
type Format int

const (
	// Binary is the compact little-endian encoding
	Binary Format = iota
	// ASCII is the text encoding
	ASCII
)

// String returns the lowercase name of the format
func (f Format) String() string {
	switch f {
	case Binary:
		return "binary"
	case ASCII:
		return "ascii"
	}
	return fmt.Sprintf("Format(%d)", int(f))
}

// Save writes the model to filename, replacing any existing file
func Save(filename string, m *Model, format Format) error {
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("%w: failed to create file: %w", ErrWrite, err)
	}

	switch format {
	case ASCII:
		err = WriteASCII(file, m)
	default:
		err = Write(file, m)
	}
	if cerr := file.Close(); err == nil && cerr != nil {
		err = fmt.Errorf("%w: failed to close %s: %w", ErrWrite, filename, cerr)
	}
	return err
}

// Write encodes the model as binary STL.
// A raw binary header is written unchanged; otherwise the name is
// truncated or NUL padded to the 80 byte header.
func Write(w io.Writer, m *Model) error {
	if uint64(len(m.Triangles)) > math.MaxUint32 {
		return fmt.Errorf("%w: %d triangles exceed the binary format limit", ErrWrite, len(m.Triangles))
	}

	bw := bufio.NewWriter(w)

	var header [HeaderSize]byte
	if len(m.Header) == HeaderSize {
		copy(header[:], m.Header)
	} else {
		copy(header[:], m.Name)
	}
	if _, err := bw.Write(header[:]); err != nil {
		return fmt.Errorf("%w: failed to write header: %w", ErrWrite, err)
	}

	if err := binary.Write(bw, binary.LittleEndian, uint32(len(m.Triangles))); err != nil {
		return fmt.Errorf("%w: failed to write triangle count: %w", ErrWrite, err)
	}

	for i, t := range m.Triangles {
		rec := record{
			Normal:    t.Normal.Float32(),
			V1:        t.V1.Float32(),
			V2:        t.V2.Float32(),
			V3:        t.V3.Float32(),
			Attribute: t.Attribute,
		}
		if err := binary.Write(bw, binary.LittleEndian, &rec); err != nil {
			return fmt.Errorf("%w: failed to write triangle %d: %w", ErrWrite, i, err)
		}
	}

	if err := bw.Flush(); err != nil {
		return fmt.Errorf("%w: %w", ErrWrite, err)
	}
	return nil
}

// WriteASCII encodes the model as ASCII STL.
// Coordinates use the shortest representation that parses back to the same value.
// Attribute byte counts have no ASCII representation and are dropped.
func WriteASCII(w io.Writer, m *Model) error {
	bw := bufio.NewWriter(w)
	name := strings.ReplaceAll(m.Name, "\n", " ")

	fmt.Fprintf(bw, "solid %s\n", name)
	for _, t := range m.Triangles {
		fmt.Fprintf(bw, "  facet normal %s\n", formatVector(t.Normal))
		fmt.Fprintln(bw, "    outer loop")
		for _, v := range t.Vertices() {
			fmt.Fprintf(bw, "      vertex %s\n", formatVector(v))
		}
		fmt.Fprintln(bw, "    endloop")
		fmt.Fprintln(bw, "  endfacet")
	}
	fmt.Fprintf(bw, "endsolid %s\n", name)

	// bufio.Writer keeps the first error, so checking Flush is enough
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("%w: %w", ErrWrite, err)
	}
	return nil
}

func formatVector(v geometry.Vector3) string {
	return strconv.FormatFloat(v.X, 'e', -1, 64) + " " +
		strconv.FormatFloat(v.Y, 'e', -1, 64) + " " +
		strconv.FormatFloat(v.Z, 'e', -1, 64)
}
