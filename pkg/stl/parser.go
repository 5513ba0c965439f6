package stl

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/philipparndt/stlsplit/pkg/geometry"
)

// record is the on-disk layout of one binary STL triangle (50 bytes)
type record struct {
	Normal     [3]float32
	V1, V2, V3 [3]float32
	Attribute  uint16
}

const recordSize = 50

// Parse reads an STL file and returns a Model
// It automatically detects whether the file is ASCII or binary format
func Parse(filename string) (*Model, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	return Decode(file)
}

// Decode reads an STL model from r.
// Content starting with "solid" is treated as ASCII unless its size matches
// the binary layout exactly, since some exporters put "solid" in binary headers.
// When such content has no facets but holds a complete binary body, it is read as binary.
func Decode(r io.Reader) (*Model, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRead, err)
	}

	if !bytes.HasPrefix(data, []byte("solid")) || looksBinary(data) {
		return parseBinary(bytes.NewReader(data))
	}

	model, err := parseASCII(bytes.NewReader(data))
	if (err != nil || model.TriangleCount() == 0) && fitsBinary(data) {
		return parseBinary(bytes.NewReader(data))
	}
	if err != nil {
		return nil, err
	}
	if model.TriangleCount() == 0 && !bytes.Contains(data, []byte("endsolid")) {
		return nil, fmt.Errorf("%w: neither a binary nor an ASCII STL file", ErrRead)
	}
	return model, nil
}

// binaryCount returns the triangle count stored after the header
func binaryCount(data []byte) (int64, bool) {
	if len(data) < HeaderSize+4 {
		return 0, false
	}
	return int64(binary.LittleEndian.Uint32(data[HeaderSize:])), true
}

// looksBinary reports whether the size of data matches its binary triangle count
func looksBinary(data []byte) bool {
	count, ok := binaryCount(data)
	return ok && int64(len(data)) == HeaderSize+4+count*recordSize
}

// fitsBinary reports whether data holds at least as many records as its count claims
func fitsBinary(data []byte) bool {
	count, ok := binaryCount(data)
	return ok && int64(len(data)) >= HeaderSize+4+count*recordSize
}

// parseASCII parses an ASCII STL file
func parseASCII(reader io.Reader) (*Model, error) {
	scanner := bufio.NewScanner(reader)
	model := NewModel("")

	var currentNormal geometry.Vector3
	var vertices []geometry.Vector3
	line := 0

	for scanner.Scan() {
		line++
		fields := strings.Fields(scanner.Text())

		if len(fields) == 0 {
			continue
		}

		switch fields[0] {
		case "solid":
			if len(fields) > 1 {
				model.Name = strings.Join(fields[1:], " ")
			}

		case "facet":
			if len(fields) >= 5 && fields[1] == "normal" {
				n, err := parseCoordinates(fields[2:5])
				if err != nil {
					return nil, fmt.Errorf("%w: line %d: %w", ErrRead, line, err)
				}
				currentNormal = n
			}

		case "vertex":
			if len(fields) < 4 {
				return nil, fmt.Errorf("%w: line %d: vertex needs three coordinates", ErrRead, line)
			}
			v, err := parseCoordinates(fields[1:4])
			if err != nil {
				return nil, fmt.Errorf("%w: line %d: %w", ErrRead, line, err)
			}
			vertices = append(vertices, v)

		case "endfacet":
			if len(vertices) != 3 {
				return nil, fmt.Errorf("%w: line %d: facet has %d vertices", ErrRead, line, len(vertices))
			}
			model.AddTriangle(geometry.NewTriangle(
				currentNormal,
				vertices[0],
				vertices[1],
				vertices[2],
			))
			vertices = vertices[:0]
			currentNormal = geometry.Vector3{}
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRead, err)
	}

	return model, nil
}

func parseCoordinates(fields []string) (geometry.Vector3, error) {
	var c [3]float64
	for i, f := range fields {
		value, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return geometry.Vector3{}, fmt.Errorf("invalid coordinate %q", f)
		}
		c[i] = value
	}
	return geometry.NewVector3(c[0], c[1], c[2]), nil
}

// parseBinary parses a binary STL file
func parseBinary(reader io.Reader) (*Model, error) {
	header := make([]byte, HeaderSize)
	if _, err := io.ReadFull(reader, header); err != nil {
		return nil, fmt.Errorf("%w: failed to read header: %w", ErrRead, err)
	}

	model := NewModel(headerName(header))
	model.Header = header

	var triangleCount uint32
	if err := binary.Read(reader, binary.LittleEndian, &triangleCount); err != nil {
		return nil, fmt.Errorf("%w: failed to read triangle count: %w", ErrRead, err)
	}

	model.Triangles = make([]geometry.Triangle, 0, min(triangleCount, 1<<20))
	buf := make([]byte, recordSize)
	for i := uint32(0); i < triangleCount; i++ {
		if _, err := io.ReadFull(reader, buf); err != nil {
			return nil, fmt.Errorf("%w: failed to read triangle %d of %d: %w", ErrRead, i, triangleCount, err)
		}

		var rec record
		// buf holds exactly one record, so decoding cannot fail
		_ = binary.Read(bytes.NewReader(buf), binary.LittleEndian, &rec)

		triangle := geometry.NewTriangle(
			geometry.FromFloat32(rec.Normal),
			geometry.FromFloat32(rec.V1),
			geometry.FromFloat32(rec.V2),
			geometry.FromFloat32(rec.V3),
		)
		triangle.Attribute = rec.Attribute
		model.AddTriangle(triangle)
	}

	return model, nil
}

// headerName extracts the descriptive text of a binary header
func headerName(header []byte) string {
	return strings.TrimRight(string(header), "\x00 ")
}
