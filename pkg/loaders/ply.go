package loaders

import (
	"bufio"
	"encoding/binary"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/df07/go-pathtracer/pkg/core"
)

// PLYHeader represents the parsed header information from a PLY file
type PLYHeader struct {
	Format   string // "binary_little_endian", "binary_big_endian", or "ascii"
	Version  string // Usually "1.0"
	Elements []PLYElement
}

// PLYElement is one element block declared in the header, in file order
type PLYElement struct {
	Name       string
	Count      int
	Properties []PLYProperty
}

// PLYProperty represents a property definition in the PLY header
type PLYProperty struct {
	Name     string
	Type     string
	IsList   bool
	ListType string // For list properties, the type of the count
}

// plyValueReader reads one scalar of a PLY data type
type plyValueReader interface {
	read(dataType string) (float64, error)
}

// LoadPLY loads a PLY file
func LoadPLY(filename string) (*MeshData, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open PLY file")
	}
	defer file.Close()

	mesh, err := ReadPLY(file)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read %s", filename)
	}
	return mesh, nil
}

// ReadPLY reads vertex positions and faces from ASCII or binary PLY data.
// Polygons are fan triangulated; every other property is skipped.
func ReadPLY(r io.Reader) (*MeshData, error) {
	reader := bufio.NewReaderSize(r, 1<<20)

	header, err := parsePLYHeader(reader)
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse PLY header")
	}

	var values plyValueReader
	switch header.Format {
	case "ascii":
		scanner := bufio.NewScanner(reader)
		scanner.Split(bufio.ScanWords)
		values = &asciiValues{scanner: scanner}
	case "binary_little_endian":
		values = &binaryValues{reader: reader, order: binary.LittleEndian}
	case "binary_big_endian":
		values = &binaryValues{reader: reader, order: binary.BigEndian}
	default:
		return nil, errors.Errorf("unsupported PLY format: %s", header.Format)
	}

	mesh := &MeshData{}
	for _, element := range header.Elements {
		if err := readPLYElement(values, element, mesh); err != nil {
			return nil, errors.Wrapf(err, "failed to read %s data", element.Name)
		}
	}

	// Faces may precede vertices, so indices are checked once everything is read
	for _, index := range mesh.Indices {
		if index < 0 || index >= len(mesh.Vertices) {
			return nil, errors.Wrapf(core.ErrInvalidMesh, "vertex index %d out of range (%d vertices)", index, len(mesh.Vertices))
		}
	}
	return mesh, nil
}

// parsePLYHeader parses the PLY header, leaving the reader at the first data byte
func parsePLYHeader(reader *bufio.Reader) (*PLYHeader, error) {
	header := &PLYHeader{}

	magic, err := reader.ReadString('\n')
	if err != nil || strings.TrimSpace(magic) != "ply" {
		return nil, errors.New("missing ply magic number")
	}

	for {
		line, err := reader.ReadString('\n')
		if err != nil {
			return nil, errors.Wrap(err, "header ended before end_header")
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}

		switch parts[0] {
		case "end_header":
			return header, nil
		case "format":
			if len(parts) < 3 {
				return nil, errors.Errorf("invalid format line: %q", strings.TrimSpace(line))
			}
			header.Format = parts[1]
			header.Version = parts[2]
		case "element":
			if len(parts) < 3 {
				return nil, errors.Errorf("invalid element line: %q", strings.TrimSpace(line))
			}
			count, err := strconv.Atoi(parts[2])
			if err != nil || count < 0 {
				return nil, errors.Errorf("invalid element count: %s", parts[2])
			}
			header.Elements = append(header.Elements, PLYElement{Name: parts[1], Count: count})
		case "property":
			if len(header.Elements) == 0 {
				return nil, errors.New("property declared before any element")
			}
			prop, err := parsePLYProperty(parts[1:])
			if err != nil {
				return nil, err
			}
			current := &header.Elements[len(header.Elements)-1]
			current.Properties = append(current.Properties, prop)
		}
	}
}

// parsePLYProperty parses a property line from the PLY header
func parsePLYProperty(parts []string) (PLYProperty, error) {
	if len(parts) < 2 {
		return PLYProperty{}, errors.New("invalid property definition")
	}

	if parts[0] == "list" {
		if len(parts) < 4 {
			return PLYProperty{}, errors.New("invalid list property definition")
		}
		return PLYProperty{IsList: true, ListType: parts[1], Type: parts[2], Name: parts[3]}, nil
	}
	return PLYProperty{Type: parts[0], Name: parts[1]}, nil
}

// readPLYElement reads every row of an element, keeping vertex positions and
// face index lists
func readPLYElement(values plyValueReader, element PLYElement, mesh *MeshData) error {
	var polygon []int

	for row := 0; row < element.Count; row++ {
		var position [3]float64
		for _, prop := range element.Properties {
			if !prop.IsList {
				value, err := values.read(prop.Type)
				if err != nil {
					return errors.Wrapf(err, "row %d, property %s", row, prop.Name)
				}
				if element.Name == "vertex" {
					switch prop.Name {
					case "x":
						position[0] = value
					case "y":
						position[1] = value
					case "z":
						position[2] = value
					}
				}
				continue
			}

			value, err := values.read(prop.ListType)
			if err != nil {
				return errors.Wrapf(err, "row %d, list count of %s", row, prop.Name)
			}
			count, err := plyInt(value)
			if err != nil || count < 0 {
				return errors.Wrapf(core.ErrInvalidMesh, "row %d, list count %v of %s", row, value, prop.Name)
			}
			isFace := element.Name == "face" && (prop.Name == "vertex_indices" || prop.Name == "vertex_index")
			polygon = polygon[:0]
			for i := 0; i < count; i++ {
				value, err := values.read(prop.Type)
				if err != nil {
					return errors.Wrapf(err, "row %d, list item %d of %s", row, i, prop.Name)
				}
				index, err := plyInt(value)
				if err != nil {
					return errors.Wrapf(err, "row %d, list item %d of %s", row, i, prop.Name)
				}
				polygon = append(polygon, index)
			}
			if isFace {
				if len(polygon) < 3 {
					return errors.Wrapf(core.ErrInvalidMesh, "face %d has %d vertices", row, len(polygon))
				}
				mesh.Indices = fan(mesh.Indices, polygon)
			}
		}
		if element.Name == "vertex" {
			mesh.Vertices = append(mesh.Vertices, core.NewVec3(position[0], position[1], position[2]))
		}
	}
	return nil
}

// plyInt converts a list value to an int, rejecting fractions
func plyInt(value float64) (int, error) {
	if value != math.Trunc(value) || math.Abs(value) > math.MaxInt32 {
		return 0, errors.Wrapf(core.ErrInvalidMesh, "non-integer list value %v", value)
	}
	return int(value), nil
}

// asciiValues reads whitespace separated values
type asciiValues struct {
	scanner *bufio.Scanner
}

func (a *asciiValues) read(dataType string) (float64, error) {
	if !a.scanner.Scan() {
		if err := a.scanner.Err(); err != nil {
			return 0, err
		}
		return 0, io.ErrUnexpectedEOF
	}
	return strconv.ParseFloat(a.scanner.Text(), 64)
}

// binaryValues reads fixed-size values in the file's byte order
type binaryValues struct {
	reader *bufio.Reader
	order  binary.ByteOrder
	buf    [8]byte
}

func (b *binaryValues) read(dataType string) (float64, error) {
	size := getTypeSize(dataType)
	if size == 0 {
		return 0, errors.Errorf("unsupported data type: %s", dataType)
	}
	data := b.buf[:size]
	if _, err := io.ReadFull(b.reader, data); err != nil {
		return 0, err
	}

	switch dataType {
	case "char", "int8":
		return float64(int8(data[0])), nil
	case "uchar", "uint8":
		return float64(data[0]), nil
	case "short", "int16":
		return float64(int16(b.order.Uint16(data))), nil
	case "ushort", "uint16":
		return float64(b.order.Uint16(data)), nil
	case "int", "int32":
		return float64(int32(b.order.Uint32(data))), nil
	case "uint", "uint32":
		return float64(b.order.Uint32(data)), nil
	case "float", "float32":
		return float64(math.Float32frombits(b.order.Uint32(data))), nil
	default: // double, float64
		return math.Float64frombits(b.order.Uint64(data)), nil
	}
}

// getTypeSize returns the size in bytes of a PLY data type, or 0 if unknown
func getTypeSize(dataType string) int {
	switch dataType {
	case "float", "float32", "int", "int32", "uint", "uint32":
		return 4
	case "double", "float64":
		return 8
	case "short", "int16", "ushort", "uint16":
		return 2
	case "char", "int8", "uchar", "uint8":
		return 1
	default:
		return 0
	}
}
