package plist

import (
	"bytes"
	"errors"
	"fmt"
)

// Format is an on-disk property list encoding
type Format int

const (
	FormatXML Format = iota
	FormatBinary
	FormatOpenStep
)

// String returns the config name of the format
func (f Format) String() string {
	switch f {
	case FormatBinary:
		return "binary"
	case FormatOpenStep:
		return "openstep"
	default:
		return "xml"
	}
}

// ParseFormat maps a config name to a Format
func ParseFormat(name string) (Format, error) {
	switch name {
	case "xml":
		return FormatXML, nil
	case "binary":
		return FormatBinary, nil
	case "openstep":
		return FormatOpenStep, nil
	default:
		return FormatXML, fmt.Errorf("unknown plist format %q", name)
	}
}

// ErrEmptyDocument is returned when parsing input without a root value
var ErrEmptyDocument = errors.New("document has no root value")

// ParseError describes malformed input
type ParseError struct {
	Format Format
	Offset int64 // byte offset when known, -1 otherwise
	Err    error
}

func (e *ParseError) Error() string {
	if e.Offset >= 0 {
		return fmt.Sprintf("invalid %s plist at byte %d: %v", e.Format, e.Offset, e.Err)
	}
	return fmt.Sprintf("invalid %s plist: %v", e.Format, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

var binaryMagic = []byte("bplist00")

// DetectFormat guesses the encoding of data from its leading bytes
func DetectFormat(data []byte) Format {
	if bytes.HasPrefix(data, binaryMagic) {
		return FormatBinary
	}
	trimmed := bytes.TrimLeft(data, " \t\r\n\ufeff")
	if bytes.HasPrefix(trimmed, []byte("<")) {
		return FormatXML
	}
	return FormatOpenStep
}

// Parse decodes a property list in any supported format
func Parse(data []byte) (*Value, Format, error) {
	format := DetectFormat(data)
	var (
		v   *Value
		err error
	)
	switch format {
	case FormatXML:
		v, err = parseXML(data)
	default:
		v, err = parseForeign(data, format)
	}
	if err != nil {
		return nil, format, err
	}
	return v, format, nil
}

// Serialize encodes v in the given format. OpenStep output is not
// supported and falls back to XML.
func Serialize(v *Value, format Format) ([]byte, error) {
	switch format {
	case FormatBinary:
		return serializeBinary(v)
	default:
		return SerializeXML(v)
	}
}
