package plist

import (
	"bytes"
	"encoding/base64"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"
)

const xmlHeader = `<?xml version="1.0" encoding="UTF-8"?>
<!DOCTYPE plist PUBLIC "-//Apple//DTD PLIST 1.0//EN" "http://www.apple.com/DTDs/PropertyList-1.0.dtd">
<plist version="1.0">
`

const xmlDateLayout = "2006-01-02T15:04:05Z"

// SerializeXML encodes v as an Apple XML property list
func SerializeXML(v *Value) ([]byte, error) {
	var b bytes.Buffer
	b.WriteString(xmlHeader)
	if err := writeXML(&b, v, 0); err != nil {
		return nil, err
	}
	b.WriteString("</plist>\n")
	return b.Bytes(), nil
}

func writeXML(b *bytes.Buffer, v *Value, depth int) error {
	indent := strings.Repeat("\t", depth)
	b.WriteString(indent)
	switch v.kind {
	case KindString:
		b.WriteString("<string>")
		if err := xml.EscapeText(b, []byte(v.str)); err != nil {
			return err
		}
		b.WriteString("</string>\n")
	case KindInteger:
		fmt.Fprintf(b, "<integer>%d</integer>\n", v.integer)
	case KindReal:
		fmt.Fprintf(b, "<real>%s</real>\n", formatReal(v.real))
	case KindBoolean:
		if v.boolean {
			b.WriteString("<true/>\n")
		} else {
			b.WriteString("<false/>\n")
		}
	case KindData:
		fmt.Fprintf(b, "<data>%s</data>\n", base64.StdEncoding.EncodeToString(v.data))
	case KindDate:
		fmt.Fprintf(b, "<date>%s</date>\n", v.date.UTC().Format(xmlDateLayout))
	case KindArray:
		if len(v.array) == 0 {
			b.WriteString("<array/>\n")
			return nil
		}
		b.WriteString("<array>\n")
		for _, e := range v.array {
			if err := writeXML(b, e, depth+1); err != nil {
				return err
			}
		}
		b.WriteString(indent + "</array>\n")
	case KindDictionary:
		if v.dict.Len() == 0 {
			b.WriteString("<dict/>\n")
			return nil
		}
		b.WriteString("<dict>\n")
		for _, k := range v.dict.keys {
			b.WriteString(indent + "\t<key>")
			if err := xml.EscapeText(b, []byte(k)); err != nil {
				return err
			}
			b.WriteString("</key>\n")
			if err := writeXML(b, v.dict.values[k], depth+1); err != nil {
				return err
			}
		}
		b.WriteString(indent + "</dict>\n")
	default:
		return fmt.Errorf("serialize %s: unsupported kind", v.kind)
	}
	return nil
}

func formatReal(f float64) string {
	switch {
	case math.IsInf(f, 1):
		return "+infinity"
	case math.IsInf(f, -1):
		return "-infinity"
	case math.IsNaN(f):
		return "nan"
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}

// errEndOfContainer marks the closing tag of the enclosing array or dict
var errEndOfContainer = errors.New("end of container")

type xmlReader struct {
	d *xml.Decoder
}

func parseXML(data []byte) (*Value, error) {
	r := &xmlReader{d: xml.NewDecoder(bytes.NewReader(data))}
	v, err := r.document()
	if err != nil {
		var pe *ParseError
		if errors.As(err, &pe) {
			return nil, err
		}
		return nil, &ParseError{Format: FormatXML, Offset: r.d.InputOffset(), Err: err}
	}
	return v, nil
}

func (r *xmlReader) document() (*Value, error) {
	for {
		tok, err := r.d.Token()
		if err == io.EOF {
			return nil, ErrEmptyDocument
		}
		if err != nil {
			return nil, err
		}
		start, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}
		if start.Name.Local != "plist" {
			return r.value(start)
		}
		v, err := r.next()
		if errors.Is(err, errEndOfContainer) {
			return nil, ErrEmptyDocument
		}
		return v, err
	}
}

// next returns the next value element, or errEndOfContainer when the
// enclosing element closes first
func (r *xmlReader) next() (*Value, error) {
	for {
		tok, err := r.d.Token()
		if err == io.EOF {
			return nil, io.ErrUnexpectedEOF
		}
		if err != nil {
			return nil, err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			return r.value(t)
		case xml.EndElement:
			return nil, errEndOfContainer
		}
	}
}

func (r *xmlReader) value(start xml.StartElement) (*Value, error) {
	switch start.Name.Local {
	case "dict":
		return r.dict()
	case "array":
		arr := NewArray()
		for {
			v, err := r.next()
			if errors.Is(err, errEndOfContainer) {
				return arr, nil
			}
			if err != nil {
				return nil, err
			}
			arr.array = append(arr.array, v)
		}
	case "true", "false":
		if err := r.d.Skip(); err != nil {
			return nil, err
		}
		return Boolean(start.Name.Local == "true"), nil
	}

	text, err := r.text()
	if err != nil {
		return nil, err
	}
	switch start.Name.Local {
	case "string":
		return String(text), nil
	case "integer":
		i, err := parseInteger(strings.TrimSpace(text))
		if err != nil {
			return nil, err
		}
		return Integer(i), nil
	case "real":
		f, err := strconv.ParseFloat(strings.TrimSpace(text), 64)
		if err != nil {
			return nil, fmt.Errorf("real %q: %w", text, err)
		}
		return Real(f), nil
	case "data":
		b, err := base64.StdEncoding.DecodeString(strings.Join(strings.Fields(text), ""))
		if err != nil {
			return nil, fmt.Errorf("data: %w", err)
		}
		return Data(b), nil
	case "date":
		t, err := time.Parse(time.RFC3339, strings.TrimSpace(text))
		if err != nil {
			return nil, fmt.Errorf("date %q: %w", text, err)
		}
		return Date(t), nil
	default:
		return nil, fmt.Errorf("unexpected element <%s>", start.Name.Local)
	}
}

func (r *xmlReader) dict() (*Value, error) {
	v := NewDictionary()
	for {
		tok, err := r.d.Token()
		if err != nil {
			return nil, noEOF(err)
		}
		switch t := tok.(type) {
		case xml.EndElement:
			return v, nil
		case xml.StartElement:
			if t.Name.Local != "key" {
				return nil, fmt.Errorf("expected <key> in <dict>, got <%s>", t.Name.Local)
			}
			key, err := r.text()
			if err != nil {
				return nil, err
			}
			child, err := r.next()
			if errors.Is(err, errEndOfContainer) {
				return nil, fmt.Errorf("key %q has no value", key)
			}
			if err != nil {
				return nil, err
			}
			v.dict.Set(key, child)
		}
	}
}

// text collects character data up to the end of the current element
func (r *xmlReader) text() (string, error) {
	var b strings.Builder
	for {
		tok, err := r.d.Token()
		if err != nil {
			return "", noEOF(err)
		}
		switch t := tok.(type) {
		case xml.CharData:
			b.Write(t)
		case xml.EndElement:
			return b.String(), nil
		case xml.StartElement:
			return "", fmt.Errorf("unexpected element <%s> in scalar", t.Name.Local)
		}
	}
}

func parseInteger(s string) (int64, error) {
	if hex, ok := strings.CutPrefix(s, "0x"); ok {
		u, err := strconv.ParseUint(hex, 16, 64)
		if err != nil {
			return 0, fmt.Errorf("integer %q: %w", s, err)
		}
		return int64(u), nil
	}
	i, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("integer %q: %w", s, err)
	}
	return i, nil
}

func noEOF(err error) error {
	if err == io.EOF {
		return io.ErrUnexpectedEOF
	}
	return err
}
