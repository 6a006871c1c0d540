// Package export writes a document or subtree to formats other tools read:
// a flat CSV listing of every value, or JSON.
package export

import (
	"bytes"
	"encoding/base64"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/rebeliceyang/lazyplist/internal/editor"
	"github.com/rebeliceyang/lazyplist/internal/plist"
)

// ErrNonFiniteReal is returned when JSON output meets NaN or infinity
var ErrNonFiniteReal = errors.New("JSON cannot represent NaN or infinite reals")

// Export writes root to path, choosing CSV for a .csv extension and JSON
// otherwise
func Export(root *plist.Value, path string) error {
	if strings.EqualFold(filepath.Ext(path), ".csv") {
		return ExportToCSV(root, path)
	}
	return ExportToJSON(root, path)
}

// ExportToCSV writes one row per node: its path, type and value.
// Containers get their child count as the value.
func ExportToCSV(root *plist.Value, path string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create CSV file: %w", err)
	}
	defer func() { _ = file.Close() }()

	writer := csv.NewWriter(file)

	if err := writer.Write([]string{"Path", "Type", "Value"}); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	var walk func(node *plist.Value, p plist.Path) error
	walk = func(node *plist.Value, p plist.Path) error {
		row := []string{p.String(), node.Kind().String(), csvValue(node)}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
		if !node.Kind().IsContainer() {
			return nil
		}
		keys, err := node.ChildKeys()
		if err != nil {
			return err
		}
		for _, k := range keys {
			child, err := node.Child(k)
			if err != nil {
				return err
			}
			if err := walk(child, p.Child(k)); err != nil {
				return err
			}
		}
		return nil
	}
	if err := walk(root, plist.Path{}); err != nil {
		return err
	}

	writer.Flush()
	return writer.Error()
}

func csvValue(v *plist.Value) string {
	switch v.Kind() {
	case plist.KindString:
		s, _ := v.StringValue()
		return s
	case plist.KindInteger:
		i, _ := v.IntegerValue()
		return strconv.FormatInt(i, 10)
	case plist.KindReal:
		r, _ := v.RealValue()
		return strconv.FormatFloat(r, 'g', -1, 64)
	case plist.KindBoolean:
		b, _ := v.BooleanValue()
		return strconv.FormatBool(b)
	case plist.KindData:
		b, _ := v.DataValue()
		return editor.FormatData(b)
	case plist.KindDate:
		d, _ := v.DateValue()
		return d.UTC().Format(time.RFC3339)
	default:
		return strconv.Itoa(v.Len())
	}
}

// ExportToJSON writes root as indented JSON. Dictionary order is kept, data
// becomes base64 and dates RFC 3339 strings.
func ExportToJSON(root *plist.Value, path string) error {
	data, err := MarshalJSON(root)
	if err != nil {
		return fmt.Errorf("failed to marshal document to JSON: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write JSON file: %w", err)
	}

	return nil
}

// MarshalJSON renders v as indented JSON
func MarshalJSON(v *plist.Value) ([]byte, error) {
	var b bytes.Buffer
	if err := writeJSON(&b, v, 0); err != nil {
		return nil, err
	}
	b.WriteByte('\n')
	return b.Bytes(), nil
}

func writeJSON(b *bytes.Buffer, v *plist.Value, depth int) error {
	indent := func(d int) {
		b.WriteByte('\n')
		b.WriteString(strings.Repeat("  ", d))
	}

	switch v.Kind() {
	case plist.KindDictionary:
		d := v.Dictionary()
		if d.Len() == 0 {
			b.WriteString("{}")
			return nil
		}
		b.WriteByte('{')
		for i, k := range d.Keys() {
			if i > 0 {
				b.WriteByte(',')
			}
			indent(depth + 1)
			writeString(b, k)
			b.WriteString(": ")
			child, _ := d.Get(k)
			if err := writeJSON(b, child, depth+1); err != nil {
				return err
			}
		}
		indent(depth)
		b.WriteByte('}')
	case plist.KindArray:
		elems := v.Array()
		if len(elems) == 0 {
			b.WriteString("[]")
			return nil
		}
		b.WriteByte('[')
		for i, e := range elems {
			if i > 0 {
				b.WriteByte(',')
			}
			indent(depth + 1)
			if err := writeJSON(b, e, depth+1); err != nil {
				return err
			}
		}
		indent(depth)
		b.WriteByte(']')
	case plist.KindString:
		s, _ := v.StringValue()
		writeString(b, s)
	case plist.KindInteger:
		i, _ := v.IntegerValue()
		b.WriteString(strconv.FormatInt(i, 10))
	case plist.KindReal:
		r, _ := v.RealValue()
		if math.IsNaN(r) || math.IsInf(r, 0) {
			return ErrNonFiniteReal
		}
		b.WriteString(strconv.FormatFloat(r, 'g', -1, 64))
	case plist.KindBoolean:
		bv, _ := v.BooleanValue()
		b.WriteString(strconv.FormatBool(bv))
	case plist.KindData:
		data, _ := v.DataValue()
		writeString(b, base64.StdEncoding.EncodeToString(data))
	case plist.KindDate:
		d, _ := v.DateValue()
		writeString(b, d.UTC().Format(time.RFC3339))
	}
	return nil
}

func writeString(b *bytes.Buffer, s string) {
	// strings always marshal
	data, _ := json.Marshal(s)
	b.Write(data)
}
