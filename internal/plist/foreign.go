package plist

import (
	"fmt"
	"math"
	"slices"
	"time"

	howett "howett.net/plist"
)

// parseForeign decodes binary and OpenStep documents. The decoder produces
// Go maps, so dictionary keys come back sorted.
func parseForeign(data []byte, format Format) (*Value, error) {
	var raw interface{}
	if _, err := howett.Unmarshal(data, &raw); err != nil {
		return nil, &ParseError{Format: format, Offset: -1, Err: err}
	}
	if raw == nil {
		return nil, &ParseError{Format: format, Offset: -1, Err: ErrEmptyDocument}
	}
	v, err := fromNative(raw)
	if err != nil {
		return nil, &ParseError{Format: format, Offset: -1, Err: err}
	}
	return v, nil
}

func fromNative(raw interface{}) (*Value, error) {
	switch x := raw.(type) {
	case string:
		return String(x), nil
	case bool:
		return Boolean(x), nil
	case int64:
		return Integer(x), nil
	case uint64:
		if x > math.MaxInt64 {
			return nil, fmt.Errorf("integer %d overflows int64", x)
		}
		return Integer(int64(x)), nil
	case float64:
		return Real(x), nil
	case float32:
		return Real(float64(x)), nil
	case []byte:
		return Data(x), nil
	case time.Time:
		return Date(x), nil
	case howett.UID:
		return Integer(int64(x)), nil
	case []interface{}:
		arr := NewArray()
		for _, e := range x {
			v, err := fromNative(e)
			if err != nil {
				return nil, err
			}
			arr.array = append(arr.array, v)
		}
		return arr, nil
	case map[string]interface{}:
		dict := NewDictionary()
		keys := make([]string, 0, len(x))
		for k := range x {
			keys = append(keys, k)
		}
		slices.Sort(keys)
		for _, k := range keys {
			v, err := fromNative(x[k])
			if err != nil {
				return nil, err
			}
			dict.dict.Set(k, v)
		}
		return dict, nil
	default:
		return nil, fmt.Errorf("unsupported plist value of type %T", raw)
	}
}

func serializeBinary(v *Value) ([]byte, error) {
	out, err := howett.Marshal(toNative(v), howett.BinaryFormat)
	if err != nil {
		return nil, fmt.Errorf("encode binary plist: %w", err)
	}
	return out, nil
}

func toNative(v *Value) interface{} {
	switch v.kind {
	case KindString:
		return v.str
	case KindInteger:
		return v.integer
	case KindReal:
		return v.real
	case KindBoolean:
		return v.boolean
	case KindData:
		return v.data
	case KindDate:
		return v.date
	case KindArray:
		arr := make([]interface{}, len(v.array))
		for i, e := range v.array {
			arr[i] = toNative(e)
		}
		return arr
	default:
		m := make(map[string]interface{}, v.dict.Len())
		for _, k := range v.dict.keys {
			m[k] = toNative(v.dict.values[k])
		}
		return m
	}
}
