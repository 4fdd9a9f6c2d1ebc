package mutter

import (
	"math"
	"strconv"

	"github.com/godbus/dbus/v5"

	"github.com/1broseidon/displaypresets/internal/display"
)

// ScalarKind classifies a property value carried in an a{sv} map.
type ScalarKind int

const (
	ScalarOther ScalarKind = iota
	ScalarString
	ScalarInteger
)

// Scalar is the projection of a D-Bus variant onto the kinds the property
// bag can keep.
type Scalar struct {
	Kind ScalarKind
	Str  string
	Int  int64
}

// ScalarOf classifies a variant. Nested variants are unwrapped first.
func ScalarOf(v dbus.Variant) Scalar {
	return classify(v.Value())
}

func classify(v any) Scalar {
	switch x := v.(type) {
	case dbus.Variant:
		return classify(x.Value())
	case string:
		return Scalar{Kind: ScalarString, Str: x}
	case dbus.ObjectPath:
		return Scalar{Kind: ScalarString, Str: string(x)}
	case dbus.Signature:
		return Scalar{Kind: ScalarString, Str: x.String()}
	case bool:
		if x {
			return Scalar{Kind: ScalarInteger, Int: 1}
		}
		return Scalar{Kind: ScalarInteger, Int: 0}
	case byte:
		return Scalar{Kind: ScalarInteger, Int: int64(x)}
	case int16:
		return Scalar{Kind: ScalarInteger, Int: int64(x)}
	case uint16:
		return Scalar{Kind: ScalarInteger, Int: int64(x)}
	case int32:
		return Scalar{Kind: ScalarInteger, Int: int64(x)}
	case uint32:
		return Scalar{Kind: ScalarInteger, Int: int64(x)}
	case int64:
		return Scalar{Kind: ScalarInteger, Int: x}
	case uint64:
		if x > math.MaxInt64 {
			return Scalar{Kind: ScalarOther}
		}
		return Scalar{Kind: ScalarInteger, Int: int64(x)}
	case int:
		return Scalar{Kind: ScalarInteger, Int: int64(x)}
	default:
		return Scalar{Kind: ScalarOther}
	}
}

// Project returns the string form kept in a property bag. Other kinds are
// not preserved.
func (s Scalar) Project() (string, bool) {
	switch s.Kind {
	case ScalarString:
		return s.Str, true
	case ScalarInteger:
		return strconv.FormatInt(s.Int, 10), true
	default:
		return "", false
	}
}

// DecodeProperties projects an a{sv} map onto a property bag, dropping
// values that are neither strings nor integers.
func DecodeProperties(m map[string]dbus.Variant) display.Properties {
	props := make(display.Properties, len(m))
	for key, v := range m {
		if s, ok := ScalarOf(v).Project(); ok {
			props[key] = s
		}
	}
	return props
}

// EncodeProperties turns a property bag back into string variants.
func EncodeProperties(props display.Properties) map[string]dbus.Variant {
	out := make(map[string]dbus.Variant, len(props))
	for key, v := range props {
		out[key] = dbus.MakeVariant(v)
	}
	return out
}
