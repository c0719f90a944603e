package decode

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/stoewer/go-strcase"
)

const DefaultEncoding = "utf-8"

// Options configures how payload bytes become a typed value. The zero value
// uses the decoder defaults for every knob.
type Options struct {
	// Encoding is the charset label of the input (WHATWG/IANA names such as
	// "utf-8", "iso-8859-1", "utf-16le"). Empty means utf-8.
	Encoding string
	// Keys rewrites object keys before they are matched to fields.
	Keys KeyStrategy
	// Dates controls how time.Time fields are parsed.
	Dates DateStrategy
	// Data controls how []byte fields are parsed.
	Data DataStrategy
	// DisallowUnknownFields fails the decode when an object key has no
	// matching field.
	DisallowUnknownFields bool
}

func DefaultOptions() Options {
	return Options{Encoding: DefaultEncoding}
}

func (o Options) usesDecoderDefaults() bool {
	return o.Keys.kind == keysDefault &&
		o.Dates.kind == datesDeferred &&
		o.Data.kind == dataBase64
}

type keyKind int

const (
	keysDefault keyKind = iota
	keysSnake
	keysKebab
	keysCustom
)

// KeyStrategy selects the object key convention of the payload.
type KeyStrategy struct {
	kind    keyKind
	convert func(string) string
}

var (
	// UseDefaultKeys matches keys to fields as they are.
	UseDefaultKeys = KeyStrategy{kind: keysDefault}
	// ConvertFromSnakeCase maps "first_name" to "firstName".
	ConvertFromSnakeCase = KeyStrategy{kind: keysSnake}
	// ConvertFromKebabCase maps "first-name" to "firstName".
	ConvertFromKebabCase = KeyStrategy{kind: keysKebab}
)

// CustomKeys rewrites every object key with fn.
func CustomKeys(fn func(key string) string) KeyStrategy {
	if fn == nil {
		return UseDefaultKeys
	}
	return KeyStrategy{kind: keysCustom, convert: fn}
}

func (s KeyStrategy) String() string {
	switch s.kind {
	case keysSnake:
		return "convert_from_snake_case"
	case keysKebab:
		return "convert_from_kebab_case"
	case keysCustom:
		return "custom"
	default:
		return "use_default_keys"
	}
}

func (s KeyStrategy) apply(key string) string {
	switch s.kind {
	case keysSnake:
		return fromDelimited(key, '_')
	case keysKebab:
		return fromDelimited(key, '-')
	case keysCustom:
		return s.convert(key)
	default:
		return key
	}
}

// fromDelimited camel-cases the inner part of key and keeps leading and
// trailing delimiters.
func fromDelimited(key string, delimiter byte) string {
	if !strings.Contains(key, string(delimiter)) {
		return key
	}
	start := 0
	for start < len(key) && key[start] == delimiter {
		start++
	}
	end := len(key)
	for end > start && key[end-1] == delimiter {
		end--
	}
	if start >= end {
		return key
	}
	return key[:start] + strcase.LowerCamelCase(key[start:end]) + key[end:]
}

type dateKind int

const (
	datesDeferred dateKind = iota
	datesISO8601
	datesSeconds
	datesMilliseconds
	datesFormatted
	datesCustom
)

// DateStrategy selects how time.Time values are read from the payload.
type DateStrategy struct {
	kind   dateKind
	layout string
	parse  func(value any) (time.Time, error)
}

var (
	// DeferredToTime keeps the time.Time JSON behaviour: RFC 3339 strings.
	DeferredToTime = DateStrategy{kind: datesDeferred}
	// ISO8601 accepts RFC 3339 strings with or without fractional seconds.
	ISO8601 = DateStrategy{kind: datesISO8601}
	// SecondsSince1970 reads numbers as Unix seconds.
	SecondsSince1970 = DateStrategy{kind: datesSeconds}
	// MillisecondsSince1970 reads numbers as Unix milliseconds.
	MillisecondsSince1970 = DateStrategy{kind: datesMilliseconds}
)

// FormattedDates parses strings with a time.Parse layout.
func FormattedDates(layout string) DateStrategy {
	return DateStrategy{kind: datesFormatted, layout: layout}
}

// CustomDates hands the raw JSON value (string, json.Number, bool, nil,
// map or slice) to fn.
func CustomDates(fn func(value any) (time.Time, error)) DateStrategy {
	if fn == nil {
		return DeferredToTime
	}
	return DateStrategy{kind: datesCustom, parse: fn}
}

func (s DateStrategy) String() string {
	switch s.kind {
	case datesISO8601:
		return "iso8601"
	case datesSeconds:
		return "seconds_since_1970"
	case datesMilliseconds:
		return "milliseconds_since_1970"
	case datesFormatted:
		return "formatted(" + s.layout + ")"
	case datesCustom:
		return "custom"
	default:
		return "deferred_to_time"
	}
}

func (s DateStrategy) decode(value any) (time.Time, error) {
	switch s.kind {
	case datesSeconds, datesMilliseconds:
		number, err := asFloat(value)
		if err != nil {
			return time.Time{}, err
		}
		if s.kind == datesMilliseconds {
			number /= 1000
		}
		return unixSeconds(number), nil
	case datesFormatted:
		text, ok := value.(string)
		if !ok {
			return time.Time{}, fmt.Errorf("decode: expected date string, got %T", value)
		}
		return time.Parse(s.layout, text)
	case datesCustom:
		return s.parse(value)
	default:
		text, ok := value.(string)
		if !ok {
			return time.Time{}, fmt.Errorf("decode: expected RFC 3339 date string, got %T", value)
		}
		return time.Parse(time.RFC3339Nano, text)
	}
}

type dataKind int

const (
	dataBase64 dataKind = iota
	dataByteArray
	dataCustom
)

// DataStrategy selects how []byte values are read from the payload.
type DataStrategy struct {
	kind  dataKind
	parse func(value any) ([]byte, error)
}

var (
	// Base64 reads standard base64 strings, the encoding/json default.
	Base64 = DataStrategy{kind: dataBase64}
	// ByteArray reads JSON arrays of integers in 0..255.
	ByteArray = DataStrategy{kind: dataByteArray}
)

// CustomData hands the raw JSON value to fn.
func CustomData(fn func(value any) ([]byte, error)) DataStrategy {
	if fn == nil {
		return Base64
	}
	return DataStrategy{kind: dataCustom, parse: fn}
}

func (s DataStrategy) String() string {
	switch s.kind {
	case dataByteArray:
		return "byte_array"
	case dataCustom:
		return "custom"
	default:
		return "base64"
	}
}

func (s DataStrategy) decode(value any) ([]byte, error) {
	switch s.kind {
	case dataByteArray:
		items, ok := value.([]any)
		if !ok {
			return nil, fmt.Errorf("decode: expected byte array, got %T", value)
		}
		out := make([]byte, len(items))
		for index, item := range items {
			number, err := asInt(item)
			if err != nil {
				return nil, err
			}
			if number < 0 || number > 255 {
				return nil, fmt.Errorf("decode: byte value %d at index %d out of range", number, index)
			}
			out[index] = byte(number)
		}
		return out, nil
	case dataCustom:
		return s.parse(value)
	default:
		text, ok := value.(string)
		if !ok {
			return nil, fmt.Errorf("decode: expected base64 string, got %T", value)
		}
		return base64.StdEncoding.DecodeString(text)
	}
}

func unixSeconds(seconds float64) time.Time {
	whole := math.Floor(seconds)
	nanos := math.Round((seconds - whole) * float64(time.Second))
	return time.Unix(int64(whole), int64(nanos)).UTC()
}

func asFloat(value any) (float64, error) {
	switch typed := value.(type) {
	case json.Number:
		return typed.Float64()
	case float64:
		return typed, nil
	case string:
		return strconv.ParseFloat(typed, 64)
	default:
		return 0, fmt.Errorf("decode: expected number, got %T", value)
	}
}

func asInt(value any) (int64, error) {
	switch typed := value.(type) {
	case json.Number:
		return typed.Int64()
	case float64:
		if typed != float64(int64(typed)) {
			return 0, errors.New("decode: expected integer")
		}
		return int64(typed), nil
	default:
		return 0, fmt.Errorf("decode: expected integer, got %T", value)
	}
}
