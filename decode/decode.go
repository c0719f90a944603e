package decode

import (
	"bytes"
	"encoding"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"reflect"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	xencoding "golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"

	"github.com/goliatone/go-fetch/core"
)

var (
	utf8BOM = []byte{0xEF, 0xBB, 0xBF}

	timeType            = reflect.TypeOf(time.Time{})
	rawMessageType      = reflect.TypeOf(json.RawMessage(nil))
	textUnmarshalerType = reflect.TypeOf((*encoding.TextUnmarshaler)(nil)).Elem()
	jsonUnmarshalerType = reflect.TypeOf((*json.Unmarshaler)(nil)).Elem()
	jsonNumberType      = reflect.TypeOf(json.Number(""))
)

// Bytes decodes data into a new T.
func Bytes[T any](data []byte, opts Options) (T, error) {
	var out T
	if err := Into(data, &out, opts); err != nil {
		var zero T
		return zero, err
	}
	return out, nil
}

// String decodes text into a new T. Text is first encoded as opts.Encoding;
// characters the encoding cannot represent fail the decode.
func String[T any](text string, opts Options) (T, error) {
	data, err := fromText(text, opts.Encoding)
	if err != nil {
		var zero T
		return zero, core.DecodeFailure(err, reflect.TypeFor[T]().String())
	}
	return Bytes[T](data, opts)
}

// Into decodes data into target, which must be a non-nil pointer. Failures
// are reported as core.ErrorDecodeFailed and never include the payload.
func Into(data []byte, target any, opts Options) error {
	value := reflect.ValueOf(target)
	if target == nil || value.Kind() != reflect.Pointer || value.IsNil() {
		return core.DecodeFailure(errors.New("decode: target must be a non-nil pointer"), fmt.Sprintf("%T", target))
	}
	targetName := value.Type().Elem().String()

	payload, err := toUTF8(data, opts.Encoding)
	if err != nil {
		return core.DecodeFailure(err, targetName)
	}

	if opts.usesDecoderDefaults() {
		err = decodeStandard(payload, target, opts.DisallowUnknownFields)
	} else {
		err = decodeWithStrategies(payload, target, opts)
	}
	if err != nil {
		return core.DecodeFailure(err, targetName)
	}
	return nil
}

func decodeStandard(payload []byte, target any, disallowUnknown bool) error {
	if !disallowUnknown {
		return json.Unmarshal(payload, target)
	}
	decoder := json.NewDecoder(bytes.NewReader(payload))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(target); err != nil {
		return err
	}
	return ensureEOF(decoder)
}

func decodeWithStrategies(payload []byte, target any, opts Options) error {
	decoder := json.NewDecoder(bytes.NewReader(payload))
	decoder.UseNumber()
	var tree any
	if err := decoder.Decode(&tree); err != nil {
		return err
	}
	if err := ensureEOF(decoder); err != nil {
		return err
	}
	tree = rewriteKeys(tree, opts.Keys)

	ms, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:      target,
		TagName:     "json",
		Squash:      true,
		ErrorUnused: opts.DisallowUnknownFields,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			timeHook(opts.Dates),
			rawMessageHook(),
			jsonUnmarshalerHook(),
			bytesHook(opts.Data),
			textUnmarshalerHook(),
			numberHook(),
		),
	})
	if err != nil {
		return err
	}
	return ms.Decode(tree)
}

func ensureEOF(decoder *json.Decoder) error {
	if _, err := decoder.Token(); err != io.EOF {
		return errors.New("decode: unexpected data after top-level value")
	}
	return nil
}

func rewriteKeys(value any, strategy KeyStrategy) any {
	if strategy.kind == keysDefault {
		return value
	}
	switch typed := value.(type) {
	case map[string]any:
		out := make(map[string]any, len(typed))
		for key, item := range typed {
			out[strategy.apply(key)] = rewriteKeys(item, strategy)
		}
		return out
	case []any:
		out := make([]any, len(typed))
		for index, item := range typed {
			out[index] = rewriteKeys(item, strategy)
		}
		return out
	default:
		return value
	}
}

// lookupEncoding resolves label to an encoding. A nil encoding means utf-8.
func lookupEncoding(label string) (xencoding.Encoding, error) {
	label = strings.TrimSpace(label)
	if label == "" || strings.EqualFold(label, DefaultEncoding) || strings.EqualFold(label, "utf8") {
		return nil, nil
	}
	enc, err := htmlindex.Get(label)
	if err != nil {
		return nil, fmt.Errorf("decode: unsupported encoding %q: %w", label, err)
	}
	if name, _ := htmlindex.Name(enc); name == DefaultEncoding {
		return nil, nil
	}
	return enc, nil
}

func toUTF8(data []byte, label string) ([]byte, error) {
	enc, err := lookupEncoding(label)
	if err != nil {
		return nil, err
	}
	if enc == nil {
		return bytes.TrimPrefix(data, utf8BOM), nil
	}
	converted, err := enc.NewDecoder().Bytes(data)
	if err != nil {
		return nil, fmt.Errorf("decode: convert from %s: %w", label, err)
	}
	return bytes.TrimPrefix(converted, utf8BOM), nil
}

func fromText(text string, label string) ([]byte, error) {
	enc, err := lookupEncoding(label)
	if err != nil {
		return nil, err
	}
	if enc == nil {
		return []byte(text), nil
	}
	encoded, err := enc.NewEncoder().Bytes([]byte(text))
	if err != nil {
		return nil, fmt.Errorf("decode: convert to %s: %w", label, err)
	}
	return encoded, nil
}

func timeHook(strategy DateStrategy) mapstructure.DecodeHookFuncType {
	return func(_ reflect.Type, to reflect.Type, data any) (any, error) {
		if to != timeType {
			return data, nil
		}
		if _, ok := data.(time.Time); ok {
			return data, nil
		}
		return strategy.decode(data)
	}
}

func rawMessageHook() mapstructure.DecodeHookFuncType {
	return func(_ reflect.Type, to reflect.Type, data any) (any, error) {
		if to != rawMessageType {
			return data, nil
		}
		encoded, err := json.Marshal(data)
		if err != nil {
			return nil, err
		}
		return json.RawMessage(encoded), nil
	}
}

func bytesHook(strategy DataStrategy) mapstructure.DecodeHookFuncType {
	return func(from reflect.Type, to reflect.Type, data any) (any, error) {
		if to.Kind() != reflect.Slice || to.Elem().Kind() != reflect.Uint8 || to == rawMessageType {
			return data, nil
		}
		if data == nil || from == to {
			return data, nil
		}
		decoded, err := strategy.decode(data)
		if err != nil {
			return nil, err
		}
		return reflect.ValueOf(decoded).Convert(to).Interface(), nil
	}
}

// textUnmarshalerHook gives string-backed types such as enums the same
// UnmarshalText validation encoding/json applies.
func textUnmarshalerHook() mapstructure.DecodeHookFuncType {
	return func(_ reflect.Type, to reflect.Type, data any) (any, error) {
		text, ok := data.(string)
		if !ok || to == timeType || to.Kind() == reflect.Pointer {
			return data, nil
		}
		if !reflect.PointerTo(to).Implements(textUnmarshalerType) {
			return data, nil
		}
		target := reflect.New(to)
		if err := target.Interface().(encoding.TextUnmarshaler).UnmarshalText([]byte(text)); err != nil {
			return nil, err
		}
		return target.Elem().Interface(), nil
	}
}

// jsonUnmarshalerHook hands the subtree to types with their own UnmarshalJSON.
func jsonUnmarshalerHook() mapstructure.DecodeHookFuncType {
	return func(from reflect.Type, to reflect.Type, data any) (any, error) {
		if data == nil || from == to || to == timeType || to == rawMessageType {
			return data, nil
		}
		if to.Kind() == reflect.Pointer || to.Kind() == reflect.Interface {
			return data, nil
		}
		if !reflect.PointerTo(to).Implements(jsonUnmarshalerType) {
			return data, nil
		}
		encoded, err := json.Marshal(data)
		if err != nil {
			return nil, err
		}
		target := reflect.New(to)
		if err := target.Interface().(json.Unmarshaler).UnmarshalJSON(encoded); err != nil {
			return nil, err
		}
		return target.Elem().Interface(), nil
	}
}

// numberHook keeps encoding/json number rules: numbers never land in string
// fields and untyped targets receive float64.
func numberHook() mapstructure.DecodeHookFuncType {
	return func(_ reflect.Type, to reflect.Type, data any) (any, error) {
		if to == jsonNumberType {
			return data, nil
		}
		switch to.Kind() {
		case reflect.String:
			if number, ok := data.(json.Number); ok {
				return nil, fmt.Errorf("decode: cannot decode number %s into %s", number, to)
			}
		case reflect.Interface:
			return plainNumbers(data)
		}
		return data, nil
	}
}

func plainNumbers(value any) (any, error) {
	switch typed := value.(type) {
	case json.Number:
		return typed.Float64()
	case map[string]any:
		out := make(map[string]any, len(typed))
		for key, item := range typed {
			converted, err := plainNumbers(item)
			if err != nil {
				return nil, err
			}
			out[key] = converted
		}
		return out, nil
	case []any:
		out := make([]any, len(typed))
		for index, item := range typed {
			converted, err := plainNumbers(item)
			if err != nil {
				return nil, err
			}
			out[index] = converted
		}
		return out, nil
	default:
		return value, nil
	}
}
