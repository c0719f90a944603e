package decode

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	goerrors "github.com/goliatone/go-errors"

	"github.com/goliatone/go-fetch/core"
)

type sex string

func (s *sex) UnmarshalText(text []byte) error {
	switch value := sex(text); value {
	case "male", "female":
		*s = value
		return nil
	default:
		return fmt.Errorf("unknown sex %q", string(text))
	}
}

type person struct {
	Sex    sex    `json:"sex"`
	Single bool   `json:"single"`
	Name   string `json:"name"`
}

func TestBytes_SamplePayload(t *testing.T) {
	got, err := Bytes[person]([]byte(`{"sex":"female","single":true,"name":"carl"}`), DefaultOptions())
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got != (person{Sex: "female", Single: true, Name: "carl"}) {
		t.Fatalf("unexpected value %+v", got)
	}
}

func TestBytes_RoundTrip(t *testing.T) {
	type record struct {
		ID      int               `json:"id"`
		Tags    []string          `json:"tags"`
		Attrs   map[string]string `json:"attrs"`
		Created time.Time         `json:"created"`
		Blob    []byte            `json:"blob"`
	}
	want := record{
		ID:      9,
		Tags:    []string{"a", "b"},
		Attrs:   map[string]string{"k": "v"},
		Created: time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC),
		Blob:    []byte{0, 1, 254, 255},
	}
	encoded, err := json.Marshal(want)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	got, err := Bytes[record](encoded, DefaultOptions())
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.ID != want.ID || !got.Created.Equal(want.Created) || string(got.Blob) != string(want.Blob) ||
		len(got.Tags) != 2 || got.Attrs["k"] != "v" {
		t.Fatalf("round trip mismatch: %+v", got)
	}
}

func TestBytes_FailuresAreDecodeErrors(t *testing.T) {
	cases := map[string]string{
		"malformed":     `{"sex":`,
		"enum":          `{"sex":"other","single":true,"name":"x"}`,
		"type mismatch": `{"single":"yes"}`,
		"empty":         ``,
	}
	for name, payload := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Bytes[person]([]byte(payload), DefaultOptions())
			if !core.IsKind(err, core.ErrorDecodeFailed) {
				t.Fatalf("expected decode failure, got %v", err)
			}
			var rich *goerrors.Error
			if !goerrors.As(err, &rich) {
				t.Fatalf("expected go-errors envelope")
			}
			if rich.Metadata["target"] != "decode.person" {
				t.Fatalf("unexpected target %#v", rich.Metadata["target"])
			}
		})
	}
}

func TestBytes_DisallowUnknownFields(t *testing.T) {
	payload := []byte(`{"sex":"male","single":false,"name":"x","extra":1}`)
	if _, err := Bytes[person](payload, DefaultOptions()); err != nil {
		t.Fatalf("expected unknown field to be ignored by default, got %v", err)
	}
	strict := DefaultOptions()
	strict.DisallowUnknownFields = true
	if _, err := Bytes[person](payload, strict); !core.IsKind(err, core.ErrorDecodeFailed) {
		t.Fatalf("expected strict decode to fail, got %v", err)
	}
	strict.Keys = ConvertFromSnakeCase
	if _, err := Bytes[person](payload, strict); !core.IsKind(err, core.ErrorDecodeFailed) {
		t.Fatalf("expected strict strategy decode to fail, got %v", err)
	}
}

func TestBytes_TrailingDataFailsInStrictMode(t *testing.T) {
	strict := Options{DisallowUnknownFields: true}
	if _, err := Bytes[person]([]byte(`{"name":"a"} {"name":"b"}`), strict); err == nil {
		t.Fatalf("expected trailing data to fail")
	}
}

func TestKeyStrategies(t *testing.T) {
	type account struct {
		FirstName string `json:"firstName"`
		LastName  string
		HomeAddr  struct {
			ZipCode string `json:"zipCode"`
		} `json:"homeAddr"`
		Aliases []struct {
			DisplayName string `json:"displayName"`
		} `json:"aliases"`
	}

	snake := []byte(`{"first_name":"ada","last_name":"lovelace","home_addr":{"zip_code":"N1"},"aliases":[{"display_name":"countess"}]}`)
	got, err := Bytes[account](snake, Options{Keys: ConvertFromSnakeCase})
	if err != nil {
		t.Fatalf("snake decode: %v", err)
	}
	if got.FirstName != "ada" || got.LastName != "lovelace" || got.HomeAddr.ZipCode != "N1" || got.Aliases[0].DisplayName != "countess" {
		t.Fatalf("unexpected snake decode %+v", got)
	}

	kebab := []byte(`{"first-name":"grace","last-name":"hopper"}`)
	got, err = Bytes[account](kebab, Options{Keys: ConvertFromKebabCase})
	if err != nil {
		t.Fatalf("kebab decode: %v", err)
	}
	if got.FirstName != "grace" || got.LastName != "hopper" {
		t.Fatalf("unexpected kebab decode %+v", got)
	}

	custom := CustomKeys(func(key string) string { return strings.TrimPrefix(key, "x_") })
	got, err = Bytes[account]([]byte(`{"x_firstName":"alan"}`), Options{Keys: custom})
	if err != nil {
		t.Fatalf("custom decode: %v", err)
	}
	if got.FirstName != "alan" {
		t.Fatalf("unexpected custom decode %+v", got)
	}
}

func TestFromDelimited_KeepsEdgeDelimiters(t *testing.T) {
	cases := map[string]string{
		"first_name":  "firstName",
		"_private_id": "_privateId",
		"trailing_":   "trailing_",
		"plain":       "plain",
		"__":          "__",
	}
	for input, want := range cases {
		if got := fromDelimited(input, '_'); got != want {
			t.Fatalf("%q: expected %q, got %q", input, want, got)
		}
	}
}

func TestDateStrategies(t *testing.T) {
	type event struct {
		At time.Time `json:"at"`
	}
	want := time.Date(2021, 1, 2, 3, 4, 5, 0, time.UTC)

	cases := []struct {
		name    string
		payload string
		opts    Options
	}{
		{name: "deferred", payload: `{"at":"2021-01-02T03:04:05Z"}`, opts: DefaultOptions()},
		{name: "iso8601", payload: `{"at":"2021-01-02T03:04:05Z"}`, opts: Options{Dates: ISO8601}},
		{name: "seconds", payload: fmt.Sprintf(`{"at":%d}`, want.Unix()), opts: Options{Dates: SecondsSince1970}},
		{name: "milliseconds", payload: fmt.Sprintf(`{"at":%d}`, want.UnixMilli()), opts: Options{Dates: MillisecondsSince1970}},
		{name: "formatted", payload: `{"at":"02/01/2021 03:04:05"}`, opts: Options{Dates: FormattedDates("02/01/2006 15:04:05")}},
		{name: "custom", payload: `{"at":"epoch+1609556645"}`, opts: Options{Dates: CustomDates(func(value any) (time.Time, error) {
			text, _ := value.(string)
			var seconds int64
			if _, err := fmt.Sscanf(text, "epoch+%d", &seconds); err != nil {
				return time.Time{}, err
			}
			return time.Unix(seconds, 0).UTC(), nil
		})}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Bytes[event]([]byte(tc.payload), tc.opts)
			if err != nil {
				t.Fatalf("decode: %v", err)
			}
			if !got.At.Equal(want) {
				t.Fatalf("expected %s, got %s", want, got.At)
			}
		})
	}
}

func TestDateStrategies_FractionalSeconds(t *testing.T) {
	type event struct {
		At time.Time `json:"at"`
	}
	got, err := Bytes[event]([]byte(`{"at":1.5}`), Options{Dates: SecondsSince1970})
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.At.UnixMilli() != 1500 {
		t.Fatalf("expected 1500ms, got %d", got.At.UnixMilli())
	}
	if _, err := Bytes[event]([]byte(`{"at":"soon"}`), Options{Dates: SecondsSince1970}); !core.IsKind(err, core.ErrorDecodeFailed) {
		t.Fatalf("expected decode failure for non numeric date, got %v", err)
	}
}

func TestDataStrategies(t *testing.T) {
	type blob struct {
		Data []byte `json:"data"`
	}

	got, err := Bytes[blob]([]byte(`{"data":[0,127,255]}`), Options{Data: ByteArray})
	if err != nil {
		t.Fatalf("byte array decode: %v", err)
	}
	if string(got.Data) != string([]byte{0, 127, 255}) {
		t.Fatalf("unexpected bytes %v", got.Data)
	}
	if _, err := Bytes[blob]([]byte(`{"data":[256]}`), Options{Data: ByteArray}); !core.IsKind(err, core.ErrorDecodeFailed) {
		t.Fatalf("expected out of range byte to fail, got %v", err)
	}

	hex := CustomData(func(value any) ([]byte, error) {
		text, ok := value.(string)
		if !ok {
			return nil, errors.New("expected string")
		}
		var out []byte
		_, err := fmt.Sscanf(text, "%x", &out)
		return out, err
	})
	got, err = Bytes[blob]([]byte(`{"data":"cafe"}`), Options{Data: hex})
	if err != nil {
		t.Fatalf("custom decode: %v", err)
	}
	if string(got.Data) != string([]byte{0xca, 0xfe}) {
		t.Fatalf("unexpected custom bytes %v", got.Data)
	}
}

func TestStrategyPath_KeepsTextUnmarshalerAndRawMessage(t *testing.T) {
	type envelope struct {
		Sex     sex             `json:"sex"`
		Payload json.RawMessage `json:"payload"`
		Count   int64           `json:"count"`
	}
	got, err := Bytes[envelope]([]byte(`{"sex":"male","payload":{"a":[1,2]},"count":12}`), Options{Keys: ConvertFromSnakeCase})
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Sex != "male" || got.Count != 12 {
		t.Fatalf("unexpected value %+v", got)
	}
	if string(got.Payload) != `{"a":[1,2]}` {
		t.Fatalf("unexpected raw payload %s", got.Payload)
	}
	if _, err := Bytes[envelope]([]byte(`{"sex":"other"}`), Options{Keys: ConvertFromSnakeCase}); !core.IsKind(err, core.ErrorDecodeFailed) {
		t.Fatalf("expected enum validation on strategy path, got %v", err)
	}
}

func TestBytes_TranscodesFromEncoding(t *testing.T) {
	type label struct {
		Name string `json:"name"`
	}

	latin1 := []byte{'{', '"', 'n', 'a', 'm', 'e', '"', ':', '"', 'c', 'a', 'f', 0xe9, '"', '}'}
	got, err := Bytes[label](latin1, Options{Encoding: "iso-8859-1"})
	if err != nil {
		t.Fatalf("latin1 decode: %v", err)
	}
	if got.Name != "café" {
		t.Fatalf("expected café, got %q", got.Name)
	}
}

func TestString_Encodings(t *testing.T) {
	type label struct {
		Name string `json:"name"`
	}

	cases := map[string]struct {
		text     string
		encoding string
		want     string
	}{
		"latin1":   {text: `{"name":"café"}`, encoding: "iso-8859-1", want: "café"},
		"utf-16le": {text: `{"name":"abc"}`, encoding: "utf-16le", want: "abc"},
		"utf-16be": {text: `{"name":"añb"}`, encoding: "utf-16be", want: "añb"},
		"utf-8":    {text: `{"name":"日本"}`, encoding: "utf-8", want: "日本"},
		"bom":      {text: "\ufeff{\"name\":\"bom\"}", want: "bom"},
	}
	for name, tc := range cases {
		got, err := String[label](tc.text, Options{Encoding: tc.encoding})
		if err != nil {
			t.Fatalf("%s: decode: %v", name, err)
		}
		if got.Name != tc.want {
			t.Fatalf("%s: expected %q, got %q", name, tc.want, got.Name)
		}
	}
}

type shout string

func (s *shout) UnmarshalJSON(data []byte) error {
	var text string
	if err := json.Unmarshal(data, &text); err != nil {
		return err
	}
	*s = shout(strings.ToUpper(text))
	return nil
}

type point struct {
	X, Y int
}

func (p *point) UnmarshalJSON(data []byte) error {
	var pair [2]int
	if err := json.Unmarshal(data, &pair); err != nil {
		return err
	}
	p.X, p.Y = pair[0], pair[1]
	return nil
}

func TestStrategyPath_MatchesDefaultPath(t *testing.T) {
	type record struct {
		FirstName shout  `json:"firstName"`
		Origin    point  `json:"origin"`
		Extra     any    `json:"extra"`
		Label     string `json:"label"`
	}
	paths := map[string]struct {
		payload string
		opts    Options
	}{
		"default": {payload: `{"firstName":"carl","origin":[3,4],"extra":{"n":[1,2.5]},"label":"x"}`, opts: DefaultOptions()},
		"snake":   {payload: `{"first_name":"carl","origin":[3,4],"extra":{"n":[1,2.5]},"label":"x"}`, opts: Options{Keys: ConvertFromSnakeCase}},
	}
	for name, path := range paths {
		got, err := Bytes[record]([]byte(path.payload), path.opts)
		if err != nil {
			t.Fatalf("%s: decode: %v", name, err)
		}
		if got.FirstName != "CARL" {
			t.Fatalf("%s: expected UnmarshalJSON to run, got %q", name, got.FirstName)
		}
		if got.Origin != (point{X: 3, Y: 4}) {
			t.Fatalf("%s: unexpected origin %+v", name, got.Origin)
		}
		extra, ok := got.Extra.(map[string]any)
		if !ok {
			t.Fatalf("%s: unexpected extra %#v", name, got.Extra)
		}
		numbers, ok := extra["n"].([]any)
		if !ok || len(numbers) != 2 || numbers[0] != float64(1) || numbers[1] != 2.5 {
			t.Fatalf("%s: expected float64 numbers, got %#v", name, extra["n"])
		}
	}
}

func TestStrategyPath_RejectsNumberIntoString(t *testing.T) {
	type counter struct {
		Count string `json:"count"`
	}
	for name, opts := range map[string]Options{
		"default": DefaultOptions(),
		"snake":   {Keys: ConvertFromSnakeCase},
		"seconds": {Dates: SecondsSince1970},
	} {
		if _, err := Bytes[counter]([]byte(`{"count":12}`), opts); !core.IsKind(err, core.ErrorDecodeFailed) {
			t.Fatalf("%s: expected number into string to fail, got %v", name, err)
		}
	}
}

func TestString_EncodingFailures(t *testing.T) {
	type label struct {
		Name string `json:"name"`
	}

	_, err := String[label](`{"name":"日本"}`, Options{Encoding: "iso-8859-1"})
	if !core.IsKind(err, core.ErrorDecodeFailed) {
		t.Fatalf("expected unrepresentable text to fail, got %v", err)
	}
	var rich *goerrors.Error
	if !goerrors.As(err, &rich) || rich.Metadata["target"] != "decode.label" {
		t.Fatalf("expected target metadata, got %v", err)
	}

	if _, err := String[label](`{"name":"x"}`, Options{Encoding: "klingon"}); !core.IsKind(err, core.ErrorDecodeFailed) {
		t.Fatalf("expected unknown encoding to fail, got %v", err)
	}
}

func TestInto_RequiresPointer(t *testing.T) {
	var target person
	if err := Into([]byte(`{}`), target, DefaultOptions()); !core.IsKind(err, core.ErrorDecodeFailed) {
		t.Fatalf("expected non pointer target to fail, got %v", err)
	}
	if err := Into([]byte(`{}`), nil, DefaultOptions()); !core.IsKind(err, core.ErrorDecodeFailed) {
		t.Fatalf("expected nil target to fail, got %v", err)
	}
	if err := Into([]byte(`{"name":"z"}`), &target, DefaultOptions()); err != nil || target.Name != "z" {
		t.Fatalf("expected pointer decode, got %+v (%v)", target, err)
	}
}

func TestStrategyDescriptions(t *testing.T) {
	if ConvertFromSnakeCase.String() != "convert_from_snake_case" ||
		FormattedDates("2006").String() != "formatted(2006)" ||
		ByteArray.String() != "byte_array" {
		t.Fatalf("unexpected strategy descriptions")
	}
}
