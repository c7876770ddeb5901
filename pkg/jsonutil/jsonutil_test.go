package jsonutil

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func encode(t *testing.T, v any) string {
	t.Helper()
	b, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	return string(b)
}

func TestParseUntilUnescaped(t *testing.T) {
	object := map[string]any{"a": float64(1), "b": "x"}
	once := encode(t, object)
	twice := encode(t, once)
	thrice := encode(t, twice)

	tests := []struct {
		name string
		in   string
		want any
	}{
		{name: "plain object", in: once, want: object},
		{name: "double encoded", in: twice, want: object},
		{name: "triple encoded", in: thrice, want: object},
		{name: "array", in: `[1,"two",true]`, want: []any{float64(1), "two", true}},
		{name: "plain string", in: `"hello"`, want: "hello"},
		{name: "number", in: `42`, want: float64(42)},
		{name: "null", in: `null`, want: nil},
		{name: "malformed", in: `{"a":`, want: map[string]any{}},
		{name: "empty", in: ``, want: map[string]any{}},
		{name: "inner not json", in: encode(t, `{"a":"b`), want: `{"a":"b`},
		{name: "quoted text", in: `"he said \"hi\""`, want: `he said "hi"`},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, ParseUntilUnescaped(tt.in)); diff != "" {
				t.Fatalf("unexpected result (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParseUntilUnescapedSinglePassWithoutEscapes(t *testing.T) {
	in := `{"nested":{"list":[1,2,{"k":"v"}]},"flag":false}`
	var want any
	if err := json.Unmarshal([]byte(in), &want); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if diff := cmp.Diff(want, ParseUntilUnescaped(in)); diff != "" {
		t.Fatalf("unexpected result (-want +got):\n%s", diff)
	}
}

func TestParseUntilUnescapedIsBounded(t *testing.T) {
	s := `{"k":"v"}`
	for i := 0; i < maxDepth+4; i++ {
		s = encode(t, s)
	}
	if _, ok := ParseUntilUnescaped(s).(string); !ok {
		t.Fatalf("expected decoding to stop at a string once the depth bound is hit")
	}
}

func TestParseObject(t *testing.T) {
	if diff := cmp.Diff(map[string]any{"a": "b"}, ParseObject(encode(t, `{"a":"b"}`))); diff != "" {
		t.Fatalf("unexpected object (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(map[string]any{}, ParseObject(`[1,2]`)); diff != "" {
		t.Fatalf("non-object should decode empty (-want +got):\n%s", diff)
	}
}
