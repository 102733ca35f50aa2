package serial

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/voidreach/serial/internal/testutil/testlog"
)

func xmlPath(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "test.xml")
}

func roundTripXML[T any](t *testing.T, in T) T {
	t.Helper()
	path := xmlPath(t)
	if err := SerializeXML(in, path); err != nil {
		t.Fatalf("serialize %#v: %v", in, err)
	}
	var out T
	if err := DeserializeXML(&out, path); err != nil {
		t.Fatalf("deserialize into %T: %v", &out, err)
	}
	return out
}

func TestXMLScalarRoundTrip(t *testing.T) {
	testlog.Start(t)
	if got := roundTripXML(t, 5); got != 5 {
		t.Fatalf("int: got %d", got)
	}
	if got := roundTripXML(t, int32(-77)); got != -77 {
		t.Fatalf("int32: got %d", got)
	}
	if got := roundTripXML(t, uint16(65535)); got != 65535 {
		t.Fatalf("uint16: got %d", got)
	}
	if got := roundTripXML(t, float32(1.414)); got != float32(1.414) {
		t.Fatalf("float32: got %v", got)
	}
	if got := roundTripXML(t, 3.14159); got != 3.14159 {
		t.Fatalf("float64: got %v", got)
	}
	if got := roundTripXML(t, true); !got {
		t.Fatalf("bool: got %v", got)
	}
	if got := roundTripXML(t, "avada kedavra"); got != "avada kedavra" {
		t.Fatalf("string: got %q", got)
	}
}

func TestXMLStringEscaping(t *testing.T) {
	s := `<&>"'`
	if got := roundTripXML(t, s); got != s {
		t.Fatalf("got %q want %q", got, s)
	}
}

func TestXMLContainersRoundTrip(t *testing.T) {
	testlog.Start(t)
	vec := roundTripXML(t, []float64{3.14, 3.15, 3.16})
	if len(vec) != 3 || vec[0] != 3.14 || vec[2] != 3.16 {
		t.Fatalf("vector: got %v", vec)
	}

	m := roundTripXML(t, map[string]uint8{"ZJU": 'z', "apple": 'a', "banana": 'b'})
	if len(m) != 3 || m["ZJU"] != 'z' || m["banana"] != 'b' {
		t.Fatalf("map: got %v", m)
	}

	p := roundTripXML(t, Pair[string, float64]{First: "ZJU", Second: 1.1})
	if p.First != "ZJU" || p.Second != 1.1 {
		t.Fatalf("pair: got %v", p)
	}

	set := roundTripXML(t, NewSet(2, 1, 3))
	if len(set) != 3 || !set.Has(1) || !set.Has(2) || !set.Has(3) {
		t.Fatalf("set: got %v", set)
	}

	nested := roundTripXML(t, [][]int{{1, 3, 5}, {2, 4}})
	if len(nested) != 2 || nested[0][2] != 5 || nested[1][1] != 4 {
		t.Fatalf("nested: got %v", nested)
	}
}

func TestXMLEmptyVector(t *testing.T) {
	if got := roundTripXML(t, []int{}); len(got) != 0 {
		t.Fatalf("got %v", got)
	}
}

func TestXMLMultipleFieldsInOrder(t *testing.T) {
	path := xmlPath(t)
	enc := NewXMLEncoder(path, ModeText)
	if err := enc.Encode(42); err != nil {
		t.Fatalf("encode int: %v", err)
	}
	if err := enc.Encode("forty-two"); err != nil {
		t.Fatalf("encode string: %v", err)
	}
	if err := enc.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	dec, err := NewXMLDecoder(path, ModeText)
	if err != nil {
		t.Fatalf("open decoder: %v", err)
	}
	var n int
	if err := dec.Decode(&n); err != nil || n != 42 {
		t.Fatalf("first field: %d %v", n, err)
	}
	var s string
	if err := dec.Decode(&s); err != nil || s != "forty-two" {
		t.Fatalf("second field: %q %v", s, err)
	}
}

func TestXMLFieldCursorExhaustion(t *testing.T) {
	path := xmlPath(t)
	if err := SerializeXML(7, path); err != nil {
		t.Fatalf("serialize: %v", err)
	}
	dec, err := NewXMLDecoder(path, ModeText)
	if err != nil {
		t.Fatalf("open decoder: %v", err)
	}
	var x int
	if err := dec.Decode(&x); err != nil {
		t.Fatalf("first decode: %v", err)
	}
	if err := dec.Decode(&x); !errors.Is(err, ErrStructure) {
		t.Fatalf("expected ErrStructure, got %v", err)
	}
}

func TestXMLMissingRootIsStructural(t *testing.T) {
	path := xmlPath(t)
	if err := os.WriteFile(path, []byte("<other><field val=\"1\"/></other>"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	_, err := NewXMLDecoder(path, ModeText)
	if !errors.Is(err, ErrStructure) {
		t.Fatalf("expected ErrStructure, got %v", err)
	}
}

func TestXMLMissingFieldIsStructural(t *testing.T) {
	path := xmlPath(t)
	if err := os.WriteFile(path, []byte("<serialization></serialization>"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	_, err := NewXMLDecoder(path, ModeText)
	if !errors.Is(err, ErrStructure) {
		t.Fatalf("expected ErrStructure, got %v", err)
	}
}

func TestXMLMissingFileIsIOError(t *testing.T) {
	_, err := NewXMLDecoder(filepath.Join(t.TempDir(), "absent.xml"), ModeText)
	if !errors.Is(err, ErrIO) {
		t.Fatalf("expected ErrIO, got %v", err)
	}
}

func TestXMLShapeMismatchIsStructural(t *testing.T) {
	path := xmlPath(t)
	if err := SerializeXML(5, path); err != nil {
		t.Fatalf("serialize: %v", err)
	}
	var out []int
	err := DeserializeXML(&out, path)
	if !errors.Is(err, ErrStructure) {
		t.Fatalf("expected ErrStructure, got %v", err)
	}
}

// Attribute values pass through a float64 intermediate on read, so
// integral magnitudes beyond 2^53 narrow. The behavior is part of the
// document format's contract.
func TestXMLScalarPrecisionQuirk(t *testing.T) {
	path := xmlPath(t)
	in := int64(1<<60 + 1)
	if err := SerializeXML(in, path); err != nil {
		t.Fatalf("serialize: %v", err)
	}
	var out int64
	if err := DeserializeXML(&out, path); err != nil {
		t.Fatalf("deserialize: %v", err)
	}
	if want := int64(float64(in)); out != want {
		t.Fatalf("got %d want %d", out, want)
	}
	if out == in {
		t.Fatal("expected narrowing for a value above 2^53")
	}
}

func TestXMLBoolAttributeIsNumeric(t *testing.T) {
	path := xmlPath(t)
	if err := SerializeXML(true, path); err != nil {
		t.Fatalf("serialize: %v", err)
	}
	text, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !strings.Contains(string(text), `val="1"`) {
		t.Fatalf("bool not stored as 1: %s", text)
	}
}

func TestXMLBase64ModeRoundTrip(t *testing.T) {
	testlog.Start(t)
	path := filepath.Join(t.TempDir(), "test.bxml")
	in := map[string][]int{"odds": {1, 3}, "evens": {2, 4}}
	if err := SerializeXMLBase64(in, path); err != nil {
		t.Fatalf("serialize: %v", err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if strings.ContainsAny(string(raw), "<>") {
		t.Fatal("base64 mode leaked raw XML text")
	}
	text, err := DecodeBase64(string(raw))
	if err != nil {
		t.Fatalf("file content is not valid base64: %v", err)
	}
	if !strings.Contains(string(text), "<serialization>") {
		t.Fatalf("decoded text is not the document: %s", text)
	}

	var out map[string][]int
	if err := DeserializeXMLBase64(&out, path); err != nil {
		t.Fatalf("deserialize: %v", err)
	}
	if len(out) != 2 || out["odds"][1] != 3 || out["evens"][0] != 2 {
		t.Fatalf("got %v", out)
	}
}

func TestXMLBase64ModeRejectsCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.bxml")
	if err := os.WriteFile(path, []byte("no_t-base64!!"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	_, err := NewXMLDecoder(path, ModeBase64)
	if err == nil {
		t.Fatal("expected an error")
	}
	if !errors.Is(err, ErrFormat) && !errors.Is(err, ErrStructure) {
		t.Fatalf("expected ErrFormat or ErrStructure, got %v", err)
	}
}
