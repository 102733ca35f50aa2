package serial

import (
	"os"
	"reflect"
	"strconv"

	"github.com/beevik/etree"
)

// Document schema: root <serialization> holds one ordered <field> child
// per top-level Encode call. Beneath a field, pairs become
// <pair><first/><second/></pair>, sequences <vector> with a <length>
// child and <item> children, sets <set> likewise, maps <map> with
// <item><key/><value/></item> entries, and record fields nested <field>
// children. Scalars and strings are a single "val" attribute on the
// innermost element.

// Mode selects how a document is persisted.
type Mode int

const (
	// ModeText stores the document as plain XML text.
	ModeText Mode = iota
	// ModeBase64 stores the base64 text of the serialized document, for
	// targets that reject raw XML or want the file opaque to casual
	// inspection. Transport only: same schema, no compression.
	ModeBase64
)

// XMLEncoder builds one tree document across Encode calls and persists it
// once on Close.
type XMLEncoder struct {
	doc  *etree.Document
	root *etree.Element
	path string
	mode Mode
}

// NewXMLEncoder starts a document with a <serialization> root, to be
// written to path on Close.
func NewXMLEncoder(path string, mode Mode) *XMLEncoder {
	doc := etree.NewDocument()
	root := doc.CreateElement("serialization")
	return &XMLEncoder{doc: doc, root: root, path: path, mode: mode}
}

// Encode appends one <field> child for data under the root.
func (e *XMLEncoder) Encode(data any) error {
	v, err := sourceValue(data)
	if err != nil {
		return err
	}
	return e.encodeValue(v, e.root.CreateElement("field"))
}

// Close flushes the finished document to the target path.
func (e *XMLEncoder) Close() error {
	e.doc.Indent(2)
	switch e.mode {
	case ModeBase64:
		text, err := e.doc.WriteToString()
		if err != nil {
			return errIO("render xml document", err)
		}
		encoded := EncodeBase64([]byte(text))
		if err := os.WriteFile(e.path, []byte(encoded), 0o644); err != nil {
			return errIO("write "+e.path, err)
		}
	default:
		if err := e.doc.WriteToFile(e.path); err != nil {
			return errIO("write "+e.path, err)
		}
	}
	return nil
}

func (e *XMLEncoder) encodeValue(v reflect.Value, pos *etree.Element) error {
	cat, err := categorize(v.Type())
	if err != nil {
		return err
	}
	switch cat {
	case catScalar:
		pos.CreateAttr("val", formatScalar(v))
		return nil
	case catText:
		pos.CreateAttr("val", v.String())
		return nil
	case catPair:
		pair := pos.CreateElement("pair")
		if err := e.encodeValue(v.Field(0), pair.CreateElement("first")); err != nil {
			return err
		}
		return e.encodeValue(v.Field(1), pair.CreateElement("second"))
	case catSequence:
		vec := pos.CreateElement("vector")
		e.encodeLength(vec, v.Len())
		for i := 0; i < v.Len(); i++ {
			if err := e.encodeValue(v.Index(i), vec.CreateElement("item")); err != nil {
				return err
			}
		}
		return nil
	case catSet:
		set := pos.CreateElement("set")
		keys := sortedKeys(v)
		e.encodeLength(set, len(keys))
		for _, k := range keys {
			if err := e.encodeValue(k, set.CreateElement("item")); err != nil {
				return err
			}
		}
		return nil
	case catMap:
		m := pos.CreateElement("map")
		keys := sortedKeys(v)
		e.encodeLength(m, len(keys))
		for _, k := range keys {
			item := m.CreateElement("item")
			if err := e.encodeValue(k, item.CreateElement("key")); err != nil {
				return err
			}
			if err := e.encodeValue(v.MapIndex(k), item.CreateElement("value")); err != nil {
				return err
			}
		}
		return nil
	case catRecord:
		for _, f := range recordFields(v.Type()) {
			if err := e.encodeValue(v.FieldByIndex(f.Index), pos.CreateElement("field")); err != nil {
				return err
			}
		}
		return nil
	}
	return errUnsupportedf("type %s is outside the value model", v.Type())
}

func (e *XMLEncoder) encodeLength(container *etree.Element, n int) {
	container.CreateElement("length").CreateAttr("val", strconv.FormatUint(uint64(n), 10))
}

func formatScalar(v reflect.Value) string {
	switch v.Kind() {
	case reflect.Bool:
		// 1/0 so the numeric read path round-trips it.
		if v.Bool() {
			return "1"
		}
		return "0"
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(v.Int(), 10)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return strconv.FormatUint(v.Uint(), 10)
	case reflect.Float32:
		return strconv.FormatFloat(v.Float(), 'g', -1, 32)
	default:
		return strconv.FormatFloat(v.Float(), 'g', -1, 64)
	}
}

// XMLDecoder parses one document at construction and walks its <field>
// children in order, advancing one per Decode call.
type XMLDecoder struct {
	doc    *etree.Document
	fields []*etree.Element
	next   int
}

// NewXMLDecoder loads the document at path. It fails with an I/O error if
// the target cannot be opened and a structural error if the
// <serialization> root or its first <field> child is missing.
func NewXMLDecoder(path string, mode Mode) (*XMLDecoder, error) {
	doc := etree.NewDocument()
	switch mode {
	case ModeBase64:
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, errIO("open "+path, err)
		}
		text, err := DecodeBase64(string(raw))
		if err != nil {
			return nil, err
		}
		if err := doc.ReadFromBytes(text); err != nil {
			return nil, errFormat("parse xml document", err)
		}
	default:
		if err := doc.ReadFromFile(path); err != nil {
			return nil, errIO("open xml document "+path, err)
		}
	}

	root := doc.SelectElement("serialization")
	if root == nil {
		return nil, errStructuref("root element <serialization> not found")
	}
	fields := root.SelectElements("field")
	if len(fields) == 0 {
		return nil, errStructuref("element <field> not found in <serialization>")
	}
	return &XMLDecoder{doc: doc, fields: fields}, nil
}

// Decode consumes the next <field> element into the value data points to.
// Calling Decode more times than the document has fields is a structural
// error.
func (d *XMLDecoder) Decode(data any) error {
	v, err := targetValue(data)
	if err != nil {
		return err
	}
	if d.next >= len(d.fields) {
		return errStructuref("field %d requested but document has %d", d.next+1, len(d.fields))
	}
	ele := d.fields[d.next]
	d.next++
	return d.decodeValue(v, ele)
}

func (d *XMLDecoder) decodeValue(v reflect.Value, pos *etree.Element) error {
	cat, err := categorize(v.Type())
	if err != nil {
		return err
	}
	switch cat {
	case catScalar:
		s, err := attrValue(pos)
		if err != nil {
			return err
		}
		return parseScalar(v, s)
	case catText:
		s, err := attrValue(pos)
		if err != nil {
			return err
		}
		v.SetString(s)
		return nil
	case catPair:
		pair, err := childElement(pos, "pair")
		if err != nil {
			return err
		}
		first, err := childElement(pair, "first")
		if err != nil {
			return err
		}
		if err := d.decodeValue(v.Field(0), first); err != nil {
			return err
		}
		second, err := childElement(pair, "second")
		if err != nil {
			return err
		}
		return d.decodeValue(v.Field(1), second)
	case catSequence:
		vec, err := childElement(pos, "vector")
		if err != nil {
			return err
		}
		items, err := containerItems(vec)
		if err != nil {
			return err
		}
		v.Set(reflect.MakeSlice(v.Type(), len(items), len(items)))
		for i, item := range items {
			if err := d.decodeValue(v.Index(i), item); err != nil {
				return err
			}
		}
		return nil
	case catSet:
		set, err := childElement(pos, "set")
		if err != nil {
			return err
		}
		items, err := containerItems(set)
		if err != nil {
			return err
		}
		v.Set(reflect.MakeMapWithSize(v.Type(), len(items)))
		elemZero := reflect.Zero(v.Type().Elem())
		for _, item := range items {
			k := reflect.New(v.Type().Key()).Elem()
			if err := d.decodeValue(k, item); err != nil {
				return err
			}
			v.SetMapIndex(k, elemZero)
		}
		return nil
	case catMap:
		m, err := childElement(pos, "map")
		if err != nil {
			return err
		}
		items, err := containerItems(m)
		if err != nil {
			return err
		}
		v.Set(reflect.MakeMapWithSize(v.Type(), len(items)))
		for _, item := range items {
			key, err := childElement(item, "key")
			if err != nil {
				return err
			}
			k := reflect.New(v.Type().Key()).Elem()
			if err := d.decodeValue(k, key); err != nil {
				return err
			}
			val, err := childElement(item, "value")
			if err != nil {
				return err
			}
			mv := reflect.New(v.Type().Elem()).Elem()
			if err := d.decodeValue(mv, val); err != nil {
				return err
			}
			v.SetMapIndex(k, mv)
		}
		return nil
	case catRecord:
		fields := recordFields(v.Type())
		children := pos.SelectElements("field")
		if len(children) != len(fields) {
			return errStructuref("record %s declares %d fields but document has %d",
				v.Type(), len(fields), len(children))
		}
		for i, f := range fields {
			if err := d.decodeValue(v.FieldByIndex(f.Index), children[i]); err != nil {
				return err
			}
		}
		return nil
	}
	return errUnsupportedf("type %s is outside the value model", v.Type())
}

// containerItems reads a container's declared <length> and returns its
// <item> children, which must match the declared count exactly.
func containerItems(container *etree.Element) ([]*etree.Element, error) {
	lenEle, err := childElement(container, "length")
	if err != nil {
		return nil, err
	}
	s, err := attrValue(lenEle)
	if err != nil {
		return nil, err
	}
	var n uint64
	if err := parseScalar(reflect.ValueOf(&n).Elem(), s); err != nil {
		return nil, err
	}
	items := container.SelectElements("item")
	if uint64(len(items)) != n {
		return nil, errStructuref("element <%s> declares %d items but has %d",
			container.Tag, n, len(items))
	}
	return items, nil
}

func childElement(pos *etree.Element, tag string) (*etree.Element, error) {
	ele := pos.SelectElement(tag)
	if ele == nil {
		return nil, errStructuref("element <%s> not found under <%s>", tag, pos.Tag)
	}
	return ele, nil
}

func attrValue(pos *etree.Element) (string, error) {
	attr := pos.SelectAttr("val")
	if attr == nil {
		return "", errStructuref(`attribute "val" not found on <%s>`, pos.Tag)
	}
	return attr.Value, nil
}

// parseScalar applies the document read rule: every attribute is parsed
// through a float64 intermediate, then converted to the destination kind.
// Integral magnitudes beyond 2^53 lose precision and fractional parts
// truncate toward zero for integral destinations; the binary codec is the
// bit-exact one.
func parseScalar(v reflect.Value, s string) error {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return errFormatf("parse scalar %q for %s: %v", s, v.Type(), err)
	}
	switch v.Kind() {
	case reflect.Bool:
		v.SetBool(f != 0)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		v.SetInt(int64(f))
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		v.SetUint(uint64(f))
	case reflect.Float32, reflect.Float64:
		v.SetFloat(f)
	default:
		return errUnsupportedf("type %s is not a scalar", v.Type())
	}
	return nil
}
