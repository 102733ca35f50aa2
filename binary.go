package serial

import (
	"encoding/binary"
	"io"
	"math"
	"reflect"
)

// The binary wire format carries no magic, version, tags, or checksums.
// Scalars are raw fixed-width bytes in the host's native order, lengths
// are uint64, strings are length-prefixed raw bytes. A reader whose
// declared shape does not match the writer's reads garbage; that is the
// format's contract, not a detectable condition.

// Encoder writes values to one byte stream in the compact binary format.
type Encoder struct {
	w io.Writer
}

// NewEncoder binds an Encoder to w for its lifetime.
func NewEncoder(w io.Writer) *Encoder {
	return &Encoder{w: w}
}

// Encode appends data's wire bytes to the stream.
func (e *Encoder) Encode(data any) error {
	v, err := sourceValue(data)
	if err != nil {
		return err
	}
	return e.encodeValue(v)
}

func (e *Encoder) encodeValue(v reflect.Value) error {
	cat, err := categorize(v.Type())
	if err != nil {
		return err
	}
	switch cat {
	case catScalar:
		return e.encodeScalar(v)
	case catText:
		return e.encodeString(v.String())
	case catPair:
		if err := e.encodeValue(v.Field(0)); err != nil {
			return err
		}
		return e.encodeValue(v.Field(1))
	case catSequence:
		if err := e.encodeLength(v.Len()); err != nil {
			return err
		}
		for i := 0; i < v.Len(); i++ {
			if err := e.encodeValue(v.Index(i)); err != nil {
				return err
			}
		}
		return nil
	case catSet:
		keys := sortedKeys(v)
		if err := e.encodeLength(len(keys)); err != nil {
			return err
		}
		for _, k := range keys {
			if err := e.encodeValue(k); err != nil {
				return err
			}
		}
		return nil
	case catMap:
		keys := sortedKeys(v)
		if err := e.encodeLength(len(keys)); err != nil {
			return err
		}
		for _, k := range keys {
			if err := e.encodeValue(k); err != nil {
				return err
			}
			if err := e.encodeValue(v.MapIndex(k)); err != nil {
				return err
			}
		}
		return nil
	case catRecord:
		for _, f := range recordFields(v.Type()) {
			if err := e.encodeValue(v.FieldByIndex(f.Index)); err != nil {
				return err
			}
		}
		return nil
	}
	return errUnsupportedf("type %s is outside the value model", v.Type())
}

func (e *Encoder) encodeScalar(v reflect.Value) error {
	var buf [8]byte
	var b []byte
	switch v.Kind() {
	case reflect.Bool:
		if v.Bool() {
			buf[0] = 1
		}
		b = buf[:1]
	case reflect.Int8:
		buf[0] = byte(v.Int())
		b = buf[:1]
	case reflect.Int16:
		binary.NativeEndian.PutUint16(buf[:2], uint16(v.Int()))
		b = buf[:2]
	case reflect.Int32:
		binary.NativeEndian.PutUint32(buf[:4], uint32(v.Int()))
		b = buf[:4]
	case reflect.Int, reflect.Int64:
		binary.NativeEndian.PutUint64(buf[:8], uint64(v.Int()))
		b = buf[:8]
	case reflect.Uint8:
		buf[0] = byte(v.Uint())
		b = buf[:1]
	case reflect.Uint16:
		binary.NativeEndian.PutUint16(buf[:2], uint16(v.Uint()))
		b = buf[:2]
	case reflect.Uint32:
		binary.NativeEndian.PutUint32(buf[:4], uint32(v.Uint()))
		b = buf[:4]
	case reflect.Uint, reflect.Uint64:
		binary.NativeEndian.PutUint64(buf[:8], v.Uint())
		b = buf[:8]
	case reflect.Float32:
		binary.NativeEndian.PutUint32(buf[:4], math.Float32bits(float32(v.Float())))
		b = buf[:4]
	case reflect.Float64:
		binary.NativeEndian.PutUint64(buf[:8], math.Float64bits(v.Float()))
		b = buf[:8]
	default:
		return errUnsupportedf("type %s is not a scalar", v.Type())
	}
	return e.write(b)
}

func (e *Encoder) encodeLength(n int) error {
	var buf [8]byte
	binary.NativeEndian.PutUint64(buf[:], uint64(n))
	return e.write(buf[:])
}

func (e *Encoder) encodeString(s string) error {
	if err := e.encodeLength(len(s)); err != nil {
		return err
	}
	if len(s) == 0 {
		return nil
	}
	return e.write([]byte(s))
}

func (e *Encoder) write(b []byte) error {
	if _, err := e.w.Write(b); err != nil {
		return errIO("stream write", err)
	}
	return nil
}

// Decoder reads values from one byte stream written by Encoder.
type Decoder struct {
	r io.Reader
}

// NewDecoder binds a Decoder to r for its lifetime.
func NewDecoder(r io.Reader) *Decoder {
	return &Decoder{r: r}
}

// Decode consumes bytes from the stream into the value data points to.
// The declared shape of *data must match what the writer emitted.
func (d *Decoder) Decode(data any) error {
	v, err := targetValue(data)
	if err != nil {
		return err
	}
	return d.decodeValue(v)
}

func (d *Decoder) decodeValue(v reflect.Value) error {
	cat, err := categorize(v.Type())
	if err != nil {
		return err
	}
	switch cat {
	case catScalar:
		return d.decodeScalar(v)
	case catText:
		s, err := d.decodeString()
		if err != nil {
			return err
		}
		v.SetString(s)
		return nil
	case catPair:
		if err := d.decodeValue(v.Field(0)); err != nil {
			return err
		}
		return d.decodeValue(v.Field(1))
	case catSequence:
		n, err := d.decodeLength()
		if err != nil {
			return err
		}
		v.Set(reflect.MakeSlice(v.Type(), n, n))
		for i := 0; i < n; i++ {
			if err := d.decodeValue(v.Index(i)); err != nil {
				return err
			}
		}
		return nil
	case catSet:
		n, err := d.decodeLength()
		if err != nil {
			return err
		}
		v.Set(reflect.MakeMapWithSize(v.Type(), n))
		elemZero := reflect.Zero(v.Type().Elem())
		for i := 0; i < n; i++ {
			k := reflect.New(v.Type().Key()).Elem()
			if err := d.decodeValue(k); err != nil {
				return err
			}
			v.SetMapIndex(k, elemZero)
		}
		return nil
	case catMap:
		n, err := d.decodeLength()
		if err != nil {
			return err
		}
		v.Set(reflect.MakeMapWithSize(v.Type(), n))
		for i := 0; i < n; i++ {
			k := reflect.New(v.Type().Key()).Elem()
			if err := d.decodeValue(k); err != nil {
				return err
			}
			mv := reflect.New(v.Type().Elem()).Elem()
			if err := d.decodeValue(mv); err != nil {
				return err
			}
			v.SetMapIndex(k, mv)
		}
		return nil
	case catRecord:
		for _, f := range recordFields(v.Type()) {
			if err := d.decodeValue(v.FieldByIndex(f.Index)); err != nil {
				return err
			}
		}
		return nil
	}
	return errUnsupportedf("type %s is outside the value model", v.Type())
}

func (d *Decoder) decodeScalar(v reflect.Value) error {
	var buf [8]byte
	width := scalarWidth(v.Kind())
	if err := d.read(buf[:width]); err != nil {
		return err
	}
	switch v.Kind() {
	case reflect.Bool:
		v.SetBool(buf[0] != 0)
	case reflect.Int8:
		v.SetInt(int64(int8(buf[0])))
	case reflect.Int16:
		v.SetInt(int64(int16(binary.NativeEndian.Uint16(buf[:2]))))
	case reflect.Int32:
		v.SetInt(int64(int32(binary.NativeEndian.Uint32(buf[:4]))))
	case reflect.Int, reflect.Int64:
		v.SetInt(int64(binary.NativeEndian.Uint64(buf[:8])))
	case reflect.Uint8:
		v.SetUint(uint64(buf[0]))
	case reflect.Uint16:
		v.SetUint(uint64(binary.NativeEndian.Uint16(buf[:2])))
	case reflect.Uint32:
		v.SetUint(uint64(binary.NativeEndian.Uint32(buf[:4])))
	case reflect.Uint, reflect.Uint64:
		v.SetUint(binary.NativeEndian.Uint64(buf[:8]))
	case reflect.Float32:
		v.SetFloat(float64(math.Float32frombits(binary.NativeEndian.Uint32(buf[:4]))))
	case reflect.Float64:
		v.SetFloat(math.Float64frombits(binary.NativeEndian.Uint64(buf[:8])))
	default:
		return errUnsupportedf("type %s is not a scalar", v.Type())
	}
	return nil
}

func scalarWidth(k reflect.Kind) int {
	switch k {
	case reflect.Bool, reflect.Int8, reflect.Uint8:
		return 1
	case reflect.Int16, reflect.Uint16:
		return 2
	case reflect.Int32, reflect.Uint32, reflect.Float32:
		return 4
	}
	return 8
}

func (d *Decoder) decodeLength() (int, error) {
	var buf [8]byte
	if err := d.read(buf[:]); err != nil {
		return 0, err
	}
	n := binary.NativeEndian.Uint64(buf[:])
	if n > uint64(int(^uint(0)>>1)) {
		return 0, errFormatf("length %d overflows int", n)
	}
	return int(n), nil
}

func (d *Decoder) decodeString() (string, error) {
	n, err := d.decodeLength()
	if err != nil {
		return "", err
	}
	if n == 0 {
		return "", nil
	}
	b := make([]byte, n)
	if err := d.read(b); err != nil {
		return "", err
	}
	return string(b), nil
}

func (d *Decoder) read(b []byte) error {
	if _, err := io.ReadFull(d.r, b); err != nil {
		return errIO("stream read", err)
	}
	return nil
}
