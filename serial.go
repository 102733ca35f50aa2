package serial

import "os"

// Serialize writes data to path in the compact binary format, creating or
// truncating the file.
func Serialize(data any, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return errIO("open "+path, err)
	}
	if err := NewEncoder(f).Encode(data); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return errIO("close "+path, err)
	}
	return nil
}

// Deserialize populates the value data points to from the binary file at
// path.
func Deserialize(data any, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return errIO("open "+path, err)
	}
	defer f.Close()
	return NewDecoder(f).Decode(data)
}

// SerializeXML writes data to path as an XML text document.
func SerializeXML(data any, path string) error {
	enc := NewXMLEncoder(path, ModeText)
	if err := enc.Encode(data); err != nil {
		return err
	}
	return enc.Close()
}

// DeserializeXML populates the value data points to from the XML text
// document at path.
func DeserializeXML(data any, path string) error {
	dec, err := NewXMLDecoder(path, ModeText)
	if err != nil {
		return err
	}
	return dec.Decode(data)
}

// SerializeXMLBase64 writes data to path as the base64 text of its XML
// document.
func SerializeXMLBase64(data any, path string) error {
	enc := NewXMLEncoder(path, ModeBase64)
	if err := enc.Encode(data); err != nil {
		return err
	}
	return enc.Close()
}

// DeserializeXMLBase64 populates the value data points to from the
// base64-wrapped XML document at path.
func DeserializeXMLBase64(data any, path string) error {
	dec, err := NewXMLDecoder(path, ModeBase64)
	if err != nil {
		return err
	}
	return dec.Decode(data)
}
