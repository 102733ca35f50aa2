// Package serial converts in-memory values to and from two persisted
// representations: a compact binary stream and a tree-structured XML
// document, optionally wrapped in a base64 transform for binary-safe
// storage. One recursive dispatch over the value's declared shape drives
// both encodings; no type tags are ever written to the wire.
//
// Ownership boundary:
// - value model and recursive dispatch primitives
// - binary wire format (Encoder/Decoder, Serialize/Deserialize)
// - xml document schema (XMLEncoder/XMLDecoder and file entry points)
// - base64 transform
package serial
