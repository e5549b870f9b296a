// Package binpath encodes and decodes binary paths: TLV descriptions of
// where a single field lives inside ABI-encoded data.
//
// Grammar:
//
//	path        = tlv(BINARY_PATH, elements* leaf slice?)
//	elements    = tuple | array | ref
//
// A Codec is a plain value; it holds no mutable state and may be shared
// between goroutines.
package binpath
