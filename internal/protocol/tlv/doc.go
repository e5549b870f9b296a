// Package tlv owns the tag-length-value framing primitives shared by the
// binary path codec.
//
// Ownership boundary:
// - DER-style varlen tags and lengths
// - record header and sub-cursor framing
// - fixed-width big-endian field primitives
//
// Semantic rules for what a record may contain live in package binpath.
package tlv
