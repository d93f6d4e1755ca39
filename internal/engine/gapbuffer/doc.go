// Package gapbuffer provides the raw mutable text storage used by documents.
//
// A Store keeps its content in a single byte slice with one unused region,
// the gap, positioned where the last edit happened. Edits next to the gap
// only move the gap boundaries, so runs of local edits (typing, deleting
// backwards) cost O(1) amortized. An edit elsewhere moves the gap in place,
// copying only the text between the old and the new gap position. The
// backing slice is reallocated only when the gap would leave the configured
// watermark bounds.
//
// Basic usage:
//
//	s, _ := gapbuffer.NewStore(gapbuffer.WithWatermarks(16, 256))
//	s.Set("Hello World")
//	s.Replace(5, 0, ",")      // "Hello, World"
//	text, _ := s.Text(0, s.Len())
//
// Offsets are byte offsets. The store has no knowledge of lines, positions
// or documents and is not safe for concurrent use.
package gapbuffer
