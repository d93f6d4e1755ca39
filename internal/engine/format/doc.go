// Package format reformats a document partition by partition while keeping
// every tracked position in place.
//
// For each partition of the requested region the Reformatter collects the
// edges of all positions that overlap it, hands the partition text and the
// edge offsets to the Strategy registered for the partition's content type,
// and replaces the partition with the result. The edges are moved to the
// offsets the strategy returns instead of being adjusted by the ordinary
// updaters. Partition spans are themselves tracked, so later partitions
// stay correct when earlier ones change length.
//
// Edge selection: a position contributes a start edge when it starts
// strictly inside the partition and an end edge when it ends strictly inside
// it. A position whose span equals the partition contributes both. Edges on
// a partition boundary, including zero-length positions there, are left to
// their category's updater. A strategy that returns its input text and
// offsets unchanged leaves the partition untouched.
package format
