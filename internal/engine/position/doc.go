// Package position tracks ranges over a document's text across edits.
//
// A Position is an (offset, length) pair owned by exactly one Category in a
// Registry. On every edit the Registry runs its updater chain in order;
// each Updater adjusts the positions it is responsible for. Later updaters
// see positions already adjusted by earlier ones, which lets callers
// bracket the standard adjustment with their own passes by inserting
// updaters at the front or the back of the chain.
//
// Categories are comparable values rather than strings. Named builds a
// category from a caller-chosen name; NewPrivateCategory builds one that
// is equal to no other category, so internal bookkeeping can never collide
// with caller names.
//
// Offsets are byte offsets. Nothing in this package is safe for concurrent
// use; a Registry belongs to a single document.
package position
