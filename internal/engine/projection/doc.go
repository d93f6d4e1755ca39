// Package projection exposes a range of one document as a document of its
// own.
//
// A ChildDocument reads and writes its text straight through to a window
// of the parent. The window is a position in a private category of the
// parent, so it moves with parent edits like any other tracked range.
// Parent edits that touch the window are replayed into the child as
// child-local events; edits made through the child are forwarded to the
// parent and only grow or shrink the window.
//
// Boundary policy: parent insertions exactly at either window edge stay
// outside the window. Edits made through the child always land inside it.
//
// A child must be detached before its parent is discarded. Detach gives
// the child a private copy of its content.
package projection
