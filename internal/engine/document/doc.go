// Package document composes a text store, a line tracker, a position
// registry and an optional partitioner into an editable document.
//
// Every edit follows the same sequence:
//
//  1. listeners receive DocumentAboutToChange (prenotified listeners first)
//  2. the text store is mutated
//  3. the line tracker is updated and the position updater chain runs
//  4. listeners receive DocumentChanged (prenotified listeners first)
//
// Updaters therefore always see the new text and listeners always see
// adjusted positions. Callers that need to run before or after the
// standard position adjustment insert their own updaters into the chain.
//
// Listeners must not edit the document they are being notified about;
// such calls fail with ErrReentrantEdit. A document is not safe for
// concurrent use.
//
// Basic usage:
//
//	doc, _ := document.New(document.WithText("Hello World"))
//	p := position.New(6, 5)
//	doc.AddPosition(position.Default, p)
//	doc.Replace(0, 5, "Goodbye")   // p is now (8, 5)
package document
