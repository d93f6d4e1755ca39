// Package engine provides the text engine facade.
//
// The engine package combines a document, its configured partitioner and
// reformatter, and the child documents projected from it into one
// thread-safe API.
//
// # Architecture
//
// The engine is built on several sub-packages:
//
//   - gapbuffer: raw text storage with a movable gap
//   - lines: newline index for line queries
//   - position: tracked ranges, categories and the updater chain
//   - document: the edit protocol, change listeners and partition queries
//   - partition: a delimiter-rule partitioner
//   - projection: child documents mirroring a range of a parent
//   - format: the partition reformatter and built-in strategies
//
// # Thread Safety
//
// All Engine operations are thread-safe. The engine uses a read-write mutex
// to allow concurrent reads while serializing writes. The Document accessor
// hands out the unguarded document for callers that need the full API.
//
// # Basic Usage
//
//	cfg := config.Default()
//	cfg.Partitions = []config.PartitionRule{{ContentType: "comment", Start: "/*", End: "*/"}}
//	cfg.Formatting["comment"] = config.FormatterConfig{Strategies: []string{"trim"}}
//
//	e, err := engine.New(engine.WithConfig(cfg), engine.WithContent(src))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer e.Close()
//
//	p, _ := e.AddPosition(10, 4) // follows every edit below
//	e.Insert(0, "// header\n")
//	e.FormatAll()
//
// # Child Documents
//
// A child document shows a window of the engine's document and edits flow
// both ways. Child methods take the engine's lock like Engine methods do:
//
//	child, _ := e.CreateChild(20, 15)
//	child.Replace(0, 0, "x") // the parent sees the insertion at 20
//	e.FreeChild(child)
package engine
