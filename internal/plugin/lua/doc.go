// Package lua runs formatting strategies written in Lua.
//
// A script defines a global function
//
//	function format(text, is_line_start, indentation, offsets)
//	    ...
//	    return new_text, new_offsets
//	end
//
// offsets is an array of 0-based byte offsets into text. The function must
// return the formatted text and an array with one entry per input offset
// saying where that offset ended up.
//
// # State
//
// Scripts run in a sandboxed gopher-lua state. Only the base, table, string
// and math libraries are opened; dofile, loadfile, load and loadstring are
// removed and print is routed to the logger:
//
//	s, err := lua.NewStrategy(`
//	    function format(text, is_line_start, indentation, offsets)
//	        return string.upper(text), offsets
//	    end`)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer s.Close()
//
// Every call is bounded by an execution timeout; a script that exceeds it
// is cancelled and the call fails with ErrExecutionTimeout.
//
// Strategy satisfies the formatting strategy interface of the engine
// without importing it.
package lua
