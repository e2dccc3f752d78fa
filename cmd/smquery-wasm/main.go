//go:build js && wasm

// Command smquery-wasm is the WebAssembly build of smquery.
// It exposes source map lookups to JavaScript via syscall/js.
package main

import (
	"syscall/js"

	"github.com/HugoDaniel/smquery/pkg/api"
)

var version = "0.1.0"

func main() {
	// Export functions to JavaScript
	js.Global().Set("__smquery", js.ValueOf(map[string]interface{}{
		"originalPositionFor": js.FuncOf(originalPositionForJS),
		"version":             version,
	}))

	// Keep the Go runtime alive
	select {}
}

// originalPositionForJS is the JavaScript-callable lookup.
// Signature: __smquery.originalPositionFor(map: string, line: number, column: number) => object
//
// The result has source, line, column and name properties, each null when
// there is no mapping, plus an error property that is null on success.
func originalPositionForJS(this js.Value, args []js.Value) interface{} {
	if len(args) < 3 {
		return makeError("originalPositionFor requires 3 arguments (map, line, column)")
	}
	if args[0].Type() != js.TypeString {
		return makeError("map must be a JSON string")
	}
	if args[1].Type() != js.TypeNumber || args[2].Type() != js.TypeNumber {
		return makeError("line and column must be numbers")
	}

	c, err := api.NewConsumer([]byte(args[0].String()))
	if err != nil {
		return makeError(err.Error())
	}
	pos := c.OriginalPositionFor(args[1].Int(), args[2].Int())

	result := map[string]interface{}{
		"source": nil,
		"line":   nil,
		"column": nil,
		"name":   nil,
		"error":  nil,
	}
	if pos.Source.Valid {
		result["source"] = pos.Source.String
	}
	if pos.Line.Valid {
		result["line"] = int(pos.Line.Int64)
	}
	if pos.Column.Valid {
		result["column"] = int(pos.Column.Int64)
	}
	if pos.Name.Valid {
		result["name"] = pos.Name.String
	}
	return result
}

// makeError creates a result object with an error.
func makeError(msg string) interface{} {
	return map[string]interface{}{
		"source": nil,
		"line":   nil,
		"column": nil,
		"name":   nil,
		"error":  msg,
	}
}
