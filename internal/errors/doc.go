// Package errors provides coded, structured diagnostics for reactor.
//
// Every diagnostic has a unique code (e.g. "R001") that maps to a registered
// template carrying a category, a short message and a longer explanation.
// Misuse of the reactive layer (writing through a readonly view, wrapping a
// value that cannot be observed) is never fatal: it is reported through a
// *ReactorError on the diagnostic channel and the operation degrades to a
// no-op. Errors raised by the CLI, configuration and snapshot stores use the
// same type so they can be printed consistently.
//
// # Categories
//
//   - runtime: reactive misuse (R001-R099)
//   - render: reconciler problems (E100-E149)
//   - config: configuration loading and validation (C200-C249)
//   - storage: snapshot persistence (S300-S349)
//   - cli: command line usage (S350-S399)
//
// # Usage
//
//	err := errors.New("R001").
//	    WithField("key", "count").
//	    WithSuggestion("Write through the reactive view instead of the readonly one")
//
//	fmt.Println(err.Format())
//	// Output:
//	// WARNING R001: Set operation on readonly target
//	//
//	//   key=count
//	//
//	//   Readonly views reject writes. The write was ignored.
//	//
//	//   Hint: Write through the reactive view instead of the readonly one
package errors
