// Package loop contains the top-level controller that drives one writing
// turn end to end: it composes the instruction payload, streams the model
// response, executes requested tool calls against the document store, feeds
// the results back, and repeats until the model finishes or the iteration
// ceiling is reached.
//
// The controller enforces a single outstanding request: a second SendMessage
// while one is in flight returns ErrBusy. Progress is observed through the
// optional Hooks callbacks and through store mutations made by tool handlers.
package loop
