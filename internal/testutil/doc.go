// Package testutil contains helper builders used across tests to reduce
// boilerplate when scripting streaming transports and constructing document
// state. These helpers are intentionally minimal and are not intended for
// production usage.
package testutil
