// Package conv collects tiny helper functions that are not part of the public API
// but aid internal conversions.
//
// The backend is loose with JSON types (a user pk may arrive as a number or a
// string, an error detail as a string or a list), so `AsString` and `AsInt`
// coerce decoded `interface{}` values into plain Go types.
package conv
