// Package value provides immutable Sass values with structural equality.
//
// Every value has a canonical JSON encoding. Two values are equal exactly
// when their encodings match, and HashCode is derived from the same bytes,
// so equal values always hash alike.
//
// Key design constraints:
//   - Values are never modified; List and Map updates return new values
//   - Map equality ignores insertion order
//   - An empty Map equals the empty undecided List, as in Sass
package value
