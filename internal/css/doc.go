// Package css contains the stylesheet front end: a tolerant scanner and
// parser that turns raw CSS text into a Sheet of rules plus an ordered list
// of diagnostics.
//
// Parsing never fails. Malformed constructs (unterminated comments or
// strings, declarations without a colon, stray braces) degrade to
// W-coded diagnostics and the parser resynchronizes at the next safe
// boundary. Diagnostics are reported in source order and are never
// deduplicated.
//
// The parser is syntactic only: it does not validate property names or
// values, and it resolves nothing. @import targets are collected verbatim
// for the cross-file import index.
package css
