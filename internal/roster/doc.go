// Package roster parses the OCR text of a roster sheet into per-student
// attendance entries.
//
// A sheet's text has three sections separated by two fixed headers:
//
//	<title line>
//	<student name>...
//	Séance 1 (10h-10h30)
//	<session 1 status>...
//	Séance 2 (10h45-12h15)
//	<boilerplate line>
//	<session 2 status>...
//	<trailing line>
//
// Parsing is a three-stage pipeline:
//
//  1. Segment: cut the text into a name block and two status blocks at the
//     section headers. A header owns its whole line; a block starts on the
//     line after its header.
//  2. Filter: names keep lines longer than one character and drop the
//     title; session 1 drops empty lines; session 2 drops its first and
//     last line unconditionally.
//  3. Zip: names[i] pairs with session1[i] and session2[i].
//
// The zip requires all three lists to have the same length. OCR noise
// routinely breaks that, so a mismatch is a ParseError rather than a guess
// at which line went missing. A missing header is a ParseError too.
package roster
