// Package normalisers turns uploaded files into plain text.
//
// Each subpackage implements driven.Normaliser for one FileKind. The
// Registry dispatches by filename extension and normalises the output so
// that every format yields the same text shape: no NUL bytes and "\n"
// line endings.
package normalisers
