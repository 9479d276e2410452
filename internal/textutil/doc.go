// Package textutil holds small text helpers shared by the alignment pipeline:
// whitespace normalization for coverage checks, bag-of-words similarity for
// diagnosing segmenter drift, and path-safe token sanitizing.
package textutil
