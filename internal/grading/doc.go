// Package grading turns untrusted text-generation output into trusted quiz
// content and scores.
//
// The pipeline is: ExtractJSON narrows the raw text, Parse*Payload checks the
// container shape, Match pairs entries with canonical questions (identifier
// first, position second), NormalizeRawResult repairs and clamps each entry,
// and Aggregate recomputes the total. Everything here is pure and safe for
// concurrent use.
package grading
