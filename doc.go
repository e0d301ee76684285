// Package tonel provides parsing and validation of Tonel source files, the
// per-class plain-text storage format used by the Pharo Smalltalk ecosystem.
//
// A Tonel file carries an optional class comment, exactly one class/trait/
// extension/package declaration with STON metadata, and zero or more method
// definitions, each with its own metadata, a method reference, and a
// bracketed Smalltalk method body. Parsing happens in two stages:
//
//  1. The Tonel structural parser locates the file's top-level regions
//     (comment, class head, method metadata, method reference, method body).
//     See: parser.ParseTonel
//  2. The Smalltalk expression parser (lexer plus recursive-descent grammar)
//     validates each method body as a Smalltalk statement sequence.
//     See: parser.ParseSmalltalk
//
// Three facades compose these stages for different needs:
//
//	TonelParser     - structure only, method bodies left unvalidated.
//	SmalltalkParser - a single method body in isolation.
//	TonelFullParser - structure plus every method body.
//
// Each facade is a zero-value struct exposing Parse, ParseFile, Validate,
// and ValidateFile.
package tonel
