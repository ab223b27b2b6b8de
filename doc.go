// Package toon implements TOON (Token-Oriented Object Notation), a textual
// serialization format for JSON-compatible data designed to minimize token
// count when fed to language models while remaining human-readable.
//
// The package exposes an encoder that produces a canonical TOON stream from
// an in-memory value and a decoder that parses TOON back into a value,
// including a streaming event interface for consumers that want to drive
// their own value construction.
package toon
