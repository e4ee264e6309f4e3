// Package wikitext provides lexical scanning over MediaWiki markup: it
// extracts template invocations (with their arguments and nesting
// depth), HTML-like tag spans (with a heuristic recovery policy for
// ill-formed markup), and the verbatim regions inside which neither is
// interpreted. A scoped substitution helper built on the verbatim
// detector rewrites a document without ever touching verbatim content.
//
// The package deliberately does not build a full wikitext AST, validate
// nesting exhaustively, or evaluate templates. Every function is a pure
// function of its input and safe for concurrent use.
package wikitext
