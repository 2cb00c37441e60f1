// Package registry provides a generic, thread-safe store keyed by any
// string-kinded type. Keys and values always come back in lexical key
// order so anything built on top resolves deterministically.
package registry
