// Package template substitutes {NAME} placeholders in constant values.
//
// A placeholder is replaced by the raw value of an already resolved
// constant. Substituted text is inserted literally and never scanned
// again, so a value containing braces cannot trigger further expansion.
// Use {{ and }} for literal braces.
package template
