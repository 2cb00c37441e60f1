// Package types defines the model shared by every buildtiming package:
// constant identifiers, resolved values and their kinds, the Hook
// interface external code implements to contribute a constant, and the
// rebuild trigger declarations handed to the host build tool.
package types
