// Package domain defines the core directory entities for the Entra lookup engine.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - DirectoryObject: a user or group record returned by the directory
//   - IdentifierKind: how a caller-supplied identifier is interpreted
//   - Search and membership results returned by the engine
//   - The error taxonomy surfaced to tool callers
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
