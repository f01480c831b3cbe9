// Package di resolves references to entries of a dependency container.
//
// A Reference names a container entry by id and defers the lookup until
// Resolve is called. A DynamicReference wraps a raw definition (a type
// name, a mapping with __class, a func, or an existing Definition) that is
// normalized when the reference is created and built again on every
// Resolve.
//
// The package also includes:
//   - a TypeRegistry mapping type names to types and factories
//   - a Normalizer turning raw definitions into Definitions
//   - configuration and definition loading (Viper)
//   - an Fx module providing a Normalizer and resolved values
//
// See examples/basic for usage.
package di
