// Package linkml implements the core of a schema-driven data validation and
// code-generation system: a schema model (classes, slots, types, enums), a
// resolver that computes effective per-class slots through inheritance and
// mixins, a bytecode compiler and stack-based VM that execute compiled
// validators over instance data, a structural schema-diff engine, and a
// generator framework shared by the target code generators in the
// generator subpackage.
package linkml
