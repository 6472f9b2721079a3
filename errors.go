package linkml

import "errors"

// === Network and IO Related Errors ===
var (
	// ErrNoLoaderRegistered is returned when no loader is registered for the specified scheme.
	ErrNoLoaderRegistered = errors.New("no loader registered for scheme")

	// ErrDataRead is returned when schema or instance data cannot be read from a source.
	ErrDataRead = errors.New("data read failed")

	// ErrNetworkFetch is returned when fetching a remote schema import fails.
	ErrNetworkFetch = errors.New("network fetch failed")

	// ErrInvalidStatusCode is returned when a remote import responds with an unexpected HTTP status.
	ErrInvalidStatusCode = errors.New("invalid http status code")

	// ErrFileWrite is returned when writing generated output fails.
	ErrFileWrite = errors.New("file write failed")

	// ErrDirectoryCreation is returned when creating an output directory fails.
	ErrDirectoryCreation = errors.New("directory creation failed")
)

// === Serialization Related Errors ===
var (
	// ErrJSONUnmarshal is returned when JSON-equivalent bytes cannot be decoded.
	ErrJSONUnmarshal = errors.New("json unmarshal failed")

	// ErrYAMLUnmarshal is returned when YAML-equivalent bytes cannot be decoded.
	ErrYAMLUnmarshal = errors.New("yaml unmarshal failed")

	// ErrJSONEncode is returned when encoding a value to JSON fails.
	ErrJSONEncode = errors.New("json encode failed")

	// ErrNodeDecode is returned when a decoded token stream does not describe a
	// well-formed JSON-equivalent value.
	ErrNodeDecode = errors.New("value decode failed")
)

// === Schema Model Related Errors ===
var (
	// ErrSchemaParse is returned when a schema document cannot be parsed into the schema model.
	ErrSchemaParse = errors.New("schema parse failed")

	// ErrUnknownClass is returned when a class name does not exist in the schema.
	ErrUnknownClass = errors.New("unknown class")

	// ErrUnknownSlot is returned when a slot name does not exist in the schema or its usage context.
	ErrUnknownSlot = errors.New("unknown slot")

	// ErrUnknownType is returned when a range type name does not exist in the schema.
	ErrUnknownType = errors.New("unknown type")

	// ErrUnknownEnum is returned when an enum name does not exist in the schema.
	ErrUnknownEnum = errors.New("unknown enum")

	// ErrCycleDetected is returned when the is_a chain forms a cycle while resolving a class
	// (a mixin named again is skipped, not reported).
	ErrCycleDetected = errors.New("inheritance cycle detected")

	// ErrMultipleIsA is returned when a class names more than one is_a parent.
	ErrMultipleIsA = errors.New("class may have at most one is_a parent")

	// ErrPrefixUndefined is returned when a CURIE uses a prefix absent from the schema's prefix map.
	ErrPrefixUndefined = errors.New("curie prefix undefined")
)

// === Expression / Compilation Related Errors ===
var (
	// ErrExpressionParse is returned when an expression string fails to parse.
	ErrExpressionParse = errors.New("expression parse failed")

	// ErrExpressionCompile is returned when a parsed expression cannot be lowered to bytecode.
	ErrExpressionCompile = errors.New("expression compile failed")

	// ErrStackOverflow is returned when the expression VM's evaluation stack exceeds its depth limit.
	ErrStackOverflow = errors.New("expression stack overflow")

	// ErrStackUnderflow is returned when an instruction pops more values than the stack holds.
	ErrStackUnderflow = errors.New("expression stack underflow")

	// ErrIterationLimitExceeded is returned when the VM's bounded-iteration budget is exhausted.
	ErrIterationLimitExceeded = errors.New("expression iteration limit exceeded")

	// ErrDivisionByZero is returned when a Divide or Modulo instruction divides by zero.
	ErrDivisionByZero = errors.New("division by zero")

	// ErrTypeError is returned when an operation receives operands of an unsupported type combination.
	ErrTypeError = errors.New("expression type error")

	// ErrUnknownFunction is returned when a Call instruction names a function not present in the function table.
	ErrUnknownFunction = errors.New("unknown function")

	// ErrSchemaCompilation is returned when a resolved class cannot be compiled to a validator.
	ErrSchemaCompilation = errors.New("schema compilation failed")
)

// === Data Validation Related Errors ===
var (
	// ErrValidationFailed signals a failed validation. Validate and ValidateCollection do not
	// return it: they return a ValidationReport whose issues describe the failure.
	ErrValidationFailed = errors.New("validation failed")

	// ErrRecursionLimit is returned when nested-object validation exceeds the configured max depth.
	ErrRecursionLimit = errors.New("recursion limit exceeded")

	// ErrRecursionCycle is returned when the RecursionTracker observes the same (class, identity) pair twice on one path.
	ErrRecursionCycle = errors.New("recursion cycle detected")

	// ErrDuplicateIdentifier is returned when a collection contains two elements with the same identifier value.
	ErrDuplicateIdentifier = errors.New("duplicate identifier")

	// ErrInvalidOptions is returned when ValidationOptions are internally inconsistent.
	ErrInvalidOptions = errors.New("invalid validation options")
)

// === Diff Related Errors ===
var (
	// ErrIncompatibleSchemas is returned by Diff when a class removes a required or identifier slot,
	// a change with no non-destructive migration.
	ErrIncompatibleSchemas = errors.New("schemas are not comparable")
)

// === Generator Related Errors ===
var (
	// ErrUnsupportedRange is returned when a generator encounters a range type it cannot map.
	ErrUnsupportedRange = errors.New("unsupported range type")

	// ErrGeneratorNotRegistered is returned when a named generator is requested but not registered.
	ErrGeneratorNotRegistered = errors.New("generator not registered")

	// ErrCodeGeneration is returned when a generator fails to produce output.
	ErrCodeGeneration = errors.New("code generation failed")
)

// === Type Conversion Related Errors ===
var (
	// ErrTypeConversion is returned when a value cannot be coerced to a range type's native representation.
	ErrTypeConversion = errors.New("type conversion failed")

	// ErrRatConversion is returned when a numeric value cannot be converted to *big.Rat.
	ErrRatConversion = errors.New("rat conversion failed")

	// ErrUnsupportedRatType is returned when the type is unsupported for conversion to *big.Rat.
	ErrUnsupportedRatType = errors.New("unsupported rat type")

	// ErrNilRatOperand is returned when comparing a nil Rat.
	ErrNilRatOperand = errors.New("nil rat operand")
)

// === Format Related Errors ===
var (
	// ErrIPv6AddressFormat is returned when a URI host claims to be an IPv6 address but is not bracketed.
	ErrIPv6AddressFormat = errors.New("ipv6 address must be enclosed in brackets")

	// ErrInvalidIPv6 is returned when a bracketed URI host is not a valid IPv6 address.
	ErrInvalidIPv6 = errors.New("invalid ipv6 address")
)
