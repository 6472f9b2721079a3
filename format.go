package linkml

// evaluateFormat checks a value against a named format validator, checking
// compiler-registered custom formats before falling back to the global
// Formats registry. Returns an empty string when the value conforms (or the
// format is unknown), otherwise a stable error code.
func evaluateFormat(c *Compiler, formatName string, value any) string {
	if formatName == "" {
		return ""
	}

	var validator func(any) bool
	if c != nil {
		c.customFormatsRW.RLock()
		validator = c.customFormats[formatName]
		c.customFormatsRW.RUnlock()
	}
	if validator == nil {
		validator = Formats[formatName]
	}

	if validator == nil {
		return ""
	}
	if !validator(value) {
		return CodeTypeMismatch
	}
	return ""
}
