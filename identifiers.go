package linkml

import "strings"

// splitIdentifierWords breaks name into lower-cased words, treating
// underscores, hyphens, and spaces as separators and also splitting at
// lower-to-upper transitions and at a run of uppercase letters followed by
// a lowercase one (so "HTTPResponse" splits as "HTTP", "Response").
func splitIdentifierWords(name string) []string {
	var words []string
	var current []rune

	flush := func() {
		if len(current) > 0 {
			words = append(words, strings.ToLower(string(current)))
			current = nil
		}
	}

	runes := []rune(name)
	for i, r := range runes {
		switch {
		case r == '_' || r == '-' || r == ' ':
			flush()
		case i > 0 && isUpper(r) && !isUpper(runes[i-1]):
			flush()
			current = append(current, r)
		case i > 0 && isUpper(r) && i+1 < len(runes) && !isUpper(runes[i+1]) && isUpper(runes[i-1]):
			flush()
			current = append(current, r)
		default:
			current = append(current, r)
		}
	}
	flush()
	return words
}

func isUpper(r rune) bool {
	return r >= 'A' && r <= 'Z'
}

// ToPascalCase renders name as PascalCase: "http_response" -> "HttpResponse".
func ToPascalCase(name string) string {
	words := splitIdentifierWords(name)
	var b strings.Builder
	for _, w := range words {
		if w == "" {
			continue
		}
		b.WriteString(strings.ToUpper(w[:1]))
		b.WriteString(w[1:])
	}
	return b.String()
}

// ToCamelCase renders name as camelCase: "http_response" -> "httpResponse".
func ToCamelCase(name string) string {
	pascal := ToPascalCase(name)
	if pascal == "" {
		return pascal
	}
	return strings.ToLower(pascal[:1]) + pascal[1:]
}

// ToKebabCase renders name as kebab-case, splitting acronym runs at word
// boundaries the same way ToPascalCase does.
func ToKebabCase(name string) string {
	return strings.Join(splitIdentifierWords(name), "-")
}

// ToScreamingSnakeCase renders name as SCREAMING_SNAKE_CASE, splitting
// acronym runs at word boundaries the same way ToPascalCase does.
func ToScreamingSnakeCase(name string) string {
	return strings.ToUpper(strings.Join(splitIdentifierWords(name), "_"))
}

// ToSnakeCase renders name as snake_case for every target except the SQL
// generator, which uses toSQLSnakeCase instead (see DESIGN.md: the two
// diverge on purpose).
func ToSnakeCase(name string) string {
	return strings.Join(splitIdentifierWords(name), "_")
}

// toSQLSnakeCase is the SQL generator's column/table-naming conversion. It
// does not split runs of consecutive capitals from the word that follows,
// so "HTTPResponse" collapses to "httpresponse" rather than
// "http_response". Preserved intentionally (see DESIGN.md) rather than
// reconciled with ToSnakeCase's acronym-boundary splitting.
func toSQLSnakeCase(name string) string {
	var words []string
	var current []rune
	flush := func() {
		if len(current) > 0 {
			words = append(words, strings.ToLower(string(current)))
			current = nil
		}
	}
	runes := []rune(name)
	for i, r := range runes {
		switch {
		case r == '_' || r == '-' || r == ' ':
			flush()
		case i > 0 && isUpper(r) && !isUpper(runes[i-1]):
			flush()
			current = append(current, r)
		default:
			current = append(current, r)
		}
	}
	flush()
	return strings.Join(words, "_")
}
