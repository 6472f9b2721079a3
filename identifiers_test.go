package linkml

import "testing"

func TestToPascalCase(t *testing.T) {
	cases := map[string]string{
		"http_response":  "HttpResponse",
		"person-name":     "PersonName",
		"already Pascal":  "AlreadyPascal",
		"simple":          "Simple",
	}
	for in, want := range cases {
		if got := ToPascalCase(in); got != want {
			t.Errorf("ToPascalCase(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestToSnakeCaseSplitsAcronymBoundary(t *testing.T) {
	if got := ToSnakeCase("HTTPResponse"); got != "http_response" {
		t.Errorf("ToSnakeCase(HTTPResponse) = %q, want http_response", got)
	}
}

func TestToSQLSnakeCasePreservesAcronymQuirk(t *testing.T) {
	if got := toSQLSnakeCase("HTTPResponse"); got != "httpresponse" {
		t.Errorf("toSQLSnakeCase(HTTPResponse) = %q, want httpresponse (preserved quirk)", got)
	}
	if got := toSQLSnakeCase("person_name"); got != "person_name" {
		t.Errorf("toSQLSnakeCase(person_name) = %q, want person_name", got)
	}
}

func TestToCamelCase(t *testing.T) {
	if got := ToCamelCase("person_name"); got != "personName" {
		t.Errorf("ToCamelCase(person_name) = %q, want personName", got)
	}
}

func TestToKebabCase(t *testing.T) {
	if got := ToKebabCase("PersonName"); got != "person-name" {
		t.Errorf("ToKebabCase(PersonName) = %q, want person-name", got)
	}
}

func TestToScreamingSnakeCase(t *testing.T) {
	if got := ToScreamingSnakeCase("person name"); got != "PERSON_NAME" {
		t.Errorf("ToScreamingSnakeCase(person name) = %q, want PERSON_NAME", got)
	}
}
