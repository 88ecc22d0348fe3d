package utils

import (
	"reflect"
	"testing"

	"outreachly/models"
)

func TestRenderTemplate(t *testing.T) {
	contact := &models.Contact{
		FirstName: "Ana",
		LastName:  "Silva",
		Email:     "ana@example.com",
		Company:   "Acme",
	}

	got := RenderTemplate("Hi {{first_name}} {{last_name}} from {{company}}!", contact)
	if got != "Hi Ana Silva from Acme!" {
		t.Errorf("got %q", got)
	}

	if got := RenderTemplate("Hello {{unknown_var}}.", contact); got != "Hello ." {
		t.Errorf("unknown variables should render empty, got %q", got)
	}

	if got := RenderTemplate("", contact); got != "" {
		t.Errorf("empty template should render empty, got %q", got)
	}
}

func TestExtractVariables(t *testing.T) {
	vars := ExtractVariables("{{first_name}} {{last_name}} and {{first_name}} again")
	want := []string{"first_name", "last_name"}
	if !reflect.DeepEqual(vars, want) {
		t.Errorf("got %v, want %v", vars, want)
	}
}
