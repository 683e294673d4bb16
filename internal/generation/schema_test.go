package generation

import (
	"strings"
	"testing"
)

func TestSchemaFor_BusinessModelOrderAndBudgets(t *testing.T) {
	schema := SchemaFor(UseCaseBusinessModel)

	expected := []struct {
		name      string
		maxTokens int
	}{
		{"summary", 80},
		{"problem", 60},
		{"solution", 60},
		{"uniqueValueProposition", 50},
		{"customerSegments", 80},
		{"earlyAdopters", 50},
		{"existingAlternatives", 60},
		{"channels", 60},
		{"revenueStreams", 60},
		{"costs", 50},
		{"keyMetrics", 60},
		{"unfairAdvantage", 50},
		{"highLevelConcept", 40},
	}

	if len(schema) != len(expected) {
		t.Fatalf("expected %d fields, got %d", len(expected), len(schema))
	}
	for i, want := range expected {
		if schema[i].Name != want.name {
			t.Fatalf("field %d: expected %s, got %s", i, want.name, schema[i].Name)
		}
		if schema[i].MaxTokens != want.maxTokens {
			t.Fatalf("field %s: expected budget %d, got %d", want.name, want.maxTokens, schema[i].MaxTokens)
		}
		if schema[i].ClosedSet != nil {
			t.Fatalf("field %s: business model fields are free text", want.name)
		}
	}
}

func TestSchemaFor_DumpAnalysis(t *testing.T) {
	schema := SchemaFor(UseCaseDumpAnalysis)

	names := make([]string, 0, len(schema))
	for _, spec := range schema {
		names = append(names, spec.Name)
	}
	if strings.Join(names, ",") != "title,summary,pros,cons,classification" {
		t.Fatalf("unexpected dump schema order: %v", names)
	}

	last := schema[len(schema)-1]
	if len(last.ClosedSet) != len(CanonicalCategories) {
		t.Fatalf("classification must carry the full closed set, got %v", last.ClosedSet)
	}
	if last.MaxTokens != 30 {
		t.Fatalf("classification budget: expected 30, got %d", last.MaxTokens)
	}
}

func TestSchemaFor_UnknownUseCase(t *testing.T) {
	if schema := SchemaFor(UseCase("nonsense")); schema != nil {
		t.Fatalf("expected nil schema for unknown use case, got %d fields", len(schema))
	}
}

func TestBuildPrompt_EmbedsInputAndTask(t *testing.T) {
	spec := SchemaFor(UseCaseBusinessModel)[0]
	system, user := spec.BuildPrompt(PromptInput{InputText: "A marketplace for recipe sharing"})

	if system == "" {
		t.Fatalf("system prompt must not be empty")
	}
	if !strings.Contains(user, "A marketplace for recipe sharing") {
		t.Fatalf("user prompt missing input text: %q", user)
	}
	if !strings.Contains(user, spec.Instruction) {
		t.Fatalf("user prompt missing task instruction: %q", user)
	}
}

func TestBuildPrompt_EmptyInputDegradesGracefully(t *testing.T) {
	spec := SchemaFor(UseCaseBusinessModel)[0]
	_, user := spec.BuildPrompt(PromptInput{InputText: "   "})

	if !strings.Contains(user, "(no input provided)") {
		t.Fatalf("empty input must degrade to a placeholder, got %q", user)
	}
}

func TestBuildPrompt_IncludesPriorFieldsAndSnapshot(t *testing.T) {
	spec := SchemaFor(UseCaseDumpAnalysis)[1]
	_, user := spec.BuildPrompt(PromptInput{
		InputText:       "some dump",
		ContextSnapshot: "summary: an existing venture",
		PriorFields: []PriorField{
			{Name: "title", Value: "Great Idea"},
			{Name: "skipped", Value: "  "},
		},
	})

	if !strings.Contains(user, "an existing venture") {
		t.Fatalf("user prompt missing context snapshot: %q", user)
	}
	if !strings.Contains(user, "title: Great Idea") {
		t.Fatalf("user prompt missing prior field: %q", user)
	}
	if strings.Contains(user, "skipped") {
		t.Fatalf("blank prior fields must be omitted: %q", user)
	}
}
