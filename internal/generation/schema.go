package generation

import (
	"fmt"
	"strings"
)

// UseCase selects which field schema a session generates.
type UseCase string

const (
	UseCaseBusinessModel UseCase = "business-model-creation"
	UseCaseDumpAnalysis  UseCase = "dump-analysis"
)

// DefaultTemperature is applied to every field request. A low value keeps
// repeated generations close to deterministic.
const DefaultTemperature float32 = 0.3

// PriorField is a finished field of the running session, in generation order.
type PriorField struct {
	Name  string
	Value string
}

// PromptInput carries everything a field prompt may draw on. Each prompt is
// self-contained; backends keep no cross-field memory.
type PromptInput struct {
	InputText       string
	ContextSnapshot string // read-only excerpt of the target model's fields (dump analysis only)
	PriorFields     []PriorField
}

// FieldSpec describes one independently generated field. Schema order is the
// generation order and the source of progress fractions.
type FieldSpec struct {
	Name        string
	MaxTokens   int
	Instruction string   // task instruction embedded in the user prompt
	ClosedSet   []string // canonical values the field must resolve to; nil for free text
}

const systemPrompt = "You are a concise startup analyst. Answer in plain text with one to three short sentences. " +
	"Do not use markdown, bullet points, or headings. Stop as soon as the question is answered."

// BuildPrompt assembles the (system, user) pair for one field request.
func (f FieldSpec) BuildPrompt(in PromptInput) (string, string) {
	input := strings.TrimSpace(in.InputText)
	if input == "" {
		input = "(no input provided)"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Input:\n%s\n\n", input)

	if snapshot := strings.TrimSpace(in.ContextSnapshot); snapshot != "" {
		fmt.Fprintf(&b, "Existing business model context (read-only):\n%s\n\n", snapshot)
	}

	var prior []string
	for _, p := range in.PriorFields {
		if strings.TrimSpace(p.Value) == "" {
			continue
		}
		prior = append(prior, fmt.Sprintf("- %s: %s", p.Name, p.Value))
	}
	if len(prior) > 0 {
		fmt.Fprintf(&b, "Previously generated fields:\n%s\n\n", strings.Join(prior, "\n"))
	}

	fmt.Fprintf(&b, "Task: %s", f.Instruction)

	return systemPrompt, b.String()
}

var businessModelSchema = []FieldSpec{
	{Name: "summary", MaxTokens: 80, Instruction: "Write a short summary of the business idea."},
	{Name: "problem", MaxTokens: 60, Instruction: "Describe the core problem the target customers face."},
	{Name: "solution", MaxTokens: 60, Instruction: "Describe the proposed solution and how it addresses the problem."},
	{Name: "uniqueValueProposition", MaxTokens: 50, Instruction: "State the unique value proposition as a single clear message."},
	{Name: "customerSegments", MaxTokens: 80, Instruction: "Name the primary customer segments this idea serves."},
	{Name: "earlyAdopters", MaxTokens: 50, Instruction: "Describe the most likely early adopters."},
	{Name: "existingAlternatives", MaxTokens: 60, Instruction: "Name the existing alternatives customers use today."},
	{Name: "channels", MaxTokens: 60, Instruction: "Describe the channels for reaching the customer segments."},
	{Name: "revenueStreams", MaxTokens: 60, Instruction: "Describe how the business earns revenue."},
	{Name: "costs", MaxTokens: 50, Instruction: "Name the main cost drivers."},
	{Name: "keyMetrics", MaxTokens: 60, Instruction: "Name the key metrics that show whether the business works."},
	{Name: "unfairAdvantage", MaxTokens: 50, Instruction: "Describe the unfair advantage that is hard to copy."},
	{Name: "highLevelConcept", MaxTokens: 40, Instruction: "Give a high-level concept in the form 'X for Y'."},
}

var dumpAnalysisSchema = []FieldSpec{
	{Name: "title", MaxTokens: 40, Instruction: "Give the idea a short, descriptive title."},
	{Name: "summary", MaxTokens: 80, Instruction: "Summarize the idea in plain language."},
	{Name: "pros", MaxTokens: 60, Instruction: "Name the strongest points in favor of this idea."},
	{Name: "cons", MaxTokens: 60, Instruction: "Name the main weaknesses or risks of this idea."},
	{
		Name:      "classification",
		MaxTokens: 30,
		Instruction: "Classify the idea into exactly one of these categories and answer with the category name only: " +
			strings.Join(CanonicalCategories, ", ") + ".",
		ClosedSet: CanonicalCategories,
	},
}

// SchemaFor returns the ordered field schema for a use case. The returned
// slice is shared; callers must not mutate it.
func SchemaFor(useCase UseCase) []FieldSpec {
	switch useCase {
	case UseCaseBusinessModel:
		return businessModelSchema
	case UseCaseDumpAnalysis:
		return dumpAnalysisSchema
	default:
		return nil
	}
}
