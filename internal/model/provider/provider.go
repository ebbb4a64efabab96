package provider

// Well-known provider identifiers.
const (
	IDGroq   = "groq"
	IDGemini = "gemini"
	IDArk    = "ark"
)

// DefaultID is the provider preselected for freshly initialized conversations.
const DefaultID = IDGroq

// Descriptor describes a completion backend and the models it serves.
type Descriptor struct {
	ID     string   `json:"id"`
	Name   string   `json:"name"`
	Models []string `json:"models"`
}

// Seed provides the built-in provider set. The ark model list is empty by
// default and is filled in from configuration when Ark credentials exist.
func Seed(arkModels []string) []Descriptor {
	descriptors := []Descriptor{
		{
			ID:   IDGroq,
			Name: "Groq",
			Models: []string{
				"gemma2-9b-it",
				"llama-3.3-70b-versatile",
				"llama-3.1-8b-instant",
				"llama-guard-3-8b",
				"llama3-70b-8192",
				"llama-3.2-90b-vision-preview",
				"llama-3.3-70b-specdec",
			},
		},
		{
			ID:   IDGemini,
			Name: "Gemini 1.5",
			Models: []string{
				"gemini-1.5-flash",
				"gemini-1.5-pro",
				"gemini-1.5-pro-001",
				"gemini-1.5-pro-002",
				"gemini-pro",
				"gemini-1.5-flash-8b-001",
				"gemini-1.5-flash-8b",
				"gemini-1.0-pro",
				"gemini-1.0-pro-001",
				"gemini-1.0-pro-latest",
			},
		},
	}

	if len(arkModels) > 0 {
		descriptors = append(descriptors, Descriptor{
			ID:     IDArk,
			Name:   "Ark",
			Models: arkModels,
		})
	}

	return descriptors
}
