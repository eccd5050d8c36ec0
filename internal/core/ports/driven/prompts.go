package driven

// PromptStore provides access to LLM prompt templates.
// Implementations may load prompts from files or embed them in the binary.
type PromptStore interface {
	// Load returns the prompt template for the given name.
	Load(name string) (string, error)

	// Reload clears any cached prompts, forcing fresh loads on next access.
	Reload()
}

// Well-known prompt names.
const (
	// PromptAnswer is the retrieval-augmented answer template.
	// It uses the literal placeholders {context} and {question}.
	PromptAnswer = "answer"
)

// DefaultAnswerPrompt is the built-in answer template.
const DefaultAnswerPrompt = `
Answer the question based only on the following context:

{context}

---

Answer the question based on the above context: {question}
`

// PromptStoreAware is an optional interface for services that can use custom prompts.
type PromptStoreAware interface {
	// SetPromptStore sets the prompt store for loading customisable prompts.
	// If not set, the service should use its built-in default.
	SetPromptStore(store PromptStore)
}
