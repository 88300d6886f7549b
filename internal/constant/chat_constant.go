package constant

const (
	ChatMessageRoleUser  = "user"
	ChatMessageRoleModel = "model"

	// Role vocabulary of the generation backends (OpenAI-style chat APIs).
	LLMRoleUser      = "user"
	LLMRoleAssistant = "assistant"

	// Returned verbatim when the backend answers with an empty candidate list.
	EmptyGenerationFallback = "No response generated"

	SessionTitleMaxLength = 100

	SuggestTitlePromptV1 = `Suggest a short chat session name for this prompt: "%s". ` +
		`Respond with the session name only, at most a few words, no quotes.`
)
