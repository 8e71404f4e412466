package domain

// ChatRequest asks a chatbot a question through the test harness.
type ChatRequest struct {
	ChatbotID   string `json:"chatbot_id"`
	Question    string `json:"question"`
	LLMModel    string `json:"llm_model"`
	UseVectorDB bool   `json:"use_vector_db"`
}

// ChatResponse carries the chatbot's answer.
type ChatResponse struct {
	Answer string `json:"answer"`
}

// FieldValue is a single knowledge entry added to a chatbot's vector store.
type FieldValue struct {
	ChatbotID string `json:"chatbot_id"`
	Field     string `json:"field"`
	Value     string `json:"value"`
}
