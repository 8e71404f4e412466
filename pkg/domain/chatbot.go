package domain

import "strings"

// Chatbot is a row in the dashboard listing.
type Chatbot struct {
	ChatbotID   string `json:"chatbot_id"`
	Description string `json:"description"`
}

// ChatbotPage is one page of the chatbot listing.
type ChatbotPage struct {
	Total    int       `json:"total"`
	Page     int       `json:"page"`
	PerPage  int       `json:"per_page"`
	Chatbots []Chatbot `json:"chatbots"`
}

// ChatbotDetails is the editable configuration of a chatbot.
type ChatbotDetails struct {
	ChatbotID      string `json:"chatbot_id"`
	Description    string `json:"description"`
	PromptTemplate string `json:"prompt_template"`
	VectorDBPath   string `json:"vector_db_path,omitempty"`
	VectorDBName   string `json:"vector_db_name,omitempty"`
}

// Matches reports whether the chatbot id or description contains term,
// ignoring case. An empty term matches everything.
func (c Chatbot) Matches(term string) bool {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return true
	}
	return strings.Contains(strings.ToLower(c.ChatbotID), term) ||
		strings.Contains(strings.ToLower(c.Description), term)
}

// DefaultPromptTemplate seeds new chatbots.
const DefaultPromptTemplate = `You are a helpful CRM assistant.
Your role is to help with CRM services by answering only from the knowledge base provided (retrieved documents).

Guidelines:
- Always base your answers strictly on the retrieved context.
- If the answer is not found in the context, politely say:
  "I'm sorry, I don't have that information right now."
- Keep answers clear, concise, and customer-friendly.

Context:
{context}

Question: {question}

Answer:`

// DemoChatbots is shown when the chatbot listing cannot be fetched.
var DemoChatbots = []Chatbot{
	{ChatbotID: "cb_001", Description: "Customer Support Assistant - Handles customer inquiries, provides product information, and resolves common issues efficiently."},
	{ChatbotID: "cb_002", Description: "Sales Consultant Bot - Assists with lead qualification, product recommendations, and guides users through the sales process."},
	{ChatbotID: "cb_003", Description: "Technical Documentation Assistant - Helps developers find relevant documentation, API references, and troubleshooting guides."},
	{ChatbotID: "cb_004", Description: "HR Onboarding Bot - Guides new employees through onboarding process, company policies, and initial setup tasks."},
	{ChatbotID: "cb_005", Description: "E-commerce Shopping Assistant - Provides product recommendations, answers questions about orders, and helps with returns."},
	{ChatbotID: "cb_006", Description: "Educational Tutor Bot - Offers personalized learning assistance, explains complex concepts, and provides practice exercises."},
}
