// Package usecases - prompt.go renders conversation history and
// assembles the generation request.
package usecases

import (
	"fmt"
	"strings"

	"lecturerag/internal/domain/entities"
)

// systemInstruction is the fixed behavioral contract for the
// generative model. It is passed through to the model unmodified.
const systemInstruction = "You are a concise and helpful lecture assistant. " +
	"Answer the student's question using the provided lecture context. " +
	"Keep your answer short and clear—no more than 4 sentences. " +
	"If the student asks for clarification (like 'I don't understand this'), " +
	"explain the same concept in simpler terms rather than giving a long summary. " +
	"If the question is not related to the lecture, say: " +
	"'I'm sorry, I don't have information about that topic in the lecture materials.'"

// noPriorConversation is the transcript sentinel for an empty history.
const noPriorConversation = "(no prior conversation)"

// FormatHistory renders a conversation as one "<ROLE>: <text>" line per
// turn, preserving input order. Pure and deterministic; the history is
// never truncated here.
func FormatHistory(history []entities.ChatMessage) string {
	if len(history) == 0 {
		return noPriorConversation
	}
	lines := make([]string, 0, len(history))
	for _, m := range history {
		lines = append(lines, formatRole(m.Role)+": "+m.Text)
	}
	return strings.Join(lines, "\n")
}

// formatRole maps a turn role onto one of the two fixed labels.
func formatRole(role string) string {
	if strings.EqualFold(role, "assistant") {
		return "ASSISTANT"
	}
	return "USER"
}

// AssemblePrompt combines the conversation transcript, retrieved
// lecture context and the current question into a single generation
// request. No validation is performed; an empty context is passed
// through verbatim.
func AssemblePrompt(question, context, transcript string) entities.GenerationRequest {
	body := fmt.Sprintf("Conversation so far:\n%s\n\nContext:\n%s\n\nUser Question:\n%s\n",
		transcript, context, question)
	return entities.GenerationRequest{
		SystemInstruction: systemInstruction,
		Contents:          body,
	}
}
