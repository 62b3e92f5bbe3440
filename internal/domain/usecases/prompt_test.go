package usecases

import (
	"strings"
	"testing"

	"lecturerag/internal/domain/entities"
)

func TestFormatHistoryEmpty(t *testing.T) {
	if got := FormatHistory(nil); got != "(no prior conversation)" {
		t.Errorf("expected empty-history sentinel, got %q", got)
	}
}

func TestFormatHistoryRoles(t *testing.T) {
	history := []entities.ChatMessage{
		{Role: "user", Text: "Hi"},
		{Role: "assistant", Text: "Hello"},
	}
	got := FormatHistory(history)
	want := "USER: Hi\nASSISTANT: Hello"
	if got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestFormatHistoryUnknownRoleDefaultsToUser(t *testing.T) {
	got := FormatHistory([]entities.ChatMessage{{Role: "system", Text: "x"}})
	if !strings.HasPrefix(got, "USER: ") {
		t.Errorf("unknown role should map to USER, got %q", got)
	}
}

func TestFormatHistoryCaseInsensitiveRoles(t *testing.T) {
	got := FormatHistory([]entities.ChatMessage{{Role: "Assistant", Text: "ok"}})
	if got != "ASSISTANT: ok" {
		t.Errorf("expected %q, got %q", "ASSISTANT: ok", got)
	}
}

func TestAssemblePrompt(t *testing.T) {
	req := AssemblePrompt("What is gradient descent?", "lecture snippet", "USER: Hi")

	if !strings.Contains(req.Contents, "What is gradient descent?") {
		t.Error("assembled prompt missing the question")
	}
	if !strings.Contains(req.Contents, "lecture snippet") {
		t.Error("assembled prompt missing the context")
	}
	if !strings.Contains(req.Contents, "Conversation so far:\nUSER: Hi") {
		t.Error("assembled prompt missing the transcript")
	}
	if req.SystemInstruction != systemInstruction {
		t.Error("system instruction must pass through unmodified")
	}
	if strings.Contains(req.Contents, systemInstruction) {
		t.Error("system instruction must not leak into the prompt body")
	}
}

func TestAssemblePromptSectionOrder(t *testing.T) {
	req := AssemblePrompt("q", "ctx", "t")
	conv := strings.Index(req.Contents, "Conversation so far:")
	cx := strings.Index(req.Contents, "Context:")
	qn := strings.Index(req.Contents, "User Question:")
	if conv < 0 || cx < 0 || qn < 0 || !(conv < cx && cx < qn) {
		t.Errorf("sections out of order in %q", req.Contents)
	}
}
