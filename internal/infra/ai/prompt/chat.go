package prompt

import (
	"strings"

	"github.com/bryanwahyu/symptom-assist/internal/domain/ai"
)

// ChatPreamble opens every chat transcript.
const ChatPreamble = "You are a medical AI assistant. You are talking with a patient about their symptoms."

// Chat renders history and the new message as a transcript ending in an open
// "Assistant:" cue for the model to continue.
func Chat(history []ai.Turn, message string) string {
	var b strings.Builder
	b.WriteString(ChatPreamble)
	b.WriteString("\n")
	for _, t := range history {
		if t.Role == ai.RoleUser {
			b.WriteString("\nPatient: ")
		} else {
			b.WriteString("\nAssistant: ")
		}
		b.WriteString(t.Content)
	}
	b.WriteString("\nPatient: ")
	b.WriteString(message)
	b.WriteString("\nAssistant:")
	return b.String()
}
