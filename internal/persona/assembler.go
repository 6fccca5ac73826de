// Package persona assembles the message sequences sent to the completion
// provider for the "chat with your document" interactions. Assembly is a
// pure function of caller-supplied state: the server keeps no sessions, so
// the full document text and chat history arrive on every request.
package persona

import "fmt"

// Roles used in assembled prompts and accepted in replayed history.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is one entry in the sequence sent to the completion provider.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Turn is one caller-supplied entry of prior conversation. Entries whose
// role is not exactly "user" or "assistant" are silently dropped during
// assembly.
type Turn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// BuildSummaryPrompt produces the two-message prompt for the initial
// first-person summary. Document text beyond charLimit is cut off with a
// truncation marker; the cutoff is a deliberate cheap character rule, not a
// token count.
func BuildSummaryPrompt(documentText, fileName string, charLimit int) []Message {
	if fileName == "" {
		fileName = "Document"
	}
	return []Message{
		{Role: RoleSystem, Content: SummarySystemPrompt},
		{Role: RoleUser, Content: fmt.Sprintf(
			"I've uploaded a PDF titled %q.\nPlease analyze it and introduce yourself as if you are this document.\nProvide a concise summary of your main content and key points.\nHere is the extracted text: \n\n%s",
			fileName, Truncate(documentText, charLimit),
		)},
	}
}

// BuildChatPrompt produces the full message sequence for one chat turn:
// persona instruction, truncated document context, the scripted greeting,
// the filtered caller history in original order, then the new question.
func BuildChatPrompt(documentText, question string, history []Turn, charLimit int) []Message {
	messages := make([]Message, 0, len(history)+4)

	messages = append(messages, Message{Role: RoleSystem, Content: ChatSystemPrompt})
	messages = append(messages, Message{Role: RoleUser, Content: fmt.Sprintf(
		"Here is the document text you should use to answer questions. You are this document:\n\n%s",
		Truncate(documentText, charLimit),
	)})
	messages = append(messages, Message{Role: RoleAssistant, Content: Greeting})

	for _, turn := range history {
		if turn.Role == RoleUser || turn.Role == RoleAssistant {
			messages = append(messages, Message{Role: turn.Role, Content: turn.Content})
		}
	}

	messages = append(messages, Message{Role: RoleUser, Content: question})
	return messages
}

// Truncate cuts s at limit characters, appending "..." when anything was
// dropped. A limit of zero or less disables truncation.
func Truncate(s string, limit int) string {
	if limit <= 0 || len(s) <= limit {
		return s
	}
	return s[:limit] + "..."
}
