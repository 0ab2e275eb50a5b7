package provider

// MessageRole identifies the sender of a message in a conversation.
type MessageRole string

// MessageRole constants for conversation messages.
const (
	MessageRoleSystem    MessageRole = "system"
	MessageRoleUser      MessageRole = "user"
	MessageRoleAssistant MessageRole = "assistant"
)

// Message represents a single message in a conversation.
type Message struct {
	Role    MessageRole `json:"role"`
	Content string      `json:"content"`
}

// ChatRequest is the input to a Completer.Complete call. The provider sends
// the messages in the order [system, history..., user].
type ChatRequest struct {
	// System is the persona instruction steering the reply.
	System string

	// History is the prior conversation, oldest first.
	History []Message

	// User is the current user utterance. It is not part of History.
	User string
}

// Messages returns the ordered message list for the request.
func (r ChatRequest) Messages() []Message {
	msgs := make([]Message, 0, len(r.History)+2)
	msgs = append(msgs, Message{Role: MessageRoleSystem, Content: r.System})
	msgs = append(msgs, r.History...)
	msgs = append(msgs, Message{Role: MessageRoleUser, Content: r.User})
	return msgs
}

// Speech is the output of a Synthesizer.Synthesize call.
type Speech struct {
	// Audio is the synthesized audio payload.
	Audio []byte

	// MIME is the media type of Audio (e.g. "audio/mpeg").
	MIME string
}
