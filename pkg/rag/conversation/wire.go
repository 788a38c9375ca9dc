package conversation

// WireMessage is the Gemini-style history entry exchanged with the ask endpoint.
type WireMessage struct {
	Role  string     `json:"role" validate:"required,oneof=user model"`
	Parts []WirePart `json:"parts"`
}

type WirePart struct {
	Text string `json:"text"`
}

func ToWire(history []Message) []WireMessage {
	out := make([]WireMessage, 0, len(history))
	for _, m := range history {
		role := RoleUser
		if m.Role == RoleAssistant || m.Role == RoleModel {
			role = RoleModel
		}
		out = append(out, WireMessage{Role: role, Parts: []WirePart{{Text: m.Content}}})
	}
	return out
}

func FromWire(wire []WireMessage) []Message {
	out := make([]Message, 0, len(wire))
	for _, w := range wire {
		role := RoleUser
		if w.Role == RoleModel || w.Role == RoleAssistant {
			role = RoleAssistant
		}
		var text string
		for _, p := range w.Parts {
			text += p.Text
		}
		out = append(out, Message{Role: role, Content: text})
	}
	return out
}

func (s *Session) WireHistory() []WireMessage {
	return ToWire(s.History())
}
