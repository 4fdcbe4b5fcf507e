package core

// Mode selects how a request is sent upstream.
type Mode int

const (
	// ModeSingleTurn is one-shot generation from a freshly assembled prompt.
	ModeSingleTurn Mode = iota
	// ModeMultiTurn continues a conversation seeded with prior turns.
	ModeMultiTurn
)

func (m Mode) String() string {
	if m == ModeMultiTurn {
		return "multi_turn"
	}
	return "single_turn"
}

// SelectMode chooses multi-turn generation only when history is present and
// every content item is text. Attachment-bearing prompts are one-shot:
// history replay combined with freshly uploaded media is not supported.
func SelectMode(items []ContentItem, history []Turn) Mode {
	if len(history) == 0 {
		return ModeSingleTurn
	}
	for _, item := range items {
		if !item.IsText() {
			return ModeSingleTurn
		}
	}
	return ModeMultiTurn
}
