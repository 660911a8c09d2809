package httpapi

// Bot Framework activity envelope, reduced to the fields the bridge reads.
// Signature validation and connector callbacks are the platform adapter's
// concern; the bridge answers synchronously with a message activity.

type ChannelAccount struct {
	ID   string `json:"id"`
	Name string `json:"name,omitempty"`
}

type ConversationAccount struct {
	ID string `json:"id"`
}

type Activity struct {
	Type         string              `json:"type"`
	ID           string              `json:"id,omitempty"`
	Text         string              `json:"text,omitempty"`
	From         ChannelAccount      `json:"from,omitempty"`
	Recipient    ChannelAccount      `json:"recipient,omitempty"`
	Conversation ConversationAccount `json:"conversation,omitempty"`
	ServiceURL   string              `json:"serviceUrl,omitempty"`
	ReplyToID    string              `json:"replyToId,omitempty"`
}

// replyTo builds a message activity answering the inbound one, with the
// from/recipient roles swapped.
func replyTo(in Activity, text string) Activity {
	return Activity{
		Type:         "message",
		Text:         text,
		From:         in.Recipient,
		Recipient:    in.From,
		Conversation: in.Conversation,
		ReplyToID:    in.ID,
	}
}
