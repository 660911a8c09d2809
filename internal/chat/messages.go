package chat

import (
	"errors"
	"regexp"

	"github.com/avelarde/chatbridge/internal/upstream"
)

// Fixed user-facing replies. All upstream failures are translated here so
// nothing technical leaks to the end user.
const (
	PromptMessage      = "Could you type your question?"
	EmptyAnswerMessage = "I didn't get any content back from the AI service. Please try again."

	msgUnauthorized = "I'm not authorized to reach the AI service. Please check the configured API key."
	msgNotFound     = "The AI service endpoint looks misconfigured. Please check the configured URL."
	msgUnavailable  = "I had trouble contacting the AI service. Please try again."
)

// ReplyFor maps a HandleTurn error to the apology shown to the end user.
func ReplyFor(err error) string {
	var ue *upstream.Error
	if errors.As(err, &ue) {
		switch ue.Kind {
		case upstream.KindUnauthorized:
			return msgUnauthorized
		case upstream.KindNotFound:
			return msgNotFound
		}
	}
	return msgUnavailable
}

// detailsBlock matches the <details>...</details> element some Dify agent
// apps prepend with their reasoning dump.
var detailsBlock = regexp.MustCompile(`(?is)<details[^>]*>.*?</details>\s*`)

// StripDetails removes <details> blocks from an answer, leaving the rest.
func StripDetails(answer string) string {
	return detailsBlock.ReplaceAllString(answer, "")
}
