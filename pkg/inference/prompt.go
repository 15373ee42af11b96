package inference

import (
	"fmt"
	"strings"

	"github.com/go-go-golems/arbor/pkg/conversation"
)

// RenderContext formats resolved history as a Human/Assistant transcript.
// Empty sides of an exchange are skipped.
func RenderContext(history []conversation.Exchange) string {
	var parts []string
	for _, exchange := range history {
		if exchange.UserInput != "" {
			parts = append(parts, "Human: "+exchange.UserInput)
		}
		if exchange.AIResponse != "" {
			parts = append(parts, "Assistant: "+exchange.AIResponse)
		}
	}
	return strings.Join(parts, "\n")
}

// BuildPrompt frames the user input with the conversation so far. It is the
// conversation.PromptRenderer used by the server and the REPL.
func BuildPrompt(history []conversation.Exchange, userInput string) string {
	context := RenderContext(history)
	if context == "" {
		return fmt.Sprintf("You are an autonomous language model. Respond to: %s", userInput)
	}

	return fmt.Sprintf(`You are an autonomous language model. Here's our conversation so far:

%s

Now respond to: %s`, context, userInput)
}
