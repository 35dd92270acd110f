package inference

import "strings"

// instruction is the system prompt for chat-style backends. Raw seq2seq
// backends (ollama in raw mode) receive only the prefixed text.
const instruction = "You summarize legal documents. The input starts with control tags " +
	"<jurisdiction:...> <doc_type:...> <goal:...> followed by the document text. " +
	"Write a faithful summary of the text for the stated goal under the stated jurisdiction. " +
	"Reply with the summary only."

// splitControlPrefix separates leading <key:value> tags from the text.
func splitControlPrefix(prompt string) (tags []string, text string) {
	rest := strings.TrimSpace(prompt)
	for strings.HasPrefix(rest, "<") {
		end := strings.IndexByte(rest, '>')
		if end < 0 || !strings.Contains(rest[:end], ":") {
			break
		}
		tags = append(tags, rest[:end+1])
		rest = strings.TrimSpace(rest[end+1:])
	}
	return tags, rest
}
