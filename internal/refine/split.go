package refine

import "strings"

// chunk is a candidate excerpt with its original position in the
// section, so selected chunks can be re-ordered back into reading order.
type chunk struct {
	text  string
	index int
}

// splitChunks breaks section text into sentence-level candidates,
// paragraph by paragraph.
func splitChunks(text string) []chunk {
	var chunks []chunk
	for _, para := range splitParagraphs(text) {
		for _, sent := range splitSentences(para) {
			sent = strings.TrimSpace(sent)
			if sent == "" {
				continue
			}
			chunks = append(chunks, chunk{text: sent, index: len(chunks)})
		}
	}
	return chunks
}

// splitParagraphs splits on double-newlines.
func splitParagraphs(text string) []string {
	parts := strings.Split(text, "\n\n")
	var result []string
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			result = append(result, p)
		}
	}
	return result
}

// splitSentences does basic sentence splitting on terminal punctuation
// followed by a space.
func splitSentences(text string) []string {
	var sentences []string
	var current strings.Builder

	for i, r := range text {
		current.WriteRune(r)
		if (r == '.' || r == '!' || r == '?') && i+1 < len(text) && text[i+1] == ' ' {
			sentences = append(sentences, strings.TrimSpace(current.String()))
			current.Reset()
		}
	}
	if current.Len() > 0 {
		sentences = append(sentences, strings.TrimSpace(current.String()))
	}

	return sentences
}
