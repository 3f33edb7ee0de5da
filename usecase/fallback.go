package usecase

import "strings"

const (
	fallbackOpenerLimit = 600
	fallbackBodyLimit   = 5000
	fallbackPointLimit  = 160
	fallbackMaxPoints   = 4
)

// buildFallbackScript assembles a deterministic narration script straight
// from the cleaned text, used only when the text-generation provider is
// unreachable and the caller opted in to degraded output.
func buildFallbackScript(cleanText string) string {
	trimmed := strings.TrimSpace(cleanText)
	if trimmed == "" {
		return "Hey there, welcome back! It looks like the blog content was empty, " +
			"so there's nothing to narrate right now."
	}

	paragraphs := splitParagraphs(trimmed)
	opener := ""
	if len(paragraphs) > 0 {
		opener = shorten(paragraphs[0], fallbackOpenerLimit)
	}

	body := trimmed
	if len(paragraphs) > 1 {
		body = strings.Join(paragraphs[1:], " ")
	}
	body = shorten(body, fallbackBodyLimit)

	points := extractKeyPoints(paragraphs)
	formatted := make([]string, 0, len(points))
	for _, p := range points {
		formatted = append(formatted, "- "+p)
	}
	takeaways := strings.Join(formatted, "\n")
	if takeaways == "" {
		takeaways = "This article focuses on a single narrative, so let's walk through it together."
	}

	var sb strings.Builder
	sb.WriteString("[Intro]\n")
	sb.WriteString("Hey friends, welcome to the show. Today we're unpacking a post titled:\n")
	sb.WriteString("\"" + opener + "\"\n\n")
	sb.WriteString("[Main Takeaways]\n")
	sb.WriteString(takeaways + "\n\n")
	sb.WriteString("[Deep Dive]\n")
	sb.WriteString(body + "\n\n")
	sb.WriteString("[Outro]\n")
	sb.WriteString("That's a wrap for this quick conversion. Run the same post again later for a fully polished script.")
	return sb.String()
}

func splitParagraphs(text string) []string {
	var out []string
	for _, p := range strings.Split(text, "\n") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// extractKeyPoints pulls the leading sentence of the first few paragraphs,
// deduplicated.
func extractKeyPoints(paragraphs []string) []string {
	var points []string
	limit := len(paragraphs)
	if limit > 6 {
		limit = 6
	}
	for _, paragraph := range paragraphs[:limit] {
		sentence, _, _ := strings.Cut(paragraph, ".")
		sentence = strings.TrimSpace(sentence)
		if sentence == "" {
			continue
		}
		sentence = shorten(sentence, fallbackPointLimit)
		if !contains(points, sentence) {
			points = append(points, sentence)
		}
		if len(points) == fallbackMaxPoints {
			break
		}
	}
	return points
}

// shorten truncates at a word boundary within width runes, appending an
// ellipsis when anything was cut.
func shorten(text string, width int) string {
	runes := []rune(text)
	if len(runes) <= width {
		return text
	}
	cut := string(runes[:width-3])
	if idx := strings.LastIndex(cut, " "); idx > 0 {
		cut = cut[:idx]
	}
	return cut + "..."
}

func contains(items []string, v string) bool {
	for _, item := range items {
		if item == v {
			return true
		}
	}
	return false
}
