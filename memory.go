package dodo

import (
	"strings"
)

// defaultRecentWindow is the number of iteration pairs kept in full
// detail when no MemoryConfig is supplied.
const defaultRecentWindow = 5

// MemoryConfig controls how conversation history is retained across
// iterations. Recent pairs are kept in full (subject to per-content
// lifespan filtering); older pairs are compacted into a text summary.
type MemoryConfig struct {
	// RecentWindow is the number of most-recent iteration pairs retained
	// verbatim. Minimum 1.
	RecentWindow int
}

// DefaultMemoryConfig returns the default retention policy.
func DefaultMemoryConfig() MemoryConfig {
	return MemoryConfig{RecentWindow: defaultRecentWindow}
}

func (c MemoryConfig) normalized() MemoryConfig {
	if c.RecentWindow < 1 {
		c.RecentWindow = defaultRecentWindow
	}
	return c
}

// pair is the atomic unit of loop progress: one model message and the
// user message holding its tool results plus the fresh observation.
type pair struct {
	model Message
	user  Message
}

// prepareMessages assembles the conversation for the next model call:
// the immutable bootstrap, a compacted summary of pairs evicted from the
// window, then the recent pairs with lifespan filtering applied to their
// user messages. The bootstrap and the summary are never filtered.
func prepareMessages(bootstrap []Message, pairs []pair, window int) []Message {
	out := make([]Message, 0, len(bootstrap)+2*len(pairs)+1)
	out = append(out, bootstrap...)

	recent := pairs
	if len(pairs) > window {
		old := pairs[:len(pairs)-window]
		recent = pairs[len(pairs)-window:]
		if summary := compactPairs(old); summary != "" {
			out = append(out, NewUserMessage(NewText("Previous actions in this session:\n"+summary)))
		}
	}

	for i, p := range recent {
		out = append(out, p.model)
		// distance 0 = newest pair.
		distance := len(recent) - 1 - i
		out = append(out, filterByLifespan(p.user, distance))
	}
	return out
}

// filterByLifespan drops content whose lifespan has lapsed at the given
// distance from the newest pair. Content without a lifespan is kept. The
// message is rebuilt, never mutated, so the same pair can be re-filtered
// at a different distance on the next iteration.
func filterByLifespan(msg Message, distance int) Message {
	if len(msg.Content) == 0 {
		return msg
	}
	filtered := make([]Content, 0, len(msg.Content))
	for _, c := range msg.Content {
		lifespan := c.Meta().Lifespan
		if lifespan == 0 || distance < lifespan {
			filtered = append(filtered, c)
		}
	}
	out := msg
	out.Content = filtered
	return out
}

// compactPairs renders pairs as a bullet list: model reasoning as
// top-level bullets (continuation lines indented), tool results as
// indented bullets with failure annotations. The runner's action log is
// the compaction of all pairs.
func compactPairs(pairs []pair) string {
	var lines []string
	for _, p := range pairs {
		if reasoning := strings.TrimSpace(p.model.Text()); reasoning != "" {
			for j, line := range strings.Split(reasoning, "\n") {
				if j == 0 {
					lines = append(lines, "- "+line)
				} else {
					lines = append(lines, "  "+line)
				}
			}
		}
		for _, res := range p.user.ToolResults() {
			if res.Status == StatusError {
				lines = append(lines, "  - "+res.Description+" [FAILED: "+res.Error+"]")
			} else {
				lines = append(lines, "  - "+res.Description)
			}
		}
	}
	return strings.Join(lines, "\n")
}
