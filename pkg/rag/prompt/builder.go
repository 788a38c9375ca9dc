package prompt

import (
	"fmt"
	"strings"

	"morning-pulse-be/pkg/rag/conversation"
	"morning-pulse-be/pkg/store"
)

const (
	MaxOpinions          = 3
	MaxRecentExchanges   = 3
	opinionExcerptLength = 600
)

// Input is everything the model gets to see for one question.
type Input struct {
	Question   string
	Stories    []store.ScoredStory
	Opinions   []store.Opinion
	History    []conversation.Message
	Entities   []string
	LastEntity string
}

// Builder assembles the news-grounded prompt
type Builder struct {
	in Input
}

func NewBuilder(in Input) *Builder {
	return &Builder{in: in}
}

// Build is pure: the same input always yields the same prompt.
func (b *Builder) Build() string {
	var prompt strings.Builder

	b.writeSystem(&prompt)
	b.writeArticles(&prompt)
	b.writeOpinions(&prompt)
	b.writeConversation(&prompt)
	b.writeEntities(&prompt)
	b.writeQuestion(&prompt)
	b.writeFooter(&prompt)

	return prompt.String()
}

func (b *Builder) writeSystem(prompt *strings.Builder) {
	prompt.WriteString("You are Morning Pulse, a news assistant answering questions about today's stories.\n")
	prompt.WriteString("\n")
	prompt.WriteString("Citation rules:\n")
	prompt.WriteString("- Cite every factual claim with the bracketed number of its article, e.g. [1] or [2][3]\n")
	prompt.WriteString("- Cite opinion pieces as [OPINION n] and present them as the author's view, not as fact\n")
	prompt.WriteString("- Never invent article numbers\n")
	prompt.WriteString("\n")
	prompt.WriteString("Question handling:\n")
	prompt.WriteString("- Summary questions: give the key points across the relevant articles\n")
	prompt.WriteString("- Specific questions: answer directly, then add supporting detail\n")
	prompt.WriteString("- Follow-up questions: use the recent conversation and previously mentioned names to resolve \"it\", \"they\" or \"that\"\n")
	prompt.WriteString("- Comparison questions: set the positions side by side\n")
	prompt.WriteString("- If the articles do not cover the question, say so plainly\n")
	prompt.WriteString("\n")
}

func (b *Builder) writeArticles(prompt *strings.Builder) {
	prompt.WriteString("NEWS ARTICLES:\n")
	if len(b.in.Stories) == 0 {
		prompt.WriteString("(no matching articles)\n\n")
		return
	}
	for i, s := range b.in.Stories {
		fmt.Fprintf(prompt, "[%d] %s\n", i+1, s.Headline)
		category := s.Category
		if category == "" {
			category = s.Story.Category
		}
		fmt.Fprintf(prompt, "Category: %s\n", category)
		if s.Source != "" {
			fmt.Fprintf(prompt, "Source: %s\n", s.Source)
		}
		if s.Date != "" {
			fmt.Fprintf(prompt, "Date: %s\n", s.Date)
		}
		if s.Detail != "" {
			fmt.Fprintf(prompt, "Details: %s\n", s.Detail)
		}
		prompt.WriteString("\n")
	}
}

func (b *Builder) writeOpinions(prompt *strings.Builder) {
	opinions := store.LatestPublished(b.in.Opinions, MaxOpinions)
	if len(opinions) == 0 {
		return
	}
	prompt.WriteString("OPINION PIECES:\n")
	for i, o := range opinions {
		fmt.Fprintf(prompt, "[OPINION %d] %s\n", i+1, o.Headline)
		if o.SubHeadline != "" {
			fmt.Fprintf(prompt, "%s\n", o.SubHeadline)
		}
		author := o.AuthorName
		if o.AuthorTitle != "" {
			author += ", " + o.AuthorTitle
		}
		if author != "" {
			fmt.Fprintf(prompt, "By: %s\n", author)
		}
		fmt.Fprintf(prompt, "Text: %s\n\n", excerpt(o.Body, opinionExcerptLength))
	}
}

func (b *Builder) writeConversation(prompt *strings.Builder) {
	recent := conversation.LastExchanges(b.in.History, MaxRecentExchanges)
	if len(recent) == 0 {
		return
	}
	prompt.WriteString("RECENT CONVERSATION:\n")
	for _, m := range recent {
		speaker := "User"
		if m.Role != conversation.RoleUser {
			speaker = "Assistant"
		}
		fmt.Fprintf(prompt, "%s: %s\n", speaker, m.Content)
	}
	prompt.WriteString("\n")
}

func (b *Builder) writeEntities(prompt *strings.Builder) {
	if len(b.in.Entities) == 0 && b.in.LastEntity == "" {
		return
	}
	prompt.WriteString("PREVIOUSLY MENTIONED:\n")
	if len(b.in.Entities) > 0 {
		fmt.Fprintf(prompt, "%s\n", strings.Join(b.in.Entities, ", "))
	}
	if b.in.LastEntity != "" {
		fmt.Fprintf(prompt, "Most recently discussed: %s (pronouns in the question most likely refer to this)\n", b.in.LastEntity)
	}
	prompt.WriteString("\n")
}

func (b *Builder) writeQuestion(prompt *strings.Builder) {
	prompt.WriteString("USER QUESTION:\n")
	prompt.WriteString(b.in.Question)
	prompt.WriteString("\n\n")
}

func (b *Builder) writeFooter(prompt *strings.Builder) {
	prompt.WriteString("Answer using only the articles and opinion pieces above. ")
	prompt.WriteString("Cite sources by their bracketed index. ")
	prompt.WriteString("Do not use outside knowledge.\n")
}

func excerpt(s string, max int) string {
	r := []rune(strings.TrimSpace(s))
	if len(r) <= max {
		return string(r)
	}
	return strings.TrimSpace(string(r[:max])) + "..."
}
