package convert

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"

	"github.com/madmaxieee/cardtext/internal/cards"
	"github.com/madmaxieee/cardtext/internal/proto"
	"github.com/madmaxieee/cardtext/internal/utils"
)

const CARDS_VAR = "CARDS"

// Category is one kind of card with its own instructions. Control flow is the
// same for every category; only the wording differs.
type Category struct {
	Name   string
	System string
	// text/template for the user message, CARDS holds the rendered batch
	User string
}

const blackSystemPrompt = `Convert Cards Against Humanity black cards (prompt cards with blanks) into natural, realistic,
and humorous text messages that could be the first message in a conversation.

Guidelines:
1. Replace the blanks (_) with natural language that flows in the message
2. Make it sound like a real text someone might send to a friend
3. Keep the humor and adult themes but make it sound natural
4. Don't use placeholders or mention Cards Against Humanity
5. Each output should be a standalone text message without quotation marks
6. Maintain the original humor and edginess of CAH
7. For cards with multiple blanks, integrate them naturally into a single message

Format your response as a simple list, one message per line, without numbering or bullet points.`

const whiteSystemPrompt = `Convert Cards Against Humanity white cards (response cards) into natural, realistic,
and humorous text message replies.

Guidelines:
1. Make each card into a standalone text message reply
2. Make it sound like a real text someone might send to a friend
3. Keep the humor and adult themes but make it sound natural
4. Don't use placeholders or mention Cards Against Humanity
5. Each output should be a standalone text message without quotation marks
6. Maintain the original humor and edginess of CAH
7. Feel free to add emojis, text abbreviations, or other elements that make it feel like a real text

Format your response as a simple list, one message per line, without numbering or bullet points.`

func BlackCategory() Category {
	return Category{
		Name:   cards.KeyBlack,
		System: blackSystemPrompt,
		User:   "Please convert these Cards Against Humanity black cards into natural text messages:\n\n{{.CARDS}}",
	}
}

func WhiteCategory() Category {
	return Category{
		Name:   cards.KeyWhite,
		System: whiteSystemPrompt,
		User:   "Please convert these Cards Against Humanity white cards into natural text message replies:\n\n{{.CARDS}}",
	}
}

// BlackItems renders black cards with their expected answer count.
func BlackItems(blackCards []cards.BlackCard) []string {
	items := make([]string, len(blackCards))
	for i, card := range blackCards {
		items[i] = fmt.Sprintf("Card: '%s' (requires %d %s)", card.Text, card.Pick, utils.Plural(card.Pick, "response"))
	}
	return items
}

// WhiteItems are the raw card texts.
func WhiteItems(whiteCards []string) []string {
	return whiteCards
}

// Request builds the two-message conversation for one batch.
func (c Category) Request(batch []string, temperature float64, maxTokens int64) (proto.Request, error) {
	templateArgs := proto.TemplateArgs{CARDS_VAR: strings.Join(batch, "\n")}

	tmpl, err := template.New(c.Name).Parse(c.User)
	if err != nil {
		return proto.Request{}, err
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, templateArgs); err != nil {
		return proto.Request{}, err
	}

	return proto.Request{
		Messages: []proto.Message{
			proto.SystemMessage(c.System),
			proto.UserMessage(buf.String()),
		},
		Temperature: &temperature,
		MaxTokens:   &maxTokens,
	}, nil
}
