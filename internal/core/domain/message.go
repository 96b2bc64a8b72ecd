package domain

import (
	"fmt"
	"strings"
)

// CloseActionID is the action identifier of the poll's close control.
const CloseActionID = "close_poll"

var markdownEscaper = strings.NewReplacer(
	`\`, `\\`,
	"*", `\*`,
	"_", `\_`,
	"~", `\~`,
	"`", "\\`",
	"|", `\|`,
	">", `\>`,
)

// EscapeMarkdown makes user text render literally inside markdown.
func EscapeMarkdown(text string) string {
	return markdownEscaper.Replace(text)
}

type BlockType string

const (
	BlockSection BlockType = "section"
	BlockDivider BlockType = "divider"
	BlockActions BlockType = "actions"
)

type TextStyle string

const (
	TextMarkdown TextStyle = "markdown"
	TextPlain    TextStyle = "plain"
)

type Action struct {
	ID    string
	Label string
}

type Block struct {
	Type   BlockType
	Style  TextStyle
	Text   string
	Action *Action
}

// MessageBody is the platform-neutral content of a poll message. Markdown
// sections use ** for bold.
type MessageBody struct {
	Blocks []Block
}

// Lines returns the text of every section block in order.
func (b MessageBody) Lines() []string {
	var lines []string
	for _, block := range b.Blocks {
		if block.Type == BlockSection {
			lines = append(lines, block.Text)
		}
	}
	return lines
}

func (b MessageBody) Actions() []Action {
	var actions []Action
	for _, block := range b.Blocks {
		if block.Type == BlockActions && block.Action != nil {
			actions = append(actions, *block.Action)
		}
	}
	return actions
}

// OpenPollBody composes the message posted when a poll opens.
func OpenPollBody(creatorID, question string, options [OptionCount]string) MessageBody {
	blocks := []Block{
		markdown(fmt.Sprintf("<@%s> posed the following question:", creatorID)),
		{Type: BlockDivider},
		markdown(fmt.Sprintf("**%s**", EscapeMarkdown(question))),
	}
	for i, option := range options {
		blocks = append(blocks, plain(fmt.Sprintf("%s %s", MarkerFor(i+1), option)))
	}
	blocks = append(blocks,
		Block{Type: BlockDivider},
		Block{Type: BlockActions, Action: &Action{ID: CloseActionID, Label: "Close poll"}},
	)
	return MessageBody{Blocks: blocks}
}

// ClosedPollBody composes the message that replaces the poll once closed.
func ClosedPollBody(question string, options [OptionCount]string, tally Tally) MessageBody {
	blocks := []Block{
		markdown(fmt.Sprintf("\U0001F389 Poll closed! The people have spoken. When it comes to **\"%s\"**:", EscapeMarkdown(question))),
	}
	for i, option := range options {
		blocks = append(blocks, plain(fmt.Sprintf("%s %s - %d vote(s)", MarkerFor(i+1), option, tally[i+1])))
	}
	return MessageBody{Blocks: blocks}
}

func markdown(text string) Block {
	return Block{Type: BlockSection, Style: TextMarkdown, Text: text}
}

func plain(text string) Block {
	return Block{Type: BlockSection, Style: TextPlain, Text: strings.TrimSpace(text)}
}
