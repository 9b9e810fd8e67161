package conv

import (
	"strings"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
	"github.com/microcosm-cc/bluemonday"
)

var (
	extensions = parser.CommonExtensions | parser.NoEmptyLineBeforeBlock
	htmlFlags  = html.CommonFlags | html.HrefTargetBlank
	tgPolicy   = bluemonday.NewPolicy()

	mdEscaper = strings.NewReplacer(
		`\`, `\\`, "`", "\\`", `*`, `\*`, `_`, `\_`,
		`{`, `\{`, `}`, `\}`, `[`, `\[`, `]`, `\]`,
		`(`, `\(`, `)`, `\)`, `#`, `\#`, `+`, `\+`,
		`-`, `\-`, `.`, `\.`, `!`, `\!`, `|`, `\|`,
		`<`, `\<`, `>`, `\>`, `~`, `\~`,
	)
)

func init() {
	// Allowed tags https://core.telegram.org/bots/api#html-style
	tgPolicy.AllowElements("b", "strong", "i", "em", "u", "ins", "s", "strike", "del", "code", "pre", "blockquote")
	tgPolicy.AllowAttrs("href").OnElements("a")
	tgPolicy.AllowAttrs("class").OnElements("code")
}

func MarkdownToTelegramHTML(md []byte) string {
	// 1. Render HTML
	p := parser.NewWithExtensions(extensions)
	renderer := html.NewRenderer(html.RendererOptions{Flags: htmlFlags})
	unsafeHTML := markdown.Render(p.Parse(md), renderer)

	// 2. Sanitize tags
	sanitized := tgPolicy.SanitizeBytes(unsafeHTML)

	return string(sanitized)
}

// EscapeMarkdown backslash-escapes every character markdown would treat as syntax.
func EscapeMarkdown(s string) string {
	return mdEscaper.Replace(s)
}

// ReplyToTelegramHTML renders a plain text reply for Telegram. Each line is
// kept literal and the first line is shown in bold.
func ReplyToTelegramHTML(reply string) string {
	var paragraphs []string
	for _, line := range strings.Split(reply, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		line = EscapeMarkdown(line)
		if len(paragraphs) == 0 {
			line = "**" + line + "**"
		}
		paragraphs = append(paragraphs, line)
	}
	if len(paragraphs) == 0 {
		return ""
	}
	return strings.TrimSpace(MarkdownToTelegramHTML([]byte(strings.Join(paragraphs, "\n\n"))))
}
