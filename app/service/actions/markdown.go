package actions

import "strings"

// markdownReplacer strips the decoration the model emits despite being
// told not to. Longer markers come first so "**" never degrades to "*".
var markdownReplacer = strings.NewReplacer(
	"```", "",
	"**", "",
	"__", "",
	"### ", "",
	"## ", "",
	"# ", "",
	"`", "",
	"*", "",
	"_", "",
	">", "",
	"- ", "",
)

// CleanMarkdown removes markdown decoration from a model response. Pure
// text hygiene; it runs before any token extraction.
func CleanMarkdown(text string) string {
	return markdownReplacer.Replace(text)
}
