package utilities

import "strings"

// Forum post bodies are stored HTML-escaped with BB markup converted to HTML,
// and rendered as-is by clients. Escaping happens on write; unescaping
// restores the author's original markup when a post is edited. Re-escaping
// already escaped text would strip the generated tags, so the two functions
// must stay exact inverses for the supported markup.

var bbEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
)

var bbToHTML = strings.NewReplacer(
	"[B]", "<b>",
	"[/B]", "</b>",
	"[I]", "<i>",
	"[/I]", "</i>",
	"[U]", "<u>",
	"[/U]", "</u>",
	"\n", "<br />",
	`[URL="`, `<a href="`,
	`"]`, `">`,
	"[/URL]", "</a>",
)

var htmlToBB = strings.NewReplacer(
	"<b>", "[B]",
	"</b>", "[/B]",
	"<i>", "[I]",
	"</i>", "[/I]",
	"<u>", "[U]",
	"</u>", "[/U]",
	"<br />", "\n",
	`<a href="`, `[URL="`,
	`">`, `"]`,
	"</a>", "[/URL]",
)

var bbUnescaper = strings.NewReplacer(
	"&amp;", "&",
	"&lt;", "<",
	"&gt;", ">",
)

// BBCodeEscape HTML-escapes text and converts BB markup to HTML.
func BBCodeEscape(text string) string {
	return bbToHTML.Replace(bbEscaper.Replace(text))
}

// BBCodeUnescape converts stored HTML back to BB markup and unescapes it.
func BBCodeUnescape(text string) string {
	return bbUnescaper.Replace(htmlToBB.Replace(text))
}
