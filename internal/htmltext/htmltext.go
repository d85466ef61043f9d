// Package htmltext provides the text clean-up helpers applied to vendor
// content before it is stored: tag stripping, entity decoding, HTML
// sanitization and plain-text formatting.
package htmltext

import (
	"html"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// unsafeSelectors lists elements removed from rich text before storage.
const unsafeSelectors = "script, style, iframe, object, embed, form, input, button, link, meta, base"

// StripTags removes all markup and returns the text content.
// Script and style bodies are dropped along with their tags.
func StripTags(s string) string {
	if !strings.ContainsAny(s, "<&") {
		return s
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return s
	}
	doc.Find("script, style").Remove()
	return doc.Find("body").Text()
}

// DecodeEntities converts HTML entities such as &amp;aelig; into characters.
func DecodeEntities(s string) string {
	return html.UnescapeString(s)
}

// EscapeHTML escapes text for inclusion in an HTML fragment.
func EscapeHTML(s string) string {
	return html.EscapeString(s)
}

// FormatPlainText trims the text and removes single and double quotes.
func FormatPlainText(s string) string {
	s = strings.TrimSpace(s)
	return strings.NewReplacer(`"`, "", "'", "").Replace(s)
}

// SanitizeHTML removes active content from an HTML fragment: unsafe
// elements, event handler attributes and javascript: URLs. The remaining
// markup is returned unchanged otherwise.
func SanitizeHTML(fragment string) (string, error) {
	if strings.TrimSpace(fragment) == "" {
		return "", nil
	}
	if !strings.Contains(fragment, "<") {
		return fragment, nil
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return "", err
	}

	body := doc.Find("body")
	body.Find(unsafeSelectors).Remove()
	body.Find("*").Each(func(_ int, sel *goquery.Selection) {
		var drop []string
		for _, attr := range sel.Get(0).Attr {
			key := strings.ToLower(attr.Key)
			val := strings.ToLower(strings.TrimSpace(attr.Val))
			if strings.HasPrefix(key, "on") ||
				((key == "href" || key == "src") && strings.HasPrefix(val, "javascript:")) {
				drop = append(drop, attr.Key)
			}
		}
		for _, key := range drop {
			sel.RemoveAttr(key)
		}
	})

	out, err := body.Html()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

// CleanBody decodes entities and sanitizes a rich-text body. If
// sanitization fails the decoded text is stripped of markup instead.
func CleanBody(s string) string {
	decoded := DecodeEntities(strings.TrimSpace(s))
	clean, err := SanitizeHTML(decoded)
	if err != nil {
		return StripTags(decoded)
	}
	return clean
}
