package extractor

import "regexp"

// urlPatterns match candidate URLs in raw document text. They run over the
// document regardless of whether a markup parse already happened, so links
// living in code blocks or attribute soup are still caught.
func urlPatterns() []*regexp.Regexp {
	shapes := []string{
		`(?i)https?://[^\s<>"'` + "`" + `]+`,
		`(?i)www\.[^\s<>"'` + "`" + `]+`,
		`(?i)raw\.githubusercontent\.com/[^\s<>"'` + "`" + `]+`,
		`(?i)github\.com/[^\s<>"'` + "`" + `]+/raw/[^\s<>"'` + "`" + `]+`,
		`(?i)gitlab\.com/[^\s<>"'` + "`" + `]+/raw/[^\s<>"'` + "`" + `]+`,
	}

	patterns := make([]*regexp.Regexp, 0, len(shapes))
	for _, shape := range shapes {
		patterns = append(patterns, regexp.MustCompile(shape))
	}

	return patterns
}

// attrTags lists the non-anchor elements whose URL-bearing attributes are
// scanned during a markup pass, and the attributes checked on each.
var (
	attrTags  = []string{"script", "link", "img", "source"}
	attrNames = []string{"src", "href", "data-src", "content"}
)

// trailingPunctuation is stripped from the right end of every regex match
// before it enters the result set.
const trailingPunctuation = `.,;:!?)'"`
