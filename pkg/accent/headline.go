package accent

import "strings"

// HeadlineSeparator divides alternate forms in a headline, as in あく・あける.
const HeadlineSeparator = "・"

var qualifierBrackets = [][2]string{
	{"［", "］"},
	{"[", "]"},
	{"（", "）"},
	{"(", ")"},
}

// NormalizeHeadline returns the dictionary form: everything before the first
// separator. A bracketed qualifier directly in front of the separator belongs
// to the separator and is dropped too. Without a separator s is returned as is.
func NormalizeHeadline(s string) string {
	head, _, found := strings.Cut(s, HeadlineSeparator)
	if !found {
		return s
	}
	for _, br := range qualifierBrackets {
		if !strings.HasSuffix(head, br[1]) {
			continue
		}
		if open := strings.LastIndex(head, br[0]); open >= 0 {
			return head[:open]
		}
	}
	return head
}
