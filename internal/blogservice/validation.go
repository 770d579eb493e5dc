package blogservice

import (
	"strings"

	"github.com/google/uuid"

	"github.com/sushihentaime/nightblog/internal/common"
)

func validateTitle(v *common.Validator, title string) {
	v.Check(title != "", "title", "must be provided")
	v.Check(v.CheckStringLength(title, 1, 200), "title", "must be between 1 and 200 characters long")
}

// validateContent expects content that already went through sanitizeMarkdown.
func validateContent(v *common.Validator, content string) {
	v.Check(strings.TrimSpace(content) != "", "content", "must be provided")
}

func validateCommentText(v *common.Validator, text string) {
	v.Check(text != "", "text", "must be provided")
	v.Check(v.CheckStringLength(text, 1, 2000), "text", "must be between 1 and 2000 characters long")
}

func validatePage(v *common.Validator, skip, limit int) {
	v.Check(skip >= 0, "skip", "must be zero or greater")
	v.Check(limit >= 1 && limit <= MaxLimit, "limit", "must be between 1 and 100")
}

// validID reports whether id could name a stored record: a UUID in its canonical hyphenated
// form, any case. Anything else cannot exist and is reported as not found.
func validID(id string) bool {
	u, err := uuid.Parse(id)
	return err == nil && u.String() == strings.ToLower(id)
}
