package postservice

import (
	"regexp"

	"github.com/lazygardenertx/gardenlog/internal/common"
)

var (
	SlugRX = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)
)

func validateTitle(v *common.Validator, title string) {
	v.Check(title != "", "title", "must be provided")
	v.Check(v.CheckStringLength(title, 1, 200), "title", "must not be more than 200 characters long")
}

func validateSlug(v *common.Validator, slug string) {
	v.Check(slug != "", "slug", "must be provided")
	v.Check(v.CheckStringLength(slug, 1, 100), "slug", "must not be more than 100 characters long")
	v.Check(SlugRX.MatchString(slug), "slug", "must only contain lowercase letters, numbers, and hyphens")
}

func validateContent(v *common.Validator, content string) {
	v.Check(content != "", "content", "must be provided")
}

func validatePublishedAt(v *common.Validator, publishedAt string) {
	v.Check(publishedAt != "", "published_at", "must be provided")
	if publishedAt != "" {
		v.Check(v.CheckDate(publishedAt), "published_at", "must be a valid date in YYYY-MM-DD format")
	}
}

func validateStatus(v *common.Validator, status PostStatus) {
	v.Check(status == StatusDraft || status == StatusPublished, "status", "must be either draft or published")
}
