package keywords

import "strings"

// Filter evaluates relevance of posts and comments against the three study
// categories. Posts only need subject and domain hits: they are the entry
// point of a thread and rarely mention personal experience. Comments carry
// the experiential signal, so they must additionally hit the experience
// category, evaluated over their own text plus the parent post's text.
type Filter struct {
	subject    *Category
	domain     *Category
	experience *Category
}

// NewFilter builds a relevance filter from the three categories.
func NewFilter(subject, domain, experience *Category) *Filter {
	return &Filter{subject: subject, domain: domain, experience: experience}
}

// NewDefaultFilter builds a filter over the built-in keyword lists.
func NewDefaultFilter() *Filter {
	return NewFilter(
		NewCategory("subject", DefaultSubjectTerms),
		NewCategory("domain", DefaultDomainTerms),
		NewCategory("experience", DefaultExperienceTerms),
	)
}

// RelevantPost reports whether a post's combined title+body text hits both
// the subject and domain categories.
func (f *Filter) RelevantPost(text string) bool {
	return f.subject.Matches(text) && f.domain.Matches(text)
}

// RelevantComment reports whether a comment qualifies given its own text and
// the parent post's text. All three categories must hit somewhere in the
// concatenation. A comment whose parent is unknown gets empty context.
func (f *Filter) RelevantComment(commentText, parentPostText string) bool {
	combined := strings.TrimSpace(commentText + " " + parentPostText)
	return f.subject.Matches(combined) &&
		f.domain.Matches(combined) &&
		f.experience.Matches(combined)
}
