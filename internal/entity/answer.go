package entity

// AnswerRecord is the loose intermediate shape recovered from an answer key.
// It is deliberately unvalidated at creation; the answer token is matched
// against a question's options only at merge time.
type AnswerRecord struct {
	ID          int    `json:"id"`
	Subject     string `json:"subject,omitempty"`
	Answer      string `json:"answer"`
	Explanation string `json:"explanation,omitempty"`
}

// Section is an independently parseable slice of a document. Subject is a
// best-effort hint from the segmenter, not authoritative.
type Section struct {
	Subject string
	Text    string
	// Pages lists the 1-based source pages covered by this section,
	// when known. Used to default page numbers on extracted items.
	Pages []int
}

// FirstPage returns the first covered page, or 0 when unknown.
func (s Section) FirstPage() int {
	if len(s.Pages) == 0 {
		return 0
	}
	return s.Pages[0]
}
