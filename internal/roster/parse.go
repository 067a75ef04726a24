package roster

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// Section headers printed on every roster sheet.
const (
	SessionOneHeader = "Séance 1 (10h-10h30)"
	SessionTwoHeader = "Séance 2 (10h45-12h15)"
)

// Entry is one student's line on a sheet.
type Entry struct {
	Name     string `json:"name"`
	Session1 string `json:"session1"`
	Session2 string `json:"session2"`
}

// Statuses returns the entry's session statuses in session order.
func (e Entry) Statuses() []string {
	return []string{e.Session1, e.Session2}
}

// Record is the parsed content of one sheet, in sheet order.
// A name printed twice on the same sheet appears twice.
type Record []Entry

// Names returns the student names in sheet order.
func (r Record) Names() []string {
	names := make([]string, len(r))
	for i, e := range r {
		names[i] = e.Name
	}
	return names
}

// Parse turns the raw OCR text of one sheet into a Record.
//
// Returns a *ParseError when a section header is missing or when the name
// and status lists do not line up. A failed parse never yields a partial
// Record.
func Parse(text string) (Record, error) {
	text = normalize(text)

	nameBlock, sessionOne, sessionTwo, err := segment(text)
	if err != nil {
		return nil, err
	}

	names := filterNames(splitLines(nameBlock))
	first := dropEmpty(splitLines(sessionOne))
	second := dropEnds(splitLines(sessionTwo))

	if len(names) != len(first) || len(names) != len(second) {
		return nil, &ParseError{
			Code:     CodeLengthMismatch,
			Names:    len(names),
			Session1: len(first),
			Session2: len(second),
		}
	}

	rec := make(Record, len(names))
	for i, name := range names {
		rec[i] = Entry{Name: name, Session1: first[i], Session2: second[i]}
	}
	return rec, nil
}

// normalize composes accented characters and folds CRLF line endings so the
// headers match however the OCR engine encoded them.
func normalize(text string) string {
	text = norm.NFC.String(text)
	return strings.ReplaceAll(text, "\r\n", "\n")
}

// segment splits text into the name block and the two session blocks.
func segment(text string) (names, sessionOne, sessionTwo string, err error) {
	one := strings.Index(text, SessionOneHeader)
	if one < 0 {
		return "", "", "", missingHeader(SessionOneHeader)
	}
	two := strings.Index(text, SessionTwoHeader)
	if two < 0 {
		return "", "", "", missingHeader(SessionTwoHeader)
	}

	names = text[:one]

	sessionOne = section(text[one:], SessionOneHeader)
	if end := strings.Index(sessionOne, SessionTwoHeader); end >= 0 {
		sessionOne = sessionOne[:end]
	}
	sessionOne = afterHeaderLine(sessionOne)

	sessionTwo = afterHeaderLine(section(text[two:], SessionTwoHeader))
	return names, sessionOne, sessionTwo, nil
}

// section returns what follows header in s, up to a repeated header.
// s must start with header.
func section(s, header string) string {
	body := s[len(header):]
	if next := strings.Index(body, header); next >= 0 {
		body = body[:next]
	}
	return body
}

// afterHeaderLine drops the remainder of the header's own line.
func afterHeaderLine(s string) string {
	if nl := strings.IndexByte(s, '\n'); nl >= 0 {
		return s[nl+1:]
	}
	return ""
}

func splitLines(block string) []string {
	lines := strings.Split(block, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSpace(l)
	}
	return lines
}

// filterNames drops near-empty lines, then the title line.
func filterNames(lines []string) []string {
	kept := make([]string, 0, len(lines))
	for _, l := range lines {
		if utf8.RuneCountInString(l) > 1 {
			kept = append(kept, l)
		}
	}
	if len(kept) == 0 {
		return kept
	}
	return kept[1:]
}

func dropEmpty(lines []string) []string {
	kept := make([]string, 0, len(lines))
	for _, l := range lines {
		if l != "" {
			kept = append(kept, l)
		}
	}
	return kept
}

// dropEnds removes the first and last line.
func dropEnds(lines []string) []string {
	if len(lines) <= 2 {
		return nil
	}
	return lines[1 : len(lines)-1]
}
