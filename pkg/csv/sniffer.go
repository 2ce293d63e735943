package csv

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/shapestone/shape-csvtok/internal/tokenizer"
)

// sniffDelimiters are the candidates, in order of preference on ties.
var sniffDelimiters = []rune{',', '\t', ';', '|'}

// sniffComment is the only comment marker the sniffer recognizes.
const sniffComment = '#'

var (
	headerPatterns = []*regexp.Regexp{
		regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`),       // snake_case or identifier
		regexp.MustCompile(`^[a-zA-Z]+[A-Z][a-zA-Z]*$`),      // camelCase
		regexp.MustCompile(`^[A-Z][a-z]+([ ][A-Z][a-z]+)*$`), // Title Case
	}
	datePatterns = []*regexp.Regexp{
		regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`),
		regexp.MustCompile(`^\d{2}/\d{2}/\d{4}$`),
	}
)

// Sniffer guesses the dialect of a sample: the delimiter, whether the first
// row is a header, and whether '#' marks comment lines. The sample is
// tokenized with each candidate dialect, so quoted delimiters and line
// breaks do not skew the result.
type Sniffer struct {
	sample   string
	dialect  Dialect
	analyzed bool
}

// NewSniffer creates a new Sniffer with a sample of CSV data.
// For best results, provide at least 2-3 lines of data.
func NewSniffer(sample string) *Sniffer {
	return &Sniffer{sample: sample}
}

// Sniff returns the dialect detected in sample.
//
// Example:
//
//	d := csv.Sniff("id;name\n1;Alice\n2;Bob\n")
//	// d.Delimiter == ';', d.HeaderPresent == true
func Sniff(sample string) Dialect {
	return NewSniffer(sample).Dialect()
}

// Dialect returns DefaultDialect with the detected settings applied.
func (s *Sniffer) Dialect() Dialect {
	s.analyze()
	return s.dialect
}

// DetectDelimiter returns the detected field delimiter.
func (s *Sniffer) DetectDelimiter() rune {
	s.analyze()
	return s.dialect.Delimiter
}

// HasHeader reports whether the first row appears to be a header.
func (s *Sniffer) HasHeader() bool {
	s.analyze()
	return s.dialect.HeaderPresent
}

// DetectComment returns '#' when the sample has comment lines, NoChar
// otherwise.
func (s *Sniffer) DetectComment() rune {
	s.analyze()
	return s.dialect.Comment
}

func (s *Sniffer) analyze() {
	if s.analyzed {
		return
	}
	s.analyzed = true

	d := DefaultDialect()
	d.LazyQuotes = true
	d.Comment = detectComment(s.sample)
	d.Delimiter = detectDelimiter(s.sample, d)
	d.HeaderPresent = detectHeader(sampleRows(s.sample, d, 2))
	d.LazyQuotes = false
	s.dialect = d
}

// detectComment reports '#' when some, but not all, lines start with it.
func detectComment(sample string) rune {
	commented, plain := 0, 0
	for _, line := range strings.Split(sample, "\n") {
		line = strings.TrimRight(line, "\r")
		switch {
		case line == "":
		case line[0] == sniffComment:
			commented++
		default:
			plain++
		}
	}
	if commented > 0 && plain > 0 {
		return sniffComment
	}
	return NoChar
}

// detectDelimiter scores every candidate by the number of fields it yields
// on the first row, with a bonus when every row has the same width.
func detectDelimiter(sample string, base Dialect) rune {
	best := ','
	bestScore := 0
	for _, delim := range sniffDelimiters {
		d := base
		d.Delimiter = delim
		if d.Validate() != nil {
			continue
		}

		rows := sampleRows(sample, d, 0)
		if len(rows) == 0 || len(rows[0]) < 2 {
			continue
		}
		score := len(rows[0]) - 1
		consistent := true
		for _, row := range rows[1:] {
			if len(row) != len(rows[0]) {
				consistent = false
				break
			}
		}
		if consistent {
			score *= 10
		}
		if score > bestScore {
			best, bestScore = delim, score
		}
	}
	return best
}

// sampleRows tokenizes up to limit rows of sample (all rows when limit is
// 0). A sample cut off mid-row ends at the last complete row.
func sampleRows(sample string, d Dialect, limit int) [][]string {
	tok := tokenizer.NewFromString(sample, d.config())
	var rows [][]string
	for limit == 0 || len(rows) < limit {
		line, err := tok.NextLine()
		if err != nil {
			break
		}
		rows = append(rows, line.Cells)
	}
	return rows
}

// detectHeader compares how header-like and data-like the first row looks.
func detectHeader(rows [][]string) bool {
	if len(rows) < 2 || len(rows[0]) == 0 {
		return false
	}

	headerScore, dataScore := 0, 0
	for _, field := range rows[0] {
		field = strings.TrimSpace(field)
		if isLikelyHeader(field) {
			headerScore++
		}
		if isLikelyData(field) {
			dataScore++
		}
	}
	return headerScore > dataScore
}

// isLikelyHeader checks if a field looks like a header name.
func isLikelyHeader(s string) bool {
	if s == "" || isNumeric(s) {
		return false
	}
	for _, pattern := range headerPatterns {
		if pattern.MatchString(s) {
			return true
		}
	}
	return false
}

// isLikelyData checks if a field looks like data rather than a header.
func isLikelyData(s string) bool {
	if s == "" {
		return false
	}
	if isNumeric(s) || strings.Contains(s, "@") {
		return true
	}
	for _, pattern := range datePatterns {
		if pattern.MatchString(s) {
			return true
		}
	}
	return false
}

// isNumeric checks if a string represents a decimal number.
func isNumeric(s string) bool {
	s = strings.TrimPrefix(strings.TrimSpace(s), "-")
	if s == "" {
		return false
	}
	hasDot := false
	for _, ch := range s {
		switch {
		case ch == '.' && !hasDot:
			hasDot = true
		case !unicode.IsDigit(ch):
			return false
		}
	}
	return true
}
