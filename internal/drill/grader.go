package drill

import (
	"strings"
)

// CharStatus classifies a single character in a graded answer.
type CharStatus string

const (
	CharCorrect   CharStatus = "correct"
	CharIncorrect CharStatus = "incorrect"
	CharMissing   CharStatus = "missing"
)

// CharMark is one character of a graded answer with its classification.
type CharMark struct {
	Char   string     `json:"char"`
	Status CharStatus `json:"status"`
}

// Diff is a character-level alignment between the user's answer and the
// reference answer. User characters are correct or incorrect; reference
// characters are correct or missing.
type Diff struct {
	User    []CharMark `json:"user"`
	Correct []CharMark `json:"correct"`
}

// ComparisonResult is the outcome of grading one free-text answer.
type ComparisonResult struct {
	IsCorrect bool  `json:"is_correct"`
	Diff      *Diff `json:"diff,omitempty"`
}

// Grader grades free-text answers under forgiving normalization.
// The zero value is a case-insensitive grader.
type Grader struct {
	// CaseSensitive disables case folding during normalization.
	CaseSensitive bool
}

// Normalize prepares text for comparison: surrounding whitespace is
// trimmed, internal whitespace runs collapse to single spaces, unless
// CaseSensitive is set the text is lowercased, and eszett (ß or ẞ)
// becomes "ss". The eszett replacement runs after case folding so the
// capital form, which lowercases to ß, is caught too.
func (g Grader) Normalize(text string) string {
	text = strings.Join(strings.Fields(text), " ")
	if !g.CaseSensitive {
		text = strings.ToLower(text)
	}
	text = strings.ReplaceAll(text, "ß", "ss")
	text = strings.ReplaceAll(text, "ẞ", "SS")
	return text
}

// Compare grades a user answer against the reference answer. Exact
// matches after normalization return a nil diff; otherwise both strings
// are aligned character by character via longest common subsequence and
// every character is classified for display.
func (g Grader) Compare(user, correct string) ComparisonResult {
	normUser := []rune(g.Normalize(user))
	normCorrect := []rune(g.Normalize(correct))

	if string(normUser) == string(normCorrect) {
		return ComparisonResult{IsCorrect: true}
	}

	inUser, inCorrect := lcsPositions(normUser, normCorrect)

	diff := &Diff{
		User:    make([]CharMark, len(normUser)),
		Correct: make([]CharMark, len(normCorrect)),
	}
	for i, r := range normUser {
		status := CharIncorrect
		if inUser[i] {
			status = CharCorrect
		}
		diff.User[i] = CharMark{Char: string(r), Status: status}
	}
	for i, r := range normCorrect {
		status := CharMissing
		if inCorrect[i] {
			status = CharCorrect
		}
		diff.Correct[i] = CharMark{Char: string(r), Status: status}
	}

	return ComparisonResult{IsCorrect: false, Diff: diff}
}

// lcsPositions computes the longest common subsequence of a and b and
// reports which positions of each participate in it. Ties during
// reconstruction step in the a direction so the alignment is
// deterministic.
func lcsPositions(a, b []rune) (inA, inB []bool) {
	n, m := len(a), len(b)

	dp := make([][]int, n+1)
	for i := range dp {
		dp[i] = make([]int, m+1)
	}
	for i := 1; i <= n; i++ {
		for j := 1; j <= m; j++ {
			if a[i-1] == b[j-1] {
				dp[i][j] = dp[i-1][j-1] + 1
			} else if dp[i-1][j] >= dp[i][j-1] {
				dp[i][j] = dp[i-1][j]
			} else {
				dp[i][j] = dp[i][j-1]
			}
		}
	}

	inA = make([]bool, n)
	inB = make([]bool, m)
	for i, j := n, m; i > 0 && j > 0; {
		switch {
		case a[i-1] == b[j-1]:
			inA[i-1] = true
			inB[j-1] = true
			i--
			j--
		case dp[i-1][j] >= dp[i][j-1]:
			i--
		default:
			j--
		}
	}
	return inA, inB
}
