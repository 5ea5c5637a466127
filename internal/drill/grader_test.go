package drill

import (
	"testing"
)

func TestNormalize(t *testing.T) {
	g := Grader{}
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "lowercases", input: "HaLLo", expected: "hallo"},
		{name: "trims whitespace", input: "  wort  ", expected: "wort"},
		{name: "collapses inner runs", input: "guten   \t morgen", expected: "guten morgen"},
		{name: "eszett to ss", input: "Straße", expected: "strasse"},
		{name: "capital eszett to ss", input: "STRAẞE", expected: "strasse"},
		{name: "empty", input: "", expected: ""},
		{name: "only whitespace", input: "   ", expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := g.Normalize(tt.input); got != tt.expected {
				t.Errorf("Normalize(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestNormalizeCaseSensitive(t *testing.T) {
	g := Grader{CaseSensitive: true}
	if got := g.Normalize("HaLLo"); got != "HaLLo" {
		t.Errorf("Normalize(%q) = %q, want case preserved", "HaLLo", got)
	}
	// Eszett replacement still applies, for both casings.
	if got := g.Normalize("Straße"); got != "Strasse" {
		t.Errorf("Normalize(%q) = %q, want %q", "Straße", got, "Strasse")
	}
	if got := g.Normalize("STRAẞE"); got != "STRASSE" {
		t.Errorf("Normalize(%q) = %q, want %q", "STRAẞE", got, "STRASSE")
	}
}

func TestCompareExactMatch(t *testing.T) {
	g := Grader{}
	tests := []struct {
		name    string
		user    string
		correct string
	}{
		{name: "identical", user: "hund", correct: "hund"},
		{name: "case differs", user: "Hund", correct: "hund"},
		{name: "eszett equivalence", user: "Straße", correct: "strasse"},
		{name: "capital eszett equivalence", user: "STRAẞE", correct: "strasse"},
		{name: "whitespace differs", user: "  der  Hund ", correct: "der hund"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := g.Compare(tt.user, tt.correct)
			if !result.IsCorrect {
				t.Errorf("Compare(%q, %q).IsCorrect = false, want true", tt.user, tt.correct)
			}
			if result.Diff != nil {
				t.Errorf("Compare(%q, %q).Diff != nil on exact match", tt.user, tt.correct)
			}
		})
	}
}

func TestCompareSelfIsAlwaysCorrect(t *testing.T) {
	g := Grader{}
	for _, s := range []string{"", "a", "Größe", "zwei Wörter", "  padded  "} {
		if result := g.Compare(s, s); !result.IsCorrect {
			t.Errorf("Compare(%q, %q).IsCorrect = false", s, s)
		}
	}
}

func TestCompareLCSAlignment(t *testing.T) {
	g := Grader{}
	result := g.Compare("abc", "abd")

	if result.IsCorrect {
		t.Fatal("Compare(abc, abd).IsCorrect = true, want false")
	}
	if result.Diff == nil {
		t.Fatal("Compare(abc, abd).Diff = nil, want alignment")
	}

	wantUser := []CharMark{
		{Char: "a", Status: CharCorrect},
		{Char: "b", Status: CharCorrect},
		{Char: "c", Status: CharIncorrect},
	}
	wantCorrect := []CharMark{
		{Char: "a", Status: CharCorrect},
		{Char: "b", Status: CharCorrect},
		{Char: "d", Status: CharMissing},
	}

	if len(result.Diff.User) != len(wantUser) {
		t.Fatalf("user diff length = %d, want %d", len(result.Diff.User), len(wantUser))
	}
	for i, mark := range result.Diff.User {
		if mark != wantUser[i] {
			t.Errorf("user diff[%d] = %+v, want %+v", i, mark, wantUser[i])
		}
	}
	for i, mark := range result.Diff.Correct {
		if mark != wantCorrect[i] {
			t.Errorf("correct diff[%d] = %+v, want %+v", i, mark, wantCorrect[i])
		}
	}
}

func TestCompareInsertionsAndDeletions(t *testing.T) {
	g := Grader{}
	tests := []struct {
		name             string
		user             string
		correct          string
		wantUserCorrect  int // user chars marked correct
		wantRefMissing   int // reference chars marked missing
		wantUserWrong    int // user chars marked incorrect
	}{
		{
			name:            "missing letter",
			user:            "hnd",
			correct:         "hund",
			wantUserCorrect: 3,
			wantRefMissing:  1,
			wantUserWrong:   0,
		},
		{
			name:            "extra letter",
			user:            "huund",
			correct:         "hund",
			wantUserCorrect: 4,
			wantRefMissing:  0,
			wantUserWrong:   1,
		},
		{
			name:            "completely different",
			user:            "xyz",
			correct:         "abc",
			wantUserCorrect: 0,
			wantRefMissing:  3,
			wantUserWrong:   3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := g.Compare(tt.user, tt.correct)
			if result.IsCorrect {
				t.Fatalf("Compare(%q, %q).IsCorrect = true", tt.user, tt.correct)
			}

			userCorrect, userWrong, refMissing := 0, 0, 0
			for _, mark := range result.Diff.User {
				switch mark.Status {
				case CharCorrect:
					userCorrect++
				case CharIncorrect:
					userWrong++
				}
			}
			for _, mark := range result.Diff.Correct {
				if mark.Status == CharMissing {
					refMissing++
				}
			}

			if userCorrect != tt.wantUserCorrect {
				t.Errorf("user correct chars = %d, want %d", userCorrect, tt.wantUserCorrect)
			}
			if userWrong != tt.wantUserWrong {
				t.Errorf("user incorrect chars = %d, want %d", userWrong, tt.wantUserWrong)
			}
			if refMissing != tt.wantRefMissing {
				t.Errorf("reference missing chars = %d, want %d", refMissing, tt.wantRefMissing)
			}
		})
	}
}

func TestCompareEmptyUserAnswer(t *testing.T) {
	g := Grader{}
	result := g.Compare("", "hund")
	if result.IsCorrect {
		t.Fatal("empty answer graded correct")
	}
	if len(result.Diff.User) != 0 {
		t.Errorf("user diff length = %d, want 0", len(result.Diff.User))
	}
	for i, mark := range result.Diff.Correct {
		if mark.Status != CharMissing {
			t.Errorf("correct diff[%d].Status = %s, want missing", i, mark.Status)
		}
	}
}

func TestCompareMultibyteRunes(t *testing.T) {
	g := Grader{}
	result := g.Compare("grün", "grön")
	if result.IsCorrect {
		t.Fatal("Compare(grün, grön).IsCorrect = true")
	}
	if len(result.Diff.User) != 4 {
		t.Errorf("user diff length = %d, want 4 runes", len(result.Diff.User))
	}
	if result.Diff.User[2].Char != "ü" || result.Diff.User[2].Status != CharIncorrect {
		t.Errorf("user diff[2] = %+v, want incorrect ü", result.Diff.User[2])
	}
}
