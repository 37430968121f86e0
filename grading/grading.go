// Package grading scores submitted answers against an assignment's answer key.
package grading

import (
	"fmt"
	"math"
	"strings"

	"courseplatform/apperr"
	course "courseplatform/models/course"
)

// Answer is a submitted answer. String and single choice assignments read
// Value, multiple choice assignments read Values.
type Answer struct {
	Value  string   `json:"answer"`
	Values []string `json:"answers"`
}

// Grade returns the score earned by ans, between 0 and the assignment's max score.
func Grade(a *course.Assignment, ans Answer) (int, error) {
	switch a.ItemType {
	case course.KindStringAssignment:
		if strings.EqualFold(ans.Value, a.Answer) {
			return a.MaxScore, nil
		}
		return 0, nil
	case course.KindChoicesAssignment:
		if ans.Value == a.Answer {
			return a.MaxScore, nil
		}
		return 0, nil
	case course.KindMultipleChoicesAssignment:
		return PartialCredit(a.CorrectChoices(), ans.Values, a.MaxScore), nil
	default:
		return 0, fmt.Errorf("assignment %d of type %q: %w", a.ID, a.ItemType, apperr.ErrGradingNotImplemented)
	}
}

// PartialCredit awards maxScore in proportion to the correct labels
// submitted. Submitted labels count once each. The result is rounded half
// to even and is at least 1 when any correct label was submitted.
func PartialCredit(correct, submitted []string, maxScore int) int {
	key := make(map[string]struct{}, len(correct))
	for _, c := range correct {
		key[c] = struct{}{}
	}
	seen := make(map[string]struct{}, len(submitted))
	hits := 0
	for _, s := range submitted {
		if _, dup := seen[s]; dup {
			continue
		}
		seen[s] = struct{}{}
		if _, ok := key[s]; ok {
			hits++
		}
	}
	if hits == 0 {
		return 0
	}
	score := int(math.RoundToEven(float64(hits*maxScore) / float64(len(key))))
	if score == 0 {
		return 1
	}
	return score
}
