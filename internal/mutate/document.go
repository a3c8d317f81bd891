package mutate

import (
	"strconv"
	"strings"

	"todomap/internal/model"
)

// SetGoals replaces the free-text goals block.
func SetGoals(doc *model.Document, text string) (bool, error) {
	if doc == nil {
		return false, ValidationError{Reason: "nil document"}
	}
	text = strings.Trim(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	if doc.Goals == text {
		return false, nil
	}
	doc.Goals = text
	return true, nil
}

func AddBigThing(doc *model.Document, text string) (bool, error) {
	if doc == nil {
		return false, ValidationError{Reason: "nil document"}
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return false, ValidationError{Field: "big thing", Reason: "empty"}
	}
	if strings.ContainsAny(text, "\r\n") {
		return false, ValidationError{Field: "big thing", Reason: "must be a single line"}
	}
	doc.BigThings = append(doc.BigThings, text)
	return true, nil
}

// RemoveBigThing removes the n-th big thing (1-based, as numbered on disk) and returns it.
func RemoveBigThing(doc *model.Document, n int) (string, error) {
	if doc == nil || n < 1 || n > len(doc.BigThings) {
		return "", NotFoundError{Kind: "big thing", ID: strconv.Itoa(n)}
	}
	removed := doc.BigThings[n-1]
	doc.BigThings = append(doc.BigThings[:n-1:n-1], doc.BigThings[n:]...)
	return removed, nil
}
