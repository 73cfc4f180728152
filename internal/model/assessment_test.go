package model

import (
	"encoding/json"
	"testing"
)

func TestPruneCorrectAnswerOptionRemoved(t *testing.T) {
	// 原选项 [A,B,C]，正确答案 A,C，编辑后选项收缩为 [B,C]
	pruned := PruneCorrectAnswer("A,C", []string{"B", "C"})
	if pruned != "C" {
		t.Fatalf("expected pruned answer %q, got %q", "C", pruned)
	}
}

func TestPruneCorrectAnswerAllRemoved(t *testing.T) {
	pruned := PruneCorrectAnswer("A,B", []string{"C", "D"})
	if pruned != "" {
		t.Fatalf("expected empty answer when all options removed, got %q", pruned)
	}
}

func TestPruneCorrectAnswerUnchanged(t *testing.T) {
	pruned := PruneCorrectAnswer("A,C", []string{"A", "B", "C"})
	if pruned != "A,C" {
		t.Fatalf("expected answer untouched, got %q", pruned)
	}
}

func TestSplitAnswers(t *testing.T) {
	parts := SplitAnswers(" A , B ,,C")
	if len(parts) != 3 || parts[0] != "A" || parts[1] != "B" || parts[2] != "C" {
		t.Fatalf("unexpected split result: %v", parts)
	}
	if got := SplitAnswers(""); got != nil {
		t.Errorf("expected nil for empty answer, got %v", got)
	}
}

func TestJoinAnswers(t *testing.T) {
	if got := JoinAnswers([]string{"A", "C"}); got != "A,C" {
		t.Fatalf("expected %q, got %q", "A,C", got)
	}
}

func TestTotalPoints(t *testing.T) {
	a := &Assessment{Questions: []AssessmentQuestion{
		{QuestionType: MultipleChoice, Points: 10},
		{QuestionType: Essay, Points: 5},
		{QuestionType: TrueFalse, Points: 2},
	}}
	if got := a.TotalPoints(); got != 17 {
		t.Fatalf("expected total 17, got %d", got)
	}
}

func TestOptionList(t *testing.T) {
	q := &AssessmentQuestion{Options: json.RawMessage(`["A","B"]`)}
	opts := q.OptionList()
	if len(opts) != 2 || opts[0] != "A" {
		t.Fatalf("unexpected options: %v", opts)
	}

	q = &AssessmentQuestion{Options: json.RawMessage(`not json`)}
	if got := q.OptionList(); got != nil {
		t.Errorf("expected nil for invalid options JSON, got %v", got)
	}

	q = &AssessmentQuestion{}
	if got := q.OptionList(); got != nil {
		t.Errorf("expected nil for empty options, got %v", got)
	}
}
