package model

import (
	"encoding/json"
	"strings"
	"time"
)

type AssessmentType string

const (
	AssessmentQuiz       AssessmentType = "quiz"
	AssessmentAssignment AssessmentType = "assignment"
	AssessmentProject    AssessmentType = "project"
)

type QuestionType string

const (
	MultipleChoice QuestionType = "multiple_choice"
	TrueFalse      QuestionType = "true_false"
	ShortAnswer    QuestionType = "short_answer"
	Essay          QuestionType = "essay"
	Checkbox       QuestionType = "checkbox"
)

// swagger:model Assessment
type Assessment struct {
	BaseModel
	LessonID     uint                 `gorm:"index;type:bigint unsigned" json:"lessonId"`
	Title        string               `gorm:"size:255;not null" json:"title"`
	Description  string               `gorm:"type:text" json:"description"`
	Type         AssessmentType       `gorm:"size:20;default:'quiz'" json:"type"`
	PassingScore int                  `gorm:"default:70" json:"passingScore"` // 百分比 0-100
	TimeLimit    int                  `gorm:"default:0" json:"timeLimit"`     // Minutes，0 表示不限时
	FileRequired bool                 `gorm:"default:false" json:"fileRequired"`
	IsPublished  bool                 `gorm:"default:false" json:"isPublished"`
	PublishAt    *time.Time           `json:"publishAt,omitempty"`
	Order        int                  `gorm:"default:0" json:"order"`
	Questions    []AssessmentQuestion `gorm:"foreignKey:AssessmentID" json:"questions,omitempty"`
}

func (Assessment) TableName() string {
	return "assessments"
}

// TotalPoints 所有题目分值之和，与题型无关
func (a *Assessment) TotalPoints() int {
	total := 0
	for _, q := range a.Questions {
		total += q.Points
	}
	return total
}

// swagger:model AssessmentQuestion
type AssessmentQuestion struct {
	BaseModel
	AssessmentID  uint            `gorm:"index;type:bigint unsigned" json:"assessmentId"`
	QuestionType  QuestionType    `gorm:"size:50;not null" json:"questionType"`
	Content       string          `gorm:"type:text;not null" json:"content"` // 题干
	Options       json.RawMessage `gorm:"type:json" json:"options"`          // JSON: []string，仅选择/多选题使用
	CorrectAnswer string          `gorm:"type:text" json:"correctAnswer"`    // 多答案以逗号拼接
	Points        int             `gorm:"default:1" json:"points"`
	Order         int             `gorm:"default:0" json:"order"`
	Explanation   string          `gorm:"type:text" json:"explanation"`
}

func (AssessmentQuestion) TableName() string {
	return "assessment_questions"
}

// OptionList 解析 Options JSON，解析失败返回空列表
func (q *AssessmentQuestion) OptionList() []string {
	if len(q.Options) == 0 {
		return nil
	}
	var opts []string
	if err := json.Unmarshal(q.Options, &opts); err != nil {
		return nil
	}
	return opts
}

// SplitAnswers 拆分逗号拼接的多答案字符串
func SplitAnswers(answer string) []string {
	if answer == "" {
		return nil
	}
	parts := strings.Split(answer, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// JoinAnswers 多选答案按约定以逗号拼接为单个字符串（有损编码）
func JoinAnswers(answers []string) string {
	return strings.Join(answers, ",")
}

// PruneCorrectAnswer 选项收缩后剔除已不存在于 options 中的正确答案，其余保持不变
func PruneCorrectAnswer(correctAnswer string, options []string) string {
	optSet := make(map[string]bool, len(options))
	for _, o := range options {
		optSet[o] = true
	}

	kept := make([]string, 0)
	for _, a := range SplitAnswers(correctAnswer) {
		if optSet[a] {
			kept = append(kept, a)
		}
	}
	return JoinAnswers(kept)
}
