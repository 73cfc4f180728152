package model

import "time"

type AttemptStatus string

const (
	AttemptInProgress AttemptStatus = "in_progress"
	AttemptCompleted  AttemptStatus = "completed"
)

// AssessmentAttempt 一次学生作答，从开始到提交。计时以 StartedAt 为准，服务端换算剩余秒数。
// swagger:model AssessmentAttempt
type AssessmentAttempt struct {
	UUIDBase
	AssessmentID  uint          `gorm:"index;type:bigint unsigned" json:"assessmentId"`
	UserID        uint          `gorm:"index;type:bigint unsigned" json:"userId"`
	User          *User         `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Status        AttemptStatus `gorm:"size:20;default:'in_progress'" json:"status"`
	Score         int           `gorm:"default:0" json:"score"` // 百分比 0-100
	Passed        bool          `gorm:"default:false" json:"passed"`
	AutoSubmitted bool          `gorm:"default:false" json:"autoSubmitted"`
	NeedsGrading  bool          `gorm:"default:false" json:"needsGrading"`
	FileURL       string        `gorm:"size:500" json:"fileUrl"` // project 类评估的提交文件
	StartedAt     time.Time     `json:"startedAt"`
	SubmittedAt   *time.Time    `json:"submittedAt,omitempty"`
}

func (AssessmentAttempt) TableName() string {
	return "assessment_attempts"
}

// AttemptAnswer 单题作答记录，answer 始终以字符串传输（多选以逗号拼接）
// swagger:model AttemptAnswer
type AttemptAnswer struct {
	UUIDBase
	AttemptID     string `gorm:"index;type:varchar(36)" json:"attemptId"`
	QuestionID    uint   `gorm:"index;type:bigint unsigned" json:"questionId"`
	Answer        string `gorm:"type:text" json:"answer"`
	IsCorrect     bool   `gorm:"default:false" json:"isCorrect"`
	PointsAwarded int    `gorm:"default:0" json:"pointsAwarded"`
}

func (AttemptAnswer) TableName() string {
	return "attempt_answers"
}
