package model

// swagger:model Lesson
type Lesson struct {
	BaseModel
	ModuleID    uint             `gorm:"index;type:bigint unsigned" json:"moduleId"`
	Title       string           `gorm:"size:255;not null" json:"title"`
	Content     string           `gorm:"type:longtext" json:"content"` // 规范化后的版本化块 JSON
	VideoURL    string           `gorm:"size:500" json:"videoUrl"`
	Duration    int              `gorm:"default:0" json:"duration"` // Minutes
	Order       int              `gorm:"default:0" json:"order"`
	IsProject   bool             `gorm:"default:false" json:"isProject"`
	IsExercise  bool             `gorm:"default:false" json:"isExercise"`
	Resources   []LessonResource `gorm:"foreignKey:LessonID" json:"resources,omitempty"`
	Assessments []Assessment     `gorm:"foreignKey:LessonID" json:"assessments,omitempty"`
}

func (Lesson) TableName() string {
	return "lessons"
}

// swagger:model LessonResource
type LessonResource struct {
	BaseModel
	LessonID    uint   `gorm:"index;type:bigint unsigned" json:"lessonId"`
	URL         string `gorm:"size:500;not null" json:"url"`
	Title       string `gorm:"size:255" json:"title"`
	Description string `gorm:"type:text" json:"description"`
}

func (LessonResource) TableName() string {
	return "lesson_resources"
}
