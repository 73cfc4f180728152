package model

// swagger:model Course
type Course struct {
	BaseModel
	Title        string   `gorm:"size:255;not null" json:"title"`
	Description  string   `gorm:"type:text" json:"description"`
	Thumbnail    string   `gorm:"size:255" json:"thumbnail"`
	InstructorID uint     `gorm:"index;type:bigint unsigned" json:"instructorId"`
	Instructor   *User    `gorm:"foreignKey:InstructorID" json:"instructor,omitempty"`
	IsPublished  bool     `gorm:"default:false" json:"isPublished"`
	Modules      []Module `gorm:"foreignKey:CourseID" json:"modules,omitempty"`
}

func (Course) TableName() string {
	return "courses"
}

// Module 课程下的章节，Order 在同一课程内唯一且从 1 连续编号
// swagger:model Module
type Module struct {
	BaseModel
	CourseID          uint     `gorm:"index;type:bigint unsigned" json:"courseId"`
	Title             string   `gorm:"size:255;not null" json:"title"`
	Description       string   `gorm:"type:text" json:"description"`
	Order             int      `gorm:"default:0" json:"order"`
	Duration          int      `gorm:"default:0" json:"duration"` // Minutes
	FinalAssessmentID *uint    `gorm:"type:bigint unsigned" json:"finalAssessmentId,omitempty"`
	Lessons           []Lesson `gorm:"foreignKey:ModuleID" json:"lessons,omitempty"`
}

func (Module) TableName() string {
	return "modules"
}

// DefaultModuleTitle 新建章节的占位标题
const DefaultModuleTitle = "New Module"
