package util

import "errors"

var (
	ErrUnauthorized            = errors.New("unauthorized")
	ErrUserNotFound            = errors.New("用户不存在")
	ErrEmailRegistered         = errors.New("该邮箱已被注册")
	ErrPermissionDenied        = errors.New("permission denied")
	ErrCourseNotFound          = errors.New("course not found")
	ErrModuleNotFound          = errors.New("module not found")
	ErrLessonNotFound          = errors.New("lesson not found")
	ErrAssessmentNotFound      = errors.New("assessment not found")
	ErrQuestionNotFound        = errors.New("question not found")
	ErrAssessmentNotPublished  = errors.New("assessment not published or not accessible")
	ErrAttemptNotFound         = errors.New("attempt not found")
	ErrAttemptAlreadySubmitted = errors.New("attempt already submitted")
	ErrAttemptNotCompleted     = errors.New("attempt not completed")
	ErrRetakeNotAllowed        = errors.New("retake only allowed after a failed attempt")
	ErrSubmissionFileRequired  = errors.New("submission file required")
)
