package util

import "errors"

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrStudentNotFound    = errors.New("username not found")
	ErrWrongPassword      = errors.New("incorrect password")
	ErrUsernameTaken      = errors.New("username already exists")
	ErrEmailRegistered    = errors.New("email already registered")
	ErrIdentityNotFound   = errors.New("identity not found")
	ErrQuizNotFound       = errors.New("quiz not found")
	ErrDraftNotFound      = errors.New("quiz draft not found")
	ErrQuestionNotFound   = errors.New("question not found")
	ErrNoQuestions        = errors.New("quiz must contain at least one question")
	ErrSessionNotFound    = errors.New("session not found or expired")
	ErrPermissionDenied   = errors.New("permission denied")
	ErrFileNotFound       = errors.New("file not found")
)

var (
	ErrWeakPassword     = errors.New("password must be at least 6 characters")
	ErrAuthService      = errors.New("authentication service error")
	ErrAdminSetupFailed = errors.New("unable to create admin account")
)
