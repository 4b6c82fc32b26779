package service

import (
	"context"
)

// StudentCounter 统计学生记录数量
type StudentCounter interface {
	Count(ctx context.Context) (int64, error)
}

// QuizCounter 统计测验数量
type QuizCounter interface {
	Count(ctx context.Context, activeOnly bool) (int64, error)
}

type DashboardService struct {
	Quizzes  QuizCounter
	Students StudentCounter
}

func NewDashboardService(quizzes QuizCounter, students StudentCounter) *DashboardService {
	return &DashboardService{Quizzes: quizzes, Students: students}
}

type QuickAction struct {
	Title string `json:"title"`
	Path  string `json:"path"`
}

// AdminDashboard 管理员首页统计；答题功能尚未实现，成绩与作答次数恒为 0
// swagger:model AdminDashboard
type AdminDashboard struct {
	TotalQuizzes  int64         `json:"totalQuizzes"`
	TotalStudents int64         `json:"totalStudents"`
	AverageScore  float64       `json:"averageScore"`
	TotalAttempts int64         `json:"totalAttempts"`
	QuickActions  []QuickAction `json:"quickActions"`
}

type AnalyticsMetrics struct {
	TotalAttempts  int64   `json:"totalAttempts"`
	AverageScore   float64 `json:"averageScore"`
	ActiveStudents int64   `json:"activeStudents"`
	CompletionRate float64 `json:"completionRate"`
}

type StudentPerformance struct {
	Username     string  `json:"username"`
	AverageScore float64 `json:"averageScore"`
	QuizzesTaken int64   `json:"quizzesTaken"`
}

type QuizPopularity struct {
	QuizID   string `json:"quizId"`
	Title    string `json:"title"`
	Attempts int64  `json:"attempts"`
}

type SubjectPerformance struct {
	Subject      string  `json:"subject"`
	AverageScore float64 `json:"averageScore"`
}

type ActivityEntry struct {
	Username string `json:"username"`
	Action   string `json:"action"`
	At       string `json:"at"`
}

// Analytics 管理员分析页
// swagger:model Analytics
type Analytics struct {
	Metrics            AnalyticsMetrics     `json:"metrics"`
	TopStudents        []StudentPerformance `json:"topStudents"`
	MostAttempted      []QuizPopularity     `json:"mostAttemptedQuizzes"`
	SubjectPerformance []SubjectPerformance `json:"subjectPerformance"`
	RecentActivity     []ActivityEntry      `json:"recentActivity"`
}

// StudentDashboard 学生首页
// swagger:model StudentDashboard
type StudentDashboard struct {
	Username         string  `json:"username"`
	QuizzesTaken     int64   `json:"quizzesTaken"`
	AverageScore     float64 `json:"averageScore"`
	TimeSpentMinutes int64   `json:"timeSpentMinutes"`
	Achievements     int64   `json:"achievements"`
	AvailableQuizzes int64   `json:"availableQuizzes"`
}

var adminQuickActions = []QuickAction{
	{Title: "Create Quiz", Path: "/api/admin/quiz-drafts"},
	{Title: "Manage Students", Path: "/api/admin/students"},
	{Title: "View Analytics", Path: "/api/admin/analytics"},
	{Title: "Settings", Path: "/api/admin/settings"},
}

func (s *DashboardService) AdminDashboard(ctx context.Context) (*AdminDashboard, error) {
	quizzes, err := s.Quizzes.Count(ctx, false)
	if err != nil {
		return nil, err
	}
	students, err := s.Students.Count(ctx)
	if err != nil {
		return nil, err
	}

	return &AdminDashboard{
		TotalQuizzes:  quizzes,
		TotalStudents: students,
		QuickActions:  adminQuickActions,
	}, nil
}

func (s *DashboardService) Analytics(ctx context.Context) (*Analytics, error) {
	students, err := s.Students.Count(ctx)
	if err != nil {
		return nil, err
	}

	return &Analytics{
		Metrics:            AnalyticsMetrics{ActiveStudents: students},
		TopStudents:        []StudentPerformance{},
		MostAttempted:      []QuizPopularity{},
		SubjectPerformance: []SubjectPerformance{},
		RecentActivity:     []ActivityEntry{},
	}, nil
}

func (s *DashboardService) StudentDashboard(ctx context.Context, username string) (*StudentDashboard, error) {
	available, err := s.Quizzes.Count(ctx, true)
	if err != nil {
		return nil, err
	}
	return &StudentDashboard{
		Username:         username,
		AvailableQuizzes: available,
	}, nil
}
