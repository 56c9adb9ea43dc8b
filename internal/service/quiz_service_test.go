package service

import (
	"errors"
	"testing"

	"github.com/quizdesk/quizdesk-backend/internal/model"
)

func validQuestions() []model.Question {
	return []model.Question{
		{Text: "What is 2 + 2?", Options: []string{"3", "4", "5", "6"}, CorrectAnswer: 1},
		{Text: "What is 10 - 5?", Options: []string{"3", "4", "5", "6"}, CorrectAnswer: 2},
	}
}

func TestValidateContentOK(t *testing.T) {
	if err := ValidateContent("Math Basics", validQuestions()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidateContentRejections(t *testing.T) {
	tests := []struct {
		name    string
		title   string
		mutate  func([]model.Question) []model.Question
		wantErr error
	}{
		{
			name:    "blank title",
			title:   "   ",
			mutate:  func(qs []model.Question) []model.Question { return qs },
			wantErr: ErrEmptyTitle,
		},
		{
			name:    "no questions",
			title:   "Math Basics",
			mutate:  func([]model.Question) []model.Question { return nil },
			wantErr: ErrNoQuestions,
		},
		{
			name:  "blank question text",
			title: "Math Basics",
			mutate: func(qs []model.Question) []model.Question {
				qs[1].Text = " "
				return qs
			},
			wantErr: ErrEmptyQuestion,
		},
		{
			name:  "blank option",
			title: "Math Basics",
			mutate: func(qs []model.Question) []model.Question {
				qs[0].Options[2] = ""
				return qs
			},
			wantErr: ErrEmptyOption,
		},
		{
			name:  "single option",
			title: "Math Basics",
			mutate: func(qs []model.Question) []model.Question {
				qs[0].Options = []string{"4"}
				return qs
			},
			wantErr: ErrTooFewOptions,
		},
		{
			name:  "correct index past end",
			title: "Math Basics",
			mutate: func(qs []model.Question) []model.Question {
				qs[0].CorrectAnswer = 4
				return qs
			},
			wantErr: ErrCorrectOutOfRange,
		},
		{
			name:  "negative correct index",
			title: "Math Basics",
			mutate: func(qs []model.Question) []model.Question {
				qs[0].CorrectAnswer = -1
				return qs
			},
			wantErr: ErrCorrectOutOfRange,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateContent(tt.title, tt.mutate(validQuestions()))
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateContent() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateRegistrationVariants(t *testing.T) {
	student := &model.StudentProfile{RollNumber: "42", ClassName: "10", Section: "B"}
	teacher := &model.TeacherProfile{TeacherCode: "T-100"}

	tests := []struct {
		name string
		req  model.RegisterRequest
		ok   bool
	}{
		{"student with student profile", model.RegisterRequest{Role: "student", Student: student}, true},
		{"teacher with teacher profile", model.RegisterRequest{Role: "teacher", Teacher: teacher}, true},
		{"student missing profile", model.RegisterRequest{Role: "student"}, false},
		{"teacher missing profile", model.RegisterRequest{Role: "teacher"}, false},
		{"student with teacher profile", model.RegisterRequest{Role: "student", Student: student, Teacher: teacher}, false},
		{"teacher with student profile", model.RegisterRequest{Role: "teacher", Teacher: teacher, Student: student}, false},
		{"student blank roll number", model.RegisterRequest{Role: "student", Student: &model.StudentProfile{ClassName: "10", Section: "B"}}, false},
		{"unknown role", model.RegisterRequest{Role: "admin"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateRegistration(&tt.req)
			if tt.ok && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
			if !tt.ok && err == nil {
				t.Errorf("expected rejection, got nil")
			}
		})
	}
}
