package model

import "time"

// UserRole distinguishes quiz authors from quiz takers.
type UserRole string

const (
	RoleTeacher UserRole = "teacher"
	RoleStudent UserRole = "student"
)

// User represents a registered account, teacher or student.
type User struct {
	ID           int       `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Role         UserRole  `json:"role"`
	PasswordHash string    `json:"-"`
	// Role-specific profile. Exactly one of the two is populated,
	// matching the account's role.
	Student   *StudentProfile `json:"student_profile,omitempty"`
	Teacher   *TeacherProfile `json:"teacher_profile,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
}

// StudentProfile carries the student-only registration fields.
type StudentProfile struct {
	RollNumber string `json:"roll_number"`
	ClassName  string `json:"class_name"`
	Section    string `json:"section"`
}

// TeacherProfile carries the teacher-only registration fields.
type TeacherProfile struct {
	TeacherCode string `json:"teacher_code"`
}

// RegisterRequest is the payload for creating a new account. The profile
// object matching the declared role is required; the other must be absent.
type RegisterRequest struct {
	Name     string          `json:"name" binding:"required,min=2,max=100"`
	Email    string          `json:"email" binding:"required,email,max=255"`
	Password string          `json:"password" binding:"required,min=6,max=128"`
	Role     string          `json:"role" binding:"required,oneof=teacher student"`
	Student  *StudentProfile `json:"student_profile" binding:"omitempty"`
	Teacher  *TeacherProfile `json:"teacher_profile" binding:"omitempty"`
}

// LoginRequest is the payload for authentication.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6,max=128"`
}

// LoginResponse is returned after successful login.
type LoginResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}
