package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/quizdesk/quizdesk-backend/internal/model"
)

// UserRepository handles account data access for teachers and students.
type UserRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository creates a new UserRepository.
func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

// Create inserts a new user with its role-specific profile columns.
func (r *UserRepository) Create(ctx context.Context, u *model.User) error {
	var rollNumber, className, section, teacherCode *string
	if u.Student != nil {
		rollNumber = &u.Student.RollNumber
		className = &u.Student.ClassName
		section = &u.Student.Section
	}
	if u.Teacher != nil {
		teacherCode = &u.Teacher.TeacherCode
	}

	return r.pool.QueryRow(ctx,
		`INSERT INTO users (name, email, role, password_hash, roll_number, class_name, section, teacher_code)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING id, created_at`,
		u.Name, u.Email, u.Role, u.PasswordHash,
		rollNumber, className, section, teacherCode,
	).Scan(&u.ID, &u.CreatedAt)
}

// GetByEmail retrieves a user by email for login.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	return r.scanOne(ctx,
		`SELECT id, name, email, role, password_hash, roll_number, class_name, section, teacher_code, created_at
		 FROM users WHERE email = $1`, email)
}

// GetByID retrieves a user by id.
func (r *UserRepository) GetByID(ctx context.Context, id int) (*model.User, error) {
	return r.scanOne(ctx,
		`SELECT id, name, email, role, password_hash, roll_number, class_name, section, teacher_code, created_at
		 FROM users WHERE id = $1`, id)
}

// EmailExists reports whether an account with the given email already exists.
func (r *UserRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM users WHERE email = $1)`, email,
	).Scan(&exists)
	return exists, err
}

func (r *UserRepository) scanOne(ctx context.Context, query string, arg interface{}) (*model.User, error) {
	u := &model.User{}
	var rollNumber, className, section, teacherCode *string

	err := r.pool.QueryRow(ctx, query, arg).Scan(
		&u.ID, &u.Name, &u.Email, &u.Role, &u.PasswordHash,
		&rollNumber, &className, &section, &teacherCode, &u.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	switch u.Role {
	case model.RoleStudent:
		u.Student = &model.StudentProfile{}
		if rollNumber != nil {
			u.Student.RollNumber = *rollNumber
		}
		if className != nil {
			u.Student.ClassName = *className
		}
		if section != nil {
			u.Student.Section = *section
		}
	case model.RoleTeacher:
		u.Teacher = &model.TeacherProfile{}
		if teacherCode != nil {
			u.Teacher.TeacherCode = *teacherCode
		}
	}
	return u, nil
}
