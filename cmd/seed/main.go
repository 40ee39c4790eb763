package main

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"golang.org/x/crypto/bcrypt"

	"github.com/campushq/backoffice-api/internal/models"
	"github.com/campushq/backoffice-api/pkg/config"
	"github.com/campushq/backoffice-api/pkg/database"
)

const schema = `
CREATE TABLE IF NOT EXISTS users (
	id TEXT PRIMARY KEY,
	username TEXT NOT NULL UNIQUE,
	password_hash TEXT NOT NULL,
	role TEXT NOT NULL,
	active BOOLEAN NOT NULL DEFAULT TRUE,
	last_login TIMESTAMPTZ,
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS refresh_tokens (
	id TEXT PRIMARY KEY,
	user_id TEXT NOT NULL REFERENCES users (id) ON DELETE CASCADE,
	token TEXT NOT NULL UNIQUE,
	expires_at TIMESTAMPTZ NOT NULL,
	created_at TIMESTAMPTZ NOT NULL,
	revoked BOOLEAN NOT NULL DEFAULT FALSE,
	revoked_at TIMESTAMPTZ,
	ip_address TEXT NOT NULL DEFAULT '',
	user_agent TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS audit_logs (
	id TEXT PRIMARY KEY,
	user_id TEXT REFERENCES users (id) ON DELETE SET NULL,
	action TEXT NOT NULL,
	resource TEXT NOT NULL,
	resource_id TEXT,
	new_values JSONB,
	ip_address TEXT NOT NULL DEFAULT '',
	user_agent TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS classes (
	id TEXT PRIMARY KEY,
	code TEXT NOT NULL UNIQUE,
	name TEXT NOT NULL,
	lecturer_id TEXT REFERENCES users (id) ON DELETE SET NULL,
	created_at TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS students (
	id TEXT PRIMARY KEY,
	student_id TEXT NOT NULL UNIQUE,
	full_name TEXT NOT NULL,
	dob TEXT NOT NULL,
	email TEXT NOT NULL DEFAULT '',
	class_id TEXT REFERENCES classes (id) ON DELETE SET NULL,
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS courses (
	id TEXT PRIMARY KEY,
	code TEXT NOT NULL UNIQUE,
	name TEXT NOT NULL,
	credits INTEGER NOT NULL,
	lecturer_id TEXT REFERENCES users (id) ON DELETE SET NULL,
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS class_courses (
	id TEXT PRIMARY KEY,
	class_id TEXT NOT NULL REFERENCES classes (id) ON DELETE CASCADE,
	course_id TEXT NOT NULL REFERENCES courses (id) ON DELETE CASCADE,
	semester TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL,
	UNIQUE (class_id, course_id, semester)
);

CREATE TABLE IF NOT EXISTS enrollments (
	id TEXT PRIMARY KEY,
	student_id TEXT NOT NULL REFERENCES students (id) ON DELETE CASCADE,
	course_id TEXT NOT NULL REFERENCES courses (id) ON DELETE CASCADE,
	status TEXT NOT NULL,
	enrolled_at TIMESTAMPTZ NOT NULL,
	UNIQUE (student_id, course_id)
);

CREATE TABLE IF NOT EXISTS grades (
	id TEXT PRIMARY KEY,
	student_id TEXT NOT NULL REFERENCES students (id) ON DELETE CASCADE,
	course_id TEXT NOT NULL REFERENCES courses (id) ON DELETE CASCADE,
	value DOUBLE PRECISION NOT NULL,
	status TEXT NOT NULL,
	submitted_by TEXT NOT NULL,
	confirmed_by TEXT,
	submitted_at TIMESTAMPTZ NOT NULL,
	confirmed_at TIMESTAMPTZ,
	note TEXT
);

CREATE TABLE IF NOT EXISTS payments (
	id TEXT PRIMARY KEY,
	student_id TEXT NOT NULL REFERENCES students (id) ON DELETE CASCADE,
	amount DOUBLE PRECISION NOT NULL,
	status TEXT NOT NULL,
	payment_date TIMESTAMPTZ,
	note TEXT
);

CREATE TABLE IF NOT EXISTS news (
	id TEXT PRIMARY KEY,
	title TEXT NOT NULL,
	content TEXT NOT NULL,
	author TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS schedules (
	id TEXT PRIMARY KEY,
	course_id TEXT NOT NULL REFERENCES courses (id) ON DELETE CASCADE,
	class_id TEXT NOT NULL REFERENCES classes (id) ON DELETE CASCADE,
	day_of_week INTEGER NOT NULL,
	start_time TEXT NOT NULL,
	end_time TEXT NOT NULL,
	room TEXT NOT NULL,
	semester TEXT NOT NULL,
	active BOOLEAN NOT NULL DEFAULT TRUE,
	created_at TIMESTAMPTZ NOT NULL,
	UNIQUE (class_id, course_id, semester)
);

CREATE TABLE IF NOT EXISTS exams (
	id TEXT PRIMARY KEY,
	course_id TEXT NOT NULL REFERENCES courses (id) ON DELETE CASCADE,
	class_id TEXT NOT NULL REFERENCES classes (id) ON DELETE CASCADE,
	exam_date TIMESTAMPTZ NOT NULL,
	start_time TEXT NOT NULL,
	duration INTEGER NOT NULL,
	room TEXT NOT NULL,
	semester TEXT NOT NULL,
	exam_type TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL,
	UNIQUE (class_id, course_id, semester, exam_type)
);
`

const seedPassword = "123456"
const semester = "HK1-2025"

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		log.Fatalf("failed to connect to postgres: %v", err)
	}
	defer db.Close() //nolint:errcheck

	ctx := context.Background()
	if _, err := db.ExecContext(ctx, schema); err != nil {
		log.Fatalf("failed to create schema: %v", err)
	}

	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		log.Fatalf("failed to begin transaction: %v", err)
	}
	if err := seed(ctx, tx); err != nil {
		tx.Rollback() //nolint:errcheck
		log.Fatalf("seed failed: %v", err)
	}
	if err := tx.Commit(); err != nil {
		log.Fatalf("failed to commit seed: %v", err)
	}
	log.Println("seed complete")
}

func seed(ctx context.Context, tx *sqlx.Tx) error {
	var existing int
	if err := tx.GetContext(ctx, &existing, `SELECT COUNT(*) FROM users`); err != nil {
		return err
	}
	if existing > 0 {
		log.Println("users already present, skipping seed data")
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(seedPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	userIDs := map[string]string{}
	for _, username := range []string{"@admin", "GV001", "20230001", "20230002"} {
		role, ok := models.RoleFromUsername(username)
		if !ok {
			continue
		}
		id := uuid.NewString()
		userIDs[username] = id
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO users (id, username, password_hash, role, active, created_at, updated_at) VALUES ($1, $2, $3, $4, TRUE, $5, $5)`,
			id, username, string(hash), role, now); err != nil {
			return err
		}
	}

	lecturerID := userIDs["GV001"]
	classIDs := map[string]string{}
	for _, class := range []struct{ code, name string }{
		{"CNTT1", "Công nghệ thông tin 1"},
		{"CNTT2", "Công nghệ thông tin 2"},
	} {
		id := uuid.NewString()
		classIDs[class.code] = id
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO classes (id, code, name, lecturer_id, created_at) VALUES ($1, $2, $3, $4, $5)`,
			id, class.code, class.name, lecturerID, now); err != nil {
			return err
		}
	}

	studentIDs := map[string]string{}
	for _, student := range []struct{ number, name, dob, class string }{
		{"20230001", "Nguyễn Văn A", "2001-01-01", "CNTT1"},
		{"20230002", "Trần Thị B", "2001-02-02", "CNTT2"},
	} {
		id := uuid.NewString()
		studentIDs[student.number] = id
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO students (id, student_id, full_name, dob, email, class_id, created_at, updated_at) VALUES ($1, $2, $3, $4, $5, $6, $7, $7)`,
			id, student.number, student.name, student.dob, student.number+"@example.edu.vn", classIDs[student.class], now); err != nil {
			return err
		}
	}

	courseIDs := map[string]string{}
	for _, course := range []struct {
		code, name string
		credits    int
	}{
		{"CSE101", "Lập trình cơ bản", 3},
		{"MTH101", "Toán rời rạc", 3},
	} {
		id := uuid.NewString()
		courseIDs[course.code] = id
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO courses (id, code, name, credits, lecturer_id, created_at, updated_at) VALUES ($1, $2, $3, $4, $5, $6, $6)`,
			id, course.code, course.name, course.credits, lecturerID, now); err != nil {
			return err
		}
	}

	adminID := userIDs["@admin"]
	for _, studentID := range studentIDs {
		for _, courseID := range courseIDs {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO enrollments (id, student_id, course_id, status, enrolled_at) VALUES ($1, $2, $3, $4, $5)`,
				uuid.NewString(), studentID, courseID, models.EnrollmentStatusActive, now); err != nil {
				return err
			}
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO grades (id, student_id, course_id, value, status, submitted_by, confirmed_by, submitted_at, confirmed_at) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $8)`,
				uuid.NewString(), studentID, courseID, 7.5, models.GradeStatusConfirmed, lecturerID, adminID, now); err != nil {
				return err
			}
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO grades (id, student_id, course_id, value, status, submitted_by, submitted_at) VALUES ($1, $2, $3, $4, $5, $6, $7)`,
				uuid.NewString(), studentID, courseID, 8.0, models.GradeStatusPending, lecturerID, now); err != nil {
				return err
			}
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO payments (id, student_id, amount, status, note) VALUES ($1, $2, $3, $4, $5)`,
			uuid.NewString(), studentID, 80000.0, models.PaymentStatusPending, "Học phí học kỳ 1"); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO payments (id, student_id, amount, status, payment_date, note) VALUES ($1, $2, $3, $4, $5, $6)`,
			uuid.NewString(), studentID, 80000.0, models.PaymentStatusPaid, now, "Học phí học kỳ 1"); err != nil {
			return err
		}
	}

	for i, title := range []string{
		"Thông báo khai giảng học kỳ 1",
		"Lịch thu học phí",
		"Kế hoạch thi giữa kỳ",
	} {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO news (id, title, content, author, created_at, updated_at) VALUES ($1, $2, $3, $4, $5, $5)`,
			uuid.NewString(), title, "Nội dung thông báo số "+title, "@admin",
			now.Add(time.Duration(i)*time.Minute)); err != nil {
			return err
		}
	}

	examBase := time.Date(2025, 12, 15, 0, 0, 0, 0, time.UTC)
	dayOffset := 0
	for _, classID := range classIDs {
		for _, courseID := range courseIDs {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO class_courses (id, class_id, course_id, semester, created_at) VALUES ($1, $2, $3, $4, $5)`,
				uuid.NewString(), classID, courseID, semester, now); err != nil {
				return err
			}
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO schedules (id, course_id, class_id, day_of_week, start_time, end_time, room, semester, active, created_at) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, TRUE, $9)`,
				uuid.NewString(), courseID, classID, 0, "07:30", "09:00", "A101", semester, now); err != nil {
				return err
			}
			midterm := examBase.AddDate(0, 0, dayOffset)
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO exams (id, course_id, class_id, exam_date, start_time, duration, room, semester, exam_type, created_at) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
				uuid.NewString(), courseID, classID, midterm, "08:00", 60, "B101", semester, models.ExamTypeMidterm, now); err != nil {
				return err
			}
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO exams (id, course_id, class_id, exam_date, start_time, duration, room, semester, exam_type, created_at) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
				uuid.NewString(), courseID, classID, midterm.AddDate(0, 0, 7), "08:00", 90, "B201", semester, models.ExamTypeFinal, now); err != nil {
				return err
			}
			dayOffset++
		}
	}

	return nil
}
