package models

import (
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User roles.
const (
	RoleStudent = "STUDENT"
	RoleAdmin   = "ADMIN"
)

// Genders.
const (
	GenderMale   = "MALE"
	GenderFemale = "FEMALE"
	GenderOther  = "OTHER"
)

// StudentProfile holds the fields that only exist for students. Admins
// carry no profile, so eligibility checks (degree/semester) can never
// accidentally match an admin account.
type StudentProfile struct {
	Degree   string `bson:"degree" json:"degree"`
	Semester int    `bson:"semester" json:"semester"`
}

// User is an account scoped to a mess. The role decides which variant of
// the document this is: students carry a StudentProfile, admins do not.
type User struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name           string             `bson:"name" json:"name"`
	RegisterNumber string             `bson:"register_number" json:"register_number"`
	Email          string             `bson:"email" json:"email"`
	Mobile         string             `bson:"mobile" json:"mobile"`
	PasswordHash   string             `bson:"password_hash" json:"-"`
	Role           string             `bson:"role" json:"role"`
	Gender         string             `bson:"gender" json:"gender"`
	MessID         primitive.ObjectID `bson:"mess_id" json:"mess_id"`
	Student        *StudentProfile    `bson:"student,omitempty" json:"student,omitempty"`
	IsVerified     bool               `bson:"is_verified" json:"is_verified"`

	OTPHash          string    `bson:"otp_hash,omitempty" json:"-"`
	OTPExpiry        time.Time `bson:"otp_expiry,omitempty" json:"-"`
	ResetTokenHash   string    `bson:"reset_token_hash,omitempty" json:"-"`
	ResetTokenExpiry time.Time `bson:"reset_token_expiry,omitempty" json:"-"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at,omitempty" json:"updated_at,omitempty"`
}

// NewStudent builds a student account. Degree and semester are mandatory
// for this variant and validated here rather than at the storage layer.
func NewStudent(name, registerNumber, email, mobile, passwordHash, gender string, messID primitive.ObjectID, degree string, semester int) (*User, error) {
	if degree == "" || semester < 1 {
		return nil, errors.New("degree and semester are required for students")
	}
	u := newUser(name, registerNumber, email, mobile, passwordHash, gender, messID)
	u.Role = RoleStudent
	u.Student = &StudentProfile{Degree: degree, Semester: semester}
	return u, nil
}

// NewAdmin builds an admin account. Admins carry no student profile.
func NewAdmin(name, registerNumber, email, mobile, passwordHash, gender string, messID primitive.ObjectID) *User {
	u := newUser(name, registerNumber, email, mobile, passwordHash, gender, messID)
	u.Role = RoleAdmin
	return u
}

func newUser(name, registerNumber, email, mobile, passwordHash, gender string, messID primitive.ObjectID) *User {
	return &User{
		ID:             primitive.NewObjectID(),
		Name:           name,
		RegisterNumber: registerNumber,
		Email:          email,
		Mobile:         mobile,
		PasswordHash:   passwordHash,
		Gender:         gender,
		MessID:         messID,
		CreatedAt:      time.Now().UTC(),
	}
}

// Degree returns the student's degree, or "" for non-students.
func (u *User) Degree() string {
	if u.Student == nil {
		return ""
	}
	return u.Student.Degree
}

// Semester returns the student's semester, or 0 for non-students.
func (u *User) Semester() int {
	if u.Student == nil {
		return 0
	}
	return u.Student.Semester
}
