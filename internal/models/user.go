package models

import (
	"time"

	"github.com/golang-jwt/jwt/v4"
	"gorm.io/datatypes"
)

// AccountType discriminates the two kinds of account that can own content.
type AccountType string

const (
	AccountUser    AccountType = "User"
	AccountCompany AccountType = "Company"
)

// Valid reports whether t is one of the known account kinds.
func (t AccountType) Valid() bool {
	return t == AccountUser || t == AccountCompany
}

// AccountRef is a weak reference to a User or a Company.
type AccountRef struct {
	ID   uint        `json:"id" bson:"id"`
	Type AccountType `json:"type" bson:"type"`
}

func UserRef(id uint) AccountRef    { return AccountRef{ID: id, Type: AccountUser} }
func CompanyRef(id uint) AccountRef { return AccountRef{ID: id, Type: AccountCompany} }

// Key is the canonical string form, e.g. "User:42".
func (r AccountRef) Key() string {
	return string(r.Type) + ":" + uintToString(r.ID)
}

func (r AccountRef) IsUser() bool { return r.Type == AccountUser }

// User is a person account (PostgreSQL)
type User struct {
	ID          uint    `json:"id" gorm:"primaryKey"`
	Name        string  `json:"name"`
	Email       string  `json:"email" gorm:"uniqueIndex"`
	Password    string  `json:"-"`
	ExternalUID *string `json:"-" gorm:"uniqueIndex"` // identity provider subject, nil for local accounts
	Headline    string  `json:"headline"`
	Location    string  `json:"location"`
	About       string  `json:"about"`
	PictureURL  string  `json:"picture_url"`

	Experiences  datatypes.JSONSlice[Experience]  `json:"experiences" gorm:"type:jsonb"`
	Educations   datatypes.JSONSlice[Education]   `json:"educations" gorm:"type:jsonb"`
	Projects     datatypes.JSONSlice[Project]     `json:"projects" gorm:"type:jsonb"`
	Skills       datatypes.JSONSlice[Skill]       `json:"skills" gorm:"type:jsonb"`
	Certificates datatypes.JSONSlice[Certificate] `json:"certificates" gorm:"type:jsonb"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Ref returns the polymorphic reference for u.
func (u *User) Ref() AccountRef { return UserRef(u.ID) }

// ToSummary keeps only public display fields.
func (u *User) ToSummary() AccountSummary {
	return AccountSummary{
		ID:         u.ID,
		Type:       AccountUser,
		Name:       u.Name,
		Headline:   u.Headline,
		Location:   u.Location,
		PictureURL: u.PictureURL,
	}
}

type Experience struct {
	Title       string     `json:"title" validate:"required"`
	Company     string     `json:"company"`
	Location    string     `json:"location,omitempty"`
	StartDate   time.Time  `json:"start_date" validate:"required"`
	EndDate     *time.Time `json:"end_date,omitempty"` // nil while the position is current
	Description string     `json:"description,omitempty"`
}

type Education struct {
	School       string `json:"school" validate:"required"`
	Degree       string `json:"degree"`
	FieldOfStudy string `json:"field_of_study,omitempty"`
	StartYear    int    `json:"start_year,omitempty"`
	EndYear      int    `json:"end_year,omitempty"`
}

type Project struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description,omitempty"`
	URL         string `json:"url,omitempty" validate:"omitempty,url"`
}

type Skill struct {
	Name  string `json:"name" validate:"required"`
	Level string `json:"level,omitempty"`
}

type Certificate struct {
	Name     string     `json:"name" validate:"required"`
	Issuer   string     `json:"issuer,omitempty"`
	IssuedAt *time.Time `json:"issued_at,omitempty"`
	URL      string     `json:"url,omitempty" validate:"omitempty,url"`
}

// AccountSummary is the public card shown next to posts, comments and messages.
type AccountSummary struct {
	ID         uint        `json:"id"`
	Type       AccountType `json:"type"`
	Name       string      `json:"name"`
	Headline   string      `json:"headline,omitempty"`
	Location   string      `json:"location,omitempty"`
	PictureURL string      `json:"picture_url,omitempty"`
}

type CreateLocalUserRequest struct {
	Name     string `json:"name" validate:"required,min=2,max=50"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Headline string `json:"headline,omitempty" validate:"omitempty,max=120"`
	Location string `json:"location,omitempty" validate:"omitempty,max=100"`
}

type SignInRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// UpdateUserRequest replaces any collection that is present; nil fields are left untouched.
type UpdateUserRequest struct {
	Name         *string       `json:"name,omitempty" validate:"omitempty,min=2,max=50"`
	Headline     *string       `json:"headline,omitempty" validate:"omitempty,max=120"`
	Location     *string       `json:"location,omitempty" validate:"omitempty,max=100"`
	About        *string       `json:"about,omitempty" validate:"omitempty,max=2000"`
	PictureURL   *string       `json:"picture_url,omitempty" validate:"omitempty,url"`
	Experiences  []Experience  `json:"experiences,omitempty" validate:"omitempty,dive"`
	Educations   []Education   `json:"educations,omitempty" validate:"omitempty,dive"`
	Projects     []Project     `json:"projects,omitempty" validate:"omitempty,dive"`
	Skills       []Skill       `json:"skills,omitempty" validate:"omitempty,dive"`
	Certificates []Certificate `json:"certificates,omitempty" validate:"omitempty,dive"`
}

// JwtCustomClaims are custom claims extending standard jwt.RegisteredClaims
type JwtCustomClaims struct {
	AccountID   uint        `json:"account_id"`
	AccountType AccountType `json:"account_type"`
	Email       string      `json:"email"`
	jwt.RegisteredClaims
}

// Ref returns the account the token was issued for.
func (c *JwtCustomClaims) Ref() AccountRef {
	return AccountRef{ID: c.AccountID, Type: c.AccountType}
}

// ExternalIdentity is what a verified third-party sign-in token asserts.
type ExternalIdentity struct {
	ExternalID    string
	Email         string
	VerifiedEmail bool
	Name          string
	PictureURL    string
}

type ExternalLoginRequest struct {
	IDToken string `json:"id_token" validate:"required"`
}

// AuthResponse is returned by every sign-up and sign-in flow.
type AuthResponse struct {
	Token   string         `json:"token"`
	Account AccountSummary `json:"account"`
}
