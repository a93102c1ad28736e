package models

import "time"

// Company is an organisation account (PostgreSQL)
type Company struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name"`
	Email     string    `json:"email" gorm:"uniqueIndex"`
	Password  string    `json:"-"`
	Industry  string    `json:"industry"`
	Location  string    `json:"location"`
	About     string    `json:"about"`
	Website   string    `json:"website"`
	LogoURL   string    `json:"logo_url"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (c *Company) Ref() AccountRef { return CompanyRef(c.ID) }

func (c *Company) ToSummary() AccountSummary {
	return AccountSummary{
		ID:         c.ID,
		Type:       AccountCompany,
		Name:       c.Name,
		Headline:   c.Industry,
		Location:   c.Location,
		PictureURL: c.LogoURL,
	}
}

type CreateCompanyRequest struct {
	Name     string `json:"name" validate:"required,min=2,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Industry string `json:"industry,omitempty" validate:"omitempty,max=100"`
	Location string `json:"location,omitempty" validate:"omitempty,max=100"`
}

type UpdateCompanyRequest struct {
	Name     *string `json:"name,omitempty" validate:"omitempty,min=2,max=100"`
	Industry *string `json:"industry,omitempty" validate:"omitempty,max=100"`
	Location *string `json:"location,omitempty" validate:"omitempty,max=100"`
	About    *string `json:"about,omitempty" validate:"omitempty,max=2000"`
	Website  *string `json:"website,omitempty" validate:"omitempty,url"`
	LogoURL  *string `json:"logo_url,omitempty" validate:"omitempty,url"`
}
