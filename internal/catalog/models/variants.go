package models

import (
	dErrors "hrcatalog/pkg/domain-errors"
	s "hrcatalog/pkg/platform/strings"
	"hrcatalog/pkg/validation"
)

// OrganizationUnit is an institution or department. ParentID is a lookup key
// to another unit; it does not own the parent and is never cascaded.
type OrganizationUnit struct {
	Base
	Acronym  string  `json:"acronym" validate:"required,notblank,max=255"`
	Name     string  `json:"name" validate:"required,notblank,max=255"`
	Email    string  `json:"email" validate:"required,notblank,max=255"`
	Phone    *string `json:"phone,omitempty" validate:"omitempty,max=255"`
	Address  *string `json:"address,omitempty" validate:"omitempty,max=255"`
	ParentID *int64  `json:"parent_id,omitempty" validate:"omitempty,gt=0"`
}

func (o *OrganizationUnit) Fields() []Field {
	return []Field{
		{Name: "acronym", Ref: &o.Acronym},
		{Name: "name", Ref: &o.Name},
		{Name: "email", Ref: &o.Email},
		{Name: "phone", Ref: &o.Phone},
		{Name: "address", Ref: &o.Address},
		{Name: "parent_id", Ref: &o.ParentID},
	}
}

func (o *OrganizationUnit) Normalize() {
	s.TrimRequired(&o.Acronym, &o.Name, &o.Email)
	s.TrimOptional(&o.Phone, &o.Address)
}

func (o *OrganizationUnit) Validate() error {
	if err := validation.Validate(o); err != nil {
		return err
	}
	if o.ID != nil && o.ParentID != nil && *o.ID == *o.ParentID {
		return dErrors.New(dErrors.CodeValidation, "parent_id must not reference the unit itself")
	}
	return nil
}

// JobTitle is a position an employee can hold.
type JobTitle struct {
	Base
	Name        string `json:"name" validate:"required,notblank,max=255"`
	Description string `json:"description" validate:"required,notblank,max=255"`
}

func (j *JobTitle) Fields() []Field {
	return []Field{
		{Name: "name", Ref: &j.Name},
		{Name: "description", Ref: &j.Description},
	}
}

func (j *JobTitle) Normalize()      { s.TrimRequired(&j.Name, &j.Description) }
func (j *JobTitle) Validate() error { return validation.Validate(j) }

// EducationLevel is a schooling level.
type EducationLevel struct {
	Base
	Name        string `json:"name" validate:"required,notblank,max=255"`
	Description string `json:"description" validate:"required,notblank,max=255"`
}

func (e *EducationLevel) Fields() []Field {
	return []Field{
		{Name: "name", Ref: &e.Name},
		{Name: "description", Ref: &e.Description},
	}
}

func (e *EducationLevel) Normalize()      { s.TrimRequired(&e.Name, &e.Description) }
func (e *EducationLevel) Validate() error { return validation.Validate(e) }

// Degree is an academic qualification.
type Degree struct {
	Base
	Name        string  `json:"name" validate:"required,notblank,max=255"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=255"`
}

func (d *Degree) Fields() []Field {
	return []Field{
		{Name: "name", Ref: &d.Name},
		{Name: "description", Ref: &d.Description},
	}
}

func (d *Degree) Normalize() {
	s.TrimRequired(&d.Name)
	s.TrimOptional(&d.Description)
}

func (d *Degree) Validate() error { return validation.Validate(d) }

// Bank is a bank an employee can be paid through.
type Bank struct {
	Base
	Code string `json:"code" validate:"required,notblank,max=255"`
	Name string `json:"name" validate:"required,notblank,max=255"`
}

func (b *Bank) Fields() []Field {
	return []Field{
		{Name: "code", Ref: &b.Code},
		{Name: "name", Ref: &b.Name},
	}
}

func (b *Bank) Normalize()      { s.TrimRequired(&b.Code, &b.Name) }
func (b *Bank) Validate() error { return validation.Validate(b) }

// Allocation is a place or cost center an employee is allocated to.
type Allocation struct {
	Base
	Name        string  `json:"name" validate:"required,notblank,max=255"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=255"`
}

func (a *Allocation) Fields() []Field {
	return []Field{
		{Name: "name", Ref: &a.Name},
		{Name: "description", Ref: &a.Description},
	}
}

func (a *Allocation) Normalize() {
	s.TrimRequired(&a.Name)
	s.TrimOptional(&a.Description)
}

func (a *Allocation) Validate() error { return validation.Validate(a) }

// EmploymentBond is the contractual bond type of an employee.
type EmploymentBond struct {
	Base
	Name        string  `json:"name" validate:"required,notblank,max=255"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=255"`
}

func (e *EmploymentBond) Fields() []Field {
	return []Field{
		{Name: "name", Ref: &e.Name},
		{Name: "description", Ref: &e.Description},
	}
}

func (e *EmploymentBond) Normalize() {
	s.TrimRequired(&e.Name)
	s.TrimOptional(&e.Description)
}

func (e *EmploymentBond) Validate() error { return validation.Validate(e) }

var (
	OrganizationUnits = Kind[*OrganizationUnit]{
		Meta: Meta{Name: "organization-unit", Plural: "organization-units", Table: "organization_unit"},
		New:  func() *OrganizationUnit { return &OrganizationUnit{} },
	}
	JobTitles = Kind[*JobTitle]{
		Meta: Meta{Name: "job-title", Plural: "job-titles", Table: "job_title"},
		New:  func() *JobTitle { return &JobTitle{} },
	}
	EducationLevels = Kind[*EducationLevel]{
		Meta: Meta{Name: "education-level", Plural: "education-levels", Table: "education_level"},
		New:  func() *EducationLevel { return &EducationLevel{} },
	}
	Degrees = Kind[*Degree]{
		Meta: Meta{Name: "degree", Plural: "degrees", Table: "degree"},
		New:  func() *Degree { return &Degree{} },
	}
	Banks = Kind[*Bank]{
		Meta: Meta{Name: "bank", Plural: "banks", Table: "bank"},
		New:  func() *Bank { return &Bank{} },
	}
	Allocations = Kind[*Allocation]{
		Meta: Meta{Name: "allocation", Plural: "allocations", Table: "allocation"},
		New:  func() *Allocation { return &Allocation{} },
	}
	EmploymentBonds = Kind[*EmploymentBond]{
		Meta: Meta{Name: "employment-bond", Plural: "employment-bonds", Table: "employment_bond"},
		New:  func() *EmploymentBond { return &EmploymentBond{} },
	}
)

// AllMeta lists every variant, in the order they are mounted.
func AllMeta() []Meta {
	return []Meta{
		OrganizationUnits.Meta,
		JobTitles.Meta,
		EducationLevels.Meta,
		Degrees.Meta,
		Banks.Meta,
		Allocations.Meta,
		EmploymentBonds.Meta,
	}
}
