package model

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

// SubmitApplicationRequest is the public application form.
type SubmitApplicationRequest struct {
	FirstName  string `json:"firstName"`
	LastName   string `json:"lastName"`
	FatherName string `json:"fatherName"`
	DOB        string `json:"dob"`

	Class  string `json:"class"`
	Field  string `json:"field"`
	RollNo string `json:"rollNo"`

	Email         string `json:"email"`
	Phone         string `json:"phone"`
	AddressStreet string `json:"addressStreet"`
	AddressCity   string `json:"addressCity"`
	AddressState  string `json:"addressState"`
	AddressZip    string `json:"addressZip"`
}

func (r SubmitApplicationRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.FirstName, validation.Required.Error("first name is required"), validation.Length(1, 100)),
		validation.Field(&r.LastName, validation.Required.Error("last name is required"), validation.Length(1, 100)),
		validation.Field(&r.Email,
			validation.Required.Error("email is required"),
			is.EmailFormat.Error("invalid email format"),
		),
		validation.Field(&r.Phone, validation.Required.Error("phone is required")),
		validation.Field(&r.Class, validation.Required.Error("class is required")),
		validation.Field(&r.RollNo, validation.Required.Error("roll number is required")),
	)
}

// SetStatusRequest drives the admin approve/reject transition.
type SetStatusRequest struct {
	Status string `json:"status"`
}

func (r SetStatusRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Status, validation.Required.Error("status is required")),
	)
}
