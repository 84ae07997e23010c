package service

import (
	"net/mail"
	"strings"

	"vehicle-registry/internal/domain"
)

// 字段名与前端约定保持一致（camelCase）。

type VehicleInput struct {
	PlateNumber   string `json:"plateNumber"`
	Make          string `json:"make"`
	Model         string `json:"model"`
	Year          int    `json:"year"`
	Color         string `json:"color"`
	ChassisNumber string `json:"chassisNumber"`
	EngineNumber  string `json:"engineNumber"`
	VehicleType   string `json:"vehicleType"`
}

type OwnerInput struct {
	FullName    string `json:"fullName"`
	NationalID  string `json:"nationalId"`
	PhoneNumber string `json:"phoneNumber"`
	Email       string `json:"email"`
	Address     string `json:"address"`
}

type CreateRegistrationInput struct {
	// UserID 来自请求体时仅作兼容字段；实际提交人一律取自令牌。
	UserID  string       `json:"userId"`
	Vehicle VehicleInput `json:"vehicle"`
	Owner   OwnerInput   `json:"owner"`
}

func (in *CreateRegistrationInput) Validate() error {
	var fe FieldErrors
	fe.require("vehicle.plateNumber", in.Vehicle.PlateNumber)
	fe.require("vehicle.make", in.Vehicle.Make)
	fe.require("vehicle.model", in.Vehicle.Model)
	fe.require("vehicle.color", in.Vehicle.Color)
	fe.require("vehicle.chassisNumber", in.Vehicle.ChassisNumber)
	fe.require("vehicle.engineNumber", in.Vehicle.EngineNumber)
	fe.require("vehicle.vehicleType", in.Vehicle.VehicleType)
	if in.Vehicle.Year < 1900 {
		fe = append(fe, FieldError{Field: "vehicle.year", Message: "must be 1900 or later"})
	}

	fe.require("owner.fullName", in.Owner.FullName)
	fe.require("owner.nationalId", in.Owner.NationalID)
	fe.require("owner.phoneNumber", in.Owner.PhoneNumber)
	fe.require("owner.address", in.Owner.Address)
	if e := strings.TrimSpace(in.Owner.Email); e != "" {
		if _, err := mail.ParseAddress(e); err != nil {
			fe = append(fe, FieldError{Field: "owner.email", Message: "must be a valid email"})
		}
	}
	return fe.orNil()
}

type UpdateStatusInput struct {
	Status          domain.Status `json:"status"` // APPROVED / REJECTED
	RejectionReason string        `json:"rejectionReason"`
}

func (in *UpdateStatusInput) Validate() error {
	var fe FieldErrors
	switch in.Status {
	case domain.StatusApproved:
	case domain.StatusRejected:
		if strings.TrimSpace(in.RejectionReason) == "" {
			fe = append(fe, FieldError{Field: "rejectionReason", Message: "is required when rejecting"})
		}
	default:
		fe = append(fe, FieldError{Field: "status", Message: "must be APPROVED or REJECTED"})
	}
	return fe.orNil()
}

type CreateUserInput struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	FullName    string `json:"fullName"`
	PhoneNumber string `json:"phoneNumber"`
}

func (in *CreateUserInput) Validate() error {
	var fe FieldErrors
	fe.require("fullName", in.FullName)
	if strings.TrimSpace(in.Email) == "" {
		fe = append(fe, FieldError{Field: "email", Message: "is required"})
	} else if _, err := mail.ParseAddress(in.Email); err != nil {
		fe = append(fe, FieldError{Field: "email", Message: "must be a valid email"})
	}
	if len(in.Password) < 6 {
		fe = append(fe, FieldError{Field: "password", Message: "must be at least 6 characters"})
	}
	return fe.orNil()
}

type UpdateProfileInput struct {
	FullName    string `json:"fullName"`
	PhoneNumber string `json:"phoneNumber"`
}

func (in *UpdateProfileInput) Validate() error {
	var fe FieldErrors
	fe.require("fullName", in.FullName)
	return fe.orNil()
}

type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (in *LoginInput) Validate() error {
	var fe FieldErrors
	fe.require("email", in.Email)
	fe.require("password", in.Password)
	return fe.orNil()
}
