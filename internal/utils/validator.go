package utils

import (
	"sync"

	"github.com/go-playground/validator/v10"

	"xianshiji/pkg/inventory"
)

var (
	Validate     *validator.Validate
	validateOnce sync.Once
)

func InitValidator() {
	validateOnce.Do(func() {
		Validate = NewValidator()
	})
}

// NewValidator returns a validator with the project's custom tags registered:
//
//	isodate  string in YYYY-MM-DD form, empty strings pass (pair with required)
//	status   one of the four food statuses
func NewValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("isodate", func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		if s == "" {
			return true
		}
		_, err := inventory.ParseDate(s)
		return err == nil
	})
	_ = v.RegisterValidation("status", func(fl validator.FieldLevel) bool {
		_, err := inventory.ParseStatus(fl.Field().String())
		return err == nil
	})
	return v
}
