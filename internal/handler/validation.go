package handler

import (
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/odontocare/clinic-api/internal/model"
)

// RegisterValidations installs the custom binding validators used by the
// request types. Call once before routes are served.
func RegisterValidations() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}

	v.RegisterValidation("slot", func(fl validator.FieldLevel) bool {
		return model.ValidSlot(fl.Field().String())
	})
}
