package http

import (
	"fmt"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/khoahotran/tag-service/internal/domain/tag"
)

// RegisterValidators adds the "tagname" rule to gin's binding validator.
func RegisterValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return fmt.Errorf("unexpected binding validator engine %T", binding.Validator.Engine())
	}
	return v.RegisterValidation("tagname", func(fl validator.FieldLevel) bool {
		return tag.ValidateName(fl.Field().String()) == nil
	})
}
