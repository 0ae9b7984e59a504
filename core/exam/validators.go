package exam

import (
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/trezcool/proctor/core"
)

var (
	statusTag  = "exam_status"
	statusText = "invalid exam status"
)

func InitValidators(validate *validator.Validate, translator ut.Translator) {
	_ = validate.RegisterValidation(statusTag, func(fl validator.FieldLevel) bool {
		_, ok := Statuses.Lookup(fl.Field().String())
		return ok
	})
	core.RegisterCustomTranslation(validate, translator, statusTag, statusText)
}
