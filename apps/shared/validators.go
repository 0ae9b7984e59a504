package shared

import (
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/trezcool/proctor/core"
	"github.com/trezcool/proctor/core/exam"
	"github.com/trezcool/proctor/core/user"
)

// NewValidator returns a validator with every custom validation and message registered.
func NewValidator() (*validator.Validate, ut.Translator) {
	validate := validator.New()
	translator := core.NewTranslator()
	core.InitValidators(validate, translator)
	user.InitValidators(validate, translator)
	exam.InitValidators(validate, translator)
	return validate, translator
}
