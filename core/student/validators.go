package student

import (
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/academykit/kiosk/core"
)

var (
	gameTag  = "game"
	gameText = "unknown game category"
)

// InitValidators registers this package's custom validators.
func InitValidators(validate *validator.Validate, translator ut.Translator) {
	_ = validate.RegisterValidation(gameTag, gameValidation)
	core.RegisterCustomTranslation(validate, translator, gameTag, gameText)
}

// gameValidation checks membership in the fixed game vocabulary.
func gameValidation(fl validator.FieldLevel) bool {
	return ValidGame(fl.Field().String())
}
