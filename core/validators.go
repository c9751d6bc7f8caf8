package core

import (
	"reflect"
	"strings"

	ptBR "github.com/go-playground/locales/pt_BR"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	ptBR_translations "github.com/go-playground/validator/v10/translations/pt_BR"
)

var (
	// custom validation tags & texts
	shiftTag  = "shift"
	shiftText = "{0} deve ter um único caractere (M, T ou N)"

	requiredTag  = "required"
	requiredText = "{0} é obrigatório"

	numberTag  = "number"
	numberText = "{0} deve ser um número inteiro"
)

// NewTranslator returns the pt_BR translator used for every operator-facing message.
func NewTranslator() ut.Translator {
	pt := ptBR.New()
	uni := ut.New(pt, pt)
	translator, _ := uni.GetTranslator("pt_BR")
	return translator
}

// InitValidators instantiates the validator for use.
func InitValidators(validate *validator.Validate, translator ut.Translator) {
	_ = ptBR_translations.RegisterDefaultTranslations(validate, translator)

	// Use the `label` tag for errors, falling back to the JSON name.
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		if label := fld.Tag.Get("label"); label != "" {
			return label
		}
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	// register custom validators
	_ = validate.RegisterValidation(shiftTag, shiftValidation)
	RegisterCustomTranslation(validate, translator, shiftTag, shiftText)

	RegisterCustomTranslation(validate, translator, requiredTag, requiredText, true)
	RegisterCustomTranslation(validate, translator, numberTag, numberText, true)
}

// RegisterCustomTranslation registers a custom translation for the specified validation tag.
func RegisterCustomTranslation(validate *validator.Validate, translator ut.Translator, tag, text string, override ...bool) {
	var ovrd bool
	if len(override) > 0 {
		ovrd = override[0]
	}
	_ = validate.RegisterTranslation(
		tag, translator,
		func(t ut.Translator) error { return t.Add(tag, text, ovrd) },
		func(t ut.Translator, fe validator.FieldError) string {
			s, _ := t.T(tag, fe.Field())
			return s
		},
	)
}

// HasTag reports whether any of the validation errors in err failed on tag.
func HasTag(err error, tag string) bool {
	vErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return false
	}
	for _, fe := range vErrs {
		if fe.Tag() == tag {
			return true
		}
	}
	return false
}

// TranslateFirst returns the translated text of the first validation error in err.
func TranslateFirst(err error, translator ut.Translator) string {
	if vErrs, ok := err.(validator.ValidationErrors); ok && len(vErrs) > 0 {
		return vErrs[0].Translate(translator)
	}
	return err.Error()
}

// Custom Global Validators

// shiftValidation only allows a single character; the backend owns the actual shift codes.
func shiftValidation(fl validator.FieldLevel) bool {
	return len([]rune(fl.Field().String())) == 1
}
