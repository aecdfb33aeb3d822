package validator

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
	"github.com/nulzo/formatapi/internal/format"
)

// trans is a private global translator
var trans ut.Translator

// InitValidator configures the validator engine. Call it once before
// serving requests.
func InitValidator() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})

		en := en.New()
		uni := ut.New(en, en)
		trans, _ = uni.GetTranslator("en")

		_ = en_translations.RegisterDefaultTranslations(v, trans)

		registerFormatTag(v)
	}
}

// registerFormatTag adds the "format" tag, which accepts any output format
// name format.ParseFormat understands.
func registerFormatTag(v *validator.Validate) {
	_ = v.RegisterValidation("format", func(fl validator.FieldLevel) bool {
		_, err := format.ParseFormat(fl.Field().String())
		return err == nil
	})

	_ = v.RegisterTranslation("format", trans,
		func(ut ut.Translator) error {
			return ut.Add("format", "{0} must be one of env, json, yaml, toml", true)
		},
		func(ut ut.Translator, fe validator.FieldError) string {
			t, _ := ut.T("format", fe.Field())
			return t
		},
	)
}

// ParseValidationError converts raw technical errors into a clean map.
// When defined, nested errors can be resolved into their hierarchical naming.
func ParseValidationError(err error) map[string]string {
	errMap := make(map[string]string)

	if validationErrors, ok := err.(validator.ValidationErrors); ok {
		for _, e := range validationErrors {
			ns := e.Namespace()

			if i := strings.Index(ns, "."); i != -1 {
				ns = ns[i+1:]
			}

			msg := e.Translate(trans)

			if e.Tag() == "oneof" {
				msg = fmt.Sprintf("must be one of [%s]", strings.ReplaceAll(e.Param(), " ", ", "))
			}

			errMap[ns] = msg
		}
		return errMap
	}

	errMap["body"] = "Invalid request body format. Please fix your payload."
	return errMap
}
