package handlers

import (
	"reflect"
	"slices"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/locales/en"
	"github.com/go-playground/locales/zh"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	enTranslations "github.com/go-playground/validator/v10/translations/en"
	zhTranslations "github.com/go-playground/validator/v10/translations/zh"
	"github.com/pkg/errors"
)

var (
	transOnce sync.Once
	trans     ut.Translator
)

// InitTrans registers translated validation messages on gin's validator.
// Only the first call takes effect; unknown languages fall back to English.
func InitTrans(lang string) (err error) {
	transOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			err = errors.New("gin validator engine is not go-playground/validator")
			return
		}

		// report json names instead of Go field names
		v.RegisterTagNameFunc(func(field reflect.StructField) string {
			name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
			if name == "-" {
				return ""
			}
			return name
		})

		enT := en.New()
		uni := ut.New(enT, enT, zh.New())
		if lang != "zh" {
			lang = "en"
		}
		trans, _ = uni.GetTranslator(lang)

		if lang == "zh" {
			err = zhTranslations.RegisterDefaultTranslations(v, trans)
		} else {
			err = enTranslations.RegisterDefaultTranslations(v, trans)
		}
		err = errors.Wrap(err, "register validation translations")
	})
	return err
}

// validationMessage turns a binding error into a client-facing message.
func validationMessage(err error) string {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return "invalid request body"
	}
	if trans == nil {
		return verrs.Error()
	}
	msgs := make([]string, 0, len(verrs))
	for _, msg := range verrs.Translate(trans) {
		msgs = append(msgs, msg)
	}
	slices.Sort(msgs)
	return strings.Join(msgs, "; ")
}
