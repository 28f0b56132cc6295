package http

import (
	"reflect"
	"regexp"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

const usernameTag = "username"

var (
	usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_.]+$`)
	registerOnce    sync.Once
	registerErr     error
)

func validateUsername(fl validator.FieldLevel) bool {
	return usernamePattern.MatchString(fl.Field().String())
}

// RegisterValidators installs the custom rules on gin's validator and makes
// error messages use the wire field names.
func RegisterValidators() error {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			for _, tag := range []string{"json", "form"} {
				name, _, _ := strings.Cut(fld.Tag.Get(tag), ",")
				if name != "" && name != "-" {
					return name
				}
			}
			return fld.Name
		})
		registerErr = v.RegisterValidation(usernameTag, validateUsername)
	})
	return registerErr
}
