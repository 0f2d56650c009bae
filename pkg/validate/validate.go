package validate

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/nsxzhou1114/restaurant-api/internal/model"
)

var registerOnce sync.Once

// Register installs the custom rules on gin's validator engine
func Register() {
	registerOnce.Do(func() {
		if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
			Configure(v)
		}
	})
}

// Configure adds json field names and the role rule to v
func Configure(v *validator.Validate) {
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	_ = v.RegisterValidation("role", func(fl validator.FieldLevel) bool {
		return model.Role(fl.Field().String()).Valid()
	})
}

var messages = map[string]string{
	"required": "is required",
	"min":      "must be at least %v",
	"max":      "must be at most %v",
	"email":    "must be a valid email address",
	"url":      "must be a valid url",
	"oneof":    "must be one of [%v]",
	"gte":      "must be greater than or equal to %v",
	"lte":      "must be less than or equal to %v",
	"role":     "must be a known role",
}

// FormatError renders the first validation failure as a readable message
func FormatError(err error) string {
	var errs validator.ValidationErrors
	if !errors.As(err, &errs) || len(errs) == 0 {
		return err.Error()
	}

	first := errs[0]
	tmpl, ok := messages[first.Tag()]
	if !ok {
		tmpl = "is invalid"
	}
	if first.Param() != "" && strings.Contains(tmpl, "%v") {
		return first.Field() + " " + fmt.Sprintf(tmpl, first.Param())
	}
	return first.Field() + " " + tmpl
}
