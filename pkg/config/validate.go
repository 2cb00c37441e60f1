package config

import (
	stderrors "errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/arthur-debert/buildtiming/pkg/errors"
	"github.com/arthur-debert/buildtiming/pkg/rebuild"
	"github.com/arthur-debert/buildtiming/pkg/types"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func validatorInstance() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(func(f reflect.StructField) string {
			name, _, _ := strings.Cut(f.Tag.Get("koanf"), ",")
			if name == "-" {
				return ""
			}
			return name
		})
		_ = validate.RegisterValidation("goident", func(fl validator.FieldLevel) bool {
			return types.Identifier(fl.Field().String()).Validate() == nil
		})
		_ = validate.RegisterValidation("kind", func(fl validator.FieldLevel) bool {
			_, err := types.ParseKind(fl.Field().String())
			return err == nil
		})
		_ = validate.RegisterValidation("pattern", func(fl validator.FieldLevel) bool {
			_, err := rebuild.ParseMode(fl.Field().String())
			return err == nil
		})
	})
	return validate
}

// Validate checks cfg and reports every invalid field at once
func Validate(cfg *Config) error {
	err := validatorInstance().Struct(cfg)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !stderrors.As(err, &verrs) {
		return errors.Wrap(err, errors.ErrConfigInvalid, "configuration validation failed")
	}

	problems := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		problems = append(problems, describe(fe))
	}
	return errors.Newf(errors.ErrConfigInvalid, "invalid configuration: %s", strings.Join(problems, "; ")).
		WithDetail("fields", problems)
}

func describe(fe validator.FieldError) string {
	field := strings.TrimPrefix(fe.Namespace(), "Config.")
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "goident":
		return fmt.Sprintf("%s: %q is not a valid Go identifier", field, fe.Value())
	case "kind":
		return fmt.Sprintf("%s: unknown kind %q", field, fe.Value())
	case "pattern":
		return fmt.Sprintf("%s: unknown pattern %q (lazy, realtime, custom)", field, fe.Value())
	default:
		return fmt.Sprintf("%s failed %s", field, fe.Tag())
	}
}
