package helper

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"dndbuilder_backend/internals/constants"
	apperrors "dndbuilder_backend/internals/errors"
)

// NewValidator returns a validator that reports JSON field names and knows
// the D&D enumerations: alignment, ability, hitdie, size, proftype, proflevel.
func NewValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		switch name {
		case "-":
			return ""
		case "":
			return fld.Name
		}
		return name
	})

	enums := map[string]func(string) bool{
		"alignment": func(s string) bool { return constants.Contains(constants.Alignments, s) },
		"ability":   func(s string) bool { _, ok := constants.NormalizeAbility(s); return ok },
		"hitdie":    func(s string) bool { return constants.Contains(constants.HitDice, s) },
		"size":      func(s string) bool { return constants.Contains(constants.Sizes, s) },
		"proftype":  func(s string) bool { return constants.Contains(constants.ProficiencyTypes, s) },
		"proflevel": func(s string) bool { return constants.Contains(constants.ProficiencyLevels, s) },
	}
	for tag, ok := range enums {
		check := ok
		if err := v.RegisterValidation(tag, func(fl validator.FieldLevel) bool {
			return check(fl.Field().String())
		}); err != nil {
			panic(fmt.Sprintf("register validation %q: %v", tag, err))
		}
	}
	return v
}

var enumHints = map[string]string{
	"alignment": strings.Join(constants.Alignments, ", "),
	"ability":   strings.Join(constants.Abilities, ", "),
	"hitdie":    strings.Join(constants.HitDice, ", "),
	"size":      strings.Join(constants.Sizes, ", "),
	"proftype":  strings.Join(constants.ProficiencyTypes, ", "),
	"proflevel": strings.Join(constants.ProficiencyLevels, ", "),
}

// ValidationMessages flattens validator errors into JSON-field keyed messages.
func ValidationMessages(err error) map[string][]string {
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return nil
	}
	out := make(map[string][]string, len(ve))
	for _, fe := range ve {
		key := fieldKey(fe)
		out[key] = append(out[key], fieldMessage(fe))
	}
	return out
}

// fieldKey drops the top-level struct name from the namespace.
func fieldKey(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "field required"
	case "email":
		return "must be a valid email address"
	case "min", "gte":
		if isNumeric(fe.Kind()) {
			return "must be greater than or equal to " + fe.Param()
		}
		return "must contain at least " + fe.Param() + " item(s) or character(s)"
	case "max", "lte":
		if isNumeric(fe.Kind()) {
			return "must be less than or equal to " + fe.Param()
		}
		return "must contain at most " + fe.Param() + " item(s) or character(s)"
	case "oneof":
		return "must be one of: " + fe.Param()
	}
	if hint, ok := enumHints[fe.Tag()]; ok {
		return "must be one of: " + hint
	}
	return "is invalid (" + fe.Tag() + ")"
}

func isNumeric(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}

// Checker is implemented by request DTOs with rules the tags cannot express
// (cross-field checks, tri-state PATCH fields).
type Checker interface {
	Check(vb *apperrors.ValidationBuilder)
}

// ValidateStruct runs the schema tags of s, then its Check method when it
// has one, and returns a validation error carrying per-field messages.
func ValidateStruct(v *validator.Validate, s any) error {
	vb := apperrors.NewValidationBuilder()
	if err := v.Struct(s); err != nil {
		fields := ValidationMessages(err)
		if fields == nil {
			return apperrors.Wrap(err, "validator misuse")
		}
		vb.Merge(fields)
	}
	if c, ok := s.(Checker); ok {
		c.Check(vb)
	}
	return vb.Build()
}

// BindJSON decodes the request body into dst. A malformed body is reported
// as a validation failure of the "body" field.
func BindJSON(c *fiber.Ctx, dst any) error {
	if len(c.Body()) == 0 {
		return apperrors.NewValidationBuilder().Field("body", "request body is required").Build()
	}
	if err := c.BodyParser(dst); err != nil {
		return apperrors.NewValidationBuilder().Field("body", "malformed JSON body").Build()
	}
	return nil
}

// Normalizer is implemented by request DTOs that trim or canonicalise
// their input before validation.
type Normalizer interface {
	Normalize()
}

// BindAndValidate decodes the body into dst, normalises it and runs its
// schema tags and checks.
func BindAndValidate(c *fiber.Ctx, v *validator.Validate, dst any) error {
	if err := BindJSON(c, dst); err != nil {
		return err
	}
	if n, ok := dst.(Normalizer); ok {
		n.Normalize()
	}
	return ValidateStruct(v, dst)
}
