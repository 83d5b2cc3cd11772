package helper

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	apperrors "dndbuilder_backend/internals/errors"
)

// ParamID parses a positive integer path parameter.
func ParamID(c *fiber.Ctx, name string) (uint, error) {
	n, err := strconv.ParseUint(strings.TrimSpace(c.Params(name)), 10, 64)
	if err != nil || n == 0 {
		return 0, apperrors.NewValidationBuilder().Field(name, "must be a positive integer").Build()
	}
	return uint(n), nil
}

// QueryUint parses an optional positive integer query parameter.
func QueryUint(c *fiber.Ctx, name string) (*uint, error) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return nil, nil
	}
	n, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || n == 0 {
		return nil, apperrors.NewValidationBuilder().Field(name, "must be a positive integer").Build()
	}
	v := uint(n)
	return &v, nil
}

// QueryBool parses an optional boolean query parameter; anything unparsable is false.
func QueryBool(c *fiber.Ctx, name string) bool {
	b, _ := strconv.ParseBool(strings.TrimSpace(c.Query(name)))
	return b
}
