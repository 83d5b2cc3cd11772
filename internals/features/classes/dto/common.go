package dto

import (
	"strings"

	"dndbuilder_backend/internals/constants"
	apperrors "dndbuilder_backend/internals/errors"
	helper "dndbuilder_backend/internals/helpers"
)

func normalizeAbilityPtr(p *string) *string {
	if p == nil {
		return nil
	}
	if a, ok := constants.NormalizeAbility(*p); ok {
		return &a
	}
	v := strings.TrimSpace(*p)
	return &v
}

// checkOptionalAbility validates a nullable ability PATCH field.
func checkOptionalAbility(vb *apperrors.ValidationBuilder, field string, o helper.Optional[*string]) {
	if !o.Present || o.Value == nil {
		return
	}
	if !constants.Contains(constants.Abilities, *o.Value) {
		vb.Fieldf(field, "must be one of: %s", strings.Join(constants.Abilities, ", "))
	}
}
