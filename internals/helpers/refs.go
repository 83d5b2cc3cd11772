package helper

import (
	"gorm.io/gorm"

	apperrors "dndbuilder_backend/internals/errors"
)

// EnsureRef reports a validation failure of field when no row of model has
// the given id.
func EnsureRef(tx *gorm.DB, model any, id uint, field string) error {
	var n int64
	if err := tx.Model(model).Where("id = ?", id).Count(&n).Error; err != nil {
		return DBError(err, "")
	}
	if n == 0 {
		return apperrors.NewValidationBuilder().Fieldf(field, "no record with id %d", id).Build()
	}
	return nil
}

// JSONObject returns m, or an empty map when m is nil, so responses always
// carry an object.
func JSONObject[V any](m map[string]V) map[string]V {
	if m == nil {
		return map[string]V{}
	}
	return m
}

// JSONArray returns s, or an empty slice when s is nil.
func JSONArray[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
