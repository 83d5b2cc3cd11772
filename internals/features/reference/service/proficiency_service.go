package service

import (
	"sort"
	"strconv"
	"strings"

	"gorm.io/gorm"

	apperrors "dndbuilder_backend/internals/errors"
	"dndbuilder_backend/internals/features/reference/model"
	helper "dndbuilder_backend/internals/helpers"
)

// LoadProficiencies returns the proficiencies with the given ids. Unknown
// ids are a validation failure of field.
func LoadProficiencies(tx *gorm.DB, field string, ids []uint) ([]model.Proficiency, error) {
	uniq := dedupe(ids)
	if len(uniq) == 0 {
		return []model.Proficiency{}, nil
	}

	var rows []model.Proficiency
	if err := tx.Where("id IN ?", uniq).Order("id").Find(&rows).Error; err != nil {
		return nil, helper.DBError(err, "")
	}
	if len(rows) == len(uniq) {
		return rows, nil
	}

	found := make(map[uint]bool, len(rows))
	for _, r := range rows {
		found[r.ID] = true
	}
	var missing []string
	for _, id := range uniq {
		if !found[id] {
			missing = append(missing, strconv.FormatUint(uint64(id), 10))
		}
	}
	return nil, apperrors.NewValidationBuilder().
		Fieldf(field, "unknown proficiency id(s): %s", strings.Join(missing, ", ")).
		Build()
}

// ReplaceProficiencies points owner's Proficiencies association at ids.
func ReplaceProficiencies(tx *gorm.DB, owner any, field string, ids []uint) error {
	rows, err := LoadProficiencies(tx, field, ids)
	if err != nil {
		return err
	}
	assoc := tx.Model(owner).Association("Proficiencies")
	if len(rows) == 0 {
		if err := assoc.Clear(); err != nil {
			return helper.DBError(err, "")
		}
		return nil
	}
	if err := assoc.Replace(rows); err != nil {
		return helper.DBError(err, "")
	}
	return nil
}

func dedupe(ids []uint) []uint {
	seen := make(map[uint]bool, len(ids))
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if id == 0 || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
