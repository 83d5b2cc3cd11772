package controller

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"dndbuilder_backend/internals/cache"
	"dndbuilder_backend/internals/features/reference/dto"
	"dndbuilder_backend/internals/features/reference/model"
	helper "dndbuilder_backend/internals/helpers"
)

// AbilityScoreController serves the six seeded ability scores. They are
// immutable so there are no write handlers.
type AbilityScoreController struct {
	DB    *gorm.DB
	Cache cache.Cache
}

func NewAbilityScoreController(db *gorm.DB, c cache.Cache) *AbilityScoreController {
	return &AbilityScoreController{DB: db, Cache: c}
}

// GET /ability-scores
func (ctl *AbilityScoreController) List(c *fiber.Ctx) error {
	ctx := c.UserContext()
	rows, err := cache.Fetch(ctx, ctl.Cache, cache.KindAbilityScores, "list", func() ([]dto.AbilityScoreResponse, error) {
		var list []model.AbilityScore
		if err := ctl.DB.WithContext(ctx).Order("id ASC").Find(&list).Error; err != nil {
			return nil, helper.DBError(err, "")
		}
		out := make([]dto.AbilityScoreResponse, 0, len(list))
		for _, m := range list {
			out = append(out, dto.ToAbilityScoreResponse(m))
		}
		return out, nil
	})
	if err != nil {
		return err
	}
	p := helper.Params{Page: 1, PerPage: len(rows)}
	return helper.JsonList(c, "Ability scores retrieved", rows, helper.BuildPagination(int64(len(rows)), p, len(rows)))
}

// GET /ability-scores/:id accepts the numeric id, the name or the abbreviation.
func (ctl *AbilityScoreController) GetByID(c *fiber.Ctx) error {
	key := strings.ToLower(strings.TrimSpace(c.Params("id")))
	ctx := c.UserContext()

	row, err := cache.Fetch(ctx, ctl.Cache, cache.KindAbilityScores, "one:"+key, func() (dto.AbilityScoreResponse, error) {
		var m model.AbilityScore
		q := ctl.DB.WithContext(ctx)
		if id, convErr := strconv.ParseUint(key, 10, 64); convErr == nil {
			q = q.Where("id = ?", id)
		} else {
			q = q.Where("LOWER(name) = ? OR LOWER(abbreviation) = ?", key, key)
		}
		if err := q.First(&m).Error; err != nil {
			return dto.AbilityScoreResponse{}, helper.DBError(err, "Ability score not found")
		}
		return dto.ToAbilityScoreResponse(m), nil
	})
	if err != nil {
		return err
	}
	return helper.JsonOK(c, "Ability score retrieved", row)
}
