package controller

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"dndbuilder_backend/internals/cache"
	"dndbuilder_backend/internals/constants"
	database "dndbuilder_backend/internals/databases"
	apperrors "dndbuilder_backend/internals/errors"
	"dndbuilder_backend/internals/features/reference/dto"
	"dndbuilder_backend/internals/features/reference/model"
	helper "dndbuilder_backend/internals/helpers"
)

// Proficiency rows are shared by races, classes, backgrounds and characters,
// so every write invalidates all of those cached kinds.
var proficiencyDependents = []string{
	cache.KindProficiencies,
	cache.KindRaces,
	cache.KindClasses,
	cache.KindBackgrounds,
}

type ProficiencyController struct {
	DB       *gorm.DB
	Validate *validator.Validate
	Cache    cache.Cache
	Registry *database.Registry
}

func NewProficiencyController(db *gorm.DB, v *validator.Validate, c cache.Cache, reg *database.Registry) *ProficiencyController {
	return &ProficiencyController{DB: db, Validate: v, Cache: c, Registry: reg}
}

// GET /proficiencies?type=&search=&page=&per_page=
func (ctl *ProficiencyController) List(c *fiber.Ctx) error {
	typ := strings.ToLower(strings.TrimSpace(c.Query("type")))
	if typ != "" && !constants.Contains(constants.ProficiencyTypes, typ) {
		return apperrors.NewValidationBuilder().
			Fieldf("type", "must be one of: %s", strings.Join(constants.ProficiencyTypes, ", ")).
			Build()
	}

	p := helper.ParseFiber(c, "name", "asc", helper.DefaultOpts)
	order, err := p.SafeOrderClause(map[string]string{
		"id":         "id",
		"name":       "name",
		"type":       "type",
		"created_at": "created_at",
	}, "name")
	if err != nil {
		return apperrors.InvalidArgument(err.Error())
	}

	ctx := c.UserContext()
	key := "list:" + string(c.Request().URI().QueryString())
	page, err := cache.Fetch(ctx, ctl.Cache, cache.KindProficiencies, key, func() (helper.Page[dto.ProficiencyResponse], error) {
		q := ctl.DB.WithContext(ctx).Model(&model.Proficiency{})
		if typ != "" {
			q = q.Where("type = ?", typ)
		}
		if pat := p.SearchPattern(); pat != "" {
			q = q.Where("LOWER(name) LIKE ?", pat)
		}
		var rows []model.Proficiency
		total, err := helper.Paginate(q, p, order, &rows)
		if err != nil {
			return helper.Page[dto.ProficiencyResponse]{}, helper.DBError(err, "")
		}
		return helper.Page[dto.ProficiencyResponse]{
			Items:      dto.ToProficiencyResponses(rows),
			Pagination: helper.BuildPagination(total, p, len(rows)),
		}, nil
	})
	if err != nil {
		return err
	}
	return helper.JsonList(c, "Proficiencies retrieved", page.Items, page.Pagination)
}

// GET /proficiencies/:id
func (ctl *ProficiencyController) GetByID(c *fiber.Ctx) error {
	id, err := helper.ParamID(c, "id")
	if err != nil {
		return err
	}
	ctx := c.UserContext()
	row, err := cache.Fetch(ctx, ctl.Cache, cache.KindProficiencies, fmt.Sprintf("one:%d", id), func() (dto.ProficiencyResponse, error) {
		var m model.Proficiency
		if err := ctl.DB.WithContext(ctx).First(&m, id).Error; err != nil {
			return dto.ProficiencyResponse{}, helper.DBError(err, "Proficiency not found")
		}
		return dto.ToProficiencyResponse(m), nil
	})
	if err != nil {
		return err
	}
	return helper.JsonOK(c, "Proficiency retrieved", row)
}

// POST /proficiencies
func (ctl *ProficiencyController) Create(c *fiber.Ctx) error {
	var req dto.CreateProficiencyRequest
	if err := helper.BindAndValidate(c, ctl.Validate, &req); err != nil {
		return err
	}

	m := req.ToModel()
	if err := ctl.DB.WithContext(c.UserContext()).Create(&m).Error; err != nil {
		return helper.DBError(err, "")
	}
	ctl.Cache.Invalidate(c.UserContext(), cache.KindProficiencies)
	return helper.JsonCreated(c, "Proficiency created", dto.ToProficiencyResponse(m))
}

// PATCH /proficiencies/:id
func (ctl *ProficiencyController) Update(c *fiber.Ctx) error {
	id, err := helper.ParamID(c, "id")
	if err != nil {
		return err
	}
	var req dto.UpdateProficiencyRequest
	if err := helper.BindAndValidate(c, ctl.Validate, &req); err != nil {
		return err
	}

	var m model.Proficiency
	err = ctl.DB.WithContext(c.UserContext()).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&m, id).Error; err != nil {
			return helper.DBError(err, "Proficiency not found")
		}
		if up := req.BuildUpdateMap(); len(up) > 0 {
			if err := tx.Model(&m).Updates(up).Error; err != nil {
				return helper.DBError(err, "")
			}
		}
		return helper.DBError(tx.First(&m, id).Error, "Proficiency not found")
	})
	if err != nil {
		return err
	}
	ctl.Cache.Invalidate(c.UserContext(), proficiencyDependents...)
	return helper.JsonUpdated(c, "Proficiency updated", dto.ToProficiencyResponse(m))
}

// DELETE /proficiencies/:id removes the proficiency together with every
// association and character skill that points at it.
func (ctl *ProficiencyController) Delete(c *fiber.Ctx) error {
	id, err := helper.ParamID(c, "id")
	if err != nil {
		return err
	}

	var m model.Proficiency
	err = ctl.DB.WithContext(c.UserContext()).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&m, id).Error; err != nil {
			return helper.DBError(err, "Proficiency not found")
		}
		if err := ctl.Registry.Release(tx, "proficiency", id); err != nil {
			return helper.DBError(err, "")
		}
		return helper.DBError(tx.Delete(&model.Proficiency{}, id).Error, "")
	})
	if err != nil {
		return err
	}
	ctl.Cache.Invalidate(c.UserContext(), proficiencyDependents...)
	return helper.JsonDeleted(c, "Proficiency deleted", fiber.Map{"id": id})
}
