package controller

import (
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"dndbuilder_backend/internals/cache"
	database "dndbuilder_backend/internals/databases"
	"dndbuilder_backend/internals/features/races/dto"
	"dndbuilder_backend/internals/features/races/model"
	refService "dndbuilder_backend/internals/features/reference/service"
	helper "dndbuilder_backend/internals/helpers"
)

type RaceController struct {
	DB       *gorm.DB
	Validate *validator.Validate
	Cache    cache.Cache
	Registry *database.Registry
}

func NewRaceController(db *gorm.DB, v *validator.Validate, c cache.Cache, reg *database.Registry) *RaceController {
	return &RaceController{DB: db, Validate: v, Cache: c, Registry: reg}
}

var raceSortColumns = map[string]string{
	"id":         "id",
	"name":       "name",
	"speed":      "speed",
	"created_at": "created_at",
}

// loadRace reads one race with its subraces and proficiencies.
func loadRace(tx *gorm.DB, id uint) (model.Race, error) {
	var m model.Race
	err := tx.Preload("Subraces").Preload("Proficiencies").First(&m, id).Error
	return m, helper.DBError(err, "Race not found")
}

// GET /races?search=&page=&per_page=&sort_by=&order=
func (ctl *RaceController) List(c *fiber.Ctx) error {
	p := helper.ParseFiber(c, "name", "asc", helper.DefaultOpts)
	order, err := p.SafeOrderClause(raceSortColumns, "name")
	if err != nil {
		return err
	}

	ctx := c.UserContext()
	key := "list:" + string(c.Request().URI().QueryString())
	page, err := cache.Fetch(ctx, ctl.Cache, cache.KindRaces, key, func() (helper.Page[dto.RaceResponse], error) {
		q := ctl.DB.WithContext(ctx).Model(&model.Race{})
		if pat := p.SearchPattern(); pat != "" {
			q = q.Where("LOWER(name) LIKE ?", pat)
		}
		var rows []model.Race
		total, err := helper.Paginate(q, p, order, &rows, "Subraces", "Proficiencies")
		if err != nil {
			return helper.Page[dto.RaceResponse]{}, helper.DBError(err, "")
		}
		return helper.Page[dto.RaceResponse]{
			Items:      dto.ToRaceResponses(rows),
			Pagination: helper.BuildPagination(total, p, len(rows)),
		}, nil
	})
	if err != nil {
		return err
	}
	return helper.JsonList(c, "Races retrieved", page.Items, page.Pagination)
}

// GET /races/:id
func (ctl *RaceController) GetByID(c *fiber.Ctx) error {
	id, err := helper.ParamID(c, "id")
	if err != nil {
		return err
	}
	ctx := c.UserContext()
	resp, err := cache.Fetch(ctx, ctl.Cache, cache.KindRaces, fmt.Sprintf("one:%d", id), func() (dto.RaceResponse, error) {
		m, err := loadRace(ctl.DB.WithContext(ctx), id)
		if err != nil {
			return dto.RaceResponse{}, err
		}
		return dto.ToRaceResponse(m), nil
	})
	if err != nil {
		return err
	}
	return helper.JsonOK(c, "Race retrieved", resp)
}

// POST /races
func (ctl *RaceController) Create(c *fiber.Ctx) error {
	var req dto.CreateRaceRequest
	if err := helper.BindAndValidate(c, ctl.Validate, &req); err != nil {
		return err
	}

	var out model.Race
	err := ctl.DB.WithContext(c.UserContext()).Transaction(func(tx *gorm.DB) error {
		m := req.ToModel()
		if err := tx.Create(&m).Error; err != nil {
			return helper.DBError(err, "")
		}
		if err := refService.ReplaceProficiencies(tx, &m, "proficiency_ids", req.ProficiencyIDs); err != nil {
			return err
		}
		var err error
		out, err = loadRace(tx, m.ID)
		return err
	})
	if err != nil {
		return err
	}
	ctl.Cache.Invalidate(c.UserContext(), cache.KindRaces)
	return helper.JsonCreated(c, "Race created", dto.ToRaceResponse(out))
}

// PATCH /races/:id
func (ctl *RaceController) Update(c *fiber.Ctx) error {
	id, err := helper.ParamID(c, "id")
	if err != nil {
		return err
	}
	var req dto.UpdateRaceRequest
	if err := helper.BindAndValidate(c, ctl.Validate, &req); err != nil {
		return err
	}

	var out model.Race
	err = ctl.DB.WithContext(c.UserContext()).Transaction(func(tx *gorm.DB) error {
		var m model.Race
		if err := tx.First(&m, id).Error; err != nil {
			return helper.DBError(err, "Race not found")
		}
		if up := req.BuildUpdateMap(); len(up) > 0 {
			if err := tx.Model(&m).Updates(up).Error; err != nil {
				return helper.DBError(err, "")
			}
		}
		if req.ProficiencyIDs != nil {
			if err := refService.ReplaceProficiencies(tx, &m, "proficiency_ids", *req.ProficiencyIDs); err != nil {
				return err
			}
		}
		var err error
		out, err = loadRace(tx, id)
		return err
	})
	if err != nil {
		return err
	}
	ctl.Cache.Invalidate(c.UserContext(), cache.KindRaces)
	return helper.JsonUpdated(c, "Race updated", dto.ToRaceResponse(out))
}

// DELETE /races/:id removes the race and its subraces. Races still used by
// a character are rejected with 409.
func (ctl *RaceController) Delete(c *fiber.Ctx) error {
	id, err := helper.ParamID(c, "id")
	if err != nil {
		return err
	}

	err = ctl.DB.WithContext(c.UserContext()).Transaction(func(tx *gorm.DB) error {
		if err := helper.DBError(tx.First(&model.Race{}, id).Error, "Race not found"); err != nil {
			return err
		}
		if err := ctl.Registry.Release(tx, "race", id); err != nil {
			return helper.DBError(err, "")
		}
		return helper.DBError(tx.Delete(&model.Race{}, id).Error, "")
	})
	if err != nil {
		return err
	}
	ctl.Cache.Invalidate(c.UserContext(), cache.KindRaces)
	return helper.JsonDeleted(c, "Race deleted", fiber.Map{"id": id})
}
