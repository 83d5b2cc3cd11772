package controller

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"dndbuilder_backend/internals/cache"
	database "dndbuilder_backend/internals/databases"
	"dndbuilder_backend/internals/features/races/dto"
	"dndbuilder_backend/internals/features/races/model"
	helper "dndbuilder_backend/internals/helpers"
)

// SubraceController handles subraces. Their writes change the embedded
// subrace list of races, so they invalidate the races cache.
type SubraceController struct {
	DB       *gorm.DB
	Validate *validator.Validate
	Cache    cache.Cache
	Registry *database.Registry
}

func NewSubraceController(db *gorm.DB, v *validator.Validate, c cache.Cache, reg *database.Registry) *SubraceController {
	return &SubraceController{DB: db, Validate: v, Cache: c, Registry: reg}
}

func loadSubrace(tx *gorm.DB, id uint) (dto.SubraceResponse, error) {
	var m model.Subrace
	if err := tx.First(&m, id).Error; err != nil {
		return dto.SubraceResponse{}, helper.DBError(err, "Subrace not found")
	}
	var parent model.Race
	if err := tx.Select("id", "name").First(&parent, m.RaceID).Error; err != nil {
		return dto.SubraceResponse{}, helper.DBError(err, "Race not found")
	}
	return dto.ToSubraceResponse(m, &parent), nil
}

// GET /subraces?race_id=&search=
func (ctl *SubraceController) List(c *fiber.Ctx) error {
	raceID, err := helper.QueryUint(c, "race_id")
	if err != nil {
		return err
	}
	p := helper.ParseFiber(c, "name", "asc", helper.DefaultOpts)
	order, err := p.SafeOrderClause(map[string]string{"id": "id", "name": "name", "created_at": "created_at"}, "name")
	if err != nil {
		return err
	}

	q := ctl.DB.WithContext(c.UserContext()).Model(&model.Subrace{})
	if raceID != nil {
		q = q.Where("race_id = ?", *raceID)
	}
	if pat := p.SearchPattern(); pat != "" {
		q = q.Where("LOWER(name) LIKE ?", pat)
	}
	var rows []model.Subrace
	total, err := helper.Paginate(q, p, order, &rows)
	if err != nil {
		return helper.DBError(err, "")
	}

	out := make([]dto.SubraceResponse, 0, len(rows))
	for _, m := range rows {
		out = append(out, dto.ToSubraceResponse(m, nil))
	}
	return helper.JsonList(c, "Subraces retrieved", out, helper.BuildPagination(total, p, len(rows)))
}

// GET /subraces/:id includes the parent race.
func (ctl *SubraceController) GetByID(c *fiber.Ctx) error {
	id, err := helper.ParamID(c, "id")
	if err != nil {
		return err
	}
	resp, err := loadSubrace(ctl.DB.WithContext(c.UserContext()), id)
	if err != nil {
		return err
	}
	return helper.JsonOK(c, "Subrace retrieved", resp)
}

// POST /subraces
func (ctl *SubraceController) Create(c *fiber.Ctx) error {
	var req dto.CreateSubraceRequest
	if err := helper.BindAndValidate(c, ctl.Validate, &req); err != nil {
		return err
	}

	var out dto.SubraceResponse
	err := ctl.DB.WithContext(c.UserContext()).Transaction(func(tx *gorm.DB) error {
		if err := helper.EnsureRef(tx, &model.Race{}, req.RaceID, "race_id"); err != nil {
			return err
		}
		m := req.ToModel()
		if err := tx.Create(&m).Error; err != nil {
			return helper.DBError(err, "")
		}
		var err error
		out, err = loadSubrace(tx, m.ID)
		return err
	})
	if err != nil {
		return err
	}
	ctl.Cache.Invalidate(c.UserContext(), cache.KindRaces)
	return helper.JsonCreated(c, "Subrace created", out)
}

// PATCH /subraces/:id
func (ctl *SubraceController) Update(c *fiber.Ctx) error {
	id, err := helper.ParamID(c, "id")
	if err != nil {
		return err
	}
	var req dto.UpdateSubraceRequest
	if err := helper.BindAndValidate(c, ctl.Validate, &req); err != nil {
		return err
	}

	var out dto.SubraceResponse
	err = ctl.DB.WithContext(c.UserContext()).Transaction(func(tx *gorm.DB) error {
		var m model.Subrace
		if err := tx.First(&m, id).Error; err != nil {
			return helper.DBError(err, "Subrace not found")
		}
		if req.RaceID != nil && *req.RaceID != m.RaceID {
			if err := helper.EnsureRef(tx, &model.Race{}, *req.RaceID, "race_id"); err != nil {
				return err
			}
			// characters pair the subrace with its current race
			if err := ctl.Registry.CheckRestrict(tx, "subrace", id); err != nil {
				return helper.DBError(err, "")
			}
		}
		if up := req.BuildUpdateMap(); len(up) > 0 {
			if err := tx.Model(&m).Updates(up).Error; err != nil {
				return helper.DBError(err, "")
			}
		}
		var err error
		out, err = loadSubrace(tx, id)
		return err
	})
	if err != nil {
		return err
	}
	ctl.Cache.Invalidate(c.UserContext(), cache.KindRaces)
	return helper.JsonUpdated(c, "Subrace updated", out)
}

// DELETE /subraces/:id
func (ctl *SubraceController) Delete(c *fiber.Ctx) error {
	id, err := helper.ParamID(c, "id")
	if err != nil {
		return err
	}

	err = ctl.DB.WithContext(c.UserContext()).Transaction(func(tx *gorm.DB) error {
		if err := helper.DBError(tx.First(&model.Subrace{}, id).Error, "Subrace not found"); err != nil {
			return err
		}
		if err := ctl.Registry.Release(tx, "subrace", id); err != nil {
			return helper.DBError(err, "")
		}
		return helper.DBError(tx.Delete(&model.Subrace{}, id).Error, "")
	})
	if err != nil {
		return err
	}
	ctl.Cache.Invalidate(c.UserContext(), cache.KindRaces)
	return helper.JsonDeleted(c, "Subrace deleted", fiber.Map{"id": id})
}
