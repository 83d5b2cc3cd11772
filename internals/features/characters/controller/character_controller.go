package controller

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	database "dndbuilder_backend/internals/databases"
	apperrors "dndbuilder_backend/internals/errors"
	"dndbuilder_backend/internals/features/characters/dto"
	"dndbuilder_backend/internals/features/characters/model"
	"dndbuilder_backend/internals/features/characters/service"
	refService "dndbuilder_backend/internals/features/reference/service"
	helper "dndbuilder_backend/internals/helpers"
)

type CharacterController struct {
	DB       *gorm.DB
	Validate *validator.Validate
	Registry *database.Registry
}

func NewCharacterController(db *gorm.DB, v *validator.Validate, reg *database.Registry) *CharacterController {
	return &CharacterController{DB: db, Validate: v, Registry: reg}
}

// GET /characters?mine=&race_id=&class_id=&background_id=&search=&page=&per_page=
func (ctl *CharacterController) List(c *fiber.Ctx) error {
	q := ctl.DB.WithContext(c.UserContext()).Model(&model.Character{})

	if helper.QueryBool(c, "mine") {
		uid, ok := helper.CurrentUserID(c)
		if !ok {
			return apperrors.Unauthenticated("Not authenticated")
		}
		q = q.Where("user_id = ?", uid)
	}
	for _, col := range []string{"race_id", "class_id", "background_id"} {
		v, err := helper.QueryUint(c, col)
		if err != nil {
			return err
		}
		if v != nil {
			q = q.Where(col+" = ?", *v)
		}
	}

	p := helper.ParseFiber(c, "created_at", "desc", helper.DefaultOpts)
	order, err := p.SafeOrderClause(map[string]string{
		"id":         "id",
		"name":       "name",
		"level":      "level",
		"created_at": "created_at",
		"updated_at": "updated_at",
	}, "created_at")
	if err != nil {
		return err
	}
	if pat := p.SearchPattern(); pat != "" {
		q = q.Where("LOWER(name) LIKE ?", pat)
	}

	var rows []model.Character
	total, err := helper.Paginate(q, p, order+", id DESC", &rows, service.SheetPreloads...)
	if err != nil {
		return helper.DBError(err, "")
	}
	out := make([]dto.CharacterResponse, 0, len(rows))
	for _, m := range rows {
		out = append(out, dto.ToCharacterResponse(m))
	}
	return helper.JsonList(c, "Characters retrieved", out, helper.BuildPagination(total, p, len(rows)))
}

// GET /characters/:id
func (ctl *CharacterController) GetByID(c *fiber.Ctx) error {
	id, err := helper.ParamID(c, "id")
	if err != nil {
		return err
	}
	m, err := service.Load(ctl.DB.WithContext(c.UserContext()), id)
	if err != nil {
		return err
	}
	return helper.JsonOK(c, "Character retrieved", dto.ToCharacterResponse(m))
}

// POST /characters. An authenticated caller becomes the owner.
func (ctl *CharacterController) Create(c *fiber.Ctx) error {
	var req dto.CreateCharacterRequest
	if err := helper.BindAndValidate(c, ctl.Validate, &req); err != nil {
		return err
	}

	var owner *uint
	if uid, ok := helper.CurrentUserID(c); ok {
		owner = &uid
	}

	var out model.Character
	err := ctl.DB.WithContext(c.UserContext()).Transaction(func(tx *gorm.DB) error {
		m := req.ToModel(owner)
		if err := service.ValidateRefs(tx, &m); err != nil {
			return err
		}
		if err := tx.Omit(clause.Associations).Create(&m).Error; err != nil {
			return helper.DBError(err, "")
		}
		if err := service.CreateAbilityScores(tx, &m); err != nil {
			return err
		}
		if err := refService.ReplaceProficiencies(tx, &m, "proficiency_ids", req.ProficiencyIDs); err != nil {
			return err
		}
		var err error
		out, err = service.Load(tx, m.ID)
		return err
	})
	if err != nil {
		return err
	}
	return helper.JsonCreated(c, "Character created", dto.ToCharacterResponse(out))
}

// PATCH /characters/:id. Hit points may never exceed the resulting max.
func (ctl *CharacterController) Update(c *fiber.Ctx) error {
	id, err := helper.ParamID(c, "id")
	if err != nil {
		return err
	}
	var req dto.UpdateCharacterRequest
	if err := helper.BindAndValidate(c, ctl.Validate, &req); err != nil {
		return err
	}

	var out model.Character
	err = ctl.DB.WithContext(c.UserContext()).Transaction(func(tx *gorm.DB) error {
		var m model.Character
		if err := tx.First(&m, id).Error; err != nil {
			return helper.DBError(err, "Character not found")
		}
		if err := service.CheckOwner(c, &m); err != nil {
			return err
		}

		req.Apply(&m)
		if m.HitPoints > m.MaxHitPoints {
			return apperrors.NewValidationBuilder().
				Fieldf("hit_points", "must be less than or equal to max_hit_points (%d)", m.MaxHitPoints).
				Build()
		}

		originChanged := req.RaceID != nil || req.SubraceID.Present
		if originChanged || req.ClassID != nil || req.SubclassID.Present || req.BackgroundID != nil {
			if err := service.ValidateRefs(tx, &m); err != nil {
				return err
			}
		}
		if err := tx.Omit(clause.Associations).Save(&m).Error; err != nil {
			return helper.DBError(err, "")
		}
		if originChanged || len(req.Scores()) > 0 {
			if err := service.SyncAbilityScores(tx, &m, originChanged); err != nil {
				return err
			}
		}
		if req.ProficiencyIDs != nil {
			if err := refService.ReplaceProficiencies(tx, &m, "proficiency_ids", *req.ProficiencyIDs); err != nil {
				return err
			}
		}
		var err error
		out, err = service.Load(tx, id)
		return err
	})
	if err != nil {
		return err
	}
	return helper.JsonUpdated(c, "Character updated", dto.ToCharacterResponse(out))
}

// DELETE /characters/:id removes the character and its sheet rows.
func (ctl *CharacterController) Delete(c *fiber.Ctx) error {
	id, err := helper.ParamID(c, "id")
	if err != nil {
		return err
	}

	err = ctl.DB.WithContext(c.UserContext()).Transaction(func(tx *gorm.DB) error {
		var m model.Character
		if err := tx.First(&m, id).Error; err != nil {
			return helper.DBError(err, "Character not found")
		}
		if err := service.CheckOwner(c, &m); err != nil {
			return err
		}
		if err := ctl.Registry.Release(tx, "character", id); err != nil {
			return helper.DBError(err, "")
		}
		return helper.DBError(tx.Delete(&model.Character{}, id).Error, "")
	})
	if err != nil {
		return err
	}
	return helper.JsonDeleted(c, "Character deleted", fiber.Map{"id": id})
}
