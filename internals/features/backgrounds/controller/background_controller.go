package controller

import (
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"dndbuilder_backend/internals/cache"
	database "dndbuilder_backend/internals/databases"
	"dndbuilder_backend/internals/features/backgrounds/dto"
	"dndbuilder_backend/internals/features/backgrounds/model"
	refService "dndbuilder_backend/internals/features/reference/service"
	helper "dndbuilder_backend/internals/helpers"
)

type BackgroundController struct {
	DB       *gorm.DB
	Validate *validator.Validate
	Cache    cache.Cache
	Registry *database.Registry
}

func NewBackgroundController(db *gorm.DB, v *validator.Validate, c cache.Cache, reg *database.Registry) *BackgroundController {
	return &BackgroundController{DB: db, Validate: v, Cache: c, Registry: reg}
}

func loadBackground(tx *gorm.DB, id uint) (model.Background, error) {
	var m model.Background
	err := tx.Preload("Feature").Preload("Proficiencies").First(&m, id).Error
	return m, helper.DBError(err, "Background not found")
}

// setFeature replaces the background's feature; nil removes it.
func setFeature(tx *gorm.DB, backgroundID uint, in *dto.FeatureInput) error {
	if err := tx.Where("background_id = ?", backgroundID).Delete(&model.BackgroundFeature{}).Error; err != nil {
		return helper.DBError(err, "")
	}
	if in == nil {
		return nil
	}
	f := model.BackgroundFeature{BackgroundID: backgroundID, Name: in.Name, Description: in.Description}
	return helper.DBError(tx.Create(&f).Error, "")
}

// GET /backgrounds?search=&page=&per_page=
func (ctl *BackgroundController) List(c *fiber.Ctx) error {
	p := helper.ParseFiber(c, "name", "asc", helper.DefaultOpts)
	order, err := p.SafeOrderClause(map[string]string{"id": "id", "name": "name", "created_at": "created_at"}, "name")
	if err != nil {
		return err
	}

	ctx := c.UserContext()
	key := "list:" + string(c.Request().URI().QueryString())
	page, err := cache.Fetch(ctx, ctl.Cache, cache.KindBackgrounds, key, func() (helper.Page[dto.BackgroundResponse], error) {
		q := ctl.DB.WithContext(ctx).Model(&model.Background{})
		if pat := p.SearchPattern(); pat != "" {
			q = q.Where("LOWER(name) LIKE ?", pat)
		}
		var rows []model.Background
		total, err := helper.Paginate(q, p, order, &rows, "Feature", "Proficiencies")
		if err != nil {
			return helper.Page[dto.BackgroundResponse]{}, helper.DBError(err, "")
		}
		return helper.Page[dto.BackgroundResponse]{
			Items:      dto.ToBackgroundResponses(rows),
			Pagination: helper.BuildPagination(total, p, len(rows)),
		}, nil
	})
	if err != nil {
		return err
	}
	return helper.JsonList(c, "Backgrounds retrieved", page.Items, page.Pagination)
}

// GET /backgrounds/:id
func (ctl *BackgroundController) GetByID(c *fiber.Ctx) error {
	id, err := helper.ParamID(c, "id")
	if err != nil {
		return err
	}
	ctx := c.UserContext()
	resp, err := cache.Fetch(ctx, ctl.Cache, cache.KindBackgrounds, fmt.Sprintf("one:%d", id), func() (dto.BackgroundResponse, error) {
		m, err := loadBackground(ctl.DB.WithContext(ctx), id)
		if err != nil {
			return dto.BackgroundResponse{}, err
		}
		return dto.ToBackgroundResponse(m), nil
	})
	if err != nil {
		return err
	}
	return helper.JsonOK(c, "Background retrieved", resp)
}

// POST /backgrounds
func (ctl *BackgroundController) Create(c *fiber.Ctx) error {
	var req dto.CreateBackgroundRequest
	if err := helper.BindAndValidate(c, ctl.Validate, &req); err != nil {
		return err
	}

	var out model.Background
	err := ctl.DB.WithContext(c.UserContext()).Transaction(func(tx *gorm.DB) error {
		m := req.ToModel()
		if err := tx.Create(&m).Error; err != nil {
			return helper.DBError(err, "")
		}
		if req.Feature != nil {
			if err := setFeature(tx, m.ID, req.Feature); err != nil {
				return err
			}
		}
		if err := refService.ReplaceProficiencies(tx, &m, "proficiency_ids", req.ProficiencyIDs); err != nil {
			return err
		}
		var err error
		out, err = loadBackground(tx, m.ID)
		return err
	})
	if err != nil {
		return err
	}
	ctl.Cache.Invalidate(c.UserContext(), cache.KindBackgrounds)
	return helper.JsonCreated(c, "Background created", dto.ToBackgroundResponse(out))
}

// PATCH /backgrounds/:id
func (ctl *BackgroundController) Update(c *fiber.Ctx) error {
	id, err := helper.ParamID(c, "id")
	if err != nil {
		return err
	}
	var req dto.UpdateBackgroundRequest
	if err := helper.BindAndValidate(c, ctl.Validate, &req); err != nil {
		return err
	}

	var out model.Background
	err = ctl.DB.WithContext(c.UserContext()).Transaction(func(tx *gorm.DB) error {
		var m model.Background
		if err := tx.First(&m, id).Error; err != nil {
			return helper.DBError(err, "Background not found")
		}
		if up := req.BuildUpdateMap(); len(up) > 0 {
			if err := tx.Model(&m).Updates(up).Error; err != nil {
				return helper.DBError(err, "")
			}
		}
		if req.Feature.Present {
			if err := setFeature(tx, id, req.Feature.Value); err != nil {
				return err
			}
		}
		if req.ProficiencyIDs != nil {
			if err := refService.ReplaceProficiencies(tx, &m, "proficiency_ids", *req.ProficiencyIDs); err != nil {
				return err
			}
		}
		var err error
		out, err = loadBackground(tx, id)
		return err
	})
	if err != nil {
		return err
	}
	ctl.Cache.Invalidate(c.UserContext(), cache.KindBackgrounds)
	return helper.JsonUpdated(c, "Background updated", dto.ToBackgroundResponse(out))
}

// DELETE /backgrounds/:id
func (ctl *BackgroundController) Delete(c *fiber.Ctx) error {
	id, err := helper.ParamID(c, "id")
	if err != nil {
		return err
	}

	err = ctl.DB.WithContext(c.UserContext()).Transaction(func(tx *gorm.DB) error {
		if err := helper.DBError(tx.First(&model.Background{}, id).Error, "Background not found"); err != nil {
			return err
		}
		if err := ctl.Registry.Release(tx, "background", id); err != nil {
			return helper.DBError(err, "")
		}
		return helper.DBError(tx.Delete(&model.Background{}, id).Error, "")
	})
	if err != nil {
		return err
	}
	ctl.Cache.Invalidate(c.UserContext(), cache.KindBackgrounds)
	return helper.JsonDeleted(c, "Background deleted", fiber.Map{"id": id})
}
