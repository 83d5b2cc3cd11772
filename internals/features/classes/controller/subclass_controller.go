package controller

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"dndbuilder_backend/internals/cache"
	database "dndbuilder_backend/internals/databases"
	"dndbuilder_backend/internals/features/classes/dto"
	"dndbuilder_backend/internals/features/classes/model"
	helper "dndbuilder_backend/internals/helpers"
)

type SubclassController struct {
	DB       *gorm.DB
	Validate *validator.Validate
	Cache    cache.Cache
	Registry *database.Registry
}

func NewSubclassController(db *gorm.DB, v *validator.Validate, c cache.Cache, reg *database.Registry) *SubclassController {
	return &SubclassController{DB: db, Validate: v, Cache: c, Registry: reg}
}

func loadSubclass(tx *gorm.DB, id uint) (dto.SubclassResponse, error) {
	var m model.Subclass
	if err := tx.Preload("Features").First(&m, id).Error; err != nil {
		return dto.SubclassResponse{}, helper.DBError(err, "Subclass not found")
	}
	var parent model.Class
	if err := tx.Select("id", "name", "hit_die").First(&parent, m.ClassID).Error; err != nil {
		return dto.SubclassResponse{}, helper.DBError(err, "Class not found")
	}
	return dto.ToSubclassResponse(m, &parent), nil
}

// GET /subclasses?class_id=&search=
func (ctl *SubclassController) List(c *fiber.Ctx) error {
	classID, err := helper.QueryUint(c, "class_id")
	if err != nil {
		return err
	}
	p := helper.ParseFiber(c, "name", "asc", helper.DefaultOpts)
	order, err := p.SafeOrderClause(map[string]string{"id": "id", "name": "name", "created_at": "created_at"}, "name")
	if err != nil {
		return err
	}

	q := ctl.DB.WithContext(c.UserContext()).Model(&model.Subclass{})
	if classID != nil {
		q = q.Where("class_id = ?", *classID)
	}
	if pat := p.SearchPattern(); pat != "" {
		q = q.Where("LOWER(name) LIKE ?", pat)
	}
	var rows []model.Subclass
	total, err := helper.Paginate(q, p, order, &rows, "Features")
	if err != nil {
		return helper.DBError(err, "")
	}

	out := make([]dto.SubclassResponse, 0, len(rows))
	for _, m := range rows {
		out = append(out, dto.ToSubclassResponse(m, nil))
	}
	return helper.JsonList(c, "Subclasses retrieved", out, helper.BuildPagination(total, p, len(rows)))
}

// GET /subclasses/:id includes the parent class.
func (ctl *SubclassController) GetByID(c *fiber.Ctx) error {
	id, err := helper.ParamID(c, "id")
	if err != nil {
		return err
	}
	resp, err := loadSubclass(ctl.DB.WithContext(c.UserContext()), id)
	if err != nil {
		return err
	}
	return helper.JsonOK(c, "Subclass retrieved", resp)
}

// POST /subclasses
func (ctl *SubclassController) Create(c *fiber.Ctx) error {
	var req dto.CreateSubclassRequest
	if err := helper.BindAndValidate(c, ctl.Validate, &req); err != nil {
		return err
	}

	var out dto.SubclassResponse
	err := ctl.DB.WithContext(c.UserContext()).Transaction(func(tx *gorm.DB) error {
		if err := helper.EnsureRef(tx, &model.Class{}, req.ClassID, "class_id"); err != nil {
			return err
		}
		m := req.ToModel()
		if err := tx.Create(&m).Error; err != nil {
			return helper.DBError(err, "")
		}
		var err error
		out, err = loadSubclass(tx, m.ID)
		return err
	})
	if err != nil {
		return err
	}
	ctl.Cache.Invalidate(c.UserContext(), cache.KindClasses)
	return helper.JsonCreated(c, "Subclass created", out)
}

// PATCH /subclasses/:id. Moving a subclass to another class moves its
// features along.
func (ctl *SubclassController) Update(c *fiber.Ctx) error {
	id, err := helper.ParamID(c, "id")
	if err != nil {
		return err
	}
	var req dto.UpdateSubclassRequest
	if err := helper.BindAndValidate(c, ctl.Validate, &req); err != nil {
		return err
	}

	var out dto.SubclassResponse
	err = ctl.DB.WithContext(c.UserContext()).Transaction(func(tx *gorm.DB) error {
		var m model.Subclass
		if err := tx.First(&m, id).Error; err != nil {
			return helper.DBError(err, "Subclass not found")
		}
		if req.ClassID != nil && *req.ClassID != m.ClassID {
			if err := helper.EnsureRef(tx, &model.Class{}, *req.ClassID, "class_id"); err != nil {
				return err
			}
			if err := ctl.Registry.CheckRestrict(tx, "subclass", id); err != nil {
				return helper.DBError(err, "")
			}
			if err := tx.Model(&model.ClassFeature{}).Where("subclass_id = ?", id).
				Update("class_id", *req.ClassID).Error; err != nil {
				return helper.DBError(err, "")
			}
		}
		if up := req.BuildUpdateMap(); len(up) > 0 {
			if err := tx.Model(&m).Updates(up).Error; err != nil {
				return helper.DBError(err, "")
			}
		}
		var err error
		out, err = loadSubclass(tx, id)
		return err
	})
	if err != nil {
		return err
	}
	ctl.Cache.Invalidate(c.UserContext(), cache.KindClasses)
	return helper.JsonUpdated(c, "Subclass updated", out)
}

// DELETE /subclasses/:id removes the subclass and its features.
func (ctl *SubclassController) Delete(c *fiber.Ctx) error {
	id, err := helper.ParamID(c, "id")
	if err != nil {
		return err
	}

	err = ctl.DB.WithContext(c.UserContext()).Transaction(func(tx *gorm.DB) error {
		if err := helper.DBError(tx.First(&model.Subclass{}, id).Error, "Subclass not found"); err != nil {
			return err
		}
		if err := ctl.Registry.Release(tx, "subclass", id); err != nil {
			return helper.DBError(err, "")
		}
		return helper.DBError(tx.Delete(&model.Subclass{}, id).Error, "")
	})
	if err != nil {
		return err
	}
	ctl.Cache.Invalidate(c.UserContext(), cache.KindClasses)
	return helper.JsonDeleted(c, "Subclass deleted", fiber.Map{"id": id})
}
