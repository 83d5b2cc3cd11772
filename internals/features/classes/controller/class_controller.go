package controller

import (
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"dndbuilder_backend/internals/cache"
	database "dndbuilder_backend/internals/databases"
	"dndbuilder_backend/internals/features/classes/dto"
	"dndbuilder_backend/internals/features/classes/model"
	refService "dndbuilder_backend/internals/features/reference/service"
	helper "dndbuilder_backend/internals/helpers"
)

type ClassController struct {
	DB       *gorm.DB
	Validate *validator.Validate
	Cache    cache.Cache
	Registry *database.Registry
}

func NewClassController(db *gorm.DB, v *validator.Validate, c cache.Cache, reg *database.Registry) *ClassController {
	return &ClassController{DB: db, Validate: v, Cache: c, Registry: reg}
}

var classPreloads = []string{"Subclasses", "Features", "Proficiencies"}

func loadClass(tx *gorm.DB, id uint) (model.Class, error) {
	q := tx
	for _, rel := range classPreloads {
		q = q.Preload(rel)
	}
	var m model.Class
	err := q.First(&m, id).Error
	return m, helper.DBError(err, "Class not found")
}

// GET /classes?search=&page=&per_page=
func (ctl *ClassController) List(c *fiber.Ctx) error {
	p := helper.ParseFiber(c, "name", "asc", helper.DefaultOpts)
	order, err := p.SafeOrderClause(map[string]string{
		"id":         "id",
		"name":       "name",
		"hit_die":    "hit_die",
		"created_at": "created_at",
	}, "name")
	if err != nil {
		return err
	}

	ctx := c.UserContext()
	key := "list:" + string(c.Request().URI().QueryString())
	page, err := cache.Fetch(ctx, ctl.Cache, cache.KindClasses, key, func() (helper.Page[dto.ClassResponse], error) {
		q := ctl.DB.WithContext(ctx).Model(&model.Class{})
		if pat := p.SearchPattern(); pat != "" {
			q = q.Where("LOWER(name) LIKE ?", pat)
		}
		var rows []model.Class
		total, err := helper.Paginate(q, p, order, &rows, classPreloads...)
		if err != nil {
			return helper.Page[dto.ClassResponse]{}, helper.DBError(err, "")
		}
		return helper.Page[dto.ClassResponse]{
			Items:      dto.ToClassResponses(rows),
			Pagination: helper.BuildPagination(total, p, len(rows)),
		}, nil
	})
	if err != nil {
		return err
	}
	return helper.JsonList(c, "Classes retrieved", page.Items, page.Pagination)
}

// GET /classes/:id
func (ctl *ClassController) GetByID(c *fiber.Ctx) error {
	id, err := helper.ParamID(c, "id")
	if err != nil {
		return err
	}
	ctx := c.UserContext()
	resp, err := cache.Fetch(ctx, ctl.Cache, cache.KindClasses, fmt.Sprintf("one:%d", id), func() (dto.ClassResponse, error) {
		m, err := loadClass(ctl.DB.WithContext(ctx), id)
		if err != nil {
			return dto.ClassResponse{}, err
		}
		return dto.ToClassResponse(m), nil
	})
	if err != nil {
		return err
	}
	return helper.JsonOK(c, "Class retrieved", resp)
}

// POST /classes
func (ctl *ClassController) Create(c *fiber.Ctx) error {
	var req dto.CreateClassRequest
	if err := helper.BindAndValidate(c, ctl.Validate, &req); err != nil {
		return err
	}

	var out model.Class
	err := ctl.DB.WithContext(c.UserContext()).Transaction(func(tx *gorm.DB) error {
		m := req.ToModel()
		if err := tx.Create(&m).Error; err != nil {
			return helper.DBError(err, "")
		}
		if err := refService.ReplaceProficiencies(tx, &m, "proficiency_ids", req.ProficiencyIDs); err != nil {
			return err
		}
		var err error
		out, err = loadClass(tx, m.ID)
		return err
	})
	if err != nil {
		return err
	}
	ctl.Cache.Invalidate(c.UserContext(), cache.KindClasses)
	return helper.JsonCreated(c, "Class created", dto.ToClassResponse(out))
}

// PATCH /classes/:id
func (ctl *ClassController) Update(c *fiber.Ctx) error {
	id, err := helper.ParamID(c, "id")
	if err != nil {
		return err
	}
	var req dto.UpdateClassRequest
	if err := helper.BindAndValidate(c, ctl.Validate, &req); err != nil {
		return err
	}

	var out model.Class
	err = ctl.DB.WithContext(c.UserContext()).Transaction(func(tx *gorm.DB) error {
		var m model.Class
		if err := tx.First(&m, id).Error; err != nil {
			return helper.DBError(err, "Class not found")
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
		out, err = loadClass(tx, id)
		return err
	})
	if err != nil {
		return err
	}
	ctl.Cache.Invalidate(c.UserContext(), cache.KindClasses)
	return helper.JsonUpdated(c, "Class updated", dto.ToClassResponse(out))
}

// DELETE /classes/:id removes the class with its subclasses and features.
// Classes used by a character are rejected with 409.
func (ctl *ClassController) Delete(c *fiber.Ctx) error {
	id, err := helper.ParamID(c, "id")
	if err != nil {
		return err
	}

	err = ctl.DB.WithContext(c.UserContext()).Transaction(func(tx *gorm.DB) error {
		if err := helper.DBError(tx.First(&model.Class{}, id).Error, "Class not found"); err != nil {
			return err
		}
		if err := ctl.Registry.Release(tx, "class", id); err != nil {
			return helper.DBError(err, "")
		}
		return helper.DBError(tx.Delete(&model.Class{}, id).Error, "")
	})
	if err != nil {
		return err
	}
	ctl.Cache.Invalidate(c.UserContext(), cache.KindClasses)
	return helper.JsonDeleted(c, "Class deleted", fiber.Map{"id": id})
}
