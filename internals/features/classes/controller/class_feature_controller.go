package controller

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"dndbuilder_backend/internals/cache"
	apperrors "dndbuilder_backend/internals/errors"
	"dndbuilder_backend/internals/features/classes/dto"
	"dndbuilder_backend/internals/features/classes/model"
	helper "dndbuilder_backend/internals/helpers"
)

type ClassFeatureController struct {
	DB       *gorm.DB
	Validate *validator.Validate
	Cache    cache.Cache
}

func NewClassFeatureController(db *gorm.DB, v *validator.Validate, c cache.Cache) *ClassFeatureController {
	return &ClassFeatureController{DB: db, Validate: v, Cache: c}
}

// checkOwnership verifies the class exists and, when set, that the subclass
// is one of its subclasses.
func checkOwnership(tx *gorm.DB, classID uint, subclassID *uint) error {
	if err := helper.EnsureRef(tx, &model.Class{}, classID, "class_id"); err != nil {
		return err
	}
	if subclassID == nil {
		return nil
	}
	var sub model.Subclass
	if err := tx.Select("id", "class_id").First(&sub, *subclassID).Error; err != nil {
		if apperrors.IsNotFound(helper.DBError(err, "")) {
			return apperrors.NewValidationBuilder().Fieldf("subclass_id", "no record with id %d", *subclassID).Build()
		}
		return helper.DBError(err, "")
	}
	if sub.ClassID != classID {
		return apperrors.NewValidationBuilder().
			Fieldf("subclass_id", "subclass %d does not belong to class %d", sub.ID, classID).
			Build()
	}
	return nil
}

// GET /class-features?class_id=&subclass_id=&level=&search=
func (ctl *ClassFeatureController) List(c *fiber.Ctx) error {
	classID, err := helper.QueryUint(c, "class_id")
	if err != nil {
		return err
	}
	subclassID, err := helper.QueryUint(c, "subclass_id")
	if err != nil {
		return err
	}
	level, err := helper.QueryUint(c, "level")
	if err != nil {
		return err
	}
	if level != nil && *level > 20 {
		return apperrors.NewValidationBuilder().Field("level", "must be less than or equal to 20").Build()
	}

	p := helper.ParseFiber(c, "level", "asc", helper.DefaultOpts)
	order, err := p.SafeOrderClause(map[string]string{
		"id":    "id",
		"name":  "name",
		"level": "level",
	}, "level")
	if err != nil {
		return err
	}

	q := ctl.DB.WithContext(c.UserContext()).Model(&model.ClassFeature{})
	if classID != nil {
		q = q.Where("class_id = ?", *classID)
	}
	if subclassID != nil {
		q = q.Where("subclass_id = ?", *subclassID)
	}
	if level != nil {
		q = q.Where("level = ?", *level)
	}
	if pat := p.SearchPattern(); pat != "" {
		q = q.Where("LOWER(name) LIKE ?", pat)
	}

	var rows []model.ClassFeature
	total, err := helper.Paginate(q, p, order+", id ASC", &rows)
	if err != nil {
		return helper.DBError(err, "")
	}
	out := make([]dto.ClassFeatureResponse, 0, len(rows))
	for _, m := range rows {
		out = append(out, dto.ToClassFeatureResponse(m))
	}
	return helper.JsonList(c, "Class features retrieved", out, helper.BuildPagination(total, p, len(rows)))
}

// GET /class-features/:id
func (ctl *ClassFeatureController) GetByID(c *fiber.Ctx) error {
	id, err := helper.ParamID(c, "id")
	if err != nil {
		return err
	}
	var m model.ClassFeature
	if err := ctl.DB.WithContext(c.UserContext()).First(&m, id).Error; err != nil {
		return helper.DBError(err, "Class feature not found")
	}
	return helper.JsonOK(c, "Class feature retrieved", dto.ToClassFeatureResponse(m))
}

// POST /class-features
func (ctl *ClassFeatureController) Create(c *fiber.Ctx) error {
	var req dto.CreateClassFeatureRequest
	if err := helper.BindAndValidate(c, ctl.Validate, &req); err != nil {
		return err
	}

	m := req.ToModel()
	err := ctl.DB.WithContext(c.UserContext()).Transaction(func(tx *gorm.DB) error {
		if err := checkOwnership(tx, m.ClassID, m.SubclassID); err != nil {
			return err
		}
		return helper.DBError(tx.Create(&m).Error, "")
	})
	if err != nil {
		return err
	}
	ctl.Cache.Invalidate(c.UserContext(), cache.KindClasses)
	return helper.JsonCreated(c, "Class feature created", dto.ToClassFeatureResponse(m))
}

// PATCH /class-features/:id
func (ctl *ClassFeatureController) Update(c *fiber.Ctx) error {
	id, err := helper.ParamID(c, "id")
	if err != nil {
		return err
	}
	var req dto.UpdateClassFeatureRequest
	if err := helper.BindAndValidate(c, ctl.Validate, &req); err != nil {
		return err
	}

	var m model.ClassFeature
	err = ctl.DB.WithContext(c.UserContext()).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&m, id).Error; err != nil {
			return helper.DBError(err, "Class feature not found")
		}

		classID, subclassID := m.ClassID, m.SubclassID
		if req.ClassID != nil {
			classID = *req.ClassID
		}
		if req.SubclassID.Present {
			subclassID = req.SubclassID.Value
		}
		if req.ClassID != nil || req.SubclassID.Present {
			if err := checkOwnership(tx, classID, subclassID); err != nil {
				return err
			}
		}

		if up := req.BuildUpdateMap(); len(up) > 0 {
			if err := tx.Model(&m).Updates(up).Error; err != nil {
				return helper.DBError(err, "")
			}
		}
		return helper.DBError(tx.First(&m, id).Error, "Class feature not found")
	})
	if err != nil {
		return err
	}
	ctl.Cache.Invalidate(c.UserContext(), cache.KindClasses)
	return helper.JsonUpdated(c, "Class feature updated", dto.ToClassFeatureResponse(m))
}

// DELETE /class-features/:id
func (ctl *ClassFeatureController) Delete(c *fiber.Ctx) error {
	id, err := helper.ParamID(c, "id")
	if err != nil {
		return err
	}
	res := ctl.DB.WithContext(c.UserContext()).Delete(&model.ClassFeature{}, id)
	if res.Error != nil {
		return helper.DBError(res.Error, "")
	}
	if res.RowsAffected == 0 {
		return apperrors.NotFound("Class feature not found")
	}
	ctl.Cache.Invalidate(c.UserContext(), cache.KindClasses)
	return helper.JsonDeleted(c, "Class feature deleted", fiber.Map{"id": id})
}
