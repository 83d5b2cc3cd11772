package controller

import (
	"log"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	database "dndbuilder_backend/internals/databases"
	apperrors "dndbuilder_backend/internals/errors"
	authRepo "dndbuilder_backend/internals/features/users/auth/repository"
	"dndbuilder_backend/internals/features/users/user/dto"
	"dndbuilder_backend/internals/features/users/user/model"
	helper "dndbuilder_backend/internals/helpers"
)

// UserController is the superuser account administration.
type UserController struct {
	DB       *gorm.DB
	Validate *validator.Validate
	Registry *database.Registry
}

func NewUserController(db *gorm.DB, v *validator.Validate, reg *database.Registry) *UserController {
	return &UserController{DB: db, Validate: v, Registry: reg}
}

// GET /users?search=&page=&per_page=
func (uc *UserController) List(c *fiber.Ctx) error {
	p := helper.ParseFiber(c, "id", "asc", helper.DefaultOpts)
	rows, total, err := authRepo.ListUsers(uc.DB.WithContext(c.UserContext()), p)
	if err != nil {
		return helper.DBError(err, "")
	}
	return helper.JsonList(c, "Users retrieved", dto.ToUserResponses(rows), helper.BuildPagination(total, p, len(rows)))
}

// GET /users/:id
func (uc *UserController) GetByID(c *fiber.Ctx) error {
	id, err := helper.ParamID(c, "id")
	if err != nil {
		return err
	}
	user, err := authRepo.FindUserByID(uc.DB.WithContext(c.UserContext()), id)
	if err != nil {
		return helper.DBError(err, "User not found")
	}
	return helper.JsonOK(c, "User retrieved", dto.ToUserResponse(*user))
}

// PATCH /users/:id. A superuser cannot deactivate or demote themselves.
func (uc *UserController) Update(c *fiber.Ctx) error {
	id, err := helper.ParamID(c, "id")
	if err != nil {
		return err
	}
	var req dto.UpdateUserRequest
	if err := helper.BindAndValidate(c, uc.Validate, &req); err != nil {
		return err
	}
	if self, _ := helper.CurrentUserID(c); self == id {
		vb := apperrors.NewValidationBuilder()
		if req.IsActive != nil && !*req.IsActive {
			vb.Field("is_active", "cannot deactivate your own account")
		}
		if req.IsSuperuser != nil && !*req.IsSuperuser {
			vb.Field("is_superuser", "cannot revoke your own superuser status")
		}
		if err := vb.Build(); err != nil {
			return err
		}
	}

	var out model.UserModel
	err = uc.DB.WithContext(c.UserContext()).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&out, id).Error; err != nil {
			return helper.DBError(err, "User not found")
		}
		if up := req.BuildUpdateMap(); len(up) > 0 {
			if err := tx.Model(&out).Updates(up).Error; err != nil {
				return helper.DBError(err, "")
			}
		}
		return helper.DBError(tx.First(&out, id).Error, "User not found")
	})
	if err != nil {
		return err
	}
	log.Printf("[INFO] request_id=%s user id=%d updated", helper.RequestID(c), id)
	return helper.JsonUpdated(c, "User updated", dto.ToUserResponse(out))
}

// DELETE /users/:id keeps the user's characters as unowned ones.
func (uc *UserController) Delete(c *fiber.Ctx) error {
	id, err := helper.ParamID(c, "id")
	if err != nil {
		return err
	}
	if self, _ := helper.CurrentUserID(c); self == id {
		return apperrors.Conflictf("cannot delete your own account")
	}

	err = uc.DB.WithContext(c.UserContext()).Transaction(func(tx *gorm.DB) error {
		var user model.UserModel
		if err := tx.Select("id").First(&user, id).Error; err != nil {
			return helper.DBError(err, "User not found")
		}
		if err := uc.Registry.Release(tx, "user", id); err != nil {
			return helper.DBError(err, "")
		}
		return helper.DBError(tx.Delete(&model.UserModel{}, id).Error, "")
	})
	if err != nil {
		return err
	}
	log.Printf("[INFO] request_id=%s user id=%d deleted", helper.RequestID(c), id)
	return helper.JsonDeleted(c, "User deleted", fiber.Map{"id": id})
}
