package repository

import (
	"gorm.io/gorm"

	userModel "dndbuilder_backend/internals/features/users/user/model"
	helper "dndbuilder_backend/internals/helpers"
)

func FindUserByEmailOrUsername(db *gorm.DB, identifier string) (*userModel.UserModel, error) {
	var user userModel.UserModel
	if err := db.Where("LOWER(email) = LOWER(?) OR username = ?", identifier, identifier).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func FindUserByID(db *gorm.DB, userID uint) (*userModel.UserModel, error) {
	var user userModel.UserModel
	if err := db.First(&user, userID).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// UsernameOrEmailTaken reports which of the two identifiers is in use.
func UsernameOrEmailTaken(db *gorm.DB, username, email string) (usernameTaken, emailTaken bool, err error) {
	var rows []userModel.UserModel
	if err = db.Select("username", "email").
		Where("username = ? OR LOWER(email) = LOWER(?)", username, email).
		Find(&rows).Error; err != nil {
		return false, false, err
	}
	for _, r := range rows {
		usernameTaken = usernameTaken || r.Username == username
		emailTaken = emailTaken || r.Email == email
	}
	return usernameTaken, emailTaken, nil
}

func CreateUser(db *gorm.DB, user *userModel.UserModel) error {
	return db.Create(user).Error
}

func UpdateUserPassword(db *gorm.DB, userID uint, hashed string) error {
	return db.Model(&userModel.UserModel{}).Where("id = ?", userID).Update("hashed_password", hashed).Error
}

// ListUsers returns one page of users ordered by id.
func ListUsers(db *gorm.DB, p helper.Params) ([]userModel.UserModel, int64, error) {
	q := db.Model(&userModel.UserModel{})
	if pat := p.SearchPattern(); pat != "" {
		q = q.Where("LOWER(username) LIKE ? OR LOWER(email) LIKE ?", pat, pat)
	}
	var rows []userModel.UserModel
	total, err := helper.Paginate(q, p, "id ASC", &rows)
	return rows, total, err
}
