package constants

import "fmt"

const (
	RolePlayer = "player"
	RoleAdmin  = "admin"
)

// Permission error templates
const (
	ErrOnlyOwnerCanModify = "Only the owner of this %s can modify it."
	ErrOnlyAdminsCanDo    = "Only administrators may %s."
)

func OwnerError(resource string) string {
	return fmt.Sprintf(ErrOnlyOwnerCanModify, resource)
}

func AdminError(action string) string {
	return fmt.Sprintf(ErrOnlyAdminsCanDo, action)
}

// RoleFor derives the role claim issued to a user.
func RoleFor(isSuperuser bool) string {
	if isSuperuser {
		return RoleAdmin
	}
	return RolePlayer
}
