package testutils

import (
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"

	bgModel "dndbuilder_backend/internals/features/backgrounds/model"
	classModel "dndbuilder_backend/internals/features/classes/model"
	raceModel "dndbuilder_backend/internals/features/races/model"
	refModel "dndbuilder_backend/internals/features/reference/model"
	authService "dndbuilder_backend/internals/features/users/auth/service"
	userModel "dndbuilder_backend/internals/features/users/user/model"
	helper "dndbuilder_backend/internals/helpers"
)

// CreateUser stores an active user with the given password.
func (a *TestApp) CreateUser(username, password string, superuser bool) userModel.UserModel {
	a.T.Helper()
	hashed, err := authService.HashPassword(password)
	require.NoError(a.T, err)
	u := userModel.UserModel{
		Username:       username,
		Email:          username + "@example.com",
		HashedPassword: hashed,
		IsActive:       true,
		IsSuperuser:    superuser,
	}
	require.NoError(a.T, a.DB.Create(&u).Error)
	return u
}

// Token signs an access token for userID with the app's secret.
func (a *TestApp) Token(userID uint) string {
	a.T.Helper()
	tok, _, err := helper.IssueAccessToken(userID, a.Settings.SecretKey, a.Settings.AccessTokenTTL(), time.Now())
	require.NoError(a.T, err)
	return tok
}

func (a *TestApp) CreateProficiency(name, typ string, ability *string) refModel.Proficiency {
	a.T.Helper()
	p := refModel.Proficiency{Name: name, Type: typ, AbilityScore: ability}
	require.NoError(a.T, a.DB.Create(&p).Error)
	return p
}

func (a *TestApp) CreateRace(name string, asi map[string]int) raceModel.Race {
	a.T.Helper()
	r := raceModel.Race{
		Name:                 name,
		Description:          name + " description",
		Size:                 "Medium",
		Speed:                30,
		AbilityScoreIncrease: datatypes.NewJSONType(helper.JSONObject(asi)),
		Age:                  datatypes.JSONMap{},
		Languages:            datatypes.NewJSONSlice([]string{"Common"}),
		Traits:               datatypes.JSONMap{},
		SourceBook:           "PHB",
	}
	require.NoError(a.T, a.DB.Omit("Subraces", "Proficiencies").Create(&r).Error)
	return r
}

func (a *TestApp) CreateSubrace(raceID uint, name string, asi map[string]int) raceModel.Subrace {
	a.T.Helper()
	s := raceModel.Subrace{
		Name:                 name,
		Description:          name + " description",
		RaceID:               raceID,
		AbilityScoreIncrease: datatypes.NewJSONType(helper.JSONObject(asi)),
		Traits:               datatypes.JSONMap{},
		SourceBook:           "PHB",
	}
	require.NoError(a.T, a.DB.Create(&s).Error)
	return s
}

func (a *TestApp) CreateClass(name, hitDie string) classModel.Class {
	a.T.Helper()
	c := classModel.Class{
		Name:                  name,
		Description:           name + " description",
		HitDie:                hitDie,
		PrimaryAbility:        datatypes.NewJSONSlice([]string{"strength"}),
		SavingThrows:          datatypes.NewJSONSlice([]string{"strength", "constitution"}),
		StartingEquipment:     datatypes.NewJSONSlice([]string{}),
		SpellSlotsProgression: datatypes.JSONMap{},
		SourceBook:            "PHB",
	}
	require.NoError(a.T, a.DB.Omit("Subclasses", "Features", "Proficiencies").Create(&c).Error)
	return c
}

func (a *TestApp) CreateSubclass(classID uint, name string) classModel.Subclass {
	a.T.Helper()
	s := classModel.Subclass{
		Name:        name,
		Description: name + " description",
		ClassID:     classID,
		SourceBook:  "PHB",
	}
	require.NoError(a.T, a.DB.Omit("Features").Create(&s).Error)
	return s
}

func (a *TestApp) CreateBackground(name string) bgModel.Background {
	a.T.Helper()
	b := bgModel.Background{
		Name:            name,
		Description:     name + " description",
		Equipment:       datatypes.NewJSONSlice([]string{}),
		Characteristics: datatypes.NewJSONType(bgModel.Characteristics{}),
		SourceBook:      "PHB",
	}
	require.NoError(a.T, a.DB.Omit("Feature", "Proficiencies").Create(&b).Error)
	return b
}

// Origin is a race, class and background a character can be built from.
type Origin struct {
	Race       raceModel.Race
	Class      classModel.Class
	Background bgModel.Background
}

// CreateOrigin stores a Dwarf (+2 constitution), a Fighter and a Soldier.
func (a *TestApp) CreateOrigin() Origin {
	a.T.Helper()
	return Origin{
		Race:       a.CreateRace("Dwarf", map[string]int{"constitution": 2}),
		Class:      a.CreateClass("Fighter", "d10"),
		Background: a.CreateBackground("Soldier"),
	}
}

// CharacterBody is a valid create request for o; overrides replace keys.
func CharacterBody(o Origin, overrides map[string]any) map[string]any {
	body := map[string]any{
		"name":           "Thorin",
		"alignment":      "Lawful Good",
		"race_id":        o.Race.ID,
		"class_id":       o.Class.ID,
		"background_id":  o.Background.ID,
		"strength":       15,
		"dexterity":      10,
		"constitution":   14,
		"intelligence":   8,
		"wisdom":         12,
		"charisma":       10,
		"hit_points":     12,
		"max_hit_points": 12,
		"armor_class":    16,
		"speed":          25,
	}
	for k, v := range overrides {
		body[k] = v
	}
	return body
}
