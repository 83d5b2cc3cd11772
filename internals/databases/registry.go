package database

import (
	"fmt"
	"log"

	"gorm.io/gorm"

	apperrors "dndbuilder_backend/internals/errors"
	bgModel "dndbuilder_backend/internals/features/backgrounds/model"
	charModel "dndbuilder_backend/internals/features/characters/model"
	classModel "dndbuilder_backend/internals/features/classes/model"
	raceModel "dndbuilder_backend/internals/features/races/model"
	refModel "dndbuilder_backend/internals/features/reference/model"
	userModel "dndbuilder_backend/internals/features/users/user/model"
)

// Policy decides what happens to rows that point at a deleted entity.
type Policy int

const (
	// Restrict rejects the delete while any row still points at the entity.
	Restrict Policy = iota
	// Cascade deletes the pointing rows (and, recursively, what they own).
	Cascade
	// SetNull clears the column and keeps the pointing rows.
	SetNull
)

// Ref describes a foreign-key column of an entry.
type Ref struct {
	Column string
	Entity string
	Policy Policy
}

// JoinOf marks an entry as the join table behind Owner.Field (many2many).
type JoinOf struct {
	Owner any
	Field string
}

// Entry maps an entity name to its table and model.
type Entry struct {
	Name  string
	Table string
	Model any
	Join  *JoinOf
	Refs  []Ref
}

// Registry is the explicit entity → table mapping built at startup.
type Registry struct {
	entries []Entry
	byName  map[string]Entry
}

// NewRegistry lists every table in migration order: parents before children,
// join tables last.
func NewRegistry() *Registry {
	entries := []Entry{
		{Name: "user", Table: userModel.UserModel{}.TableName(), Model: &userModel.UserModel{}},
		{Name: "ability_score", Table: refModel.AbilityScore{}.TableName(), Model: &refModel.AbilityScore{}},
		{Name: "proficiency", Table: refModel.Proficiency{}.TableName(), Model: &refModel.Proficiency{}},
		{Name: "race", Table: raceModel.Race{}.TableName(), Model: &raceModel.Race{}},
		{
			Name: "subrace", Table: raceModel.Subrace{}.TableName(), Model: &raceModel.Subrace{},
			Refs: []Ref{{Column: "race_id", Entity: "race", Policy: Cascade}},
		},
		{Name: "class", Table: classModel.Class{}.TableName(), Model: &classModel.Class{}},
		{
			Name: "subclass", Table: classModel.Subclass{}.TableName(), Model: &classModel.Subclass{},
			Refs: []Ref{{Column: "class_id", Entity: "class", Policy: Cascade}},
		},
		{
			Name: "class_feature", Table: classModel.ClassFeature{}.TableName(), Model: &classModel.ClassFeature{},
			Refs: []Ref{
				{Column: "class_id", Entity: "class", Policy: Cascade},
				{Column: "subclass_id", Entity: "subclass", Policy: Cascade},
			},
		},
		{Name: "background", Table: bgModel.Background{}.TableName(), Model: &bgModel.Background{}},
		{
			Name: "background_feature", Table: bgModel.BackgroundFeature{}.TableName(), Model: &bgModel.BackgroundFeature{},
			Refs: []Ref{{Column: "background_id", Entity: "background", Policy: Cascade}},
		},
		{
			Name: "character", Table: charModel.Character{}.TableName(), Model: &charModel.Character{},
			Refs: []Ref{
				{Column: "user_id", Entity: "user", Policy: SetNull},
				{Column: "race_id", Entity: "race", Policy: Restrict},
				{Column: "subrace_id", Entity: "subrace", Policy: Restrict},
				{Column: "class_id", Entity: "class", Policy: Restrict},
				{Column: "subclass_id", Entity: "subclass", Policy: Restrict},
				{Column: "background_id", Entity: "background", Policy: Restrict},
			},
		},
		{
			Name: "character_ability_score", Table: charModel.CharacterAbilityScore{}.TableName(), Model: &charModel.CharacterAbilityScore{},
			Refs: []Ref{
				{Column: "character_id", Entity: "character", Policy: Cascade},
				{Column: "ability_score_id", Entity: "ability_score", Policy: Restrict},
			},
		},
		{
			Name: "character_skill", Table: charModel.CharacterSkill{}.TableName(), Model: &charModel.CharacterSkill{},
			Refs: []Ref{
				{Column: "character_id", Entity: "character", Policy: Cascade},
				{Column: "proficiency_id", Entity: "proficiency", Policy: Cascade},
			},
		},
		joinEntry("race_proficiency", raceModel.RaceProficiency{}.TableName(), &raceModel.RaceProficiency{},
			&raceModel.Race{}, "race", "race_id"),
		joinEntry("class_proficiency", classModel.ClassProficiency{}.TableName(), &classModel.ClassProficiency{},
			&classModel.Class{}, "class", "class_id"),
		joinEntry("background_proficiency", bgModel.BackgroundProficiency{}.TableName(), &bgModel.BackgroundProficiency{},
			&bgModel.Background{}, "background", "background_id"),
		joinEntry("character_proficiency", charModel.CharacterProficiency{}.TableName(), &charModel.CharacterProficiency{},
			&charModel.Character{}, "character", "character_id"),
	}

	byName := make(map[string]Entry, len(entries))
	for _, e := range entries {
		byName[e.Name] = e
	}
	return &Registry{entries: entries, byName: byName}
}

// joinEntry builds the entry of an <owner>_proficiency table. Deleting
// either side removes only the join rows.
func joinEntry(name, table string, model, owner any, ownerEntity, ownerColumn string) Entry {
	return Entry{
		Name:  name,
		Table: table,
		Model: model,
		Join:  &JoinOf{Owner: owner, Field: "Proficiencies"},
		Refs: []Ref{
			{Column: ownerColumn, Entity: ownerEntity, Policy: Cascade},
			{Column: "proficiency_id", Entity: "proficiency", Policy: Cascade},
		},
	}
}

func (r *Registry) Entries() []Entry {
	return append([]Entry(nil), r.entries...)
}

func (r *Registry) Lookup(name string) (Entry, bool) {
	e, ok := r.byName[name]
	return e, ok
}

// Table returns the storage name of an entity.
func (r *Registry) Table(name string) (string, bool) {
	e, ok := r.byName[name]
	return e.Table, ok
}

// Models returns every model in migration order.
func (r *Registry) Models() []any {
	out := make([]any, 0, len(r.entries))
	for _, e := range r.entries {
		out = append(out, e.Model)
	}
	return out
}

// JoinTables returns the association tables.
func (r *Registry) JoinTables() []string {
	var out []string
	for _, e := range r.entries {
		if e.Join != nil {
			out = append(out, e.Table)
		}
	}
	return out
}

type referrer struct {
	entry Entry
	ref   Ref
}

func (r *Registry) referrers(entity string) []referrer {
	var out []referrer
	for _, e := range r.entries {
		for _, ref := range e.Refs {
			if ref.Entity == entity {
				out = append(out, referrer{entry: e, ref: ref})
			}
		}
	}
	return out
}

// Release applies the delete policies of every table pointing at the given
// rows of entity. Restricted references fail with a conflict before anything
// is removed; cascading references are removed depth-first and nullable
// ones are cleared. The caller deletes the rows themselves afterwards,
// inside the same transaction.
func (r *Registry) Release(tx *gorm.DB, entity string, ids ...uint) error {
	if len(ids) == 0 {
		return nil
	}
	if err := r.CheckRestrict(tx, entity, ids...); err != nil {
		return err
	}

	for _, rf := range r.referrers(entity) {
		switch rf.ref.Policy {
		case SetNull:
			if err := tx.Table(rf.entry.Table).Where(rf.ref.Column+" IN ?", ids).
				Update(rf.ref.Column, gorm.Expr("NULL")).Error; err != nil {
				return err
			}
			continue
		case Restrict:
			continue
		}
		if rf.entry.Join == nil {
			var childIDs []uint
			if err := tx.Table(rf.entry.Table).Where(rf.ref.Column+" IN ?", ids).Pluck("id", &childIDs).Error; err != nil {
				return err
			}
			if err := r.Release(tx, rf.entry.Name, childIDs...); err != nil {
				return err
			}
		}
		if err := tx.Exec(fmt.Sprintf("DELETE FROM %s WHERE %s IN ?", rf.entry.Table, rf.ref.Column), ids).Error; err != nil {
			return err
		}
	}
	return nil
}

// CheckRestrict fails with a conflict when any restricting reference still
// points at the given rows of entity.
func (r *Registry) CheckRestrict(tx *gorm.DB, entity string, ids ...uint) error {
	if len(ids) == 0 {
		return nil
	}
	for _, rf := range r.referrers(entity) {
		if rf.ref.Policy != Restrict {
			continue
		}
		var n int64
		if err := tx.Table(rf.entry.Table).Where(rf.ref.Column+" IN ?", ids).Count(&n).Error; err != nil {
			return err
		}
		if n > 0 {
			return apperrors.Conflictf("%s is still referenced by %d %s row(s)", entity, n, rf.entry.Table)
		}
	}
	return nil
}

// SetupJoinTables registers the explicit join models so gorm reads and
// writes the many2many associations through them.
func SetupJoinTables(db *gorm.DB, r *Registry) error {
	for _, e := range r.entries {
		if e.Join == nil {
			continue
		}
		if err := db.SetupJoinTable(e.Join.Owner, e.Join.Field, e.Model); err != nil {
			return fmt.Errorf("setup join table %s: %w", e.Table, err)
		}
	}
	return nil
}

// Migrate creates or alters every registered table and seeds the six
// ability scores.
func Migrate(db *gorm.DB, r *Registry) error {
	if err := db.AutoMigrate(r.Models()...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	for _, a := range refModel.DefaultAbilityScores() {
		row := a
		if err := db.Where(refModel.AbilityScore{Name: a.Name}).
			Attrs(refModel.AbilityScore{Abbreviation: a.Abbreviation, Description: a.Description}).
			FirstOrCreate(&row).Error; err != nil {
			return fmt.Errorf("seed ability score %s: %w", a.Name, err)
		}
	}
	log.Printf("[INFO] migrated %d tables", len(r.entries))
	return nil
}
