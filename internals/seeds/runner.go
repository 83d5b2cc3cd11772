// Package seeds loads the embedded SRD reference data. Every row is looked
// up by name first, so running the seed twice changes nothing.
package seeds

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"log"

	"github.com/bytedance/sonic"
	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"

	bgDTO "dndbuilder_backend/internals/features/backgrounds/dto"
	bgModel "dndbuilder_backend/internals/features/backgrounds/model"
	classDTO "dndbuilder_backend/internals/features/classes/dto"
	classModel "dndbuilder_backend/internals/features/classes/model"
	raceDTO "dndbuilder_backend/internals/features/races/dto"
	raceModel "dndbuilder_backend/internals/features/races/model"
	refDTO "dndbuilder_backend/internals/features/reference/dto"
	refModel "dndbuilder_backend/internals/features/reference/model"
	helper "dndbuilder_backend/internals/helpers"
)

//go:embed data/*.json
var dataFS embed.FS

// Summary counts the rows a run created.
type Summary struct {
	Proficiencies int
	Races         int
	Subraces      int
	Classes       int
	Subclasses    int
	ClassFeatures int
	Backgrounds   int
}

type raceSeed struct {
	raceDTO.CreateRaceRequest
	Proficiencies []string                       `json:"proficiencies"`
	Subraces      []raceDTO.CreateSubraceRequest `json:"subraces"`
}

type subclassSeed struct {
	classDTO.CreateSubclassRequest
	Features []classDTO.CreateClassFeatureRequest `json:"features"`
}

type classSeed struct {
	classDTO.CreateClassRequest
	Proficiencies []string                             `json:"proficiencies"`
	Features      []classDTO.CreateClassFeatureRequest `json:"features"`
	Subclasses    []subclassSeed                       `json:"subclasses"`
}

type backgroundSeed struct {
	bgDTO.CreateBackgroundRequest
	Proficiencies []string `json:"proficiencies"`
}

type seeder struct {
	tx    *gorm.DB
	v     *validator.Validate
	profs map[string]uint
	sum   Summary
}

// RunAllSeeds inserts the missing reference rows in one transaction.
func RunAllSeeds(ctx context.Context, db *gorm.DB) (Summary, error) {
	var sum Summary
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		s := &seeder{tx: tx, v: helper.NewValidator()}
		steps := []struct {
			name string
			run  func() error
		}{
			{"proficiencies", s.seedProficiencies},
			{"races", s.seedRaces},
			{"classes", s.seedClasses},
			{"backgrounds", s.seedBackgrounds},
		}
		for _, st := range steps {
			if err := st.run(); err != nil {
				return fmt.Errorf("seed %s: %w", st.name, err)
			}
		}
		sum = s.sum
		return nil
	})
	if err != nil {
		return Summary{}, err
	}
	log.Printf("[INFO] seed done: %+v", sum)
	return sum, nil
}

func readJSON(name string, dst any) error {
	raw, err := dataFS.ReadFile("data/" + name)
	if err != nil {
		return err
	}
	if err := sonic.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("decode %s: %w", name, err)
	}
	return nil
}

// exists reports whether a row of model with the given name is stored.
func (s *seeder) exists(model any, name string) (bool, error) {
	err := s.tx.Model(model).Select("id").Where("name = ?", name).Take(model).Error
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return false, nil
	default:
		return false, err
	}
}

func (s *seeder) validate(req any) error {
	if n, ok := req.(helper.Normalizer); ok {
		n.Normalize()
	}
	return helper.ValidateStruct(s.v, req)
}

// proficiencyIDs resolves proficiency names loaded by seedProficiencies.
func (s *seeder) proficiencyIDs(names []string) ([]uint, error) {
	ids := make([]uint, 0, len(names))
	for _, n := range names {
		id, ok := s.profs[n]
		if !ok {
			return nil, fmt.Errorf("unknown proficiency %q", n)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func (s *seeder) linkProficiencies(owner any, names []string) error {
	ids, err := s.proficiencyIDs(names)
	if err != nil {
		return err
	}
	if len(ids) == 0 {
		return nil
	}
	var rows []refModel.Proficiency
	if err := s.tx.Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return err
	}
	return s.tx.Model(owner).Association("Proficiencies").Append(rows)
}

func (s *seeder) seedProficiencies() error {
	var reqs []refDTO.CreateProficiencyRequest
	if err := readJSON("proficiencies.json", &reqs); err != nil {
		return err
	}
	for i := range reqs {
		req := &reqs[i]
		if err := s.validate(req); err != nil {
			return fmt.Errorf("%s: %w", req.Name, err)
		}
		found, err := s.exists(&refModel.Proficiency{}, req.Name)
		if err != nil {
			return err
		}
		if found {
			continue
		}
		m := req.ToModel()
		if err := s.tx.Create(&m).Error; err != nil {
			return err
		}
		s.sum.Proficiencies++
	}

	var all []refModel.Proficiency
	if err := s.tx.Select("id", "name").Find(&all).Error; err != nil {
		return err
	}
	s.profs = make(map[string]uint, len(all))
	for _, p := range all {
		s.profs[p.Name] = p.ID
	}
	return nil
}

func (s *seeder) seedRaces() error {
	var seeds []raceSeed
	if err := readJSON("races.json", &seeds); err != nil {
		return err
	}
	for i := range seeds {
		rs := &seeds[i]
		if err := s.validate(&rs.CreateRaceRequest); err != nil {
			return fmt.Errorf("%s: %w", rs.Name, err)
		}
		found, err := s.exists(&raceModel.Race{}, rs.Name)
		if err != nil {
			return err
		}
		if found {
			continue
		}
		race := rs.ToModel()
		if err := s.tx.Omit("Proficiencies", "Subraces").Create(&race).Error; err != nil {
			return err
		}
		if err := s.linkProficiencies(&race, rs.Proficiencies); err != nil {
			return err
		}
		s.sum.Races++

		for j := range rs.Subraces {
			sub := &rs.Subraces[j]
			sub.RaceID = race.ID
			if err := s.validate(sub); err != nil {
				return fmt.Errorf("%s: %w", sub.Name, err)
			}
			m := sub.ToModel()
			if err := s.tx.Create(&m).Error; err != nil {
				return err
			}
			s.sum.Subraces++
		}
	}
	return nil
}

func (s *seeder) createFeatures(features []classDTO.CreateClassFeatureRequest, classID uint, subclassID *uint) error {
	for i := range features {
		f := &features[i]
		f.ClassID = classID
		f.SubclassID = subclassID
		if err := s.validate(f); err != nil {
			return fmt.Errorf("%s: %w", f.Name, err)
		}
		m := f.ToModel()
		if err := s.tx.Create(&m).Error; err != nil {
			return err
		}
		s.sum.ClassFeatures++
	}
	return nil
}

func (s *seeder) seedClasses() error {
	var seeds []classSeed
	if err := readJSON("classes.json", &seeds); err != nil {
		return err
	}
	for i := range seeds {
		cs := &seeds[i]
		if err := s.validate(&cs.CreateClassRequest); err != nil {
			return fmt.Errorf("%s: %w", cs.Name, err)
		}
		found, err := s.exists(&classModel.Class{}, cs.Name)
		if err != nil {
			return err
		}
		if found {
			continue
		}
		class := cs.ToModel()
		if err := s.tx.Omit("Proficiencies", "Subclasses", "Features").Create(&class).Error; err != nil {
			return err
		}
		if err := s.linkProficiencies(&class, cs.Proficiencies); err != nil {
			return err
		}
		if err := s.createFeatures(cs.Features, class.ID, nil); err != nil {
			return err
		}
		s.sum.Classes++

		for j := range cs.Subclasses {
			sc := &cs.Subclasses[j]
			sc.ClassID = class.ID
			if err := s.validate(&sc.CreateSubclassRequest); err != nil {
				return fmt.Errorf("%s: %w", sc.Name, err)
			}
			sub := sc.ToModel()
			if err := s.tx.Omit("Features").Create(&sub).Error; err != nil {
				return err
			}
			s.sum.Subclasses++
			if err := s.createFeatures(sc.Features, class.ID, &sub.ID); err != nil {
				return err
			}
		}
	}
	return nil
}

func (s *seeder) seedBackgrounds() error {
	var seeds []backgroundSeed
	if err := readJSON("backgrounds.json", &seeds); err != nil {
		return err
	}
	for i := range seeds {
		bs := &seeds[i]
		if err := s.validate(&bs.CreateBackgroundRequest); err != nil {
			return fmt.Errorf("%s: %w", bs.Name, err)
		}
		found, err := s.exists(&bgModel.Background{}, bs.Name)
		if err != nil {
			return err
		}
		if found {
			continue
		}
		bg := bs.ToModel()
		if err := s.tx.Omit("Proficiencies", "Feature").Create(&bg).Error; err != nil {
			return err
		}
		if err := s.linkProficiencies(&bg, bs.Proficiencies); err != nil {
			return err
		}
		if bs.Feature != nil {
			feat := bgModel.BackgroundFeature{
				BackgroundID: bg.ID,
				Name:         bs.Feature.Name,
				Description:  bs.Feature.Description,
			}
			if err := s.tx.Create(&feat).Error; err != nil {
				return err
			}
		}
		s.sum.Backgrounds++
	}
	return nil
}
