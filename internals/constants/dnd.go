package constants

import "strings"

// ==========================
// Ability scores
// ==========================
const (
	AbilityStrength     = "strength"
	AbilityDexterity    = "dexterity"
	AbilityConstitution = "constitution"
	AbilityIntelligence = "intelligence"
	AbilityWisdom       = "wisdom"
	AbilityCharisma     = "charisma"
)

// Abilities lists the six ability scores in sheet order.
var Abilities = []string{
	AbilityStrength,
	AbilityDexterity,
	AbilityConstitution,
	AbilityIntelligence,
	AbilityWisdom,
	AbilityCharisma,
}

// AbilityAbbreviations maps an ability to its three-letter abbreviation.
var AbilityAbbreviations = map[string]string{
	AbilityStrength:     "STR",
	AbilityDexterity:    "DEX",
	AbilityConstitution: "CON",
	AbilityIntelligence: "INT",
	AbilityWisdom:       "WIS",
	AbilityCharisma:     "CHA",
}

// NormalizeAbility accepts a full name or an abbreviation in any case and
// returns the canonical lower-case ability name.
func NormalizeAbility(s string) (string, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, a := range Abilities {
		if s == a || s == strings.ToLower(AbilityAbbreviations[a]) {
			return a, true
		}
	}
	return "", false
}

// ==========================
// Alignment
// ==========================
const (
	AlignmentLawfulGood     = "Lawful Good"
	AlignmentNeutralGood    = "Neutral Good"
	AlignmentChaoticGood    = "Chaotic Good"
	AlignmentLawfulNeutral  = "Lawful Neutral"
	AlignmentTrueNeutral    = "True Neutral"
	AlignmentChaoticNeutral = "Chaotic Neutral"
	AlignmentLawfulEvil     = "Lawful Evil"
	AlignmentNeutralEvil    = "Neutral Evil"
	AlignmentChaoticEvil    = "Chaotic Evil"
)

// Alignments lists the nine canonical alignments. "Neutral Neutral" is
// spelled "True Neutral".
var Alignments = []string{
	AlignmentLawfulGood,
	AlignmentNeutralGood,
	AlignmentChaoticGood,
	AlignmentLawfulNeutral,
	AlignmentTrueNeutral,
	AlignmentChaoticNeutral,
	AlignmentLawfulEvil,
	AlignmentNeutralEvil,
	AlignmentChaoticEvil,
}

// ==========================
// Dice / size
// ==========================
var HitDice = []string{"d4", "d6", "d8", "d10", "d12", "d20"}

var Sizes = []string{"Tiny", "Small", "Medium", "Large", "Huge", "Gargantuan"}

// ==========================
// Proficiency
// ==========================
type ProficiencyType string

const (
	ProficiencyTypeSkill       ProficiencyType = "skill"
	ProficiencyTypeArmor       ProficiencyType = "armor"
	ProficiencyTypeWeapon      ProficiencyType = "weapon"
	ProficiencyTypeTool        ProficiencyType = "tool"
	ProficiencyTypeSavingThrow ProficiencyType = "saving_throw"
	ProficiencyTypeLanguage    ProficiencyType = "language"
)

var ProficiencyTypes = []string{
	string(ProficiencyTypeSkill),
	string(ProficiencyTypeArmor),
	string(ProficiencyTypeWeapon),
	string(ProficiencyTypeTool),
	string(ProficiencyTypeSavingThrow),
	string(ProficiencyTypeLanguage),
}

type ProficiencyLevel string

const (
	ProficiencyLevelNotProficient ProficiencyLevel = "not_proficient"
	ProficiencyLevelProficient    ProficiencyLevel = "proficient"
	ProficiencyLevelExpertise     ProficiencyLevel = "expertise"
)

var ProficiencyLevels = []string{
	string(ProficiencyLevelNotProficient),
	string(ProficiencyLevelProficient),
	string(ProficiencyLevelExpertise),
}

// Contains reports whether v is one of allowed.
func Contains(allowed []string, v string) bool {
	for _, a := range allowed {
		if a == v {
			return true
		}
	}
	return false
}

// NormalizeSize maps "medium" or "MEDIUM" to "Medium". Unknown values are
// returned trimmed.
func NormalizeSize(s string) string {
	s = strings.TrimSpace(s)
	for _, v := range Sizes {
		if strings.EqualFold(s, v) {
			return v
		}
	}
	return s
}

// NormalizeAbilityMap lower-cases ability keys and resolves abbreviations.
// Keys that are not abilities are kept lower-cased so validation can name them.
func NormalizeAbilityMap(m map[string]int) map[string]int {
	if m == nil {
		return nil
	}
	out := make(map[string]int, len(m))
	for k, v := range m {
		if a, ok := NormalizeAbility(k); ok {
			out[a] += v
			continue
		}
		out[strings.ToLower(strings.TrimSpace(k))] += v
	}
	return out
}

// NormalizeAbilityList resolves every entry like NormalizeAbility, keeping
// unknown entries trimmed for validation to report.
func NormalizeAbilityList(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, 0, len(in))
	for _, s := range in {
		if a, ok := NormalizeAbility(s); ok {
			out = append(out, a)
			continue
		}
		out = append(out, strings.TrimSpace(s))
	}
	return out
}

// NormalizeAlignment matches an alignment case-insensitively and returns
// its canonical spelling. Unknown values are returned trimmed.
func NormalizeAlignment(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	if strings.EqualFold(s, "Neutral") || strings.EqualFold(s, "Neutral Neutral") {
		return AlignmentTrueNeutral
	}
	for _, a := range Alignments {
		if strings.EqualFold(s, a) {
			return a
		}
	}
	return s
}
