package enums

// RankTier is the competitive ladder derived from a ranking score.
type RankTier string

const (
	RankTierIron     RankTier = "iron"
	RankTierBronze   RankTier = "bronze"
	RankTierSilver   RankTier = "silver"
	RankTierGold     RankTier = "gold"
	RankTierPlatinum RankTier = "platinum"
	RankTierDiamond  RankTier = "diamond"
)

var orderedRankTiers = []RankTier{
	RankTierIron,
	RankTierBronze,
	RankTierSilver,
	RankTierGold,
	RankTierPlatinum,
	RankTierDiamond,
}

// String implements fmt.Stringer.
func (r RankTier) String() string {
	return string(r)
}

// IsValid reports whether the value matches a known RankTier.
func (r RankTier) IsValid() bool {
	return r.Ordinal() > 0
}

// Ordinal returns the 1-based position of the tier, or 0 when unknown.
func (r RankTier) Ordinal() int {
	for i, candidate := range orderedRankTiers {
		if candidate == r {
			return i + 1
		}
	}
	return 0
}

// LevelTier is the experience ladder derived from a ranking score.
type LevelTier string

const (
	LevelTierBeginner     LevelTier = "beginner"
	LevelTierIntermediate LevelTier = "intermediate"
	LevelTierAdvanced     LevelTier = "advanced"
	LevelTierExpert       LevelTier = "expert"
	LevelTierMaster       LevelTier = "master"
)

var orderedLevelTiers = []LevelTier{
	LevelTierBeginner,
	LevelTierIntermediate,
	LevelTierAdvanced,
	LevelTierExpert,
	LevelTierMaster,
}

// String implements fmt.Stringer.
func (l LevelTier) String() string {
	return string(l)
}

// IsValid reports whether the value matches a known LevelTier.
func (l LevelTier) IsValid() bool {
	return l.Ordinal() > 0
}

// Ordinal returns the 1-based position of the tier, or 0 when unknown.
func (l LevelTier) Ordinal() int {
	for i, candidate := range orderedLevelTiers {
		if candidate == l {
			return i + 1
		}
	}
	return 0
}

// RankingType distinguishes casual standings from tournament standings.
type RankingType string

const (
	RankingTypeStandard   RankingType = "standard"
	RankingTypeTournament RankingType = "tournament"
)

// IsValid reports whether the value matches a known RankingType.
func (r RankingType) IsValid() bool {
	return r == RankingTypeStandard || r == RankingTypeTournament
}

var rankThresholds = []struct {
	min  int64
	tier RankTier
}{
	{2000, RankTierDiamond},
	{1500, RankTierPlatinum},
	{1200, RankTierGold},
	{900, RankTierSilver},
	{600, RankTierBronze},
	{0, RankTierIron},
}

var levelThresholds = []struct {
	min  int64
	tier LevelTier
}{
	{1800, LevelTierMaster},
	{1400, LevelTierExpert},
	{1000, LevelTierAdvanced},
	{500, LevelTierIntermediate},
	{0, LevelTierBeginner},
}

// RankTierForScore maps a score onto the rank ladder. Negative scores clamp to Iron.
func RankTierForScore(score int64) RankTier {
	for _, step := range rankThresholds {
		if score >= step.min {
			return step.tier
		}
	}
	return RankTierIron
}

// LevelTierForScore maps a score onto the level ladder. Negative scores clamp to Beginner.
func LevelTierForScore(score int64) LevelTier {
	for _, step := range levelThresholds {
		if score >= step.min {
			return step.tier
		}
	}
	return LevelTierBeginner
}
