package enums

import "testing"

func TestParseMatchStatus(t *testing.T) {
	got, err := ParseMatchStatus("in_progress")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != MatchStatusInProgress {
		t.Fatalf("expected in_progress, got %s", got)
	}
	if _, err := ParseMatchStatus("IN_PROGRESS"); err == nil {
		t.Fatalf("expected error for unknown casing")
	}
}

func TestMatchStatusTerminal(t *testing.T) {
	for status, terminal := range map[MatchStatus]bool{
		MatchStatusUpcoming:   false,
		MatchStatusInProgress: false,
		MatchStatusCompleted:  true,
		MatchStatusCanceled:   true,
	} {
		if status.IsTerminal() != terminal {
			t.Fatalf("status %s terminal=%v", status, status.IsTerminal())
		}
	}
}

func TestMembershipParticipants(t *testing.T) {
	for _, status := range validMatchMembershipStatuses {
		want := status == MatchMembershipMember || status == MatchMembershipAdmin
		if status.IsParticipant() != want {
			t.Fatalf("status %s participant=%v", status, status.IsParticipant())
		}
	}
}

func TestTierOrdinals(t *testing.T) {
	if RankTierIron.Ordinal() != 1 || RankTierDiamond.Ordinal() != 6 {
		t.Fatalf("unexpected rank ordinals")
	}
	if LevelTierBeginner.Ordinal() != 1 || LevelTierMaster.Ordinal() != 5 {
		t.Fatalf("unexpected level ordinals")
	}
	if RankTier("mythic").IsValid() {
		t.Fatalf("unknown tier must be invalid")
	}
}

func TestVisibilityListed(t *testing.T) {
	if !MatchVisibilityPublic.IsListed() {
		t.Fatalf("public matches must be listed")
	}
	if MatchVisibilityPrivate.IsListed() {
		t.Fatalf("private matches must not be listed")
	}
	if _, err := ParseMatchVisibility("secret"); err == nil {
		t.Fatalf("expected error for unknown visibility")
	}
}

func TestRankTierForScoreBoundaries(t *testing.T) {
	cases := []struct {
		score int64
		want  RankTier
	}{
		{-5, RankTierIron},
		{0, RankTierIron},
		{599, RankTierIron},
		{600, RankTierBronze},
		{899, RankTierBronze},
		{900, RankTierSilver},
		{1199, RankTierSilver},
		{1200, RankTierGold},
		{1499, RankTierGold},
		{1500, RankTierPlatinum},
		{1999, RankTierPlatinum},
		{2000, RankTierDiamond},
		{1 << 40, RankTierDiamond},
	}
	for _, tc := range cases {
		if got := RankTierForScore(tc.score); got != tc.want {
			t.Fatalf("score %d expected %s got %s", tc.score, tc.want, got)
		}
	}
}

func TestLevelTierForScoreBoundaries(t *testing.T) {
	cases := []struct {
		score int64
		want  LevelTier
	}{
		{0, LevelTierBeginner},
		{499, LevelTierBeginner},
		{500, LevelTierIntermediate},
		{999, LevelTierIntermediate},
		{1000, LevelTierAdvanced},
		{1399, LevelTierAdvanced},
		{1400, LevelTierExpert},
		{1799, LevelTierExpert},
		{1800, LevelTierMaster},
		{5000, LevelTierMaster},
	}
	for _, tc := range cases {
		if got := LevelTierForScore(tc.score); got != tc.want {
			t.Fatalf("score %d expected %s got %s", tc.score, tc.want, got)
		}
	}
}

func TestTiersAreMonotonicInScore(t *testing.T) {
	prevRank, prevLevel := 0, 0
	for score := int64(0); score <= 2500; score += 25 {
		rank := RankTierForScore(score).Ordinal()
		level := LevelTierForScore(score).Ordinal()
		if rank < prevRank || level < prevLevel {
			t.Fatalf("tiers regressed at score %d", score)
		}
		prevRank, prevLevel = rank, level
	}
}
