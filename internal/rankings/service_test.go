package rankings

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/argvision/argvision-backend/pkg/db/dbtest"
	"github.com/argvision/argvision-backend/pkg/db/models"
	"github.com/argvision/argvision-backend/pkg/enums"
	pkgerrors "github.com/argvision/argvision-backend/pkg/errors"
)

func newTestService(t *testing.T) (Service, *gorm.DB) {
	t.Helper()
	client := dbtest.Open(t)
	svc, err := NewService(NewRepository(client.DB()))
	require.NoError(t, err)
	return svc, client.DB()
}

func TestTierBoundaries(t *testing.T) {
	rankCases := map[int64]enums.RankTier{
		0:    enums.RankTierIron,
		599:  enums.RankTierIron,
		600:  enums.RankTierBronze,
		899:  enums.RankTierBronze,
		900:  enums.RankTierSilver,
		1200: enums.RankTierGold,
		1500: enums.RankTierPlatinum,
		1999: enums.RankTierPlatinum,
		2000: enums.RankTierDiamond,
	}
	for score, want := range rankCases {
		assert.Equal(t, want, RankTierFor(score), "rank tier for %d", score)
	}

	levelCases := map[int64]enums.LevelTier{
		0:    enums.LevelTierBeginner,
		499:  enums.LevelTierBeginner,
		500:  enums.LevelTierIntermediate,
		1000: enums.LevelTierAdvanced,
		1400: enums.LevelTierExpert,
		1800: enums.LevelTierMaster,
		9000: enums.LevelTierMaster,
	}
	for score, want := range levelCases {
		assert.Equal(t, want, LevelTierFor(score), "level tier for %d", score)
	}
}

func TestGetOrCreateIsIdempotent(t *testing.T) {
	svc, conn := newTestService(t)
	user := models.User{Username: "ana", Email: "ana@example.com", Role: enums.UserRolePlayer}
	require.NoError(t, conn.Create(&user).Error)
	game := models.Game{Name: "padel", GameType: enums.GameTypeSport}
	require.NoError(t, conn.Create(&game).Error)

	first, err := svc.GetOrCreate(context.Background(), nil, user.ID, game.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(0), first.Score)
	assert.Equal(t, enums.RankTierIron, first.RankTier)
	assert.Equal(t, enums.LevelTierBeginner, first.LevelTier)

	second, err := svc.GetOrCreate(context.Background(), nil, user.ID, game.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	var count int64
	require.NoError(t, conn.Model(&models.Ranking{}).Where("user_id = ?", user.ID).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestSettleAccumulatesAndRecomputesTiers(t *testing.T) {
	svc, conn := newTestService(t)
	user := models.User{Username: "bo", Email: "bo@example.com", Role: enums.UserRolePlayer}
	require.NoError(t, conn.Create(&user).Error)
	game := models.Game{Name: "chess", GameType: enums.GameTypeBoard}
	require.NoError(t, conn.Create(&game).Error)

	ranking, err := svc.Settle(context.Background(), nil, user.ID, game.ID, 550)
	require.NoError(t, err)
	assert.Equal(t, int64(550), ranking.Score)
	assert.Equal(t, enums.RankTierIron, ranking.RankTier)
	assert.Equal(t, enums.LevelTierIntermediate, ranking.LevelTier)

	err = conn.Transaction(func(tx *gorm.DB) error {
		_, err := svc.Settle(context.Background(), tx, user.ID, game.ID, 100)
		return err
	})
	require.NoError(t, err)

	var stored models.Ranking
	require.NoError(t, conn.First(&stored, "id = ?", ranking.ID).Error)
	assert.Equal(t, int64(650), stored.Score)
	assert.Equal(t, enums.RankTierBronze, stored.RankTier)
	assert.Equal(t, enums.LevelTierIntermediate, stored.LevelTier)
}

// racingRepository commits a competing award right after the service reads
// the ranking, as a concurrent settlement on another match would.
type racingRepository struct {
	Repository
	conn    *gorm.DB
	rival   int64
	applied bool
}

func (r *racingRepository) WithTx(tx *gorm.DB) Repository {
	return &racingRepository{Repository: r.Repository.WithTx(tx), conn: r.conn, rival: r.rival, applied: r.applied}
}

func (r *racingRepository) Find(ctx context.Context, userID, gameID uuid.UUID, teamID *uuid.UUID) (*models.Ranking, error) {
	ranking, err := r.Repository.Find(ctx, userID, gameID, teamID)
	if err != nil || r.applied {
		return ranking, err
	}
	r.applied = true
	if err := r.conn.Exec("UPDATE rankings SET score = score + ? WHERE id = ?", r.rival, ranking.ID).Error; err != nil {
		return nil, err
	}
	return ranking, nil
}

func TestSettleKeepsConcurrentAwards(t *testing.T) {
	client := dbtest.Open(t)
	conn := client.DB()
	user := models.User{Username: "di", Email: "di@example.com", Role: enums.UserRolePlayer}
	require.NoError(t, conn.Create(&user).Error)
	game := models.Game{Name: "hockey", GameType: enums.GameTypeSport}
	require.NoError(t, conn.Create(&game).Error)
	seed := models.Ranking{UserID: user.ID, GameID: game.ID, Type: enums.RankingTypeStandard, Score: 500}
	require.NoError(t, conn.Create(&seed).Error)

	svc, err := NewService(&racingRepository{Repository: NewRepository(conn), conn: conn, rival: 300})
	require.NoError(t, err)

	ranking, err := svc.Settle(context.Background(), nil, user.ID, game.ID, 200)
	require.NoError(t, err)
	assert.Equal(t, int64(1000), ranking.Score)
	assert.Equal(t, enums.RankTierSilver, ranking.RankTier)
	assert.Equal(t, enums.LevelTierAdvanced, ranking.LevelTier)

	var stored models.Ranking
	require.NoError(t, conn.First(&stored, "id = ?", seed.ID).Error)
	assert.Equal(t, int64(1000), stored.Score)
	assert.Equal(t, enums.RankTierSilver, stored.RankTier)
	assert.Equal(t, enums.LevelTierAdvanced, stored.LevelTier)
}

func TestSettleRejectsNegativePoints(t *testing.T) {
	svc, _ := newTestService(t)
	_, err := svc.Settle(context.Background(), nil, uuid.New(), uuid.New(), -1)
	require.Error(t, err)
	assert.True(t, pkgerrors.Is(err, pkgerrors.CodeBadRequest))
}

func TestSettleRollsBackWithTransaction(t *testing.T) {
	svc, conn := newTestService(t)
	user := models.User{Username: "cy", Email: "cy@example.com", Role: enums.UserRolePlayer}
	require.NoError(t, conn.Create(&user).Error)
	game := models.Game{Name: "go", GameType: enums.GameTypeBoard}
	require.NoError(t, conn.Create(&game).Error)

	err := conn.Transaction(func(tx *gorm.DB) error {
		if _, err := svc.Settle(context.Background(), tx, user.ID, game.ID, 700); err != nil {
			return err
		}
		return assert.AnError
	})
	require.ErrorIs(t, err, assert.AnError)

	var count int64
	require.NoError(t, conn.Model(&models.Ranking{}).Where("user_id = ?", user.ID).Count(&count).Error)
	assert.Zero(t, count)
}

func TestLeaderboardOrdersByScore(t *testing.T) {
	svc, conn := newTestService(t)
	game := models.Game{Name: "tennis", GameType: enums.GameTypeSport}
	require.NoError(t, conn.Create(&game).Error)

	scores := map[string]int64{"low": 100, "high": 1600, "mid": 950}
	for name, points := range scores {
		user := models.User{Username: name, Email: name + "@example.com", Role: enums.UserRolePlayer}
		require.NoError(t, conn.Create(&user).Error)
		_, err := svc.Settle(context.Background(), nil, user.ID, game.ID, points)
		require.NoError(t, err)
	}

	board, err := svc.Leaderboard(context.Background(), game.ID, 10)
	require.NoError(t, err)
	require.Len(t, board, 3)
	assert.Equal(t, "high", board[0].Username)
	assert.Equal(t, 1, board[0].Position)
	assert.Equal(t, enums.RankTierPlatinum, board[0].RankTier)
	assert.Equal(t, "mid", board[1].Username)
	assert.Equal(t, "low", board[2].Username)

	mine, err := svc.ListForUser(context.Background(), board[0].UserID)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, int64(1600), mine[0].Score)
}
