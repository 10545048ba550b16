package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/readquest-labs/readquest_api/services/repositories"
)

// newTestDB opens an isolated in-memory database. The pool is capped at one
// connection: each in-memory sqlite connection is its own database, and a
// single connection also serializes writes the way postgres row locks do.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(migratedModels()...))

	return db
}

// testSQLService satisfies SqlService without the service container.
type testSQLService struct {
	db *gorm.DB
}

func (s *testSQLService) Db() *gorm.DB {
	return s.db
}

func (s *testSQLService) HandleError(err error) error {
	return translateSQLError(err)
}

func newTestLedgerService(db *gorm.DB) *LedgerService {
	return &LedgerService{
		sqlSvc:    &testSQLService{db: db},
		stateRepo: repositories.NewGameStateRepository(db),
	}
}

func newTestStreakService(db *gorm.DB, now func() time.Time) *StreakService {
	return &StreakService{
		sqlSvc:    &testSQLService{db: db},
		stateRepo: repositories.NewGameStateRepository(db),
		now:       now,
	}
}

func newTestQuestService(db *gorm.DB) *QuestService {
	return &QuestService{
		sqlSvc:    &testSQLService{db: db},
		stateRepo: repositories.NewGameStateRepository(db),
		questRepo: repositories.NewQuestRepository(db),
	}
}

func newTestAchievementService(db *gorm.DB) *AchievementService {
	return &AchievementService{
		sqlSvc:          &testSQLService{db: db},
		stateRepo:       repositories.NewGameStateRepository(db),
		achievementRepo: repositories.NewAchievementRepository(db),
	}
}

func newTestGoalService(db *gorm.DB) *GoalService {
	return &GoalService{
		sqlSvc:   &testSQLService{db: db},
		goalRepo: repositories.NewGoalRepository(db),
	}
}

func newTestGamificationService(db *gorm.DB, now func() time.Time) *GamificationService {
	return &GamificationService{
		sqlSvc:          &testSQLService{db: db},
		ledgerSvc:       newTestLedgerService(db),
		streakSvc:       newTestStreakService(db, now),
		questSvc:        newTestQuestService(db),
		achievementSvc:  newTestAchievementService(db),
		goalSvc:         newTestGoalService(db),
		stateRepo:       repositories.NewGameStateRepository(db),
		achievementRepo: repositories.NewAchievementRepository(db),
		questRepo:       repositories.NewQuestRepository(db),
	}
}
