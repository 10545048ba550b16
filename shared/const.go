package shared

const (
	UserID = "user_id"

	// Flat XP awards per event type
	XPFinishBook  = 100
	XPStartBook   = 10
	XPLogReading  = 10
	XPWriteReview = 25
	XPRateBook    = 5
	XPJoinClub    = 25
	XPCreateClub  = 50

	// Daily streak bonus: streak days * XPStreakBonusPerDay, capped
	XPStreakBonusPerDay = 5
	XPStreakBonusCap    = 50

	// XP event reason tags
	ReasonFinishedBook        = "finished_book"
	ReasonStartedBook         = "started_book"
	ReasonLoggedReading       = "logged_reading"
	ReasonWroteReview         = "wrote_review"
	ReasonRatedBook           = "rated_book"
	ReasonJoinedClub          = "joined_club"
	ReasonCreatedClub         = "created_club"
	ReasonDailyStreak         = "daily_streak"
	ReasonQuestCompleted      = "quest_completed"
	ReasonAchievementUnlocked = "achievement_unlocked"

	// Requirement metrics for quests and achievements
	MetricBooksRead       = "books_read"
	MetricBooksStarted    = "books_started"
	MetricReadingLogs     = "reading_logs"
	MetricReviewsWritten  = "reviews_written"
	MetricBooksRated      = "books_rated"
	MetricClubsJoined     = "clubs_joined"
	MetricClubsCreated    = "clubs_created"
	MetricStreakDays      = "streak_days"
	MetricLongestStreak   = "longest_streak"
	MetricQuestsCompleted = "quests_completed"
	MetricTotalXP         = "total_xp"
	MetricLevel           = "level"

	// Achievement categories
	CategoryMilestone  = "milestone"
	CategoryStreak     = "streak"
	CategoryGenre      = "genre"
	CategoryEngagement = "engagement"
	CategorySpecial    = "special"

	// Quest types
	QuestTypeDaily   = "daily"
	QuestTypeWeekly  = "weekly"
	QuestTypeMonthly = "monthly"
	QuestTypeEvent   = "event"

	// Reading goal types
	GoalYearlyBooks  = "yearly_books"
	GoalMonthlyBooks = "monthly_books"
	GoalDailyPages   = "daily_pages"
	GoalDailyMinutes = "daily_minutes"
)
