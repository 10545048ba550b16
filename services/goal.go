// services/goal.go
package services

import (
	"errors"
	"time"

	appContext "github.com/alphabatem/common/context"

	"github.com/readquest-labs/readquest_api/dto"
	"github.com/readquest-labs/readquest_api/services/repositories"
	"github.com/readquest-labs/readquest_api/shared"
)

// GoalService tracks reading goals. These are plain counters beside the XP
// system; they grant nothing and carry no state machine.
type GoalService struct {
	appContext.DefaultService

	sqlSvc SqlService

	goalRepo *repositories.GoalRepository
}

const GOAL_SVC = "goal_svc"

func (svc GoalService) Id() string {
	return GOAL_SVC
}

func (svc *GoalService) Configure(ctx *appContext.Context) error {
	return svc.DefaultService.Configure(ctx)
}

func (svc *GoalService) Start() error {
	svc.sqlSvc = svc.Service(SQL_SVC).(SqlService)
	svc.goalRepo = repositories.NewGoalRepository(svc.sqlSvc.Db())
	return nil
}

func (svc *GoalService) SetGoal(userID string, req dto.SetGoalRequest) (*dto.ReadingGoalResponse, error) {
	if userID == "" {
		return nil, shared.NewUnauthorizedError(errors.New("missing user id"), "Goals must be attributed to a user")
	}

	now := time.Now().UTC()
	year := req.Year
	month := req.Month

	switch req.Type {
	case shared.GoalYearlyBooks:
		if year == 0 {
			year = now.Year()
		}
		month = 0
	case shared.GoalMonthlyBooks:
		if year == 0 {
			year = now.Year()
		}
		if month == 0 {
			month = int(now.Month())
		}
	default:
		// Daily goals have no year/month window
		year, month = 0, 0
	}

	goal, err := svc.goalRepo.UpsertGoal(userID, req.Type, req.Target, year, month)
	if err != nil {
		return nil, err
	}

	return &dto.ReadingGoalResponse{
		ID:       goal.ID,
		Type:     goal.Type,
		Target:   goal.Target,
		Year:     goal.Year,
		Month:    goal.Month,
		Progress: goal.Progress,
	}, nil
}

func (svc *GoalService) GetGoals(userID string) ([]dto.ReadingGoalResponse, error) {
	goals, err := svc.goalRepo.GetGoals(userID)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.ReadingGoalResponse, len(goals))
	for i, goal := range goals {
		responses[i] = dto.ReadingGoalResponse{
			ID:       goal.ID,
			Type:     goal.Type,
			Target:   goal.Target,
			Year:     goal.Year,
			Month:    goal.Month,
			Progress: goal.Progress,
		}
	}
	return responses, nil
}

// IncrementBookGoals bumps the current yearly and monthly book counters.
// Called by the facade whenever a book is finished.
func (svc *GoalService) IncrementBookGoals(userID string) error {
	now := time.Now().UTC()

	if err := svc.goalRepo.IncrementProgress(userID, shared.GoalYearlyBooks, now.Year(), 0, 1); err != nil {
		return err
	}
	return svc.goalRepo.IncrementProgress(userID, shared.GoalMonthlyBooks, now.Year(), int(now.Month()), 1)
}
