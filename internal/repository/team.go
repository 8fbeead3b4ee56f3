package repository

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/nulladdict/fiit-projects-OwnChGK/internal/errs"
	"github.com/nulladdict/fiit-projects-OwnChGK/internal/model"
	"gorm.io/gorm"
)

// TeamRepository persists teams.
type TeamRepository struct {
	db *gorm.DB
}

// NewTeamRepository creates the repository.
func NewTeamRepository(db *gorm.DB) *TeamRepository {
	return &TeamRepository{db: db}
}

// FindAll returns every team with its captain.
func (r *TeamRepository) FindAll() ([]model.Team, error) {
	var teams []model.Team
	if err := r.db.Preload("Captain").Find(&teams).Error; err != nil {
		return nil, fmt.Errorf("find teams: %w", err)
	}
	return teams, nil
}

// FindByID returns one team.
func (r *TeamRepository) FindByID(id string) (*model.Team, error) {
	var team model.Team
	if err := r.db.Preload("Captain").Where("id = ?", id).First(&team).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.ErrTeamNotFound
		}
		return nil, fmt.Errorf("find team %s: %w", id, err)
	}
	return &team, nil
}

// FindByCaptain returns the team captained by the user, if any.
func (r *TeamRepository) FindByCaptain(userID string) (*model.Team, error) {
	var team model.Team
	if err := r.db.Where("captain_id = ?", userID).First(&team).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.ErrTeamNotFound
		}
		return nil, fmt.Errorf("find team of user %s: %w", userID, err)
	}
	return &team, nil
}

// Insert creates a team captained by the given user.
func (r *TeamRepository) Insert(name string, captainID *string) (*model.Team, error) {
	team := model.Team{ID: uuid.NewString(), Name: name, CaptainID: captainID}
	if err := r.db.Create(&team).Error; err != nil {
		return nil, fmt.Errorf("insert team %q: %w", name, err)
	}
	return &team, nil
}

// Delete removes a team.
func (r *TeamRepository) Delete(id string) error {
	res := r.db.Delete(&model.Team{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("delete team %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return errs.ErrTeamNotFound
	}
	return nil
}
