package repository

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/nulladdict/fiit-projects-OwnChGK/internal/errs"
	"github.com/nulladdict/fiit-projects-OwnChGK/internal/model"
	"gorm.io/gorm"
)

// BigGameRepository persists configured games, their formats, rounds and
// rosters.
type BigGameRepository struct {
	db *gorm.DB
}

// NewBigGameRepository creates the repository.
func NewBigGameRepository(db *gorm.DB) *BigGameRepository {
	return &BigGameRepository{db: db}
}

// FindAll returns all configured games with their rosters.
func (r *BigGameRepository) FindAll() ([]model.BigGame, error) {
	var games []model.BigGame
	if err := r.db.Preload("Teams").Preload("Games").Find(&games).Error; err != nil {
		return nil, fmt.Errorf("find games: %w", err)
	}
	return games, nil
}

// FindParticipatedBy returns games whose roster contains a team captained by
// the user.
func (r *BigGameRepository) FindParticipatedBy(userID string) ([]model.BigGame, error) {
	var games []model.BigGame
	err := r.db.
		Joins("JOIN big_game_teams bgt ON bgt.big_game_id = big_games.id").
		Joins("JOIN teams ON teams.id = bgt.team_id").
		Where("teams.captain_id = ?", userID).
		Preload("Teams").Preload("Games").
		Find(&games).Error
	if err != nil {
		return nil, fmt.Errorf("find participated games: %w", err)
	}
	return games, nil
}

// FindWithRelations loads one game with formats, rounds, questions and teams.
func (r *BigGameRepository) FindWithRelations(id string) (*model.BigGame, error) {
	var ent model.BigGame
	err := r.db.
		Preload("Games.Rounds.Questions").
		Preload("Games.Rounds").
		Preload("Games").
		Preload("Teams").
		Where("id = ?", id).
		First(&ent).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.ErrGameNotFound
		}
		return nil, fmt.Errorf("find game %s: %w", id, err)
	}
	return &ent, nil
}

// FindByName looks a game up by its unique name.
func (r *BigGameRepository) FindByName(name string) (*model.BigGame, error) {
	var ent model.BigGame
	err := r.db.Preload("Teams").Preload("Games").Where("name = ?", name).First(&ent).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.ErrGameNotFound
		}
		return nil, fmt.Errorf("find game %q: %w", name, err)
	}
	return &ent, nil
}

// Insert creates a game with its formats and rounds in one transaction.
// Team names must reference existing teams.
func (r *BigGameRepository) Insert(name, adminEmail string, teamNames []string, chgk, matrix *model.GameSettings) (*model.BigGame, error) {
	if _, err := r.FindByName(name); err == nil {
		return nil, errs.ErrNameTaken
	} else if !errors.Is(err, errs.ErrGameNotFound) {
		return nil, err
	}

	var created model.BigGame
	err := r.db.Transaction(func(tx *gorm.DB) error {
		ent := model.BigGame{ID: uuid.NewString(), Name: name, Status: model.GameStatusCreated}
		if adminEmail != "" {
			var admin model.User
			if err := tx.Where("email = ?", adminEmail).First(&admin).Error; err == nil {
				ent.AdminID = &admin.ID
			}
		}
		var teams []model.Team
		if len(teamNames) > 0 {
			if err := tx.Where("name IN ?", teamNames).Find(&teams).Error; err != nil {
				return err
			}
		}
		ent.Teams = teams
		if err := tx.Create(&ent).Error; err != nil {
			return err
		}
		if err := createFormat(tx, ent.ID, model.GameTypeChGK, chgk); err != nil {
			return err
		}
		if err := createFormat(tx, ent.ID, model.GameTypeMatrix, matrix); err != nil {
			return err
		}
		created = ent
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("insert game %q: %w", name, err)
	}
	return &created, nil
}

// Update replaces a game's name, roster and round layout.
func (r *BigGameRepository) Update(id, newName string, teamNames []string, chgk, matrix *model.GameSettings) error {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var ent model.BigGame
		if err := tx.Preload("Games").Where("id = ?", id).First(&ent).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return errs.ErrGameNotFound
			}
			return err
		}
		ent.Name = newName
		if err := tx.Save(&ent).Error; err != nil {
			return err
		}

		var teams []model.Team
		if len(teamNames) > 0 {
			if err := tx.Where("name IN ?", teamNames).Find(&teams).Error; err != nil {
				return err
			}
		}
		if err := tx.Model(&ent).Association("Teams").Replace(teams); err != nil {
			return err
		}

		// Round layout is rebuilt from scratch, as pre-start editing replaces
		// the whole configuration.
		for _, g := range ent.Games {
			if err := tx.Where("game_id = ?", g.ID).Delete(&model.Round{}).Error; err != nil {
				return err
			}
			if err := tx.Delete(&model.Game{}, "id = ?", g.ID).Error; err != nil {
				return err
			}
		}
		if err := createFormat(tx, ent.ID, model.GameTypeChGK, chgk); err != nil {
			return err
		}
		return createFormat(tx, ent.ID, model.GameTypeMatrix, matrix)
	})
	if err != nil && !errors.Is(err, errs.ErrGameNotFound) {
		return fmt.Errorf("update game %s: %w", id, err)
	}
	return err
}

// UpdateName renames a game.
func (r *BigGameRepository) UpdateName(id, newName string) error {
	res := r.db.Model(&model.BigGame{}).Where("id = ?", id).Update("name", newName)
	if res.Error != nil {
		return fmt.Errorf("rename game %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return errs.ErrGameNotFound
	}
	return nil
}

// UpdateStatus moves a game through created/started/finished.
func (r *BigGameRepository) UpdateStatus(id, status string) error {
	res := r.db.Model(&model.BigGame{}).Where("id = ?", id).Update("status", status)
	if res.Error != nil {
		return fmt.Errorf("update game %s status: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return errs.ErrGameNotFound
	}
	return nil
}

// Delete removes a game and its formats.
func (r *BigGameRepository) Delete(id string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var ent model.BigGame
		if err := tx.Preload("Games.Rounds").Where("id = ?", id).First(&ent).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return errs.ErrGameNotFound
			}
			return err
		}
		for _, g := range ent.Games {
			for _, rnd := range g.Rounds {
				if err := tx.Where("round_id = ?", rnd.ID).Delete(&model.Question{}).Error; err != nil {
					return err
				}
			}
			if err := tx.Where("game_id = ?", g.ID).Delete(&model.Round{}).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("big_game_id = ?", id).Delete(&model.Game{}).Error; err != nil {
			return err
		}
		if err := tx.Model(&ent).Association("Teams").Clear(); err != nil {
			return err
		}
		return tx.Delete(&ent).Error
	})
}

func createFormat(tx *gorm.DB, bigGameID, gameType string, settings *model.GameSettings) error {
	if settings == nil {
		return nil
	}
	g := model.Game{ID: uuid.NewString(), BigGameID: bigGameID, Type: gameType}
	if err := tx.Create(&g).Error; err != nil {
		return err
	}
	for i := 1; i <= settings.RoundCount; i++ {
		rnd := model.Round{
			ID:            uuid.NewString(),
			GameID:        g.ID,
			Number:        i,
			QuestionCount: settings.QuestionCount,
			QuestionTime:  settings.QuestionTime,
			QuestionCost:  settings.QuestionCost,
		}
		if err := tx.Create(&rnd).Error; err != nil {
			return err
		}
		for q := 1; q <= settings.QuestionCount; q++ {
			question := model.Question{ID: uuid.NewString(), RoundID: rnd.ID, Number: q, Cost: settings.QuestionCost, Time: settings.QuestionTime}
			if err := tx.Create(&question).Error; err != nil {
				return err
			}
		}
	}
	return nil
}
