package repository

import (
	"errors"
	"workagenda/cmd/internal/domain/entity"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type DefaultAgendaRepository struct {
	db *gorm.DB
}

func NewAgendaRepository(db *gorm.DB) *DefaultAgendaRepository {
	return &DefaultAgendaRepository{db: db}
}

func (a *DefaultAgendaRepository) FindByID(id int) (*entity.Agenda, error) {
	var agenda entity.Agenda
	err := a.db.First(&agenda, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &agenda, nil
}

func (a *DefaultAgendaRepository) FindByShareToken(token string) (*entity.Agenda, error) {
	var agenda entity.Agenda
	err := a.db.Where("share_token = ?", token).First(&agenda).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &agenda, nil
}

func (a *DefaultAgendaRepository) FindByUserID(userID int) ([]*entity.Agenda, error) {
	var agendas []*entity.Agenda
	err := a.db.Where("user_id = ?", userID).
		Order("starts_on asc, id asc").
		Find(&agendas).Error
	return agendas, err
}

func (a *DefaultAgendaRepository) Save(agenda *entity.Agenda) error {
	return a.db.Save(agenda).Error
}

// Delete removes the agenda together with its appointments and rate overrides.
func (a *DefaultAgendaRepository) Delete(agenda *entity.Agenda) error {
	return a.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("agenda_id = ?", agenda.ID).Delete(&entity.Appointment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("agenda_id = ?", agenda.ID).Delete(&entity.AgendaRate{}).Error; err != nil {
			return err
		}
		return tx.Delete(agenda).Error
	})
}

func (a *DefaultAgendaRepository) FindRates(agendaID int) ([]*entity.AgendaRate, error) {
	var rates []*entity.AgendaRate
	err := a.db.Where("agenda_id = ?", agendaID).
		Order("workplace_id asc").
		Find(&rates).Error
	return rates, err
}

// SaveRate inserts or replaces the override for (AgendaID, WorkplaceID).
func (a *DefaultAgendaRepository) SaveRate(rate *entity.AgendaRate) error {
	return a.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "agenda_id"}, {Name: "workplace_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"hourly_rate", "updated_at"}),
	}).Create(rate).Error
}
