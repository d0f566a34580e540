package repository

import (
	"errors"
	"workagenda/cmd/internal/domain/entity"

	"gorm.io/gorm"
)

type DefaultAppointmentRepository struct {
	db *gorm.DB
}

func NewAppointmentRepository(db *gorm.DB) *DefaultAppointmentRepository {
	return &DefaultAppointmentRepository{db: db}
}

func (a *DefaultAppointmentRepository) FindByID(id int) (*entity.Appointment, error) {
	var appt entity.Appointment
	err := a.db.First(&appt, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &appt, nil
}

func (a *DefaultAppointmentRepository) FindByAgendaID(agendaID int) ([]*entity.Appointment, error) {
	var appts []*entity.Appointment
	err := a.db.Where("agenda_id = ?", agendaID).
		Order("weekday asc, start_time asc, id asc").
		Find(&appts).Error
	return appts, err
}

// FindByAgendaAndWeekday lists one day of an agenda ordered by start time.
// When excludeID is set, that appointment is left out of the result.
func (a *DefaultAppointmentRepository) FindByAgendaAndWeekday(agendaID, weekday int, excludeID *int) ([]*entity.Appointment, error) {
	query := a.db.Where("agenda_id = ?", agendaID).
		Where("weekday = ?", weekday)

	if excludeID != nil {
		query = query.Where("id <> ?", *excludeID)
	}

	var appts []*entity.Appointment
	err := query.Order("start_time asc, id asc").Find(&appts).Error
	return appts, err
}

func (a *DefaultAppointmentRepository) CountByWorkplaceID(workplaceID int) (int64, error) {
	var count int64
	err := a.db.Model(&entity.Appointment{}).
		Where("workplace_id = ?", workplaceID).
		Count(&count).Error
	return count, err
}

func (a *DefaultAppointmentRepository) Save(appointment *entity.Appointment) error {
	return a.db.Save(appointment).Error
}

func (a *DefaultAppointmentRepository) Delete(appointment *entity.Appointment) error {
	return a.db.Delete(appointment).Error
}
