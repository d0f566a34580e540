package repository

import (
	"errors"
	"workagenda/cmd/internal/domain/entity"

	"gorm.io/gorm"
)

type DefaultWorkplaceRepository struct {
	db *gorm.DB
}

func NewWorkplaceRepository(db *gorm.DB) *DefaultWorkplaceRepository {
	return &DefaultWorkplaceRepository{db: db}
}

func (w *DefaultWorkplaceRepository) FindByID(id int) (*entity.Workplace, error) {
	var wp entity.Workplace
	err := w.db.First(&wp, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &wp, nil
}

func (w *DefaultWorkplaceRepository) FindByUserID(userID int) ([]*entity.Workplace, error) {
	var wps []*entity.Workplace
	err := w.db.Where("user_id = ?", userID).
		Order("name asc, id asc").
		Find(&wps).Error
	return wps, err
}

// FindByOwnerRelatedTo lists the secondaries of relatedID owned by ownerID.
func (w *DefaultWorkplaceRepository) FindByOwnerRelatedTo(ownerID, relatedID int) ([]*entity.Workplace, error) {
	var wps []*entity.Workplace
	err := w.db.Where("user_id = ?", ownerID).
		Where("related_to = ?", relatedID).
		Order("id asc").
		Find(&wps).Error
	return wps, err
}

func (w *DefaultWorkplaceRepository) Save(wp *entity.Workplace) error {
	return w.db.Save(wp).Error
}

// Delete removes the workplace and detaches its secondaries, if any.
func (w *DefaultWorkplaceRepository) Delete(wp *entity.Workplace) error {
	return w.db.Transaction(func(tx *gorm.DB) error {
		err := tx.Model(&entity.Workplace{}).
			Where("related_to = ?", wp.ID).
			Update("related_to", nil).Error
		if err != nil {
			return err
		}

		err = tx.Where("workplace_id = ?", wp.ID).Delete(&entity.AgendaRate{}).Error
		if err != nil {
			return err
		}
		return tx.Delete(wp).Error
	})
}
