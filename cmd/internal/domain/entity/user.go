package entity

type User struct {
	ID        int    `gorm:"primaryKey"`
	SubUUID   string `gorm:"not null;uniqueIndex"` // Identity provider subject
	Name      string `gorm:"not null"`
	Email     string `gorm:"not null"`
	CPF       *string
	CreatedAt int64 `gorm:"not null;autoCreateTime:milli"`
	UpdatedAt int64 `gorm:"not null;autoUpdateTime:milli"`
}
