package models

// User is the journal owner. A single demo account with ID 1 is seeded
// at startup; InitialCapital is the mutable baseline for the equity
// curve.
type User struct {
	ID             uint    `gorm:"primaryKey" json:"id"`
	Email          string  `gorm:"uniqueIndex" json:"email"`
	Password       string  `json:"-"`
	InitialCapital float64 `json:"initial_capital"`
}

// TableName keeps the table name aligned with the persisted schema.
func (User) TableName() string {
	return "users"
}
