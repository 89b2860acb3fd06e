package models

// User is a single student record. Every text column is required and roll/email
// are unique across the table.
type User struct {
	ID      int64  `gorm:"primaryKey;autoIncrement" form:"-"`
	Name    string `gorm:"type:varchar(255);not null;check:name <> ''" form:"name" binding:"required" validate:"required"`
	Roll    string `gorm:"type:varchar(255);not null;unique;check:roll <> ''" form:"roll" binding:"required" validate:"required"`
	Branch  string `gorm:"type:varchar(255);not null;check:branch <> ''" form:"branch" binding:"required" validate:"required"`
	College string `gorm:"type:varchar(255);not null;check:college <> ''" form:"college" binding:"required" validate:"required"`
	Email   string `gorm:"type:varchar(255);not null;unique;check:email <> ''" form:"email" binding:"required" validate:"required"`
}

// TableName pins the table name regardless of naming strategy.
func (User) TableName() string {
	return "users"
}

// CSVHeader lists the exported columns in order.
var CSVHeader = []string{"NAME", "ROLL", "BRANCH", "COLLEGE", "EMAIL"}

// CSVRow returns the record's exported columns in CSVHeader order.
func (u User) CSVRow() []string {
	return []string{u.Name, u.Roll, u.Branch, u.College, u.Email}
}
