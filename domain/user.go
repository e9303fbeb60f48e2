package domain

type User struct {
	UserID   int    `gorm:"primaryKey;autoIncrement" json:"user_id"`
	Username string `gorm:"type:varchar(50);not null;unique" json:"username"`
	Password string `gorm:"type:varchar(100);not null" json:"-"`
	Role     string `gorm:"type:varchar(10);not null" json:"role"`
}
