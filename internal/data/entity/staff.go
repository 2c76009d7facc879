package entity

type Staff struct {
	BaseNoDelete
	Name     string  `db:"name"`
	Email    *string `db:"email"`
	IsActive bool    `db:"is_active"`
}
