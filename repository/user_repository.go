package repository

import (
	"database/sql"
	"go-ledger-api/model"
)

// IUserRepository is the read-only view of the identity store the ledger
// needs. User lifecycle is owned by the external identity provider.
type IUserRepository interface {
	GetUserByID(id string) (*model.User, error)
}

type UserRepository struct {
	DB *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{DB: db}
}

func (r *UserRepository) GetUserByID(id string) (*model.User, error) {
	user := &model.User{}
	query := `SELECT id, email FROM users WHERE id = $1`
	err := r.DB.QueryRow(query, id).Scan(&user.ID, &user.Email)
	if err != nil {
		return nil, err
	}
	return user, nil
}
