package models

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/jackc/pgx/v5/pgxpool"
)

var Validate = validator.New()

// Sentinel errors shared by all repositories. Handlers map these to HTTP
// status codes.
var (
	ErrNotFound          = errors.New("not found")
	ErrEventFull         = errors.New("event is full")
	ErrPastEvent         = errors.New("cannot register for past events")
	ErrAlreadyRegistered = errors.New("already registered for this event")
	ErrDuplicateUsername = errors.New("username already taken")
	ErrCapacityTooLow    = errors.New("capacity cannot be lower than current registrations")
)

// PostgresRepo implements every repository interface against a pgx pool.
type PostgresRepo struct {
	db *pgxpool.Pool
}

func NewPostgresRepo(db *pgxpool.Pool) *PostgresRepo {
	return &PostgresRepo{db: db}
}
