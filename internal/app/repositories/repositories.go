package repositories

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/yigit/headta/internal/app/models"
	"github.com/yigit/headta/internal/db"
)

// Repositories holds all the repository instances
type Repositories struct {
	UserRepository       *UserRepository
	TokenRepository      *TokenRepository
	InvitationRepository *InvitationRepository
	CourseRepository     *CourseRepository
	ProfessorRepository  *ProfessorRepository
	OfferingRepository   *OfferingRepository
	AssignmentRepository *AssignmentRepository
	StatsRepository      *StatsRepository
	Store                *Store
}

// NewRepositories initializes all repositories
func NewRepositories(database *db.PostgresDB) *Repositories {
	pool := database.Pool
	return &Repositories{
		UserRepository:       NewUserRepository(pool),
		TokenRepository:      NewTokenRepository(pool),
		InvitationRepository: NewInvitationRepository(pool),
		CourseRepository:     NewCourseRepository(pool),
		ProfessorRepository:  NewProfessorRepository(pool),
		OfferingRepository:   NewOfferingRepository(pool),
		AssignmentRepository: NewAssignmentRepository(pool),
		StatsRepository:      NewStatsRepository(pool),
		Store:                NewStore(database),
	}
}

// ClaimTx is the storage surface of a profile claim. All calls run in one transaction.
type ClaimTx interface {
	GetUserByID(ctx context.Context, id int64) (*models.User, error)
	GetUserByIDForUpdate(ctx context.Context, id int64) (*models.User, error)
	ReassignAssignments(ctx context.Context, fromUserID, toUserID int64) (int64, error)
	MarkClaimed(ctx context.Context, userID, claimerID int64, at time.Time) error
}

// SignupTx is the storage surface of accepting an invitation
type SignupTx interface {
	GetInvitationByTokenForUpdate(ctx context.Context, token string) (*models.Invitation, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	CreateUser(ctx context.Context, user *models.User) (int64, error)
	MarkAccepted(ctx context.Context, id, userID int64, at time.Time) error
}

// txRepositories binds the repositories used inside a transaction to one pgx.Tx
type txRepositories struct {
	*UserRepository
	*AssignmentRepository
	*InvitationRepository
}

// Store runs multi-repository units of work in a database transaction
type Store struct {
	db *db.PostgresDB
}

// NewStore creates a new Store
func NewStore(database *db.PostgresDB) *Store {
	return &Store{db: database}
}

func bind(tx pgx.Tx) *txRepositories {
	return &txRepositories{
		UserRepository:       NewUserRepository(tx),
		AssignmentRepository: NewAssignmentRepository(tx),
		InvitationRepository: NewInvitationRepository(tx),
	}
}

// RunClaimTx runs fn in a transaction committed only when fn returns nil
func (s *Store) RunClaimTx(ctx context.Context, fn func(ctx context.Context, tx ClaimTx) error) error {
	return s.db.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		return fn(ctx, bind(tx))
	})
}

// RunSignupTx runs fn in a transaction committed only when fn returns nil
func (s *Store) RunSignupTx(ctx context.Context, fn func(ctx context.Context, tx SignupTx) error) error {
	return s.db.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		return fn(ctx, bind(tx))
	})
}
