package postgres

import (
	"context"
	"errors"
	"strings"
	"time"

	"fitclub/planner/internal/domain"
	"fitclub/planner/internal/repository"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type userRepository struct {
	pool *pgxpool.Pool
}

const userColumns = `id, name, email, password_hash, role, client_ids, trainer_id, fitness_goals, goal, created_at, updated_at`

func (r *userRepository) Create(ctx context.Context, user *domain.User) (primitive.ObjectID, error) {
	if user.Email == "" || user.PasswordHash == "" || user.Role == "" {
		return primitive.NilObjectID, errors.New("user email, password hash, and role are required")
	}
	user.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now

	var trainerID *string
	if user.TrainerID != nil {
		hex := user.TrainerID.Hex()
		trainerID = &hex
	}
	_, err := r.pool.Exec(ctx,
		`INSERT INTO users (`+userColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		user.ID.Hex(), user.Name, strings.ToLower(user.Email), user.PasswordHash, string(user.Role),
		hexes(user.ClientIDs), trainerID, user.FitnessGoals, user.Goal, user.CreatedAt, user.UpdatedAt)
	if err != nil {
		return primitive.NilObjectID, translate(err)
	}
	return user.ID, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, strings.ToLower(email))
	return scanUser(row)
}

func (r *userRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id.Hex())
	return scanUser(row)
}

func (r *userRepository) AddClientIDToTrainer(ctx context.Context, trainerID, clientID primitive.ObjectID) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE users
		SET client_ids = CASE WHEN $2 = ANY(client_ids) THEN client_ids ELSE array_append(client_ids, $2) END,
		    updated_at = $3
		WHERE id = $1 AND role = $4`,
		trainerID.Hex(), clientID.Hex(), time.Now().UTC(), string(domain.RoleTrainer))
	if err != nil {
		return translate(err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *userRepository) GetClientsByTrainerID(ctx context.Context, trainerID primitive.ObjectID) ([]domain.User, error) {
	trainer, err := r.GetByID(ctx, trainerID)
	if err != nil {
		return nil, err
	}
	if !trainer.IsTrainer() {
		return nil, repository.ErrNotFound
	}
	rows, err := r.pool.Query(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = ANY($1) ORDER BY name`, hexes(trainer.ClientIDs))
	if err != nil {
		return nil, translate(err)
	}
	defer rows.Close()

	clients := []domain.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		clients = append(clients, *u)
	}
	return clients, rows.Err()
}

func (r *userRepository) SetTrainerForClient(ctx context.Context, clientID, trainerID primitive.ObjectID) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE users SET trainer_id = $2, updated_at = $3 WHERE id = $1 AND role = $4`,
		clientID.Hex(), trainerID.Hex(), time.Now().UTC(), string(domain.RoleClient))
	if err != nil {
		return translate(err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func scanUser(row pgx.Row) (*domain.User, error) {
	var (
		u         domain.User
		id        string
		role      string
		clientIDs []string
		trainerID *string
	)
	err := row.Scan(&id, &u.Name, &u.Email, &u.PasswordHash, &role, &clientIDs, &trainerID,
		&u.FitnessGoals, &u.Goal, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, translate(err)
	}
	if u.ID, err = primitive.ObjectIDFromHex(id); err != nil {
		return nil, err
	}
	u.Role = domain.Role(role)
	for _, h := range clientIDs {
		oid, err := primitive.ObjectIDFromHex(h)
		if err != nil {
			return nil, err
		}
		u.ClientIDs = append(u.ClientIDs, oid)
	}
	if trainerID != nil {
		oid, err := primitive.ObjectIDFromHex(*trainerID)
		if err != nil {
			return nil, err
		}
		u.TrainerID = &oid
	}
	return &u, nil
}

func hexes(ids []primitive.ObjectID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = id.Hex()
	}
	return out
}
