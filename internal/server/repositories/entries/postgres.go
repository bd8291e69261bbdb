package entries

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/yebin817/passvault/internal/common"
	"github.com/yebin817/passvault/internal/dbx"
	"github.com/yebin817/passvault/internal/server/models"
)

// PostgresRepository implements entry storage over a dbx.DBTX
// (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, entry *models.Entry) (*models.Entry, error) {
	query := `
		INSERT INTO entries (id, user_id, service_name, username, email, password_ciphertext, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at, updated_at
	`
	entry.ID = uuid.New().String()
	err := r.db.QueryRowContext(ctx, query,
		entry.ID, entry.UserID, entry.ServiceName, entry.Username,
		entry.Email, entry.PasswordCiphertext, entry.Notes).
		Scan(&entry.CreatedAt, &entry.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return entry, nil
}

const selectEntry = `
	SELECT id, user_id, service_name, username, email, password_ciphertext, notes, created_at, updated_at
	FROM entries
`

func (r *PostgresRepository) GetForUser(ctx context.Context, id, userID string) (*models.Entry, error) {
	entry := &models.Entry{}
	err := r.db.QueryRowContext(ctx, selectEntry+` WHERE id = $1 AND user_id = $2`, id, userID).Scan(
		&entry.ID, &entry.UserID, &entry.ServiceName, &entry.Username,
		&entry.Email, &entry.PasswordCiphertext, &entry.Notes,
		&entry.CreatedAt, &entry.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return entry, nil
}

// escapeLike neutralizes LIKE metacharacters so user input is matched
// literally.
func escapeLike(s string) string {
	replacer := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return replacer.Replace(s)
}

func (r *PostgresRepository) Search(ctx context.Context, userID, query string) ([]*models.Entry, error) {
	sqlQuery := selectEntry + ` WHERE user_id = $1`
	args := []any{userID}

	if query != "" {
		sqlQuery += `
		AND (service_name ILIKE $2 OR username ILIKE $2 OR email ILIKE $2 OR notes ILIKE $2)`
		args = append(args, "%"+escapeLike(query)+"%")
	}
	sqlQuery += `
	ORDER BY created_at, id`

	rows, err := r.db.QueryContext(ctx, sqlQuery, args...)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.Entry
	for rows.Next() {
		var item models.Entry
		if err := rows.Scan(
			&item.ID, &item.UserID, &item.ServiceName, &item.Username,
			&item.Email, &item.PasswordCiphertext, &item.Notes,
			&item.CreatedAt, &item.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *PostgresRepository) Update(ctx context.Context, entry *models.Entry) error {
	query := `
		UPDATE entries
		SET service_name = $3, username = $4, email = $5, password_ciphertext = $6, notes = $7, updated_at = now()
		WHERE id = $1 AND user_id = $2
	`
	res, err := r.db.ExecContext(ctx, query,
		entry.ID, entry.UserID, entry.ServiceName, entry.Username,
		entry.Email, entry.PasswordCiphertext, entry.Notes)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id, userID string) error {
	query := `DELETE FROM entries WHERE id = $1 AND user_id = $2`
	res, err := r.db.ExecContext(ctx, query, id, userID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}
