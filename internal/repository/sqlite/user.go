package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/msomdec/shelfmate/internal/domain"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UserRepository implements domain.UserRepository using SQLite. Book and
// friend references live in the user_books and user_friends tables and are
// loaded alongside every user so callers see the same shape as a document.
type UserRepository struct {
	db *sql.DB
}

// NewUserRepository creates a new SQLite-backed UserRepository.
func NewUserRepository(db *DB) *UserRepository {
	return &UserRepository{db: db.SqlDB}
}

const userColumns = `id, fullname, email, password_hash, created_at, updated_at`

func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	if user.ID.IsZero() {
		user.ID = domain.NewID()
	}
	now := time.Now().UTC()
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO users (id, fullname, email, password_hash, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		user.ID.Hex(), user.Fullname, user.Email, user.PasswordHash, now, now,
	)
	if err != nil {
		if isUniqueConstraintError(err) {
			return domain.ErrDuplicateEmail
		}
		return fmt.Errorf("insert user: %w", err)
	}

	user.BookIDs = orEmpty(user.BookIDs)
	user.FriendIDs = orEmpty(user.FriendIDs)
	user.CreatedAt = now
	user.UpdatedAt = now
	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE id = ?`, id.Hex())
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE email = ?`, email)
}

func (r *UserRepository) getOne(ctx context.Context, query string, arg any) (*domain.User, error) {
	user, err := scanUser(r.db.QueryRowContext(ctx, query, arg))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("query user: %w", err)
	}

	users := []domain.User{*user}
	if err := r.attachRefs(ctx, users); err != nil {
		return nil, err
	}
	return &users[0], nil
}

func (r *UserRepository) GetByIDs(ctx context.Context, ids []primitive.ObjectID) ([]domain.User, error) {
	if len(ids) == 0 {
		return []domain.User{}, nil
	}

	placeholders, args := inClause(ids)
	rows, err := r.db.QueryContext(ctx,
		fmt.Sprintf(`SELECT `+userColumns+` FROM users WHERE id IN (%s)`, placeholders), args...)
	if err != nil {
		return nil, fmt.Errorf("query users by ids: %w", err)
	}
	found, err := scanUsers(rows)
	if err != nil {
		return nil, err
	}

	byID := make(map[primitive.ObjectID]domain.User, len(found))
	for _, u := range found {
		byID[u.ID] = u
	}
	users := make([]domain.User, 0, len(ids))
	for _, id := range ids {
		if u, ok := byID[id]; ok {
			users = append(users, u)
		}
	}

	if err := r.attachRefs(ctx, users); err != nil {
		return nil, err
	}
	return users, nil
}

func (r *UserRepository) List(ctx context.Context) ([]domain.User, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+userColumns+` FROM users ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	users, err := scanUsers(rows)
	if err != nil {
		return nil, err
	}
	if err := r.attachRefs(ctx, users); err != nil {
		return nil, err
	}
	return users, nil
}

func (r *UserRepository) UpdatePassword(ctx context.Context, id primitive.ObjectID, passwordHash string) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE users SET password_hash = ?, updated_at = ? WHERE id = ?`,
		passwordHash, time.Now().UTC(), id.Hex(),
	)
	if err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	return requireRow(result)
}

func (r *UserRepository) AppendBook(ctx context.Context, userID, bookID primitive.ObjectID) error {
	return r.appendRef(ctx, "user_books", "book_id", userID, bookID)
}

func (r *UserRepository) RemoveBook(ctx context.Context, userID, bookID primitive.ObjectID) (bool, error) {
	return r.removeRef(ctx, "user_books", "book_id", userID, bookID)
}

func (r *UserRepository) AddFriend(ctx context.Context, userID, friendID primitive.ObjectID) error {
	err := r.appendRef(ctx, "user_friends", "friend_id", userID, friendID)
	if isUniqueConstraintError(err) {
		return domain.ErrAlreadyFriend
	}
	return err
}

func (r *UserRepository) RemoveFriend(ctx context.Context, userID, friendID primitive.ObjectID) (bool, error) {
	return r.removeRef(ctx, "user_friends", "friend_id", userID, friendID)
}

// appendRef adds a reference at the end of the user's ordered list.
func (r *UserRepository) appendRef(ctx context.Context, table, column string, userID, refID primitive.ObjectID) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	var exists int
	err = tx.QueryRowContext(ctx, `SELECT 1 FROM users WHERE id = ?`, userID.Hex()).Scan(&exists)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("check user: %w", err)
	}

	_, err = tx.ExecContext(ctx, fmt.Sprintf(
		`INSERT INTO %[1]s (user_id, %[2]s, position)
		 SELECT ?, ?, COALESCE(MAX(position), 0) + 1 FROM %[1]s WHERE user_id = ?`, table, column),
		userID.Hex(), refID.Hex(), userID.Hex(),
	)
	if err != nil {
		if isUniqueConstraintError(err) {
			return err
		}
		if isForeignKeyError(err) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("insert %s: %w", table, err)
	}

	if _, err := tx.ExecContext(ctx, `UPDATE users SET updated_at = ? WHERE id = ?`, time.Now().UTC(), userID.Hex()); err != nil {
		return fmt.Errorf("touch user: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func (r *UserRepository) removeRef(ctx context.Context, table, column string, userID, refID primitive.ObjectID) (bool, error) {
	result, err := r.db.ExecContext(ctx,
		fmt.Sprintf(`DELETE FROM %s WHERE user_id = ? AND %s = ?`, table, column),
		userID.Hex(), refID.Hex(),
	)
	if err != nil {
		return false, fmt.Errorf("delete from %s: %w", table, err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return n > 0, nil
}

// attachRefs fills BookIDs and FriendIDs for every user in place.
func (r *UserRepository) attachRefs(ctx context.Context, users []domain.User) error {
	if len(users) == 0 {
		return nil
	}
	ids := make([]primitive.ObjectID, len(users))
	for i, u := range users {
		ids[i] = u.ID
	}

	books, err := r.loadRefs(ctx, "user_books", "book_id", ids)
	if err != nil {
		return err
	}
	friends, err := r.loadRefs(ctx, "user_friends", "friend_id", ids)
	if err != nil {
		return err
	}

	for i := range users {
		users[i].BookIDs = orEmpty(books[users[i].ID])
		users[i].FriendIDs = orEmpty(friends[users[i].ID])
	}
	return nil
}

func (r *UserRepository) loadRefs(ctx context.Context, table, column string, userIDs []primitive.ObjectID) (map[primitive.ObjectID][]primitive.ObjectID, error) {
	placeholders, args := inClause(userIDs)
	rows, err := r.db.QueryContext(ctx, fmt.Sprintf(
		`SELECT user_id, %s FROM %s WHERE user_id IN (%s) ORDER BY user_id, position`,
		column, table, placeholders), args...)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", table, err)
	}
	defer rows.Close()

	refs := make(map[primitive.ObjectID][]primitive.ObjectID)
	for rows.Next() {
		var userHex, refHex string
		if err := rows.Scan(&userHex, &refHex); err != nil {
			return nil, fmt.Errorf("scan %s: %w", table, err)
		}
		userID, err := primitive.ObjectIDFromHex(userHex)
		if err != nil {
			return nil, fmt.Errorf("decode user id %q: %w", userHex, err)
		}
		refID, err := primitive.ObjectIDFromHex(refHex)
		if err != nil {
			return nil, fmt.Errorf("decode %s %q: %w", column, refHex, err)
		}
		refs[userID] = append(refs[userID], refID)
	}
	return refs, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*domain.User, error) {
	var (
		user  domain.User
		idHex string
	)
	if err := row.Scan(&idHex, &user.Fullname, &user.Email, &user.PasswordHash, &user.CreatedAt, &user.UpdatedAt); err != nil {
		return nil, err
	}
	id, err := primitive.ObjectIDFromHex(idHex)
	if err != nil {
		return nil, fmt.Errorf("decode user id %q: %w", idHex, err)
	}
	user.ID = id
	return &user, nil
}

func scanUsers(rows *sql.Rows) ([]domain.User, error) {
	defer rows.Close()

	users := []domain.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, *u)
	}
	return users, rows.Err()
}

func inClause(ids []primitive.ObjectID) (string, []any) {
	placeholders := make([]string, len(ids))
	args := make([]any, len(ids))
	for i, id := range ids {
		placeholders[i] = "?"
		args[i] = id.Hex()
	}
	return strings.Join(placeholders, ","), args
}

func orEmpty(ids []primitive.ObjectID) []primitive.ObjectID {
	if ids == nil {
		return []primitive.ObjectID{}
	}
	return ids
}

func requireRow(result sql.Result) error {
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// isUniqueConstraintError checks if the error is a SQLite unique constraint violation.
func isUniqueConstraintError(err error) bool {
	return err != nil && (strings.Contains(err.Error(), "UNIQUE constraint failed") ||
		strings.Contains(err.Error(), "constraint failed: PRIMARY KEY"))
}

func isForeignKeyError(err error) bool {
	return err != nil && strings.Contains(err.Error(), "FOREIGN KEY constraint failed")
}
