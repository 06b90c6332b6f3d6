package files

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/filesmanager/internal/common"
	"github.com/dmitrijs2005/filesmanager/internal/dbx"
	"github.com/dmitrijs2005/filesmanager/internal/server/models"
)

const selectColumns = `SELECT id, user_id, name, type, is_public, parent_id, local_path FROM files`

// PostgresRepository implements Repository over a dbx.DBTX (*sql.DB or *sql.Tx).
// Insertion order is kept by the seq column.
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts node under a fresh ID and returns it.
func (r *PostgresRepository) Create(ctx context.Context, node *models.FileNode) (*models.FileNode, error) {
	query := `
		INSERT INTO files (id, user_id, name, type, is_public, parent_id, local_path)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	id := common.NewID()
	_, err := r.db.ExecContext(ctx, query,
		id, node.UserID, node.Name, string(node.Type), node.IsPublic, node.ParentID, nullable(node.LocalPath))
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	node.ID = id
	return node, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.FileNode, error) {
	return scanNode(r.db.QueryRowContext(ctx, selectColumns+` WHERE id = $1`, id))
}

func (r *PostgresRepository) GetByIDAndUser(ctx context.Context, id, userID string) (*models.FileNode, error) {
	return scanNode(r.db.QueryRowContext(ctx, selectColumns+` WHERE id = $1 AND user_id = $2`, id, userID))
}

// List returns up to limit nodes of userID under parentID, skipping skip rows.
func (r *PostgresRepository) List(ctx context.Context, userID, parentID string, skip, limit int) ([]*models.FileNode, error) {
	query := selectColumns + ` WHERE user_id = $1 AND parent_id = $2 ORDER BY seq OFFSET $3 LIMIT $4`

	rows, err := r.db.QueryContext(ctx, query, userID, parentID, skip, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to select files: %w", err)
	}
	defer rows.Close()

	result := make([]*models.FileNode, 0, limit)
	for rows.Next() {
		node, err := scanNode(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, node)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// SetPublic updates the visibility of a node owned by userID and returns the
// updated row.
func (r *PostgresRepository) SetPublic(ctx context.Context, id, userID string, value bool) (*models.FileNode, error) {
	query := `
		UPDATE files SET is_public = $3
		WHERE id = $1 AND user_id = $2
		RETURNING id, user_id, name, type, is_public, parent_id, local_path
	`
	return scanNode(r.db.QueryRowContext(ctx, query, id, userID, value))
}

func (r *PostgresRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.QueryRowContext(ctx, `SELECT count(*) FROM files`).Scan(&n); err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return n, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanNode(s scanner) (*models.FileNode, error) {
	var (
		node      models.FileNode
		nodeType  string
		localPath sql.NullString
	)
	err := s.Scan(&node.ID, &node.UserID, &node.Name, &nodeType, &node.IsPublic, &node.ParentID, &localPath)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	node.Type = models.NodeType(nodeType)
	node.LocalPath = localPath.String
	return &node, nil
}

func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
