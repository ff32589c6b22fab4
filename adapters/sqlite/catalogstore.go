package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/nicheshunter/nicheshunter/domain/catalog"
	"github.com/nicheshunter/nicheshunter/ports"
)

// CatalogStore implements ports.CatalogStore using SQLite.
// Stats, analysis and tags are stored as JSON columns; the catalog is
// read-heavy and never queried by those fields.
type CatalogStore struct {
	db *DB
}

// NewCatalogStore creates a new SQLite catalog store.
func NewCatalogStore(db *DB) *CatalogStore {
	return &CatalogStore{db: db}
}

var _ ports.CatalogStore = (*CatalogStore)(nil)

const nicheColumns = `id, display_code, title, category, tags, score, source_type, free_tier, stats, analysis, created_at, updated_at`

// GetByCode retrieves a niche by its public display code.
func (s *CatalogStore) GetByCode(ctx context.Context, displayCode string) (catalog.Niche, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+nicheColumns+`
		FROM niches
		WHERE display_code = ?
	`, displayCode)
	return scanNiche(row)
}

// Get retrieves a niche by internal ID.
func (s *CatalogStore) Get(ctx context.Context, id string) (catalog.Niche, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+nicheColumns+`
		FROM niches
		WHERE id = ?
	`, id)
	return scanNiche(row)
}

// List returns all niches ordered by score descending.
func (s *CatalogStore) List(ctx context.Context) ([]catalog.Niche, error) {
	return s.list(ctx, `
		SELECT `+nicheColumns+`
		FROM niches
		ORDER BY score DESC, display_code ASC
	`)
}

// ListFreeTier returns only free-tier niches, ordered by score descending.
func (s *CatalogStore) ListFreeTier(ctx context.Context) ([]catalog.Niche, error) {
	return s.list(ctx, `
		SELECT `+nicheColumns+`
		FROM niches
		WHERE free_tier = 1
		ORDER BY score DESC, display_code ASC
	`)
}

func (s *CatalogStore) list(ctx context.Context, query string) ([]catalog.Niche, error) {
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var niches []catalog.Niche
	for rows.Next() {
		n, err := scanNicheRows(rows)
		if err != nil {
			return nil, err
		}
		niches = append(niches, n)
	}
	return niches, rows.Err()
}

// Create stores a new niche.
func (s *CatalogStore) Create(ctx context.Context, n catalog.Niche) error {
	now := time.Now().UTC()
	if n.CreatedAt.IsZero() {
		n.CreatedAt = now
	}
	if n.UpdatedAt.IsZero() {
		n.UpdatedAt = now
	}

	tags, stats, analysis, err := marshalNicheJSON(n)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO niches (`+nicheColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, n.ID, n.DisplayCode, n.Title, n.Category, tags, n.Score, n.SourceType,
		boolToInt(n.FreeTier), stats, analysis, n.CreatedAt, n.UpdatedAt)

	if err != nil && isUniqueConstraintError(err) {
		return ports.ErrDuplicate
	}
	return err
}

// Update modifies an existing niche. The display code is immutable and
// deliberately excluded from the SET list.
func (s *CatalogStore) Update(ctx context.Context, n catalog.Niche) error {
	n.UpdatedAt = time.Now().UTC()

	tags, stats, analysis, err := marshalNicheJSON(n)
	if err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx, `
		UPDATE niches
		SET title = ?, category = ?, tags = ?, score = ?, source_type = ?,
		    free_tier = ?, stats = ?, analysis = ?, updated_at = ?
		WHERE id = ?
	`, n.Title, n.Category, tags, n.Score, n.SourceType,
		boolToInt(n.FreeTier), stats, analysis, n.UpdatedAt, n.ID)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ports.ErrNotFound
	}
	return nil
}

// Count returns total niche count.
func (s *CatalogStore) Count(ctx context.Context) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM niches`).Scan(&count)
	return count, err
}

func marshalNicheJSON(n catalog.Niche) (tags, stats, analysis []byte, err error) {
	if n.Tags == nil {
		n.Tags = []string{}
	}
	tags, err = json.Marshal(n.Tags)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("marshal tags: %w", err)
	}
	stats, err = json.Marshal(n.Stats)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("marshal stats: %w", err)
	}
	analysis, err = json.Marshal(n.Analysis)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("marshal analysis: %w", err)
	}
	return tags, stats, analysis, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanNiche(row *sql.Row) (catalog.Niche, error) {
	n, err := scanNicheFrom(row)
	if errors.Is(err, sql.ErrNoRows) {
		return catalog.Niche{}, ports.ErrNotFound
	}
	return n, err
}

func scanNicheRows(rows *sql.Rows) (catalog.Niche, error) {
	return scanNicheFrom(rows)
}

func scanNicheFrom(r rowScanner) (catalog.Niche, error) {
	var n catalog.Niche
	var tags, stats, analysis []byte
	var freeTier int

	err := r.Scan(
		&n.ID, &n.DisplayCode, &n.Title, &n.Category, &tags, &n.Score,
		&n.SourceType, &freeTier, &stats, &analysis, &n.CreatedAt, &n.UpdatedAt,
	)
	if err != nil {
		return catalog.Niche{}, err
	}

	n.FreeTier = freeTier != 0
	if err := json.Unmarshal(tags, &n.Tags); err != nil {
		return catalog.Niche{}, fmt.Errorf("unmarshal tags: %w", err)
	}
	if err := json.Unmarshal(stats, &n.Stats); err != nil {
		return catalog.Niche{}, fmt.Errorf("unmarshal stats: %w", err)
	}
	if err := json.Unmarshal(analysis, &n.Analysis); err != nil {
		return catalog.Niche{}, fmt.Errorf("unmarshal analysis: %w", err)
	}
	return n, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
