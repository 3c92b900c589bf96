package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"crochet-studio/internal/crochet/pattern"
	"crochet-studio/internal/editor/models"
)

// ErrNotFound: ключа или проекта нет в хранилище.
var ErrNotFound = errors.New("not found")

// ============================================================
// SQLite Repository
// ============================================================

type Repository struct {
	db *sql.DB
}

func New(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Init запускает миграции.
func (r *Repository) Init(ctx context.Context, migrationsPath string) error {
	if err := r.runMigrations(ctx, migrationsPath); err != nil {
		return fmt.Errorf("migrations: %w", err)
	}
	return nil
}

// ============================================================
// Key-Value (autosave)
// ============================================================

// Save сохраняет кольца под ключом, перезаписывая старое значение.
func (r *Repository) Save(ctx context.Context, key string, rings []pattern.Ring) error {
	data, err := pattern.EncodeRings(rings)
	if err != nil {
		return fmt.Errorf("encode rings: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `
        INSERT INTO kv (key, value) VALUES (?, ?)
        ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = datetime('now')
    `, key, string(data))
	if err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}

// Load читает кольца по ключу. Второй результат false, если ключа нет.
// Повреждённые данные возвращаются как ошибка с pattern.ErrInvalidRings.
func (r *Repository) Load(ctx context.Context, key string) ([]pattern.Ring, bool, error) {
	var value string
	err := r.db.QueryRowContext(ctx, `SELECT value FROM kv WHERE key = ?`, key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("load %s: %w", key, err)
	}

	rings, err := pattern.DecodeRings([]byte(value))
	if err != nil {
		return nil, true, err
	}
	return rings, true, nil
}

// ============================================================
// Named Projects
// ============================================================

func (r *Repository) SaveProject(ctx context.Context, name string, rings []pattern.Ring) error {
	data, err := pattern.EncodeRings(rings)
	if err != nil {
		return fmt.Errorf("encode rings: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `
        INSERT INTO projects (name, rings, ring_count) VALUES (?, ?, ?)
        ON CONFLICT(name) DO UPDATE SET
            rings = excluded.rings,
            ring_count = excluded.ring_count,
            updated_at = datetime('now')
    `, name, string(data), len(rings))
	if err != nil {
		return fmt.Errorf("save project %s: %w", name, err)
	}
	return nil
}

func (r *Repository) LoadProject(ctx context.Context, name string) (*models.Project, error) {
	row := r.db.QueryRowContext(ctx, `
        SELECT name, rings, created_at, updated_at
        FROM projects
        WHERE name = ?
    `, name)

	var (
		p    models.Project
		data string
	)
	if err := row.Scan(&p.Name, &data, &p.CreatedAt, &p.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("project %s: %w", name, ErrNotFound)
		}
		return nil, err
	}

	rings, err := pattern.DecodeRings([]byte(data))
	if err != nil {
		return nil, fmt.Errorf("project %s: %w", name, err)
	}
	p.Rings = rings
	return &p, nil
}

func (r *Repository) ListProjects(ctx context.Context) ([]models.ProjectInfo, error) {
	rows, err := r.db.QueryContext(ctx, `
        SELECT name, ring_count, updated_at
        FROM projects
        ORDER BY name
    `)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	defer rows.Close()

	projects := make([]models.ProjectInfo, 0)
	for rows.Next() {
		var p models.ProjectInfo
		if err := rows.Scan(&p.Name, &p.RingCount, &p.UpdatedAt); err != nil {
			return nil, err
		}
		projects = append(projects, p)
	}
	return projects, rows.Err()
}

func (r *Repository) DeleteProject(ctx context.Context, name string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM projects WHERE name = ?`, name)
	if err != nil {
		return fmt.Errorf("delete project %s: %w", name, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("project %s: %w", name, ErrNotFound)
	}
	return nil
}

// ============================================================
// Migrations
// ============================================================

func (r *Repository) runMigrations(ctx context.Context, migrationsPath string) error {
	data, err := os.ReadFile(migrationsPath)
	if err != nil {
		return fmt.Errorf("read migration: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, string(data)); err != nil {
		return fmt.Errorf("apply migration: %w", err)
	}
	return nil
}

// OpenSQLite открывает sqlite по указанному пути.
func OpenSQLite(dbPath string) (*sql.DB, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("mkdir db dir: %w", err)
	}

	dsn := fmt.Sprintf("file:%s?cache=shared&mode=rwc&_pragma=busy_timeout=5000", dbPath)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	return db, nil
}
