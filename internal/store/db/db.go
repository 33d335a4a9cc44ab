package db

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"log"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/denisschmidt/songvault/internal/types"
	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

const (
	timeFormat = time.RFC3339Nano
)

// DB is a SQLite backed song catalog
type DB struct {
	ctx *sql.DB
	now func() time.Time
}

type dbMigration struct {
	version int
	query   string
}

//go:embed migrations/*.sql
var migrationsFs embed.FS

func New(path string) (*DB, error) {
	log.Printf("reading DB from %s", path)
	if err := ensureDir(path); err != nil {
		return nil, err
	}

	ctx, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	// a single connection keeps shared in-memory databases alive and
	// serializes writers instead of failing them with SQLITE_BUSY
	ctx.SetMaxOpenConns(1)

	if _, err := ctx.Exec(`
		PRAGMA temp_store = FILE;
		PRAGMA journal_mode = WAL;
		PRAGMA busy_timeout = 5000;
	`); err != nil {
		ctx.Close()
		return nil, fmt.Errorf("failed to set up pragmas: %w", err)
	}

	if err := migrate(ctx); err != nil {
		ctx.Close()
		return nil, err
	}

	return &DB{
		ctx: ctx,
		now: time.Now,
	}, nil
}

func (d *DB) InsertSong(ctx context.Context, song types.Song) (types.ID, error) {
	id := types.ID(uuid.New().String())
	log.Printf("create a new song %s", id)

	_, err := d.ctx.ExecContext(ctx, `
	INSERT INTO
		songs
	(
		id,
		title,
		artist,
		file_path,
		create_at
	)
	VALUES(?,?,?,?,?)`,
		id,
		song.Title,
		song.Artist,
		song.FilePath,
		d.now().UTC().Format(timeFormat),
	)
	if err != nil {
		return "", fmt.Errorf("insert song: %w", err)
	}

	return id, nil
}

func (d *DB) ListSongs(ctx context.Context) ([]types.Song, error) {
	rows, err := d.ctx.QueryContext(ctx, `
		SELECT
			id,
			title,
			artist,
			file_path
		FROM
			songs
		ORDER BY
			rowid ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	songs := make([]types.Song, 0)
	for rows.Next() {
		var song types.Song
		if err := rows.Scan(&song.ID, &song.Title, &song.Artist, &song.FilePath); err != nil {
			return nil, err
		}
		songs = append(songs, song)
	}

	return songs, rows.Err()
}

func (d *DB) GetSong(ctx context.Context, id types.ID) (types.Song, error) {
	song := types.Song{ID: id}

	err := d.ctx.QueryRowContext(ctx, `
		SELECT
			title,
			artist,
			file_path
		FROM
			songs
		WHERE
			id=?`, id).Scan(&song.Title, &song.Artist, &song.FilePath)
	if err == sql.ErrNoRows {
		return types.Song{}, types.ErrSongNotExists{
			ID: id,
		}
	}
	if err != nil {
		return types.Song{}, err
	}

	return song, nil
}

func (d *DB) Close(context.Context) error {
	return d.ctx.Close()
}

// ensureDir creates the parent directory of a file backed database; URIs and
// in-memory databases are left to the driver
func ensureDir(path string) error {
	if path == "" || path == ":memory:" || strings.HasPrefix(path, "file:") {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create DB dir: %w", err)
	}
	return nil
}

func migrate(ctx *sql.DB) error {
	var currentVersion int
	if err := ctx.QueryRow(`PRAGMA user_version`).Scan(&currentVersion); err != nil {
		return fmt.Errorf("failed to get user_version: %w", err)
	}

	migrations, err := getMigrationsQuery()
	if err != nil {
		return fmt.Errorf("error loading database migrations: %w", err)
	}

	log.Printf("start migration stats: %d/%d", currentVersion, len(migrations))

	for _, migration := range migrations {
		if migration.version <= currentVersion {
			continue
		}

		tx, err := ctx.BeginTx(context.Background(), nil)
		if err != nil {
			return fmt.Errorf("failed to create transaction %d: %w", migration.version, err)
		}

		if _, err := tx.Exec(migration.query); err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to perform DB migration %d: %w", migration.version, err)
		}

		if _, err := tx.Exec(fmt.Sprintf(`PRAGMA user_version=%d`, migration.version)); err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to update DB version to %d: %w", migration.version, err)
		}

		if err := tx.Commit(); err != nil {
			return fmt.Errorf("failed to commit migration %d: %w", migration.version, err)
		}

		log.Printf("end migration stats: %d/%d", migration.version, len(migrations))
	}

	return nil
}

func getMigrationsQuery() ([]dbMigration, error) {
	migrations := []dbMigration{}
	dirname := "migrations"

	entries, err := migrationsFs.ReadDir(dirname)
	if err != nil {
		return nil, err
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		version, err := getMigrationVersion(entry.Name())
		if err != nil {
			return nil, err
		}

		query, err := migrationsFs.ReadFile(path.Join(dirname, entry.Name()))
		if err != nil {
			return nil, err
		}

		migrations = append(migrations, dbMigration{version: version, query: string(query)})
	}

	sort.Slice(migrations, func(i, j int) bool {
		return migrations[i].version < migrations[j].version
	})

	return migrations, nil
}

func getMigrationVersion(filename string) (int, error) {
	if len(filename) < 3 {
		return 0, fmt.Errorf("migration version is wrong: %v", filename)
	}
	version, err := strconv.ParseInt(filename[:3], 10, 32)
	if err != nil {
		return 0, fmt.Errorf("migration version is wrong: %v", filename)
	}
	return int(version), nil
}
