package migrations

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strconv"
	"strings"
)

// Action is a named, one-time schema change.
//
// Apply runs inside a transaction owned by the [Runner]; it must not commit or roll back.
// Checksum identifies the content of the change. It may be empty, in which case the
// runner can't tell whether an applied action was edited afterwards.
type Action struct {
	Name     string
	Checksum string
	Apply    func(ctx context.Context, tx *sql.Tx) error
}

// SQL returns an [Action] that executes each statement in order.
func SQL(name string, statements ...string) Action {
	stmts := make([]string, 0, len(statements))
	for _, stmt := range statements {
		stmt = strings.TrimSpace(removeComments(stmt))
		if stmt != "" {
			stmts = append(stmts, stmt)
		}
	}

	return Action{
		Name:     name,
		Checksum: Checksum(strings.Join(stmts, ";\n")),
		Apply: func(ctx context.Context, tx *sql.Tx) error {
			for _, stmt := range stmts {
				if _, err := tx.ExecContext(ctx, stmt); err != nil {
					return fmt.Errorf("failed to execute statement: %w\nStatement: %s", err, stmt)
				}
			}
			return nil
		},
	}
}

// Func returns an [Action] backed by Go code.
func Func(name string, fn func(ctx context.Context, tx *sql.Tx) error) Action {
	return Action{Name: name, Apply: fn}
}

// Checksum returns a short sha256 digest of content.
func Checksum(content string) string {
	h := sha256.Sum256([]byte(content))
	return hex.EncodeToString(h[:8])
}

// FromFS reads numbered .sql files from dir and returns them as actions ordered by number.
//
// A file named "0002_create_playlists_table.sql" becomes an action named
// "create playlists table". Statements are separated by semicolons; "--" comments are dropped.
// Files without a numeric prefix are ignored.
func FromFS(fsys fs.FS, dir string) ([]Action, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read migration directory: %w", err)
	}

	type file struct {
		version int
		name    string
		content string
	}

	seen := make(map[int]string)
	var files []file

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		filename := entry.Name()
		if !strings.HasSuffix(filename, ".sql") {
			continue
		}

		prefix, rest, ok := strings.Cut(strings.TrimSuffix(filename, ".sql"), "_")
		if !ok || rest == "" {
			continue
		}

		version, err := strconv.Atoi(prefix)
		if err != nil {
			continue
		}

		if other, dup := seen[version]; dup {
			return nil, fmt.Errorf("%w: version %d used by %s and %s", ErrDuplicateMigration, version, other, filename)
		}
		seen[version] = filename

		content, err := fs.ReadFile(fsys, path.Join(dir, filename))
		if err != nil {
			return nil, fmt.Errorf("failed to read migration file %s: %w", filename, err)
		}

		files = append(files, file{
			version: version,
			name:    strings.ReplaceAll(rest, "_", " "),
			content: string(content),
		})
	}

	sort.Slice(files, func(i, j int) bool {
		return files[i].version < files[j].version
	})

	actions := make([]Action, 0, len(files))
	for _, f := range files {
		actions = append(actions, SQL(f.name, strings.Split(f.content, ";")...))
	}

	return actions, nil
}

// removeComments removes "--" comments from a SQL statement.
func removeComments(sql string) string {
	lines := strings.Split(sql, "\n")
	var result []string
	for _, line := range lines {
		if idx := strings.Index(line, "--"); idx >= 0 {
			line = line[:idx]
		}
		line = strings.TrimSpace(line)
		if line != "" {
			result = append(result, line)
		}
	}
	return strings.Join(result, "\n")
}
