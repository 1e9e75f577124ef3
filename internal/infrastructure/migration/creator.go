package migration

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"text/template"
	"time"
)

const migrationUpTemplate = `-- Migration: {{.Name}} ({{.Dialect}})
-- Created: {{.Timestamp}}
-- Description: {{.Description}}

`

const migrationDownTemplate = `-- Migration: {{.Name}} ({{.Dialect}}, rollback)
-- Created: {{.Timestamp}}
-- Description: Rollback for {{.Description}}

`

// MigrationFile represents a migration file pair of one dialect
type MigrationFile struct {
	Version     string
	Name        string
	Dialect     string
	Description string
	Timestamp   string
	UpPath      string
	DownPath    string
}

// CreateMigration creates the next sequential migration pair for every dialect
// under rootDir/<dialect>. Both dialects always receive the same version so the
// schema stays aligned.
func CreateMigration(rootDir, name, description string) ([]MigrationFile, error) {
	base := sanitizeName(name)
	if base == "" {
		return nil, fmt.Errorf("migration name %q has no usable characters", name)
	}

	dialects := []string{DialectSQLite, DialectPostgres}
	next := 1
	for _, d := range dialects {
		existing, err := ListMigrations(filepath.Join(rootDir, d))
		if err != nil {
			return nil, err
		}
		if v := nextVersion(existing); v > next {
			next = v
		}
	}
	version := fmt.Sprintf("%06d", next)
	timestamp := time.Now().Format(time.RFC3339)

	var created []MigrationFile
	for _, d := range dialects {
		dir := filepath.Join(rootDir, d)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create migrations directory: %w", err)
		}
		mf := MigrationFile{
			Version:     version,
			Name:        name,
			Dialect:     d,
			Description: description,
			Timestamp:   timestamp,
			UpPath:      filepath.Join(dir, version+"_"+base+".up.sql"),
			DownPath:    filepath.Join(dir, version+"_"+base+".down.sql"),
		}
		if err := createMigrationFile(mf.UpPath, migrationUpTemplate, &mf); err != nil {
			removeAll(created)
			return nil, fmt.Errorf("failed to create up migration: %w", err)
		}
		if err := createMigrationFile(mf.DownPath, migrationDownTemplate, &mf); err != nil {
			_ = os.Remove(mf.UpPath)
			removeAll(created)
			return nil, fmt.Errorf("failed to create down migration: %w", err)
		}
		created = append(created, mf)
	}
	return created, nil
}

func removeAll(files []MigrationFile) {
	for _, f := range files {
		_ = os.Remove(f.UpPath)
		_ = os.Remove(f.DownPath)
	}
}

// nextVersion returns one past the highest numeric version prefix
func nextVersion(baseNames []string) int {
	highest := 0
	for _, b := range baseNames {
		prefix, _, _ := strings.Cut(b, "_")
		if v, err := strconv.Atoi(prefix); err == nil && v > highest {
			highest = v
		}
	}
	return highest + 1
}

func createMigrationFile(path, tmplContent string, data *MigrationFile) error {
	tmpl, err := template.New("migration").Parse(tmplContent)
	if err != nil {
		return fmt.Errorf("failed to parse template: %w", err)
	}

	// O_EXCL so an existing migration is never overwritten
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return fmt.Errorf("failed to create file %s: %w", path, err)
	}
	defer f.Close()

	if err := tmpl.Execute(f, data); err != nil {
		return fmt.Errorf("failed to execute template: %w", err)
	}
	return nil
}

// sanitizeName converts a migration name to a safe file name format
func sanitizeName(name string) string {
	result := make([]byte, 0, len(name))
	for i := 0; i < len(name); i++ {
		c := name[i]
		switch {
		case c >= 'a' && c <= 'z', c >= '0' && c <= '9':
			result = append(result, c)
		case c >= 'A' && c <= 'Z':
			result = append(result, c+'a'-'A')
		case c == ' ' || c == '-' || c == '_':
			if len(result) > 0 && result[len(result)-1] != '_' {
				result = append(result, '_')
			}
		}
	}
	return strings.TrimSuffix(string(result), "_")
}

// ListMigrations returns the base names of the migration pairs in a directory
func ListMigrations(migrationsDir string) ([]string, error) {
	entries, err := os.ReadDir(migrationsDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("failed to read migrations directory: %w", err)
	}

	migrations := make([]string, 0)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if base, ok := strings.CutSuffix(entry.Name(), ".up.sql"); ok {
			migrations = append(migrations, base)
		}
	}
	return migrations, nil
}
