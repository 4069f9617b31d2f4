package testhelpers

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"
)

// UpMigrations возвращает пути *.up.sql из каталога в порядке применения
func UpMigrations(migrationsPath string) ([]string, error) {
	entries, err := os.ReadDir(migrationsPath)
	if err != nil {
		return nil, fmt.Errorf("read migrations dir: %w", err)
	}

	var files []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".up.sql") {
			continue
		}
		files = append(files, filepath.Join(migrationsPath, e.Name()))
	}
	// префикс 000001_ задает порядок
	sort.Strings(files)

	return files, nil
}

// ApplyMigrations применяет up-миграции журнала к тестовой БД
func (tdb *TestDB) ApplyMigrations(t testing.TB, migrationsPath string) error {
	t.Helper()

	files, err := UpMigrations(migrationsPath)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("no up migrations in %s", migrationsPath)
	}

	ctx := context.Background()
	for _, file := range files {
		content, err := os.ReadFile(file)
		if err != nil {
			return fmt.Errorf("read migration %s: %w", file, err)
		}

		if _, err := tdb.DB.ExecContext(ctx, string(content)); err != nil {
			return fmt.Errorf("apply migration %s: %w", filepath.Base(file), err)
		}
		t.Logf("Applied migration: %s", filepath.Base(file))
	}

	return nil
}
