package testhelpers

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
)

// LoadFixtures loads SQL fixture files into the database
func LoadFixtures(db *sql.DB, fixturesPath string, files []string) error {
	for _, file := range files {
		path := filepath.Join(fixturesPath, file)
		content, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read fixture %s: %w", file, err)
		}

		if _, err := db.Exec(string(content)); err != nil {
			return fmt.Errorf("load fixture %s: %w", file, err)
		}
		fmt.Printf("Loaded fixture: %s\n", file)
	}

	return nil
}

// GetRateRecordIDByCounty returns the internal ID for a rate record given its
// state/county pair, for use in test assertions after loading fixtures.
func GetRateRecordIDByCounty(db *sql.DB, state, county string) (int64, error) {
	var id int64
	err := db.QueryRowContext(context.Background(),
		"SELECT id FROM rate_records WHERE state = $1 AND county = $2", state, county).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("get rate record ID for %s/%s: %w", state, county, err)
	}
	return id, nil
}
