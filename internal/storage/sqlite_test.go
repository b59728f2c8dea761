package storage

import (
	"path/filepath"
	"testing"
)

func TestSQLite_Provider(t *testing.T) {
	db, err := OpenSQLite(filepath.Join(t.TempDir(), "neuronpad.db"))
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	exerciseProvider(t, db)
}

func TestSQLite_SchemaCreation(t *testing.T) {
	db, err := OpenSQLite(filepath.Join(t.TempDir(), "neuronpad.db"))
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	defer db.Close()
	var count int
	if err := db.conn.QueryRow(`SELECT count(*) FROM records`).Scan(&count); err != nil {
		t.Fatalf("records table missing: %v", err)
	}
}
