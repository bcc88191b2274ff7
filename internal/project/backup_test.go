package project

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/piwi3910/cutlist/internal/model"
)

func TestBackupPath(t *testing.T) {
	ts := time.Date(2024, 3, 1, 7, 30, 5, 0, time.FixedZone("EST", -5*3600))
	got := BackupPath(filepath.Join("plans", "bookcase.yaml"), ts)
	want := filepath.Join("plans", "bookcase.bak-20240301T123005Z.yaml")
	if got != want {
		t.Errorf("expected %s, got %s", want, got)
	}
}

func TestBackup(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bookcase.toml")

	p := model.NewProject()
	p.Name = "Bookcase"
	p.Stocks = []model.Stock{{ID: "ply", Name: "Ply", Length: 96, Width: 48, Thickness: 0.75}}
	if err := Save(path, p); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	dest, err := Backup(path, time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("Backup failed: %v", err)
	}
	if dest == "" {
		t.Fatal("expected a backup path")
	}

	loaded, err := Load(dest)
	if err != nil {
		t.Fatalf("backup does not load as a project: %v", err)
	}
	if loaded.Name != "Bookcase" || len(loaded.Stocks) != 1 {
		t.Errorf("backup content differs: %+v", loaded)
	}

	original, _ := os.ReadFile(path)
	copied, _ := os.ReadFile(dest)
	if string(original) != string(copied) {
		t.Error("backup is not a byte-for-byte copy")
	}
}

func TestBackupMissingFile(t *testing.T) {
	dest, err := Backup(filepath.Join(t.TempDir(), "new.yaml"), time.Now())
	if err != nil {
		t.Fatalf("expected no error for missing file, got %v", err)
	}
	if dest != "" {
		t.Errorf("expected no backup, got %s", dest)
	}
}
