package db

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/kylehosman/anytask/internal/models"
)

func testDB(t *testing.T) *DB {
	t.Helper()
	db, err := Initialize(t.TempDir())
	if err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestInitialize(t *testing.T) {
	dir := t.TempDir()

	db, err := Initialize(dir)
	if err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}
	defer db.Close()

	if _, err := os.Stat(filepath.Join(dir, "tasks.db")); os.IsNotExist(err) {
		t.Error("Database file not created")
	}

	// First launch bootstraps the non-editable default section
	sections, err := db.ListSections()
	if err != nil {
		t.Fatalf("ListSections failed: %v", err)
	}
	if len(sections) != 1 {
		t.Fatalf("Expected 1 bootstrapped section, got %d", len(sections))
	}
	if sections[0].Name != DefaultSectionName {
		t.Errorf("Default section name = %q, want %q", sections[0].Name, DefaultSectionName)
	}
	if sections[0].Editable {
		t.Error("Default section should not be editable")
	}
	if sections[0].Position != 0 {
		t.Errorf("Default section position = %d, want 0", sections[0].Position)
	}
}

func TestInitializeIdempotentBootstrap(t *testing.T) {
	dir := t.TempDir()
	db, err := Initialize(dir)
	if err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}
	db.Close()

	db, err = Open(dir)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer db.Close()

	if err := db.BootstrapDefaultSection(); err != nil {
		t.Fatalf("BootstrapDefaultSection failed: %v", err)
	}
	sections, _ := db.ListSections()
	if len(sections) != 1 {
		t.Errorf("Bootstrap duplicated the default section: %d sections", len(sections))
	}
}

func TestCreateAndGetSection(t *testing.T) {
	db := testDB(t)

	section := &models.Section{
		Name:     "Groceries",
		Color:    models.ColorGreen,
		Icon:     models.IconCart,
		Editable: true,
	}
	if err := db.CreateSection(section); err != nil {
		t.Fatalf("CreateSection failed: %v", err)
	}
	if section.ID == "" {
		t.Error("Section ID not set")
	}
	// Appended after the bootstrapped default
	if section.Position != 1 {
		t.Errorf("Position = %d, want 1", section.Position)
	}

	got, err := db.GetSection(section.ID)
	if err != nil {
		t.Fatalf("GetSection failed: %v", err)
	}
	if got.Name != "Groceries" || got.Color != models.ColorGreen || got.Icon != models.IconCart {
		t.Errorf("Round-trip mismatch: %+v", got)
	}
	if !got.Editable {
		t.Error("Editable not persisted")
	}
}

func TestCreateSectionInvalidColor(t *testing.T) {
	db := testDB(t)
	err := db.CreateSection(&models.Section{Name: "Bad", Color: "chartreuse", Editable: true})
	if err == nil {
		t.Fatal("Expected error for invalid color")
	}
}

func TestGetSectionByName(t *testing.T) {
	db := testDB(t)
	if err := db.CreateSection(&models.Section{Name: "Work", Color: models.ColorBlue, Editable: true}); err != nil {
		t.Fatalf("CreateSection failed: %v", err)
	}

	got, err := db.GetSectionByName("work")
	if err != nil {
		t.Fatalf("GetSectionByName (case-insensitive) failed: %v", err)
	}
	if got.Name != "Work" {
		t.Errorf("Name = %q, want Work", got.Name)
	}

	if _, err := db.GetSectionByName("nope"); err == nil {
		t.Error("Expected error for unknown section name")
	}
}

func TestUpdateSection(t *testing.T) {
	db := testDB(t)
	section := &models.Section{Name: "Old", Color: models.ColorRed, Editable: true}
	if err := db.CreateSection(section); err != nil {
		t.Fatalf("CreateSection failed: %v", err)
	}

	section.Name = "New"
	section.Color = models.ColorPurple
	section.Icon = models.IconStar
	if err := db.UpdateSection(section); err != nil {
		t.Fatalf("UpdateSection failed: %v", err)
	}

	got, _ := db.GetSection(section.ID)
	if got.Name != "New" || got.Color != models.ColorPurple || got.Icon != models.IconStar {
		t.Errorf("Update not persisted: %+v", got)
	}
}

func TestUpdateBuiltinSectionRejected(t *testing.T) {
	db := testDB(t)
	def, err := db.GetSectionByName(DefaultSectionName)
	if err != nil {
		t.Fatalf("default section missing: %v", err)
	}

	def.Name = "Renamed"
	if err := db.UpdateSection(def); err == nil {
		t.Error("Expected error updating built-in section")
	}
	if err := db.DeleteSection(def.ID); err == nil {
		t.Error("Expected error deleting built-in section")
	}
}

func TestDeleteSectionCascades(t *testing.T) {
	db := testDB(t)
	section := &models.Section{Name: "Doomed", Color: models.ColorRed, Editable: true}
	if err := db.CreateSection(section); err != nil {
		t.Fatalf("CreateSection failed: %v", err)
	}

	var ids []string
	for _, text := range []string{"one", "two", "three"} {
		task := &models.Task{Text: text, SectionID: section.ID}
		if err := db.CreateTask(task); err != nil {
			t.Fatalf("CreateTask failed: %v", err)
		}
		ids = append(ids, task.ID)
	}

	if err := db.DeleteSection(section.ID); err != nil {
		t.Fatalf("DeleteSection failed: %v", err)
	}

	for _, id := range ids {
		if _, err := db.GetTask(id); err == nil {
			t.Errorf("Task %s survived section delete", id)
		}
	}
	if _, err := db.GetSection(section.ID); err == nil {
		t.Error("Section survived its own delete")
	}
}

func TestMoveSection(t *testing.T) {
	db := testDB(t)
	names := []string{"A", "B", "C"}
	var created []models.Section
	for _, n := range names {
		s := models.Section{Name: n, Color: models.ColorBlue, Editable: true}
		if err := db.CreateSection(&s); err != nil {
			t.Fatalf("CreateSection failed: %v", err)
		}
		created = append(created, s)
	}

	// Move C (slot 3, after default at 0) to the front
	if err := db.MoveSection(created[2].ID, 0); err != nil {
		t.Fatalf("MoveSection failed: %v", err)
	}

	sections, _ := db.ListSections()
	var gotNames []string
	for _, s := range sections {
		gotNames = append(gotNames, s.Name)
		if s.Position != len(gotNames)-1 {
			t.Errorf("Section %s position = %d, want %d", s.Name, s.Position, len(gotNames)-1)
		}
	}
	want := []string{"C", DefaultSectionName, "A", "B"}
	for i := range want {
		if gotNames[i] != want[i] {
			t.Errorf("Order[%d] = %s, want %s", i, gotNames[i], want[i])
		}
	}
}

func TestNormalizeSectionID(t *testing.T) {
	if got := NormalizeSectionID("abc123"); got != "sec-abc123" {
		t.Errorf("NormalizeSectionID = %q", got)
	}
	if got := NormalizeSectionID("sec-abc123"); got != "sec-abc123" {
		t.Errorf("NormalizeSectionID double-prefixed: %q", got)
	}
	if got := NormalizeSectionID(""); got != "" {
		t.Errorf("NormalizeSectionID empty = %q", got)
	}
}
