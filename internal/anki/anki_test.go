package anki

import (
	"archive/zip"
	"bytes"
	"database/sql"
	"os"
	"path/filepath"
	"testing"

	_ "modernc.org/sqlite"
)

// buildFixture creates a minimal .apkg on disk: a zip wrapping a SQLite
// collection with the col/notes/cards tables an Anki export carries.
func buildFixture(t *testing.T, decksJSON string, notes []fixtureNote) string {
	t.Helper()

	dir := t.TempDir()
	dbPath := filepath.Join(dir, "collection.anki2")

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		t.Fatalf("open fixture db: %v", err)
	}

	stmts := []string{
		`CREATE TABLE col (id INTEGER PRIMARY KEY, decks TEXT NOT NULL)`,
		`CREATE TABLE notes (id INTEGER PRIMARY KEY, flds TEXT NOT NULL, tags TEXT NOT NULL DEFAULT '')`,
		`CREATE TABLE cards (id INTEGER PRIMARY KEY, nid INTEGER NOT NULL, did INTEGER NOT NULL)`,
	}
	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			t.Fatalf("exec %q: %v", stmt, err)
		}
	}

	if _, err := db.Exec(`INSERT INTO col (id, decks) VALUES (1, ?)`, decksJSON); err != nil {
		t.Fatal(err)
	}
	for i, n := range notes {
		noteID := int64(i + 1)
		if _, err := db.Exec(`INSERT INTO notes (id, flds, tags) VALUES (?, ?, ?)`,
			noteID, n.flds, n.tags); err != nil {
			t.Fatal(err)
		}
		for j, deckID := range n.deckIDs {
			if _, err := db.Exec(`INSERT INTO cards (id, nid, did) VALUES (?, ?, ?)`,
				noteID*100+int64(j), noteID, deckID); err != nil {
				t.Fatal(err)
			}
		}
	}
	if err := db.Close(); err != nil {
		t.Fatal(err)
	}

	dbBytes, err := os.ReadFile(dbPath)
	if err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("collection.anki2")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := w.Write(dbBytes); err != nil {
		t.Fatal(err)
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}

	apkgPath := filepath.Join(dir, "fixture.apkg")
	if err := os.WriteFile(apkgPath, buf.Bytes(), 0o600); err != nil {
		t.Fatal(err)
	}
	return apkgPath
}

type fixtureNote struct {
	flds    string
	tags    string
	deckIDs []int64
}

func TestParseFile(t *testing.T) {
	decksJSON := `{"1":{"name":"Cardiologia"},"2":{"name":"Medicina::Anatomia"}}`
	notes := []fixtureNote{
		{flds: "FC normal\x1f60-100 bpm", tags: "vitais cardio", deckIDs: []int64{1}},
		{flds: "<b>Valva mitral</b>\x1fEntre átrio e ventrículo esquerdos", deckIDs: []int64{2}},
	}

	pkg, err := ParseFile(buildFixture(t, decksJSON, notes))
	if err != nil {
		t.Fatalf("ParseFile: %v", err)
	}

	if len(pkg.Decks) != 2 {
		t.Fatalf("len(decks) = %d, want 2", len(pkg.Decks))
	}
	if pkg.CardCount() != 2 {
		t.Errorf("card count = %d, want 2", pkg.CardCount())
	}

	if pkg.Decks[0].Name != "Cardiologia" {
		t.Errorf("deck[0] = %q", pkg.Decks[0].Name)
	}
	card := pkg.Decks[0].Cards[0]
	if card.Front != "FC normal" || card.Back != "60-100 bpm" {
		t.Errorf("card = %+v", card)
	}
	if len(card.Tags) != 2 || card.Tags[0] != "vitais" {
		t.Errorf("tags = %v", card.Tags)
	}

	// Nested deck names keep only the leaf.
	if pkg.Decks[1].Name != "Anatomia" {
		t.Errorf("deck[1] = %q", pkg.Decks[1].Name)
	}
	// HTML fields come back as markdown.
	if pkg.Decks[1].Cards[0].Front != "**Valva mitral**" {
		t.Errorf("front = %q", pkg.Decks[1].Cards[0].Front)
	}
}

func TestParseFile_MultipleCardsPerNote(t *testing.T) {
	decksJSON := `{"1":{"name":"Farmacologia"}}`
	notes := []fixtureNote{
		// A note producing two cards in the same deck collapses to one flashcard.
		{flds: "Adenosina\x1fAntiarrítmico", deckIDs: []int64{1, 1}},
	}

	pkg, err := ParseFile(buildFixture(t, decksJSON, notes))
	if err != nil {
		t.Fatal(err)
	}
	if pkg.CardCount() != 1 {
		t.Errorf("card count = %d, want 1", pkg.CardCount())
	}
}

func TestParseFile_EmptyFront(t *testing.T) {
	decksJSON := `{"1":{"name":"Vazio"}}`
	notes := []fixtureNote{
		{flds: "\x1fsó verso", deckIDs: []int64{1}},
	}

	pkg, err := ParseFile(buildFixture(t, decksJSON, notes))
	if err != nil {
		t.Fatal(err)
	}
	if pkg.CardCount() != 0 {
		t.Errorf("empty-front card imported, count = %d", pkg.CardCount())
	}
}

func TestParse_NotAZip(t *testing.T) {
	if _, err := Parse([]byte("definitely not a zip")); err == nil {
		t.Fatal("expected error for non-zip input")
	}
}

func TestParse_NoCollection(t *testing.T) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("media")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := w.Write([]byte("{}")); err != nil {
		t.Fatal(err)
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}

	_, err = Parse(buf.Bytes())
	if err != ErrNoCollection {
		t.Errorf("got %v, want ErrNoCollection", err)
	}
}

func TestFieldToMarkdown(t *testing.T) {
	cases := []struct{ in, want string }{
		{"texto simples", "texto simples"},
		{"<b>negrito</b> ", "**negrito**"},
		{"<i>itálico</i>", "*itálico*"},
		{"", ""},
	}
	for _, c := range cases {
		if got := fieldToMarkdown(c.in); got != c.want {
			t.Errorf("fieldToMarkdown(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}
