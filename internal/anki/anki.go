// Package anki reads Anki .apkg packages and converts their notes into
// flashcards. An .apkg file is a zip archive holding a SQLite database
// (collection.anki2, or collection.anki21 for newer exports) plus media;
// only the database is read, media is ignored.
package anki

import (
	"archive/zip"
	"bytes"
	"database/sql"
	"encoding/json/v2"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"
)

// Anki separates note fields with the unit-separator control character.
const fieldSeparator = "\x1f"

// collection database names inside the archive, newest schema first.
var collectionNames = []string{"collection.anki21", "collection.anki2"}

// ErrNoCollection is returned when the archive holds no collection database.
var ErrNoCollection = errors.New("no collection database found in package")

// Card is one imported flashcard.
type Card struct {
	Front string   `json:"front"`
	Back  string   `json:"back"`
	Tags  []string `json:"tags,omitempty"`
}

// Deck is a named group of imported cards.
type Deck struct {
	Name  string `json:"name"`
	Cards []Card `json:"cards"`
}

// Package is the parsed content of an .apkg file.
type Package struct {
	Decks []Deck `json:"decks"`
}

// CardCount returns the total number of cards across all decks.
func (p *Package) CardCount() int {
	n := 0
	for _, d := range p.Decks {
		n += len(d.Cards)
	}
	return n
}

// ParseFile reads an .apkg archive from disk.
func ParseFile(path string) (*Package, error) {
	r, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("open package: %w", err)
	}
	defer r.Close()

	return parseArchive(&r.Reader)
}

// Parse reads an .apkg archive from memory.
func Parse(data []byte) (*Package, error) {
	r, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("open package: %w", err)
	}
	return parseArchive(r)
}

func parseArchive(r *zip.Reader) (*Package, error) {
	var collection *zip.File
	for _, name := range collectionNames {
		for _, f := range r.File {
			if f.Name == name {
				collection = f
				break
			}
		}
		if collection != nil {
			break
		}
	}
	if collection == nil {
		return nil, ErrNoCollection
	}

	// SQLite needs a real file, so extract the database to a temp path.
	dbPath, cleanup, err := extractToTemp(collection)
	if err != nil {
		return nil, err
	}
	defer cleanup()

	return readCollection(dbPath)
}

// extractToTemp writes the collection database to a temporary file and
// returns its path together with a cleanup func.
func extractToTemp(f *zip.File) (string, func(), error) {
	src, err := f.Open()
	if err != nil {
		return "", nil, fmt.Errorf("open collection entry: %w", err)
	}
	defer src.Close()

	tmpDir, err := os.MkdirTemp("", "anki-import-")
	if err != nil {
		return "", nil, fmt.Errorf("create temp dir: %w", err)
	}
	cleanup := func() { os.RemoveAll(tmpDir) }

	dbPath := filepath.Join(tmpDir, "collection.db")
	dst, err := os.Create(dbPath) //#nosec G304 -- Path is under our own temp dir
	if err != nil {
		cleanup()
		return "", nil, fmt.Errorf("create temp db: %w", err)
	}

	if _, err := io.Copy(dst, src); err != nil { //#nosec G110 -- Bounded by the upload size limit enforced upstream
		dst.Close()
		cleanup()
		return "", nil, fmt.Errorf("extract collection: %w", err)
	}
	if err := dst.Close(); err != nil {
		cleanup()
		return "", nil, fmt.Errorf("close temp db: %w", err)
	}

	return dbPath, cleanup, nil
}

// readCollection opens the extracted collection database read-only and
// assembles decks from the col/notes/cards tables.
func readCollection(dbPath string) (*Package, error) {
	db, err := sql.Open("sqlite", "file:"+dbPath+"?mode=ro")
	if err != nil {
		return nil, fmt.Errorf("open collection db: %w", err)
	}
	defer db.Close()

	deckNames, err := readDeckNames(db)
	if err != nil {
		return nil, err
	}

	// One note can produce several cards; DISTINCT collapses them back to
	// one flashcard per note and deck.
	rows, err := db.Query(`
		SELECT DISTINCT c.did, n.flds, n.tags
		FROM cards c
		JOIN notes n ON n.id = c.nid
		ORDER BY c.did, n.id`)
	if err != nil {
		return nil, fmt.Errorf("query notes: %w", err)
	}
	defer rows.Close()

	byDeck := map[int64][]Card{}
	var deckOrder []int64

	for rows.Next() {
		var (
			deckID int64
			flds   string
			tags   string
		)
		if err := rows.Scan(&deckID, &flds, &tags); err != nil {
			return nil, fmt.Errorf("scan note: %w", err)
		}

		card := noteToCard(flds, tags)
		if card.Front == "" {
			continue
		}
		if _, seen := byDeck[deckID]; !seen {
			deckOrder = append(deckOrder, deckID)
		}
		byDeck[deckID] = append(byDeck[deckID], card)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration: %w", err)
	}

	pkg := &Package{Decks: []Deck{}}
	for _, deckID := range deckOrder {
		name := deckNames[deckID]
		if name == "" {
			name = fmt.Sprintf("Deck %d", deckID)
		}
		pkg.Decks = append(pkg.Decks, Deck{
			Name:  name,
			Cards: byDeck[deckID],
		})
	}

	return pkg, nil
}

// readDeckNames extracts deck id to name from the col table's decks JSON.
func readDeckNames(db *sql.DB) (map[int64]string, error) {
	var decksJSON string
	err := db.QueryRow(`SELECT decks FROM col LIMIT 1`).Scan(&decksJSON)
	if err == sql.ErrNoRows {
		return map[int64]string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read col.decks: %w", err)
	}

	var raw map[int64]struct {
		Name string `json:"name"`
	}
	if err := json.Unmarshal([]byte(decksJSON), &raw); err != nil {
		return nil, fmt.Errorf("parse decks json: %w", err)
	}

	names := make(map[int64]string, len(raw))
	for deckID, d := range raw {
		// Anki encodes nesting as "Parent::Child"; keep the leaf name.
		name := d.Name
		if i := strings.LastIndex(name, "::"); i >= 0 {
			name = name[i+2:]
		}
		names[deckID] = strings.TrimSpace(name)
	}
	return names, nil
}

// noteToCard converts a note's raw fields into a flashcard.
// The first field becomes the front, the second the back; extra fields are
// appended to the back separated by blank lines.
func noteToCard(flds, tags string) Card {
	fields := strings.Split(flds, fieldSeparator)

	card := Card{Front: fieldToMarkdown(fields[0])}

	var backParts []string
	for _, f := range fields[1:] {
		if md := fieldToMarkdown(f); md != "" {
			backParts = append(backParts, md)
		}
	}
	card.Back = strings.Join(backParts, "\n\n")

	if fields := strings.Fields(tags); len(fields) > 0 {
		card.Tags = fields
	}

	return card
}
