package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"gitlab.com/dirk.krummacker/contacts-web/internal/model"
)

// ErrNotFound is returned when no contact with the requested id exists.
var ErrNotFound = errors.New("contact not found")

// columns is the explicit column list of the contacts table, in struct order.
const columns = "id, firstname, lastname, twitter, avatar, notes, favorite, created_at"

// likeEscaper escapes the LIKE wildcards so that a search term is matched literally.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// Store is the record store for contacts, backed by a MySQL database.
type Store struct {
	db *sqlx.DB

	// insert is a prepared statement for creating a contact.
	insert *sqlx.Stmt
	// selectWhereId is a prepared statement for selecting the contact with a given id.
	selectWhereId *sqlx.Stmt
	// deleteWhereId is a prepared statement for deleting the contact with a given id.
	deleteWhereId *sqlx.Stmt

	newID func() string
	now   func() time.Time
}

// Open initializes and returns a MySQL database handle for the given DSN.
func Open(dsn string) (*sql.DB, error) {
	sqlDB, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return sqlDB, nil
}

// New wraps the specified sql database with sqlx and prepares all statements. The database
// argument can be a real database for production use or a mock database within unit tests.
func New(sqlDB *sql.DB) (*Store, error) {
	s := &Store{
		db:    sqlx.NewDb(sqlDB, "mysql"),
		newID: uuid.NewString,
		now:   func() time.Time { return time.Now().UTC() },
	}
	statements := []struct {
		name  string
		query string
		stmt  **sqlx.Stmt
	}{
		{"insert", `INSERT INTO contacts (id, favorite, created_at) VALUES (?, FALSE, ?)`, &s.insert},
		{"select", `SELECT ` + columns + ` FROM contacts WHERE id = ?`, &s.selectWhereId},
		{"delete", `DELETE FROM contacts WHERE id = ?`, &s.deleteWhereId},
	}
	for _, statement := range statements {
		stmt, err := s.db.Preparex(statement.query)
		if err != nil {
			// Statements prepared so far must not outlive the failed setup.
			s.closeStatements()
			return nil, fmt.Errorf("prepare %s: %w", statement.name, err)
		}
		*statement.stmt = stmt
	}
	return s, nil
}

// List returns the contacts whose first or last name contains q. An empty q
// returns all contacts. Contacts are ordered by last name, then by creation time.
func (s *Store) List(ctx context.Context, q string) ([]model.Contact, error) {
	contacts := []model.Contact{}
	var err error
	if q == "" {
		err = s.db.SelectContext(ctx, &contacts, `
			SELECT `+columns+`
			FROM contacts
			ORDER BY lastname, created_at`)
	} else {
		pattern := "%" + likeEscaper.Replace(q) + "%"
		err = s.db.SelectContext(ctx, &contacts, `
			SELECT `+columns+`
			FROM contacts
			WHERE firstname LIKE ? OR lastname LIKE ?
			ORDER BY lastname, created_at`, pattern, pattern)
	}
	if err != nil {
		return nil, fmt.Errorf("list contacts: %w", err)
	}
	return contacts, nil
}

// Get returns the contact with the given id, or ErrNotFound.
func (s *Store) Get(ctx context.Context, id string) (model.Contact, error) {
	var contact model.Contact
	err := s.selectWhereId.GetContext(ctx, &contact, id)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Contact{}, ErrNotFound
	}
	if err != nil {
		return model.Contact{}, fmt.Errorf("get contact %s: %w", id, err)
	}
	return contact, nil
}

// Create inserts an empty contact with a fresh id and returns it.
func (s *Store) Create(ctx context.Context) (model.Contact, error) {
	contact := model.Contact{Id: s.newID(), CreatedAt: s.now()}
	if _, err := s.insert.ExecContext(ctx, contact.Id, contact.CreatedAt); err != nil {
		return model.Contact{}, fmt.Errorf("create contact: %w", err)
	}
	return contact, nil
}

// Update writes the submitted fields of the update (and only those) to the
// contact with the given id.
func (s *Store) Update(ctx context.Context, id string, update model.ContactUpdate) error {
	// Nothing to write, but the contact still has to exist.
	if update.IsEmpty() {
		_, err := s.Get(ctx, id)
		return err
	}

	var sets []string
	var args []interface{}
	set := func(column string, value interface{}) {
		sets = append(sets, column+" = ?")
		args = append(args, value)
	}
	if update.FirstName != nil {
		set("firstname", *update.FirstName)
	}
	if update.LastName != nil {
		set("lastname", *update.LastName)
	}
	if update.Twitter != nil {
		set("twitter", *update.Twitter)
	}
	if update.Avatar != nil {
		set("avatar", *update.Avatar)
	}
	if update.Notes != nil {
		set("notes", *update.Notes)
	}
	if update.Favorite != nil {
		set("favorite", *update.Favorite)
	}
	args = append(args, id)

	sql := "UPDATE contacts SET " + strings.Join(sets, ", ") + " WHERE id = ?"
	result, err := s.db.ExecContext(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("update contact %s: %w", id, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update contact %s: %w", id, err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes the contact with the given id, or returns ErrNotFound.
func (s *Store) Delete(ctx context.Context, id string) error {
	result, err := s.deleteWhereId.ExecContext(ctx, id)
	if err != nil {
		return fmt.Errorf("delete contact %s: %w", id, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete contact %s: %w", id, err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Close releases the prepared statements and the database handle.
func (s *Store) Close() error {
	return errors.Join(s.closeStatements(), s.db.Close())
}

// closeStatements closes all statements that have been prepared.
func (s *Store) closeStatements() error {
	var errs []error
	for _, stmt := range []*sqlx.Stmt{s.insert, s.selectWhereId, s.deleteWhereId} {
		if stmt == nil {
			continue
		}
		if err := stmt.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
