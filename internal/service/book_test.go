package service

import (
	"testing"

	"messagely/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var bookColumns = []string{"isbn", "amazon_url", "author", "language", "pages", "publisher", "title", "year"}

func TestBookService_FindOne_NotFound(t *testing.T) {
	gdb, mock := newMockDB(t)
	svc := NewBookService(gdb)

	mock.ExpectQuery(`SELECT \* FROM "books" WHERE isbn =`).
		WillReturnRows(sqlmock.NewRows(bookColumns))

	_, err := svc.FindOne("0000000000")
	assert.ErrorIs(t, err, ErrBookNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBookService_FindAll(t *testing.T) {
	gdb, mock := newMockDB(t)
	svc := NewBookService(gdb)

	rows := sqlmock.NewRows(bookColumns).
		AddRow("0691161518", "http://a.co/eobPtX2", "Matthew Lane", "english", 264, "Princeton University Press", "Power-Up", 2017).
		AddRow("1234567890", "", "Someone Else", "english", 100, "Nobody Press", "Quiet Book", 2020)
	mock.ExpectQuery(`SELECT \* FROM "books"`).
		WillReturnRows(rows)

	books, err := svc.FindAll()
	require.NoError(t, err)
	require.Len(t, books, 2)
	assert.Equal(t, "Power-Up", books[0].Title)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBookService_Create_DuplicateISBN(t *testing.T) {
	gdb, mock := newMockDB(t)
	svc := NewBookService(gdb)

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO "books"`).
		WillReturnError(&pgconn.PgError{Code: "23505"})
	mock.ExpectRollback()

	_, err := svc.Create(models.Book{ISBN: "0691161518", Author: "Matthew Lane", Title: "Power-Up"})
	assert.ErrorIs(t, err, ErrISBNTaken)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBookService_Create_Success(t *testing.T) {
	gdb, mock := newMockDB(t)
	svc := NewBookService(gdb)

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO "books"`).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	book, err := svc.Create(models.Book{ISBN: "0691161518", Author: "Matthew Lane", Title: "Power-Up", Year: 2017})
	require.NoError(t, err)
	assert.Equal(t, "0691161518", book.ISBN)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBookService_Remove_NotFound(t *testing.T) {
	gdb, mock := newMockDB(t)
	svc := NewBookService(gdb)

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM "books"`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	err := svc.Remove("0000000000")
	assert.ErrorIs(t, err, ErrBookNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBookService_Update_NotFound(t *testing.T) {
	gdb, mock := newMockDB(t)
	svc := NewBookService(gdb)

	mock.ExpectQuery(`SELECT \* FROM "books" WHERE isbn =`).
		WillReturnRows(sqlmock.NewRows(bookColumns))

	_, err := svc.Update("0000000000", models.Book{Author: "Nobody", Title: "Nothing"})
	assert.ErrorIs(t, err, ErrBookNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
