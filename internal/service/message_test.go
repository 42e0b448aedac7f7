package service

import (
	"testing"
	"time"

	"messagely/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMessageService_Create_RecipientMissing(t *testing.T) {
	gdb, mock := newMockDB(t)
	svc := NewMessageService(gdb, nil)

	mock.ExpectQuery(`SELECT "username" FROM "users" WHERE username =`).
		WillReturnRows(sqlmock.NewRows([]string{"username"}))

	_, err := svc.Create("alice", "ghost", "hello?")
	assert.ErrorIs(t, err, ErrUserNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMessageService_Create_Success(t *testing.T) {
	gdb, mock := newMockDB(t)
	svc := NewMessageService(gdb, nil)

	mock.ExpectQuery(`SELECT "username" FROM "users" WHERE username =`).
		WillReturnRows(sqlmock.NewRows([]string{"username"}).AddRow("bob"))
	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "messages"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(7))
	mock.ExpectCommit()

	msg, err := svc.Create("alice", "bob", "hello bob")
	require.NoError(t, err)
	assert.Equal(t, uint(7), msg.ID)
	assert.Equal(t, "alice", msg.FromUsername)
	assert.Equal(t, "bob", msg.ToUsername)
	assert.Equal(t, "hello bob", msg.Body)
	assert.False(t, msg.SentAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMessageService_Get_NotFound(t *testing.T) {
	gdb, mock := newMockDB(t)
	svc := NewMessageService(gdb, nil)

	mock.ExpectQuery(`SELECT \* FROM "messages" WHERE`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "from_username", "to_username", "body", "sent_at", "read_at"}))

	_, err := svc.Get(99)
	assert.ErrorIs(t, err, ErrMessageNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMessageService_Get_Found(t *testing.T) {
	gdb, mock := newMockDB(t)
	svc := NewMessageService(gdb, nil)

	sentAt := time.Now()
	rows := sqlmock.NewRows([]string{"id", "from_username", "to_username", "body", "sent_at", "read_at"}).
		AddRow(3, "alice", "bob", "hi", sentAt, nil)
	mock.ExpectQuery(`SELECT \* FROM "messages" WHERE`).
		WillReturnRows(rows)

	msg, err := svc.Get(3)
	require.NoError(t, err)
	assert.Equal(t, "alice", msg.FromUsername)
	assert.Equal(t, "bob", msg.ToUsername)
	assert.Nil(t, msg.ReadAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMessageService_Detail(t *testing.T) {
	gdb, mock := newMockDB(t)
	svc := NewMessageService(gdb, nil)

	rows := sqlmock.NewRows([]string{"username", "first_name", "last_name", "phone"}).
		AddRow("alice", "Alice", "Doe", "555-0101").
		AddRow("bob", "Bob", "Ray", "555-0202")
	mock.ExpectQuery(`SELECT "username","first_name","last_name","phone" FROM "users" WHERE username IN`).
		WillReturnRows(rows)

	msg := models.Message{ID: 3, FromUsername: "alice", ToUsername: "bob", Body: "hi", SentAt: time.Now()}
	detail, err := svc.Detail(msg)
	require.NoError(t, err)
	assert.Equal(t, "alice", detail.FromUser.Username)
	assert.Equal(t, "Bob", detail.ToUser.FirstName)
	assert.Equal(t, "hi", detail.Body)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMessageService_MarkRead(t *testing.T) {
	gdb, mock := newMockDB(t)
	svc := NewMessageService(gdb, nil)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "messages" SET "read_at"`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	msg := models.Message{ID: 3, FromUsername: "alice", ToUsername: "bob"}
	receipt, err := svc.MarkRead(msg)
	require.NoError(t, err)
	assert.Equal(t, uint(3), receipt.ID)
	assert.False(t, receipt.ReadAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMessageService_MarkRead_Gone(t *testing.T) {
	gdb, mock := newMockDB(t)
	svc := NewMessageService(gdb, nil)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "messages" SET "read_at"`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	_, err := svc.MarkRead(models.Message{ID: 99})
	assert.ErrorIs(t, err, ErrMessageNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
