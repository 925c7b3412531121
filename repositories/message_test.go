package repositories

import (
	"log/slog"
	"testing"
	"time"

	"chat-hub/domain"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
	"github.com/samber/lo"
	"github.com/stretchr/testify/require"
)

func openDB(t *testing.T) *badger.DB {
	t.Helper()
	db, err := badger.Open(badger.DefaultOptions(t.TempDir()).WithLoggingLevel(badger.ERROR))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func directMessage(authorID, recipientID, content string, at time.Time) domain.Message {
	return domain.Message{
		ID:          uuid.New(),
		Content:     content,
		AuthorID:    authorID,
		RecipientID: lo.ToPtr(recipientID),
		CreatedAt:   at,
	}
}

func Test_Store_And_Fetch_Direct_History(t *testing.T) {
	req := require.New(t)
	repository := NewMessageRepository(openDB(t), slog.Default(), nil)
	alice := uuid.NewString()
	bob := uuid.NewString()
	at := time.Now().UTC()

	stored := []domain.Message{
		directMessage(alice, bob, "first", at),
		directMessage(bob, alice, "second", at.Add(1*time.Minute)),
		directMessage(alice, bob, "third", at.Add(2*time.Minute)),
	}
	for _, message := range stored {
		req.NoError(repository.StoreMessage(message))
	}

	// History comes back newest first, both directions merged
	fetched, _, err := repository.GetDirectMessages(alice, bob, nil)
	req.NoError(err)
	req.Len(fetched, 3)
	req.Equal("third", fetched[0].Content)
	req.Equal("first", fetched[2].Content)

	// The pair key is unordered: either side fetches the same history
	mirrored, _, err := repository.GetDirectMessages(bob, alice, nil)
	req.NoError(err)
	req.Equal(fetched, mirrored)
}

func Test_Direct_History_Cursor_Pagination(t *testing.T) {
	req := require.New(t)
	limit := 2
	repository := NewMessageRepository(openDB(t), slog.Default(), &limit)
	alice := uuid.NewString()
	bob := uuid.NewString()
	at := time.Now().UTC()

	for i, content := range []string{"one", "two", "three", "four", "five"} {
		req.NoError(repository.StoreMessage(
			directMessage(alice, bob, content, at.Add(time.Duration(i)*time.Minute))))
	}

	page1, cursor, err := repository.GetDirectMessages(alice, bob, nil)
	req.NoError(err)
	req.Len(page1, 2)
	req.Equal("five", page1[0].Content)
	req.Equal("four", page1[1].Content)
	req.NotNil(cursor)

	page2, cursor, err := repository.GetDirectMessages(alice, bob, cursor)
	req.NoError(err)
	req.Len(page2, 2)
	req.Equal("three", page2[0].Content)
	req.Equal("two", page2[1].Content)

	page3, _, err := repository.GetDirectMessages(alice, bob, cursor)
	req.NoError(err)
	req.Len(page3, 1)
	req.Equal("one", page3[0].Content)
}

func Test_Group_History_Is_Scoped_Per_Group(t *testing.T) {
	req := require.New(t)
	repository := NewMessageRepository(openDB(t), slog.Default(), nil)
	groupA := uuid.NewString()
	groupB := uuid.NewString()
	author := uuid.NewString()
	at := time.Now().UTC()

	inA := domain.Message{ID: uuid.New(), Content: "for A", AuthorID: author,
		GroupID: lo.ToPtr(groupA), CreatedAt: at}
	inB := domain.Message{ID: uuid.New(), Content: "for B", AuthorID: author,
		GroupID: lo.ToPtr(groupB), CreatedAt: at}
	req.NoError(repository.StoreMessage(inA))
	req.NoError(repository.StoreMessage(inB))

	fetched, _, err := repository.GetGroupMessages(groupA, nil)
	req.NoError(err)
	req.Len(fetched, 1)
	req.Equal("for A", fetched[0].Content)
}

func Test_Direct_Conversations_Keep_Latest_Message(t *testing.T) {
	req := require.New(t)
	repository := NewMessageRepository(openDB(t), slog.Default(), nil)
	alice := uuid.NewString()
	bob := uuid.NewString()
	clara := uuid.NewString()
	at := time.Now().UTC()

	req.NoError(repository.StoreMessage(directMessage(alice, bob, "old", at)))
	req.NoError(repository.StoreMessage(directMessage(bob, alice, "newer", at.Add(time.Minute))))
	req.NoError(repository.StoreMessage(directMessage(clara, alice, "hello", at.Add(2*time.Minute))))

	conversations, err := repository.DirectConversations(alice)
	req.NoError(err)
	req.Len(conversations, 2)

	byPartner := make(map[string]domain.Message, len(conversations))
	for _, entry := range conversations {
		byPartner[entry.PartnerID] = entry.LastMessage
	}
	req.Equal("newer", byPartner[bob].Content)
	req.Equal("hello", byPartner[clara].Content)

	// The partner side indexes the same exchange
	mirror, err := repository.DirectConversations(bob)
	req.NoError(err)
	req.Len(mirror, 1)
	req.Equal("newer", mirror[0].LastMessage.Content)
}
