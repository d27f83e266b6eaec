package db

import "context"

const addChat = `
INSERT INTO chats (public_id, title)
VALUES ($1, $2)
RETURNING id, created_at, updated_at
`

type AddChatParams struct {
	PublicID string
	Title    string
}

func (q *Queries) AddChat(ctx context.Context, arg AddChatParams) (Chat, error) {
	row := q.conn.QueryRow(ctx, addChat, arg.PublicID, arg.Title)

	chat := Chat{
		PublicID: arg.PublicID,
		Title:    arg.Title,
	}
	err := row.Scan(&chat.ID, &chat.CreatedAt, &chat.UpdatedAt)
	return chat, err
}

const getChats = `
SELECT id, public_id, title, created_at, updated_at
FROM chats
ORDER BY updated_at DESC
LIMIT $1
`

func (q *Queries) GetChats(ctx context.Context, limit int32) ([]Chat, error) {
	rows, err := q.conn.Query(ctx, getChats, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var chats []Chat
	for rows.Next() {
		var chat Chat
		if err := rows.Scan(&chat.ID, &chat.PublicID, &chat.Title, &chat.CreatedAt, &chat.UpdatedAt); err != nil {
			return nil, err
		}
		chats = append(chats, chat)
	}
	return chats, rows.Err()
}

const getChatByPublicID = `
SELECT id, public_id, title, created_at, updated_at
FROM chats
WHERE public_id = $1
`

func (q *Queries) GetChatByPublicID(ctx context.Context, publicID string) (Chat, error) {
	row := q.conn.QueryRow(ctx, getChatByPublicID, publicID)

	var chat Chat
	err := row.Scan(&chat.ID, &chat.PublicID, &chat.Title, &chat.CreatedAt, &chat.UpdatedAt)
	return chat, err
}

const deleteChatByPublicID = `
DELETE FROM chats
WHERE public_id = $1
`

func (q *Queries) DeleteChatByPublicID(ctx context.Context, publicID string) (int64, error) {
	tag, err := q.conn.Exec(ctx, deleteChatByPublicID, publicID)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

const addChatMessage = `
INSERT INTO chat_messages (chat_id, public_id, role, content, thinking, report_id)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING id, created_at
`

type AddChatMessageParams struct {
	ChatID   int64
	PublicID string
	Role     string
	Content  string
	Thinking []byte
	ReportID string
}

func (q *Queries) AddChatMessage(ctx context.Context, arg AddChatMessageParams) (ChatMessage, error) {
	row := q.conn.QueryRow(ctx, addChatMessage,
		arg.ChatID,
		arg.PublicID,
		arg.Role,
		arg.Content,
		arg.Thinking,
		arg.ReportID,
	)

	msg := ChatMessage{
		ChatID:   arg.ChatID,
		PublicID: arg.PublicID,
		Role:     arg.Role,
		Content:  arg.Content,
		Thinking: arg.Thinking,
		ReportID: arg.ReportID,
	}
	err := row.Scan(&msg.ID, &msg.CreatedAt)
	return msg, err
}

const getChatMessages = `
SELECT id, chat_id, public_id, role, content, thinking, report_id, created_at
FROM chat_messages
WHERE chat_id = $1
ORDER BY id ASC
`

func (q *Queries) GetChatMessages(ctx context.Context, chatID int64) ([]ChatMessage, error) {
	rows, err := q.conn.Query(ctx, getChatMessages, chatID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var msgs []ChatMessage
	for rows.Next() {
		var msg ChatMessage
		if err := rows.Scan(
			&msg.ID,
			&msg.ChatID,
			&msg.PublicID,
			&msg.Role,
			&msg.Content,
			&msg.Thinking,
			&msg.ReportID,
			&msg.CreatedAt,
		); err != nil {
			return nil, err
		}
		msgs = append(msgs, msg)
	}
	return msgs, rows.Err()
}

const touchChat = `
UPDATE chats
SET updated_at = now()
WHERE id = $1
`

func (q *Queries) TouchChat(ctx context.Context, chatID int64) error {
	_, err := q.conn.Exec(ctx, touchChat, chatID)
	return err
}
