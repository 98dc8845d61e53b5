package store

import (
	"database/sql"

	"github.com/theirongolddev/budget/internal/model"
)

// SaveMessage appends one chat message.
func (s *Store) SaveMessage(m model.ChatMessage) error {
	_, err := s.db.Exec(`INSERT INTO chat_messages (id, content, from_user, sent_at) VALUES (?, ?, ?, ?)`,
		m.ID, m.Content, boolInt(m.FromUser), formatTime(m.Timestamp))
	return err
}

// RecentMessages returns up to limit messages, oldest first.
func (s *Store) RecentMessages(limit int) ([]model.ChatMessage, error) {
	rows, err := s.db.Query(`SELECT id, content, from_user, sent_at FROM (
		SELECT id, content, from_user, sent_at, rowid AS seq FROM chat_messages
		ORDER BY seq DESC LIMIT ?) ORDER BY seq ASC`, limit)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []model.ChatMessage
	for rows.Next() {
		var m model.ChatMessage
		var fromUser int
		var sent sql.NullString
		if err := rows.Scan(&m.ID, &m.Content, &fromUser, &sent); err != nil {
			return nil, err
		}
		m.FromUser = fromUser != 0
		m.Timestamp = parseTime(sent)
		out = append(out, m)
	}
	return out, rows.Err()
}

// ClearMessages deletes the chat history.
func (s *Store) ClearMessages() error {
	_, err := s.db.Exec("DELETE FROM chat_messages")
	return err
}
