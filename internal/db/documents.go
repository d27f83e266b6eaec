package db

import "context"

const addDocument = `
INSERT INTO documents (public_id, name, content_type, size, content, word_count, token_count, success, error, file_key)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
RETURNING id, created_at
`

type AddDocumentParams struct {
	PublicID    string
	Name        string
	ContentType string
	Size        int64
	Content     string
	WordCount   int32
	TokenCount  int32
	Success     bool
	Error       string
	FileKey     string
}

func (q *Queries) AddDocument(ctx context.Context, arg AddDocumentParams) (Document, error) {
	row := q.conn.QueryRow(ctx, addDocument,
		arg.PublicID,
		arg.Name,
		arg.ContentType,
		arg.Size,
		arg.Content,
		arg.WordCount,
		arg.TokenCount,
		arg.Success,
		arg.Error,
		arg.FileKey,
	)

	doc := Document{
		PublicID:    arg.PublicID,
		Name:        arg.Name,
		ContentType: arg.ContentType,
		Size:        arg.Size,
		Content:     arg.Content,
		WordCount:   arg.WordCount,
		TokenCount:  arg.TokenCount,
		Success:     arg.Success,
		Error:       arg.Error,
		FileKey:     arg.FileKey,
	}
	err := row.Scan(&doc.ID, &doc.CreatedAt)
	return doc, err
}

const getDocuments = `
SELECT id, public_id, name, content_type, size, content, word_count, token_count, success, error, file_key, created_at
FROM documents
ORDER BY id DESC
LIMIT $1
`

func (q *Queries) GetDocuments(ctx context.Context, limit int32) ([]Document, error) {
	rows, err := q.conn.Query(ctx, getDocuments, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var docs []Document
	for rows.Next() {
		var doc Document
		if err := rows.Scan(
			&doc.ID,
			&doc.PublicID,
			&doc.Name,
			&doc.ContentType,
			&doc.Size,
			&doc.Content,
			&doc.WordCount,
			&doc.TokenCount,
			&doc.Success,
			&doc.Error,
			&doc.FileKey,
			&doc.CreatedAt,
		); err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, rows.Err()
}

const getDocumentByPublicID = `
SELECT id, public_id, name, content_type, size, content, word_count, token_count, success, error, file_key, created_at
FROM documents
WHERE public_id = $1
`

func (q *Queries) GetDocumentByPublicID(ctx context.Context, publicID string) (Document, error) {
	row := q.conn.QueryRow(ctx, getDocumentByPublicID, publicID)

	var doc Document
	err := row.Scan(
		&doc.ID,
		&doc.PublicID,
		&doc.Name,
		&doc.ContentType,
		&doc.Size,
		&doc.Content,
		&doc.WordCount,
		&doc.TokenCount,
		&doc.Success,
		&doc.Error,
		&doc.FileKey,
		&doc.CreatedAt,
	)
	return doc, err
}

const deleteDocumentByPublicID = `
DELETE FROM documents
WHERE public_id = $1
`

func (q *Queries) DeleteDocumentByPublicID(ctx context.Context, publicID string) (int64, error) {
	tag, err := q.conn.Exec(ctx, deleteDocumentByPublicID, publicID)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
