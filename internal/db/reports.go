package db

import "context"

const addReport = `
INSERT INTO reports (public_id, title, content, word_count, token_count)
VALUES ($1, $2, $3, $4, $5)
RETURNING id, created_at, updated_at
`

type AddReportParams struct {
	PublicID   string
	Title      string
	Content    string
	WordCount  int32
	TokenCount int32
}

func (q *Queries) AddReport(ctx context.Context, arg AddReportParams) (Report, error) {
	row := q.conn.QueryRow(ctx, addReport,
		arg.PublicID,
		arg.Title,
		arg.Content,
		arg.WordCount,
		arg.TokenCount,
	)

	rep := Report{
		PublicID:   arg.PublicID,
		Title:      arg.Title,
		Content:    arg.Content,
		WordCount:  arg.WordCount,
		TokenCount: arg.TokenCount,
	}
	err := row.Scan(&rep.ID, &rep.CreatedAt, &rep.UpdatedAt)
	return rep, err
}

const getReportByPublicID = `
SELECT id, public_id, title, content, word_count, token_count, created_at, updated_at
FROM reports
WHERE public_id = $1
`

func (q *Queries) GetReportByPublicID(ctx context.Context, publicID string) (Report, error) {
	row := q.conn.QueryRow(ctx, getReportByPublicID, publicID)

	var rep Report
	err := row.Scan(
		&rep.ID,
		&rep.PublicID,
		&rep.Title,
		&rep.Content,
		&rep.WordCount,
		&rep.TokenCount,
		&rep.CreatedAt,
		&rep.UpdatedAt,
	)
	return rep, err
}

const getReports = `
SELECT id, public_id, title, content, word_count, token_count, created_at, updated_at
FROM reports
ORDER BY id DESC
LIMIT $1
`

func (q *Queries) GetReports(ctx context.Context, limit int32) ([]Report, error) {
	rows, err := q.conn.Query(ctx, getReports, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reps []Report
	for rows.Next() {
		var rep Report
		if err := rows.Scan(
			&rep.ID,
			&rep.PublicID,
			&rep.Title,
			&rep.Content,
			&rep.WordCount,
			&rep.TokenCount,
			&rep.CreatedAt,
			&rep.UpdatedAt,
		); err != nil {
			return nil, err
		}
		reps = append(reps, rep)
	}
	return reps, rows.Err()
}

const addReportSource = `
INSERT INTO report_sources (report_id, public_id, position, type, title, content, url, metadata)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
RETURNING id
`

type AddReportSourceParams struct {
	ReportID int64
	PublicID string
	Position int32
	Type     string
	Title    string
	Content  string
	URL      string
	Metadata []byte
}

func (q *Queries) AddReportSource(ctx context.Context, arg AddReportSourceParams) (int64, error) {
	row := q.conn.QueryRow(ctx, addReportSource,
		arg.ReportID,
		arg.PublicID,
		arg.Position,
		arg.Type,
		arg.Title,
		arg.Content,
		arg.URL,
		arg.Metadata,
	)

	var id int64
	err := row.Scan(&id)
	return id, err
}

const getReportSources = `
SELECT id, report_id, public_id, position, type, title, content, url, metadata
FROM report_sources
WHERE report_id = $1
ORDER BY position ASC
`

func (q *Queries) GetReportSources(ctx context.Context, reportID int64) ([]ReportSource, error) {
	rows, err := q.conn.Query(ctx, getReportSources, reportID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sources []ReportSource
	for rows.Next() {
		var src ReportSource
		if err := rows.Scan(
			&src.ID,
			&src.ReportID,
			&src.PublicID,
			&src.Position,
			&src.Type,
			&src.Title,
			&src.Content,
			&src.URL,
			&src.Metadata,
		); err != nil {
			return nil, err
		}
		sources = append(sources, src)
	}
	return sources, rows.Err()
}

const deleteReportByPublicID = `
DELETE FROM reports
WHERE public_id = $1
`

func (q *Queries) DeleteReportByPublicID(ctx context.Context, publicID string) (int64, error) {
	tag, err := q.conn.Exec(ctx, deleteReportByPublicID, publicID)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
