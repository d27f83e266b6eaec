package db

import "context"

const addMindMap = `
INSERT INTO mindmaps (public_id, report_id, status)
VALUES ($1, $2, $3)
RETURNING id, created_at, updated_at
`

type AddMindMapParams struct {
	PublicID string
	ReportID int64
	Status   string
}

func (q *Queries) AddMindMap(ctx context.Context, arg AddMindMapParams) (MindMap, error) {
	row := q.conn.QueryRow(ctx, addMindMap, arg.PublicID, arg.ReportID, arg.Status)

	m := MindMap{
		PublicID: arg.PublicID,
		ReportID: arg.ReportID,
		Status:   arg.Status,
	}
	err := row.Scan(&m.ID, &m.CreatedAt, &m.UpdatedAt)
	return m, err
}

const getMindMapByReportID = `
SELECT id, public_id, report_id, status, error, nodes, edges, created_at, updated_at
FROM mindmaps
WHERE report_id = $1
ORDER BY id DESC
LIMIT 1
`

func (q *Queries) GetMindMapByReportID(ctx context.Context, reportID int64) (MindMap, error) {
	row := q.conn.QueryRow(ctx, getMindMapByReportID, reportID)

	var m MindMap
	err := row.Scan(
		&m.ID,
		&m.PublicID,
		&m.ReportID,
		&m.Status,
		&m.Error,
		&m.Nodes,
		&m.Edges,
		&m.CreatedAt,
		&m.UpdatedAt,
	)
	return m, err
}

const updateMindMapStatus = `
UPDATE mindmaps
SET status = $2, error = $3, updated_at = now()
WHERE public_id = $1
`

type UpdateMindMapStatusParams struct {
	PublicID string
	Status   string
	Error    string
}

func (q *Queries) UpdateMindMapStatus(ctx context.Context, arg UpdateMindMapStatusParams) error {
	_, err := q.conn.Exec(ctx, updateMindMapStatus, arg.PublicID, arg.Status, arg.Error)
	return err
}

const setMindMapResult = `
UPDATE mindmaps
SET status = $2, nodes = $3, edges = $4, error = '', updated_at = now()
WHERE public_id = $1
`

type SetMindMapResultParams struct {
	PublicID string
	Status   string
	Nodes    []byte
	Edges    []byte
}

func (q *Queries) SetMindMapResult(ctx context.Context, arg SetMindMapResultParams) error {
	_, err := q.conn.Exec(ctx, setMindMapResult, arg.PublicID, arg.Status, arg.Nodes, arg.Edges)
	return err
}
