package db

import "context"

type Department struct {
	BmuId     int64
	Name      string
	ShortName string
}

const listDepartments = `
SELECT bmu_id, name, short_name FROM department ORDER BY bmu_id
`

func (q *Queries) ListDepartments(ctx context.Context) ([]Department, error) {
	rows, err := q.db.QueryContext(ctx, listDepartments)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Department
	for rows.Next() {
		var d Department
		if err := rows.Scan(&d.BmuId, &d.Name, &d.ShortName); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

const getDepartment = `
SELECT bmu_id, name, short_name FROM department WHERE bmu_id = ?
`

func (q *Queries) GetDepartment(ctx context.Context, bmuId int64) (Department, error) {
	row := q.db.QueryRowContext(ctx, getDepartment, bmuId)
	var d Department
	err := row.Scan(&d.BmuId, &d.Name, &d.ShortName)
	return d, err
}

const upsertDepartment = `
INSERT INTO department (bmu_id, name, short_name) VALUES (?, ?, ?)
ON CONFLICT (bmu_id) DO UPDATE SET name = excluded.name, short_name = excluded.short_name
`

func (q *Queries) UpsertDepartment(ctx context.Context, arg Department) error {
	_, err := q.db.ExecContext(ctx, upsertDepartment, arg.BmuId, arg.Name, arg.ShortName)
	return err
}
