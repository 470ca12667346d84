package departments

import (
	"context"
	"database/sql"
	"errors"
	"sort"
	"strings"

	"bmu-backend/lib/scrapers/bmusite"
	"bmu-backend/services/departments/db"

	"github.com/antzucaro/matchr"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("services/departments")

var ErrNotFound = errors.New("department not found")

type Department struct {
	BmuId     int64  `json:"bmu_id"`
	Name      string `json:"name"`
	ShortName string `json:"short_name"`
}

// DepartmentDetails is the lookup row joined with the live scrape of
// the institute's public page.
type DepartmentDetails struct {
	Department
	bmusite.InstituteDetail
}

type SearchResult struct {
	Department
	Correlation float64 `json:"correlation"`
}

type Service struct {
	db   *sql.DB
	qry  *db.Queries
	site *bmusite.Client
}

func NewService(database *sql.DB, site *bmusite.Client) Service {
	return Service{
		db:   database,
		qry:  db.New(database),
		site: site,
	}
}

func (s Service) List(ctx context.Context) ([]Department, error) {
	ctx, span := tracer.Start(ctx, "List")
	defer span.End()

	rows, err := s.qry.ListDepartments(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	out := make([]Department, 0, len(rows))
	for _, row := range rows {
		out = append(out, Department(row))
	}
	return out, nil
}

// Details resolves the lookup row first so an unknown id fails without
// touching the public site.
func (s Service) Details(ctx context.Context, bmuId int64) (DepartmentDetails, error) {
	ctx, span := tracer.Start(ctx, "Details")
	defer span.End()

	span.SetAttributes(attribute.Int64("bmu_id", bmuId))

	row, err := s.qry.GetDepartment(ctx, bmuId)
	if errors.Is(err, sql.ErrNoRows) {
		return DepartmentDetails{}, ErrNotFound
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return DepartmentDetails{}, err
	}

	detail, err := s.site.FetchInstituteDetail(ctx, int(row.BmuId))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return DepartmentDetails{}, err
	}

	return DepartmentDetails{
		Department:      Department(row),
		InstituteDetail: detail,
	}, nil
}

func (s Service) Upsert(ctx context.Context, department Department) error {
	ctx, span := tracer.Start(ctx, "Upsert")
	defer span.End()

	err := s.qry.UpsertDepartment(ctx, db.Department(department))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	return nil
}

const searchThreshold = 0.75

// Search ranks departments against the query by Jaro-Winkler
// similarity over both the full and the short name.
func (s Service) Search(ctx context.Context, query string) ([]SearchResult, error) {
	ctx, span := tracer.Start(ctx, "Search")
	defer span.End()

	span.SetAttributes(attribute.String("query", query))

	rows, err := s.qry.ListDepartments(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	query = strings.ToLower(query)
	results := []SearchResult{}
	for _, row := range rows {
		similarity := matchr.JaroWinkler(query, strings.ToLower(row.Name), false)
		if short := matchr.JaroWinkler(query, strings.ToLower(row.ShortName), false); short > similarity {
			similarity = short
		}
		if similarity < searchThreshold {
			continue
		}
		results = append(results, SearchResult{
			Department:  Department(row),
			Correlation: similarity,
		})
	}
	sort.Slice(results, func(i, j int) bool {
		return results[i].Correlation > results[j].Correlation
	})
	return results, nil
}
