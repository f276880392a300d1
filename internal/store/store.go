package store

import (
	"context"
	"encoding/json"
	"strconv"

	"ramtoram-console-service/internal/report"
	"ramtoram-console-service/internal/utils"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Store is the read side of the record store the reporting engine aggregates
// over. It only ever selects; the CRUD handlers own all writes.
type Store struct {
	db *pgxpool.Pool
}

func New(db *pgxpool.Pool) *Store {
	return &Store{db: db}
}

func (s *Store) ListCustomers(ctx context.Context, r report.TimeRange) ([]report.Customer, error) {
	where, args := rangeClause("created_at", r)
	query := `
		select id, name, phone, memo, created_at
		from customers` + where + `
		order by created_at asc
	`

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	customers := make([]report.Customer, 0)
	for rows.Next() {
		var (
			record report.Customer
			name   pgtype.Text
			phone  pgtype.Text
			memo   pgtype.Text
		)
		if err := rows.Scan(&record.ID, &name, &phone, &memo, &record.CreatedAt); err != nil {
			return nil, err
		}
		record.Name = name.String
		record.Phone = phone.String
		record.Memo = memo.String
		customers = append(customers, record)
	}
	return customers, rows.Err()
}

func (s *Store) ListReservations(ctx context.Context, r report.TimeRange) ([]report.Reservation, error) {
	where, args := rangeClause("datetime", r)
	query := `
		select id, name, phone, datetime, people, memo, status, created_at
		from reservations` + where + `
		order by datetime asc
	`

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	reservations := make([]report.Reservation, 0)
	for rows.Next() {
		var (
			record report.Reservation
			name   pgtype.Text
			phone  pgtype.Text
			people pgtype.Int4
			memo   pgtype.Text
			status pgtype.Text
		)
		if err := rows.Scan(&record.ID, &name, &phone, &record.Datetime, &people, &memo, &status, &record.CreatedAt); err != nil {
			return nil, err
		}
		record.Name = name.String
		record.Phone = phone.String
		record.People = int(people.Int32)
		record.Memo = memo.String
		record.Status = status.String
		reservations = append(reservations, record)
	}
	return reservations, rows.Err()
}

func (s *Store) ListSales(ctx context.Context, r report.TimeRange) ([]report.Sale, error) {
	where, args := rangeClause("created_at", r)
	query := `
		select id, menu_items, total, payment_method, created_at
		from sales` + where + `
		order by created_at asc
	`

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	sales := make([]report.Sale, 0)
	for rows.Next() {
		var (
			record    report.Sale
			menuItems []byte
			total     pgtype.Numeric
			method    pgtype.Text
		)
		if err := rows.Scan(&record.ID, &menuItems, &total, &method, &record.CreatedAt); err != nil {
			return nil, err
		}
		record.Total = utils.NumericToFloat64(total)
		record.PaymentMethod = method.String
		// A sale whose menu_items payload does not parse still counts toward
		// revenue sums; it only drops out of item ranking.
		if len(menuItems) > 0 {
			var lines []report.MenuLine
			if err := json.Unmarshal(menuItems, &lines); err == nil {
				record.MenuItems = lines
			}
		}
		sales = append(sales, record)
	}
	return sales, rows.Err()
}

func rangeClause(column string, r report.TimeRange) (string, []any) {
	where := ""
	args := make([]any, 0, 2)
	if !r.From.IsZero() {
		args = append(args, r.From)
		where += " where " + column + " >= $" + strconv.Itoa(len(args))
	}
	if !r.To.IsZero() {
		args = append(args, r.To)
		if where == "" {
			where = " where "
		} else {
			where += " and "
		}
		where += column + " <= $" + strconv.Itoa(len(args))
	}
	return where, args
}
