package repository

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/Uday-0910/RetailReachAI/internal/model"
)

// CustomerRepositoryInterface defines the tenant-scoped customer store.
type CustomerRepositoryInterface interface {
	Create(c *model.Customer) error
	GetByID(tenantID, id string) (*model.Customer, error)
	Search(tenantID, query, tag string, offset, limit int) ([]model.Customer, int, error)
	ListSegment(tenantID string, criteria model.SegmentCriteria) ([]model.Customer, error)
	Delete(tenantID, id string) (bool, error)
	Count(tenantID string) (int, error)
}

type CustomerRepository struct {
	DB *sql.DB
}

const customerColumns = `id, tenant_id, name, phone, tags, birthday, created_at`

func scanCustomer(row interface{ Scan(...any) error }) (*model.Customer, error) {
	var c model.Customer
	var tags pq.StringArray
	err := row.Scan(&c.ID, &c.TenantID, &c.Name, &c.Phone, &tags, &c.Birthday, &c.CreatedAt)
	if err != nil {
		return nil, err
	}
	c.Tags = tags
	return &c, nil
}

func (r *CustomerRepository) Create(c *model.Customer) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	c.CreatedAt = time.Now()
	query := `
        INSERT INTO customers (id, tenant_id, name, phone, tags, birthday, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
    `
	_, err := r.DB.Exec(query, c.ID, c.TenantID, c.Name, c.Phone, pq.Array(c.Tags), c.Birthday, c.CreatedAt)
	return err
}

func (r *CustomerRepository) GetByID(tenantID, id string) (*model.Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers WHERE tenant_id=$1 AND id=$2`
	c, err := scanCustomer(r.DB.QueryRow(query, tenantID, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return c, nil
}

// Search filters by case-insensitive substring match on name or phone,
// and optionally by tag. Results are newest first.
func (r *CustomerRepository) Search(tenantID, query, tag string, offset, limit int) ([]model.Customer, int, error) {
	where := `WHERE tenant_id = $1`
	args := []any{tenantID}
	argPos := 2

	if query != "" {
		where += fmt.Sprintf(" AND (name ILIKE $%d OR phone ILIKE $%d)", argPos, argPos)
		args = append(args, "%"+query+"%")
		argPos++
	}
	if tag != "" {
		where += fmt.Sprintf(" AND $%d = ANY(tags)", argPos)
		args = append(args, tag)
		argPos++
	}

	var total int
	if err := r.DB.QueryRow(`SELECT COUNT(*) FROM customers `+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	listQuery := fmt.Sprintf(
		`SELECT %s FROM customers %s ORDER BY created_at DESC, id DESC LIMIT $%d OFFSET $%d`,
		customerColumns, where, argPos, argPos+1,
	)
	args = append(args, limit, offset)

	rows, err := r.DB.Query(listQuery, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	customers := []model.Customer{}
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, 0, err
		}
		customers = append(customers, *c)
	}
	return customers, total, rows.Err()
}

// ListSegment returns the customers matched by criteria in fan-out
// order (oldest first). The delivery store's fan-out SQL applies the
// same filter and ordering via segmentFilter.
func (r *CustomerRepository) ListSegment(tenantID string, criteria model.SegmentCriteria) ([]model.Customer, error) {
	cond, args := segmentFilter(tenantID, criteria)
	query := fmt.Sprintf(
		`SELECT %s FROM customers WHERE %s ORDER BY created_at, id`,
		customerColumns, cond,
	)
	rows, err := r.DB.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	customers := []model.Customer{}
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, err
		}
		customers = append(customers, *c)
	}
	return customers, rows.Err()
}

func (r *CustomerRepository) Delete(tenantID, id string) (bool, error) {
	res, err := r.DB.Exec(`DELETE FROM customers WHERE tenant_id=$1 AND id=$2`, tenantID, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

func (r *CustomerRepository) Count(tenantID string) (int, error) {
	var n int
	err := r.DB.QueryRow(`SELECT COUNT(*) FROM customers WHERE tenant_id=$1`, tenantID).Scan(&n)
	return n, err
}

// segmentFilter renders criteria as a WHERE condition. $1 is always the
// tenant id so fan-out SQL and ListSegment stay interchangeable.
func segmentFilter(tenantID string, criteria model.SegmentCriteria) (string, []any) {
	cond := `tenant_id = $1`
	args := []any{tenantID}
	if criteria.Tag != "" {
		cond += ` AND $2 = ANY(tags)`
		args = append(args, criteria.Tag)
	}
	return cond, args
}

var _ CustomerRepositoryInterface = (*CustomerRepository)(nil)
