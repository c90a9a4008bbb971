package repository

import (
	"database/sql"

	"github.com/Uday-0910/RetailReachAI/internal/model"
)

// TenantRepositoryInterface resolves API credentials to tenants.
type TenantRepositoryInterface interface {
	GetByToken(token string) (*model.Tenant, error)
}

type TenantRepository struct {
	DB *sql.DB
}

// GetByToken looks up the tenant owning an API token. Returns nil when
// the token is unknown.
func (r *TenantRepository) GetByToken(token string) (*model.Tenant, error) {
	query := `
        SELECT id, name, api_token, created_at
        FROM tenants
        WHERE api_token = $1
    `
	var t model.Tenant
	err := r.DB.QueryRow(query, token).Scan(&t.ID, &t.Name, &t.APIToken, &t.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &t, nil
}

var _ TenantRepositoryInterface = (*TenantRepository)(nil)
