// internal/model/tenant.go
package model

import "time"

// Tenant is the owning account for customers, campaigns and delivery
// logs. Every query in the system is scoped by a tenant id.
type Tenant struct {
	ID        string    `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	APIToken  string    `db:"api_token" json:"-"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
