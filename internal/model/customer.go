// internal/model/customer.go
package model

import "time"

type Customer struct {
	ID        string     `db:"id" json:"id"`
	TenantID  string     `db:"tenant_id" json:"-"`
	Name      string     `db:"name" json:"name"`
	Phone     string     `db:"phone" json:"phone"`
	Tags      []string   `db:"tags" json:"tags"`
	Birthday  *time.Time `db:"birthday" json:"birthday,omitempty"`
	CreatedAt time.Time  `db:"created_at" json:"created_at"`
}
