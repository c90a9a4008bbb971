// internal/model/segment.go
package model

// SegmentCriteria selects which of a tenant's customers a campaign
// targets. Only the all-customers criterion is supported today; tag
// targeting is the intended next criterion and slots in here without
// changing the delivery engine's contract.
type SegmentCriteria struct {
	All bool
	Tag string
}

// AllCustomers targets every customer of the tenant.
func AllCustomers() SegmentCriteria {
	return SegmentCriteria{All: true}
}
