// internal/service/customer_service.go
package service

import (
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	appErrors "github.com/Uday-0910/RetailReachAI/internal/errors"
	"github.com/Uday-0910/RetailReachAI/internal/model"
	"github.com/Uday-0910/RetailReachAI/internal/repository"
)

// CustomerService is the customer registry: adds, bulk imports,
// searches and deletes a tenant's customers, and resolves the segments
// campaigns fan out to.
type CustomerService struct {
	CustomerRepo repository.CustomerRepositoryInterface
	Logger       zerolog.Logger
}

func (s *CustomerService) Add(tenantID, name, phone string, tags []string, birthday *time.Time) (*model.Customer, error) {
	if strings.TrimSpace(name) == "" {
		return nil, appErrors.Validationf("name is required")
	}
	if strings.TrimSpace(phone) == "" {
		return nil, appErrors.Validationf("phone is required")
	}
	if tags == nil {
		tags = []string{}
	}

	c := &model.Customer{
		TenantID: tenantID,
		Name:     strings.TrimSpace(name),
		Phone:    strings.TrimSpace(phone),
		Tags:     tags,
		Birthday: birthday,
	}
	if err := s.CustomerRepo.Create(c); err != nil {
		return nil, appErrors.Internal(err)
	}
	return c, nil
}

// BulkAdd imports loosely-typed records from an external source. Field
// names vary by exporter, so each target field is resolved against a
// list of accepted aliases, case-insensitively. A record without a
// resolvable phone is skipped; a missing name falls back to "Unknown".
// Returns the number of customers imported.
func (s *CustomerService) BulkAdd(tenantID string, records []map[string]any) (int, error) {
	imported := 0
	for i, rec := range records {
		name := coerceString(lookupField(rec, "name", "full_name", "fullname", "customer_name"))
		phone := coerceString(lookupField(rec, "phone", "mobile", "msisdn", "phone_number", "phonenumber", "contact"))
		tags := coerceTags(lookupField(rec, "tags", "labels"))

		if phone == "" {
			s.Logger.Warn().Int("record", i).Msg("bulk import: skipping record without phone")
			continue
		}
		if name == "" {
			name = "Unknown"
		}

		c := &model.Customer{
			TenantID: tenantID,
			Name:     name,
			Phone:    phone,
			Tags:     tags,
		}
		if err := s.CustomerRepo.Create(c); err != nil {
			s.Logger.Warn().Err(err).Int("record", i).Msg("bulk import: insert failed, skipping record")
			continue
		}
		imported++
	}
	return imported, nil
}

// Search matches query case-insensitively against name or phone as a
// substring, optionally narrowed by tag.
func (s *CustomerService) Search(tenantID, query, tag string, page, pageSize int) ([]model.Customer, int, error) {
	offset, limit := paginate(page, pageSize)
	customers, total, err := s.CustomerRepo.Search(tenantID, query, tag, offset, limit)
	if err != nil {
		return nil, 0, appErrors.Internal(err)
	}
	return customers, total, nil
}

// Delete removes a customer. Delivery log rows referencing the customer
// stay behind: the ledger is a historical record keyed by phone
// snapshot.
func (s *CustomerService) Delete(tenantID, customerID string) error {
	ok, err := s.CustomerRepo.Delete(tenantID, customerID)
	if err != nil {
		return appErrors.Internal(err)
	}
	if !ok {
		return appErrors.NotFound("customer")
	}
	return nil
}

// ResolveSegment returns the customers a campaign with the given
// criteria would target, in fan-out order.
func (s *CustomerService) ResolveSegment(tenantID string, criteria model.SegmentCriteria) ([]model.Customer, error) {
	customers, err := s.CustomerRepo.ListSegment(tenantID, criteria)
	if err != nil {
		return nil, appErrors.Internal(err)
	}
	return customers, nil
}

// lookupField finds the first record key equal (ignoring case) to one
// of the accepted aliases.
func lookupField(rec map[string]any, aliases ...string) any {
	for _, alias := range aliases {
		for key, val := range rec {
			if strings.EqualFold(key, alias) {
				return val
			}
		}
	}
	return nil
}

func coerceString(v any) string {
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case float64:
		// JSON numbers decode as float64; phone columns exported as
		// numbers must not pick up an exponent or trailing zeros.
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	default:
		return ""
	}
}

func coerceTags(v any) []string {
	switch t := v.(type) {
	case []string:
		return t
	case []any:
		tags := []string{}
		for _, item := range t {
			if s := coerceString(item); s != "" {
				tags = append(tags, s)
			}
		}
		return tags
	case string:
		tags := []string{}
		for _, part := range strings.Split(t, ",") {
			if p := strings.TrimSpace(part); p != "" {
				tags = append(tags, p)
			}
		}
		return tags
	default:
		return []string{}
	}
}

// paginate maps a 1-based page to limit+offset with the service-wide
// bounds.
func paginate(page, pageSize int) (offset, limit int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}
	if pageSize > 100 {
		pageSize = 100
	}
	return (page - 1) * pageSize, pageSize
}
