package application

import (
	"context"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"geoatlas/internal/domain/entity"
	repo "geoatlas/internal/domain/repository"
)

// CountryService owns validation and ownership scoping for countries. The
// owner id is threaded through every repository call; rows belonging to
// other users surface as repo.ErrNotFound by construction.
type CountryService struct {
	Countries repo.CountryRepository
	Logger    *logrus.Logger
}

func NewCountryService(countries repo.CountryRepository, logger *logrus.Logger) *CountryService {
	return &CountryService{Countries: countries, Logger: logger}
}

// CountryInput is a full country payload; every field is required.
type CountryInput struct {
	Name        string
	CountryCode string
	CurrSymbol  string
	PhoneCode   string
}

// CountryPatch applies only the fields that are present; CountryCode names
// the row to patch and is never changed by a bulk update.
type CountryPatch struct {
	CountryCode string
	Name        *string
	CurrSymbol  *string
	PhoneCode   *string
}

func (s *CountryService) List(ctx context.Context, ownerID string) ([]*entity.Country, error) {
	return s.Countries.List(ctx, ownerID)
}

func (s *CountryService) Get(ctx context.Context, ownerID, countryCode string) (*entity.Country, error) {
	return s.Countries.GetByCode(ctx, ownerID, countryCode)
}

func (s *CountryService) Create(ctx context.Context, ownerID string, in CountryInput) (*entity.Country, error) {
	c := &entity.Country{
		ID:          uuid.NewString(),
		Name:        in.Name,
		CountryCode: in.CountryCode,
		CurrSymbol:  in.CurrSymbol,
		PhoneCode:   in.PhoneCode,
		OwnerID:     &ownerID,
	}
	if errs, err := s.validate(ctx, c); err != nil {
		return nil, err
	} else if len(errs) > 0 {
		return nil, errs
	}
	if err := s.Countries.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *CountryService) Update(ctx context.Context, ownerID, countryCode string, in CountryInput) (*entity.Country, error) {
	c, err := s.Countries.GetByCode(ctx, ownerID, countryCode)
	if err != nil {
		return nil, err
	}
	c.Name = in.Name
	c.CountryCode = in.CountryCode
	c.CurrSymbol = in.CurrSymbol
	c.PhoneCode = in.PhoneCode

	if errs, err := s.validate(ctx, c); err != nil {
		return nil, err
	} else if len(errs) > 0 {
		return nil, errs
	}
	if err := s.Countries.Update(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *CountryService) Delete(ctx context.Context, ownerID, countryCode string) error {
	return s.Countries.Delete(ctx, ownerID, countryCode)
}

// BulkCreate validates the whole batch first and inserts it in a single
// transaction: one bad item rejects everything.
func (s *CountryService) BulkCreate(ctx context.Context, ownerID string, ins []CountryInput) ([]*entity.Country, error) {
	cs := make([]*entity.Country, len(ins))
	itemErrs := make(BulkErrors, len(ins))
	seenCountry := map[string]bool{}
	seenPhone := map[string]bool{}

	for i, in := range ins {
		c := &entity.Country{
			ID:          uuid.NewString(),
			Name:        in.Name,
			CountryCode: in.CountryCode,
			CurrSymbol:  in.CurrSymbol,
			PhoneCode:   in.PhoneCode,
			OwnerID:     &ownerID,
		}
		cs[i] = c

		errs, err := s.validate(ctx, c)
		if err != nil {
			return nil, err
		}
		if seenCountry[c.CountryCode] {
			errs["country_code"] = "duplicated in request"
		}
		if seenPhone[c.PhoneCode] {
			errs["phone_code"] = "duplicated in request"
		}
		seenCountry[c.CountryCode] = true
		seenPhone[c.PhoneCode] = true
		itemErrs[i] = errs
	}

	if itemErrs.HasErrors() {
		return nil, itemErrs
	}
	if err := s.Countries.CreateBatch(ctx, cs); err != nil {
		return nil, err
	}
	return cs, nil
}

// BulkItemError mirrors the wire shape {<code>: <detail>} of a single
// failed bulk-update item.
type BulkItemError map[string]any

// BulkUpdate applies each patch independently; items that validate persist
// even when siblings fail, and every failure is reported against the
// item's natural code.
func (s *CountryService) BulkUpdate(ctx context.Context, ownerID string, patches []CountryPatch) []BulkItemError {
	errsOut := []BulkItemError{}
	for _, p := range patches {
		c, err := s.Countries.GetByCode(ctx, ownerID, p.CountryCode)
		if err != nil {
			errsOut = append(errsOut, BulkItemError{p.CountryCode: "Not found"})
			continue
		}
		if p.Name != nil {
			c.Name = *p.Name
		}
		if p.CurrSymbol != nil {
			c.CurrSymbol = *p.CurrSymbol
		}
		if p.PhoneCode != nil {
			c.PhoneCode = *p.PhoneCode
		}

		verrs, err := s.validate(ctx, c)
		if err != nil {
			errsOut = append(errsOut, BulkItemError{p.CountryCode: err.Error()})
			continue
		}
		if len(verrs) > 0 {
			errsOut = append(errsOut, BulkItemError{p.CountryCode: verrs})
			continue
		}
		if err := s.Countries.Update(ctx, c); err != nil {
			if s.Logger != nil {
				s.Logger.WithError(err).WithField("country_code", p.CountryCode).Error("bulk update item failed")
			}
			errsOut = append(errsOut, BulkItemError{p.CountryCode: "update failed"})
		}
	}
	return errsOut
}

func (s *CountryService) validate(ctx context.Context, c *entity.Country) (FieldErrors, error) {
	return validateCountryUnique(ctx, s.Countries, c)
}

// validateCountryUnique runs the uniqueness rules; both checks run even when
// the first fails so all violations are reported together. Shared with the
// nested aggregate writer.
func validateCountryUnique(ctx context.Context, r repo.CountryRepository, c *entity.Country) (FieldErrors, error) {
	errs := FieldErrors{}
	taken, err := r.CountryCodeTaken(ctx, c.CountryCode, c.ID)
	if err != nil {
		return nil, err
	}
	if taken {
		errs["country_code"] = "country with this country_code already exists"
	}
	taken, err = r.PhoneCodeTaken(ctx, c.PhoneCode, c.ID)
	if err != nil {
		return nil, err
	}
	if taken {
		errs["phone_code"] = "country with this phone_code already exists"
	}
	return errs, nil
}
