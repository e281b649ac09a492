package application

import (
	"context"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"geoatlas/internal/domain/entity"
	repo "geoatlas/internal/domain/repository"
)

// CityService resolves the country and state path parameters through the
// owner-scoped repositories before touching cities.
type CityService struct {
	Countries repo.CountryRepository
	States    repo.StateRepository
	Cities    repo.CityRepository
	Logger    *logrus.Logger
}

func NewCityService(countries repo.CountryRepository, states repo.StateRepository, cities repo.CityRepository, logger *logrus.Logger) *CityService {
	return &CityService{Countries: countries, States: states, Cities: cities, Logger: logger}
}

// CityInput is a full city payload.
type CityInput struct {
	Name         string
	CityCode     string
	PhoneCode    string
	Population   int64
	AvgAge       float64
	AdultMales   int64
	AdultFemales int64
}

func (s *CityService) resolveState(ctx context.Context, ownerID, countryCode, stateCode string) (*entity.State, error) {
	country, err := s.Countries.GetByCode(ctx, ownerID, countryCode)
	if err != nil {
		return nil, err
	}
	return s.States.GetByCode(ctx, country.ID, stateCode)
}

func (s *CityService) List(ctx context.Context, ownerID, countryCode, stateCode string, f repo.CityFilter) ([]*entity.City, error) {
	st, err := s.resolveState(ctx, ownerID, countryCode, stateCode)
	if err != nil {
		return nil, err
	}
	return s.Cities.ListByState(ctx, st.ID, f)
}

// ListInCountry returns every city of the country across all states,
// honoring the optional population bounds.
func (s *CityService) ListInCountry(ctx context.Context, ownerID, countryCode string, f repo.CityFilter) ([]*entity.City, error) {
	country, err := s.Countries.GetByCode(ctx, ownerID, countryCode)
	if err != nil {
		return nil, err
	}
	return s.Cities.ListByCountry(ctx, country.ID, f)
}

func (s *CityService) Get(ctx context.Context, ownerID, countryCode, stateCode, cityCode string) (*entity.City, error) {
	st, err := s.resolveState(ctx, ownerID, countryCode, stateCode)
	if err != nil {
		return nil, err
	}
	return s.Cities.GetByCode(ctx, st.ID, cityCode)
}

func (s *CityService) Create(ctx context.Context, ownerID, countryCode, stateCode string, in CityInput) (*entity.City, error) {
	st, err := s.resolveState(ctx, ownerID, countryCode, stateCode)
	if err != nil {
		return nil, err
	}
	c := &entity.City{
		ID:           uuid.NewString(),
		Name:         in.Name,
		CityCode:     in.CityCode,
		PhoneCode:    in.PhoneCode,
		Population:   in.Population,
		AvgAge:       in.AvgAge,
		AdultMales:   in.AdultMales,
		AdultFemales: in.AdultFemales,
		StateID:      st.ID,
	}
	if errs, err := s.validate(ctx, c); err != nil {
		return nil, err
	} else if len(errs) > 0 {
		return nil, errs
	}
	if err := s.Cities.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *CityService) Update(ctx context.Context, ownerID, countryCode, stateCode, cityCode string, in CityInput) (*entity.City, error) {
	st, err := s.resolveState(ctx, ownerID, countryCode, stateCode)
	if err != nil {
		return nil, err
	}
	c, err := s.Cities.GetByCode(ctx, st.ID, cityCode)
	if err != nil {
		return nil, err
	}
	c.Name = in.Name
	c.CityCode = in.CityCode
	c.PhoneCode = in.PhoneCode
	c.Population = in.Population
	c.AvgAge = in.AvgAge
	c.AdultMales = in.AdultMales
	c.AdultFemales = in.AdultFemales

	if errs, err := s.validate(ctx, c); err != nil {
		return nil, err
	} else if len(errs) > 0 {
		return nil, errs
	}
	if err := s.Cities.Update(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *CityService) Delete(ctx context.Context, ownerID, countryCode, stateCode, cityCode string) error {
	st, err := s.resolveState(ctx, ownerID, countryCode, stateCode)
	if err != nil {
		return err
	}
	c, err := s.Cities.GetByCode(ctx, st.ID, cityCode)
	if err != nil {
		return err
	}
	return s.Cities.Delete(ctx, c.ID)
}

// validate runs the independent rules together: the population invariant
// and the three uniqueness checks all report in one pass.
func (s *CityService) validate(ctx context.Context, c *entity.City) (FieldErrors, error) {
	errs := FieldErrors{}
	checkPopulation(errs, c.Population, c.AdultMales, c.AdultFemales)

	taken, err := s.Cities.CityCodeTaken(ctx, c.CityCode, c.ID)
	if err != nil {
		return nil, err
	}
	if taken {
		errs["city_code"] = "city with this city_code already exists"
	}
	taken, err = s.Cities.PhoneCodeTaken(ctx, c.PhoneCode, c.ID)
	if err != nil {
		return nil, err
	}
	if taken {
		errs["phone_code"] = "city with this phone_code already exists"
	}
	taken, err = s.Cities.NameTakenInState(ctx, c.Name, c.StateID, c.ID)
	if err != nil {
		return nil, err
	}
	if taken {
		errs["name"] = "city with this name already exists in the state"
	}
	return errs, nil
}

// checkPopulation enforces the strict invariant: adults of both sexes are a
// proper subset of the population, never the whole of it.
func checkPopulation(errs FieldErrors, population, males, females int64) {
	if population <= males+females {
		errs["population"] = "population must be greater than the sum of adult males and females"
	}
}
