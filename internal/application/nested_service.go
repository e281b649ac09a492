package application

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"geoatlas/internal/domain/entity"
	repo "geoatlas/internal/domain/repository"
)

// NestedService writes whole country aggregates. Validation of the complete
// tree happens before the transactional writer runs, so a single invalid
// city rejects the entire payload with nothing persisted.
type NestedService struct {
	Countries repo.CountryRepository
	States    repo.StateRepository
	Cities    repo.CityRepository
	Trees     repo.CountryTreeRepository
	Logger    *logrus.Logger
}

func NewNestedService(countries repo.CountryRepository, states repo.StateRepository, cities repo.CityRepository, trees repo.CountryTreeRepository, logger *logrus.Logger) *NestedService {
	return &NestedService{Countries: countries, States: states, Cities: cities, Trees: trees, Logger: logger}
}

// NestedStateInput is a state plus its cities as declared in an aggregate
// payload.
type NestedStateInput struct {
	StateInput
	Cities []CityInput
}

// NestedCountryInput distinguishes three states of the states collection:
// absent (nil pointer, leave the existing subtree alone on update), present
// and empty (delete every state), present with items (full replace).
type NestedCountryInput struct {
	CountryInput
	States *[]NestedStateInput
}

func (s *NestedService) ListTrees(ctx context.Context, ownerID string) ([]*entity.CountryTree, error) {
	return s.Trees.ListTrees(ctx, ownerID)
}

func (s *NestedService) GetTree(ctx context.Context, ownerID, countryCode string) (*entity.CountryTree, error) {
	return s.Trees.GetTree(ctx, ownerID, countryCode)
}

func (s *NestedService) DeleteTree(ctx context.Context, ownerID, countryCode string) error {
	return s.Countries.Delete(ctx, ownerID, countryCode)
}

// CreateTree inserts a country with its declared states and cities in one
// transaction.
func (s *NestedService) CreateTree(ctx context.Context, ownerID string, in NestedCountryInput) (*entity.CountryTree, error) {
	c := entity.Country{
		ID:          uuid.NewString(),
		Name:        in.Name,
		CountryCode: in.CountryCode,
		CurrSymbol:  in.CurrSymbol,
		PhoneCode:   in.PhoneCode,
		OwnerID:     &ownerID,
	}

	errs, err := validateCountryUnique(ctx, s.Countries, &c)
	if err != nil {
		return nil, err
	}

	var declared []NestedStateInput
	if in.States != nil {
		declared = *in.States
	}
	subtree, serrs, err := s.buildSubtree(ctx, c.ID, declared)
	if err != nil {
		return nil, err
	}
	errs.addPrefixed("", serrs)
	if len(errs) > 0 {
		return nil, errs
	}

	tree := &entity.CountryTree{Country: c, States: subtree}
	if err := s.Trees.CreateTree(ctx, tree); err != nil {
		return nil, err
	}
	return tree, nil
}

// UpdateTree applies scalar country changes and, only when the payload
// carries a states collection, replaces the whole subtree. A present-empty
// collection deletes every state; an absent one changes nothing below the
// country.
func (s *NestedService) UpdateTree(ctx context.Context, ownerID, countryCode string, in NestedCountryInput) (*entity.CountryTree, error) {
	c, err := s.Countries.GetByCode(ctx, ownerID, countryCode)
	if err != nil {
		return nil, err
	}
	c.Name = in.Name
	c.CountryCode = in.CountryCode
	c.CurrSymbol = in.CurrSymbol
	c.PhoneCode = in.PhoneCode

	errs, err := validateCountryUnique(ctx, s.Countries, c)
	if err != nil {
		return nil, err
	}

	var subtree []*entity.StateTree
	if in.States != nil {
		var serrs FieldErrors
		subtree, serrs, err = s.buildSubtree(ctx, c.ID, *in.States)
		if err != nil {
			return nil, err
		}
		errs.addPrefixed("", serrs)
		if subtree == nil {
			subtree = []*entity.StateTree{} // present but empty: delete all
		}
	}
	if len(errs) > 0 {
		return nil, errs
	}

	if err := s.Trees.ReplaceTree(ctx, c, subtree); err != nil {
		return nil, err
	}
	return s.Trees.GetTree(ctx, ownerID, c.CountryCode)
}

// buildSubtree materializes the declared states and cities with fresh ids
// and validates them against both the store and the payload itself. Rows
// already held by countryID do not count as conflicts: on replace they are
// deleted inside the same transaction that inserts the new tree.
func (s *NestedService) buildSubtree(ctx context.Context, countryID string, declared []NestedStateInput) ([]*entity.StateTree, FieldErrors, error) {
	if len(declared) == 0 {
		return nil, nil, nil
	}

	errs := FieldErrors{}
	seenStateCode := map[string]bool{}
	seenGSTCode := map[string]bool{}
	seenStateName := map[string]bool{}
	seenCityCode := map[string]bool{}
	seenCityPhone := map[string]bool{}

	out := make([]*entity.StateTree, 0, len(declared))
	for i, sin := range declared {
		prefix := fmt.Sprintf("states[%d].", i)
		st := entity.State{
			ID:        uuid.NewString(),
			Name:      sin.Name,
			StateCode: sin.StateCode,
			GSTCode:   sin.GSTCode,
			CountryID: countryID,
		}

		taken, err := s.States.StateCodeHeldOutsideCountry(ctx, st.StateCode, countryID)
		if err != nil {
			return nil, nil, err
		}
		if taken || seenStateCode[st.StateCode] {
			errs[prefix+"state_code"] = "state with this state_code already exists"
		}
		seenStateCode[st.StateCode] = true

		if st.GSTCode != nil {
			taken, err = s.States.GSTCodeHeldOutsideCountry(ctx, *st.GSTCode, countryID)
			if err != nil {
				return nil, nil, err
			}
			if taken || seenGSTCode[*st.GSTCode] {
				errs[prefix+"gst_code"] = "state with this gst_code already exists"
			}
			seenGSTCode[*st.GSTCode] = true
		}

		if seenStateName[st.Name] {
			errs[prefix+"name"] = "state with this name already exists in the country"
		}
		seenStateName[st.Name] = true

		cities := make([]*entity.City, 0, len(sin.Cities))
		seenCityName := map[string]bool{}
		for j, cin := range sin.Cities {
			cprefix := fmt.Sprintf("%scities[%d].", prefix, j)
			city := &entity.City{
				ID:           uuid.NewString(),
				Name:         cin.Name,
				CityCode:     cin.CityCode,
				PhoneCode:    cin.PhoneCode,
				Population:   cin.Population,
				AvgAge:       cin.AvgAge,
				AdultMales:   cin.AdultMales,
				AdultFemales: cin.AdultFemales,
				StateID:      st.ID,
			}

			cityErrs := FieldErrors{}
			checkPopulation(cityErrs, city.Population, city.AdultMales, city.AdultFemales)

			taken, err = s.Cities.CityCodeHeldOutsideCountry(ctx, city.CityCode, countryID)
			if err != nil {
				return nil, nil, err
			}
			if taken || seenCityCode[city.CityCode] {
				cityErrs["city_code"] = "city with this city_code already exists"
			}
			seenCityCode[city.CityCode] = true

			taken, err = s.Cities.PhoneCodeHeldOutsideCountry(ctx, city.PhoneCode, countryID)
			if err != nil {
				return nil, nil, err
			}
			if taken || seenCityPhone[city.PhoneCode] {
				cityErrs["phone_code"] = "city with this phone_code already exists"
			}
			seenCityPhone[city.PhoneCode] = true

			if seenCityName[city.Name] {
				cityErrs["name"] = "city with this name already exists in the state"
			}
			seenCityName[city.Name] = true

			errs.addPrefixed(cprefix, cityErrs)
			cities = append(cities, city)
		}

		out = append(out, &entity.StateTree{State: st, Cities: cities})
	}

	return out, errs, nil
}
