package application

import (
	"context"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"geoatlas/internal/domain/entity"
	repo "geoatlas/internal/domain/repository"
)

// StateService resolves the parent country through the owner-scoped country
// repository before touching states, so a foreign country code behaves like
// a missing one.
type StateService struct {
	Countries repo.CountryRepository
	States    repo.StateRepository
	Logger    *logrus.Logger
}

func NewStateService(countries repo.CountryRepository, states repo.StateRepository, logger *logrus.Logger) *StateService {
	return &StateService{Countries: countries, States: states, Logger: logger}
}

// StateInput is a full state payload; GSTCode stays optional.
type StateInput struct {
	Name      string
	StateCode string
	GSTCode   *string
}

// StatePatch applies only the fields that are present; StateCode names the
// row to patch.
type StatePatch struct {
	StateCode string
	Name      *string
	GSTCode   *string
}

func (s *StateService) List(ctx context.Context, ownerID, countryCode string) ([]*entity.State, error) {
	country, err := s.Countries.GetByCode(ctx, ownerID, countryCode)
	if err != nil {
		return nil, err
	}
	return s.States.ListByCountry(ctx, country.ID)
}

func (s *StateService) Get(ctx context.Context, ownerID, countryCode, stateCode string) (*entity.State, error) {
	country, err := s.Countries.GetByCode(ctx, ownerID, countryCode)
	if err != nil {
		return nil, err
	}
	return s.States.GetByCode(ctx, country.ID, stateCode)
}

func (s *StateService) Create(ctx context.Context, ownerID, countryCode string, in StateInput) (*entity.State, error) {
	country, err := s.Countries.GetByCode(ctx, ownerID, countryCode)
	if err != nil {
		return nil, err
	}
	st := &entity.State{
		ID:        uuid.NewString(),
		Name:      in.Name,
		StateCode: in.StateCode,
		GSTCode:   in.GSTCode,
		CountryID: country.ID,
	}
	if errs, err := s.validate(ctx, st); err != nil {
		return nil, err
	} else if len(errs) > 0 {
		return nil, errs
	}
	if err := s.States.Create(ctx, st); err != nil {
		return nil, err
	}
	return st, nil
}

func (s *StateService) Update(ctx context.Context, ownerID, countryCode, stateCode string, in StateInput) (*entity.State, error) {
	country, err := s.Countries.GetByCode(ctx, ownerID, countryCode)
	if err != nil {
		return nil, err
	}
	st, err := s.States.GetByCode(ctx, country.ID, stateCode)
	if err != nil {
		return nil, err
	}
	st.Name = in.Name
	st.StateCode = in.StateCode
	st.GSTCode = in.GSTCode

	if errs, err := s.validate(ctx, st); err != nil {
		return nil, err
	} else if len(errs) > 0 {
		return nil, errs
	}
	if err := s.States.Update(ctx, st); err != nil {
		return nil, err
	}
	return st, nil
}

func (s *StateService) Delete(ctx context.Context, ownerID, countryCode, stateCode string) error {
	country, err := s.Countries.GetByCode(ctx, ownerID, countryCode)
	if err != nil {
		return err
	}
	st, err := s.States.GetByCode(ctx, country.ID, stateCode)
	if err != nil {
		return err
	}
	// cities go with the state via ON DELETE CASCADE
	return s.States.Delete(ctx, st.ID)
}

// BulkCreate is all-or-nothing: the batch is validated together, then
// inserted in a single transaction.
func (s *StateService) BulkCreate(ctx context.Context, ownerID, countryCode string, ins []StateInput) ([]*entity.State, error) {
	country, err := s.Countries.GetByCode(ctx, ownerID, countryCode)
	if err != nil {
		return nil, err
	}

	sts := make([]*entity.State, len(ins))
	itemErrs := make(BulkErrors, len(ins))
	seenCode := map[string]bool{}
	seenName := map[string]bool{}

	for i, in := range ins {
		st := &entity.State{
			ID:        uuid.NewString(),
			Name:      in.Name,
			StateCode: in.StateCode,
			GSTCode:   in.GSTCode,
			CountryID: country.ID,
		}
		sts[i] = st

		errs, err := s.validate(ctx, st)
		if err != nil {
			return nil, err
		}
		if seenCode[st.StateCode] {
			errs["state_code"] = "duplicated in request"
		}
		if seenName[st.Name] {
			errs["name"] = "duplicated in request"
		}
		seenCode[st.StateCode] = true
		seenName[st.Name] = true
		itemErrs[i] = errs
	}

	if itemErrs.HasErrors() {
		return nil, itemErrs
	}
	if err := s.States.CreateBatch(ctx, sts); err != nil {
		return nil, err
	}
	return sts, nil
}

// BulkUpdate is best-effort per item; failures are reported against the
// item's state_code and do not block siblings.
func (s *StateService) BulkUpdate(ctx context.Context, ownerID, countryCode string, patches []StatePatch) ([]BulkItemError, error) {
	country, err := s.Countries.GetByCode(ctx, ownerID, countryCode)
	if err != nil {
		return nil, err
	}

	errsOut := []BulkItemError{}
	for _, p := range patches {
		st, err := s.States.GetByCode(ctx, country.ID, p.StateCode)
		if err != nil {
			errsOut = append(errsOut, BulkItemError{p.StateCode: "Not found"})
			continue
		}
		if p.Name != nil {
			st.Name = *p.Name
		}
		if p.GSTCode != nil {
			st.GSTCode = p.GSTCode
		}

		verrs, err := s.validate(ctx, st)
		if err != nil {
			errsOut = append(errsOut, BulkItemError{p.StateCode: err.Error()})
			continue
		}
		if len(verrs) > 0 {
			errsOut = append(errsOut, BulkItemError{p.StateCode: verrs})
			continue
		}
		if err := s.States.Update(ctx, st); err != nil {
			if s.Logger != nil {
				s.Logger.WithError(err).WithField("state_code", p.StateCode).Error("bulk update item failed")
			}
			errsOut = append(errsOut, BulkItemError{p.StateCode: "update failed"})
		}
	}
	return errsOut, nil
}

func (s *StateService) validate(ctx context.Context, st *entity.State) (FieldErrors, error) {
	errs := FieldErrors{}
	taken, err := s.States.StateCodeTaken(ctx, st.StateCode, st.ID)
	if err != nil {
		return nil, err
	}
	if taken {
		errs["state_code"] = "state with this state_code already exists"
	}
	if st.GSTCode != nil {
		taken, err = s.States.GSTCodeTaken(ctx, *st.GSTCode, st.ID)
		if err != nil {
			return nil, err
		}
		if taken {
			errs["gst_code"] = "state with this gst_code already exists"
		}
	}
	taken, err = s.States.NameTakenInCountry(ctx, st.Name, st.CountryID, st.ID)
	if err != nil {
		return nil, err
	}
	if taken {
		errs["name"] = "state with this name already exists in the country"
	}
	return errs, nil
}
