package application

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	repo "geoatlas/internal/domain/repository"
)

type NestedServiceSuite struct {
	suite.Suite
	ctx context.Context
	fx  *fixture
	svc *NestedService
}

func (s *NestedServiceSuite) SetupTest() {
	s.ctx = context.Background()
	s.fx = newFixture()
	s.svc = NewNestedService(s.fx.countries, s.fx.states, s.fx.cities, s.fx.trees, testLogger())
}

func TestNestedServiceSuite(t *testing.T) {
	suite.Run(t, new(NestedServiceSuite))
}

func (s *NestedServiceSuite) indiaTree() NestedCountryInput {
	states := []NestedStateInput{
		{
			StateInput: StateInput{Name: "Gujarat", StateCode: "GJ", GSTCode: strptr("24")},
			Cities: []CityInput{
				{Name: "Ahmedabad", CityCode: "AMD", PhoneCode: "079", Population: 8000, AvgAge: 29.5, AdultMales: 2500, AdultFemales: 2400},
				{Name: "Surat", CityCode: "STV", PhoneCode: "0261", Population: 6500, AvgAge: 27.8, AdultMales: 2100, AdultFemales: 1900},
			},
		},
		{
			StateInput: StateInput{Name: "Kerala", StateCode: "KL"},
			Cities: []CityInput{
				{Name: "Kochi", CityCode: "COK", PhoneCode: "0484", Population: 2000, AvgAge: 31, AdultMales: 700, AdultFemales: 700},
			},
		},
	}
	return NestedCountryInput{
		CountryInput: CountryInput{Name: "India", CountryCode: "IND", CurrSymbol: "₹", PhoneCode: "91"},
		States:       &states,
	}
}

func (s *NestedServiceSuite) TestCreateTreeAndGet() {
	created, err := s.svc.CreateTree(s.ctx, "alice", s.indiaTree())
	s.Require().NoError(err)
	s.Len(created.States, 2)

	got, err := s.svc.GetTree(s.ctx, "alice", "IND")
	s.Require().NoError(err)
	s.Equal("India", got.Name)
	s.Require().Len(got.States, 2)
	s.Len(got.States[0].Cities, 2)
	s.Len(got.States[1].Cities, 1)
}

func (s *NestedServiceSuite) TestCreateTreeWithoutStates() {
	in := s.indiaTree()
	in.States = nil
	created, err := s.svc.CreateTree(s.ctx, "alice", in)
	s.Require().NoError(err)
	s.Empty(created.States)
}

func (s *NestedServiceSuite) TestInvalidCityRejectsWholeTree() {
	in := s.indiaTree()
	(*in.States)[1].Cities[0].Population = 100 // below adult sum

	_, err := s.svc.CreateTree(s.ctx, "alice", in)
	var ferrs FieldErrors
	s.Require().ErrorAs(err, &ferrs)
	s.Contains(ferrs, "states[1].cities[0].population")

	// nothing persisted at any level
	s.Empty(s.fx.store.countries)
	s.Empty(s.fx.store.states)
	s.Empty(s.fx.store.cities)
}

func (s *NestedServiceSuite) TestIntraPayloadDuplicatesRejected() {
	in := s.indiaTree()
	(*in.States)[1].StateCode = "GJ"

	_, err := s.svc.CreateTree(s.ctx, "alice", in)
	var ferrs FieldErrors
	s.Require().ErrorAs(err, &ferrs)
	s.Contains(ferrs, "states[1].state_code")
}

func (s *NestedServiceSuite) TestUpdateTreeAbsentStatesLeavesSubtree() {
	_, err := s.svc.CreateTree(s.ctx, "alice", s.indiaTree())
	s.Require().NoError(err)

	in := NestedCountryInput{
		CountryInput: CountryInput{Name: "Bharat", CountryCode: "IND", CurrSymbol: "₹", PhoneCode: "91"},
	}
	got, err := s.svc.UpdateTree(s.ctx, "alice", "IND", in)
	s.Require().NoError(err)
	s.Equal("Bharat", got.Name)
	s.Len(got.States, 2)
}

func (s *NestedServiceSuite) TestUpdateTreeEmptyStatesDeletesAll() {
	_, err := s.svc.CreateTree(s.ctx, "alice", s.indiaTree())
	s.Require().NoError(err)

	empty := []NestedStateInput{}
	in := s.indiaTree()
	in.States = &empty
	got, err := s.svc.UpdateTree(s.ctx, "alice", "IND", in)
	s.Require().NoError(err)
	s.Empty(got.States)
	s.Empty(s.fx.store.states)
	s.Empty(s.fx.store.cities)
}

func (s *NestedServiceSuite) TestUpdateTreeReplacesSubtree() {
	_, err := s.svc.CreateTree(s.ctx, "alice", s.indiaTree())
	s.Require().NoError(err)

	// reuse GJ and AMD: they belong to this country's old subtree and must
	// not count as conflicts during the replace
	states := []NestedStateInput{
		{
			StateInput: StateInput{Name: "Gujarat", StateCode: "GJ"},
			Cities: []CityInput{
				{Name: "Ahmedabad", CityCode: "AMD", PhoneCode: "079", Population: 9000, AvgAge: 30, AdultMales: 2500, AdultFemales: 2400},
			},
		},
	}
	in := s.indiaTree()
	in.States = &states

	got, err := s.svc.UpdateTree(s.ctx, "alice", "IND", in)
	s.Require().NoError(err)
	s.Require().Len(got.States, 1)
	s.Require().Len(got.States[0].Cities, 1)
	s.Equal(int64(9000), got.States[0].Cities[0].Population)
}

func (s *NestedServiceSuite) TestCreateTreeRejectsCodeHeldByOtherCountry() {
	_, err := s.svc.CreateTree(s.ctx, "alice", s.indiaTree())
	s.Require().NoError(err)

	franceStates := []NestedStateInput{
		{StateInput: StateInput{Name: "Grand Est", StateCode: "GJ"}}, // held by India
	}
	in := NestedCountryInput{
		CountryInput: CountryInput{Name: "France", CountryCode: "FRA", CurrSymbol: "€", PhoneCode: "33"},
		States:       &franceStates,
	}
	_, err = s.svc.CreateTree(s.ctx, "alice", in)
	var ferrs FieldErrors
	s.Require().ErrorAs(err, &ferrs)
	s.Contains(ferrs, "states[0].state_code")
}

func (s *NestedServiceSuite) TestUpdateForeignTreeIsNotFound() {
	_, err := s.svc.CreateTree(s.ctx, "alice", s.indiaTree())
	s.Require().NoError(err)

	_, err = s.svc.UpdateTree(s.ctx, "bob", "IND", s.indiaTree())
	s.ErrorIs(err, repo.ErrNotFound)
}

func (s *NestedServiceSuite) TestDeleteTreeCascades() {
	_, err := s.svc.CreateTree(s.ctx, "alice", s.indiaTree())
	s.Require().NoError(err)

	s.Require().NoError(s.svc.DeleteTree(s.ctx, "alice", "IND"))
	s.Empty(s.fx.store.countries)
	s.Empty(s.fx.store.states)
	s.Empty(s.fx.store.cities)
}
