package application

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	repo "geoatlas/internal/domain/repository"
)

type CityServiceSuite struct {
	suite.Suite
	ctx context.Context
	fx  *fixture
	svc *CityService
}

func (s *CityServiceSuite) SetupTest() {
	s.ctx = context.Background()
	s.fx = newFixture()
	s.svc = NewCityService(s.fx.countries, s.fx.states, s.fx.cities, testLogger())

	countrySvc := NewCountryService(s.fx.countries, testLogger())
	stateSvc := NewStateService(s.fx.countries, s.fx.states, testLogger())
	_, err := countrySvc.Create(s.ctx, "alice", CountryInput{Name: "India", CountryCode: "IND", CurrSymbol: "₹", PhoneCode: "91"})
	s.Require().NoError(err)
	_, err = stateSvc.Create(s.ctx, "alice", "IND", StateInput{Name: "Gujarat", StateCode: "GJ"})
	s.Require().NoError(err)
	_, err = stateSvc.Create(s.ctx, "alice", "IND", StateInput{Name: "Kerala", StateCode: "KL"})
	s.Require().NoError(err)
}

func TestCityServiceSuite(t *testing.T) {
	suite.Run(t, new(CityServiceSuite))
}

func (s *CityServiceSuite) ahmedabad() CityInput {
	return CityInput{
		Name: "Ahmedabad", CityCode: "AMD", PhoneCode: "079",
		Population: 8000, AvgAge: 29.5, AdultMales: 2500, AdultFemales: 2400,
	}
}

func (s *CityServiceSuite) TestCreateAndGet() {
	created, err := s.svc.Create(s.ctx, "alice", "IND", "GJ", s.ahmedabad())
	s.Require().NoError(err)
	s.NotEmpty(created.ID)

	got, err := s.svc.Get(s.ctx, "alice", "IND", "GJ", "AMD")
	s.Require().NoError(err)
	s.Equal(int64(8000), got.Population)
}

func (s *CityServiceSuite) TestPopulationMustExceedAdultSum() {
	in := s.ahmedabad()
	in.Population = 4900
	in.AdultMales = 2500
	in.AdultFemales = 2400

	_, err := s.svc.Create(s.ctx, "alice", "IND", "GJ", in)
	var ferrs FieldErrors
	s.Require().ErrorAs(err, &ferrs)
	s.Contains(ferrs, "population")

	// equality is rejected too
	in.Population = 4900
	in.AdultMales = 2450
	in.AdultFemales = 2450
	_, err = s.svc.Create(s.ctx, "alice", "IND", "GJ", in)
	s.Require().ErrorAs(err, &ferrs)
	s.Contains(ferrs, "population")
}

func (s *CityServiceSuite) TestCityCodeGloballyUnique() {
	_, err := s.svc.Create(s.ctx, "alice", "IND", "GJ", s.ahmedabad())
	s.Require().NoError(err)

	in := s.ahmedabad()
	in.Name = "Other"
	in.PhoneCode = "080"
	_, err = s.svc.Create(s.ctx, "alice", "IND", "KL", in)
	var ferrs FieldErrors
	s.Require().ErrorAs(err, &ferrs)
	s.Contains(ferrs, "city_code")
}

func (s *CityServiceSuite) TestNameUniquePerStateOnly() {
	_, err := s.svc.Create(s.ctx, "alice", "IND", "GJ", s.ahmedabad())
	s.Require().NoError(err)

	in := s.ahmedabad()
	in.CityCode = "AMX"
	in.PhoneCode = "080"
	_, err = s.svc.Create(s.ctx, "alice", "IND", "KL", in)
	s.NoError(err)

	in.CityCode = "AMY"
	in.PhoneCode = "081"
	_, err = s.svc.Create(s.ctx, "alice", "IND", "GJ", in)
	var ferrs FieldErrors
	s.Require().ErrorAs(err, &ferrs)
	s.Contains(ferrs, "name")
}

func (s *CityServiceSuite) TestUpdateKeepsOwnRowOutOfUniqueness() {
	_, err := s.svc.Create(s.ctx, "alice", "IND", "GJ", s.ahmedabad())
	s.Require().NoError(err)

	in := s.ahmedabad()
	in.Population = 9000
	updated, err := s.svc.Update(s.ctx, "alice", "IND", "GJ", "AMD", in)
	s.Require().NoError(err)
	s.Equal(int64(9000), updated.Population)
}

func (s *CityServiceSuite) TestListWithPopulationBounds() {
	small := CityInput{Name: "Anand", CityCode: "AND", PhoneCode: "02692", Population: 300, AvgAge: 28, AdultMales: 100, AdultFemales: 100}
	_, err := s.svc.Create(s.ctx, "alice", "IND", "GJ", small)
	s.Require().NoError(err)
	_, err = s.svc.Create(s.ctx, "alice", "IND", "GJ", s.ahmedabad())
	s.Require().NoError(err)

	min := int64(1000)
	cts, err := s.svc.List(s.ctx, "alice", "IND", "GJ", repo.CityFilter{MinPopulation: &min})
	s.Require().NoError(err)
	s.Require().Len(cts, 1)
	s.Equal("AMD", cts[0].CityCode)

	max := int64(1000)
	cts, err = s.svc.List(s.ctx, "alice", "IND", "GJ", repo.CityFilter{MaxPopulation: &max})
	s.Require().NoError(err)
	s.Require().Len(cts, 1)
	s.Equal("AND", cts[0].CityCode)
}

func (s *CityServiceSuite) TestListInCountrySpansStates() {
	_, err := s.svc.Create(s.ctx, "alice", "IND", "GJ", s.ahmedabad())
	s.Require().NoError(err)
	kochi := CityInput{Name: "Kochi", CityCode: "COK", PhoneCode: "0484", Population: 2000, AvgAge: 31, AdultMales: 700, AdultFemales: 700}
	_, err = s.svc.Create(s.ctx, "alice", "IND", "KL", kochi)
	s.Require().NoError(err)

	cts, err := s.svc.ListInCountry(s.ctx, "alice", "IND", repo.CityFilter{})
	s.Require().NoError(err)
	s.Len(cts, 2)
}

func (s *CityServiceSuite) TestForeignOwnerSeesNothing() {
	_, err := s.svc.Create(s.ctx, "alice", "IND", "GJ", s.ahmedabad())
	s.Require().NoError(err)

	_, err = s.svc.Get(s.ctx, "bob", "IND", "GJ", "AMD")
	s.ErrorIs(err, repo.ErrNotFound)
}

func (s *CityServiceSuite) TestDelete() {
	_, err := s.svc.Create(s.ctx, "alice", "IND", "GJ", s.ahmedabad())
	s.Require().NoError(err)

	s.Require().NoError(s.svc.Delete(s.ctx, "alice", "IND", "GJ", "AMD"))
	_, err = s.svc.Get(s.ctx, "alice", "IND", "GJ", "AMD")
	s.ErrorIs(err, repo.ErrNotFound)
}
