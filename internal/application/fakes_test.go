package application

import (
	"context"
	"fmt"
	"io"
	"sort"

	"github.com/sirupsen/logrus"

	"geoatlas/internal/domain/entity"
	repo "geoatlas/internal/domain/repository"
)

func testLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

// memStore backs the in-memory repository fakes. Reads hand out copies so a
// service mutating a fetched entity cannot change the store without going
// through Update, mirroring how rows behave behind a real pool.
type memStore struct {
	countries map[string]*entity.Country
	states    map[string]*entity.State
	cities    map[string]*entity.City
	users     map[string]*entity.User
}

func newMemStore() *memStore {
	return &memStore{
		countries: map[string]*entity.Country{},
		states:    map[string]*entity.State{},
		cities:    map[string]*entity.City{},
		users:     map[string]*entity.User{},
	}
}

func conflict(constraint string) error {
	return fmt.Errorf("%w: %s", repo.ErrConflict, constraint)
}

func copyCountry(c *entity.Country) *entity.Country { cp := *c; return &cp }
func copyState(s *entity.State) *entity.State       { cp := *s; return &cp }
func copyCity(c *entity.City) *entity.City          { cp := *c; return &cp }
func copyUser(u *entity.User) *entity.User          { cp := *u; return &cp }

func (s *memStore) deleteCountryCascade(id string) {
	for sid, st := range s.states {
		if st.CountryID == id {
			s.deleteStateCascade(sid)
		}
	}
	delete(s.countries, id)
}

func (s *memStore) deleteStateCascade(id string) {
	for cid, ct := range s.cities {
		if ct.StateID == id {
			delete(s.cities, cid)
		}
	}
	delete(s.states, id)
}

// countryOf walks a city up to its country id through the parent state.
func (s *memStore) countryOf(city *entity.City) string {
	if st, ok := s.states[city.StateID]; ok {
		return st.CountryID
	}
	return ""
}

type memCountryRepo struct{ s *memStore }

func (r *memCountryRepo) List(_ context.Context, ownerID string) ([]*entity.Country, error) {
	var out []*entity.Country
	for _, c := range r.s.countries {
		if c.OwnerID != nil && *c.OwnerID == ownerID {
			out = append(out, copyCountry(c))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CountryCode < out[j].CountryCode })
	return out, nil
}

func (r *memCountryRepo) GetByCode(_ context.Context, ownerID, countryCode string) (*entity.Country, error) {
	for _, c := range r.s.countries {
		if c.CountryCode == countryCode && c.OwnerID != nil && *c.OwnerID == ownerID {
			return copyCountry(c), nil
		}
	}
	return nil, repo.ErrNotFound
}

func (r *memCountryRepo) insert(c *entity.Country) error {
	for _, other := range r.s.countries {
		if other.ID == c.ID {
			return conflict("countries_pkey")
		}
		if other.CountryCode == c.CountryCode {
			return conflict("countries_country_code_key")
		}
		if other.PhoneCode == c.PhoneCode {
			return conflict("countries_phone_code_key")
		}
	}
	r.s.countries[c.ID] = copyCountry(c)
	return nil
}

func (r *memCountryRepo) Create(_ context.Context, c *entity.Country) error {
	return r.insert(c)
}

func (r *memCountryRepo) CreateBatch(_ context.Context, cs []*entity.Country) error {
	inserted := make([]string, 0, len(cs))
	for _, c := range cs {
		if err := r.insert(c); err != nil {
			for _, id := range inserted {
				delete(r.s.countries, id)
			}
			return err
		}
		inserted = append(inserted, c.ID)
	}
	return nil
}

func (r *memCountryRepo) Update(_ context.Context, c *entity.Country) error {
	if _, ok := r.s.countries[c.ID]; !ok {
		return repo.ErrNotFound
	}
	r.s.countries[c.ID] = copyCountry(c)
	return nil
}

func (r *memCountryRepo) Delete(ctx context.Context, ownerID, countryCode string) error {
	c, err := r.GetByCode(ctx, ownerID, countryCode)
	if err != nil {
		return err
	}
	r.s.deleteCountryCascade(c.ID)
	return nil
}

func (r *memCountryRepo) CountryCodeTaken(_ context.Context, code, excludeID string) (bool, error) {
	for _, c := range r.s.countries {
		if c.CountryCode == code && c.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (r *memCountryRepo) PhoneCodeTaken(_ context.Context, code, excludeID string) (bool, error) {
	for _, c := range r.s.countries {
		if c.PhoneCode == code && c.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

type memStateRepo struct{ s *memStore }

func (r *memStateRepo) ListByCountry(_ context.Context, countryID string) ([]*entity.State, error) {
	var out []*entity.State
	for _, st := range r.s.states {
		if st.CountryID == countryID {
			out = append(out, copyState(st))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StateCode < out[j].StateCode })
	return out, nil
}

func (r *memStateRepo) GetByCode(_ context.Context, countryID, stateCode string) (*entity.State, error) {
	for _, st := range r.s.states {
		if st.CountryID == countryID && st.StateCode == stateCode {
			return copyState(st), nil
		}
	}
	return nil, repo.ErrNotFound
}

func (r *memStateRepo) insert(st *entity.State) error {
	for _, other := range r.s.states {
		if other.StateCode == st.StateCode {
			return conflict("states_state_code_key")
		}
		if st.GSTCode != nil && other.GSTCode != nil && *other.GSTCode == *st.GSTCode {
			return conflict("states_gst_code_key")
		}
		if other.CountryID == st.CountryID && other.Name == st.Name {
			return conflict("states_name_country_key")
		}
	}
	r.s.states[st.ID] = copyState(st)
	return nil
}

func (r *memStateRepo) Create(_ context.Context, st *entity.State) error {
	return r.insert(st)
}

func (r *memStateRepo) CreateBatch(_ context.Context, sts []*entity.State) error {
	inserted := make([]string, 0, len(sts))
	for _, st := range sts {
		if err := r.insert(st); err != nil {
			for _, id := range inserted {
				delete(r.s.states, id)
			}
			return err
		}
		inserted = append(inserted, st.ID)
	}
	return nil
}

func (r *memStateRepo) Update(_ context.Context, st *entity.State) error {
	if _, ok := r.s.states[st.ID]; !ok {
		return repo.ErrNotFound
	}
	r.s.states[st.ID] = copyState(st)
	return nil
}

func (r *memStateRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.s.states[id]; !ok {
		return repo.ErrNotFound
	}
	r.s.deleteStateCascade(id)
	return nil
}

func (r *memStateRepo) StateCodeTaken(_ context.Context, code, excludeID string) (bool, error) {
	for _, st := range r.s.states {
		if st.StateCode == code && st.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (r *memStateRepo) GSTCodeTaken(_ context.Context, code, excludeID string) (bool, error) {
	for _, st := range r.s.states {
		if st.GSTCode != nil && *st.GSTCode == code && st.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (r *memStateRepo) NameTakenInCountry(_ context.Context, name, countryID, excludeID string) (bool, error) {
	for _, st := range r.s.states {
		if st.CountryID == countryID && st.Name == name && st.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (r *memStateRepo) StateCodeHeldOutsideCountry(_ context.Context, code, countryID string) (bool, error) {
	for _, st := range r.s.states {
		if st.StateCode == code && st.CountryID != countryID {
			return true, nil
		}
	}
	return false, nil
}

func (r *memStateRepo) GSTCodeHeldOutsideCountry(_ context.Context, code, countryID string) (bool, error) {
	for _, st := range r.s.states {
		if st.GSTCode != nil && *st.GSTCode == code && st.CountryID != countryID {
			return true, nil
		}
	}
	return false, nil
}

type memCityRepo struct{ s *memStore }

func matchesFilter(c *entity.City, f repo.CityFilter) bool {
	if f.MinPopulation != nil && c.Population < *f.MinPopulation {
		return false
	}
	if f.MaxPopulation != nil && c.Population > *f.MaxPopulation {
		return false
	}
	return true
}

func (r *memCityRepo) ListByState(_ context.Context, stateID string, f repo.CityFilter) ([]*entity.City, error) {
	var out []*entity.City
	for _, c := range r.s.cities {
		if c.StateID == stateID && matchesFilter(c, f) {
			out = append(out, copyCity(c))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CityCode < out[j].CityCode })
	return out, nil
}

func (r *memCityRepo) ListByCountry(_ context.Context, countryID string, f repo.CityFilter) ([]*entity.City, error) {
	var out []*entity.City
	for _, c := range r.s.cities {
		if r.s.countryOf(c) == countryID && matchesFilter(c, f) {
			out = append(out, copyCity(c))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CityCode < out[j].CityCode })
	return out, nil
}

func (r *memCityRepo) GetByCode(_ context.Context, stateID, cityCode string) (*entity.City, error) {
	for _, c := range r.s.cities {
		if c.StateID == stateID && c.CityCode == cityCode {
			return copyCity(c), nil
		}
	}
	return nil, repo.ErrNotFound
}

func (r *memCityRepo) insert(c *entity.City) error {
	for _, other := range r.s.cities {
		if other.CityCode == c.CityCode {
			return conflict("cities_city_code_key")
		}
		if other.PhoneCode == c.PhoneCode {
			return conflict("cities_phone_code_key")
		}
		if other.StateID == c.StateID && other.Name == c.Name {
			return conflict("cities_name_state_key")
		}
	}
	r.s.cities[c.ID] = copyCity(c)
	return nil
}

func (r *memCityRepo) Create(_ context.Context, c *entity.City) error {
	return r.insert(c)
}

func (r *memCityRepo) Update(_ context.Context, c *entity.City) error {
	if _, ok := r.s.cities[c.ID]; !ok {
		return repo.ErrNotFound
	}
	r.s.cities[c.ID] = copyCity(c)
	return nil
}

func (r *memCityRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.s.cities[id]; !ok {
		return repo.ErrNotFound
	}
	delete(r.s.cities, id)
	return nil
}

func (r *memCityRepo) CityCodeTaken(_ context.Context, code, excludeID string) (bool, error) {
	for _, c := range r.s.cities {
		if c.CityCode == code && c.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (r *memCityRepo) PhoneCodeTaken(_ context.Context, code, excludeID string) (bool, error) {
	for _, c := range r.s.cities {
		if c.PhoneCode == code && c.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (r *memCityRepo) NameTakenInState(_ context.Context, name, stateID, excludeID string) (bool, error) {
	for _, c := range r.s.cities {
		if c.StateID == stateID && c.Name == name && c.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (r *memCityRepo) CityCodeHeldOutsideCountry(_ context.Context, code, countryID string) (bool, error) {
	for _, c := range r.s.cities {
		if c.CityCode == code && r.s.countryOf(c) != countryID {
			return true, nil
		}
	}
	return false, nil
}

func (r *memCityRepo) PhoneCodeHeldOutsideCountry(_ context.Context, code, countryID string) (bool, error) {
	for _, c := range r.s.cities {
		if c.PhoneCode == code && r.s.countryOf(c) != countryID {
			return true, nil
		}
	}
	return false, nil
}

type memTreeRepo struct {
	s         *memStore
	countries *memCountryRepo
	states    *memStateRepo
	cities    *memCityRepo
}

func (r *memTreeRepo) ListTrees(ctx context.Context, ownerID string) ([]*entity.CountryTree, error) {
	cs, err := r.countries.List(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	out := make([]*entity.CountryTree, len(cs))
	for i, c := range cs {
		out[i] = r.loadTree(c)
	}
	return out, nil
}

func (r *memTreeRepo) GetTree(ctx context.Context, ownerID, countryCode string) (*entity.CountryTree, error) {
	c, err := r.countries.GetByCode(ctx, ownerID, countryCode)
	if err != nil {
		return nil, err
	}
	return r.loadTree(c), nil
}

func (r *memTreeRepo) loadTree(c *entity.Country) *entity.CountryTree {
	t := &entity.CountryTree{Country: *c}
	sts, _ := r.states.ListByCountry(context.Background(), c.ID)
	for _, st := range sts {
		cities, _ := r.cities.ListByState(context.Background(), st.ID, repo.CityFilter{})
		t.States = append(t.States, &entity.StateTree{State: *st, Cities: cities})
	}
	return t
}

// CreateTree mimics a transaction by snapshotting and restoring on failure.
func (r *memTreeRepo) CreateTree(ctx context.Context, t *entity.CountryTree) error {
	restore := r.s.snapshot()
	err := r.writeTree(ctx, t)
	if err != nil {
		restore()
	}
	return err
}

func (r *memTreeRepo) writeTree(ctx context.Context, t *entity.CountryTree) error {
	if err := r.countries.Create(ctx, &t.Country); err != nil {
		return err
	}
	for _, st := range t.States {
		if err := r.states.Create(ctx, &st.State); err != nil {
			return err
		}
		for _, c := range st.Cities {
			c.StateID = st.ID
			if err := r.cities.Create(ctx, c); err != nil {
				return err
			}
		}
	}
	return nil
}

func (r *memTreeRepo) ReplaceTree(ctx context.Context, c *entity.Country, states []*entity.StateTree) error {
	restore := r.s.snapshot()
	err := r.replace(ctx, c, states)
	if err != nil {
		restore()
	}
	return err
}

func (r *memTreeRepo) replace(ctx context.Context, c *entity.Country, states []*entity.StateTree) error {
	if err := r.countries.Update(ctx, c); err != nil {
		return err
	}
	if states == nil {
		return nil
	}
	for sid, st := range r.s.states {
		if st.CountryID == c.ID {
			r.s.deleteStateCascade(sid)
		}
	}
	for _, st := range states {
		if err := r.states.Create(ctx, &st.State); err != nil {
			return err
		}
		for _, city := range st.Cities {
			city.StateID = st.ID
			if err := r.cities.Create(ctx, city); err != nil {
				return err
			}
		}
	}
	return nil
}

func (s *memStore) snapshot() func() {
	countries := map[string]*entity.Country{}
	for k, v := range s.countries {
		countries[k] = copyCountry(v)
	}
	states := map[string]*entity.State{}
	for k, v := range s.states {
		states[k] = copyState(v)
	}
	cities := map[string]*entity.City{}
	for k, v := range s.cities {
		cities[k] = copyCity(v)
	}
	return func() {
		s.countries = countries
		s.states = states
		s.cities = cities
	}
}

type memUserRepo struct{ s *memStore }

func (r *memUserRepo) Create(_ context.Context, u *entity.User) error {
	for _, other := range r.s.users {
		if other.Email == u.Email {
			return conflict("users_email_key")
		}
	}
	r.s.users[u.ID] = copyUser(u)
	return nil
}

func (r *memUserRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	if u, ok := r.s.users[id]; ok {
		return copyUser(u), nil
	}
	return nil, repo.ErrNotFound
}

func (r *memUserRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	for _, u := range r.s.users {
		if u.Email == email {
			return copyUser(u), nil
		}
	}
	return nil, repo.ErrNotFound
}

func (r *memUserRepo) List(_ context.Context, afterEmail string, limit int) ([]*entity.User, error) {
	var out []*entity.User
	for _, u := range r.s.users {
		if u.Email > afterEmail {
			out = append(out, copyUser(u))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Email < out[j].Email })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *memUserRepo) EmailTaken(_ context.Context, email string) (bool, error) {
	for _, u := range r.s.users {
		if u.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (r *memUserRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.s.users[id]; !ok {
		return repo.ErrNotFound
	}
	delete(r.s.users, id)
	for _, c := range r.s.countries {
		if c.OwnerID != nil && *c.OwnerID == id {
			c.OwnerID = nil
		}
	}
	return nil
}

// fixture bundles the fakes the service tests share.
type fixture struct {
	store     *memStore
	countries *memCountryRepo
	states    *memStateRepo
	cities    *memCityRepo
	trees     *memTreeRepo
	users     *memUserRepo
}

func newFixture() *fixture {
	s := newMemStore()
	countries := &memCountryRepo{s: s}
	states := &memStateRepo{s: s}
	cities := &memCityRepo{s: s}
	return &fixture{
		store:     s,
		countries: countries,
		states:    states,
		cities:    cities,
		trees:     &memTreeRepo{s: s, countries: countries, states: states, cities: cities},
		users:     &memUserRepo{s: s},
	}
}
