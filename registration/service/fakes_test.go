package service

import (
	"context"
	"sort"
	"time"

	"github.com/gripclub/registration-service/registration/store"
	"github.com/gripclub/registration-service/shared/models"
)

// In-memory store fakes backing the service tests. They mirror the adapter
// contracts: sentinel errors, conditional status writes, patch semantics.

type fakeTeamStore struct {
	teams map[string]*models.Team
}

func newFakeTeamStore() *fakeTeamStore {
	return &fakeTeamStore{teams: map[string]*models.Team{}}
}

func (f *fakeTeamStore) Create(_ context.Context, team *models.Team) error {
	for _, t := range f.teams {
		if t.RepresentativeUserID == team.RepresentativeUserID {
			return store.ErrDuplicate
		}
	}
	copied := *team
	f.teams[team.ID] = &copied
	return nil
}

func (f *fakeTeamStore) GetByID(_ context.Context, id string) (*models.Team, error) {
	team, ok := f.teams[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	copied := *team
	return &copied, nil
}

func (f *fakeTeamStore) GetByOwner(_ context.Context, userID string) (*models.Team, error) {
	for _, team := range f.teams {
		if team.RepresentativeUserID == userID {
			copied := *team
			return &copied, nil
		}
	}
	return nil, store.ErrNotFound
}

func (f *fakeTeamStore) List(_ context.Context) ([]models.Team, error) {
	out := make([]models.Team, 0, len(f.teams))
	for _, team := range f.teams {
		out = append(out, *team)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (f *fakeTeamStore) Count(_ context.Context) (int64, error) {
	return int64(len(f.teams)), nil
}

func (f *fakeTeamStore) Update(_ context.Context, id string, patch models.TeamPatch) (*models.Team, error) {
	team, ok := f.teams[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	if patch.Name != nil {
		team.Name = *patch.Name
	}
	if patch.NumberOfPilots != nil {
		team.NumberOfPilots = *patch.NumberOfPilots
	}
	if patch.RepresentativeName != nil {
		team.RepresentativeName = *patch.RepresentativeName
	}
	if patch.RepresentativeSurname != nil {
		team.RepresentativeSurname = *patch.RepresentativeSurname
	}
	if patch.RepresentativeDNI != nil {
		team.RepresentativeDNI = *patch.RepresentativeDNI
	}
	if patch.RepresentativePhone != nil {
		team.RepresentativePhone = *patch.RepresentativePhone
	}
	if patch.RepresentativeEmail != nil {
		team.RepresentativeEmail = *patch.RepresentativeEmail
	}
	if patch.Address != nil {
		team.Address = *patch.Address
	}
	if patch.Municipality != nil {
		team.Municipality = *patch.Municipality
	}
	if patch.PostalCode != nil {
		team.PostalCode = *patch.PostalCode
	}
	if patch.Province != nil {
		team.Province = *patch.Province
	}
	if patch.MotorcycleBrand != nil {
		team.MotorcycleBrand = *patch.MotorcycleBrand
	}
	if patch.MotorcycleModel != nil {
		team.MotorcycleModel = *patch.MotorcycleModel
	}
	if patch.EngineCapacity != nil {
		team.EngineCapacity = *patch.EngineCapacity
	}
	if patch.RegistrationDate != nil {
		team.RegistrationDate = *patch.RegistrationDate
	}
	if patch.Modifications != nil {
		team.Modifications = *patch.Modifications
	}
	if patch.Comments != nil {
		team.Comments = *patch.Comments
	}
	if patch.GDPRConsent != nil {
		team.GDPRConsent = *patch.GDPRConsent
	}
	team.UpdatedAt = time.Now().UTC()
	copied := *team
	return &copied, nil
}

func (f *fakeTeamStore) UpdateStatus(_ context.Context, id string, status models.RegistrationStatus) (*models.Team, error) {
	team, ok := f.teams[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	team.Status = status
	team.UpdatedAt = time.Now().UTC()
	copied := *team
	return &copied, nil
}

func (f *fakeTeamStore) TransitionStatus(_ context.Context, id string, from, to models.RegistrationStatus) error {
	team, ok := f.teams[id]
	if !ok {
		return nil
	}
	if team.Status == from {
		team.Status = to
		team.UpdatedAt = time.Now().UTC()
	}
	return nil
}

func (f *fakeTeamStore) Delete(_ context.Context, id string) error {
	if _, ok := f.teams[id]; !ok {
		return store.ErrNotFound
	}
	delete(f.teams, id)
	return nil
}

type fakePilotStore struct {
	pilots []*models.Pilot
}

func newFakePilotStore() *fakePilotStore { return &fakePilotStore{} }

func (f *fakePilotStore) Create(_ context.Context, pilot *models.Pilot) error {
	for _, p := range f.pilots {
		if p.TeamID == pilot.TeamID && p.DNI == pilot.DNI {
			return store.ErrDuplicate
		}
	}
	copied := *pilot
	f.pilots = append(f.pilots, &copied)
	return nil
}

func (f *fakePilotStore) Get(_ context.Context, teamID, id string) (*models.Pilot, error) {
	for _, p := range f.pilots {
		if p.TeamID == teamID && p.ID == id {
			copied := *p
			return &copied, nil
		}
	}
	return nil, store.ErrNotFound
}

func (f *fakePilotStore) ListByTeam(_ context.Context, teamID string) ([]models.Pilot, error) {
	var out []models.Pilot
	for _, p := range f.pilots {
		if p.TeamID == teamID {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (f *fakePilotStore) CountByTeam(_ context.Context, teamID string) (int64, error) {
	var n int64
	for _, p := range f.pilots {
		if p.TeamID == teamID {
			n++
		}
	}
	return n, nil
}

func (f *fakePilotStore) DNIExists(_ context.Context, teamID, dni, excludeID string) (bool, error) {
	for _, p := range f.pilots {
		if p.TeamID == teamID && p.DNI == dni && p.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakePilotStore) Update(_ context.Context, teamID, id string, patch models.PilotPatch) (*models.Pilot, error) {
	for _, p := range f.pilots {
		if p.TeamID != teamID || p.ID != id {
			continue
		}
		if patch.Name != nil {
			p.Name = *patch.Name
		}
		if patch.Surname != nil {
			p.Surname = *patch.Surname
		}
		if patch.DNI != nil {
			p.DNI = *patch.DNI
		}
		if patch.Email != nil {
			p.Email = *patch.Email
		}
		if patch.Phone != nil {
			p.Phone = *patch.Phone
		}
		if patch.EmergencyContactName != nil {
			p.EmergencyContactName = *patch.EmergencyContactName
		}
		if patch.EmergencyContactPhone != nil {
			p.EmergencyContactPhone = *patch.EmergencyContactPhone
		}
		if patch.DrivingLevel != nil {
			p.DrivingLevel = *patch.DrivingLevel
		}
		if patch.TrackExperience != nil {
			p.TrackExperience = *patch.TrackExperience
		}
		if patch.IsRepresentative != nil {
			p.IsRepresentative = *patch.IsRepresentative
		}
		p.UpdatedAt = time.Now().UTC()
		copied := *p
		return &copied, nil
	}
	return nil, store.ErrNotFound
}

func (f *fakePilotStore) Delete(_ context.Context, teamID, id string) error {
	for i, p := range f.pilots {
		if p.TeamID == teamID && p.ID == id {
			f.pilots = append(f.pilots[:i], f.pilots[i+1:]...)
			return nil
		}
	}
	return store.ErrNotFound
}

func (f *fakePilotStore) DeleteByTeam(_ context.Context, teamID string) error {
	var kept []*models.Pilot
	for _, p := range f.pilots {
		if p.TeamID != teamID {
			kept = append(kept, p)
		}
	}
	f.pilots = kept
	return nil
}

type fakeStaffStore struct {
	staff []*models.StaffMember
}

func newFakeStaffStore() *fakeStaffStore { return &fakeStaffStore{} }

func (f *fakeStaffStore) Create(_ context.Context, member *models.StaffMember) error {
	copied := *member
	f.staff = append(f.staff, &copied)
	return nil
}

func (f *fakeStaffStore) Get(_ context.Context, teamID, id string) (*models.StaffMember, error) {
	for _, s := range f.staff {
		if s.TeamID == teamID && s.ID == id {
			copied := *s
			return &copied, nil
		}
	}
	return nil, store.ErrNotFound
}

func (f *fakeStaffStore) ListByTeam(_ context.Context, teamID string) ([]models.StaffMember, error) {
	var out []models.StaffMember
	for _, s := range f.staff {
		if s.TeamID == teamID {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (f *fakeStaffStore) CountByTeam(_ context.Context, teamID string) (int64, error) {
	var n int64
	for _, s := range f.staff {
		if s.TeamID == teamID {
			n++
		}
	}
	return n, nil
}

func (f *fakeStaffStore) DNIExists(_ context.Context, teamID, dni, excludeID string) (bool, error) {
	for _, s := range f.staff {
		if s.TeamID == teamID && s.DNI == dni && s.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeStaffStore) Update(_ context.Context, teamID, id string, patch models.StaffPatch) (*models.StaffMember, error) {
	for _, s := range f.staff {
		if s.TeamID != teamID || s.ID != id {
			continue
		}
		if patch.Name != nil {
			s.Name = *patch.Name
		}
		if patch.DNI != nil {
			s.DNI = *patch.DNI
		}
		if patch.Phone != nil {
			s.Phone = *patch.Phone
		}
		if patch.Role != nil {
			s.Role = *patch.Role
		}
		s.UpdatedAt = time.Now().UTC()
		copied := *s
		return &copied, nil
	}
	return nil, store.ErrNotFound
}

func (f *fakeStaffStore) Delete(_ context.Context, teamID, id string) error {
	for i, s := range f.staff {
		if s.TeamID == teamID && s.ID == id {
			f.staff = append(f.staff[:i], f.staff[i+1:]...)
			return nil
		}
	}
	return store.ErrNotFound
}

func (f *fakeStaffStore) DeleteByTeam(_ context.Context, teamID string) error {
	var kept []*models.StaffMember
	for _, s := range f.staff {
		if s.TeamID != teamID {
			kept = append(kept, s)
		}
	}
	f.staff = kept
	return nil
}

type fakeSettingsStore struct {
	settings *models.RegistrationSettings
}

func newFakeSettingsStore() *fakeSettingsStore { return &fakeSettingsStore{} }

func (f *fakeSettingsStore) Get(_ context.Context) (*models.RegistrationSettings, error) {
	if f.settings == nil {
		return nil, store.ErrNotFound
	}
	copied := *f.settings
	return &copied, nil
}

func (f *fakeSettingsStore) Upsert(_ context.Context, patch models.SettingsPatch) (*models.RegistrationSettings, error) {
	if f.settings == nil {
		defaults := models.DefaultSettings()
		f.settings = &defaults
	}
	if patch.RegistrationOpen != nil {
		f.settings.RegistrationOpen = *patch.RegistrationOpen
	}
	if patch.RegistrationDeadline != nil {
		f.settings.RegistrationDeadline = patch.RegistrationDeadline
	}
	if patch.PilotModificationDeadline != nil {
		f.settings.PilotModificationDeadline = patch.PilotModificationDeadline
	}
	if patch.MaxTeams != nil {
		f.settings.MaxTeams = *patch.MaxTeams
	}
	if patch.EventDate != nil {
		f.settings.EventDate = patch.EventDate
	}
	if patch.EventLocation != nil {
		f.settings.EventLocation = *patch.EventLocation
	}
	f.settings.UpdatedAt = time.Now().UTC()
	copied := *f.settings
	return &copied, nil
}

// newFakeStores bundles fresh fakes for a test case.
func newFakeStores() store.Stores {
	return store.Stores{
		Teams:    newFakeTeamStore(),
		Pilots:   newFakePilotStore(),
		Staff:    newFakeStaffStore(),
		Settings: newFakeSettingsStore(),
	}
}
