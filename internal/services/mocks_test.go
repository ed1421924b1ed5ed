// file: internal/services/mocks_test.go
package services

import (
	"context"
	"sort"
	"sync"
	"time"

	"speakerhub/internal/models"
	"speakerhub/internal/repositories"
)

// fakeUserRepo is an in-memory UserRepository.
type fakeUserRepo struct {
	mu     sync.Mutex
	users  map[int64]*models.User
	nextID int64

	// searchTotal/searchPage drive CountSearch and SearchPage directly so
	// tests control pagination outcomes.
	searchTotal int64
	searchPage  []*models.User
	lastFilter  models.SpeakerFilter
	lastLimit   int
	lastOffset  int
}

func newFakeUserRepo(users ...*models.User) *fakeUserRepo {
	repo := &fakeUserRepo{users: make(map[int64]*models.User), nextID: 1}
	for _, u := range users {
		if u.ID == 0 {
			u.ID = repo.nextID
		}
		if u.ID >= repo.nextID {
			repo.nextID = u.ID + 1
		}
		repo.users[u.ID] = u
	}
	return repo
}

func (r *fakeUserRepo) Create(_ context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	user.ID = r.nextID
	r.nextID++
	user.IsActive = true
	user.CreatedAt = time.Now()
	copied := *user
	r.users[user.ID] = &copied
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id int64) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.users[id]; ok {
		copied := *u
		return &copied, nil
	}
	return nil, nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) GetByUsername(_ context.Context, username string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Username == username {
			copied := *u
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) Update(_ context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *user
	r.users[user.ID] = &copied
	return nil
}

func (r *fakeUserRepo) UpdateHeadshot(_ context.Context, userID int64, url string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.users[userID]; ok {
		u.HeadshotURL = &url
	}
	return nil
}

func (r *fakeUserRepo) SetExpertise(context.Context, int64, []int64) error { return nil }
func (r *fakeUserRepo) GetExpertise(context.Context, int64) ([]models.Expertise, error) {
	return nil, nil
}
func (r *fakeUserRepo) ListSocialLinks(context.Context, int64) ([]models.SocialMediaLink, error) {
	return nil, nil
}
func (r *fakeUserRepo) AddSocialLink(context.Context, *models.SocialMediaLink) error { return nil }
func (r *fakeUserRepo) DeleteSocialLink(context.Context, int64, int64) error         { return nil }

func (r *fakeUserRepo) CountSearch(_ context.Context, filter models.SpeakerFilter) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lastFilter = filter
	return r.searchTotal, nil
}

func (r *fakeUserRepo) SearchPage(_ context.Context, filter models.SpeakerFilter, limit, offset int) ([]*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lastFilter = filter
	r.lastLimit = limit
	r.lastOffset = offset
	return r.searchPage, nil
}

// fakeMentorshipRepo is an in-memory MentorshipRepository enforcing the same
// guarantees the SQL layer does: one pending request per pair and guarded
// status updates.
type fakeMentorshipRepo struct {
	mu          sync.Mutex
	mentorships map[int64]*models.Mentorship
	focusAreas  map[int64][]int64
	nextID      int64
}

func newFakeMentorshipRepo() *fakeMentorshipRepo {
	return &fakeMentorshipRepo{
		mentorships: make(map[int64]*models.Mentorship),
		focusAreas:  make(map[int64][]int64),
		nextID:      1,
	}
}

func (r *fakeMentorshipRepo) Create(_ context.Context, m *models.Mentorship, focusAreaIDs []int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if m.MentorID == m.MenteeID {
		return repositories.ErrSelfMentorship
	}
	for _, existing := range r.mentorships {
		if existing.MentorID == m.MentorID && existing.MenteeID == m.MenteeID && existing.Status == models.MentorshipPending {
			return repositories.ErrDuplicatePendingRequest
		}
	}

	m.ID = r.nextID
	r.nextID++
	m.RequestedAt = time.Now()
	m.UpdatedAt = m.RequestedAt
	copied := *m
	r.mentorships[m.ID] = &copied
	r.focusAreas[m.ID] = focusAreaIDs
	return nil
}

func (r *fakeMentorshipRepo) GetByID(_ context.Context, id int64) (*models.Mentorship, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if m, ok := r.mentorships[id]; ok {
		copied := *m
		return &copied, nil
	}
	return nil, nil
}

func (r *fakeMentorshipRepo) HasPendingBetween(_ context.Context, mentorID, menteeID int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range r.mentorships {
		if m.MentorID == mentorID && m.MenteeID == menteeID && m.Status == models.MentorshipPending {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeMentorshipRepo) UpdateStatus(_ context.Context, id int64, from, to models.MentorshipStatus, update repositories.StatusUpdate) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	m, ok := r.mentorships[id]
	if !ok || m.Status != from {
		return false, nil
	}
	m.Status = to
	if update.ResponseMessage != nil {
		m.ResponseMessage = update.ResponseMessage
	}
	if update.RespondedAt != nil {
		m.RespondedAt = update.RespondedAt
	}
	if update.StartedAt != nil {
		m.StartedAt = update.StartedAt
	}
	if update.CompletedAt != nil {
		m.CompletedAt = update.CompletedAt
	}
	m.UpdatedAt = time.Now()
	return true, nil
}

// The list fakes apply the same predicates and orderings the SQL layer does.

func (r *fakeMentorshipRepo) ListIncoming(_ context.Context, mentorID int64) ([]*models.Mentorship, error) {
	out := r.collect(func(m *models.Mentorship) bool {
		return m.MentorID == mentorID && m.Status == models.MentorshipPending
	})
	sort.Slice(out, func(i, j int) bool {
		if !out[i].RequestedAt.Equal(out[j].RequestedAt) {
			return out[i].RequestedAt.After(out[j].RequestedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

func (r *fakeMentorshipRepo) ListOutgoing(_ context.Context, menteeID int64) ([]*models.Mentorship, error) {
	out := r.collect(func(m *models.Mentorship) bool {
		return m.MenteeID == menteeID
	})
	sort.Slice(out, func(i, j int) bool {
		if !out[i].RequestedAt.Equal(out[j].RequestedAt) {
			return out[i].RequestedAt.After(out[j].RequestedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

func (r *fakeMentorshipRepo) ListActive(_ context.Context, userID int64) ([]*models.Mentorship, error) {
	out := r.collect(func(m *models.Mentorship) bool {
		return m.IsParticipant(userID) && m.Status == models.MentorshipActive
	})
	sort.Slice(out, func(i, j int) bool {
		si, sj := out[i].StartedAt, out[j].StartedAt
		switch {
		case si == nil:
			return false
		case sj == nil:
			return true
		case !si.Equal(*sj):
			return si.Before(*sj)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r *fakeMentorshipRepo) CountPending(_ context.Context, mentorID int64) (int64, error) {
	return int64(len(r.collect(func(m *models.Mentorship) bool {
		return m.MentorID == mentorID && m.Status == models.MentorshipPending
	}))), nil
}

func (r *fakeMentorshipRepo) CountActiveAsMentor(_ context.Context, mentorID int64) (int64, error) {
	return int64(len(r.collect(func(m *models.Mentorship) bool {
		return m.MentorID == mentorID && m.Status == models.MentorshipActive
	}))), nil
}

func (r *fakeMentorshipRepo) GetFocusAreas(context.Context, int64) ([]models.Expertise, error) {
	return nil, nil
}

func (r *fakeMentorshipRepo) collect(match func(*models.Mentorship) bool) []*models.Mentorship {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Mentorship
	for _, m := range r.mentorships {
		if match(m) {
			copied := *m
			out = append(out, &copied)
		}
	}
	return out
}

// fakeExpertiseRepo resolves IDs against a fixed tag set and serves scripted
// taxonomy lists, counting list calls so cache hits are observable.
type fakeExpertiseRepo struct {
	tags map[int64]models.Expertise

	sectors    []models.Sector
	categories []models.ExpertiseCategory
	expertise  []models.Expertise
	listCalls  int
}

func newFakeExpertiseRepo(ids ...int64) *fakeExpertiseRepo {
	repo := &fakeExpertiseRepo{tags: make(map[int64]models.Expertise)}
	for _, id := range ids {
		repo.tags[id] = models.Expertise{ID: id, Name: "tag", IsActive: true}
	}
	return repo
}

func (r *fakeExpertiseRepo) ListSectors(context.Context) ([]models.Sector, error) {
	r.listCalls++
	return r.sectors, nil
}

func (r *fakeExpertiseRepo) ListCategories(context.Context, *int64) ([]models.ExpertiseCategory, error) {
	r.listCalls++
	return r.categories, nil
}

func (r *fakeExpertiseRepo) ListExpertise(context.Context, *int64) ([]models.Expertise, error) {
	r.listCalls++
	return r.expertise, nil
}

func (r *fakeExpertiseRepo) GetByIDs(_ context.Context, ids []int64) ([]models.Expertise, error) {
	var out []models.Expertise
	for _, id := range ids {
		if tag, ok := r.tags[id]; ok {
			out = append(out, tag)
		}
	}
	return out, nil
}

func (r *fakeExpertiseRepo) SharedExpertise(context.Context, int64, int64) ([]models.Expertise, error) {
	return nil, nil
}
