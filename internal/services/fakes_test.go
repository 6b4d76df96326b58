package services

import (
	"context"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/easyjob/apiserver/internal/store"
	"github.com/easyjob/apiserver/types"
)

// world is an in-memory stand-in for the Postgres repositories.
type world struct {
	mu           sync.Mutex
	nextID       int
	users        map[int]types.User
	companies    map[int]types.Company
	categories   map[int]types.Category
	skills       map[int]types.Skill
	vacancies    map[int]types.Vacancy
	resumes      map[int]types.Resume
	applications map[int]types.Application
	contacts     map[int]types.Contact
	clock        time.Time
}

func newWorld() *world {
	return &world{
		users:        map[int]types.User{},
		companies:    map[int]types.Company{},
		categories:   map[int]types.Category{},
		skills:       map[int]types.Skill{},
		vacancies:    map[int]types.Vacancy{},
		resumes:      map[int]types.Resume{},
		applications: map[int]types.Application{},
		contacts:     map[int]types.Contact{},
		clock:        time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func (w *world) id() int {
	w.nextID++
	return w.nextID
}

// tick returns strictly increasing timestamps so newest-first order is
// deterministic.
func (w *world) tick() time.Time {
	w.clock = w.clock.Add(time.Minute)
	return w.clock
}

func window[T any](items []T, page types.Page) []T {
	if page.Offset >= len(items) {
		return []T{}
	}
	end := len(items)
	if page.Limit > 0 && page.Offset+page.Limit < end {
		end = page.Offset + page.Limit
	}
	return items[page.Offset:end]
}

func sortedKeys[V any](m map[int]V) []int {
	keys := make([]int, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	return keys
}

type userRepo struct{ w *world }

func (r userRepo) List(_ context.Context, page types.Page) ([]types.User, int, error) {
	r.w.mu.Lock()
	defer r.w.mu.Unlock()
	var out []types.User
	for _, id := range sortedKeys(r.w.users) {
		out = append(out, r.w.users[id])
	}
	return window(out, page), len(out), nil
}

func (r userRepo) GetByID(_ context.Context, id int) (types.User, error) {
	r.w.mu.Lock()
	defer r.w.mu.Unlock()
	user, ok := r.w.users[id]
	if !ok {
		return types.User{}, store.ErrNotFound
	}
	return user, nil
}

func (r userRepo) GetByEmail(_ context.Context, email string) (types.User, error) {
	r.w.mu.Lock()
	defer r.w.mu.Unlock()
	for _, user := range r.w.users {
		if strings.EqualFold(user.Email, email) {
			return user, nil
		}
	}
	return types.User{}, store.ErrNotFound
}

func (r userRepo) unique(user types.User) error {
	for _, existing := range r.w.users {
		if existing.ID == user.ID {
			continue
		}
		if strings.EqualFold(existing.Email, user.Email) {
			return &store.ConstraintError{Constraint: "users_email_key", Field: "email", Kind: store.KindUnique}
		}
		if existing.Username == user.Username {
			return &store.ConstraintError{Constraint: "users_username_key", Field: "username", Kind: store.KindUnique}
		}
	}
	return nil
}

func (r userRepo) Create(_ context.Context, user types.User) (types.User, error) {
	r.w.mu.Lock()
	defer r.w.mu.Unlock()
	if err := r.unique(user); err != nil {
		return types.User{}, err
	}
	user.ID = r.w.id()
	user.DateJoined = r.w.tick()
	r.w.users[user.ID] = user
	return user, nil
}

func (r userRepo) Update(_ context.Context, user types.User) (types.User, error) {
	r.w.mu.Lock()
	defer r.w.mu.Unlock()
	if _, ok := r.w.users[user.ID]; !ok {
		return types.User{}, store.ErrNotFound
	}
	if err := r.unique(user); err != nil {
		return types.User{}, err
	}
	r.w.users[user.ID] = user
	return user, nil
}

func (r userRepo) Delete(_ context.Context, id int) error {
	r.w.mu.Lock()
	defer r.w.mu.Unlock()
	if _, ok := r.w.users[id]; !ok {
		return store.ErrNotFound
	}
	delete(r.w.users, id)
	return nil
}

type companyRepo struct{ w *world }

func (r companyRepo) activeCount(companyID int) int {
	count := 0
	for _, vacancy := range r.w.vacancies {
		if vacancy.CompanyID == companyID && vacancy.IsActive {
			count++
		}
	}
	return count
}

// ranked returns company ids by active vacancy count, most first.
func (r companyRepo) ranked() []int {
	ids := sortedKeys(r.w.companies)
	sort.SliceStable(ids, func(i, j int) bool {
		return r.activeCount(ids[i]) > r.activeCount(ids[j])
	})
	return ids
}

func (r companyRepo) List(_ context.Context, filter types.CompanyFilter, page types.Page) ([]types.Company, int, error) {
	r.w.mu.Lock()
	defer r.w.mu.Unlock()
	var out []types.Company
	for _, id := range sortedKeys(r.w.companies) {
		company := r.w.companies[id]
		if filter.Location != nil && company.Location != *filter.Location {
			continue
		}
		if !matches(filter.Search, company.Name, company.Description, company.Location) {
			continue
		}
		out = append(out, company)
	}
	return window(out, page), len(out), nil
}

func (r companyRepo) Popular(_ context.Context, limit int) ([]types.Company, error) {
	r.w.mu.Lock()
	defer r.w.mu.Unlock()
	out := []types.Company{}
	for _, id := range r.ranked() {
		if len(out) == limit {
			break
		}
		company := r.w.companies[id]
		count := r.activeCount(id)
		company.VacancyCount = &count
		out = append(out, company)
	}
	return out, nil
}

func (r companyRepo) Get(_ context.Context, id int) (types.Company, error) {
	r.w.mu.Lock()
	defer r.w.mu.Unlock()
	company, ok := r.w.companies[id]
	if !ok {
		return types.Company{}, store.ErrNotFound
	}
	return company, nil
}

func (r companyRepo) Create(_ context.Context, company types.Company) (types.Company, error) {
	r.w.mu.Lock()
	defer r.w.mu.Unlock()
	company.ID = r.w.id()
	company.CreatedAt = r.w.tick()
	company.UpdatedAt = company.CreatedAt
	r.w.companies[company.ID] = company
	return company, nil
}

func (r companyRepo) Update(_ context.Context, company types.Company) (types.Company, error) {
	r.w.mu.Lock()
	defer r.w.mu.Unlock()
	if _, ok := r.w.companies[company.ID]; !ok {
		return types.Company{}, store.ErrNotFound
	}
	company.UpdatedAt = r.w.tick()
	r.w.companies[company.ID] = company
	return company, nil
}

func (r companyRepo) Delete(_ context.Context, id int) error {
	r.w.mu.Lock()
	defer r.w.mu.Unlock()
	if _, ok := r.w.companies[id]; !ok {
		return store.ErrNotFound
	}
	delete(r.w.companies, id)
	for vid, vacancy := range r.w.vacancies {
		if vacancy.CompanyID == id {
			delete(r.w.vacancies, vid)
		}
	}
	return nil
}

type categoryRepo struct{ w *world }

func (r categoryRepo) count(category types.Category) types.Category {
	category.VacancyCount = 0
	for _, vacancy := range r.w.vacancies {
		if vacancy.CategoryID != nil && *vacancy.CategoryID == category.ID && vacancy.IsActive {
			category.VacancyCount++
		}
	}
	return category
}

func (r categoryRepo) List(_ context.Context, page types.Page) ([]types.Category, int, error) {
	r.w.mu.Lock()
	defer r.w.mu.Unlock()
	var out []types.Category
	for _, id := range sortedKeys(r.w.categories) {
		out = append(out, r.count(r.w.categories[id]))
	}
	return window(out, page), len(out), nil
}

func (r categoryRepo) Get(_ context.Context, id int) (types.Category, error) {
	r.w.mu.Lock()
	defer r.w.mu.Unlock()
	category, ok := r.w.categories[id]
	if !ok {
		return types.Category{}, store.ErrNotFound
	}
	return r.count(category), nil
}

func (r categoryRepo) Create(_ context.Context, category types.Category) (types.Category, error) {
	r.w.mu.Lock()
	defer r.w.mu.Unlock()
	category.ID = r.w.id()
	category.CreatedAt = r.w.tick()
	r.w.categories[category.ID] = category
	return category, nil
}

func (r categoryRepo) Update(_ context.Context, category types.Category) (types.Category, error) {
	r.w.mu.Lock()
	defer r.w.mu.Unlock()
	if _, ok := r.w.categories[category.ID]; !ok {
		return types.Category{}, store.ErrNotFound
	}
	r.w.categories[category.ID] = category
	return r.count(category), nil
}

func (r categoryRepo) Delete(_ context.Context, id int) error {
	r.w.mu.Lock()
	defer r.w.mu.Unlock()
	if _, ok := r.w.categories[id]; !ok {
		return store.ErrNotFound
	}
	delete(r.w.categories, id)
	for vid, vacancy := range r.w.vacancies {
		if vacancy.CategoryID != nil && *vacancy.CategoryID == id {
			vacancy.CategoryID = nil
			r.w.vacancies[vid] = vacancy
		}
	}
	return nil
}

type skillRepo struct{ w *world }

func (r skillRepo) List(_ context.Context, filter types.SkillFilter, page types.Page) ([]types.Skill, int, error) {
	r.w.mu.Lock()
	defer r.w.mu.Unlock()
	var out []types.Skill
	for _, id := range sortedKeys(r.w.skills) {
		if matches(filter.Search, r.w.skills[id].Name) {
			out = append(out, r.w.skills[id])
		}
	}
	return window(out, page), len(out), nil
}

func (r skillRepo) Get(_ context.Context, id int) (types.Skill, error) {
	r.w.mu.Lock()
	defer r.w.mu.Unlock()
	skill, ok := r.w.skills[id]
	if !ok {
		return types.Skill{}, store.ErrNotFound
	}
	return skill, nil
}

func (r skillRepo) Missing(_ context.Context, ids []int) ([]int, error) {
	r.w.mu.Lock()
	defer r.w.mu.Unlock()
	var missing []int
	for _, id := range ids {
		if _, ok := r.w.skills[id]; !ok {
			missing = append(missing, id)
		}
	}
	return missing, nil
}

func (r skillRepo) Create(_ context.Context, skill types.Skill) (types.Skill, error) {
	r.w.mu.Lock()
	defer r.w.mu.Unlock()
	skill.ID = r.w.id()
	skill.CreatedAt = r.w.tick()
	r.w.skills[skill.ID] = skill
	return skill, nil
}

func (r skillRepo) Update(_ context.Context, skill types.Skill) (types.Skill, error) {
	r.w.mu.Lock()
	defer r.w.mu.Unlock()
	if _, ok := r.w.skills[skill.ID]; !ok {
		return types.Skill{}, store.ErrNotFound
	}
	r.w.skills[skill.ID] = skill
	return skill, nil
}

func (r skillRepo) Delete(_ context.Context, id int) error {
	r.w.mu.Lock()
	defer r.w.mu.Unlock()
	if _, ok := r.w.skills[id]; !ok {
		return store.ErrNotFound
	}
	delete(r.w.skills, id)
	return nil
}

func (w *world) skillList(ids []int) []types.Skill {
	out := []types.Skill{}
	for _, id := range ids {
		out = append(out, w.skills[id])
	}
	return out
}

type vacancyRepo struct{ w *world }

func (r vacancyRepo) hydrate(vacancy types.Vacancy) types.Vacancy {
	vacancy.CompanyName = r.w.companies[vacancy.CompanyID].Name
	vacancy.CategoryName = nil
	if vacancy.CategoryID != nil {
		if category, ok := r.w.categories[*vacancy.CategoryID]; ok {
			name := category.Name
			vacancy.CategoryName = &name
		}
	}
	vacancy.SkillsList = r.w.skillList(vacancy.Skills)
	return vacancy
}

// newest returns vacancy ids newest first.
func (r vacancyRepo) newest() []int {
	ids := sortedKeys(r.w.vacancies)
	sort.SliceStable(ids, func(i, j int) bool {
		return r.w.vacancies[ids[i]].CreatedAt.After(r.w.vacancies[ids[j]].CreatedAt)
	})
	return ids
}

func (r vacancyRepo) List(_ context.Context, filter types.VacancyFilter, page types.Page) ([]types.Vacancy, int, error) {
	r.w.mu.Lock()
	defer r.w.mu.Unlock()
	var out []types.Vacancy
	for _, id := range r.newest() {
		vacancy := r.hydrate(r.w.vacancies[id])
		switch {
		case filter.IsActive != nil && vacancy.IsActive != *filter.IsActive,
			filter.CompanyID != nil && vacancy.CompanyID != *filter.CompanyID,
			filter.CategoryID != nil && (vacancy.CategoryID == nil || *vacancy.CategoryID != *filter.CategoryID),
			filter.JobType != nil && vacancy.JobType != *filter.JobType,
			filter.ExperienceLevel != nil && vacancy.ExperienceLevel != *filter.ExperienceLevel,
			!matches(filter.Search, vacancy.Title, vacancy.Description, vacancy.CompanyName, vacancy.Location):
			continue
		}
		out = append(out, vacancy)
	}
	return window(out, page), len(out), nil
}

func (r vacancyRepo) Featured(_ context.Context, companyLimit, limit int) ([]types.Vacancy, error) {
	r.w.mu.Lock()
	defer r.w.mu.Unlock()
	top := map[int]bool{}
	ranked := companyRepo(r).ranked()
	for i := 0; i < len(ranked) && i < companyLimit; i++ {
		top[ranked[i]] = true
	}
	out := []types.Vacancy{}
	for _, id := range r.newest() {
		vacancy := r.w.vacancies[id]
		if len(out) == limit {
			break
		}
		if vacancy.IsActive && top[vacancy.CompanyID] {
			out = append(out, r.hydrate(vacancy))
		}
	}
	return out, nil
}

func (r vacancyRepo) Get(_ context.Context, id int) (types.Vacancy, error) {
	r.w.mu.Lock()
	defer r.w.mu.Unlock()
	vacancy, ok := r.w.vacancies[id]
	if !ok {
		return types.Vacancy{}, store.ErrNotFound
	}
	return r.hydrate(vacancy), nil
}

func (r vacancyRepo) Create(_ context.Context, vacancy types.Vacancy) (types.Vacancy, error) {
	r.w.mu.Lock()
	defer r.w.mu.Unlock()
	vacancy.ID = r.w.id()
	vacancy.CreatedAt = r.w.tick()
	vacancy.UpdatedAt = vacancy.CreatedAt
	r.w.vacancies[vacancy.ID] = vacancy
	return r.hydrate(vacancy), nil
}

func (r vacancyRepo) Update(_ context.Context, vacancy types.Vacancy) (types.Vacancy, error) {
	r.w.mu.Lock()
	defer r.w.mu.Unlock()
	if _, ok := r.w.vacancies[vacancy.ID]; !ok {
		return types.Vacancy{}, store.ErrNotFound
	}
	vacancy.UpdatedAt = r.w.tick()
	r.w.vacancies[vacancy.ID] = vacancy
	return r.hydrate(vacancy), nil
}

func (r vacancyRepo) Delete(_ context.Context, id int) error {
	r.w.mu.Lock()
	defer r.w.mu.Unlock()
	if _, ok := r.w.vacancies[id]; !ok {
		return store.ErrNotFound
	}
	delete(r.w.vacancies, id)
	return nil
}

type resumeRepo struct{ w *world }

func (r resumeRepo) hydrate(resume types.Resume) types.Resume {
	resume.SkillsList = r.w.skillList(resume.Skills)
	resume.UserName = r.w.users[resume.UserID].FullName()
	return resume
}

func (r resumeRepo) ListByUser(_ context.Context, userID int, page types.Page) ([]types.Resume, int, error) {
	r.w.mu.Lock()
	defer r.w.mu.Unlock()
	var out []types.Resume
	for _, id := range sortedKeys(r.w.resumes) {
		if r.w.resumes[id].UserID == userID {
			out = append(out, r.hydrate(r.w.resumes[id]))
		}
	}
	return window(out, page), len(out), nil
}

func (r resumeRepo) GetForUser(_ context.Context, id, userID int) (types.Resume, error) {
	r.w.mu.Lock()
	defer r.w.mu.Unlock()
	resume, ok := r.w.resumes[id]
	if !ok || resume.UserID != userID {
		return types.Resume{}, store.ErrNotFound
	}
	return r.hydrate(resume), nil
}

func (r resumeRepo) Create(_ context.Context, resume types.Resume) (types.Resume, error) {
	r.w.mu.Lock()
	defer r.w.mu.Unlock()
	resume.ID = r.w.id()
	resume.CreatedAt = r.w.tick()
	resume.UpdatedAt = resume.CreatedAt
	r.w.resumes[resume.ID] = resume
	return r.hydrate(resume), nil
}

func (r resumeRepo) Update(_ context.Context, resume types.Resume) (types.Resume, error) {
	r.w.mu.Lock()
	defer r.w.mu.Unlock()
	existing, ok := r.w.resumes[resume.ID]
	if !ok || existing.UserID != resume.UserID {
		return types.Resume{}, store.ErrNotFound
	}
	resume.UpdatedAt = r.w.tick()
	r.w.resumes[resume.ID] = resume
	return r.hydrate(resume), nil
}

func (r resumeRepo) DeleteForUser(_ context.Context, id, userID int) error {
	r.w.mu.Lock()
	defer r.w.mu.Unlock()
	resume, ok := r.w.resumes[id]
	if !ok || resume.UserID != userID {
		return store.ErrNotFound
	}
	delete(r.w.resumes, id)
	for aid, application := range r.w.applications {
		if application.ResumeID != nil && *application.ResumeID == id {
			application.ResumeID = nil
			r.w.applications[aid] = application
		}
	}
	return nil
}

type applicationRepo struct{ w *world }

func (r applicationRepo) hydrate(application types.Application) types.Application {
	vacancy := r.w.vacancies[application.VacancyID]
	company := r.w.companies[vacancy.CompanyID]
	application.UserName = r.w.users[application.UserID].FullName()
	application.VacancyTitle = vacancy.Title
	application.CompanyName = company.Name
	application.EmployerID = company.UserID
	application.ResumeTitle = nil
	if application.ResumeID != nil {
		if resume, ok := r.w.resumes[*application.ResumeID]; ok {
			title := resume.Title
			application.ResumeTitle = &title
		}
	}
	return application
}

func (r applicationRepo) visible(application types.Application, scope types.ApplicationScope) bool {
	if scope.EmployerID != 0 {
		return r.hydrate(application).EmployerID == scope.EmployerID
	}
	return application.UserID == scope.ApplicantID
}

func (r applicationRepo) List(_ context.Context, scope types.ApplicationScope, page types.Page) ([]types.Application, int, error) {
	r.w.mu.Lock()
	defer r.w.mu.Unlock()
	var out []types.Application
	for _, id := range sortedKeys(r.w.applications) {
		if r.visible(r.w.applications[id], scope) {
			out = append(out, r.hydrate(r.w.applications[id]))
		}
	}
	return window(out, page), len(out), nil
}

func (r applicationRepo) GetInScope(_ context.Context, id int, scope types.ApplicationScope) (types.Application, error) {
	r.w.mu.Lock()
	defer r.w.mu.Unlock()
	application, ok := r.w.applications[id]
	if !ok || !r.visible(application, scope) {
		return types.Application{}, store.ErrNotFound
	}
	return r.hydrate(application), nil
}

func (r applicationRepo) Create(_ context.Context, application types.Application) (types.Application, error) {
	r.w.mu.Lock()
	defer r.w.mu.Unlock()
	application.ID = r.w.id()
	application.CreatedAt = r.w.tick()
	application.UpdatedAt = application.CreatedAt
	r.w.applications[application.ID] = application
	return r.hydrate(application), nil
}

func (r applicationRepo) Update(_ context.Context, application types.Application, scope types.ApplicationScope) (types.Application, error) {
	r.w.mu.Lock()
	defer r.w.mu.Unlock()
	existing, ok := r.w.applications[application.ID]
	if !ok || !r.visible(existing, scope) {
		return types.Application{}, store.ErrNotFound
	}
	existing.CoverLetter = application.CoverLetter
	existing.ResumeID = application.ResumeID
	existing.UpdatedAt = r.w.tick()
	r.w.applications[existing.ID] = existing
	return r.hydrate(existing), nil
}

func (r applicationRepo) UpdateStatus(_ context.Context, id int, status types.ApplicationStatus) (types.Application, error) {
	r.w.mu.Lock()
	defer r.w.mu.Unlock()
	application, ok := r.w.applications[id]
	if !ok {
		return types.Application{}, store.ErrNotFound
	}
	application.Status = status
	application.UpdatedAt = r.w.tick()
	r.w.applications[id] = application
	return r.hydrate(application), nil
}

func (r applicationRepo) DeleteInScope(_ context.Context, id int, scope types.ApplicationScope) error {
	r.w.mu.Lock()
	defer r.w.mu.Unlock()
	application, ok := r.w.applications[id]
	if !ok || !r.visible(application, scope) {
		return store.ErrNotFound
	}
	delete(r.w.applications, id)
	return nil
}

type contactRepo struct{ w *world }

func (r contactRepo) First(_ context.Context) (types.Contact, error) {
	r.w.mu.Lock()
	defer r.w.mu.Unlock()
	keys := sortedKeys(r.w.contacts)
	if len(keys) == 0 {
		return types.Contact{}, store.ErrNotFound
	}
	return r.w.contacts[keys[0]], nil
}

func (r contactRepo) Get(_ context.Context, id int) (types.Contact, error) {
	r.w.mu.Lock()
	defer r.w.mu.Unlock()
	contact, ok := r.w.contacts[id]
	if !ok {
		return types.Contact{}, store.ErrNotFound
	}
	return contact, nil
}

func (r contactRepo) Create(_ context.Context, contact types.Contact) (types.Contact, error) {
	r.w.mu.Lock()
	defer r.w.mu.Unlock()
	contact.ID = r.w.id()
	contact.UpdatedAt = r.w.tick()
	r.w.contacts[contact.ID] = contact
	return contact, nil
}

func (r contactRepo) Update(_ context.Context, contact types.Contact) (types.Contact, error) {
	r.w.mu.Lock()
	defer r.w.mu.Unlock()
	if _, ok := r.w.contacts[contact.ID]; !ok {
		return types.Contact{}, store.ErrNotFound
	}
	contact.UpdatedAt = r.w.tick()
	r.w.contacts[contact.ID] = contact
	return contact, nil
}

func (r contactRepo) Delete(_ context.Context, id int) error {
	r.w.mu.Lock()
	defer r.w.mu.Unlock()
	if _, ok := r.w.contacts[id]; !ok {
		return store.ErrNotFound
	}
	delete(r.w.contacts, id)
	return nil
}

// matches mirrors the store search: every term must appear in a field.
func matches(search string, fields ...string) bool {
	terms := strings.Fields(strings.ReplaceAll(search, ",", " "))
	for _, term := range terms {
		found := false
		for _, field := range fields {
			if strings.Contains(strings.ToLower(field), strings.ToLower(term)) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

type memoryFiles struct {
	mu      sync.Mutex
	objects map[string][]byte
	deleted []string
}

func newMemoryFiles() *memoryFiles {
	return &memoryFiles{objects: map[string][]byte{}}
}

func (m *memoryFiles) Put(_ context.Context, key string, r io.Reader, _ int64, _ string) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[key] = data
	return nil
}

func (m *memoryFiles) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.objects, key)
	m.deleted = append(m.deleted, key)
	return nil
}

type recordingPublisher struct {
	mu       sync.Mutex
	channels []string
	events   []ApplicationEvent
	attrs    []map[string]string
	err      error
}

func (p *recordingPublisher) Publish(_ context.Context, channel string, data []byte, attrs map[string]string) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return "", p.err
	}
	event, err := DecodeApplicationEvent(data)
	if err != nil {
		return "", err
	}
	p.channels = append(p.channels, channel)
	p.events = append(p.events, event)
	p.attrs = append(p.attrs, attrs)
	return "msg", nil
}

// fixture wires every service over one world.
type fixture struct {
	w            *world
	files        *memoryFiles
	publisher    *recordingPublisher
	users        *UserService
	companies    *CompanyService
	categories   *CategoryService
	skills       *SkillService
	vacancies    *VacancyService
	resumes      *ResumeService
	applications *ApplicationService
	contacts     *ContactService
}

func newFixture(ownerWrites bool) *fixture {
	w := newWorld()
	files := newMemoryFiles()
	publisher := &recordingPublisher{}
	uploads := NewUploader(files, nil)
	events := NewEvents(publisher, "applications", nil)
	return &fixture{
		w:          w,
		files:      files,
		publisher:  publisher,
		users:      NewUserService(userRepo{w}, uploads),
		companies:  NewCompanyService(companyRepo{w}, uploads),
		categories: NewCategoryService(categoryRepo{w}),
		skills:     NewSkillService(skillRepo{w}),
		vacancies: NewVacancyService(VacancyRepos{
			Vacancies:    vacancyRepo{w},
			Companies:    companyRepo{w},
			Categories:   categoryRepo{w},
			Skills:       skillRepo{w},
			Resumes:      resumeRepo{w},
			Applications: applicationRepo{w},
		}, events, ownerWrites),
		resumes:      NewResumeService(resumeRepo{w}, skillRepo{w}, uploads),
		applications: NewApplicationService(applicationRepo{w}, vacancyRepo{w}, resumeRepo{w}, events),
		contacts:     NewContactService(contactRepo{w}),
	}
}

func ptr[T any](v T) *T {
	return &v
}
