package services

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/easyjob/apiserver/types"
	"github.com/shopspring/decimal"
)

func createCompany(t *testing.T, f *fixture, owner types.User, name string) types.Company {
	t.Helper()
	company, err := f.companies.Create(context.Background(), owner, CompanyInput{
		Name:        ptr(name),
		Description: ptr(name + " builds things"),
		Location:    ptr("Tashkent"),
	})
	if err != nil {
		t.Fatalf("create company %s: %v", name, err)
	}
	return company
}

func vacancyInput(companyID int, min, max string) VacancyInput {
	return VacancyInput{
		Company:         ptr(companyID),
		Title:           ptr("Go developer"),
		Description:     ptr("Build services"),
		Requirements:    ptr("Go, SQL"),
		ExperienceLevel: ptr(types.ExperienceMid),
		JobType:         ptr(types.JobTypeFullTime),
		SalaryMin:       ptr(decimal.RequireFromString(min)),
		SalaryMax:       ptr(decimal.RequireFromString(max)),
		Location:        ptr("Remote"),
	}
}

func createVacancy(t *testing.T, f *fixture, companyID int, active bool) types.Vacancy {
	t.Helper()
	input := vacancyInput(companyID, "1000", "2000")
	input.IsActive = ptr(active)
	vacancy, err := f.vacancies.Create(context.Background(), nil, input)
	if err != nil {
		t.Fatalf("create vacancy: %v", err)
	}
	return vacancy
}

func TestVacancySalaryRangeRejected(t *testing.T) {
	f := newFixture(false)
	employer := register(t, f, "a@example.com", types.UserTypeEmployer)
	company := createCompany(t, f, employer, "X")

	_, err := f.vacancies.Create(context.Background(), nil, vacancyInput(company.ID, "1000", "500"))
	expectField(t, err, "salary_min")
	if len(f.w.vacancies) != 0 {
		t.Fatalf("expected no vacancy to be stored")
	}

	vacancy := createVacancy(t, f, company.ID, true)
	_, err = f.vacancies.Update(context.Background(), nil, vacancy.ID, VacancyInput{
		SalaryMin: ptr(decimal.RequireFromString("5000")),
	}, true)
	expectField(t, err, "salary_min")
	if !f.w.vacancies[vacancy.ID].SalaryMin.Equal(decimal.RequireFromString("1000")) {
		t.Fatalf("vacancy was modified by rejected update")
	}
}

func TestVacancyValidation(t *testing.T) {
	f := newFixture(false)
	input := vacancyInput(999, "10.123", "20")
	input.ExperienceLevel = ptr(types.ExperienceLevel("guru"))
	input.Category = Some(42)
	input.Skills = ptr([]int{7})

	_, err := f.vacancies.Create(context.Background(), nil, input)
	for _, field := range []string{"company", "category", "skills", "experience_level", "salary_min"} {
		expectField(t, err, field)
	}

	_, err = f.vacancies.Create(context.Background(), nil, VacancyInput{})
	for _, field := range []string{"title", "company", "job_type", "salary_max"} {
		expectField(t, err, field)
	}
}

func TestVacancyListActiveOnlyDetailUnfiltered(t *testing.T) {
	f := newFixture(false)
	ctx := context.Background()
	employer := register(t, f, "a@example.com", types.UserTypeEmployer)
	company := createCompany(t, f, employer, "X")
	active := createVacancy(t, f, company.ID, true)
	inactive := createVacancy(t, f, company.ID, false)

	list, total, err := f.vacancies.List(ctx, types.VacancyFilter{}, types.Page{Limit: 20})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if total != 1 || len(list) != 1 || list[0].ID != active.ID {
		t.Fatalf("expected only active vacancy, got %d %+v", total, list)
	}

	list, _, err = f.vacancies.List(ctx, types.VacancyFilter{IsActive: ptr(false)}, types.Page{Limit: 20})
	if err != nil {
		t.Fatalf("list inactive: %v", err)
	}
	if len(list) != 0 {
		t.Fatalf("expected inactive filter to yield nothing, got %d", len(list))
	}

	got, err := f.vacancies.Get(ctx, inactive.ID)
	if err != nil {
		t.Fatalf("get inactive: %v", err)
	}
	if got.IsActive {
		t.Fatalf("expected inactive vacancy")
	}
}

func TestVacancyOwnerWritePolicy(t *testing.T) {
	f := newFixture(true)
	ctx := context.Background()
	owner := register(t, f, "owner@example.com", types.UserTypeEmployer)
	other := register(t, f, "other@example.com", types.UserTypeEmployer)
	company := createCompany(t, f, owner, "X")

	if _, err := f.vacancies.Create(ctx, nil, vacancyInput(company.ID, "1", "2")); !errors.Is(err, ErrPermissionDenied) {
		t.Fatalf("expected anonymous write to be denied, got %v", err)
	}
	if _, err := f.vacancies.Create(ctx, &other, vacancyInput(company.ID, "1", "2")); !errors.Is(err, ErrPermissionDenied) {
		t.Fatalf("expected non-owner write to be denied, got %v", err)
	}
	vacancy, err := f.vacancies.Create(ctx, &owner, vacancyInput(company.ID, "1", "2"))
	if err != nil {
		t.Fatalf("owner create: %v", err)
	}
	if err := f.vacancies.Delete(ctx, &other, vacancy.ID); !errors.Is(err, ErrPermissionDenied) {
		t.Fatalf("expected non-owner delete to be denied, got %v", err)
	}
	if err := f.vacancies.Delete(ctx, &owner, vacancy.ID); err != nil {
		t.Fatalf("owner delete: %v", err)
	}
}

func TestPopularAndFeatured(t *testing.T) {
	f := newFixture(false)
	ctx := context.Background()
	employer := register(t, f, "a@example.com", types.UserTypeEmployer)

	counts := []int{0, 3, 1, 2, 4, 1, 2}
	companies := make([]types.Company, len(counts))
	for i, n := range counts {
		companies[i] = createCompany(t, f, employer, "C"+string(rune('A'+i)))
		for j := 0; j < n; j++ {
			createVacancy(t, f, companies[i].ID, true)
		}
		createVacancy(t, f, companies[i].ID, false)
	}

	popular, err := f.companies.Popular(ctx)
	if err != nil {
		t.Fatalf("popular: %v", err)
	}
	if len(popular) > PopularCompaniesLimit {
		t.Fatalf("too many popular companies: %d", len(popular))
	}
	for i := 1; i < len(popular); i++ {
		if *popular[i].VacancyCount > *popular[i-1].VacancyCount {
			t.Fatalf("popular not ordered by count: %d after %d", *popular[i].VacancyCount, *popular[i-1].VacancyCount)
		}
	}
	if popular[0].ID != companies[4].ID {
		t.Fatalf("expected company with 4 active vacancies first, got %d", popular[0].ID)
	}

	featured, err := f.vacancies.Featured(ctx)
	if err != nil {
		t.Fatalf("featured: %v", err)
	}
	if len(featured) != FeaturedVacanciesLimit {
		t.Fatalf("expected %d featured, got %d", FeaturedVacanciesLimit, len(featured))
	}
	top := map[int]bool{}
	for _, company := range popular[:FeaturedCompaniesLimit] {
		top[company.ID] = true
	}
	for i, vacancy := range featured {
		if !vacancy.IsActive || !top[vacancy.CompanyID] {
			t.Fatalf("featured vacancy %d not from a top company or inactive", vacancy.ID)
		}
		if i > 0 && vacancy.CreatedAt.After(featured[i-1].CreatedAt) {
			t.Fatalf("featured not newest first")
		}
	}
}

func TestCategoryVacancyCountIsLive(t *testing.T) {
	f := newFixture(false)
	ctx := context.Background()
	employer := register(t, f, "a@example.com", types.UserTypeEmployer)
	company := createCompany(t, f, employer, "X")
	category, err := f.categories.Create(ctx, CategoryInput{Name: ptr("Engineering")})
	if err != nil {
		t.Fatalf("create category: %v", err)
	}

	input := vacancyInput(company.ID, "1", "2")
	input.Category = Some(category.ID)
	vacancy, err := f.vacancies.Create(ctx, nil, input)
	if err != nil {
		t.Fatalf("create vacancy: %v", err)
	}
	if vacancy.CategoryName == nil || *vacancy.CategoryName != "Engineering" {
		t.Fatalf("unexpected category name: %v", vacancy.CategoryName)
	}

	got, err := f.categories.Get(ctx, category.ID)
	if err != nil {
		t.Fatalf("get category: %v", err)
	}
	if got.VacancyCount != 1 {
		t.Fatalf("expected 1 active vacancy, got %d", got.VacancyCount)
	}

	if _, err := f.vacancies.Update(ctx, nil, vacancy.ID, VacancyInput{IsActive: ptr(false)}, true); err != nil {
		t.Fatalf("deactivate: %v", err)
	}
	got, err = f.categories.Get(ctx, category.ID)
	if err != nil {
		t.Fatalf("get category: %v", err)
	}
	if got.VacancyCount != 0 {
		t.Fatalf("expected count to follow is_active, got %d", got.VacancyCount)
	}
}

func TestCompanyOwnerAssignedAndGuarded(t *testing.T) {
	f := newFixture(false)
	ctx := context.Background()
	owner := register(t, f, "owner@example.com", types.UserTypeEmployer)
	other := register(t, f, "other@example.com", types.UserTypeEmployer)

	company, err := f.companies.Create(ctx, owner, CompanyInput{
		Name:        ptr("Acme"),
		Description: ptr("Anvils"),
		Location:    ptr("Samarkand"),
		Website:     ptr("https://acme.example"),
		Logo:        &Upload{Filename: "logo.svg", Size: 4, Body: bytes.NewReader([]byte("<svg"))},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if company.UserID != owner.ID {
		t.Fatalf("owner not assigned: %d", company.UserID)
	}
	if company.Logo == nil {
		t.Fatalf("expected logo key")
	}

	if _, err := f.companies.Update(ctx, other, company.ID, CompanyInput{Name: ptr("Stolen")}, true); !errors.Is(err, ErrPermissionDenied) {
		t.Fatalf("expected permission denied, got %v", err)
	}
	_, err = f.companies.Update(ctx, owner, company.ID, CompanyInput{Website: ptr("ftp://acme")}, true)
	expectField(t, err, "website")

	if err := f.companies.Delete(ctx, owner, company.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := f.companies.Get(ctx, company.ID); err == nil || err.Error() != "company not found" {
		t.Fatalf("expected company not found, got %v", err)
	}
}

func TestSkillSearch(t *testing.T) {
	f := newFixture(false)
	ctx := context.Background()
	for _, name := range []string{"Go", "Golang tooling", "Python"} {
		if _, err := f.skills.Create(ctx, SkillInput{Name: ptr(name)}); err != nil {
			t.Fatalf("create skill: %v", err)
		}
	}
	skills, total, err := f.skills.List(ctx, types.SkillFilter{Search: "go"}, types.Page{Limit: 20})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if total != 2 || len(skills) != 2 {
		t.Fatalf("expected 2 go skills, got %d", total)
	}
	_, err = f.skills.Create(ctx, SkillInput{Name: ptr("   ")})
	expectField(t, err, "name")
}
