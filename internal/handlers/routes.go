package handlers

import (
	"github.com/easyjob/apiserver/internal/services"
	"github.com/go-chi/chi/v5"
)

// Services bundles the use-case layer the API routes dispatch to.
type Services struct {
	Users        *services.UserService
	Companies    *services.CompanyService
	Categories   *services.CategoryService
	Skills       *services.SkillService
	Vacancies    *services.VacancyService
	Resumes      *services.ResumeService
	Applications *services.ApplicationService
	Contacts     *services.ContactService
}

// APIRouter registers every resource route on r.
func APIRouter(r chi.Router, svc Services, tokens *TokenIssuer, media Media) {
	auth := NewAuthenticator(svc.Users, tokens)

	r.Route("/token", func(r chi.Router) {
		TokenRouter(r, svc.Users, tokens)
	})
	r.Route("/users", func(r chi.Router) {
		UserRouter(r, svc.Users, media, auth)
	})
	r.Route("/companies", func(r chi.Router) {
		CompanyRouter(r, svc.Companies, media, auth)
	})
	r.Route("/categories", func(r chi.Router) {
		CategoryRouter(r, svc.Categories, auth)
	})
	r.Route("/skills", func(r chi.Router) {
		SkillRouter(r, svc.Skills, auth)
	})
	r.Route("/vacancies", func(r chi.Router) {
		VacancyRouter(r, svc.Vacancies, auth)
	})
	r.Route("/resumes", func(r chi.Router) {
		ResumeRouter(r, svc.Resumes, media, auth)
	})
	r.Route("/applications", func(r chi.Router) {
		ApplicationRouter(r, svc.Applications, auth)
	})
	r.Route("/contact", func(r chi.Router) {
		ContactRouter(r, svc.Contacts, auth)
	})
}
