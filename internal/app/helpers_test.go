package app

import "skill_portal_backend/internal/repository"

func repositoryUsers(a *App) *repository.UserRepository {
	return repository.NewUserRepository(a.DB)
}
