package seed

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	appModels "github.com/yusuf/schoolsphere/internal/app/models"
	appRepos "github.com/yusuf/schoolsphere/internal/app/repositories"
	pkgAuth "github.com/yusuf/schoolsphere/internal/pkg/auth"
)

// defaultWorkItems is the standard deliverable catalog new installations
// start with. All of them are headmaster-level required items.
var defaultWorkItems = []string{
	"Prota (Annual Program)",
	"Prosem (Semester Program)",
	"Module",
	"Attendance List",
	"Agenda",
}

// CreateDefaultData creates the default work item catalog and the initial
// headmaster account if they don't exist.
func CreateDefaultData(ctx context.Context, dbPool *pgxpool.Pool, lgr zerolog.Logger) error {
	workItemRepo := appRepos.NewWorkItemRepository(dbPool)
	staffRepo := appRepos.NewStaffRepository(dbPool)

	lgr.Info().Msg("Checking/Creating default data (work items, headmaster account)...")
	var finalErr error

	for _, name := range defaultWorkItems {
		exists, err := workItemRepo.ExistsByName(ctx, name)
		if err != nil {
			lgr.Error().Err(err).Str("name", name).Msg("Error checking default work item")
			finalErr = errors.Join(finalErr, err)
			continue
		}
		if exists {
			continue
		}

		item := &appModels.WorkItem{
			Name:          name,
			IsRequired:    true,
			CreatedByRole: appModels.RoleHeadmaster,
		}
		if _, err := workItemRepo.Create(ctx, item); err != nil {
			lgr.Error().Err(err).Str("name", name).Msg("Error creating default work item")
			finalErr = errors.Join(finalErr, err)
		} else {
			lgr.Info().Str("name", name).Msg("Default work item created")
		}
	}

	existing, err := staffRepo.GetByEmail(ctx, "headmaster@schoolsphere.app")
	if err != nil {
		lgr.Error().Err(err).Msg("Error checking if headmaster account exists")
		return errors.Join(finalErr, err)
	}
	if existing != nil {
		lgr.Info().Msg("Headmaster account already exists, skipping creation")
		return finalErr
	}

	lgr.Info().Msg("Creating default headmaster account...")
	hashedPassword, err := pkgAuth.HashPassword("Headmaster123!")
	if err != nil {
		lgr.Error().Err(err).Msg("Error hashing headmaster password")
		return errors.Join(finalErr, err)
	}

	headmaster := &appModels.Staff{
		Name:     "Headmaster",
		Email:    "headmaster@schoolsphere.app",
		Password: hashedPassword,
		Role:     appModels.RoleHeadmaster,
	}
	id, err := staffRepo.Create(ctx, headmaster)
	if err != nil {
		lgr.Error().Err(err).Msg("Error creating headmaster account")
		return errors.Join(finalErr, err)
	}
	lgr.Info().Int64("staffID", id).Msg("Default headmaster account created")

	return finalErr
}
