package devseed

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/vive-avila/ui-api/internal/data"
	domainauth "github.com/vive-avila/ui-api/internal/domain/auth"
)

// Services bundles the dependencies needed for development seeding.
type Services struct {
	DB        *sql.DB
	directory *data.DirectoryRepo
}

// NewServices constructs the repositories required for seeding using the provided DB.
func NewServices(db *sql.DB) Services {
	return Services{
		DB:        db,
		directory: data.NewDirectoryRepo(db),
	}
}

// seedRecords is the baseline directory for local development: a couple of
// students, an administrator, and a guide, all on institutional addresses.
func seedRecords() []domainauth.Record {
	return []domainauth.Record{
		{
			Username: "mariap",
			Email:    "maria.perez@correo.unimet.edu.ve",
			Phone:    "+58 412 555 0101",
			Provider: domainauth.ProviderGoogle,
		},
		{
			Username: "jrodriguez",
			Email:    "jose.rodriguez@correo.unimet.edu.ve",
			Provider: domainauth.ProviderGoogle,
		},
		{
			Username: "admin",
			Email:    "admin@unimet.edu.ve",
			Role:     domainauth.RoleAdmin,
		},
		{
			Username: "guia.avila",
			Email:    "guia@unimet.edu.ve",
			Role:     domainauth.RoleGuide,
			Phone:    "+58 414 555 0199",
		},
	}
}

// Run inserts the development directory records. Seeding is idempotent:
// records whose email already exists are left untouched.
func Run(ctx context.Context, svcs Services, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}

	seeded := 0
	for _, rec := range seedRecords() {
		count, err := svcs.directory.CountByEmail(ctx, rec.Email)
		if err != nil {
			return fmt.Errorf("count existing records for %s: %w", rec.Email, err)
		}
		if count > 0 {
			logger.DebugContext(ctx, "seed record already present", "email", rec.Email)
			continue
		}

		ref, err := svcs.directory.Insert(ctx, rec)
		if err != nil {
			return fmt.Errorf("insert seed record %s: %w", rec.Email, err)
		}
		logger.InfoContext(ctx, "seeded directory record", "email", rec.Email, "ref", ref)
		seeded++
	}

	logger.InfoContext(ctx, "development seeding finished", "inserted", seeded)
	return nil
}
