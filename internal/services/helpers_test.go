package services_test

import (
	"context"
	"testing"

	"github.com/otcheredev/clinichub/internal/models"
	"github.com/otcheredev/clinichub/internal/repository"
	"github.com/otcheredev/clinichub/internal/tenant"
	"github.com/otcheredev/clinichub/internal/testutil"
	"gorm.io/gorm"
)

type env struct {
	db    *gorm.DB
	repos *repository.Repositories
	north *models.Clinic
	south *models.Clinic
}

func newEnv(t *testing.T) *env {
	t.Helper()

	db := testutil.NewDB(t)
	return &env{
		db:    db,
		repos: repository.New(db, nil, 0),
		north: testutil.Clinic(t, db, "north-clinic"),
		south: testutil.Clinic(t, db, "south-clinic"),
	}
}

// as returns a request context for user acting inside clinic
func as(clinic *models.Clinic, user *models.User) context.Context {
	var p *models.Principal
	if user != nil {
		p = user.Principal()
	}
	return tenant.WithClinic(context.Background(), clinic, p)
}
