package services

import (
	"os"
	"testing"
	"time"

	"github.com/janusipm/brandvigilante/internal/cryptox"
	"github.com/janusipm/brandvigilante/internal/server/mailer/mailertest"
	"github.com/janusipm/brandvigilante/internal/server/models"
	"github.com/janusipm/brandvigilante/internal/server/ratelimit"
	"github.com/janusipm/brandvigilante/internal/server/repositories/repotest"
	"github.com/janusipm/brandvigilante/internal/server/session"
	"github.com/janusipm/brandvigilante/internal/timex"
)

var cheapParams = cryptox.Params{Memory: 64, Iterations: 1, Parallelism: 1, SaltLength: 16, KeyLength: 32}

func TestMain(m *testing.M) {
	hashPassword = func(plain string) (string, error) {
		return cryptox.HashPasswordWith(plain, cheapParams)
	}
	os.Exit(m.Run())
}

const testAppURL = "https://app.example.com"

// testEnv wires every service over one set of in-memory repositories.
type testEnv struct {
	repos    *repotest.Manager
	mail     *mailertest.Recorder
	clock    *timex.FixedClock
	sessions *session.Manager
	limiter  *ratelimit.Limiter

	activity     *ActivityService
	admin        *AdminService
	verification *VerificationService
	auth         *AuthService
	reset        *PasswordResetService
	brands       *BrandService
	terms        *TermService
	marketplaces *MarketplaceService
	leads        *LeadService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	e := &testEnv{
		repos: repotest.NewManager(),
		mail:  &mailertest.Recorder{},
		clock: &timex.FixedClock{T: time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)},
	}
	e.sessions = session.NewManager(e.repos.SessionsRepo, e.repos.UsersRepo, session.Config{}, e.clock, nil)
	e.limiter = ratelimit.New(ratelimit.NewMemoryStore(), 15*time.Minute, 5, e.clock)

	e.activity = NewActivityService(nil, e.repos, nil)
	e.admin = NewAdminService(nil, e.repos, e.clock, e.activity, nil)
	e.verification = NewVerificationService(nil, e.repos, e.mail, e.limiter, testAppURL+"/", e.clock, nil)
	txdb := repotest.TxDB(t)
	e.auth = NewAuthService(txdb, e.repos, e.sessions, e.limiter, e.verification, nil)
	e.reset = NewPasswordResetService(txdb, e.repos, e.mail, e.sessions, testAppURL, e.clock, nil)
	e.brands = NewBrandService(nil, e.repos, e.activity, e.admin)
	e.terms = NewTermService(nil, e.repos, e.activity, e.admin)
	e.marketplaces = NewMarketplaceService(nil, e.repos, e.activity, e.admin)
	e.leads = NewLeadService(nil, e.repos, e.mail, "admin@example.com", nil)
	return e
}

// seedUser stores a user whose password is plain.
func (e *testEnv) seedUser(t *testing.T, email, plain string, role models.Role, verified bool) *models.User {
	t.Helper()
	hash, err := hashPassword(plain)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	return e.repos.UsersRepo.Seed(models.User{
		FirstName:     "Test",
		LastName:      "User",
		Email:         email,
		Password:      hash,
		Role:          role,
		EmailVerified: verified,
	})
}

func strPtr(s string) *string { return &s }
func int64Ptr(v int64) *int64 { return &v }
