package services

import (
	"context"
	"sort"
	"testing"
	"time"

	"github.com/dtb-bank/core-banking/pkg"
	"github.com/dtb-bank/core-banking/pkg/events"
	"github.com/dtb-bank/core-banking/pkg/models"
	"github.com/dtb-bank/core-banking/pkg/paging"
	"github.com/dtb-bank/core-banking/services/account-api/internal/views"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type fakeTxRunner struct{}

func (fakeTxRunner) WithTransaction(ctx context.Context, fn func(context.Context, pgx.Tx) error) error {
	return fn(ctx, nil)
}

type fakePublisher struct {
	published []events.EntityEvent
}

func (p *fakePublisher) Publish(e events.EntityEvent) { p.published = append(p.published, e) }
func (p *fakePublisher) Close()                       {}

type fakeCustomerClient struct {
	exists bool
	err    error
}

func (c fakeCustomerClient) Exists(context.Context, string, uuid.UUID) (bool, error) {
	return c.exists, c.err
}

type fakeCardClient struct {
	ids []uuid.UUID
	err error
}

func (c fakeCardClient) ResolveAccountIDs(_ context.Context, _ string, _ string, page paging.Request) (paging.Page[uuid.UUID], error) {
	if c.err != nil {
		return paging.Page[uuid.UUID]{}, c.err
	}
	return paging.NewPage(c.ids, page, int64(len(c.ids))), nil
}

type fakeAccountRepo struct {
	accounts map[uuid.UUID]models.Account
}

func newFakeAccountRepo() *fakeAccountRepo {
	return &fakeAccountRepo{accounts: map[uuid.UUID]models.Account{}}
}

func (r *fakeAccountRepo) Create(_ context.Context, _ pgx.Tx, a models.Account) (pgconn.CommandTag, error) {
	r.accounts[a.ID] = a
	return pgconn.CommandTag{}, nil
}

func (r *fakeAccountRepo) FindByID(_ context.Context, id uuid.UUID) (models.Account, error) {
	a, ok := r.accounts[id]
	if !ok || a.Deleted {
		return models.Account{}, pgx.ErrNoRows
	}
	return a, nil
}

func (r *fakeAccountRepo) ExistsByID(_ context.Context, id uuid.UUID) (bool, error) {
	a, ok := r.accounts[id]
	return ok && !a.Deleted, nil
}

func (r *fakeAccountRepo) ExistsByIban(_ context.Context, _ pgx.Tx, iban string) (bool, error) {
	for _, a := range r.accounts {
		if !a.Deleted && a.Iban == iban {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeAccountRepo) Update(_ context.Context, _ pgx.Tx, a models.Account) (pgconn.CommandTag, error) {
	r.accounts[a.ID] = a
	return pgconn.CommandTag{}, nil
}

func (r *fakeAccountRepo) SoftDelete(_ context.Context, _ pgx.Tx, id uuid.UUID, at time.Time) (int64, error) {
	a, ok := r.accounts[id]
	if !ok || a.Deleted {
		return 0, nil
	}
	a.Deleted = true
	a.DeletedAt = &at
	r.accounts[id] = a
	return 1, nil
}

func (r *fakeAccountRepo) Search(_ context.Context, iban, bicSwift *string, restrictIDs bool, accountIDs []uuid.UUID, page paging.Request) ([]models.Account, int64, error) {
	allowed := map[uuid.UUID]bool{}
	for _, id := range accountIDs {
		allowed[id] = true
	}
	var matched []models.Account
	for _, a := range r.accounts {
		if a.Deleted {
			continue
		}
		if iban != nil && a.Iban != *iban {
			continue
		}
		if bicSwift != nil && a.BicSwift != *bicSwift {
			continue
		}
		if restrictIDs && !allowed[a.ID] {
			continue
		}
		matched = append(matched, a)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].ID.String() < matched[j].ID.String() })
	return matched, int64(len(matched)), nil
}

func newAccountService(repo *fakeAccountRepo, customers fakeCustomerClient, cards fakeCardClient, pub *fakePublisher) AccountService {
	return NewAccountService(zap.NewNop(), fakeTxRunner{}, repo, customers, cards, pub)
}

func seedAccount(repo *fakeAccountRepo, iban, bic string) models.Account {
	a := models.Account{
		ID:         uuid.New(),
		CustomerID: uuid.New(),
		Iban:       iban,
		BicSwift:   bic,
		CreatedAt:  time.Now(),
	}
	repo.accounts[a.ID] = a
	return a
}

func TestAccountCreateRejectsMissingCustomer(t *testing.T) {
	repo := newFakeAccountRepo()
	svc := newAccountService(repo, fakeCustomerClient{exists: false}, fakeCardClient{}, &fakePublisher{})

	_, err := svc.Create(context.Background(), "trace-1", views.CreateAccountRequest{
		CustomerID: uuid.New(),
		Iban:       "DE89370400440532013000",
		BicSwift:   "COBADEFF",
	})
	assert.True(t, pkg.IsCode(err, pkg.ErrNotFoundCode))
	assert.Empty(t, repo.accounts)
}

func TestAccountCreateSurfacesUpstreamFailure(t *testing.T) {
	repo := newFakeAccountRepo()
	upstreamErr := pkg.NewAppError(pkg.ErrUpstreamUnavailableCode, "customer service unreachable", nil)
	svc := newAccountService(repo, fakeCustomerClient{err: upstreamErr}, fakeCardClient{}, &fakePublisher{})

	_, err := svc.Create(context.Background(), "trace-1", views.CreateAccountRequest{
		CustomerID: uuid.New(),
		Iban:       "DE89370400440532013000",
		BicSwift:   "COBADEFF",
	})
	// An unreachable upstream must not read as "customer not found".
	assert.True(t, pkg.IsCode(err, pkg.ErrUpstreamUnavailableCode))
	assert.False(t, pkg.IsCode(err, pkg.ErrNotFoundCode))
	assert.Empty(t, repo.accounts)
}

func TestAccountCreateRejectsDuplicateLiveIban(t *testing.T) {
	repo := newFakeAccountRepo()
	existing := seedAccount(repo, "DE89370400440532013000", "COBADEFF")
	svc := newAccountService(repo, fakeCustomerClient{exists: true}, fakeCardClient{}, &fakePublisher{})

	_, err := svc.Create(context.Background(), "trace-1", views.CreateAccountRequest{
		CustomerID: uuid.New(),
		Iban:       existing.Iban,
		BicSwift:   "MARKDEFF",
	})
	assert.True(t, pkg.IsCode(err, pkg.ErrAlreadyExistsCode))
}

func TestAccountCreateAllowsIbanOfDeletedAccount(t *testing.T) {
	repo := newFakeAccountRepo()
	pub := &fakePublisher{}
	svc := newAccountService(repo, fakeCustomerClient{exists: true}, fakeCardClient{}, pub)

	old := seedAccount(repo, "DE89370400440532013000", "COBADEFF")
	assert.NoError(t, svc.Delete(context.Background(), "trace-1", old.ID))

	id, err := svc.Create(context.Background(), "trace-2", views.CreateAccountRequest{
		CustomerID: uuid.New(),
		Iban:       old.Iban,
		BicSwift:   "MARKDEFF",
	})
	assert.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, id)
}

func TestAccountSearchIntersectsAliasAndIban(t *testing.T) {
	repo := newFakeAccountRepo()
	inBoth := seedAccount(repo, "DE89370400440532013000", "COBADEFF")
	aliasOnly := seedAccount(repo, "FR1420041010050500013M02606", "BNPAFRPP")
	seedAccount(repo, "GB29NWBK60161331926819", "NWBKGB2L")

	cards := fakeCardClient{ids: []uuid.UUID{inBoth.ID, aliasOnly.ID}}
	svc := newAccountService(repo, fakeCustomerClient{exists: true}, cards, &fakePublisher{})

	page, _ := paging.NewRequest(0, 10)
	result, err := svc.Search(context.Background(), "trace-1", &inBoth.Iban, nil, "travel", page)
	assert.NoError(t, err)
	assert.Equal(t, int64(1), result.TotalElements)
	assert.Equal(t, inBoth.ID, result.Content[0].AccountID)
}

func TestAccountSearchEmptyResolvedSetYieldsEmptyPage(t *testing.T) {
	repo := newFakeAccountRepo()
	seedAccount(repo, "DE89370400440532013000", "COBADEFF")

	svc := newAccountService(repo, fakeCustomerClient{exists: true}, fakeCardClient{ids: []uuid.UUID{}}, &fakePublisher{})

	page, _ := paging.NewRequest(0, 10)
	result, err := svc.Search(context.Background(), "trace-1", nil, nil, "no-such-alias", page)
	assert.NoError(t, err)
	assert.Equal(t, int64(0), result.TotalElements)
	assert.Empty(t, result.Content)
}

func TestAccountSearchResolverFailureSurfaces(t *testing.T) {
	repo := newFakeAccountRepo()
	seedAccount(repo, "DE89370400440532013000", "COBADEFF")

	resolverErr := pkg.NewAppError(pkg.ErrUpstreamIndeterminateCode, "card service returned malformed body", nil)
	svc := newAccountService(repo, fakeCustomerClient{exists: true}, fakeCardClient{err: resolverErr}, &fakePublisher{})

	page, _ := paging.NewRequest(0, 10)
	_, err := svc.Search(context.Background(), "trace-1", nil, nil, "travel", page)
	// A resolver failure must surface, never read as an empty result.
	assert.True(t, pkg.IsCode(err, pkg.ErrUpstreamIndeterminateCode))
}

func TestAccountSearchWithoutAliasSkipsResolver(t *testing.T) {
	repo := newFakeAccountRepo()
	a := seedAccount(repo, "DE89370400440532013000", "COBADEFF")

	resolverErr := pkg.NewAppError(pkg.ErrUpstreamUnavailableCode, "card service unreachable", nil)
	svc := newAccountService(repo, fakeCustomerClient{exists: true}, fakeCardClient{err: resolverErr}, &fakePublisher{})

	page, _ := paging.NewRequest(0, 10)
	result, err := svc.Search(context.Background(), "trace-1", &a.Iban, nil, "", page)
	assert.NoError(t, err)
	assert.Equal(t, int64(1), result.TotalElements)
}

func TestAccountDeleteHidesFromAllReads(t *testing.T) {
	repo := newFakeAccountRepo()
	pub := &fakePublisher{}
	svc := newAccountService(repo, fakeCustomerClient{exists: true}, fakeCardClient{}, pub)

	a := seedAccount(repo, "DE89370400440532013000", "COBADEFF")
	assert.NoError(t, svc.Delete(context.Background(), "trace-1", a.ID))

	_, err := svc.GetByID(context.Background(), "trace-2", a.ID)
	assert.True(t, pkg.IsCode(err, pkg.ErrNotFoundCode))

	exists, err := svc.Exists(context.Background(), "trace-3", a.ID)
	assert.NoError(t, err)
	assert.False(t, exists)

	page, _ := paging.NewRequest(0, 10)
	result, err := svc.Search(context.Background(), "trace-4", nil, nil, "", page)
	assert.NoError(t, err)
	assert.Equal(t, int64(0), result.TotalElements)

	err = svc.Delete(context.Background(), "trace-5", a.ID)
	assert.True(t, pkg.IsCode(err, pkg.ErrNotFoundCode))
}
