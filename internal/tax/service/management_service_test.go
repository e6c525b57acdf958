package service

import (
	"context"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	taxdomain "github.com/smallbiznis/invara/internal/tax/domain"
)

type fakeTaxRepo struct {
	definitions map[snowflake.ID]taxdomain.TaxDefinition
}

func newFakeTaxRepo() *fakeTaxRepo {
	return &fakeTaxRepo{definitions: map[snowflake.ID]taxdomain.TaxDefinition{}}
}

func (f *fakeTaxRepo) GetActiveDefinitions(ctx context.Context, customerID snowflake.ID) ([]taxdomain.TaxDefinition, error) {
	var defs []taxdomain.TaxDefinition
	for _, def := range f.definitions {
		if def.CustomerID == customerID && def.Active {
			defs = append(defs, def)
		}
	}
	return defs, nil
}

func (f *fakeTaxRepo) Create(ctx context.Context, def *taxdomain.TaxDefinition) error {
	f.definitions[def.ID] = *def
	return nil
}

// FindByID returns a copy so in-flight mutations by the service never
// leak into the store before Update.
func (f *fakeTaxRepo) FindByID(ctx context.Context, id snowflake.ID) (*taxdomain.TaxDefinition, error) {
	def, ok := f.definitions[id]
	if !ok {
		return nil, nil
	}
	return &def, nil
}

func (f *fakeTaxRepo) List(ctx context.Context, filter taxdomain.ListRequest) ([]taxdomain.TaxDefinition, error) {
	var defs []taxdomain.TaxDefinition
	for _, def := range f.definitions {
		if filter.CustomerID != "" && def.CustomerID.String() != filter.CustomerID {
			continue
		}
		defs = append(defs, def)
	}
	return defs, nil
}

func (f *fakeTaxRepo) Update(ctx context.Context, def *taxdomain.TaxDefinition) error {
	f.definitions[def.ID] = *def
	return nil
}

type taxFixture struct {
	svc        taxdomain.Service
	repo       *fakeTaxRepo
	node       *snowflake.Node
	customerID snowflake.ID
}

func newTaxFixture(t *testing.T) *taxFixture {
	t.Helper()

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	repo := newFakeTaxRepo()
	svc := NewService(serviceParams{
		Log:   zap.NewNop(),
		GenID: node,
		Repo:  repo,
	})
	return &taxFixture{svc: svc, repo: repo, node: node, customerID: node.Generate()}
}

func (f *taxFixture) seedDefinition(order int, active bool) *taxdomain.TaxDefinition {
	def := taxdomain.TaxDefinition{
		ID:              f.node.Generate(),
		CustomerID:      f.customerID,
		Code:            "VAT",
		HandlerID:       taxdomain.HandlerPercentage,
		Rate:            decimal.NewFromInt(20),
		ApplicationType: taxdomain.ApplicationOnBase,
		EvaluationOrder: order,
		Active:          active,
	}
	f.repo.definitions[def.ID] = def
	return &def
}

func (f *taxFixture) seedDependent(appliedTo snowflake.ID, order int) *taxdomain.TaxDefinition {
	def := taxdomain.TaxDefinition{
		ID:              f.node.Generate(),
		CustomerID:      f.customerID,
		Code:            "SURCHARGE",
		HandlerID:       taxdomain.HandlerCompound,
		Rate:            decimal.NewFromInt(2),
		ApplicationType: taxdomain.ApplicationOnTax,
		AppliedToID:     &appliedTo,
		EvaluationOrder: order,
		Active:          true,
	}
	f.repo.definitions[def.ID] = def
	return &def
}

func onTaxCreateRequest(f *taxFixture, appliedTo string, order int) taxdomain.CreateRequest {
	return taxdomain.CreateRequest{
		CustomerID:      f.customerID.String(),
		Code:            "SURCHARGE",
		HandlerID:       taxdomain.HandlerCompound,
		Rate:            decimal.NewFromInt(2),
		ApplicationType: taxdomain.ApplicationOnTax,
		AppliedToID:     &appliedTo,
		EvaluationOrder: order,
	}
}

func TestCreateOnTaxRequiresStrictlySmallerReferenceOrder(t *testing.T) {
	f := newTaxFixture(t)
	base := f.seedDefinition(2, true)

	ctx := context.Background()

	// Same order as the referenced definition.
	_, err := f.svc.Create(ctx, onTaxCreateRequest(f, base.ID.String(), 2))
	assert.ErrorIs(t, err, taxdomain.ErrInvalidTaxOrder)

	// Smaller order than the referenced definition.
	_, err = f.svc.Create(ctx, onTaxCreateRequest(f, base.ID.String(), 1))
	assert.ErrorIs(t, err, taxdomain.ErrInvalidTaxOrder)

	// Strictly larger order is accepted.
	resp, err := f.svc.Create(ctx, onTaxCreateRequest(f, base.ID.String(), 3))
	require.NoError(t, err)
	require.NotNil(t, resp.AppliedToID)
	assert.Equal(t, base.ID.String(), *resp.AppliedToID)
}

func TestCreateOnTaxRejectsUnresolvableReference(t *testing.T) {
	f := newTaxFixture(t)
	ctx := context.Background()

	// Referenced id does not exist.
	_, err := f.svc.Create(ctx, onTaxCreateRequest(f, f.node.Generate().String(), 2))
	assert.ErrorIs(t, err, taxdomain.ErrDanglingTaxReference)

	// Referenced definition exists but is inactive.
	inactive := f.seedDefinition(1, false)
	_, err = f.svc.Create(ctx, onTaxCreateRequest(f, inactive.ID.String(), 2))
	assert.ErrorIs(t, err, taxdomain.ErrDanglingTaxReference)

	// Referenced definition belongs to another customer.
	foreign := f.seedDefinition(1, true)
	foreign.CustomerID = f.node.Generate()
	f.repo.definitions[foreign.ID] = *foreign
	_, err = f.svc.Create(ctx, onTaxCreateRequest(f, foreign.ID.String(), 2))
	assert.ErrorIs(t, err, taxdomain.ErrDanglingTaxReference)
}

func TestCreateOnTaxRequiresAppliedTo(t *testing.T) {
	f := newTaxFixture(t)

	req := onTaxCreateRequest(f, "", 2)
	req.AppliedToID = nil
	_, err := f.svc.Create(context.Background(), req)
	assert.ErrorIs(t, err, taxdomain.ErrMissingAppliedTo)
}

func TestDisableRejectedWhileActivelyReferenced(t *testing.T) {
	f := newTaxFixture(t)
	base := f.seedDefinition(1, true)
	dep := f.seedDependent(base.ID, 2)

	ctx := context.Background()

	_, err := f.svc.Disable(ctx, base.ID.String())
	assert.ErrorIs(t, err, taxdomain.ErrDanglingTaxReference)

	// The store is untouched by the rejected update.
	stored, err := f.repo.FindByID(ctx, base.ID)
	require.NoError(t, err)
	assert.True(t, stored.Active)

	// Once the dependent is inactive the referenced definition can go.
	_, err = f.svc.Disable(ctx, dep.ID.String())
	require.NoError(t, err)

	resp, err := f.svc.Disable(ctx, base.ID.String())
	require.NoError(t, err)
	assert.False(t, resp.Active)
}

func TestUpdateReorderRejectedWhileActivelyReferenced(t *testing.T) {
	f := newTaxFixture(t)
	base := f.seedDefinition(1, true)
	f.seedDependent(base.ID, 2)

	ctx := context.Background()

	// Raising the referenced definition to the dependent's order would
	// evaluate it too late.
	order := 2
	_, err := f.svc.Update(ctx, taxdomain.UpdateRequest{ID: base.ID.String(), EvaluationOrder: &order})
	assert.ErrorIs(t, err, taxdomain.ErrInvalidTaxOrder)

	order = 5
	_, err = f.svc.Update(ctx, taxdomain.UpdateRequest{ID: base.ID.String(), EvaluationOrder: &order})
	assert.ErrorIs(t, err, taxdomain.ErrInvalidTaxOrder)

	stored, err := f.repo.FindByID(ctx, base.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, stored.EvaluationOrder)
}

func TestUpdateDependentOrderMustStayAboveReference(t *testing.T) {
	f := newTaxFixture(t)
	base := f.seedDefinition(1, true)
	dep := f.seedDependent(base.ID, 3)

	ctx := context.Background()

	// Lowering the dependent to the referenced order breaks evaluation.
	order := 1
	_, err := f.svc.Update(ctx, taxdomain.UpdateRequest{ID: dep.ID.String(), EvaluationOrder: &order})
	assert.ErrorIs(t, err, taxdomain.ErrInvalidTaxOrder)

	order = 2
	resp, err := f.svc.Update(ctx, taxdomain.UpdateRequest{ID: dep.ID.String(), EvaluationOrder: &order})
	require.NoError(t, err)
	assert.Equal(t, 2, resp.EvaluationOrder)
}

func TestCreateRejectsMalformedInput(t *testing.T) {
	f := newTaxFixture(t)
	ctx := context.Background()

	req := taxdomain.CreateRequest{
		CustomerID:      "not-a-snowflake",
		Code:            "VAT",
		HandlerID:       taxdomain.HandlerPercentage,
		Rate:            decimal.NewFromInt(20),
		ApplicationType: taxdomain.ApplicationOnBase,
	}
	_, err := f.svc.Create(ctx, req)
	assert.ErrorIs(t, err, taxdomain.ErrInvalidCustomer)

	req.CustomerID = f.customerID.String()
	req.Code = "  "
	_, err = f.svc.Create(ctx, req)
	assert.ErrorIs(t, err, taxdomain.ErrInvalidTaxCode)

	req.Code = "VAT"
	req.HandlerID = "BESPOKE"
	_, err = f.svc.Create(ctx, req)
	assert.ErrorIs(t, err, taxdomain.ErrUnknownHandler)
}
