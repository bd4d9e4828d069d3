package service

import (
	"context"
	"testing"

	"github.com/ByEilerDev/carsil-root/internal/apperr"
	"github.com/ByEilerDev/carsil-root/internal/dto"
	"github.com/ByEilerDev/carsil-root/internal/model"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intp(v int) *int { return &v }

func decp(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func newProductFixture(t *testing.T) (*fakeProductRepo, *fakeTeamRepo, ProductService) {
	t.Helper()
	products := newFakeProductRepo()
	teams := newFakeTeamRepo(products)
	return products, teams, NewProductService(products, teams)
}

func mustCreate(t *testing.T, svc ProductService, req dto.CreateProductRequest) dto.ProductResponse {
	t.Helper()
	resp, err := svc.Create(context.Background(), req)
	require.NoError(t, err)
	return resp
}

func TestCreateDerivesMissingSamTotalAndStatus(t *testing.T) {
	_, _, svc := newProductFixture(t)

	resp := mustCreate(t, svc, dto.CreateProductRequest{
		Op:       "OP-100",
		Quantity: intp(100),
		Sam:      decp("0.5"),
	})

	require.NotNil(t, resp.Missing)
	assert.Equal(t, 100, *resp.Missing)
	require.NotNil(t, resp.SamTotal)
	assert.Equal(t, 50, *resp.SamTotal)
	assert.Equal(t, "PROCESO", resp.Status)
	require.NotNil(t, resp.QuantityMade)
	assert.Equal(t, 0, *resp.QuantityMade)
}

func TestCreateRequiresQuantity(t *testing.T) {
	_, _, svc := newProductFixture(t)

	_, err := svc.Create(context.Background(), dto.CreateProductRequest{Op: "OP-1"})
	assert.ErrorIs(t, err, apperr.ErrInvalidArgument)
}

func TestCreateRejectsDuplicateOp(t *testing.T) {
	_, _, svc := newProductFixture(t)
	mustCreate(t, svc, dto.CreateProductRequest{Op: "OP-1", Quantity: intp(10)})

	_, err := svc.Create(context.Background(), dto.CreateProductRequest{Op: "OP-1", Quantity: intp(20)})
	assert.ErrorIs(t, err, apperr.ErrDuplicateOp)
}

func TestCreatePushesLoadDaysToTeam(t *testing.T) {
	products, teams, svc := newProductFixture(t)
	require.NoError(t, teams.Create(context.Background(), &model.Team{Name: "Modulo 1"}))

	teamID := uint(1)
	mustCreate(t, svc, dto.CreateProductRequest{
		Op:       "OP-1",
		Quantity: intp(10),
		LoadDays: decp("2.50"),
		TeamID:   &teamID,
	})

	team, err := teams.FindByID(context.Background(), teamID)
	require.NoError(t, err)
	require.True(t, team.LoadDays.Valid)
	assert.True(t, team.LoadDays.Decimal.Equal(decimal.RequireFromString("2.50")))
	assert.Len(t, products.byID, 1)
}

func TestCreateUnknownTeamAbortsBeforePersist(t *testing.T) {
	products, _, svc := newProductFixture(t)

	teamID := uint(99)
	_, err := svc.Create(context.Background(), dto.CreateProductRequest{
		Op:       "OP-1",
		Quantity: intp(10),
		TeamID:   &teamID,
	})
	assert.ErrorIs(t, err, apperr.ErrNotFound)
	assert.Empty(t, products.byID)
}

func TestIncrementMadeRecomputesDerived(t *testing.T) {
	_, _, svc := newProductFixture(t)
	created := mustCreate(t, svc, dto.CreateProductRequest{
		Op: "OP-1", Quantity: intp(100), Sam: decp("0.5"),
	})

	resp, err := svc.IncrementMade(context.Background(), created.ID, 30)
	require.NoError(t, err)
	assert.Equal(t, 30, *resp.QuantityMade)
	assert.Equal(t, 70, *resp.Missing)
	assert.Equal(t, 35, *resp.SamTotal)
}

func TestIncrementMadeZeroStillPushesAndPersists(t *testing.T) {
	products, teams, svc := newProductFixture(t)
	require.NoError(t, teams.Create(context.Background(), &model.Team{Name: "Modulo 1"}))

	teamID := uint(1)
	created := mustCreate(t, svc, dto.CreateProductRequest{
		Op: "OP-1", Quantity: intp(10), LoadDays: decp("1.25"), TeamID: &teamID,
	})

	savesBefore := teams.saves
	updatesBefore := products.updates
	resp, err := svc.IncrementMade(context.Background(), created.ID, 0)
	require.NoError(t, err)

	assert.Equal(t, 0, *resp.QuantityMade)
	assert.Equal(t, savesBefore+1, teams.saves, "team load-days push must run even for a zero delta")
	assert.Equal(t, updatesBefore+1, products.updates)
}

func TestSetMadeAppliesDeltaAgainstCurrent(t *testing.T) {
	_, _, svc := newProductFixture(t)
	created := mustCreate(t, svc, dto.CreateProductRequest{
		Op: "OP-1", Quantity: intp(100), Sam: decp("0.5"),
	})
	_, err := svc.IncrementMade(context.Background(), created.ID, 70)
	require.NoError(t, err)

	resp, err := svc.SetMade(context.Background(), created.ID, 130)
	require.NoError(t, err)
	assert.Equal(t, 130, *resp.QuantityMade)
	assert.Equal(t, 0, *resp.Missing)
	assert.Equal(t, 0, *resp.SamTotal)
}

func TestPartialUpdateEmptyPayloadIsPureNoOp(t *testing.T) {
	products, teams, svc := newProductFixture(t)
	require.NoError(t, teams.Create(context.Background(), &model.Team{Name: "Modulo 1"}))

	teamID := uint(1)
	created := mustCreate(t, svc, dto.CreateProductRequest{
		Op: "OP-1", Quantity: intp(10), LoadDays: decp("1.0"), TeamID: &teamID,
	})

	savesBefore := teams.saves
	updatesBefore := products.updates
	resp, err := svc.PartialUpdate(context.Background(), created.ID, map[string]interface{}{})
	require.NoError(t, err)

	assert.Equal(t, created, resp)
	assert.Equal(t, savesBefore, teams.saves, "no team push on empty patch")
	assert.Equal(t, updatesBefore, products.updates, "no save on empty patch")
}

func TestPartialUpdateQuantityMadeTravelsAsDelta(t *testing.T) {
	_, _, svc := newProductFixture(t)
	created := mustCreate(t, svc, dto.CreateProductRequest{
		Op: "OP-1", Quantity: intp(100), Sam: decp("0.5"),
	})
	_, err := svc.IncrementMade(context.Background(), created.ID, 70)
	require.NoError(t, err)

	resp, err := svc.PartialUpdate(context.Background(), created.ID, map[string]interface{}{
		"quantityMade": float64(130),
	})
	require.NoError(t, err)
	assert.Equal(t, 130, *resp.QuantityMade)
	assert.Equal(t, 0, *resp.Missing)
	assert.Equal(t, 0, *resp.SamTotal)
}

func TestPartialUpdateStripsID(t *testing.T) {
	_, _, svc := newProductFixture(t)
	created := mustCreate(t, svc, dto.CreateProductRequest{Op: "OP-1", Quantity: intp(10)})

	resp, err := svc.PartialUpdate(context.Background(), created.ID, map[string]interface{}{
		"id":        float64(999),
		"reference": "POLO-CLASSIC",
	})
	require.NoError(t, err)
	assert.Equal(t, created.ID, resp.ID)
	require.NotNil(t, resp.Reference)
	assert.Equal(t, "POLO-CLASSIC", *resp.Reference)
}

func TestPartialUpdateRejectsUnknownField(t *testing.T) {
	_, _, svc := newProductFixture(t)
	created := mustCreate(t, svc, dto.CreateProductRequest{Op: "OP-1", Quantity: intp(10)})

	_, err := svc.PartialUpdate(context.Background(), created.ID, map[string]interface{}{
		"samTotal": float64(10),
	})
	assert.ErrorIs(t, err, apperr.ErrInvalidArgument)

	_, err = svc.PartialUpdate(context.Background(), created.ID, map[string]interface{}{
		"color": "azul",
	})
	assert.ErrorIs(t, err, apperr.ErrInvalidArgument)
}

func TestPartialUpdateRejectsWrongType(t *testing.T) {
	_, _, svc := newProductFixture(t)
	created := mustCreate(t, svc, dto.CreateProductRequest{Op: "OP-1", Quantity: intp(10)})

	_, err := svc.PartialUpdate(context.Background(), created.ID, map[string]interface{}{
		"quantity": "diez",
	})
	assert.ErrorIs(t, err, apperr.ErrInvalidArgument)

	_, err = svc.PartialUpdate(context.Background(), created.ID, map[string]interface{}{
		"quantity": 10.5,
	})
	assert.ErrorIs(t, err, apperr.ErrInvalidArgument)
}

func TestPartialUpdateReparentsAndClearsTeam(t *testing.T) {
	_, teams, svc := newProductFixture(t)
	require.NoError(t, teams.Create(context.Background(), &model.Team{Name: "Modulo 1"}))
	require.NoError(t, teams.Create(context.Background(), &model.Team{Name: "Modulo 2"}))

	teamID := uint(1)
	created := mustCreate(t, svc, dto.CreateProductRequest{
		Op: "OP-1", Quantity: intp(10), TeamID: &teamID,
	})

	resp, err := svc.PartialUpdate(context.Background(), created.ID, map[string]interface{}{
		"teamId": float64(2),
	})
	require.NoError(t, err)
	require.NotNil(t, resp.TeamID)
	assert.Equal(t, uint(2), *resp.TeamID)

	resp, err = svc.PartialUpdate(context.Background(), created.ID, map[string]interface{}{
		"teamId": nil,
	})
	require.NoError(t, err)
	assert.Nil(t, resp.TeamID)

	_, err = svc.PartialUpdate(context.Background(), created.ID, map[string]interface{}{
		"teamId": float64(99),
	})
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestUpdateOpUniqueness(t *testing.T) {
	_, _, svc := newProductFixture(t)
	mustCreate(t, svc, dto.CreateProductRequest{Op: "OP-1", Quantity: intp(10)})
	second := mustCreate(t, svc, dto.CreateProductRequest{Op: "OP-2", Quantity: intp(10)})

	op1 := "OP-1"
	_, err := svc.Update(context.Background(), second.ID, dto.UpdateProductRequest{Op: &op1})
	assert.ErrorIs(t, err, apperr.ErrDuplicateOp)

	// Keeping its own op is not a conflict.
	op2 := "OP-2"
	_, err = svc.Update(context.Background(), second.ID, dto.UpdateProductRequest{Op: &op2})
	assert.NoError(t, err)
}

func TestUpdateAppliesOnlyPresentFields(t *testing.T) {
	_, _, svc := newProductFixture(t)
	created := mustCreate(t, svc, dto.CreateProductRequest{
		Op: "OP-1", Quantity: intp(100), Sam: decp("0.5"), Reference: strp("POLO"),
	})

	resp, err := svc.Update(context.Background(), created.ID, dto.UpdateProductRequest{
		Price: decp("15000"),
	})
	require.NoError(t, err)
	require.NotNil(t, resp.Price)
	assert.Equal(t, "POLO", *resp.Reference)
	assert.Equal(t, 100, *resp.Quantity)
	assert.Equal(t, 50, *resp.SamTotal)
}

func TestUpdateSurfacesConcurrentModification(t *testing.T) {
	products, _, svc := newProductFixture(t)
	created := mustCreate(t, svc, dto.CreateProductRequest{Op: "OP-1", Quantity: intp(10)})

	products.failUpdate = apperr.ErrConcurrentUpdate
	q := 20
	_, err := svc.Update(context.Background(), created.ID, dto.UpdateProductRequest{Quantity: &q})
	assert.ErrorIs(t, err, apperr.ErrConcurrentUpdate)
}

func TestAbortedUpdateLeavesTeamLoadDaysUntouched(t *testing.T) {
	products, teams, svc := newProductFixture(t)
	require.NoError(t, teams.Create(context.Background(), &model.Team{Name: "Modulo 1"}))

	teamID := uint(1)
	created := mustCreate(t, svc, dto.CreateProductRequest{
		Op: "OP-1", Quantity: intp(10), LoadDays: decp("1.00"), TeamID: &teamID,
	})

	products.failUpdate = apperr.ErrConcurrentUpdate
	_, err := svc.Update(context.Background(), created.ID, dto.UpdateProductRequest{
		LoadDays: decp("9.99"),
	})
	require.ErrorIs(t, err, apperr.ErrConcurrentUpdate)

	team, err := teams.FindByID(context.Background(), teamID)
	require.NoError(t, err)
	require.True(t, team.LoadDays.Valid)
	assert.True(t, team.LoadDays.Decimal.Equal(decimal.RequireFromString("1.00")),
		"team load-days must keep the value from the last committed product write")
}

func TestDeleteUnknownProduct(t *testing.T) {
	_, _, svc := newProductFixture(t)
	err := svc.Delete(context.Background(), 42)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func strp(s string) *string { return &s }
