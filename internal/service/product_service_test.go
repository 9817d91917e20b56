package service_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"buyonline/internal/dto"
	"buyonline/internal/model"
	"buyonline/internal/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func strPtr(s string) *string { return &s }
func boolPtr(b bool) *bool    { return &b }

func createReq(name, brand string, category uuid.UUID) dto.CreateProductRequest {
	return dto.CreateProductRequest{Name: name, Brand: brand, CategoryID: category.String()}
}

// ── Create ────────────────────────────────────────────────────────────────────

func TestProductCreate_DraftAndOperatorNotified(t *testing.T) {
	f := newFixture()
	req := createReq("X1 Carbon", "Acme", f.laptops.ID)
	req.Description = strPtr("  14 inch  ")

	resp, err := f.productService().Create(context.Background(), f.seller, req)
	require.NoError(t, err)

	assert.Equal(t, string(model.StateDraft), resp.State)
	assert.Equal(t, "acme-x1-carbon", resp.Slug)
	assert.Equal(t, "14 inch", resp.Description)
	assert.False(t, resp.Cancellable)
	assert.False(t, resp.Returnable)
	assert.Equal(t, f.seller.UserID.String(), resp.SellerID)

	require.Len(t, f.notifier.sent, 1)
	assert.Equal(t, "ops@example.com", f.notifier.sent[0].To)
	assert.Equal(t, "noreply@example.com", f.notifier.sent[0].From)
}

func TestProductCreate_RootCategoryRejected(t *testing.T) {
	f := newFixture()
	// Even a root with no children is not a leaf.
	lonely := f.store.addCategory("Books", nil)

	for _, c := range []model.Category{f.root, lonely} {
		_, err := f.productService().Create(context.Background(), f.seller, createReq("X1", "Acme", c.ID))
		require.Error(t, err)
		assert.True(t, service.IsBadRequest(err), "category %s: %v", c.Name, err)
	}
	assert.Zero(t, f.store.writes)
	assert.Empty(t, f.notifier.sent)
}

func TestProductCreate_CategoryWithChildrenRejected(t *testing.T) {
	f := newFixture()
	f.store.addCategory("Gaming laptops", &f.laptops.ID)

	_, err := f.productService().Create(context.Background(), f.seller, createReq("X1", "Acme", f.laptops.ID))
	require.Error(t, err)
	assert.True(t, service.IsBadRequest(err))
	assert.Contains(t, err.Error(), "Laptops")
}

func TestProductCreate_UnknownCategory(t *testing.T) {
	f := newFixture()
	_, err := f.productService().Create(context.Background(), f.seller, createReq("X1", "Acme", uuid.New()))
	require.Error(t, err)
	assert.True(t, service.IsNotFound(err))
}

func TestProductCreate_MalformedCategoryID(t *testing.T) {
	f := newFixture()
	_, err := f.productService().Create(context.Background(), f.seller, dto.CreateProductRequest{Name: "X1", Brand: "Acme", CategoryID: "nope"})
	assert.True(t, service.IsBadRequest(err))
}

func TestProductCreate_Duplicate(t *testing.T) {
	f := newFixture()
	svc := f.productService()
	_, err := svc.Create(context.Background(), f.seller, createReq("X1", "Acme", f.laptops.ID))
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), f.seller, createReq(" X1 ", "Acme", f.laptops.ID))
	require.Error(t, err)
	assert.True(t, service.IsBadRequest(err))

	// Another seller may list the same product.
	_, err = svc.Create(context.Background(), f.other, createReq("X1", "Acme", f.laptops.ID))
	assert.NoError(t, err)
}

func TestProductWrites_UniqueIndexConflictIsBadRequest(t *testing.T) {
	f := newFixture()
	p := f.store.addProduct(f.seller.UserID, f.laptops.ID, "X1", "Acme", model.StateActive)
	f.products.saveErr = fmt.Errorf("save product: %w", gorm.ErrDuplicatedKey)

	_, err := f.productService().Create(context.Background(), f.seller, createReq("X2", "Acme", f.laptops.ID))
	require.Error(t, err)
	assert.True(t, service.IsBadRequest(err), "got %v", err)
	assert.Contains(t, err.Error(), "X2")

	_, err = f.productService().Update(context.Background(), f.seller, p.ID, dto.UpdateProductRequest{Name: strPtr("X3")})
	require.Error(t, err)
	assert.True(t, service.IsBadRequest(err), "got %v", err)
	assert.Contains(t, err.Error(), "X3")
	assert.Empty(t, f.notifier.sent)

	f.products.saveErr = errors.New("connection reset")
	_, err = f.productService().Create(context.Background(), f.seller, createReq("X4", "Acme", f.laptops.ID))
	require.Error(t, err)
	assert.False(t, service.IsBadRequest(err))
}

func TestProductCreate_NotifierFailureIsSwallowed(t *testing.T) {
	f := newFixture()
	f.notifier.err = errors.New("redis down")

	resp, err := f.productService().Create(context.Background(), f.seller, createReq("X1", "Acme", f.laptops.ID))
	require.NoError(t, err)
	assert.NotEmpty(t, resp.ID)
}

// ── Update ────────────────────────────────────────────────────────────────────

func TestProductUpdate_AppliesPresentFields(t *testing.T) {
	f := newFixture()
	p := f.store.addProduct(f.seller.UserID, f.laptops.ID, "X1", "Acme", model.StateActive)

	resp, err := f.productService().Update(context.Background(), f.seller, p.ID, dto.UpdateProductRequest{
		Name:        strPtr("X1 Gen 2"),
		Cancellable: boolPtr(true),
	})
	require.NoError(t, err)
	assert.Equal(t, "X1 Gen 2", resp.Name)
	assert.Equal(t, "acme-x1-gen-2", resp.Slug)
	assert.True(t, resp.Cancellable)
	assert.False(t, resp.Returnable)

	stored := f.store.products[p.ID]
	assert.Equal(t, "X1 Gen 2", stored.Name)
	assert.True(t, stored.Cancellable)
}

func TestProductUpdate_KeepingOwnNameIsAllowed(t *testing.T) {
	f := newFixture()
	p := f.store.addProduct(f.seller.UserID, f.laptops.ID, "X1", "Acme", model.StateActive)

	_, err := f.productService().Update(context.Background(), f.seller, p.ID, dto.UpdateProductRequest{Name: strPtr("X1")})
	assert.NoError(t, err)
}

func TestProductUpdate_Rejections(t *testing.T) {
	f := newFixture()
	active := f.store.addProduct(f.seller.UserID, f.laptops.ID, "X1", "Acme", model.StateActive)
	f.store.addProduct(f.seller.UserID, f.laptops.ID, "X2", "Acme", model.StateActive)
	draft := f.store.addProduct(f.seller.UserID, f.laptops.ID, "X3", "Acme", model.StateDraft)
	deleted := f.store.addProduct(f.seller.UserID, f.laptops.ID, "X4", "Acme", model.StateDeleted)

	cases := []struct {
		name      string
		principal model.Principal
		id        uuid.UUID
		req       dto.UpdateProductRequest
		msg       string
	}{
		{"not owner", f.other, active.ID, dto.UpdateProductRequest{}, "not listed by you"},
		{"not active", f.seller, draft.ID, dto.UpdateProductRequest{}, "not activated"},
		{"deleted", f.seller, deleted.ID, dto.UpdateProductRequest{}, "deleted"},
		{"duplicate name", f.seller, active.ID, dto.UpdateProductRequest{Name: strPtr("X2")}, "X2"},
		{"blank name", f.seller, active.ID, dto.UpdateProductRequest{Name: strPtr("  ")}, "empty"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			before := f.store.writes
			_, err := f.productService().Update(context.Background(), tc.principal, tc.id, tc.req)
			require.Error(t, err)
			assert.True(t, service.IsBadRequest(err), "got %v", err)
			assert.Contains(t, err.Error(), tc.msg)
			assert.Equal(t, before, f.store.writes)
		})
	}
}

func TestProductUpdate_NotFound(t *testing.T) {
	f := newFixture()
	_, err := f.productService().Update(context.Background(), f.seller, uuid.New(), dto.UpdateProductRequest{})
	assert.True(t, service.IsNotFound(err))
}

// ── Activate / Deactivate ─────────────────────────────────────────────────────

func TestProductActivate(t *testing.T) {
	f := newFixture()
	p := f.store.addProduct(f.seller.UserID, f.laptops.ID, "X1", "Acme", model.StateDraft)
	svc := f.productService()

	out, err := svc.Activate(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Equal(t, service.OutcomeSuccess, out.Kind)
	assert.Equal(t, model.StateActive, f.store.products[p.ID].State)
	require.Len(t, f.notifier.sent, 1)
	assert.Equal(t, "seller@example.com", f.notifier.sent[0].To)
	assert.Equal(t, "Product activated", f.notifier.sent[0].Subject)

	out, err = svc.Activate(context.Background(), p.ID)
	require.NoError(t, err)
	assert.True(t, out.IsNoOp())
	assert.Equal(t, model.ReasonAlreadyActive, out.Reason)
	assert.Len(t, f.notifier.sent, 1)
}

func TestProductActivate_DeletedIsNoOp(t *testing.T) {
	f := newFixture()
	p := f.store.addProduct(f.seller.UserID, f.laptops.ID, "X1", "Acme", model.StateDeleted)

	out, err := f.productService().Activate(context.Background(), p.ID)
	require.NoError(t, err)
	assert.True(t, out.IsNoOp())
	assert.Equal(t, model.ReasonDeleted, out.Reason)
	assert.Equal(t, model.StateDeleted, f.store.products[p.ID].State)
	assert.Zero(t, f.store.writes)
	assert.Empty(t, f.notifier.sent)
}

func TestProductDeactivate(t *testing.T) {
	f := newFixture()
	p := f.store.addProduct(f.seller.UserID, f.laptops.ID, "X1", "Acme", model.StateActive)
	svc := f.productService()

	out, err := svc.Deactivate(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Equal(t, service.OutcomeSuccess, out.Kind)
	assert.Equal(t, model.StateInactive, f.store.products[p.ID].State)
	require.Len(t, f.notifier.sent, 1)
	assert.Equal(t, "Product deactivated", f.notifier.sent[0].Subject)

	out, err = svc.Deactivate(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Equal(t, model.ReasonAlreadyInactive, out.Reason)

	// Reactivation is allowed from inactive.
	out, err = svc.Activate(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Equal(t, service.OutcomeSuccess, out.Kind)
}

func TestProductActivate_NotFoundAndStoreError(t *testing.T) {
	f := newFixture()
	_, err := f.productService().Activate(context.Background(), uuid.New())
	assert.True(t, service.IsNotFound(err))

	f.products.findErr = errors.New("db gone")
	_, err = f.productService().Deactivate(context.Background(), uuid.New())
	require.Error(t, err)
	assert.False(t, service.IsNotFound(err))
}

// ── Delete ────────────────────────────────────────────────────────────────────

func TestProductDelete_CascadesToVariations(t *testing.T) {
	f := newFixture()
	p := f.store.addProduct(f.seller.UserID, f.laptops.ID, "X1", "Acme", model.StateActive)
	v1 := f.store.addVariation(p.ID, laptopAttrs("16GB", "512GB"), model.StateActive)
	v2 := f.store.addVariation(p.ID, laptopAttrs("32GB", "1TB"), model.StateActive)
	v3 := f.store.addVariation(p.ID, laptopAttrs("8GB", "256GB"), model.StateInactive)

	out, err := f.productService().Delete(context.Background(), f.seller, p.ID)
	require.NoError(t, err)
	assert.Equal(t, service.OutcomeSuccess, out.Kind)

	assert.Equal(t, model.StateDeleted, f.store.products[p.ID].State)
	for _, id := range []uuid.UUID{v1.ID, v2.ID, v3.ID} {
		assert.Equal(t, model.StateInactive, f.store.variations[id].State)
	}

	// Only seller and admin paths still see the product.
	catalog := f.catalogService()
	_, err = catalog.CustomerProduct(context.Background(), p.ID)
	assert.True(t, service.IsBadRequest(err))
	_, err = catalog.CustomerVariation(context.Background(), v1.ID)
	assert.True(t, service.IsBadRequest(err))

	mine, err := catalog.SellerProducts(context.Background(), f.seller)
	require.NoError(t, err)
	require.Len(t, mine.Data, 1)
	assert.Equal(t, string(model.StateDeleted), mine.Data[0].State)

	all, err := catalog.AdminProducts(context.Background())
	require.NoError(t, err)
	assert.Len(t, all.Data, 1)
}

func TestProductDelete_AlreadyDeletedIsNoOp(t *testing.T) {
	f := newFixture()
	p := f.store.addProduct(f.seller.UserID, f.laptops.ID, "X1", "Acme", model.StateDeleted)

	out, err := f.productService().Delete(context.Background(), f.seller, p.ID)
	require.NoError(t, err)
	assert.True(t, out.IsNoOp())
	assert.Equal(t, model.ReasonAlreadyDeleted, out.Reason)
}

func TestProductDelete_Rejections(t *testing.T) {
	f := newFixture()
	draft := f.store.addProduct(f.seller.UserID, f.laptops.ID, "X1", "Acme", model.StateDraft)
	active := f.store.addProduct(f.seller.UserID, f.laptops.ID, "X2", "Acme", model.StateActive)
	f.store.addVariation(active.ID, laptopAttrs("16GB", "512GB"), model.StateActive)

	_, err := f.productService().Delete(context.Background(), f.seller, draft.ID)
	assert.True(t, service.IsBadRequest(err))

	_, err = f.productService().Delete(context.Background(), f.other, active.ID)
	assert.True(t, service.IsBadRequest(err))
	assert.Zero(t, f.store.writes)

	_, err = f.productService().Delete(context.Background(), f.seller, uuid.New())
	assert.True(t, service.IsNotFound(err))
}
