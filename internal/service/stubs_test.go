package service_test

import (
	"context"
	"errors"
	"sort"
	"time"

	"buyonline/internal/model"
	"buyonline/internal/repository"
	"buyonline/internal/service"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ── In-memory store ───────────────────────────────────────────────────────────

// memStore backs every stub repository. Entities are stored without their
// associations and copied on the way in and out, like rows.
type memStore struct {
	users      map[uuid.UUID]model.User
	categories map[uuid.UUID]model.Category
	fields     map[uuid.UUID]model.CategoryMetadataField
	products   map[uuid.UUID]model.Product
	variations map[uuid.UUID]model.ProductVariation

	clock  time.Time
	writes int
}

func newMemStore() *memStore {
	return &memStore{
		users:      make(map[uuid.UUID]model.User),
		categories: make(map[uuid.UUID]model.Category),
		fields:     make(map[uuid.UUID]model.CategoryMetadataField),
		products:   make(map[uuid.UUID]model.Product),
		variations: make(map[uuid.UUID]model.ProductVariation),
		clock:      time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func (s *memStore) tick() time.Time {
	s.clock = s.clock.Add(time.Second)
	return s.clock
}

func (s *memStore) addUser(email string, role model.Role) model.Principal {
	u := model.User{ID: uuid.New(), Email: email, FirstName: email, Role: role}
	s.users[u.ID] = u
	return model.Principal{UserID: u.ID, Email: u.Email, Role: u.Role}
}

func (s *memStore) addCategory(name string, parent *uuid.UUID, fields ...string) model.Category {
	c := model.Category{ID: uuid.New(), Name: name, ParentID: parent}
	s.categories[c.ID] = c
	for _, f := range fields {
		fid := uuid.New()
		s.fields[fid] = model.CategoryMetadataField{ID: fid, Name: f, CategoryID: c.ID}
	}
	return c
}

func (s *memStore) addProduct(seller, category uuid.UUID, name, brand string, state model.LifecycleState) model.Product {
	p := model.Product{ID: uuid.New(), Name: name, Brand: brand, SellerID: seller, CategoryID: category, State: state}
	p.CreatedAt = s.tick()
	s.products[p.ID] = p
	return p
}

func (s *memStore) addVariation(productID uuid.UUID, attrs model.Attributes, state model.LifecycleState) model.ProductVariation {
	v := model.ProductVariation{
		ID:                uuid.New(),
		ProductID:         productID,
		Attributes:        attrs,
		QuantityAvailable: 3,
		Price:             decimal.NewFromInt(100),
		State:             state,
	}
	v.CreatedAt = s.tick()
	s.variations[v.ID] = v
	return v
}

func (s *memStore) variationsOf(productID uuid.UUID) []model.ProductVariation {
	var out []model.ProductVariation
	for _, v := range s.variations {
		if v.ProductID == productID {
			out = append(out, v)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out
}

func (s *memStore) withSeller(p model.Product) model.Product {
	if u, ok := s.users[p.SellerID]; ok {
		p.Seller = &u
	}
	return p
}

func (s *memStore) withAssociations(p model.Product) model.Product {
	p = s.withSeller(p)
	if c, ok := s.categories[p.CategoryID]; ok {
		p.Category = &c
	}
	p.Variations = s.variationsOf(p.ID)
	return p
}

func stripProduct(p model.Product) model.Product {
	p.Seller, p.Category, p.Variations = nil, nil, nil
	return p
}

func byCreated(list []model.Product) []model.Product {
	sort.Slice(list, func(i, j int) bool { return list[i].CreatedAt.Before(list[j].CreatedAt) })
	return list
}

// ── Category repository ───────────────────────────────────────────────────────

type stubCategoryRepo struct{ s *memStore }

func (r *stubCategoryRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Category, error) {
	c, ok := r.s.categories[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &c, nil
}

func (r *stubCategoryRepo) LockByID(ctx context.Context, id uuid.UUID) (*model.Category, error) {
	return r.FindByID(ctx, id)
}

func (r *stubCategoryRepo) FindAllChildIDs(_ context.Context, id uuid.UUID) ([]uuid.UUID, error) {
	var out []uuid.UUID
	queue := []uuid.UUID{id}
	for len(queue) > 0 {
		parent := queue[0]
		queue = queue[1:]
		for _, c := range r.s.categories {
			if c.ParentID != nil && *c.ParentID == parent {
				out = append(out, c.ID)
				queue = append(queue, c.ID)
			}
		}
	}
	return out, nil
}

func (r *stubCategoryRepo) HasChildren(_ context.Context, id uuid.UUID) (bool, error) {
	for _, c := range r.s.categories {
		if c.ParentID != nil && *c.ParentID == id {
			return true, nil
		}
	}
	return false, nil
}

func (r *stubCategoryRepo) FindAll(_ context.Context) ([]model.Category, error) {
	out := make([]model.Category, 0, len(r.s.categories))
	for _, c := range r.s.categories {
		for _, f := range r.s.fields {
			if f.CategoryID == c.ID {
				c.MetadataFields = append(c.MetadataFields, f)
			}
		}
		sort.Slice(c.MetadataFields, func(i, j int) bool { return c.MetadataFields[i].Name < c.MetadataFields[j].Name })
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *stubCategoryRepo) WithTx(_ *gorm.DB) repository.CategoryRepository { return r }

var _ repository.CategoryRepository = (*stubCategoryRepo)(nil)

// ── Product repository ────────────────────────────────────────────────────────

type stubProductRepo struct {
	s       *memStore
	findErr error
	saveErr error
}

func (r *stubProductRepo) Create(_ context.Context, p *model.Product) error {
	if r.saveErr != nil {
		return r.saveErr
	}
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	p.CreatedAt = r.s.tick()
	p.UpdatedAt = p.CreatedAt
	r.s.products[p.ID] = stripProduct(*p)
	r.s.writes++
	return nil
}

func (r *stubProductRepo) Save(_ context.Context, p *model.Product) error {
	if r.saveErr != nil {
		return r.saveErr
	}
	p.UpdatedAt = r.s.tick()
	r.s.products[p.ID] = stripProduct(*p)
	r.s.writes++
	return nil
}

func (r *stubProductRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Product, error) {
	if r.findErr != nil {
		return nil, r.findErr
	}
	p, ok := r.s.products[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	p = r.s.withAssociations(p)
	return &p, nil
}

func (r *stubProductRepo) LockByID(_ context.Context, id uuid.UUID) (*model.Product, error) {
	if r.findErr != nil {
		return nil, r.findErr
	}
	p, ok := r.s.products[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	p = r.s.withSeller(p)
	return &p, nil
}

func (r *stubProductRepo) FindNameByOwnership(_ context.Context, name, brand string, categoryID, sellerID, excludeID uuid.UUID) (string, error) {
	for _, p := range r.s.products {
		if p.ID == excludeID {
			continue
		}
		if p.Name == name && p.Brand == brand && p.CategoryID == categoryID && p.SellerID == sellerID {
			return p.Name, nil
		}
	}
	return "", nil
}

func (r *stubProductRepo) filter(keep func(model.Product) bool) []model.Product {
	var out []model.Product
	for _, p := range r.s.products {
		if keep(p) {
			out = append(out, r.s.withAssociations(p))
		}
	}
	return byCreated(out)
}

func (r *stubProductRepo) FindByCategory(_ context.Context, categoryID uuid.UUID) ([]model.Product, error) {
	return r.filter(func(p model.Product) bool { return p.CategoryID == categoryID }), nil
}

func (r *stubProductRepo) FindBySeller(_ context.Context, sellerID uuid.UUID) ([]model.Product, error) {
	return r.filter(func(p model.Product) bool { return p.SellerID == sellerID }), nil
}

func (r *stubProductRepo) FindAll(_ context.Context) ([]model.Product, error) {
	return r.filter(func(model.Product) bool { return true }), nil
}

func (r *stubProductRepo) WithTx(_ *gorm.DB) repository.ProductRepository { return r }
func (r *stubProductRepo) DB() *gorm.DB { return nil }

var _ repository.ProductRepository = (*stubProductRepo)(nil)

// ── Variation repository ──────────────────────────────────────────────────────

type stubVariationRepo struct {
	s       *memStore
	attrErr error
}

func (r *stubVariationRepo) Create(_ context.Context, v *model.ProductVariation) error {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	v.CreatedAt = r.s.tick()
	v.UpdatedAt = v.CreatedAt
	stored := *v
	stored.Product = nil
	r.s.variations[v.ID] = stored
	r.s.writes++
	return nil
}

func (r *stubVariationRepo) Save(_ context.Context, v *model.ProductVariation) error {
	v.UpdatedAt = r.s.tick()
	stored := *v
	stored.Product = nil
	r.s.variations[v.ID] = stored
	r.s.writes++
	return nil
}

func (r *stubVariationRepo) load(id uuid.UUID) (*model.ProductVariation, error) {
	v, ok := r.s.variations[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	p, ok := r.s.products[v.ProductID]
	if !ok {
		return nil, errors.New("orphan variation")
	}
	p = r.s.withSeller(p)
	v.Product = &p
	return &v, nil
}

func (r *stubVariationRepo) FindByID(_ context.Context, id uuid.UUID) (*model.ProductVariation, error) {
	return r.load(id)
}

func (r *stubVariationRepo) LockByID(_ context.Context, id uuid.UUID) (*model.ProductVariation, error) {
	return r.load(id)
}

// FindAllAttributesForProduct hands back the encoded form, as a database would.
func (r *stubVariationRepo) FindAllAttributesForProduct(_ context.Context, productID uuid.UUID) ([]model.EncodedAttributes, error) {
	if r.attrErr != nil {
		return nil, r.attrErr
	}
	var out []model.EncodedAttributes
	for _, v := range r.s.variationsOf(productID) {
		raw, err := v.Attributes.Encode()
		if err != nil {
			return nil, err
		}
		out = append(out, model.EncodedAttributes{VariationID: v.ID, Raw: raw})
	}
	return out, nil
}

func (r *stubVariationRepo) FindMetadataFieldIDsForCategory(_ context.Context, categoryID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	for _, f := range r.s.fields {
		if f.CategoryID == categoryID {
			ids = append(ids, f.ID)
		}
	}
	return ids, nil
}

func (r *stubVariationRepo) FindByNameAndProduct(_ context.Context, name string, productID uuid.UUID) ([]model.ProductVariation, error) {
	var out []model.ProductVariation
	for _, v := range r.s.variationsOf(productID) {
		if v.VariantName == name {
			out = append(out, v)
		}
	}
	return out, nil
}

func (r *stubVariationRepo) FindAllForProduct(_ context.Context, productID uuid.UUID) ([]model.ProductVariation, error) {
	return r.s.variationsOf(productID), nil
}

func (r *stubVariationRepo) WithTx(_ *gorm.DB) repository.VariationRepository { return r }

var _ repository.VariationRepository = (*stubVariationRepo)(nil)

// ── Metadata field repository ─────────────────────────────────────────────────

type stubFieldRepo struct{ s *memStore }

func (r *stubFieldRepo) FindByID(_ context.Context, id uuid.UUID) (*model.CategoryMetadataField, error) {
	f, ok := r.s.fields[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &f, nil
}

var _ repository.MetadataFieldRepository = (*stubFieldRepo)(nil)

// ── Notifier ──────────────────────────────────────────────────────────────────

type recordingNotifier struct {
	sent []model.Notification
	err  error
}

func (n *recordingNotifier) Send(_ context.Context, msg model.Notification) error {
	if n.err != nil {
		return n.err
	}
	n.sent = append(n.sent, msg)
	return nil
}

// ── Fixture ───────────────────────────────────────────────────────────────────

// fixture is a store with the Electronics → Laptops{RAM, Storage} tree and a
// seller, plus every service wired to stub repositories.
type fixture struct {
	store    *memStore
	products *stubProductRepo
	vars     *stubVariationRepo
	notifier *recordingNotifier

	root    model.Category
	laptops model.Category
	seller  model.Principal
	other   model.Principal
	admin   model.Principal
}

func newFixture() *fixture {
	s := newMemStore()
	f := &fixture{
		store:    s,
		products: &stubProductRepo{s: s},
		vars:     &stubVariationRepo{s: s},
		notifier: &recordingNotifier{},
	}
	f.root = s.addCategory("Electronics", nil)
	f.laptops = s.addCategory("Laptops", &f.root.ID, "RAM", "Storage")
	f.seller = s.addUser("seller@example.com", model.RoleSeller)
	f.other = s.addUser("other@example.com", model.RoleSeller)
	f.admin = s.addUser("admin@example.com", model.RoleAdmin)
	return f
}

func laptopAttrs(ram, storage string) model.Attributes {
	return model.Attributes{"RAM": model.StringValue(ram), "Storage": model.StringValue(storage)}
}

var testMail = service.MailSettings{From: "noreply@example.com", Operator: "ops@example.com"}

func (f *fixture) productService() service.ProductService {
	return service.NewProductService(f.products, &stubCategoryRepo{s: f.store}, f.vars, f.notifier, testMail)
}

func (f *fixture) variationService() service.VariationService {
	return service.NewVariationService(f.products, f.vars, &stubFieldRepo{s: f.store})
}

func (f *fixture) catalogService() service.CatalogService {
	return service.NewCatalogService(f.products, &stubCategoryRepo{s: f.store}, f.vars)
}

func (f *fixture) categoryService() service.CategoryService {
	return service.NewCategoryService(&stubCategoryRepo{s: f.store})
}

func (f *fixture) validator() service.AttributeSchemaValidator {
	return service.NewAttributeSchemaValidator(f.vars, &stubFieldRepo{s: f.store})
}

func (f *fixture) checker() service.UniquenessChecker {
	return service.NewUniquenessChecker(f.products, f.vars)
}
