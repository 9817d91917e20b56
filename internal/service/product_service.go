package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"buyonline/internal/dto"
	"buyonline/internal/model"
	"buyonline/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// ProductService owns the product lifecycle: sellers create, update and
// delete their listings, admins activate and deactivate them.
type ProductService interface {
	Create(ctx context.Context, principal model.Principal, req dto.CreateProductRequest) (*dto.ProductResponse, error)
	Update(ctx context.Context, principal model.Principal, id uuid.UUID, req dto.UpdateProductRequest) (*dto.ProductResponse, error)
	Activate(ctx context.Context, id uuid.UUID) (Outcome, error)
	Deactivate(ctx context.Context, id uuid.UUID) (Outcome, error)
	// Delete marks an active product deleted and deactivates every variation
	// of it in the same transaction.
	Delete(ctx context.Context, principal model.Principal, id uuid.UUID) (Outcome, error)
}

type productService struct {
	products   repository.ProductRepository
	categories repository.CategoryRepository
	variations repository.VariationRepository
	notifier   Notifier
	mail       MailSettings
}

func NewProductService(
	products repository.ProductRepository,
	categories repository.CategoryRepository,
	variations repository.VariationRepository,
	notifier Notifier,
	mail MailSettings,
) ProductService {
	return &productService{
		products:   products,
		categories: categories,
		variations: variations,
		notifier:   notifier,
		mail:       mail,
	}
}

func (s *productService) Create(ctx context.Context, principal model.Principal, req dto.CreateProductRequest) (*dto.ProductResponse, error) {
	categoryID, err := uuid.Parse(req.CategoryID)
	if err != nil {
		return nil, badRequest("invalid category id %q", req.CategoryID)
	}
	name := strings.TrimSpace(req.Name)
	brand := strings.TrimSpace(req.Brand)
	if name == "" || brand == "" {
		return nil, badRequest("product name and brand are required")
	}

	var product model.Product
	txErr := runTx(ctx, s.products.DB(), func(tx *gorm.DB) error {
		categories := s.categories.WithTx(tx)
		products := s.products.WithTx(tx)

		// The category lock serializes concurrent creations in the same
		// category so the uniqueness lookup below sees committed rows.
		category, err := categories.LockByID(ctx, categoryID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return notFound("invalid category id, no category found with id %s", categoryID)
			}
			return err
		}
		leaf, err := isLeaf(ctx, categories, category)
		if err != nil {
			return err
		}
		if !leaf {
			return badRequest("products can only be listed under a leaf category, %s is not a leaf category", category.Name)
		}

		unique := NewUniquenessChecker(products, s.variations.WithTx(tx))
		if err := unique.CheckProduct(ctx, name, brand, category.ID, principal.UserID, uuid.Nil); err != nil {
			return err
		}

		product = model.Product{
			Name:        name,
			Brand:       brand,
			SellerID:    principal.UserID,
			CategoryID:  category.ID,
			State:       model.StateDraft,
			Cancellable: false,
			Returnable:  false,
		}
		if req.Description != nil {
			product.Description = strings.TrimSpace(*req.Description)
		}
		product.RefreshSlug()
		return duplicateProduct(products.Create(ctx, &product), name, brand)
	})
	if txErr != nil {
		return nil, txErr
	}

	log.Info().Str("product_id", product.ID.String()).Str("seller", principal.Email).Msg("catalog: product created")
	notify(ctx, s.notifier, model.Notification{
		To:      s.mail.Operator,
		From:    s.mail.From,
		Subject: "A new product has been added by a seller",
		Body: fmt.Sprintf("Seller %s added the product %s %s (id %s). Please review it for activation.",
			principal.Email, product.Brand, product.Name, product.ID),
	})

	resp := dto.ProductFromModel(product, nil)
	return &resp, nil
}

// duplicateProduct maps a write that lost a race on idx_product_ownership to
// the answer the uniqueness lookup gives.
func duplicateProduct(err error, name, brand string) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return badRequest("you already list a %s product named %q in this category, try some other name", brand, name)
	}
	return err
}

func (s *productService) Update(ctx context.Context, principal model.Principal, id uuid.UUID, req dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	var product *model.Product
	txErr := runTx(ctx, s.products.DB(), func(tx *gorm.DB) error {
		products := s.products.WithTx(tx)

		p, err := products.LockByID(ctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return notFound("invalid product id, no product found with id %s", id)
			}
			return err
		}
		if err := authorizeOwner(principal, p, "can't update this product as it is not listed by you"); err != nil {
			return err
		}
		if p.IsDeleted() {
			return badRequest("can't update %s as the product is deleted", p.Name)
		}
		if !p.IsActive() {
			return badRequest("can't update %s as the product is not activated by the admin", p.Name)
		}

		if req.Name != nil {
			name := strings.TrimSpace(*req.Name)
			if name == "" {
				return badRequest("product name can't be empty")
			}
			if name != p.Name {
				unique := NewUniquenessChecker(products, s.variations.WithTx(tx))
				if err := unique.CheckProduct(ctx, name, p.Brand, p.CategoryID, p.SellerID, p.ID); err != nil {
					return err
				}
			}
			p.Name = name
			p.RefreshSlug()
		}
		if req.Description != nil {
			p.Description = strings.TrimSpace(*req.Description)
		}
		if req.Cancellable != nil {
			p.Cancellable = *req.Cancellable
		}
		if req.Returnable != nil {
			p.Returnable = *req.Returnable
		}

		product = p
		return duplicateProduct(products.Save(ctx, p), p.Name, p.Brand)
	})
	if txErr != nil {
		return nil, txErr
	}

	resp := dto.ProductFromModel(*product, nil)
	return &resp, nil
}

func (s *productService) Activate(ctx context.Context, id uuid.UUID) (Outcome, error) {
	return s.transition(ctx, id, model.LifecycleState.Activate)
}

func (s *productService) Deactivate(ctx context.Context, id uuid.UUID) (Outcome, error) {
	return s.transition(ctx, id, model.LifecycleState.Deactivate)
}

// transition applies an admin state change and notifies the seller when the
// state actually moved.
func (s *productService) transition(ctx context.Context, id uuid.UUID, move func(model.LifecycleState) model.Transition) (Outcome, error) {
	var (
		product *model.Product
		t       model.Transition
	)
	txErr := runTx(ctx, s.products.DB(), func(tx *gorm.DB) error {
		products := s.products.WithTx(tx)
		p, err := products.LockByID(ctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return notFound("invalid product id, no product listed with id %s", id)
			}
			return err
		}
		product = p
		t = move(p.State)
		if !t.Changed() {
			return nil
		}
		p.State = t.To
		return products.Save(ctx, p)
	})
	if txErr != nil {
		return Outcome{}, txErr
	}

	if !t.Changed() {
		return noOp(t.Reason, noOpMessage(product, t)), nil
	}

	verb := "activated"
	if t.To != model.StateActive {
		verb = "deactivated"
	}
	log.Info().
		Str("product_id", product.ID.String()).
		Str("from", string(t.From)).
		Str("to", string(t.To)).
		Msg("catalog: product state changed")

	if product.Seller != nil {
		notify(ctx, s.notifier, model.Notification{
			To:      product.Seller.Email,
			From:    s.mail.From,
			Subject: "Product " + verb,
			Body:    fmt.Sprintf("Your product %s has been %s by our team.", product.Name, verb),
		})
	}
	return success(fmt.Sprintf("product %s with id %s is %s", product.Name, product.ID, verb)), nil
}

func noOpMessage(p *model.Product, t model.Transition) string {
	switch t.Reason {
	case model.ReasonAlreadyActive:
		return fmt.Sprintf("the product %s is already activated", p.Name)
	case model.ReasonAlreadyInactive:
		return fmt.Sprintf("the product %s is already deactivated", p.Name)
	case model.ReasonAlreadyDeleted:
		return "product is already deleted"
	case model.ReasonDeleted:
		return fmt.Sprintf("can't change the state of product %s as it is deleted", p.Name)
	}
	return string(t.Reason)
}

func (s *productService) Delete(ctx context.Context, principal model.Principal, id uuid.UUID) (Outcome, error) {
	var (
		product *model.Product
		t       model.Transition
	)
	txErr := runTx(ctx, s.products.DB(), func(tx *gorm.DB) error {
		products := s.products.WithTx(tx)
		variations := s.variations.WithTx(tx)

		p, err := products.LockByID(ctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return notFound("invalid product id, no product found with id %s", id)
			}
			return err
		}
		product = p

		t, err = p.State.Delete()
		if err != nil {
			return badRequest("can't delete the product as it is not activated")
		}
		if !t.Changed() {
			return nil
		}
		if err := authorizeOwner(principal, p, "can't delete this product as it is not listed by you"); err != nil {
			return err
		}

		list, err := variations.FindAllForProduct(ctx, p.ID)
		if err != nil {
			return err
		}
		for i := range list {
			v := &list[i]
			next := v.State.Cascade()
			if next == v.State {
				continue
			}
			v.State = next
			if err := variations.Save(ctx, v); err != nil {
				return fmt.Errorf("deactivate variation %s: %w", v.ID, err)
			}
		}

		p.State = t.To
		return products.Save(ctx, p)
	})
	if txErr != nil {
		return Outcome{}, txErr
	}
	if !t.Changed() {
		return noOp(t.Reason, noOpMessage(product, t)), nil
	}

	log.Info().Str("product_id", product.ID.String()).Str("seller", principal.Email).Msg("catalog: product deleted")
	return success("product deleted successfully"), nil
}
