package orders

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Kobby-jnrr/kstore-backend/internal/cart"
	"github.com/Kobby-jnrr/kstore-backend/internal/fulfillment"
	"github.com/Kobby-jnrr/kstore-backend/pkg/config"
	"github.com/Kobby-jnrr/kstore-backend/pkg/db/models"
	"github.com/Kobby-jnrr/kstore-backend/pkg/enums"
	pkgerrors "github.com/Kobby-jnrr/kstore-backend/pkg/errors"
	"github.com/Kobby-jnrr/kstore-backend/pkg/logger"
	"github.com/Kobby-jnrr/kstore-backend/pkg/outbox"
	"github.com/Kobby-jnrr/kstore-backend/pkg/pagination"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type outboxPublisher interface {
	Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
}

type cartStore interface {
	GetCart(ctx context.Context, customerID uuid.UUID) (*cart.View, error)
	Clear(ctx context.Context, customerID uuid.UUID) error
}

// Service exposes order placement, reads, and fulfillment transitions.
type Service interface {
	PlaceOrder(ctx context.Context, input PlaceOrderInput) (*View, error)
	GetCustomerOrder(ctx context.Context, customerID, orderID uuid.UUID) (*View, error)
	ListCustomerOrders(ctx context.Context, customerID uuid.UUID, params pagination.Params) (*List, error)
	ListVendorOrders(ctx context.Context, vendorID uuid.UUID, params pagination.Params) (*VendorOrderList, error)
	GetOrder(ctx context.Context, orderID uuid.UUID) (*View, error)
	ListAllOrders(ctx context.Context, params pagination.Params) (*List, error)
	TransitionItem(ctx context.Context, input ItemTransitionInput) (*View, error)
	DeliverAll(ctx context.Context, input DeliverAllInput) (int, error)
	AutoPassPending(ctx context.Context) (int, error)
}

type service struct {
	repo     Repository
	tx       txRunner
	outbox   outboxPublisher
	carts    cartStore
	delivery config.DeliveryConfig
	logg     *logger.Logger
}

// NewService builds an orders service with the required dependencies.
func NewService(repo Repository, tx txRunner, ob outboxPublisher, carts cartStore, delivery config.DeliveryConfig, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if ob == nil {
		return nil, fmt.Errorf("outbox publisher required")
	}
	if carts == nil {
		return nil, fmt.Errorf("cart store required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{
		repo:     repo,
		tx:       tx,
		outbox:   ob,
		carts:    carts,
		delivery: delivery,
		logg:     logg,
	}, nil
}

func (s *service) PlaceOrder(ctx context.Context, input PlaceOrderInput) (*View, error) {
	if input.CustomerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if !input.FulfillmentType.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown fulfillment type")
	}
	if !input.PaymentMethod.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown payment method")
	}

	cartView, err := s.carts.GetCart(ctx, input.CustomerID)
	if err != nil {
		return nil, err
	}
	if len(cartView.Lines) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
	}

	subtotal := cartView.SubtotalCents
	fee := s.delivery.Fee(input.FulfillmentType.String())
	order := &models.Order{
		CustomerID:       input.CustomerID,
		FulfillmentType:  input.FulfillmentType,
		PaymentMethod:    input.PaymentMethod,
		SubtotalCents:    subtotal,
		DeliveryFeeCents: fee,
		TotalCents:       subtotal + fee,
	}
	for _, line := range cartView.Lines {
		productID := line.ProductID
		order.Items = append(order.Items, models.OrderItem{
			ProductID:      &productID,
			VendorID:       line.VendorID,
			Title:          line.Title,
			Quantity:       line.Quantity,
			UnitPriceCents: line.UnitPriceCents,
			TotalCents:     line.TotalCents,
			Status:         enums.OrderItemStatusPending,
		})
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		// Order numbers come from the database sequence; concurrent
		// checkouts must never share one.
		number, err := repo.NextOrderNumber(ctx)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "allocate order number")
		}
		order.OrderNumber = number

		if _, err := repo.Create(ctx, order); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create order")
		}

		vendorIDs := make([]uuid.UUID, 0, len(cartView.VendorGroups))
		for _, g := range cartView.VendorGroups {
			vendorIDs = append(vendorIDs, g.VendorID)
		}
		event := outbox.DomainEvent{
			EventType:     enums.EventOrderCreated,
			AggregateType: enums.AggregateOrder,
			AggregateID:   order.ID,
			Version:       1,
			Actor:         &outbox.ActorRef{UserID: input.CustomerID, Role: enums.UserRoleCustomer.String()},
			Data: OrderCreatedEvent{
				OrderID:         order.ID,
				OrderNumber:     order.OrderNumber,
				CustomerID:      order.CustomerID,
				VendorIDs:       vendorIDs,
				FulfillmentType: order.FulfillmentType,
				TotalCents:      order.TotalCents,
				ItemCount:       cartView.ItemCount,
			},
		}
		return s.outbox.Emit(ctx, tx, event)
	})
	if err != nil {
		return nil, err
	}

	// The cart is cleared outside the order transaction; a failure here
	// leaves a stale cart, not a broken order.
	if err := s.carts.Clear(ctx, input.CustomerID); err != nil {
		s.logg.Error(s.logg.WithOrderID(ctx, order.ID.String()), "clearing cart after order", err)
	}

	view := viewOf(order)
	if input.FulfillmentType == enums.FulfillmentTypePickup && len(cartView.VendorGroups) > 1 {
		view.Warnings = append(view.Warnings, MultiVendorPickupWarning)
	}
	return view, nil
}

func (s *service) GetCustomerOrder(ctx context.Context, customerID, orderID uuid.UUID) (*View, error) {
	order, err := s.loadOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.CustomerID != customerID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "order does not belong to customer")
	}
	return viewOf(order), nil
}

func (s *service) ListCustomerOrders(ctx context.Context, customerID uuid.UUID, params pagination.Params) (*List, error) {
	cursor, err := parseCursor(params.Cursor)
	if err != nil {
		return nil, err
	}
	rows, next, err := s.repo.ListByCustomer(ctx, customerID, params.Limit, cursor)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list customer orders")
	}
	return listOf(rows, next), nil
}

func (s *service) ListVendorOrders(ctx context.Context, vendorID uuid.UUID, params pagination.Params) (*VendorOrderList, error) {
	cursor, err := parseCursor(params.Cursor)
	if err != nil {
		return nil, err
	}
	rows, next, err := s.repo.ListByVendor(ctx, vendorID, params.Limit, cursor)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list vendor orders")
	}

	list := &VendorOrderList{Orders: make([]VendorOrderView, 0, len(rows))}
	for i := range rows {
		list.Orders = append(list.Orders, vendorViewOf(&rows[i], vendorID))
	}
	if next != nil {
		list.NextCursor = pagination.EncodeCursor(*next)
	}
	return list, nil
}

func (s *service) GetOrder(ctx context.Context, orderID uuid.UUID) (*View, error) {
	order, err := s.loadOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	return viewOf(order), nil
}

func (s *service) ListAllOrders(ctx context.Context, params pagination.Params) (*List, error) {
	cursor, err := parseCursor(params.Cursor)
	if err != nil {
		return nil, err
	}
	rows, next, err := s.repo.ListAll(ctx, params.Limit, cursor)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
	}
	return listOf(rows, next), nil
}

func (s *service) TransitionItem(ctx context.Context, input ItemTransitionInput) (*View, error) {
	if input.OrderID == uuid.Nil || input.ItemID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id and item id required")
	}
	if input.ActorUserID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	action, err := fulfillment.ParseAction(input.Action)
	if err != nil {
		return nil, err
	}

	var view *View
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		item, err := repo.FindItem(ctx, input.ItemID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "order item not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order item")
		}
		if item.OrderID != input.OrderID {
			return pkgerrors.New(pkgerrors.CodeForbidden, "item does not belong to order")
		}
		if err := authorizeItemActor(item, input.ActorVendor, input.ActorRole); err != nil {
			return err
		}

		from := item.Status
		next, err := fulfillment.Apply(from, action)
		if err != nil {
			return err
		}
		if err := repo.UpdateItemStatus(ctx, item.ID, next, input.Notes); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update item status")
		}

		order, err := repo.FindByID(ctx, input.OrderID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reload order")
		}

		event := outbox.DomainEvent{
			EventType:     enums.EventOrderItemStatusChanged,
			AggregateType: enums.AggregateOrderItem,
			AggregateID:   item.ID,
			Version:       1,
			Actor:         actorRef(input.ActorUserID, input.ActorRole),
			Data: ItemStatusChangedEvent{
				OrderID:     order.ID,
				OrderNumber: order.OrderNumber,
				CustomerID:  order.CustomerID,
				OrderStatus: fulfillment.OrderStatusOf(fulfillment.StatusesOf(order.Items)),
				Changes: []ItemStatusChange{{
					ItemID:   item.ID,
					VendorID: item.VendorID,
					From:     from,
					To:       next,
				}},
			},
		}
		if err := s.outbox.Emit(ctx, tx, event); err != nil {
			return err
		}

		view = viewOf(order)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return view, nil
}

func (s *service) DeliverAll(ctx context.Context, input DeliverAllInput) (int, error) {
	if input.OrderID == uuid.Nil {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}
	if input.ActorUserID == uuid.Nil {
		return 0, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}

	advanced := 0
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		order, err := repo.FindByID(ctx, input.OrderID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
		}

		var changes []ItemStatusChange
		for _, item := range order.Items {
			if input.ActorVendor != nil && item.VendorID != *input.ActorVendor {
				continue
			}
			// One advance step per invocation; pending and terminal
			// items are skipped without surfacing an error.
			next, err := fulfillment.Advance(item.Status)
			if err != nil {
				continue
			}
			if err := repo.UpdateItemStatus(ctx, item.ID, next, nil); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update item status")
			}
			changes = append(changes, ItemStatusChange{
				ItemID:   item.ID,
				VendorID: item.VendorID,
				From:     item.Status,
				To:       next,
			})
		}
		advanced = len(changes)
		if advanced == 0 {
			return nil
		}

		updated, err := repo.FindByID(ctx, input.OrderID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reload order")
		}
		event := outbox.DomainEvent{
			EventType:     enums.EventOrderItemStatusChanged,
			AggregateType: enums.AggregateOrder,
			AggregateID:   order.ID,
			Version:       1,
			Actor:         actorRef(input.ActorUserID, input.ActorRole),
			Data: ItemStatusChangedEvent{
				OrderID:     order.ID,
				OrderNumber: order.OrderNumber,
				CustomerID:  order.CustomerID,
				OrderStatus: fulfillment.OrderStatusOf(fulfillment.StatusesOf(updated.Items)),
				Changes:     changes,
			},
		}
		return s.outbox.Emit(ctx, tx, event)
	})
	if err != nil {
		return 0, err
	}
	return advanced, nil
}

// AutoPassPending accepts every pending item in one sweep. The cron worker
// invokes it when the auto-pass toggle is enabled.
func (s *service) AutoPassPending(ctx context.Context) (int, error) {
	accepted := 0
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		items, err := repo.ListItemsByStatus(ctx, enums.OrderItemStatusPending, 0)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list pending items")
		}

		changesByOrder := make(map[uuid.UUID][]ItemStatusChange)
		for _, item := range items {
			next, err := fulfillment.Accept(item.Status)
			if err != nil {
				continue
			}
			if err := repo.UpdateItemStatus(ctx, item.ID, next, nil); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update item status")
			}
			changesByOrder[item.OrderID] = append(changesByOrder[item.OrderID], ItemStatusChange{
				ItemID:   item.ID,
				VendorID: item.VendorID,
				From:     item.Status,
				To:       next,
			})
			accepted++
		}

		for orderID, changes := range changesByOrder {
			order, err := repo.FindByID(ctx, orderID)
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reload order")
			}
			event := outbox.DomainEvent{
				EventType:     enums.EventOrderItemStatusChanged,
				AggregateType: enums.AggregateOrder,
				AggregateID:   orderID,
				Version:       1,
				Data: ItemStatusChangedEvent{
					OrderID:     order.ID,
					OrderNumber: order.OrderNumber,
					CustomerID:  order.CustomerID,
					OrderStatus: fulfillment.OrderStatusOf(fulfillment.StatusesOf(order.Items)),
					Changes:     changes,
				},
			}
			if err := s.outbox.Emit(ctx, tx, event); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return accepted, nil
}

func (s *service) loadOrder(ctx context.Context, orderID uuid.UUID) (*models.Order, error) {
	order, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	return order, nil
}

func authorizeItemActor(item *models.OrderItem, actorVendor *uuid.UUID, role enums.UserRole) error {
	if role == enums.UserRoleAdmin {
		return nil
	}
	if role != enums.UserRoleVendor {
		return pkgerrors.New(pkgerrors.CodeForbidden, "customers cannot transition order items")
	}
	if actorVendor == nil || item.VendorID != *actorVendor {
		return pkgerrors.New(pkgerrors.CodeForbidden, "item does not belong to vendor")
	}
	return nil
}

func actorRef(userID uuid.UUID, role enums.UserRole) *outbox.ActorRef {
	if userID == uuid.Nil {
		return nil
	}
	return &outbox.ActorRef{UserID: userID, Role: role.String()}
}

func parseCursor(raw string) (*pagination.Cursor, error) {
	if raw == "" {
		return nil, nil
	}
	cursor, err := pagination.ParseCursor(raw)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}
	return cursor, nil
}

func viewOf(order *models.Order) *View {
	view := &View{
		ID:               order.ID,
		OrderNumber:      order.OrderNumber,
		CustomerID:       order.CustomerID,
		FulfillmentType:  order.FulfillmentType,
		PaymentMethod:    order.PaymentMethod,
		SubtotalCents:    order.SubtotalCents,
		DeliveryFeeCents: order.DeliveryFeeCents,
		TotalCents:       order.TotalCents,
		Status:           fulfillment.OrderStatusOf(fulfillment.StatusesOf(order.Items)),
		Items:            make([]ItemView, 0, len(order.Items)),
		CreatedAt:        order.CreatedAt,
	}
	byVendor := make(map[uuid.UUID][]ItemView)
	var vendorOrder []uuid.UUID
	for _, item := range order.Items {
		iv := itemViewOf(item)
		view.Items = append(view.Items, iv)
		if _, seen := byVendor[item.VendorID]; !seen {
			vendorOrder = append(vendorOrder, item.VendorID)
		}
		byVendor[item.VendorID] = append(byVendor[item.VendorID], iv)
	}
	for _, vendorID := range vendorOrder {
		view.VendorGroups = append(view.VendorGroups, VendorGroupView{
			VendorID: vendorID,
			Status:   fulfillment.VendorStatusOf(fulfillment.VendorStatuses(order.Items, vendorID)),
			Items:    byVendor[vendorID],
		})
	}
	return view
}

func vendorViewOf(order *models.Order, vendorID uuid.UUID) VendorOrderView {
	view := VendorOrderView{
		OrderID:         order.ID,
		OrderNumber:     order.OrderNumber,
		CustomerID:      order.CustomerID,
		FulfillmentType: order.FulfillmentType,
		Status:          fulfillment.VendorStatusOf(fulfillment.VendorStatuses(order.Items, vendorID)),
		CreatedAt:       order.CreatedAt,
	}
	for _, item := range order.Items {
		if item.VendorID != vendorID {
			continue
		}
		view.Items = append(view.Items, itemViewOf(item))
		if item.Status != enums.OrderItemStatusRejected {
			view.SubtotalCents += item.TotalCents
		}
	}
	return view
}

func itemViewOf(item models.OrderItem) ItemView {
	return ItemView{
		ID:             item.ID,
		ProductID:      item.ProductID,
		VendorID:       item.VendorID,
		Title:          item.Title,
		Quantity:       item.Quantity,
		UnitPriceCents: item.UnitPriceCents,
		TotalCents:     item.TotalCents,
		Status:         item.Status,
		Notes:          item.Notes,
	}
}

func listOf(rows []models.Order, next *pagination.Cursor) *List {
	list := &List{Orders: make([]Summary, 0, len(rows))}
	for i := range rows {
		order := &rows[i]
		count := 0
		for _, item := range order.Items {
			count += item.Quantity
		}
		list.Orders = append(list.Orders, Summary{
			ID:          order.ID,
			OrderNumber: order.OrderNumber,
			CustomerID:  order.CustomerID,
			Status:      fulfillment.OrderStatusOf(fulfillment.StatusesOf(order.Items)),
			TotalCents:  order.TotalCents,
			ItemCount:   count,
			CreatedAt:   order.CreatedAt,
		})
	}
	if next != nil {
		list.NextCursor = pagination.EncodeCursor(*next)
	}
	return list
}
