package analytics

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Kobby-jnrr/kstore-backend/internal/fulfillment"
	"github.com/Kobby-jnrr/kstore-backend/pkg/enums"
	pkgerrors "github.com/Kobby-jnrr/kstore-backend/pkg/errors"
)

// DashboardQuery bounds the reporting window. A zero From means the epoch,
// a zero To means now.
type DashboardQuery struct {
	From time.Time
	To   time.Time
}

// StatusBreakdown counts orders per derived order status.
type StatusBreakdown struct {
	Pending   int `json:"pending"`
	Completed int `json:"completed"`
	Rejected  int `json:"rejected"`
}

// VendorRevenue is one vendor's delivered-item revenue inside the window.
type VendorRevenue struct {
	VendorID     uuid.UUID `json:"vendorId"`
	RevenueCents int64     `json:"revenueCents"`
	Revenue      string    `json:"revenue"`
	ItemsSold    int       `json:"itemsSold"`
}

// DashboardView is the admin KPI report.
type DashboardView struct {
	From              time.Time       `json:"from"`
	To                time.Time       `json:"to"`
	OrderCount        int             `json:"orderCount"`
	Orders            StatusBreakdown `json:"orders"`
	GrossRevenueCents int64           `json:"grossRevenueCents"`
	GrossRevenue      string          `json:"grossRevenue"`
	AverageOrderValue string          `json:"averageOrderValue"`
	VendorRevenues    []VendorRevenue `json:"vendorRevenues"`
	CustomerCount     int64           `json:"customerCount"`
	VendorCount       int64           `json:"vendorCount"`
	ActiveProducts    int64           `json:"activeProducts"`
}

// Service computes marketplace KPIs over the orders table.
type Service interface {
	Dashboard(ctx context.Context, query DashboardQuery) (*DashboardView, error)
}

type service struct {
	repo Repository
	now  func() time.Time
}

// NewService builds the analytics service.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("analytics repository required")
	}
	return &service{repo: repo, now: time.Now}, nil
}

// Dashboard folds every order in the window into its derived status and
// aggregates revenue from completed orders. Money leaves the service as
// both raw cents and a two-decimal string.
func (s *service) Dashboard(ctx context.Context, query DashboardQuery) (*DashboardView, error) {
	from := query.From
	to := query.To
	if to.IsZero() {
		to = s.now().UTC()
	}
	if !from.IsZero() && !from.Before(to) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "window start must precede its end")
	}

	orders, err := s.repo.OrdersBetween(ctx, from, to)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load orders for dashboard")
	}

	view := &DashboardView{From: from, To: to, OrderCount: len(orders)}
	var grossCents int64
	var completed int64
	perVendor := map[uuid.UUID]*VendorRevenue{}

	for i := range orders {
		order := &orders[i]
		switch fulfillment.OrderStatusOf(fulfillment.StatusesOf(order.Items)) {
		case enums.OrderStatusCompleted:
			view.Orders.Completed++
			completed++
			grossCents += int64(order.TotalCents)
		case enums.OrderStatusRejected:
			view.Orders.Rejected++
		default:
			view.Orders.Pending++
		}

		for _, item := range order.Items {
			if item.Status != enums.OrderItemStatusDelivered {
				continue
			}
			entry, ok := perVendor[item.VendorID]
			if !ok {
				entry = &VendorRevenue{VendorID: item.VendorID}
				perVendor[item.VendorID] = entry
			}
			entry.RevenueCents += int64(item.TotalCents)
			entry.ItemsSold += item.Quantity
		}
	}

	view.GrossRevenueCents = grossCents
	view.GrossRevenue = centsToAmount(grossCents)
	view.AverageOrderValue = averageOrderValue(grossCents, completed)

	view.VendorRevenues = make([]VendorRevenue, 0, len(perVendor))
	for _, entry := range perVendor {
		entry.Revenue = centsToAmount(entry.RevenueCents)
		view.VendorRevenues = append(view.VendorRevenues, *entry)
	}
	sort.Slice(view.VendorRevenues, func(i, j int) bool {
		left, right := view.VendorRevenues[i], view.VendorRevenues[j]
		if left.RevenueCents != right.RevenueCents {
			return left.RevenueCents > right.RevenueCents
		}
		return left.VendorID.String() < right.VendorID.String()
	})

	roles, err := s.repo.CountUsersByRole(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count users")
	}
	view.CustomerCount = roles[enums.UserRoleCustomer]
	view.VendorCount = roles[enums.UserRoleVendor]

	products, err := s.repo.CountActiveProducts(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count active products")
	}
	view.ActiveProducts = products

	return view, nil
}

func centsToAmount(cents int64) string {
	return decimal.NewFromInt(cents).Shift(-2).StringFixed(2)
}

func averageOrderValue(grossCents, completedOrders int64) string {
	if completedOrders == 0 {
		return decimal.Zero.StringFixed(2)
	}
	gross := decimal.NewFromInt(grossCents).Shift(-2)
	return gross.Div(decimal.NewFromInt(completedOrders)).Round(2).StringFixed(2)
}
