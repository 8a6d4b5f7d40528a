package order

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/georgemunganga/townkart-backend/internal/modules/user"
	"github.com/georgemunganga/townkart-backend/internal/platform/apperr"
)

var (
	shop   = &user.User{ID: uuid.New(), Name: "Asha Stores", Role: user.RoleBusiness}
	rival  = &user.User{ID: uuid.New(), Name: "Rival", Role: user.RoleBusiness}
	admin  = &user.User{ID: uuid.New(), Name: "Admin", Role: user.RoleAdmin}
	buyer  = &user.User{ID: uuid.New(), Name: "Buyer", Email: "buyer@townkart.test", Role: user.RoleCustomer}
	buyer2 = &user.User{ID: uuid.New(), Name: "Buyer Two", Role: user.RoleCustomer}
)

func dec(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func address() *ShippingAddress {
	return &ShippingAddress{
		FullName: "Buyer", Street: "12 MG Road", City: "Pune",
		State: "MH", ZipCode: "411001", Phone: "9999999999",
	}
}

type fixture struct {
	repo   *memoryRepo
	svc    Service
	kettle ProductSnapshot
	mug    ProductSnapshot
}

func newFixture() *fixture {
	repo := newMemoryRepo()
	return &fixture{
		repo: repo,
		svc:  NewService(repo),
		kettle: repo.addProduct(ProductSnapshot{
			Title: "Kettle", Price: decimal.RequireFromString("499.50"), BusinessOwnerID: shop.ID, IsActive: true,
		}),
		mug: repo.addProduct(ProductSnapshot{
			Title: "Mug", Price: decimal.RequireFromString("120"), BusinessOwnerID: rival.ID, IsActive: true,
		}),
	}
}

func (f *fixture) place(t *testing.T, customer *user.User) *Order {
	t.Helper()
	o, err := f.svc.PlaceOrder(context.Background(), customer, PlaceOrderRequest{
		Items:           []CartItem{{ProductID: f.kettle.ID.String(), Quantity: 2}},
		ShippingAddress: address(),
	})
	require.NoError(t, err)
	return o
}

func TestPlaceOrderSnapshotsCatalog(t *testing.T) {
	f := newFixture()
	o, err := f.svc.PlaceOrder(context.Background(), buyer, PlaceOrderRequest{
		Items: []CartItem{
			{ProductID: f.kettle.ID.String(), Quantity: 2},
			{ProductID: f.mug.ID.String(), Quantity: 1},
		},
		ShippingAddress: address(),
		Pricing:         &PricingInput{ShippingCost: dec("40"), Tax: dec("10.10"), Discount: dec("5")},
	})
	require.NoError(t, err)

	assert.Equal(t, StatusPending, o.Status)
	assert.Empty(t, o.StatusHistory)
	assert.Equal(t, "India", o.Shipping.Country)
	assert.Equal(t, PaymentCashOnDelivery, o.Payment.Method)
	assert.Equal(t, PaymentPending, o.Payment.Status)
	assert.Regexp(t, regexp.MustCompile(`^TK\d{11}$`), o.OrderNumber)

	require.Len(t, o.Items, 2)
	assert.Equal(t, shop.ID, o.Items[0].BusinessOwnerID)
	assert.Equal(t, rival.ID, o.Items[1].BusinessOwnerID)
	assert.Equal(t, "Kettle", o.Items[0].Title)

	assert.Equal(t, "1119", o.Pricing.Subtotal.String())
	assert.Equal(t, "1164.1", o.Pricing.Total.String())
	assert.True(t, o.Pricing.Balanced())

	assert.Equal(t, 2, f.repo.sales[f.kettle.ID])
	assert.Equal(t, 1, f.repo.sales[f.mug.ID])
}

func TestPlaceOrderIgnoresLaterCatalogChanges(t *testing.T) {
	f := newFixture()
	o := f.place(t, buyer)

	f.kettle.Price = decimal.NewFromInt(1)
	f.repo.addProduct(f.kettle)

	stored, err := f.svc.GetOrder(context.Background(), buyer, o.ID.String())
	require.NoError(t, err)
	assert.Equal(t, "499.5", stored.Items[0].UnitPrice.String())
}

func TestPlaceOrderRejectsBadProducts(t *testing.T) {
	f := newFixture()
	inactive := f.repo.addProduct(ProductSnapshot{Title: "Old", Price: decimal.NewFromInt(5), BusinessOwnerID: shop.ID})

	cases := map[string]string{
		"malformed id": "not-a-uuid",
		"unknown id":   uuid.NewString(),
		"inactive":     inactive.ID.String(),
	}
	for name, id := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := f.svc.PlaceOrder(context.Background(), buyer, PlaceOrderRequest{
				Items: []CartItem{
					{ProductID: f.kettle.ID.String(), Quantity: 1},
					{ProductID: id, Quantity: 1},
				},
				ShippingAddress: address(),
			})
			assert.ErrorIs(t, err, apperr.ErrValidation)
		})
	}
	assert.Equal(t, 0, f.repo.count())
	assert.Zero(t, f.repo.sales[f.kettle.ID])
}

func TestPlaceOrderValidation(t *testing.T) {
	f := newFixture()

	_, err := f.svc.PlaceOrder(context.Background(), buyer, PlaceOrderRequest{ShippingAddress: address()})
	require.ErrorIs(t, err, apperr.ErrValidation)
	e, _ := apperr.As(err)
	assert.Contains(t, e.Fields, "items")

	_, err = f.svc.PlaceOrder(context.Background(), buyer, PlaceOrderRequest{
		Items: []CartItem{{ProductID: f.kettle.ID.String(), Quantity: 0}},
	})
	require.ErrorIs(t, err, apperr.ErrValidation)
	e, _ = apperr.As(err)
	assert.Contains(t, e.Fields, "items[0].quantity")
	assert.Contains(t, e.Fields, "shippingAddress")
}

func TestPlaceOrderPricingChecks(t *testing.T) {
	f := newFixture()
	cases := map[string]struct {
		pricing *PricingInput
		field   string
	}{
		"total mismatch":    {&PricingInput{ShippingCost: dec("10"), Total: dec("999")}, "pricing.total"},
		"subtotal mismatch": {&PricingInput{Subtotal: dec("1")}, "pricing.subtotal"},
		"negative tax":      {&PricingInput{Tax: dec("-1")}, "pricing.tax"},
		"discount too big":  {&PricingInput{Discount: dec("5000")}, "pricing.discount"},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := f.svc.PlaceOrder(context.Background(), buyer, PlaceOrderRequest{
				Items:           []CartItem{{ProductID: f.kettle.ID.String(), Quantity: 1}},
				ShippingAddress: address(),
				Pricing:         tc.pricing,
			})
			require.ErrorIs(t, err, apperr.ErrValidation)
			e, _ := apperr.As(err)
			assert.Contains(t, e.Fields, tc.field)
		})
	}

	o, err := f.svc.PlaceOrder(context.Background(), buyer, PlaceOrderRequest{
		Items:           []CartItem{{ProductID: f.kettle.ID.String(), Quantity: 1}},
		ShippingAddress: address(),
		Pricing:         &PricingInput{Subtotal: dec("499.50"), ShippingCost: dec("0.5"), Total: dec("500")},
	})
	require.NoError(t, err)
	assert.Equal(t, "500", o.Pricing.Total.String())
}

func TestPlaceOrderRetriesOrderNumberCollision(t *testing.T) {
	f := newFixture()
	f.repo.collisions = 2
	f.place(t, buyer)
	assert.Equal(t, 1, f.repo.count())

	f.repo.collisions = 3
	_, err := f.svc.PlaceOrder(context.Background(), buyer, PlaceOrderRequest{
		Items:           []CartItem{{ProductID: f.kettle.ID.String(), Quantity: 1}},
		ShippingAddress: address(),
	})
	assert.ErrorIs(t, err, ErrDuplicateOrderNumber)
}

func TestPlaceOrderSurfacesStoreFailure(t *testing.T) {
	f := newFixture()
	f.repo.createErr = errors.New("connection reset")
	_, err := f.svc.PlaceOrder(context.Background(), buyer, PlaceOrderRequest{
		Items:           []CartItem{{ProductID: f.kettle.ID.String(), Quantity: 1}},
		ShippingAddress: address(),
	})
	require.Error(t, err)
	assert.Equal(t, apperr.CodeInternal, apperr.CodeOf(err))
}

func TestGenerateOrderNumber(t *testing.T) {
	now := time.UnixMilli(1_700_000_123_456)
	n := generateOrderNumber(now)
	assert.Regexp(t, `^TK123456\d{5}$`, n)
}

func TestGetOrderAccess(t *testing.T) {
	f := newFixture()
	o := f.place(t, buyer)
	ctx := context.Background()

	for _, u := range []*user.User{buyer, shop, admin} {
		_, err := f.svc.GetOrder(ctx, u, o.ID.String())
		assert.NoError(t, err, u.Name)
	}
	for _, u := range []*user.User{buyer2, rival} {
		_, err := f.svc.GetOrder(ctx, u, o.ID.String())
		assert.ErrorIs(t, err, apperr.ErrForbidden, u.Name)
	}
	_, err := f.svc.GetOrder(ctx, admin, "nope")
	assert.ErrorIs(t, err, apperr.ErrNotFound)
	_, err = f.svc.GetOrder(ctx, admin, uuid.NewString())
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestListings(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	f.place(t, buyer)
	f.place(t, buyer)
	f.place(t, buyer2)

	mine, err := f.svc.ListMyOrders(ctx, buyer)
	require.NoError(t, err)
	assert.Len(t, mine, 2)

	shopOrders, err := f.svc.ListBusinessOrders(ctx, shop)
	require.NoError(t, err)
	assert.Len(t, shopOrders, 3)

	rivalOrders, err := f.svc.ListBusinessOrders(ctx, rival)
	require.NoError(t, err)
	assert.Empty(t, rivalOrders)

	page, err := f.svc.ListOrders(ctx, 2, 2)
	require.NoError(t, err)
	assert.Equal(t, 3, page.Total)
	assert.Equal(t, 2, page.Pages)
	assert.Len(t, page.Orders, 1)
}

func TestUpdateStatus(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	o := f.place(t, buyer)

	_, err := f.svc.UpdateStatus(ctx, shop, o.ID.String(), UpdateStatusRequest{Status: "teleported"})
	assert.ErrorIs(t, err, apperr.ErrValidation)

	_, err = f.svc.UpdateStatus(ctx, rival, o.ID.String(), UpdateStatusRequest{Status: StatusShipped})
	assert.ErrorIs(t, err, apperr.ErrForbidden)

	updated, err := f.svc.UpdateStatus(ctx, shop, o.ID.String(), UpdateStatusRequest{Status: StatusShipped, Note: "courier"})
	require.NoError(t, err)
	assert.Equal(t, StatusShipped, updated.Status)

	_, err = f.svc.UpdateStatus(ctx, admin, o.ID.String(), UpdateStatusRequest{Status: StatusShipped})
	require.NoError(t, err)

	// backward moves are accepted
	_, err = f.svc.UpdateStatus(ctx, admin, o.ID.String(), UpdateStatusRequest{Status: StatusConfirmed})
	require.NoError(t, err)

	stored, err := f.svc.GetOrder(ctx, admin, o.ID.String())
	require.NoError(t, err)
	require.Len(t, stored.StatusHistory, 2)
	assert.Equal(t, StatusShipped, stored.StatusHistory[0].Status)
	assert.Equal(t, "courier", stored.StatusHistory[0].Note)
	assert.Equal(t, shop.ID, *stored.StatusHistory[0].UpdatedBy)
	assert.Equal(t, StatusConfirmed, stored.Status)
}

func TestCancelOrder(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	o := f.place(t, buyer)

	_, err := f.svc.CancelOrder(ctx, buyer2, o.ID.String(), CancelRequest{})
	assert.ErrorIs(t, err, apperr.ErrForbidden)

	cancelled, err := f.svc.CancelOrder(ctx, buyer, o.ID.String(), CancelRequest{Reason: " changed my mind "})
	require.NoError(t, err)
	assert.Equal(t, StatusCancelled, cancelled.Status)
	require.NotNil(t, cancelled.Cancellation)
	assert.Equal(t, "changed my mind", cancelled.Cancellation.Reason)
	assert.Equal(t, buyer.ID, cancelled.Cancellation.CancelledBy)
	assert.Equal(t, RefundStatusPending, cancelled.Cancellation.RefundStatus)

	stored, err := f.svc.GetOrder(ctx, admin, o.ID.String())
	require.NoError(t, err)
	require.Len(t, stored.StatusHistory, 1)
	assert.Equal(t, StatusCancelled, stored.StatusHistory[0].Status)
}

func TestCancelOrderRejectedOutsidePendingOrConfirmed(t *testing.T) {
	ctx := context.Background()
	for _, status := range []Status{StatusProcessing, StatusShipped, StatusDelivered, StatusCancelled, StatusReturned} {
		t.Run(string(status), func(t *testing.T) {
			f := newFixture()
			o := f.place(t, buyer)
			_, err := f.svc.UpdateStatus(ctx, admin, o.ID.String(), UpdateStatusRequest{Status: status})
			require.NoError(t, err)

			_, err = f.svc.CancelOrder(ctx, admin, o.ID.String(), CancelRequest{})
			assert.ErrorIs(t, err, apperr.ErrValidation)

			stored, err := f.svc.GetOrder(ctx, admin, o.ID.String())
			require.NoError(t, err)
			assert.Equal(t, status, stored.Status)
		})
	}
}

func TestCancelOrderFromConfirmedByAdmin(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	o := f.place(t, buyer)
	_, err := f.svc.UpdateStatus(ctx, shop, o.ID.String(), UpdateStatusRequest{Status: StatusConfirmed})
	require.NoError(t, err)

	cancelled, err := f.svc.CancelOrder(ctx, admin, o.ID.String(), CancelRequest{})
	require.NoError(t, err)
	assert.Equal(t, admin.ID, cancelled.Cancellation.CancelledBy)
}

func TestUpdatePayment(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	o := f.place(t, buyer)

	_, err := f.svc.UpdatePayment(ctx, shop, o.ID.String(), UpdatePaymentRequest{Status: "maybe"})
	assert.ErrorIs(t, err, apperr.ErrValidation)

	_, err = f.svc.UpdatePayment(ctx, rival, o.ID.String(), UpdatePaymentRequest{Status: PaymentCompleted})
	assert.ErrorIs(t, err, apperr.ErrForbidden)

	paid, err := f.svc.UpdatePayment(ctx, shop, o.ID.String(), UpdatePaymentRequest{Status: PaymentCompleted, TransactionID: "txn_1"})
	require.NoError(t, err)
	assert.Equal(t, PaymentCompleted, paid.Payment.Status)
	assert.Equal(t, "txn_1", paid.Payment.TransactionID)
	assert.NotNil(t, paid.Payment.PaidAt)

	failed, err := f.svc.UpdatePayment(ctx, admin, o.ID.String(), UpdatePaymentRequest{Status: PaymentFailed})
	require.NoError(t, err)
	assert.Equal(t, "txn_1", failed.Payment.TransactionID)
}

func TestStoredOrdersKeepTotalIdentity(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	inputs := []*PricingInput{
		nil,
		{ShippingCost: dec("49")},
		{Tax: dec("89.91"), Discount: dec("100")},
		{ShippingCost: dec("0.01"), Tax: dec("0.02"), Discount: dec("0.03")},
	}
	for _, in := range inputs {
		_, err := f.svc.PlaceOrder(ctx, buyer, PlaceOrderRequest{
			Items: []CartItem{
				{ProductID: f.kettle.ID.String(), Quantity: 3},
				{ProductID: f.mug.ID.String(), Quantity: 2},
			},
			ShippingAddress: address(),
			Pricing:         in,
		})
		require.NoError(t, err)
	}

	all, err := f.svc.ListOrders(ctx, 1, 100)
	require.NoError(t, err)
	require.Len(t, all.Orders, len(inputs))
	for _, o := range all.Orders {
		assert.True(t, o.Pricing.Balanced(), o.OrderNumber)
	}
}
