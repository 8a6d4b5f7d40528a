package auth

import (
	"github.com/georgemunganga/townkart-backend/internal/modules/user"
	"github.com/georgemunganga/townkart-backend/internal/platform/apperr"
)

// Action names a protected operation.
type Action string

const (
	ActionManageUsers        Action = "users:manage"
	ActionViewUserStats      Action = "users:stats"
	ActionManageCategories   Action = "categories:manage"
	ActionCreateProduct      Action = "products:create"
	ActionEditProduct        Action = "products:edit"
	ActionListOwnProducts    Action = "products:mine"
	ActionReviewProduct      Action = "products:review"
	ActionPlaceOrder         Action = "orders:place"
	ActionListMyOrders       Action = "orders:mine"
	ActionListBusinessOrders Action = "orders:business"
	ActionListAllOrders      Action = "orders:all"
	ActionViewOrder          Action = "orders:view"
	ActionUpdateOrderStatus  Action = "orders:status"
	ActionCancelOrder        Action = "orders:cancel"
	ActionUpdatePayment      Action = "orders:payment"
	ActionAdminOverview      Action = "reports:admin"
	ActionBusinessOverview   Action = "reports:business"
	ActionSeedCars           Action = "cars:seed"
	ActionCreateBooking      Action = "bookings:create"
	ActionManageBookings     Action = "bookings:manage"
)

var (
	customer = user.RoleCustomer
	business = user.RoleBusiness
	admin    = user.RoleAdmin
)

// Permissions lists the roles allowed to perform each action. Membership is
// exact: admin is not implied anywhere it is not listed.
var Permissions = map[Action][]user.Role{
	ActionManageUsers:        {admin},
	ActionViewUserStats:      {admin},
	ActionManageCategories:   {admin},
	ActionCreateProduct:      {business},
	ActionEditProduct:        {business, admin},
	ActionListOwnProducts:    {business},
	ActionReviewProduct:      {customer},
	ActionPlaceOrder:         {customer},
	ActionListMyOrders:       {customer},
	ActionListBusinessOrders: {business},
	ActionListAllOrders:      {admin},
	ActionViewOrder:          {customer, business, admin},
	ActionUpdateOrderStatus:  {business, admin},
	ActionCancelOrder:        {customer, admin},
	ActionUpdatePayment:      {business, admin},
	ActionAdminOverview:      {admin},
	ActionBusinessOverview:   {business},
	ActionSeedCars:           {admin},
	ActionCreateBooking:      {customer, business, admin},
	ActionManageBookings:     {admin},
}

// Authorize checks that u holds one of roles.
func Authorize(u *user.User, roles []user.Role) error {
	if u == nil {
		return apperr.Unauthenticated("Not authorized, token missing")
	}
	for _, r := range roles {
		if u.Role == r {
			return nil
		}
	}
	return apperr.Forbidden("Access denied for role: " + string(u.Role))
}

// Can checks u against the permission table. Unknown actions deny.
func Can(u *user.User, action Action) error {
	return Authorize(u, Permissions[action])
}
