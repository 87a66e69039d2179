package echoServer

import (
	"net/http"

	"github.com/golang-jwt/jwt/v5"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"

	"github.com/alphaanurag-333/Etrymart-admin-sub001/app/echoServer/controller/order"
	"github.com/alphaanurag-333/Etrymart-admin-sub001/app/echoServer/controller/payment"
	"github.com/alphaanurag-333/Etrymart-admin-sub001/app/echoServer/controller/wallet"
	"github.com/alphaanurag-333/Etrymart-admin-sub001/app/echoServer/controller/withdrawal"
	"github.com/alphaanurag-333/Etrymart-admin-sub001/app/echoServer/jwtx"
)

type C struct {
	Order      *order.Controller
	Wallet     *wallet.Controller
	Withdrawal *withdrawal.Controller
	Payment    *payment.Controller
	JWTSecret  string
}

func Register(e *echo.Echo, c C) {
	// Public: payment collaborator webhook
	pub := e.Group("/v1")
	pub.POST("/payment/notify", c.Payment.HandleNotify)

	// Auth
	auth := e.Group("/v1")
	auth.Use(echojwt.WithConfig(echojwt.Config{
		SigningKey:    []byte(c.JWTSecret),
		NewClaimsFunc: func(c echo.Context) jwt.Claims { return jwt.MapClaims{} },
		TokenLookup:   "header:Authorization",
	}))
	// identity extraction: sub -> user_id, role -> role
	auth.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			uid, err := jwtx.UserIDFromContext(ctx)
			if err != nil {
				return ctx.JSON(http.StatusUnauthorized, echo.Map{"message": "unauthorized"})
			}
			role, err := jwtx.RoleFromContext(ctx)
			if err != nil {
				return ctx.JSON(http.StatusUnauthorized, echo.Map{"message": "unauthorized"})
			}
			ctx.Set("user_id", uid)
			ctx.Set("role", role)
			return next(ctx)
		}
	})

	// Orders
	auth.POST("/orders", c.Order.Create) // placement collaborator
	auth.GET("/orders/:id", c.Order.Get)

	// Seller wallet
	auth.GET("/wallet/balance", c.Wallet.Balance)
	auth.GET("/wallet/ledger", c.Wallet.Ledger)

	// Withdrawals
	auth.POST("/withdrawals", c.Withdrawal.Create)
	auth.GET("/withdrawals", c.Withdrawal.List)

	// Admin endpoints
	admin := auth.Group("", requireAdmin)
	admin.POST("/orders/:id/status", c.Order.SetStatus)
	admin.POST("/orders/:id/payment-status", c.Order.SetPaymentStatus)
	admin.POST("/withdrawals/:id/approve", c.Withdrawal.Approve)
	admin.POST("/withdrawals/:id/reject", c.Withdrawal.Reject)
	admin.POST("/wallet/adjust", c.Wallet.Adjust)
}

func requireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if role, _ := c.Get("role").(string); role != "admin" {
			return c.JSON(http.StatusForbidden, echo.Map{"message": "forbidden"})
		}
		return next(c)
	}
}
