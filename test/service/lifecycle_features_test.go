package service_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/makpal80/avtoray/internal/models"
	"github.com/makpal80/avtoray/internal/service"

	"github.com/cucumber/godog"
	"go.uber.org/zap"
)

type lifecycleTestContext struct {
	store   *memStore
	loyalty service.LoyaltyPolicy
	user    *models.User
	product models.Product
	order   *models.Order
	err     error
}

func (c *lifecycleTestContext) reset() {
	c.store = newMemStore()
	c.loyalty = nil
	c.user = nil
	c.order = nil
	c.err = nil
	c.product = c.store.addProduct(models.Product{Name: "Фильтр", Price: 5000, Active: true})
}

func (c *lifecycleTestContext) svc() service.OrderService {
	return service.NewOrderService(c.store.repository(), c.loyalty, &MockEventBus{}, zap.NewNop())
}

func (c *lifecycleTestContext) aCustomerWithDiscountAndApprovedOrders(pct, approved int) error {
	c.user = c.store.addUser(models.User{
		Phone:           fmt.Sprintf("7701%07d", len(c.store.users)),
		Name:            "Айдар",
		DiscountPercent: pct,
		OrdersCount:     approved,
	})
	return nil
}

func (c *lifecycleTestContext) loyaltyTiers(spec string) error {
	p, err := service.ParseTiers(spec)
	if err != nil {
		return err
	}
	c.loyalty = p
	return nil
}

func (c *lifecycleTestContext) theCustomerHasSubmittedAnOrder() error {
	if c.user == nil {
		return errors.New("no customer")
	}
	o, err := c.svc().Submit(customerCtx(c.user.ID), service.SubmitOrderInput{
		Items:         []service.OrderItemInput{{ProductID: c.product.ID, Quantity: 1}},
		PaymentMethod: models.PaymentCash,
	})
	if err != nil {
		return err
	}
	c.order = o
	return nil
}

func (c *lifecycleTestContext) decide(ctx context.Context, approve bool) error {
	if approve {
		_, c.err = c.svc().Approve(ctx, c.order.ID)
	} else {
		_, c.err = c.svc().Reject(ctx, c.order.ID)
	}
	return nil
}

func (c *lifecycleTestContext) theAdminApprovesTheOrder() error {
	return c.decide(adminCtx(), true)
}

func (c *lifecycleTestContext) theAdminRejectsTheOrder() error {
	return c.decide(adminCtx(), false)
}

func (c *lifecycleTestContext) theCustomerApprovesTheOrder() error {
	return c.decide(customerCtx(c.user.ID), true)
}

func (c *lifecycleTestContext) theOrderStatusIs(status string) error {
	o, err := c.svc().GetOrder(adminCtx(), c.order.ID)
	if err != nil {
		return err
	}
	if string(o.Status) != status {
		return fmt.Errorf("expected status %q, got %q", status, o.Status)
	}
	return nil
}

func (c *lifecycleTestContext) theCustomerHasApprovedOrders(n int) error {
	if got := c.store.user(c.user.ID).OrdersCount; got != n {
		return fmt.Errorf("expected %d approved orders, got %d", n, got)
	}
	return nil
}

func (c *lifecycleTestContext) theCustomerDiscountIs(pct int) error {
	if got := c.store.user(c.user.ID).DiscountPercent; got != pct {
		return fmt.Errorf("expected discount %d%%, got %d%%", pct, got)
	}
	return nil
}

func (c *lifecycleTestContext) theTransitionFailsWith(msg string) error {
	if c.err == nil {
		return errors.New("expected transition error, got none")
	}
	if !strings.Contains(c.err.Error(), msg) {
		return fmt.Errorf("expected error containing %q, got %q", msg, c.err.Error())
	}
	return nil
}

func initializeLifecycleScenario(ctx *godog.ScenarioContext) {
	tc := &lifecycleTestContext{}

	ctx.Before(func(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
		tc.reset()
		return ctx, nil
	})

	ctx.Step(`^a customer with discount (\d+)% and (\d+) approved orders$`, tc.aCustomerWithDiscountAndApprovedOrders)
	ctx.Step(`^loyalty tiers "([^"]*)"$`, tc.loyaltyTiers)
	ctx.Step(`^the customer has submitted an order$`, tc.theCustomerHasSubmittedAnOrder)

	ctx.Step(`^the admin approves the order$`, tc.theAdminApprovesTheOrder)
	ctx.Step(`^the admin rejects the order$`, tc.theAdminRejectsTheOrder)
	ctx.Step(`^the customer approves the order$`, tc.theCustomerApprovesTheOrder)

	ctx.Step(`^the order status is "([^"]*)"$`, tc.theOrderStatusIs)
	ctx.Step(`^the customer has (\d+) approved orders?$`, tc.theCustomerHasApprovedOrders)
	ctx.Step(`^the customer discount is (\d+)%$`, tc.theCustomerDiscountIs)
	ctx.Step(`^the transition fails with "([^"]*)"$`, tc.theTransitionFailsWith)
}

func TestLifecycleFeatures(t *testing.T) {
	suite := godog.TestSuite{
		ScenarioInitializer: initializeLifecycleScenario,
		Options: &godog.Options{
			Format:   "pretty",
			Paths:    []string{"../../features/order_lifecycle.feature"},
			TestingT: t,
		},
	}
	if suite.Run() != 0 {
		t.Fatal("non-zero status returned, failed to run feature tests")
	}
}
