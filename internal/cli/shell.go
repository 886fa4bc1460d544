package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/keylab/storefront/internal/adapter/api"
	"github.com/keylab/storefront/internal/app"
	domainErrors "github.com/keylab/storefront/internal/domain/errors"
	"github.com/keylab/storefront/internal/domain/model"
)

// Shell is the interactive view layer: it renders store state, issues
// commands, and owns no durable state of its own.
type Shell struct {
	facade    *app.StorefrontFacade
	pageLimit int
	in        io.Reader
	out       io.Writer
}

// NewShell creates a shell reading commands from in and rendering to out.
func NewShell(facade *app.StorefrontFacade, pageLimit int, in io.Reader, out io.Writer) *Shell {
	return &Shell{facade: facade, pageLimit: pageLimit, in: in, out: out}
}

// Run processes commands until EOF, "quit", or context cancellation.
func (s *Shell) Run(ctx context.Context) error {
	scanner := bufio.NewScanner(s.in)
	fmt.Fprintln(s.out, `storefront client — type "help" for commands`)

	for {
		fmt.Fprint(s.out, s.prompt())
		if !scanner.Scan() {
			return scanner.Err()
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}

		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		if fields[0] == "quit" || fields[0] == "exit" {
			return nil
		}
		if err := s.dispatch(ctx, fields[0], fields[1:]); err != nil {
			s.renderError(err)
		}
	}
}

func (s *Shell) prompt() string {
	if identity := s.facade.Identity(); identity != nil {
		return identity.Email + "> "
	}
	return "guest> "
}

func (s *Shell) renderError(err error) {
	switch {
	case errors.Is(err, domainErrors.ErrAuthRejected):
		fmt.Fprintln(s.out, "session expired, please log in again")
	case errors.Is(err, domainErrors.ErrNotFound):
		fmt.Fprintln(s.out, "not found")
	default:
		fmt.Fprintf(s.out, "error: %v\n", err)
	}
}

func (s *Shell) dispatch(ctx context.Context, cmd string, args []string) error {
	switch cmd {
	case "help":
		s.printHelp()
		return nil
	case "login":
		if len(args) != 2 {
			return usageError("login <email> <password>")
		}
		identity, err := s.facade.Login(ctx, args[0], args[1])
		if err != nil {
			return err
		}
		fmt.Fprintf(s.out, "welcome back, %s\n", identity.Name)
		return nil
	case "signup":
		if len(args) != 3 {
			return usageError("signup <name> <email> <password>")
		}
		identity, err := s.facade.Signup(ctx, args[0], args[1], args[2])
		if err != nil {
			return err
		}
		fmt.Fprintf(s.out, "welcome, %s\n", identity.Name)
		return nil
	case "logout":
		s.facade.Logout()
		fmt.Fprintln(s.out, "logged out")
		return nil
	case "whoami":
		identity := s.facade.Identity()
		if identity == nil {
			fmt.Fprintln(s.out, "not logged in")
			return nil
		}
		fmt.Fprintf(s.out, "%s <%s> admin=%v\n", identity.Name, identity.Email, identity.IsAdmin)
		return nil
	case "profile":
		return s.cmdProfile(ctx, args)
	case "search":
		return s.cmdSearch(ctx, args)
	case "product":
		if len(args) != 1 {
			return usageError("product <id>")
		}
		product, err := s.facade.Product(ctx, args[0])
		if err != nil {
			return err
		}
		fmt.Fprintf(s.out, "%s  %s  %.2f  in_stock=%v  %s\n", product.ID, product.Name, product.Price, product.InStock, product.Category)
		return nil
	case "categories":
		categories, err := s.facade.Categories(ctx)
		if err != nil {
			return err
		}
		for _, category := range categories {
			fmt.Fprintln(s.out, category)
		}
		return nil
	case "cart":
		if err := s.facade.LoadCart(ctx); err != nil {
			return err
		}
		s.renderCart()
		return nil
	case "add":
		return s.cmdAdd(ctx, args)
	case "set":
		return s.cmdSet(ctx, args)
	case "rm":
		if len(args) != 1 {
			return usageError("rm <product-id>")
		}
		if err := s.facade.RemoveItem(ctx, args[0]); err != nil {
			return err
		}
		s.renderCart()
		return nil
	case "clear":
		if err := s.facade.ClearCart(ctx); err != nil {
			return err
		}
		fmt.Fprintln(s.out, "cart cleared")
		return nil
	case "checkout":
		order, err := s.facade.Checkout(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintf(s.out, "order %s placed, total %.2f\n", order.ID, order.TotalPrice)
		return nil
	case "orders":
		orders, err := s.facade.Orders(ctx)
		if err != nil {
			return err
		}
		for _, order := range orders {
			fmt.Fprintf(s.out, "%s  %s  %.2f  %s\n", order.ID, order.Status, order.TotalPrice, order.CreatedAt.Format("2006-01-02 15:04"))
		}
		return nil
	case "order":
		if len(args) != 1 {
			return usageError("order <id>")
		}
		order, err := s.facade.Order(ctx, args[0])
		if err != nil {
			return err
		}
		fmt.Fprintf(s.out, "order %s  %s  total %.2f\n", order.ID, order.Status, order.TotalPrice)
		for _, item := range order.Items {
			fmt.Fprintf(s.out, "  %s x%d @ %.2f\n", item.ProductID, item.Quantity, item.PriceAtPurchase)
		}
		return nil
	case "order-status":
		if len(args) != 2 {
			return usageError("order-status <id> <pending|shipped|delivered|cancelled>")
		}
		order, err := s.facade.UpdateOrderStatus(ctx, args[0], model.OrderStatus(args[1]))
		if err != nil {
			return err
		}
		fmt.Fprintf(s.out, "order %s is now %s\n", order.ID, order.Status)
		return nil
	case "watch":
		unsubscribe := s.facade.SubscribeLive(func(event model.LiveEvent) {
			fmt.Fprintf(s.out, "\n[live] order %s is now %s\n", event.OrderID, event.Status)
		})
		_ = unsubscribe // stays subscribed for the session
		fmt.Fprintln(s.out, "watching order updates")
		return nil
	case "admin-stats":
		stats, err := s.facade.AdminStats(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintf(s.out, "users=%d products=%d orders=%d\n", stats.TotalUsers, stats.TotalProducts, stats.TotalOrders)
		for status, count := range stats.OrdersByStatus {
			fmt.Fprintf(s.out, "  %s: %d\n", status, count)
		}
		return nil
	case "admin-users":
		q := ""
		if len(args) > 0 {
			q = args[0]
		}
		users, err := s.facade.AdminUsers(ctx, q, 1, s.pageLimit)
		if err != nil {
			return err
		}
		for _, u := range users {
			fmt.Fprintf(s.out, "%s  %s <%s> admin=%v\n", u.ID, u.Name, u.Email, u.IsAdmin)
		}
		return nil
	case "promote", "demote":
		if len(args) != 1 {
			return usageError(cmd + " <user-id>")
		}
		identity, err := s.facade.SetUserRole(ctx, args[0], cmd == "promote")
		if err != nil {
			return err
		}
		fmt.Fprintf(s.out, "%s admin=%v\n", identity.Email, identity.IsAdmin)
		return nil
	case "admin-orders":
		orders, err := s.facade.AdminOrders(ctx)
		if err != nil {
			return err
		}
		for _, order := range orders {
			fmt.Fprintf(s.out, "%s  %s  %s  %.2f\n", order.ID, order.UserEmail, order.Status, order.TotalPrice)
		}
		return nil
	default:
		return usageError("unknown command, try \"help\"")
	}
}

func (s *Shell) cmdProfile(ctx context.Context, args []string) error {
	if len(args) != 2 || (args[0] != "name" && args[0] != "password") {
		return usageError("profile <name|password> <value>")
	}
	var update api.UserUpdate
	if args[0] == "name" {
		update.Name = &args[1]
	} else {
		update.Password = &args[1]
	}
	identity, err := s.facade.UpdateProfile(ctx, update)
	if err != nil {
		return err
	}
	fmt.Fprintf(s.out, "profile updated: %s <%s>\n", identity.Name, identity.Email)
	return nil
}

func (s *Shell) cmdSearch(ctx context.Context, args []string) error {
	filter := model.ProductFilter{Limit: s.pageLimit}
	if len(args) > 0 {
		filter.Query = strings.Join(args, " ")
	}
	products, err := s.facade.SearchProducts(ctx, filter)
	if err != nil {
		return err
	}
	if len(products) == 0 {
		fmt.Fprintln(s.out, "no products found")
		return nil
	}
	for _, p := range products {
		fmt.Fprintf(s.out, "%s  %s  %.2f  in_stock=%v\n", p.ID, p.Name, p.Price, p.InStock)
	}
	return nil
}

func (s *Shell) cmdAdd(ctx context.Context, args []string) error {
	if len(args) < 1 || len(args) > 2 {
		return usageError("add <product-id> [quantity]")
	}
	quantity := 1
	if len(args) == 2 {
		n, err := strconv.Atoi(args[1])
		if err != nil {
			return usageError("quantity must be an integer")
		}
		quantity = n
	}
	if err := s.facade.AddItem(ctx, args[0], quantity); err != nil {
		return err
	}
	s.renderCart()
	return nil
}

func (s *Shell) cmdSet(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return usageError("set <product-id> <quantity>")
	}
	quantity, err := strconv.Atoi(args[1])
	if err != nil {
		return usageError("quantity must be an integer")
	}
	if err := s.facade.SetQuantity(ctx, args[0], quantity); err != nil {
		return err
	}
	s.renderCart()
	return nil
}

func (s *Shell) renderCart() {
	lines := s.facade.CartLines()
	if len(lines) == 0 {
		fmt.Fprintln(s.out, "cart is empty")
		return
	}
	for _, line := range lines {
		if line.Resolved() {
			fmt.Fprintf(s.out, "%s  %s x%d  %.2f\n", line.ProductID, line.Snapshot.Name, line.Quantity, line.Subtotal())
		} else {
			fmt.Fprintf(s.out, "%s  (unresolved) x%d\n", line.ProductID, line.Quantity)
		}
	}
	fmt.Fprintf(s.out, "total: %.2f\n", s.facade.CartTotal())
}

func (s *Shell) printHelp() {
	fmt.Fprintln(s.out, `session:  login signup logout whoami profile
catalog:  search product categories
cart:     cart add set rm clear checkout
orders:   orders order watch
admin:    admin-stats admin-users promote demote admin-orders order-status
other:    help quit`)
}

func usageError(usage string) error {
	return fmt.Errorf("usage: %s", usage)
}
