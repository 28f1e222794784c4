// Command ricectl is a terminal client for the rice backend. Its session is
// kept in a JSON file, one slot per profile.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"ricepro-web/internal/api"
	"ricepro-web/internal/config"
	"ricepro-web/internal/models"
	"ricepro-web/internal/session"
	"ricepro-web/internal/validation"
	"ricepro-web/internal/views"
)

const usage = `usage: ricectl <command> [flags]

commands:
  signin       --username NAME [--password PASS]   (or RICECTL_PASSWORD)
  signout
  whoami
  inventory    [--period all|week|month]
  add-stock    --bags N --cost AMOUNT
  orders       [--status pending|delivered|cancelled] [--period all|week|month] [--customer ID]
  create-order --customer ID --kg QUANTITY
  set-status   --id ORDER --status delivered|cancelled
  customers    [--type individual|restaurant]
  sales        [--period day|week|month|all]
`

// errUsage is returned for unknown commands and bad flags
var errUsage = errors.New("invalid usage")

type app struct {
	out      io.Writer
	slot     *session.Slot
	client   *api.Client
	settings views.Settings
}

func main() {
	if err := run(context.Background(), os.Args[1:], os.Stdout); err != nil {
		if errors.Is(err, errUsage) {
			fmt.Fprint(os.Stderr, usage)
			os.Exit(2)
		}
		fmt.Fprintln(os.Stderr, "ricectl:", err)
		os.Exit(1)
	}
}

func sessionFile() string {
	if path := os.Getenv("RICECTL_SESSION_FILE"); path != "" {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".ricepro", "session.json")
	}
	return filepath.Join(home, ".ricepro", "session.json")
}

func profileName() string {
	if p := os.Getenv("RICECTL_PROFILE"); p != "" {
		return p
	}
	return "default"
}

func run(ctx context.Context, args []string, out io.Writer) error {
	if len(args) == 0 {
		return errUsage
	}

	cfg := config.Load()
	store, err := session.NewFileStore(sessionFile())
	if err != nil {
		return err
	}
	var sealer *session.Sealer
	if cfg.Session.EncryptionKey != "" {
		if sealer, err = session.NewSealer(cfg.Session.EncryptionKey); err != nil {
			return err
		}
	}
	slot := session.NewManager(store, sealer).Slot(profileName())

	a := &app{
		out:    out,
		slot:   slot,
		client: api.NewClient(cfg.API.BaseURL, cfg.API.Timeout, slot.Token),
		settings: views.NewSettings(cfg),
	}

	cmd, rest := args[0], args[1:]
	var cmdErr error
	switch cmd {
	case "signin":
		cmdErr = a.signin(ctx, rest)
	case "signout":
		cmdErr = a.signout(ctx)
	case "whoami":
		cmdErr = a.whoami(ctx)
	case "inventory":
		cmdErr = a.inventory(ctx, rest)
	case "add-stock":
		cmdErr = a.addStock(ctx, rest)
	case "orders":
		cmdErr = a.orders(ctx, rest)
	case "create-order":
		cmdErr = a.createOrder(ctx, rest)
	case "set-status":
		cmdErr = a.setStatus(ctx, rest)
	case "customers":
		cmdErr = a.customers(ctx, rest)
	case "sales":
		cmdErr = a.sales(ctx, rest)
	default:
		return errUsage
	}
	return a.finish(ctx, cmdErr)
}

// finish clears an expired session so the next command asks for sign-in
func (a *app) finish(ctx context.Context, err error) error {
	if err == nil || !api.IsUnauthorized(err) {
		return err
	}
	if lerr := a.slot.Logout(ctx); lerr != nil {
		return fmt.Errorf("%w (clearing session: %v)", err, lerr)
	}
	return fmt.Errorf("%s: session cleared, run ricectl signin", api.Message(err, "unauthorized"))
}

func newFlags(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	return fs
}

func parse(fs *flag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}
	return nil
}

func (a *app) requireSession(ctx context.Context) error {
	if !a.slot.IsAuthenticated(ctx) {
		return errors.New("not signed in, run ricectl signin")
	}
	return nil
}

func (a *app) signin(ctx context.Context, args []string) error {
	fs := newFlags("signin")
	username := fs.String("username", "", "username or email")
	password := fs.String("password", os.Getenv("RICECTL_PASSWORD"), "password")
	if err := parse(fs, args); err != nil {
		return err
	}

	req := models.SigninRequest{Username: strings.TrimSpace(*username), Password: *password}
	if err := validation.Signin(req); err != nil {
		return err
	}
	sess, err := a.client.WithTokens(nil).Auth().Signin(ctx, req)
	if err != nil {
		return errors.New(api.Message(err, "sign in failed"))
	}
	if err := a.slot.SetCurrentUser(ctx, *sess); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Signed in as %s\n", sess.User.Username)
	return nil
}

func (a *app) signout(ctx context.Context) error {
	if err := a.slot.Logout(ctx); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Signed out")
	return nil
}

func (a *app) whoami(ctx context.Context) error {
	sess, ok := a.slot.CurrentUser(ctx)
	if !ok {
		fmt.Fprintln(a.out, "Not signed in")
		return nil
	}
	fmt.Fprintf(a.out, "%s <%s>\n", sess.User.Username, sess.User.Email)
	return nil
}

// resultErr turns a failed page result into the command's error
func resultErr[T any](r views.Result[T]) error {
	if r.IsFailed() {
		if r.Err != nil && api.IsUnauthorized(r.Err) {
			return r.Err
		}
		return errors.New(r.Reason)
	}
	return nil
}

// actionErr prints the flash of a finished action and returns its error
func (a *app) actionErr(err error, flash views.Flash) error {
	if err != nil {
		if api.IsUnauthorized(err) {
			return err
		}
		if !flash.Empty() {
			return errors.New(flash.Message)
		}
		return err
	}
	if !flash.Empty() {
		fmt.Fprintln(a.out, flash.Message)
	}
	return nil
}

func (a *app) inventory(ctx context.Context, args []string) error {
	fs := newFlags("inventory")
	period := fs.String("period", string(models.PeriodAll), "history period")
	if err := parse(fs, args); err != nil {
		return err
	}
	if err := a.requireSession(ctx); err != nil {
		return err
	}

	result, _ := views.NewInventoryPage(a.client).Load(ctx, models.Period(*period))
	if err := resultErr(result); err != nil {
		return err
	}
	data := result.Data
	if s := data.Summary; s != nil {
		fmt.Fprintf(a.out, "Available: %s (%s)\n", views.Kg(s.AvailableKg), views.Stock(s.AvailableKg).Label())
		fmt.Fprintf(a.out, "Added: %d bags, %s  Sold: %s\n\n", s.TotalBagsAdded, views.Kg(s.TotalKgAdded), views.Kg(s.TotalSoldKg))
	}

	tw := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "ID\tDATE\tBAGS\tKG\tCOST/BAG\n")
	for _, rec := range data.History {
		fmt.Fprintf(tw, "%d\t%s\t%d\t%s\t%s\n", rec.ID, views.RecordDate(rec), rec.BagsAdded, views.Kg(rec.TotalKg), views.Currency(rec.CostPerBag))
	}
	return tw.Flush()
}

func (a *app) addStock(ctx context.Context, args []string) error {
	fs := newFlags("add-stock")
	bags := fs.Int("bags", 0, "number of bags")
	cost := fs.Float64("cost", a.settings.BagCost, "cost per bag")
	if err := parse(fs, args); err != nil {
		return err
	}
	if err := a.requireSession(ctx); err != nil {
		return err
	}

	page := views.NewInventoryPage(a.client)
	err := page.AddStock(ctx, models.InventoryRequest{Bags: *bags, CostPerBag: *cost})
	return a.actionErr(err, page.TakeFlash())
}

func (a *app) orders(ctx context.Context, args []string) error {
	fs := newFlags("orders")
	status := fs.String("status", "all", "delivery status")
	period := fs.String("period", string(models.PeriodAll), "order period")
	customer := fs.Int("customer", 0, "customer id")
	if err := parse(fs, args); err != nil {
		return err
	}
	if err := a.requireSession(ctx); err != nil {
		return err
	}

	filter := models.OrderFilter{
		Status:     models.OrderStatus(*status),
		Period:     models.Period(*period),
		CustomerID: *customer,
	}
	result, _ := views.NewOrdersPage(a.client, a.settings.OrderRules()).Load(ctx, filter)
	if err := resultErr(result); err != nil {
		return err
	}

	tw := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "ID\tCUSTOMER\tKG\tTOTAL\tSTATUS\tDATE\n")
	for _, o := range result.Data.Orders {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\n", o.ID, o.CustomerName, views.Kg(o.QuantityKg), views.Currency(o.TotalAmount), o.DeliveryStatus.Label(), views.Date(o.OrderDate))
	}
	return tw.Flush()
}

func (a *app) createOrder(ctx context.Context, args []string) error {
	fs := newFlags("create-order")
	customer := fs.Int("customer", 0, "customer id")
	kg := fs.Float64("kg", 0, "quantity in kg")
	if err := parse(fs, args); err != nil {
		return err
	}
	if err := a.requireSession(ctx); err != nil {
		return err
	}

	page := views.NewOrdersPage(a.client, a.settings.OrderRules())
	err := page.Create(ctx, models.OrderRequest{CustomerID: *customer, QuantityKg: *kg})
	return a.actionErr(err, page.TakeFlash())
}

func (a *app) setStatus(ctx context.Context, args []string) error {
	fs := newFlags("set-status")
	id := fs.Int("id", 0, "order id")
	status := fs.String("status", "", "delivered or cancelled")
	if err := parse(fs, args); err != nil {
		return err
	}
	if err := a.requireSession(ctx); err != nil {
		return err
	}

	page := views.NewOrdersPage(a.client, a.settings.OrderRules())
	err := page.SetStatus(ctx, *id, models.OrderStatus(*status))
	return a.actionErr(err, page.TakeFlash())
}

func (a *app) customers(ctx context.Context, args []string) error {
	fs := newFlags("customers")
	typ := fs.String("type", "all", "customer type")
	if err := parse(fs, args); err != nil {
		return err
	}
	if err := a.requireSession(ctx); err != nil {
		return err
	}

	result, _ := views.NewCustomersPage(a.client).Load(ctx, models.CustomerType(*typ))
	if err := resultErr(result); err != nil {
		return err
	}

	tw := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "ID\tNAME\tPHONE\tTYPE\n")
	for _, c := range result.Data.Customers {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", c.ID, c.Name, c.Phone, c.CustomerType.Label())
	}
	return tw.Flush()
}

func (a *app) sales(ctx context.Context, args []string) error {
	fs := newFlags("sales")
	period := fs.String("period", string(models.PeriodMonth), "report period")
	if err := parse(fs, args); err != nil {
		return err
	}
	if err := a.requireSession(ctx); err != nil {
		return err
	}

	p := views.ReportPeriod(models.Period(*period))
	report, err := a.client.Reports().Sales(ctx, p)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Period\t%s\n", p.Label())
	fmt.Fprintf(tw, "Orders\t%d\n", report.TotalOrders)
	fmt.Fprintf(tw, "Revenue\t%s\n", views.Currency(report.TotalRevenue))
	fmt.Fprintf(tw, "Sold\t%s\n", views.Kg(report.TotalKgSold))
	fmt.Fprintf(tw, "Cost\t%s\n", views.Currency(report.TotalCost))
	fmt.Fprintf(tw, "Profit\t%s\n", views.Currency(report.Profit))
	fmt.Fprintf(tw, "Restaurant\t%d orders, %s\n", report.RestaurantOrders, views.Currency(report.RestaurantRevenue))
	fmt.Fprintf(tw, "Individual\t%d orders, %s\n", report.IndividualOrders, views.Currency(report.IndividualRevenue))
	return tw.Flush()
}
