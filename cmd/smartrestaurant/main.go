// Command smartrestaurant is the terminal client for the Smart
// Restaurant platform: customer ordering and tracking, the admin order
// board and menu management, and the rider delivery screen.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"smart-restaurant/api"
	"smart-restaurant/cart"
	"smart-restaurant/config"
	"smart-restaurant/poll"
	"smart-restaurant/session"
	"smart-restaurant/tui"
)

const usage = `usage: smartrestaurant <command> [flags]

Account:
  register    create an account (-name -email -phone -password -role)
  login       sign in (-email -password)
  logout      drop the stored session
  whoami      show the signed-in user

Customer:
  menu        list the menu
  order       place an order: smartrestaurant order 5x2 7
  orders      list your orders
  track       follow an order live (optional order id argument)

Admin:
  board       live order board
  menu-add    add a menu item (-name -price -category [-desc])
  menu-set    update a menu item (-id -name -price -category [-desc])
  menu-del    delete a menu item (-id)
  analytics   dashboard numbers

Rider:
  ride        delivery screen for your current order
  profile     show a rider profile (optional user id argument)
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	cfg := config.Load()
	store, err := session.DefaultStore()
	if err != nil {
		fatal(err)
	}
	app := &app{
		cfg:    cfg,
		store:  store,
		client: api.New(cfg.APIBaseURL),
	}

	cmd, args := os.Args[1], os.Args[2:]
	if err := app.dispatch(cmd, args); err != nil {
		fatal(err)
	}
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, "error:", err)
	os.Exit(1)
}

type app struct {
	cfg    config.Config
	store  *session.Store
	client *api.Client
}

func (a *app) dispatch(cmd string, args []string) error {
	switch cmd {
	case "register":
		return a.register(args)
	case "login":
		return a.login(args)
	case "logout":
		return a.store.Clear()
	case "whoami":
		return a.whoami()
	case "menu":
		return a.menu()
	case "order":
		return a.order(args)
	case "orders":
		return a.orders()
	case "track":
		return a.track(args)
	case "board":
		return a.board()
	case "menu-add":
		return a.menuAdd(args)
	case "menu-set":
		return a.menuSet(args)
	case "menu-del":
		return a.menuDel(args)
	case "analytics":
		return a.analytics()
	case "ride":
		return a.ride()
	case "profile":
		return a.riderProfile(args)
	case "help", "-h", "--help":
		fmt.Print(usage)
		return nil
	default:
		fmt.Fprint(os.Stderr, usage)
		return fmt.Errorf("unknown command %q", cmd)
	}
}

// signIn restores the stored session onto the client, or explains how
// to get one.
func (a *app) signIn() (session.Session, error) {
	sess, err := a.store.Load()
	if err != nil {
		return session.Session{}, fmt.Errorf("not signed in: run `smartrestaurant login` first")
	}
	a.client.SetToken(sess.Token)
	return sess, nil
}

func ctx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 30*time.Second)
}

// ── Account ─────────────────────────────────────────────────────────────────

func (a *app) register(args []string) error {
	fs := flag.NewFlagSet("register", flag.ExitOnError)
	name := fs.String("name", "", "full name")
	email := fs.String("email", "", "email address")
	phone := fs.String("phone", "", "phone number")
	password := fs.String("password", "", "password (min 6 chars)")
	role := fs.String("role", "customer", "customer, rider or admin")
	_ = fs.Parse(args)

	c, cancel := ctx()
	defer cancel()
	err := a.client.Register(c, api.RegisterRequest{
		Name:     *name,
		Email:    *email,
		Phone:    *phone,
		Password: *password,
		Role:     api.UserRole(*role),
	})
	if err != nil {
		return err
	}
	fmt.Println("Account created. Sign in with `smartrestaurant login`.")
	return nil
}

func (a *app) login(args []string) error {
	fs := flag.NewFlagSet("login", flag.ExitOnError)
	email := fs.String("email", "", "email address")
	password := fs.String("password", "", "password")
	_ = fs.Parse(args)

	c, cancel := ctx()
	defer cancel()
	resp, err := a.client.Login(c, *email, *password)
	if err != nil {
		return err
	}
	err = a.store.Save(session.Session{
		Token: resp.AccessToken,
		Role:  resp.Role,
		Name:  resp.Name,
		Email: *email,
	})
	if err != nil {
		return err
	}
	fmt.Printf("Signed in as %s (%s).\n", resp.Name, resp.Role)
	return nil
}

func (a *app) whoami() error {
	if _, err := a.signIn(); err != nil {
		return err
	}
	c, cancel := ctx()
	defer cancel()
	me, err := a.client.Me(c)
	if err != nil {
		return err
	}
	fmt.Printf("%s <%s> role %s\n", me.Name, me.Email, me.Role)
	return nil
}

// ── Customer ────────────────────────────────────────────────────────────────

func (a *app) menu() error {
	c, cancel := ctx()
	defer cancel()
	items, err := a.client.Menu(c)
	if err != nil {
		return err
	}
	if len(items) == 0 {
		fmt.Println("The menu is empty.")
		return nil
	}
	for _, item := range items {
		fmt.Printf("%4d  %-25s Rs %8.2f  %s\n", item.ItemID, item.Name, item.Price, item.CategoryName)
	}
	return nil
}

// parseOrderArgs reads "5x2 7" style arguments: item id, optionally
// with a quantity after an x.
func parseOrderArgs(args []string) (map[int]int, error) {
	picks := map[int]int{}
	for _, arg := range args {
		idStr, qtyStr, found := strings.Cut(arg, "x")
		qty := 1
		if found {
			q, err := strconv.Atoi(qtyStr)
			if err != nil || q < 1 {
				return nil, fmt.Errorf("bad quantity in %q", arg)
			}
			qty = q
		}
		id, err := strconv.Atoi(idStr)
		if err != nil {
			return nil, fmt.Errorf("bad item id in %q", arg)
		}
		picks[id] += qty
	}
	return picks, nil
}

func (a *app) order(args []string) error {
	if _, err := a.signIn(); err != nil {
		return err
	}
	picks, err := parseOrderArgs(args)
	if err != nil {
		return err
	}
	if len(picks) == 0 {
		return fmt.Errorf("nothing to order, usage: smartrestaurant order 5x2 7")
	}

	c, cancel := ctx()
	defer cancel()
	items, err := a.client.Menu(c)
	if err != nil {
		return err
	}
	byID := map[int]api.MenuItem{}
	for _, item := range items {
		byID[item.ItemID] = item
	}

	bag := cart.New()
	for id, qty := range picks {
		item, ok := byID[id]
		if !ok {
			return fmt.Errorf("item %d is not on the menu", id)
		}
		for i := 0; i < qty; i++ {
			bag.Add(item)
		}
	}

	for _, line := range bag.Lines() {
		fmt.Printf("  %-25s Rs %.2f × %d = Rs %.2f\n", line.Name, line.Price, line.Quantity, line.Price*float64(line.Quantity))
	}
	fmt.Printf("Total: Rs %.2f\n", bag.Total())

	order, err := a.client.CreateOrder(c, bag.Payload())
	if err != nil {
		return fmt.Errorf("failed to place order: %w", err)
	}
	bag.Clear()
	fmt.Printf("Order placed: %s (#%d)\n", order.OrderNumber, order.OrderID)
	fmt.Printf("Track it with: smartrestaurant track %d\n", order.OrderID)
	return nil
}

func (a *app) orders() error {
	if _, err := a.signIn(); err != nil {
		return err
	}
	c, cancel := ctx()
	defer cancel()
	orders, err := a.client.Orders(c)
	if err != nil {
		return err
	}
	if len(orders) == 0 {
		fmt.Println("No orders yet.")
		return nil
	}
	for _, o := range orders {
		fmt.Printf("%4d  %-12s %-10s Rs %8.2f  %s\n",
			o.OrderID, o.OrderNumber, o.Status, o.TotalAmount, o.CreatedAt.Local().Format("2006-01-02 15:04"))
	}
	return nil
}

func (a *app) track(args []string) error {
	if _, err := a.signIn(); err != nil {
		return err
	}

	var orderID int
	if len(args) > 0 {
		id, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("bad order id %q", args[0])
		}
		orderID = id
	} else {
		c, cancel := ctx()
		defer cancel()
		orders, err := a.client.Orders(c)
		if err != nil {
			return err
		}
		active := api.FindActiveOrder(orders)
		if active == nil {
			fmt.Println("No active order. Order something first.")
			return nil
		}
		orderID = active.OrderID
	}

	feed := poll.NewFeed(func(c context.Context) (api.Order, error) {
		return a.client.Order(c, orderID)
	}, a.cfg.TrackInterval)

	_, err := tea.NewProgram(tui.NewTracking(feed, orderID)).Run()
	return err
}

// ── Admin ───────────────────────────────────────────────────────────────────

func (a *app) board() error {
	if _, err := a.signIn(); err != nil {
		return err
	}
	feed := poll.NewFeed(func(c context.Context) ([]api.Order, error) {
		return a.client.Orders(c)
	}, a.cfg.BoardInterval)

	_, err := tea.NewProgram(tui.NewBoard(a.client, feed)).Run()
	return err
}

func (a *app) menuAdd(args []string) error {
	if _, err := a.signIn(); err != nil {
		return err
	}
	fs := flag.NewFlagSet("menu-add", flag.ExitOnError)
	name := fs.String("name", "", "item name")
	desc := fs.String("desc", "", "description")
	price := fs.Float64("price", 0, "price")
	category := fs.Int("category", 0, "category id")
	_ = fs.Parse(args)

	c, cancel := ctx()
	defer cancel()
	item, err := a.client.CreateMenuItem(c, api.MenuItem{
		Name:        *name,
		Description: *desc,
		Price:       *price,
		CategoryID:  *category,
	})
	if err != nil {
		return err
	}
	fmt.Printf("Added item %d: %s (Rs %.2f)\n", item.ItemID, item.Name, item.Price)
	return nil
}

func (a *app) menuSet(args []string) error {
	if _, err := a.signIn(); err != nil {
		return err
	}
	fs := flag.NewFlagSet("menu-set", flag.ExitOnError)
	id := fs.Int("id", 0, "item id")
	name := fs.String("name", "", "item name")
	desc := fs.String("desc", "", "description")
	price := fs.Float64("price", 0, "price")
	category := fs.Int("category", 0, "category id")
	_ = fs.Parse(args)

	c, cancel := ctx()
	defer cancel()
	item, err := a.client.UpdateMenuItem(c, *id, api.MenuItem{
		Name:        *name,
		Description: *desc,
		Price:       *price,
		CategoryID:  *category,
	})
	if err != nil {
		return err
	}
	fmt.Printf("Updated item %d: %s (Rs %.2f)\n", item.ItemID, item.Name, item.Price)
	return nil
}

func (a *app) menuDel(args []string) error {
	if _, err := a.signIn(); err != nil {
		return err
	}
	fs := flag.NewFlagSet("menu-del", flag.ExitOnError)
	id := fs.Int("id", 0, "item id")
	_ = fs.Parse(args)

	c, cancel := ctx()
	defer cancel()
	if err := a.client.DeleteMenuItem(c, *id); err != nil {
		return err
	}
	fmt.Printf("Deleted item %d.\n", *id)
	return nil
}

func (a *app) analytics() error {
	if _, err := a.signIn(); err != nil {
		return err
	}
	c, cancel := ctx()
	defer cancel()

	revenue, err := a.client.TotalRevenue(c)
	if err != nil {
		return err
	}
	orders, err := a.client.TotalOrders(c)
	if err != nil {
		return err
	}
	customers, err := a.client.TotalCustomers(c)
	if err != nil {
		return err
	}
	avgMinutes, err := a.client.AvgDeliveryTime(c)
	if err != nil {
		return err
	}

	fmt.Printf("Total revenue:      Rs %.2f\n", revenue)
	fmt.Printf("Total orders:       %d\n", orders)
	fmt.Printf("Total customers:    %d\n", customers)
	fmt.Printf("Avg delivery time:  %.1f min\n", avgMinutes)

	if daily, err := a.client.DailyRevenue(c); err == nil && len(daily) > 0 {
		fmt.Println("\nDaily revenue:")
		for _, d := range daily {
			fmt.Printf("  %s  Rs %.2f\n", d.Day, d.Revenue)
		}
	}
	if top, err := a.client.TopItems(c); err == nil && len(top) > 0 {
		fmt.Println("\nTop items:")
		for _, item := range top {
			fmt.Printf("  %-25s %d sold\n", item.Name, item.TotalSold)
		}
	}
	return nil
}

// ── Rider ───────────────────────────────────────────────────────────────────

// currentRiderOrder picks the order the rider screen should show: their
// own active assignment if any, otherwise the newest claimable order.
func currentRiderOrder(orders []api.Order, riderID int) *api.Order {
	var assigned []api.Order
	for _, o := range orders {
		if o.AssignedRiderID != nil && *o.AssignedRiderID == riderID {
			assigned = append(assigned, o)
		}
	}
	if active := api.FindActiveOrder(assigned); active != nil {
		return active
	}
	return api.FindActiveOrder(orders)
}

func (a *app) ride() error {
	if _, err := a.signIn(); err != nil {
		return err
	}
	c, cancel := ctx()
	defer cancel()
	me, err := a.client.Me(c)
	if err != nil {
		return err
	}
	orders, err := a.client.Orders(c)
	if err != nil {
		return err
	}
	current := currentRiderOrder(orders, me.UserID)
	if current == nil {
		fmt.Println("No orders waiting for a rider right now.")
		return nil
	}
	orderID := current.OrderID

	feed := poll.NewFeed(func(c context.Context) (api.Order, error) {
		return a.client.Order(c, orderID)
	}, a.cfg.TrackInterval)

	_, err = tea.NewProgram(tui.NewRider(a.client, feed)).Run()
	return err
}

func (a *app) riderProfile(args []string) error {
	if _, err := a.signIn(); err != nil {
		return err
	}

	c, cancel := ctx()
	defer cancel()

	var userID int
	if len(args) > 0 {
		id, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("bad user id %q", args[0])
		}
		userID = id
	} else {
		me, err := a.client.Me(c)
		if err != nil {
			return err
		}
		userID = me.UserID
	}

	profile, err := a.client.RiderProfile(c, userID)
	if err != nil {
		return err
	}
	fmt.Printf("%s  (%s)\n", profile.FullName, profile.VehicleDetails)
	fmt.Printf("Phone:    %s\n", profile.PhoneNumber)
	fmt.Printf("Rating:   %.1f\n", profile.Rating)
	fmt.Printf("Online:   %v\n", profile.IsOnline)
	fmt.Printf("Position: %.4f, %.4f\n", profile.CurrentLat, profile.CurrentLng)
	return nil
}
