package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"onlinestore/internal/client"
	"onlinestore/internal/client/store"

	"github.com/labstack/gommon/log"
)

const usage = `usage: basketcli [flags] <command> [args]

commands:
  show
  add <deviceId> [quantity]
  remove <deviceId>
  update <deviceId> <quantity>
  clear
`

func main() {
	baseURL := flag.String("base", envOr("API_BASE_URL", "http://localhost:10000"), "API base URL")
	email := flag.String("email", os.Getenv("BASKET_EMAIL"), "login email")
	password := flag.String("password", os.Getenv("BASKET_PASSWORD"), "login password")
	token := flag.String("token", os.Getenv("BASKET_TOKEN"), "JWT (skips login)")
	timeout := flag.Duration("timeout", 30*time.Second, "overall timeout")
	flag.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), usage)
		flag.PrintDefaults()
	}
	flag.Parse()

	logger := log.New("basketcli")
	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	api := client.New(*baseURL, client.WithToken(*token))
	if *token == "" {
		u, err := api.Login(ctx, *email, *password)
		if err != nil {
			logger.Fatalf("login: %v", err)
		}
		if u == nil {
			logger.Fatal("login: invalid email or password")
		}
		logger.Infof("logged in as %s", u.Email)
	}

	notes := store.NewNotificationStore()
	basket := store.NewBasketStore(api, notes)

	err := run(ctx, basket, flag.Args())
	for _, n := range notes.Active() {
		fmt.Fprintf(os.Stderr, "[%s] %s\n", n.Kind, n.Message)
	}
	if err != nil {
		logger.Error(err)
		os.Exit(1)
	}
	printBasket(os.Stdout, basket)
}

func run(ctx context.Context, b *store.BasketStore, args []string) error {
	if err := b.LoadBasket(ctx); err != nil {
		return err
	}

	switch args[0] {
	case "show":
		return nil
	case "add":
		id, err := argInt(args, 1)
		if err != nil {
			return err
		}
		qty := int64(1)
		if len(args) > 2 {
			if qty, err = argInt(args, 2); err != nil {
				return err
			}
		}
		return b.AddItem(ctx, id, qty)
	case "remove":
		id, err := argInt(args, 1)
		if err != nil {
			return err
		}
		return b.RemoveItem(ctx, id)
	case "update":
		id, err := argInt(args, 1)
		if err != nil {
			return err
		}
		qty, err := argInt(args, 2)
		if err != nil {
			return err
		}
		return b.UpdateQuantity(ctx, id, qty)
	case "clear":
		return b.ClearAllItems(ctx)
	default:
		return fmt.Errorf("unknown command %q", args[0])
	}
}

func argInt(args []string, i int) (int64, error) {
	if len(args) <= i {
		return 0, fmt.Errorf("missing argument %d", i)
	}
	return strconv.ParseInt(args[i], 10, 64)
}

func printBasket(w io.Writer, b *store.BasketStore) {
	items := b.Items()
	if len(items) == 0 {
		fmt.Fprintln(w, "basket is empty")
		return
	}
	for _, it := range items {
		name, price := "", int64(0)
		if it.Device != nil {
			name, price = it.Device.Name, it.Device.Price
		}
		fmt.Fprintf(w, "%6d  %-32s x%-4d %s\n", it.DeviceID, name, it.Quantity, client.FormatPrice(price))
	}
	fmt.Fprintf(w, "total: %d item(s), %s\n", store.TotalQuantity(items), client.FormatPrice(store.TotalPrice(items)))
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
