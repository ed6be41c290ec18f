// Command pos runs a terminal point-of-sale register against the RestockIQ
// API. The catalog refreshes in the background while the operator rings up
// sales line by line.
package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/shopspring/decimal"

	"github.com/PrincessAkira/RestockIQ/internal/catalog"
	"github.com/PrincessAkira/RestockIQ/internal/client"
	"github.com/PrincessAkira/RestockIQ/internal/config"
	"github.com/PrincessAkira/RestockIQ/internal/domain"
	"github.com/PrincessAkira/RestockIQ/internal/pos"
	"github.com/PrincessAkira/RestockIQ/internal/receipt"
)

const storeName = "RestockIQ Store"

func main() {
	cfg := config.FromEnv()
	logger := log.New(os.Stderr, "[pos] ", log.LstdFlags|log.LUTC)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cli := client.New(cfg.APIBaseURL, client.WithLogger(logger))

	var session *pos.Session
	if email := os.Getenv("POS_EMAIL"); email != "" {
		s, err := cli.Login(ctx, email, os.Getenv("POS_PASSWORD"))
		if err != nil {
			logger.Fatalf("login: %v", err)
		}
		session = s
		defer func() {
			if err := cli.Logout(context.Background()); err != nil {
				logger.Printf("logout: %v", err)
			}
		}()
	}

	poller := catalog.NewPoller(cli, cfg.PollInterval, logger)
	go poller.Run(ctx)

	register := pos.NewRegister(cli,
		pos.WithSession(session),
		pos.WithTaxRate(decimal.New(int64(cfg.TaxRatePermil), -3)),
	)
	currency := pos.Currency(cfg.Currency)

	fmt.Printf("%s | operator %s (type 'help' for commands)\n", storeName, register.Operator())

	var completed []pos.Transaction
	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Printf("[%s] > ", register.State())
		if !scanner.Scan() {
			break
		}
		args := strings.Fields(scanner.Text())
		if len(args) == 0 {
			continue
		}
		if args[0] == "quit" || args[0] == "exit" {
			break
		}
		runCommand(ctx, register, poller, currency, &completed, args)
		if ctx.Err() != nil {
			break
		}
	}
	fmt.Println("bye")
}

func runCommand(ctx context.Context, register *pos.Register, poller *catalog.Poller, currency pos.Currency, completed *[]pos.Transaction, args []string) {
	switch args[0] {
	case "help":
		printHelp()
	case "list":
		printProducts(poller.Products())
	case "find":
		if len(args) < 2 {
			fmt.Println("usage: find <query>")
			return
		}
		printProducts(poller.Search(strings.Join(args[1:], " ")))
	case "add":
		addItem(register, poller, args)
	case "qty":
		setQuantity(register, args)
	case "rm":
		removeItem(register, args)
	case "cart":
		printCart(register)
	case "pay":
		payAndPrint(ctx, register, currency, completed, args)
	case "receipt":
		txn, err := register.Receipt()
		if err != nil {
			fmt.Println(err)
			return
		}
		printReceipt(*txn)
	case "next":
		register.Acknowledge()
	case "undo":
		if len(args) != 2 {
			fmt.Println("usage: undo <sale-id>")
			return
		}
		if err := register.Undo(ctx, args[1]); err != nil {
			fmt.Println(err)
			return
		}
		fmt.Printf("sale %s reversed, stock restored\n", args[1])
	case "export":
		exportSales(*completed, args)
	case "sync":
		fmt.Printf("catalog last synced %s\n", poller.LastSync().Format("15:04:05"))
	default:
		fmt.Printf("unknown command %q (try 'help')\n", args[0])
	}
}

func printHelp() {
	fmt.Print(`commands:
  list                 show the catalog
  find <query>         search by name or code
  add <id> [qty]       add a product to the cart
  qty <id> <n>         change a line's quantity
  rm <id>              remove a line
  cart                 show lines and totals
  pay <amount> [cash|card|mobile]
  receipt              reprint the last receipt
  next                 dismiss the receipt, start a new sale
  undo <sale-id>       reverse a recorded sale
  export <file.csv>    export this shift's sales
  sync                 show the last catalog refresh
  quit
`)
}

func printProducts(products []domain.Product) {
	if len(products) == 0 {
		fmt.Println("no products (catalog still syncing?)")
		return
	}
	fmt.Printf("%4s  %-10s %-24s %9s %6s\n", "ID", "CODE", "NAME", "PRICE", "STOCK")
	for _, p := range products {
		fmt.Printf("%4d  %-10s %-24s %9s %6d\n", p.ID, p.Code, p.Name, p.PriceCents, p.Stock)
	}
}

func addItem(register *pos.Register, poller *catalog.Poller, args []string) {
	if len(args) < 2 {
		fmt.Println("usage: add <id> [qty]")
		return
	}
	id, err := strconv.ParseInt(args[1], 10, 64)
	if err != nil {
		fmt.Println("bad product id")
		return
	}
	product, ok := poller.Get(id)
	if !ok {
		fmt.Printf("no product %d in the catalog\n", id)
		return
	}
	qty := 1
	if len(args) > 2 {
		if qty, err = strconv.Atoi(args[2]); err != nil || qty < 1 {
			fmt.Println("bad quantity")
			return
		}
	}
	for i := 0; i < qty; i++ {
		register.AddItem(product)
	}
	printCart(register)
}

func setQuantity(register *pos.Register, args []string) {
	if len(args) != 3 {
		fmt.Println("usage: qty <id> <n>")
		return
	}
	id, err1 := strconv.ParseInt(args[1], 10, 64)
	n, err2 := strconv.Atoi(args[2])
	if err1 != nil || err2 != nil {
		fmt.Println("usage: qty <id> <n>")
		return
	}
	register.SetQuantity(id, n)
	printCart(register)
}

func removeItem(register *pos.Register, args []string) {
	if len(args) != 2 {
		fmt.Println("usage: rm <id>")
		return
	}
	id, err := strconv.ParseInt(args[1], 10, 64)
	if err != nil {
		fmt.Println("bad product id")
		return
	}
	register.RemoveItem(id)
	printCart(register)
}

func printCart(register *pos.Register) {
	lines := register.Lines()
	if len(lines) == 0 {
		fmt.Println("cart is empty")
		return
	}
	for _, l := range lines {
		fmt.Printf("  %-24s %2d x %8s = %8s\n", l.Name, l.Quantity, l.UnitPrice, l.Subtotal())
	}
	t := register.Totals()
	fmt.Printf("  subtotal %s  tax %s  total %s\n", t.Subtotal, t.Tax, t.Total)
}

func payAndPrint(ctx context.Context, register *pos.Register, currency pos.Currency, completed *[]pos.Transaction, args []string) {
	if len(args) < 2 {
		fmt.Println("usage: pay <amount> [cash|card|mobile]")
		return
	}
	tendered, err := domain.ParseAmount(args[1])
	if err != nil {
		fmt.Printf("bad amount: %v\n", err)
		return
	}
	method := pos.MethodCash
	if len(args) > 2 {
		switch args[2] {
		case "cash":
			method = pos.MethodCash
		case "card":
			method = pos.MethodCard
		case "mobile":
			method = pos.MethodMobileMoney
		default:
			fmt.Println("method must be cash, card or mobile")
			return
		}
	}

	txn, err := register.Checkout(ctx, pos.Payment{Tendered: tendered, Currency: currency, Method: method})
	if err != nil {
		if errors.Is(err, pos.ErrInsufficientPayment) {
			fmt.Printf("insufficient payment: total is %s\n", register.Totals().Total)
			return
		}
		fmt.Printf("checkout failed, cart preserved: %v\n", err)
		return
	}
	*completed = append(*completed, *txn)
	printReceipt(*txn)
}

func printReceipt(txn pos.Transaction) {
	if err := receipt.Render(os.Stdout, storeName, txn); err != nil {
		fmt.Printf("print receipt: %v\n", err)
	}
}

func exportSales(completed []pos.Transaction, args []string) {
	if len(args) != 2 {
		fmt.Println("usage: export <file.csv>")
		return
	}
	f, err := os.Create(args[1])
	if err != nil {
		fmt.Printf("create %s: %v\n", args[1], err)
		return
	}
	defer f.Close()
	if err := receipt.ExportCSV(f, completed); err != nil {
		fmt.Printf("export: %v\n", err)
		return
	}
	fmt.Printf("wrote %d sale(s) to %s\n", len(completed), args[1])
}
