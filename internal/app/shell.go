package app

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"

	"github.com/rl1809/vending/internal/core/domain"
	"github.com/rl1809/vending/internal/core/service"
	"github.com/rl1809/vending/internal/port"
)

const shellHelp = `Commands:
- inventory
- buy <item> [qty]   (or "buy 2 chips and 1 soda")
- insert <amount>
- balance
- refund
- sales
- exit`

// Shell is the interactive command loop of a single machine.
type Shell struct {
	svc   *service.VendingService
	sales port.SaleRepository
	in    io.Reader
	out   io.Writer
}

func NewShell(svc *service.VendingService, sales port.SaleRepository, in io.Reader, out io.Writer) *Shell {
	return &Shell{svc: svc, sales: sales, in: in, out: out}
}

// Run reads commands until exit, end of input or cancellation of ctx.
func (s *Shell) Run(ctx context.Context) error {
	fmt.Fprintln(s.out, "Welcome to the vending machine. Type 'help' for commands, 'exit' to quit.")

	done := make(chan struct{})
	defer close(done)
	lines := make(chan string)
	readErr := make(chan error, 1)
	go func() {
		scanner := bufio.NewScanner(s.in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-done:
				return
			}
		}
		readErr <- scanner.Err()
		close(lines)
	}()

	for {
		fmt.Fprint(s.out, "You > ")
		select {
		case <-ctx.Done():
			fmt.Fprintln(s.out)
			fmt.Fprintln(s.out, "Interrupted. Session saved. Goodbye!")
			return nil
		case line, ok := <-lines:
			if !ok {
				return <-readErr
			}
			if s.Execute(ctx, line) {
				fmt.Fprintln(s.out, "Session saved. Goodbye!")
				return nil
			}
		}
	}
}

// Execute runs one command line and reports whether the session should end.
func (s *Shell) Execute(ctx context.Context, line string) bool {
	line = strings.TrimSpace(line)
	cmd, arg, _ := strings.Cut(line, " ")
	arg = strings.TrimSpace(arg)

	switch strings.ToLower(cmd) {
	case "":
	case "exit", "quit":
		return true
	case "help":
		s.box(shellHelp)
	case "inventory":
		s.inventory(ctx)
	case "insert":
		s.insert(ctx, arg)
	case "balance":
		s.box("Current balance: " + money(s.svc.Balance(ctx)))
	case "refund":
		s.refund(ctx)
	case "buy":
		s.buy(ctx, arg)
	case "sales":
		s.listSales(ctx)
	default:
		s.box("Unknown command " + cmd + ". Type 'help' for commands.")
	}
	return false
}

func (s *Shell) inventory(ctx context.Context) {
	items := s.svc.Inventory(ctx)
	if len(items) == 0 {
		s.box("No items available!")
		return
	}
	lines := []string{"INVENTORY:"}
	for _, item := range items {
		lines = append(lines, fmt.Sprintf("%-14s | %6s | %d in stock", title(item.Name), money(item.Price), item.Quantity))
	}
	s.box(strings.Join(lines, "\n"))
}

func (s *Shell) insert(ctx context.Context, arg string) {
	res := s.svc.InsertMoney(ctx, arg)
	if !res.Success {
		s.box("Invalid amount. Amount must be a positive number.")
		return
	}
	s.box(fmt.Sprintf("Inserted: %s\nBalance: %s", money(res.Inserted), money(res.Balance)))
}

func (s *Shell) refund(ctx context.Context) {
	if !s.svc.Balance(ctx).IsPositive() {
		s.box("No balance to refund.")
		return
	}
	s.box("Refunded: " + money(s.svc.Refund(ctx)))
}

func (s *Shell) buy(ctx context.Context, arg string) {
	if arg == "" {
		s.box("What would you like to buy? Usage: buy <item> [qty]")
		return
	}
	total := decimal.Zero
	var bought, failed []string
	for _, line := range s.svc.PurchaseMany(ctx, arg) {
		res := line.Result
		if !res.Success {
			failed = append(failed, fmt.Sprintf("Could not buy %d %s: %s", line.Quantity, line.Name, describe(res)))
			continue
		}
		total = total.Add(res.TotalCost)
		bought = append(bought, fmt.Sprintf("%d %s", res.Bought, res.Item))
	}
	var lines []string
	lines = append(lines, failed...)
	if len(bought) > 0 {
		lines = append(lines,
			"Purchased: "+strings.Join(bought, ", "),
			"Total cost: "+money(total),
			"Remaining balance: "+money(s.svc.Balance(ctx)))
	}
	s.box(strings.Join(lines, "\n"))
}

func (s *Shell) listSales(ctx context.Context) {
	sales, err := s.sales.ListSales(ctx, s.svc.MachineID(), 10)
	if err != nil {
		s.box("Error: " + err.Error())
		return
	}
	if len(sales) == 0 {
		s.box("No sales yet.")
		return
	}
	lines := []string{"RECENT SALES:"}
	for _, sale := range sales {
		lines = append(lines, fmt.Sprintf("%s  %d x %s  %s",
			sale.CreatedAt.Format("15:04:05"), sale.Bought, sale.Item, money(sale.TotalCost)))
	}
	s.box(strings.Join(lines, "\n"))
}

func describe(res domain.PurchaseResult) string {
	switch res.Reason {
	case domain.ReasonInsufficientFunds:
		return fmt.Sprintf("insufficient funds, required %s, balance %s", money(res.Required), money(res.Balance))
	case domain.ReasonOutOfStock:
		return "out of stock"
	case domain.ReasonNotFound:
		return "no such item"
	default:
		return string(res.Reason)
	}
}

func (s *Shell) box(text string) {
	lines := strings.Split(text, "\n")
	width := 0
	for _, line := range lines {
		width = max(width, utf8.RuneCountInString(line))
	}
	fmt.Fprintln(s.out, "┌"+strings.Repeat("─", width+2)+"┐")
	for _, line := range lines {
		fmt.Fprintf(s.out, "│ %s%s │\n", line, strings.Repeat(" ", width-utf8.RuneCountInString(line)))
	}
	fmt.Fprintln(s.out, "└"+strings.Repeat("─", width+2)+"┘")
}

func money(d decimal.Decimal) string {
	return "$" + d.StringFixed(2)
}

func title(name string) string {
	words := strings.Fields(name)
	for i, w := range words {
		r, size := utf8.DecodeRuneInString(w)
		words[i] = strings.ToUpper(string(r)) + w[size:]
	}
	return strings.Join(words, " ")
}
